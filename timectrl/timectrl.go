// Package timectrl drives simulation time: a TimeController steps
// through ticks, in real time or as fast as the loop can run, and
// notifies listeners with the simulation time and elapsed offset.
package timectrl

import (
	"sync"
	"time"
)

// Mode describes how the TimeController advances simulation time.
type Mode int

const (
	// RealTime advances according to wall-clock time.
	RealTime Mode = iota
	// Accelerated advances as fast as the loop can run, still
	// stepping simulation time by whole ticks.
	Accelerated
)

// Listener is invoked on every tick with the current simulation time
// and the elapsed offset from the start of the run.
type Listener func(simTime time.Time, elapsed time.Duration)

// TimeController steps simulation time and fans ticks out to
// listeners. Listeners run synchronously on the tick loop, so a slow
// listener slows the simulation rather than racing it.
type TimeController struct {
	mu      sync.RWMutex
	start   time.Time
	tick    time.Duration
	mode    Mode
	current time.Time

	listeners []Listener
}

// New constructs a controller starting at the given simulation time.
func New(start time.Time, tick time.Duration, mode Mode) *TimeController {
	if tick <= 0 {
		tick = time.Second
	}
	return &TimeController{start: start, tick: tick, mode: mode, current: start}
}

// Now returns the current simulation time.
func (tc *TimeController) Now() time.Time {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.current
}

// Tick returns the tick interval.
func (tc *TimeController) Tick() time.Duration { return tc.tick }

// AddListener registers a callback invoked on every tick. Listeners
// must be registered before Start.
func (tc *TimeController) AddListener(fn Listener) {
	tc.listeners = append(tc.listeners, fn)
}

// Start runs the controller for the given simulation duration in a
// separate goroutine and returns a channel closed when it finishes.
// In RealTime mode each tick waits for wall-clock time; in Accelerated
// mode ticks fire back to back.
func (tc *TimeController) Start(duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		var ticker *time.Ticker
		if tc.mode == RealTime {
			ticker = time.NewTicker(tc.tick)
			defer ticker.Stop()
		}

		elapsed := time.Duration(0)
		for elapsed < duration {
			if ticker != nil {
				<-ticker.C
			}
			elapsed += tc.tick
			simTime := tc.start.Add(elapsed)

			tc.mu.Lock()
			tc.current = simTime
			tc.mu.Unlock()

			for _, fn := range tc.listeners {
				fn(simTime, elapsed)
			}
		}
	}()
	return done
}
