// Package mobility replays scripted station movement: each station
// follows a waypoint trajectory over a playback window, and the
// topology store is updated with interpolated positions every tick.
package mobility

import (
	"time"

	"github.com/meshfabric/wmn-simulator/model"
)

// Trajectory is the scripted movement of one node: the waypoints it
// visits, walked at constant pace between its start and stop offsets.
type Trajectory struct {
	NodeID string

	// Start and Stop are offsets from the beginning of playback.
	// Before Start the node sits at the first waypoint; after Stop at
	// its final position.
	Start time.Duration
	Stop  time.Duration

	Waypoints []model.Position

	// Repeat replays the waypoint run this many times within the
	// window; 0 and 1 both mean a single run.
	Repeat int
	// Reverse walks the waypoints backwards on every other run.
	Reverse bool
}

// PositionAt returns the node's position at the given elapsed playback
// time, interpolating linearly along the waypoint legs.
func (tr Trajectory) PositionAt(t time.Duration) model.Position {
	n := len(tr.Waypoints)
	if n == 0 {
		return model.Position{}
	}
	if n == 1 || tr.Stop <= tr.Start {
		return tr.Waypoints[0]
	}
	if t <= tr.Start {
		return tr.Waypoints[0]
	}
	if t > tr.Stop {
		t = tr.Stop
	}

	reps := tr.Repeat
	if reps < 1 {
		reps = 1
	}
	progress := float64(t-tr.Start) / float64(tr.Stop-tr.Start) * float64(reps)
	run := int(progress)
	within := progress - float64(run)
	if run >= reps {
		run, within = reps-1, 1
	}
	if tr.Reverse && run%2 == 1 {
		within = 1 - within
	}

	// Piecewise-linear walk over the waypoint legs.
	scaled := within * float64(n-1)
	leg := int(scaled)
	if leg >= n-1 {
		return tr.Waypoints[n-1]
	}
	u := scaled - float64(leg)
	a, b := tr.Waypoints[leg], tr.Waypoints[leg+1]
	return model.Position{
		X: a.X + (b.X-a.X)*u,
		Y: a.Y + (b.Y-a.Y)*u,
		Z: a.Z + (b.Z-a.Z)*u,
	}
}
