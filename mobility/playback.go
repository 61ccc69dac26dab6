package mobility

import (
	"context"
	"time"

	"github.com/meshfabric/wmn-simulator/internal/logging"
	"github.com/meshfabric/wmn-simulator/model"
)

// PositionSetter is the slice of the topology store playback needs.
type PositionSetter interface {
	SetPosition(nodeID string, pos model.Position) error
}

// Playback replays a set of trajectories against the topology. It has
// no clock of its own; the caller advances it with the elapsed
// simulation time each tick.
type Playback struct {
	trajectories []Trajectory
	setter       PositionSetter
	log          logging.Logger
}

// NewPlayback binds trajectories to the node store they move.
func NewPlayback(setter PositionSetter, log logging.Logger, trajectories ...Trajectory) *Playback {
	if log == nil {
		log = logging.Noop()
	}
	trs := make([]Trajectory, len(trajectories))
	copy(trs, trajectories)
	return &Playback{trajectories: trs, setter: setter, log: log}
}

// Advance moves every node to its scripted position at the elapsed
// playback time. Unknown nodes are logged and skipped; one bad
// trajectory must not stall the others.
func (p *Playback) Advance(ctx context.Context, elapsed time.Duration) {
	for _, tr := range p.trajectories {
		pos := tr.PositionAt(elapsed)
		if err := p.setter.SetPosition(tr.NodeID, pos); err != nil {
			p.log.Warn(ctx, "mobility update failed",
				logging.String("node", tr.NodeID),
				logging.Err(err),
			)
		}
	}
}

// Window returns the earliest start and latest stop across all
// trajectories: the playback window.
func (p *Playback) Window() (start, stop time.Duration) {
	for i, tr := range p.trajectories {
		if i == 0 || tr.Start < start {
			start = tr.Start
		}
		if tr.Stop > stop {
			stop = tr.Stop
		}
	}
	return start, stop
}

// Done reports whether every trajectory has reached its stop time.
func (p *Playback) Done(elapsed time.Duration) bool {
	_, stop := p.Window()
	return elapsed >= stop
}
