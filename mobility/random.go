package mobility

import (
	"fmt"

	"github.com/iti/rngstream"

	"github.com/meshfabric/wmn-simulator/model"
)

// RandomWaypoints draws count uniformly random waypoints inside the
// arena bounds. Waypoints come from a per-node rngstream; streams are
// deterministic for a fixed creation order, so a run with the same
// node set and seed replays the same walks. The seed offsets the
// stream so distinct seeds give distinct walks.
func RandomWaypoints(nodeID string, seed int, count int, maxX, maxY float64) []model.Position {
	if count <= 0 {
		return nil
	}
	rng := rngstream.New(fmt.Sprintf("mobility-%s", nodeID))
	if seed < 0 {
		seed = -seed
	}
	for i := 0; i < seed%251; i++ {
		rng.RandU01()
	}

	out := make([]model.Position, count)
	for i := range out {
		out[i] = model.Position{
			X: rng.RandU01() * maxX,
			Y: rng.RandU01() * maxY,
		}
	}
	return out
}
