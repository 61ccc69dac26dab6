// Package anchor elects the mobility anchor: the node that should host
// mobility-management state for migrating stations. It works on an
// immutable connectivity snapshot, never on live topology state, so a
// run is a pure function of its inputs and concurrent runs over
// distinct snapshots are safe.
package anchor

import (
	"errors"

	"github.com/meshfabric/wmn-simulator/model"
)

var (
	// ErrInvalidTopology flags an unusable snapshot: no nodes,
	// duplicate nodes, or matrix/node-list dimensions that disagree.
	ErrInvalidTopology = errors.New("invalid topology")

	// ErrNotImplemented is reported by route selectors that define the
	// contract but no algorithm.
	ErrNotImplemented = errors.New("route selection not implemented")
)

// NeighborProbe reports the IDs of the nodes currently connected to
// the node with the given ID. IDs that are not part of the snapshot's
// node list are ignored by the adjacency builder.
type NeighborProbe func(nodeID string) []string

// Snapshot is a single, immutable capture of the participating nodes
// and their pairwise connectivity at one instant. The node ordering is
// fixed at capture time and determines matrix indices downstream.
type Snapshot struct {
	nodes     []model.NodeDefinition
	neighbors map[string][]string
}

// NewSnapshot captures the given node ordering and the probe's answers
// for every node. The probe is evaluated once per node here, so later
// changes to the underlying graph do not leak into the snapshot.
func NewSnapshot(nodes []model.NodeDefinition, probe NeighborProbe) Snapshot {
	snap := Snapshot{
		nodes:     make([]model.NodeDefinition, len(nodes)),
		neighbors: make(map[string][]string, len(nodes)),
	}
	copy(snap.nodes, nodes)
	if probe != nil {
		for _, nd := range nodes {
			got := probe(nd.ID)
			ids := make([]string, len(got))
			copy(ids, got)
			snap.neighbors[nd.ID] = ids
		}
	}
	return snap
}

// Len returns the number of nodes in the snapshot.
func (s Snapshot) Len() int { return len(s.nodes) }

// Nodes returns a copy of the ordered node list.
func (s Snapshot) Nodes() []model.NodeDefinition {
	out := make([]model.NodeDefinition, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Probe returns a NeighborProbe answering from the captured
// connectivity, independent of the live network.
func (s Snapshot) Probe() NeighborProbe {
	return func(nodeID string) []string {
		return s.neighbors[nodeID]
	}
}
