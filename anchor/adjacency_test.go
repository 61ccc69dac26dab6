package anchor

import (
	"errors"
	"testing"

	"github.com/meshfabric/wmn-simulator/model"
)

func nodeList(ids ...string) []model.NodeDefinition {
	out := make([]model.NodeDefinition, len(ids))
	for i, id := range ids {
		out[i] = model.NodeDefinition{ID: id, Name: id, Kind: model.KindSwitch}
	}
	return out
}

func probeFrom(edges map[string][]string) NeighborProbe {
	return func(nodeID string) []string {
		return edges[nodeID]
	}
}

func TestBuildAdjacencySymmetricZeroDiagonal(t *testing.T) {
	nodes := nodeList("a", "b", "c")
	adj, err := BuildAdjacency(nodes, probeFrom(map[string][]string{
		"a": {"b"},
		"b": {"a", "c"},
		"c": {"b"},
	}))
	if err != nil {
		t.Fatalf("BuildAdjacency: %v", err)
	}

	if got := adj.Dim(); got != 3 {
		t.Fatalf("Dim = %d, want 3", got)
	}
	for i := 0; i < 3; i++ {
		if adj.Connected(i, i) {
			t.Fatalf("diagonal entry (%d,%d) set", i, i)
		}
		for j := 0; j < 3; j++ {
			if adj.Connected(i, j) != adj.Connected(j, i) {
				t.Fatalf("matrix asymmetric at (%d,%d)", i, j)
			}
		}
	}
	if got := adj.Degrees(); got[0] != 1 || got[1] != 2 || got[2] != 1 {
		t.Fatalf("Degrees = %v, want [1 2 1]", got)
	}
}

func TestBuildAdjacencyDropsUnknownAndSelfNeighbors(t *testing.T) {
	nodes := nodeList("a", "b")
	adj, err := BuildAdjacency(nodes, probeFrom(map[string][]string{
		"a": {"a", "b", "h1"}, // self-report and a host outside the snapshot
		"b": {"a"},
	}))
	if err != nil {
		t.Fatalf("BuildAdjacency: %v", err)
	}
	if !adj.Connected(0, 1) || !adj.Connected(1, 0) {
		t.Fatal("a and b should be connected")
	}
	if adj.Connected(0, 0) {
		t.Fatal("self-report must not set the diagonal")
	}
	if got := adj.Degree(0); got != 1 {
		t.Fatalf("Degree(a) = %d, want 1 (host neighbor dropped)", got)
	}
}

func TestBuildAdjacencyRejectsEmptySnapshot(t *testing.T) {
	if _, err := BuildAdjacency(nil, probeFrom(nil)); !errors.Is(err, ErrInvalidTopology) {
		t.Fatalf("err = %v, want ErrInvalidTopology", err)
	}
}

func TestBuildAdjacencyRejectsNilProbe(t *testing.T) {
	if _, err := BuildAdjacency(nodeList("a"), nil); !errors.Is(err, ErrInvalidTopology) {
		t.Fatalf("err = %v, want ErrInvalidTopology", err)
	}
}

func TestBuildAdjacencyRejectsDuplicateNodes(t *testing.T) {
	nodes := nodeList("a", "b", "a")
	if _, err := BuildAdjacency(nodes, probeFrom(nil)); !errors.Is(err, ErrInvalidTopology) {
		t.Fatalf("err = %v, want ErrInvalidTopology", err)
	}
}

func TestSnapshotIsImmutableAfterCapture(t *testing.T) {
	nodes := nodeList("a", "b")
	edges := map[string][]string{"a": {"b"}, "b": {"a"}}
	snap := NewSnapshot(nodes, probeFrom(edges))

	// Mutate the live graph after capture; the snapshot must not see it.
	edges["a"] = nil
	edges["b"] = nil

	adj, err := BuildAdjacency(snap.Nodes(), snap.Probe())
	if err != nil {
		t.Fatalf("BuildAdjacency: %v", err)
	}
	if !adj.Connected(0, 1) {
		t.Fatal("snapshot lost connectivity captured before the mutation")
	}
}
