package core

import (
	"errors"
	"testing"

	"github.com/meshfabric/wmn-simulator/model"
)

func newTestNetwork(t *testing.T) *Network {
	t.Helper()
	return NewNetwork(DefaultLogDistanceModel())
}

func addNode(t *testing.T, n *Network, id string, kind model.NodeKind, pos model.Position) {
	t.Helper()
	if err := n.AddNode(&model.NodeDefinition{ID: id, Kind: kind, Position: pos}); err != nil {
		t.Fatalf("AddNode(%s): %v", id, err)
	}
}

func TestAddNodeRejectsDuplicates(t *testing.T) {
	n := newTestNetwork(t)
	addNode(t, n, "s1", model.KindSwitch, model.Position{})

	err := n.AddNode(&model.NodeDefinition{ID: "s1", Kind: model.KindHost})
	if !errors.Is(err, ErrNodeExists) {
		t.Fatalf("err = %v, want ErrNodeExists", err)
	}
}

func TestAddNodeRejectsUnknownKind(t *testing.T) {
	n := newTestNetwork(t)
	err := n.AddNode(&model.NodeDefinition{ID: "x1", Kind: model.NodeKind("router")})
	if !errors.Is(err, ErrBadInput) {
		t.Fatalf("err = %v, want ErrBadInput", err)
	}
}

func TestAddLinkValidation(t *testing.T) {
	n := newTestNetwork(t)
	addNode(t, n, "s1", model.KindSwitch, model.Position{})
	addNode(t, n, "s2", model.KindSwitch, model.Position{})

	if _, err := n.AddLink("s1", "missing", LinkOptions{}); !errors.Is(err, ErrUnknownEndpoint) {
		t.Fatalf("unknown endpoint err = %v, want ErrUnknownEndpoint", err)
	}
	if _, err := n.AddLink("s1", "s1", LinkOptions{}); !errors.Is(err, ErrBadInput) {
		t.Fatalf("self link err = %v, want ErrBadInput", err)
	}

	if _, err := n.AddLink("s1", "s2", LinkOptions{BandwidthMbps: 300}); err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	if _, err := n.AddLink("s1", "s2", LinkOptions{}); !errors.Is(err, ErrLinkExists) {
		t.Fatalf("duplicate err = %v, want ErrLinkExists", err)
	}
	if _, err := n.AddLink("s2", "s1", LinkOptions{}); !errors.Is(err, ErrLinkExists) {
		t.Fatalf("reversed duplicate err = %v, want ErrLinkExists", err)
	}
}

func TestNeighborsOnlyUpLinks(t *testing.T) {
	n := newTestNetwork(t)
	addNode(t, n, "s1", model.KindSwitch, model.Position{})
	addNode(t, n, "s2", model.KindSwitch, model.Position{})
	addNode(t, n, "s3", model.KindSwitch, model.Position{})
	if _, err := n.AddLink("s1", "s2", LinkOptions{}); err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	if _, err := n.AddLink("s1", "s3", LinkOptions{}); err != nil {
		t.Fatalf("AddLink: %v", err)
	}

	// Links start down until connectivity evaluates them.
	if got := n.Neighbors("s1"); len(got) != 0 {
		t.Fatalf("Neighbors before start = %v, want none", got)
	}

	n.Start()
	NewConnectivityService(n, nil).Update(t.Context())

	got := n.Neighbors("s1")
	if len(got) != 2 || got[0] != "s2" || got[1] != "s3" {
		t.Fatalf("Neighbors = %v, want [s2 s3]", got)
	}
}

func TestSetLinkImpairedUnknownLink(t *testing.T) {
	n := newTestNetwork(t)
	if err := n.SetLinkImpaired("nope", true); !errors.Is(err, ErrLinkNotFound) {
		t.Fatalf("err = %v, want ErrLinkNotFound", err)
	}
}

func TestSetPositionUnknownNode(t *testing.T) {
	n := newTestNetwork(t)
	if err := n.SetPosition("ghost", model.Position{X: 1}); !errors.Is(err, ErrNodeNotFound) {
		t.Fatalf("err = %v, want ErrNodeNotFound", err)
	}
}

func TestSnapshotOrderingAndMembership(t *testing.T) {
	n := newTestNetwork(t)
	// Interleave kinds; the snapshot must still order stations, then
	// access points, then switches, each in insertion order, and leave
	// hosts and the controller out.
	addNode(t, n, "h1", model.KindHost, model.Position{})
	addNode(t, n, "sta1", model.KindStation, model.Position{})
	addNode(t, n, "ap1", model.KindAccessPoint, model.Position{})
	addNode(t, n, "s1", model.KindSwitch, model.Position{})
	addNode(t, n, "sta2", model.KindStation, model.Position{})
	addNode(t, n, "c1", model.KindController, model.Position{})

	snap := n.Snapshot()
	ids := make([]string, 0, snap.Len())
	for _, nd := range snap.Nodes() {
		ids = append(ids, nd.ID)
	}
	want := []string{"sta1", "sta2", "ap1", "s1"}
	if len(ids) != len(want) {
		t.Fatalf("snapshot nodes = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("snapshot nodes = %v, want %v", ids, want)
		}
	}
}

func TestStopDropsAssociationsAndDownsLinks(t *testing.T) {
	n := newTestNetwork(t)
	addNode(t, n, "sta1", model.KindStation, model.Position{X: 45, Y: 50})
	addNode(t, n, "ap1", model.KindAccessPoint, model.Position{X: 50, Y: 50})
	addNode(t, n, "s1", model.KindSwitch, model.Position{})
	addNode(t, n, "s2", model.KindSwitch, model.Position{})
	if _, err := n.AddLink("s1", "s2", LinkOptions{}); err != nil {
		t.Fatalf("AddLink: %v", err)
	}

	n.Start()
	NewConnectivityService(n, nil).Update(t.Context())
	if got := n.Neighbors("sta1"); len(got) != 1 {
		t.Fatalf("station neighbors = %v, want [ap1]", got)
	}

	n.Stop()
	if got := len(n.Links()); got != 1 {
		t.Fatalf("links after stop = %d, want 1 (associations dropped)", got)
	}
	if got := n.CountNodes().LinksUp; got != 0 {
		t.Fatalf("links up after stop = %d, want 0", got)
	}
}

func TestCountNodes(t *testing.T) {
	n := newTestNetwork(t)
	addNode(t, n, "h1", model.KindHost, model.Position{})
	addNode(t, n, "sta1", model.KindStation, model.Position{})
	addNode(t, n, "ap1", model.KindAccessPoint, model.Position{})
	addNode(t, n, "ap2", model.KindAccessPoint, model.Position{})
	addNode(t, n, "s1", model.KindSwitch, model.Position{})

	c := n.CountNodes()
	if c.Hosts != 1 || c.Stations != 1 || c.AccessPoints != 2 || c.Switches != 1 {
		t.Fatalf("counts = %+v", c)
	}
}
