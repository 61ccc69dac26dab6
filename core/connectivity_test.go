package core

import (
	"testing"

	"github.com/meshfabric/wmn-simulator/model"
)

func TestStationAssociatesWithNearestAP(t *testing.T) {
	n := newTestNetwork(t)
	addNode(t, n, "sta1", model.KindStation, model.Position{X: 45, Y: 50})
	addNode(t, n, "ap1", model.KindAccessPoint, model.Position{X: 50, Y: 50})
	addNode(t, n, "ap2", model.KindAccessPoint, model.Position{X: 150, Y: 50})

	n.Start()
	NewConnectivityService(n, nil).Update(t.Context())

	got := n.Neighbors("sta1")
	if len(got) != 1 || got[0] != "ap1" {
		t.Fatalf("Neighbors(sta1) = %v, want [ap1]", got)
	}
}

func TestStationPicksStrongestOfMultipleAPs(t *testing.T) {
	n := newTestNetwork(t)
	// Both APs are in range; ap2 is closer and must win.
	addNode(t, n, "sta1", model.KindStation, model.Position{X: 70, Y: 50})
	addNode(t, n, "ap1", model.KindAccessPoint, model.Position{X: 50, Y: 50})
	addNode(t, n, "ap2", model.KindAccessPoint, model.Position{X: 80, Y: 50})

	n.Start()
	NewConnectivityService(n, nil).Update(t.Context())

	got := n.Neighbors("sta1")
	if len(got) != 1 || got[0] != "ap2" {
		t.Fatalf("Neighbors(sta1) = %v, want [ap2]", got)
	}
}

func TestStationOutOfRangeHasNoAssociation(t *testing.T) {
	n := newTestNetwork(t)
	addNode(t, n, "sta1", model.KindStation, model.Position{X: 0, Y: 0})
	addNode(t, n, "ap1", model.KindAccessPoint, model.Position{X: 150, Y: 150})

	n.Start()
	NewConnectivityService(n, nil).Update(t.Context())

	if got := n.Neighbors("sta1"); len(got) != 0 {
		t.Fatalf("Neighbors(sta1) = %v, want none", got)
	}
}

func TestAssociationFollowsMovingStation(t *testing.T) {
	n := newTestNetwork(t)
	addNode(t, n, "sta1", model.KindStation, model.Position{X: 45, Y: 50})
	addNode(t, n, "ap1", model.KindAccessPoint, model.Position{X: 50, Y: 50})
	addNode(t, n, "ap2", model.KindAccessPoint, model.Position{X: 150, Y: 50})

	n.Start()
	cs := NewConnectivityService(n, nil)
	cs.Update(t.Context())
	if got := n.Neighbors("sta1"); len(got) != 1 || got[0] != "ap1" {
		t.Fatalf("before move: Neighbors(sta1) = %v, want [ap1]", got)
	}

	if err := n.SetPosition("sta1", model.Position{X: 145, Y: 50}); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	cs.Update(t.Context())
	if got := n.Neighbors("sta1"); len(got) != 1 || got[0] != "ap2" {
		t.Fatalf("after move: Neighbors(sta1) = %v, want [ap2]", got)
	}
}

func TestImpairmentSurvivesAssociationRebuild(t *testing.T) {
	n := newTestNetwork(t)
	addNode(t, n, "sta1", model.KindStation, model.Position{X: 45, Y: 50})
	addNode(t, n, "ap1", model.KindAccessPoint, model.Position{X: 50, Y: 50})

	n.Start()
	cs := NewConnectivityService(n, nil)
	cs.Update(t.Context())

	links := n.Links()
	if len(links) != 1 {
		t.Fatalf("links = %d, want 1", len(links))
	}
	if err := n.SetLinkImpaired(links[0].ID, true); err != nil {
		t.Fatalf("SetLinkImpaired: %v", err)
	}

	// A second update rebuilds the association; the impairment must
	// carry over and keep the link down.
	cs.Update(t.Context())
	if got := n.Neighbors("sta1"); len(got) != 0 {
		t.Fatalf("Neighbors(sta1) = %v, want none while impaired", got)
	}

	rebuilt := n.Links()
	if len(rebuilt) != 1 || !rebuilt[0].IsImpaired || rebuilt[0].IsUp {
		t.Fatalf("rebuilt link = %+v, want impaired and down", rebuilt[0])
	}
}

func TestWiredLinksDownUntilStart(t *testing.T) {
	n := newTestNetwork(t)
	addNode(t, n, "s1", model.KindSwitch, model.Position{})
	addNode(t, n, "s2", model.KindSwitch, model.Position{})
	if _, err := n.AddLink("s1", "s2", LinkOptions{}); err != nil {
		t.Fatalf("AddLink: %v", err)
	}

	cs := NewConnectivityService(n, nil)
	cs.Update(t.Context())
	if n.CountNodes().LinksUp != 0 {
		t.Fatal("links up before Start, want all down")
	}

	n.Start()
	cs.Update(t.Context())
	if n.CountNodes().LinksUp != 1 {
		t.Fatal("link still down after Start and Update")
	}
}
