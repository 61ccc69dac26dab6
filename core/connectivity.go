package core

import (
	"context"

	"github.com/meshfabric/wmn-simulator/internal/logging"
	"github.com/meshfabric/wmn-simulator/model"
)

// ConnectivityService re-evaluates which links are usable at the
// current instant: it rebuilds station–AP associations from node
// positions and the propagation model, then evaluates every link's up
// state. Call Update after each mobility step.
type ConnectivityService struct {
	net *Network
	log logging.Logger
}

// NewConnectivityService binds a service to the network it evaluates.
func NewConnectivityService(net *Network, log logging.Logger) *ConnectivityService {
	if log == nil {
		log = logging.Noop()
	}
	return &ConnectivityService{net: net, log: log}
}

// Update recomputes dynamic wireless associations and then evaluates
// all links (static and dynamic) for up state.
func (cs *ConnectivityService) Update(ctx context.Context) {
	cs.rebuildAssociations(ctx)
	cs.evaluateLinks()
}

// rebuildAssociations clears previously discovered associations and
// associates every station to the strongest in-range access point.
// Impairment on a re-created association is preserved: the link IDs
// are deterministic, so explicit impairment survives station movement.
func (cs *ConnectivityService) rebuildAssociations(ctx context.Context) {
	n := cs.net

	n.mu.Lock()
	impaired := n.clearAssociationsLocked()

	for _, staID := range n.stations {
		sta := n.nodes[staID]

		var best *model.NodeDefinition
		bestRSSI := 0.0
		for _, apID := range n.aps {
			ap := n.nodes[apID]
			dist := sta.Position.DistanceTo(ap.Position)
			if !n.propagation.InRange(dist) {
				continue
			}
			rssi := n.propagation.ReceivedPowerDBm(dist)
			if best == nil || rssi > bestRSSI {
				best, bestRSSI = ap, rssi
			}
		}
		if best == nil {
			continue
		}
		link := n.upsertAssociationLocked(staID, best.ID, bestRSSI)
		if impaired[link.ID] {
			link.IsImpaired = true
		}
	}
	n.mu.Unlock()

	cs.log.Debug(ctx, "associations rebuilt",
		logging.Int("stations", len(n.stations)),
		logging.Float64("range_m", n.propagation.Range()),
	)
}

// evaluateLinks sets the up state for every link. Wired links are up
// whenever the network has started; association links were already
// gated by range when rebuilt. Impairment is a hard override.
func (cs *ConnectivityService) evaluateLinks() {
	n := cs.net

	n.mu.Lock()
	defer n.mu.Unlock()

	for _, link := range n.links {
		switch {
		case link.IsImpaired:
			link.IsUp = false
		case !n.started:
			link.IsUp = false
		default:
			link.IsUp = true
		}
	}
}
