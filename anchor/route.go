package anchor

import (
	"context"

	"github.com/meshfabric/wmn-simulator/model"
)

// RouteSelector picks a route for a traffic demand once an anchor has
// been elected. Only the contract is defined here; implementations may
// report ErrNotImplemented, in which case callers skip route-dependent
// logic for the cycle.
type RouteSelector interface {
	SelectRoute(ctx context.Context, anchor model.NodeDefinition, demand model.TrafficDemand) (model.Route, error)
}

// UnimplementedRouteSelector is the placeholder selector: every call
// reports ErrNotImplemented.
type UnimplementedRouteSelector struct{}

func (UnimplementedRouteSelector) SelectRoute(context.Context, model.NodeDefinition, model.TrafficDemand) (model.Route, error) {
	return model.Route{}, ErrNotImplemented
}
