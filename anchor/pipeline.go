package anchor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/meshfabric/wmn-simulator/internal/logging"
	"github.com/meshfabric/wmn-simulator/model"
)

const tracerName = "github.com/meshfabric/wmn-simulator/anchor"

// ElectionRecorder receives pipeline outcomes for metrics export.
// Implemented by observability.SimulatorCollector.
type ElectionRecorder interface {
	ObserveElection(rule string, seconds float64)
}

// Result carries the outcome of one pipeline run.
type Result struct {
	Anchor     model.NodeDefinition
	Rule       Rule
	Candidates []int
	Degrees    []int
	// Route is set only when the configured selector produced one.
	Route *model.Route
}

// Pipeline chains adjacency construction, candidate selection, and
// anchor resolution over one snapshot, then hands the anchor to the
// route selector. It holds no topology state of its own; every run is
// recomputed fresh from the snapshot it is given.
type Pipeline struct {
	log     logging.Logger
	metrics ElectionRecorder
	routes  RouteSelector
}

// NewPipeline builds a pipeline. log and metrics may be nil; routes
// defaults to the unimplemented selector.
func NewPipeline(log logging.Logger, metrics ElectionRecorder, routes RouteSelector) *Pipeline {
	if log == nil {
		log = logging.Noop()
	}
	if routes == nil {
		routes = UnimplementedRouteSelector{}
	}
	return &Pipeline{log: log, metrics: metrics, routes: routes}
}

// Run elects the mobility anchor from the snapshot and, when a demand
// is supplied, asks the route selector for a path through it. Errors
// abort the run; no partial anchor is ever returned.
func (p *Pipeline) Run(ctx context.Context, snap Snapshot, demand *model.TrafficDemand) (*Result, error) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "anchor.Pipeline.Run")
	defer span.End()
	span.SetAttributes(attribute.Int("snapshot.nodes", snap.Len()))

	start := time.Now()
	nodes := snap.Nodes()

	_, buildSpan := tracer.Start(ctx, "anchor.BuildAdjacency")
	adj, err := BuildAdjacency(nodes, snap.Probe())
	buildSpan.End()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("build adjacency: %w", err)
	}

	candidates := MostConnected(adj)
	node, rule, err := Resolve(candidates, adj, nodes)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("resolve anchor: %w", err)
	}
	elapsed := time.Since(start)

	span.SetAttributes(
		attribute.String("anchor.node_id", node.ID),
		attribute.String("anchor.rule", string(rule)),
	)
	p.log.Info(ctx, "mobility anchor elected",
		logging.String("node", node.Name),
		logging.String("kind", string(node.Kind)),
		logging.String("rule", string(rule)),
		logging.Int("candidates", len(candidates)),
		logging.Int("degree", adj.Degree(candidates[0])),
	)
	if p.metrics != nil {
		p.metrics.ObserveElection(string(rule), elapsed.Seconds())
	}

	res := &Result{
		Anchor:     node,
		Rule:       rule,
		Candidates: candidates,
		Degrees:    adj.Degrees(),
	}

	if demand != nil {
		route, err := p.routes.SelectRoute(ctx, node, *demand)
		switch {
		case errors.Is(err, ErrNotImplemented):
			p.log.Debug(ctx, "route selection not implemented; skipping",
				logging.String("src", demand.SrcNodeID),
				logging.String("dst", demand.DstNodeID),
			)
		case err != nil:
			span.RecordError(err)
			return nil, fmt.Errorf("select route: %w", err)
		default:
			res.Route = &route
		}
	}
	return res, nil
}
