package anchor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/meshfabric/wmn-simulator/model"
)

type recordingMetrics struct {
	mu    sync.Mutex
	rules []string
}

func (r *recordingMetrics) ObserveElection(rule string, seconds float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule)
}

func starSnapshot() Snapshot {
	nodes := nodeList("hub", "l1", "l2")
	return NewSnapshot(nodes, probeFrom(map[string][]string{
		"hub": {"l1", "l2"},
		"l1":  {"hub"},
		"l2":  {"hub"},
	}))
}

func TestPipelineRunElectsAnchor(t *testing.T) {
	metrics := &recordingMetrics{}
	p := NewPipeline(nil, metrics, nil)

	res, err := p.Run(context.Background(), starSnapshot(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Anchor.ID != "hub" {
		t.Fatalf("anchor = %q, want hub", res.Anchor.ID)
	}
	if res.Rule != RuleSingleton {
		t.Fatalf("rule = %q, want %q", res.Rule, RuleSingleton)
	}
	if len(res.Candidates) != 1 || res.Candidates[0] != 0 {
		t.Fatalf("candidates = %v, want [0]", res.Candidates)
	}
	if len(metrics.rules) != 1 || metrics.rules[0] != string(RuleSingleton) {
		t.Fatalf("recorded rules = %v, want [singleton]", metrics.rules)
	}
}

func TestPipelineRunSkipsUnimplementedRouteSelection(t *testing.T) {
	p := NewPipeline(nil, nil, nil)
	demand := &model.TrafficDemand{SrcNodeID: "h1", DstNodeID: "h2", BandwidthMbps: 100}

	res, err := p.Run(context.Background(), starSnapshot(), demand)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Route != nil {
		t.Fatalf("route = %v, want nil for unimplemented selector", res.Route)
	}
}

type failingRouteSelector struct{ err error }

func (f failingRouteSelector) SelectRoute(context.Context, model.NodeDefinition, model.TrafficDemand) (model.Route, error) {
	return model.Route{}, f.err
}

func TestPipelineRunPropagatesRouteErrors(t *testing.T) {
	boom := errors.New("boom")
	p := NewPipeline(nil, nil, failingRouteSelector{err: boom})
	demand := &model.TrafficDemand{SrcNodeID: "h1", DstNodeID: "h2"}

	if _, err := p.Run(context.Background(), starSnapshot(), demand); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}

func TestPipelineRunEmptySnapshot(t *testing.T) {
	p := NewPipeline(nil, nil, nil)
	if _, err := p.Run(context.Background(), NewSnapshot(nil, nil), nil); !errors.Is(err, ErrInvalidTopology) {
		t.Fatalf("err = %v, want ErrInvalidTopology", err)
	}
}

func TestPipelineRunDeterministic(t *testing.T) {
	p := NewPipeline(nil, nil, nil)
	snap := starSnapshot()

	first, err := p.Run(context.Background(), snap, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i := 0; i < 10; i++ {
		res, err := p.Run(context.Background(), snap, nil)
		if err != nil {
			t.Fatalf("Run %d: %v", i, err)
		}
		if res.Anchor.ID != first.Anchor.ID || res.Rule != first.Rule {
			t.Fatalf("run %d elected (%q, %q), first run (%q, %q)",
				i, res.Anchor.ID, res.Rule, first.Anchor.ID, first.Rule)
		}
	}
}
