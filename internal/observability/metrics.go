package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SimulatorCollector bundles Prometheus metrics for the simulator and
// provides helpers to wire them into HTTP handlers.
type SimulatorCollector struct {
	gatherer prometheus.Gatherer

	TopologyNodes    *prometheus.GaugeVec
	LinksUp          prometheus.Gauge
	AnchorElections  *prometheus.CounterVec
	AnchorResolution *prometheus.HistogramVec
}

// NewSimulatorCollector registers simulator Prometheus metrics against
// the provided registerer, defaulting to the global Prometheus
// registry when nil.
func NewSimulatorCollector(reg prometheus.Registerer) (*SimulatorCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	nodes := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "topology_nodes",
		Help: "Current number of topology nodes, labeled by kind.",
	}, []string{"kind"})
	nodes, err := registerGaugeVec(reg, nodes, "topology_nodes")
	if err != nil {
		return nil, err
	}

	linksUp, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "topology_links_up",
		Help: "Current number of links in the up state.",
	}), "topology_links_up")
	if err != nil {
		return nil, err
	}

	elections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "anchor_elections_total",
		Help: "Total number of anchor elections, labeled by the tie-break rule that decided them.",
	}, []string{"rule"})
	elections, err = registerCounterVec(reg, elections, "anchor_elections_total")
	if err != nil {
		return nil, err
	}

	resolution := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "anchor_resolution_seconds",
		Help:    "Anchor election latency in seconds.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	}, []string{"rule"})
	resolution, err = registerHistogramVec(reg, resolution, "anchor_resolution_seconds")
	if err != nil {
		return nil, err
	}

	return &SimulatorCollector{
		gatherer:         gatherer,
		TopologyNodes:    nodes,
		LinksUp:          linksUp,
		AnchorElections:  elections,
		AnchorResolution: resolution,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimulatorCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetTopologyCounts drives the topology gauges from the network's
// current node and link counts.
func (c *SimulatorCollector) SetTopologyCounts(hosts, stations, accessPoints, switches, linksUp int) {
	if c == nil {
		return
	}
	if c.TopologyNodes != nil {
		c.TopologyNodes.WithLabelValues("host").Set(float64(hosts))
		c.TopologyNodes.WithLabelValues("station").Set(float64(stations))
		c.TopologyNodes.WithLabelValues("access-point").Set(float64(accessPoints))
		c.TopologyNodes.WithLabelValues("switch").Set(float64(switches))
	}
	if c.LinksUp != nil {
		c.LinksUp.Set(float64(linksUp))
	}
}

// ObserveElection satisfies the anchor.ElectionRecorder interface so
// the pipeline can record elections directly.
func (c *SimulatorCollector) ObserveElection(rule string, seconds float64) {
	if c == nil {
		return
	}
	if c.AnchorElections != nil {
		c.AnchorElections.WithLabelValues(rule).Inc()
	}
	if c.AnchorResolution != nil {
		c.AnchorResolution.WithLabelValues(rule).Observe(seconds)
	}
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
