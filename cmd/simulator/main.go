package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/meshfabric/wmn-simulator/anchor"
	"github.com/meshfabric/wmn-simulator/core"
	"github.com/meshfabric/wmn-simulator/internal/logging"
	"github.com/meshfabric/wmn-simulator/internal/observability"
	"github.com/meshfabric/wmn-simulator/internal/plot"
	"github.com/meshfabric/wmn-simulator/mobility"
	"github.com/meshfabric/wmn-simulator/model"
	"github.com/meshfabric/wmn-simulator/timectrl"
)

const (
	arenaMaxX = 200.0
	arenaMaxY = 200.0
)

func main() {
	rows := flag.Int("rows", 2, "Number of access-point grid rows")
	cols := flag.Int("cols", 3, "Number of access-point grid columns")
	coords := flag.Bool("coords", false, "Move stations along multi-waypoint coordinate paths instead of start/stop positions")
	random := flag.Bool("random", false, "Move stations along randomly drawn waypoints")
	seed := flag.Int("seed", 1, "Seed offset for random waypoint generation")
	noPlot := flag.Bool("no-plot", false, "Skip writing the topology SVG")
	plotPath := flag.String("plot-out", "topology.svg", "Path the topology SVG is written to")
	duration := flag.Duration("duration", 60*time.Second, "Simulated playback duration")
	tick := flag.Duration("tick", time.Second, "Simulation tick interval")
	accelerated := flag.Bool("accelerated", false, "Run ticks as fast as possible instead of wall-clock paced")
	metricsAddr := flag.String("metrics-addr", ":9090", "HTTP address for Prometheus /metrics")
	scenarioPath := flag.String("scenario", "", "Path to a YAML scenario; overrides the built-in topology")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Err(err))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewSimulatorCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.Err(err))
		os.Exit(1)
	}
	metricsSrv := serveMetrics(*metricsAddr, collector, log)

	net := core.NewNetwork(core.DefaultLogDistanceModel())

	var trajectories []mobility.Trajectory
	if *scenarioPath != "" {
		trajectories, err = loadScenarioFile(ctx, net, *scenarioPath, log)
	} else {
		trajectories, err = buildDefaultTopology(ctx, net, *rows, *cols, *coords, *random, *seed, log)
	}
	if err != nil {
		log.Error(ctx, "failed to build topology", logging.Err(err))
		os.Exit(1)
	}

	playback := mobility.NewPlayback(net, log, trajectories...)
	connectivity := core.NewConnectivityService(net, log)
	pipeline := anchor.NewPipeline(log, collector, nil)

	net.Start()
	playback.Advance(ctx, 0)
	connectivity.Update(ctx)
	publishCounts(net, collector)

	demand := &model.TrafficDemand{SrcNodeID: "h1", DstNodeID: "h2", BandwidthMbps: 100}
	if net.Node("h1") == nil || net.Node("h2") == nil {
		demand = nil
	}

	if _, err := pipeline.Run(ctx, net.Snapshot(), demand); err != nil {
		log.Error(ctx, "anchor election failed", logging.Err(err))
		os.Exit(1)
	}

	mode := timectrl.RealTime
	if *accelerated {
		mode = timectrl.Accelerated
	}
	controller := timectrl.New(time.Now(), *tick, mode)
	controller.AddListener(func(simTime time.Time, elapsed time.Duration) {
		playback.Advance(ctx, elapsed)
		connectivity.Update(ctx)
		publishCounts(net, collector)
	})

	log.Info(ctx, "starting playback",
		logging.Duration("duration", *duration),
		logging.Duration("tick", *tick),
		logging.Int("trajectories", len(trajectories)),
	)
	<-controller.Start(*duration)

	if _, err := pipeline.Run(ctx, net.Snapshot(), demand); err != nil {
		log.Error(ctx, "anchor election failed", logging.Err(err))
		os.Exit(1)
	}

	if !*noPlot {
		writePlot(ctx, net, *plotPath, log)
	}

	net.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}

// buildDefaultTopology recreates the built-in mesh: two wired hosts,
// three mobile stations, six switches, one controller, and a rows×cols
// access-point grid, with the wired backbone between them.
func buildDefaultTopology(ctx context.Context, net *core.Network, rows, cols int, coords, random bool, seed int, log logging.Logger) ([]mobility.Trajectory, error) {
	nodes := []*model.NodeDefinition{
		{ID: "h1", Kind: model.KindHost, MACAddress: "00:00:00:00:00:01", IPAddress: "10.0.0.1/8"},
		{ID: "h2", Kind: model.KindHost, MACAddress: "00:00:00:00:00:05", IPAddress: "10.0.0.5/8"},
		{ID: "sta1", Kind: model.KindStation, MACAddress: "00:00:00:00:00:02", IPAddress: "10.0.0.2/8"},
		{ID: "sta2", Kind: model.KindStation, MACAddress: "00:00:00:00:00:03", IPAddress: "10.0.0.3/8"},
		{ID: "sta3", Kind: model.KindStation, MACAddress: "00:00:00:00:00:04", IPAddress: "10.0.0.4/8"},
		{ID: "s1", Kind: model.KindSwitch},
		{ID: "s2", Kind: model.KindSwitch},
		{ID: "s3", Kind: model.KindSwitch},
		{ID: "s4", Kind: model.KindSwitch},
		{ID: "s5", Kind: model.KindSwitch},
		{ID: "s6", Kind: model.KindSwitch},
		{ID: "c1", Kind: model.KindController},
	}
	for _, def := range nodes {
		if err := net.AddNode(def); err != nil {
			return nil, err
		}
	}

	aps, err := core.BuildAccessPointGrid(net, rows, cols)
	if err != nil {
		return nil, err
	}

	wires := []struct {
		a, b string
		bw   float64
	}{
		{"s1", aps[0].ID, 300},
		{"h1", "s1", 100},
		{"h2", "s6", 100},
		{"s6", aps[len(aps)-1].ID, 300},
		{"s1", "s2", 300},
		{"s5", "s6", 400},
		{"s2", "s5", 200},
	}
	for _, wl := range wires {
		if _, err := net.AddLink(wl.a, wl.b, core.LinkOptions{BandwidthMbps: wl.bw}); err != nil {
			return nil, err
		}
	}

	trajectories := stationTrajectories(coords, random, seed)
	log.Info(ctx, "default topology built",
		logging.Int("access_points", len(aps)),
		logging.Int("switches", 6),
		logging.Int("stations", 3),
	)
	return trajectories, nil
}

// stationTrajectories returns the three built-in station walks. The
// default mode moves each station from its start to its stop position;
// coordinate mode follows a scripted multi-waypoint path; random mode
// draws waypoints from a seeded stream.
func stationTrajectories(coords, random bool, seed int) []mobility.Trajectory {
	windows := []struct {
		node        string
		start, stop time.Duration
	}{
		{"sta1", 1 * time.Second, 12 * time.Second},
		{"sta2", 2 * time.Second, 30 * time.Second},
		{"sta3", 4 * time.Second, 50 * time.Second},
	}

	waypoints := map[string][]model.Position{
		"sta1": {{X: 40, Y: 30}, {X: 50, Y: 40}},
		"sta2": {{X: 40, Y: 40}, {X: 75, Y: 75}},
		"sta3": {{X: 155, Y: 25}, {X: 155, Y: 120}},
	}
	if coords {
		waypoints = map[string][]model.Position{
			"sta1": {{X: 40, Y: 30}, {X: 31, Y: 10}, {X: 50, Y: 25}},
			"sta2": {{X: 40, Y: 40}, {X: 55, Y: 31}, {X: 75, Y: 75}},
			"sta3": {{X: 40, Y: 40}, {X: 55, Y: 31}, {X: 155, Y: 125}},
		}
	}

	out := make([]mobility.Trajectory, 0, len(windows))
	for _, w := range windows {
		wps := waypoints[w.node]
		if random {
			wps = mobility.RandomWaypoints(w.node, seed, 3, arenaMaxX, arenaMaxY)
		}
		out = append(out, mobility.Trajectory{
			NodeID:    w.node,
			Start:     w.start,
			Stop:      w.stop,
			Waypoints: wps,
			Repeat:    1,
		})
	}
	return out
}

func loadScenarioFile(ctx context.Context, net *core.Network, path string, log logging.Logger) ([]mobility.Trajectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()

	scenario, err := core.LoadScenario(net, f)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "scenario loaded",
		logging.String("path", path),
		logging.Int("nodes", len(scenario.NodeIDs)),
		logging.Int("links", len(scenario.LinkIDs)),
		logging.Int("trajectories", len(scenario.Trajectories)),
	)
	return scenario.Trajectories, nil
}

func publishCounts(net *core.Network, collector *observability.SimulatorCollector) {
	c := net.CountNodes()
	collector.SetTopologyCounts(c.Hosts, c.Stations, c.AccessPoints, c.Switches, c.LinksUp)
}

func writePlot(ctx context.Context, net *core.Network, path string, log logging.Logger) {
	var nodes []model.NodeDefinition
	for _, kind := range []model.NodeKind{model.KindHost, model.KindStation, model.KindAccessPoint, model.KindSwitch} {
		for _, def := range net.NodesOfKind(kind) {
			nodes = append(nodes, *def)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		log.Warn(ctx, "skipping topology plot", logging.String("path", path), logging.Err(err))
		return
	}
	defer f.Close()

	if err := plot.WriteSVG(f, nodes, net.Propagation().Range()); err != nil {
		log.Warn(ctx, "failed to write topology plot", logging.String("path", path), logging.Err(err))
		return
	}
	log.Info(ctx, "topology plot written", logging.String("path", path))
}

func serveMetrics(addr string, collector *observability.SimulatorCollector, log logging.Logger) *http.Server {
	if collector == nil || addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.Err(err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
