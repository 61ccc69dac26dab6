package core

import (
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/meshfabric/wmn-simulator/mobility"
	"github.com/meshfabric/wmn-simulator/model"
)

// Scenario is a small summary of what was loaded from YAML. It's
// mainly useful for logging from main().
type Scenario struct {
	NodeIDs      []string
	LinkIDs      []string
	Trajectories []mobility.Trajectory
}

// internal YAML shapes, kept unexported so the format can evolve.
type scenarioYAML struct {
	Nodes        []scenarioNodeYAML       `yaml:"nodes"`
	Links        []scenarioLinkYAML       `yaml:"links"`
	Trajectories []scenarioTrajectoryYAML `yaml:"trajectories"`
}

type scenarioNodeYAML struct {
	ID       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	Kind     string        `yaml:"kind"` // host | station | access-point | switch | controller
	MAC      string        `yaml:"mac"`
	IP       string        `yaml:"ip"`
	Position *positionYAML `yaml:"position"`
	SSID     string        `yaml:"ssid"`
	Channel  int           `yaml:"channel"`
	Mode     string        `yaml:"mode"`
}

type scenarioLinkYAML struct {
	A             string  `yaml:"a"`
	B             string  `yaml:"b"`
	BandwidthMbps float64 `yaml:"bandwidth_mbps"`
	LatencyMs     float64 `yaml:"latency_ms"`
}

type scenarioTrajectoryYAML struct {
	Node      string         `yaml:"node"`
	StartSec  float64        `yaml:"start_sec"`
	StopSec   float64        `yaml:"stop_sec"`
	Waypoints []positionYAML `yaml:"waypoints"`
	Repeat    int            `yaml:"repeat"`
	Reverse   bool           `yaml:"reverse"`
}

type positionYAML struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// LoadScenario reads a YAML scenario from r, populates the Network
// with nodes and links, and returns the summary plus any station
// trajectories it declares. It fails on structural errors; duplicate
// IDs and unknown endpoints surface through the same Network errors
// direct Add*() calls produce.
func LoadScenario(net *Network, r io.Reader) (*Scenario, error) {
	if net == nil {
		return nil, fmt.Errorf("%w: nil network", ErrBadInput)
	}

	var payload scenarioYAML
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("load scenario: decode failed: %w", err)
	}

	result := &Scenario{
		NodeIDs: make([]string, 0, len(payload.Nodes)),
		LinkIDs: make([]string, 0, len(payload.Links)),
	}

	for _, yn := range payload.Nodes {
		if yn.ID == "" {
			return nil, fmt.Errorf("load scenario: node with empty id")
		}
		def := &model.NodeDefinition{
			ID:         yn.ID,
			Name:       yn.Name,
			Kind:       kindFromString(yn.Kind),
			MACAddress: yn.MAC,
			IPAddress:  yn.IP,
			SSID:       yn.SSID,
			Channel:    yn.Channel,
			Mode:       yn.Mode,
		}
		if yn.Position != nil {
			def.Position = model.Position{X: yn.Position.X, Y: yn.Position.Y, Z: yn.Position.Z}
		}
		if err := net.AddNode(def); err != nil {
			return nil, fmt.Errorf("load scenario: %w", err)
		}
		result.NodeIDs = append(result.NodeIDs, yn.ID)
	}

	for _, yl := range payload.Links {
		link, err := net.AddLink(yl.A, yl.B, LinkOptions{
			BandwidthMbps: yl.BandwidthMbps,
			LatencyMs:     yl.LatencyMs,
		})
		if err != nil {
			return nil, fmt.Errorf("load scenario: %w", err)
		}
		result.LinkIDs = append(result.LinkIDs, link.ID)
	}

	for _, yt := range payload.Trajectories {
		if yt.Node == "" {
			return nil, fmt.Errorf("load scenario: trajectory with empty node")
		}
		if net.Node(yt.Node) == nil {
			return nil, fmt.Errorf("load scenario: trajectory for unknown node %q", yt.Node)
		}
		tr := mobility.Trajectory{
			NodeID:  yt.Node,
			Start:   time.Duration(yt.StartSec * float64(time.Second)),
			Stop:    time.Duration(yt.StopSec * float64(time.Second)),
			Repeat:  yt.Repeat,
			Reverse: yt.Reverse,
		}
		for _, wp := range yt.Waypoints {
			tr.Waypoints = append(tr.Waypoints, model.Position{X: wp.X, Y: wp.Y, Z: wp.Z})
		}
		result.Trajectories = append(result.Trajectories, tr)
	}

	return result, nil
}

// kindFromString maps the YAML "kind" string to model.NodeKind.
// Unknown and empty values default to station, the most common mobile
// element in scenarios.
func kindFromString(s string) model.NodeKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "host":
		return model.KindHost
	case "station", "sta":
		return model.KindStation
	case "access-point", "accesspoint", "ap":
		return model.KindAccessPoint
	case "switch":
		return model.KindSwitch
	case "controller":
		return model.KindController
	default:
		return model.KindStation
	}
}
