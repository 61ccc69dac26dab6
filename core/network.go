package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/meshfabric/wmn-simulator/anchor"
	"github.com/meshfabric/wmn-simulator/model"
)

var (
	ErrNodeExists      = errors.New("node already exists")
	ErrNodeNotFound    = errors.New("node not found")
	ErrLinkExists      = errors.New("link already exists")
	ErrLinkNotFound    = errors.New("link not found")
	ErrUnknownEndpoint = errors.New("link references unknown node")
	ErrBadInput        = errors.New("invalid input")
)

// assocPrefix marks dynamic station–AP association links so the
// connectivity service can rebuild them without touching wiring.
const assocPrefix = "assoc-"

// Network is the topology store: every node, link, and station
// association lives here. It is concurrency-safe via an internal
// RWMutex as long as all access goes through these methods. The
// anchor pipeline never reads it directly; it works on the immutable
// value returned by Snapshot.
type Network struct {
	mu sync.RWMutex

	nodes map[string]*model.NodeDefinition

	// Insertion order per kind. The snapshot ordering (stations, then
	// access points, then switches) is fixed by these slices.
	hosts       []string
	stations    []string
	aps         []string
	switches    []string
	controllers []string

	links       map[string]*Link
	linksByNode map[string]map[string]*Link

	propagation LogDistanceModel
	started     bool
}

// NewNetwork creates an empty topology using the given propagation
// model for wireless association.
func NewNetwork(pm LogDistanceModel) *Network {
	return &Network{
		nodes:       make(map[string]*model.NodeDefinition),
		links:       make(map[string]*Link),
		linksByNode: make(map[string]map[string]*Link),
		propagation: pm,
	}
}

// Propagation returns the wireless propagation model in use.
func (n *Network) Propagation() LogDistanceModel {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.propagation
}

// ---------- Nodes ----------

// AddNode registers a node definition. The ID must be unique across
// all kinds; the kind determines snapshot participation and ordering.
func (n *Network) AddNode(def *model.NodeDefinition) error {
	if def == nil || def.ID == "" {
		return fmt.Errorf("%w: nil or empty node", ErrBadInput)
	}
	switch def.Kind {
	case model.KindHost, model.KindStation, model.KindAccessPoint, model.KindSwitch, model.KindController:
	default:
		return fmt.Errorf("%w: node %q has unknown kind %q", ErrBadInput, def.ID, def.Kind)
	}
	if def.Name == "" {
		def.Name = def.ID
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if _, exists := n.nodes[def.ID]; exists {
		return fmt.Errorf("%w: %q", ErrNodeExists, def.ID)
	}
	n.nodes[def.ID] = def

	switch def.Kind {
	case model.KindHost:
		n.hosts = append(n.hosts, def.ID)
	case model.KindStation:
		n.stations = append(n.stations, def.ID)
	case model.KindAccessPoint:
		n.aps = append(n.aps, def.ID)
	case model.KindSwitch:
		n.switches = append(n.switches, def.ID)
	case model.KindController:
		n.controllers = append(n.controllers, def.ID)
	}
	return nil
}

// Node returns the node with the given ID, or nil when absent.
func (n *Network) Node(id string) *model.NodeDefinition {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.nodes[id]
}

// NodesOfKind returns the nodes of one kind in insertion order.
func (n *Network) NodesOfKind(kind model.NodeKind) []*model.NodeDefinition {
	n.mu.RLock()
	defer n.mu.RUnlock()

	ids := n.orderLocked(kind)
	out := make([]*model.NodeDefinition, 0, len(ids))
	for _, id := range ids {
		out = append(out, n.nodes[id])
	}
	return out
}

// SetPosition moves a node. Mobility playback calls this every tick
// for stations; connectivity is re-evaluated separately.
func (n *Network) SetPosition(id string, pos model.Position) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	def, ok := n.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	def.Position = pos
	return nil
}

func (n *Network) orderLocked(kind model.NodeKind) []string {
	switch kind {
	case model.KindHost:
		return n.hosts
	case model.KindStation:
		return n.stations
	case model.KindAccessPoint:
		return n.aps
	case model.KindSwitch:
		return n.switches
	case model.KindController:
		return n.controllers
	default:
		return nil
	}
}

// ---------- Links ----------

// AddLink wires a static link between two existing nodes. The link ID
// is derived from the endpoints in the given order.
func (n *Network) AddLink(a, b string, opts LinkOptions) (*Link, error) {
	if a == "" || b == "" || a == b {
		return nil, fmt.Errorf("%w: link endpoints %q-%q", ErrBadInput, a, b)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.nodes[a]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEndpoint, a)
	}
	if _, ok := n.nodes[b]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEndpoint, b)
	}

	id := fmt.Sprintf("%s-%s", a, b)
	if _, exists := n.links[id]; exists {
		return nil, fmt.Errorf("%w: %q", ErrLinkExists, id)
	}
	if peer, ok := n.linksByNode[a]; ok {
		if _, dup := peer[b]; dup {
			return nil, fmt.Errorf("%w: %q and %q are already linked", ErrLinkExists, a, b)
		}
	}

	medium := opts.Medium
	if medium == "" {
		medium = MediumWired
	}
	link := &Link{
		ID:            id,
		NodeA:         a,
		NodeB:         b,
		Medium:        medium,
		BandwidthMbps: opts.BandwidthMbps,
		LatencyMs:     opts.LatencyMs,
		IsStatic:      true,
	}
	n.links[id] = link
	n.attachLocked(link)
	return link, nil
}

// Link returns a link by ID, or nil when absent.
func (n *Network) Link(id string) *Link {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.links[id]
}

// Links returns all links sorted by ID so iteration order is stable.
func (n *Network) Links() []*Link {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make([]*Link, 0, len(n.links))
	for _, l := range n.links {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetLinkImpaired marks a link as administratively forced down (or
// restores it). The connectivity service treats impairment as a hard
// override.
func (n *Network) SetLinkImpaired(id string, impaired bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	link, ok := n.links[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrLinkNotFound, id)
	}
	link.IsImpaired = impaired
	return nil
}

// Neighbors returns the sorted IDs of nodes reachable from nodeID via
// currently-up links.
func (n *Network) Neighbors(nodeID string) []string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	peers := n.linksByNode[nodeID]
	if len(peers) == 0 {
		return nil
	}
	out := make([]string, 0, len(peers))
	for peer, link := range peers {
		if link.IsUp {
			out = append(out, peer)
		}
	}
	sort.Strings(out)
	return out
}

// clearAssociationsLocked removes every dynamic association link,
// remembering which ones were impaired so impairment survives rebuild.
// Caller must hold n.mu (write lock).
func (n *Network) clearAssociationsLocked() map[string]bool {
	impaired := make(map[string]bool)
	for id, link := range n.links {
		if link.IsStatic || !strings.HasPrefix(id, assocPrefix) {
			continue
		}
		if link.IsImpaired {
			impaired[id] = true
		}
		n.detachLocked(link)
		delete(n.links, id)
	}
	return impaired
}

// upsertAssociationLocked creates (or refreshes) the dynamic wireless
// association between a station and an access point. The ID is built
// from the sorted endpoints so sta–ap and ap–sta share one link.
// Caller must hold n.mu (write lock).
func (n *Network) upsertAssociationLocked(sta, ap string, rssi float64) *Link {
	ids := []string{sta, ap}
	sort.Strings(ids)
	id := fmt.Sprintf("%s%s-%s", assocPrefix, ids[0], ids[1])

	if existing, ok := n.links[id]; ok {
		existing.RSSIdBm = rssi
		return existing
	}
	link := &Link{
		ID:      id,
		NodeA:   sta,
		NodeB:   ap,
		Medium:  MediumWireless,
		RSSIdBm: rssi,
	}
	n.links[id] = link
	n.attachLocked(link)
	return link
}

func (n *Network) attachLocked(link *Link) {
	for _, pair := range [][2]string{{link.NodeA, link.NodeB}, {link.NodeB, link.NodeA}} {
		m, ok := n.linksByNode[pair[0]]
		if !ok {
			m = make(map[string]*Link)
			n.linksByNode[pair[0]] = m
		}
		m[pair[1]] = link
	}
}

func (n *Network) detachLocked(link *Link) {
	for _, pair := range [][2]string{{link.NodeA, link.NodeB}, {link.NodeB, link.NodeA}} {
		if m, ok := n.linksByNode[pair[0]]; ok {
			delete(m, pair[1])
			if len(m) == 0 {
				delete(n.linksByNode, pair[0])
			}
		}
	}
}

// ---------- Lifecycle ----------

// Start brings the network up. Links only evaluate as up once the
// network has started, matching daemon start in the emulated system.
func (n *Network) Start() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.started = true
}

// Stop tears the network down and drops dynamic associations.
func (n *Network) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.started = false
	n.clearAssociationsLocked()
	for _, link := range n.links {
		link.IsUp = false
	}
}

// Started reports whether Start has been called.
func (n *Network) Started() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.started
}

// ---------- Snapshot & counts ----------

// Snapshot captures the anchor pipeline's input: stations, then access
// points, then switches, in insertion order, plus their current
// connectivity. Hosts and controllers stay out of the snapshot.
func (n *Network) Snapshot() anchor.Snapshot {
	n.mu.RLock()
	ids := make([]string, 0, len(n.stations)+len(n.aps)+len(n.switches))
	ids = append(ids, n.stations...)
	ids = append(ids, n.aps...)
	ids = append(ids, n.switches...)

	nodes := make([]model.NodeDefinition, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, *n.nodes[id])
	}
	n.mu.RUnlock()

	return anchor.NewSnapshot(nodes, n.Neighbors)
}

// Counts summarizes the topology for metrics export.
type Counts struct {
	Hosts        int
	Stations     int
	AccessPoints int
	Switches     int
	LinksUp      int
}

// CountNodes returns current node and up-link counts.
func (n *Network) CountNodes() Counts {
	n.mu.RLock()
	defer n.mu.RUnlock()

	c := Counts{
		Hosts:        len(n.hosts),
		Stations:     len(n.stations),
		AccessPoints: len(n.aps),
		Switches:     len(n.switches),
	}
	for _, link := range n.links {
		if link.IsUp {
			c.LinksUp++
		}
	}
	return c
}
