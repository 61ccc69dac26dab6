package core

// Medium distinguishes wired cabling from wireless association.
type Medium string

const (
	MediumWired    Medium = "wired"
	MediumWireless Medium = "wireless"
)

// LinkOptions carries optional parameters for static links,
// mirroring traffic-control style shaping settings.
type LinkOptions struct {
	BandwidthMbps float64
	LatencyMs     float64
	Medium        Medium // defaults to wired
}

// Link connects two nodes. Static links come from topology
// construction; association links are rebuilt by the
// ConnectivityService as stations move.
type Link struct {
	ID     string
	NodeA  string
	NodeB  string
	Medium Medium

	BandwidthMbps float64
	LatencyMs     float64

	// IsUp reflects the last connectivity evaluation. Links are never
	// up before the network has been started.
	IsUp bool
	// IsImpaired forces the link down regardless of range or wiring.
	IsImpaired bool

	// RSSIdBm is the received signal strength for association links;
	// zero for wired links.
	RSSIdBm float64

	// IsStatic marks topology-defined links as opposed to station
	// associations rebuilt on every connectivity update.
	IsStatic bool
}

// Other returns the far endpoint of the link relative to nodeID, or ""
// when nodeID is not an endpoint.
func (l *Link) Other(nodeID string) string {
	switch nodeID {
	case l.NodeA:
		return l.NodeB
	case l.NodeB:
		return l.NodeA
	default:
		return ""
	}
}
