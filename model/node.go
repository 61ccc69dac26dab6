package model

// NodeKind discriminates the roles a node plays in the topology.
type NodeKind string

const (
	KindHost        NodeKind = "host"
	KindStation     NodeKind = "station"
	KindAccessPoint NodeKind = "access-point"
	KindSwitch      NodeKind = "switch"
	KindController  NodeKind = "controller"
)

// InSnapshot reports whether nodes of this kind participate in the
// connectivity snapshot handed to the anchor pipeline. Hosts and
// controllers are part of the topology but are not snapshotted.
func (k NodeKind) InSnapshot() bool {
	switch k {
	case KindStation, KindAccessPoint, KindSwitch:
		return true
	default:
		return false
	}
}

// Mobile reports whether nodes of this kind move during playback.
func (k NodeKind) Mobile() bool { return k == KindStation }

// NodeDefinition represents one network element: a host, a mobile
// station, an access point, a switch, or the controller.
type NodeDefinition struct {
	ID   string
	Name string
	Kind NodeKind

	// Optional L2/L3 addressing. Hosts and stations typically carry
	// both; infrastructure nodes can leave them empty.
	MACAddress string
	IPAddress  string

	// Position in arena coordinates (metres). Updated by mobility
	// playback for stations; fixed for everything else.
	Position Position

	// Radio metadata, meaningful for access points only.
	SSID    string
	Channel int
	Mode    string
}
