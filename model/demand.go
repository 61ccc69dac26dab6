package model

// TrafficDemand describes a flow the control plane wants routed once
// a mobility anchor has been elected.
type TrafficDemand struct {
	SrcNodeID string
	DstNodeID string
	// BandwidthMbps is the requested capacity for the flow.
	BandwidthMbps float64
}

// Route is an ordered node path satisfying a TrafficDemand.
type Route struct {
	// Nodes captures the ordered node IDs that form the path,
	// source first.
	Nodes []string
}
