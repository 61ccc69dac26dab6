package model

import "math"

// Position is a point in the simulation arena, in metres.
type Position struct {
	X float64
	Y float64
	Z float64
}

// DistanceTo returns the straight-line distance between two points.
func (p Position) DistanceTo(other Position) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	dz := p.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
