package core

import "math"

// LogDistanceModel is a log-distance path-loss model: loss grows by
// 10·γ·log10(d/d0) beyond a reference distance d0. It drives
// station–access-point association range checks; the exponent γ is the
// main tuning knob (2 ≈ free space, 4–6 ≈ heavily obstructed indoor).
type LogDistanceModel struct {
	Exponent float64
	// ReferenceLossDB is the path loss at ReferenceDistance metres.
	ReferenceLossDB   float64
	ReferenceDistance float64

	// TxPowerDBm and AntennaGainDBi (applied at both ends) feed the
	// received-power estimate.
	TxPowerDBm     float64
	AntennaGainDBi float64

	// RxSensitivityDBm is the weakest signal a station can still
	// associate at.
	RxSensitivityDBm float64
}

// DefaultLogDistanceModel returns the simulation defaults: a heavily
// obstructed environment with modest access-point power. The resulting
// association range is roughly 38 metres, under the 50-metre grid
// spacing, so stations only hear nearby access points.
func DefaultLogDistanceModel() LogDistanceModel {
	return LogDistanceModel{
		Exponent:          4.5,
		ReferenceLossDB:   46.7, // ~2.4 GHz at 1 m
		ReferenceDistance: 1,
		TxPowerDBm:        20,
		AntennaGainDBi:    5,
		RxSensitivityDBm:  -88,
	}
}

// PathLossDB returns the loss in dB at the given distance in metres.
func (m LogDistanceModel) PathLossDB(distance float64) float64 {
	d0 := m.ReferenceDistance
	if d0 <= 0 {
		d0 = 1
	}
	if distance < d0 {
		distance = d0
	}
	return m.ReferenceLossDB + 10*m.Exponent*math.Log10(distance/d0)
}

// ReceivedPowerDBm estimates the signal strength a station sees at the
// given distance from an access point.
func (m LogDistanceModel) ReceivedPowerDBm(distance float64) float64 {
	return m.TxPowerDBm + 2*m.AntennaGainDBi - m.PathLossDB(distance)
}

// InRange reports whether a station at the given distance can still
// associate.
func (m LogDistanceModel) InRange(distance float64) bool {
	return m.ReceivedPowerDBm(distance) >= m.RxSensitivityDBm
}

// Range returns the maximum association distance in metres.
func (m LogDistanceModel) Range() float64 {
	exp := m.Exponent
	if exp <= 0 {
		exp = 2
	}
	d0 := m.ReferenceDistance
	if d0 <= 0 {
		d0 = 1
	}
	budget := m.TxPowerDBm + 2*m.AntennaGainDBi - m.ReferenceLossDB - m.RxSensitivityDBm
	if budget <= 0 {
		return d0
	}
	return d0 * math.Pow(10, budget/(10*exp))
}
