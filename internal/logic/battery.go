package logic

import "math"

// LipoCapacityPercent estimates the remaining capacity of a single LiPo cell
// from its terminal voltage:
//
//	percent = 123 - 123 / (1 + (v/3.7)^80)^0.165
//
// The result is clamped to [0,100] and rounded to the nearest integer.
// Out-of-domain input (including NaN) saturates instead of failing.
func LipoCapacityPercent(voltage float64) int {
	if math.IsNaN(voltage) || voltage <= 0 {
		return 0
	}
	percent := 123.0 - 123.0/math.Pow(1+math.Pow(voltage/3.7, 80), 0.165)
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	return int(math.Round(percent))
}

// ChargeBandFor maps a charge percentage onto its display band.
func ChargeBandFor(percent int) ChargeBand {
	switch {
	case percent < 20:
		return BandAlert
	case percent < 50:
		return BandWarning
	default:
		return BandNormal
	}
}
