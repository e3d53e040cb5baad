package models

// Clamp01 clamps v into [0, 1]. Confidence, trust, and intensity values
// must never persist outside this range.
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Clamp clamps v into [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
