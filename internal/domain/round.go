package domain

import "math"

// Round1 rounds to one decimal place. Exported because scorers round their
// outputs with the same convention as observations and indices.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round4 rounds to four decimal places (probabilities and importances).
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Clamp constrains v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
