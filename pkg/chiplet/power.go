package chiplet

import "github.com/ja7ad/chipletpower/pkg/types"

// EnergyToPower converts energy spent over a duration into average watts:
//
//	P = E[pJ] * 1e-12 / t[s]
//
// A non-positive duration is an instantaneous stage with no defined power and
// yields 0.
func EnergyToPower(energy types.Picojoules, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return float64(energy) * 1e-12 / seconds
}
