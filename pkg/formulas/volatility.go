package formulas

import (
	"gonum.org/v1/gonum/floats"
)

// UncorrelatedVolatility returns the volatility of a weighted basket assuming zero
// correlation between components.
//
// Formula: σ = sqrt(Σ (wᵢ × σᵢ)²)
//
// weights and stdDevs must have the same length; mismatched or empty input yields 0.
func UncorrelatedVolatility(weights, stdDevs []float64) float64 {
	if len(weights) == 0 || len(weights) != len(stdDevs) {
		return 0
	}
	contributions := make([]float64, len(weights))
	floats.MulTo(contributions, weights, stdDevs)
	return floats.Norm(contributions, 2)
}
