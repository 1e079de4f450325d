package allocation

import (
	"github.com/aristath/finsight/internal/domain"
)

// Horizon buckets, in years
const (
	shortHorizonYears = 3
	longHorizonYears  = 10
)

var (
	shortHorizonBase  = AssetAllocation{Stocks: 30, Bonds: 50, RealEstate: 5, Commodities: 5, Cash: 10}
	mediumHorizonBase = AssetAllocation{Stocks: 60, Bonds: 28, RealEstate: 6, Commodities: 4, Cash: 2}
	longHorizonBase   = AssetAllocation{Stocks: 80, Bonds: 10, RealEstate: 6, Commodities: 3, Cash: 1}
)

var riskMultipliers = map[domain.RiskTolerance]float64{
	domain.RiskConservative: 0.7,
	domain.RiskModerate:     1.0,
	domain.RiskAggressive:   1.3,
}

// bondAbsorption is the share of the stock shift bonds take in the opposite direction
const bondAbsorption = 0.7

// BaseForHorizon returns the unadjusted allocation for a time horizon
func BaseForHorizon(years int) AssetAllocation {
	switch {
	case years < shortHorizonYears:
		return shortHorizonBase
	case years < longHorizonYears:
		return mediumHorizonBase
	default:
		return longHorizonBase
	}
}

// GoalBased picks a base allocation by horizon, shifts stocks by
// (baseStocks − 50) × (multiplier − 1), moves bonds 0.7× that shift the other way, clamps
// stocks to [10, 90] and bonds to [5, 80], and normalizes to 100.
//
// The goal type is carried for reporting and does not change the weights.
func GoalBased(timeHorizonYears int, tolerance domain.RiskTolerance, goal domain.GoalType) AssetAllocation {
	base := BaseForHorizon(timeHorizonYears)

	multiplier, ok := riskMultipliers[tolerance]
	if !ok {
		multiplier = riskMultipliers[domain.RiskModerate]
	}

	shift := (base.Stocks - 50) * (multiplier - 1)

	adjusted := base
	adjusted.Stocks = clamp(base.Stocks+shift, 10, 90)
	adjusted.Bonds = clamp(base.Bonds-shift*bondAbsorption, 5, 80)

	return adjusted.Normalize()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
