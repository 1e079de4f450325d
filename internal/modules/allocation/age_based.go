package allocation

import (
	"math"

	"github.com/aristath/finsight/internal/domain"
)

// ageRule is the "K minus age" stock rule with a floor
type ageRule struct {
	base  float64
	floor float64
}

var ageRules = map[domain.RiskTolerance]ageRule{
	domain.RiskConservative: {base: 100, floor: 20},
	domain.RiskModerate:     {base: 110, floor: 30},
	domain.RiskAggressive:   {base: 120, floor: 40},
}

const maxBondPct = 60

// AgeBased applies the age rule: stocks = max(K − age, floor), bonds take up to 60% of the
// rest, and the remainder is split between real estate, commodities and cash.
//
// The components are not normalized and may not sum to 100 (cash has a 5% floor even when
// nothing remains). Below age K−100 stocks exceed 100 and bonds go negative; the result is
// returned uncapped. Unknown tolerances use the moderate constants.
func AgeBased(age int, tolerance domain.RiskTolerance) AssetAllocation {
	rule, ok := ageRules[tolerance]
	if !ok {
		rule = ageRules[domain.RiskModerate]
	}

	stocks := math.Max(rule.base-float64(age), rule.floor)
	bonds := math.Min(100-stocks, maxBondPct)
	remaining := 100 - stocks - bonds

	return AssetAllocation{
		Stocks:      stocks,
		Bonds:       bonds,
		RealEstate:  math.Min(remaining*0.6, 15),
		Commodities: math.Min(remaining*0.3, 10),
		Cash:        math.Max(remaining*0.1, 5),
	}
}
