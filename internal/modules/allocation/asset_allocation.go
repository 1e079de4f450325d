// Package allocation computes target asset allocations from age, goal horizon and risk
// tolerance, blends them into a recommendation, and scores allocation risk.
package allocation

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// AssetAllocation holds percentage weights per asset class
type AssetAllocation struct {
	Stocks      float64 `json:"stocks"`
	Bonds       float64 `json:"bonds"`
	RealEstate  float64 `json:"real_estate"`
	Commodities float64 `json:"commodities"`
	Cash        float64 `json:"cash"`
}

// Total returns the sum of all components
func (a AssetAllocation) Total() float64 {
	return floats.Sum(a.vector())
}

// Normalize scales the components so they sum to exactly 100.
// An all-zero allocation is returned unchanged.
func (a AssetAllocation) Normalize() AssetAllocation {
	v := a.vector()
	total := floats.Sum(v)
	if total == 0 {
		return a
	}
	floats.Scale(100/total, v)
	return fromVector(v)
}

// Round rounds every component to the nearest whole percent
func (a AssetAllocation) Round() AssetAllocation {
	v := a.vector()
	for i := range v {
		v[i] = math.Round(v[i])
	}
	return fromVector(v)
}

// vector order: stocks, bonds, real estate, commodities, cash
func (a AssetAllocation) vector() []float64 {
	return []float64{a.Stocks, a.Bonds, a.RealEstate, a.Commodities, a.Cash}
}

func fromVector(v []float64) AssetAllocation {
	return AssetAllocation{
		Stocks:      v[0],
		Bonds:       v[1],
		RealEstate:  v[2],
		Commodities: v[3],
		Cash:        v[4],
	}
}
