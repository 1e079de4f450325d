package allocation

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/aristath/finsight/internal/domain"
)

// Blend weights
const (
	goalWeight = 0.6
	ageWeight  = 0.4
)

// Long-run annual return assumptions per asset class, in percent
var expectedReturns = AssetAllocation{
	Stocks:      10,
	Bonds:       4,
	RealEstate:  8,
	Commodities: 6,
	Cash:        2,
}

// InvestmentRecommendation is the allocation advice for one profile
type InvestmentRecommendation struct {
	Allocation     AssetAllocation `json:"allocation"`
	ExpectedReturn float64         `json:"expected_return"`
	RiskLevel      string          `json:"risk_level"`
	Reasoning      []string        `json:"reasoning"`
	Risk           RiskAssessment  `json:"risk"`
}

// Blend combines goal-based and age-based allocations 60/40, rounding each component to a
// whole percent. Independent rounding means the sum may drift slightly from 100.
func Blend(goalBased, ageBased AssetAllocation) AssetAllocation {
	v := make([]float64, 5)
	floats.ScaleTo(v, goalWeight, goalBased.vector())
	floats.AddScaled(v, ageWeight, ageBased.vector())
	return fromVector(v).Round()
}

// ExpectedReturn weights the per-class return assumptions by the allocation, in percent
func ExpectedReturn(a AssetAllocation) float64 {
	return floats.Dot(a.vector(), expectedReturns.vector()) / 100
}

// RiskLabel maps the declared tolerance onto the recommendation's risk label
func RiskLabel(tolerance domain.RiskTolerance) string {
	switch tolerance {
	case domain.RiskAggressive:
		return "High"
	case domain.RiskConservative:
		return "Low"
	default:
		return "Medium"
	}
}

// Recommend blends the goal-based and age-based allocations for a profile
func Recommend(profile domain.InvestmentProfile) InvestmentRecommendation {
	goal := GoalBased(profile.TimeHorizonYears, profile.RiskTolerance, profile.GoalType)
	age := AgeBased(profile.CurrentAge, profile.RiskTolerance)

	blended := Blend(goal, age)
	expected := ExpectedReturn(blended)

	return InvestmentRecommendation{
		Allocation:     blended,
		ExpectedReturn: expected,
		RiskLevel:      RiskLabel(profile.RiskTolerance),
		Reasoning:      reasoning(profile, expected),
		Risk:           AssessRisk(blended),
	}
}

func reasoning(profile domain.InvestmentProfile, expected float64) []string {
	tolerance := profile.RiskTolerance
	if tolerance == "" {
		tolerance = domain.RiskModerate
	}

	horizon := "favors capital preservation"
	switch {
	case profile.TimeHorizonYears >= longHorizonYears:
		horizon = "leaves room to ride out market downturns"
	case profile.TimeHorizonYears >= shortHorizonYears:
		horizon = "balances growth against stability"
	}

	out := []string{
		fmt.Sprintf("Your %s risk tolerance sets how far the mix leans towards stocks.", tolerance),
		fmt.Sprintf("A %d-year time horizon %s.", profile.TimeHorizonYears, horizon),
		fmt.Sprintf("At age %d, the age-based rule contributes %.0f%% of the blend.", profile.CurrentAge, ageWeight*100),
		fmt.Sprintf("Based on historical asset class returns, the expected annual return is %.1f%%.", expected),
	}
	if profile.GoalType != "" {
		out = append(out, fmt.Sprintf("The plan is built around your %s goal.", profile.GoalType))
	}
	return out
}
