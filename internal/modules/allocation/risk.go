package allocation

import (
	"math"

	"github.com/aristath/finsight/pkg/formulas"
)

// Assumed annual standard deviation per asset class
var assumedStdDevs = AssetAllocation{
	Stocks:      0.16,
	Bonds:       0.04,
	RealEstate:  0.12,
	Commodities: 0.20,
	Cash:        0.01,
}

const (
	riskScoreScale = 500
	lowRiskBelow   = 30
	highRiskFrom   = 60
)

// RiskAssessment scores the volatility of an allocation
type RiskAssessment struct {
	RiskScore       float64  `json:"risk_score"`
	Volatility      float64  `json:"volatility"`
	RiskLevel       string   `json:"risk_level"`
	Recommendations []string `json:"recommendations"`
}

var riskRecommendations = map[string][]string{
	"Low": {
		"Your portfolio has low volatility and suits capital preservation.",
		"Consider adding equities if your horizon is longer than five years.",
		"Check that returns keep pace with inflation.",
	},
	"Moderate": {
		"Your portfolio balances growth and stability.",
		"Rebalance at least once a year to stay on target.",
		"Keep an emergency fund outside the portfolio.",
	},
	"High": {
		"Your portfolio can swing sharply in downturns.",
		"Make sure your time horizon is long enough to recover from losses.",
		"Consider adding bonds or cash to dampen volatility.",
	},
}

// AssessRisk estimates volatility as sqrt(Σ (weight × σ)²), assuming uncorrelated asset
// classes, and scales it into a 0-100 score.
func AssessRisk(a AssetAllocation) RiskAssessment {
	weights := a.vector()
	for i := range weights {
		weights[i] /= 100
	}

	volatility := formulas.UncorrelatedVolatility(weights, assumedStdDevs.vector())
	score := math.Min(volatility*riskScoreScale, 100)

	level := "High"
	switch {
	case score < lowRiskBelow:
		level = "Low"
	case score < highRiskFrom:
		level = "Moderate"
	}

	return RiskAssessment{
		RiskScore:       score,
		Volatility:      volatility,
		RiskLevel:       level,
		Recommendations: append([]string(nil), riskRecommendations[level]...),
	}
}
