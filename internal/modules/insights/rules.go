package insights

import (
	"fmt"

	"github.com/aristath/finsight/internal/modules/categorization"
)

// Template renders an insight. Description must contain exactly one %.1f verb which
// receives the value the rule measured.
type Template struct {
	Type           Type
	Priority       Priority
	Title          string
	Description    string
	Recommendation string
}

// Tier pairs a predicate on the measured value with the template it selects
type Tier struct {
	When     func(v float64) bool
	Template Template
}

// Rule measures one value and maps it to at most one insight
type Rule struct {
	ID string
	// Measure returns the value to test, or false when the rule does not apply
	Measure func(in Input) (float64, bool)
	Tiers   []Tier
}

// Evaluate returns the insight of the first matching tier
func (r Rule) Evaluate(in Input) (Insight, bool) {
	v, ok := r.Measure(in)
	if !ok {
		return Insight{}, false
	}
	for _, tier := range r.Tiers {
		if tier.When(v) {
			t := tier.Template
			return Insight{
				ID:             r.ID,
				Type:           t.Type,
				Title:          t.Title,
				Description:    fmt.Sprintf(t.Description, v),
				Recommendation: t.Recommendation,
				Priority:       t.Priority,
			}, true
		}
	}
	return Insight{}, false
}

func below(limit float64) func(float64) bool { return func(v float64) bool { return v < limit } }
func above(limit float64) func(float64) bool { return func(v float64) bool { return v > limit } }
func always(float64) bool                    { return true }
func categoryShare(c categorization.Category) func(Input) (float64, bool) {
	return func(in Input) (float64, bool) { return in.Spending.Share(c) }
}

var defaultRules = []Rule{
	{
		ID:      "savings_rate",
		Measure: func(in Input) (float64, bool) { return in.Metrics.SavingsRate, true },
		Tiers: []Tier{
			{below(10), Template{
				Type:           TypeCritical,
				Priority:       PriorityHigh,
				Title:          "Low Savings Rate",
				Description:    "Your savings rate is %.1f%%, below the recommended minimum of 10%%.",
				Recommendation: "Review discretionary spending and set up an automatic transfer to savings on payday.",
			}},
			{below(20), Template{
				Type:           TypeWarning,
				Priority:       PriorityMedium,
				Title:          "Savings Rate Could Improve",
				Description:    "Your savings rate is %.1f%%. Aiming for 20%% or more builds long-term security.",
				Recommendation: "Trim one recurring expense and redirect the difference into savings.",
			}},
			{always, Template{
				Type:           TypePositive,
				Priority:       PriorityLow,
				Title:          "Healthy Savings Rate",
				Description:    "Your savings rate of %.1f%% meets the 20%% benchmark.",
				Recommendation: "Consider investing surplus savings for long-term growth.",
			}},
		},
	},
	{
		ID:      "emergency_fund",
		Measure: func(in Input) (float64, bool) { return in.Metrics.EmergencyFundMonths, true },
		Tiers: []Tier{
			{below(3), Template{
				Type:           TypeCritical,
				Priority:       PriorityHigh,
				Title:          "Emergency Fund Too Small",
				Description:    "Your emergency fund covers %.1f months of expenses.",
				Recommendation: "Build savings until they cover at least 3 months of expenses before investing further.",
			}},
			{below(6), Template{
				Type:           TypeWarning,
				Priority:       PriorityMedium,
				Title:          "Emergency Fund Below Target",
				Description:    "Your emergency fund covers %.1f months of expenses, short of the 6 month target.",
				Recommendation: "Keep adding to your savings account until it covers 6 months of expenses.",
			}},
		},
	},
	{
		ID:      "debt_to_income",
		Measure: func(in Input) (float64, bool) { return in.Metrics.DebtToIncomeRatio, true },
		Tiers: []Tier{
			{above(40), Template{
				Type:           TypeCritical,
				Priority:       PriorityHigh,
				Title:          "High Debt Burden",
				Description:    "Debt payments take %.1f%% of your income.",
				Recommendation: "Prioritize paying down high-interest debt and avoid taking on new loans.",
			}},
			{above(20), Template{
				Type:           TypeWarning,
				Priority:       PriorityMedium,
				Title:          "Elevated Debt Payments",
				Description:    "Debt payments take %.1f%% of your income.",
				Recommendation: "Consider the avalanche method: extra payments go to the highest-rate balance first.",
			}},
		},
	},
	{
		ID:      "housing_share",
		Measure: categoryShare(categorization.Housing),
		Tiers: []Tier{
			{above(30), Template{
				Type:           TypeWarning,
				Priority:       PriorityMedium,
				Title:          "High Housing Costs",
				Description:    "Housing takes %.1f%% of your spending, above the 30%% guideline.",
				Recommendation: "Look for ways to reduce housing costs such as refinancing or renegotiating utilities.",
			}},
		},
	},
	{
		ID:      "food_share",
		Measure: categoryShare(categorization.Food),
		Tiers: []Tier{
			{above(15), Template{
				Type:           TypeWarning,
				Priority:       PriorityLow,
				Title:          "Food Spending Is High",
				Description:    "Food takes %.1f%% of your spending.",
				Recommendation: "Plan meals ahead and cook at home more often to bring food costs down.",
			}},
		},
	},
}

// Rules returns the default rule list in evaluation order
func Rules() []Rule {
	return append([]Rule(nil), defaultRules...)
}
