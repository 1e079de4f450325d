package insights

import (
	"sort"

	"github.com/aristath/finsight/internal/domain"
	"github.com/aristath/finsight/internal/modules/metrics"
	"github.com/aristath/finsight/internal/modules/spending"
)

// Generate evaluates the default rules
func Generate(m metrics.FinancialMetrics, s spending.ByCategory, profile *domain.UserProfile) []Insight {
	return GenerateWithRules(defaultRules, Input{Metrics: m, Spending: s, Profile: profile})
}

// GenerateWithRules evaluates every rule independently and ranks the results by priority.
// The sort is stable so rules of equal priority keep their evaluation order.
func GenerateWithRules(rules []Rule, in Input) []Insight {
	result := make([]Insight, 0, len(rules))
	for _, rule := range rules {
		if insight, ok := rule.Evaluate(in); ok {
			result = append(result, insight)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority.Weight() > result[j].Priority.Weight()
	})
	return result
}
