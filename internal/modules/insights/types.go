// Package insights turns metrics and category shares into prioritized advisory messages.
//
// Rules are an explicit ordered list. Each rule reads one value and walks its tiers in
// order; the first tier whose predicate holds produces the insight. Evaluation order is
// kept as the tie-breaker when insights are ranked by priority.
package insights

import (
	"github.com/aristath/finsight/internal/domain"
	"github.com/aristath/finsight/internal/modules/metrics"
	"github.com/aristath/finsight/internal/modules/spending"
)

// Type is the tone of an insight
type Type string

const (
	TypePositive Type = "positive"
	TypeWarning  Type = "warning"
	TypeCritical Type = "critical"
)

// Priority ranks insights for display
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Weight returns the sort weight of a priority (high 3, medium 2, low 1)
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Insight is a single advisory message
type Insight struct {
	ID             string   `json:"id"`
	Type           Type     `json:"type"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
	Priority       Priority `json:"priority"`
}

// Input is everything a rule may look at
type Input struct {
	Metrics  metrics.FinancialMetrics
	Spending spending.ByCategory
	// Profile may be nil
	Profile *domain.UserProfile
}
