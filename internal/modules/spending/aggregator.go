// Package spending buckets recent expenses by category.
package spending

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aristath/finsight/internal/domain"
	"github.com/aristath/finsight/internal/modules/categorization"
	"github.com/aristath/finsight/internal/modules/metrics"
)

// WindowMonths is the lookback used for category aggregation
const WindowMonths = 1

// CategorySpending is one bucket of the breakdown
type CategorySpending struct {
	Amount           decimal.Decimal `json:"amount"`
	Percentage       float64         `json:"percentage"`
	TransactionCount int             `json:"transaction_count"`
}

// ByCategory maps category to its bucket. Map order carries no meaning; use Sorted for display.
type ByCategory map[categorization.Category]CategorySpending

// Entry is a named bucket used for ordered views
type Entry struct {
	Category categorization.Category `json:"category"`
	CategorySpending
}

// Aggregate buckets expense transactions dated on or after asOf minus one calendar month
func Aggregate(transactions []domain.Transaction, asOf time.Time) ByCategory {
	since := metrics.WindowStart(asOf, WindowMonths)

	result := make(ByCategory)
	total := decimal.Zero

	for _, tx := range transactions {
		if tx.Type != domain.TransactionExpense || tx.Date.Before(since) {
			continue
		}
		category := categorization.Categorize(tx.Description)
		bucket := result[category]
		bucket.Amount = bucket.Amount.Add(tx.AbsAmount())
		bucket.TransactionCount++
		result[category] = bucket
		total = total.Add(tx.AbsAmount())
	}

	hundred := decimal.NewFromInt(100)
	for category, bucket := range result {
		if total.IsPositive() {
			bucket.Percentage = bucket.Amount.Div(total).Mul(hundred).InexactFloat64()
		} else {
			bucket.Percentage = 0
		}
		result[category] = bucket
	}

	return result
}

// Total returns the summed amount across buckets
func (b ByCategory) Total() decimal.Decimal {
	total := decimal.Zero
	for _, bucket := range b {
		total = total.Add(bucket.Amount)
	}
	return total
}

// Share returns a category's percentage and whether the category is present
func (b ByCategory) Share(c categorization.Category) (float64, bool) {
	bucket, ok := b[c]
	return bucket.Percentage, ok
}

// Sorted returns buckets by amount descending, ties broken by category name
func (b ByCategory) Sorted() []Entry {
	entries := make([]Entry, 0, len(b))
	for category, bucket := range b {
		entries = append(entries, Entry{Category: category, CategorySpending: bucket})
	}
	sort.Slice(entries, func(i, j int) bool {
		if c := entries[i].Amount.Cmp(entries[j].Amount); c != 0 {
			return c > 0
		}
		return entries[i].Category < entries[j].Category
	})
	return entries
}
