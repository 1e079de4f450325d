// Package advisor loads a user's financial records and runs them through the analytics engine.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/finsight/internal/domain"
	"github.com/aristath/finsight/internal/events"
	"github.com/aristath/finsight/internal/modules/allocation"
	"github.com/aristath/finsight/internal/modules/insights"
	"github.com/aristath/finsight/internal/modules/metrics"
	"github.com/aristath/finsight/internal/modules/portfolio"
	"github.com/aristath/finsight/internal/modules/snapshots"
	"github.com/aristath/finsight/internal/modules/spending"
)

// ErrProfileNotFound is returned when an operation needs a profile the user has not stored
var ErrProfileNotFound = errors.New("profile not found")

// SnapshotStore persists encoded reports
type SnapshotStore interface {
	Save(ctx context.Context, userID string, asOf time.Time, report interface{}) (snapshots.Snapshot, error)
	Latest(ctx context.Context, userID string) (*snapshots.Snapshot, error)
}

// EventPublisher broadcasts system events
type EventPublisher interface {
	Emit(eventType events.EventType, module string, data events.EventData)
}

// Report is every engine output for one user at one point in time
type Report struct {
	UserID         string                               `json:"user_id"`
	AsOf           time.Time                            `json:"as_of"`
	Metrics        metrics.FinancialMetrics             `json:"metrics"`
	Spending       spending.ByCategory                  `json:"spending"`
	Insights       []insights.Insight                   `json:"insights"`
	Performance    portfolio.PortfolioPerformance       `json:"performance"`
	Recommendation *allocation.InvestmentRecommendation `json:"recommendation,omitempty"`
	Goal           *portfolio.GoalProgress              `json:"goal,omitempty"`
}

// StoredReport is a decoded snapshot
type StoredReport struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Report    Report    `json:"report"`
}

// GoalRequest overrides the goal parameters stored on the profile. Zero fields fall
// back to the profile target and horizon and the amount the user has available to
// invest each month. A nil Current falls back to the holdings value; an explicit zero
// is kept.
type GoalRequest struct {
	Target              float64
	YearsToGoal         int
	Current             *float64
	MonthlyContribution float64
}

// Service runs the engine over stored records
type Service struct {
	transactions domain.TransactionProvider
	accounts     domain.AccountProvider
	holdings     domain.HoldingProvider
	profiles     domain.ProfileProvider
	snapshots    SnapshotStore
	events       EventPublisher
	clock        domain.Clock
	log          zerolog.Logger
}

// NewService creates a new advisor service
func NewService(
	transactions domain.TransactionProvider,
	accounts domain.AccountProvider,
	holdings domain.HoldingProvider,
	profiles domain.ProfileProvider,
	snapshotStore SnapshotStore,
	clock domain.Clock,
	log zerolog.Logger,
) *Service {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Service{
		transactions: transactions,
		accounts:     accounts,
		holdings:     holdings,
		profiles:     profiles,
		snapshots:    snapshotStore,
		clock:        clock,
		log:          log.With().Str("service", "advisor").Logger(),
	}
}

// SetEventPublisher enables SnapshotStored events
func (s *Service) SetEventPublisher(publisher EventPublisher) {
	s.events = publisher
}

// resolveAsOf substitutes the service clock for a zero time
func (s *Service) resolveAsOf(asOf time.Time) time.Time {
	if asOf.IsZero() {
		return s.clock.Now()
	}
	return asOf
}

// loadTransactions fetches the widest window the engine reads (the metrics window) and
// drops anything dated after asOf so historical reports are reproducible.
func (s *Service) loadTransactions(ctx context.Context, userID string, asOf time.Time) ([]domain.Transaction, error) {
	since := metrics.WindowStart(asOf, metrics.WindowMonths)
	txs, err := s.transactions.ListSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	result := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.Date.After(asOf) {
			result = append(result, tx)
		}
	}
	return result, nil
}

func (s *Service) loadMetrics(ctx context.Context, userID string, txs []domain.Transaction, asOf time.Time) (metrics.FinancialMetrics, error) {
	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return metrics.FinancialMetrics{}, fmt.Errorf("failed to load accounts: %w", err)
	}
	return metrics.Compute(txs, domain.EmergencyFundBalance(accounts), asOf), nil
}

func (s *Service) loadProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

func (s *Service) requireProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrProfileNotFound)
	}
	return profile, nil
}

// Metrics computes the three-month financial metrics
func (s *Service) Metrics(ctx context.Context, userID string, asOf time.Time) (metrics.FinancialMetrics, error) {
	asOf = s.resolveAsOf(asOf)
	txs, err := s.loadTransactions(ctx, userID, asOf)
	if err != nil {
		return metrics.FinancialMetrics{}, err
	}
	return s.loadMetrics(ctx, userID, txs, asOf)
}

// Spending computes the one-month category breakdown
func (s *Service) Spending(ctx context.Context, userID string, asOf time.Time) (spending.ByCategory, error) {
	asOf = s.resolveAsOf(asOf)
	txs, err := s.loadTransactions(ctx, userID, asOf)
	if err != nil {
		return nil, err
	}
	return spending.Aggregate(txs, asOf), nil
}

// Insights ranks the advisory insights. A missing profile is not an error.
func (s *Service) Insights(ctx context.Context, userID string, asOf time.Time) ([]insights.Insight, error) {
	asOf = s.resolveAsOf(asOf)
	txs, err := s.loadTransactions(ctx, userID, asOf)
	if err != nil {
		return nil, err
	}
	m, err := s.loadMetrics(ctx, userID, txs, asOf)
	if err != nil {
		return nil, err
	}
	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return insights.Generate(m, spending.Aggregate(txs, asOf), profile), nil
}

// Recommendation blends the goal- and age-based allocations for the stored profile
func (s *Service) Recommendation(ctx context.Context, userID string, asOf time.Time) (allocation.InvestmentRecommendation, error) {
	asOf = s.resolveAsOf(asOf)
	profile, err := s.requireProfile(ctx, userID)
	if err != nil {
		return allocation.InvestmentRecommendation{}, err
	}
	return allocation.Recommend(profile.InvestmentProfileAt(asOf)), nil
}

// Performance evaluates the user's holdings
func (s *Service) Performance(ctx context.Context, userID string) (portfolio.PortfolioPerformance, error) {
	holdings, err := s.holdings.ListByUser(ctx, userID)
	if err != nil {
		return portfolio.PortfolioPerformance{}, fmt.Errorf("failed to load holdings: %w", err)
	}
	return portfolio.Performance(holdings), nil
}

// GoalPlan computes the contribution the user's goal needs and projects the planned one
func (s *Service) GoalPlan(ctx context.Context, userID string, req GoalRequest, asOf time.Time) (portfolio.GoalProgress, error) {
	asOf = s.resolveAsOf(asOf)
	profile, err := s.requireProfile(ctx, userID)
	if err != nil {
		return portfolio.GoalProgress{}, err
	}

	if req.Current == nil {
		perf, err := s.Performance(ctx, userID)
		if err != nil {
			return portfolio.GoalProgress{}, err
		}
		req.Current = &perf.TotalValue
	}

	return planGoal(*profile, req, asOf), nil
}

func planGoal(profile domain.UserProfile, req GoalRequest, asOf time.Time) portfolio.GoalProgress {
	investment := profile.InvestmentProfileAt(asOf)

	if req.Target == 0 {
		req.Target = profile.GoalTarget.InexactFloat64()
	}
	if req.YearsToGoal == 0 {
		req.YearsToGoal = investment.TimeHorizonYears
	}
	if req.MonthlyContribution == 0 {
		req.MonthlyContribution = investment.AvailableToInvest
	}
	var current float64
	if req.Current != nil {
		current = *req.Current
	}
	expected := allocation.Recommend(investment).ExpectedReturn

	return portfolio.PlanGoal(current, req.Target, req.YearsToGoal, expected, req.MonthlyContribution)
}

// Report runs every engine operation over a single load of the user's records.
// Recommendation and goal are omitted when the user has no profile.
func (s *Service) Report(ctx context.Context, userID string, asOf time.Time) (Report, error) {
	asOf = s.resolveAsOf(asOf)

	txs, err := s.loadTransactions(ctx, userID, asOf)
	if err != nil {
		return Report{}, err
	}
	m, err := s.loadMetrics(ctx, userID, txs, asOf)
	if err != nil {
		return Report{}, err
	}
	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return Report{}, err
	}
	perf, err := s.Performance(ctx, userID)
	if err != nil {
		return Report{}, err
	}

	byCategory := spending.Aggregate(txs, asOf)
	report := Report{
		UserID:      userID,
		AsOf:        asOf,
		Metrics:     m,
		Spending:    byCategory,
		Insights:    insights.Generate(m, byCategory, profile),
		Performance: perf,
	}

	if profile != nil {
		rec := allocation.Recommend(profile.InvestmentProfileAt(asOf))
		report.Recommendation = &rec
		if profile.GoalTarget.IsPositive() {
			goal := planGoal(*profile, GoalRequest{Current: &perf.TotalValue}, asOf)
			report.Goal = &goal
		}
	}

	s.log.Debug().
		Str("user_id", userID).
		Time("as_of", asOf).
		Int("insights", len(report.Insights)).
		Bool("has_profile", profile != nil).
		Msg("Report built")

	return report, nil
}

// Snapshot builds a report and stores it
func (s *Service) Snapshot(ctx context.Context, userID string, asOf time.Time) (snapshots.Snapshot, error) {
	report, err := s.Report(ctx, userID, asOf)
	if err != nil {
		return snapshots.Snapshot{}, err
	}

	snap, err := s.snapshots.Save(ctx, userID, report.AsOf, report)
	if err != nil {
		return snapshots.Snapshot{}, fmt.Errorf("failed to save snapshot: %w", err)
	}

	s.log.Info().Str("user_id", userID).Str("snapshot_id", snap.ID).Msg("Snapshot stored")

	if s.events != nil {
		s.events.Emit(events.SnapshotStored, "advisor", &events.SnapshotStoredData{
			UserID:     userID,
			SnapshotID: snap.ID,
			AsOf:       report.AsOf,
		})
	}
	return snap, nil
}

// LatestSnapshot returns the newest stored report, or nil if none exists
func (s *Service) LatestSnapshot(ctx context.Context, userID string) (*StoredReport, error) {
	snap, err := s.snapshots.Latest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if snap == nil {
		return nil, nil
	}

	stored := &StoredReport{ID: snap.ID, CreatedAt: snap.CreatedAt}
	if err := snap.Decode(&stored.Report); err != nil {
		return nil, err
	}
	return stored, nil
}
