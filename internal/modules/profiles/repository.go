// Package profiles stores user investment profiles.
package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aristath/finsight/internal/domain"
)

// Repository handles user profile database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new profile repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "profiles").Logger(),
	}
}

// Upsert inserts or replaces a profile. Unknown risk tolerances are rejected. An empty
// tolerance is stored as moderate and an empty goal type as general.
func (r *Repository) Upsert(ctx context.Context, p domain.UserProfile) error {
	if p.UserID == "" {
		return fmt.Errorf("profile requires a user id")
	}
	tolerance := domain.RiskModerate
	if p.RiskTolerance != "" {
		var ok bool
		if tolerance, ok = domain.ParseRiskTolerance(string(p.RiskTolerance)); !ok {
			return fmt.Errorf("invalid risk tolerance %q", p.RiskTolerance)
		}
	}
	goal := p.GoalType
	if goal == "" {
		goal = domain.GoalGeneral
	}

	var birthDate sql.NullInt64
	if !p.BirthDate.IsZero() {
		birthDate = sql.NullInt64{Int64: p.BirthDate.Unix(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (
			user_id, name, birth_date, risk_tolerance, goal_type, annual_income,
			available_to_invest, goal_target, retirement_age, investment_horizon_years, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			name = excluded.name,
			birth_date = excluded.birth_date,
			risk_tolerance = excluded.risk_tolerance,
			goal_type = excluded.goal_type,
			annual_income = excluded.annual_income,
			available_to_invest = excluded.available_to_invest,
			goal_target = excluded.goal_target,
			retirement_age = excluded.retirement_age,
			investment_horizon_years = excluded.investment_horizon_years,
			updated_at = excluded.updated_at
	`,
		p.UserID,
		p.Name,
		birthDate,
		string(tolerance),
		string(goal),
		p.AnnualIncome.String(),
		p.AvailableToInvest.String(),
		p.GoalTarget.String(),
		p.RetirementAge,
		p.InvestmentHorizonYears,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile %s: %w", p.UserID, err)
	}

	r.log.Debug().Str("user_id", p.UserID).Msg("Profile upserted")
	return nil
}

// Get returns the user's profile, or nil if none is stored
func (r *Repository) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, name, birth_date, risk_tolerance, goal_type, annual_income,
			available_to_invest, goal_target, retirement_age, investment_horizon_years
		FROM profiles
		WHERE user_id = ?
	`, userID)

	var p domain.UserProfile
	var birthDate sql.NullInt64
	var tolerance, goal, income, available, target string

	err := row.Scan(
		&p.UserID,
		&p.Name,
		&birthDate,
		&tolerance,
		&goal,
		&income,
		&available,
		&target,
		&p.RetirementAge,
		&p.InvestmentHorizonYears,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query profile %s: %w", userID, err)
	}

	if birthDate.Valid {
		p.BirthDate = time.Unix(birthDate.Int64, 0).UTC()
	}
	p.RiskTolerance = domain.RiskTolerance(tolerance)
	p.GoalType = domain.GoalType(goal)

	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&p.AnnualIncome, income},
		{&p.AvailableToInvest, available},
		{&p.GoalTarget, target},
	} {
		if *f.dst, err = decimal.NewFromString(f.src); err != nil {
			return nil, fmt.Errorf("invalid amount %q on profile %s: %w", f.src, userID, err)
		}
	}

	return &p, nil
}

// ListUserIDs returns every user with a stored profile
func (r *Repository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT user_id FROM profiles ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query profile user ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}

	return ids, nil
}
