// Package holdings stores the securities a user holds.
package holdings

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/finsight/internal/domain"
)

// Repository handles holding database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new holdings repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "holdings").Logger(),
	}
}

// Upsert inserts or replaces the user's position in a symbol.
// Symbols are stored upper-case.
func (r *Repository) Upsert(ctx context.Context, userID string, h domain.Holding) error {
	symbol := strings.ToUpper(strings.TrimSpace(h.Symbol))
	if userID == "" || symbol == "" {
		return fmt.Errorf("holding requires a user id and a symbol")
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO holdings (user_id, symbol, shares, purchase_price, current_price, previous_price, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, symbol) DO UPDATE SET
			shares = excluded.shares,
			purchase_price = excluded.purchase_price,
			current_price = excluded.current_price,
			previous_price = excluded.previous_price,
			updated_at = excluded.updated_at
	`, userID, symbol, h.Shares, h.PurchasePrice, h.CurrentPrice, h.PreviousPrice, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert holding %s: %w", symbol, err)
	}

	r.log.Debug().Str("user_id", userID).Str("symbol", symbol).Msg("Holding upserted")
	return nil
}

// Delete removes the user's position in a symbol
func (r *Repository) Delete(ctx context.Context, userID, symbol string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM holdings WHERE user_id = ? AND symbol = ?",
		userID, strings.ToUpper(strings.TrimSpace(symbol)),
	)
	if err != nil {
		return fmt.Errorf("failed to delete holding %s: %w", symbol, err)
	}
	return nil
}

// ListByUser returns the user's holdings ordered by symbol
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]domain.Holding, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol, shares, purchase_price, current_price, previous_price
		FROM holdings
		WHERE user_id = ?
		ORDER BY symbol
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var result []domain.Holding
	for rows.Next() {
		var h domain.Holding
		if err := rows.Scan(&h.Symbol, &h.Shares, &h.PurchasePrice, &h.CurrentPrice, &h.PreviousPrice); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		result = append(result, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return result, nil
}
