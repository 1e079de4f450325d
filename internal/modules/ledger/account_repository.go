package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aristath/finsight/internal/domain"
)

// AccountRepository handles account balance database operations
type AccountRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *sql.DB, log zerolog.Logger) *AccountRepository {
	return &AccountRepository{
		db:  db,
		log: log.With().Str("repo", "accounts").Logger(),
	}
}

// Upsert inserts or replaces an account by id
func (r *AccountRepository) Upsert(ctx context.Context, acc domain.Account) error {
	if acc.ID == "" || acc.UserID == "" {
		return fmt.Errorf("account requires an id and a user id")
	}
	if !acc.Type.Valid() {
		return fmt.Errorf("invalid account type %q", acc.Type)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, name, type, balance, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			name = excluded.name,
			type = excluded.type,
			balance = excluded.balance,
			updated_at = excluded.updated_at
	`, acc.ID, acc.UserID, acc.Name, string(acc.Type), acc.Balance.String(), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert account %s: %w", acc.ID, err)
	}

	r.log.Debug().Str("id", acc.ID).Str("type", string(acc.Type)).Msg("Account upserted")
	return nil
}

// ListByUser returns the user's accounts ordered by id
func (r *AccountRepository) ListByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, type, balance
		FROM accounts
		WHERE user_id = ?
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var result []domain.Account
	for rows.Next() {
		var acc domain.Account
		var accType, balance string

		if err := rows.Scan(&acc.ID, &acc.UserID, &acc.Name, &accType, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		acc.Type = domain.AccountType(accType)
		acc.Balance, err = decimal.NewFromString(balance)
		if err != nil {
			return nil, fmt.Errorf("invalid balance %q on account %s: %w", balance, acc.ID, err)
		}

		result = append(result, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return result, nil
}
