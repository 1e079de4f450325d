// Package ledger stores the transactions and account balances the metrics are derived from.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aristath/finsight/internal/database"
	"github.com/aristath/finsight/internal/domain"
)

// TransactionRepository handles transaction database operations
type TransactionRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *sql.DB, log zerolog.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:  db,
		log: log.With().Str("repo", "transactions").Logger(),
	}
}

const insertTransaction = `
	INSERT INTO transactions (id, user_id, amount, description, type, date, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insert(ctx context.Context, ex execer, tx *domain.Transaction) error {
	if tx.UserID == "" {
		return fmt.Errorf("transaction has no user id")
	}
	if !tx.Type.Valid() {
		return fmt.Errorf("invalid transaction type %q", tx.Type)
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}

	_, err := ex.ExecContext(ctx, insertTransaction,
		tx.ID,
		tx.UserID,
		tx.Amount.String(),
		tx.Description,
		string(tx.Type),
		tx.Date.Unix(),
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", tx.ID, err)
	}
	return nil
}

// Create stores a transaction, assigning an id when it has none
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	if err := insert(ctx, r.db, tx); err != nil {
		return err
	}
	r.log.Debug().Str("id", tx.ID).Str("user_id", tx.UserID).Msg("Transaction created")
	return nil
}

// CreateBatch stores transactions atomically
func (r *TransactionRepository) CreateBatch(ctx context.Context, txs []domain.Transaction) error {
	err := database.WithTransaction(r.db, func(sqlTx *sql.Tx) error {
		for i := range txs {
			if err := insert(ctx, sqlTx, &txs[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.log.Info().Int("count", len(txs)).Msg("Transactions imported")
	return nil
}

// ListSince returns the user's transactions dated on or after since, oldest first
func (r *TransactionRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount, description, type, date
		FROM transactions
		WHERE user_id = ? AND date >= ?
		ORDER BY date ASC, id ASC
	`, userID, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var result []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var amount string
		var txType string
		var date int64

		if err := rows.Scan(&tx.ID, &tx.UserID, &amount, &tx.Description, &txType, &date); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		tx.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q on transaction %s: %w", amount, tx.ID, err)
		}
		tx.Type = domain.TransactionType(txType)
		tx.Date = time.Unix(date, 0).UTC()

		result = append(result, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return result, nil
}
