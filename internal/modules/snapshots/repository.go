// Package snapshots persists point-in-time evaluation reports.
package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot is a stored, msgpack-encoded report
type Snapshot struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	AsOf      time.Time `json:"as_of"`
	CreatedAt time.Time `json:"created_at"`
	Payload   []byte    `json:"-"`
}

// Decode unpacks the payload into v
func (s Snapshot) Decode(v interface{}) error {
	if err := msgpack.Unmarshal(s.Payload, v); err != nil {
		return fmt.Errorf("failed to decode snapshot %s: %w", s.ID, err)
	}
	return nil
}

// Encode packs a report for storage
func Encode(v interface{}) ([]byte, error) {
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return payload, nil
}

// New builds a snapshot with a fresh id
func New(userID string, asOf, createdAt time.Time, report interface{}) (Snapshot, error) {
	payload, err := Encode(report)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		ID:        uuid.NewString(),
		UserID:    userID,
		AsOf:      asOf.UTC(),
		CreatedAt: createdAt.UTC(),
		Payload:   payload,
	}, nil
}

// Repository handles snapshot database operations
type Repository struct {
	db  *sql.DB
	now func() time.Time
	log zerolog.Logger
}

// NewRepository creates a new snapshot repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		now: time.Now,
		log: log.With().Str("repo", "snapshots").Logger(),
	}
}

// Save encodes report and stores it as the newest snapshot for userID
func (r *Repository) Save(ctx context.Context, userID string, asOf time.Time, report interface{}) (Snapshot, error) {
	snap, err := New(userID, asOf, r.now(), report)
	if err != nil {
		return Snapshot{}, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, user_id, as_of, created_at, payload)
		VALUES (?, ?, ?, ?, ?)
	`, snap.ID, snap.UserID, snap.AsOf.Unix(), snap.CreatedAt.Unix(), snap.Payload)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to insert snapshot for %s: %w", userID, err)
	}

	r.log.Debug().
		Str("user_id", userID).
		Str("snapshot_id", snap.ID).
		Int("bytes", len(snap.Payload)).
		Msg("Snapshot saved")

	return snap, nil
}

// Latest returns the most recently created snapshot, or nil if the user has none
func (r *Repository) Latest(ctx context.Context, userID string) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, as_of, created_at, payload
		FROM snapshots
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, userID)

	var snap Snapshot
	var asOf, createdAt int64
	if err := row.Scan(&snap.ID, &snap.UserID, &asOf, &createdAt, &snap.Payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest snapshot for %s: %w", userID, err)
	}
	snap.AsOf = time.Unix(asOf, 0).UTC()
	snap.CreatedAt = time.Unix(createdAt, 0).UTC()

	return &snap, nil
}
