package domain

import (
	"context"
	"time"
)

// TransactionProvider supplies read-only transaction snapshots
type TransactionProvider interface {
	// ListSince returns the user's transactions dated on or after since
	ListSince(ctx context.Context, userID string, since time.Time) ([]Transaction, error)
}

// AccountProvider supplies account balance snapshots
type AccountProvider interface {
	ListByUser(ctx context.Context, userID string) ([]Account, error)
}

// HoldingProvider supplies the holdings of a user's portfolio
type HoldingProvider interface {
	ListByUser(ctx context.Context, userID string) ([]Holding, error)
}

// ProfileProvider supplies stored user profiles.
// Get returns nil, nil when the user has no profile.
type ProfileProvider interface {
	Get(ctx context.Context, userID string) (*UserProfile, error)
}
