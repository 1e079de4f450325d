package main

import (
	"context"
	"sort"
	"time"

	"github.com/aristath/finsight/internal/domain"
)

// fileStore serves one user's records loaded from a snapshot file
type fileStore struct {
	userID       string
	profile      *domain.UserProfile
	transactions []domain.Transaction
	accounts     []domain.Account
	holdings     []domain.Holding
}

func (s *fileStore) ListSince(ctx context.Context, userID string, since time.Time) ([]domain.Transaction, error) {
	if userID != s.userID {
		return nil, nil
	}
	result := make([]domain.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		if !tx.Date.Before(since) {
			result = append(result, tx)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

type accountSource struct{ *fileStore }

func (s accountSource) ListByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	if userID != s.userID {
		return nil, nil
	}
	return s.accounts, nil
}

type holdingSource struct{ *fileStore }

func (s holdingSource) ListByUser(ctx context.Context, userID string) ([]domain.Holding, error) {
	if userID != s.userID {
		return nil, nil
	}
	return s.holdings, nil
}

func (s *fileStore) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if userID != s.userID || s.profile == nil {
		return nil, nil
	}
	p := *s.profile
	return &p, nil
}
