package testing

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aristath/finsight/internal/domain"
)

// MockTransactionProvider is an in-memory domain.TransactionProvider
type MockTransactionProvider struct {
	mu           sync.RWMutex
	transactions []domain.Transaction
	err          error
}

// NewMockTransactionProvider creates a new mock transaction provider
func NewMockTransactionProvider(transactions ...domain.Transaction) *MockTransactionProvider {
	return &MockTransactionProvider{transactions: transactions}
}

// SetTransactions replaces the stored transactions
func (m *MockTransactionProvider) SetTransactions(transactions []domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = transactions
}

// SetError sets the error to return
func (m *MockTransactionProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// ListSince returns the user's transactions dated on or after since, oldest first
func (m *MockTransactionProvider) ListSince(_ context.Context, userID string, since time.Time) ([]domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}

	result := make([]domain.Transaction, 0, len(m.transactions))
	for _, tx := range m.transactions {
		if tx.UserID == userID && !tx.Date.Before(since) {
			result = append(result, tx)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// MockAccountProvider is an in-memory domain.AccountProvider
type MockAccountProvider struct {
	mu       sync.RWMutex
	accounts []domain.Account
	err      error
}

// NewMockAccountProvider creates a new mock account provider
func NewMockAccountProvider(accounts ...domain.Account) *MockAccountProvider {
	return &MockAccountProvider{accounts: accounts}
}

// SetError sets the error to return
func (m *MockAccountProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// ListByUser returns the user's accounts
func (m *MockAccountProvider) ListByUser(_ context.Context, userID string) ([]domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}

	result := make([]domain.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		if acc.UserID == userID {
			result = append(result, acc)
		}
	}
	return result, nil
}

// MockHoldingProvider is an in-memory domain.HoldingProvider keyed by user
type MockHoldingProvider struct {
	mu       sync.RWMutex
	holdings map[string][]domain.Holding
	err      error
}

// NewMockHoldingProvider creates a new mock holding provider
func NewMockHoldingProvider() *MockHoldingProvider {
	return &MockHoldingProvider{holdings: make(map[string][]domain.Holding)}
}

// SetHoldings sets the holdings returned for userID
func (m *MockHoldingProvider) SetHoldings(userID string, holdings []domain.Holding) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holdings[userID] = holdings
}

// SetError sets the error to return
func (m *MockHoldingProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// ListByUser returns the user's holdings
func (m *MockHoldingProvider) ListByUser(_ context.Context, userID string) ([]domain.Holding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.Holding(nil), m.holdings[userID]...), nil
}

// MockProfileProvider is an in-memory domain.ProfileProvider
type MockProfileProvider struct {
	mu       sync.RWMutex
	profiles map[string]domain.UserProfile
	err      error
}

// NewMockProfileProvider creates a new mock profile provider
func NewMockProfileProvider(profiles ...domain.UserProfile) *MockProfileProvider {
	m := &MockProfileProvider{profiles: make(map[string]domain.UserProfile)}
	for _, p := range profiles {
		m.profiles[p.UserID] = p
	}
	return m
}

// SetError sets the error to return
func (m *MockProfileProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Get returns the stored profile or nil if there is none
func (m *MockProfileProvider) Get(_ context.Context, userID string) (*domain.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// ListUserIDs returns every user with a profile, sorted
func (m *MockProfileProvider) ListUserIDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	ids := make([]string, 0, len(m.profiles))
	for id := range m.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
