// Package handlers provides HTTP handlers for the records the analytics read:
// transactions, account balances, holdings and the user profile.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/finsight/internal/domain"
)

const (
	dateLayout       = "2006-01-02"
	defaultListLimit = 500
	maxBatchSize     = 10000
)

// TransactionStore reads and imports transactions
type TransactionStore interface {
	domain.TransactionProvider
	CreateBatch(ctx context.Context, txs []domain.Transaction) error
}

// AccountStore reads and replaces account balances
type AccountStore interface {
	domain.AccountProvider
	Upsert(ctx context.Context, acc domain.Account) error
}

// HoldingStore reads and edits portfolio positions
type HoldingStore interface {
	domain.HoldingProvider
	Upsert(ctx context.Context, userID string, h domain.Holding) error
	Delete(ctx context.Context, userID, symbol string) error
}

// ProfileStore reads and replaces user profiles
type ProfileStore interface {
	domain.ProfileProvider
	Upsert(ctx context.Context, p domain.UserProfile) error
}

// Handler handles ledger HTTP requests
type Handler struct {
	transactions TransactionStore
	accounts     AccountStore
	holdings     HoldingStore
	profiles     ProfileStore
	log          zerolog.Logger
}

// NewHandler creates a new ledger handler
func NewHandler(
	transactions TransactionStore,
	accounts AccountStore,
	holdings HoldingStore,
	profiles ProfileStore,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		transactions: transactions,
		accounts:     accounts,
		holdings:     holdings,
		profiles:     profiles,
		log:          log.With().Str("handler", "ledger").Logger(),
	}
}

// HandleGetTransactions handles GET /api/users/{userID}/ledger/transactions.
// Query parameters: since (YYYY-MM-DD, default epoch), limit (newest kept, default 500).
func (h *Handler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	since := time.Unix(0, 0).UTC()
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid since %q, expected YYYY-MM-DD", raw))
			return
		}
		since = parsed
	}

	limit := defaultListLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	txs, err := h.transactions.ListSince(r.Context(), userID, since)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to query transactions")
		h.writeError(w, http.StatusInternalServerError, "failed to query transactions")
		return
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	if len(txs) > limit {
		txs = txs[len(txs)-limit:]
	}

	h.writeData(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"count":        len(txs),
	})
}

// HandleImportTransactions handles POST /api/users/{userID}/ledger/transactions.
// The body is a JSON array; the batch is stored atomically.
func (h *Handler) HandleImportTransactions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var txs []domain.Transaction
	if err := decodeBody(r, &txs); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(txs) == 0 {
		h.writeError(w, http.StatusBadRequest, "no transactions in request")
		return
	}
	if len(txs) > maxBatchSize {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("batch exceeds %d transactions", maxBatchSize))
		return
	}

	for i := range txs {
		tx := &txs[i]
		if !tx.Type.Valid() {
			h.writeError(w, http.StatusBadRequest, fmt.Sprintf("transaction %d: invalid type %q", i, tx.Type))
			return
		}
		if tx.Date.IsZero() {
			h.writeError(w, http.StatusBadRequest, fmt.Sprintf("transaction %d: missing date", i))
			return
		}
		tx.UserID = userID
	}

	if err := h.transactions.CreateBatch(r.Context(), txs); err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to import transactions")
		h.writeError(w, http.StatusInternalServerError, "failed to import transactions")
		return
	}

	ids := make([]string, len(txs))
	for i, tx := range txs {
		ids[i] = tx.ID
	}
	h.writeData(w, http.StatusCreated, map[string]interface{}{
		"imported": len(txs),
		"ids":      ids,
	})
}

// HandleGetAccounts handles GET /api/users/{userID}/ledger/accounts
func (h *Handler) HandleGetAccounts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	accounts, err := h.accounts.ListByUser(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to query accounts")
		h.writeError(w, http.StatusInternalServerError, "failed to query accounts")
		return
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}

	h.writeData(w, http.StatusOK, map[string]interface{}{
		"accounts":       accounts,
		"count":          len(accounts),
		"emergency_fund": domain.EmergencyFundBalance(accounts),
	})
}

// HandlePutAccount handles PUT /api/users/{userID}/ledger/accounts/{accountID}
func (h *Handler) HandlePutAccount(w http.ResponseWriter, r *http.Request) {
	var acc domain.Account
	if err := decodeBody(r, &acc); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !acc.Type.Valid() {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid account type %q", acc.Type))
		return
	}
	acc.ID = chi.URLParam(r, "accountID")
	acc.UserID = chi.URLParam(r, "userID")

	if err := h.accounts.Upsert(r.Context(), acc); err != nil {
		h.log.Error().Err(err).Str("account_id", acc.ID).Msg("Failed to store account")
		h.writeError(w, http.StatusInternalServerError, "failed to store account")
		return
	}
	h.writeData(w, http.StatusOK, acc)
}

// HandleGetHoldings handles GET /api/users/{userID}/ledger/holdings
func (h *Handler) HandleGetHoldings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	holdings, err := h.holdings.ListByUser(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to query holdings")
		h.writeError(w, http.StatusInternalServerError, "failed to query holdings")
		return
	}
	if holdings == nil {
		holdings = []domain.Holding{}
	}

	h.writeData(w, http.StatusOK, map[string]interface{}{
		"holdings": holdings,
		"count":    len(holdings),
	})
}

// HandlePutHolding handles PUT /api/users/{userID}/ledger/holdings/{symbol}
func (h *Handler) HandlePutHolding(w http.ResponseWriter, r *http.Request) {
	var holding domain.Holding
	if err := decodeBody(r, &holding); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if holding.Shares < 0 || holding.PurchasePrice < 0 || holding.CurrentPrice < 0 || holding.PreviousPrice < 0 {
		h.writeError(w, http.StatusBadRequest, "shares and prices must not be negative")
		return
	}
	holding.Symbol = strings.ToUpper(chi.URLParam(r, "symbol"))

	if err := h.holdings.Upsert(r.Context(), chi.URLParam(r, "userID"), holding); err != nil {
		h.log.Error().Err(err).Str("symbol", holding.Symbol).Msg("Failed to store holding")
		h.writeError(w, http.StatusInternalServerError, "failed to store holding")
		return
	}
	h.writeData(w, http.StatusOK, holding)
}

// HandleDeleteHolding handles DELETE /api/users/{userID}/ledger/holdings/{symbol}
func (h *Handler) HandleDeleteHolding(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if err := h.holdings.Delete(r.Context(), chi.URLParam(r, "userID"), symbol); err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to delete holding")
		h.writeError(w, http.StatusInternalServerError, "failed to delete holding")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetProfile handles GET /api/users/{userID}/ledger/profile
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to query profile")
		h.writeError(w, http.StatusInternalServerError, "failed to query profile")
		return
	}
	if profile == nil {
		h.writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	h.writeData(w, http.StatusOK, profile)
}

// HandlePutProfile handles PUT /api/users/{userID}/ledger/profile
func (h *Handler) HandlePutProfile(w http.ResponseWriter, r *http.Request) {
	var profile domain.UserProfile
	if err := decodeBody(r, &profile); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if profile.RiskTolerance == "" {
		profile.RiskTolerance = domain.RiskModerate
	}
	tolerance, ok := domain.ParseRiskTolerance(string(profile.RiskTolerance))
	if !ok {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid risk tolerance %q", profile.RiskTolerance))
		return
	}
	if profile.RetirementAge < 0 || profile.InvestmentHorizonYears < 0 {
		h.writeError(w, http.StatusBadRequest, "ages and horizons must not be negative")
		return
	}
	profile.RiskTolerance = tolerance
	if profile.GoalType == "" {
		profile.GoalType = domain.GoalGeneral
	}
	profile.UserID = chi.URLParam(r, "userID")

	if err := h.profiles.Upsert(r.Context(), profile); err != nil {
		h.log.Error().Err(err).Str("user_id", profile.UserID).Msg("Failed to store profile")
		h.writeError(w, http.StatusInternalServerError, "failed to store profile")
		return
	}
	h.writeData(w, http.StatusOK, profile)
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeData wraps a payload in the data/metadata envelope
func (h *Handler) writeData(w http.ResponseWriter, status int, data interface{}) {
	h.writeJSON(w, status, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
