// Package handlers provides HTTP handlers for the advisor and the stateless calculators.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/finsight/internal/modules/advisor"
)

// asOfLayout is the date format accepted by the asOf query parameter
const asOfLayout = "2006-01-02"

// Handler handles advisor HTTP requests
type Handler struct {
	service *advisor.Service
	log     zerolog.Logger
}

// NewHandler creates a new advisor handler
func NewHandler(service *advisor.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "advisor").Logger(),
	}
}

// parseAsOf reads the optional asOf query parameter. A date covers the whole day, so
// it resolves to the last second of that day in UTC. Absent means "now".
func parseAsOf(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("asOf")
	if raw == "" {
		return time.Time{}, nil
	}
	day, err := time.Parse(asOfLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid asOf %q, expected YYYY-MM-DD", raw)
	}
	return day.Add(24*time.Hour - time.Second), nil
}

// queryFloat returns nil when the parameter is absent
func queryFloat(r *http.Request, key string) (*float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, raw)
	}
	return &v, nil
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return v, nil
}

// HandleGetMetrics handles GET /api/users/{userID}/metrics
func (h *Handler) HandleGetMetrics(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := h.service.Metrics(r.Context(), chi.URLParam(r, "userID"), asOf)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

// HandleGetSpending handles GET /api/users/{userID}/spending
func (h *Handler) HandleGetSpending(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	byCategory, err := h.service.Spending(r.Context(), chi.URLParam(r, "userID"), asOf)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":       byCategory.Total(),
		"by_category": byCategory,
		"sorted":      byCategory.Sorted(),
	})
}

// HandleGetInsights handles GET /api/users/{userID}/insights
func (h *Handler) HandleGetInsights(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.service.Insights(r.Context(), chi.URLParam(r, "userID"), asOf)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"insights": result,
		"count":    len(result),
	})
}

// HandleGetRecommendation handles GET /api/users/{userID}/recommendation
func (h *Handler) HandleGetRecommendation(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := h.service.Recommendation(r.Context(), chi.URLParam(r, "userID"), asOf)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

// HandleGetPerformance handles GET /api/users/{userID}/portfolio/performance
func (h *Handler) HandleGetPerformance(w http.ResponseWriter, r *http.Request) {
	perf, err := h.service.Performance(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, perf)
}

// HandleGetGoal handles GET /api/users/{userID}/goal?target=&years=&current=&contribution=
func (h *Handler) HandleGetGoal(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req advisor.GoalRequest
	target, err := queryFloat(r, "target")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if target != nil {
		req.Target = *target
	}
	if req.YearsToGoal, err = queryInt(r, "years"); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Current, err = queryFloat(r, "current"); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	contribution, err := queryFloat(r, "contribution")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if contribution != nil {
		req.MonthlyContribution = *contribution
	}

	plan, err := h.service.GoalPlan(r.Context(), chi.URLParam(r, "userID"), req, asOf)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, plan)
}

// HandleGetReport handles GET /api/users/{userID}/report
func (h *Handler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := h.service.Report(r.Context(), chi.URLParam(r, "userID"), asOf)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

// HandleCreateSnapshot handles POST /api/users/{userID}/snapshots
func (h *Handler) HandleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, err := h.service.Snapshot(r.Context(), chi.URLParam(r, "userID"), asOf)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, snap)
}

// HandleGetLatestSnapshot handles GET /api/users/{userID}/snapshots/latest
func (h *Handler) HandleGetLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	stored, err := h.service.LatestSnapshot(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	if stored == nil {
		h.writeError(w, http.StatusNotFound, "no snapshot stored")
		return
	}
	h.writeJSON(w, http.StatusOK, stored)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, advisor.ErrProfileNotFound) {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.log.Error().Err(err).Msg("Advisor request failed")
	h.writeError(w, http.StatusInternalServerError, "internal error")
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
