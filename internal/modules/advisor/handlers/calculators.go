package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aristath/finsight/internal/domain"
	"github.com/aristath/finsight/internal/modules/allocation"
	"github.com/aristath/finsight/internal/modules/categorization"
	"github.com/aristath/finsight/internal/modules/portfolio"
)

// maxCategorizeBatch bounds a single categorize request
const maxCategorizeBatch = 1000

type categorizeRequest struct {
	Descriptions []string `json:"descriptions"`
}

type categorizedDescription struct {
	Description string                  `json:"description"`
	Category    categorization.Category `json:"category"`
}

type contributionRequest struct {
	Current              float64 `json:"current"`
	Target               float64 `json:"target"`
	YearsToGoal          int     `json:"years_to_goal"`
	ExpectedAnnualReturn float64 `json:"expected_annual_return"`
}

type projectionRequest struct {
	Current              float64 `json:"current"`
	MonthlyContribution  float64 `json:"monthly_contribution"`
	ExpectedAnnualReturn float64 `json:"expected_annual_return"`
	Target               float64 `json:"target"`
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// parseTolerance accepts an empty value as moderate
func parseTolerance(raw string) (domain.RiskTolerance, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.RiskModerate, nil
	}
	tolerance, ok := domain.ParseRiskTolerance(raw)
	if !ok {
		return "", fmt.Errorf("invalid risk tolerance %q", raw)
	}
	return tolerance, nil
}

// HandleCategorize handles POST /api/calc/categorize
func (h *Handler) HandleCategorize(w http.ResponseWriter, r *http.Request) {
	var req categorizeRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Descriptions) > maxCategorizeBatch {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d descriptions per request", maxCategorizeBatch))
		return
	}

	result := make([]categorizedDescription, 0, len(req.Descriptions))
	for _, d := range req.Descriptions {
		result = append(result, categorizedDescription{
			Description: d,
			Category:    categorization.Categorize(d),
		})
	}
	h.writeJSON(w, http.StatusOK, result)
}

// HandleAssessRisk handles POST /api/calc/risk
func (h *Handler) HandleAssessRisk(w http.ResponseWriter, r *http.Request) {
	var a allocation.AssetAllocation
	if err := decodeBody(r, &a); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"risk":            allocation.AssessRisk(a),
		"expected_return": allocation.ExpectedReturn(a),
	})
}

// HandleContribution handles POST /api/calc/contribution
func (h *Handler) HandleContribution(w http.ResponseWriter, r *http.Request) {
	var req contributionRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]float64{
		"monthly_contribution": portfolio.MonthlyContributionNeeded(
			req.Current, req.Target, req.YearsToGoal, req.ExpectedAnnualReturn,
		),
	})
}

// HandleProjection handles POST /api/calc/projection
func (h *Handler) HandleProjection(w http.ResponseWriter, r *http.Request) {
	var req projectionRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, portfolio.ProjectGoal(
		req.Current, req.MonthlyContribution, req.ExpectedAnnualReturn, req.Target,
	))
}

// HandleAgeAllocation handles GET /api/calc/allocation/age?age=&risk=
func (h *Handler) HandleAgeAllocation(w http.ResponseWriter, r *http.Request) {
	age, err := queryInt(r, "age")
	if err != nil || age < 0 {
		h.writeError(w, http.StatusBadRequest, "age must be a non-negative integer")
		return
	}
	tolerance, err := parseTolerance(r.URL.Query().Get("risk"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, allocation.AgeBased(age, tolerance))
}

// HandleGoalAllocation handles GET /api/calc/allocation/goal?years=&risk=&goal=
func (h *Handler) HandleGoalAllocation(w http.ResponseWriter, r *http.Request) {
	years, err := queryInt(r, "years")
	if err != nil || years < 0 {
		h.writeError(w, http.StatusBadRequest, "years must be a non-negative integer")
		return
	}
	tolerance, err := parseTolerance(r.URL.Query().Get("risk"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	goal := domain.GoalType(strings.ToLower(r.URL.Query().Get("goal")))
	if goal == "" {
		goal = domain.GoalGeneral
	}
	h.writeJSON(w, http.StatusOK, allocation.GoalBased(years, tolerance, goal))
}
