package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the per-user advisor routes and the calculators
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/metrics", h.HandleGetMetrics)
		r.Get("/spending", h.HandleGetSpending)
		r.Get("/insights", h.HandleGetInsights)
		r.Get("/recommendation", h.HandleGetRecommendation)
		r.Get("/portfolio/performance", h.HandleGetPerformance)
		r.Get("/goal", h.HandleGetGoal)
		r.Get("/report", h.HandleGetReport)

		r.Route("/snapshots", func(r chi.Router) {
			r.Post("/", h.HandleCreateSnapshot)
			r.Get("/latest", h.HandleGetLatestSnapshot)
		})
	})

	// Stateless calculators, no stored data involved
	r.Route("/calc", func(r chi.Router) {
		r.Post("/categorize", h.HandleCategorize)
		r.Post("/risk", h.HandleAssessRisk)
		r.Post("/contribution", h.HandleContribution)
		r.Post("/projection", h.HandleProjection)
		r.Get("/allocation/age", h.HandleAgeAllocation)
		r.Get("/allocation/goal", h.HandleGoalAllocation)
	})
}
