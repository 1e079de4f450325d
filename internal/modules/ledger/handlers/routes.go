package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all ledger routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users/{userID}/ledger", func(r chi.Router) {
		r.Get("/transactions", h.HandleGetTransactions)
		r.Post("/transactions", h.HandleImportTransactions)

		r.Get("/accounts", h.HandleGetAccounts)
		r.Put("/accounts/{accountID}", h.HandlePutAccount)

		r.Route("/holdings", func(r chi.Router) {
			r.Get("/", h.HandleGetHoldings)
			r.Put("/{symbol}", h.HandlePutHolding)
			r.Delete("/{symbol}", h.HandleDeleteHolding)
		})

		r.Get("/profile", h.HandleGetProfile)
		r.Put("/profile", h.HandlePutProfile)
	})
}
