/*
server.go - Router and middleware configuration

MIDDLEWARE STACK:
  Logger, Recoverer, RequestID, CORS. No authentication: this service sits
  behind the payroll team's internal network, same as the spreadsheets it
  replaces.
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates the router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/runs", h.RunBenefits)
		r.Get("/runs/{key}", h.GetCachedRun)
		r.Get("/health", h.Health)
	})

	return r
}
