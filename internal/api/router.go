package api

import (
	"encoding/json"
	"net/http"

	"github.com/carlycompare/carlycompare/internal/api/handlers"
	"github.com/carlycompare/carlycompare/internal/api/middleware"
	"github.com/carlycompare/carlycompare/internal/config"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates the HTTP router with all API routes.
func NewRouter(cfg *config.Config, h *handlers.Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Logger)
	r.Use(middleware.Telemetry)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	auth := middleware.NewAPIKeyAuth()

	// Health & info
	r.Get("/health", healthHandler)
	r.Get("/version", versionHandler(cfg))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/quote", h.Quote)
		r.Post("/quote/anchored", h.QuoteAnchored)
		r.Post("/baseline", h.BaselineLookup)
		r.Post("/market", h.MarketScan)
		r.Post("/waitlist", h.JoinWaitlist)
		r.Post("/subscribe", h.Subscribe)

		// Operator surface
		r.With(auth.Middleware).Get("/traces", h.ListTraces)
	})

	// Operator dashboard
	r.With(auth.Middleware).Get("/dashboard", h.Dashboard)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "carlycompare-backend",
	})
}

func versionHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"version": cfg.Version,
			"service": "carlycompare-backend",
		})
	}
}
