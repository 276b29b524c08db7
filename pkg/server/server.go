// Package server provides the public entry point for initializing the Carly
// Compare backend: configuration, telemetry, the store, the valuation engine
// and its collaborators, and the HTTP router.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/carlycompare/carlycompare/internal/api"
	"github.com/carlycompare/carlycompare/internal/api/handlers"
	"github.com/carlycompare/carlycompare/internal/baseline"
	"github.com/carlycompare/carlycompare/internal/config"
	"github.com/carlycompare/carlycompare/internal/engine"
	"github.com/carlycompare/carlycompare/internal/llm"
	"github.com/carlycompare/carlycompare/internal/market"
	"github.com/carlycompare/carlycompare/internal/store"
	"github.com/carlycompare/carlycompare/internal/telemetry"

	"github.com/rs/zerolog/log"
)

// Server holds the initialized backend.
type Server struct {
	// Handler is the HTTP handler with all routes and middleware.
	Handler http.Handler

	// Store is the data store, exposed so main can close it on shutdown.
	Store store.Store

	// Port is the port the server should listen on.
	Port int

	// ShutdownFunc should be called on graceful shutdown to flush telemetry.
	ShutdownFunc func(context.Context) error
}

// New initializes all components from environment configuration. The
// inference client is constructed here and injected into the engine; the
// engine itself owns no client lifecycle.
func New(ctx context.Context) (*Server, error) {
	cfg := config.Load()

	shutdown, err := telemetry.Init(cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	dataStore := store.NewMemoryStore(store.Options{
		DataDir:  cfg.Store.DataDir,
		TraceTTL: cfg.Store.TraceTTL,
	})

	gen, err := llm.New(ctx, llm.Config{
		Provider: cfg.Inference.Provider,
		Endpoint: cfg.Inference.Endpoint,
		APIKey:   cfg.Inference.APIKey,
		Model:    cfg.Inference.Model,
		Timeout:  cfg.Inference.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init inference client: %w", err)
	}
	log.Info().Str("generator", gen.Name()).Msg("Inference client initialized")

	baselines := baseline.NewClient(cfg.Baseline.StylesURL, cfg.Baseline.AppraisalURL, cfg.Baseline.Timeout)
	markets := market.NewClient(cfg.Market.SearchURL, cfg.Market.APIKey, cfg.Market.Radius, cfg.Market.Rows, cfg.Market.Timeout)

	eng := engine.New(gen, baselines)
	log.Info().Msg("Valuation engine initialized")

	h := handlers.New(dataStore, eng, baselines, markets, cfg.Version)
	router := api.NewRouter(cfg, h)

	return &Server{
		Handler:      router,
		Store:        dataStore,
		Port:         cfg.Port,
		ShutdownFunc: shutdown,
	}, nil
}
