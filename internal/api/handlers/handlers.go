// Package handlers implements the HTTP handlers for the Carly Compare
// backend: quote endpoints delegating to the valuation engine, baseline and
// market lookups, and the waitlist/subscriber intake.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/carlycompare/carlycompare/internal/baseline"
	"github.com/carlycompare/carlycompare/internal/engine"
	"github.com/carlycompare/carlycompare/internal/market"
	"github.com/carlycompare/carlycompare/internal/store"
	"github.com/carlycompare/carlycompare/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handlers holds all handler dependencies.
type Handlers struct {
	Store    store.Store
	Engine   *engine.Engine
	Baseline *baseline.Client
	Market   *market.Client
	Version  string
}

// New creates a Handlers instance with all dependencies.
func New(s store.Store, eng *engine.Engine, bl *baseline.Client, mkt *market.Client, version string) *Handlers {
	return &Handlers{
		Store:    s,
		Engine:   eng,
		Baseline: bl,
		Market:   mkt,
		Version:  version,
	}
}

// ── Quote Handlers ──────────────────────────────────────────

// Quote produces an un-anchored estimate for the posted vehicle.
func (h *Handlers) Quote(w http.ResponseWriter, r *http.Request) {
	h.estimate(w, r, engine.Options{})
}

// QuoteAnchored produces an estimate anchored to the external appraisal
// baseline. A baseline failure aborts the request.
func (h *Handlers) QuoteAnchored(w http.ResponseWriter, r *http.Request) {
	h.estimate(w, r, engine.Options{WithBaseline: true})
}

func (h *Handlers) estimate(w http.ResponseWriter, r *http.Request, opts engine.Options) {
	var in engine.VehicleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	start := time.Now()
	quote, err := h.Engine.Estimate(r.Context(), in, opts)
	h.recordTrace(r, in, opts.WithBaseline, time.Since(start), err)

	if err != nil {
		status, msg := statusForEngineError(err)
		respondJSON(w, status, map[string]string{
			"error": msg,
			"kind":  string(engine.KindOf(err)),
		})
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// recordTrace persists the request outcome for the operator dashboard.
// Best-effort: a store failure is logged, never surfaced.
func (h *Handlers) recordTrace(r *http.Request, in engine.VehicleInput, anchored bool, dur time.Duration, estErr error) {
	rec := engine.NormalizeInput(in)
	trace := &models.QuoteTrace{
		ID:         uuid.New().String(),
		Mode:       string(rec.Mode),
		Anchored:   anchored,
		Make:       rec.Make,
		Model:      rec.Model,
		Year:       rec.Year,
		Status:     models.TraceStatusCompleted,
		DurationMs: dur.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if estErr != nil {
		trace.Status = models.TraceStatusFailed
		trace.ErrorKind = string(engine.KindOf(estErr))
	}
	if err := h.Store.CreateQuoteTrace(r.Context(), trace); err != nil {
		log.Warn().Err(err).Msg("Failed to record quote trace")
	}
}

// ── Baseline & Market ───────────────────────────────────────

// BaselineLookup returns the appraisal figures without a generative estimate.
func (h *Handlers) BaselineLookup(w http.ResponseWriter, r *http.Request) {
	var in engine.VehicleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	rec := engine.NormalizeInput(in)

	base, err := h.Baseline.Fetch(r.Context(), engine.BaselineQuery{
		Make:    rec.Make,
		Model:   rec.Model,
		Year:    rec.Year,
		Mileage: rec.Mileage,
		ZIP:     rec.ZIP,
	})
	if err != nil {
		status, msg := statusForEngineError(err)
		respondJSON(w, status, map[string]string{
			"error": msg,
			"kind":  string(engine.KindOf(err)),
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"baseline": base,
	})
}

// MarketScan averages live listing prices around the vehicle's ZIP.
func (h *Handlers) MarketScan(w http.ResponseWriter, r *http.Request) {
	var in engine.VehicleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	val, err := h.Market.Average(r.Context(), market.Query{
		Make:    in.Make,
		Model:   in.Model,
		Year:    in.Year,
		Trim:    in.Trim,
		Mileage: in.Mileage,
		ZIP:     in.ZIP,
	})
	if err != nil {
		if errors.Is(err, market.ErrNoListings) {
			respondError(w, http.StatusNotFound, "No market data found for this vehicle")
			return
		}
		log.Error().Err(err).Msg("Market scan failed")
		respondError(w, http.StatusBadGateway, "Failed to fetch market prices")
		return
	}

	respondJSON(w, http.StatusOK, val)
}

// ── Waitlist & Subscribers ──────────────────────────────────

type waitlistRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Make  string `json:"make"`
	Model string `json:"model"`
	ZIP   string `json:"zip"`
}

// JoinWaitlist stores a launch-waitlist submission.
func (h *Handlers) JoinWaitlist(w http.ResponseWriter, r *http.Request) {
	var req waitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry := &models.WaitlistEntry{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Make:      req.Make,
		Model:     req.Model,
		ZIP:       req.ZIP,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.CreateWaitlistEntry(r.Context(), entry); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save submission")
		return
	}

	log.Info().Str("id", entry.ID).Str("email", entry.Email).Msg("Waitlist submission saved")
	respondJSON(w, http.StatusOK, map[string]string{"message": "Waitlist submission saved"})
}

type subscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe stores a mailing-list signup; duplicate emails conflict.
func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		respondError(w, http.StatusBadRequest, "A valid email is required")
		return
	}

	sub := &models.Subscriber{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.CreateSubscriber(r.Context(), sub); err != nil {
		var conflict *store.ErrConflict
		if errors.As(err, &conflict) {
			respondError(w, http.StatusConflict, "Email is already subscribed")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to save subscription")
		return
	}

	respondJSON(w, http.StatusCreated, sub)
}

// ── Quote Traces ────────────────────────────────────────────

// ListTraces returns recent estimate outcomes, newest first.
func (h *Handlers) ListTraces(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	traces, err := h.Store.ListQuoteTraces(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if traces == nil {
		traces = []models.QuoteTrace{}
	}
	respondJSON(w, http.StatusOK, traces)
}

// ── Helpers ─────────────────────────────────────────────────

// statusForEngineError maps engine error kinds to HTTP statuses with generic
// messages. Diagnostic detail stays in the logs.
func statusForEngineError(err error) (int, string) {
	switch engine.KindOf(err) {
	case engine.KindStyleNotFound:
		return http.StatusNotFound, "No catalog match for this vehicle"
	case engine.KindBaselineUnavailable:
		return http.StatusBadGateway, "Failed to get baseline value"
	case engine.KindInferenceUnavailable:
		return http.StatusBadGateway, "Failed to generate quote"
	case engine.KindMalformedResponse, engine.KindIncompleteStructure:
		return http.StatusBadGateway, "Valuation service returned an unusable reply"
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
