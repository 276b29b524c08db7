// Package engine implements the valuation quote engine: it normalizes the
// vehicle record, resolves the estimation mode, optionally fetches a
// deterministic appraisal baseline, renders the methodology into a strict
// JSON-contract instruction, sends it to the inference service once, and
// validates the reply whole-or-nothing.
//
// The engine is stateless; nothing outlives a single Estimate call.
package engine

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Generator sends one instruction to the text-generation service and returns
// the raw reply text. Single attempt; implementations must not retry, since
// resampling would undercut the bounded-variance contract.
type Generator interface {
	Name() string
	Generate(ctx context.Context, system, prompt string, temperature float32) (string, error)
}

// Quote is the full outcome of one estimate: the validated result plus the
// baseline that anchored it, when one was requested.
type Quote struct {
	Mode     Mode             `json:"mode"`
	Baseline *Baseline        `json:"baseline,omitempty"`
	Result   *ValuationResult `json:"quote"`
}

// Options controls a single Estimate call.
type Options struct {
	// WithBaseline anchors the estimate to the external appraisal figure.
	// When set, a baseline failure aborts the request; the engine never
	// silently falls back to an un-anchored estimate.
	WithBaseline bool
}

// Engine wires the inference client and the baseline provider. Construct with
// New and share freely; concurrent Estimate calls are independent.
type Engine struct {
	gen       Generator
	baselines BaselineProvider
}

// New creates an engine. baselines may be nil when anchored estimates are not
// offered.
func New(gen Generator, baselines BaselineProvider) *Engine {
	return &Engine{gen: gen, baselines: baselines}
}

// Estimate runs the full pipeline for one vehicle. On failure it returns a
// typed *Error; the caller maps kinds to statuses and must not expose Detail
// or Raw.
func (e *Engine) Estimate(ctx context.Context, in VehicleInput, opts Options) (*Quote, error) {
	rec := NormalizeInput(in)
	policy := PolicyFor(rec.Mode)

	if !rec.Identified() {
		// The sole non-terminal kind: log and proceed with a degraded prompt.
		log.Warn().
			Str("kind", string(KindInvalidInput)).
			Str("make", rec.Make).
			Str("model", rec.Model).
			Msg("Vehicle is missing make/model, estimate quality will degrade")
	}

	var base *Baseline
	if opts.WithBaseline {
		if e.baselines == nil {
			return nil, &Error{Kind: KindBaselineUnavailable, Message: "baseline provider is not configured"}
		}
		b, err := e.baselines.Fetch(ctx, BaselineQuery{
			Make:    rec.Make,
			Model:   rec.Model,
			Year:    rec.Year,
			Mileage: rec.Mileage,
			ZIP:     rec.ZIP,
		})
		if err != nil {
			return nil, asEngineError(err, KindBaselineUnavailable, "baseline lookup failed")
		}
		base = b
	}

	inst := BuildInstruction(rec, policy, base)

	raw, err := e.gen.Generate(ctx, inst.System, inst.Prompt, inst.Temperature)
	if err != nil {
		log.Error().Err(err).Str("generator", e.gen.Name()).Msg("Inference call failed")
		return nil, &Error{
			Kind:    KindInferenceUnavailable,
			Message: "valuation service is unavailable",
			Err:     err,
		}
	}

	result, err := Normalize(raw, policy)
	if err != nil {
		var detail, rawText string
		if ee, ok := err.(*Error); ok {
			detail, rawText = ee.Detail, ee.Raw
		}
		log.Error().
			Str("kind", string(KindOf(err))).
			Str("mode", string(policy.Mode)).
			Str("detail", detail).
			Str("raw", rawText).
			Msg("Model reply rejected")
		return nil, err
	}

	return &Quote{Mode: policy.Mode, Baseline: base, Result: result}, nil
}

// asEngineError passes through typed engine errors and wraps anything else
// under the given kind.
func asEngineError(err error, kind Kind, message string) error {
	if KindOf(err) != "" {
		return err
	}
	return &Error{Kind: kind, Message: message, Err: err}
}
