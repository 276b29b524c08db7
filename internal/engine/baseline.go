package engine

import "context"

// Baseline is the deterministic anchor fetched from the external appraisal
// catalog. Fetched fresh per request and handed once to the instruction
// builder; the engine never caches or persists it.
type Baseline struct {
	StyleID         string  `json:"style_id"`
	TradeInBase     float64 `json:"trade_in_base"`
	TradeInAdjusted float64 `json:"trade_in_adjusted"`
	DealerRetail    float64 `json:"dealer_retail"`
	PrivateParty    float64 `json:"private_party"`
	Source          string  `json:"source"`
}

// Anchor is the figure every platform estimate must be derived from when a
// baseline is present. The secondary figures are context only.
func (b *Baseline) Anchor() float64 { return b.TradeInAdjusted }

// BaselineQuery identifies the vehicle for the baseline provider.
type BaselineQuery struct {
	Make    string
	Model   string
	Year    string
	Mileage int
	ZIP     string
}

// BaselineProvider resolves a vehicle style and fetches its appraisal
// figures. Implementations make two single-attempt network calls and return
// engine errors of kind style_not_found or baseline_unavailable.
type BaselineProvider interface {
	Fetch(ctx context.Context, q BaselineQuery) (*Baseline, error)
}
