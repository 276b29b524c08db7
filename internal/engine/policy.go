package engine

// The valuation methodology lives here as data, not prose scattered through
// the prompt builder: per-mode platform lists with their adjustment bands,
// plus the shared depreciation and mileage rules. The instruction builder
// renders these records verbatim, so the policy can be unit-tested without a
// network in sight.

// Mode is the estimation intent: instant-cash-offer liquidation value or
// trade-in credit toward another purchase.
type Mode string

const (
	ModeCash    Mode = "cash"
	ModeTradeIn Mode = "trade-in"
)

// ResolveMode maps the raw request mode field to a Mode. Only the exact
// literal "trade-in" selects trade-in; anything else, including absence,
// selects cash. Contractual behavior, not an oversight.
func ResolveMode(raw string) Mode {
	if raw == string(ModeTradeIn) {
		return ModeTradeIn
	}
	return ModeCash
}

// Platform is a named buyer channel and its documented adjustment band,
// expressed relative to the policy's reference value (the computed base value
// for cash mode, the KBB figure for trade-in mode).
type Platform struct {
	Name       string
	Adjustment string
}

// ModePolicy is the full per-mode methodology record.
type ModePolicy struct {
	Mode Mode

	// Label names the kind of value being estimated, used in instruction text.
	Label string

	// ValuesKey is the required top-level JSON key carrying the per-platform
	// ranges in the reply.
	ValuesKey string

	// Reference names what the platform bands adjust against.
	Reference string

	Platforms []Platform

	// RequireReasoning demands a non-empty base_value_reasoning field in the
	// reply. Cash mode has no external anchor, so the model must show its work.
	RequireReasoning bool

	// Tolerance is the documented repeat-request drift bound for range
	// midpoints, e.g. 0.05 for ±5%. Encoded into the instruction and verified
	// statistically in tests, never asserted per call.
	Tolerance float64
}

// PlatformNames returns the required platform set, in policy order.
func (p ModePolicy) PlatformNames() []string {
	names := make([]string, len(p.Platforms))
	for i, pl := range p.Platforms {
		names[i] = pl.Name
	}
	return names
}

// HasPlatform reports whether name is part of this mode's platform set.
func (p ModePolicy) HasPlatform(name string) bool {
	for _, pl := range p.Platforms {
		if pl.Name == name {
			return true
		}
	}
	return false
}

var cashPolicy = ModePolicy{
	Mode:      ModeCash,
	Label:     "instant cash offer",
	ValuesKey: "estimated_cash_offers",
	Reference: "the base value you compute from the depreciation and mileage rules",
	Platforms: []Platform{
		{Name: "Carvana", Adjustment: "3-8% below the base value; narrow the discount for low-mileage vehicles"},
		{Name: "CarMax", Adjustment: "2-6% below the base value for clean-title, average-condition vehicles"},
		{Name: "KBB Instant Cash Offer", Adjustment: "5-10% below the base value"},
		{Name: "CarGurus", Adjustment: "8-14% below the base value; toward the low end for older or high-mileage vehicles"},
		{Name: "Local Dealers", Adjustment: "10-20% below the base value"},
	},
	RequireReasoning: true,
	Tolerance:        0.05,
}

var tradeInPolicy = ModePolicy{
	Mode:      ModeTradeIn,
	Label:     "trade-in value",
	ValuesKey: "estimated_trade_in_values",
	Reference: "the KBB trade-in figure",
	Platforms: []Platform{
		{Name: "Carvana", Adjustment: "5-10% below KBB unless mileage is low"},
		{Name: "CarMax", Adjustment: "5-10% above KBB for clean-title, average-condition vehicles"},
		{Name: "KBB", Adjustment: "the anchor; match it or land 1-3% under"},
		{Name: "CarGurus", Adjustment: "10-15% below KBB for older or high-mileage vehicles"},
		{Name: "Local Dealers", Adjustment: "10-20% under KBB"},
	},
	Tolerance: 0.03,
}

// PolicyFor returns the methodology record for the given mode.
func PolicyFor(mode Mode) ModePolicy {
	if mode == ModeTradeIn {
		return tradeInPolicy
	}
	return cashPolicy
}

// Depreciation and mileage rules shared by both modes. Rendered into every
// instruction; when a baseline anchor is present they serve as context only
// and the anchor overrides the independent derivation.
var depreciationRules = []string{
	"First year: 15-20% loss from original value, steeper for luxury and exotic vehicles.",
	"Second year: an additional 10-15%.",
	"Each subsequent year: 10-12%, compounding.",
}

var mileageRules = []string{
	"Assume a 12,000 miles/year baseline; deduct $200-$400 per 10,000 miles above it.",
	"Above 100,000 miles total, apply steep depreciation regardless of age.",
}

var conditionRules = []string{
	"Average condition is the no-op baseline, never a bonus.",
	"Accident or damage history only reduces value, never increases it.",
	"More than two owners trims value slightly.",
}

// Regional rule: the serving region is priced as average demand with no
// premium. Location-aware demand adjustment is a deliberate extension point.
var regionalRule = "Treat the vehicle's region as average demand: no regional premium or discount unless the ZIP clearly implies otherwise."

var seasons = []string{"Winter", "Spring", "Summer", "Fall"}
