package engine

import (
	"fmt"
	"strings"
)

// samplingTemperature is the fixed sampling parameter for every inference
// call. Kept low so repeated identical requests land inside the per-mode
// tolerance band; never varied per request.
const samplingTemperature float32 = 0.2

// systemRole frames the model as a pricing analyst that emits only the JSON
// object, never prose around it.
const systemRole = "You are a cautious used-car pricing analyst. You reply with exactly one well-formed JSON object and nothing else: no prose, no markdown, no code fences."

// Instruction is the fully rendered payload for the inference service.
// Immutable once built; embeds the vehicle data, so it is built fresh per
// request and never reused.
type Instruction struct {
	System      string
	Prompt      string
	Temperature float32
}

// BuildInstruction renders the methodology for the given mode, the vehicle
// record, and the optional baseline anchor into instruction text. Pure
// function: same inputs, same text.
func BuildInstruction(rec VehicleRecord, policy ModePolicy, base *Baseline) Instruction {
	var b strings.Builder

	fmt.Fprintf(&b, "Estimate %s ranges for the used vehicle below, per platform.\n", policy.Label)

	writeSection(&b, "VEHICLE", renderVehicle(rec))

	if base != nil {
		var a strings.Builder
		fmt.Fprintf(&a, "The appraisal baseline (%s) for this vehicle is $%.0f.\n", base.Source, base.Anchor())
		fmt.Fprintf(&a, "Context figures: base trade-in $%.0f, dealer retail $%.0f, private party $%.0f.\n",
			base.TradeInBase, base.DealerRetail, base.PrivateParty)
		a.WriteString("Derive every platform estimate as an offset from the $")
		fmt.Fprintf(&a, "%.0f anchor using the platform adjustments below. Do not re-derive a base value from depreciation.", base.Anchor())
		writeSection(&b, "ANCHOR", a.String())
	}

	writeSection(&b, "DEPRECIATION", renderRules(depreciationRules))
	writeSection(&b, "MILEAGE", renderRules(mileageRules))
	writeSection(&b, "CONDITION", renderRules(conditionRules))
	writeSection(&b, "REGION", regionalRule)

	var p strings.Builder
	fmt.Fprintf(&p, "Adjust each platform relative to %s:\n", policy.Reference)
	for _, pl := range policy.Platforms {
		fmt.Fprintf(&p, "- %s: %s\n", pl.Name, pl.Adjustment)
	}
	writeSection(&b, "PLATFORMS", p.String())

	fmt.Fprintf(&b, "[CONSISTENCY]\nIf asked again for the identical vehicle, your range midpoints must stay within %.0f%% of this reply. Follow the rules above deterministically.\n\n", policy.Tolerance*100)

	writeSection(&b, "OUTPUT", renderOutputContract(policy))

	return Instruction{
		System:      systemRole,
		Prompt:      strings.TrimSpace(b.String()) + "\n",
		Temperature: samplingTemperature,
	}
}

func renderVehicle(rec VehicleRecord) string {
	accidents := "No"
	if rec.Accidents {
		accidents = "Yes"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Year: %s\n", rec.Year)
	fmt.Fprintf(&b, "Make: %s\n", rec.Make)
	fmt.Fprintf(&b, "Model: %s\n", rec.Model)
	fmt.Fprintf(&b, "Trim: %s\n", rec.Trim)
	fmt.Fprintf(&b, "Mileage: %d\n", rec.Mileage)
	fmt.Fprintf(&b, "ZIP: %s\n", rec.ZIP)
	fmt.Fprintf(&b, "Interior: %s\n", rec.Interior)
	fmt.Fprintf(&b, "Exterior: %s\n", rec.Exterior)
	fmt.Fprintf(&b, "Owners: %d\n", rec.Owners)
	fmt.Fprintf(&b, "Accidents: %s\n", accidents)
	fmt.Fprintf(&b, "Damage: %s", rec.Damage)
	return b.String()
}

// renderOutputContract restates the exact key set and value types expected in
// the reply. Under-specification here is the dominant source of validation
// failures downstream, so the contract enumerates everything.
func renderOutputContract(policy ModePolicy) string {
	var b strings.Builder
	b.WriteString("Reply with a single JSON object and no wrapper text. Required top-level keys:\n")
	if policy.RequireReasoning {
		b.WriteString(`- "base_value_reasoning": non-empty string explaining the base value.` + "\n")
	}
	fmt.Fprintf(&b, "- %q: object with exactly these keys: %s.\n", policy.ValuesKey, quotedList(policy.PlatformNames()))
	b.WriteString(`  Each value is {"low": <number>, "high": <number>} with low <= high. JSON numbers, never strings.` + "\n")
	fmt.Fprintf(&b, "- \"best_season_to_sell\": one of %s.\n", quotedList(seasons))
	fmt.Fprintf(&b, "- \"platform_recommendation\": {\"best_platform\": one of %s, \"explanation\": non-empty string}.\n", quotedList(policy.PlatformNames()))
	return b.String()
}

func renderRules(rules []string) string {
	var b strings.Builder
	for _, r := range rules {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	return strings.TrimRight(b.String(), "\n")
}

func quotedList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}

func writeSection(b *strings.Builder, name, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	fmt.Fprintf(b, "[%s]\n%s\n\n", name, strings.TrimRight(body, "\n"))
}
