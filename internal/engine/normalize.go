package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValueRange is a per-platform {low, high} estimate. Bounds must be JSON
// numbers; strings fail validation.
type ValueRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Recommendation names the platform likely to make the best offer.
type Recommendation struct {
	BestPlatform string `json:"best_platform"`
	Explanation  string `json:"explanation"`
}

// ValuationResult is the normalized engine output. Values holds an entry for
// exactly the active mode's platform set; partial replies never reach here.
type ValuationResult struct {
	Mode           Mode                  `json:"mode"`
	Reasoning      string                `json:"base_value_reasoning,omitempty"`
	Values         map[string]ValueRange `json:"values_by_platform"`
	BestSeason     string                `json:"best_season_to_sell"`
	Recommendation Recommendation        `json:"platform_recommendation"`
}

// Normalize strips incidental formatting from the raw reply, parses it, and
// validates it against the mode's schema. Whole-or-nothing: any missing or
// ill-typed required key rejects the entire reply with incomplete_structure,
// carrying the parsed object for diagnostics. A reply that is not JSON at all
// is malformed_response.
func Normalize(raw string, policy ModePolicy) (*ValuationResult, error) {
	text := stripFences(raw)

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, &Error{
			Kind:    KindMalformedResponse,
			Message: "model reply was not valid JSON",
			Raw:     raw,
			Err:     err,
		}
	}

	res := &ValuationResult{Mode: policy.Mode}

	rawValues, ok := doc[policy.ValuesKey]
	if !ok {
		return nil, incomplete(text, "missing required key %q", policy.ValuesKey)
	}
	var values map[string]ValueRange
	if err := json.Unmarshal(rawValues, &values); err != nil {
		return nil, incomplete(text, "%q is not an object of numeric {low, high} ranges", policy.ValuesKey)
	}
	res.Values = make(map[string]ValueRange, len(policy.Platforms))
	for _, name := range policy.PlatformNames() {
		r, ok := values[name]
		if !ok {
			return nil, incomplete(text, "%q missing platform %q", policy.ValuesKey, name)
		}
		if r.Low < 0 || r.High < 0 {
			return nil, incomplete(text, "platform %q has a negative bound", name)
		}
		if r.Low > r.High {
			return nil, incomplete(text, "platform %q has low > high", name)
		}
		res.Values[name] = r
	}

	rawSeason, ok := doc["best_season_to_sell"]
	if !ok {
		return nil, incomplete(text, "missing required key %q", "best_season_to_sell")
	}
	var season string
	if err := json.Unmarshal(rawSeason, &season); err != nil {
		return nil, incomplete(text, "%q is not a string", "best_season_to_sell")
	}
	res.BestSeason = canonicalSeason(season)
	if res.BestSeason == "" {
		return nil, incomplete(text, "%q is not one of %s", "best_season_to_sell", strings.Join(seasons, "/"))
	}

	rawRec, ok := doc["platform_recommendation"]
	if !ok {
		return nil, incomplete(text, "missing required key %q", "platform_recommendation")
	}
	if err := json.Unmarshal(rawRec, &res.Recommendation); err != nil {
		return nil, incomplete(text, "%q is not an object", "platform_recommendation")
	}
	if !policy.HasPlatform(res.Recommendation.BestPlatform) {
		return nil, incomplete(text, "best_platform %q is not in the %s platform set", res.Recommendation.BestPlatform, policy.Mode)
	}
	if strings.TrimSpace(res.Recommendation.Explanation) == "" {
		return nil, incomplete(text, "platform_recommendation.explanation is empty")
	}

	if policy.RequireReasoning {
		rawReasoning, ok := doc["base_value_reasoning"]
		if !ok {
			return nil, incomplete(text, "missing required key %q", "base_value_reasoning")
		}
		if err := json.Unmarshal(rawReasoning, &res.Reasoning); err != nil || strings.TrimSpace(res.Reasoning) == "" {
			return nil, incomplete(text, "base_value_reasoning is empty or not a string")
		}
	} else if rawReasoning, ok := doc["base_value_reasoning"]; ok {
		// Optional for trade-in mode; keep it when present and well-typed.
		_ = json.Unmarshal(rawReasoning, &res.Reasoning)
	}

	return res, nil
}

func incomplete(parsed, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindIncompleteStructure,
		Message: "model reply is missing required structure",
		Detail:  fmt.Sprintf(format, args...),
		Raw:     parsed,
	}
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag, plus any stray fence markers the model leaves behind.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func canonicalSeason(s string) string {
	for _, season := range seasons {
		if strings.EqualFold(strings.TrimSpace(s), season) {
			return season
		}
	}
	return ""
}
