package engine

import (
	"strings"
	"testing"
)

func testRecord(mode string) VehicleRecord {
	return NormalizeInput(VehicleInput{
		Year:    2019,
		Make:    "Honda",
		Model:   "Accord",
		Mileage: 45000,
		ZIP:     "30301",
		Mode:    mode,
	})
}

func TestBuildInstruction_Deterministic(t *testing.T) {
	rec := testRecord("cash")
	policy := PolicyFor(rec.Mode)

	a := BuildInstruction(rec, policy, nil)
	b := BuildInstruction(rec, policy, nil)

	if a.Prompt != b.Prompt || a.System != b.System || a.Temperature != b.Temperature {
		t.Error("BuildInstruction is not deterministic for identical input")
	}
}

func TestBuildInstruction_EmbedsMethodology(t *testing.T) {
	rec := testRecord("cash")
	inst := BuildInstruction(rec, PolicyFor(rec.Mode), nil)

	for _, want := range []string{
		"15-20%",             // first-year depreciation
		"12,000 miles/year",  // mileage baseline
		"100,000 miles",      // steep depreciation flag
		"Average condition",  // condition no-op rule
		"average demand",     // regional rule
		"Year: 2019",
		"Make: Honda",
		"Model: Accord",
	} {
		if !strings.Contains(inst.Prompt, want) {
			t.Errorf("instruction missing %q", want)
		}
	}
}

func TestBuildInstruction_EnumeratesPlatformsAndKeys(t *testing.T) {
	tests := []struct {
		mode      string
		valuesKey string
	}{
		{"cash", "estimated_cash_offers"},
		{"trade-in", "estimated_trade_in_values"},
	}

	for _, tt := range tests {
		rec := testRecord(tt.mode)
		policy := PolicyFor(rec.Mode)
		inst := BuildInstruction(rec, policy, nil)

		if !strings.Contains(inst.Prompt, tt.valuesKey) {
			t.Errorf("%s instruction does not name values key %q", tt.mode, tt.valuesKey)
		}
		for _, name := range policy.PlatformNames() {
			if !strings.Contains(inst.Prompt, name) {
				t.Errorf("%s instruction missing platform %q", tt.mode, name)
			}
		}
		for _, key := range []string{"best_season_to_sell", "platform_recommendation", "best_platform"} {
			if !strings.Contains(inst.Prompt, key) {
				t.Errorf("%s instruction missing required key %q", tt.mode, key)
			}
		}
	}
}

func TestBuildInstruction_CashRequiresReasoningKey(t *testing.T) {
	rec := testRecord("cash")
	inst := BuildInstruction(rec, PolicyFor(rec.Mode), nil)
	if !strings.Contains(inst.Prompt, "base_value_reasoning") {
		t.Error("cash instruction does not demand base_value_reasoning")
	}
}

func TestBuildInstruction_AnchorSection(t *testing.T) {
	rec := testRecord("trade-in")
	base := &Baseline{
		StyleID:         "401712057",
		TradeInBase:     17000,
		TradeInAdjusted: 17500,
		DealerRetail:    20500,
		PrivateParty:    18900,
		Source:          "edmunds",
	}

	inst := BuildInstruction(rec, PolicyFor(rec.Mode), base)
	if !strings.Contains(inst.Prompt, "$17500") {
		t.Error("anchored instruction does not state the anchor value")
	}
	if !strings.Contains(inst.Prompt, "offset from the $17500 anchor") {
		t.Error("anchored instruction does not require offsets from the anchor")
	}

	plain := BuildInstruction(rec, PolicyFor(rec.Mode), nil)
	if strings.Contains(plain.Prompt, "[ANCHOR]") {
		t.Error("un-anchored instruction contains an anchor section")
	}
}

func TestBuildInstruction_FixedLowTemperature(t *testing.T) {
	rec := testRecord("cash")
	inst := BuildInstruction(rec, PolicyFor(rec.Mode), nil)
	if inst.Temperature != samplingTemperature {
		t.Errorf("Temperature = %v, want %v", inst.Temperature, samplingTemperature)
	}
	if inst.Temperature > 0.3 {
		t.Errorf("Temperature = %v, too high for the consistency contract", inst.Temperature)
	}
}
