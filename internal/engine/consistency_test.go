package engine

import (
	"context"
	"math"
	"testing"
)

func resultWith(mode Mode, low, high float64) *ValuationResult {
	values := make(map[string]ValueRange)
	for _, name := range PolicyFor(mode).PlatformNames() {
		values[name] = ValueRange{Low: low, High: high}
	}
	return &ValuationResult{Mode: mode, Values: values}
}

func TestMidpointDrift_Identical(t *testing.T) {
	a := resultWith(ModeCash, 16000, 17000)
	b := resultWith(ModeCash, 16000, 17000)
	if d := MidpointDrift(a, b); d != 0 {
		t.Errorf("MidpointDrift(identical) = %v, want 0", d)
	}
}

func TestMidpointDrift_KnownShift(t *testing.T) {
	a := resultWith(ModeCash, 16000, 17000) // midpoint 16500
	b := resultWith(ModeCash, 16330, 17330) // midpoint 16830, 1.96% off

	d := MidpointDrift(a, b)
	if d <= 0.019 || d >= 0.021 {
		t.Errorf("MidpointDrift = %v, want ~0.0196", d)
	}
	if !WithinTolerance(a, b) {
		t.Error("2%% drift should sit inside the 5%% cash tolerance")
	}
}

func TestMidpointDrift_BeyondTolerance(t *testing.T) {
	a := resultWith(ModeTradeIn, 16000, 17000)
	b := resultWith(ModeTradeIn, 17500, 18500) // ~5.6% off

	if WithinTolerance(a, b) {
		t.Error("5.6%% drift should exceed the 3%% trade-in tolerance")
	}
}

func TestMidpointDrift_ModeMismatch(t *testing.T) {
	a := resultWith(ModeCash, 16000, 17000)
	b := resultWith(ModeTradeIn, 16000, 17000)
	if d := MidpointDrift(a, b); !math.IsInf(d, 1) {
		t.Errorf("MidpointDrift across modes = %v, want +Inf", d)
	}
}

func TestMidpointDrift_Nil(t *testing.T) {
	if !math.IsInf(MidpointDrift(nil, resultWith(ModeCash, 1, 2)), 1) {
		t.Error("MidpointDrift(nil, x) should be +Inf")
	}
	if WithinTolerance(nil, nil) {
		t.Error("WithinTolerance(nil, nil) = true, want false")
	}
}

// The bounded-variance contract is statistical: a deterministic generator at
// the fixed temperature trivially repeats, which is the strongest form of the
// property the engine itself can exhibit.
func TestEstimate_RepeatWithinTolerance(t *testing.T) {
	eng := New(&fakeGenerator{reply: validCashReply}, nil)

	var results []*ValuationResult
	for i := 0; i < 5; i++ {
		q, err := eng.Estimate(context.Background(), accordInput(), Options{})
		if err != nil {
			t.Fatalf("Estimate() run %d error = %v", i, err)
		}
		results = append(results, q.Result)
	}
	for i := 1; i < len(results); i++ {
		if !WithinTolerance(results[0], results[i]) {
			t.Errorf("run %d drifted beyond tolerance: %v", i, MidpointDrift(results[0], results[i]))
		}
	}
}
