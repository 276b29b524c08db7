package engine

import "testing"

func TestResolveMode(t *testing.T) {
	tests := []struct {
		raw  string
		want Mode
	}{
		{"trade-in", ModeTradeIn},
		{"cash", ModeCash},
		{"", ModeCash},
		{"Trade-In", ModeCash}, // exact case-sensitive match only
		{"trade_in", ModeCash},
		{"tradein", ModeCash},
		{"anything else", ModeCash},
	}

	for _, tt := range tests {
		if got := ResolveMode(tt.raw); got != tt.want {
			t.Errorf("ResolveMode(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeInput_Defaults(t *testing.T) {
	rec := NormalizeInput(VehicleInput{Make: "Honda", Model: "Accord"})

	if rec.Year != "unknown" {
		t.Errorf("Year = %q, want %q", rec.Year, "unknown")
	}
	if rec.Trim != "unknown" {
		t.Errorf("Trim = %q, want %q", rec.Trim, "unknown")
	}
	if rec.Interior != "unknown" || rec.Exterior != "unknown" {
		t.Errorf("Interior/Exterior = %q/%q, want unknown/unknown", rec.Interior, rec.Exterior)
	}
	if rec.Damage != "N/A" {
		t.Errorf("Damage = %q, want %q", rec.Damage, "N/A")
	}
	if rec.Mode != ModeCash {
		t.Errorf("Mode = %q, want %q", rec.Mode, ModeCash)
	}
}

func TestNormalizeInput_ProvidedFieldsKept(t *testing.T) {
	rec := NormalizeInput(VehicleInput{
		Year:      2019,
		Make:      " Honda ",
		Model:     "Accord",
		Trim:      "EX-L",
		Mileage:   45000,
		ZIP:       "30301",
		Interior:  "good",
		Exterior:  "fair",
		Owners:    2,
		Accidents: true,
		Damage:    "rear bumper dent",
		Mode:      "trade-in",
	})

	if rec.Year != "2019" {
		t.Errorf("Year = %q, want %q", rec.Year, "2019")
	}
	if rec.Make != "Honda" {
		t.Errorf("Make = %q, want trimmed %q", rec.Make, "Honda")
	}
	if rec.Damage != "rear bumper dent" {
		t.Errorf("Damage = %q, want original value", rec.Damage)
	}
	if rec.Mode != ModeTradeIn {
		t.Errorf("Mode = %q, want %q", rec.Mode, ModeTradeIn)
	}
}

func TestNormalizeInput_NeverRejects(t *testing.T) {
	// Missing make/model degrades, it does not fail.
	rec := NormalizeInput(VehicleInput{})
	if rec.Identified() {
		t.Error("Identified() = true for empty input, want false")
	}

	rec = NormalizeInput(VehicleInput{Make: "Honda", Model: "Accord"})
	if !rec.Identified() {
		t.Error("Identified() = false with make and model set, want true")
	}
}

func TestNormalizeInput_NegativeMileageClamped(t *testing.T) {
	rec := NormalizeInput(VehicleInput{Make: "Honda", Model: "Accord", Mileage: -5})
	if rec.Mileage != 0 {
		t.Errorf("Mileage = %d, want 0", rec.Mileage)
	}
}
