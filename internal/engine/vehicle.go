package engine

import (
	"strconv"
	"strings"
)

// unknownField is the sentinel substituted for absent descriptive fields.
const unknownField = "unknown"

// VehicleInput is the untyped request body shape accepted from the HTTP
// layer. Everything is optional; normalization applies the defaults.
type VehicleInput struct {
	Year      int    `json:"year"`
	Make      string `json:"make"`
	Model     string `json:"model"`
	Trim      string `json:"trim"`
	Mileage   int    `json:"mileage"`
	ZIP       string `json:"zip"`
	Interior  string `json:"interior"`
	Exterior  string `json:"exterior"`
	Owners    int    `json:"owners"`
	Accidents bool   `json:"accidents"`
	Damage    string `json:"damage"`
	Mode      string `json:"mode"`
}

// VehicleRecord is the normalized vehicle passed to the instruction builder.
// Fields that were absent on input carry their sentinel values.
type VehicleRecord struct {
	Year      string
	Make      string
	Model     string
	Trim      string
	Mileage   int
	ZIP       string
	Interior  string
	Exterior  string
	Owners    int
	Accidents bool
	Damage    string
	Mode      Mode
}

// NormalizeInput applies defaults and resolves the mode. It never fails:
// missing make/model degrades into a low-quality estimate downstream rather
// than a rejected request, which is the availability tradeoff this service
// makes for partially-filled forms.
func NormalizeInput(in VehicleInput) VehicleRecord {
	rec := VehicleRecord{
		Year:      unknownField,
		Make:      strings.TrimSpace(in.Make),
		Model:     strings.TrimSpace(in.Model),
		Trim:      orUnknown(in.Trim),
		Mileage:   in.Mileage,
		ZIP:       strings.TrimSpace(in.ZIP),
		Interior:  orUnknown(in.Interior),
		Exterior:  orUnknown(in.Exterior),
		Owners:    in.Owners,
		Accidents: in.Accidents,
		Damage:    in.Damage,
		Mode:      ResolveMode(in.Mode),
	}
	if in.Year > 0 {
		rec.Year = strconv.Itoa(in.Year)
	}
	if strings.TrimSpace(rec.Damage) == "" {
		rec.Damage = "N/A"
	}
	if rec.Mileage < 0 {
		rec.Mileage = 0
	}
	return rec
}

// Identified reports whether the record carries the identity fields a useful
// estimate needs. A false here is logged as invalid input but does not abort
// the request.
func (r VehicleRecord) Identified() bool {
	return r.Make != "" && r.Model != ""
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return unknownField
	}
	return s
}
