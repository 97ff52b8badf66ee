package ingest

import (
	"math"
	"strconv"
	"strings"
)

// Outcome classifies how a single cell was turned into a value.
type Outcome int

const (
	// Valid means the cell parsed as a finite number.
	Valid Outcome = iota
	// Defaulted means the cell was absent or unparseable and a default was used.
	Defaulted
	// Invalid means the cell was absent or unparseable and the row must be dropped.
	Invalid
)

func (o Outcome) String() string {
	switch o {
	case Valid:
		return "valid"
	case Defaulted:
		return "defaulted"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// ParseRequired parses a required numeric cell. present is false when the
// column does not exist in the input or the row is short.
func ParseRequired(raw string, present bool) (float64, Outcome) {
	if !present {
		return 0, Invalid
	}
	v, ok := parseFloat(raw)
	if !ok {
		return 0, Invalid
	}
	return v, Valid
}

// ParseOptional parses an optional numeric cell, substituting def when the cell
// is absent, empty, unparseable or non-finite.
func ParseOptional(raw string, present bool, def float64) (float64, Outcome) {
	if !present {
		return def, Defaulted
	}
	v, ok := parseFloat(raw)
	if !ok {
		return def, Defaulted
	}
	return v, Valid
}

// ParseLabel trims a categorical cell and substitutes unknown when it is empty.
func ParseLabel(raw string, present bool, unknown string) (string, Outcome) {
	if !present {
		return unknown, Defaulted
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return unknown, Defaulted
	}
	return s, Valid
}

// parseFloat accepts finite decimal values only; NaN and ±Inf count as missing.
func parseFloat(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
