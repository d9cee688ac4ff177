// Package record models one drawing-table row under inspection: the
// specified dimension, the tooling and bookkeeping columns, the tolerance
// fields derived by the notation recognizer at ingestion, and the measured
// value the operator fills in later.
package record

import (
	"github.com/verimetric/dimtol/internal/domain/measure"
	"github.com/verimetric/dimtol/internal/domain/notation"
)

// DefaultInspectionLevel is assumed when the extracted row leaves the
// inspection-level column empty.
const DefaultInspectionLevel = "100%"

// Character is a single inspection characteristic.
type Character struct {
	ItemNo          string `json:"item_no"`
	Dimension       string `json:"dimension"`
	Tooling         string `json:"tooling,omitempty"`
	Remarks         string `json:"remarks,omitempty"`
	BPZone          string `json:"bp_zone,omitempty"`
	InspectionLevel string `json:"inspection_level,omitempty"`
	// Actual is the raw operator-entered measured cell, possibly several
	// slash-separated readings. Empty until the operator commits a value.
	Actual string `json:"actual,omitempty"`
	Badge  string `json:"badge,omitempty"`

	// Derived from the dimension callout exactly once at ingestion. All four
	// stay empty when the recognizer reports no match.
	ToleranceType string   `json:"tolerance_type,omitempty"`
	Nominal       *float64 `json:"nominal,omitempty"`
	UpperLimit    *float64 `json:"upper_limit,omitempty"`
	LowerLimit    *float64 `json:"lower_limit,omitempty"`

	// OutOfTolerance is set automatically when a measurement violates the
	// limits and is never cleared automatically — a later compliant
	// re-evaluation leaves it standing. Only the operator toggle clears it.
	OutOfTolerance bool `json:"out_of_tolerance,omitempty"`
}

// ApplyNotation copies the recognizer's scalar outputs onto the record.
func (c *Character) ApplyNotation(res notation.Result) {
	c.ToleranceType = string(res.Format)
	c.Nominal = res.Nominal
	c.UpperLimit = res.UpperLimit
	c.LowerLimit = res.LowerLimit
}

// Limits returns the record's bound set for evaluation.
func (c *Character) Limits() measure.Limits {
	return measure.Limits{Lower: c.LowerLimit, Upper: c.UpperLimit}
}

// Evaluate judges a measured cell against the record's limits and applies
// the out-of-tolerance policy: a violation sets the flag, a pass never
// clears it.
func (c *Character) Evaluate(actual string) measure.Outcome {
	out := measure.Evaluate(actual, c.Limits())
	if !out.Compliant {
		c.OutOfTolerance = true
	}
	return out
}

// ToggleOutOfTolerance flips the operator's manual override.
func (c *Character) ToggleOutOfTolerance() {
	c.OutOfTolerance = !c.OutOfTolerance
}

// StatusText renders the record's tolerance state for status displays.
func (c *Character) StatusText() string {
	switch {
	case c.OutOfTolerance:
		return "out of tolerance"
	case c.ToleranceType != "":
		return "toleranced (" + c.ToleranceType + ")"
	default:
		return "no tolerance defined"
	}
}

// Summary aggregates a record set for lot-level reporting.
type Summary struct {
	Total          int            `json:"total"`
	Measured       int            `json:"measured"`
	Parsed         int            `json:"parsed"`
	Unparsed       int            `json:"unparsed"`
	OutOfTolerance int            `json:"out_of_tolerance"`
	ToolingCounts  map[string]int `json:"tooling_counts"`
}

// Summarize computes lot statistics over a record set.
func Summarize(chars []Character) Summary {
	s := Summary{ToolingCounts: make(map[string]int)}
	for i := range chars {
		c := &chars[i]
		s.Total++
		s.ToolingCounts[c.Tooling]++
		if c.Actual != "" {
			s.Measured++
		}
		if c.ToleranceType != "" {
			s.Parsed++
		}
		if c.OutOfTolerance {
			s.OutOfTolerance++
		}
	}
	s.Unparsed = s.Total - s.Parsed
	return s
}
