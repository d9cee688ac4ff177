// Package measure evaluates operator-entered measured values against
// tolerance limits. A measured cell may hold several slash-separated
// readings; each is judged independently and the cell is compliant only when
// every reading is.
package measure

import (
	"strconv"
	"strings"
)

// Limits is the bound set a reading is judged against. Either bound may be
// absent; with neither present a reading cannot be judged and passes by
// policy.
type Limits struct {
	Lower *float64
	Upper *float64
}

// Reading is one slash-separated measured value and its verdict.
type Reading struct {
	Raw string
	// Value is only meaningful when Numeric is true.
	Value   float64
	Numeric bool
	// Compliant is true for non-numeric readings: there is nothing to
	// bound-check, so they are never flagged.
	Compliant bool
}

// Outcome is the evaluation of a measured-value cell.
type Outcome struct {
	// Readings preserves input order so callers can align verdicts with the
	// slash-separated presentation of the cell.
	Readings []Reading
	// Compliant is the AND over per-reading compliance. A single
	// out-of-range reading makes the whole cell non-compliant.
	Compliant bool
	Summary   string
}

// Split breaks a raw measured cell on "/" into trimmed readings, dropping
// empty segments.
func Split(measured string) []string {
	var parts []string
	for _, p := range strings.Split(measured, "/") {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Evaluate judges each reading in measured against limits. It is total:
// malformed input yields a non-compliant-free verdict, never an error.
func Evaluate(measured string, limits Limits) Outcome {
	parts := Split(measured)
	if len(parts) == 0 {
		return Outcome{Compliant: true, Summary: "no value"}
	}

	out := Outcome{Compliant: true}
	fragments := make([]string, 0, len(parts))
	for _, raw := range parts {
		r := evaluateReading(raw, limits)
		out.Readings = append(out.Readings, r)
		out.Compliant = out.Compliant && r.Compliant
		fragments = append(fragments, fragment(r))
	}
	out.Summary = strings.Join(fragments, " / ") + " (" + limits.describe() + ")"
	return out
}

// evaluateReading parses one reading and applies the bound rule for the
// limits that are present. Decimal commas are accepted alongside points.
func evaluateReading(raw string, limits Limits) Reading {
	normalized := strings.ReplaceAll(raw, ",", ".")
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return Reading{Raw: raw, Compliant: true}
	}

	r := Reading{Raw: raw, Value: v, Numeric: true}
	switch {
	case limits.Lower != nil && limits.Upper != nil:
		r.Compliant = *limits.Lower <= v && v <= *limits.Upper
	case limits.Upper != nil:
		r.Compliant = v <= *limits.Upper
	case limits.Lower != nil:
		r.Compliant = v >= *limits.Lower
	default:
		// No tolerance defined: pass by policy, not an error.
		r.Compliant = true
	}
	return r
}

func fragment(r Reading) string {
	if !r.Numeric {
		return "non-numeric value"
	}
	if r.Compliant {
		return "ok"
	}
	return "out"
}

// describe renders the applicable bound for the summary line.
func (l Limits) describe() string {
	switch {
	case l.Lower != nil && l.Upper != nil:
		return "Limit: " + formatBound(*l.Lower) + " ↔ " + formatBound(*l.Upper)
	case l.Upper != nil:
		return "Max: " + formatBound(*l.Upper)
	case l.Lower != nil:
		return "Min: " + formatBound(*l.Lower)
	default:
		return "no limit"
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
