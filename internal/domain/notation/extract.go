package notation

import (
	"regexp"
	"strconv"
	"strings"
)

// diameterGlyph marks a diametral tolerance zone.
const diameterGlyph = "∅"

var (
	// bracketRe matches the pipe-delimited GDT shape
	// "[ keyword | value | optional references ]".
	bracketRe = regexp.MustCompile(`\[\s*([^|]+)\s*\|\s*([^|]+)\s*(?:\|\s*(.+))?\s*\]`)

	// valueRe extracts a numeric magnitude, optionally preceded by the
	// diameter glyph.
	valueRe = regexp.MustCompile(`(?:∅\s*)?(\d+\.?\d*)`)

	// numberRe extracts the first standalone number anywhere in a string.
	numberRe = regexp.MustCompile(`\d+\.?\d*`)

	// modifierRe finds parenthesized material-condition letters.
	modifierRe = regexp.MustCompile(`(?i)\(([MLPUF])\)`)

	// compoundRefRe finds a compound datum reference such as "A-B".
	compoundRefRe = regexp.MustCompile(`(?i)([A-Z])-([A-Z])`)

	// pipeRefRe qualifies a pipe-delimited segment as a single datum letter,
	// optionally followed by a material-condition modifier.
	pipeRefRe = regexp.MustCompile(`(?i)^([A-Z])(?:\s*\([MLPUF]\))?$`)

	// bareRefRe finds standalone single letters for the fallback reference scan.
	bareRefRe = regexp.MustCompile(`(?i)\b([A-Z])\b`)
)

// modifierLetters is the material-condition alphabet. The bare-letter datum
// fallback must not conflate these with datum labels.
var modifierLetters = map[string]struct{}{
	"M": {}, "L": {}, "P": {}, "U": {}, "F": {},
}

// extractValue returns the first numeric magnitude in segment, or nil when
// the segment holds no parseable number.
func extractValue(segment string) *float64 {
	m := valueRe.FindStringSubmatch(segment)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}

// hasDiameter reports whether the diameter glyph appears in segment.
func hasDiameter(segment string) bool {
	return strings.Contains(segment, diameterGlyph)
}

// extractModifiers finds all parenthesized material-condition letters in
// text, uppercased, in first-appearance order, deduplicated.
func extractModifiers(text string) []string {
	var mods []string
	seen := make(map[string]struct{})
	for _, m := range modifierRe.FindAllStringSubmatch(text, -1) {
		letter := strings.ToUpper(m[1])
		if _, ok := seen[letter]; ok {
			continue
		}
		seen[letter] = struct{}{}
		mods = append(mods, letter)
	}
	return mods
}

// extractDatumRefs finds datum reference labels in a callout.
//
// A compound "X-Y" reference wins outright: it collapses to exactly those two
// letters and short-circuits every other extraction path. Otherwise
// pipe-delimited single-letter segments are preferred; only when none qualify
// does the scan fall back to bare standalone letters, excluding the
// material-condition alphabet. The fallback deduplicates through a set, so
// label order on that path is not guaranteed.
func extractDatumRefs(text string) []string {
	if m := compoundRefRe.FindStringSubmatch(text); m != nil {
		return []string{strings.ToUpper(m[1]), strings.ToUpper(m[2])}
	}

	var refs []string
	segments := strings.Split(text, "|")
	if len(segments) > 1 {
		for _, seg := range segments[1:] {
			if m := pipeRefRe.FindStringSubmatch(strings.TrimSpace(seg)); m != nil {
				refs = append(refs, strings.ToUpper(m[1]))
			}
		}
	}
	if len(refs) > 0 {
		return refs
	}

	seen := make(map[string]struct{})
	for _, m := range bareRefRe.FindAllStringSubmatch(text, -1) {
		letter := strings.ToUpper(m[1])
		if _, isModifier := modifierLetters[letter]; isModifier {
			continue
		}
		if _, ok := seen[letter]; ok {
			continue
		}
		seen[letter] = struct{}{}
		refs = append(refs, letter)
	}
	return refs
}
