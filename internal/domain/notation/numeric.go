package notation

import (
	"regexp"
	"strconv"
)

var (
	// symmetricRe matches "N ± T" and "N +/- T".
	symmetricRe = regexp.MustCompile(`(\d+\.?\d*)\s*(±|\+/-)\s*(\d+\.?\d*)`)

	// asymmetricRe matches "N + U / - L". The three numbers play different
	// roles from the symmetric case; this is a distinct pattern, not a
	// generalization of it.
	asymmetricRe = regexp.MustCompile(`(\d+\.?\d*)\s*\+\s*(\d+\.?\d*)\s*/\s*-\s*(\d+\.?\d*)`)

	// maxPatterns accepts the three textual orders of a MAX callout,
	// including an optional leading R for radius callouts.
	maxPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)MAX\s*(\d+\.?\d*)`),
		regexp.MustCompile(`(?i)R?\s*(\d+\.?\d*)\s+MAX`),
		regexp.MustCompile(`(?i)R(\d+\.?\d*)\s+MAX`),
	}

	// minPatterns mirrors maxPatterns for MIN callouts.
	minPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)MIN\s+R?\s*(\d+\.?\d*)`),
		regexp.MustCompile(`(?i)R?\s*(\d+\.?\d*)\s+MIN`),
		regexp.MustCompile(`(?i)R(\d+\.?\d*)\s+MIN`),
	}
)

func matchSymmetric(text string) (Result, bool) {
	m := symmetricRe.FindStringSubmatch(text)
	if m == nil {
		return Result{}, false
	}
	nominal, err1 := strconv.ParseFloat(m[1], 64)
	tol, err2 := strconv.ParseFloat(m[3], 64)
	if err1 != nil || err2 != nil {
		return Result{}, false
	}
	lower, upper := nominal-tol, nominal+tol
	return Result{
		Format:     FormatSymmetric,
		Nominal:    &nominal,
		LowerLimit: &lower,
		UpperLimit: &upper,
	}, true
}

func matchAsymmetric(text string) (Result, bool) {
	m := asymmetricRe.FindStringSubmatch(text)
	if m == nil {
		return Result{}, false
	}
	nominal, err1 := strconv.ParseFloat(m[1], 64)
	up, err2 := strconv.ParseFloat(m[2], 64)
	down, err3 := strconv.ParseFloat(m[3], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return Result{}, false
	}
	lower, upper := nominal-down, nominal+up
	return Result{
		Format:     FormatAsymmetric,
		Nominal:    &nominal,
		LowerLimit: &lower,
		UpperLimit: &upper,
	}, true
}

func matchMaximum(text string) (Result, bool) {
	v, ok := matchOneSided(text, maxPatterns)
	if !ok {
		return Result{}, false
	}
	return Result{Format: FormatMaximum, UpperLimit: &v}, true
}

func matchMinimum(text string) (Result, bool) {
	v, ok := matchOneSided(text, minPatterns)
	if !ok {
		return Result{}, false
	}
	return Result{Format: FormatMinimum, LowerLimit: &v}, true
}

// matchOneSided tries each textual order of a one-sided callout in turn and
// returns the bound of the first that matches.
func matchOneSided(text string, patterns []*regexp.Regexp) (float64, bool) {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v, true
		}
	}
	return 0, false
}
