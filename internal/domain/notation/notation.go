// Package notation recognizes engineering-tolerance callouts as transcribed
// from technical drawings into inspection-table cells.
//
// A callout is free-form, human-authored text: a plain "25.55±0.1", an
// asymmetric "250 +0.1/-0.2", a one-sided "MAX 6.3", or one of the
// geometric-dimensioning-and-tolerancing (GDT) families such as
// "[ Position | ∅0.02 | A | B ]". The recognizer tries a fixed, ordered set
// of format matchers and returns the first successful match's normalized
// result. GDT families are tried before the generic numeric families because
// the generic patterns are subsets of the specific ones; the order is a
// semantic invariant, not an optimization.
package notation

// Format is the coarse tolerance family of a recognized callout.
type Format string

// Recognized tolerance formats.
const (
	FormatSymmetric  Format = "symmetric"
	FormatAsymmetric Format = "asymmetric"
	FormatMaximum    Format = "maximum"
	FormatMinimum    Format = "minimum"
	FormatGeometric  Format = "geometric"
	FormatSymbol     Format = "symbol"
)

// Class is the coarse GDT tolerance category.
type Class string

// GDT tolerance classes.
const (
	ClassForm        Class = "Form"
	ClassOrientation Class = "Orientation"
	ClassLocation    Class = "Location"
	ClassProfile     Class = "Profile"
	ClassRunout      Class = "Runout"
)

// Result is a normalized tolerance specification extracted from a callout.
// Every emitted Result carries at least one of LowerLimit/UpperLimit: for the
// geometric and symbol formats the tolerance magnitude doubles as the upper
// limit of the measured deviation.
type Result struct {
	Format Format

	// Nominal is the center value. Absent for one-sided and GDT callouts.
	Nominal    *float64
	LowerLimit *float64
	UpperLimit *float64

	// ToleranceValue is the magnitude of the GDT tolerance zone.
	// Set only for the geometric and symbol formats.
	ToleranceValue *float64
	// Class is set only for the geometric format.
	Class Class
	// Subtype is the specific kind within the class, e.g. "Flatness".
	Subtype string
	// Diameter reports whether the tolerance zone is specified as a
	// diameter (∅) rather than a width.
	Diameter bool
	// Modifiers holds material-condition letters from {M, L, P, U, F} in
	// first-appearance order, deduplicated.
	Modifiers []string
	// DatumRefs holds datum reference labels. A compound "A-B" callout
	// collapses to exactly ["A", "B"].
	DatumRefs []string
	// UnilateralSecondary is the second magnitude of a profile "V1(U)V2"
	// callout; V1 is ToleranceValue.
	UnilateralSecondary *float64
}

// matchFunc attempts to recognize one notation family. The Result is only
// meaningful when the second return value is true.
type matchFunc func(text string) (Result, bool)

// matchers is the fixed priority order: GDT families first, generic numeric
// families last. Reordering changes classification of ambiguous callouts.
var matchers = []matchFunc{
	matchForm,
	matchOrientation,
	matchLocation,
	matchProfile,
	matchRunout,
	matchSymbol,
	matchSymmetric,
	matchAsymmetric,
	matchMaximum,
	matchMinimum,
}

// Recognize classifies a free-form dimension callout. The second return
// value is false when the text fits none of the supported notations; for
// free-form drawing text that is an expected outcome, not an error.
// Recognize is pure: calling it twice on the same text yields equal results.
func Recognize(text string) (Result, bool) {
	for _, match := range matchers {
		if res, ok := match(text); ok {
			return res, true
		}
	}
	return Result{}, false
}
