package dimtol

import (
	"github.com/verimetric/dimtol/internal/domain/measure"
	"github.com/verimetric/dimtol/internal/domain/notation"
)

// Notation is a normalized tolerance specification extracted from a callout.
type Notation = notation.Result

// Recognize classifies a free-form dimension callout. The second return value
// is false when the text fits none of the supported notations.
func Recognize(text string) (Notation, bool) {
	return notation.Recognize(text)
}

// Evaluate judges a measured cell against explicit limits. Either bound may
// be nil. The cell may hold several slash-separated readings; it is compliant
// only when every reading is.
func Evaluate(actual string, lower, upper *float64) Outcome {
	return measure.Evaluate(actual, measure.Limits{Lower: lower, Upper: upper})
}
