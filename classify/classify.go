// Package classify compares extracted candidate values against ground
// truth and flags out-of-domain answers as hallucinations. Both functions
// are pure: malformed or missing input becomes a taxonomy tag, never an
// error.
package classify

import (
	"math"
	"strings"

	"github.com/tokenbench/tokeneval/api"
)

// NumericTolerance is the global absolute tolerance for numeric answers,
// in the truth's unit (one percentage point, one dollar, one ratio point).
// Deliberately coarse; the judge path applies category-aware bands instead.
const NumericTolerance = 1.0

// Outcome is the accuracy classifier's verdict on a single prediction.
type Outcome struct {
	Correct       bool
	AbsoluteError *float64
	ErrorType     api.ErrorType
}

// Accuracy matches over the pair of value kinds. Numbers compare within
// NumericTolerance, strings case-insensitively, rankings by exact sequence
// equality with no partial credit. Any other combination, including a
// missing prediction, is a type mismatch.
func Accuracy(predicted, truth api.Value) Outcome {
	switch {
	case predicted.IsNumeric() && truth.IsNumeric():
		absErr := math.Abs(predicted.Number - truth.Number)
		return Outcome{
			Correct:       absErr <= NumericTolerance,
			AbsoluteError: &absErr,
			ErrorType:     api.ErrorNumeric,
		}
	case predicted.IsStringLike() && truth.IsStringLike():
		return Outcome{
			Correct:   strings.EqualFold(predicted.StringValue(), truth.StringValue()),
			ErrorType: api.ErrorStringMismatch,
		}
	case predicted.Kind == api.KindRanking && truth.Kind == api.KindRanking:
		return Outcome{
			Correct:   rankingsEqual(predicted.Ranking, truth.Ranking),
			ErrorType: api.ErrorListMismatch,
		}
	default:
		return Outcome{ErrorType: api.ErrorTypeMismatch}
	}
}

func rankingsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
