package classify

import (
	"strings"
	"time"

	"github.com/tokenbench/tokeneval/api"
)

// numericBound is an open interval of plausible values for a category.
// Values strictly outside it are flagged; boundary values are not.
type numericBound struct {
	min, max       float64
	hasMin, hasMax bool
}

// defaultBounds is the closed per-category table of plausibility bounds.
// Categories absent from the table never flag numeric values, whatever
// their magnitude.
var defaultBounds = map[api.Category]numericBound{
	api.CategoryPercentageThreshold: {min: 0, hasMin: true, max: 100, hasMax: true},
	api.CategoryPriceChange:         {min: -1000, hasMin: true, max: 1000, hasMax: true},
	api.CategoryVolatility:          {max: 1000, hasMax: true},
	api.CategoryVolatilityStat:      {max: 1000, hasMax: true},
}

// DetectorOptions configures the hallucination detector.
type DetectorOptions struct {
	// Tokens is the allow-list of valid token symbols.
	// Defaults to api.DefaultTokenSet.
	Tokens []string
}

// Detector flags responses that are extraction failures or carry
// out-of-domain values. It is independent of the accuracy classifier: a
// correct answer is never flagged, an incorrect one not necessarily either.
type Detector struct {
	tokens []string
}

// NewDetector creates a Detector with the given options.
func NewDetector(opts DetectorOptions) *Detector {
	tokens := opts.Tokens
	if len(tokens) == 0 {
		tokens = api.DefaultTokenSet
	}
	return &Detector{tokens: tokens}
}

// Detect reports whether the predicted value looks fabricated for the
// category. A missing prediction counts as a fabrication risk. Never
// returns an error.
func (d *Detector) Detect(predicted api.Value, category api.Category) bool {
	switch predicted.Kind {
	case api.KindNone:
		return true
	case api.KindNumber:
		b, ok := defaultBounds[category]
		if !ok {
			return false
		}
		if b.hasMin && predicted.Number < b.min {
			return true
		}
		if b.hasMax && predicted.Number > b.max {
			return true
		}
		return false
	case api.KindToken, api.KindText:
		return !d.validString(predicted.StringValue())
	case api.KindRanking:
		for _, tok := range predicted.Ranking {
			if !d.isToken(tok) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// validString accepts token symbols from the allow-list and any string
// shaped like a real ISO date. Date answers are checked for format
// validity, not membership in a dataset-specific literal list.
func (d *Detector) validString(s string) bool {
	if d.isToken(s) {
		return true
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func (d *Detector) isToken(s string) bool {
	for _, tok := range d.tokens {
		if strings.EqualFold(tok, s) {
			return true
		}
	}
	return false
}
