// Package grading converts evaluation results into 0-100 composite scores
// with letter grades, and folds a full run into a grading report.
package grading

import (
	"fmt"
	"math"

	"github.com/tokenbench/tokeneval/api"
)

// Sub-score weights for the composite score.
const (
	accuracyWeight  = 0.6
	precisionWeight = 0.25
	qualityWeight   = 0.15
)

// gradeThresholds maps scores to letter grades. Scanned top-down; the
// first threshold the score meets or exceeds wins, so the table is total
// over [0,100].
var gradeThresholds = []struct {
	grade api.Grade
	min   float64
}{
	{api.GradeAPlus, 95},
	{api.GradeA, 90},
	{api.GradeAMinus, 85},
	{api.GradeBPlus, 80},
	{api.GradeB, 75},
	{api.GradeBMinus, 70},
	{api.GradeCPlus, 65},
	{api.GradeC, 60},
	{api.GradeCMinus, 55},
	{api.GradeDPlus, 50},
	{api.GradeD, 45},
	{api.GradeDMinus, 40},
	{api.GradeF, 0},
}

// GradeFor converts a score to its letter grade.
func GradeFor(score float64) api.Grade {
	for _, t := range gradeThresholds {
		if score >= t.min {
			return t.grade
		}
	}
	return api.GradeF
}

// Score grades a single evaluation result. Missing responses and
// hallucinations terminate immediately with an F; everything else blends
// accuracy, precision and quality sub-scores.
func Score(result api.EvaluationResult) api.GradeRecord {
	rec := api.GradeRecord{
		QueryID:  result.QueryID,
		Category: result.Category,
		Grade:    api.GradeF,
	}

	if result.ErrorType == api.ErrorMissingResponse {
		rec.Feedback = append(rec.Feedback, "No response provided")
		return rec
	}

	if result.IsHallucination {
		rec.Penalties = append(rec.Penalties, "Hallucination detected")
		return rec
	}

	rec.AccuracyScore = accuracyScore(result)
	rec.PrecisionScore = precisionScore(result.Predicted)
	rec.QualityScore = qualityScore(result)
	rec.Score = FinalScore(rec.AccuracyScore, rec.PrecisionScore, rec.QualityScore)
	rec.Grade = GradeFor(rec.Score)

	addFeedback(&rec, result)
	return rec
}

// FinalScore blends the three sub-scores and rounds to two decimals.
func FinalScore(accuracy, precision, quality float64) float64 {
	return round2(accuracy*accuracyWeight + precision*precisionWeight + quality*qualityWeight)
}

// accuracyScore maps correctness, or the magnitude of a numeric miss,
// onto [0,100]. Relative-error bands apply when the truth is non-zero;
// absolute-error bands otherwise.
func accuracyScore(result api.EvaluationResult) float64 {
	if result.Correct {
		return 100
	}

	if result.ErrorType == api.ErrorNumeric && result.AbsoluteError != nil {
		absErr := *result.AbsoluteError
		if result.Truth.IsNumeric() && result.Truth.Number != 0 {
			rel := math.Abs(absErr / result.Truth.Number)
			switch {
			case rel <= 0.01:
				return 95
			case rel <= 0.05:
				return 85
			case rel <= 0.10:
				return 70
			case rel <= 0.25:
				return 50
			case rel <= 0.50:
				return 30
			default:
				return 10
			}
		}
		switch {
		case absErr <= 1.0:
			return 90
		case absErr <= 5.0:
			return 70
		case absErr <= 10.0:
			return 50
		default:
			return 20
		}
	}

	switch result.ErrorType {
	case api.ErrorStringMismatch:
		return 30
	case api.ErrorListMismatch:
		return 40
	case api.ErrorTypeMismatch:
		return 20
	default:
		return 0
	}
}

// precisionScore rewards specific answers: a plain number, a token symbol,
// a non-empty ranking, or a full YYYY-MM-DD date string.
func precisionScore(predicted api.Value) float64 {
	switch predicted.Kind {
	case api.KindNone:
		return 0
	case api.KindNumber, api.KindToken:
		return 100
	case api.KindRanking:
		if len(predicted.Ranking) > 0 {
			return 100
		}
		return 50
	case api.KindText:
		if len(predicted.Text) == 10 {
			return 100
		}
		return 50
	default:
		return 50
	}
}

func qualityScore(result api.EvaluationResult) float64 {
	quality := 100.0

	if result.IsHallucination {
		quality -= 50
	}
	if result.Predicted.IsNone() {
		quality -= 30
	}
	if result.Correct {
		quality += 10
	}
	if result.Predicted.IsNumeric() && result.AbsoluteError != nil && *result.AbsoluteError <= 0.1 {
		quality += 5
	}

	return math.Max(0, math.Min(100, quality))
}

func addFeedback(rec *api.GradeRecord, result api.EvaluationResult) {
	if result.Correct {
		rec.Feedback = append(rec.Feedback, "Correct answer")
		rec.Bonuses = append(rec.Bonuses, "Exact match")
	}
	if result.AbsoluteError != nil {
		rec.Feedback = append(rec.Feedback, fmt.Sprintf("Error magnitude: %.2f", *result.AbsoluteError))
		if *result.AbsoluteError <= 0.1 {
			rec.Bonuses = append(rec.Bonuses, "High numeric precision")
		}
	}

	switch result.ErrorType {
	case api.ErrorNumeric:
		rec.Feedback = append(rec.Feedback, "Numeric precision issue")
	case api.ErrorStringMismatch:
		rec.Feedback = append(rec.Feedback, "String matching issue")
	case api.ErrorListMismatch:
		rec.Feedback = append(rec.Feedback, "List ordering issue")
	case api.ErrorTypeMismatch:
		rec.Feedback = append(rec.Feedback, "Type conversion issue")
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
