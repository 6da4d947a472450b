package grading

import (
	"github.com/tokenbench/tokeneval/api"
)

// CategoryStats summarizes one category's performance across a run.
type CategoryStats struct {
	AverageScore float64   `json:"average_score"`
	Grade        api.Grade `json:"grade"`
	Count        int       `json:"count"`
}

// SummaryStats carries run-wide averages over the sub-scores.
type SummaryStats struct {
	AverageAccuracyScore   float64 `json:"average_accuracy_score"`
	AveragePrecisionScore  float64 `json:"average_precision_score"`
	AverageQualityScore    float64 `json:"average_quality_score"`
	QuestionsWithPenalties int     `json:"questions_with_penalties"`
	QuestionsWithBonuses   int     `json:"questions_with_bonuses"`
}

// Report is the run-level grading output.
type Report struct {
	OverallScore        float64                        `json:"overall_score"`
	OverallGrade        api.Grade                      `json:"overall_grade"`
	TotalQuestions      int                            `json:"total_questions"`
	CategoryPerformance map[api.Category]CategoryStats `json:"category_performance"`
	GradeDistribution   map[api.Grade]int              `json:"grade_distribution"`
	Records             []api.GradeRecord              `json:"detailed_results"`
	Stats               SummaryStats                   `json:"summary_stats"`
}

// GradeRun scores every result and aggregates overall score and grade,
// per-category averages, and a grade histogram. An empty run yields a
// zero-score report with grade F; aggregation never fails.
func GradeRun(results []api.EvaluationResult) Report {
	report := Report{
		CategoryPerformance: make(map[api.Category]CategoryStats),
		GradeDistribution:   make(map[api.Grade]int),
		TotalQuestions:      len(results),
	}
	for _, t := range gradeThresholds {
		report.GradeDistribution[t.grade] = 0
	}

	categoryScores := make(map[api.Category][]float64)
	var totalScore, totalAccuracy, totalPrecision, totalQuality float64

	for _, result := range results {
		rec := Score(result)
		report.Records = append(report.Records, rec)
		report.GradeDistribution[rec.Grade]++

		categoryScores[result.Category] = append(categoryScores[result.Category], rec.Score)
		totalScore += rec.Score
		totalAccuracy += rec.AccuracyScore
		totalPrecision += rec.PrecisionScore
		totalQuality += rec.QualityScore
		if len(rec.Penalties) > 0 {
			report.Stats.QuestionsWithPenalties++
		}
		if len(rec.Bonuses) > 0 {
			report.Stats.QuestionsWithBonuses++
		}
	}

	if len(results) > 0 {
		n := float64(len(results))
		report.OverallScore = round2(totalScore / n)
		report.Stats.AverageAccuracyScore = totalAccuracy / n
		report.Stats.AveragePrecisionScore = totalPrecision / n
		report.Stats.AverageQualityScore = totalQuality / n
	}
	report.OverallGrade = GradeFor(report.OverallScore)

	for category, scores := range categoryScores {
		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		avg := sum / float64(len(scores))
		report.CategoryPerformance[category] = CategoryStats{
			AverageScore: avg,
			Grade:        GradeFor(avg),
			Count:        len(scores),
		}
	}

	return report
}
