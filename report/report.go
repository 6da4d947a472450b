// Package report renders run results for humans and persists the
// combined run artifact for later comparison.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/tokenbench/tokeneval/api"
	"github.com/tokenbench/tokeneval/grading"
)

// Metadata identifies a persisted run at a glance.
type Metadata struct {
	AgentName    string    `json:"agent_name"`
	Timestamp    time.Time `json:"evaluation_timestamp"`
	TotalQueries int       `json:"total_queries"`
	OverallGrade api.Grade `json:"overall_grade"`
	OverallScore float64   `json:"overall_score"`
}

// Complete is the combined run artifact: the evaluation summary, the
// grading report derived from it, and identifying metadata.
type Complete struct {
	Summary api.EvaluationSummary `json:"evaluation_summary"`
	Grading grading.Report        `json:"grading_report"`
	Meta    Metadata              `json:"metadata"`
}

// Combine builds the complete artifact for one run.
func Combine(summary api.EvaluationSummary, gradingReport grading.Report) Complete {
	return Complete{
		Summary: summary,
		Grading: gradingReport,
		Meta: Metadata{
			AgentName:    summary.AgentName,
			Timestamp:    summary.Timestamp,
			TotalQueries: summary.TotalQueries,
			OverallGrade: gradingReport.OverallGrade,
			OverallScore: gradingReport.OverallScore,
		},
	}
}

// Save writes the artifact as indented JSON.
func (c Complete) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Load reads a previously saved artifact.
func Load(path string) (Complete, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Complete{}, fmt.Errorf("read report: %w", err)
	}
	var c Complete
	if err := json.Unmarshal(data, &c); err != nil {
		return Complete{}, fmt.Errorf("parse report: %w", err)
	}
	return c, nil
}

// Printer renders run results to a terminal.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// PrintSummary renders the evaluation summary.
func (p *Printer) PrintSummary(summary api.EvaluationSummary) {
	bold := color.New(color.Bold)

	bold.Fprintf(p.out, "Evaluation Summary: %s\n", summary.AgentName)
	fmt.Fprintf(p.out, "%s\n", strings.Repeat("=", 50))
	fmt.Fprintf(p.out, "Run ID:              %s\n", summary.RunID)
	fmt.Fprintf(p.out, "Total queries:       %d\n", summary.TotalQueries)
	fmt.Fprintf(p.out, "Correct answers:     %d\n", summary.CorrectAnswers)
	fmt.Fprintf(p.out, "Accuracy:            %.1f%%\n", summary.AccuracyPercentage)
	fmt.Fprintf(p.out, "Hallucinations:      %d (%.1f%%)\n", summary.HallucinationCount, summary.HallucinationRate)
	fmt.Fprintf(p.out, "Avg absolute error:  %.2f\n", summary.AverageAbsoluteError)
	fmt.Fprintln(p.out)

	for _, result := range summary.Results {
		p.printResult(result)
	}
}

func (p *Printer) printResult(result api.EvaluationResult) {
	mark := color.New(color.FgGreen).Sprint("PASS")
	switch {
	case result.IsHallucination:
		mark = color.New(color.FgRed).Sprint("HALL")
	case !result.Correct:
		mark = color.New(color.FgYellow).Sprint("FAIL")
	}
	fmt.Fprintf(p.out, "[%s] %-30s %s (truth: %s, got: %s)\n",
		mark, result.QueryID, result.ErrorType, result.Truth, result.Predicted)
}

// PrintGradingReport renders the grading report: overall grade, grade
// histogram and per-category performance.
func (p *Printer) PrintGradingReport(report grading.Report) {
	bold := color.New(color.Bold)

	bold.Fprintf(p.out, "Grading Report\n")
	fmt.Fprintf(p.out, "%s\n", strings.Repeat("=", 50))
	fmt.Fprintf(p.out, "Overall: %s (%.1f/100) across %d questions\n",
		gradeColor(report.OverallGrade).Sprint(string(report.OverallGrade)),
		report.OverallScore, report.TotalQuestions)

	fmt.Fprintf(p.out, "\nGrade distribution:\n")
	for _, grade := range gradeOrder {
		count := report.GradeDistribution[grade]
		if count == 0 {
			continue
		}
		pct := float64(count) / float64(report.TotalQuestions) * 100
		fmt.Fprintf(p.out, "  %-2s %s (%d, %.1f%%)\n",
			gradeColor(grade).Sprint(string(grade)), strings.Repeat("#", count), count, pct)
	}

	fmt.Fprintf(p.out, "\nCategory performance:\n")
	categories := make([]api.Category, 0, len(report.CategoryPerformance))
	for category := range report.CategoryPerformance {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	for _, category := range categories {
		stats := report.CategoryPerformance[category]
		fmt.Fprintf(p.out, "  %-24s %s (%.1f/100, %d questions)\n",
			category, gradeColor(stats.Grade).Sprint(string(stats.Grade)), stats.AverageScore, stats.Count)
	}
}

var gradeOrder = []api.Grade{
	api.GradeAPlus, api.GradeA, api.GradeAMinus,
	api.GradeBPlus, api.GradeB, api.GradeBMinus,
	api.GradeCPlus, api.GradeC, api.GradeCMinus,
	api.GradeDPlus, api.GradeD, api.GradeDMinus,
	api.GradeF,
}

func gradeColor(g api.Grade) *color.Color {
	switch g[0] {
	case 'A':
		return color.New(color.FgGreen)
	case 'B':
		return color.New(color.FgCyan)
	case 'C':
		return color.New(color.FgYellow)
	case 'D':
		return color.New(color.FgMagenta)
	default:
		return color.New(color.FgRed)
	}
}
