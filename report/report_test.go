package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"

	"github.com/tokenbench/tokeneval/api"
	"github.com/tokenbench/tokeneval/grading"
)

func sampleSummary() api.EvaluationSummary {
	absErr := 0.1
	return api.EvaluationSummary{
		RunID:              "run-0001",
		AgentName:          "test-agent",
		TotalQueries:       2,
		CorrectAnswers:     1,
		AccuracyPercentage: 50.0,
		HallucinationCount: 1,
		HallucinationRate:  50.0,
		Timestamp:          time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Results: []api.EvaluationResult{
			{
				QueryID:       "pct_tao_above_400",
				Category:      api.CategoryPercentageThreshold,
				Truth:         api.NumberValue(12.9),
				Predicted:     api.NumberValue(13.0),
				Correct:       true,
				AbsoluteError: &absErr,
				ErrorType:     api.ErrorNumeric,
			},
			{
				QueryID:         "eth_highest_close_date",
				Category:        api.CategoryPriceAnalysis,
				Truth:           api.TextValue("2025-06-11"),
				ErrorType:       api.ErrorTypeMismatch,
				IsHallucination: true,
			},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	summary := sampleSummary()
	complete := Combine(summary, grading.GradeRun(summary.Results))

	path := filepath.Join(t.TempDir(), "results.json")
	if err := complete.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Meta.AgentName != "test-agent" || loaded.Meta.TotalQueries != 2 {
		t.Errorf("Meta = %+v", loaded.Meta)
	}
	if loaded.Meta.OverallGrade != complete.Grading.OverallGrade {
		t.Errorf("OverallGrade = %v, want %v", loaded.Meta.OverallGrade, complete.Grading.OverallGrade)
	}
	if diff := cmp.Diff(complete.Summary.RunID, loaded.Summary.RunID); diff != "" {
		t.Errorf("RunID mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Load() error = nil, want error")
	}
}

func TestPrintSummary(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	NewPrinter(&buf).PrintSummary(sampleSummary())

	out := buf.String()
	for _, want := range []string{
		"test-agent",
		"Total queries:       2",
		"Accuracy:            50.0%",
		"[PASS] pct_tao_above_400",
		"[HALL] eth_highest_close_date",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintGradingReport(t *testing.T) {
	color.NoColor = true

	summary := sampleSummary()
	var buf bytes.Buffer
	NewPrinter(&buf).PrintGradingReport(grading.GradeRun(summary.Results))

	out := buf.String()
	for _, want := range []string{
		"Grading Report",
		"Grade distribution:",
		"Category performance:",
		"percentage_threshold",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("grading output missing %q:\n%s", want, out)
		}
	}
}
