package llmjudge

import (
	"context"
	"testing"

	"github.com/tokenbench/tokeneval/api"
	"github.com/tokenbench/tokeneval/internal/testutils"
)

// TestJudge_Integration exercises the judge with real Gemini API calls.
// This test requires valid Google Cloud credentials and uses hypert to cache requests
func TestJudge_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	llmGen := testutils.NewGeminiGenerator(t, testutils.DefaultGeminiTestConfig("judge"), "publishers/google/models/gemini-2.5-flash")
	judge := NewJudge(llmGen, JudgeOptions{})

	tests := []struct {
		name            string
		question        string
		truth           api.Value
		response        string
		wantCorrect     bool
		wantRefusal     bool
		wantHallucinate bool
	}{
		{
			name:        "percentage within tolerance",
			question:    "What percentage of days did TAO close above $400?",
			truth:       api.NumberValue(12.9),
			response:    "TAO was above $400 for approximately 13% of the days.",
			wantCorrect: true,
		},
		{
			name:        "refusal",
			question:    "What was SOL's largest single-day gain?",
			truth:       api.NumberValue(8.8),
			response:    "I don't have access to historical price data for SOL.",
			wantRefusal: true,
		},
		{
			name:            "confidently wrong percentage",
			question:        "What percentage of days did TAO close above $400?",
			truth:           api.NumberValue(12.9),
			response:        "TAO closed above $400 on exactly 150% of trading days.",
			wantCorrect:     false,
			wantHallucinate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := judge.Evaluate(ctx, tt.question, tt.truth, tt.response)

			if verdict.ErrorType == api.ErrorEvaluationFailed {
				t.Fatalf("Evaluate() failed: %s", verdict.Explanation)
			}
			if verdict.Correct != tt.wantCorrect {
				t.Errorf("Correct = %v, want %v (explanation: %s)", verdict.Correct, tt.wantCorrect, verdict.Explanation)
			}
			if verdict.IsRefusal != tt.wantRefusal {
				t.Errorf("IsRefusal = %v, want %v", verdict.IsRefusal, tt.wantRefusal)
			}
			if verdict.IsHallucination != tt.wantHallucinate {
				t.Errorf("IsHallucination = %v, want %v", verdict.IsHallucination, tt.wantHallucinate)
			}
		})
	}
}

// TestExtractor_Integration exercises the model-based extractor with real Gemini API calls.
func TestExtractor_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	llmGen := testutils.NewGeminiGenerator(t, testutils.DefaultGeminiTestConfig("extractor"), "publishers/google/models/gemini-2.5-flash")
	extractor := NewExtractor(llmGen, ExtractorOptions{})

	tests := []struct {
		name     string
		response string
		want     api.ExpectedType
		wantKind api.Kind
	}{
		{
			name:     "percentage buried in prose",
			response: "Looking at the data, TAO traded above the $400 mark on roughly 13 percent of all trading days in the window.",
			want:     api.TypePercentage,
			wantKind: api.KindNumber,
		},
		{
			name:     "ranking in prose",
			response: "ETH had the highest average close, followed by TAO, with SOL trailing in third place.",
			want:     api.TypeRanking,
			wantKind: api.KindRanking,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractor.Extract(ctx, tt.response, tt.want)
			if got.Kind != tt.wantKind {
				t.Errorf("Extract() kind = %v, want %v (value: %s)", got.Kind, tt.wantKind, got)
			}
		})
	}
}
