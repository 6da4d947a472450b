package tokeneval

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tokenbench/tokeneval/api"
)

func TestNewPatternExtractor(t *testing.T) {
	e := NewPatternExtractor()
	got := e.Extract(context.Background(), "TAO was above $400 for approximately 13% of the days.", api.TypePercentage)
	if !got.IsNumeric() || got.Number != 13.0 {
		t.Errorf("Extract() = %v, want 13", got)
	}
}

func TestNewPatternExtractorCustomTokens(t *testing.T) {
	e := NewPatternExtractor(WithTokens([]string{"BTC", "DOGE"}))
	got := e.Extract(context.Background(), "DOGE led the market.", api.TypeToken)
	if got.Kind != api.KindToken || got.Text != "DOGE" {
		t.Errorf("Extract() = %v, want DOGE token", got)
	}
}

func TestNewLLMJudgeWithoutBackend(t *testing.T) {
	j := NewLLMJudge()

	// Extraction degrades to no value; the judge reports the failure.
	if got := j.Extractor().Extract(context.Background(), "42", api.TypeNumber); !got.IsNone() {
		t.Errorf("Extract() = %v, want none", got)
	}
	verdict := j.Judge().Evaluate(context.Background(), "question?", api.NumberValue(1), "answer")
	if verdict.ErrorType != api.ErrorEvaluationFailed {
		t.Errorf("ErrorType = %v, want %v", verdict.ErrorType, api.ErrorEvaluationFailed)
	}
}

func TestSentinelErrors(t *testing.T) {
	// The root names must match the api sentinels the subpackages wrap,
	// so callers can errors.Is against either.
	tests := []struct {
		name     string
		facade   error
		sentinel error
	}{
		{"query not found", ErrQueryNotFound, api.ErrQueryNotFound},
		{"generation failed", ErrLLMGenerationFailed, api.ErrLLMGenerationFailed},
		{"invalid verdict", ErrInvalidVerdict, api.ErrInvalidVerdict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("%w: details", tt.sentinel)
			if !errors.Is(wrapped, tt.facade) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.facade)
			}
		})
	}
}

func TestNewGeminiLLMJudgeWithoutClient(t *testing.T) {
	// No client means no generator; construction must still succeed.
	j := NewGeminiLLMJudge(WithModelName("gemini-2.5-flash"))
	if j == nil {
		t.Fatal("NewGeminiLLMJudge() = nil")
	}
	verdict := j.Judge().Evaluate(context.Background(), "question?", api.NumberValue(1), "answer")
	if verdict.ErrorType != api.ErrorEvaluationFailed {
		t.Errorf("ErrorType = %v, want %v", verdict.ErrorType, api.ErrorEvaluationFailed)
	}
}
