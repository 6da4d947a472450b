package llmjudge

import (
	"context"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/tokenbench/tokeneval/api"
)

const judgePromptTemplate = `You are an expert evaluator for AI agents answering cryptocurrency analytics questions.

QUESTION: %s

TRUTH VALUE: %s

AGENT RESPONSE: %s

Please evaluate the agent's response and return a JSON object with these exact fields:

{
    "correct": boolean,
    "extracted_value": "the specific value/answer the agent provided (number, date, list, etc.) or null if unclear",
    "is_hallucination": boolean,
    "is_refusal": boolean,
    "error_type": "one of: correct, minor_error, major_error, extraction_failed, refusal, hallucination",
    "absolute_error": "for numeric answers, the absolute difference from truth, else null",
    "explanation": "brief explanation of your evaluation"
}

Guidelines:
- For percentages, allow ±2%% tolerance for "correct"
- For prices/returns, allow ±5%% tolerance for "correct"
- For dates, must be exact match
- For rankings, order must be exactly correct
- "refusal" is NOT a hallucination - it's honest uncertainty
- Only mark as "hallucination" if agent provides confident but false information
- If response is unclear but not obviously false, use "extraction_failed"

Return ONLY the JSON object, no other text.`

// verdictSchema constrains field types without requiring any field;
// missing fields are defaulted, wrong-shaped ones fail the whole verdict.
var verdictSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"correct":          map[string]interface{}{"type": []string{"boolean", "null"}},
		"extracted_value":  map[string]interface{}{},
		"is_hallucination": map[string]interface{}{"type": []string{"boolean", "null"}},
		"is_refusal":       map[string]interface{}{"type": []string{"boolean", "null"}},
		"error_type":       map[string]interface{}{"type": []string{"string", "null"}},
		"absolute_error":   map[string]interface{}{"type": []string{"number", "null"}},
		"explanation":      map[string]interface{}{"type": []string{"string", "null"}},
	},
}

// refusalPhrases is the fallback scan applied when the judge backend
// itself fails, so an honest refusal is still recorded as one.
var refusalPhrases = []string{"don't have access", "cannot provide"}

// Verdict is the judge's structured assessment of one response.
type Verdict struct {
	Correct         bool
	Predicted       api.Value
	IsHallucination bool
	IsRefusal       bool
	ErrorType       api.ErrorType
	AbsoluteError   *float64
	Explanation     string
}

// JudgeOptions configures the judge.
type JudgeOptions struct {
	// Tokens is the valid-token set used to type extracted values.
	// Defaults to api.DefaultTokenSet.
	Tokens []string
}

// Judge delegates extraction and the correctness verdict to an external
// text model in one call, with category-aware tolerance bands described
// in the prompt.
type Judge struct {
	llm    api.LLMGenerator
	tokens []string
}

// NewJudge creates a Judge backed by the given generator.
func NewJudge(llm api.LLMGenerator, opts JudgeOptions) *Judge {
	tokens := opts.Tokens
	if len(tokens) == 0 {
		tokens = api.DefaultTokenSet
	}
	return &Judge{llm: llm, tokens: tokens}
}

// Evaluate asks the backend for a structured verdict on one response.
// It never returns an error: backend or parse failures come back as an
// evaluation_failed verdict with a best-effort explanation and a
// refusal-phrase scan of the raw response.
func (j *Judge) Evaluate(ctx context.Context, question string, truth api.Value, response string) Verdict {
	if j.llm == nil {
		return j.failed(response, "no judge backend configured")
	}

	prompt := fmt.Sprintf(judgePromptTemplate, question, truth.String(), response)
	fields, err := j.llm.StructuredGenerate(ctx, prompt, verdictSchema)
	if err != nil {
		return j.failed(response, fmt.Sprintf("judge generation failed: %v", err))
	}

	validation, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(verdictSchema),
		gojsonschema.NewGoLoader(fields),
	)
	if err != nil {
		return j.failed(response, fmt.Sprintf("judge returned unvalidatable verdict: %v", err))
	}
	if !validation.Valid() {
		return j.failed(response, fmt.Sprintf("judge verdict failed validation: %v", validation.Errors()))
	}

	return j.verdictFrom(fields, truth)
}

// verdictFrom assembles a Verdict from the decoded object, defaulting
// every missing field.
func (j *Judge) verdictFrom(fields map[string]interface{}, truth api.Value) Verdict {
	v := Verdict{
		Correct:         boolField(fields, "correct"),
		IsHallucination: boolField(fields, "is_hallucination"),
		IsRefusal:       boolField(fields, "is_refusal"),
		Explanation:     stringField(fields, "explanation"),
		Predicted:       j.valueFrom(fields["extracted_value"]),
	}

	v.ErrorType = j.errorTypeFrom(stringField(fields, "error_type"), v.Predicted, truth)

	if f, ok := fields["absolute_error"].(float64); ok && v.ErrorType == api.ErrorNumeric {
		v.AbsoluteError = &f
	}

	// A correct answer is never a hallucination, whatever the judge said.
	if v.Correct {
		v.IsHallucination = false
	}
	return v
}

// errorTypeFrom maps the judge's free-form error tag onto the closed
// taxonomy. Graded errors (correct/minor/major/hallucination) take their
// tag from the kinds of the compared values.
func (j *Judge) errorTypeFrom(raw string, predicted, truth api.Value) api.ErrorType {
	switch raw {
	case "refusal":
		return api.ErrorRefusal
	case "extraction_failed":
		return api.ErrorExtractionFailed
	}

	switch {
	case predicted.IsNumeric() && truth.IsNumeric():
		return api.ErrorNumeric
	case predicted.IsStringLike() && truth.IsStringLike():
		return api.ErrorStringMismatch
	case predicted.Kind == api.KindRanking && truth.Kind == api.KindRanking:
		return api.ErrorListMismatch
	default:
		return api.ErrorTypeMismatch
	}
}

// valueFrom types a decoded JSON extracted_value into the Value union.
func (j *Judge) valueFrom(raw interface{}) api.Value {
	switch val := raw.(type) {
	case float64:
		return api.NumberValue(val)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return api.Value{}
		}
		upper := strings.ToUpper(s)
		if containsToken(j.tokens, upper) {
			return api.TokenValue(upper)
		}
		return api.TextValue(s)
	case []interface{}:
		var ranking []string
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return api.Value{}
			}
			ranking = append(ranking, strings.ToUpper(strings.TrimSpace(s)))
		}
		if len(ranking) == 0 {
			return api.Value{}
		}
		return api.RankingValue(ranking)
	default:
		return api.Value{}
	}
}

func (j *Judge) failed(response, explanation string) Verdict {
	v := Verdict{
		ErrorType:   api.ErrorEvaluationFailed,
		Explanation: explanation,
	}
	lower := strings.ToLower(response)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			v.IsRefusal = true
			break
		}
	}
	return v
}

func boolField(fields map[string]interface{}, key string) bool {
	b, _ := fields[key].(bool)
	return b
}

func stringField(fields map[string]interface{}, key string) string {
	s, _ := fields[key].(string)
	return s
}
