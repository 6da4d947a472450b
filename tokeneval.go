// Package tokeneval grades AI-agent answers to crypto market-analytics
// questions. Answers are free text; a typed value is pulled out of each
// one, compared against a pre-computed ground truth, screened for
// hallucinated impossibilities, and folded into a weighted letter grade.
//
// The package root is a thin facade: the work lives in extract, classify,
// grading, llmjudge and harness.
package tokeneval

import (
	"google.golang.org/genai"

	"github.com/tokenbench/tokeneval/api"
	"github.com/tokenbench/tokeneval/extract"
	"github.com/tokenbench/tokeneval/gemini"
	"github.com/tokenbench/tokeneval/harness"
	"github.com/tokenbench/tokeneval/llmjudge"
)

type Value = api.Value
type Kind = api.Kind
type ExpectedType = api.ExpectedType
type Category = api.Category
type ErrorType = api.ErrorType
type Query = api.Query
type EvaluationResult = api.EvaluationResult
type EvaluationSummary = api.EvaluationSummary
type Grade = api.Grade
type GradeRecord = api.GradeRecord
type Extractor = api.Extractor
type LLMGenerator = api.LLMGenerator
type Agent = api.Agent

// PatternOptions configures the regex-based extractor.
type PatternOptions struct {
	tokens []string
}

// WithTokens sets the valid-token set for pattern extraction
func WithTokens(tokens []string) func(*PatternOptions) {
	return func(opts *PatternOptions) {
		opts.tokens = tokens
	}
}

// NewPatternExtractor creates the regex-based extractor. It works offline
// and is the default extraction strategy.
func NewPatternExtractor(opts ...func(*PatternOptions)) api.Extractor {
	options := &PatternOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return extract.Pattern(extract.PatternOptions{Tokens: options.tokens})
}

// LLMJudge wraps an LLM generator and exposes convenient constructors for
// the model-based extractor and the single-call judge.
type LLMJudge struct {
	llm    api.LLMGenerator
	tokens []string
}

// LLMJudgeOptions configures LLMJudge creation
type LLMJudgeOptions struct {
	llm    api.LLMGenerator
	tokens []string
}

// WithLLMGenerator sets the LLM generator for the judge
func WithLLMGenerator(llm api.LLMGenerator) func(*LLMJudgeOptions) {
	return func(opts *LLMJudgeOptions) {
		opts.llm = llm
	}
}

// WithJudgeTokens sets the valid-token set for the judge
func WithJudgeTokens(tokens []string) func(*LLMJudgeOptions) {
	return func(opts *LLMJudgeOptions) {
		opts.tokens = tokens
	}
}

// NewLLMJudge creates a new judge wrapper using functional options.
func NewLLMJudge(opts ...func(*LLMJudgeOptions)) *LLMJudge {
	options := &LLMJudgeOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return &LLMJudge{
		llm:    options.llm,
		tokens: options.tokens,
	}
}

// GeminiOptions configures Gemini LLMJudge creation
type GeminiOptions struct {
	genaiClient *genai.Client
	modelName   string
	tokens      []string
}

// WithGenaiClient sets the Gemini client for the judge
func WithGenaiClient(client *genai.Client) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.genaiClient = client
	}
}

// WithModelName sets the model name for the judge
func WithModelName(modelName string) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.modelName = modelName
	}
}

// WithGeminiTokens sets the valid-token set for the judge
func WithGeminiTokens(tokens []string) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.tokens = tokens
	}
}

// NewGeminiLLMJudge creates a judge wrapper backed by a Gemini model.
// Example model: "gemini-2.5-flash".
func NewGeminiLLMJudge(opts ...func(*GeminiOptions)) *LLMJudge {
	options := &GeminiOptions{}
	for _, opt := range opts {
		opt(options)
	}

	var judgeOptions []func(*LLMJudgeOptions)

	// Only add LLM generator if genaiClient is provided
	if options.genaiClient != nil && options.modelName != "" {
		judgeOptions = append(judgeOptions, WithLLMGenerator(gemini.NewGenerator(options.genaiClient, options.modelName)))
	}
	if len(options.tokens) > 0 {
		judgeOptions = append(judgeOptions, WithJudgeTokens(options.tokens))
	}

	return NewLLMJudge(judgeOptions...)
}

type Harness = harness.Harness
type HarnessOptions = harness.Options

// NewHarness creates a benchmark harness.
func NewHarness(opts HarnessOptions) *Harness {
	return harness.New(opts)
}

// Extractor returns the model-based extractor for this judge's backend.
func (j *LLMJudge) Extractor() api.Extractor {
	return llmjudge.NewExtractor(j.llm, llmjudge.ExtractorOptions{Tokens: j.tokens})
}

// Judge returns the single-call judge, which extracts and classifies in
// one model round-trip.
func (j *LLMJudge) Judge() *llmjudge.Judge {
	return llmjudge.NewJudge(j.llm, llmjudge.JudgeOptions{Tokens: j.tokens})
}
