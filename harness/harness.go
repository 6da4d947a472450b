// Package harness orchestrates a benchmark run: collect answers from an
// agent, evaluate each one against the query store, and aggregate the
// per-question results into a run summary.
package harness

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/tokenbench/tokeneval/api"
	"github.com/tokenbench/tokeneval/classify"
	"github.com/tokenbench/tokeneval/extract"
	"github.com/tokenbench/tokeneval/llmjudge"
	"github.com/tokenbench/tokeneval/queries"
)

// Options configures a Harness.
type Options struct {
	// Extractor pulls typed values out of responses. Defaults to the
	// regex-based extractor.
	Extractor api.Extractor
	// Judge, when set, replaces the extract-classify-detect pipeline with
	// a single model call per response.
	Judge *llmjudge.Judge
	// Tokens is the valid-token set. Defaults to api.DefaultTokenSet.
	Tokens []string
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Concurrency bounds in-flight agent calls during collection.
	// Defaults to 1.
	Concurrency int
	// Delay is the minimum spacing between agent calls. Zero means no
	// pacing.
	Delay time.Duration
}

// Harness runs the benchmark end to end for one agent.
type Harness struct {
	extractor   api.Extractor
	judge       *llmjudge.Judge
	detector    *classify.Detector
	logger      *zap.Logger
	concurrency int
	delay       time.Duration

	now      func() time.Time
	newRunID func() string
}

// New creates a Harness.
func New(opts Options) *Harness {
	extractor := opts.Extractor
	if extractor == nil {
		extractor = extract.Pattern(extract.PatternOptions{Tokens: opts.Tokens})
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Harness{
		extractor:   extractor,
		judge:       opts.Judge,
		detector:    classify.NewDetector(classify.DetectorOptions{Tokens: opts.Tokens}),
		logger:      logger,
		concurrency: concurrency,
		delay:       opts.Delay,
		now:         time.Now,
		newRunID:    uuid.NewString,
	}
}

// Collect asks the agent every question in the store and returns the
// responses keyed by query ID. A failed call is logged and recorded as an
// empty response so the evaluation can still grade the run; only context
// cancellation aborts collection.
func (h *Harness) Collect(ctx context.Context, store *queries.Store, agent api.Agent) (map[string]string, error) {
	responses := make(map[string]string, store.Len())
	var mu sync.Mutex

	limiter := rate.NewLimiter(rate.Inf, 1)
	if h.delay > 0 {
		limiter = rate.NewLimiter(rate.Every(h.delay), 1)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency)

	for _, q := range store.Queries() {
		g.Go(func() error {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}

			answer, err := agent.Ask(ctx, q.Question)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				h.logger.Warn("agent call failed",
					zap.String("query_id", q.ID),
					zap.Error(err))
				answer = ""
			}

			mu.Lock()
			responses[q.ID] = answer
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}

// Evaluate grades one agent's responses against the store and aggregates
// them into a summary. Queries with no response are graded as
// missing_response. Results come back in store order.
func (h *Harness) Evaluate(ctx context.Context, store *queries.Store, agentName string, responses map[string]string) api.EvaluationSummary {
	summary := api.EvaluationSummary{
		RunID:     h.newRunID(),
		AgentName: agentName,
		Timestamp: h.now(),
	}

	var absErrSum float64
	var absErrCount int

	for _, q := range store.Queries() {
		result := h.evaluateOne(ctx, q, agentName, responses[q.ID])

		summary.TotalQueries++
		if result.Correct {
			summary.CorrectAnswers++
		}
		if result.IsHallucination {
			summary.HallucinationCount++
		}
		if result.AbsoluteError != nil {
			absErrSum += *result.AbsoluteError
			absErrCount++
		}
		summary.Results = append(summary.Results, result)
	}

	if summary.TotalQueries > 0 {
		total := float64(summary.TotalQueries)
		summary.AccuracyPercentage = round2(float64(summary.CorrectAnswers) / total * 100)
		summary.HallucinationRate = round2(float64(summary.HallucinationCount) / total * 100)
	}
	if absErrCount > 0 {
		summary.AverageAbsoluteError = round2(absErrSum / float64(absErrCount))
	}

	h.logger.Info("run evaluated",
		zap.String("run_id", summary.RunID),
		zap.String("agent", agentName),
		zap.Int("total", summary.TotalQueries),
		zap.Int("correct", summary.CorrectAnswers),
		zap.Float64("accuracy_pct", summary.AccuracyPercentage),
		zap.Int("hallucinations", summary.HallucinationCount))

	return summary
}

// Run collects and evaluates in one step.
func (h *Harness) Run(ctx context.Context, store *queries.Store, agent api.Agent, agentName string) (api.EvaluationSummary, error) {
	responses, err := h.Collect(ctx, store, agent)
	if err != nil {
		return api.EvaluationSummary{}, err
	}
	return h.Evaluate(ctx, store, agentName, responses), nil
}

func (h *Harness) evaluateOne(ctx context.Context, q api.Query, agentName, response string) api.EvaluationResult {
	result := api.EvaluationResult{
		QueryID:       q.ID,
		Question:      q.Question,
		Category:      q.Category,
		AgentName:     agentName,
		AgentResponse: response,
		Truth:         q.Truth,
		Timestamp:     h.now(),
	}

	if response == "" {
		result.ErrorType = api.ErrorMissingResponse
		return result
	}

	if h.judge != nil {
		verdict := h.judge.Evaluate(ctx, q.Question, q.Truth, response)
		result.Predicted = verdict.Predicted
		result.Correct = verdict.Correct
		result.AbsoluteError = verdict.AbsoluteError
		result.ErrorType = verdict.ErrorType
		result.IsHallucination = verdict.IsHallucination
		result.IsRefusal = verdict.IsRefusal
		result.Explanation = verdict.Explanation
		return result
	}

	predicted := h.extractor.Extract(ctx, response, api.ExpectedTypeFor(q.Category, q.Question))
	outcome := classify.Accuracy(predicted, q.Truth)

	result.Predicted = predicted
	result.Correct = outcome.Correct
	result.AbsoluteError = outcome.AbsoluteError
	result.ErrorType = outcome.ErrorType

	// A correct answer is never a hallucination; the detector only sees
	// incorrect predictions.
	if !outcome.Correct {
		result.IsHallucination = h.detector.Detect(predicted, q.Category)
	}

	h.logger.Debug("query evaluated",
		zap.String("query_id", q.ID),
		zap.Bool("correct", result.Correct),
		zap.String("error_type", string(result.ErrorType)),
		zap.Bool("hallucination", result.IsHallucination))

	return result
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
