package api

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultTokenSet contains the token symbols the benchmark datasets cover.
// Extractors and the hallucination detector accept a caller-supplied set;
// this is the fallback when none is given.
var DefaultTokenSet = []string{"SOL", "ETH", "TAO"}

// Kind tags the variants of the Value union.
type Kind int

const (
	// KindNone marks the zero Value: nothing was extracted.
	KindNone Kind = iota
	// KindNumber is a numeric answer (price, percentage, count, ratio).
	KindNumber
	// KindText is a free string answer, typically an ISO date.
	KindText
	// KindToken is a token symbol from the valid-token set.
	KindToken
	// KindRanking is an ordered list of token symbols.
	KindRanking
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindToken:
		return "token"
	case KindRanking:
		return "ranking"
	default:
		return "none"
	}
}

// Value is a tagged union over the answer types the benchmark grades:
// numbers, text (dates), token symbols and ordered rankings.
// The zero Value means "no answer extracted".
type Value struct {
	Kind    Kind
	Number  float64
	Text    string
	Ranking []string
}

// NumberValue returns a numeric Value.
func NumberValue(f float64) Value { return Value{Kind: KindNumber, Number: f} }

// TextValue returns a free-text Value, typically an ISO date.
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

// TokenValue returns a token-symbol Value.
func TokenValue(s string) Value { return Value{Kind: KindToken, Text: s} }

// RankingValue returns an ordered-ranking Value.
func RankingValue(tokens []string) Value { return Value{Kind: KindRanking, Ranking: tokens} }

// IsNone reports whether no value is present.
func (v Value) IsNone() bool { return v.Kind == KindNone }

// IsNumeric reports whether the value carries a number.
func (v Value) IsNumeric() bool { return v.Kind == KindNumber }

// IsStringLike reports whether the value carries a string (text or token).
func (v Value) IsStringLike() bool { return v.Kind == KindText || v.Kind == KindToken }

// StringValue returns the carried string for text and token values.
func (v Value) StringValue() string { return v.Text }

func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return fmt.Sprintf("%g", v.Number)
	case KindText, KindToken:
		return v.Text
	case KindRanking:
		return strings.Join(v.Ranking, ", ")
	default:
		return "<none>"
	}
}

// MarshalJSON encodes the underlying value directly: a number, a string,
// a list of strings, or null when nothing was extracted.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return json.Marshal(v.Number)
	case KindText, KindToken:
		return json.Marshal(v.Text)
	case KindRanking:
		return json.Marshal(v.Ranking)
	default:
		return []byte("null"), nil
	}
}

// ExpectedType hints which value type an extractor should look for.
type ExpectedType string

const (
	TypeNumber     ExpectedType = "number"
	TypePercentage ExpectedType = "percentage"
	TypeDate       ExpectedType = "date"
	TypeToken      ExpectedType = "token"
	TypeRanking    ExpectedType = "ranking"
)

// Category tags a benchmark question. The category selects the expected
// value type and the hallucination bounds.
type Category string

const (
	CategoryPercentageThreshold   Category = "percentage_threshold"
	CategoryPriceChange           Category = "price_change"
	CategoryVolatility            Category = "volatility"
	CategoryVolatilityStat        Category = "volatility_stat"
	CategoryStreakAnalysis        Category = "streak_analysis"
	CategoryRollingStats          Category = "rolling_stats"
	CategoryVolumeAnalysis        Category = "volume_analysis"
	CategoryConditionalThreshold  Category = "conditional_threshold"
	CategoryConditionalVolume     Category = "conditional_volume"
	CategoryPerformanceComparison Category = "performance_comparison"
	CategoryPriceAnalysis         Category = "price_analysis"
	CategoryBasicPrice            Category = "basic_price"
	CategoryBasicReturn           Category = "basic_return"
	CategoryBasicExtremes         Category = "basic_extremes"
	CategoryBasicCounting         Category = "basic_counting"
	CategoryBasicRanking          Category = "basic_ranking"
)

// Categories lists all supported question categories.
var Categories = []Category{
	CategoryPercentageThreshold,
	CategoryPriceChange,
	CategoryVolatility,
	CategoryVolatilityStat,
	CategoryStreakAnalysis,
	CategoryRollingStats,
	CategoryVolumeAnalysis,
	CategoryConditionalThreshold,
	CategoryConditionalVolume,
	CategoryPerformanceComparison,
	CategoryPriceAnalysis,
	CategoryBasicPrice,
	CategoryBasicReturn,
	CategoryBasicExtremes,
	CategoryBasicCounting,
	CategoryBasicRanking,
}

var dateQuestion = regexp.MustCompile(`\bdate\b|\bwhich day\b`)

// ExpectedTypeFor derives the extraction type hint from the category,
// consulting the question text where a category spans several answer types
// (rankings, dates and token picks share categories in the datasets).
func ExpectedTypeFor(c Category, question string) ExpectedType {
	q := strings.ToLower(question)
	ranked := strings.Contains(q, "rank")
	dated := dateQuestion.MatchString(q)

	switch c {
	case CategoryPercentageThreshold, CategoryConditionalThreshold, CategoryBasicReturn:
		return TypePercentage
	case CategoryPriceChange, CategoryStreakAnalysis, CategoryBasicPrice, CategoryBasicCounting:
		return TypeNumber
	case CategoryVolatility:
		if dated {
			return TypeDate
		}
		if strings.Contains(q, "most volatile") || strings.Contains(q, "which token") {
			return TypeToken
		}
		return TypeNumber
	case CategoryVolatilityStat:
		return TypeNumber
	case CategoryRollingStats, CategoryConditionalVolume, CategoryBasicExtremes:
		if dated {
			return TypeDate
		}
		return TypeNumber
	case CategoryVolumeAnalysis, CategoryPerformanceComparison:
		switch {
		case ranked:
			return TypeRanking
		case dated:
			return TypeDate
		default:
			return TypeToken
		}
	case CategoryBasicRanking:
		return TypeRanking
	case CategoryPriceAnalysis:
		switch {
		case dated:
			return TypeDate
		case ranked:
			return TypeRanking
		default:
			return TypeToken
		}
	default:
		return TypeNumber
	}
}

// ErrorType classifies how a prediction relates to the truth value.
type ErrorType string

const (
	// ErrorNumeric means both sides were numeric; the answer may still be wrong.
	ErrorNumeric ErrorType = "numeric_error"
	// ErrorStringMismatch means both sides were strings.
	ErrorStringMismatch ErrorType = "string_mismatch"
	// ErrorListMismatch means both sides were rankings.
	ErrorListMismatch ErrorType = "list_mismatch"
	// ErrorTypeMismatch means the sides were incomparable, including a
	// missing prediction against a typed truth.
	ErrorTypeMismatch ErrorType = "type_mismatch"
	// ErrorMissingResponse means the agent supplied no answer at all.
	ErrorMissingResponse ErrorType = "missing_response"
	// ErrorExtractionFailed is a judge verdict: the response was unclear
	// but not dishonest.
	ErrorExtractionFailed ErrorType = "extraction_failed"
	// ErrorRefusal is a judge verdict: the agent explicitly declined.
	ErrorRefusal ErrorType = "refusal"
	// ErrorEvaluationFailed means the judge backend itself errored.
	ErrorEvaluationFailed ErrorType = "evaluation_failed"
)

// Query is one benchmark question with its pre-computed ground truth.
// Queries are loaded once and immutable for the length of a run.
type Query struct {
	ID          string   `json:"id"`
	Question    string   `json:"question"`
	Category    Category `json:"category"`
	Truth       Value    `json:"truth"`
	Explanation string   `json:"explanation,omitempty"`
}

// EvaluationResult is one question's graded outcome for one agent.
//
// AbsoluteError is set only when ErrorType is numeric_error.
// Correct implies IsHallucination is false.
type EvaluationResult struct {
	QueryID         string    `json:"query_id"`
	Question        string    `json:"question"`
	Category        Category  `json:"category"`
	AgentName       string    `json:"agent_name"`
	AgentResponse   string    `json:"agent_response,omitempty"`
	Truth           Value     `json:"truth"`
	Predicted       Value     `json:"predicted"`
	Correct         bool      `json:"correct"`
	AbsoluteError   *float64  `json:"absolute_error"`
	ErrorType       ErrorType `json:"error_type"`
	IsHallucination bool      `json:"is_hallucination"`
	IsRefusal       bool      `json:"is_refusal,omitempty"`
	Explanation     string    `json:"explanation,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// EvaluationSummary aggregates every result of a run.
// Rates are 0 when TotalQueries is 0.
type EvaluationSummary struct {
	RunID                string             `json:"run_id"`
	AgentName            string             `json:"agent_name"`
	TotalQueries         int                `json:"total_queries"`
	CorrectAnswers       int                `json:"correct_answers"`
	AccuracyPercentage   float64            `json:"accuracy_percentage"`
	HallucinationCount   int                `json:"hallucination_count"`
	HallucinationRate    float64            `json:"hallucination_rate"`
	AverageAbsoluteError float64            `json:"average_absolute_error"`
	Results              []EvaluationResult `json:"results"`
	Timestamp            time.Time          `json:"timestamp"`
}

// Grade is a letter grade from the 13-level scale.
type Grade string

const (
	GradeAPlus  Grade = "A+"
	GradeA      Grade = "A"
	GradeAMinus Grade = "A-"
	GradeBPlus  Grade = "B+"
	GradeB      Grade = "B"
	GradeBMinus Grade = "B-"
	GradeCPlus  Grade = "C+"
	GradeC      Grade = "C"
	GradeCMinus Grade = "C-"
	GradeDPlus  Grade = "D+"
	GradeD      Grade = "D"
	GradeDMinus Grade = "D-"
	GradeF      Grade = "F"
)

// GradeRecord is the grading engine's per-question output, derived from an
// EvaluationResult and recomputable at any time.
type GradeRecord struct {
	QueryID        string   `json:"query_id"`
	Category       Category `json:"category"`
	Grade          Grade    `json:"grade"`
	Score          float64  `json:"score"`
	AccuracyScore  float64  `json:"accuracy_score"`
	PrecisionScore float64  `json:"precision_score"`
	QualityScore   float64  `json:"quality_score"`
	Penalties      []string `json:"penalties,omitempty"`
	Bonuses        []string `json:"bonuses,omitempty"`
	Feedback       []string `json:"feedback,omitempty"`
}

// Extractor converts a free-text agent response into a typed candidate
// value. Implementations return the zero Value when nothing usable is
// found; they never fail.
type Extractor interface {
	Extract(ctx context.Context, response string, want ExpectedType) Value
}

// LLMGenerator is an interface for generating text using an LLM.
// This interface must be implemented by library consumers.
// A Gemini implementation is provided in the gemini subpackage.
type LLMGenerator interface {
	// Generate generates text based on the provided prompt
	// Returns the generated text or an error
	Generate(ctx context.Context, prompt string) (string, error)

	// StructuredGenerate generates structured data based on the provided prompt and JSON schema
	// schema must be a valid JSON schema (map[string]interface{})
	// Returns the generated data as a map[string]interface{} or an error
	StructuredGenerate(ctx context.Context, prompt string, schema map[string]interface{}) (map[string]interface{}, error)
}

// Agent is the system under test: a question string in, a free-text
// response out. Implementations must honor the context deadline.
type Agent interface {
	Ask(ctx context.Context, question string) (string, error)
}
