// Package llmjudge implements the model-based evaluation strategies: a
// typed value extractor that delegates to a text model, and a single-call
// judge that returns a full structured verdict. Transport and parse
// failures are data, never errors: the extractor yields no value and the
// judge yields an evaluation_failed verdict.
package llmjudge

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tokenbench/tokeneval/api"
)

const extractionPromptTemplate = `You are a data extraction specialist. Extract the specific answer from the agent's response.

Expected type: %s

Extract ONLY the answer in the appropriate format:
- For numbers: return just the number (e.g., 42.5)
- For percentages: return just the number (e.g., 15.3 for 15.3%%)
- For dates: return YYYY-MM-DD format
- For tokens: return the token symbol (%s)
- For rankings: return a JSON list of tokens in order (e.g., ["ETH", "SOL", "TAO"])
- If no clear answer found, return null

Agent response: %s

Respond with ONLY the extracted value, no explanation.`

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ExtractorOptions configures the model-based extractor.
type ExtractorOptions struct {
	// Tokens is the valid-token set. Defaults to api.DefaultTokenSet.
	Tokens []string
}

// NewExtractor returns an Extractor that asks an LLM to pull the typed
// answer out of the response. Each call is one network round-trip; there
// is no caching and no retry. Any failure yields the zero Value, which
// callers must treat exactly like "no answer extracted".
func NewExtractor(llm api.LLMGenerator, opts ExtractorOptions) api.Extractor {
	tokens := opts.Tokens
	if len(tokens) == 0 {
		tokens = api.DefaultTokenSet
	}
	return &llmExtractor{llm: llm, tokens: tokens}
}

type llmExtractor struct {
	llm    api.LLMGenerator
	tokens []string
}

func (e *llmExtractor) Extract(ctx context.Context, response string, want api.ExpectedType) api.Value {
	if response == "" || e.llm == nil {
		return api.Value{}
	}

	prompt := fmt.Sprintf(extractionPromptTemplate, want, strings.Join(e.tokens, ", "), response)
	reply, err := e.llm.Generate(ctx, prompt)
	if err != nil {
		return api.Value{}
	}

	return parseTyped(stripCodeFence(reply), want, e.tokens)
}

// parseTyped interprets a bare model reply according to the same type
// rules the pattern extractor follows.
func parseTyped(reply string, want api.ExpectedType, tokens []string) api.Value {
	reply = strings.TrimSpace(reply)
	if reply == "" || strings.EqualFold(reply, "null") {
		return api.Value{}
	}

	switch want {
	case api.TypeNumber, api.TypePercentage:
		f, err := strconv.ParseFloat(strings.TrimSuffix(reply, "%"), 64)
		if err != nil {
			return api.Value{}
		}
		return api.NumberValue(f)
	case api.TypeDate:
		if isoDateRe.MatchString(reply) {
			return api.TextValue(reply)
		}
		return api.Value{}
	case api.TypeToken:
		upper := strings.ToUpper(reply)
		for _, tok := range tokens {
			if tok == upper {
				return api.TokenValue(tok)
			}
		}
		return api.Value{}
	case api.TypeRanking:
		var list []string
		if err := json.Unmarshal([]byte(reply), &list); err != nil {
			return api.Value{}
		}
		ranking := make([]string, 0, len(list))
		for _, s := range list {
			upper := strings.ToUpper(strings.TrimSpace(s))
			if !containsToken(tokens, upper) {
				return api.Value{}
			}
			ranking = append(ranking, upper)
		}
		if len(ranking) == 0 {
			return api.Value{}
		}
		return api.RankingValue(ranking)
	default:
		return api.Value{}
	}
}

// stripCodeFence removes markdown code-fence wrapping models habitually
// add around structured replies.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func containsToken(tokens []string, s string) bool {
	for _, tok := range tokens {
		if tok == s {
			return true
		}
	}
	return false
}
