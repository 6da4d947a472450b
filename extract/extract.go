// Package extract implements the pattern-based value extractor: regular
// expressions that pull a typed candidate answer out of a free-text agent
// response. The model-based strategy lives in the llmjudge package.
package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/tokenbench/tokeneval/api"
)

var (
	percentSymbolRe = regexp.MustCompile(`([+-]?([0-9]*[.])?[0-9]+)\s*%`)
	percentWordRe   = regexp.MustCompile(`([+-]?([0-9]*[.])?[0-9]+)\s*(?:percent|percentage)`)
	numberRe        = regexp.MustCompile(`([+-]?([0-9]*[.])?[0-9]+)`)
	isoDateRe       = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	hedgeWordRe     = regexp.MustCompile(`\b(about|approximately|roughly|around)\b`)
	rankingWordRe   = regexp.MustCompile(`(?i)\b(ranked|ranking|order|by|as|follows?|is|are)\b`)
	rankingSepRe    = regexp.MustCompile(`[->\s]+`)
	commaSpaceRe    = regexp.MustCompile(`[,\s]+`)
)

// PatternOptions configures the pattern extractor.
type PatternOptions struct {
	// Tokens is the valid-token set used for token and ranking extraction.
	// Defaults to api.DefaultTokenSet.
	Tokens []string
}

// Pattern returns the regex-based Extractor. It is a pure function of its
// inputs and safe for concurrent use.
func Pattern(opts PatternOptions) api.Extractor {
	tokens := opts.Tokens
	if len(tokens) == 0 {
		tokens = api.DefaultTokenSet
	}
	return &patternExtractor{tokens: tokens}
}

type patternExtractor struct {
	tokens []string
}

func (e *patternExtractor) Extract(_ context.Context, response string, want api.ExpectedType) api.Value {
	if response == "" {
		return api.Value{}
	}
	switch want {
	case api.TypePercentage:
		return e.percentage(response)
	case api.TypeNumber:
		return e.number(response)
	case api.TypeDate:
		return e.date(response)
	case api.TypeToken:
		return e.token(response)
	case api.TypeRanking:
		return e.ranking(response)
	default:
		return api.Value{}
	}
}

// percentage finds a signed decimal followed by "%", falling back to the
// words "percent"/"percentage". "15.3%" yields 15.3, not 0.153.
func (e *patternExtractor) percentage(text string) api.Value {
	if m := percentSymbolRe.FindStringSubmatch(text); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			return api.NumberValue(f)
		}
	}
	if m := percentWordRe.FindStringSubmatch(strings.ToLower(text)); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			return api.NumberValue(f)
		}
	}
	return api.Value{}
}

// number strips currency symbols and hedge words, then takes the first
// decimal. A "decrease"/"down" context negates a positive match.
func (e *patternExtractor) number(text string) api.Value {
	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, "$", "")
	text = hedgeWordRe.ReplaceAllString(text, "")

	negative := strings.Contains(text, "decrease") || strings.Contains(text, "down")

	m := numberRe.FindStringSubmatch(text)
	if m == nil {
		return api.Value{}
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return api.Value{}
	}
	if negative && f > 0 {
		f = -f
	}
	return api.NumberValue(f)
}

func (e *patternExtractor) date(text string) api.Value {
	if m := isoDateRe.FindString(text); m != "" {
		return api.TextValue(m)
	}
	return api.Value{}
}

// token matches in the token set's iteration order, not first occurrence
// in the text.
func (e *patternExtractor) token(text string) api.Value {
	text = strings.ToUpper(text)
	for _, tok := range e.tokens {
		if strings.Contains(text, tok) {
			return api.TokenValue(tok)
		}
	}
	return api.Value{}
}

// ranking collects valid tokens in left-to-right order after stripping
// connector words and separators. When the ordered scan finds only part of
// the set, a second pass appends any remaining tokens found anywhere in the
// cleaned text, in the canonical set order. That fallback can reorder the
// result relative to a strict left-to-right read; downstream scoring relies
// on the exact sequence, so the behavior is pinned by tests.
func (e *patternExtractor) ranking(text string) api.Value {
	text = strings.ToUpper(text)
	text = rankingWordRe.ReplaceAllString(text, "")
	text = rankingSepRe.ReplaceAllString(text, " ")
	text = commaSpaceRe.ReplaceAllString(text, " ")

	var found []string
	for _, word := range strings.Fields(text) {
		if e.isToken(word) && !contains(found, word) {
			found = append(found, word)
		}
	}

	if len(found) > 0 && len(found) < len(e.tokens) {
		for _, tok := range e.tokens {
			if strings.Contains(text, tok) && !contains(found, tok) {
				found = append(found, tok)
			}
		}
	}

	if len(found) == 0 {
		return api.Value{}
	}
	return api.RankingValue(found)
}

func (e *patternExtractor) isToken(word string) bool {
	return contains(e.tokens, word)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
