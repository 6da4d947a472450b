package queries

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tokenbench/tokeneval/api"
)

const sampleYAML = `
queries:
  - id: pct_tao_above_400
    question: "What percentage of days was TAO above $400?"
    category: percentage_threshold
    truth: 12.9
    explanation: "4 of 31 days closed above $400."
  - id: sol_longest_streak_above_155
    question: "What was SOL's longest streak above $155?"
    category: streak_analysis
    truth: 3
  - id: highest_avg_volume
    question: "Which token had the highest average daily volume?"
    category: volume_analysis
    truth: ETH
  - id: eth_highest_close_date
    question: "On which date did ETH have its highest close?"
    category: price_analysis
    truth: "2025-06-11"
  - id: rank_by_avg_close
    question: "Rank the tokens by average close price."
    category: performance_comparison
    truth: [ETH, TAO, SOL]
`

func TestParse(t *testing.T) {
	store, err := Parse(strings.NewReader(sampleYAML), StoreOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if store.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", store.Len())
	}

	tests := []struct {
		id        string
		wantTruth api.Value
		wantCat   api.Category
	}{
		{"pct_tao_above_400", api.NumberValue(12.9), api.CategoryPercentageThreshold},
		{"sol_longest_streak_above_155", api.NumberValue(3), api.CategoryStreakAnalysis},
		{"highest_avg_volume", api.TokenValue("ETH"), api.CategoryVolumeAnalysis},
		{"eth_highest_close_date", api.TextValue("2025-06-11"), api.CategoryPriceAnalysis},
		{"rank_by_avg_close", api.RankingValue([]string{"ETH", "TAO", "SOL"}), api.CategoryPerformanceComparison},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			q, ok := store.Get(tt.id)
			if !ok {
				t.Fatalf("Get(%q) not found", tt.id)
			}
			if diff := cmp.Diff(tt.wantTruth, q.Truth); diff != "" {
				t.Errorf("truth mismatch (-want +got):\n%s", diff)
			}
			if q.Category != tt.wantCat {
				t.Errorf("Category = %v, want %v", q.Category, tt.wantCat)
			}
		})
	}
}

func TestParsePreservesOrder(t *testing.T) {
	store, err := Parse(strings.NewReader(sampleYAML), StoreOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []string{
		"pct_tao_above_400",
		"sol_longest_streak_above_155",
		"highest_avg_volume",
		"eth_highest_close_date",
		"rank_by_avg_close",
	}
	var got []string
	for _, q := range store.Queries() {
		got = append(got, q.ID)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("query order mismatch (-want +got):\n%s", diff)
	}
}

func TestLookup(t *testing.T) {
	store, err := Parse(strings.NewReader(sampleYAML), StoreOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	q, err := store.Lookup("pct_tao_above_400")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if q.ID != "pct_tao_above_400" {
		t.Errorf("Lookup() ID = %q", q.ID)
	}

	if _, err := store.Lookup("no_such_query"); !errors.Is(err, api.ErrQueryNotFound) {
		t.Errorf("Lookup() error = %v, want api.ErrQueryNotFound", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "empty store",
			yaml: "queries: []",
		},
		{
			name: "duplicate id",
			yaml: `
queries:
  - id: q1
    question: "first?"
    category: price_change
    truth: 1.0
  - id: q1
    question: "second?"
    category: price_change
    truth: 2.0
`,
		},
		{
			name: "unknown category",
			yaml: `
queries:
  - id: q1
    question: "what?"
    category: sentiment_analysis
    truth: 1.0
`,
		},
		{
			name: "missing truth",
			yaml: `
queries:
  - id: q1
    question: "what?"
    category: price_change
`,
		},
		{
			name: "missing question",
			yaml: `
queries:
  - id: q1
    category: price_change
    truth: 1.0
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.yaml), StoreOptions{}); err == nil {
				t.Error("Parse() error = nil, want error")
			}
		})
	}
}

func TestParseCustomTokenSet(t *testing.T) {
	doc := `
queries:
  - id: q1
    question: "Which token led?"
    category: volume_analysis
    truth: doge
`
	store, err := Parse(strings.NewReader(doc), StoreOptions{Tokens: []string{"BTC", "DOGE"}})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	q, _ := store.Get("q1")
	if diff := cmp.Diff(api.TokenValue("DOGE"), q.Truth); diff != "" {
		t.Errorf("truth mismatch (-want +got):\n%s", diff)
	}
}
