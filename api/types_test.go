package api

import "testing"

func TestExpectedTypeFor(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		question string
		want     ExpectedType
	}{
		{
			name:     "percentage threshold",
			category: CategoryPercentageThreshold,
			question: "What percentage of days was TAO above $420?",
			want:     TypePercentage,
		},
		{
			name:     "price change",
			category: CategoryPriceChange,
			question: "What was SOL's price change during the first half?",
			want:     TypeNumber,
		},
		{
			name:     "volatility numeric stat",
			category: CategoryVolatility,
			question: "How many days did ETH's intraday range exceed 5% of its closing price?",
			want:     TypeNumber,
		},
		{
			name:     "volatility token pick",
			category: CategoryVolatility,
			question: "Which token was the most volatile over the window?",
			want:     TypeToken,
		},
		{
			name:     "volatility date question",
			category: CategoryVolatility,
			question: "On which date did TAO experience its largest single-day high-low swing during the 30-day period?",
			want:     TypeDate,
		},
		{
			name:     "volume analysis token pick",
			category: CategoryVolumeAnalysis,
			question: "Which token had the highest average daily volume?",
			want:     TypeToken,
		},
		{
			name:     "volume analysis day question",
			category: CategoryVolumeAnalysis,
			question: "On which day did SOL record the highest positive volume z-score relative to its 30-day mean?",
			want:     TypeDate,
		},
		{
			name:     "performance comparison ranking",
			category: CategoryPerformanceComparison,
			question: "Rank SOL, ETH, TAO by total percentage return over the full 30-day window.",
			want:     TypeRanking,
		},
		{
			name:     "rolling stats date question",
			category: CategoryRollingStats,
			question: "On which date did the best 5-day rolling window end?",
			want:     TypeDate,
		},
		{
			name:     "rolling stats numeric",
			category: CategoryRollingStats,
			question: "What was the highest 5-day rolling return achieved by TAO?",
			want:     TypeNumber,
		},
		{
			name:     "price analysis date",
			category: CategoryPriceAnalysis,
			question: "On which date did SOL reach its 30-day high?",
			want:     TypeDate,
		},
		{
			name:     "basic ranking",
			category: CategoryBasicRanking,
			question: "Order the tokens by closing price.",
			want:     TypeRanking,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpectedTypeFor(tt.category, tt.question)
			if got != tt.want {
				t.Errorf("ExpectedTypeFor(%s, %q) = %s, want %s", tt.category, tt.question, got, tt.want)
			}
		})
	}
}
