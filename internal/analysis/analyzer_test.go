package analysis

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbscan/internal/marketdata"
)

// constantSeries samples a fixed bid once per step over the given span.
func constantSeries(base time.Time, span, step time.Duration, bid float64) marketdata.Series {
	var series marketdata.Series
	for offset := time.Duration(0); offset <= span; offset += step {
		series = append(series, marketdata.Tick{
			Timestamp: base.Add(offset),
			BestBid:   bid,
			BestAsk:   bid + 0.01,
		})
	}
	return series
}

func TestAnalyzeConstantEqualPrices(t *testing.T) {
	base := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	analyzer := NewPairAnalyzer(DefaultThresholds(), slog.Default())

	series1 := constantSeries(base, time.Hour, time.Minute, 100.0)
	series2 := constantSeries(base, time.Hour, time.Minute, 100.0)

	record, err := analyzer.Analyze("BTC/USDT", "Binance", "Bybit", series1, series2)
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "BTC/USDT", record.Symbol)
	assert.Equal(t, "Binance", record.Exchange1)
	assert.Equal(t, "Bybit", record.Exchange2)

	assert.InDelta(t, 0.0, record.DeviationAsymmetry, 1e-9)
	assert.Equal(t, 0, record.ZeroCrossings)
	assert.InDelta(t, 1.0, record.DurationHours, 1e-9)
	assert.Equal(t, len(series1), record.DataPoints)

	require.Len(t, record.Levels, 3)
	for _, stats := range record.Levels {
		assert.Equal(t, 0, stats.OpportunityCycles)
		assert.InDelta(t, 0.0, stats.PctTimeAbove, 1e-9)
		assert.False(t, stats.PatternBreak)
	}
}

func TestAnalyzeOscillatingPair(t *testing.T) {
	base := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	analyzer := NewPairAnalyzer(DefaultThresholds(), slog.Default())

	// One venue cycles premium, discount, premium, parity while the other
	// holds at 100: repeated ±0.5% excursions with regular returns to the
	// neutral band.
	pattern := []float64{100.5, 99.5, 100.5, 100.0}
	var series1 marketdata.Series
	for i := 0; i < 40; i++ {
		series1 = append(series1, marketdata.Tick{
			Timestamp: base.Add(time.Duration(i) * 30 * time.Second),
			BestBid:   pattern[i%len(pattern)],
			BestAsk:   pattern[i%len(pattern)] + 0.01,
		})
	}
	series2 := constantSeries(base, 20*time.Minute, 30*time.Second, 100.0)

	record, err := analyzer.Analyze("ETH/USDT", "Binance", "OKX", series1, series2)
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Greater(t, record.ZeroCrossings, 0)
	assert.Greater(t, record.ZeroCrossingsPerMinute, 0.0)

	for _, stats := range record.Levels {
		if stats.Level < 0.5 {
			assert.Greater(t, stats.OpportunityCycles, 0,
				"level %v should record complete cycles", stats.Level)
			assert.Greater(t, stats.AvgCycleDurationSec, 0.0)
		}
	}
}

func TestAnalyzeEmptyInputs(t *testing.T) {
	base := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	analyzer := NewPairAnalyzer(DefaultThresholds(), slog.Default())
	series := constantSeries(base, time.Hour, time.Minute, 100.0)

	tests := []struct {
		name             string
		series1, series2 marketdata.Series
	}{
		{"empty first series", nil, series},
		{"empty second series", series, nil},
		{"both empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := analyzer.Analyze("BTC/USDT", "Binance", "Bybit", tt.series1, tt.series2)
			assert.NoError(t, err)
			assert.Nil(t, record)
		})
	}
}

func TestAnalyzeNoUsableOverlap(t *testing.T) {
	base := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	analyzer := NewPairAnalyzer(DefaultThresholds(), slog.Default())

	// Second venue starts an hour after the first ends: every row unmatched.
	series1 := constantSeries(base, 10*time.Minute, time.Minute, 100.0)
	series2 := constantSeries(base.Add(2*time.Hour), 10*time.Minute, time.Minute, 100.0)

	record, err := analyzer.Analyze("BTC/USDT", "Binance", "Bybit", series1, series2)
	assert.NoError(t, err)
	assert.Nil(t, record)
}

func TestAnalyzeZeroDuration(t *testing.T) {
	base := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	analyzer := NewPairAnalyzer(DefaultThresholds(), slog.Default())

	series1 := marketdata.Series{{Timestamp: base, BestBid: 101.0, BestAsk: 101.1}}
	series2 := marketdata.Series{{Timestamp: base, BestBid: 100.0, BestAsk: 100.1}}

	record, err := analyzer.Analyze("BTC/USDT", "Binance", "Bybit", series1, series2)
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, 0.0, record.DurationHours)
	assert.Equal(t, 0.0, record.ZeroCrossingsPerHour)
	assert.Equal(t, 0.0, record.ZeroCrossingsPerMinute)
	for _, stats := range record.Levels {
		assert.Equal(t, 0.0, stats.CyclesPerHour)
	}
}

func TestThresholds(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		thresholds := DefaultThresholds()
		assert.Equal(t, []float64{0.3, 0.5, 0.4}, thresholds.Levels)
		assert.Equal(t, 0.05, thresholds.Neutral)
		assert.True(t, thresholds.IsValid())
	})

	t.Run("ranking level is the median configured level", func(t *testing.T) {
		assert.Equal(t, 0.4, DefaultThresholds().RankingLevel())
		assert.Equal(t, 0.2, Thresholds{Levels: []float64{0.2}, Neutral: 0.05}.RankingLevel())
	})

	t.Run("invalid configurations", func(t *testing.T) {
		assert.False(t, Thresholds{Levels: nil, Neutral: 0.05}.IsValid())
		assert.False(t, Thresholds{Levels: []float64{0.3, -0.1}, Neutral: 0.05}.IsValid())
		assert.False(t, Thresholds{Levels: []float64{0.3}, Neutral: 0}.IsValid())
	})

	t.Run("labels", func(t *testing.T) {
		assert.Equal(t, "030bp", Label(0.3))
		assert.Equal(t, "050bp", Label(0.5))
		assert.Equal(t, "040bp", Label(0.4))
		assert.Equal(t, "100bp", Label(1.0))
	})
}
