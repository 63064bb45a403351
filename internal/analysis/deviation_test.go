package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syncedRow(bid1, bid2 float64) SyncedRow {
	return SyncedRow{Timestamp: time.Now(), Bid1: bid1, Bid2: bid2, Matched: true}
}

func TestComputeDeviations(t *testing.T) {
	t.Run("measures from parity not from the mean", func(t *testing.T) {
		// Equal bids at any absolute level, including a strong trend, must
		// all deviate by exactly zero.
		rows := []SyncedRow{
			syncedRow(100, 100),
			syncedRow(150, 150),
			syncedRow(200, 200),
		}

		deviations := ComputeDeviations(rows)
		require.Len(t, deviations, 3)
		for _, d := range deviations {
			assert.InDelta(t, 0.0, d, 1e-12)
		}
	})

	t.Run("computes percentage gap", func(t *testing.T) {
		deviations := ComputeDeviations([]SyncedRow{
			syncedRow(100.5, 100),
			syncedRow(99.5, 100),
		})

		require.Len(t, deviations, 2)
		assert.InDelta(t, 0.5, deviations[0], 1e-9)
		assert.InDelta(t, -0.5, deviations[1], 1e-9)
	})

	t.Run("zero denominator yields NaN", func(t *testing.T) {
		deviations := ComputeDeviations([]SyncedRow{syncedRow(100, 0)})
		require.Len(t, deviations, 1)
		assert.True(t, math.IsNaN(deviations[0]))
	})

	t.Run("unmatched row yields NaN", func(t *testing.T) {
		deviations := ComputeDeviations([]SyncedRow{{Bid1: 100}})
		require.Len(t, deviations, 1)
		assert.True(t, math.IsNaN(deviations[0]))
	})
}

func TestSummarizeDeviations(t *testing.T) {
	t.Run("aggregates over defined entries only", func(t *testing.T) {
		stats := SummarizeDeviations([]float64{0.4, math.NaN(), -0.2, 0.1})

		assert.Equal(t, 3, stats.Valid)
		assert.InDelta(t, 0.4, stats.Max, 1e-9)
		assert.InDelta(t, -0.2, stats.Min, 1e-9)
		assert.InDelta(t, 0.1, stats.Asymmetry, 1e-9)
	})

	t.Run("symmetric oscillation has near-zero asymmetry", func(t *testing.T) {
		stats := SummarizeDeviations([]float64{0.5, -0.5, 0.5, -0.5})
		assert.InDelta(t, 0.0, stats.Asymmetry, 1e-9)
	})

	t.Run("persistent premium shows directional bias", func(t *testing.T) {
		stats := SummarizeDeviations([]float64{0.3, 0.31, 0.29, 0.3})
		assert.Greater(t, stats.Asymmetry, 0.2)
	})

	t.Run("all NaN leaves zeroed stats", func(t *testing.T) {
		stats := SummarizeDeviations([]float64{math.NaN(), math.NaN()})
		assert.Equal(t, 0, stats.Valid)
		assert.Equal(t, 0.0, stats.Max)
		assert.Equal(t, 0.0, stats.Min)
	})

	t.Run("empty input", func(t *testing.T) {
		stats := SummarizeDeviations(nil)
		assert.Equal(t, 0, stats.Valid)
	})
}
