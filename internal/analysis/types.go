package analysis

import (
	"fmt"
	"math"
	"time"
)

// Thresholds holds the percentage bands one analysis run evaluates. Levels
// are excursion thresholds; Neutral is the half-width of the band around
// parity within which a position is considered closeable at break-even. Both
// are immutable for the duration of a run.
type Thresholds struct {
	Levels  []float64
	Neutral float64
}

// DefaultThresholds mirrors the standard run configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Levels:  []float64{0.3, 0.5, 0.4},
		Neutral: 0.05,
	}
}

// IsValid checks that every band is a positive percentage.
func (t Thresholds) IsValid() bool {
	if len(t.Levels) == 0 || t.Neutral <= 0 {
		return false
	}
	for _, level := range t.Levels {
		if level <= 0 {
			return false
		}
	}
	return true
}

// RankingLevel returns the level used for the tradeable-opportunity ranking:
// the median of the configured levels, i.e. 0.40 for the default 0.3/0.5/0.4
// triple.
func (t Thresholds) RankingLevel() float64 {
	if len(t.Levels) == 0 {
		return 0
	}
	sorted := make([]float64, len(t.Levels))
	copy(sorted, t.Levels)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return sorted[len(sorted)/2]
}

// Label renders a threshold level the way report columns name it:
// 0.3 -> "030bp".
func Label(level float64) string {
	return fmt.Sprintf("%03dbp", int(math.Round(level*100)))
}

// SyncedRow pairs one anchor observation with the latest secondary
// observation at or before its timestamp. Matched is false when the
// secondary series had no observation yet; such rows carry no usable
// secondary prices and are excluded from numeric aggregates.
type SyncedRow struct {
	Timestamp time.Time
	Bid1      float64
	Ask1      float64
	Bid2      float64
	Ask2      float64
	Matched   bool
}

// ThresholdStats holds the per-level slice of a pair analysis.
type ThresholdStats struct {
	Level               float64 `json:"level"`
	OpportunityCycles   int     `json:"opportunity_cycles"`
	CyclesPerHour       float64 `json:"cycles_per_hour"`
	PctTimeAbove        float64 `json:"pct_time_above"`
	AvgCycleDurationSec float64 `json:"avg_cycle_duration_sec"`
	PatternBreak        bool    `json:"pattern_break"`
}

// MetricRecord is the full output of one (symbol, exchange1, exchange2)
// analysis. It is immutable once produced; per-level statistics appear in
// Levels in the configured threshold order.
type MetricRecord struct {
	Symbol    string `json:"symbol"`
	Exchange1 string `json:"exchange1"`
	Exchange2 string `json:"exchange2"`

	MaxDeviationPct    float64 `json:"max_deviation_pct"`
	MinDeviationPct    float64 `json:"min_deviation_pct"`
	DeviationAsymmetry float64 `json:"deviation_asymmetry"`

	ZeroCrossings          int     `json:"zero_crossings"`
	ZeroCrossingsPerHour   float64 `json:"zero_crossings_per_hour"`
	ZeroCrossingsPerMinute float64 `json:"zero_crossings_per_minute"`

	Levels []ThresholdStats `json:"levels"`

	DataPoints    int     `json:"data_points"`
	DurationHours float64 `json:"duration_hours"`
}

// LevelStats returns the per-level statistics for the given threshold level,
// matching on the rendered label so float comparison noise cannot miss.
func (m *MetricRecord) LevelStats(level float64) (ThresholdStats, bool) {
	want := Label(level)
	for _, stats := range m.Levels {
		if Label(stats.Level) == want {
			return stats, true
		}
	}
	return ThresholdStats{}, false
}
