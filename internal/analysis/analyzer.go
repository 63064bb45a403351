package analysis

import (
	"fmt"
	"log/slog"
	"math"

	"arbscan/internal/marketdata"
)

// PairAnalyzer runs the full metric pipeline for one exchange pair at a
// time. It is stateless between calls and safe to share across goroutines.
type PairAnalyzer struct {
	thresholds Thresholds
	logger     *slog.Logger
}

// NewPairAnalyzer creates an analyzer bound to one run's threshold
// configuration.
func NewPairAnalyzer(thresholds Thresholds, logger *slog.Logger) *PairAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &PairAnalyzer{thresholds: thresholds, logger: logger}
}

// Analyze computes the full MetricRecord for one (symbol, ex1, ex2) triple.
//
// A nil record with a nil error means "insufficient overlapping data": an
// empty input, a join with no usable rows, or a series whose every ratio is
// undefined. That is a normal skip, not a failure. A non-nil error is an
// unexpected failure of this one pair; it never panics out, so one bad pair
// cannot abort a batch.
func (a *PairAnalyzer) Analyze(symbol, ex1, ex2 string, series1, series2 marketdata.Series) (record *MetricRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("pair analysis panicked",
				"symbol", symbol,
				"exchange1", ex1,
				"exchange2", ex2,
				"panic", r)
			record = nil
			err = fmt.Errorf("analyze %s (%s vs %s): %v", symbol, ex1, ex2, r)
		}
	}()

	rows := Synchronize(series1, series2)
	if len(rows) == 0 {
		return nil, nil
	}

	deviations := ComputeDeviations(rows)
	stats := SummarizeDeviations(deviations)
	if stats.Valid == 0 {
		return nil, nil
	}

	durationHours := rows[len(rows)-1].Timestamp.Sub(rows[0].Timestamp).Hours()

	zeroCrossings := CountZeroCrossings(deviations)
	zeroCrossingsPerHour := 0.0
	zeroCrossingsPerMinute := 0.0
	if durationHours > 0 {
		zeroCrossingsPerHour = float64(zeroCrossings) / durationHours
		zeroCrossingsPerMinute = zeroCrossingsPerHour / 60
	}

	// The neutral flag is shared across levels; only the excursion flag
	// changes per threshold.
	neutral := make([]bool, len(deviations))
	for i, d := range deviations {
		neutral[i] = math.Abs(d) < a.thresholds.Neutral
	}

	levels := make([]ThresholdStats, 0, len(a.thresholds.Levels))
	for _, level := range a.thresholds.Levels {
		above := make([]bool, len(deviations))
		aboveCount := 0
		for i, d := range deviations {
			if math.Abs(d) > level {
				above[i] = true
				aboveCount++
			}
		}

		cycles := CountCompleteCycles(above, neutral)
		pctTimeAbove := float64(aboveCount) / float64(stats.Valid) * 100

		cyclesPerHour := 0.0
		if durationHours > 0 {
			cyclesPerHour = float64(cycles) / durationHours
		}

		// Seconds-per-cycle derived from the time-above proxy. This can
		// drift from true per-cycle elapsed time when cycle lengths are
		// very uneven.
		avgCycleDurationSec := 0.0
		if cycles > 0 {
			avgCycleDurationSec = (durationHours * pctTimeAbove / 100 * 3600) / float64(cycles)
		}

		levels = append(levels, ThresholdStats{
			Level:               level,
			OpportunityCycles:   cycles,
			CyclesPerHour:       cyclesPerHour,
			PctTimeAbove:        pctTimeAbove,
			AvgCycleDurationSec: avgCycleDurationSec,
			PatternBreak:        IsPatternBreak(deviations, level),
		})
	}

	return &MetricRecord{
		Symbol:                 symbol,
		Exchange1:              ex1,
		Exchange2:              ex2,
		MaxDeviationPct:        stats.Max,
		MinDeviationPct:        stats.Min,
		DeviationAsymmetry:     stats.Asymmetry,
		ZeroCrossings:          zeroCrossings,
		ZeroCrossingsPerHour:   zeroCrossingsPerHour,
		ZeroCrossingsPerMinute: zeroCrossingsPerMinute,
		Levels:                 levels,
		DataPoints:             len(rows),
		DurationHours:          durationHours,
	}, nil
}
