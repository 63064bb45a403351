package analysis

import "math"

// ComputeDeviations converts synchronized rows into percentage deviations
// from price parity: (bid1/bid2 - 1) * 100. The reference point is exactly
// 1.0, never the sample mean of the ratio — measuring from the mean would
// label the average price gap as "break-even", which is unsound for a
// strategy that closes positions at price equality.
//
// Unmatched rows and rows with a zero denominator have no defined ratio;
// they yield NaN, and every aggregate in this package ignores NaN entries.
// The result is co-indexed with the input.
func ComputeDeviations(rows []SyncedRow) []float64 {
	deviations := make([]float64, len(rows))
	for i, row := range rows {
		if !row.Matched || row.Bid2 == 0 {
			deviations[i] = math.NaN()
			continue
		}
		deviations[i] = (row.Bid1/row.Bid2 - 1.0) * 100
	}
	return deviations
}

// DeviationStats summarizes a deviation series. Asymmetry is the mean
// deviation, a directional-bias indicator: near zero means symmetric
// oscillation around parity, large magnitude means a persistent one-sided
// premium or discount. Valid counts the rows that entered the aggregates.
type DeviationStats struct {
	Max       float64
	Min       float64
	Asymmetry float64
	Valid     int
}

// SummarizeDeviations computes max, min, and mean over the defined entries
// of the deviation series. With no defined entry it returns Valid == 0 and
// zeroed statistics; callers treat that as "no usable overlap".
func SummarizeDeviations(deviations []float64) DeviationStats {
	stats := DeviationStats{Max: math.Inf(-1), Min: math.Inf(1)}
	sum := 0.0

	for _, d := range deviations {
		if math.IsNaN(d) {
			continue
		}
		if d > stats.Max {
			stats.Max = d
		}
		if d < stats.Min {
			stats.Min = d
		}
		sum += d
		stats.Valid++
	}

	if stats.Valid == 0 {
		return DeviationStats{}
	}
	stats.Asymmetry = sum / float64(stats.Valid)
	return stats
}
