package batch

import (
	"sort"

	"arbscan/internal/analysis"
)

// ResultSet accumulates pair outcomes for one batch run. It is owned by the
// orchestrating goroutine; workers never touch it.
type ResultSet struct {
	TotalPairs int
	Successful int
	Skipped    int
	Errored    int

	records []analysis.MetricRecord
}

// NewResultSet creates an empty result set expecting the given pair count.
func NewResultSet(totalPairs int) *ResultSet {
	return &ResultSet{TotalPairs: totalPairs}
}

// Add records one pair outcome.
func (r *ResultSet) Add(result PairResult) {
	switch result.Status {
	case StatusSuccess:
		r.Successful++
		if result.Record != nil {
			r.records = append(r.records, *result.Record)
		}
	case StatusSkipped:
		r.Skipped++
	case StatusError:
		r.Errored++
	}
}

// Records returns the successful metric records in insertion order.
func (r *ResultSet) Records() []analysis.MetricRecord {
	return r.records
}

// RankByMeanReversion returns the records sorted descending by
// zero-crossings per minute, the primary mean-reversion-frequency signal.
// The sort is stable so ties keep insertion order.
func (r *ResultSet) RankByMeanReversion() []analysis.MetricRecord {
	ranked := make([]analysis.MetricRecord, len(r.records))
	copy(ranked, r.records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ZeroCrossingsPerMinute > ranked[j].ZeroCrossingsPerMinute
	})
	return ranked
}

// RankByCompleteCycles returns the records sorted descending by complete
// cycle count at the given threshold level — the tradeable-opportunity
// density ranking. Records without statistics for the level rank last.
func (r *ResultSet) RankByCompleteCycles(level float64) []analysis.MetricRecord {
	ranked := make([]analysis.MetricRecord, len(r.records))
	copy(ranked, r.records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return cyclesAt(&ranked[i], level) > cyclesAt(&ranked[j], level)
	})
	return ranked
}

func cyclesAt(record *analysis.MetricRecord, level float64) int {
	stats, ok := record.LevelStats(level)
	if !ok {
		return -1
	}
	return stats.OpportunityCycles
}
