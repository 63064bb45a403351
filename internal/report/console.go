package report

import (
	"fmt"
	"io"
	"math"

	"arbscan/internal/analysis"
)

// PrintTopPairs renders the two operator-facing top-10 tables: pairs ranked
// by mean-reversion frequency and pairs ranked by complete tradeable cycles.
func PrintTopPairs(w io.Writer, byReversion, byCycles []analysis.MetricRecord, rankingLevel float64) {
	label := analysis.Label(rankingLevel)

	fmt.Fprintf(w, "\nTop %d pairs by mean reversion frequency (zero crossings/min):\n", topPairsCount)
	fmt.Fprintf(w, "%-12s %-10s %-10s %8s %7s %9s %7s\n",
		"Symbol", "Ex1", "Ex2", "ZC/min", "Cycles", label+"/hr", "Asymm")
	fmt.Fprintln(w, dashes(70))
	printRankingRows(w, byReversion, rankingLevel)

	fmt.Fprintf(w, "\nTop %d pairs by COMPLETE cycles (most tradeable opportunities):\n", topPairsCount)
	fmt.Fprintf(w, "%-12s %-10s %-10s %7s %8s %8s %7s\n",
		"Symbol", "Ex1", "Ex2", "Cycles", "Per hr", "ZC/min", "Asymm")
	fmt.Fprintln(w, dashes(70))
	for _, record := range topN(byCycles) {
		cycles, perHour := levelNumbers(record, rankingLevel)
		fmt.Fprintf(w, "%-12s %-10s %-10s %7d %8.1f %8.2f %7.2f\n",
			record.Symbol, record.Exchange1, record.Exchange2,
			cycles, perHour,
			record.ZeroCrossingsPerMinute,
			math.Abs(record.DeviationAsymmetry))
	}
}

func printRankingRows(w io.Writer, records []analysis.MetricRecord, rankingLevel float64) {
	for _, record := range topN(records) {
		cycles, perHour := levelNumbers(record, rankingLevel)
		fmt.Fprintf(w, "%-12s %-10s %-10s %8.2f %7d %9.1f %7.2f\n",
			record.Symbol, record.Exchange1, record.Exchange2,
			record.ZeroCrossingsPerMinute,
			cycles, perHour,
			math.Abs(record.DeviationAsymmetry))
	}
}

func levelNumbers(record analysis.MetricRecord, rankingLevel float64) (int, float64) {
	stats, ok := record.LevelStats(rankingLevel)
	if !ok {
		return 0, 0
	}
	return stats.OpportunityCycles, stats.CyclesPerHour
}

func topN(records []analysis.MetricRecord) []analysis.MetricRecord {
	if len(records) > topPairsCount {
		return records[:topPairsCount]
	}
	return records
}

func dashes(n int) string {
	line := make([]byte, n)
	for i := range line {
		line[i] = '-'
	}
	return string(line)
}
