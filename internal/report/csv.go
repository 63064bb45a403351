package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"arbscan/internal/analysis"
)

// Header builds the summary CSV column list for the configured threshold
// levels, in the order the per-level statistics were computed.
func Header(levels []float64) []string {
	header := []string{
		"symbol",
		"exchange1",
		"exchange2",
		"max_deviation_pct",
		"min_deviation_pct",
		"deviation_asymmetry",
		"zero_crossings",
		"zero_crossings_per_hour",
		"zero_crossings_per_minute",
	}
	for _, level := range levels {
		label := analysis.Label(level)
		header = append(header,
			"opportunity_cycles_"+label,
			"cycles_"+label+"_per_hour",
			"pct_time_above_"+label,
			"avg_cycle_duration_"+label+"_sec",
			"pattern_break_"+label,
		)
	}
	return append(header, "data_points", "duration_hours")
}

// Row renders one metric record into the column order of Header.
func Row(record analysis.MetricRecord) []string {
	row := []string{
		record.Symbol,
		record.Exchange1,
		record.Exchange2,
		formatFloat(record.MaxDeviationPct, 6),
		formatFloat(record.MinDeviationPct, 6),
		formatFloat(record.DeviationAsymmetry, 6),
		strconv.Itoa(record.ZeroCrossings),
		formatFloat(record.ZeroCrossingsPerHour, 4),
		formatFloat(record.ZeroCrossingsPerMinute, 4),
	}
	for _, stats := range record.Levels {
		row = append(row,
			strconv.Itoa(stats.OpportunityCycles),
			formatFloat(stats.CyclesPerHour, 4),
			formatFloat(stats.PctTimeAbove, 4),
			formatFloat(stats.AvgCycleDurationSec, 2),
			strconv.FormatBool(stats.PatternBreak),
		)
	}
	return append(row,
		strconv.Itoa(record.DataPoints),
		formatFloat(record.DurationHours, 4),
	)
}

// WriteSummaryCSV writes the records to outputPath in the order given; the
// caller passes them pre-sorted by the primary ranking.
func WriteSummaryCSV(records []analysis.MetricRecord, levels []float64, outputPath string) error {
	if len(records) == 0 {
		return fmt.Errorf("no records to save")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(Header(levels)); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, record := range records {
		if err := writer.Write(Row(record)); err != nil {
			return fmt.Errorf("write CSV record for %s: %w", record.Symbol, err)
		}
	}

	return writer.Error()
}

func formatFloat(value float64, precision int) string {
	return strconv.FormatFloat(value, 'f', precision, 64)
}
