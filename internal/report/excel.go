package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"arbscan/internal/analysis"
)

const topPairsCount = 10

// WriteSummaryWorkbook writes an XLSX rendition of the summary: an "All
// Pairs" sheet mirroring the CSV table, a "Top Pairs" sheet with the two
// rankings, and a metadata sheet tying the file to its run.
func WriteSummaryWorkbook(ranked, byCycles []analysis.MetricRecord, levels []float64, rankingLevel float64, runID, outputPath string) error {
	if len(ranked) == 0 {
		return fmt.Errorf("no records to save")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const allSheet = "All Pairs"
	f.SetSheetName("Sheet1", allSheet)

	if err := writeSheetRow(f, allSheet, 1, toInterfaces(Header(levels))); err != nil {
		return err
	}
	for i, record := range ranked {
		if err := writeSheetRow(f, allSheet, i+2, toInterfaces(Row(record))); err != nil {
			return err
		}
	}

	topSheet := "Top Pairs"
	if _, err := f.NewSheet(topSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", topSheet, err)
	}

	row := 1
	row, err := writeRankingBlock(f, topSheet, row,
		"Top pairs by mean reversion frequency (zero crossings/min)",
		ranked, rankingLevel)
	if err != nil {
		return err
	}
	row++
	if _, err := writeRankingBlock(f, topSheet, row,
		fmt.Sprintf("Top pairs by complete cycles at %s", analysis.Label(rankingLevel)),
		byCycles, rankingLevel); err != nil {
		return err
	}

	metaSheet := "Run"
	if _, err := f.NewSheet(metaSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", metaSheet, err)
	}
	meta := [][]interface{}{
		{"run_id", runID},
		{"generated_at", time.Now().Format(time.RFC3339)},
		{"pairs", len(ranked)},
		{"ranking_level", analysis.Label(rankingLevel)},
	}
	for i, pair := range meta {
		if err := writeSheetRow(f, metaSheet, i+1, pair); err != nil {
			return err
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// writeRankingBlock writes one titled top-N table and returns the next free
// row number.
func writeRankingBlock(f *excelize.File, sheet string, row int, title string, records []analysis.MetricRecord, rankingLevel float64) (int, error) {
	if err := writeSheetRow(f, sheet, row, []interface{}{title}); err != nil {
		return row, err
	}
	row++
	header := []interface{}{"symbol", "exchange1", "exchange2", "zc_per_min", "cycles", "cycles_per_hour", "asymmetry"}
	if err := writeSheetRow(f, sheet, row, header); err != nil {
		return row, err
	}
	row++

	n := topPairsCount
	if n > len(records) {
		n = len(records)
	}
	for _, record := range records[:n] {
		cycles, cyclesPerHour := 0, 0.0
		if stats, ok := record.LevelStats(rankingLevel); ok {
			cycles = stats.OpportunityCycles
			cyclesPerHour = stats.CyclesPerHour
		}
		values := []interface{}{
			record.Symbol,
			record.Exchange1,
			record.Exchange2,
			record.ZeroCrossingsPerMinute,
			cycles,
			cyclesPerHour,
			record.DeviationAsymmetry,
		}
		if err := writeSheetRow(f, sheet, row, values); err != nil {
			return row, err
		}
		row++
	}
	return row, nil
}

func writeSheetRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d on %s: %w", row, sheet, err)
	}
	return nil
}

func toInterfaces(values []string) []interface{} {
	result := make([]interface{}, len(values))
	for i, v := range values {
		result[i] = v
	}
	return result
}
