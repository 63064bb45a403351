package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"arbscan/internal/analysis"
)

func TestWriteSummaryWorkbook(t *testing.T) {
	levels := []float64{0.3, 0.5, 0.4}
	ranked := []analysis.MetricRecord{
		sampleRecord("BTC/USDT", 3.0),
		sampleRecord("ETH/USDT", 1.0),
	}
	byCycles := []analysis.MetricRecord{ranked[1], ranked[0]}

	path := filepath.Join(t.TempDir(), "reports", "summary_stats.xlsx")
	require.NoError(t, WriteSummaryWorkbook(ranked, byCycles, levels, 0.4, "run-123", path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"All Pairs", "Top Pairs", "Run"}, f.GetSheetList())

	rows, err := f.GetRows("All Pairs")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per record")
	assert.Equal(t, Header(levels), rows[0])
	assert.Equal(t, "BTC/USDT", rows[1][0])

	runRows, err := f.GetRows("Run")
	require.NoError(t, err)
	require.NotEmpty(t, runRows)
	assert.Equal(t, "run_id", runRows[0][0])
	assert.Equal(t, "run-123", runRows[0][1])

	topRows, err := f.GetRows("Top Pairs")
	require.NoError(t, err)
	assert.Greater(t, len(topRows), 4, "both ranking blocks present")
}

func TestWriteSummaryWorkbookEmpty(t *testing.T) {
	err := WriteSummaryWorkbook(nil, nil, []float64{0.3}, 0.3, "run-123", filepath.Join(t.TempDir(), "x.xlsx"))
	assert.Error(t, err)
}
