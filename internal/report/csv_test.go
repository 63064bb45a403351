package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbscan/internal/analysis"
)

func sampleRecord(symbol string, zcPerMin float64) analysis.MetricRecord {
	return analysis.MetricRecord{
		Symbol:                 symbol,
		Exchange1:              "Binance",
		Exchange2:              "Bybit",
		MaxDeviationPct:        0.8,
		MinDeviationPct:        -0.6,
		DeviationAsymmetry:     0.02,
		ZeroCrossings:          120,
		ZeroCrossingsPerHour:   60,
		ZeroCrossingsPerMinute: zcPerMin,
		Levels: []analysis.ThresholdStats{
			{Level: 0.3, OpportunityCycles: 12, CyclesPerHour: 6, PctTimeAbove: 4.2, AvgCycleDurationSec: 25.2},
			{Level: 0.5, OpportunityCycles: 3, CyclesPerHour: 1.5, PctTimeAbove: 0.9, AvgCycleDurationSec: 21.6, PatternBreak: true},
			{Level: 0.4, OpportunityCycles: 7, CyclesPerHour: 3.5, PctTimeAbove: 2.1, AvgCycleDurationSec: 21.6},
		},
		DataPoints:    7200,
		DurationHours: 2,
	}
}

func TestHeader(t *testing.T) {
	header := Header([]float64{0.3, 0.5, 0.4})

	assert.Equal(t, "symbol", header[0])
	assert.Contains(t, header, "zero_crossings_per_minute")
	assert.Contains(t, header, "opportunity_cycles_030bp")
	assert.Contains(t, header, "cycles_050bp_per_hour")
	assert.Contains(t, header, "pct_time_above_040bp")
	assert.Contains(t, header, "avg_cycle_duration_040bp_sec")
	assert.Contains(t, header, "pattern_break_050bp")
	assert.Equal(t, "duration_hours", header[len(header)-1])

	// 9 identity/deviation columns + 5 per level + 2 trailing.
	assert.Len(t, header, 9+3*5+2)
}

func TestRowMatchesHeaderShape(t *testing.T) {
	levels := []float64{0.3, 0.5, 0.4}
	row := Row(sampleRecord("BTC/USDT", 1.0))

	assert.Len(t, row, len(Header(levels)))
	assert.Equal(t, "BTC/USDT", row[0])
	assert.Equal(t, "120", row[6])
	assert.Equal(t, "12", row[9], "first level cycle count follows the fixed columns")
}

func TestWriteSummaryCSV(t *testing.T) {
	levels := []float64{0.3, 0.5, 0.4}
	records := []analysis.MetricRecord{
		sampleRecord("BTC/USDT", 3.0),
		sampleRecord("ETH/USDT", 1.0),
	}

	path := filepath.Join(t.TempDir(), "out", "summary_stats.csv")
	require.NoError(t, WriteSummaryCSV(records, levels, path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, Header(levels), rows[0])
	assert.Equal(t, "BTC/USDT", rows[1][0], "records persist in the order given")
	assert.Equal(t, "ETH/USDT", rows[2][0])
}

func TestWriteSummaryCSVEmpty(t *testing.T) {
	err := WriteSummaryCSV(nil, []float64{0.3}, filepath.Join(t.TempDir(), "empty.csv"))
	assert.Error(t, err)
}
