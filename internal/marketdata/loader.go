package marketdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateFilter bounds a load to an inclusive date range. Either side may be
// empty, meaning unbounded. Dates are YYYY-MM-DD strings, which compare
// correctly as plain strings against the date=... partition names.
type DateFilter struct {
	Start string
	End   string
}

// IsZero reports whether the filter imposes no bounds.
func (f DateFilter) IsZero() bool {
	return f.Start == "" && f.End == ""
}

func (f DateFilter) includes(date string) bool {
	if f.Start != "" && date < f.Start {
		return false
	}
	if f.End != "" && date > f.End {
		return false
	}
	return true
}

// LoadSeries loads all captured ticks for one (exchange, symbol) pair under
// root, filtered by the inclusive date range. It returns (nil, nil) when no
// partition or no usable row exists — absence of data is a normal outcome,
// not an error. Rows with missing or zero-filled prices are dropped and the
// result is sorted ascending by timestamp.
func LoadSeries(ctx context.Context, root, exchange, symbol string, filter DateFilter) (Series, error) {
	exchangePath := filepath.Join(root, exchangePrefix+exchange)
	if _, err := os.Stat(exchangePath); err != nil {
		return nil, nil
	}

	symbolPath := resolveSymbolPath(exchangePath, symbol)
	if symbolPath == "" {
		return nil, nil
	}

	files, err := collectPartitionFiles(symbolPath, filter)
	if err != nil {
		return nil, fmt.Errorf("enumerate partitions for %s/%s: %w", exchange, symbol, err)
	}
	if len(files) == 0 {
		return nil, nil
	}

	var series Series
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load %s/%s: %w", exchange, symbol, err)
		}
		ticks, err := readTickFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		series = append(series, ticks...)
	}

	if len(series) == 0 {
		return nil, nil
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})

	return series, nil
}

// resolveSymbolPath finds the on-disk symbol directory, trying each known
// naming format in order.
func resolveSymbolPath(exchangePath, symbol string) string {
	for _, format := range symbolFormats(symbol) {
		candidate := filepath.Join(exchangePath, symbolPrefix+format)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return ""
}

// collectPartitionFiles enumerates date=/hour= partitions under the symbol
// directory and returns the CSV files inside the partitions that pass the
// date filter.
func collectPartitionFiles(symbolPath string, filter DateFilter) ([]string, error) {
	dateEntries, err := os.ReadDir(symbolPath)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, dateEntry := range dateEntries {
		if !dateEntry.IsDir() || !strings.HasPrefix(dateEntry.Name(), datePrefix) {
			continue
		}
		if !filter.includes(strings.TrimPrefix(dateEntry.Name(), datePrefix)) {
			continue
		}

		datePath := filepath.Join(symbolPath, dateEntry.Name())
		hourEntries, err := os.ReadDir(datePath)
		if err != nil {
			return nil, err
		}

		for _, hourEntry := range hourEntries {
			if !hourEntry.IsDir() || !strings.HasPrefix(hourEntry.Name(), hourPrefix) {
				continue
			}
			matches, err := filepath.Glob(filepath.Join(datePath, hourEntry.Name(), "*.csv"))
			if err != nil {
				return nil, err
			}
			files = append(files, matches...)
		}
	}

	sort.Strings(files)
	return files, nil
}

// readTickFile parses one partition file. Malformed rows are skipped rather
// than failing the whole load; a capture glitch in one row must not discard
// an otherwise good partition.
func readTickFile(path string) ([]Tick, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	timestampIdx, bidIdx, askIdx := -1, -1, -1
	for i, col := range header {
		switch col {
		case "Timestamp", "timestamp":
			timestampIdx = i
		case "BestBid", "bestBid":
			bidIdx = i
		case "BestAsk", "bestAsk":
			askIdx = i
		}
	}
	if timestampIdx < 0 || bidIdx < 0 || askIdx < 0 {
		return nil, fmt.Errorf("missing required columns in header %v", header)
	}

	var ticks []Tick
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if len(record) <= timestampIdx || len(record) <= bidIdx || len(record) <= askIdx {
			continue
		}

		timestamp, ok := parseTimestamp(record[timestampIdx])
		if !ok {
			continue
		}
		bid, err1 := strconv.ParseFloat(record[bidIdx], 64)
		ask, err2 := strconv.ParseFloat(record[askIdx], 64)
		if err1 != nil || err2 != nil {
			continue
		}

		tick := Tick{Timestamp: timestamp, BestBid: bid, BestAsk: ask}
		if !tick.IsValid() {
			continue
		}
		ticks = append(ticks, tick)
	}

	return ticks, nil
}

// parseTimestamp accepts RFC3339 strings or epoch milliseconds, the two
// formats capture jobs have produced.
func parseTimestamp(raw string) (time.Time, bool) {
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts, true
	}
	if millis, err := strconv.ParseInt(raw, 10, 64); err == nil && millis > 0 {
		return time.UnixMilli(millis).UTC(), true
	}
	return time.Time{}, false
}
