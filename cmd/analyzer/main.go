package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"arbscan/internal/analysis"
	"arbscan/internal/batch"
	"arbscan/internal/config"
	"arbscan/internal/infrastructure"
	"arbscan/internal/marketdata"
	"arbscan/internal/report"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (defaults used when omitted)")
	dataPath := flag.String("data", "", "path to the market data directory (overrides config)")
	outputPath := flag.String("out", "", "output directory for summary reports (overrides config)")
	exchanges := flag.String("exchanges", "", "comma-separated list of exchanges to analyze (default: all)")
	workers := flag.Int("workers", 0, "number of parallel workers (default: 3x CPU cores)")
	thresholds := flag.String("thresholds", "", "comma-separated threshold percentages (overrides config)")
	date := flag.String("date", "", "analyze a single date (YYYY-MM-DD); shortcut for matching start/end")
	startDate := flag.String("start-date", "", "start date (YYYY-MM-DD), inclusive")
	endDate := flag.String("end-date", "", "end date (YYYY-MM-DD), inclusive")
	today := flag.Bool("today", false, "analyze only today's data")
	noExcel := flag.Bool("no-excel", false, "skip writing the XLSX workbook")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := applyFlags(cfg, *dataPath, *outputPath, *exchanges, *thresholds, *workers, *date, *startDate, *endDate, *today); err != nil {
		slog.Error("Invalid command line arguments", "error", err)
		os.Exit(1)
	}

	logger, runID, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	ctx := context.Background()
	if err := run(ctx, cfg, logger, runID, *noExcel); err != nil {
		logger.Error("Analysis run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, runID string, noExcel bool) error {
	filter := marketdata.DateFilter{
		Start: cfg.DateRange.StartDate,
		End:   cfg.DateRange.EndDate,
	}
	if !filter.IsZero() {
		logger.InfoContext(ctx, "date filter active",
			"start_date", filter.Start,
			"end_date", filter.End)
	}

	symbols, err := marketdata.Discover(cfg.Paths.DataDir, logger)
	if err != nil {
		return fmt.Errorf("discover data: %w", err)
	}

	symbols = marketdata.FilterExchanges(symbols, cfg.Exchanges)
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols found trading on 2 or more exchanges under %s", cfg.Paths.DataDir)
	}

	thresholds := analysis.Thresholds{
		Levels:  cfg.Analysis.Thresholds,
		Neutral: cfg.Analysis.ZeroThreshold,
	}

	orchestrator, err := batch.NewOrchestrator(cfg.Paths.DataDir, thresholds, logger,
		batch.WithWorkers(cfg.Performance.Workers),
		batch.WithDateFilter(filter))
	if err != nil {
		return fmt.Errorf("create orchestrator: %w", err)
	}

	results, err := orchestrator.Run(ctx, symbols)
	if err != nil {
		return err
	}

	if len(results.Records()) == 0 {
		logger.WarnContext(ctx, "no pairs produced metrics",
			"skipped", results.Skipped,
			"errors", results.Errored)
		return nil
	}

	rankingLevel := thresholds.RankingLevel()
	ranked := results.RankByMeanReversion()
	byCycles := results.RankByCompleteCycles(rankingLevel)

	timestamp := time.Now().Format("20060102_150405")
	csvPath := filepath.Join(cfg.Paths.OutputDir, fmt.Sprintf("summary_stats_%s.csv", timestamp))
	if err := report.WriteSummaryCSV(ranked, thresholds.Levels, csvPath); err != nil {
		return fmt.Errorf("write summary CSV: %w", err)
	}
	logger.InfoContext(ctx, "summary statistics saved", "path", csvPath)

	if !noExcel {
		xlsxPath := filepath.Join(cfg.Paths.OutputDir, fmt.Sprintf("summary_stats_%s.xlsx", timestamp))
		if err := report.WriteSummaryWorkbook(ranked, byCycles, thresholds.Levels, rankingLevel, runID, xlsxPath); err != nil {
			return fmt.Errorf("write summary workbook: %w", err)
		}
		logger.InfoContext(ctx, "summary workbook saved", "path", xlsxPath)
	}

	report.PrintTopPairs(os.Stdout, ranked, byCycles, rankingLevel)

	fmt.Printf("\nTotal pairs: %d\n", results.TotalPairs)
	fmt.Printf("Successful:  %d\n", results.Successful)
	fmt.Printf("Skipped:     %d\n", results.Skipped)
	fmt.Printf("Errors:      %d\n", results.Errored)

	return nil
}

// applyFlags layers command line overrides on top of the loaded
// configuration and revalidates the result.
func applyFlags(cfg *config.Config, dataPath, outputPath, exchanges, thresholds string, workers int, date, startDate, endDate string, today bool) error {
	if dataPath != "" {
		cfg.Paths.DataDir = dataPath
	}
	if outputPath != "" {
		cfg.Paths.OutputDir = outputPath
	}
	if exchanges != "" {
		cfg.Exchanges = splitList(exchanges)
	}
	if workers > 0 {
		cfg.Performance.Workers = workers
	}

	if thresholds != "" {
		var levels []float64
		for _, field := range splitList(thresholds) {
			level, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return fmt.Errorf("invalid threshold %q: %w", field, err)
			}
			levels = append(levels, level)
		}
		cfg.Analysis.Thresholds = levels
	}

	switch {
	case today:
		todayStr := time.Now().Format("2006-01-02")
		cfg.DateRange.StartDate = todayStr
		cfg.DateRange.EndDate = todayStr
	case date != "":
		cfg.DateRange.StartDate = date
		cfg.DateRange.EndDate = date
	default:
		if startDate != "" {
			cfg.DateRange.StartDate = startDate
		}
		if endDate != "" {
			cfg.DateRange.EndDate = endDate
		}
	}

	return cfg.Validate()
}

func splitList(value string) []string {
	var fields []string
	for _, field := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	return fields
}
