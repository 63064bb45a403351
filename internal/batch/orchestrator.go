package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"arbscan/internal/analysis"
	"arbscan/internal/marketdata"
)

// defaultWorkerMultiplier sizes the pool at a multiple of the CPU count.
// Workers spend part of their time blocked on partition reads before
// computing, so more workers than cores keeps the cores busy.
const defaultWorkerMultiplier = 3

// LoadFunc loads the tick series for one (exchange, symbol) pair. It returns
// (nil, nil) when no data exists. Injected so tests can run the orchestrator
// against in-memory series.
type LoadFunc func(ctx context.Context, root, exchange, symbol string, filter marketdata.DateFilter) (marketdata.Series, error)

// Orchestrator fans symbol tasks out over a worker pool and accumulates
// pair results into a ResultSet.
type Orchestrator struct {
	dataRoot   string
	filter     marketdata.DateFilter
	thresholds analysis.Thresholds
	workers    int
	load       LoadFunc
	logger     *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithWorkers overrides the pool size. Zero keeps the default.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithLoadFunc substitutes the series loader.
func WithLoadFunc(load LoadFunc) Option {
	return func(o *Orchestrator) {
		if load != nil {
			o.load = load
		}
	}
}

// WithDateFilter bounds every load to an inclusive date range.
func WithDateFilter(filter marketdata.DateFilter) Option {
	return func(o *Orchestrator) { o.filter = filter }
}

// NewOrchestrator creates a batch orchestrator over the given data root.
func NewOrchestrator(dataRoot string, thresholds analysis.Thresholds, logger *slog.Logger, opts ...Option) (*Orchestrator, error) {
	if !thresholds.IsValid() {
		return nil, fmt.Errorf("invalid thresholds: levels=%v neutral=%v", thresholds.Levels, thresholds.Neutral)
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := &Orchestrator{
		dataRoot:   dataRoot,
		thresholds: thresholds,
		workers:    runtime.NumCPU() * defaultWorkerMultiplier,
		load:       marketdata.LoadSeries,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// Run analyzes every exchange pair of every symbol in the discovery map and
// returns the accumulated result set. Per-pair and per-load failures are
// contained and counted; Run itself fails only when the run is cancelled or
// there is nothing to do.
func (o *Orchestrator) Run(ctx context.Context, symbols map[string][]string) (*ResultSet, error) {
	tasks := buildTasks(symbols)
	if len(tasks) == 0 {
		return nil, fmt.Errorf("no symbols with two or more exchanges to analyze")
	}

	totalPairs := 0
	for _, task := range tasks {
		totalPairs += len(task.Exchanges) * (len(task.Exchanges) - 1) / 2
	}

	workers := o.workers
	if workers > len(tasks) {
		workers = len(tasks)
	}

	o.logger.InfoContext(ctx, "starting batch analysis",
		"symbols", len(tasks),
		"total_pairs", totalPairs,
		"workers", workers,
		"thresholds", o.thresholds.Levels,
		"neutral_threshold", o.thresholds.Neutral)

	taskCh := make(chan symbolTask)
	resultCh := make(chan []PairResult)
	analyzer := analysis.NewPairAnalyzer(o.thresholds, o.logger)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskCh {
				resultCh <- o.analyzeSymbol(ctx, analyzer, task)
			}
		}()
	}

	go func() {
		defer close(taskCh)
		for _, task := range tasks {
			select {
			case taskCh <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// Single-owner accumulation: workers hand over immutable batches and
	// only this goroutine touches the aggregate.
	results := NewResultSet(totalPairs)
	processed := 0
	for pairResults := range resultCh {
		for _, result := range pairResults {
			processed++
			results.Add(result)
			if result.Status == StatusSuccess {
				o.logger.InfoContext(ctx, "pair analyzed",
					"progress", fmt.Sprintf("%d/%d", processed, totalPairs),
					"symbol", result.Symbol,
					"exchange1", result.Exchange1,
					"exchange2", result.Exchange2)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch analysis cancelled: %w", err)
	}

	o.logger.InfoContext(ctx, "batch analysis finished",
		"total_pairs", totalPairs,
		"successful", results.Successful,
		"skipped", results.Skipped,
		"errors", results.Errored)

	return results, nil
}

// analyzeSymbol loads every exchange's series for one symbol concurrently,
// then analyzes each exchange pair against the cached series.
func (o *Orchestrator) analyzeSymbol(ctx context.Context, analyzer *analysis.PairAnalyzer, task symbolTask) []PairResult {
	series := o.loadSymbolData(ctx, task)

	results := make([]PairResult, 0, len(task.Exchanges)*(len(task.Exchanges)-1)/2)
	for i := 0; i < len(task.Exchanges); i++ {
		for j := i + 1; j < len(task.Exchanges); j++ {
			ex1, ex2 := task.Exchanges[i], task.Exchanges[j]
			result := PairResult{
				Symbol:    task.Symbol,
				Exchange1: ex1,
				Exchange2: ex2,
			}

			series1, ok1 := series[ex1]
			series2, ok2 := series[ex2]
			if !ok1 || !ok2 {
				result.Status = StatusSkipped
				results = append(results, result)
				continue
			}

			record, err := analyzer.Analyze(task.Symbol, ex1, ex2, series1, series2)
			switch {
			case err != nil:
				o.logger.WarnContext(ctx, "pair analysis failed",
					"symbol", task.Symbol,
					"exchange1", ex1,
					"exchange2", ex2,
					"error", err)
				result.Status = StatusError
			case record == nil:
				result.Status = StatusSkipped
			default:
				result.Status = StatusSuccess
				result.Record = record
			}
			results = append(results, result)
		}
	}

	return results
}

// loadSymbolData fans out one load per exchange and collects the non-empty
// results by exchange name. Loads that fail or find nothing simply leave
// their exchange out of the map; the surviving subset is still usable.
func (o *Orchestrator) loadSymbolData(ctx context.Context, task symbolTask) map[string]marketdata.Series {
	loaded := make([]marketdata.Series, len(task.Exchanges))

	g, gctx := errgroup.WithContext(ctx)
	for i, exchange := range task.Exchanges {
		i, exchange := i, exchange
		g.Go(func() error {
			series, err := o.load(gctx, o.dataRoot, exchange, task.Symbol, o.filter)
			if err != nil {
				o.logger.WarnContext(ctx, "exchange load failed",
					"symbol", task.Symbol,
					"exchange", exchange,
					"error", err)
				return nil
			}
			loaded[i] = series
			return nil
		})
	}
	// Goroutines only ever return nil; Wait is a join point.
	_ = g.Wait()

	series := make(map[string]marketdata.Series, len(task.Exchanges))
	for i, exchange := range task.Exchanges {
		if len(loaded[i]) > 0 {
			series[exchange] = loaded[i]
		}
	}
	return series
}

// buildTasks converts the discovery map into symbol tasks with sorted
// exchange lists, ordered by symbol so dispatch is reproducible.
func buildTasks(symbols map[string][]string) []symbolTask {
	tasks := make([]symbolTask, 0, len(symbols))
	for symbol, exchanges := range symbols {
		if len(exchanges) < 2 {
			continue
		}
		sortedExchanges := make([]string, len(exchanges))
		copy(sortedExchanges, exchanges)
		sort.Strings(sortedExchanges)
		tasks = append(tasks, symbolTask{Symbol: symbol, Exchanges: sortedExchanges})
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Symbol < tasks[j].Symbol })
	return tasks
}
