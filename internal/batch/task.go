package batch

import "arbscan/internal/analysis"

// PairStatus classifies the outcome of one (symbol, exchange1, exchange2)
// analysis attempt.
type PairStatus string

const (
	// StatusSuccess means the pair produced a full metric record.
	StatusSuccess PairStatus = "SUCCESS"
	// StatusSkipped means one or both sides had no usable data. Not an
	// error; the pair simply cannot be analyzed.
	StatusSkipped PairStatus = "SKIPPED"
	// StatusError means the analysis itself failed unexpectedly. The
	// failure is contained at the pair and does not affect the batch.
	StatusError PairStatus = "ERROR"
)

// symbolTask is the unit of work one pool worker consumes: analyze every
// exchange pair of a single symbol, loading each exchange's data once.
type symbolTask struct {
	Symbol    string
	Exchanges []string
}

// PairResult records the outcome for one exchange pair. Record is non-nil
// only for StatusSuccess.
type PairResult struct {
	Symbol    string
	Exchange1 string
	Exchange2 string
	Status    PairStatus
	Record    *analysis.MetricRecord
}
