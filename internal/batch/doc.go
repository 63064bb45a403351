// Package batch runs pair analysis across every discovered symbol with
// two-level parallelism matched to the two resource types in play.
//
// Level 1, inside one symbol, is I/O-bound: every exchange's series for that
// symbol loads concurrently, and a failed or empty load of one exchange does
// not abort the others. Level 2, across symbols, is CPU-bound: each symbol
// is one unit of work on a fixed-size pool of workers. A symbol with N
// exchanges is loaded exactly N times and those series are reused across all
// C(N,2) pair analyses — the load-once optimization that makes the batch
// tractable.
//
// Workers are stateless and share nothing; each returns an immutable batch
// of pair results over a channel, and the single orchestrating goroutine is
// the only writer of the aggregate result set. Completion order is
// unordered; ranking is a pure post-pass over the accumulated set.
package batch
