// Package report persists and displays batch analysis results: a CSV summary
// with one row per analyzed pair, an XLSX workbook with the same table plus
// the two rankings, and the operator-facing console top-pairs tables.
package report
