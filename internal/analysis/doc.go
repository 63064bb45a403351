// Package analysis implements cross-exchange price-ratio mean-reversion
// analysis for one symbol traded on two venues.
//
// The pipeline for one exchange pair is:
//
//  1. Synchronize the two tick series onto the anchor series' timeline with a
//     backward as-of join (no look-ahead).
//  2. Convert synchronized bid prices into percentage deviations from price
//     parity (ratio 1.0), never from the sample mean — zero deviation must
//     mean "positions close at break-even", not "average price gap".
//  3. Scan the deviation series for complete cycles: excursions above a
//     threshold that return to the neutral band, the unit of a tradeable
//     mean-reversion opportunity. Sign flips between consecutive rows are
//     counted separately as zero-crossings, the raw reversion-frequency
//     signal.
//
// AnalyzePair composes the steps and assembles a MetricRecord. Undefined
// rows (no matched counterpart yet, or a zero denominator) are marked NaN in
// the deviation series and excluded from every aggregate.
package analysis
