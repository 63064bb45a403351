package analysis

import "arbscan/internal/marketdata"

// Synchronize aligns series b onto series a's timeline with a backward as-of
// join: every row of a is paired with the most recent observation of b at or
// before a's timestamp. Pairing with a future b observation is never allowed,
// which is what keeps the derived deviation series free of look-ahead bias.
//
// The result has exactly one row per row of a. Rows of a that precede every
// observation of b are kept but flagged unmatched. If either input is empty
// there is nothing to pair and the result is nil, which downstream treats as
// "no analysis possible" rather than an error. No interpolation is performed.
func Synchronize(a, b marketdata.Series) []SyncedRow {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	rows := make([]SyncedRow, 0, len(a))
	j := 0

	for _, anchor := range a {
		// Advance to the last b observation at or before the anchor. Both
		// inputs are sorted ascending, so j never moves backward.
		for j < len(b) && !b[j].Timestamp.After(anchor.Timestamp) {
			j++
		}

		row := SyncedRow{
			Timestamp: anchor.Timestamp,
			Bid1:      anchor.BestBid,
			Ask1:      anchor.BestAsk,
		}
		if j > 0 {
			row.Bid2 = b[j-1].BestBid
			row.Ask2 = b[j-1].BestAsk
			row.Matched = true
		}
		rows = append(rows, row)
	}

	return rows
}
