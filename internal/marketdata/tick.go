package marketdata

import "time"

// Tick is a single top-of-book observation for one (exchange, symbol) pair.
type Tick struct {
	Timestamp time.Time `json:"timestamp"`
	BestBid   float64   `json:"best_bid"`
	BestAsk   float64   `json:"best_ask"`
}

// IsValid checks that the tick carries usable prices.
func (t Tick) IsValid() bool {
	return !t.Timestamp.IsZero() && t.BestBid > 0 && t.BestAsk > 0
}

// Series is a tick sequence sorted ascending by timestamp.
type Series []Tick

// Duration returns the time span covered by the series.
func (s Series) Duration() time.Duration {
	if len(s) < 2 {
		return 0
	}
	return s[len(s)-1].Timestamp.Sub(s[0].Timestamp)
}
