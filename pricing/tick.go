package pricing

import "time"

// Tick is a bid/ask quote for a symbol at a point in time.
type Tick struct {
	Symbol string
	Time   time.Time
	Bid    float64
	Ask    float64
}

func (t Tick) Mid() float64 {
	if t.Bid == 0 && t.Ask == 0 {
		return 0
	}
	return (t.Bid + t.Ask) / 2
}

func (t Tick) Spread() float64 {
	return t.Ask - t.Bid
}
