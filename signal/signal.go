// Package signal turns free-text trading alerts into typed trade intents.
//
// Extraction is pure and total: any string yields either a TradeIntent, an
// SLUpdate, or nothing. Pattern priority is held in ordered tables so the
// precedence rules are visible and testable.
package signal

// Side of a trade intent.
type Side int

const (
	Long Side = iota
	Short
)

func (s Side) String() string {
	if s == Short {
		return "short"
	}
	return "long"
}

// EntryRange is a stated entry zone, normalized so Low <= High.
type EntryRange struct {
	Low  float64
	High float64
}

// TradeIntent is the typed form of an actionable alert. Exactly one of
// EntryPrice / EntryRange is set. StopLoss is always present.
// TakeProfitHint is informational only; the lifecycle manager computes its
// own target-profit TP.
type TradeIntent struct {
	Side           Side
	EntryPrice     float64
	EntryRange     *EntryRange
	StopLoss       float64
	TakeProfitHint float64 // 0 means absent
	RawText        string
}

// IsRange reports whether the intent states an entry zone rather than a
// single price.
func (ti *TradeIntent) IsRange() bool { return ti.EntryRange != nil }

// SLUpdate instructs the lifecycle manager to move every working order's and
// open position's stop loss to NewStopLoss.
type SLUpdate struct {
	NewStopLoss float64
}

// Result is the outcome of extraction. At most one field is non-nil; both nil
// means the message was not actionable.
type Result struct {
	Intent   *TradeIntent
	SLUpdate *SLUpdate
}

// Actionable reports whether the message produced anything to act on.
func (r Result) Actionable() bool { return r.Intent != nil || r.SLUpdate != nil }
