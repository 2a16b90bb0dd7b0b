// Package journal records what the copier actually did: every accepted
// pending-order submission and every stop-loss update. It is an audit trail,
// not restart state; the order registry is never rebuilt from it.
package journal

import "time"

// OrderRecord is one accepted pending-order submission.
type OrderRecord struct {
	ID         string // ULID
	Ticket     int64
	Symbol     string
	Side       string
	Kind       string
	Volume     float64
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
	Expiration time.Time
	CreatedAt  time.Time
	RawText    string
}

// SLUpdateRecord is one stop-loss update sweep.
type SLUpdateRecord struct {
	ID          string // ULID
	Symbol      string
	NewStopLoss float64
	Modified    int
	Failed      int
	Time        time.Time
}

type Journal interface {
	RecordOrder(OrderRecord) error
	RecordSLUpdate(SLUpdateRecord) error
	Close() error
}

// Noop discards all records. Used by dry runs.
type Noop struct{}

func (Noop) RecordOrder(OrderRecord) error       { return nil }
func (Noop) RecordSLUpdate(SLUpdateRecord) error { return nil }
func (Noop) Close() error                        { return nil }
