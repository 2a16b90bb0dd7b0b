// Package venue defines the execution-collaborator interface the lifecycle
// manager consumes, plus the pending-order flavor decision table.
package venue

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/signalcopy/pricing"
	"github.com/rustyeddy/signalcopy/signal"
)

// OrderKind is the pending-order flavor understood by the venue.
type OrderKind int

const (
	BuyLimit OrderKind = iota
	BuyStop
	SellLimit
	SellStop
)

func (k OrderKind) String() string {
	switch k {
	case BuyLimit:
		return "buy_limit"
	case BuyStop:
		return "buy_stop"
	case SellLimit:
		return "sell_limit"
	case SellStop:
		return "sell_stop"
	}
	return "unknown"
}

// TickInfo is the venue's tick metadata for a symbol: how much one tick of
// price movement (Size) is worth in account currency (Value) for one unit
// of volume.
type TickInfo struct {
	Value float64
	Size  float64
}

// PendingOrderRequest is a fully specified pending order.
type PendingOrderRequest struct {
	Symbol     string
	Side       signal.Side
	Kind       OrderKind
	Volume     float64
	Price      float64
	StopLoss   float64
	TakeProfit float64
	Expiration time.Time
}

// OrderTicket is the venue's acknowledgment of a submitted pending order.
type OrderTicket struct {
	ID    int64
	Price float64
}

// WorkingOrder is a still-pending order as reported by the venue.
type WorkingOrder struct {
	Ticket     int64
	Symbol     string
	OpenPrice  float64
	StopLoss   float64
	TakeProfit float64
}

// Position is a filled, open exposure as reported by the venue.
type Position struct {
	Ticket     int64
	Symbol     string
	StopLoss   float64
	TakeProfit float64
}

// Venue is the execution collaborator. Implementations must treat every call
// as bounded: fail, do not block indefinitely. Retry policy belongs to the
// caller's outer loop, not here and not in the consumer.
type Venue interface {
	CurrentPrice(ctx context.Context, symbol string) (pricing.Tick, error)
	MinVolume(ctx context.Context, symbol string) (float64, error)
	TickInfo(ctx context.Context, symbol string) (TickInfo, error)

	SubmitPendingOrder(ctx context.Context, req PendingOrderRequest) (OrderTicket, error)

	// ModifyOrder updates a working pending order. The venue's modify
	// contract requires the open price to be re-supplied even when unchanged.
	ModifyOrder(ctx context.Context, ticket int64, price, sl, tp float64) error
	ModifyPosition(ctx context.Context, ticket int64, sl, tp float64) error

	WorkingOrders(ctx context.Context, symbol string) ([]WorkingOrder, error)
	OpenPositions(ctx context.Context, symbol string) ([]Position, error)
}

// RejectedError reports a venue-side rejection of a submission or
// modification.
type RejectedError struct {
	Code   int
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("venue rejected request: %s (%d)", e.Reason, e.Code)
}

// Classify picks the pending-order flavor for a resolved entry price against
// the live quote. Longs compare against the ask, shorts against the bid:
// entering at a better-than-market price is a limit order, entering on a
// breakout is a stop order.
func Classify(side signal.Side, entry float64, tick pricing.Tick) OrderKind {
	if side == signal.Long {
		if entry < tick.Ask {
			return BuyLimit
		}
		return BuyStop
	}
	if entry > tick.Bid {
		return SellLimit
	}
	return SellStop
}
