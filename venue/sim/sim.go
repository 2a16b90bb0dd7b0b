// Package sim is an in-memory venue used by tests and dry runs. It fills the
// same role the simulated broker does in a backtest: deterministic, no
// network, every mutation behind one mutex.
package sim

import (
	"context"
	"errors"
	"sync"

	"github.com/rustyeddy/signalcopy/pricing"
	"github.com/rustyeddy/signalcopy/venue"
)

var errNoQuote = errors.New("sim: no quote set")

type Venue struct {
	mu         sync.Mutex
	tick       pricing.Tick
	hasTick    bool
	minVolume  float64
	tickInfo   venue.TickInfo
	hasInfo    bool
	nextTicket int64
	orders     map[int64]venue.WorkingOrder
	positions  map[int64]venue.Position

	// RejectNext makes the next submission fail with the given rejection.
	rejectNext *venue.RejectedError
}

func New() *Venue {
	return &Venue{
		minVolume:  0.01,
		nextTicket: 1000,
		orders:     make(map[int64]venue.WorkingOrder),
		positions:  make(map[int64]venue.Position),
	}
}

// SetQuote installs the current bid/ask.
func (v *Venue) SetQuote(t pricing.Tick) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tick = t
	v.hasTick = true
}

// SetMinVolume overrides the default minimum volume of 0.01.
func (v *Venue) SetMinVolume(vol float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.minVolume = vol
}

// SetTickInfo installs tick metadata. Without it TickInfo fails, which is
// how tests exercise the TP-calculation failure path.
func (v *Venue) SetTickInfo(ti venue.TickInfo) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tickInfo = ti
	v.hasInfo = true
}

// RejectNext arranges for the next submission to be rejected.
func (v *Venue) RejectNext(code int, reason string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rejectNext = &venue.RejectedError{Code: code, Reason: reason}
}

func (v *Venue) CurrentPrice(ctx context.Context, symbol string) (pricing.Tick, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.hasTick {
		return pricing.Tick{}, errNoQuote
	}
	return v.tick, nil
}

func (v *Venue) MinVolume(ctx context.Context, symbol string) (float64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.minVolume, nil
}

func (v *Venue) TickInfo(ctx context.Context, symbol string) (venue.TickInfo, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.hasInfo {
		return venue.TickInfo{}, errors.New("sim: no tick metadata set")
	}
	return v.tickInfo, nil
}

func (v *Venue) SubmitPendingOrder(ctx context.Context, req venue.PendingOrderRequest) (venue.OrderTicket, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.rejectNext != nil {
		rej := v.rejectNext
		v.rejectNext = nil
		return venue.OrderTicket{}, rej
	}

	v.nextTicket++
	t := v.nextTicket
	v.orders[t] = venue.WorkingOrder{
		Ticket:     t,
		Symbol:     req.Symbol,
		OpenPrice:  req.Price,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
	}
	return venue.OrderTicket{ID: t, Price: req.Price}, nil
}

func (v *Venue) ModifyOrder(ctx context.Context, ticket int64, price, sl, tp float64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	o, ok := v.orders[ticket]
	if !ok {
		return &venue.RejectedError{Code: 10013, Reason: "unknown order ticket"}
	}
	o.OpenPrice = price
	o.StopLoss = sl
	o.TakeProfit = tp
	v.orders[ticket] = o
	return nil
}

func (v *Venue) ModifyPosition(ctx context.Context, ticket int64, sl, tp float64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	p, ok := v.positions[ticket]
	if !ok {
		return &venue.RejectedError{Code: 10013, Reason: "unknown position ticket"}
	}
	p.StopLoss = sl
	p.TakeProfit = tp
	v.positions[ticket] = p
	return nil
}

func (v *Venue) WorkingOrders(ctx context.Context, symbol string) ([]venue.WorkingOrder, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]venue.WorkingOrder, 0, len(v.orders))
	for _, o := range v.orders {
		out = append(out, o)
	}
	return out, nil
}

func (v *Venue) OpenPositions(ctx context.Context, symbol string) ([]venue.Position, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]venue.Position, 0, len(v.positions))
	for _, p := range v.positions {
		out = append(out, p)
	}
	return out, nil
}

// Fill promotes a working order into a position, as the venue would when
// price reaches the entry level.
func (v *Venue) Fill(ticket int64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	o, ok := v.orders[ticket]
	if !ok {
		return false
	}
	delete(v.orders, ticket)
	v.positions[ticket] = venue.Position{
		Ticket:     ticket,
		Symbol:     o.Symbol,
		StopLoss:   o.StopLoss,
		TakeProfit: o.TakeProfit,
	}
	return true
}

// Drop removes a ticket from both collections, modeling cancellation,
// expiry, or an external close.
func (v *Venue) Drop(ticket int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.orders, ticket)
	delete(v.positions, ticket)
}
