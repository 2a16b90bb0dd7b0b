package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/signalcopy/pricing"
	"github.com/rustyeddy/signalcopy/signal"
	"github.com/rustyeddy/signalcopy/venue"
)

func submit(t *testing.T, v *Venue) venue.OrderTicket {
	t.Helper()
	ticket, err := v.SubmitPendingOrder(context.Background(), venue.PendingOrderRequest{
		Symbol:     "XAUUSD",
		Side:       signal.Long,
		Kind:       venue.BuyLimit,
		Volume:     0.01,
		Price:      1900,
		StopLoss:   1890,
		TakeProfit: 1950,
		Expiration: time.Now().Add(4 * time.Hour),
	})
	require.NoError(t, err)
	return ticket
}

func TestSubmitAndList(t *testing.T) {
	t.Parallel()

	v := New()
	ticket := submit(t, v)

	orders, err := v.WorkingOrders(context.Background(), "XAUUSD")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, ticket.ID, orders[0].Ticket)
	assert.Equal(t, 1900.0, orders[0].OpenPrice)

	positions, err := v.OpenPositions(context.Background(), "XAUUSD")
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestFillPromotesToPosition(t *testing.T) {
	t.Parallel()

	v := New()
	ticket := submit(t, v)

	require.True(t, v.Fill(ticket.ID))

	orders, _ := v.WorkingOrders(context.Background(), "XAUUSD")
	assert.Empty(t, orders)

	positions, _ := v.OpenPositions(context.Background(), "XAUUSD")
	require.Len(t, positions, 1)
	assert.Equal(t, ticket.ID, positions[0].Ticket)
	assert.Equal(t, 1890.0, positions[0].StopLoss)

	assert.False(t, v.Fill(ticket.ID), "already filled")
}

func TestDropRemovesEverywhere(t *testing.T) {
	t.Parallel()

	v := New()
	a := submit(t, v)
	b := submit(t, v)
	require.True(t, v.Fill(b.ID))

	v.Drop(a.ID)
	v.Drop(b.ID)

	orders, _ := v.WorkingOrders(context.Background(), "XAUUSD")
	positions, _ := v.OpenPositions(context.Background(), "XAUUSD")
	assert.Empty(t, orders)
	assert.Empty(t, positions)
}

func TestModify(t *testing.T) {
	t.Parallel()

	v := New()
	ticket := submit(t, v)

	require.NoError(t, v.ModifyOrder(context.Background(), ticket.ID, 1900, 1895, 1950))
	orders, _ := v.WorkingOrders(context.Background(), "XAUUSD")
	require.Len(t, orders, 1)
	assert.Equal(t, 1895.0, orders[0].StopLoss)

	var rejected *venue.RejectedError
	err := v.ModifyOrder(context.Background(), 42, 1, 2, 3)
	require.Error(t, err)
	assert.True(t, errors.As(err, &rejected))

	err = v.ModifyPosition(context.Background(), ticket.ID, 1895, 1950)
	require.Error(t, err, "still a working order, not a position")
}

func TestRejectNext(t *testing.T) {
	t.Parallel()

	v := New()
	v.RejectNext(10019, "not enough money")

	_, err := v.SubmitPendingOrder(context.Background(), venue.PendingOrderRequest{})
	var rejected *venue.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, 10019, rejected.Code)

	// Rejection is one-shot.
	_ = submit(t, v)
}

func TestQuoteAndMetadata(t *testing.T) {
	t.Parallel()

	v := New()

	_, err := v.CurrentPrice(context.Background(), "XAUUSD")
	assert.Error(t, err, "no quote seeded yet")

	_, err = v.TickInfo(context.Background(), "XAUUSD")
	assert.Error(t, err, "no metadata seeded yet")

	v.SetQuote(pricing.Tick{Symbol: "XAUUSD", Bid: 1899.5, Ask: 1900.0})
	v.SetTickInfo(venue.TickInfo{Value: 1.0, Size: 0.01})
	v.SetMinVolume(0.1)

	tick, err := v.CurrentPrice(context.Background(), "XAUUSD")
	require.NoError(t, err)
	assert.Equal(t, 1900.0, tick.Ask)

	info, err := v.TickInfo(context.Background(), "XAUUSD")
	require.NoError(t, err)
	assert.Equal(t, 0.01, info.Size)

	vol, err := v.MinVolume(context.Background(), "XAUUSD")
	require.NoError(t, err)
	assert.Equal(t, 0.1, vol)
}
