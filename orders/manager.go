// Package orders owns the registry of tracked pending orders and drives
// their lifecycle: submission, stop-loss updates, and reconciliation against
// the venue's working-order and position sets.
package orders

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/signalcopy/journal"
	"github.com/rustyeddy/signalcopy/pkg/id"
	"github.com/rustyeddy/signalcopy/pricing"
	"github.com/rustyeddy/signalcopy/signal"
	"github.com/rustyeddy/signalcopy/venue"
)

// defaultMinVolume is used when the venue cannot report a minimum volume.
const defaultMinVolume = 0.01

// TrackedOrder is the manager's view of one submitted pending order.
// Activated flips true once a reconcile sweep observes the ticket as a
// position rather than a working order.
type TrackedOrder struct {
	Ticket     int64
	Symbol     string
	Side       signal.Side
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
	Volume     float64
	CreatedAt  time.Time
	Activated  bool
}

// Config holds the manager's trading parameters. Not mutated at runtime.
type Config struct {
	Symbol       string
	TargetProfit float64 // account currency
	Policy       pricing.Policy
	OrderExpiry  time.Duration // 0 means 4h
}

// Manager is safe for concurrent use: the ingest loop appends entries while
// the reconcile loop mutates and removes them, all under one mutex.
type Manager struct {
	mu       sync.Mutex
	registry map[int64]*TrackedOrder

	cfg   Config
	venue venue.Venue
	jrnl  journal.Journal
	log   zerolog.Logger
	now   func() time.Time
}

func New(cfg Config, v venue.Venue, j journal.Journal) *Manager {
	if cfg.OrderExpiry <= 0 {
		cfg.OrderExpiry = 4 * time.Hour
	}
	if j == nil {
		j = journal.Noop{}
	}
	return &Manager{
		registry: make(map[int64]*TrackedOrder),
		cfg:      cfg,
		venue:    v,
		jrnl:     j,
		log:      log.With().Str("component", "orders").Logger(),
		now:      time.Now,
	}
}

// SubmitPendingOrder prices an intent, classifies the pending-order flavor
// against the live quote, submits it, and starts tracking the ticket. A
// rejected submission is not retried; the caller moves on to the next
// message.
func (m *Manager) SubmitPendingOrder(ctx context.Context, intent *signal.TradeIntent) (*TrackedOrder, error) {
	tick, err := m.venue.CurrentPrice(ctx, m.cfg.Symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarketData, err)
	}

	entry := pricing.ResolveEntry(intent, m.cfg.Policy)

	volume, err := m.venue.MinVolume(ctx, m.cfg.Symbol)
	if err != nil || volume <= 0 {
		volume = defaultMinVolume
	}

	tp, err := m.takeProfitFor(ctx, entry, intent.Side, volume)
	if err != nil {
		return nil, err
	}

	kind := venue.Classify(intent.Side, entry, tick)
	expiration := m.now().Add(m.cfg.OrderExpiry)

	ticket, err := m.venue.SubmitPendingOrder(ctx, venue.PendingOrderRequest{
		Symbol:     m.cfg.Symbol,
		Side:       intent.Side,
		Kind:       kind,
		Volume:     volume,
		Price:      entry,
		StopLoss:   intent.StopLoss,
		TakeProfit: tp,
		Expiration: expiration,
	})
	if err != nil {
		return nil, err
	}

	tracked := &TrackedOrder{
		Ticket:     ticket.ID,
		Symbol:     m.cfg.Symbol,
		Side:       intent.Side,
		EntryPrice: entry,
		StopLoss:   intent.StopLoss,
		TakeProfit: tp,
		Volume:     volume,
		CreatedAt:  m.now(),
	}

	m.mu.Lock()
	m.registry[tracked.Ticket] = tracked
	m.mu.Unlock()

	m.log.Info().
		Int64("ticket", tracked.Ticket).
		Str("side", intent.Side.String()).
		Str("kind", kind.String()).
		Float64("entry", entry).
		Float64("sl", intent.StopLoss).
		Float64("tp", tp).
		Float64("volume", volume).
		Float64("quote_mid", tick.Mid()).
		Float64("spread", tick.Spread()).
		Time("expires", expiration).
		Msg("pending order placed")

	if err := m.jrnl.RecordOrder(journal.OrderRecord{
		ID:         id.New(),
		Ticket:     tracked.Ticket,
		Symbol:     tracked.Symbol,
		Side:       intent.Side.String(),
		Kind:       kind.String(),
		Volume:     volume,
		EntryPrice: entry,
		StopLoss:   intent.StopLoss,
		TakeProfit: tp,
		Expiration: expiration,
		CreatedAt:  tracked.CreatedAt,
		RawText:    intent.RawText,
	}); err != nil {
		m.log.Warn().Err(err).Msg("journal write failed")
	}

	return tracked, nil
}

// takeProfitFor converts the configured target profit into a price distance
// using the venue's tick metadata: distance = target * tickSize /
// (tickValue * volume), added to entry for a long, subtracted for a short.
func (m *Manager) takeProfitFor(ctx context.Context, entry float64, side signal.Side, volume float64) (float64, error) {
	info, err := m.venue.TickInfo(ctx, m.cfg.Symbol)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTakeProfitCalc, err)
	}
	if info.Value == 0 || info.Size == 0 || volume == 0 {
		return 0, fmt.Errorf("%w: zero tick metadata", ErrTakeProfitCalc)
	}

	distance := m.cfg.TargetProfit * info.Size / (info.Value * volume)
	if side == signal.Long {
		return entry + distance, nil
	}
	return entry - distance, nil
}

// UpdateStopLoss moves the stop on every open position (phase one) and every
// working pending order (phase two) for the symbol. Both phases always run;
// individual ticket failures are logged and skipped. It fails with
// ErrNoTargets only when neither phase found anything to touch.
func (m *Manager) UpdateStopLoss(ctx context.Context, newSL float64) error {
	var modified, failed, targets int

	positions, err := m.venue.OpenPositions(ctx, m.cfg.Symbol)
	if err != nil {
		m.log.Error().Err(err).Msg("listing positions for SL update")
	}
	for _, pos := range positions {
		targets++
		if err := m.venue.ModifyPosition(ctx, pos.Ticket, newSL, pos.TakeProfit); err != nil {
			failed++
			m.log.Error().Err(err).Int64("ticket", pos.Ticket).Msg("SL update failed on position")
			continue
		}
		modified++
		m.log.Info().Int64("ticket", pos.Ticket).Float64("sl", newSL).Msg("SL updated on position")
	}

	workings, err := m.venue.WorkingOrders(ctx, m.cfg.Symbol)
	if err != nil {
		m.log.Error().Err(err).Msg("listing working orders for SL update")
	}
	for _, wo := range workings {
		targets++
		if err := m.venue.ModifyOrder(ctx, wo.Ticket, wo.OpenPrice, newSL, wo.TakeProfit); err != nil {
			failed++
			m.log.Error().Err(err).Int64("ticket", wo.Ticket).Msg("SL update failed on working order")
			continue
		}
		modified++
		m.log.Info().Int64("ticket", wo.Ticket).Float64("sl", newSL).Msg("SL updated on working order")
	}

	if err := m.jrnl.RecordSLUpdate(journal.SLUpdateRecord{
		ID:          id.New(),
		Symbol:      m.cfg.Symbol,
		NewStopLoss: newSL,
		Modified:    modified,
		Failed:      failed,
		Time:        m.now(),
	}); err != nil {
		m.log.Warn().Err(err).Msg("journal write failed")
	}

	if targets == 0 {
		return ErrNoTargets
	}
	if modified == 0 {
		return fmt.Errorf("stop-loss update: all %d modifications failed", failed)
	}
	return nil
}

// Reconcile compares every tracked order against the venue's position and
// working-order sets. A ticket seen as a position is marked activated; one
// seen as a working order stays pending; one seen in neither set is dropped
// (cancelled, expired, or closed externally).
func (m *Manager) Reconcile(ctx context.Context) error {
	positions, err := m.venue.OpenPositions(ctx, m.cfg.Symbol)
	if err != nil {
		return fmt.Errorf("reconcile positions: %w", err)
	}
	workings, err := m.venue.WorkingOrders(ctx, m.cfg.Symbol)
	if err != nil {
		return fmt.Errorf("reconcile working orders: %w", err)
	}

	posSet := make(map[int64]bool, len(positions))
	for _, p := range positions {
		posSet[p.Ticket] = true
	}
	workSet := make(map[int64]bool, len(workings))
	for _, w := range workings {
		workSet[w.Ticket] = true
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for ticket, tracked := range m.registry {
		switch {
		case posSet[ticket]:
			if !tracked.Activated {
				tracked.Activated = true
				m.log.Info().Int64("ticket", ticket).Msg("pending order filled into position")
			}
		case workSet[ticket]:
			// still pending
		default:
			age := m.now().Sub(tracked.CreatedAt)
			delete(m.registry, ticket)
			m.log.Info().
				Int64("ticket", ticket).
				Dur("age", age).
				Msg("order no longer at venue, dropped from tracking")
		}
	}
	return nil
}

// Tracked returns a snapshot copy of the registry.
func (m *Manager) Tracked() []TrackedOrder {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]TrackedOrder, 0, len(m.registry))
	for _, t := range m.registry {
		out = append(out, *t)
	}
	return out
}

// StatusReport renders a human-readable summary of every tracked order's
// state and age. Read-only.
func (m *Manager) StatusReport() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.registry) == 0 {
		return "no tracked orders"
	}

	var b strings.Builder
	b.WriteString("tracked orders:\n")
	for _, t := range m.registry {
		state := "pending"
		if t.Activated {
			state = "activated"
		}
		age := m.now().Sub(t.CreatedAt)
		fmt.Fprintf(&b, "  %d: %s %s @ %.5f (%s, %.0fmin)\n",
			t.Ticket, t.Side, state, t.EntryPrice, t.Symbol, age.Minutes())
	}
	return strings.TrimRight(b.String(), "\n")
}
