// Package pipeline wires the alert stream to the order lifecycle manager:
// poll, extract, route. A second loop reconciles tracked orders against the
// venue on its own cadence. Nothing here is fatal; every iteration's failure
// is logged and the next tick carries on.
package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/signalcopy/orders"
	"github.com/rustyeddy/signalcopy/signal"
	"github.com/rustyeddy/signalcopy/stream"
)

// Options tune the two periodic loops. Zero values get defaults.
type Options struct {
	PollInterval      time.Duration // default 2s
	FetchLimit        int           // default 5
	ReconcileInterval time.Duration // default 30s
	StatusInterval    time.Duration // default 5m
}

func (o *Options) defaults() {
	if o.PollInterval <= 0 {
		o.PollInterval = 2 * time.Second
	}
	if o.FetchLimit <= 0 {
		o.FetchLimit = 5
	}
	if o.ReconcileInterval <= 0 {
		o.ReconcileInterval = 30 * time.Second
	}
	if o.StatusInterval <= 0 {
		o.StatusInterval = 5 * time.Minute
	}
}

type Pipeline struct {
	stream  stream.Stream
	manager *orders.Manager
	opts    Options
	log     zerolog.Logger

	lastID int64 // high-water mark of consumed message IDs
}

func New(s stream.Stream, m *orders.Manager, opts Options) *Pipeline {
	opts.defaults()
	return &Pipeline{
		stream:  s,
		manager: m,
		opts:    opts,
		log:     log.With().Str("component", "pipeline").Logger(),
	}
}

// Prime sets the high-water mark so only messages published after startup
// are acted on. Without priming, the first fetch replays the channel's most
// recent history.
func (p *Pipeline) Prime(ctx context.Context) error {
	msgs, err := p.stream.FetchRecent(ctx, 1)
	if err != nil {
		return err
	}
	if len(msgs) > 0 {
		p.lastID = msgs[0].ID
	}
	p.log.Info().Int64("last_id", p.lastID).Msg("monitoring from message id")
	return nil
}

// Run drives both loops until ctx is cancelled. It returns the first
// connectivity-level error from the stream so an outer policy can decide
// whether to reconnect; all other failures are absorbed.
func (p *Pipeline) Run(ctx context.Context) error {
	// The reconcile loop only watches ctx, so the ingest loop's exit must
	// cancel it or Run would never return on a dead stream.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.reconcileLoop(ctx)
	}()

	err := p.ingestLoop(ctx)
	cancel()
	wg.Wait()
	return err
}

func (p *Pipeline) ingestLoop(ctx context.Context) error {
	ticker := time.NewTicker(p.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		msgs, err := p.stream.FetchRecent(ctx, p.opts.FetchLimit)
		if err != nil {
			if errors.Is(err, stream.ErrUnreachable) {
				return err
			}
			p.log.Error().Err(err).Msg("fetching messages")
			continue
		}

		// Newest-first from the stream; act oldest-unseen-first.
		for i := len(msgs) - 1; i >= 0; i-- {
			msg := msgs[i]
			if msg.ID <= p.lastID {
				continue
			}
			p.lastID = msg.ID
			p.processMessage(ctx, msg)
		}
	}
}

func (p *Pipeline) processMessage(ctx context.Context, msg stream.Message) {
	p.log.Info().Int64("id", msg.ID).Str("text", preview(msg.Text)).Msg("new message")

	res := signal.Extract(msg.Text)
	switch {
	case res.SLUpdate != nil:
		p.log.Info().Float64("sl", res.SLUpdate.NewStopLoss).Msg("stop-loss update signal")
		if err := p.manager.UpdateStopLoss(ctx, res.SLUpdate.NewStopLoss); err != nil {
			p.log.Error().Err(err).Msg("stop-loss update")
		}

	case res.Intent != nil:
		intent := res.Intent
		ev := p.log.Info().Str("side", intent.Side.String()).Float64("sl", intent.StopLoss)
		if intent.IsRange() {
			ev = ev.Float64("range_low", intent.EntryRange.Low).Float64("range_high", intent.EntryRange.High)
		} else {
			ev = ev.Float64("entry", intent.EntryPrice)
		}
		ev.Msg("trade intent extracted")

		tracked, err := p.manager.SubmitPendingOrder(ctx, intent)
		if err != nil {
			// Deliberately no resubmission: a duplicate order is worse
			// than a missed signal.
			p.log.Error().Err(err).Msg("pending order submission")
			return
		}
		p.log.Info().Int64("ticket", tracked.Ticket).Float64("entry", tracked.EntryPrice).Msg("order tracked")

	default:
		p.log.Debug().Int64("id", msg.ID).Msg("message not actionable")
	}
}

func (p *Pipeline) reconcileLoop(ctx context.Context) {
	ticker := time.NewTicker(p.opts.ReconcileInterval)
	defer ticker.Stop()

	lastStatus := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := p.manager.Reconcile(ctx); err != nil {
			p.log.Error().Err(err).Msg("reconcile sweep")
			continue
		}

		if time.Since(lastStatus) >= p.opts.StatusInterval {
			lastStatus = time.Now()
			p.log.Info().Msg(p.manager.StatusReport())
		}
	}
}

func preview(s string) string {
	const max = 120
	if len(s) > max {
		return s[:max]
	}
	return s
}
