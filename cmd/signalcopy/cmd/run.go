package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/signalcopy/config"
	"github.com/rustyeddy/signalcopy/journal"
	"github.com/rustyeddy/signalcopy/orders"
	"github.com/rustyeddy/signalcopy/pipeline"
	"github.com/rustyeddy/signalcopy/pricing"
	"github.com/rustyeddy/signalcopy/stream"
	"github.com/rustyeddy/signalcopy/stream/replay"
	"github.com/rustyeddy/signalcopy/stream/telegram"
	"github.com/rustyeddy/signalcopy/venue"
	"github.com/rustyeddy/signalcopy/venue/bridge"
	"github.com/rustyeddy/signalcopy/venue/sim"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the copier against the configured channel and venue",
	Long: `Run starts the signal pipeline: poll the alert channel, place pending
orders for each actionable message, and reconcile tracked orders against the
venue on a background cadence.

With --dry-run, alerts are read from a script file (one message per line) and
orders go to an in-memory venue instead of the bridge.

Example:
  signalcopy run -f config.yaml
  signalcopy run -f config.yaml --dry-run --script alerts.txt`,
	RunE: runRun,
}

var (
	runConfigPath string
	runDry        bool
	runScript     string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().BoolVar(&runDry, "dry-run", false, "use a scripted feed and an in-memory venue")
	runCmd.Flags().StringVar(&runScript, "script", "", "alert script file for --dry-run")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, relying on actual environment variables")
	}

	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	iv, _ := cfg.Durations()

	setupLogging(cfg.Log.Level)

	j, err := buildJournal(cfg)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	v, err := buildVenue(cfg, iv)
	if err != nil {
		return err
	}

	mgr := orders.New(orders.Config{
		Symbol:       cfg.Trading.Symbol,
		TargetProfit: cfg.Trading.TargetProfit,
		Policy: pricing.Policy{
			Strategy:          cfg.Trading.EntryStrategy,
			CentralZoneOffset: cfg.Trading.CentralZone,
		},
		OrderExpiry: iv.OrderExpiry,
	}, v, j)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("symbol", cfg.Trading.Symbol).
		Float64("target_profit", cfg.Trading.TargetProfit).
		Str("entry_strategy", cfg.Trading.EntryStrategy).
		Bool("dry_run", runDry).
		Msg("signalcopy starting")

	// The pipeline surfaces connectivity failures and nothing else; wrap a
	// reconnect policy around it so a flapping feed does not kill the
	// process.
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 0

	operation := func() error {
		src, err := buildStream(cfg)
		if err != nil {
			return err
		}

		p := pipeline.New(src, mgr, pipeline.Options{
			PollInterval:      iv.PollInterval,
			FetchLimit:        cfg.Stream.FetchLimit,
			ReconcileInterval: iv.ReconcileInterval,
			StatusInterval:    iv.StatusInterval,
		})
		if !runDry {
			if err := p.Prime(ctx); err != nil {
				return err
			}
		}
		return p.Run(ctx)
	}

	err = backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}
		if errors.Is(err, stream.ErrUnreachable) {
			log.Warn().Err(err).Msg("stream connection lost, reconnecting")
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(policy, ctx))

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("signalcopy stopped")
	return nil
}

func setupLogging(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func buildJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	case "csv":
		return journal.NewCSV(cfg.Journal.OrdersFile, cfg.Journal.UpdatesFile)
	default:
		return journal.Noop{}, nil
	}
}

func buildVenue(cfg *config.Config, iv config.Intervals) (venue.Venue, error) {
	if runDry {
		v := sim.New()
		// Seed a gold-like quote so classification and TP math have
		// something to work against without a live feed.
		v.SetQuote(pricing.Tick{Symbol: cfg.Trading.Symbol, Bid: 1999.80, Ask: 2000.20, Time: time.Now()})
		v.SetTickInfo(venue.TickInfo{Value: 1.0, Size: 0.01})
		return v, nil
	}
	return bridge.New(bridge.Options{
		BaseURL:        cfg.Venue.BridgeURL,
		Timeout:        iv.VenueTimeout,
		RequestsPerSec: cfg.Venue.RequestsPerSec,
	}), nil
}

func buildStream(cfg *config.Config) (stream.Stream, error) {
	if runDry {
		if runScript == "" {
			return nil, fmt.Errorf("--dry-run requires --script")
		}
		return replay.Load(runScript)
	}

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	return telegram.New(token, cfg.Stream.ChannelID)
}
