// Package config loads the copier's configuration from YAML or JSON files,
// with secrets taken from the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/signalcopy/pricing"
)

// Config is the complete process configuration.
type Config struct {
	Trading TradingConfig `json:"trading" yaml:"trading"`
	Stream  StreamConfig  `json:"stream" yaml:"stream"`
	Venue   VenueConfig   `json:"venue" yaml:"venue"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// TradingConfig drives pricing and the order lifecycle.
type TradingConfig struct {
	Symbol        string  `json:"symbol" yaml:"symbol"`
	TargetProfit  float64 `json:"target_profit" yaml:"target_profit"`
	EntryStrategy string  `json:"entry_strategy" yaml:"entry_strategy"`
	CentralZone   float64 `json:"central_zone" yaml:"central_zone"`
	OrderExpiry   string  `json:"order_expiry,omitempty" yaml:"order_expiry,omitempty"` // e.g. "4h"
}

// StreamConfig configures the alert feed. The bot token is deliberately not
// a file field; it comes from TELEGRAM_BOT_TOKEN.
type StreamConfig struct {
	ChannelID    int64  `json:"channel_id" yaml:"channel_id"`
	PollInterval string `json:"poll_interval,omitempty" yaml:"poll_interval,omitempty"`
	FetchLimit   int    `json:"fetch_limit,omitempty" yaml:"fetch_limit,omitempty"`
}

// VenueConfig configures the order-bridge client.
type VenueConfig struct {
	BridgeURL         string `json:"bridge_url" yaml:"bridge_url"`
	Timeout           string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	RequestsPerSec    int    `json:"requests_per_sec,omitempty" yaml:"requests_per_sec,omitempty"`
	ReconcileInterval string `json:"reconcile_interval,omitempty" yaml:"reconcile_interval,omitempty"`
	StatusInterval    string `json:"status_interval,omitempty" yaml:"status_interval,omitempty"`
}

// JournalConfig selects the audit-journal backend.
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"` // "sqlite", "csv" or "none"
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	OrdersFile  string `json:"orders_file,omitempty" yaml:"orders_file,omitempty"`
	UpdatesFile string `json:"updates_file,omitempty" yaml:"updates_file,omitempty"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// LoadFromFile loads configuration from a file. YAML is tried first, JSON as
// fallback.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration, YAML for .yaml/.yml paths and
// indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Trading.Symbol == "" {
		return fmt.Errorf("trading.symbol is required")
	}
	if c.Trading.TargetProfit <= 0 {
		return fmt.Errorf("trading.target_profit must be positive")
	}
	switch strings.ToLower(strings.TrimSpace(c.Trading.EntryStrategy)) {
	case pricing.StrategyAuto, pricing.StrategyMin, pricing.StrategyMax:
	default:
		return fmt.Errorf("trading.entry_strategy must be auto, min or max")
	}
	if _, err := c.Durations(); err != nil {
		return err
	}
	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite journal")
		}
	case "csv":
		if c.Journal.OrdersFile == "" || c.Journal.UpdatesFile == "" {
			return fmt.Errorf("journal orders_file and updates_file required for csv journal")
		}
	case "none", "":
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv' or 'none'")
	}
	return nil
}

// Intervals are the parsed duration fields with defaults applied.
type Intervals struct {
	OrderExpiry       time.Duration
	PollInterval      time.Duration
	VenueTimeout      time.Duration
	ReconcileInterval time.Duration
	StatusInterval    time.Duration
}

// Durations parses every duration-valued string field, applying defaults
// for empty values.
func (c *Config) Durations() (Intervals, error) {
	iv := Intervals{
		OrderExpiry:       4 * time.Hour,
		PollInterval:      2 * time.Second,
		VenueTimeout:      10 * time.Second,
		ReconcileInterval: 30 * time.Second,
		StatusInterval:    5 * time.Minute,
	}
	for _, f := range []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"trading.order_expiry", c.Trading.OrderExpiry, &iv.OrderExpiry},
		{"stream.poll_interval", c.Stream.PollInterval, &iv.PollInterval},
		{"venue.timeout", c.Venue.Timeout, &iv.VenueTimeout},
		{"venue.reconcile_interval", c.Venue.ReconcileInterval, &iv.ReconcileInterval},
		{"venue.status_interval", c.Venue.StatusInterval, &iv.StatusInterval},
	} {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return iv, fmt.Errorf("%s: %w", f.name, err)
		}
		if d <= 0 {
			return iv, fmt.Errorf("%s must be positive", f.name)
		}
		*f.dst = d
	}
	return iv, nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Trading: TradingConfig{
			Symbol:        "XAUUSD",
			TargetProfit:  50,
			EntryStrategy: pricing.StrategyAuto,
			CentralZone:   0,
			OrderExpiry:   "4h",
		},
		Stream: StreamConfig{
			PollInterval: "2s",
			FetchLimit:   5,
		},
		Venue: VenueConfig{
			BridgeURL:         "http://127.0.0.1:8787",
			Timeout:           "10s",
			RequestsPerSec:    5,
			ReconcileInterval: "30s",
			StatusInterval:    "5m",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./signalcopy.sqlite",
		},
		Log: LogConfig{Level: "info"},
	}
}
