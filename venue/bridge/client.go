// Package bridge is a Venue implementation backed by a local MT5-style order
// bridge exposing a small REST surface. The bridge serializes its own
// terminal requests; this client only paces and bounds them.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/rustyeddy/signalcopy/pricing"
	"github.com/rustyeddy/signalcopy/venue"
)

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

type Options struct {
	BaseURL        string
	Timeout        time.Duration
	RequestsPerSec int
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = 5
	}
	return &Client{
		baseURL: opts.BaseURL,
		http:    &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.RequestsPerSec),
		logger:  log.With().Str("component", "venue_bridge").Logger(),
	}
}

// rejection is the bridge's error payload for refused trade requests.
type rejection struct {
	Retcode int    `json:"retcode"`
	Comment string `json:"comment"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("bridge url: %w", err)
	}
	u.Path = path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("bridge request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusConflict {
		var rej rejection
		if json.Unmarshal(raw, &rej) == nil && rej.Retcode != 0 {
			return &venue.RejectedError{Code: rej.Retcode, Reason: rej.Comment}
		}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bridge http %d: %s", resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) CurrentPrice(ctx context.Context, symbol string) (pricing.Tick, error) {
	var dto struct {
		Bid  float64 `json:"bid"`
		Ask  float64 `json:"ask"`
		Time int64   `json:"time"`
	}
	q := url.Values{"symbol": {symbol}}
	if err := c.do(ctx, http.MethodGet, "/v1/tick", q, nil, &dto); err != nil {
		return pricing.Tick{}, err
	}
	return pricing.Tick{
		Symbol: symbol,
		Time:   time.Unix(dto.Time, 0),
		Bid:    dto.Bid,
		Ask:    dto.Ask,
	}, nil
}

func (c *Client) MinVolume(ctx context.Context, symbol string) (float64, error) {
	info, err := c.symbolInfo(ctx, symbol)
	if err != nil {
		return 0, err
	}
	return info.VolumeMin, nil
}

func (c *Client) TickInfo(ctx context.Context, symbol string) (venue.TickInfo, error) {
	info, err := c.symbolInfo(ctx, symbol)
	if err != nil {
		return venue.TickInfo{}, err
	}
	if info.TickValue == 0 || info.TickSize == 0 {
		return venue.TickInfo{}, fmt.Errorf("bridge: no tick metadata for %s", symbol)
	}
	return venue.TickInfo{Value: info.TickValue, Size: info.TickSize}, nil
}

type symbolInfo struct {
	VolumeMin float64 `json:"volume_min"`
	TickValue float64 `json:"tick_value"`
	TickSize  float64 `json:"tick_size"`
}

func (c *Client) symbolInfo(ctx context.Context, symbol string) (symbolInfo, error) {
	var dto symbolInfo
	q := url.Values{"symbol": {symbol}}
	err := c.do(ctx, http.MethodGet, "/v1/symbol", q, nil, &dto)
	return dto, err
}

func (c *Client) SubmitPendingOrder(ctx context.Context, req venue.PendingOrderRequest) (venue.OrderTicket, error) {
	body := map[string]any{
		"symbol":     req.Symbol,
		"type":       req.Kind.String(),
		"volume":     req.Volume,
		"price":      req.Price,
		"sl":         req.StopLoss,
		"tp":         req.TakeProfit,
		"expiration": req.Expiration.Unix(),
	}
	var dto struct {
		Ticket int64   `json:"ticket"`
		Price  float64 `json:"price"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/orders", nil, body, &dto); err != nil {
		return venue.OrderTicket{}, err
	}
	c.logger.Debug().Int64("ticket", dto.Ticket).Str("kind", req.Kind.String()).Msg("pending order accepted")
	return venue.OrderTicket{ID: dto.Ticket, Price: dto.Price}, nil
}

func (c *Client) ModifyOrder(ctx context.Context, ticket int64, price, sl, tp float64) error {
	body := map[string]any{"price": price, "sl": sl, "tp": tp}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/orders/%d/modify", ticket), nil, body, nil)
}

func (c *Client) ModifyPosition(ctx context.Context, ticket int64, sl, tp float64) error {
	body := map[string]any{"sl": sl, "tp": tp}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/positions/%d/modify", ticket), nil, body, nil)
}

func (c *Client) WorkingOrders(ctx context.Context, symbol string) ([]venue.WorkingOrder, error) {
	var dto []struct {
		Ticket    int64   `json:"ticket"`
		OpenPrice float64 `json:"price_open"`
		SL        float64 `json:"sl"`
		TP        float64 `json:"tp"`
	}
	q := url.Values{"symbol": {symbol}}
	if err := c.do(ctx, http.MethodGet, "/v1/orders", q, nil, &dto); err != nil {
		return nil, err
	}
	out := make([]venue.WorkingOrder, 0, len(dto))
	for _, o := range dto {
		out = append(out, venue.WorkingOrder{
			Ticket:     o.Ticket,
			Symbol:     symbol,
			OpenPrice:  o.OpenPrice,
			StopLoss:   o.SL,
			TakeProfit: o.TP,
		})
	}
	return out, nil
}

func (c *Client) OpenPositions(ctx context.Context, symbol string) ([]venue.Position, error) {
	var dto []struct {
		Ticket int64   `json:"ticket"`
		SL     float64 `json:"sl"`
		TP     float64 `json:"tp"`
	}
	q := url.Values{"symbol": {symbol}}
	if err := c.do(ctx, http.MethodGet, "/v1/positions", q, nil, &dto); err != nil {
		return nil, err
	}
	out := make([]venue.Position, 0, len(dto))
	for _, p := range dto {
		out = append(out, venue.Position{
			Ticket:     p.Ticket,
			Symbol:     symbol,
			StopLoss:   p.SL,
			TakeProfit: p.TP,
		})
	}
	return out, nil
}
