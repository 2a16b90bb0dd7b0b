// Package telegram adapts the Telegram Bot API to the stream.Stream
// interface. Channel posts from the configured chat become stream messages;
// their Telegram message IDs are monotonic per chat, which is exactly the
// ordering contract the pipeline needs.
package telegram

import (
	"context"
	"fmt"
	"sort"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/signalcopy/stream"
)

type Client struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	offset int // next update offset for getUpdates
	logger zerolog.Logger
}

// New authenticates against the Bot API. The bot must be a member of the
// alert channel so channel posts reach it through getUpdates.
func New(token string, chatID int64) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", stream.ErrUnreachable, err)
	}

	c := &Client{
		bot:    bot,
		chatID: chatID,
		logger: log.With().Str("component", "telegram").Logger(),
	}
	c.logger.Info().Str("bot", bot.Self.UserName).Int64("chat", chatID).Msg("connected to telegram")
	return c, nil
}

// FetchRecent drains pending updates and returns the channel posts as
// messages, newest first.
func (c *Client) FetchRecent(ctx context.Context, limit int) ([]stream.Message, error) {
	if limit <= 0 {
		limit = 5
	}

	req := tgbotapi.NewUpdate(c.offset)
	req.Limit = limit
	req.Timeout = 0

	updates, err := c.bot.GetUpdates(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", stream.ErrUnreachable, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, u := range updates {
		if u.UpdateID >= c.offset {
			c.offset = u.UpdateID + 1
		}
	}

	return MessagesFromUpdates(updates, c.chatID), nil
}

// MessagesFromUpdates maps raw updates to stream messages for one chat,
// newest first. Split out so the mapping is testable without the network.
func MessagesFromUpdates(updates []tgbotapi.Update, chatID int64) []stream.Message {
	var out []stream.Message
	for _, u := range updates {
		msg := u.ChannelPost
		if msg == nil {
			msg = u.Message
		}
		if msg == nil || msg.Chat == nil || msg.Chat.ID != chatID || msg.Text == "" {
			continue
		}
		out = append(out, stream.Message{ID: int64(msg.MessageID), Text: msg.Text})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}
