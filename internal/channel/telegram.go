// Package channel provides the Telegram transport. It long-polls the Bot
// API, routes text messages through the responder, and answers commands and
// non-text content with fixed persona lines.
package channel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramMessageLimit is the Bot API cap on one outbound message.
const telegramMessageLimit = 4096

// interChunkDelay spaces consecutive sends of one chunked reply.
const interChunkDelay = 500 * time.Millisecond

// Responder produces chat replies. It is implemented by the pipeline.
type Responder interface {
	Respond(ctx context.Context, externalID, displayName, text string) string
	Greeting() string
	Help() string
	MediaDeflection() string
}

// Bot runs the Telegram long-poll loop.
type Bot struct {
	api       *tgbotapi.BotAPI
	responder Responder
}

// NewBot connects to the Bot API with the given token.
func NewBot(token string, debug bool, responder Responder) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}
	api.Debug = debug
	slog.Info("telegram bot authorized", "username", api.Self.UserName)
	return &Bot{api: api, responder: responder}, nil
}

// Run polls for updates until the context is cancelled. Each message is
// handled in its own goroutine so one slow provider chain does not stall
// the poll loop.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 60

	updates := b.api.GetUpdatesChan(cfg)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			msg := update.Message
			go func() {
				reply := b.replyFor(ctx, msg)
				b.send(msg.Chat.ID, reply)
			}()
		}
	}
}

// replyFor picks the reply for one inbound message: command lines, the
// media deflection, or a full pipeline turn for text.
func (b *Bot) replyFor(ctx context.Context, msg *tgbotapi.Message) string {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			return b.responder.Greeting()
		case "help":
			return b.responder.Help()
		default:
			return b.responder.Help()
		}
	}
	if msg.Text == "" {
		return b.responder.MediaDeflection()
	}
	return b.responder.Respond(ctx, externalID(msg), displayName(msg), msg.Text)
}

func (b *Bot) send(chatID int64, text string) {
	err := sendChunks(chunkMessage(text, telegramMessageLimit), func(chunk string) error {
		_, sendErr := b.api.Send(tgbotapi.NewMessage(chatID, chunk))
		return sendErr
	}, time.Sleep)
	if err != nil {
		slog.Error("telegram send failed", "chat_id", chatID, "error", err)
	}
}

// sendChunks delivers chunks in order, pausing between consecutive sends.
// It stops at the first send error.
func sendChunks(chunks []string, send func(string) error, pause func(time.Duration)) error {
	for i, chunk := range chunks {
		if i > 0 {
			pause(interChunkDelay)
		}
		if err := send(chunk); err != nil {
			return err
		}
	}
	return nil
}

// externalID is the stable store key for a Telegram sender.
func externalID(msg *tgbotapi.Message) string {
	if msg.From != nil {
		return fmt.Sprintf("tg:%d", msg.From.ID)
	}
	return fmt.Sprintf("tg:chat:%d", msg.Chat.ID)
}

func displayName(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return ""
	}
	if msg.From.FirstName != "" {
		return msg.From.FirstName
	}
	return msg.From.UserName
}

// chunkMessage splits text into pieces of at most limit runes, breaking on
// rune boundaries so multibyte characters never split across chunks.
func chunkMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}
	var chunks []string
	for len(runes) > limit {
		chunks = append(chunks, string(runes[:limit]))
		runes = runes[limit:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
