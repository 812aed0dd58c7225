package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/tidwall/pretty"

	"tgrelay/pkg/config"
	"tgrelay/pkg/relay"
)

const unitName = "telegram"

// chatSender is the slice of the Telegram API the bot writes back through.
// *telego.Bot satisfies it; tests substitute a recorder.
type chatSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	SendPhoto(ctx context.Context, params *telego.SendPhotoParams) (*telego.Message, error)
	SendVideo(ctx context.Context, params *telego.SendVideoParams) (*telego.Message, error)
}

// Bot is the chat-side unit: it long-polls Telegram for updates and runs
// each message through normalize → forward → success-gated echo and media
// resend. Per-event failures are swallowed; the loop keeps going.
type Bot struct {
	cfg       config.Config
	forwarder *relay.Forwarder
	log       *slog.Logger
}

// NewBot validates bot configuration and constructs the unit.
func NewBot(cfg config.Config, forwarder *relay.Forwarder, log *slog.Logger) (*Bot, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is required")
	}
	if forwarder == nil {
		return nil, errors.New("forwarder is required")
	}

	if log == nil {
		log = slog.Default()
	}

	return &Bot{
		cfg:       cfg,
		forwarder: forwarder,
		log:       log.With("component", "channel.telegram"),
	}, nil
}

// Name returns the unit identifier used by the supervisor and logs.
func (b *Bot) Name() string {
	return unitName
}

// Run starts Telegram long polling and handles updates until the context
// is cancelled. Each update is handled to completion before the next one.
func (b *Bot) Run(ctx context.Context) error {
	bot, err := telego.NewBot(strings.TrimSpace(b.cfg.Token))
	if err != nil {
		return fmt.Errorf("initialize telegram bot: %w", err)
	}

	updates, err := bot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return fmt.Errorf("start long polling: %w", err)
	}

	b.log.Info("Telegram channel started", "send_to", b.cfg.SendTo)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("telegram updates channel closed")
			}

			message := update.Message
			if message == nil {
				continue
			}
			if !b.chatAllowed(message.Chat.ID) {
				continue
			}

			b.handleMessage(ctx, bot, message)
		}
	}
}

// chatAllowed checks the optional chat filter. Zero means all chats.
func (b *Bot) chatAllowed(chatID int64) bool {
	return b.cfg.ChatID == 0 || b.cfg.ChatID == chatID
}

func (b *Bot) handleMessage(ctx context.Context, sender chatSender, message *telego.Message) {
	requestID := uuid.NewString()

	record, err := relay.Normalize(message)
	if err != nil {
		b.log.Debug("Skipping event", "request_id", requestID, "error", err)
		return
	}

	b.log.Info("Received message",
		"request_id", requestID,
		"chat_id", record.ChatID,
		"sender_id", record.SenderID,
		"message_id", record.MessageID)

	outcome := b.forwarder.Forward(ctx, record)
	if !outcome.Delivered {
		return
	}

	b.echoRecord(ctx, sender, message.Chat.ID, record, requestID)
	b.resendMedia(ctx, sender, message.Chat.ID, record, requestID)
}

// echoRecord posts the forwarded record back into the chat as a pretty
// JSON code block.
func (b *Bot) echoRecord(ctx context.Context, sender chatSender, chatID int64, record relay.Message, requestID string) {
	body, err := json.Marshal(record)
	if err != nil {
		b.log.Debug("Failed to serialize echo", "request_id", requestID, "error", err)
		return
	}

	text := "```json\n" + string(pretty.Pretty(body)) + "```"
	params := tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeMarkdown)
	if _, err := sender.SendMessage(ctx, params); err != nil {
		b.log.Debug("Failed to echo record", "request_id", requestID, "error", err)
	}
}

// resendMedia sends the selected image variants and the video back into
// the chat by file id.
func (b *Bot) resendMedia(ctx context.Context, sender chatSender, chatID int64, record relay.Message, requestID string) {
	for _, image := range record.Images {
		fileID := image.FileID()
		if fileID == "" {
			continue
		}

		if _, err := sender.SendPhoto(ctx, tu.Photo(tu.ID(chatID), tu.FileFromID(fileID))); err != nil {
			b.log.Debug("Failed to resend photo", "request_id", requestID, "file_id", fileID, "error", err)
		}
	}

	if fileID := record.Video.FileID(); fileID != "" {
		if _, err := sender.SendVideo(ctx, tu.Video(tu.ID(chatID), tu.FileFromID(fileID))); err != nil {
			b.log.Debug("Failed to resend video", "request_id", requestID, "file_id", fileID, "error", err)
		}
	}
}
