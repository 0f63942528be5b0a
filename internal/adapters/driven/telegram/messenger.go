package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/custodia-labs/ideabot/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/ideabot/internal/core/domain"
	"github.com/custodia-labs/ideabot/internal/core/ports/driven"
	"github.com/custodia-labs/ideabot/internal/logger"
)

// Ensure Messenger implements the interface.
var _ driven.Messenger = (*Messenger)(nil)

// Telegram allows about 30 messages per second across all chats.
const (
	DefaultPerSecond = 30
	DefaultBurst     = 30
)

// Error descriptions returned by the Bot API.
const (
	descParseEntities = "can't parse entities"
	descNotModified   = "message is not modified"
)

// BotAPI is the subset of *tgbotapi.BotAPI used to send requests.
type BotAPI interface {
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Messenger sends messages through the Telegram Bot API.
type Messenger struct {
	api      BotAPI
	throttle *ratelimit.Throttle
}

// NewMessenger creates a messenger. A nil throttle uses the Bot API defaults.
func NewMessenger(api BotAPI, throttle *ratelimit.Throttle) *Messenger {
	if throttle == nil {
		throttle = ratelimit.NewThrottle(DefaultPerSecond, DefaultBurst)
	}
	return &Messenger{api: api, throttle: throttle}
}

// Connect authenticates with Telegram and returns the API client.
// An empty endpoint uses the public Bot API.
func Connect(token, endpoint string, client *http.Client) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, domain.ErrBotTokenMissing
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
			return nil, fmt.Errorf("telegram: %w: token rejected", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}

	logger.Info("Authorized on account @%s", api.Self.UserName)
	return api, nil
}

// Send posts a new message and returns its message ID.
func (m *Messenger) Send(ctx context.Context, msg domain.Message) (int, error) {
	cfg := tgbotapi.NewMessage(msg.ChatID, msg.Text)
	if msg.Markdown {
		cfg.ParseMode = tgbotapi.ModeMarkdownV2
	}
	if markup, ok := inlineMarkup(msg.Keyboard); ok {
		cfg.ReplyMarkup = markup
	}

	if err := m.throttle.Wait(ctx); err != nil {
		return 0, err
	}
	sent, err := m.api.Send(cfg)
	if err != nil {
		return 0, m.mapError("send", err)
	}
	return sent.MessageID, nil
}

// Edit replaces the text and keyboard of an existing message.
// An empty keyboard removes the existing one.
func (m *Messenger) Edit(ctx context.Context, messageID int, msg domain.Message) error {
	cfg := tgbotapi.NewEditMessageText(msg.ChatID, messageID, msg.Text)
	if msg.Markdown {
		cfg.ParseMode = tgbotapi.ModeMarkdownV2
	}
	if markup, ok := inlineMarkup(msg.Keyboard); ok {
		cfg.ReplyMarkup = &markup
	}

	return m.request(ctx, "edit", cfg)
}

// Delete removes a message.
func (m *Messenger) Delete(ctx context.Context, chatID int64, messageID int) error {
	return m.request(ctx, "delete", tgbotapi.NewDeleteMessage(chatID, messageID))
}

// AnswerCallback acknowledges a button press, optionally showing text.
func (m *Messenger) AnswerCallback(ctx context.Context, callbackID, text string) error {
	return m.request(ctx, "answer callback", tgbotapi.NewCallback(callbackID, text))
}

// SetCommands registers the command menu shown by chat clients.
func (m *Messenger) SetCommands(ctx context.Context, commands []driven.BotCommand) error {
	cmds := make([]tgbotapi.BotCommand, 0, len(commands))
	for _, c := range commands {
		cmds = append(cmds, tgbotapi.BotCommand{Command: c.Command, Description: c.Description})
	}
	return m.request(ctx, "set commands", tgbotapi.NewSetMyCommands(cmds...))
}

func (m *Messenger) request(ctx context.Context, op string, c tgbotapi.Chattable) error {
	if err := m.throttle.Wait(ctx); err != nil {
		return err
	}
	if _, err := m.api.Request(c); err != nil {
		return m.mapError(op, err)
	}
	return nil
}

// mapError translates Bot API failures into domain errors.
func (m *Messenger) mapError(op string, err error) error {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("telegram: %s: %w", op, err)
	}

	desc := strings.ToLower(apiErr.Message)
	switch {
	case apiErr.Code == http.StatusTooManyRequests || apiErr.RetryAfter > 0:
		retryAfter := time.Duration(apiErr.RetryAfter) * time.Second
		m.throttle.Backoff(retryAfter)
		logger.Warn("Telegram flood control on %s, backing off %s", op, retryAfter)
		return fmt.Errorf("telegram: %s: %w: %s", op, domain.ErrRateLimited, apiErr.Message)
	case strings.Contains(desc, descParseEntities):
		return fmt.Errorf("telegram: %s: %w: %s", op, domain.ErrMarkupRejected, apiErr.Message)
	case strings.Contains(desc, descNotModified):
		return fmt.Errorf("telegram: %s: %w", op, domain.ErrMessageNotModified)
	default:
		return fmt.Errorf("telegram: %s: %w", op, err)
	}
}

// inlineMarkup converts a keyboard. ok is false for an empty keyboard.
func inlineMarkup(k domain.Keyboard) (tgbotapi.InlineKeyboardMarkup, bool) {
	if k.IsEmpty() {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(k))
	for _, row := range k {
		if len(row) == 0 {
			continue
		}
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}
