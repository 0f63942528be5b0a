package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ideabot/internal/core/domain"
)

const waitFor = 2 * time.Second

func commandUpdate(id int, chatID int64, text string) tgbotapi.Update {
	name := strings.SplitN(text, " ", 2)[0]
	return tgbotapi.Update{
		UpdateID: id,
		Message: &tgbotapi.Message{
			MessageID: 10 + id,
			From:      &tgbotapi.User{ID: 7},
			Chat:      &tgbotapi.Chat{ID: chatID},
			Text:      text,
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
		},
	}
}

func callbackUpdate(id int, chatID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: id,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      fmt.Sprintf("cb-%d", id),
			From:    &tgbotapi.User{ID: 7},
			Message: &tgbotapi.Message{MessageID: 99, Chat: &tgbotapi.Chat{ID: chatID}},
			Data:    data,
		},
	}
}

// startRunner runs r in the background and returns a stop function that
// cancels it and returns Run's error.
func startRunner(t *testing.T, r *Runner) func() error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case <-r.Ready():
	case err := <-done:
		cancel()
		t.Fatalf("runner exited early: %v", err)
	case <-time.After(waitFor):
		cancel()
		t.Fatal("runner not ready")
	}

	return func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(waitFor):
			t.Fatal("runner did not stop")
			return nil
		}
	}
}

func TestNewRunner_Defaults(t *testing.T) {
	r := NewRunner(newFakeBotAPI(), &mockBotService{}, Config{})

	assert.Equal(t, domain.DefaultWorkers, r.cfg.Workers)
	assert.Equal(t, DefaultPollTimeout, r.cfg.PollTimeout)
	assert.Equal(t, DefaultHandlerTimeout, r.cfg.HandlerTimeout)
	assert.Equal(t, DefaultShutdownTimeout, r.cfg.ShutdownTimeout)
	assert.Nil(t, r.Addr())
}

func TestRunner_Polling(t *testing.T) {
	api := newFakeBotAPI()
	bot := &mockBotService{}
	r := NewRunner(api, bot, Config{Workers: 2})
	stop := startRunner(t, r)

	api.updates <- commandUpdate(1, 42, "/start")
	api.updates <- callbackUpdate(2, 42, "category_tech")
	api.updates <- tgbotapi.Update{UpdateID: 3, Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 42}, Text: "hello"}}

	require.Eventually(t, func() bool {
		c, cb, _ := bot.counts()
		return c == 1 && cb == 1
	}, waitFor, 5*time.Millisecond)

	require.NoError(t, stop())

	bot.mu.Lock()
	assert.Equal(t, "start", bot.commands[0].Name)
	assert.Equal(t, int64(42), bot.commands[0].ChatID)
	assert.Equal(t, int64(7), bot.commands[0].UserID)
	assert.Equal(t, domain.Callback{ID: "cb-2", ChatID: 42, UserID: 7, MessageID: 99, Data: "category_tech"}, bot.callbacks[0])
	assert.Empty(t, bot.errors)
	bot.mu.Unlock()

	requests, stopped := api.snapshot()
	assert.True(t, stopped)
	require.Len(t, requests, 1)
	assert.IsType(t, tgbotapi.DeleteWebhookConfig{}, requests[0])
	assert.Equal(t, DefaultPollTimeout, api.pollCfg.Timeout)
}

func TestRunner_ClosedUpdatesChannelStops(t *testing.T) {
	api := newFakeBotAPI()
	r := NewRunner(api, &mockBotService{}, Config{Workers: 1})

	close(api.updates)

	assert.NoError(t, r.Run(context.Background()))
	assert.Error(t, r.Run(context.Background()))
}

func TestRunner_HandlerErrorIsReported(t *testing.T) {
	api := newFakeBotAPI()
	bot := &mockBotService{cmdErr: errors.New("llm down")}
	stop := startRunner(t, NewRunner(api, bot, Config{Workers: 1}))

	api.updates <- commandUpdate(5, 42, "/random")

	require.Eventually(t, func() bool {
		_, _, e := bot.counts()
		return e == 1
	}, waitFor, 5*time.Millisecond)
	require.NoError(t, stop())

	assert.Equal(t, int64(42), bot.errors[0].ChatID)
	assert.ErrorContains(t, bot.errors[0].Err, "llm down")
	assert.ErrorContains(t, bot.errors[0].Err, "update 5")
}

func TestRunner_RecoversFromPanic(t *testing.T) {
	api := newFakeBotAPI()
	bot := &mockBotService{}
	stop := startRunner(t, NewRunner(api, bot, Config{Workers: 1}))

	api.updates <- commandUpdate(1, 42, "/panic")
	api.updates <- commandUpdate(2, 42, "/help")

	require.Eventually(t, func() bool {
		c, _, e := bot.counts()
		return c == 1 && e == 1
	}, waitFor, 5*time.Millisecond)
	require.NoError(t, stop())

	assert.Equal(t, int64(42), bot.errors[0].ChatID)
	assert.ErrorContains(t, bot.errors[0].Err, "panic")
	assert.Equal(t, "help", bot.commands[0].Name)
}

func TestRunner_FinishesInFlightUpdates(t *testing.T) {
	api := newFakeBotAPI()
	bot := &mockBotService{release: make(chan struct{})}
	stop := startRunner(t, NewRunner(api, bot, Config{Workers: 1}))

	api.updates <- commandUpdate(1, 42, "/block")
	time.Sleep(20 * time.Millisecond)

	stopped := make(chan error, 1)
	go func() { stopped <- stop() }()

	time.Sleep(20 * time.Millisecond)
	close(bot.release)

	require.NoError(t, <-stopped)
	c, _, _ := bot.counts()
	require.Equal(t, 1, c)
	assert.NoError(t, bot.ctxErrs[0], "handler context must survive shutdown")
}

func webhookSettings() domain.TelegramSettings {
	return domain.TelegramSettings{
		Token:      "123:abc",
		WebhookURL: "https://bot.example.com/",
		Port:       0,
	}
}

func localURL(t *testing.T, r *Runner, path string) string {
	t.Helper()
	addr, ok := r.Addr().(*net.TCPAddr)
	require.True(t, ok)
	return fmt.Sprintf("http://127.0.0.1:%d%s", addr.Port, path)
}

func TestRunner_Webhook(t *testing.T) {
	api := newFakeBotAPI()
	bot := &mockBotService{}
	r := NewRunner(api, bot, Config{Telegram: webhookSettings(), Workers: 2})
	stop := startRunner(t, r)

	body := `{"update_id":9,"message":{"message_id":3,"date":0,"chat":{"id":42,"type":"private"},` +
		`"text":"/categories","entities":[{"type":"bot_command","offset":0,"length":11}]}}`
	resp, err := http.Post(localURL(t, r, "/123:abc"), "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(localURL(t, r, "/123:abc"), "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(localURL(t, r, HealthPath))
	require.NoError(t, err)
	health, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(health))

	resp, err = http.Get(localURL(t, r, "/wrong-token"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.Eventually(t, func() bool {
		c, _, _ := bot.counts()
		return c == 1
	}, waitFor, 5*time.Millisecond)
	require.NoError(t, stop())

	assert.Equal(t, "categories", bot.commands[0].Name)

	requests, stopped := api.snapshot()
	assert.False(t, stopped)
	require.Len(t, requests, 1)
	wh, ok := requests[0].(tgbotapi.WebhookConfig)
	require.True(t, ok)
	assert.Equal(t, "https://bot.example.com/123:abc", wh.URL.String())
}

func TestRunner_WebhookRegistrationFails(t *testing.T) {
	api := newFakeBotAPI()
	api.requestErr = errors.New("bad webhook")
	r := NewRunner(api, &mockBotService{}, Config{Telegram: webhookSettings(), Workers: 1})

	err := r.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set webhook")
}

func TestHealthRejectsPost(t *testing.T) {
	rec := httptest.NewRecorder()

	handleHealth(rec, httptest.NewRequest(http.MethodPost, HealthPath, nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestToCommand(t *testing.T) {
	update := commandUpdate(1, 42, "/random@idea_bot now please")
	update.Message.Entities[0].Length = len("/random@idea_bot")

	cmd, ok := toCommand(update)

	require.True(t, ok)
	assert.Equal(t, "random", cmd.Name)
	assert.Equal(t, "now please", cmd.Args)
	assert.Equal(t, 11, cmd.MessageID)

	_, ok = toCommand(tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}, Text: "hi"}})
	assert.False(t, ok)
	_, ok = toCommand(tgbotapi.Update{})
	assert.False(t, ok)
}

func TestToCallback_IgnoresInlineMessages(t *testing.T) {
	update := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "x", InlineMessageID: "inline", Data: "help"}}

	_, ok := toCallback(update)

	assert.False(t, ok)
	assert.Zero(t, chatOf(update))
}

func TestChatOf(t *testing.T) {
	assert.Equal(t, int64(42), chatOf(commandUpdate(1, 42, "/start")))
	assert.Equal(t, int64(43), chatOf(callbackUpdate(1, 43, "help")))
	assert.Zero(t, chatOf(tgbotapi.Update{}))
}
