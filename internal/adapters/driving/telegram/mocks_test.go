package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/custodia-labs/ideabot/internal/core/domain"
	"github.com/custodia-labs/ideabot/internal/core/ports/driven"
)

// fakeBotAPI delivers updates from a channel the test controls.
type fakeBotAPI struct {
	updates    chan tgbotapi.Update
	requestErr error

	mu       sync.Mutex
	requests []tgbotapi.Chattable
	stopped  bool
	pollCfg  tgbotapi.UpdateConfig
}

func newFakeBotAPI() *fakeBotAPI {
	return &fakeBotAPI{updates: make(chan tgbotapi.Update, 10)}
}

func (f *fakeBotAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pollCfg = config
	return f.updates
}

func (f *fakeBotAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeBotAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBotAPI) HandleUpdate(r *http.Request) (*tgbotapi.Update, error) {
	if r.Method != http.MethodPost {
		return nil, errors.New("wrong HTTP method required POST")
	}
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		return nil, err
	}
	return &update, nil
}

func (f *fakeBotAPI) snapshot() ([]tgbotapi.Chattable, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.Chattable(nil), f.requests...), f.stopped
}

// handledError is one HandleError call.
type handledError struct {
	ChatID int64
	Err    error
}

// mockBotService records events. Commands named "panic" panic, and commands
// named "block" wait for release to be closed.
type mockBotService struct {
	cmdErr  error
	release chan struct{}

	mu        sync.Mutex
	commands  []domain.Command
	callbacks []domain.Callback
	errors    []handledError
	ctxErrs   []error
}

func (m *mockBotService) HandleCommand(ctx context.Context, cmd domain.Command) error {
	switch cmd.Name {
	case "panic":
		panic("boom")
	case "block":
		<-m.release
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = append(m.commands, cmd)
	m.ctxErrs = append(m.ctxErrs, ctx.Err())
	return m.cmdErr
}

func (m *mockBotService) HandleCallback(_ context.Context, cb domain.Callback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)
	return nil
}

func (m *mockBotService) HandleError(_ context.Context, chatID int64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, handledError{ChatID: chatID, Err: err})
}

func (m *mockBotService) Commands() []driven.BotCommand {
	return nil
}

func (m *mockBotService) counts() (commands, callbacks, errs int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.commands), len(m.callbacks), len(m.errors)
}
