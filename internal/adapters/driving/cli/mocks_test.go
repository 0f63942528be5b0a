package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ideabot/internal/core/domain"
	"github.com/custodia-labs/ideabot/internal/core/ports/driven"
	"github.com/custodia-labs/ideabot/internal/core/ports/driving"
	"github.com/custodia-labs/ideabot/internal/logger"
)

// mockSettingsService serves fixed settings and records changes.
type mockSettingsService struct {
	settings       domain.AppSettings
	getErr         error
	validateErr    error
	validateLLMErr error

	llmProvider domain.AIProvider
	llmModel    string
	llmKey      string
	telegram    []any
	rateLimit   []int
}

func newMockSettingsService() *mockSettingsService {
	settings := domain.DefaultAppSettings()
	settings.Telegram.Token = "123456:ABCDEFGHIJ"
	settings.LLM.APIKey = "gemini-secret-key"
	return &mockSettingsService{settings: settings}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.llmProvider, m.llmModel, m.llmKey = provider, model, apiKey
	return nil
}

func (m *mockSettingsService) SetTelegram(token, webhookURL string, port int) error {
	m.telegram = []any{token, webhookURL, port}
	return nil
}

func (m *mockSettingsService) SetRateLimit(perMinute, burst int) error {
	m.rateLimit = []int{perMinute, burst}
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.validateLLMErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

// mockIdeaService generates canned ideas.
type mockIdeaService struct {
	generateErr error
	history     []domain.Idea
	historyErr  error
	stats       *domain.IdeaStats

	requests     []driving.IdeaRequest
	historyChat  int64
	historyLimit int
}

func (m *mockIdeaService) Categories() []domain.Category { return domain.Categories() }

func (m *mockIdeaService) RandomCategory() domain.Category { return domain.Categories()[1] }

func (m *mockIdeaService) Generate(_ context.Context, req driving.IdeaRequest) (*domain.Idea, error) {
	m.requests = append(m.requests, req)
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	if _, ok := domain.LookupCategory(req.CategoryKey); !ok {
		return nil, domain.ErrUnknownCategory
	}
	return &domain.Idea{
		ID:            "idea-1",
		CategoryKey:   req.CategoryKey,
		CategoryLabel: domain.CategoryLabel(req.CategoryKey),
		Text:          "*🚀 Business Idea: Widgets*",
		Model:         "mock-model",
		Random:        req.Random,
	}, nil
}

func (m *mockIdeaService) History(_ context.Context, chatID int64, limit int) ([]domain.Idea, error) {
	m.historyChat, m.historyLimit = chatID, limit
	return m.history, m.historyErr
}

func (m *mockIdeaService) Stats(context.Context) (*domain.IdeaStats, error) {
	if m.stats == nil {
		return &domain.IdeaStats{ByCategory: map[string]int{}}, nil
	}
	return m.stats, nil
}

// mockBotService only provides the command menu.
type mockBotService struct {
	messenger driven.Messenger
}

func (m *mockBotService) HandleCommand(context.Context, domain.Command) error { return nil }

func (m *mockBotService) HandleCallback(context.Context, domain.Callback) error { return nil }

func (m *mockBotService) HandleError(context.Context, int64, error) {}

func (m *mockBotService) Commands() []driven.BotCommand {
	return []driven.BotCommand{{Command: "start", Description: "Main menu"}}
}

// fakeTelegramAPI ends polling immediately and records requests.
type fakeTelegramAPI struct {
	mu       sync.Mutex
	requests []tgbotapi.Chattable
	stopped  bool
}

func (f *fakeTelegramAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	ch := make(chan tgbotapi.Update)
	close(ch)
	return ch
}

func (f *fakeTelegramAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeTelegramAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeTelegramAPI) HandleUpdate(*http.Request) (*tgbotapi.Update, error) {
	return nil, errors.New("not used")
}

func (f *fakeTelegramAPI) Send(tgbotapi.Chattable) (tgbotapi.Message, error) {
	return tgbotapi.Message{}, nil
}

func (f *fakeTelegramAPI) sent() []tgbotapi.Chattable {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.Chattable(nil), f.requests...)
}

// testEnv holds the mocks installed by setupTestServices.
type testEnv struct {
	settings *mockSettingsService
	ideas    *mockIdeaService
	bot      *mockBotService
}

// setupTestServices installs mocks and restores package state afterwards.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		settings: newMockSettingsService(),
		ideas:    &mockIdeaService{},
		bot:      &mockBotService{},
	}
	SetServices(&Services{
		Settings: env.settings,
		Ideas:    env.ideas,
		NewBot: func(m driven.Messenger) driving.BotService {
			env.bot.messenger = m
			return env.bot
		},
	})

	oldConnect := connectTelegram
	t.Cleanup(func() {
		SetServices(nil)
		SetBootstrap(nil)
		rootOpts = Options{}
		stdin = os.Stdin
		connectTelegram = oldConnect
		logger.SetVerbose(false)
		_ = generateCmd.Flags().Set("raw", "false")
		_ = historyCmd.Flags().Set("limit", "10")
	})
	return env
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()

	// Cobra keeps the first context it sees on each command.
	setContext(rootCmd, ctx)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

func setContext(cmd *cobra.Command, ctx context.Context) {
	cmd.SetContext(ctx)
	for _, sub := range cmd.Commands() {
		setContext(sub, ctx)
	}
}

// captureLogs redirects logger output for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	logger.SetOutput(buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
	return buf
}
