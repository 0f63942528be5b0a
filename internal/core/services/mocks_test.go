package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/ideabot/internal/core/domain"
	"github.com/custodia-labs/ideabot/internal/core/ports/driven"
)

// mockLLMService records chat requests and returns a canned response.
type mockLLMService struct {
	response string
	err      error
	model    string

	mu       sync.Mutex
	messages [][]driven.ChatMessage
	opts     []driven.ChatOptions
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	return m.response, m.err
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, messages)
	m.opts = append(m.opts, opts)
	return m.response, m.err
}

func (m *mockLLMService) ModelName() string {
	if m.model == "" {
		return "mock-model"
	}
	return m.model
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return m.err
}

func (m *mockLLMService) Close() error {
	return nil
}

func (m *mockLLMService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// mockPromptStore serves prompts from a map.
type mockPromptStore struct {
	prompts  map[string]string
	reloaded int
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {
	m.reloaded++
}

// failingIdeaStore rejects every write.
type failingIdeaStore struct{}

var errStoreDown = errors.New("store down")

func (failingIdeaStore) Save(context.Context, *domain.Idea) error { return errStoreDown }

func (failingIdeaStore) Get(context.Context, string) (*domain.Idea, error) {
	return nil, errStoreDown
}

func (failingIdeaStore) ListByChat(context.Context, int64, int) ([]domain.Idea, error) {
	return nil, errStoreDown
}

func (failingIdeaStore) Stats(context.Context) (*domain.IdeaStats, error) { return nil, errStoreDown }

func (failingIdeaStore) Close() error { return nil }

// sentMessage is one Messenger call captured by mockMessenger.
type sentMessage struct {
	Op        string
	MessageID int
	Msg       domain.Message
}

// mockMessenger captures outgoing messages. Errors can be scripted per call
// index through sendErrs and editErrs.
type mockMessenger struct {
	mu       sync.Mutex
	calls    []sentMessage
	answers  map[string]string
	deleted  []int
	commands []driven.BotCommand

	sendErrs  []error
	editErrs  []error
	deleteErr error
	nextID    int
}

func newMockMessenger() *mockMessenger {
	return &mockMessenger{answers: map[string]string{}, nextID: 100}
}

func (m *mockMessenger) Send(_ context.Context, msg domain.Message) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, sentMessage{Op: "send", Msg: msg})
	if err := popErr(&m.sendErrs); err != nil {
		return 0, err
	}
	m.nextID++
	return m.nextID, nil
}

func (m *mockMessenger) Edit(_ context.Context, messageID int, msg domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, sentMessage{Op: "edit", MessageID: messageID, Msg: msg})
	return popErr(&m.editErrs)
}

func (m *mockMessenger) Delete(_ context.Context, _ int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, messageID)
	return m.deleteErr
}

func (m *mockMessenger) AnswerCallback(_ context.Context, callbackID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers[callbackID] = text
	return nil
}

func (m *mockMessenger) SetCommands(_ context.Context, commands []driven.BotCommand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = commands
	return nil
}

func (m *mockMessenger) last() sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[len(m.calls)-1]
}

func popErr(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

// mockRateLimiter allows a fixed number of events per key.
type mockRateLimiter struct {
	limit int
	seen  map[string]int
}

func (m *mockRateLimiter) Allow(key string) bool {
	if m.seen == nil {
		m.seen = map[string]int{}
	}
	m.seen[key]++
	return m.seen[key] <= m.limit
}

// mockAIValidator records validated settings.
type mockAIValidator struct {
	err      error
	received *domain.LLMSettings
}

func (m *mockAIValidator) ValidateLLM(settings *domain.LLMSettings) error {
	m.received = settings
	return m.err
}
