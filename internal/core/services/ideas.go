package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ideabot/internal/core/domain"
	"github.com/custodia-labs/ideabot/internal/core/ports/driven"
	"github.com/custodia-labs/ideabot/internal/core/ports/driving"
	"github.com/custodia-labs/ideabot/internal/logger"
)

// Ensure IdeaService implements the interface.
var _ driving.IdeaService = (*IdeaService)(nil)

// ideaTemperature favours varied ideas over deterministic ones.
const ideaTemperature = 0.9

// IdeaService generates business ideas with an LLM and records them.
type IdeaService struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	store   driven.IdeaStore

	// Replaceable for tests.
	newID func() string
	now   func() time.Time
	pick  func(n int) int
}

// NewIdeaService creates a new idea service.
// prompts and store may be nil. A nil llm makes Generate return
// domain.ErrLLMUnavailable.
func NewIdeaService(llm driven.LLMService, prompts driven.PromptStore, store driven.IdeaStore) *IdeaService {
	return &IdeaService{
		llm:     llm,
		prompts: prompts,
		store:   store,
		newID:   uuid.NewString,
		now:     time.Now,
		pick:    rand.IntN,
	}
}

// Categories returns the catalogue in display order.
func (s *IdeaService) Categories() []domain.Category {
	return domain.Categories()
}

// RandomCategory picks a category uniformly at random.
func (s *IdeaService) RandomCategory() domain.Category {
	cats := domain.Categories()
	return cats[s.pick(len(cats))]
}

// Generate produces a business idea for the requested category.
func (s *IdeaService) Generate(ctx context.Context, req driving.IdeaRequest) (*domain.Idea, error) {
	category, ok := domain.LookupCategory(req.CategoryKey)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, req.CategoryKey)
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	prompt := renderPrompt(s.loadPrompt(driven.PromptBusinessIdea, domain.DefaultIdeaPrompt), category.Label)
	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: s.loadPrompt(driven.PromptIdeaSystem, domain.DefaultIdeaSystemPrompt)},
		{Role: driven.RoleUser, Content: prompt},
	}

	logger.Debug("generating idea for %s with %s", category.Key, s.llm.ModelName())
	start := s.now()
	text, err := s.llm.Chat(ctx, messages, driven.ChatOptions{Temperature: ideaTemperature})
	if err != nil {
		return nil, fmt.Errorf("generate idea: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyResponse
	}

	idea := &domain.Idea{
		ID:            s.newID(),
		ChatID:        req.ChatID,
		CategoryKey:   category.Key,
		CategoryLabel: category.Label,
		Text:          text,
		Model:         s.llm.ModelName(),
		Random:        req.Random,
		CreatedAt:     s.now().UTC(),
	}
	logger.Debug("generated idea %s (%d chars) in %s", idea.ID, len(text), s.now().Sub(start))

	if s.store != nil {
		if err := s.store.Save(ctx, idea); err != nil {
			logger.Warn("could not record idea %s: %v", idea.ID, err)
		}
	}

	return idea, nil
}

// History returns the most recent ideas for a chat, newest first.
func (s *IdeaService) History(ctx context.Context, chatID int64, limit int) ([]domain.Idea, error) {
	if s.store == nil {
		return []domain.Idea{}, nil
	}
	ideas, err := s.store.ListByChat(ctx, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	return ideas, nil
}

// Stats summarises stored ideas.
func (s *IdeaService) Stats(ctx context.Context) (*domain.IdeaStats, error) {
	if s.store == nil {
		return &domain.IdeaStats{ByCategory: map[string]int{}}, nil
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("idea stats: %w", err)
	}
	return stats, nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *IdeaService) loadPrompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	prompt, err := s.prompts.Load(name)
	if err != nil || strings.TrimSpace(prompt) == "" {
		return fallback
	}
	return prompt
}

// renderPrompt substitutes the category label into a template.
// Templates edited without a placeholder get the category appended instead.
func renderPrompt(template, label string) string {
	if !strings.Contains(template, "%[1]s") && !strings.Contains(template, "%s") {
		return template + "\n\nCategory: " + label
	}
	return fmt.Sprintf(template, label)
}
