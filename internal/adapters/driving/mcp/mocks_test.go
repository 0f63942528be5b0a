package mcp

import (
	"context"

	"github.com/custodia-labs/ideabot/internal/core/domain"
	"github.com/custodia-labs/ideabot/internal/core/ports/driving"
)

// mockIdeaService is a mock implementation of driving.IdeaService.
type mockIdeaService struct {
	idea    *domain.Idea
	history []domain.Idea
	err     error

	requests    []driving.IdeaRequest
	historyChat int64
	historyN    int
}

func (m *mockIdeaService) Categories() []domain.Category {
	return domain.Categories()
}

func (m *mockIdeaService) RandomCategory() domain.Category {
	return domain.Categories()[1]
}

func (m *mockIdeaService) Generate(_ context.Context, req driving.IdeaRequest) (*domain.Idea, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	idea := *m.idea
	idea.CategoryKey = req.CategoryKey
	idea.ChatID = req.ChatID
	idea.Random = req.Random
	return &idea, nil
}

func (m *mockIdeaService) History(_ context.Context, chatID int64, limit int) ([]domain.Idea, error) {
	m.historyChat = chatID
	m.historyN = limit
	return m.history, m.err
}

func (m *mockIdeaService) Stats(_ context.Context) (*domain.IdeaStats, error) {
	return &domain.IdeaStats{ByCategory: map[string]int{}}, m.err
}
