package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/ideabot/internal/core/domain"
	"github.com/custodia-labs/ideabot/internal/core/ports/driven"
)

// Ensure IdeaStore implements the interface.
var _ driven.IdeaStore = (*IdeaStore)(nil)

// IdeaStore is an in-memory implementation of driven.IdeaStore.
type IdeaStore struct {
	mu    sync.RWMutex
	ideas map[string]domain.Idea
}

// NewIdeaStore creates a new in-memory idea store.
func NewIdeaStore() *IdeaStore {
	return &IdeaStore{
		ideas: make(map[string]domain.Idea),
	}
}

// Save stores or replaces an idea.
func (s *IdeaStore) Save(_ context.Context, idea *domain.Idea) error {
	if idea == nil || idea.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ideas[idea.ID] = *idea
	return nil
}

// Get retrieves an idea by ID.
func (s *IdeaStore) Get(_ context.Context, id string) (*domain.Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idea, ok := s.ideas[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &idea, nil
}

// ListByChat returns the most recent ideas for a chat, newest first.
func (s *IdeaStore) ListByChat(_ context.Context, chatID int64, limit int) ([]domain.Idea, error) {
	s.mu.RLock()
	result := make([]domain.Idea, 0)
	for _, idea := range s.ideas {
		if idea.ChatID == chatID {
			result = append(result, idea)
		}
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Stats returns idea counts.
func (s *IdeaStore) Stats(_ context.Context) (*domain.IdeaStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &domain.IdeaStats{
		Total:      len(s.ideas),
		ByCategory: make(map[string]int),
	}
	for _, idea := range s.ideas {
		stats.ByCategory[idea.CategoryKey]++
	}
	return stats, nil
}

// Close is a no-op.
func (s *IdeaStore) Close() error {
	return nil
}
