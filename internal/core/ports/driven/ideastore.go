package driven

import (
	"context"

	"github.com/custodia-labs/ideabot/internal/core/domain"
)

// IdeaStore persists generated ideas.
type IdeaStore interface {
	// Save stores an idea. Saving an existing ID replaces it.
	Save(ctx context.Context, idea *domain.Idea) error

	// Get retrieves an idea by ID.
	// Returns domain.ErrNotFound if the idea does not exist.
	Get(ctx context.Context, id string) (*domain.Idea, error)

	// ListByChat returns the most recent ideas for a chat, newest first.
	// A limit of zero or less returns all ideas.
	ListByChat(ctx context.Context, chatID int64, limit int) ([]domain.Idea, error)

	// Stats returns idea counts.
	Stats(ctx context.Context) (*domain.IdeaStats, error)

	// Close releases resources.
	Close() error
}
