package driving

import (
	"context"

	"github.com/custodia-labs/ideabot/internal/core/domain"
)

// IdeaRequest describes a generation request.
type IdeaRequest struct {
	// ChatID is the requesting chat. Zero for CLI and MCP use.
	ChatID int64

	// CategoryKey is the catalogue key to generate for.
	CategoryKey string

	// Random records that the category was picked at random.
	Random bool
}

// IdeaService generates and records business ideas.
type IdeaService interface {
	// Categories returns the catalogue in display order.
	Categories() []domain.Category

	// RandomCategory picks a category uniformly at random.
	RandomCategory() domain.Category

	// Generate produces a business idea for the requested category.
	// Returns domain.ErrUnknownCategory for keys outside the catalogue and
	// domain.ErrLLMUnavailable when no LLM is configured.
	Generate(ctx context.Context, req IdeaRequest) (*domain.Idea, error)

	// History returns the most recent ideas for a chat, newest first.
	History(ctx context.Context, chatID int64, limit int) ([]domain.Idea, error)

	// Stats summarises stored ideas.
	Stats(ctx context.Context) (*domain.IdeaStats, error)
}
