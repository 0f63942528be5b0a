package domain

import "time"

// Idea is a generated business idea.
type Idea struct {
	// ID is a unique identifier.
	ID string

	// ChatID is the chat the idea was generated for. Zero for CLI and MCP use.
	ChatID int64

	// CategoryKey is the catalogue key.
	CategoryKey string

	// CategoryLabel is the label at generation time.
	CategoryLabel string

	// Text is the generated content as returned by the model.
	Text string

	// Model is the LLM model that produced the idea.
	Model string

	// Random is true when the category was picked at random.
	Random bool

	// CreatedAt is when the idea was generated.
	CreatedAt time.Time
}

// IdeaStats summarises generated ideas.
type IdeaStats struct {
	// Total is the number of stored ideas.
	Total int

	// ByCategory counts ideas per category key.
	ByCategory map[string]int
}
