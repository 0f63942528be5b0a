package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ideabot/internal/core/domain"
	"github.com/custodia-labs/ideabot/internal/core/ports/driving"
)

// ListCategoriesInput is the input schema for the list_categories tool.
type ListCategoriesInput struct{}

// ListCategoriesOutput is the output schema for the list_categories tool.
type ListCategoriesOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Count      int              `json:"count"`
}

// CategoryOutput represents a single catalogue entry.
type CategoryOutput struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// GenerateIdeaInput is the input schema for the generate_idea tool.
type GenerateIdeaInput struct {
	Category string `json:"category,omitempty" jsonschema:"category key from list_categories; omit for a random category"`
	ChatID   int64  `json:"chat_id,omitempty" jsonschema:"chat to record the idea under in history (default 0)"`
}

// IdeaOutput is the output schema for a generated or stored idea.
type IdeaOutput struct {
	ID            string    `json:"id"`
	ChatID        int64     `json:"chat_id"`
	Category      string    `json:"category"`
	CategoryLabel string    `json:"category_label"`
	Text          string    `json:"text"`
	Model         string    `json:"model"`
	Random        bool      `json:"random"`
	CreatedAt     time.Time `json:"created_at"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_categories",
		Description: "List the business categories ideas can be generated for",
	}, s.handleListCategories)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_idea",
		Description: "Generate a structured business idea for a category",
	}, s.handleGenerateIdea)
}

// handleListCategories handles the list_categories tool invocation.
func (s *Server) handleListCategories(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListCategoriesInput,
) (*mcp.CallToolResult, ListCategoriesOutput, error) {
	cats := s.ports.Ideas.Categories()
	output := ListCategoriesOutput{
		Categories: make([]CategoryOutput, len(cats)),
		Count:      len(cats),
	}
	for i, c := range cats {
		output.Categories[i] = CategoryOutput{Key: c.Key, Label: c.Label}
	}
	return nil, output, nil
}

// handleGenerateIdea handles the generate_idea tool invocation.
func (s *Server) handleGenerateIdea(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GenerateIdeaInput,
) (*mcp.CallToolResult, IdeaOutput, error) {
	req := driving.IdeaRequest{
		ChatID:      input.ChatID,
		CategoryKey: input.Category,
	}
	if req.CategoryKey == "" {
		req.CategoryKey = s.ports.Ideas.RandomCategory().Key
		req.Random = true
	}

	idea, err := s.ports.Ideas.Generate(ctx, req)
	if err != nil {
		return nil, IdeaOutput{}, err
	}
	return nil, toIdeaOutput(idea), nil
}

func toIdeaOutput(idea *domain.Idea) IdeaOutput {
	return IdeaOutput{
		ID:            idea.ID,
		ChatID:        idea.ChatID,
		Category:      idea.CategoryKey,
		CategoryLabel: idea.CategoryLabel,
		Text:          idea.Text,
		Model:         idea.Model,
		Random:        idea.Random,
		CreatedAt:     idea.CreatedAt,
	}
}
