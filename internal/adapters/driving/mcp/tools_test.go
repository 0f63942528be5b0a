package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ideabot/internal/core/domain"
)

func TestServer_handleListCategories(t *testing.T) {
	server, err := NewServer(&Ports{Ideas: &mockIdeaService{}})
	require.NoError(t, err)

	_, output, err := server.handleListCategories(context.Background(), nil, ListCategoriesInput{})

	require.NoError(t, err)
	assert.Equal(t, len(domain.Categories()), output.Count)
	require.Len(t, output.Categories, output.Count)
	assert.Equal(t, "tech", output.Categories[0].Key)
	assert.Equal(t, domain.Categories()[0].Label, output.Categories[0].Label)
}

func TestServer_handleGenerateIdea(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("uses the requested category", func(t *testing.T) {
		ideas := &mockIdeaService{idea: &domain.Idea{ID: "i1", Text: "idea", Model: "m", CreatedAt: created}}
		server, err := NewServer(&Ports{Ideas: ideas})
		require.NoError(t, err)

		_, output, err := server.handleGenerateIdea(ctx, nil, GenerateIdeaInput{Category: "food", ChatID: 7})

		require.NoError(t, err)
		assert.Equal(t, "i1", output.ID)
		assert.Equal(t, "food", output.Category)
		assert.Equal(t, int64(7), output.ChatID)
		assert.False(t, output.Random)
		assert.Equal(t, created, output.CreatedAt)
	})

	t.Run("picks a random category when omitted", func(t *testing.T) {
		ideas := &mockIdeaService{idea: &domain.Idea{ID: "i2"}}
		server, err := NewServer(&Ports{Ideas: ideas})
		require.NoError(t, err)

		_, output, err := server.handleGenerateIdea(ctx, nil, GenerateIdeaInput{})

		require.NoError(t, err)
		assert.True(t, output.Random)
		assert.Equal(t, domain.Categories()[1].Key, output.Category)
	})

	t.Run("returns error on generation failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Ideas: &mockIdeaService{err: domain.ErrLLMUnavailable}})
		require.NoError(t, err)

		_, _, err = server.handleGenerateIdea(ctx, nil, GenerateIdeaInput{Category: "tech"})

		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})
}
