package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for ideabot resources.
	uriScheme = "ideabot://"

	// historyLimit caps the ideas returned by the history resource.
	historyLimit = 20

	mimeJSON = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "categories",
		Name:        "categories",
		Description: "Business categories ideas can be generated for",
		MIMEType:    mimeJSON,
	}, s.handleCategoriesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "history/{chatId}",
		Name:        "chat-history",
		Description: "Most recent ideas generated for a chat, newest first",
		MIMEType:    mimeJSON,
	}, s.handleHistoryResource)
}

// handleCategoriesResource returns the category catalogue.
func (s *Server) handleCategoriesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	cats := s.ports.Ideas.Categories()
	infos := make([]CategoryOutput, len(cats))
	for i, c := range cats {
		infos[i] = CategoryOutput{Key: c.Key, Label: c.Label}
	}
	return jsonResult(req.Params.URI, infos)
}

// handleHistoryResource returns recent ideas for a chat.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	chatID, ok := extractChatID(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	ideas, err := s.ports.Ideas.History(ctx, chatID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	infos := make([]IdeaOutput, len(ideas))
	for i := range ideas {
		infos[i] = toIdeaOutput(&ideas[i])
	}
	return jsonResult(req.Params.URI, infos)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(data),
		}},
	}, nil
}

// extractChatID extracts the chat ID from a URI like ideabot://history/{chatId}.
func extractChatID(uri string) (int64, bool) {
	const prefix = uriScheme + "history/"

	rest, ok := strings.CutPrefix(uri, prefix)
	if !ok || rest == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
