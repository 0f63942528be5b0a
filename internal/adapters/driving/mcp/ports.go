package mcp

import (
	"github.com/custodia-labs/ideabot/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ideas generates ideas and serves history.
	Ideas driving.IdeaService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ideas == nil {
		return ErrMissingIdeaService
	}
	return nil
}
