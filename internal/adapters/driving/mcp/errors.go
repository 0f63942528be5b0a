// Package mcp provides an MCP (Model Context Protocol) server adapter for ideabot.
// It lets AI assistants browse the idea categories, generate ideas and read
// a chat's idea history.
package mcp

import "errors"

// ErrMissingIdeaService is returned when the idea service is not provided.
var ErrMissingIdeaService = errors.New("mcp: idea service is required")
