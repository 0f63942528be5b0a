// Package domain defines the core business entities for the idea bot.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Category: A business sector ideas can be generated for
//   - Idea: A generated business idea and where it was delivered
//   - Command / Callback: Incoming chat events
//   - Message / Keyboard: Outgoing chat content
//   - AppSettings: Provider, Telegram and rate limit configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
