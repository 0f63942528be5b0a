// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the bot to function:
//
//   - Messenger: Sends and edits chat messages (Telegram)
//   - LLMService: Generates idea text (Gemini, OpenAI, Anthropic, Ollama)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PromptStore: User-editable prompts. Without it, built-in prompts are used.
//   - IdeaStore: Idea history. Without it, history and stats are empty.
//   - RateLimiter: Per-chat generation limits. Without it, every request is allowed.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
