package driving

import "github.com/custodia-labs/ideabot/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	// Environment variables override stored values.
	Get() (*domain.AppSettings, error)

	// SetLLMProvider configures the LLM provider.
	// An empty apiKey keeps the stored key.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetTelegram configures the bot token and delivery mode.
	// An empty token keeps the stored token.
	SetTelegram(token, webhookURL string, port int) error

	// SetRateLimit configures per-chat generation limits.
	SetRateLimit(perMinute, burst int) error

	// Validate checks that the bot can start with current settings.
	Validate() error

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
