package domain

import (
	"fmt"
	"strings"
)

const unknownDescription = "Unknown"

// AIProvider identifies an LLM service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOpenAI, AIProviderAnthropic, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini || p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// TelegramSettings holds Telegram bot configuration.
type TelegramSettings struct {
	// Token is the bot token issued by @BotFather.
	Token string

	// WebhookURL is the public base URL Telegram should post updates to.
	// Empty selects long polling.
	WebhookURL string

	// Port is the local port the webhook server listens on.
	Port int
}

// WebhookMode reports whether updates arrive by webhook rather than polling.
func (t TelegramSettings) WebhookMode() bool {
	return t.WebhookURL != ""
}

// ListenAddr is the address the webhook server binds to.
func (t TelegramSettings) ListenAddr() string {
	return fmt.Sprintf("0.0.0.0:%d", t.Port)
}

// WebhookPath is the secret URL path updates are posted to.
func (t TelegramSettings) WebhookPath() string {
	return "/" + t.Token
}

// WebhookEndpoint is the full URL registered with Telegram.
func (t TelegramSettings) WebhookEndpoint() string {
	return strings.TrimRight(t.WebhookURL, "/") + t.WebhookPath()
}

// RateLimitSettings bounds how often a single chat may request generations.
type RateLimitSettings struct {
	// PerMinute is the sustained number of generations per chat per minute.
	// Zero or less disables rate limiting.
	PerMinute int

	// Burst is the number of generations allowed back to back.
	Burst int
}

// Enabled reports whether rate limiting is active.
func (r RateLimitSettings) Enabled() bool {
	return r.PerMinute > 0
}

// BotSettings holds bot runtime behaviour.
type BotSettings struct {
	// Workers is the number of updates handled concurrently.
	Workers int

	// HistoryEnabled controls whether generated ideas are persisted.
	HistoryEnabled bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Telegram holds bot connection settings.
	Telegram TelegramSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// RateLimit holds per-chat generation limits.
	RateLimit RateLimitSettings

	// Bot holds runtime behaviour settings.
	Bot BotSettings
}

// Default values.
const (
	DefaultWebhookPort = 8443
	DefaultWorkers     = 4
	DefaultPerMinute   = 6
	DefaultBurst       = 2
)

// DefaultAppSettings returns settings with sensible defaults.
// Secrets (bot token, API key) are left empty and must come from
// the config file or the environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Telegram: TelegramSettings{
			Port: DefaultWebhookPort,
		},
		LLM: LLMSettings{
			Provider: AIProviderGemini,
			Model:    DefaultLLMModels()[AIProviderGemini],
		},
		RateLimit: RateLimitSettings{
			PerMinute: DefaultPerMinute,
			Burst:     DefaultBurst,
		},
		Bot: BotSettings{
			Workers:        DefaultWorkers,
			HistoryEnabled: true,
		},
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderOllama,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini:    "gemini-2.5-flash",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderOllama:    "llama3.2",
	}
}
