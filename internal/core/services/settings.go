package services

import (
	"fmt"
	"os"
	"strconv"

	"github.com/custodia-labs/ideabot/internal/core/domain"
	"github.com/custodia-labs/ideabot/internal/core/ports/driven"
	"github.com/custodia-labs/ideabot/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyTelegramToken   = "telegram.token"
	keyTelegramWebhook = "telegram.webhook_url"
	keyTelegramPort    = "telegram.port"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyRatePerMinute   = "ratelimit.per_minute"
	keyRateBurst       = "ratelimit.burst"
	keyBotWorkers      = "bot.workers"
	keyBotHistory      = "bot.history_enabled"
)

// Environment variables that override stored settings.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvTelegramToken = "TELEGRAM_BOT_TOKEN"
	EnvGeminiAPIKey  = "GEMINI_API_KEY"
	EnvWebhookURL    = "WEBHOOK_URL"
	EnvPort          = "PORT"
	EnvLLMProvider   = "IDEABOT_LLM_PROVIDER"
	EnvLLMModel      = "IDEABOT_LLM_MODEL"
	EnvLLMAPIKey     = "IDEABOT_LLM_API_KEY"
	EnvLLMBaseURL    = "IDEABOT_LLM_BASE_URL"
)

// defaultOllamaURL is used when switching to a local provider without a base URL.
const defaultOllamaURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator

	// lookupEnv is replaceable for tests.
	lookupEnv func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current application settings.
// Precedence is environment, then config file, then defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Telegram: domain.TelegramSettings{
			Token:      s.configStore.GetString(keyTelegramToken),
			WebhookURL: s.configStore.GetString(keyTelegramWebhook),
			Port:       s.getInt(keyTelegramPort, defaults.Telegram.Port),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		RateLimit: domain.RateLimitSettings{
			PerMinute: s.getSetInt(keyRatePerMinute, defaults.RateLimit.PerMinute),
			Burst:     s.getInt(keyRateBurst, defaults.RateLimit.Burst),
		},
		Bot: domain.BotSettings{
			Workers:        s.getInt(keyBotWorkers, defaults.Bot.Workers),
			HistoryEnabled: s.getBool(keyBotHistory, defaults.Bot.HistoryEnabled),
		},
	}

	if err := s.applyEnv(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// applyEnv overlays environment variables on settings.
func (s *SettingsService) applyEnv(settings *domain.AppSettings) error {
	if v, ok := s.env(EnvTelegramToken); ok {
		settings.Telegram.Token = v
	}
	if v, ok := s.env(EnvWebhookURL); ok {
		settings.Telegram.WebhookURL = v
	}
	if v, ok := s.env(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("%w: %s=%q is not a valid port", domain.ErrInvalidInput, EnvPort, v)
		}
		settings.Telegram.Port = port
	}

	if v, ok := s.env(EnvLLMProvider); ok {
		provider := domain.AIProvider(v)
		if !provider.IsValid() {
			return fmt.Errorf("%w: %s=%q is not a known provider", domain.ErrInvalidInput, EnvLLMProvider, v)
		}
		if provider != settings.LLM.Provider {
			settings.LLM.Provider = provider
			settings.LLM.Model = domain.DefaultLLMModels()[provider]
			settings.LLM.BaseURL = ""
			settings.LLM.APIKey = ""
		}
	}
	if v, ok := s.env(EnvLLMModel); ok {
		settings.LLM.Model = v
	}
	if v, ok := s.env(EnvLLMBaseURL); ok {
		settings.LLM.BaseURL = v
	}
	if v, ok := s.env(EnvGeminiAPIKey); ok && settings.LLM.Provider == domain.AIProviderGemini {
		settings.LLM.APIKey = v
	}
	if v, ok := s.env(EnvLLMAPIKey); ok {
		settings.LLM.APIKey = v
	}
	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	stored := s.configStore.GetString(keyLLMAPIKey)
	sameProvider := s.configStore.GetString(keyLLMProvider) == provider.String()
	if apiKey == "" && sameProvider {
		apiKey = stored
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	// Set model - use provided or default
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}

	// Set base URL based on provider type
	baseURL := ""
	if provider.IsLocal() {
		baseURL = s.configStore.GetString(keyLLMBaseURL)
		if baseURL == "" {
			baseURL = defaultOllamaURL
		}
	}

	if err := s.configStore.Set(keyLLMProvider, provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, baseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if apiKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, apiKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	} else if err := s.configStore.Unset(keyLLMAPIKey); err != nil {
		return fmt.Errorf("clear llm api_key: %w", err)
	}

	return s.configStore.Save()
}

// SetTelegram configures the bot token and delivery mode.
func (s *SettingsService) SetTelegram(token, webhookURL string, port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%w: port %d out of range", domain.ErrInvalidInput, port)
	}
	if token == "" {
		token = s.configStore.GetString(keyTelegramToken)
	}
	if token == "" {
		return domain.ErrBotTokenMissing
	}

	if err := s.configStore.Set(keyTelegramToken, token); err != nil {
		return fmt.Errorf("save telegram token: %w", err)
	}
	if err := s.configStore.Set(keyTelegramWebhook, webhookURL); err != nil {
		return fmt.Errorf("save telegram webhook_url: %w", err)
	}
	if err := s.configStore.Set(keyTelegramPort, port); err != nil {
		return fmt.Errorf("save telegram port: %w", err)
	}

	return s.configStore.Save()
}

// SetRateLimit configures per-chat generation limits.
// A perMinute of zero disables rate limiting.
func (s *SettingsService) SetRateLimit(perMinute, burst int) error {
	if perMinute < 0 || burst < 0 {
		return fmt.Errorf("%w: rate limit values must not be negative", domain.ErrInvalidInput)
	}
	if perMinute > 0 && burst == 0 {
		burst = 1
	}

	if err := s.configStore.Set(keyRatePerMinute, perMinute); err != nil {
		return fmt.Errorf("save rate limit: %w", err)
	}
	if err := s.configStore.Set(keyRateBurst, burst); err != nil {
		return fmt.Errorf("save rate burst: %w", err)
	}

	return s.configStore.Save()
}

// Validate checks that the bot can start with current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Telegram.Token == "" {
		return fmt.Errorf("%w: set %s or run 'ideabot settings telegram'", domain.ErrBotTokenMissing, EnvTelegramToken)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: LLM provider %q is not configured", domain.ErrLLMUnavailable, settings.LLM.Provider)
	}
	if settings.Bot.Workers <= 0 {
		return fmt.Errorf("%w: bot.workers must be positive", domain.ErrInvalidInput)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) env(name string) (string, bool) {
	v, ok := s.lookupEnv(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getSetInt is getInt for keys where a stored zero is meaningful.
func (s *SettingsService) getSetInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
