package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/ideabot/internal/core/domain"
)

// stdin is where interactive commands read answers from.
var stdin io.Reader = os.Stdin

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the Telegram bot, LLM provider and rate limits.

Environment variables (TELEGRAM_BOT_TOKEN, GEMINI_API_KEY, WEBHOOK_URL, PORT)
override values stored in the config file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used to generate ideas.`,
	RunE:  runSettingsLLM,
}

var settingsTelegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Configure the Telegram bot",
	Long: `Configure the bot token issued by @BotFather and how updates are received.

Leave the webhook URL empty to use long polling.`,
	RunE: runSettingsTelegram,
}

var settingsRateLimitCmd = &cobra.Command{
	Use:   "ratelimit",
	Short: "Configure per-chat rate limits",
	RunE:  runSettingsRateLimit,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsTelegramCmd)
	settingsCmd.AddCommand(settingsRateLimitCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	// Telegram settings
	cmd.Println("[Telegram]")
	if settings.Telegram.Token != "" {
		cmd.Printf("  Token: %s\n", maskAPIKey(settings.Telegram.Token))
	} else {
		cmd.Printf("  Token: (not set)\n")
	}
	if settings.Telegram.WebhookMode() {
		cmd.Printf("  Mode: webhook\n")
		cmd.Printf("  Webhook URL: %s\n", settings.Telegram.WebhookURL)
		cmd.Printf("  Port: %d\n", settings.Telegram.Port)
	} else {
		cmd.Printf("  Mode: polling\n")
	}
	cmd.Println()

	// LLM settings
	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	// Rate limit settings
	cmd.Println("[Rate Limit]")
	if settings.RateLimit.Enabled() {
		cmd.Printf("  Per minute: %d\n", settings.RateLimit.PerMinute)
		cmd.Printf("  Burst: %d\n", settings.RateLimit.Burst)
	} else {
		cmd.Printf("  Enabled: no\n")
	}
	cmd.Println()

	// Bot settings
	cmd.Println("[Bot]")
	cmd.Printf("  Workers: %d\n", settings.Bot.Workers)
	if settings.Bot.HistoryEnabled {
		cmd.Printf("  History: enabled\n")
	} else {
		cmd.Printf("  History: disabled\n")
	}
	cmd.Println()

	// Validation
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'ideabot settings telegram' or 'ideabot settings llm' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(stdin)
	return configureLLMProvider(cmd, reader)
}

func runSettingsTelegram(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(stdin)
	return configureTelegram(cmd, reader)
}

func runSettingsRateLimit(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(stdin)
	cmd.Printf("Ideas per chat per minute, 0 disables [%d]: ", current.RateLimit.PerMinute)
	perMinute, err := readInt(reader, current.RateLimit.PerMinute)
	if err != nil {
		return err
	}
	cmd.Printf("Burst [%d]: ", current.RateLimit.Burst)
	burst, err := readInt(reader, current.RateLimit.Burst)
	if err != nil {
		return err
	}

	if err := settingsService.SetRateLimit(perMinute, burst); err != nil {
		return fmt.Errorf("failed to configure rate limit: %w", err)
	}
	if perMinute <= 0 {
		cmd.Println("Rate limiting disabled.")
		return nil
	}
	cmd.Printf("Rate limit set to %d per minute (burst %d).\n", perMinute, max(burst, 1))
	return nil
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

func configureTelegram(cmd *cobra.Command, reader *bufio.Reader) error {
	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if current.Telegram.Token != "" {
		cmd.Printf("Enter bot token [%s]: ", maskAPIKey(current.Telegram.Token))
	} else {
		cmd.Print("Enter bot token: ")
	}
	token := readPassword(reader)
	cmd.Println()
	if token == "" && current.Telegram.Token == "" {
		return errors.New("bot token is required")
	}

	cmd.Print("Enter webhook URL (empty for polling): ")
	webhookURL := readLine(reader)

	port := current.Telegram.Port
	if webhookURL != "" {
		cmd.Printf("Enter webhook port [%d]: ", port)
		port, err = readInt(reader, port)
		if err != nil {
			return err
		}
	}

	if err := settingsService.SetTelegram(token, webhookURL, port); err != nil {
		return fmt.Errorf("failed to configure Telegram: %w", err)
	}

	if webhookURL != "" {
		cmd.Printf("Telegram configured: webhook %s on port %d\n", webhookURL, port)
	} else {
		cmd.Println("Telegram configured: polling")
	}
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func readInt(reader *bufio.Reader, defaultVal int) (int, error) {
	input := readLine(reader)
	if input == "" {
		return defaultVal, nil
	}
	val, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", input)
	}
	return val, nil
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when stdin is a terminal.
func readPassword(reader *bufio.Reader) string {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
