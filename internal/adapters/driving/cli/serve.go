package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ideabot/internal/adapters/driven/telegram"
	tgrunner "github.com/custodia-labs/ideabot/internal/adapters/driving/telegram"
	"github.com/custodia-labs/ideabot/internal/core/domain"
	"github.com/custodia-labs/ideabot/internal/logger"
)

// commandsTimeout bounds registering the command menu at startup.
const commandsTimeout = 10 * time.Second

// botAPI is what serve needs from a connected Telegram client.
type botAPI interface {
	tgrunner.BotAPI
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// connectTelegram authorises the bot token. Replaced in tests.
var connectTelegram = func(token string) (botAPI, error) {
	api, err := telegram.Connect(token, "", nil)
	if err != nil {
		return nil, err
	}
	return api, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot",
	Long: `Run the Telegram bot until interrupted.

Updates are received by long polling unless a webhook URL is configured, in
which case an HTTP server listens on the configured port and the webhook is
registered at <webhook URL>/<bot token>. GET /healthz reports liveness.`,
	Args: cobra.NoArgs,
	RunE: runServe,

	Annotations: map[string]string{annotationNeedsLLM: "true"},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if settings.Telegram.Token == "" {
		logger.Critical("TELEGRAM_BOT_TOKEN not found! Set it in the environment or run 'ideabot settings telegram'.")
		return domain.ErrBotTokenMissing
	}
	if llmErr != nil {
		logger.Critical("LLM not available: %v", llmErr)
		return fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, llmErr)
	}
	if !settings.LLM.IsConfigured() {
		logger.Critical("LLM provider %s is not configured! Set GEMINI_API_KEY or run 'ideabot settings llm'.",
			settings.LLM.Provider)
		return domain.ErrLLMUnavailable
	}
	if newBot == nil {
		return errors.New("bot factory not configured")
	}

	api, err := connectTelegram(settings.Telegram.Token)
	if err != nil {
		return fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	messenger := telegram.NewMessenger(api, nil)
	bot := newBot(messenger)

	ctx := cmd.Context()
	commandsCtx, cancel := context.WithTimeout(ctx, commandsTimeout)
	if err := messenger.SetCommands(commandsCtx, bot.Commands()); err != nil {
		logger.Warn("Failed to register bot commands: %v", err)
	}
	cancel()

	runner := tgrunner.NewRunner(api, bot, tgrunner.Config{
		Telegram: settings.Telegram,
		Workers:  settings.Bot.Workers,
	})
	return runner.Run(ctx)
}
