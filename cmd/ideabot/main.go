// Command ideabot runs the business idea Telegram bot and its tooling.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/ideabot/internal/adapters/driven/ai"
	"github.com/custodia-labs/ideabot/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ideabot/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/ideabot/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ideabot/internal/adapters/driving/cli"
	"github.com/custodia-labs/ideabot/internal/core/ports/driven"
	"github.com/custodia-labs/ideabot/internal/core/ports/driving"
	"github.com/custodia-labs/ideabot/internal/core/services"
	"github.com/custodia-labs/ideabot/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Failed to load .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// bootstrap wires adapters and services for a command.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	promptDir := ""
	if opts.ConfigDir != "" {
		promptDir = filepath.Join(opts.ConfigDir, "prompts")
	}
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		return nil, err
	}

	svc := &cli.Services{Settings: settingsService}

	settings, err := settingsService.Get()
	if err != nil {
		// Settings commands must still run so the problem can be fixed.
		logger.Warn("Invalid settings: %v", err)
		svc.Ideas = services.NewIdeaService(nil, prompts, nil)
		svc.LLMErr = err
		return svc, nil
	}

	var store driven.IdeaStore
	var sqliteStore *sqlite.Store
	if settings.Bot.HistoryEnabled {
		sqliteStore, err = sqlite.NewStore(opts.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open idea history: %w", err)
		}
		store = sqliteStore
	}

	var llm driven.LLMService
	if opts.NeedsLLM {
		if err := prompts.Watch(ctx); err != nil {
			logger.Warn("Prompt hot reload disabled: %v", err)
		}

		llm, err = ai.CreateAndValidateLLMService(&settings.LLM)
		if err != nil {
			logger.Error("%v", err)
			svc.LLMErr = err
		} else {
			logger.Info("Using %s model %s", settings.LLM.Provider.Description(), llm.ModelName())
		}
	}

	ideas := services.NewIdeaService(llm, prompts, store)
	limiter := ratelimit.NewKeyedLimiter(settings.RateLimit)

	svc.Ideas = ideas
	svc.NewBot = func(messenger driven.Messenger) driving.BotService {
		return services.NewBotService(ideas, messenger, limiter)
	}
	svc.Close = func() error {
		var errs []error
		if llm != nil {
			errs = append(errs, llm.Close())
		}
		if sqliteStore != nil {
			errs = append(errs, sqliteStore.Close())
		}
		return errors.Join(errs...)
	}
	return svc, nil
}
