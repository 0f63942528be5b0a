// Package cli provides the ideabot command line interface.
//
// Commands run against package level services. main installs a Bootstrap
// that builds them once the root flags are parsed; tests inject them
// directly with SetServices.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ideabot/internal/core/ports/driven"
	"github.com/custodia-labs/ideabot/internal/core/ports/driving"
	"github.com/custodia-labs/ideabot/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Command annotations read by setup.
const (
	// annotationNoServices marks commands that run without services.
	annotationNoServices = "ideabot/no-services"

	// annotationNeedsLLM marks commands that generate ideas.
	annotationNeedsLLM = "ideabot/needs-llm"
)

var (
	settingsService driving.SettingsService
	ideaService     driving.IdeaService
	newBot          BotFactory
	llmErr          error
	closeServices   func() error

	bootstrap Bootstrap
	rootOpts  Options
)

// Options are the resolved root flags.
type Options struct {
	// ConfigDir holds config.toml and the prompts directory. Empty uses ~/.ideabot.
	ConfigDir string

	// DataDir holds the idea database. Empty uses ~/.ideabot/data.
	DataDir string

	// Verbose enables debug logging.
	Verbose bool

	// NeedsLLM is set when the command generates ideas, so the LLM
	// should be created and pinged.
	NeedsLLM bool
}

// BotFactory builds the chat bot around a connected messenger.
type BotFactory func(messenger driven.Messenger) driving.BotService

// Services are the dependencies commands run against.
type Services struct {
	Settings driving.SettingsService
	Ideas    driving.IdeaService

	// NewBot is required by serve.
	NewBot BotFactory

	// LLMErr records why no LLM is available. serve refuses to start when set.
	LLMErr error

	// Close releases stores. May be nil.
	Close func() error
}

// Bootstrap builds services from the root flags.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var rootCmd = &cobra.Command{
	Use:   "ideabot",
	Short: "Telegram bot that generates business ideas",
	Long: `ideabot is a Telegram bot that generates business ideas with a large
language model.

Run 'ideabot serve' to start the bot. Configure it with 'ideabot settings' or
through TELEGRAM_BOT_TOKEN, GEMINI_API_KEY, WEBHOOK_URL and PORT.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&rootOpts.Verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&rootOpts.ConfigDir, "config-dir", "", "configuration directory (default ~/.ideabot)")
	flags.StringVar(&rootOpts.DataDir, "data-dir", "", "data directory (default ~/.ideabot/data)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetBootstrap installs the function that builds services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices injects services directly. A nil svc clears them.
func SetServices(svc *Services) {
	if svc == nil {
		svc = &Services{}
	}
	settingsService = svc.Settings
	ideaService = svc.Ideas
	newBot = svc.NewBot
	llmErr = svc.LLMErr
	closeServices = svc.Close
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	defer release()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(rootOpts.Verbose)
	if bootstrap == nil || cmd.Annotations[annotationNoServices] != "" {
		return nil
	}

	opts := rootOpts
	opts.NeedsLLM = cmd.Annotations[annotationNeedsLLM] != ""
	svc, err := bootstrap(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	SetServices(svc)
	return nil
}

func release() {
	if closeServices == nil {
		return
	}
	if err := closeServices(); err != nil {
		logger.Warn("Failed to close services: %v", err)
	}
	closeServices = nil
}
