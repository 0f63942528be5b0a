package telegram

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/custodia-labs/ideabot/internal/core/domain"
	"github.com/custodia-labs/ideabot/internal/core/ports/driving"
	"github.com/custodia-labs/ideabot/internal/logger"
)

// Default runner settings.
const (
	DefaultPollTimeout     = 30
	DefaultHandlerTimeout  = 2 * time.Minute
	DefaultShutdownTimeout = 10 * time.Second

	// HealthPath answers GET requests in webhook mode.
	HealthPath = "/healthz"
)

// BotAPI is the subset of *tgbotapi.BotAPI used to receive updates.
type BotAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	HandleUpdate(r *http.Request) (*tgbotapi.Update, error)
}

// Config configures a Runner.
type Config struct {
	// Telegram selects polling or webhook delivery.
	Telegram domain.TelegramSettings

	// Workers is the number of updates handled concurrently (default: 4).
	Workers int

	// PollTimeout is the long polling timeout in seconds (default: 30).
	PollTimeout int

	// HandlerTimeout bounds the handling of a single update (default: 2m).
	HandlerTimeout time.Duration

	// ShutdownTimeout bounds the webhook server shutdown (default: 10s).
	ShutdownTimeout time.Duration
}

// Runner feeds Telegram updates to the bot service.
type Runner struct {
	api BotAPI
	bot driving.BotService
	cfg Config

	mu      sync.Mutex
	running bool
	jobs    chan tgbotapi.Update
	wg      sync.WaitGroup

	// ready is closed once updates are being received.
	ready chan struct{}
	addr  net.Addr
}

// NewRunner creates a runner.
func NewRunner(api BotAPI, bot driving.BotService, cfg Config) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = domain.DefaultWorkers
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}
	if cfg.HandlerTimeout <= 0 {
		cfg.HandlerTimeout = DefaultHandlerTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	return &Runner{
		api:   api,
		bot:   bot,
		cfg:   cfg,
		ready: make(chan struct{}),
	}
}

// Run receives and handles updates until ctx is cancelled.
// In-flight updates are finished before Run returns.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return errors.New("runner already started")
	}
	r.running = true
	r.jobs = make(chan tgbotapi.Update, r.cfg.Workers)
	r.mu.Unlock()

	for i := 0; i < r.cfg.Workers; i++ {
		r.wg.Add(1)
		go r.worker(ctx)
	}

	var err error
	if r.cfg.Telegram.WebhookMode() {
		err = r.runWebhook(ctx)
	} else {
		err = r.runPolling(ctx)
	}

	close(r.jobs)
	r.wg.Wait()
	logger.Info("Bot stopped")
	return err
}

// Ready is closed once the runner is receiving updates.
func (r *Runner) Ready() <-chan struct{} {
	return r.ready
}

// Addr returns the webhook listener address, or nil in polling mode.
func (r *Runner) Addr() net.Addr {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addr
}

func (r *Runner) runPolling(ctx context.Context) error {
	// getUpdates is refused while a webhook is registered
	if _, err := r.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		logger.Warn("Failed to delete webhook: %v", err)
	}

	updates := r.api.GetUpdatesChan(tgbotapi.UpdateConfig{Timeout: r.cfg.PollTimeout})
	logger.Info("🚀 Starting bot in polling mode...")
	close(r.ready)
	logger.Info("✅ Bot is running! Press Ctrl+C to stop.")

	for {
		select {
		case <-ctx.Done():
			r.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			r.dispatch(ctx, update)
		}
	}
}

func (r *Runner) runWebhook(ctx context.Context) error {
	settings := r.cfg.Telegram
	wh, err := tgbotapi.NewWebhook(settings.WebhookEndpoint())
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(settings.WebhookPath(), func(w http.ResponseWriter, req *http.Request) {
		r.handleWebhook(ctx, w, req)
	})
	mux.HandleFunc(HealthPath, handleHealth)

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", settings.ListenAddr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", settings.ListenAddr(), err)
	}
	r.mu.Lock()
	r.addr = listener.Addr()
	r.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logger.Info("🚀 Starting bot in webhook mode on port %d...", settings.Port)
	if _, err := r.api.Request(wh); err != nil {
		_ = server.Close()
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	// The token is part of the path, so log only the public base URL.
	logger.Info("✅ Webhook set to %s/<token>", strings.TrimRight(settings.WebhookURL, "/"))
	close(r.ready)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("webhook server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), r.cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("webhook server shutdown: %w", err)
	}
	return nil
}

func (r *Runner) handleWebhook(ctx context.Context, w http.ResponseWriter, req *http.Request) {
	update, err := r.api.HandleUpdate(req)
	if err != nil {
		logger.Debug("Rejected webhook request: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	r.dispatch(ctx, *update)
	w.WriteHeader(http.StatusOK)
}

func handleHealth(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

// dispatch queues an update, dropping it if the runner is shutting down.
func (r *Runner) dispatch(ctx context.Context, update tgbotapi.Update) {
	select {
	case r.jobs <- update:
	case <-ctx.Done():
		logger.Debug("Dropped update %d during shutdown", update.UpdateID)
	}
}

func (r *Runner) worker(ctx context.Context) {
	defer r.wg.Done()
	// Handlers finish in-flight work after shutdown begins.
	base := context.WithoutCancel(ctx)
	for update := range r.jobs {
		r.handle(base, update)
	}
}

// handle routes one update to the bot service.
func (r *Runner) handle(base context.Context, update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(base, r.cfg.HandlerTimeout)
	defer cancel()

	chatID := chatOf(update)
	defer func() {
		if p := recover(); p != nil {
			r.bot.HandleError(ctx, chatID, fmt.Errorf("panic handling update %d: %v", update.UpdateID, p))
		}
	}()

	var err error
	if cmd, ok := toCommand(update); ok {
		logger.Debug("Command /%s from chat %d", cmd.Name, cmd.ChatID)
		err = r.bot.HandleCommand(ctx, cmd)
	} else if cb, ok := toCallback(update); ok {
		logger.Debug("Callback %q from chat %d", cb.Data, cb.ChatID)
		err = r.bot.HandleCallback(ctx, cb)
	} else {
		return
	}

	if err != nil {
		r.bot.HandleError(ctx, chatID, fmt.Errorf("update %d: %w", update.UpdateID, err))
	}
}

// toCommand converts a slash command message.
func toCommand(update tgbotapi.Update) (domain.Command, bool) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || !msg.IsCommand() {
		return domain.Command{}, false
	}
	cmd := domain.Command{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		Name:      msg.Command(),
		Args:      msg.CommandArguments(),
	}
	if msg.From != nil {
		cmd.UserID = msg.From.ID
	}
	return cmd, true
}

// toCallback converts a button press on a message the bot sent.
// Presses on inline-mode messages carry no chat and are ignored.
func toCallback(update tgbotapi.Update) (domain.Callback, bool) {
	q := update.CallbackQuery
	if q == nil || q.Message == nil || q.Message.Chat == nil {
		return domain.Callback{}, false
	}
	cb := domain.Callback{
		ID:        q.ID,
		ChatID:    q.Message.Chat.ID,
		MessageID: q.Message.MessageID,
		Data:      q.Data,
	}
	if q.From != nil {
		cb.UserID = q.From.ID
	}
	return cb, true
}

// chatOf returns the chat an update belongs to, or zero.
// Update.FromChat is not used since it panics on inline-mode callbacks.
func chatOf(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil &&
		update.CallbackQuery.Message.Chat != nil:
		return update.CallbackQuery.Message.Chat.ID
	default:
		return 0
	}
}
