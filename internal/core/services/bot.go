package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/custodia-labs/ideabot/internal/core/domain"
	"github.com/custodia-labs/ideabot/internal/core/ports/driven"
	"github.com/custodia-labs/ideabot/internal/core/ports/driving"
	"github.com/custodia-labs/ideabot/internal/logger"
)

// Ensure BotService implements the interface.
var _ driving.BotService = (*BotService)(nil)

// Bot commands.
const (
	CommandStart      = "start"
	CommandCategories = "categories"
	CommandRandom     = "random"
	CommandHelp       = "help"
)

// BotService routes chat commands and button presses to screens and idea
// generation.
type BotService struct {
	ideas     driving.IdeaService
	messenger driven.Messenger
	limiter   driven.RateLimiter
}

// NewBotService creates a new bot service. limiter may be nil to disable
// per-chat rate limiting.
func NewBotService(ideas driving.IdeaService, messenger driven.Messenger, limiter driven.RateLimiter) *BotService {
	return &BotService{
		ideas:     ideas,
		messenger: messenger,
		limiter:   limiter,
	}
}

// Commands returns the command menu registered with the chat provider.
func (s *BotService) Commands() []driven.BotCommand {
	return []driven.BotCommand{
		{Command: CommandStart, Description: "Main menu and welcome"},
		{Command: CommandCategories, Description: "Browse business categories"},
		{Command: CommandRandom, Description: "Get a random business idea"},
		{Command: CommandHelp, Description: "Show help information"},
	}
}

// HandleCommand processes a slash command.
func (s *BotService) HandleCommand(ctx context.Context, cmd domain.Command) error {
	logger.Debug("chat %d: /%s", cmd.ChatID, cmd.Name)

	switch cmd.Name {
	case CommandStart:
		return s.send(ctx, cmd.ChatID, welcomeMessage(), mainMenuKeyboard())
	case CommandCategories:
		return s.send(ctx, cmd.ChatID, categoriesMessage(), categoriesKeyboard(s.ideas.Categories()))
	case CommandHelp:
		return s.send(ctx, cmd.ChatID, helpMessage(), helpKeyboard())
	case CommandRandom:
		return s.randomFromCommand(ctx, cmd)
	default:
		logger.Debug("ignoring unknown command /%s", cmd.Name)
		return nil
	}
}

// HandleCallback processes an inline keyboard button press.
func (s *BotService) HandleCallback(ctx context.Context, cb domain.Callback) error {
	action, key := domain.ParseAction(cb.Data)
	logger.Debug("chat %d: callback %q", cb.ChatID, cb.Data)

	switch action {
	case domain.ActionShowCategories:
		return s.screen(ctx, cb, categoriesMessage(), categoriesKeyboard(s.ideas.Categories()))
	case domain.ActionHelp:
		return s.screen(ctx, cb, helpMessage(), helpKeyboard())
	case domain.ActionBackToStart:
		return s.screen(ctx, cb, menuMessage(), mainMenuKeyboard())
	case domain.ActionRandomIdea:
		category := s.ideas.RandomCategory()
		return s.ideaFromCallback(ctx, cb, category, true)
	case domain.ActionCategory:
		category, ok := domain.LookupCategory(key)
		if !ok {
			category = domain.Category{Key: key, Label: domain.UnknownCategoryLabel}
		}
		return s.ideaFromCallback(ctx, cb, category, false)
	default:
		logger.Debug("ignoring unknown callback data %q", cb.Data)
		s.answer(ctx, cb.ID, "")
		return nil
	}
}

// HandleError logs err and tells the chat something went wrong.
func (s *BotService) HandleError(ctx context.Context, chatID int64, err error) {
	logger.Error("chat %d: %v", chatID, err)
	if chatID == 0 {
		return
	}
	msg := domain.Message{ChatID: chatID, Text: errorMessage(), Markdown: true}
	if _, sendErr := s.messenger.Send(ctx, msg); sendErr != nil {
		logger.Error("failed to send error message to chat %d: %v", chatID, sendErr)
	}
}

// screen answers a callback and replaces the pressed message.
func (s *BotService) screen(ctx context.Context, cb domain.Callback, text string, kb domain.Keyboard) error {
	s.answer(ctx, cb.ID, "")
	return s.edit(ctx, cb.MessageID, domain.Message{ChatID: cb.ChatID, Text: text, Markdown: true, Keyboard: kb})
}

// ideaFromCallback turns the pressed message into a loading screen, then into
// the generated idea.
func (s *BotService) ideaFromCallback(ctx context.Context, cb domain.Callback, category domain.Category, random bool) error {
	if !s.allow(cb.ChatID) {
		s.answer(ctx, cb.ID, rateLimitedText)
		return nil
	}
	s.answer(ctx, cb.ID, "")

	loading := loadingCategoryMessage(category.Label)
	if random {
		loading = loadingRandomMessage(category.Label)
	}
	if err := s.edit(ctx, cb.MessageID, domain.Message{ChatID: cb.ChatID, Text: loading, Markdown: true}); err != nil {
		return err
	}

	text, markdown := s.generate(ctx, cb.ChatID, category, random)
	kb := ideaKeyboard(category, random)
	return s.deliver(domain.Message{ChatID: cb.ChatID, Text: text, Markdown: markdown, Keyboard: kb}, func(msg domain.Message) error {
		return s.edit(ctx, cb.MessageID, msg)
	})
}

// randomFromCommand sends a loading message, replaces it with a fresh message
// holding the idea.
func (s *BotService) randomFromCommand(ctx context.Context, cmd domain.Command) error {
	if !s.allow(cmd.ChatID) {
		return s.send(ctx, cmd.ChatID, rateLimitedMessage(), nil)
	}

	category := s.ideas.RandomCategory()
	loadingID, err := s.messenger.Send(ctx, domain.Message{
		ChatID:   cmd.ChatID,
		Text:     loadingRandomMessage(category.Label),
		Markdown: true,
	})
	if err != nil {
		return fmt.Errorf("send loading message: %w", err)
	}

	text, markdown := s.generate(ctx, cmd.ChatID, category, true)

	if err := s.messenger.Delete(ctx, cmd.ChatID, loadingID); err != nil {
		logger.Warn("could not delete loading message %d: %v", loadingID, err)
	}

	kb := ideaKeyboard(category, true)
	return s.deliver(domain.Message{ChatID: cmd.ChatID, Text: text, Markdown: markdown, Keyboard: kb}, func(msg domain.Message) error {
		_, err := s.messenger.Send(ctx, msg)
		return err
	})
}

// generate returns the text for the idea slot. Failures become an error
// notice so the user still gets the follow-up keyboard.
func (s *BotService) generate(ctx context.Context, chatID int64, category domain.Category, random bool) (string, bool) {
	idea, err := s.ideas.Generate(ctx, driving.IdeaRequest{
		ChatID:      chatID,
		CategoryKey: category.Key,
		Random:      random,
	})
	if err != nil {
		logger.Error("error generating business idea for %s: %v", category.Key, err)
		return generationErrorMessage(category.Label, err), true
	}
	return idea.Text, false
}

// deliver sends an idea as MarkdownV2 and retries as plain text when the
// markup is rejected. A message without Markdown set carries raw LLM output.
func (s *BotService) deliver(msg domain.Message, put func(domain.Message) error) error {
	raw := msg.Text
	if !msg.Markdown {
		msg.Text = ideaMarkdown(raw)
		msg.Markdown = true
	}

	err := put(msg)
	if err == nil || errors.Is(err, domain.ErrMessageNotModified) {
		return nil
	}
	if !errors.Is(err, domain.ErrMarkupRejected) {
		return fmt.Errorf("deliver idea: %w", err)
	}

	logger.Warn("could not parse idea markdown, sending as plain text: %v", err)
	msg.Text = truncate(raw, maxMessageRunes)
	msg.Markdown = false
	if err := put(msg); err != nil && !errors.Is(err, domain.ErrMessageNotModified) {
		return fmt.Errorf("deliver plain idea: %w", err)
	}
	return nil
}

func (s *BotService) send(ctx context.Context, chatID int64, text string, kb domain.Keyboard) error {
	_, err := s.messenger.Send(ctx, domain.Message{ChatID: chatID, Text: text, Markdown: true, Keyboard: kb})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (s *BotService) edit(ctx context.Context, messageID int, msg domain.Message) error {
	err := s.messenger.Edit(ctx, messageID, msg)
	if err == nil || errors.Is(err, domain.ErrMessageNotModified) {
		return nil
	}
	return fmt.Errorf("edit message: %w", err)
}

// answer acknowledges a callback. Failures only matter to the client's
// progress indicator.
func (s *BotService) answer(ctx context.Context, id, text string) {
	if id == "" {
		return
	}
	if err := s.messenger.AnswerCallback(ctx, id, text); err != nil {
		logger.Debug("answer callback %s: %v", id, err)
	}
}

func (s *BotService) allow(chatID int64) bool {
	if s.limiter == nil {
		return true
	}
	if s.limiter.Allow(strconv.FormatInt(chatID, 10)) {
		return true
	}
	logger.Info("chat %d is generating too quickly", chatID)
	return false
}

func ideaKeyboard(category domain.Category, random bool) domain.Keyboard {
	if random {
		return randomIdeaKeyboard()
	}
	return categoryIdeaKeyboard(category.Key)
}
