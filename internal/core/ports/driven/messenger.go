package driven

import (
	"context"

	"github.com/custodia-labs/ideabot/internal/core/domain"
)

// Messenger delivers messages to chat users.
//
// Implementations translate provider failures into domain errors:
//   - domain.ErrMarkupRejected when the formatted text cannot be parsed
//   - domain.ErrMessageNotModified when an edit changes nothing
//   - domain.ErrRateLimited when the provider throttles the bot
type Messenger interface {
	// Send posts a new message and returns its message ID.
	Send(ctx context.Context, msg domain.Message) (int, error)

	// Edit replaces the text and keyboard of an existing message.
	Edit(ctx context.Context, messageID int, msg domain.Message) error

	// Delete removes a message.
	Delete(ctx context.Context, chatID int64, messageID int) error

	// AnswerCallback acknowledges a button press, optionally showing text.
	AnswerCallback(ctx context.Context, callbackID, text string) error

	// SetCommands registers the command menu shown by chat clients.
	SetCommands(ctx context.Context, commands []BotCommand) error
}

// BotCommand is an entry in the chat client's command menu.
type BotCommand struct {
	// Command is the name without the leading slash.
	Command string

	// Description is shown next to the command.
	Description string
}
