package driving

import (
	"context"

	"github.com/custodia-labs/ideabot/internal/core/domain"
	"github.com/custodia-labs/ideabot/internal/core/ports/driven"
)

// BotService reacts to chat events.
type BotService interface {
	// HandleCommand processes a slash command.
	HandleCommand(ctx context.Context, cmd domain.Command) error

	// HandleCallback processes an inline keyboard button press.
	HandleCallback(ctx context.Context, cb domain.Callback) error

	// HandleError logs err and tells the chat something went wrong.
	// A zero chatID only logs.
	HandleError(ctx context.Context, chatID int64, err error)

	// Commands returns the command menu to register with the chat provider.
	Commands() []driven.BotCommand
}
