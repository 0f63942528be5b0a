package domain

// Message is outgoing chat content.
type Message struct {
	// ChatID is the destination chat.
	ChatID int64

	// Text is the message body. When Markdown is true it must already be
	// valid MarkdownV2.
	Text string

	// Markdown selects the MarkdownV2 parse mode. False sends plain text.
	Markdown bool

	// Keyboard is an optional inline keyboard.
	Keyboard Keyboard
}

// Command is an incoming slash command such as /start.
type Command struct {
	ChatID    int64
	UserID    int64
	MessageID int

	// Name is the command without the leading slash or @botname suffix.
	Name string

	// Args is the text following the command.
	Args string
}

// Callback is an incoming inline keyboard button press.
type Callback struct {
	// ID must be answered so the client stops its progress indicator.
	ID        string
	ChatID    int64
	UserID    int64
	MessageID int
	Data      string
}
