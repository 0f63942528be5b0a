package domain

// Button is an inline keyboard button carrying callback data.
type Button struct {
	Text string
	Data string
}

// NewButton creates a button for a routed action.
func NewButton(text string, action Action) Button {
	return Button{Text: text, Data: action.String()}
}

// Keyboard is an inline keyboard laid out as rows of buttons.
type Keyboard [][]Button

// Row builds a single keyboard row.
func Row(buttons ...Button) []Button {
	return buttons
}

// Len returns the total number of buttons.
func (k Keyboard) Len() int {
	n := 0
	for _, row := range k {
		n += len(row)
	}
	return n
}

// IsEmpty reports whether the keyboard has no buttons.
func (k Keyboard) IsEmpty() bool {
	return k.Len() == 0
}
