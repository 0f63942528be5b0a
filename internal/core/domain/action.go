package domain

import "strings"

// Action identifies what an inline keyboard button asks the bot to do.
// The string value is the callback data sent by Telegram.
type Action string

// Available actions.
const (
	ActionShowCategories Action = "show_categories"
	ActionRandomIdea     Action = "random_idea"
	ActionHelp           Action = "help"
	ActionBackToStart    Action = "back_to_start"

	// ActionCategory is carried as "category_<key>" in callback data.
	ActionCategory Action = "category"

	// ActionUnknown is returned for callback data the bot does not route.
	ActionUnknown Action = ""
)

// categoryPrefix prefixes the category key in callback data.
const categoryPrefix = "category_"

// ParseAction decodes callback data.
// For ActionCategory the second return value is the category key, which is
// not checked against the catalogue.
func ParseAction(data string) (Action, string) {
	switch Action(data) {
	case ActionShowCategories, ActionRandomIdea, ActionHelp, ActionBackToStart:
		return Action(data), ""
	}
	if key, ok := strings.CutPrefix(data, categoryPrefix); ok && key != "" {
		return ActionCategory, key
	}
	return ActionUnknown, ""
}

// CategoryData builds the callback data selecting a category.
func CategoryData(key string) string {
	return categoryPrefix + key
}

// String returns the callback data for a non-category action.
func (a Action) String() string {
	return string(a)
}
