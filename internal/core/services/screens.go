package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/ideabot/internal/core/domain"
)

// maxMessageRunes keeps messages under Telegram's 4096 character limit
// with room for escaping.
const maxMessageRunes = 4000

const welcomeText = `🚀 *Welcome to Business Ideas Generator Bot!*

I can help you generate innovative business ideas across various categories using AI.

*Available Commands:*
• /start - Show this welcome message
• /categories - Browse business categories
• /random - Get a random business idea
• /help - Show help information

*How to use:*
1. Click on /categories to see all available business categories
2. Select a category that interests you
3. Get AI-generated business ideas with detailed information

Let's start your entrepreneurial journey! 🎯`

const menuText = `🚀 *Business Ideas Generator Bot*

Ready to discover your next business opportunity?

*What would you like to do?*`

const categoriesText = `🏢 *Choose a Business Category:*

Select a category to get tailored business ideas:`

const helpText = `📘 *Help & Information*

*What is this bot?*
This bot generates innovative business ideas using AI across various categories.

*Available Commands:*
• /start - Main menu and welcome
• /categories - Browse all business categories
• /random - Get a random business idea
• /help - Show this help message

*How it works:*
1. Choose a business category or get a random idea
2. The bot uses AI to generate detailed business concepts
3. Each idea includes market analysis, revenue models, and startup steps

*Support:*
For issues or feedback, please contact the developer.`

const loadingCategoryText = `🔄 *Generating business idea for %s...*

Please wait while I create an innovative business concept for you!`

const loadingRandomText = `🎲 *Generating random business idea...*

_Category: %s_

Please wait!`

const generationErrorText = "*❌ Error Generating Idea*\n\n" +
	"Sorry, I encountered an error while generating a business idea for *%s*.\n\n" +
	"Please try again later or contact support if the issue persists.\n\n" +
	"*Error Details:* `%s`"

const errorText = `❌ *An error occurred*

Sorry, something went wrong. Please try again or use /start to return to the main menu.`

const rateLimitedText = "⏳ You're generating ideas too quickly. Please wait a moment and try again."

// markdown escapes a fixed template, keeping the formatting markers in keep,
// then fills its %s verbs with fully escaped arguments.
func markdown(template, keep string, args ...string) string {
	escaped := domain.EscapeMarkdownV2Keep(template, keep)
	if len(args) == 0 {
		return escaped
	}
	vals := make([]any, len(args))
	for i, a := range args {
		vals[i] = domain.EscapeMarkdownV2(a)
	}
	return fmt.Sprintf(escaped, vals...)
}

func welcomeMessage() string { return markdown(welcomeText, "*") }

func menuMessage() string { return markdown(menuText, "*") }

func categoriesMessage() string { return markdown(categoriesText, "*") }

func helpMessage() string { return markdown(helpText, "*") }

func loadingCategoryMessage(label string) string {
	return markdown(loadingCategoryText, "*", label)
}

func loadingRandomMessage(label string) string {
	return markdown(loadingRandomText, "*_", label)
}

func generationErrorMessage(label string, err error) string {
	return markdown(generationErrorText, "*`", label, err.Error())
}

func errorMessage() string { return markdown(errorText, "*") }

func rateLimitedMessage() string { return markdown(rateLimitedText, "") }

// mainMenuKeyboard is shown on the welcome and menu screens.
func mainMenuKeyboard() domain.Keyboard {
	return domain.Keyboard{
		domain.Row(domain.NewButton("📋 Browse Categories", domain.ActionShowCategories)),
		domain.Row(domain.NewButton("🎲 Random Idea", domain.ActionRandomIdea)),
		domain.Row(domain.NewButton("❓ Help", domain.ActionHelp)),
	}
}

// categoriesKeyboard lays the catalogue out two buttons per row.
func categoriesKeyboard(categories []domain.Category) domain.Keyboard {
	kb := make(domain.Keyboard, 0, len(categories)/2+2)
	for i := 0; i < len(categories); i += 2 {
		row := make([]domain.Button, 0, 2)
		for j := i; j < i+2 && j < len(categories); j++ {
			row = append(row, domain.Button{
				Text: categories[j].Label,
				Data: domain.CategoryData(categories[j].Key),
			})
		}
		kb = append(kb, row)
	}
	return append(kb, domain.Row(domain.NewButton("🔙 Back to Menu", domain.ActionBackToStart)))
}

func helpKeyboard() domain.Keyboard {
	return domain.Keyboard{
		domain.Row(domain.NewButton("📋 Browse Categories", domain.ActionShowCategories)),
		domain.Row(domain.NewButton("🏠 Main Menu", domain.ActionBackToStart)),
	}
}

// categoryIdeaKeyboard follows an idea generated for a chosen category.
func categoryIdeaKeyboard(key string) domain.Keyboard {
	return domain.Keyboard{
		domain.Row(domain.Button{Text: "🔄 Generate Another", Data: domain.CategoryData(key)}),
		domain.Row(domain.NewButton("📋 All Categories", domain.ActionShowCategories)),
		domain.Row(domain.NewButton("🏠 Main Menu", domain.ActionBackToStart)),
	}
}

// randomIdeaKeyboard follows an idea generated for a random category.
func randomIdeaKeyboard() domain.Keyboard {
	return domain.Keyboard{
		domain.Row(domain.NewButton("🎲 Another Random", domain.ActionRandomIdea)),
		domain.Row(domain.NewButton("📋 Browse Categories", domain.ActionShowCategories)),
		domain.Row(domain.NewButton("🏠 Main Menu", domain.ActionBackToStart)),
	}
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// ideaMarkdown prepares LLM output for MarkdownV2. Bold markers survive,
// everything else is escaped. Markdown-style double asterisks are folded into
// Telegram's single asterisk bold. An unpaired marker is escaped. Long text is
// cut between escaped runes and an open bold span is closed after the cut.
func ideaMarkdown(text string) string {
	runes := []rune(strings.ReplaceAll(text, "**", "*"))

	lone := -1
	if strings.Count(string(runes), "*")%2 == 1 {
		for i := len(runes) - 1; i >= 0; i-- {
			if runes[i] == '*' {
				lone = i
				break
			}
		}
	}

	pieces := make([]string, len(runes))
	total := 0
	for i, r := range runes {
		if r == '*' && i != lone {
			pieces[i] = "*"
		} else {
			pieces[i] = domain.EscapeMarkdownV2(string(r))
		}
		total += utf8.RuneCountInString(pieces[i])
	}
	if total <= maxMessageRunes {
		return strings.Join(pieces, "")
	}

	// Room for the ellipsis and a closing marker.
	budget := maxMessageRunes - 2
	kept := make([]string, 0, len(pieces))
	size, bold := 0, false
	for _, p := range pieces {
		n := utf8.RuneCountInString(p)
		if size+n > budget {
			break
		}
		kept = append(kept, p)
		size += n
		if p == "*" {
			bold = !bold
		}
	}

	// Drop a marker that would open an empty span.
	if bold && len(kept) > 0 && kept[len(kept)-1] == "*" {
		kept = kept[:len(kept)-1]
		bold = false
	}
	out := strings.Join(kept, "") + "…"
	if bold {
		out += "*"
	}
	return out
}
