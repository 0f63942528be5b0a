package domain

import "strings"

// markdownV2Special lists characters Telegram requires to be escaped in MarkdownV2.
const markdownV2Special = "_*[]()~`>#+-=|{}.!\\"

// EscapeMarkdownV2 escapes every MarkdownV2 special character in s.
func EscapeMarkdownV2(s string) string {
	return EscapeMarkdownV2Keep(s, "")
}

// EscapeMarkdownV2Keep escapes MarkdownV2 special characters except those in keep.
// Templates use it to keep their own bold and italic markers while escaping
// punctuation such as '.', '-' and '!'.
func EscapeMarkdownV2Keep(s, keep string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/8)
	for _, r := range s {
		if strings.ContainsRune(markdownV2Special, r) && !strings.ContainsRune(keep, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
