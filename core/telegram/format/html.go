// Package format renders values for Telegram HTML messages.
package format

import "strings"

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// EscapeHTML escapes text for Telegram's HTML parse mode.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// Bold wraps escaped text in <b>.
func Bold(text string) string {
	return "<b>" + EscapeHTML(text) + "</b>"
}

// Blockquote wraps already formatted HTML in a quote block.
func Blockquote(html string) string {
	return "<blockquote>" + html + "</blockquote>"
}
