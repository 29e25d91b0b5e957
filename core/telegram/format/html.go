// Package format contains text escaping helpers for Telegram parse modes.
package format

import "strings"

// htmlEscaper covers the characters Telegram's HTML parse mode treats
// as markup, plus quotes so values are safe inside attributes.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

// EscapeHTML escapes text for Telegram's HTML parse mode.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// EscapeHTMLOr escapes text, substituting fallback when the result is empty.
func EscapeHTMLOr(text, fallback string) string {
	if escaped := htmlEscaper.Replace(text); escaped != "" {
		return escaped
	}
	return fallback
}
