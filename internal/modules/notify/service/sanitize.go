package service

import "strings"

// sanitize strips byte sequences that cannot round-trip through the bot
// API's UTF-8 encoding. Degraded output beats a failed delivery.
func sanitize(s string) string {
	return strings.ToValidUTF8(s, "")
}

func escapeHTML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
