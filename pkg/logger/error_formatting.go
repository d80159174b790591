package logger

import (
	"regexp"
	"strings"
)

const maxErrorMessageLength = 200

var (
	// Matches one leading timestamp: ISO 8601 (with optional fraction and
	// zone), "YYYY-MM-DD HH:MM:SS", or a bare "HH:MM:SS", optionally
	// bracketed.
	timestampPrefixRe = regexp.MustCompile(`^\s*\[?(?:\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})?|\d{2}:\d{2}:\d{2}(?:\.\d+)?)\]?\s+`)

	// Matches one leading log-level marker such as "ERROR:", "ERROR",
	// "[ERROR]" or "[ERROR]:", case-insensitively.
	levelPrefixRe = regexp.MustCompile(`(?i)^\s*\[?(?:ERROR|WARNING|WARN|INFO|DEBUG)\]?:?\s+`)
)

// ExtractErrorMessage normalizes a raw log line from an external process:
// it strips at most one leading timestamp and one leading log-level marker,
// trims whitespace, and truncates long messages to 200 characters.
func ExtractErrorMessage(line string) string {
	msg := timestampPrefixRe.ReplaceAllString(line, "")
	msg = levelPrefixRe.ReplaceAllString(msg, "")
	msg = strings.TrimSpace(msg)

	if len(msg) > maxErrorMessageLength {
		msg = msg[:maxErrorMessageLength-3] + "..."
	}
	return msg
}
