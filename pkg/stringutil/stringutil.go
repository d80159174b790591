// Package stringutil provides small string helpers shared across the
// validation engine: truncation, ANSI stripping, fuzzy matching, and
// workflow file classification.
package stringutil

import (
	"regexp"
)

// Truncate shortens s to at most maxLen bytes, appending "..." when
// content is dropped. Truncation is byte-based, so multi-byte runes at
// the cut point may be split.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

var ansiEscapePattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSIEscapeCodes removes ANSI CSI sequences (colors, cursor
// movement, erase commands) from s. External analyzers sometimes emit
// colored output even when asked not to, which corrupts logs and
// parsed diagnostics.
func StripANSIEscapeCodes(s string) string {
	return ansiEscapePattern.ReplaceAllString(s, "")
}

// IsPositiveInteger reports whether s is a base-10 integer greater
// than zero with no sign, no leading zeros, and no surrounding
// whitespace.
func IsPositiveInteger(s string) bool {
	if s == "" || s[0] == '0' {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
