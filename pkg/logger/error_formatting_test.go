//go:build !integration

package logger

import (
	"strings"
	"testing"
)

func TestExtractErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "ISO 8601 timestamp with Z",
			input:    "2024-01-01T12:00:00.123Z Error: exec: \"zizmor\": executable file not found",
			expected: "exec: \"zizmor\": executable file not found",
		},
		{
			name:     "ISO 8601 timestamp with offset",
			input:    "2024-01-01T12:00:00.123+00:00 Error: audit failed",
			expected: "audit failed",
		},
		{
			name:     "date-time with space separator",
			input:    "2024-01-01 12:00:00 Error: audit failed",
			expected: "audit failed",
		},
		{
			name:     "date-time with milliseconds",
			input:    "2024-01-01 12:00:00.456 Error: audit failed",
			expected: "audit failed",
		},
		{
			name:     "bracketed date-time",
			input:    "[2024-01-01 12:00:00] Error: audit failed",
			expected: "audit failed",
		},
		{
			name:     "bracketed time only",
			input:    "[12:00:00] Error: audit failed",
			expected: "audit failed",
		},
		{
			name:     "time only with milliseconds",
			input:    "12:00:00.123 Error: audit failed",
			expected: "audit failed",
		},
		{
			name:     "ERROR prefix with colon",
			input:    "ERROR: audit failed",
			expected: "audit failed",
		},
		{
			name:     "ERROR prefix without colon",
			input:    "ERROR audit failed",
			expected: "audit failed",
		},
		{
			name:     "bracketed ERROR prefix",
			input:    "[ERROR] audit failed",
			expected: "audit failed",
		},
		{
			name:     "bracketed ERROR prefix with colon",
			input:    "[ERROR]: audit failed",
			expected: "audit failed",
		},
		{
			name:     "WARNING prefix",
			input:    "WARNING: rule pack is stale",
			expected: "rule pack is stale",
		},
		{
			name:     "WARN prefix",
			input:    "WARN: deprecated flag",
			expected: "deprecated flag",
		},
		{
			name:     "INFO prefix",
			input:    "INFO: scanning 12 workflows",
			expected: "scanning 12 workflows",
		},
		{
			name:     "DEBUG prefix",
			input:    "DEBUG: resolved config",
			expected: "resolved config",
		},
		{
			name:     "lowercase level",
			input:    "error: audit failed",
			expected: "audit failed",
		},
		{
			name:     "timestamp then level",
			input:    "2024-01-01 12:00:00 ERROR: audit failed",
			expected: "audit failed",
		},
		{
			name:     "only the first timestamp is stripped",
			input:    "[12:00:00] 2024-01-01 12:00:00 ERROR: audit failed",
			expected: "2024-01-01 12:00:00 ERROR: audit failed",
		},
		{
			name:     "no prefix at all",
			input:    "audit failed",
			expected: "audit failed",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only whitespace",
			input:    "   ",
			expected: "",
		},
		{
			name:     "long messages truncate to 200 characters",
			input:    "ERROR: " + strings.Repeat("a", 250),
			expected: strings.Repeat("a", 197) + "...",
		},
		{
			name:     "messages under the limit stay whole",
			input:    "ERROR: " + strings.Repeat("a", 193),
			expected: strings.Repeat("a", 193),
		},
		{
			name:     "actionlint stderr line",
			input:    "2024-01-15T14:30:22.123Z ERROR: could not parse workflow: yaml: line 3: mapping values are not allowed in this context",
			expected: "could not parse workflow: yaml: line 3: mapping values are not allowed in this context",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractErrorMessage(tt.input)
			if result != tt.expected {
				t.Errorf("ExtractErrorMessage(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func BenchmarkExtractErrorMessage(b *testing.B) {
	testLine := "2024-01-01T12:00:00.123Z ERROR: zizmor exited with status 2"

	for b.Loop() {
		ExtractErrorMessage(testLine)
	}
}
