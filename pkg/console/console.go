// Package console provides terminal output helpers: message formatting,
// diagnostics, tables, boxes, trees, spinners, and progress bars. All
// styling degrades to plain text when stdout is not a terminal or when
// ACCESSIBLE is set.
package console

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wfgate/gh-wfgate/pkg/constants"
	"github.com/wfgate/gh-wfgate/pkg/styles"
	"github.com/wfgate/gh-wfgate/pkg/tty"
)

// isTTY reports whether stdout is attached to a terminal.
func isTTY() bool {
	return tty.IsStdoutTerminal()
}

// IsAccessibleMode reports whether accessible output is requested via the
// ACCESSIBLE environment variable. Accessible mode disables spinners,
// progress animation, and color.
func IsAccessibleMode() bool {
	return os.Getenv(constants.EnvAccessible) != ""
}

// colorEnabled reports whether styled output should carry ANSI colors.
func colorEnabled() bool {
	if os.Getenv(constants.EnvNoColor) != "" {
		return false
	}
	return isTTY() && !IsAccessibleMode()
}

func render(style lipgloss.Style, message string) string {
	if !colorEnabled() {
		return message
	}
	return style.Render(message)
}

// FormatSuccessMessage formats a message with a success marker.
func FormatSuccessMessage(message string) string {
	return render(styles.Success, "✓ "+message)
}

// FormatErrorMessage formats a message with an error marker.
func FormatErrorMessage(message string) string {
	return render(styles.Error, "✗ "+message)
}

// FormatWarningMessage formats a message with a warning marker.
func FormatWarningMessage(message string) string {
	return render(styles.Warning, "⚠ "+message)
}

// FormatInfoMessage formats an informational message.
func FormatInfoMessage(message string) string {
	return render(styles.Info, message)
}

// FormatVerboseMessage formats a low-priority message shown with -v.
func FormatVerboseMessage(message string) string {
	return render(styles.Muted, message)
}

// FormatCommandMessage formats a shell command suggestion.
func FormatCommandMessage(message string) string {
	return render(styles.Accent, message)
}

// FormatProgressMessage formats an in-progress status line.
func FormatProgressMessage(message string) string {
	return render(styles.Muted, message)
}

// FormatLocationMessage formats a filesystem or URL location.
func FormatLocationMessage(message string) string {
	return render(styles.Info, "→ "+message)
}

// LogVerbose prints a verbose message to stderr when verbose is enabled.
func LogVerbose(verbose bool, message string) {
	if !verbose {
		return
	}
	fmt.Fprintln(os.Stderr, FormatVerboseMessage(message))
}

// Position locates a diagnostic within a source file. Line and Column are
// 1-based.
type Position struct {
	File   string
	Line   int
	Column int
}

// Diagnostic is a position-annotated message rendered in compiler style:
// file:line:column: severity: message.
type Diagnostic struct {
	Position Position
	Severity string
	Message  string
	Hint     string
	Context  []string
}

// FormatDiagnostic renders a diagnostic with its source context and hint.
func FormatDiagnostic(d Diagnostic) string {
	var b strings.Builder

	head := fmt.Sprintf("%s:%d:%d: %s: %s", d.Position.File, d.Position.Line, d.Position.Column, d.Severity, d.Message)
	switch d.Severity {
	case "error":
		b.WriteString(render(styles.Error, head))
	case "warning":
		b.WriteString(render(styles.Warning, head))
	default:
		b.WriteString(render(styles.Info, head))
	}
	b.WriteString("\n")

	for _, line := range d.Context {
		b.WriteString("  " + line + "\n")
	}
	if d.Hint != "" {
		b.WriteString(render(styles.Muted, "  hint: "+d.Hint) + "\n")
	}
	return b.String()
}

// FormatErrorWithSuggestions renders an error message followed by an
// indented list of remediation suggestions.
func FormatErrorWithSuggestions(message string, suggestions []string) string {
	var b strings.Builder
	b.WriteString(FormatErrorMessage(message))
	b.WriteString("\n")
	for _, s := range suggestions {
		b.WriteString("  • " + s + "\n")
	}
	return b.String()
}
