package cli

import (
	"fmt"
	"os"

	"github.com/wfgate/gh-wfgate/pkg/console"
)

// FormatValidationError formats a validation error for console output.
// Validation errors stay plain text inside pkg/workflow; styling is applied
// only here at the presentation boundary, so multi-line structured errors
// keep their shape.
func FormatValidationError(err error) string {
	if err == nil {
		return ""
	}
	return console.FormatErrorMessage(err.Error())
}

// PrintValidationError prints a validation error to stderr with console
// formatting. All fatal validation errors go through this function so the
// styling stays consistent across commands.
func PrintValidationError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatValidationError(err))
}

// ExitError carries a process exit status across the cobra boundary. By the
// time a command returns one, the report or error message has already been
// rendered; main exits with Code without printing anything further.
type ExitError struct {
	Code int
}

// Error satisfies the error interface. The message is never shown to users.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError returns an ExitError for the given status code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}
