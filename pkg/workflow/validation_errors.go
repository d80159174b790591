// This file defines the structured validation error type shared by the
// conventions loader and the gate detectors.
//
// # Validation Errors
//
// A ValidationError carries four pieces of context:
//
//   - Field - the configuration key or workflow location being validated
//   - Value - the offending value as written by the user
//   - Message - what is wrong with it
//   - Suggestion - how to fix it, ideally with an "Expected format" and "Example"
//
// Detectors convert ValidationErrors into findings; the conventions loader
// returns them directly so the CLI can render the suggestion as a hint.

package workflow

import (
	"fmt"

	"github.com/wfgate/gh-wfgate/pkg/stringutil"
)

// maxReportedValueLength bounds how much of the offending value is echoed
// back in an error message.
const maxReportedValueLength = 80

// ValidationError describes a single invalid field or value with remediation guidance
type ValidationError struct {
	Field      string
	Value      string
	Message    string
	Suggestion string
}

// NewValidationError creates a validation error for a field with an invalid value
func NewValidationError(field, value, message, suggestion string) *ValidationError {
	return &ValidationError{
		Field:      field,
		Value:      value,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Error formats the validation error as a single line suitable for CLI output
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s", e.Field)
	if e.Value != "" {
		msg += fmt.Sprintf(" %q", stringutil.Truncate(e.Value, maxReportedValueLength))
	}
	msg += ": " + e.Message
	if e.Suggestion != "" {
		msg += ". " + e.Suggestion
	}
	return msg
}
