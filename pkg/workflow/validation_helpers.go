// This file provides validation helpers for user-supplied configuration:
// CLI flag values, conventions entries, and init inputs.
//
// # Available Helper Functions
//
//   - ValidateRequired() - Validates that a required field is not empty
//   - ValidateInList() - Validates that a value is in an allowed list
//   - ValidatePositiveInt() - Validates that a value is a positive integer
//
// Each helper returns a *ValidationError so callers get the field, the
// offending value, and a suggestion in one structured value.

package workflow

import (
	"fmt"
	"slices"
	"strings"

	"github.com/wfgate/gh-wfgate/pkg/logger"
)

var validationHelpersLog = logger.New("workflow:validation_helpers")

// ValidateRequired validates that a required field is not empty
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		validationHelpersLog.Printf("Required field validation failed: field=%s", field)
		return NewValidationError(
			field,
			value,
			"field is required and cannot be empty",
			fmt.Sprintf("Provide a non-empty value for '%s'", field),
		)
	}
	return nil
}

// ValidateInList validates that a value is in an allowed list
func ValidateInList(field, value string, allowedValues []string) error {
	if slices.Contains(allowedValues, value) {
		return nil
	}

	validationHelpersLog.Printf("List validation failed: field=%s, value=%s not in allowed list", field, value)
	return NewValidationError(
		field,
		value,
		fmt.Sprintf("value is not in allowed list: %v", allowedValues),
		fmt.Sprintf("Choose one of the allowed values for '%s': %s", field, strings.Join(allowedValues, ", ")),
	)
}

// ValidatePositiveInt validates that a value is a positive integer
func ValidatePositiveInt(field string, value int) error {
	if value <= 0 {
		return NewValidationError(
			field,
			fmt.Sprintf("%d", value),
			"value must be a positive integer",
			fmt.Sprintf("Provide a positive integer value for '%s'", field),
		)
	}
	return nil
}
