//go:build integration

package main

import (
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestArgumentSyntaxConsistency verifies that command argument syntax is consistent with validators
func TestArgumentSyntaxConsistency(t *testing.T) {
	tests := []struct {
		name           string
		command        *cobra.Command
		expectedUse    string
		argsValidator  string // Description of the Args validator
		shouldValidate func(*cobra.Command) error
	}{
		// Commands with optional arguments (using square brackets [])
		{
			name:           "validate command has optional files",
			command:        validateCmd,
			expectedUse:    "validate [file]...",
			argsValidator:  "no validator (all optional)",
			shouldValidate: func(cmd *cobra.Command) error { return nil },
		},
		{
			name:           "watch command has optional files",
			command:        watchCmd,
			expectedUse:    "watch [file]...",
			argsValidator:  "no validator (all optional)",
			shouldValidate: func(cmd *cobra.Command) error { return nil },
		},

		// Commands without arguments
		{
			name:           "init command takes no arguments",
			command:        initCmd,
			expectedUse:    "init",
			argsValidator:  "no validator",
			shouldValidate: func(cmd *cobra.Command) error { return nil },
		},
		{
			name:           "mcp-server command takes no arguments",
			command:        mcpServerCmd,
			expectedUse:    "mcp-server",
			argsValidator:  "no validator",
			shouldValidate: func(cmd *cobra.Command) error { return nil },
		},
		{
			name:           "version command takes no arguments",
			command:        versionCmd,
			expectedUse:    "version",
			argsValidator:  "no validator",
			shouldValidate: func(cmd *cobra.Command) error { return nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup step - ensure command is valid
			require.NotNil(t, tt.command, "Test case %q requires valid command", tt.name)

			// Check Use pattern
			use := tt.command.Use
			assert.Equal(t, tt.expectedUse, use,
				"Command %q should have expected Use syntax", tt.command.Name())

			// Validate the Use pattern format
			assert.True(t, isValidUseSyntax(use),
				"Command %q Use=%q should follow valid CLI syntax patterns",
				tt.command.Name(), use)

			// Skip validation check if not provided
			if tt.shouldValidate == nil {
				return
			}

			// Validate that the Args validator works as expected
			err := tt.shouldValidate(tt.command)
			require.NoError(t, err,
				"Args validator (%s) should accept valid test arguments for command %q",
				tt.argsValidator, tt.command.Name())
		})
	}
}

// TestRootCommandUseSyntax verifies the root command placeholder syntax
func TestRootCommandUseSyntax(t *testing.T) {
	assert.Equal(t, "wfgate [command]", rootCmd.Use,
		"Root command should advertise the optional subcommand placeholder")
	assert.True(t, isValidUseSyntax(rootCmd.Use),
		"Root command Use=%q should follow valid syntax pattern", rootCmd.Use)
}

// isValidUseSyntax validates the Use syntax pattern
func isValidUseSyntax(use string) bool {
	// Pattern: command-name [<required>|[optional]] [...]
	// Required arguments use angle brackets: <arg>
	// Optional arguments use square brackets: [arg]
	// Multiple arguments indicated with ellipsis: ...

	parts := strings.Fields(use)
	if len(parts) == 0 {
		return false
	}

	// First part should be the command name (no brackets or special chars except hyphen)
	commandName := parts[0]
	if !regexp.MustCompile(`^[a-z][a-z0-9-]*$`).MatchString(commandName) {
		return false
	}

	// Check argument patterns
	for i := 1; i < len(parts); i++ {
		arg := parts[i]

		// Check for valid patterns:
		// - <arg>     (required)
		// - <arg>...  (required multiple)
		// - [arg]     (optional)
		// - [arg]...  (optional multiple)

		validPatterns := []string{
			`^<[a-z][a-z0-9-]*>$`,         // <required>
			`^<[a-z][a-z0-9-]*>\.\.\.$`,   // <required>...
			`^\[[a-z][a-z0-9-]*\]$`,       // [optional]
			`^\[[a-z][a-z0-9-]*\]\.\.\.$`, // [optional]...
		}

		isValid := false
		for _, pattern := range validPatterns {
			if regexp.MustCompile(pattern).MatchString(arg) {
				isValid = true
				break
			}
		}

		if !isValid {
			return false
		}
	}

	return true
}

// TestArgumentNamingConventions verifies that argument names follow conventions
func TestArgumentNamingConventions(t *testing.T) {
	// Collect all commands
	commands := []*cobra.Command{
		validateCmd,
		watchCmd,
		initCmd,
		mcpServerCmd,
		versionCmd,
	}

	// Also collect subcommands
	for _, cmd := range commands {
		commands = append(commands, cmd.Commands()...)
	}

	// Define naming conventions
	conventions := map[string]string{
		"file": "File-taking commands should use 'file' for consistency",
	}

	for _, cmd := range commands {
		use := cmd.Use
		parts := strings.Fields(use)

		for i := 1; i < len(parts); i++ {
			arg := parts[i]

			// Extract the argument name (remove brackets and ellipsis)
			argName := arg
			argName = strings.TrimPrefix(argName, "<")
			argName = strings.TrimPrefix(argName, "[")
			argName = strings.TrimSuffix(argName, "...")
			argName = strings.TrimSuffix(argName, ">")
			argName = strings.TrimSuffix(argName, "]")

			// Verify argument name follows conventions
			if reason, exists := conventions[argName]; exists {
				t.Logf("✓ Command %q uses conventional argument name %q: %s", cmd.Name(), argName, reason)
			}

			// Argument names should be lowercase with hyphens
			assert.Regexp(t, `^[a-z][a-z0-9-]*$`, argName,
				"Command %q argument %q should use lowercase with hyphens only",
				cmd.Name(), argName)
		}
	}
}
