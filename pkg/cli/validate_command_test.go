//go:build !integration

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfgate/gh-wfgate/pkg/constants"
	"github.com/wfgate/gh-wfgate/pkg/workflow"
)

// TestNewValidateCommand tests that the validate command is created correctly
func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	require.NotNil(t, cmd, "NewValidateCommand should return a non-nil command")
	assert.Equal(t, "validate", cmd.Name(), "Command name should be 'validate'")
	assert.NotEmpty(t, cmd.Short, "Command should have a short description")
	assert.NotEmpty(t, cmd.Long, "Command should have a long description")

	// Verify key flags exist
	require.NotNil(t, cmd.Flags().Lookup("dir"), "validate command should have a --dir flag")
	assert.Equal(t, "d", cmd.Flags().Lookup("dir").Shorthand, "--dir flag should have -d shorthand")
	require.NotNil(t, cmd.Flags().Lookup("format"), "validate command should have a --format flag")
	assert.Equal(t, "f", cmd.Flags().Lookup("format").Shorthand, "--format flag should have -f shorthand")
	require.NotNil(t, cmd.Flags().Lookup("quick"), "validate command should have a --quick flag")
	require.NotNil(t, cmd.Flags().Lookup("strict"), "validate command should have a --strict flag")
	require.NotNil(t, cmd.Flags().Lookup("stats"), "validate command should have a --stats flag")
	require.NotNil(t, cmd.Flags().Lookup("browse"), "validate command should have a --browse flag")
	require.NotNil(t, cmd.Flags().Lookup("conventions"), "validate command should have a --conventions flag")
	require.NotNil(t, cmd.Flags().Lookup("tool-timeout"), "validate command should have a --tool-timeout flag")
	require.NotNil(t, cmd.Flags().Lookup("max-parallel"), "validate command should have a --max-parallel flag")
	require.NotNil(t, cmd.Flags().Lookup("no-tools"), "validate command should have a --no-tools flag")
	require.NotNil(t, cmd.Flags().Lookup("no-check-update"), "validate command should have a --no-check-update flag")
	require.NotNil(t, cmd.Flags().Lookup("verbose"), "validate command should have a --verbose flag")
	assert.Equal(t, "v", cmd.Flags().Lookup("verbose").Shorthand, "--verbose flag should have -v shorthand")
}

// TestValidateCommandFlagDefaults verifies the defaults commands start from
func TestValidateCommandFlagDefaults(t *testing.T) {
	cmd := NewValidateCommand()

	assert.Equal(t, constants.GetWorkflowDir(), cmd.Flags().Lookup("dir").DefValue,
		"--dir should default to the standard workflow directory")
	assert.Equal(t, FormatText, cmd.Flags().Lookup("format").DefValue,
		"--format should default to text")
	assert.Equal(t, "false", cmd.Flags().Lookup("quick").DefValue)
	assert.Equal(t, "false", cmd.Flags().Lookup("strict").DefValue)
	assert.Equal(t, "false", cmd.Flags().Lookup("no-tools").DefValue)
	assert.Equal(t, "0s", cmd.Flags().Lookup("tool-timeout").DefValue,
		"--tool-timeout should default to unset so the engine default applies")
	assert.Equal(t, "0", cmd.Flags().Lookup("max-parallel").DefValue,
		"--max-parallel should default to unset so the engine picks CPU count")
}

// TestValidateOptionsFromFlags verifies flag values land in the options struct
func TestValidateOptionsFromFlags(t *testing.T) {
	cmd := NewValidateCommand()
	require.NoError(t, cmd.Flags().Set("dir", "infra/workflows"))
	require.NoError(t, cmd.Flags().Set("quick", "true"))
	require.NoError(t, cmd.Flags().Set("strict", "true"))
	require.NoError(t, cmd.Flags().Set("format", "json"))
	require.NoError(t, cmd.Flags().Set("stats", "true"))
	require.NoError(t, cmd.Flags().Set("browse", "true"))
	require.NoError(t, cmd.Flags().Set("conventions", "custom/.wfgate.yml"))
	require.NoError(t, cmd.Flags().Set("tool-timeout", "30s"))
	require.NoError(t, cmd.Flags().Set("max-parallel", "2"))
	require.NoError(t, cmd.Flags().Set("no-tools", "true"))
	require.NoError(t, cmd.Flags().Set("verbose", "true"))

	opts := validateOptionsFromFlags(cmd, []string{"ci.yml", "release.yml"})

	assert.Equal(t, "infra/workflows", opts.Dir)
	assert.Equal(t, []string{"ci.yml", "release.yml"}, opts.Files)
	assert.True(t, opts.Quick)
	assert.True(t, opts.Strict)
	assert.True(t, opts.NoTools)
	assert.Equal(t, FormatJSON, opts.Format)
	assert.True(t, opts.Stats)
	assert.True(t, opts.Browse)
	assert.Equal(t, "custom/.wfgate.yml", opts.Conventions)
	assert.Equal(t, 30*time.Second, opts.ToolTimeout)
	assert.Equal(t, 2, opts.MaxParallel)
	assert.True(t, opts.Verbose)
}

// TestLoadRunConventions verifies conventions resolution order
func TestLoadRunConventions(t *testing.T) {
	t.Run("no conventions file anywhere returns nil", func(t *testing.T) {
		dir := t.TempDir()
		conv, err := loadRunConventions(&ValidateOptions{Dir: dir})
		require.NoError(t, err)
		assert.Nil(t, conv, "Without a conventions file the built-in defaults apply")
	})

	t.Run("explicit conventions path is loaded", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "custom.yml")
		require.NoError(t, os.WriteFile(path, []byte("trusted_namespaces:\n  - myorg\n"), 0o644))

		conv, err := loadRunConventions(&ValidateOptions{Dir: dir, Conventions: path})
		require.NoError(t, err)
		require.NotNil(t, conv)
		assert.Equal(t, []string{"myorg"}, conv.TrustedNamespaces)
	})

	t.Run("explicit missing path is an error", func(t *testing.T) {
		dir := t.TempDir()
		_, err := loadRunConventions(&ValidateOptions{
			Dir:         dir,
			Conventions: filepath.Join(dir, "absent.yml"),
		})
		assert.Error(t, err, "A conventions path the user named must exist")
	})

	t.Run("nearest conventions file above the workflow dir is found", func(t *testing.T) {
		root := t.TempDir()
		workflowDir := filepath.Join(root, ".github", "workflows")
		require.NoError(t, os.MkdirAll(workflowDir, 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(root, constants.DefaultConventionsFile),
			[]byte("required_keys:\n  - permissions\n"), 0o644))

		conv, err := loadRunConventions(&ValidateOptions{Dir: workflowDir})
		require.NoError(t, err)
		require.NotNil(t, conv)
		assert.Equal(t, []string{"permissions"}, conv.RequiredKeys)
	})
}

// TestRunValidationRendersReport runs the full pipeline over a real directory
func TestRunValidationRendersReport(t *testing.T) {
	dir := t.TempDir()
	goodWorkflow := `name: CI
on: push
permissions:
  contents: read
jobs:
  build:
    runs-on: ubuntu-latest
    timeout-minutes: 5
    steps:
      - uses: actions/checkout@v4
      - run: make test
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ci.yml"), []byte(goodWorkflow), 0o644))

	var progress [][2]int
	var buf bytes.Buffer
	opts := &ValidateOptions{
		Dir:     dir,
		Format:  FormatJSON,
		NoTools: true,
		Progress: func(done, total int) {
			progress = append(progress, [2]int{done, total})
		},
	}
	suite, err := runValidation(context.Background(), opts, &buf)
	require.NoError(t, err)
	require.NotNil(t, suite)

	assert.Equal(t, workflow.SuiteOK, suite.Status, "A hardened workflow should pass every gate")
	assert.Equal(t, workflow.ExitOK, suite.ExitCode)
	assert.Equal(t, [][2]int{{1, 1}}, progress, "the progress callback reaches the engine")

	var decoded workflow.SuiteResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded), "JSON output should round-trip")
	assert.Equal(t, 1, decoded.Totals.Documents)
}

// TestRunValidationMissingDirectory verifies a missing directory reports no documents
func TestRunValidationMissingDirectory(t *testing.T) {
	var buf bytes.Buffer
	opts := &ValidateOptions{
		Dir:     filepath.Join(t.TempDir(), "does-not-exist"),
		Format:  FormatText,
		NoTools: true,
	}
	suite, err := runValidation(context.Background(), opts, &buf)
	require.NoError(t, err, "A missing workflow directory is not fatal")
	require.NotNil(t, suite)

	assert.Equal(t, workflow.SuiteNoDocuments, suite.Status)
	assert.Equal(t, workflow.ExitOK, suite.ExitCode, "Nothing to validate exits zero")
	assert.Contains(t, buf.String(), "No workflow files found")
}
