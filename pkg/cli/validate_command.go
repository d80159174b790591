package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wfgate/gh-wfgate/pkg/console"
	"github.com/wfgate/gh-wfgate/pkg/constants"
	"github.com/wfgate/gh-wfgate/pkg/logger"
	"github.com/wfgate/gh-wfgate/pkg/workflow"
)

var validateLog = logger.New("cli:validate_command")

// ValidateOptions carries the flag values shared by validate and watch.
type ValidateOptions struct {
	Dir         string
	Files       []string
	Quick       bool
	Strict      bool
	NoTools     bool
	Format      string
	Stats       bool
	Browse      bool
	Conventions string
	ToolTimeout time.Duration
	MaxParallel int
	Verbose     bool

	// Progress receives per-document completion while the engine runs.
	// Set by the commands, never by a flag.
	Progress func(done, total int)
}

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file]...",
		Short: "Validate workflow files against every gate",
		Long: `Validate GitHub Actions workflow files against the syntax, reference-pinning,
permission, secret-hygiene, and antipattern gates.

If no files are given, every YAML workflow in the workflow directory is
validated. External analyzers (actionlint, zizmor) deepen the syntax and
antipattern gates when installed; each gate falls back to its built-in
checks when its analyzer is missing or times out.

Exit status is 0 when every gate passes, 1 when any gate fails, and 2 on a
fatal error such as an unreadable workflow directory.

Examples:
  ` + string(constants.CLIExtensionPrefix) + ` validate                         # Validate .github/workflows
  ` + string(constants.CLIExtensionPrefix) + ` validate ci.yml release.yml      # Validate specific files
  ` + string(constants.CLIExtensionPrefix) + ` validate --dir infra/workflows   # Validate a custom directory
  ` + string(constants.CLIExtensionPrefix) + ` validate --quick                 # Syntax and pinning gates only
  ` + string(constants.CLIExtensionPrefix) + ` validate --format sarif          # SARIF for code scanning upload
  ` + string(constants.CLIExtensionPrefix) + ` validate --strict                # Warnings fail the run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := validateOptionsFromFlags(cmd, args)

			if ValidateOutputFormat(opts.Format) != nil {
				PrintFormatError(opts.Format)
				return NewExitError(workflow.ExitFatal)
			}

			noCheckUpdate, _ := cmd.Flags().GetBool("no-check-update")
			CheckForUpdatesAsync(cmd.Context(), noCheckUpdate, opts.Verbose)

			validateLog.Printf("Running validate command: files=%v, dir=%s, quick=%v, strict=%v",
				opts.Files, opts.Dir, opts.Quick, opts.Strict)

			spin := console.NewSpinner("Validating workflows...")
			opts.Progress = func(done, total int) {
				spin.UpdateMessage(fmt.Sprintf("Validating workflows (%d/%d)...", done, total))
			}
			spin.Start()
			suite, probes, err := validateSuite(cmd.Context(), opts)
			spin.Stop()
			if err != nil {
				PrintValidationError(err)
				return NewExitError(workflow.ExitFatal)
			}

			renderOpts := ReportOptions{Format: opts.Format, Stats: opts.Stats}
			if err := RenderSuiteResult(os.Stdout, suite, probes, renderOpts); err != nil {
				PrintValidationError(err)
				return NewExitError(workflow.ExitFatal)
			}

			if opts.Browse {
				browseFindings(suite)
			}

			if suite.ExitCode != workflow.ExitOK {
				return NewExitError(suite.ExitCode)
			}
			return nil
		},
	}

	addValidationFlags(cmd)
	cmd.Flags().Bool("browse", false, "Browse findings interactively after the report")
	cmd.Flags().Bool("no-check-update", false, "Skip checking for gh-wfgate updates")
	return cmd
}

// addValidationFlags registers the flags validate and watch share.
func addValidationFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("dir", "d", constants.GetWorkflowDir(), "Workflow directory to validate")
	cmd.Flags().Bool("quick", false, "Run only the syntax and reference-pinning gates")
	cmd.Flags().Bool("strict", false, "Treat warnings as failures for exit purposes")
	cmd.Flags().StringP("format", "f", FormatText, "Output format: text, json, or sarif")
	cmd.Flags().Bool("stats", false, "Display a per-gate statistics table")
	cmd.Flags().String("conventions", "", "Conventions file path (default: nearest "+constants.DefaultConventionsFile+")")
	cmd.Flags().Duration("tool-timeout", 0, "Time budget per external analyzer invocation")
	cmd.Flags().Int("max-parallel", 0, "Maximum documents validated concurrently (default: CPU count)")
	cmd.Flags().Bool("no-tools", false, "Skip external analyzers and run built-in checks only")
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
}

// validateOptionsFromFlags reads the shared validation flags into options.
// Flags a command does not register read as their zero value.
func validateOptionsFromFlags(cmd *cobra.Command, args []string) *ValidateOptions {
	dir, _ := cmd.Flags().GetString("dir")
	quick, _ := cmd.Flags().GetBool("quick")
	strict, _ := cmd.Flags().GetBool("strict")
	format, _ := cmd.Flags().GetString("format")
	stats, _ := cmd.Flags().GetBool("stats")
	browse, _ := cmd.Flags().GetBool("browse")
	conventions, _ := cmd.Flags().GetString("conventions")
	toolTimeout, _ := cmd.Flags().GetDuration("tool-timeout")
	maxParallel, _ := cmd.Flags().GetInt("max-parallel")
	noTools, _ := cmd.Flags().GetBool("no-tools")
	verbose, _ := cmd.Flags().GetBool("verbose")

	return &ValidateOptions{
		Dir:         dir,
		Files:       args,
		Quick:       quick,
		Strict:      strict,
		NoTools:     noTools,
		Format:      format,
		Stats:       stats,
		Browse:      browse,
		Conventions: conventions,
		ToolTimeout: toolTimeout,
		MaxParallel: maxParallel,
		Verbose:     verbose,
	}
}

// runValidation validates the target set and renders the report to w. The
// suite result comes back so callers can apply the exit-code law; a
// returned error is fatal.
func runValidation(ctx context.Context, opts *ValidateOptions, w io.Writer) (*workflow.SuiteResult, error) {
	suite, probes, err := validateSuite(ctx, opts)
	if err != nil {
		return nil, err
	}

	renderOpts := ReportOptions{Format: opts.Format, Stats: opts.Stats}
	if err := RenderSuiteResult(w, suite, probes, renderOpts); err != nil {
		return nil, err
	}
	return suite, nil
}

// validateSuite loads conventions, builds the engine, and validates the
// target set. The probe results come back alongside the suite so the text
// renderer can attribute degraded gates.
func validateSuite(ctx context.Context, opts *ValidateOptions) (*workflow.SuiteResult, map[constants.GateID]workflow.ToolProbe, error) {
	conventions, err := loadRunConventions(opts)
	if err != nil {
		return nil, nil, err
	}

	env := workflow.NewRunEnv()
	env.Conventions = conventions
	env.Quick = opts.Quick
	env.Strict = opts.Strict
	env.NoTools = opts.NoTools
	env.Progress = opts.Progress
	if opts.ToolTimeout > 0 {
		env.ToolTimeout = opts.ToolTimeout
	}
	if opts.MaxParallel > 0 {
		env.MaxParallel = opts.MaxParallel
	}

	engine := workflow.NewEngine(ctx, env)

	var suite *workflow.SuiteResult
	if len(opts.Files) > 0 {
		suite = engine.ValidateFiles(ctx, opts.Files)
	} else {
		suite, err = engine.ValidateDirectory(ctx, opts.Dir)
		if err != nil {
			return nil, nil, err
		}
	}
	return suite, engine.ToolProbes(), nil
}

// loadRunConventions resolves the conventions file for a run: the explicit
// --conventions path, or the nearest conventions file above the workflow
// directory, or nil for built-in defaults.
func loadRunConventions(opts *ValidateOptions) (*workflow.Conventions, error) {
	path := opts.Conventions
	if path == "" {
		path = workflow.FindConventionsFile(opts.Dir)
	}
	if path == "" {
		validateLog.Print("No conventions file found, using built-in defaults")
		return nil, nil
	}
	console.LogVerbose(opts.Verbose, "Using conventions from "+path)
	return workflow.LoadConventions(path)
}
