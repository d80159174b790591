package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wfgate/gh-wfgate/pkg/cli"
	"github.com/wfgate/gh-wfgate/pkg/console"
)

// Build-time version metadata, injected with -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "wfgate [command]",
	Short: "Workflow Gate checks GitHub Actions workflows before they reach CI",
	Long: `Workflow Gate validates GitHub Actions workflow files against five gates:
syntax, reference pinning, permission hardening, secret hygiene, and
antipatterns. Findings are reported compiler-style with remediation hints,
and inline '# wfgate: ignore' annotations suppress accepted ones.

External analyzers (actionlint, zizmor) deepen two of the gates when they
are installed; every gate works without them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	validateCmd  = cli.NewValidateCommand()
	watchCmd     = cli.NewWatchCommand()
	initCmd      = cli.NewInitCommand()
	mcpServerCmd = cli.NewMCPServerCommand()
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		v, c, d := cli.GetVersionInfo()
		fmt.Printf("gh-wfgate %s (commit %s, built %s)\n", v, c, d)
	},
}

func init() {
	cli.SetVersionInfo(version, commit, date)

	rootCmd.AddGroup(
		&cobra.Group{ID: "validation", Title: "Validation Commands:"},
		&cobra.Group{ID: "configuration", Title: "Configuration Commands:"},
		&cobra.Group{ID: "integration", Title: "Integration Commands:"},
	)

	validateCmd.GroupID = "validation"
	watchCmd.GroupID = "validation"
	initCmd.GroupID = "configuration"
	mcpServerCmd.GroupID = "integration"

	rootCmd.AddCommand(validateCmd, watchCmd, initCmd, mcpServerCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		os.Exit(1)
	}
}
