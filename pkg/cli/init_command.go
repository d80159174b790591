package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/wfgate/gh-wfgate/pkg/console"
	"github.com/wfgate/gh-wfgate/pkg/constants"
	"github.com/wfgate/gh-wfgate/pkg/fileutil"
	"github.com/wfgate/gh-wfgate/pkg/logger"
	"github.com/wfgate/gh-wfgate/pkg/workflow"
)

var initLog = logger.New("cli:init_command")

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a conventions file for this repository",
		Long: `Create a ` + constants.DefaultConventionsFile + ` conventions file through a short
interactive form.

Conventions augment the built-in gate defaults, never replace them: extra
trusted namespaces for the reference-pinning gate and extra required
top-level keys for the syntax gate. The actions and github namespaces stay
trusted, and 'on' and 'jobs' stay required, regardless of the file.

Examples:
  ` + string(constants.CLIExtensionPrefix) + ` init            # Interactive bootstrap
  ` + string(constants.CLIExtensionPrefix) + ` init --force    # Overwrite an existing file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			return runInit(force)
		},
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing conventions file")
	return cmd
}

// runInit collects conventions through a form and writes the file. With
// --force an existing file is backed up before being overwritten.
func runInit(force bool) error {
	path := constants.DefaultConventionsFile

	if fileutil.FileExists(path) {
		if !force {
			return fmt.Errorf("%s already exists; use --force to overwrite it", path)
		}
		backup := path + ".bak"
		if err := fileutil.CopyFile(path, backup); err != nil {
			return fmt.Errorf("failed to back up %s: %w", path, err)
		}
		fmt.Fprintln(os.Stderr, console.FormatInfoMessage("Existing conventions backed up to "+backup))
	}

	var namespacesInput, keysInput string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Trusted namespaces").
				Description("Comma-separated action owners whose version tags are accepted without a content hash. Leave empty for built-in defaults only.").
				Value(&namespacesInput).
				Validate(validateNamespaceList),
			huh.NewInput().
				Title("Required top-level keys").
				Description("Comma-separated keys every workflow must declare, in addition to 'on' and 'jobs'. Leave empty for defaults.").
				Value(&keysInput).
				Validate(validateKeyList),
		),
	).WithAccessible(console.IsAccessibleMode())

	if err := form.Run(); err != nil {
		return fmt.Errorf("failed to read form input: %w", err)
	}

	content := renderConventionsFile(splitCommaList(namespacesInput), splitCommaList(keysInput))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	// Round-trip through the strict loader so a bad template never ships.
	if _, err := workflow.LoadConventions(path); err != nil {
		return err
	}

	initLog.Printf("Wrote conventions file: %s", path)
	fmt.Fprintln(os.Stderr, console.FormatSuccessMessage("Created "+path))
	fmt.Fprintln(os.Stderr, initNextSteps(path))
	return nil
}

// initNextSteps renders the post-init summary: the written file and the
// command that picks it up.
func initNextSteps(path string) string {
	return console.LayoutJoinVertical(
		console.LayoutTitleBox("Conventions ready", 40),
		console.LayoutInfoSection("File", path),
		console.LayoutInfoSection("Next", console.FormatCommandMessage(string(constants.CLIExtensionPrefix)+" validate")),
	)
}

// validateNamespaceList checks a comma-separated namespace answer. Each
// entry must be a bare owner name.
func validateNamespaceList(input string) error {
	for _, ns := range splitCommaList(input) {
		if strings.ContainsAny(ns, "/@ ") {
			return errors.New("namespaces are bare owner names, like 'myorg'")
		}
	}
	return nil
}

// validateKeyList checks a comma-separated required-key answer.
func validateKeyList(input string) error {
	for _, key := range splitCommaList(input) {
		if strings.ContainsAny(key, ": ") {
			return errors.New("keys are bare YAML key names, like 'permissions'")
		}
	}
	return nil
}

// splitCommaList splits a comma-separated answer into trimmed entries,
// dropping empty ones.
func splitCommaList(input string) []string {
	var items []string
	for _, item := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// renderConventionsFile produces a commented starter conventions file.
// Sections the user left empty are emitted as commented examples.
func renderConventionsFile(namespaces, keys []string) string {
	var b strings.Builder
	b.WriteString("# wfgate conventions. Entries augment the built-in defaults.\n")

	if len(namespaces) > 0 {
		b.WriteString("trusted_namespaces:\n")
		for _, ns := range namespaces {
			fmt.Fprintf(&b, "  - %s\n", ns)
		}
	} else {
		b.WriteString("# trusted_namespaces:\n")
		b.WriteString("#   - myorg\n")
	}

	if len(keys) > 0 {
		b.WriteString("required_keys:\n")
		for _, key := range keys {
			fmt.Fprintf(&b, "  - %s\n", key)
		}
	} else {
		b.WriteString("# required_keys:\n")
		b.WriteString("#   - permissions\n")
	}

	b.WriteString("# pinned_refs:\n")
	b.WriteString("#   myorg/deploy-action@v2: 8f4b7f84864484a7bf31766abe9204da3cbe65b3\n")
	return b.String()
}
