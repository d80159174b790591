// This file defines the external tool adapter: how optional analyzers
// plug into gates without becoming load-bearing.
//
// # Tool Adapter
//
// A Tool wraps one external binary. Probe answers "is it on PATH and
// what version" once per run; Run analyzes a single document. The engine
// swaps in an unavailable stub at probe time, so gate code never
// branches on availability.
//
// Tool failures never fail a gate. A timeout falls back to built-in
// findings plus an info note; any other failure just means the
// invocation contributed nothing. These linters exit non-zero when they
// find issues, so output that unmarshals cleanly is used regardless of
// exit status.

package workflow

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/wfgate/gh-wfgate/pkg/constants"
	"github.com/wfgate/gh-wfgate/pkg/logger"
	"github.com/wfgate/gh-wfgate/pkg/stringutil"
)

var toolLog = logger.New("workflow:tool_adapter")

// ToolProbe is the result of checking an external tool once per run
type ToolProbe struct {
	// Available reports whether the binary resolved on PATH
	Available bool
	// Version is the display form recorded as ToolUsed, e.g.
	// "actionlint 1.7.10"
	Version string
}

// Tool is one external analyzer behind a gate
type Tool interface {
	// Name returns the binary name
	Name() constants.ToolName
	// Probe checks availability and version; called once per run
	Probe(ctx context.Context) ToolProbe
	// Run analyzes one document. The context carries the per-invocation
	// timeout; context.DeadlineExceeded from it means the tool was killed.
	Run(ctx context.Context, doc *Document) ([]Finding, error)
}

// unavailableTool stands in for a tool that failed its probe
type unavailableTool struct {
	name constants.ToolName
}

func newUnavailableTool(name constants.ToolName) Tool {
	return &unavailableTool{name: name}
}

func (t *unavailableTool) Name() constants.ToolName { return t.name }

func (t *unavailableTool) Probe(ctx context.Context) ToolProbe { return ToolProbe{} }

func (t *unavailableTool) Run(ctx context.Context, doc *Document) ([]Finding, error) {
	return nil, nil
}

// probeBinary implements the shared probe: LookPath plus a short
// --version run. A binary that resolves but will not report a version
// still counts as available.
func probeBinary(ctx context.Context, binary string) ToolProbe {
	if _, err := exec.LookPath(binary); err != nil {
		toolLog.Printf("Tool %s not found on PATH", binary)
		return ToolProbe{}
	}

	probeCtx, cancel := context.WithTimeout(ctx, constants.DefaultProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(probeCtx, binary, "--version").Output()
	if err != nil {
		toolLog.Printf("Tool %s present but --version failed: %v", binary, err)
		return ToolProbe{Available: true, Version: binary}
	}
	version := formatToolVersion(binary, string(out))
	toolLog.Printf("Probed %s: %s", binary, version)
	return ToolProbe{Available: true, Version: version}
}

// formatToolVersion normalizes --version output to "<binary> <version>".
// actionlint prints a bare version on its first line; zizmor already
// prefixes its name.
func formatToolVersion(binary, output string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(output), "\n")
	line = strings.TrimSpace(stringutil.StripANSIEscapeCodes(line))
	if line == "" {
		return binary
	}
	if strings.HasPrefix(line, binary) {
		return line
	}
	return binary + " " + line
}

// runToolCommand executes an analyzer and returns its stdout. Non-zero
// exit with output on stdout is normal linter behavior, not an error.
// The caller's context deadline is surfaced as context.DeadlineExceeded.
func runToolCommand(ctx context.Context, stdin []byte, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil && stdout.Len() == 0 {
		logToolStderr(binary, stderr.String())
		return nil, err
	}
	return stdout.Bytes(), nil
}

// logToolStderr records the first useful stderr line for debugging
func logToolStderr(binary, stderr string) {
	for _, line := range strings.Split(stderr, "\n") {
		msg := logger.ExtractErrorMessage(stringutil.StripANSIEscapeCodes(line))
		if msg != "" {
			toolLog.Printf("%s stderr: %s", binary, msg)
			return
		}
	}
}

// mergeToolFindings appends tool findings onto built-in ones, dropping
// any tool finding that lands on a (line, rule) pair already reported.
// Built-in findings always survive the merge.
func mergeToolFindings(builtIn, tool []Finding) []Finding {
	type key struct {
		line int
		rule constants.RuleID
	}
	seen := make(map[key]bool, len(builtIn))
	for _, f := range builtIn {
		seen[key{f.Line, f.RuleID}] = true
	}

	merged := builtIn
	for _, f := range tool {
		k := key{f.Line, f.RuleID}
		if seen[k] {
			continue
		}
		seen[k] = true
		merged = append(merged, f)
	}
	return merged
}
