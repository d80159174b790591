//go:build !integration

package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfgate/gh-wfgate/pkg/constants"
)

// stubTool writes an executable shell script named like a real analyzer
// and prepends its directory to PATH, shadowing any installed copy while
// keeping the script's own commands resolvable.
func stubTool(t *testing.T, name, script string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(script), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestFormatToolVersion(t *testing.T) {
	tests := []struct {
		name   string
		binary string
		output string
		want   string
	}{
		{"bare version gets prefixed", "actionlint", "1.7.10\ninstalled by go install\n", "actionlint 1.7.10"},
		{"already prefixed output kept", "zizmor", "zizmor 1.5.2\n", "zizmor 1.5.2"},
		{"ansi escapes stripped", "actionlint", "\x1b[1m1.7.10\x1b[0m\n", "actionlint 1.7.10"},
		{"empty output falls back to binary", "actionlint", "", "actionlint"},
		{"whitespace only falls back to binary", "zizmor", "  \n\n", "zizmor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatToolVersion(tt.binary, tt.output))
		})
	}
}

func TestMergeToolFindings(t *testing.T) {
	builtIn := []Finding{
		{Gate: constants.GateAntipattern, RuleID: constants.RuleMissingTimeout, Severity: SeverityWarning, Line: 5, Message: "built-in"},
	}
	tool := []Finding{
		{Gate: constants.GateAntipattern, RuleID: constants.RuleMissingTimeout, Severity: SeverityWarning, Line: 5, Message: "tool duplicate", Tool: "zizmor"},
		{Gate: constants.GateAntipattern, RuleID: constants.RuleMissingTimeout, Severity: SeverityWarning, Line: 9, Message: "same rule, other line", Tool: "zizmor"},
		{Gate: constants.GateAntipattern, RuleID: "zizmor/artipacked", Severity: SeverityWarning, Line: 7, Message: "credential persistence", Tool: "zizmor"},
		{Gate: constants.GateAntipattern, RuleID: "zizmor/artipacked", Severity: SeverityWarning, Line: 7, Message: "repeated row", Tool: "zizmor"},
	}

	merged := mergeToolFindings(builtIn, tool)
	require.Len(t, merged, 3)
	assert.Equal(t, "built-in", merged[0].Message, "the built-in finding wins its line and rule")
	assert.Equal(t, "same rule, other line", merged[1].Message)
	assert.Equal(t, "credential persistence", merged[2].Message, "duplicate tool rows collapse")
}

func TestMergeToolFindingsNoBuiltIns(t *testing.T) {
	tool := []Finding{{Gate: constants.GateSyntax, RuleID: "actionlint/syntax-check", Line: 3}}
	merged := mergeToolFindings(nil, tool)
	require.Len(t, merged, 1)
	assert.Equal(t, constants.RuleID("actionlint/syntax-check"), merged[0].RuleID)
}

func TestUnavailableTool(t *testing.T) {
	tool := newUnavailableTool(constants.ZizmorToolName)
	assert.Equal(t, constants.ZizmorToolName, tool.Name())
	assert.False(t, tool.Probe(context.Background()).Available)

	findings, err := tool.Run(context.Background(), testDocument(t, "on: push"))
	assert.NoError(t, err)
	assert.Empty(t, findings)
}

func TestProbeBinaryMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	probe := probeBinary(context.Background(), string(constants.ActionlintToolName))
	assert.False(t, probe.Available)
	assert.Empty(t, probe.Version)
}

func TestProbeBinaryReportsVersion(t *testing.T) {
	stubTool(t, "actionlint", "#!/bin/sh\necho 1.7.10\n")
	probe := probeBinary(context.Background(), "actionlint")
	assert.True(t, probe.Available)
	assert.Equal(t, "actionlint 1.7.10", probe.Version)
}

func TestProbeBinaryVersionFailureStillAvailable(t *testing.T) {
	stubTool(t, "actionlint", "#!/bin/sh\nexit 2\n")
	probe := probeBinary(context.Background(), "actionlint")
	assert.True(t, probe.Available)
	assert.Equal(t, "actionlint", probe.Version, "a resolvable binary counts even without a version")
}

func TestRunToolCommandSurfacesDeadline(t *testing.T) {
	stubTool(t, "slowtool", "#!/bin/sh\nexec sleep 5\n")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := runToolCommand(ctx, nil, "slowtool")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestActionlintToolRunParsesOutput(t *testing.T) {
	// Real actionlint exits 1 when it reports issues; the stub drains
	// stdin the way the binary does.
	stubTool(t, "actionlint", `#!/bin/sh
cat > /dev/null
printf '%s' '[{"message":"shell script reported by shellcheck","filepath":"test.yml","line":7,"column":9,"kind":"shellcheck"}]'
exit 1
`)

	doc := testDocument(t, `
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    timeout-minutes: 5
    steps:
      - run: echo $UNQUOTED
`)
	findings, err := newActionlintTool().Run(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, constants.GateSyntax, findings[0].Gate)
	assert.Equal(t, constants.RuleID("actionlint/shellcheck"), findings[0].RuleID)
	assert.Equal(t, SeverityError, findings[0].Severity)
	assert.Equal(t, 7, findings[0].Line)
	assert.Equal(t, "actionlint", findings[0].Tool)
}

func TestActionlintToolRunRejectsGarbage(t *testing.T) {
	stubTool(t, "actionlint", "#!/bin/sh\ncat > /dev/null\nprintf 'not json'\n")
	_, err := newActionlintTool().Run(context.Background(), testDocument(t, "on: push"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not parse")
}

func TestZizmorToolRunParsesOutput(t *testing.T) {
	stubTool(t, "zizmor", `#!/bin/sh
printf '%s' '[{"ident":"artipacked","desc":"credential persistence in artifacts","url":"https://docs.zizmor.sh/audits/#artipacked","determinations":{"severity":"Medium","confidence":"High"},"locations":[{"concrete":{"location":{"start_point":{"row":3,"column":6}}}}]}]'
exit 14
`)

	findings, err := newZizmorTool().Run(context.Background(), testDocument(t, "on: push"))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, constants.GateAntipattern, findings[0].Gate)
	assert.Equal(t, constants.RuleID("zizmor/artipacked"), findings[0].RuleID)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.Equal(t, 4, findings[0].Line, "tree-sitter rows are 0-based")
	assert.Equal(t, "See https://docs.zizmor.sh/audits/#artipacked", findings[0].Remediation)
	assert.Equal(t, "zizmor", findings[0].Tool)
}

func TestZizmorSeverity(t *testing.T) {
	tests := []struct {
		label string
		want  Severity
	}{
		{"critical", SeverityError},
		{"High", SeverityError},
		{"medium", SeverityWarning},
		{"Medium", SeverityWarning},
		{"low", SeverityInfo},
		{"informational", SeverityInfo},
		{"", SeverityInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, zizmorSeverity(tt.label), "label %q", tt.label)
	}
}

func TestZizmorLine(t *testing.T) {
	assert.Equal(t, 0, zizmorLine(nil))
	assert.Equal(t, 1, zizmorLine([]zizmorFindingOrigin{{}}))
}
