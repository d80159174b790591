// This file adapts the actionlint binary as the syntax gate's external
// analyzer. Documents are piped over stdin so the tool sees exactly the
// bytes that were validated, with -stdin-filename keeping paths right in
// its output.

package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wfgate/gh-wfgate/pkg/constants"
	"github.com/wfgate/gh-wfgate/pkg/logger"
)

var actionlintLog = logger.New("workflow:actionlint_tool")

// actionlintRulePrefix namespaces tool rule ids away from built-ins
const actionlintRulePrefix = "actionlint/"

// actionlintIssue is one entry of actionlint's -format '{{json .}}' output
type actionlintIssue struct {
	Message  string `json:"message"`
	Filepath string `json:"filepath"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Kind     string `json:"kind"`
}

type actionlintTool struct{}

func newActionlintTool() Tool {
	return &actionlintTool{}
}

func (t *actionlintTool) Name() constants.ToolName {
	return constants.ActionlintToolName
}

func (t *actionlintTool) Probe(ctx context.Context) ToolProbe {
	return probeBinary(ctx, string(constants.ActionlintToolName))
}

func (t *actionlintTool) Run(ctx context.Context, doc *Document) ([]Finding, error) {
	out, err := runToolCommand(ctx, doc.Raw, string(constants.ActionlintToolName),
		"-no-color", "-format", "{{json .}}", "-stdin-filename", doc.Path, "-")
	if err != nil {
		return nil, err
	}

	var issues []actionlintIssue
	if err := json.Unmarshal(out, &issues); err != nil {
		return nil, fmt.Errorf("actionlint output did not parse: %w", err)
	}

	findings := make([]Finding, 0, len(issues))
	for _, issue := range issues {
		findings = append(findings, Finding{
			Gate:     constants.GateSyntax,
			RuleID:   constants.RuleID(actionlintRulePrefix + issue.Kind),
			Severity: SeverityError,
			Line:     issue.Line,
			Message:  issue.Message,
			Tool:     string(constants.ActionlintToolName),
		})
	}
	actionlintLog.Printf("actionlint reported %d issues for %s", len(findings), doc.Path)
	return findings, nil
}
