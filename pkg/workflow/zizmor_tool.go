// This file adapts the zizmor binary as the antipattern gate's external
// analyzer. zizmor reads files from disk, so the document path is passed
// directly; its JSON rows are tree-sitter points, 0-based.

package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wfgate/gh-wfgate/pkg/constants"
	"github.com/wfgate/gh-wfgate/pkg/logger"
)

var zizmorLog = logger.New("workflow:zizmor_tool")

// zizmorRulePrefix namespaces tool rule ids away from built-ins
const zizmorRulePrefix = "zizmor/"

// zizmorFinding is one entry of zizmor's --format json output
type zizmorFinding struct {
	Ident          string                `json:"ident"`
	Desc           string                `json:"desc"`
	URL            string                `json:"url"`
	Determinations zizmorDeterminations  `json:"determinations"`
	Locations      []zizmorFindingOrigin `json:"locations"`
}

type zizmorDeterminations struct {
	Severity   string `json:"severity"`
	Confidence string `json:"confidence"`
}

type zizmorFindingOrigin struct {
	Concrete zizmorConcreteLocation `json:"concrete"`
}

type zizmorConcreteLocation struct {
	Location zizmorSpan `json:"location"`
}

type zizmorSpan struct {
	StartPoint zizmorPoint `json:"start_point"`
}

type zizmorPoint struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

type zizmorTool struct{}

func newZizmorTool() Tool {
	return &zizmorTool{}
}

func (t *zizmorTool) Name() constants.ToolName {
	return constants.ZizmorToolName
}

func (t *zizmorTool) Probe(ctx context.Context) ToolProbe {
	return probeBinary(ctx, string(constants.ZizmorToolName))
}

func (t *zizmorTool) Run(ctx context.Context, doc *Document) ([]Finding, error) {
	out, err := runToolCommand(ctx, nil, string(constants.ZizmorToolName),
		"--format", "json", "--no-progress", doc.Path)
	if err != nil {
		return nil, err
	}

	var reported []zizmorFinding
	if err := json.Unmarshal(out, &reported); err != nil {
		return nil, fmt.Errorf("zizmor output did not parse: %w", err)
	}

	findings := make([]Finding, 0, len(reported))
	for _, zf := range reported {
		remediation := ""
		if zf.URL != "" {
			remediation = "See " + zf.URL
		}
		findings = append(findings, Finding{
			Gate:        constants.GateAntipattern,
			RuleID:      constants.RuleID(zizmorRulePrefix + zf.Ident),
			Severity:    zizmorSeverity(zf.Determinations.Severity),
			Line:        zizmorLine(zf.Locations),
			Message:     zf.Desc,
			Remediation: remediation,
			Tool:        string(constants.ZizmorToolName),
		})
	}
	zizmorLog.Printf("zizmor reported %d findings for %s", len(findings), doc.Path)
	return findings, nil
}

// zizmorSeverity maps zizmor's severity labels onto ours
func zizmorSeverity(label string) Severity {
	switch strings.ToLower(label) {
	case "critical", "high":
		return SeverityError
	case "medium":
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// zizmorLine extracts the first concrete location as a 1-based line,
// or 0 when the finding is document-scoped
func zizmorLine(locations []zizmorFindingOrigin) int {
	if len(locations) == 0 {
		return 0
	}
	return locations[0].Concrete.Location.StartPoint.Row + 1
}
