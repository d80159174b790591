package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wfgate/gh-wfgate/pkg/console"
	"github.com/wfgate/gh-wfgate/pkg/logger"
	"github.com/wfgate/gh-wfgate/pkg/styles"
	"github.com/wfgate/gh-wfgate/pkg/tty"
	"github.com/wfgate/gh-wfgate/pkg/workflow"
)

var browseLog = logger.New("cli:browse")

// browseDoneValue ends a browsing session when selected.
const browseDoneValue = "done"

// browseTarget pairs one finding with the document it was reported on.
type browseTarget struct {
	path    string
	finding workflow.Finding
}

// browseFindings opens an interactive picker over every finding in the
// suite and prints a detail card for each selection. Browsing needs an
// interactive terminal; without one it degrades to a notice.
func browseFindings(suite *workflow.SuiteResult) {
	targets := collectBrowseTargets(suite)
	if len(targets) == 0 {
		fmt.Fprintln(os.Stderr, console.FormatInfoMessage("No findings to browse"))
		return
	}
	if !tty.IsStdinTerminal() || !tty.IsStderrTerminal() {
		fmt.Fprintln(os.Stderr, console.FormatWarningMessage("--browse needs an interactive terminal"))
		return
	}

	items := browseItems(targets)
	for {
		choice, err := console.ShowInteractiveList("Findings", items)
		if err != nil || choice == browseDoneValue {
			browseLog.Printf("Browsing ended: choice=%q, err=%v", choice, err)
			return
		}
		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 0 || idx >= len(targets) {
			return
		}
		fmt.Fprint(os.Stderr, findingCard(targets[idx]))
	}
}

// collectBrowseTargets flattens the suite into one entry per finding, in
// report order.
func collectBrowseTargets(suite *workflow.SuiteResult) []browseTarget {
	var targets []browseTarget
	for _, doc := range suite.Documents {
		for _, gate := range doc.Gates {
			for _, f := range gate.Findings {
				targets = append(targets, browseTarget{path: doc.Path, finding: f})
			}
		}
	}
	return targets
}

// browseItems builds the selectable list: one item per finding plus the
// terminating entry. Item values are target indices.
func browseItems(targets []browseTarget) []console.ListItem {
	items := make([]console.ListItem, 0, len(targets)+1)
	for i, t := range targets {
		title := t.path
		if t.finding.Line > 0 {
			title = fmt.Sprintf("%s:%d", t.path, t.finding.Line)
		}
		desc := fmt.Sprintf("%s %s", t.finding.Severity, t.finding.RuleID)
		items = append(items, console.NewListItem(title, desc, strconv.Itoa(i)))
	}
	return append(items, console.NewListItem("Done browsing", "", browseDoneValue))
}

// findingDetail is the metadata block on a finding card.
type findingDetail struct {
	Gate     string `console:"header:Gate"`
	Rule     string `console:"header:Rule"`
	Severity string `console:"header:Severity"`
	Tool     string `console:"header:Tool,omitempty"`
}

// findingCard renders one finding as a bordered card: the compiler-style
// diagnostic with its remediation hint, then the gate attribution.
func findingCard(t browseTarget) string {
	f := t.finding
	diag := console.FormatDiagnostic(findingDiagnostic(t.path, f))
	meta := console.RenderStruct(findingDetail{
		Gate:     string(f.Gate),
		Rule:     string(f.RuleID),
		Severity: f.Severity.String(),
		Tool:     f.Tool,
	})
	body := strings.TrimRight(diag+"\n"+meta, "\n")
	return console.LayoutEmphasisBox(body, severityColor(f.Severity)) + "\n"
}

// severityColor maps a finding severity onto the shared palette.
func severityColor(s workflow.Severity) lipgloss.AdaptiveColor {
	switch s {
	case workflow.SeverityError:
		return styles.ColorError
	case workflow.SeverityWarning:
		return styles.ColorWarning
	default:
		return styles.ColorInfo
	}
}
