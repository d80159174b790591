package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/wfgate/gh-wfgate/pkg/console"
	"github.com/wfgate/gh-wfgate/pkg/constants"
	"github.com/wfgate/gh-wfgate/pkg/logger"
	"github.com/wfgate/gh-wfgate/pkg/mathutil"
	"github.com/wfgate/gh-wfgate/pkg/sliceutil"
	"github.com/wfgate/gh-wfgate/pkg/stringutil"
	"github.com/wfgate/gh-wfgate/pkg/timeutil"
	"github.com/wfgate/gh-wfgate/pkg/workflow"
)

var reportLog = logger.New("cli:report")

// Output format names accepted by --format.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatSARIF = "sarif"
)

// OutputFormats lists every accepted --format value.
var OutputFormats = []string{FormatText, FormatJSON, FormatSARIF}

// sarifInformationURI is the tool URI recorded in SARIF reports.
const sarifInformationURI = "https://github.com/wfgate/gh-wfgate"

// ValidateOutputFormat checks a --format flag value before any validation
// work starts, so a typo fails fast instead of after a full run.
func ValidateOutputFormat(format string) error {
	if sliceutil.Contains(OutputFormats, format) {
		return nil
	}
	return workflow.NewValidationError("--format", format,
		"unknown output format",
		"Expected format: 'text', 'json', or 'sarif'. Example: --format sarif")
}

// PrintFormatError reports an unknown --format value to stderr with the
// closest accepted spellings, so a typo like "sariff" points straight at
// the fix.
func PrintFormatError(format string) {
	matches := stringutil.FindClosestMatches(format, OutputFormats, len(OutputFormats))
	suggestions := make([]string, 0, len(matches))
	for _, m := range matches {
		suggestions = append(suggestions, "--format "+m)
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, "--format "+FormatText)
	}
	fmt.Fprint(os.Stderr, console.FormatErrorWithSuggestions(
		fmt.Sprintf("unknown output format %q", format), suggestions))
}

// ReportOptions controls how a suite result is rendered.
type ReportOptions struct {
	Format string
	Stats  bool
}

// RenderSuiteResult writes the suite result to w in the requested format.
// Probes name the external analyzer behind each gate so the text report can
// distinguish a clean run from a degraded one.
func RenderSuiteResult(w io.Writer, suite *workflow.SuiteResult, probes map[constants.GateID]workflow.ToolProbe, opts ReportOptions) error {
	reportLog.Printf("Rendering suite result: format=%s, documents=%d, status=%s",
		opts.Format, len(suite.Documents), suite.Status)

	switch opts.Format {
	case FormatJSON:
		return renderJSON(w, suite)
	case FormatSARIF:
		return renderSARIF(w, suite)
	case FormatText, "":
		return renderText(w, suite, probes, opts)
	default:
		return ValidateOutputFormat(opts.Format)
	}
}

// renderText renders the human-readable report: one block per document with
// per-gate attribution, compiler-style diagnostics, degraded-tool notes, the
// optional stats table, and a one-line summary.
func renderText(w io.Writer, suite *workflow.SuiteResult, probes map[constants.GateID]workflow.ToolProbe, opts ReportOptions) error {
	if suite.Status == workflow.SuiteNoDocuments {
		fmt.Fprintln(w, console.FormatInfoMessage("No workflow files found. Nothing to validate."))
		return nil
	}

	for i := range suite.Documents {
		renderDocumentText(w, &suite.Documents[i])
	}

	renderDegradedNotes(w, probes)

	if opts.Stats {
		fmt.Fprint(w, console.RenderTable(statsTable(suite)))
		fmt.Fprintln(w, console.FormatVerboseMessage(fmt.Sprintf("scanned %s lines (%s)",
			console.FormatNumber(suite.Totals.Lines), console.FormatFileSize(suite.Totals.Bytes))))
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, summaryMessage(suite))
	return nil
}

// renderDocumentText prints one document block: the status line, one
// attribution line per gate naming the analyzer that served it, then the
// findings as diagnostics.
func renderDocumentText(w io.Writer, doc *workflow.DocumentResult) {
	if doc.Failed() {
		fmt.Fprintln(w, console.FormatErrorMessage(doc.Path))
	} else {
		fmt.Fprintln(w, console.FormatSuccessMessage(doc.Path))
	}

	for _, gate := range doc.Gates {
		line := fmt.Sprintf("  %-17s  %-4s  %s", gate.Gate, gate.Status, gate.ToolUsed)
		if gate.Suppressed > 0 {
			line += fmt.Sprintf("  (%d suppressed)", gate.Suppressed)
		}
		fmt.Fprintln(w, console.FormatVerboseMessage(line))
	}

	for _, gate := range doc.Gates {
		for _, f := range gate.Findings {
			fmt.Fprint(w, console.FormatDiagnostic(findingDiagnostic(doc.Path, f)))
		}
	}
	fmt.Fprintln(w)
}

// findingDiagnostic converts a finding into a console diagnostic. Line 0
// means the finding applies to the whole document and is rendered as-is.
func findingDiagnostic(path string, f workflow.Finding) console.Diagnostic {
	return console.Diagnostic{
		Position: console.Position{File: path, Line: f.Line, Column: 1},
		Severity: f.Severity.String(),
		Message:  fmt.Sprintf("%s [%s]", f.Message, f.RuleID),
		Hint:     f.Remediation,
	}
}

// renderDegradedNotes reports gates whose external analyzer did not resolve
// on PATH. Tool absence is informational: the gates already ran their
// built-in checks.
func renderDegradedNotes(w io.Writer, probes map[constants.GateID]workflow.ToolProbe) {
	for _, id := range constants.GateOrder {
		probe, ok := probes[id]
		if !ok || probe.Available {
			continue
		}
		fmt.Fprintln(w, console.FormatInfoMessage(fmt.Sprintf(
			"%s not found on PATH; the %s gate ran built-in checks only", externalToolName(id), id)))
	}
}

// externalToolName names the analyzer that can deepen a gate.
func externalToolName(id constants.GateID) constants.ToolName {
	switch id {
	case constants.GateSyntax:
		return constants.ActionlintToolName
	case constants.GateAntipattern:
		return constants.ZizmorToolName
	default:
		return ""
	}
}

// summaryMessage renders the one-line run summary styled by suite status.
func summaryMessage(suite *workflow.SuiteResult) string {
	t := suite.Totals
	summary := fmt.Sprintf("%d of %d documents passed (%d errors, %d warnings, %d infos, %d suppressed)",
		t.Passed, t.Documents, t.Errors, t.Warnings, t.Infos, t.Suppressed)

	switch suite.Status {
	case workflow.SuiteFailed:
		return console.FormatErrorMessage(summary)
	case workflow.SuitePartial:
		return console.FormatWarningMessage(summary + "; run interrupted before every document was validated")
	default:
		return console.FormatSuccessMessage(summary)
	}
}

// statsTable aggregates per-gate counts and wall time across every document.
// Gates are listed in canonical order; gates that did not run are omitted.
func statsTable(suite *workflow.SuiteResult) console.TableConfig {
	type gateStat struct {
		documents  int
		findings   int
		suppressed int
		duration   time.Duration
	}

	stats := make(map[constants.GateID]*gateStat)
	for _, doc := range suite.Documents {
		for _, gate := range doc.Gates {
			s := stats[gate.Gate]
			if s == nil {
				s = &gateStat{}
				stats[gate.Gate] = s
			}
			s.documents++
			s.findings += len(gate.Findings)
			s.suppressed += gate.Suppressed
			s.duration += gate.Duration
		}
	}

	var rows [][]string
	var total gateStat
	for _, id := range constants.GateOrder {
		s := stats[id]
		if s == nil {
			continue
		}
		rows = append(rows, []string{
			string(id),
			strconv.Itoa(s.documents),
			strconv.Itoa(s.findings),
			strconv.Itoa(s.suppressed),
			timeutil.FormatDuration(s.duration),
		})
		total.documents = mathutil.Max(total.documents, s.documents)
		total.findings += s.findings
		total.suppressed += s.suppressed
		total.duration += s.duration
	}

	return console.TableConfig{
		Title:     "Gate Statistics",
		Headers:   []string{"Gate", "Documents", "Findings", "Suppressed", "Duration"},
		Rows:      rows,
		ShowTotal: true,
		TotalRow: []string{
			"total",
			strconv.Itoa(total.documents),
			strconv.Itoa(total.findings),
			strconv.Itoa(total.suppressed),
			timeutil.FormatDuration(total.duration),
		},
	}
}

// renderJSON writes the suite result as indented JSON with stable field
// names taken from the result types' json tags.
func renderJSON(w io.Writer, suite *workflow.SuiteResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(suite)
}

// renderSARIF writes the suite result as a SARIF 2.1.0 report with one run.
// Each distinct rule id becomes a reporting descriptor; suppressed findings
// are absent, matching the other renderers.
func renderSARIF(w io.Writer, suite *workflow.SuiteResult) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI("gh-wfgate", sarifInformationURI)
	for _, doc := range suite.Documents {
		for _, gate := range doc.Gates {
			for _, f := range gate.Findings {
				rule := run.AddRule(string(f.RuleID)).
					WithDescription(f.Message).
					WithDefaultConfiguration(&sarif.ReportingConfiguration{
						Level: sarifLevel(f.Severity),
					})

				location := sarif.NewLocation().WithPhysicalLocation(
					sarif.NewPhysicalLocation().
						WithArtifactLocation(sarif.NewArtifactLocation().WithUri(doc.Path)).
						WithRegion(sarif.NewRegion().WithStartLine(mathutil.Max(f.Line, 1))),
				)

				res := sarif.NewRuleResult(rule.ID).
					WithMessage(sarif.NewTextMessage(f.Message)).
					WithLevel(sarifLevel(f.Severity)).
					WithLocations([]*sarif.Location{location})
				run.AddResult(res)
			}
		}
	}
	report.AddRun(run)

	return report.PrettyWrite(w)
}

// sarifLevel maps a finding severity onto the SARIF result level scale.
func sarifLevel(s workflow.Severity) string {
	switch s {
	case workflow.SeverityError:
		return "error"
	case workflow.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
