// This file defines the finding and result types produced by the
// validation engine.
//
// # Data Model
//
//   - Finding - one diagnostic from one rule at one location
//   - GateResult - the outcome of running a single gate over a document
//   - DocumentResult - all gate results for one workflow file
//   - SuiteResult - the aggregate across every document in a run
//
// # Ordering
//
// Documents run concurrently and gates run concurrently within a document,
// so completion order is nondeterministic. Every consumer of these types
// relies on the aggregator having sorted them: documents by path, gates in
// canonical gate order, findings by line then rule id. Renderers must not
// re-sort.
//
// # Severity and Status
//
// A gate fails only when it holds at least one non-suppressed error
// finding. Warnings and infos never fail a gate unless strict mode
// promotes warnings. Suppressed findings are counted but never rendered.

package workflow

import (
	"sort"
	"time"

	"github.com/wfgate/gh-wfgate/pkg/constants"
)

// Severity classifies how serious a finding is
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// String returns the string representation of the severity
func (s Severity) String() string {
	return string(s)
}

// Rank returns the sort rank of the severity, with errors first
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

// GateStatus is the outcome of one gate over one document
type GateStatus string

const (
	GatePassed  GateStatus = "pass"
	GateFailed  GateStatus = "fail"
	GateSkipped GateStatus = "skip"
)

// SuiteStatus is the overall outcome of a validation run
type SuiteStatus string

const (
	SuiteOK          SuiteStatus = "ok"
	SuiteFailed      SuiteStatus = "fail"
	SuitePartial     SuiteStatus = "partial"
	SuiteNoDocuments SuiteStatus = "no-documents"
)

// Exit codes for the validate command
const (
	ExitOK       = 0
	ExitFindings = 1
	ExitFatal    = 2
)

// Finding is a single diagnostic produced by a gate rule.
// Line is 1-based; 0 means the finding applies to the whole document.
type Finding struct {
	Gate        constants.GateID `json:"gate"`
	RuleID      constants.RuleID `json:"rule"`
	Severity    Severity         `json:"severity"`
	Line        int              `json:"line"`
	Message     string           `json:"message"`
	Remediation string           `json:"remediation,omitempty"`
	Tool        string           `json:"tool,omitempty"`
}

// GateResult is the outcome of running one gate over one document.
// ToolUsed names the analyzer that produced the findings, either an
// external tool with its version ("actionlint 1.7.10") or "built-in".
type GateResult struct {
	Gate       constants.GateID `json:"gate"`
	Status     GateStatus       `json:"status"`
	ToolUsed   string           `json:"tool_used"`
	Findings   []Finding        `json:"findings"`
	Suppressed int              `json:"suppressed"`
	Duration   time.Duration    `json:"duration"`
}

// DocumentResult holds every gate result for one workflow file. Bytes and
// Lines record the scanned size; both are zero for unreadable files.
type DocumentResult struct {
	Path  string       `json:"path"`
	Bytes int64        `json:"bytes"`
	Lines int          `json:"lines"`
	Gates []GateResult `json:"gates"`
}

// Failed reports whether any gate in the document failed
func (d *DocumentResult) Failed() bool {
	for _, g := range d.Gates {
		if g.Status == GateFailed {
			return true
		}
	}
	return false
}

// FindingCount returns the number of visible findings across all gates
func (d *DocumentResult) FindingCount() int {
	n := 0
	for _, g := range d.Gates {
		n += len(g.Findings)
	}
	return n
}

// Totals aggregates finding counts and the scan footprint across a whole run
type Totals struct {
	Documents  int   `json:"documents"`
	Passed     int   `json:"passed"`
	Failed     int   `json:"failed"`
	Errors     int   `json:"errors"`
	Warnings   int   `json:"warnings"`
	Infos      int   `json:"infos"`
	Suppressed int   `json:"suppressed"`
	Bytes      int64 `json:"bytes"`
	Lines      int   `json:"lines"`
}

// SuiteResult is the aggregate outcome of a validation run
type SuiteResult struct {
	Status    SuiteStatus      `json:"status"`
	Documents []DocumentResult `json:"documents"`
	Totals    Totals           `json:"totals"`
	ExitCode  int              `json:"exit_code"`
}

// sortFindings orders findings by line (document-scoped findings first),
// then severity, then rule id, then message for a stable tie-break.
func sortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Severity != b.Severity {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		return a.Message < b.Message
	})
}

// gateRank returns the canonical position of a gate for sorting
func gateRank(id constants.GateID) int {
	for i, g := range constants.GateOrder {
		if g == id {
			return i
		}
	}
	return len(constants.GateOrder)
}
