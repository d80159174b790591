// This file implements the aggregator: the single place where raw gate
// findings meet the suppression index and become the immutable results
// renderers consume.
//
// # Aggregation
//
// Suppression filtering is centralized here rather than spread across
// detectors, so every gate, including external tools, honors the same
// annotation semantics. Per gate, a matched finding disappears from the
// visible list and increments the Suppressed count: counts stay visible,
// detail stays hidden.
//
// Two findings are minted here because only the aggregator can see them:
//
//   - unknown-suppression-target - an annotation naming no known rule,
//     gate, or tool-namespaced rule; attributed to the syntax gate
//   - suppression-missing-reason - a consumed, reason-less annotation
//     targeting the antipattern gate's rules
//
// Folding sorts everything: documents by path, gates in canonical
// order, findings by line then rule. Completion order never leaks.

package workflow

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/wfgate/gh-wfgate/pkg/constants"
	"github.com/wfgate/gh-wfgate/pkg/parser"
	"github.com/wfgate/gh-wfgate/pkg/stringutil"
)

// maxRuleSuggestions bounds the near-miss suggestions for suppression
// target typos
const maxRuleSuggestions = 3

// aggregateDocument filters one document's gate runs through its
// suppression index and computes per-gate status.
func (e *Engine) aggregateDocument(doc *Document, runs []gateRun) DocumentResult {
	consumed := make(map[*parser.Suppression]bool)

	gates := make([]GateResult, 0, len(runs))
	for _, run := range runs {
		visible := make([]Finding, 0, len(run.findings))
		suppressedCount := 0
		for _, f := range run.findings {
			s := doc.Suppressions.Match(f.Line, string(f.RuleID), string(f.Gate))
			if s == nil {
				visible = append(visible, f)
				continue
			}
			suppressedCount++
			consumed[s] = true
		}

		gates = append(gates, GateResult{
			Gate:       run.gate.ID,
			Status:     gateStatus(visible, e.env.Strict),
			ToolUsed:   run.toolUsed,
			Findings:   visible,
			Suppressed: suppressedCount,
			Duration:   run.duration,
		})
	}

	appendGateFindings(gates, constants.GateSyntax, unknownSuppressionFindings(doc), e.env.Strict)
	appendGateFindings(gates, constants.GateAntipattern, missingReasonFindings(consumed), e.env.Strict)

	for i := range gates {
		sortFindings(gates[i].Findings)
	}
	// The root node spans the whole document, so its end line is the count.
	return DocumentResult{
		Path:  doc.Path,
		Bytes: int64(len(doc.Raw)),
		Lines: doc.Root.LineEnd,
		Gates: gates,
	}
}

// gateStatus derives a gate's status from its visible findings. Strict
// mode promotes warnings to failures.
func gateStatus(visible []Finding, strict bool) GateStatus {
	for _, f := range visible {
		if f.Severity == SeverityError {
			return GateFailed
		}
		if strict && f.Severity == SeverityWarning {
			return GateFailed
		}
	}
	return GatePassed
}

// appendGateFindings adds aggregator-minted findings to the named gate's
// result and re-derives its status. Quick mode drops the antipattern
// gate entirely, in which case its findings have nowhere to go and are
// dropped with it.
func appendGateFindings(gates []GateResult, id constants.GateID, findings []Finding, strict bool) {
	if len(findings) == 0 {
		return
	}
	for i := range gates {
		if gates[i].Gate != id {
			continue
		}
		gates[i].Findings = append(gates[i].Findings, findings...)
		gates[i].Status = gateStatus(gates[i].Findings, strict)
		return
	}
}

// unknownSuppressionFindings reports annotations whose target names no
// known rule id, gate id, or tool-namespaced rule.
func unknownSuppressionFindings(doc *Document) []Finding {
	var findings []Finding
	for _, s := range doc.Suppressions.All() {
		if isKnownSuppressionTarget(s.Name) {
			continue
		}
		message := "suppression annotation names no rule or gate"
		remediation := "Expected format: '# wfgate: ignore <rule-or-gate> -- <reason>'"
		if s.Name != "" {
			message = fmt.Sprintf("suppression targets unknown rule %q", s.Name)
			candidates := append(constants.RuleIDStrings(), gateIDStrings()...)
			if matches := stringutil.FindClosestMatches(s.Name, candidates, maxRuleSuggestions); len(matches) > 0 {
				remediation = fmt.Sprintf("Did you mean %s?", quoteJoin(matches))
			}
		}
		findings = append(findings, Finding{
			Gate:        constants.GateSyntax,
			RuleID:      constants.RuleUnknownSuppressionTarget,
			Severity:    SeverityInfo,
			Line:        s.Line,
			Message:     message,
			Remediation: remediation,
			Tool:        string(constants.BuiltInToolName),
		})
	}
	return findings
}

// isKnownSuppressionTarget accepts built-in rule ids, gate ids, and
// tool-namespaced ids like actionlint/expression, whose full rule sets
// cannot be enumerated statically.
func isKnownSuppressionTarget(name string) bool {
	if constants.IsKnownRuleID(name) || constants.GateID(name).IsValid() {
		return true
	}
	return strings.HasPrefix(name, actionlintRulePrefix) || strings.HasPrefix(name, zizmorRulePrefix)
}

// gateIDStrings returns the gate ids as plain strings for suggestions
func gateIDStrings() []string {
	ids := make([]string, len(constants.GateOrder))
	for i, id := range constants.GateOrder {
		ids[i] = string(id)
	}
	return ids
}

// missingReasonFindings warns on consumed, reason-less suppressions that
// target the antipattern gate's rules. Habit suppressions need a stated
// reason; a bare annotation hides the habit and the why.
func missingReasonFindings(consumed map[*parser.Suppression]bool) []Finding {
	var offenders []*parser.Suppression
	for s := range consumed {
		if !s.HasReason() && targetsAntipatternRules(s.Name) {
			offenders = append(offenders, s)
		}
	}
	sort.Slice(offenders, func(i, j int) bool { return offenders[i].Line < offenders[j].Line })

	findings := make([]Finding, 0, len(offenders))
	for _, s := range offenders {
		findings = append(findings, Finding{
			Gate:        constants.GateAntipattern,
			RuleID:      constants.RuleSuppressionMissingReason,
			Severity:    SeverityWarning,
			Line:        s.Line,
			Message:     fmt.Sprintf("suppression of %q gives no reason", s.Name),
			Remediation: "Add a reason after the annotation: '# wfgate: ignore " + s.Name + " -- <why>'",
			Tool:        string(constants.BuiltInToolName),
		})
	}
	return findings
}

// targetsAntipatternRules reports whether a suppression name covers the
// antipattern gate or one of its rules
func targetsAntipatternRules(name string) bool {
	if name == string(constants.GateAntipattern) {
		return true
	}
	switch constants.RuleID(name) {
	case constants.RuleErrorSuppression, constants.RuleMissingTimeout,
		constants.RuleMissingConcurrency, constants.RuleUntrustedCodeCheckout:
		return true
	}
	return strings.HasPrefix(name, zizmorRulePrefix)
}

// foldSuite turns per-document results into the immutable suite
// outcome: totals, status, and exit code. Nil slots mean cancellation
// got there first; the suite is partial.
func (e *Engine) foldSuite(ctx context.Context, results []*DocumentResult) *SuiteResult {
	documents := make([]DocumentResult, 0, len(results))
	for _, dr := range results {
		if dr != nil {
			documents = append(documents, *dr)
		}
	}
	sort.Slice(documents, func(i, j int) bool { return documents[i].Path < documents[j].Path })

	totals := Totals{Documents: len(documents)}
	for _, dr := range documents {
		totals.Bytes += dr.Bytes
		totals.Lines += dr.Lines
		if dr.Failed() {
			totals.Failed++
		} else {
			totals.Passed++
		}
		for _, g := range dr.Gates {
			totals.Suppressed += g.Suppressed
			for _, f := range g.Findings {
				switch f.Severity {
				case SeverityError:
					totals.Errors++
				case SeverityWarning:
					totals.Warnings++
				default:
					totals.Infos++
				}
			}
		}
	}

	partial := ctx.Err() != nil || len(documents) < len(results)
	status := SuiteOK
	exitCode := ExitOK
	switch {
	case partial:
		status = SuitePartial
		exitCode = ExitFindings
	case totals.Failed > 0:
		status = SuiteFailed
		exitCode = ExitFindings
	}

	engineLog.Printf("Suite %s: %d documents, %d errors, %d warnings, %d suppressed",
		status, totals.Documents, totals.Errors, totals.Warnings, totals.Suppressed)

	return &SuiteResult{
		Status:    status,
		Documents: documents,
		Totals:    totals,
		ExitCode:  exitCode,
	}
}
