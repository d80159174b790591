// This file implements the antipattern gate: operational habits that
// make workflows flaky, slow to fail, or exploitable.
//
// # Antipattern Heuristics
//
//   - error-suppression - continue-on-error: true hides real failures
//   - missing-timeout - jobs without timeout-minutes hold runners until
//     the platform ceiling
//   - missing-concurrency - externally triggerable workflows without a
//     concurrency block pile up runs
//   - untrusted-code-checkout - pull_request_target checking out the
//     triggering head executes contributor code with an elevated token
//
// The first three are warnings; suppressing them is fine with a stated
// reason. The checkout heuristic is always an error. External zizmor
// deepens this gate when available.

package workflow

import (
	"fmt"
	"strings"

	"github.com/wfgate/gh-wfgate/pkg/constants"
	"github.com/wfgate/gh-wfgate/pkg/parser"
	"github.com/wfgate/gh-wfgate/pkg/stringutil"
)

func antipatternGate() *Gate {
	return &Gate{
		ID: constants.GateAntipattern,
		Detectors: []Detector{
			detectErrorSuppression,
			detectMissingTimeouts,
			detectMissingConcurrency,
			detectUntrustedCheckout,
		},
	}
}

// antipatternFinding builds a finding attributed to this gate
func antipatternFinding(rule constants.RuleID, severity Severity, line int, message, remediation string) Finding {
	return Finding{
		Gate:        constants.GateAntipattern,
		RuleID:      rule,
		Severity:    severity,
		Line:        line,
		Message:     message,
		Remediation: remediation,
		Tool:        string(constants.BuiltInToolName),
	}
}

// detectErrorSuppression flags literal continue-on-error: true on jobs
// and steps. Expression values are left alone; matrix-driven opt-outs
// are a legitimate pattern.
func detectErrorSuppression(env *RunEnv, doc *Document) []Finding {
	var findings []Finding
	flag := func(owner string, holder *parser.Node) {
		pair := holder.KeyNode("continue-on-error")
		if pair == nil {
			return
		}
		value := holder.Get("continue-on-error")
		if value.IsScalar() && value.Value == "true" {
			findings = append(findings, antipatternFinding(constants.RuleErrorSuppression, SeverityWarning,
				pair.LineStart,
				fmt.Sprintf("%s ignores failures via continue-on-error", owner),
				"Remove continue-on-error or scope it to a matrix flag so failures stay visible"))
		}
	}

	eachJob(doc, func(id string, key, job *parser.Node) {
		if !job.IsMapping() {
			return
		}
		flag(fmt.Sprintf("job %q", id), job)
		stepIndex := 0
		eachStep(job, func(step *parser.Node) {
			stepIndex++
			flag(fmt.Sprintf("step %d in job %q", stepIndex, id), step)
		})
	})
	return findings
}

// detectMissingTimeouts flags runner jobs without a usable
// timeout-minutes value. Reusable workflow calls cannot set one, so
// jobs built on uses are skipped.
func detectMissingTimeouts(env *RunEnv, doc *Document) []Finding {
	var findings []Finding
	eachJob(doc, func(id string, key, job *parser.Node) {
		if !job.IsMapping() || job.Has("uses") {
			return
		}
		timeout := job.Get("timeout-minutes")
		if timeout == nil {
			findings = append(findings, antipatternFinding(constants.RuleMissingTimeout, SeverityWarning,
				key.LineStart,
				fmt.Sprintf("job %q has no timeout-minutes and will hold its runner until the platform ceiling", id),
				"Add a timeout-minutes value sized to the job. Example: 'timeout-minutes: 15'"))
			return
		}
		if timeout.IsScalar() && !strings.Contains(timeout.Value, "${{") && !stringutil.IsPositiveInteger(timeout.Value) {
			findings = append(findings, antipatternFinding(constants.RuleMissingTimeout, SeverityWarning,
				timeout.LineStart,
				fmt.Sprintf("job %q has timeout-minutes %q, which is not a positive number of minutes", id, timeout.Value),
				"Expected format: a positive integer. Example: 'timeout-minutes: 15'"))
		}
	})
	return findings
}

// detectMissingConcurrency flags externally triggerable documents that
// never declare a concurrency group.
func detectMissingConcurrency(env *RunEnv, doc *Document) []Finding {
	if doc.Root.Has("concurrency") {
		return nil
	}
	var external []string
	for _, event := range triggerEvents(doc) {
		if constants.IsExternalEvent(event) {
			external = append(external, event)
		}
	}
	if len(external) == 0 {
		return nil
	}

	return []Finding{antipatternFinding(constants.RuleMissingConcurrency, SeverityWarning, 0,
		fmt.Sprintf("workflow is externally triggerable (%s) but declares no concurrency block", strings.Join(external, ", ")),
		"Add a concurrency group keyed on the ref so repeated triggers cancel stale runs")}
}

// detectUntrustedCheckout flags the classic pull_request_target trap:
// checking out the contributor's head runs their code in a context
// holding a write-capable token.
func detectUntrustedCheckout(env *RunEnv, doc *Document) []Finding {
	if !hasEscalatedTrustTrigger(doc) {
		return nil
	}
	var findings []Finding
	for _, ref := range findUntrustedCheckouts(doc) {
		findings = append(findings, antipatternFinding(constants.RuleUntrustedCodeCheckout, SeverityError,
			ref.LineStart,
			"pull_request_target workflow checks out github.event.pull_request.head, executing untrusted code with an elevated token",
			"Check out the base ref, or move untrusted code handling to a plain pull_request workflow"))
	}
	return findings
}
