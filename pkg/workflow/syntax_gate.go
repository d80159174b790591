// This file implements the syntax gate: structural and schema checks
// that make a workflow document loadable at all.
//
// # Syntax Gate
//
// Built-in detectors cover the checks that need position-aware tree
// access:
//
//   - yaml-parse-error - errors recovered by the structural parser
//   - missing-required-key - on and jobs, plus conventions additions
//   - invalid-trigger-shape - the on block, including schedule cron specs
//   - missing-runner - jobs without runs-on or uses
//   - conflicting-step-definition / missing-step-action - run vs uses
//   - duplicate-key - repeated keys anywhere in the tree
//   - invalid-document-shape - embedded JSON schema violations
//
// The unreadable-file and unknown-suppression-target findings are also
// attributed to this gate but are produced by the engine and aggregator,
// which own the read error and the suppression index.
//
// External actionlint deepens this gate when available. Built-in
// detectors always run; tool findings are merged on top, never instead.
//
// # When to Add Validation Here
//
// Only rules about document structure belong here. Reference hygiene,
// permissions, secrets, and operational habits each have their own gate.

package workflow

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/robfig/cron/v3"

	"github.com/wfgate/gh-wfgate/pkg/constants"
	"github.com/wfgate/gh-wfgate/pkg/logger"
	"github.com/wfgate/gh-wfgate/pkg/parser"
	"github.com/wfgate/gh-wfgate/pkg/stringutil"
)

var syntaxLog = logger.New("workflow:syntax_gate")

// cronFieldCount is the number of space-separated fields GitHub accepts
// in a schedule cron expression. Descriptor forms like @daily parse under
// the standard parser but are rejected by GitHub, so field count is
// checked first.
const cronFieldCount = 5

// maxEventSuggestions bounds how many near-miss names a finding suggests
const maxEventSuggestions = 3

func syntaxGate() *Gate {
	return &Gate{
		ID: constants.GateSyntax,
		Detectors: []Detector{
			detectParseErrors,
			detectMissingRequiredKeys,
			detectTriggerShape,
			detectJobShapes,
			detectDuplicateKeys,
			detectDocumentShape,
		},
	}
}

// syntaxFinding builds a finding attributed to the syntax gate
func syntaxFinding(rule constants.RuleID, severity Severity, line int, message, remediation string) Finding {
	return Finding{
		Gate:        constants.GateSyntax,
		RuleID:      rule,
		Severity:    severity,
		Line:        line,
		Message:     message,
		Remediation: remediation,
		Tool:        string(constants.BuiltInToolName),
	}
}

// detectParseErrors reports every error the structural parser recovered
func detectParseErrors(env *RunEnv, doc *Document) []Finding {
	var findings []Finding
	for _, pe := range doc.ParseErrors {
		findings = append(findings, syntaxFinding(constants.RuleYAMLParseError, SeverityError,
			pe.Line, pe.Message,
			"Fix the YAML syntax; sibling blocks that parsed were still validated"))
	}
	return findings
}

// detectMissingRequiredKeys checks the required top-level keys.
// A wholly unparseable document is skipped so the parse error stands
// alone instead of implying keys are missing.
func detectMissingRequiredKeys(env *RunEnv, doc *Document) []Finding {
	if doc.Root == nil || doc.Root.Kind == parser.KindError {
		return nil
	}
	var findings []Finding
	for _, key := range env.Conventions.requiredKeys() {
		if !doc.Root.Has(key) {
			findings = append(findings, syntaxFinding(constants.RuleMissingRequiredKey, SeverityError,
				0, fmt.Sprintf("required top-level key %q is missing", key),
				fmt.Sprintf("Add a top-level %q block to the workflow", key)))
		}
	}
	return findings
}

// detectTriggerShape validates the on block: scalar, sequence, or
// mapping of known event names, with schedule cron expressions checked
// against the standard 5-field format.
func detectTriggerShape(env *RunEnv, doc *Document) []Finding {
	on := doc.Root.Get("on")
	if on == nil {
		return nil
	}

	var findings []Finding
	switch {
	case on.IsScalar():
		if f, bad := checkEventName(on.Value, on.LineStart); bad {
			findings = append(findings, f)
		}
	case on.IsSequence():
		for _, item := range on.Items {
			if !item.IsScalar() {
				findings = append(findings, syntaxFinding(constants.RuleInvalidTriggerShape, SeverityError,
					item.LineStart, "trigger list entries must be event names",
					"Expected format: a sequence of event names. Example: 'on: [push, pull_request]'"))
				continue
			}
			if f, bad := checkEventName(item.Value, item.LineStart); bad {
				findings = append(findings, f)
			}
		}
	case on.IsMapping():
		for _, pair := range on.Pairs {
			if pair.Key == nil || !pair.Key.IsScalar() {
				continue
			}
			if f, bad := checkEventName(pair.Key.Value, pair.Key.LineStart); bad {
				findings = append(findings, f)
				continue
			}
			if pair.Key.Value == "schedule" {
				findings = append(findings, checkSchedule(pair.Key, pair.Value)...)
			}
		}
	case on.Kind == parser.KindError:
		// the parse error finding already covers this block
	default:
		findings = append(findings, syntaxFinding(constants.RuleInvalidTriggerShape, SeverityError,
			on.LineStart, "on block must be an event name, a sequence of event names, or a mapping",
			"Expected format: 'on: push', 'on: [push]', or an event mapping. Example: 'on:\\n  push:\\n    branches: [main]'"))
	}
	return findings
}

// checkEventName validates one trigger event name, suggesting near
// misses for typos
func checkEventName(name string, line int) (Finding, bool) {
	if name == "" {
		return syntaxFinding(constants.RuleInvalidTriggerShape, SeverityError,
			line, "trigger event name is empty",
			"Expected format: a known event name. Example: 'push'"), true
	}
	if constants.IsKnownEventName(name) {
		return Finding{}, false
	}
	remediation := "Use a known trigger event name"
	if matches := stringutil.FindClosestMatches(name, constants.EventNameStrings(), maxEventSuggestions); len(matches) > 0 {
		remediation = fmt.Sprintf("Did you mean %s?", quoteJoin(matches))
	}
	return syntaxFinding(constants.RuleInvalidTriggerShape, SeverityError,
		line, fmt.Sprintf("unknown trigger event %q", name), remediation), true
}

// checkSchedule validates the schedule trigger: a sequence of mappings
// each carrying a 5-field cron expression.
func checkSchedule(key, value *parser.Node) []Finding {
	if !value.IsSequence() {
		return []Finding{syntaxFinding(constants.RuleInvalidTriggerShape, SeverityError,
			key.LineStart, "schedule must be a sequence of cron entries",
			"Expected format: a list of mappings with a cron key. Example: 'schedule:\\n  - cron: \"30 5 * * 1\"'")}
	}

	var findings []Finding
	for _, entry := range value.Items {
		if !entry.IsMapping() {
			findings = append(findings, syntaxFinding(constants.RuleInvalidTriggerShape, SeverityError,
				entry.LineStart, "schedule entries must be mappings with a cron key",
				"Expected format: '- cron: \"30 5 * * 1\"'"))
			continue
		}
		cronNode := entry.Get("cron")
		if cronNode == nil {
			findings = append(findings, syntaxFinding(constants.RuleInvalidTriggerShape, SeverityError,
				entry.LineStart, "schedule entry is missing its cron key",
				"Expected format: '- cron: \"30 5 * * 1\"'"))
			continue
		}
		if !cronNode.IsScalar() {
			findings = append(findings, syntaxFinding(constants.RuleInvalidTriggerShape, SeverityError,
				cronNode.LineStart, "cron value must be a string expression",
				"Expected format: a quoted 5-field cron expression. Example: '\"30 5 * * 1\"'"))
			continue
		}
		if f, bad := checkCronExpression(cronNode.Value, cronNode.LineStart); bad {
			findings = append(findings, f)
		}
	}
	return findings
}

// checkCronExpression validates a cron spec the way GitHub interprets
// it: exactly five fields, standard syntax.
func checkCronExpression(spec string, line int) (Finding, bool) {
	if fields := strings.Fields(spec); len(fields) != cronFieldCount {
		return syntaxFinding(constants.RuleInvalidTriggerShape, SeverityError, line,
			fmt.Sprintf("cron expression %q must have %d fields, got %d", spec, cronFieldCount, len(fields)),
			"Expected format: '<minute> <hour> <day> <month> <weekday>'. Example: '30 5 * * 1'"), true
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return syntaxFinding(constants.RuleInvalidTriggerShape, SeverityError, line,
			fmt.Sprintf("invalid cron expression %q: %v", spec, err),
			"Expected format: '<minute> <hour> <day> <month> <weekday>'. Example: '30 5 * * 1'"), true
	}
	return Finding{}, false
}

// detectJobShapes checks that every job can actually execute: a runner
// or a reusable workflow ref, and exactly one action per step.
func detectJobShapes(env *RunEnv, doc *Document) []Finding {
	var findings []Finding
	eachJob(doc, func(id string, key, job *parser.Node) {
		if !job.IsMapping() {
			return
		}
		if !job.Has("runs-on") && !job.Has("uses") {
			findings = append(findings, syntaxFinding(constants.RuleMissingRunner, SeverityError,
				key.LineStart, fmt.Sprintf("job %q declares neither runs-on nor uses", id),
				"Expected format: a runner label or a reusable workflow ref. Example: 'runs-on: ubuntu-latest'"))
		}
		stepIndex := 0
		eachStep(job, func(step *parser.Node) {
			hasRun := step.Has("run")
			hasUses := step.Has("uses")
			switch {
			case hasRun && hasUses:
				findings = append(findings, syntaxFinding(constants.RuleConflictingStepDefinition, SeverityError,
					step.LineStart, fmt.Sprintf("step %d in job %q sets both run and uses", stepIndex+1, id),
					"Split the step in two: one with run, one with uses"))
			case !hasRun && !hasUses:
				findings = append(findings, syntaxFinding(constants.RuleMissingStepAction, SeverityError,
					step.LineStart, fmt.Sprintf("step %d in job %q has neither run nor uses", stepIndex+1, id),
					"Add a run command or a uses action reference to the step"))
			}
			stepIndex++
		})
	})
	return findings
}

// detectDuplicateKeys reports repeated keys in any mapping. The parser
// preserves duplicates instead of collapsing them, so both definitions
// are visible here.
func detectDuplicateKeys(env *RunEnv, doc *Document) []Finding {
	var findings []Finding
	doc.Root.Walk(func(n *parser.Node) bool {
		if !n.IsMapping() {
			return true
		}
		firstLine := make(map[string]int, len(n.Pairs))
		for _, pair := range n.Pairs {
			if pair.Key == nil || !pair.Key.IsScalar() || pair.Key.Value == "" {
				continue
			}
			name := pair.Key.Value
			if prev, seen := firstLine[name]; seen {
				findings = append(findings, syntaxFinding(constants.RuleDuplicateKey, SeverityError,
					pair.Key.LineStart,
					fmt.Sprintf("duplicate key %q (first defined at line %d)", name, prev),
					"Remove or rename one of the definitions; YAML loaders keep only one"))
			} else {
				firstLine[name] = pair.Key.LineStart
			}
		}
		return true
	})
	return findings
}

// detectDocumentShape runs the embedded JSON schema over the decoded
// document and maps each violation back to a source line through the
// parse tree.
func detectDocumentShape(env *RunEnv, doc *Document) []Finding {
	if doc.Root == nil || doc.Root.Kind == parser.KindError {
		return nil
	}
	var decoded map[string]any
	if err := yaml.Unmarshal(doc.Raw, &decoded); err != nil {
		// recovered parse errors already describe the problem
		syntaxLog.Printf("Schema decode skipped for %s: %v", doc.Path, err)
		return nil
	}

	violations, err := parser.ValidateDocumentShape(decoded)
	if err != nil {
		syntaxLog.Printf("Schema validation unavailable for %s: %v", doc.Path, err)
		return nil
	}

	findings := make([]Finding, 0, len(violations))
	for _, v := range violations {
		message := v.Message
		if len(v.Path) > 0 {
			message = fmt.Sprintf("%s: %s", v.PathString(), v.Message)
		}
		findings = append(findings, syntaxFinding(constants.RuleInvalidDocumentShape, SeverityError,
			parser.LineForPath(doc.Root, v.Path), message,
			"Adjust the document to match the workflow shape"))
	}
	return findings
}

// quoteJoin renders a list of suggestions as "a", "b" or "c"
func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	if len(quoted) == 1 {
		return quoted[0]
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
}
