//go:build !integration

package workflow

import (
	"strings"
	"testing"

	"github.com/wfgate/gh-wfgate/pkg/constants"
)

// testDocument parses inline YAML as a workflow document. Leading
// newlines are trimmed so raw string literals can start on their own
// line without shifting every expected line number.
func testDocument(t *testing.T, content string) *Document {
	t.Helper()
	return NewDocument("test.yml", []byte(strings.TrimPrefix(content, "\n")))
}

// testEnv returns a RunEnv with defaults and external tools disabled,
// so detector tests never depend on what happens to be on PATH.
func testEnv() *RunEnv {
	env := NewRunEnv()
	env.NoTools = true
	return env
}

// findingsWithRule filters findings down to one rule id
func findingsWithRule(findings []Finding, rule constants.RuleID) []Finding {
	var matched []Finding
	for _, f := range findings {
		if f.RuleID == rule {
			matched = append(matched, f)
		}
	}
	return matched
}

// ruleLines maps each finding of a rule to its line number, in order
func ruleLines(findings []Finding, rule constants.RuleID) []int {
	var lines []int
	for _, f := range findingsWithRule(findings, rule) {
		lines = append(lines, f.Line)
	}
	return lines
}

// gateResult returns the named gate's result from a document result
func gateResult(t *testing.T, dr *DocumentResult, id constants.GateID) GateResult {
	t.Helper()
	for _, g := range dr.Gates {
		if g.Gate == id {
			return g
		}
	}
	t.Fatalf("document result for %s has no %s gate", dr.Path, id)
	return GateResult{}
}
