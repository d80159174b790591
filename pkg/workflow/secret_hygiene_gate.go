// This file implements the secret-hygiene gate: secrets must not leak
// through command output or persisted artifacts.
//
// # Secret Hygiene
//
//   - secret-in-run - a ${{ secrets.* }} expression on a command line
//     whose leading verb prints its arguments, or right after a
//     credential-style flag
//   - secret-in-artifact - a secrets expression in an
//     actions/upload-artifact input
//
// Scanning reads the raw text of run scalars, so literal block commands
// report the exact offending line. Shell semantics are matched per
// line: pipelines, substitutions, and env-prefix assignments are not
// modeled. A secret passed to a non-printing command stays silent, a
// documented precision/recall trade.

package workflow

import (
	"fmt"
	"path"
	"strings"

	"github.com/wfgate/gh-wfgate/pkg/constants"
	"github.com/wfgate/gh-wfgate/pkg/parser"
)

// printLikeVerbs are commands whose arguments end up on stdout or in a
// file verbatim. Write-Output covers PowerShell runs.
var printLikeVerbs = []string{"echo", "printf", "print", "cat", "tee", "write-output"}

// sensitiveFlags mark the following argument as a credential
var sensitiveFlags = []string{"--password", "--token", "--api-key", "--secret", "--key", "-p"}

// uploadArtifactAction is the action whose inputs persist as artifacts
const uploadArtifactAction = "actions/upload-artifact"

func secretHygieneGate() *Gate {
	return &Gate{
		ID: constants.GateSecretHygiene,
		Detectors: []Detector{
			detectSecretsInRun,
			detectSecretsInArtifacts,
		},
	}
}

// secretFinding builds a finding attributed to this gate
func secretFinding(rule constants.RuleID, line int, message, remediation string) Finding {
	return Finding{
		Gate:        constants.GateSecretHygiene,
		RuleID:      rule,
		Severity:    SeverityError,
		Line:        line,
		Message:     message,
		Remediation: remediation,
		Tool:        string(constants.BuiltInToolName),
	}
}

// detectSecretsInRun scans every run command for secrets expressions
// that reach stdout or a credential flag.
func detectSecretsInRun(env *RunEnv, doc *Document) []Finding {
	var findings []Finding
	eachJob(doc, func(id string, key, job *parser.Node) {
		if !job.IsMapping() {
			return
		}
		eachStep(job, func(step *parser.Node) {
			run := step.Get("run")
			if !run.IsScalar() || run.Raw == "" {
				return
			}
			findings = append(findings, scanRunScalar(run)...)
		})
	})
	return findings
}

// scanRunScalar reports the leaking secrets references in one run value
func scanRunScalar(run *parser.Node) []Finding {
	lines := strings.Split(run.Raw, "\n")

	var findings []Finding
	for _, ref := range findSecretReferences(run.Raw) {
		lineWithin := lineOfOffset(run.Raw, ref.Offset)
		lineText := lines[lineWithin]
		findingLine := run.LineStart + lineWithin

		lineStartOffset := ref.Offset - offsetWithinLine(run.Raw, ref.Offset)
		beforeExpr := run.Raw[lineStartOffset:ref.Offset]

		if verb, ok := printLikeVerb(lineText); ok {
			findings = append(findings, secretFinding(constants.RuleSecretInRun, findingLine,
				fmt.Sprintf("%s is passed to print-like command %q", describeSecret(ref.Name), verb),
				"Print a masked placeholder, or pass the secret through an environment variable"))
			continue
		}
		if flag, ok := sensitiveFlagBefore(beforeExpr); ok {
			findings = append(findings, secretFinding(constants.RuleSecretInRun, findingLine,
				fmt.Sprintf("%s follows sensitive flag %q and will appear in process listings", describeSecret(ref.Name), flag),
				"Pass the secret through an environment variable or a credentials file instead of a flag"))
		}
	}
	return findings
}

// detectSecretsInArtifacts scans upload-artifact inputs; artifact
// contents persist in plain text well past the run.
func detectSecretsInArtifacts(env *RunEnv, doc *Document) []Finding {
	var findings []Finding
	eachJob(doc, func(id string, key, job *parser.Node) {
		if !job.IsMapping() {
			return
		}
		eachStep(job, func(step *parser.Node) {
			uses := step.Get("uses")
			if !uses.IsScalar() || !isUploadArtifactAction(uses.Value) {
				return
			}
			with := step.Get("with")
			if !with.IsMapping() {
				return
			}
			for _, pair := range with.Pairs {
				if pair.Value == nil || !pair.Value.IsScalar() || pair.Value.Raw == "" {
					continue
				}
				inputName := ""
				if pair.Key.IsScalar() {
					inputName = pair.Key.Value
				}
				for _, ref := range findSecretReferences(pair.Value.Raw) {
					line := pair.Value.LineStart + lineOfOffset(pair.Value.Raw, ref.Offset)
					findings = append(findings, secretFinding(constants.RuleSecretInArtifact, line,
						fmt.Sprintf("%s flows into upload-artifact input %q", describeSecret(ref.Name), inputName),
						"Artifacts persist in plain text; keep secrets out of uploaded paths and names"))
				}
			}
		})
	})
	return findings
}

// isUploadArtifactAction reports whether a uses value names the
// upload-artifact action under any ref
func isUploadArtifactAction(uses string) bool {
	return uses == uploadArtifactAction || strings.HasPrefix(uses, uploadArtifactAction+"@")
}

// printLikeVerb returns the leading verb of a command line when it is
// print-like. A sudo prefix is skipped; the verb matches by basename so
// /bin/echo counts.
func printLikeVerb(lineText string) (string, bool) {
	fields := strings.Fields(lineText)
	if len(fields) > 0 && fields[0] == "sudo" {
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return "", false
	}
	verb := strings.ToLower(path.Base(fields[0]))
	for _, known := range printLikeVerbs {
		if verb == known {
			return fields[0], true
		}
	}
	return "", false
}

// sensitiveFlagBefore reports whether the text leading up to an
// expression ends with a credential flag, either "--token <expr>" or
// "--token=<expr>" form.
func sensitiveFlagBefore(before string) (string, bool) {
	trimmed := strings.TrimRight(before, " \t")
	for _, flag := range sensitiveFlags {
		for _, suffix := range []string{flag, flag + "="} {
			if !strings.HasSuffix(trimmed, suffix) {
				continue
			}
			boundary := len(trimmed) - len(suffix) - 1
			if boundary < 0 || trimmed[boundary] == ' ' || trimmed[boundary] == '\t' {
				return flag, true
			}
		}
	}
	return "", false
}

// offsetWithinLine returns how many bytes into its line the offset sits
func offsetWithinLine(text string, offset int) int {
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	return offset - lineStart
}

// describeSecret names a secret reference for a finding message
func describeSecret(name string) string {
	if name == "" {
		return "a secrets context value"
	}
	return "secrets." + name
}
