// This file implements the reference-pinning gate: every action or
// reusable workflow a document uses must be pinned to something that
// cannot move underneath it.
//
// # Reference Pinning
//
// A uses ref is classified as one of:
//
//   - content hash - a 40- or 64-character hex digest, immutable
//   - version tag - a semver-shaped tag like v4 or v1.2.3, mutable
//   - branch - anything else, freely mutable
//
// Trusted namespaces (actions/, github/, plus conventions additions)
// may pin to version tags. Everything else needs a content hash. Refs
// without any version are always errors. Local ./path refs are exempt;
// docker:// refs count as pinned only with a sha256 digest.
//
// When the conventions file maps a ref to a known digest, the finding's
// remediation quotes the exact pinned form to paste in.

package workflow

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/wfgate/gh-wfgate/pkg/constants"
	"github.com/wfgate/gh-wfgate/pkg/parser"
	"github.com/wfgate/gh-wfgate/pkg/repoutil"
)

// commitHashPattern matches a full git object digest, either SHA-1 or
// SHA-256 length. Abbreviated hashes do not count as pinned.
var commitHashPattern = regexp.MustCompile(`^(?:[0-9a-f]{40}|[0-9a-f]{64})$`)

// dockerDigestPattern matches the digest suffix of a pinned docker ref
var dockerDigestPattern = regexp.MustCompile(`^sha256:[0-9a-f]{64}$`)

// RefClass is the pinning classification of a uses ref
type RefClass string

const (
	RefContentHash RefClass = "content-hash"
	RefVersionTag  RefClass = "version-tag"
	RefBranch      RefClass = "branch"
)

// classifyRef buckets a non-empty version ref. Hash beats tag: a ref
// that matches the digest pattern is a content hash even if it happens
// to parse as semver. Tags are accepted with or without the leading v.
func classifyRef(ref string) RefClass {
	if commitHashPattern.MatchString(ref) {
		return RefContentHash
	}
	if semver.IsValid(ref) {
		return RefVersionTag
	}
	if ref != "" && ref[0] >= '0' && ref[0] <= '9' && semver.IsValid("v"+ref) {
		return RefVersionTag
	}
	return RefBranch
}

func referencePinningGate() *Gate {
	return &Gate{
		ID:        constants.GateReferencePinning,
		Detectors: []Detector{detectUnpinnedReferences},
	}
}

// pinningFinding builds a finding attributed to this gate
func pinningFinding(rule constants.RuleID, line int, message, remediation string) Finding {
	return Finding{
		Gate:        constants.GateReferencePinning,
		RuleID:      rule,
		Severity:    SeverityError,
		Line:        line,
		Message:     message,
		Remediation: remediation,
		Tool:        string(constants.BuiltInToolName),
	}
}

// eachUsesRef visits every uses value in the document: job-level
// reusable workflow calls and step-level action references.
func eachUsesRef(doc *Document, fn func(node *parser.Node)) {
	eachJob(doc, func(id string, key, job *parser.Node) {
		if !job.IsMapping() {
			return
		}
		if uses := job.Get("uses"); uses.IsScalar() {
			fn(uses)
		}
		eachStep(job, func(step *parser.Node) {
			if uses := step.Get("uses"); uses.IsScalar() {
				fn(uses)
			}
		})
	})
}

// detectUnpinnedReferences classifies every uses ref and reports the
// ones that can move underneath the workflow.
func detectUnpinnedReferences(env *RunEnv, doc *Document) []Finding {
	trusted := env.Conventions.trustedNamespaces()

	var findings []Finding
	eachUsesRef(doc, func(node *parser.Node) {
		if f, bad := checkUsesRef(node.Value, node.LineStart, trusted, env.Conventions); bad {
			findings = append(findings, f)
		}
	})
	return findings
}

// checkUsesRef applies the pinning policy to one uses value
func checkUsesRef(uses string, line int, trusted []string, conv *Conventions) (Finding, bool) {
	// local refs resolve inside the repository and cannot be hijacked
	if strings.HasPrefix(uses, "./") {
		return Finding{}, false
	}
	if strings.HasPrefix(uses, "docker://") {
		return checkDockerRef(uses, line)
	}

	base, ref, hasRef := strings.Cut(uses, "@")
	if !hasRef || ref == "" {
		return pinningFinding(constants.RuleUntaggedReference, line,
			fmt.Sprintf("reference %q has no version at all", uses),
			"Pin to a content hash. Example: 'owner/repo@<full commit digest>'"), true
	}

	switch classifyRef(ref) {
	case RefContentHash:
		return Finding{}, false
	case RefVersionTag:
		if namespaceTrusted(base, trusted) {
			return Finding{}, false
		}
		return pinningFinding(constants.RuleUnpinnedReference, line,
			fmt.Sprintf("reference %q is pinned to mutable tag %q outside a trusted namespace", uses, ref),
			hashRemediation(base, ref, conv)), true
	default:
		return pinningFinding(constants.RuleUnpinnedReference, line,
			fmt.Sprintf("reference %q tracks branch %q, which moves with every push", uses, ref),
			hashRemediation(base, ref, conv)), true
	}
}

// checkDockerRef applies the pinning policy to a docker:// ref. Only a
// sha256 digest counts as pinned; tags follow the namespace rule via
// checkUsesRef semantics but docker namespaces are never in the trusted
// set by default, so in practice tags need digests.
func checkDockerRef(uses string, line int) (Finding, bool) {
	image := strings.TrimPrefix(uses, "docker://")
	if name, digest, ok := strings.Cut(image, "@"); ok {
		if dockerDigestPattern.MatchString(digest) {
			return Finding{}, false
		}
		return pinningFinding(constants.RuleUnpinnedReference, line,
			fmt.Sprintf("docker reference %q carries a malformed digest", name),
			"Pin to a content hash. Expected format: 'docker://image@sha256:<64 hex chars>'"), true
	}
	if !strings.Contains(image, ":") {
		return pinningFinding(constants.RuleUntaggedReference, line,
			fmt.Sprintf("docker reference %q has no tag or digest", image),
			"Pin to a content hash. Expected format: 'docker://image@sha256:<64 hex chars>'"), true
	}
	return pinningFinding(constants.RuleUnpinnedReference, line,
		fmt.Sprintf("docker reference %q uses a mutable tag", image),
		"Pin to a content hash. Expected format: 'docker://image@sha256:<64 hex chars>'"), true
}

// namespaceTrusted reports whether the owner of an action base path is
// in the trusted set. A base without an owner/repo shape is never
// trusted.
func namespaceTrusted(base string, trusted []string) bool {
	parts := strings.SplitN(base, "/", 3)
	if len(parts) < 2 {
		return false
	}
	owner, _, err := repoutil.SplitRepoSlug(parts[0] + "/" + parts[1])
	if err != nil {
		return false
	}
	for _, ns := range trusted {
		if owner == ns {
			return true
		}
	}
	return false
}

// hashRemediation builds the pin-to-hash guidance, quoting the concrete
// digest when the conventions file knows it.
func hashRemediation(base, ref string, conv *Conventions) string {
	if digest, ok := conv.pinnedDigest(base + "@" + ref); ok {
		return fmt.Sprintf("Pin to a content hash: use '%s@%s'", base, digest)
	}
	return fmt.Sprintf("Pin to a content hash. Example: '%s@<full commit digest>'", base)
}
