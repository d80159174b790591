// This file implements the permissions gate: workflows must say what
// the repository token may do, and must not hold write power while
// running code from untrusted contributors.
//
// # Permission Hardening
//
//   - missing-permissions-block - no workflow-level block and at least
//     one job without its own; exactly one error per document
//   - wildcard-permissions - write-all is always an error
//   - broad-read-permissions - read-all is a warning
//   - unknown-permission-scope / invalid-permission-level - scope names
//     come from the fixed GitHub set, values from read/write/none
//   - write-permissions-on-untrusted-trigger - pull_request_target plus
//     a checkout of the triggering head plus any write grant
//
// Unknown scope names are warnings rather than errors: GitHub grows the
// scope set over time and an unrecognized name may simply be newer than
// this list.

package workflow

import (
	"fmt"

	"github.com/wfgate/gh-wfgate/pkg/constants"
	"github.com/wfgate/gh-wfgate/pkg/parser"
	"github.com/wfgate/gh-wfgate/pkg/sliceutil"
	"github.com/wfgate/gh-wfgate/pkg/stringutil"
)

const (
	permissionWriteAll = "write-all"
	permissionReadAll  = "read-all"
	permissionWrite    = "write"
)

// maxScopeSuggestions bounds the near-miss suggestions for scope typos
const maxScopeSuggestions = 3

func permissionsGate() *Gate {
	return &Gate{
		ID: constants.GatePermissions,
		Detectors: []Detector{
			detectMissingPermissions,
			detectPermissionGrants,
			detectUntrustedTriggerWrites,
		},
	}
}

// permissionsFinding builds a finding attributed to this gate
func permissionsFinding(rule constants.RuleID, severity Severity, line int, message, remediation string) Finding {
	return Finding{
		Gate:        constants.GatePermissions,
		RuleID:      rule,
		Severity:    severity,
		Line:        line,
		Message:     message,
		Remediation: remediation,
		Tool:        string(constants.BuiltInToolName),
	}
}

// grantSite is one permissions block and where it applies
type grantSite struct {
	node *parser.Node
	// owner is "workflow" for the top-level block, otherwise the job id
	owner string
}

// permissionSites returns every permissions block in the document,
// workflow level first
func permissionSites(doc *Document) []grantSite {
	var sites []grantSite
	if p := doc.Root.Get("permissions"); p != nil {
		sites = append(sites, grantSite{node: p, owner: "workflow"})
	}
	eachJob(doc, func(id string, key, job *parser.Node) {
		if !job.IsMapping() {
			return
		}
		if p := job.Get("permissions"); p != nil {
			sites = append(sites, grantSite{node: p, owner: id})
		}
	})
	return sites
}

// detectMissingPermissions fires once per document that neither
// declares a workflow-level permissions block nor covers every job with
// one. Documents without jobs are left to the required-key check.
func detectMissingPermissions(env *RunEnv, doc *Document) []Finding {
	if doc.Root.Has("permissions") {
		return nil
	}
	jobs := doc.Root.Get("jobs")
	if !jobs.IsMapping() || len(jobs.Pairs) == 0 {
		return nil
	}

	uncovered := 0
	total := 0
	eachJob(doc, func(id string, key, job *parser.Node) {
		total++
		if !job.IsMapping() || !job.Has("permissions") {
			uncovered++
		}
	})
	if uncovered == 0 {
		return nil
	}

	return []Finding{permissionsFinding(constants.RuleMissingPermissionsBlock, SeverityError, 0,
		fmt.Sprintf("no permissions block at workflow level and %d of %d jobs declare none; the token keeps its default grants", uncovered, total),
		"Declare the minimal scopes needed. Example: 'permissions:\\n  contents: read'")}
}

// detectPermissionGrants validates the content of every permissions
// block: wildcard and broad grants, scope names, and scope levels.
func detectPermissionGrants(env *RunEnv, doc *Document) []Finding {
	var findings []Finding
	for _, site := range permissionSites(doc) {
		findings = append(findings, checkGrantSite(site)...)
	}
	return findings
}

// checkGrantSite validates one permissions block
func checkGrantSite(site grantSite) []Finding {
	node := site.node
	switch {
	case node.IsScalar():
		switch node.Value {
		case permissionWriteAll:
			return []Finding{permissionsFinding(constants.RuleWildcardPermissions, SeverityError,
				node.LineStart,
				fmt.Sprintf("%s permissions grant write-all, every scope writable", site.owner),
				"Replace write-all with the individual scopes the workflow needs")}
		case permissionReadAll:
			return []Finding{permissionsFinding(constants.RuleBroadReadPermissions, SeverityWarning,
				node.LineStart,
				fmt.Sprintf("%s permissions grant read-all, wider than most workflows need", site.owner),
				"List only the scopes actually read. Example: 'contents: read'")}
		case "":
			// a bare permissions: key declares intent without grants
			return nil
		default:
			return []Finding{permissionsFinding(constants.RuleInvalidPermissionLevel, SeverityError,
				node.LineStart,
				fmt.Sprintf("permissions value %q is not valid", node.Value),
				"Expected format: read-all, write-all, or a scope mapping. Example: 'contents: read'")}
		}
	case node.IsMapping():
		var findings []Finding
		for _, pair := range node.Pairs {
			if pair.Key == nil || !pair.Key.IsScalar() {
				continue
			}
			findings = append(findings, checkScopeGrant(pair)...)
		}
		return findings
	default:
		// sequences and error nodes are shape problems, reported elsewhere
		return nil
	}
}

// checkScopeGrant validates a single "scope: level" pair
func checkScopeGrant(pair parser.Pair) []Finding {
	var findings []Finding
	scope := pair.Key.Value
	if !constants.IsKnownPermissionScope(scope) {
		remediation := "Use a scope from the GitHub permissions set"
		if matches := stringutil.FindClosestMatches(scope, constants.PermissionScopeStrings(), maxScopeSuggestions); len(matches) > 0 {
			remediation = fmt.Sprintf("Did you mean %s?", quoteJoin(matches))
		}
		findings = append(findings, permissionsFinding(constants.RuleUnknownPermissionScope, SeverityWarning,
			pair.Key.LineStart,
			fmt.Sprintf("unknown permission scope %q", scope), remediation))
	}

	value := pair.Value
	if !value.IsScalar() || !sliceutil.Contains(constants.PermissionLevels, value.Value) {
		level := ""
		line := pair.Key.LineStart
		if value.IsScalar() {
			level = value.Value
			line = value.LineStart
		}
		findings = append(findings, permissionsFinding(constants.RuleInvalidPermissionLevel, SeverityError,
			line,
			fmt.Sprintf("permission level %q for scope %q is not valid", level, scope),
			"Expected format: read, write, or none. Example: 'contents: read'"))
	}
	return findings
}

// detectUntrustedTriggerWrites flags the escalated-trust combination:
// an externally writable trigger, a checkout of the contributor's head,
// and a write grant anywhere in the document.
func detectUntrustedTriggerWrites(env *RunEnv, doc *Document) []Finding {
	if !hasEscalatedTrustTrigger(doc) {
		return nil
	}
	if len(findUntrustedCheckouts(doc)) == 0 {
		return nil
	}
	grant := firstWriteGrant(doc)
	if grant == nil {
		return nil
	}

	return []Finding{permissionsFinding(constants.RuleWritePermissionsOnUntrustedTrigger, SeverityError,
		grant.LineStart,
		"pull_request_target workflow checks out the triggering head while holding write permissions",
		"Drop the write grants, or move untrusted code analysis into a separate read-only workflow")}
}

// hasEscalatedTrustTrigger reports whether any trigger runs contributor
// code with a write-capable token
func hasEscalatedTrustTrigger(doc *Document) bool {
	for _, event := range constants.EscalatedTrustEvents {
		if hasTrigger(doc, string(event)) {
			return true
		}
	}
	return false
}

// firstWriteGrant returns the node of the first write-capable grant in
// document order: a write-all scalar or any scope set to write.
func firstWriteGrant(doc *Document) *parser.Node {
	for _, site := range permissionSites(doc) {
		node := site.node
		if node.IsScalar() && node.Value == permissionWriteAll {
			return node
		}
		if !node.IsMapping() {
			continue
		}
		for _, pair := range node.Pairs {
			if pair.Value.IsScalar() && pair.Value.Value == permissionWrite {
				return pair.Value
			}
		}
	}
	return nil
}
