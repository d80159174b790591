// Package constants centralizes shared identifiers, defaults, and semantic
// string types used across the validation engine and CLI.
package constants

import (
	"path/filepath"
	"time"
)

// CommandPrefix is the invocation prefix shown in help text and examples.
type CommandPrefix string

// GateID identifies one of the fixed analysis gates.
type GateID string

// RuleID identifies a specific check within a gate, stable across releases.
// Rule ids are the unit of suppression matching.
type RuleID string

// ToolName identifies an external analyzer binary.
type ToolName string

// EventName is a workflow trigger event identifier.
type EventName string

// ScopeName is a permission scope identifier from the fixed GitHub set.
type ScopeName string

// String returns the string representation of the CommandPrefix.
func (c CommandPrefix) String() string { return string(c) }

// IsValid reports whether the CommandPrefix is non-empty.
func (c CommandPrefix) IsValid() bool { return c != "" }

// String returns the string representation of the GateID.
func (g GateID) String() string { return string(g) }

// IsValid reports whether the GateID is one of the five known gates.
func (g GateID) IsValid() bool {
	for _, id := range GateOrder {
		if g == id {
			return true
		}
	}
	return false
}

// String returns the string representation of the RuleID.
func (r RuleID) String() string { return string(r) }

// IsValid reports whether the RuleID is non-empty.
func (r RuleID) IsValid() bool { return r != "" }

// String returns the string representation of the ToolName.
func (t ToolName) String() string { return string(t) }

// IsValid reports whether the ToolName is non-empty.
func (t ToolName) IsValid() bool { return t != "" }

// String returns the string representation of the EventName.
func (e EventName) String() string { return string(e) }

// IsValid reports whether the EventName is non-empty.
func (e EventName) IsValid() bool { return e != "" }

// String returns the string representation of the ScopeName.
func (s ScopeName) String() string { return string(s) }

// IsValid reports whether the ScopeName is non-empty.
func (s ScopeName) IsValid() bool { return s != "" }

// CLIExtensionPrefix is how the extension is invoked through the gh CLI.
const CLIExtensionPrefix CommandPrefix = "gh wfgate"

// Gate identifiers. GateOrder fixes the report ordering; it is declaration
// order, not alphabetical.
const (
	GateSyntax           GateID = "syntax"
	GateReferencePinning GateID = "reference-pinning"
	GatePermissions      GateID = "permissions"
	GateSecretHygiene    GateID = "secret-hygiene"
	GateAntipattern      GateID = "antipattern"
)

// GateOrder is the canonical gate ordering used by the reporter.
var GateOrder = []GateID{
	GateSyntax,
	GateReferencePinning,
	GatePermissions,
	GateSecretHygiene,
	GateAntipattern,
}

// QuickModeGates are the gates that run under --quick.
var QuickModeGates = []GateID{GateSyntax, GateReferencePinning}

// External analyzer names. BuiltInToolName is recorded as ToolUsed when a
// gate ran without its external analyzer.
const (
	ActionlintToolName ToolName = "actionlint"
	ZizmorToolName     ToolName = "zizmor"
	BuiltInToolName    ToolName = "built-in"
)

// Rule identifiers for the built-in detectors, grouped by gate. External
// analyzers contribute additional namespaced ids ("actionlint/<kind>",
// "zizmor/<ident>") that are not enumerated here.
const (
	// syntax gate
	RuleMissingRequiredKey        RuleID = "missing-required-key"
	RuleInvalidTriggerShape       RuleID = "invalid-trigger-shape"
	RuleInvalidDocumentShape      RuleID = "invalid-document-shape"
	RuleConflictingStepDefinition RuleID = "conflicting-step-definition"
	RuleMissingStepAction         RuleID = "missing-step-action"
	RuleMissingRunner             RuleID = "missing-runner"
	RuleDuplicateKey              RuleID = "duplicate-key"
	RuleYAMLParseError            RuleID = "yaml-parse-error"
	RuleUnreadableFile            RuleID = "unreadable-file"
	RuleUnknownSuppressionTarget  RuleID = "unknown-suppression-target"

	// reference-pinning gate
	RuleUnpinnedReference RuleID = "unpinned-reference"
	RuleUntaggedReference RuleID = "untagged-reference"

	// permissions gate
	RuleMissingPermissionsBlock            RuleID = "missing-permissions-block"
	RuleWildcardPermissions                RuleID = "wildcard-permissions"
	RuleBroadReadPermissions               RuleID = "broad-read-permissions"
	RuleUnknownPermissionScope             RuleID = "unknown-permission-scope"
	RuleInvalidPermissionLevel             RuleID = "invalid-permission-level"
	RuleWritePermissionsOnUntrustedTrigger RuleID = "write-permissions-on-untrusted-trigger"

	// secret-hygiene gate
	RuleSecretInRun      RuleID = "secret-in-run"
	RuleSecretInArtifact RuleID = "secret-in-artifact"

	// antipattern gate
	RuleErrorSuppression      RuleID = "error-suppression"
	RuleMissingTimeout        RuleID = "missing-timeout"
	RuleMissingConcurrency    RuleID = "missing-concurrency"
	RuleUntrustedCodeCheckout RuleID = "untrusted-code-checkout"

	// engine-level notes
	RuleExternalToolTimeout      RuleID = "external-tool-timeout"
	RuleSuppressionMissingReason RuleID = "suppression-missing-reason"
)

// KnownRuleIDs lists every built-in rule id in gate order. Suppression
// targets are validated against this set plus the gate ids.
var KnownRuleIDs = []RuleID{
	RuleMissingRequiredKey,
	RuleInvalidTriggerShape,
	RuleInvalidDocumentShape,
	RuleConflictingStepDefinition,
	RuleMissingStepAction,
	RuleMissingRunner,
	RuleDuplicateKey,
	RuleYAMLParseError,
	RuleUnreadableFile,
	RuleUnknownSuppressionTarget,
	RuleUnpinnedReference,
	RuleUntaggedReference,
	RuleMissingPermissionsBlock,
	RuleWildcardPermissions,
	RuleBroadReadPermissions,
	RuleUnknownPermissionScope,
	RuleInvalidPermissionLevel,
	RuleWritePermissionsOnUntrustedTrigger,
	RuleSecretInRun,
	RuleSecretInArtifact,
	RuleErrorSuppression,
	RuleMissingTimeout,
	RuleMissingConcurrency,
	RuleUntrustedCodeCheckout,
	RuleExternalToolTimeout,
	RuleSuppressionMissingReason,
}

// SuppressionMarker is the comment token that introduces an inline
// suppression annotation, e.g. "# wfgate: ignore secret-in-run".
const SuppressionMarker = "wfgate"

// DefaultConventionsFile is the project conventions file looked up relative
// to the repository root when --conventions is not given.
const DefaultConventionsFile = ".wfgate.yml"

// WorkflowFileExtensions are the accepted workflow file extensions.
var WorkflowFileExtensions = []string{".yml", ".yaml"}

// GetWorkflowDir returns the default workflow directory path.
func GetWorkflowDir() string {
	return filepath.Join(".github", "workflows")
}

// Environment variable names.
const (
	EnvDebug       = "DEBUG"
	EnvAccessible  = "ACCESSIBLE"
	EnvToolTimeout = "WFGATE_TOOL_TIMEOUT"
	EnvNoColor     = "NO_COLOR"
)

// Timeouts and scheduling defaults.
const (
	// DefaultToolTimeout bounds one external analyzer invocation for one
	// document. On expiry the gate falls back to built-in detectors.
	DefaultToolTimeout = 10 * time.Second

	// DefaultProbeTimeout bounds the availability probe (--version run).
	DefaultProbeTimeout = 3 * time.Second

	// DefaultWatchDebounce coalesces filesystem event bursts in watch mode.
	DefaultWatchDebounce = 300 * time.Millisecond
)

// TrustedNamespaces are reference namespaces allowed to use mutable version
// tags instead of content-hash pins. The conventions file augments this set.
var TrustedNamespaces = []string{"actions", "github"}

// KnownEventNames are the workflow trigger events the syntax gate accepts.
var KnownEventNames = []EventName{
	"branch_protection_rule",
	"check_run",
	"check_suite",
	"create",
	"delete",
	"deployment",
	"deployment_status",
	"discussion",
	"discussion_comment",
	"fork",
	"gollum",
	"issue_comment",
	"issues",
	"label",
	"merge_group",
	"milestone",
	"page_build",
	"public",
	"pull_request",
	"pull_request_review",
	"pull_request_review_comment",
	"pull_request_target",
	"push",
	"registry_package",
	"release",
	"repository_dispatch",
	"schedule",
	"status",
	"watch",
	"workflow_call",
	"workflow_dispatch",
	"workflow_run",
}

// ExternalEvents are triggers that actors outside the repository can fire.
// Documents using them are expected to declare concurrency control.
var ExternalEvents = []EventName{
	"issue_comment",
	"issues",
	"pull_request",
	"pull_request_target",
}

// EscalatedTrustEvents run with write-capable tokens against contributions
// from outside the repository.
var EscalatedTrustEvents = []EventName{"pull_request_target"}

// PermissionScopes is the fixed set of valid permission scope names.
var PermissionScopes = []ScopeName{
	"actions",
	"attestations",
	"checks",
	"contents",
	"deployments",
	"discussions",
	"id-token",
	"issues",
	"models",
	"packages",
	"pages",
	"pull-requests",
	"security-events",
	"statuses",
}

// PermissionLevels are the valid values for a permission scope.
var PermissionLevels = []string{"read", "write", "none"}

// IsKnownEventName reports whether name is a recognized trigger event.
func IsKnownEventName(name string) bool {
	for _, event := range KnownEventNames {
		if string(event) == name {
			return true
		}
	}
	return false
}

// IsExternalEvent reports whether name is a trigger actors outside the
// repository can fire.
func IsExternalEvent(name string) bool {
	for _, event := range ExternalEvents {
		if string(event) == name {
			return true
		}
	}
	return false
}

// IsKnownPermissionScope reports whether name is a valid permission scope.
func IsKnownPermissionScope(name string) bool {
	for _, scope := range PermissionScopes {
		if string(scope) == name {
			return true
		}
	}
	return false
}

// IsKnownRuleID reports whether id names a built-in rule.
func IsKnownRuleID(id string) bool {
	for _, rule := range KnownRuleIDs {
		if string(rule) == id {
			return true
		}
	}
	return false
}

// EventNameStrings returns the known event names as plain strings.
func EventNameStrings() []string {
	names := make([]string, len(KnownEventNames))
	for i, event := range KnownEventNames {
		names[i] = string(event)
	}
	return names
}

// PermissionScopeStrings returns the permission scopes as plain strings.
func PermissionScopeStrings() []string {
	names := make([]string, len(PermissionScopes))
	for i, scope := range PermissionScopes {
		names[i] = string(scope)
	}
	return names
}

// RuleIDStrings returns the built-in rule ids as plain strings.
func RuleIDStrings() []string {
	names := make([]string, len(KnownRuleIDs))
	for i, rule := range KnownRuleIDs {
		names[i] = string(rule)
	}
	return names
}
