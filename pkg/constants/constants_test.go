//go:build !integration

package constants

import (
	"path/filepath"
	"testing"
	"time"
)

func TestCommandPrefix(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		if got := CLIExtensionPrefix.String(); got != "gh wfgate" {
			t.Errorf("CLIExtensionPrefix.String() = %q, want %q", got, "gh wfgate")
		}
	})

	t.Run("IsValid", func(t *testing.T) {
		if !CLIExtensionPrefix.IsValid() {
			t.Error("CLIExtensionPrefix.IsValid() = false, want true")
		}
		var empty CommandPrefix
		if empty.IsValid() {
			t.Error("empty CommandPrefix.IsValid() = true, want false")
		}
	})
}

func TestGateID(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		tests := []struct {
			gate GateID
			want string
		}{
			{GateSyntax, "syntax"},
			{GateReferencePinning, "reference-pinning"},
			{GatePermissions, "permissions"},
			{GateSecretHygiene, "secret-hygiene"},
			{GateAntipattern, "antipattern"},
		}
		for _, tt := range tests {
			if got := tt.gate.String(); got != tt.want {
				t.Errorf("GateID.String() = %q, want %q", got, tt.want)
			}
		}
	})

	t.Run("IsValid", func(t *testing.T) {
		for _, id := range GateOrder {
			if !id.IsValid() {
				t.Errorf("GateID(%q).IsValid() = false, want true", id)
			}
		}
		if GateID("typo-gate").IsValid() {
			t.Error(`GateID("typo-gate").IsValid() = true, want false`)
		}
		var empty GateID
		if empty.IsValid() {
			t.Error("empty GateID.IsValid() = true, want false")
		}
	})
}

func TestGateOrder(t *testing.T) {
	t.Run("has five gates", func(t *testing.T) {
		if len(GateOrder) != 5 {
			t.Errorf("len(GateOrder) = %d, want 5", len(GateOrder))
		}
	})

	t.Run("syntax runs first", func(t *testing.T) {
		if GateOrder[0] != GateSyntax {
			t.Errorf("GateOrder[0] = %q, want %q", GateOrder[0], GateSyntax)
		}
	})

	t.Run("no duplicates", func(t *testing.T) {
		seen := make(map[GateID]bool)
		for _, id := range GateOrder {
			if seen[id] {
				t.Errorf("GateOrder contains %q twice", id)
			}
			seen[id] = true
		}
	})
}

func TestQuickModeGates(t *testing.T) {
	if len(QuickModeGates) != 2 {
		t.Fatalf("len(QuickModeGates) = %d, want 2", len(QuickModeGates))
	}
	if QuickModeGates[0] != GateSyntax || QuickModeGates[1] != GateReferencePinning {
		t.Errorf("QuickModeGates = %v, want [syntax reference-pinning]", QuickModeGates)
	}
}

func TestToolName(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		tests := []struct {
			tool ToolName
			want string
		}{
			{ActionlintToolName, "actionlint"},
			{ZizmorToolName, "zizmor"},
			{BuiltInToolName, "built-in"},
		}
		for _, tt := range tests {
			if got := tt.tool.String(); got != tt.want {
				t.Errorf("ToolName.String() = %q, want %q", got, tt.want)
			}
		}
	})

	t.Run("IsValid", func(t *testing.T) {
		if !ActionlintToolName.IsValid() {
			t.Error("ActionlintToolName.IsValid() = false, want true")
		}
		var empty ToolName
		if empty.IsValid() {
			t.Error("empty ToolName.IsValid() = true, want false")
		}
	})
}

func TestGetWorkflowDir(t *testing.T) {
	expected := filepath.Join(".github", "workflows")
	result := GetWorkflowDir()

	if result != expected {
		t.Errorf("GetWorkflowDir() = %q, want %q", result, expected)
	}
}

func TestWorkflowFileExtensions(t *testing.T) {
	if len(WorkflowFileExtensions) != 2 {
		t.Fatalf("len(WorkflowFileExtensions) = %d, want 2", len(WorkflowFileExtensions))
	}
	for _, ext := range WorkflowFileExtensions {
		if ext == "" || ext[0] != '.' {
			t.Errorf("extension %q does not start with a dot", ext)
		}
	}
}

func TestSuppressionMarker(t *testing.T) {
	if SuppressionMarker != "wfgate" {
		t.Errorf("SuppressionMarker = %q, want %q", SuppressionMarker, "wfgate")
	}
}

func TestDefaultConventionsFile(t *testing.T) {
	if DefaultConventionsFile != ".wfgate.yml" {
		t.Errorf("DefaultConventionsFile = %q, want %q", DefaultConventionsFile, ".wfgate.yml")
	}
}

func TestTimeouts(t *testing.T) {
	t.Run("tool timeout at least one second", func(t *testing.T) {
		if DefaultToolTimeout < time.Second {
			t.Errorf("DefaultToolTimeout = %v, want >= 1s", DefaultToolTimeout)
		}
	})

	t.Run("probe shorter than tool run", func(t *testing.T) {
		if DefaultProbeTimeout >= DefaultToolTimeout {
			t.Errorf("DefaultProbeTimeout = %v, want < DefaultToolTimeout (%v)", DefaultProbeTimeout, DefaultToolTimeout)
		}
	})

	t.Run("watch debounce positive", func(t *testing.T) {
		if DefaultWatchDebounce <= 0 {
			t.Errorf("DefaultWatchDebounce = %v, want > 0", DefaultWatchDebounce)
		}
	})
}

func TestTrustedNamespaces(t *testing.T) {
	want := map[string]bool{"actions": true, "github": true}
	if len(TrustedNamespaces) != len(want) {
		t.Fatalf("len(TrustedNamespaces) = %d, want %d", len(TrustedNamespaces), len(want))
	}
	for _, ns := range TrustedNamespaces {
		if !want[ns] {
			t.Errorf("unexpected trusted namespace %q", ns)
		}
	}
}

func TestKnownEventNames(t *testing.T) {
	t.Run("includes core triggers", func(t *testing.T) {
		core := []EventName{"push", "pull_request", "pull_request_target", "schedule", "workflow_dispatch"}
		known := make(map[EventName]bool, len(KnownEventNames))
		for _, e := range KnownEventNames {
			known[e] = true
		}
		for _, e := range core {
			if !known[e] {
				t.Errorf("KnownEventNames missing %q", e)
			}
		}
	})

	t.Run("sorted and unique", func(t *testing.T) {
		for i := 1; i < len(KnownEventNames); i++ {
			if KnownEventNames[i-1] >= KnownEventNames[i] {
				t.Errorf("KnownEventNames not strictly sorted at %d: %q >= %q", i, KnownEventNames[i-1], KnownEventNames[i])
			}
		}
	})
}

func TestExternalEvents(t *testing.T) {
	known := make(map[EventName]bool, len(KnownEventNames))
	for _, e := range KnownEventNames {
		known[e] = true
	}
	for _, e := range ExternalEvents {
		if !known[e] {
			t.Errorf("ExternalEvents contains %q which is not a known event", e)
		}
	}
	if len(ExternalEvents) != 4 {
		t.Errorf("len(ExternalEvents) = %d, want 4", len(ExternalEvents))
	}
}

func TestEscalatedTrustEvents(t *testing.T) {
	if len(EscalatedTrustEvents) != 1 || EscalatedTrustEvents[0] != "pull_request_target" {
		t.Errorf("EscalatedTrustEvents = %v, want [pull_request_target]", EscalatedTrustEvents)
	}
}

func TestPermissionScopes(t *testing.T) {
	t.Run("includes contents and id-token", func(t *testing.T) {
		scopes := make(map[ScopeName]bool, len(PermissionScopes))
		for _, s := range PermissionScopes {
			scopes[s] = true
		}
		for _, s := range []ScopeName{"contents", "id-token", "pull-requests", "security-events"} {
			if !scopes[s] {
				t.Errorf("PermissionScopes missing %q", s)
			}
		}
	})

	t.Run("sorted and unique", func(t *testing.T) {
		for i := 1; i < len(PermissionScopes); i++ {
			if PermissionScopes[i-1] >= PermissionScopes[i] {
				t.Errorf("PermissionScopes not strictly sorted at %d: %q >= %q", i, PermissionScopes[i-1], PermissionScopes[i])
			}
		}
	})
}

func TestPermissionLevels(t *testing.T) {
	want := []string{"read", "write", "none"}
	if len(PermissionLevels) != len(want) {
		t.Fatalf("len(PermissionLevels) = %d, want %d", len(PermissionLevels), len(want))
	}
	for i, lvl := range want {
		if PermissionLevels[i] != lvl {
			t.Errorf("PermissionLevels[%d] = %q, want %q", i, PermissionLevels[i], lvl)
		}
	}
}

func TestEnvironmentVariableNames(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"EnvDebug", EnvDebug},
		{"EnvAccessible", EnvAccessible},
		{"EnvToolTimeout", EnvToolTimeout},
		{"EnvNoColor", EnvNoColor},
	}
	for _, tt := range tests {
		if tt.value == "" {
			t.Errorf("%s is empty", tt.name)
		}
	}
	if EnvToolTimeout != "WFGATE_TOOL_TIMEOUT" {
		t.Errorf("EnvToolTimeout = %q, want %q", EnvToolTimeout, "WFGATE_TOOL_TIMEOUT")
	}
}

func TestKnownRuleIDs(t *testing.T) {
	t.Run("unique", func(t *testing.T) {
		seen := make(map[RuleID]bool)
		for _, id := range KnownRuleIDs {
			if seen[id] {
				t.Errorf("duplicate rule id %q", id)
			}
			seen[id] = true
		}
	})

	t.Run("kebab-case", func(t *testing.T) {
		for _, id := range KnownRuleIDs {
			for _, r := range id.String() {
				if (r < 'a' || r > 'z') && r != '-' {
					t.Errorf("rule id %q contains %q; rule ids are lowercase kebab-case", id, r)
					break
				}
			}
		}
	})

	t.Run("core rules present", func(t *testing.T) {
		want := []RuleID{
			"missing-permissions-block",
			"unpinned-reference",
			"secret-in-run",
			"duplicate-key",
			"yaml-parse-error",
			"external-tool-timeout",
			"suppression-missing-reason",
			"unknown-suppression-target",
		}
		seen := make(map[RuleID]bool)
		for _, id := range KnownRuleIDs {
			seen[id] = true
		}
		for _, id := range want {
			if !seen[id] {
				t.Errorf("KnownRuleIDs missing %q", id)
			}
		}
	})

	t.Run("no gate id collisions", func(t *testing.T) {
		for _, id := range KnownRuleIDs {
			for _, gate := range GateOrder {
				if id.String() == gate.String() {
					t.Errorf("rule id %q collides with gate id", id)
				}
			}
		}
	})
}
