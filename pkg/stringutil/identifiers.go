package stringutil

import (
	"path/filepath"
	"strings"

	"github.com/wfgate/gh-wfgate/pkg/constants"
)

// NormalizeRuleIdentifier lowercases an identifier and converts
// underscores and spaces to hyphens, matching the kebab-case form rule
// and gate names use. Suppression targets written as "Secret_In_Run"
// or "secret in run" normalize to "secret-in-run".
func NormalizeRuleIdentifier(identifier string) string {
	normalized := strings.ToLower(identifier)
	normalized = strings.ReplaceAll(normalized, "_", "-")
	return strings.ReplaceAll(normalized, " ", "-")
}

// IsWorkflowFile reports whether path names a workflow document (a
// .yml or .yaml file). The conventions file is excluded even though it
// carries a .yml extension.
func IsWorkflowFile(path string) bool {
	if IsConventionsFile(path) {
		return false
	}
	ext := filepath.Ext(path)
	for _, known := range constants.WorkflowFileExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// IsConventionsFile reports whether path names the repository
// conventions file.
func IsConventionsFile(path string) bool {
	return filepath.Base(path) == constants.DefaultConventionsFile
}
