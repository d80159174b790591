// This file loads and validates the repository conventions file.
//
// # Conventions File
//
// Repositories tune the gates with a .wfgate.yml file at the repository
// root:
//
//	trusted_namespaces:
//	  - myorg
//	required_keys:
//	  - permissions
//	pinned_refs:
//	  myorg/deploy-action@v2: 8f4b7f84864484a7bf31766abe9204da3cbe65b3
//
// Conventions always augment the built-in defaults, never replace them:
// actions/ and github/ stay trusted, and on/jobs stay required, no matter
// what the file says.
//
// # Strict Decoding
//
// The file is decoded strictly. Unknown keys and duplicate keys are
// errors, so typos like trusted_namespace surface immediately instead of
// being silently ignored.

package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/wfgate/gh-wfgate/pkg/constants"
	"github.com/wfgate/gh-wfgate/pkg/fileutil"
	"github.com/wfgate/gh-wfgate/pkg/logger"
)

var conventionsLog = logger.New("workflow:conventions")

// defaultRequiredKeys are the top-level keys every workflow document
// must declare regardless of conventions.
var defaultRequiredKeys = []string{"on", "jobs"}

// Conventions holds the per-repository tuning knobs for the gates
type Conventions struct {
	// TrustedNamespaces lists extra action owners whose version tags are
	// accepted by the reference pinning gate
	TrustedNamespaces []string `yaml:"trusted_namespaces"`
	// RequiredKeys lists extra top-level keys the syntax gate requires
	RequiredKeys []string `yaml:"required_keys"`
	// PinnedRefs maps "owner/repo@tag" to the content hash remediation
	// should suggest for that ref
	PinnedRefs map[string]string `yaml:"pinned_refs"`
}

// LoadConventions reads and validates a conventions file.
// An empty path returns nil conventions, meaning built-in defaults only.
func LoadConventions(path string) (*Conventions, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read conventions file %s: %w", path, err)
	}

	var conv Conventions
	if err := yaml.UnmarshalWithOptions(raw, &conv, yaml.Strict()); err != nil {
		return nil, NewValidationError("conventions file", path,
			fmt.Sprintf("cannot parse %s: %v", filepath.Base(path), err),
			"Expected format: a YAML mapping with trusted_namespaces, required_keys, and pinned_refs keys. Example: 'trusted_namespaces:\\n  - myorg'")
	}

	if err := conv.validate(); err != nil {
		return nil, err
	}

	conventionsLog.Printf("Loaded conventions from %s: %d namespaces, %d required keys, %d pinned refs",
		path, len(conv.TrustedNamespaces), len(conv.RequiredKeys), len(conv.PinnedRefs))
	return &conv, nil
}

// FindConventionsFile walks up from dir looking for the conventions
// file, returning its path or "" when no ancestor carries one. The
// workflow directory usually sits two levels below the repository root,
// so the walk starts where validation starts.
func FindConventionsFile(dir string) string {
	current, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(current, constants.DefaultConventionsFile)
		if fileutil.FileExists(candidate) {
			conventionsLog.Printf("Found conventions file at %s", candidate)
			return candidate
		}
		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}

// validate checks every entry and reports all problems at once
func (c *Conventions) validate() error {
	collector := NewErrorCollector(false)

	for _, ns := range c.TrustedNamespaces {
		if ns == "" {
			_ = collector.Add(NewValidationError("trusted_namespaces", ns,
				"namespace must not be empty",
				"Expected format: a GitHub owner or organization name. Example: 'myorg'"))
			continue
		}
		if strings.ContainsAny(ns, "/@ ") {
			_ = collector.Add(NewValidationError("trusted_namespaces", ns,
				"namespace must be a bare owner name",
				"Expected format: a GitHub owner or organization name without slashes or refs. Example: 'myorg'"))
		}
	}

	for _, key := range c.RequiredKeys {
		if key == "" || strings.ContainsAny(key, ": ") {
			_ = collector.Add(NewValidationError("required_keys", key,
				"key must be a bare top-level YAML key",
				"Expected format: a key name without colons or spaces. Example: 'permissions'"))
		}
	}

	for ref, digest := range c.PinnedRefs {
		base, _, ok := strings.Cut(ref, "@")
		if !ok || base == "" || !strings.Contains(base, "/") {
			_ = collector.Add(NewValidationError("pinned_refs", ref,
				"ref must name an action with an owner and a version",
				"Expected format: owner/repo@tag. Example: 'myorg/deploy-action@v2'"))
			continue
		}
		if !commitHashPattern.MatchString(digest) {
			_ = collector.Add(NewValidationError("pinned_refs", digest,
				fmt.Sprintf("pinned digest for %s must be a full commit hash", ref),
				"Expected format: a 40 or 64 character lowercase hex digest. Example: '8f4b7f84864484a7bf31766abe9204da3cbe65b3'"))
		}
	}

	return collector.FormattedError("conventions")
}

// trustedNamespaces returns the built-in trusted namespaces plus any
// from the conventions, deduplicated. Safe on a nil receiver.
func (c *Conventions) trustedNamespaces() []string {
	merged := make([]string, 0, len(constants.TrustedNamespaces))
	seen := make(map[string]bool)
	add := func(ns string) {
		if ns != "" && !seen[ns] {
			seen[ns] = true
			merged = append(merged, ns)
		}
	}
	for _, ns := range constants.TrustedNamespaces {
		add(ns)
	}
	if c != nil {
		for _, ns := range c.TrustedNamespaces {
			add(ns)
		}
	}
	return merged
}

// requiredKeys returns the built-in required keys plus any from the
// conventions, deduplicated. Safe on a nil receiver.
func (c *Conventions) requiredKeys() []string {
	merged := make([]string, 0, len(defaultRequiredKeys))
	seen := make(map[string]bool)
	add := func(key string) {
		if key != "" && !seen[key] {
			seen[key] = true
			merged = append(merged, key)
		}
	}
	for _, key := range defaultRequiredKeys {
		add(key)
	}
	if c != nil {
		for _, key := range c.RequiredKeys {
			add(key)
		}
	}
	return merged
}

// pinnedDigest looks up the conventions digest for a ref written as
// "owner/repo@tag". Safe on a nil receiver.
func (c *Conventions) pinnedDigest(ref string) (string, bool) {
	if c == nil {
		return "", false
	}
	digest, ok := c.PinnedRefs[ref]
	return digest, ok
}
