//go:build !integration

package parser

import (
	"strings"
	"testing"

	"github.com/wfgate/gh-wfgate/pkg/stringutil"
)

func TestScanSuppressionsSameLine(t *testing.T) {
	raw := []byte(`jobs:
  build:
    runs-on: ubuntu-latest
    continue-on-error: true  # wfgate: ignore error-suppression -- flaky suite
`)

	idx := ScanSuppressions(raw)
	all := idx.All()
	if len(all) != 1 {
		t.Fatalf("suppressions = %d, want 1", len(all))
	}

	s := all[0]
	if s.Name != "error-suppression" {
		t.Errorf("name = %q, want error-suppression", s.Name)
	}
	if s.Reason != "flaky suite" || !s.HasReason() {
		t.Errorf("reason = %q, want flaky suite", s.Reason)
	}
	if s.Line != 4 || s.LineStart != 4 || s.LineEnd != 4 {
		t.Errorf("coverage = line %d range %d-%d, want 4 4-4", s.Line, s.LineStart, s.LineEnd)
	}
	if s.Covers(3) || !s.Covers(4) || s.Covers(5) {
		t.Error("same-line annotation must cover exactly its own line")
	}
}

func TestScanSuppressionsWholeLine(t *testing.T) {
	raw := []byte(`jobs:
  build:
    # wfgate: ignore missing-timeout -- long builds expected
    runs-on: ubuntu-latest
    steps:
      - run: make
`)

	idx := ScanSuppressions(raw)
	all := idx.All()
	if len(all) != 1 {
		t.Fatalf("suppressions = %d, want 1", len(all))
	}

	s := all[0]
	if s.Line != 3 {
		t.Errorf("annotation line = %d, want 3", s.Line)
	}
	// Covers the next non-blank line only; steps sits at the same indent.
	if s.LineStart != 4 || s.LineEnd != 4 {
		t.Errorf("coverage = %d-%d, want 4-4", s.LineStart, s.LineEnd)
	}
}

func TestScanSuppressionsCoversIndentedBlock(t *testing.T) {
	raw := []byte(`jobs:
  build:
    runs-on: ubuntu-latest
    # wfgate: ignore secret-hygiene
    steps:
      - run: echo one
      - run: echo two
`)

	idx := ScanSuppressions(raw)
	all := idx.All()
	if len(all) != 1 {
		t.Fatalf("suppressions = %d, want 1", len(all))
	}

	s := all[0]
	if s.LineStart != 5 || s.LineEnd != 7 {
		t.Errorf("coverage = %d-%d, want 5-7 (anchor plus its block)", s.LineStart, s.LineEnd)
	}
	if s.HasReason() {
		t.Errorf("unexpected reason %q", s.Reason)
	}
}

func TestScanSuppressionsBlankAndCommentLinesBeforeAnchor(t *testing.T) {
	raw := []byte(`# wfgate: ignore unpinned-reference -- registry mirror
# unrelated comment

jobs:
  build:
    runs-on: ubuntu-latest
`)

	idx := ScanSuppressions(raw)
	all := idx.All()
	if len(all) != 1 {
		t.Fatalf("suppressions = %d, want 1", len(all))
	}

	s := all[0]
	if s.LineStart != 4 || s.LineEnd != 6 {
		t.Errorf("coverage = %d-%d, want 4-6", s.LineStart, s.LineEnd)
	}
}

func TestScanSuppressionsTableCases(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantCount  int
		wantName   string
		wantReason string
	}{
		{
			name:      "no annotations",
			raw:       "jobs:\n  build:\n    runs-on: ubuntu-latest\n",
			wantCount: 0,
		},
		{
			name:      "unrelated comment",
			raw:       "# just a note\njobs: {}\n",
			wantCount: 0,
		},
		{
			name:      "wfgate comment without ignore verb",
			raw:       "# wfgate: disable everything\njobs: {}\n",
			wantCount: 0,
		},
		{
			name:      "missing name is recorded as malformed",
			raw:       "# wfgate: ignore\njobs: {}\n",
			wantCount: 1,
			wantName:  "",
		},
		{
			name:      "name is normalized to kebab-case",
			raw:       "# wfgate: ignore Secret_Hygiene\njobs: {}\n",
			wantCount: 1,
			wantName:  "secret-hygiene",
		},
		{
			name:      "no space after colon",
			raw:       "# wfgate:ignore missing-timeout\njobs: {}\n",
			wantCount: 1,
			wantName:  "missing-timeout",
		},
		{
			name:       "reason with trailing spaces",
			raw:        "# wfgate: ignore missing-timeout -- nightly batch   \njobs: {}\n",
			wantCount:  1,
			wantName:   "missing-timeout",
			wantReason: "nightly batch",
		},
		{
			name:      "hash inside double quotes is not a comment",
			raw:       "jobs:\n  build:\n    steps:\n      - run: echo \"# wfgate: ignore secret-in-run\"\n",
			wantCount: 0,
		},
		{
			name:      "hash inside single quotes is not a comment",
			raw:       "jobs:\n  build:\n    steps:\n      - run: echo '# wfgate: ignore secret-in-run'\n",
			wantCount: 0,
		},
		{
			name:      "hash without preceding space is not a comment",
			raw:       "jobs:\n  build:\n    steps:\n      - run: ./tag#wfgate: ignore secret-in-run\n",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := ScanSuppressions([]byte(tt.raw))
			all := idx.All()
			if len(all) != tt.wantCount {
				t.Fatalf("suppressions = %d, want %d", len(all), tt.wantCount)
			}
			if tt.wantCount == 0 {
				return
			}
			if all[0].Name != tt.wantName {
				t.Errorf("name = %q, want %q", all[0].Name, tt.wantName)
			}
			if tt.wantReason != "" && all[0].Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", all[0].Reason, tt.wantReason)
			}
		})
	}
}

func TestScanSuppressionsMarkerAtEndOfFile(t *testing.T) {
	raw := []byte("jobs: {}\n# wfgate: ignore missing-timeout\n")

	idx := ScanSuppressions(raw)
	all := idx.All()
	if len(all) != 1 {
		t.Fatalf("suppressions = %d, want 1", len(all))
	}
	s := all[0]
	if s.LineStart != 2 || s.LineEnd != 2 {
		t.Errorf("coverage = %d-%d, want the marker's own line", s.LineStart, s.LineEnd)
	}
}

func TestSuppressionIndexMatch(t *testing.T) {
	raw := []byte(`# wfgate: ignore secret-hygiene
# wfgate: ignore secret-in-run -- alerting pipeline only
steps:
  - run: echo one
`)

	idx := ScanSuppressions(raw)
	if len(idx.All()) != 2 {
		t.Fatalf("suppressions = %d, want 2", len(idx.All()))
	}

	t.Run("rule-specific beats gate-level", func(t *testing.T) {
		m := idx.Match(4, "secret-in-run", "secret-hygiene")
		if m == nil || m.Name != "secret-in-run" {
			t.Fatalf("match = %+v, want the secret-in-run annotation", m)
		}
		if !m.HasReason() {
			t.Error("rule-specific annotation lost its reason")
		}
	})

	t.Run("gate-level matches other rules of the gate", func(t *testing.T) {
		m := idx.Match(4, "secret-in-artifact", "secret-hygiene")
		if m == nil || m.Name != "secret-hygiene" {
			t.Fatalf("match = %+v, want the gate-level annotation", m)
		}
	})

	t.Run("uncovered line does not match", func(t *testing.T) {
		if m := idx.Match(1, "secret-in-run", "secret-hygiene"); m != nil {
			t.Fatalf("match = %+v, want nil", m)
		}
	})

	t.Run("unrelated rule does not match", func(t *testing.T) {
		if m := idx.Match(4, "missing-timeout", "antipattern"); m != nil {
			t.Fatalf("match = %+v, want nil", m)
		}
	})

	t.Run("document-scoped findings match anywhere", func(t *testing.T) {
		m := idx.Match(0, "secret-in-run", "secret-hygiene")
		if m == nil || m.Name != "secret-in-run" {
			t.Fatalf("match = %+v, want the secret-in-run annotation", m)
		}
	})

	t.Run("nil index matches nothing", func(t *testing.T) {
		var nilIdx *SuppressionIndex
		if m := nilIdx.Match(1, "secret-in-run", "secret-hygiene"); m != nil {
			t.Fatalf("match = %+v, want nil", m)
		}
		if all := nilIdx.All(); all != nil {
			t.Fatalf("All() = %v, want nil", all)
		}
	})
}

// FuzzScanSuppressions feeds arbitrary documents through the annotation
// scanner and checks the structural guarantees downstream code relies on:
// the scanner never panics, every annotation points at a real line, every
// coverage range is ordered and inside the document, names stay in
// normalized form, and annotations come out in source order.
func FuzzScanSuppressions(f *testing.F) {
	f.Add("jobs:\n  build:\n    # wfgate: ignore missing-timeout -- slow\n    runs-on: ubuntu-latest\n")
	f.Add("on: push\njobs: {}  # wfgate: ignore syntax\n")
	f.Add("# wfgate: ignore\n# wfgate: ignore secret-hygiene\nsteps:\n  - run: make\n")
	f.Add("a: '# wfgate: ignore x'\nb: \"# wfgate: ignore y\"\n")
	f.Add("# wfgate: ignore untrusted-code-checkout -- reviewed\n")
	f.Add("\n\n\n")
	f.Add("")

	f.Fuzz(func(t *testing.T, raw string) {
		idx := ScanSuppressions([]byte(raw))
		lines := strings.Split(raw, "\n")

		prevLine := 0
		for _, s := range idx.All() {
			if s.Line < 1 || s.Line > len(lines) {
				t.Fatalf("annotation line %d outside document of %d lines", s.Line, len(lines))
			}
			if s.LineStart < 1 || s.LineEnd < s.LineStart || s.LineEnd > len(lines) {
				t.Fatalf("coverage %d-%d invalid for document of %d lines", s.LineStart, s.LineEnd, len(lines))
			}
			if s.Line < prevLine {
				t.Fatalf("annotations out of source order: %d after %d", s.Line, prevLine)
			}
			prevLine = s.Line

			if !strings.Contains(lines[s.Line-1], "wfgate:") {
				t.Fatalf("annotation line %d does not contain a marker: %q", s.Line, lines[s.Line-1])
			}
			if s.Name != stringutil.NormalizeRuleIdentifier(s.Name) {
				t.Fatalf("annotation name %q is not in normalized form", s.Name)
			}
		}

		// Matching must be safe for any rule and gate id.
		idx.Match(0, "secret-in-run", "secret-hygiene")
		idx.Match(1, "", "")
	})
}
