package parser

import (
	"regexp"
	"strings"

	"github.com/wfgate/gh-wfgate/pkg/constants"
	"github.com/wfgate/gh-wfgate/pkg/logger"
	"github.com/wfgate/gh-wfgate/pkg/stringutil"
)

var suppressLog = logger.New("parser:suppress")

// Suppression is one parsed "# wfgate: ignore <name>" annotation. Name is
// normalized to kebab-case; an empty Name marks a malformed annotation the
// syntax gate reports. Line is the annotation's own line; LineStart and
// LineEnd bound the lines the annotation covers.
type Suppression struct {
	Name      string
	Reason    string
	Line      int
	LineStart int
	LineEnd   int
}

// HasReason reports whether the annotation carried a "-- <reason>" suffix.
func (s *Suppression) HasReason() bool { return s.Reason != "" }

// Covers reports whether the annotation covers the given 1-based line.
func (s *Suppression) Covers(line int) bool {
	return line >= s.LineStart && line <= s.LineEnd
}

// SuppressionIndex holds every annotation of one document in source order.
// The index is immutable after scanning; consumption tracking lives in the
// aggregator.
type SuppressionIndex struct {
	suppressions []*Suppression
}

// All returns the annotations in source order. Callers must not mutate the
// returned slice.
func (idx *SuppressionIndex) All() []*Suppression {
	if idx == nil {
		return nil
	}
	return idx.suppressions
}

// Match returns the annotation that suppresses a finding at line with the
// given rule and gate ids, or nil. A rule-specific annotation beats a
// gate-level one. Findings with line 0 are document-scoped and match an
// annotation with the right name anywhere in the document.
func (idx *SuppressionIndex) Match(line int, ruleID, gateID string) *Suppression {
	if idx == nil {
		return nil
	}
	var gateMatch *Suppression
	for _, s := range idx.suppressions {
		if line != 0 && !s.Covers(line) {
			continue
		}
		if s.Name == ruleID {
			return s
		}
		if s.Name == gateID && gateMatch == nil {
			gateMatch = s
		}
	}
	return gateMatch
}

// ignorePattern matches the annotation body after the comment marker:
// "wfgate: ignore <name>" with an optional " -- <reason>" suffix.
var ignorePattern = regexp.MustCompile(`^` + constants.SuppressionMarker + `:\s*ignore(?:\s+([^-\s][^\s]*))?(?:\s+--\s*(.*?))?\s*$`)

// ScanSuppressions extracts every suppression annotation from raw text.
// A same-line annotation (code before the comment) covers its own line; a
// whole-line annotation covers the next non-blank, non-comment line plus
// its contiguous more-indented block.
func ScanSuppressions(raw []byte) *SuppressionIndex {
	idx := &SuppressionIndex{}
	lines := strings.Split(string(raw), "\n")

	for i, line := range lines {
		hash := commentStart(line)
		if hash < 0 {
			continue
		}
		comment := strings.TrimSpace(line[hash+1:])
		if !strings.HasPrefix(comment, constants.SuppressionMarker+":") {
			continue
		}
		m := ignorePattern.FindStringSubmatch(comment)
		if m == nil {
			continue
		}

		s := &Suppression{
			Name:   stringutil.NormalizeRuleIdentifier(m[1]),
			Reason: strings.TrimSpace(m[2]),
			Line:   i + 1,
		}
		if strings.TrimSpace(line[:hash]) != "" {
			s.LineStart, s.LineEnd = s.Line, s.Line
		} else {
			s.LineStart, s.LineEnd = wholeLineCoverage(lines, i)
			if s.LineStart == 0 {
				// Annotation at end of file with nothing to cover.
				s.LineStart, s.LineEnd = s.Line, s.Line
			}
		}
		suppressLog.Printf("Suppression %q lines %d-%d (reason=%q)", s.Name, s.LineStart, s.LineEnd, s.Reason)
		idx.suppressions = append(idx.suppressions, s)
	}
	return idx
}

// commentStart returns the byte index of the '#' opening a comment, or -1.
// A '#' only opens a comment at line start or after whitespace, outside
// single and double quotes. Quote tracking is a raw-text approximation.
func commentStart(line string) int {
	inSingle, inDouble := false, false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		case '#':
			if inSingle || inDouble {
				continue
			}
			if i == 0 || line[i-1] == ' ' || line[i-1] == '\t' {
				return i
			}
		}
	}
	return -1
}

// wholeLineCoverage computes the covered range for a whole-line annotation
// at lines[markerIdx]: the next non-blank, non-comment line (the anchor)
// plus every following line that is blank or indented deeper than the
// anchor. Trailing blank lines are not covered.
func wholeLineCoverage(lines []string, markerIdx int) (int, int) {
	anchor := -1
	for j := markerIdx + 1; j < len(lines); j++ {
		trimmed := strings.TrimSpace(lines[j])
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		anchor = j
		break
	}
	if anchor < 0 {
		return 0, 0
	}

	indent := indentWidth(lines[anchor])
	end := anchor
	for k := anchor + 1; k < len(lines); k++ {
		trimmed := strings.TrimSpace(lines[k])
		if trimmed == "" {
			continue
		}
		if indentWidth(lines[k]) <= indent {
			break
		}
		end = k
	}
	return anchor + 1, end + 1
}

func indentWidth(line string) int {
	width := 0
	for _, r := range line {
		if r != ' ' && r != '\t' {
			break
		}
		width++
	}
	return width
}
