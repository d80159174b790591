package stringutil

import (
	"sort"
	"strings"
)

// maxSuggestionDistance is the largest edit distance still considered
// close enough to suggest.
const maxSuggestionDistance = 4

// FindClosestMatches returns up to max candidates ordered by edit
// distance from input, closest first. Candidates further than a few
// edits away are dropped entirely, so a wild typo yields no suggestions
// rather than misleading ones. Matching is case-insensitive.
func FindClosestMatches(input string, candidates []string, max int) []string {
	if input == "" || max <= 0 {
		return nil
	}
	lowered := strings.ToLower(input)

	type scored struct {
		value    string
		distance int
	}
	matches := make([]scored, 0, len(candidates))
	for _, candidate := range candidates {
		d := levenshteinDistance(lowered, strings.ToLower(candidate))
		if d <= maxSuggestionDistance {
			matches = append(matches, scored{value: candidate, distance: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].value < matches[j].value
	})

	if len(matches) > max {
		matches = matches[:max]
	}
	result := make([]string, len(matches))
	for i, m := range matches {
		result[i] = m.value
	}
	return result
}

// levenshteinDistance computes the edit distance between two strings
// using a two-row dynamic programming table.
func levenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
