// Package similarity detects near-duplicate interview questions using
// token overlap.
package similarity

import (
	"strings"
)

// Threshold is the overlap above which two questions count as duplicates.
const Threshold = 0.7

// Score returns the fraction of a's tokens (with multiplicity) that also
// occur in b. Tokens are lower-cased and split on whitespace. The measure is
// asymmetric: Score(a, b) and Score(b, a) may differ.
func Score(a, b string) float64 {
	ta := tokens(a)
	if len(ta) == 0 {
		return 0
	}
	inB := make(map[string]struct{})
	for _, w := range tokens(b) {
		inB[w] = struct{}{}
	}

	matched := 0
	for _, w := range ta {
		if _, ok := inB[w]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(ta))
}

// IsDuplicate reports whether candidate is too close to any asked question.
// Overlap is measured in both directions so that accepted questions stay
// pairwise below Threshold whichever one is taken as the reference.
func IsDuplicate(candidate string, asked []string) bool {
	for _, q := range asked {
		if Score(q, candidate) > Threshold || Score(candidate, q) > Threshold {
			return true
		}
	}
	return false
}

// Filter splits raw model output into candidate questions and keeps at most
// limit of them. Blank lines, leading list markers, duplicates of asked and
// duplicates of lines already kept are dropped. A non-positive limit keeps
// everything.
func Filter(raw string, asked []string, limit int) []string {
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		line = StripListMarker(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		if IsDuplicate(line, asked) || IsDuplicate(line, kept) {
			continue
		}
		kept = append(kept, line)
		if limit > 0 && len(kept) == limit {
			break
		}
	}
	return kept
}

// StripListMarker removes a leading "1.", "2)", "-", "*" or "•" marker.
func StripListMarker(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	switch {
	case strings.HasPrefix(s, "- "), strings.HasPrefix(s, "* "), strings.HasPrefix(s, "• "):
		return strings.TrimSpace(s[strings.IndexByte(s, ' ')+1:])
	}

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

func tokens(s string) []string {
	return strings.Fields(strings.ToLower(s))
}
