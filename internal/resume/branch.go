package resume

import "strings"

// Branch names returned by InferBranch.
const (
	BranchCSE     = "CSE"
	BranchECE     = "ECE"
	BranchEEE     = "EEE"
	BranchCivil   = "Civil"
	BranchUnknown = "Unknown"
)

// branchKeywords is checked in order; the first branch with a matching
// skill wins.
var branchKeywords = []struct {
	branch   string
	keywords []string
}{
	{BranchCSE, []string{"python", "java", "c++", "javascript", "sql", "machine learning", "aws"}},
	{BranchECE, []string{"matlab", "vlsi"}},
	{BranchEEE, []string{"plc", "scada"}},
	{BranchCivil, []string{"autocad", "staad"}},
}

// InferBranch guesses the engineering branch from exact, case-insensitive
// skill matches.
func InferBranch(skills []string) string {
	if len(skills) == 0 {
		return BranchUnknown
	}
	have := make(map[string]bool, len(skills))
	for _, s := range skills {
		have[strings.ToLower(strings.TrimSpace(s))] = true
	}
	for _, b := range branchKeywords {
		for _, k := range b.keywords {
			if have[k] {
				return b.branch
			}
		}
	}
	return BranchUnknown
}
