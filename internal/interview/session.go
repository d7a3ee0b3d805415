// Package interview runs interview sessions: it asks questions, records
// scored answers and produces the final report.
package interview

import (
	"strings"
	"time"

	"github.com/vintervu/vintervu/internal/results"
)

// MaxQuestions caps the number of questions asked in one session.
const MaxQuestions = 35

// UnknownQuestion is recorded when an answer arrives without its question.
const UnknownQuestion = "Unknown"

// Session is the state of one interview.
type Session struct {
	ID     string
	Skills []string
	Branch string

	// Questions only grows. CurrentIndex points at the next unanswered one.
	Questions    []string
	Responses    []string
	Scores       []int
	Records      []results.Record
	CurrentIndex int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// clone returns a deep copy safe to hand out of the store.
func (s *Session) clone() Session {
	c := *s
	c.Skills = append([]string(nil), s.Skills...)
	c.Questions = append([]string(nil), s.Questions...)
	c.Responses = append([]string(nil), s.Responses...)
	c.Scores = append([]int(nil), s.Scores...)
	c.Records = append([]results.Record(nil), s.Records...)
	return c
}

// Outstanding reports whether the question at CurrentIndex exists and
// still awaits an answer.
func (s *Session) Outstanding() bool {
	return s.CurrentIndex < len(s.Questions)
}

// Done reports whether the session reached MaxQuestions answers.
func (s *Session) Done() bool {
	return s.CurrentIndex >= MaxQuestions
}

// NormalizeSkills trims skills, drops blanks and removes case-insensitive
// duplicates. The first spelling and the original order are kept.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
