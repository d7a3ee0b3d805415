// Package results aggregates scored interview answers into a report.
package results

// PendingAnalysis fills Feedback and Suggestion until feedback is generated.
const PendingAnalysis = "Pending detailed analysis"

// PointsPerQuestion is the maximum score of a single answer.
const PointsPerQuestion = 10

// Record is one answered question.
type Record struct {
	Question   string `json:"question"`
	Response   string `json:"response"`
	Score      int    `json:"score"`
	Feedback   string `json:"feedback"`
	Suggestion string `json:"suggestion"`
}

// NewRecord returns a record whose feedback is still pending.
func NewRecord(question, response string, score int) Record {
	return Record{
		Question:   question,
		Response:   response,
		Score:      score,
		Feedback:   PendingAnalysis,
		Suggestion: PendingAnalysis,
	}
}

// Summary is the final interview report.
type Summary struct {
	TotalScore int      `json:"totalScore"`
	MaxScore   int      `json:"maxScore"`
	Percentage float64  `json:"percentage"`
	Feedback   []Record `json:"feedback"`
}

// Summarize totals the records. Percentage is not rounded and is 0 when
// there are no records. The records are copied into the summary.
func Summarize(records []Record) Summary {
	s := Summary{
		MaxScore: len(records) * PointsPerQuestion,
		Feedback: make([]Record, len(records)),
	}
	copy(s.Feedback, records)
	for _, r := range records {
		s.TotalScore += r.Score
	}
	if s.MaxScore > 0 {
		s.Percentage = float64(s.TotalScore) / float64(s.MaxScore) * 100
	}
	return s
}
