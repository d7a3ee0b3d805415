package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match

	// SessionID limits results to calls made for one interview.
	SessionID string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	Cached       bool
	RequestBody  string
	ResponseBody string

	// SessionID is the interview the call was made for, if any.
	SessionID string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// InterviewResult is the persisted outcome of one finished interview.
type InterviewResult struct {
	ID            int
	Sequence      int64
	Timestamp     time.Time
	Email         string
	SessionID     string
	TotalScore    int
	MaxScore      int
	Percentage    float64
	QuestionCount int
}

// ResultRepo stores and lists finished interview results.
type ResultRepo interface {
	SaveResult(ctx context.Context, r *InterviewResult) error
	ResultsByEmail(ctx context.Context, email string, limit int) ([]InterviewResult, error)
}
