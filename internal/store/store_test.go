package store

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{llmEventsTable, resultsTable, "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestTablesFollowEntSchema(t *testing.T) {
	columnNames := func(idx int) string {
		var names []string
		for _, c := range tables[idx].Columns {
			names = append(names, c.Name)
		}
		return strings.Join(names, ",")
	}
	indexNames := func(idx int) string {
		var names []string
		for _, ix := range tables[idx].Indexes {
			names = append(names, ix.Name)
		}
		return strings.Join(names, ",")
	}

	wantEvents := "id,sequence,timestamp,provider,model,purpose,input_tokens,output_tokens,latency_ms," +
		"success,error_message,cached,request_body,response_body,session_id"
	if got := columnNames(0); got != wantEvents {
		t.Errorf("llm event columns = %s", got)
	}
	if got := indexNames(0); got != "llmrequestevent_timestamp,llmrequestevent_purpose,llmrequestevent_success,llmrequestevent_session_id" {
		t.Errorf("llm event indexes = %s", got)
	}

	if got := columnNames(1); got != "id,sequence,timestamp,email,session_id,total_score,max_score,percentage,question_count" {
		t.Errorf("result columns = %s", got)
	}
	if got := indexNames(1); got != "interviewresult_timestamp,interviewresult_email_timestamp" {
		t.Errorf("result indexes = %s", got)
	}

	for _, tbl := range tables {
		if !tbl.Columns[0].Increment || tbl.PrimaryKey[0] != tbl.Columns[0] {
			t.Errorf("%s: id is not the auto-increment primary key", tbl.Name)
		}
		for _, ix := range tbl.Indexes {
			for _, c := range ix.Columns {
				if c == nil {
					t.Errorf("%s: index %s names an unknown column", tbl.Name, ix.Name)
				}
			}
		}
	}

	seq := tables[0].Columns[1]
	if !seq.Unique {
		t.Error("sequence should be unique")
	}
	if body := tables[0].Columns[12]; body.Size != math.MaxInt32 || body.Default != "" {
		t.Errorf("request_body = size %d default %v, want TEXT defaulting to empty", body.Size, body.Default)
	}
	if ts := tables[0].Columns[2]; ts.Default != nil {
		t.Errorf("timestamp default = %v, want none", ts.Default)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if seq <= prev {
			t.Errorf("seq[%d] = %d, want > %d", i, seq, prev)
		}
		prev = seq
	}
}

func TestAppendAndQueryLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "question-intro", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true, SessionID: "s-1"},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "answer-score", InputTokens: 5, OutputTokens: 1, LatencyMs: 50, Success: true, SessionID: "s-2"},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "answer-score", InputTokens: 7, OutputTokens: 1, LatencyMs: 150, Success: false, ErrorMessage: "boom"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	if got[0].ErrorMessage != "boom" {
		t.Errorf("newest event error = %q, want boom", got[0].ErrorMessage)
	}
	if got[0].Sequence <= got[1].Sequence {
		t.Errorf("events not ordered newest first: %d then %d", got[0].Sequence, got[1].Sequence)
	}

	scored, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "answer-score", Limit: 1})
	if err != nil {
		t.Fatalf("query by purpose: %v", err)
	}
	if len(scored) != 1 || scored[0].Purpose != "answer-score" {
		t.Fatalf("purpose filter returned %+v", scored)
	}

	bySession, err := repo.QueryLLMEvents(ctx, QueryOpts{SessionID: "s-2"})
	if err != nil {
		t.Fatalf("query by session: %v", err)
	}
	if len(bySession) != 1 || bySession[0].Purpose != "answer-score" || bySession[0].SessionID != "s-2" {
		t.Fatalf("session filter returned %+v", bySession)
	}

	e, err := repo.GetLLMEvent(ctx, got[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil || e.Purpose != "question-intro" || e.SessionID != "s-1" {
		t.Fatalf("get returned %+v", e)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing event, got %+v", missing)
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider: "openai", Model: "gpt-4o-mini", Purpose: "answer-score",
			InputTokens: 10, OutputTokens: 2, LatencyMs: int64(100 * (i + 1)), Success: true,
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "openai", Model: "gpt-4o-mini", Purpose: "feedback",
		InputTokens: 40, OutputTokens: 30, Success: true, Cached: true,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	top := byPurpose[0]
	if top.Purpose != "answer-score" || top.Calls != 3 || top.InputTokens != 30 || top.AvgLatencyMs != 200 {
		t.Errorf("unexpected purpose usage: %+v", top)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 1 || byModel[0].Calls != 3 {
		t.Fatalf("cached calls should be excluded from model usage: %+v", byModel)
	}
}

func TestResultRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.ResultRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		res := &InterviewResult{
			Email:      "a@example.com",
			SessionID:  fmt.Sprintf("s-%d", i),
			TotalScore: 10 * (i + 1),
			MaxScore:   100,
			Percentage: float64(10 * (i + 1)),
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.SaveResult(ctx, res); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		if res.ID == 0 || res.Sequence == 0 {
			t.Fatalf("save did not fill ids: %+v", res)
		}
	}
	if err := repo.SaveResult(ctx, &InterviewResult{Email: "b@example.com", MaxScore: 10}); err != nil {
		t.Fatalf("save other: %v", err)
	}

	got, err := repo.ResultsByEmail(ctx, "a@example.com", 0)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d results, want 3", len(got))
	}
	if got[0].SessionID != "s-2" || got[0].TotalScore != 30 {
		t.Errorf("newest result = %+v, want session s-2", got[0])
	}

	none, err := repo.ResultsByEmail(ctx, "nobody@example.com", 0)
	if err != nil {
		t.Fatalf("results for unknown email: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no results, got %d", len(none))
	}

	anon := &InterviewResult{SessionID: "s-anon", TotalScore: 5, MaxScore: 10, Percentage: 50}
	if err := repo.SaveResult(ctx, anon); err != nil {
		t.Fatalf("save anonymous result: %v", err)
	}
	if anon.ID == 0 || anon.Timestamp.IsZero() {
		t.Errorf("anonymous result not filled in: %+v", anon)
	}
}
