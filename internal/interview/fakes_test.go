package interview

import (
	"context"
	"fmt"
	"sync"

	"github.com/vintervu/vintervu/internal/feedback"
	"github.com/vintervu/vintervu/internal/questions"
	"github.com/vintervu/vintervu/internal/speech"
	"github.com/vintervu/vintervu/internal/store"
)

type fakeGenerator struct {
	mu       sync.Mutex
	batch    questions.Batch
	batchErr error

	// dynamic answers follow-up requests in order; once drained, numbered
	// questions are produced.
	dynamic  []string
	dynErr   error
	dynCalls int
	lastAsk  []string
	lastResp []string
}

func (g *fakeGenerator) InitialBatch(_ context.Context, _ []string, _ string, _ []string) (questions.Batch, error) {
	return g.batch, g.batchErr
}

func (g *fakeGenerator) DynamicQuestion(_ context.Context, responses, _ []string, _ string, asked []string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dynCalls++
	g.lastAsk = append([]string(nil), asked...)
	g.lastResp = append([]string(nil), responses...)
	if g.dynErr != nil {
		return "", g.dynErr
	}
	if len(g.dynamic) > 0 {
		q := g.dynamic[0]
		g.dynamic = g.dynamic[1:]
		return q, nil
	}
	return fmt.Sprintf("follow-up question number %d", g.dynCalls), nil
}

type fakeRecognizer struct {
	err error
}

func (r fakeRecognizer) Transcribe(ctx context.Context, a speech.Audio) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return speech.TextRecognizer{}.Transcribe(ctx, a)
}

type fakeScorer struct {
	mu     sync.Mutex
	score  int
	inputs [][2]string
}

func (s *fakeScorer) Score(_ context.Context, transcript, question string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, [2]string{transcript, question})
	return s.score
}

type fakeFeedback struct{}

func (fakeFeedback) Synthesize(_ context.Context, question, response string) feedback.Result {
	return feedback.Result{Feedback: "on " + question, Suggestion: "improve " + response}
}

type fakeAnnouncer struct {
	mu    sync.Mutex
	texts []string
}

func (a *fakeAnnouncer) Announce(_, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.texts = append(a.texts, text)
}

type fakeResults struct {
	mu    sync.Mutex
	saved []store.InterviewResult
	err   error
}

func (r *fakeResults) SaveResult(_ context.Context, res *store.InterviewResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, *res)
	return nil
}

func (r *fakeResults) ResultsByEmail(context.Context, string, int) ([]store.InterviewResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]store.InterviewResult(nil), r.saved...), nil
}
