package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vintervu/vintervu/internal/llm"
)

func TestSynthesize(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse(`{"feedback":"Clear and correct.","suggestion":"Mention time complexity."}`))
	s := New(mock, DefaultConfig(), nil)

	got := s.Synthesize(context.Background(), "What is a heap?", "A tree with the heap property.")
	assert.Equal(t, Result{Feedback: "Clear and correct.", Suggestion: "Mention time complexity."}, got)

	require.Equal(t, 1, mock.CallCount())
	call := mock.Calls[0]
	assert.Same(t, Schema, call.Schema)
	assert.Contains(t, mock.Prompts()[0], `question "What is a heap?"`)
	assert.Contains(t, mock.Prompts()[0], `Response: "A tree with the heap property."`)
}

func TestSynthesize_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"capability error", llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}}},
		{"prose", llm.TextResponse("Nice answer overall.")},
		{"wrong type", llm.TextResponse(`{"feedback":1,"suggestion":"x"}`)},
		{"not an object", llm.TextResponse(`["a","b"]`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			s := New(llm.NewMockProvider(tt.resp), DefaultConfig(), zap.New(core))

			got := s.Synthesize(context.Background(), "q", "r")
			assert.Equal(t, Fallback, got)
			assert.Equal(t, 1, logs.Len())
		})
	}
}

func TestSynthesize_PartialObjectKeepsModelText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Result
	}{
		{
			name: "missing suggestion",
			raw:  "```json\n{\"feedback\":\"Clear answer.\"}\n```",
			want: Result{Feedback: "Clear answer.", Suggestion: NoSuggestion},
		},
		{
			name: "missing feedback",
			raw:  `{"suggestion":"Give a concrete example."}`,
			want: Result{Feedback: NoFeedback, Suggestion: "Give a concrete example."},
		},
		{
			name: "extra key ignored",
			raw:  `{"feedback":"Good.","suggestion":"Add an example.","extra":1}`,
			want: Result{Feedback: "Good.", Suggestion: "Add an example."},
		},
		{
			name: "empty object",
			raw:  `{}`,
			want: Result{Feedback: NoFeedback, Suggestion: NoSuggestion},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(llm.NewMockProvider(llm.TextResponse(tt.raw)), DefaultConfig(), nil)
			assert.Equal(t, tt.want, s.Synthesize(context.Background(), "q", "r"))
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Result
	}{
		{
			name: "plain",
			raw:  `{"feedback":"Good.","suggestion":"Add an example."}`,
			want: Result{"Good.", "Add an example."},
		},
		{
			name: "fenced",
			raw:  "```json\n{\"feedback\":\"Good.\",\"suggestion\":\"Add an example.\"}\n```",
			want: Result{"Good.", "Add an example."},
		},
		{
			name: "blank fields",
			raw:  `{"feedback":"  ","suggestion":""}`,
			want: Result{NoFeedback, NoSuggestion},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Parse([]byte("```json\n{broken\n```"))
	assert.Error(t, err)
}
