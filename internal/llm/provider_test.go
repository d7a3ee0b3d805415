package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_FIFO(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		TextResponse("second"),
	)

	resp, err := mock.Generate(context.Background(), UserPrompt("", "first"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(resp.Content))
	assert.Equal(t, 10, resp.Usage.InputTokens)
	assert.Equal(t, "end", resp.StopReason)

	resp, err = mock.Generate(context.Background(), UserPrompt("", "second"))
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Text())

	assert.Equal(t, []string{"first", "second"}, mock.Prompts())
}

func TestMockProvider_EmptyQueue(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})

	var unavail *ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavail), "got %T", err)
}

func TestMockProvider_Fallback(t *testing.T) {
	mock := NewMockProvider(TextResponse("queued"))
	fb := TextResponse("fallback")
	mock.Fallback = &fb

	for _, want := range []string{"queued", "fallback", "fallback"} {
		resp, err := mock.Generate(context.Background(), Request{})
		require.NoError(t, err)
		assert.Equal(t, want, resp.Text())
	}
	assert.Equal(t, 3, mock.CallCount())
}

func TestMockProvider_ConfiguredError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{}})
	_, err := mock.Generate(context.Background(), Request{})

	var rl *ErrRateLimit
	assert.True(t, errors.As(err, &rl), "got %T", err)
}

func TestMockProvider_DelayHonoursContext(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`x`), Delay: 10 * time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mock.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockProvider_RecordsSystem(t *testing.T) {
	mock := NewMockProvider(TextResponse("ok"))
	_, _ = mock.Generate(context.Background(), UserPrompt("sys", "hello"))

	require.Equal(t, 1, mock.CallCount())
	assert.Equal(t, "sys", mock.Calls[0].System)
	assert.Equal(t, "mock", mock.ModelID())
}

func TestResponseText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"plain", "  8 \n", "8"},
		{"json string", `"  Tell me about yourself. "`, "Tell me about yourself."},
		{"json object", `{"a":1}`, `{"a":1}`},
		{"broken quote", `"unterminated`, `"unterminated`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Response{Content: json.RawMessage(tt.content)}
			assert.Equal(t, tt.want, r.Text())
		})
	}

	var nilResp *Response
	assert.Equal(t, "", nilResp.Text())
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))
	assert.Equal(t, "", SessionIDFrom(ctx))

	ctx = WithPurpose(ctx, "question-followup")
	ctx = WithSessionID(ctx, "abc")
	assert.Equal(t, "question-followup", PurposeFrom(ctx))
	assert.Equal(t, "abc", SessionIDFrom(ctx))
}

func TestUserPrompt(t *testing.T) {
	req := UserPrompt("be brief", "hello")
	assert.Equal(t, "be brief", req.System)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, RoleUser, req.Messages[0].Role)
	assert.Equal(t, "hello", req.Messages[0].Content)
}
