package llm

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinishReply(t *testing.T) {
	structured := Request{Schema: testSchema()}
	valid := `{"feedback":"Clear answer.","suggestion":"Add an example."}`

	t.Run("plain text trimmed", func(t *testing.T) {
		got, err := finishReply(Request{}, "  What is a goroutine?\n", false)
		require.NoError(t, err)
		assert.Equal(t, "What is a goroutine?", string(got))
	})

	t.Run("plain text kept when truncated", func(t *testing.T) {
		got, err := finishReply(Request{}, "What is a", true)
		require.NoError(t, err)
		assert.Equal(t, "What is a", string(got))
	})

	t.Run("structured fence stripped", func(t *testing.T) {
		got, err := finishReply(structured, "```json\n"+valid+"\n```", false)
		require.NoError(t, err)
		assert.JSONEq(t, valid, string(got))
	})

	t.Run("structured truncated", func(t *testing.T) {
		_, err := finishReply(structured, `{"feedback":"Cle`, true)
		var maxTok *ErrMaxTokensExceeded
		require.ErrorAs(t, err, &maxTok)
		assert.Equal(t, `{"feedback":"Cle`, string(maxTok.Content))
	})

	t.Run("structured schema violation", func(t *testing.T) {
		_, err := finishReply(structured, `{"feedback":"only"}`, false)
		var invalid *ErrInvalidResponse
		require.ErrorAs(t, err, &invalid)
	})
}

func TestStatusError(t *testing.T) {
	cause := errors.New("boom")

	var rl *ErrRateLimit
	require.ErrorAs(t, statusError(http.StatusTooManyRequests, cause), &rl)
	assert.ErrorIs(t, rl, cause)

	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusBadGateway, 0} {
		var unavail *ErrProviderUnavailable
		assert.ErrorAs(t, statusError(status, cause), &unavail, "status %d", status)
	}
}
