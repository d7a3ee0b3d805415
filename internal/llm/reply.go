package llm

import (
	"encoding/json"
	"net/http"
	"strings"
)

// finishReply turns the raw text of a provider reply into Response content.
// Structured replies lose an optional code fence and must match the schema;
// a truncated structured reply is ErrMaxTokensExceeded. Plain replies are
// only trimmed, even when truncated.
func finishReply(req Request, text string, truncated bool) (json.RawMessage, error) {
	text = strings.TrimSpace(text)
	if req.Schema == nil {
		return json.RawMessage(text), nil
	}

	content := json.RawMessage(StripCodeFence(text))
	if truncated {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	return content, nil
}

// statusError classifies a failed provider call by HTTP status. Only 429 is
// a rate limit; everything else counts as the provider being unavailable.
func statusError(status int, err error) error {
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
