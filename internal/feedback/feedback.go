// Package feedback writes per-question feedback at the end of an interview.
package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/vintervu/vintervu/internal/llm"
	"github.com/vintervu/vintervu/internal/logger"
)

// Placeholder texts.
const (
	NoFeedback   = "No feedback available"
	NoSuggestion = "No suggestion provided"

	FallbackFeedback   = "Unable to generate feedback"
	FallbackSuggestion = "Try providing more details in your response"
)

const purpose = "answer-feedback"

// Result is the feedback for one answer.
type Result struct {
	Feedback   string `json:"feedback"`
	Suggestion string `json:"suggestion"`
}

// Fallback is returned whenever feedback could not be generated.
var Fallback = Result{Feedback: FallbackFeedback, Suggestion: FallbackSuggestion}

// Synthesizer produces feedback for an answered question. Implementations
// never fail; problems are reported through Fallback.
type Synthesizer interface {
	Synthesize(ctx context.Context, question, response string) Result
}

// Config holds configuration for LLMSynthesizer.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{MaxTokens: 400}
}

// LLMSynthesizer implements Synthesizer with structured LLM output.
type LLMSynthesizer struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

var _ Synthesizer = (*LLMSynthesizer)(nil)

// New creates an LLMSynthesizer.
func New(provider llm.Provider, cfg Config, log *zap.Logger) *LLMSynthesizer {
	return &LLMSynthesizer{provider: provider, cfg: cfg, log: logger.OrNop(log)}
}

var feedbackTemplate = template.Must(template.New("feedback").Parse(`Analyze the following interview response for question "{{.Question}}":
Response: "{{.Response}}"
Provide concise feedback (1-2 sentences) on the response's strengths and weaknesses.
Suggest an alternative way to answer the question (1-2 sentences).
Return the result as JSON with fields "feedback" and "suggestion".`))

func (s *LLMSynthesizer) Synthesize(ctx context.Context, question, response string) Result {
	var buf bytes.Buffer
	if err := feedbackTemplate.Execute(&buf, struct{ Question, Response string }{question, response}); err != nil {
		s.log.Warn("building feedback prompt", zap.Error(err))
		return Fallback
	}

	req := llm.UserPrompt("", buf.String())
	req.Schema = Schema
	req.MaxTokens = s.cfg.MaxTokens
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, purpose), req)
	if err != nil {
		s.log.Warn("feedback generation failed", zap.Error(err))
		return Fallback
	}

	result, err := Parse(resp.Content)
	if err != nil {
		s.log.Warn("feedback unparsable",
			zap.Error(err),
			zap.String("raw", logger.TruncateForLog(string(resp.Content), 200)),
		)
		return Fallback
	}
	return result
}

// Parse decodes a feedback object, optionally wrapped in a ```json fence,
// and checks it against Schema. Missing or blank fields are replaced with
// NoFeedback and NoSuggestion.
func Parse(raw []byte) (Result, error) {
	body := llm.StripCodeFence(string(raw))
	if err := llm.ValidateJSON(Schema, json.RawMessage(body)); err != nil {
		return Result{}, err
	}

	var r Result
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return Result{}, fmt.Errorf("decode feedback: %w", err)
	}
	r.Feedback = strings.TrimSpace(r.Feedback)
	r.Suggestion = strings.TrimSpace(r.Suggestion)
	if r.Feedback == "" {
		r.Feedback = NoFeedback
	}
	if r.Suggestion == "" {
		r.Suggestion = NoSuggestion
	}
	return r, nil
}
