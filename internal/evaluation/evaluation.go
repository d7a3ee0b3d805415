// Package evaluation scores transcribed interview answers on a 0-10 scale.
package evaluation

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/vintervu/vintervu/internal/llm"
	"github.com/vintervu/vintervu/internal/logger"
	"github.com/vintervu/vintervu/internal/speech"
)

const (
	// DefaultScore is assigned to empty answers and whenever the model's
	// score cannot be used.
	DefaultScore = 2

	MinScore = 0
	MaxScore = 10

	purpose = "answer-score"
)

// Scorer rates an answer to an interview question.
type Scorer interface {
	Score(ctx context.Context, transcript, question string) int
}

// Config holds configuration for the Evaluator.
type Config struct {
	MaxTokens int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{MaxTokens: 16}
}

// Evaluator scores answers with an LLM.
type Evaluator struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

var _ Scorer = (*Evaluator)(nil)

// New creates an Evaluator.
func New(provider llm.Provider, cfg Config, log *zap.Logger) *Evaluator {
	return &Evaluator{provider: provider, cfg: cfg, log: logger.OrNop(log)}
}

var scoreTemplate = template.Must(template.New("score").Parse(`Evaluate the following interview response for question "{{.Question}}":
Response: "{{.Transcript}}"
Score it from 0 to 10 based on relevance, detail, and clarity (0 = irrelevant, 10 = excellent).
Return only the score as a number.`))

// Score returns the model's score for transcript, or DefaultScore when the
// transcript is empty or the no-speech sentinel, the call fails, or the
// reply does not start with an integer in range. It never fails.
func (e *Evaluator) Score(ctx context.Context, transcript, question string) int {
	if strings.TrimSpace(transcript) == "" || transcript == speech.NoSpeech {
		return DefaultScore
	}

	var buf bytes.Buffer
	if err := scoreTemplate.Execute(&buf, struct{ Question, Transcript string }{question, transcript}); err != nil {
		e.log.Warn("building score prompt", zap.Error(err))
		return DefaultScore
	}

	req := llm.UserPrompt("", buf.String())
	req.MaxTokens = e.cfg.MaxTokens

	resp, err := e.provider.Generate(llm.WithPurpose(ctx, purpose), req)
	if err != nil {
		e.log.Warn("scoring failed, using default", zap.Error(err))
		return DefaultScore
	}

	reply := resp.Text()
	score, ok := ParseScore(reply)
	if !ok {
		e.log.Warn("invalid score from model", zap.String("reply", logger.TruncateForLog(reply, 80)))
		return DefaultScore
	}
	return score
}

// ParseScore reads the integer at the start of s ("7", "8/10", " 6.5") and
// reports whether it lies within [MinScore, MaxScore].
func ParseScore(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n < MinScore || n > MaxScore {
		return 0, false
	}
	return n, true
}
