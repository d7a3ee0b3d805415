package questions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vintervu/vintervu/internal/llm"
	"github.com/vintervu/vintervu/internal/logger"
	"github.com/vintervu/vintervu/internal/similarity"
)

// LLM purposes recorded with every generation call.
const (
	PurposeIntro     = "question-intro"
	PurposeTechnical = "question-technical"
	PurposeFollowUp  = "question-followup"
)

// Generator produces interview questions.
type Generator interface {
	// InitialBatch produces the opening intro and technical questions.
	// Neither sub-batch repeats asked, and the technical batch does not
	// repeat the intro batch.
	InitialBatch(ctx context.Context, skills []string, branch string, asked []string) (Batch, error)

	// DynamicQuestion produces one follow-up question that does not repeat
	// asked. It fails with an error matching ErrExhausted when no attempt
	// yields a usable question.
	DynamicQuestion(ctx context.Context, responses, skills []string, branch string, asked []string) (string, error)
}

// Batch is the opening question set of an interview.
type Batch struct {
	Intro     []string
	Technical []string
}

// All returns the intro questions followed by the technical ones.
func (b Batch) All() []string {
	out := make([]string, 0, len(b.Intro)+len(b.Technical))
	out = append(out, b.Intro...)
	return append(out, b.Technical...)
}

// Source implements Generator on top of an LLM provider.
type Source struct {
	provider llm.Provider
	config   Config
	log      *zap.Logger
}

var _ Generator = (*Source)(nil)

// New creates a Source with the given provider and config.
func New(provider llm.Provider, cfg Config, log *zap.Logger) *Source {
	return &Source{provider: provider, config: cfg, log: logger.OrNop(log)}
}

func (s *Source) InitialBatch(ctx context.Context, skills []string, branch string, asked []string) (Batch, error) {
	intro, err := s.batch(llm.WithPurpose(ctx, PurposeIntro), introPrompt, asked)
	if err != nil {
		return Batch{}, fmt.Errorf("generating introductory questions: %w", err)
	}

	seen := make([]string, 0, len(asked)+len(intro))
	seen = append(append(seen, asked...), intro...)

	technical, err := s.batch(llm.WithPurpose(ctx, PurposeTechnical), buildTechnicalPrompt(skills, branch), seen)
	if err != nil {
		return Batch{}, fmt.Errorf("generating technical questions: %w", err)
	}

	s.log.Debug("initial batch ready",
		zap.String("branch", branch),
		zap.Int("intro", len(intro)),
		zap.Int("technical", len(technical)),
	)
	return Batch{Intro: intro, Technical: technical}, nil
}

// batch runs one generation call and filters its lines. A short batch is
// returned as is.
func (s *Source) batch(ctx context.Context, prompt string, asked []string) ([]string, error) {
	resp, err := s.provider.Generate(ctx, s.request(prompt))
	if err != nil {
		return nil, err
	}
	return similarity.Filter(resp.Text(), asked, BatchSize), nil
}

func (s *Source) DynamicQuestion(ctx context.Context, responses, skills []string, branch string, asked []string) (string, error) {
	ctx = llm.WithPurpose(ctx, PurposeFollowUp)
	req := s.request(buildFollowUpPrompt(responses, skills, branch, asked, s.config.MaxPriorQuestions))

	ex := &ExhaustedError{}
	for attempt := 1; attempt <= MaxDynamicAttempts; attempt++ {
		if attempt > 1 && s.config.RetryInterval > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(s.config.RetryInterval):
			}
		}
		ex.Attempts = attempt

		resp, err := s.provider.Generate(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			ex.CapabilityErrors++
			ex.LastErr = err
			s.log.Warn("follow-up generation failed",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}

		q := firstQuestion(resp.Text())
		if q == "" || similarity.IsDuplicate(q, asked) {
			ex.Duplicates++
			s.log.Debug("follow-up rejected",
				zap.Int("attempt", attempt),
				zap.String("candidate", logger.TruncateForLog(q, 120)),
			)
			continue
		}
		return q, nil
	}

	return "", ex
}

func (s *Source) request(prompt string) llm.Request {
	req := llm.UserPrompt(systemPrompt, prompt)
	req.MaxTokens = s.config.MaxTokens
	req.Temperature = s.config.Temperature
	return req
}

// firstQuestion returns the first non-blank line of text without list
// markers or wrapping quotes.
func firstQuestion(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = similarity.StripListMarker(line)
		line = strings.TrimSpace(strings.Trim(line, `"“”`))
		if line != "" {
			return line
		}
	}
	return ""
}
