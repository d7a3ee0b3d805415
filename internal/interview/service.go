package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vintervu/vintervu/internal/evaluation"
	"github.com/vintervu/vintervu/internal/feedback"
	"github.com/vintervu/vintervu/internal/llm"
	"github.com/vintervu/vintervu/internal/logger"
	"github.com/vintervu/vintervu/internal/questions"
	"github.com/vintervu/vintervu/internal/results"
	"github.com/vintervu/vintervu/internal/speech"
	"github.com/vintervu/vintervu/internal/store"
)

// Announcer speaks a question without blocking the caller.
type Announcer interface {
	Announce(sessionID, text string)
}

// Deps are the collaborators of a Service. Announcer and Results may be nil.
type Deps struct {
	Questions  questions.Generator
	Recognizer speech.Recognizer
	Scorer     evaluation.Scorer
	Feedback   feedback.Synthesizer
	Announcer  Announcer
	Results    store.ResultRepo
}

// Config tunes a Service.
type Config struct {
	// FeedbackConcurrency bounds parallel feedback calls in End.
	FeedbackConcurrency int

	// SpeechTimeout bounds a single transcription. Zero leaves it unbounded.
	SpeechTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{FeedbackConcurrency: 4, SpeechTimeout: 20 * time.Second}
}

// Service runs interview sessions held in a Store.
type Service struct {
	deps  Deps
	cfg   Config
	store *Store
	log   *zap.Logger
	now   func() time.Time
}

// NewService creates a Service with an empty Store.
func NewService(deps Deps, cfg Config, log *zap.Logger) *Service {
	if cfg.FeedbackConcurrency < 1 {
		cfg.FeedbackConcurrency = 1
	}
	return &Service{
		deps:  deps,
		cfg:   cfg,
		store: NewStore(),
		log:   logger.OrNop(log),
		now:   time.Now,
	}
}

// Store exposes the active sessions.
func (s *Service) Store() *Store {
	return s.store
}

// StartInput describes a new interview. An empty SessionID gets a fresh id.
type StartInput struct {
	SessionID string
	Skills    []string
	Branch    string
}

// Start prepares the opening questions and stores a new session, replacing
// any session with the same id. Nothing is stored when question generation
// fails.
func (s *Service) Start(ctx context.Context, in StartInput) (*Session, error) {
	id := strings.TrimSpace(in.SessionID)
	if id == "" {
		id = uuid.NewString()
	}
	log := logger.WithSession(s.log, id)
	ctx = llm.WithSessionID(ctx, id)

	skills := NormalizeSkills(in.Skills)
	branch := strings.TrimSpace(in.Branch)

	batch, err := s.deps.Questions.InitialBatch(ctx, skills, branch, nil)
	if err != nil {
		log.Warn("interview start failed", zap.Error(err))
		return nil, &ExternalServiceError{Op: "start interview", Err: err}
	}

	qs := batch.All()
	if len(qs) > MaxQuestions {
		qs = qs[:MaxQuestions]
	}

	now := s.now()
	sess := &Session{
		ID:        id,
		Skills:    skills,
		Branch:    branch,
		Questions: qs,
		Responses: []string{},
		Scores:    []int{},
		Records:   []results.Record{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.store.put(sess)

	log.Info("interview started",
		zap.Strings("skills", skills),
		zap.String("branch", branch),
		zap.Int("intro", len(batch.Intro)),
		zap.Int("technical", len(batch.Technical)),
	)
	out := sess.clone()
	return &out, nil
}

// Next returns the question at the current index, generating a follow-up
// when the prepared ones are used up. done is true once MaxQuestions have
// been answered. Calling Next again without Record returns the same question.
func (s *Service) Next(ctx context.Context, id string) (question string, done bool, err error) {
	e, ok := s.store.acquire(id)
	if !ok {
		return "", false, ErrSessionNotFound
	}
	defer e.release()
	sess := e.sess

	if sess.Done() {
		return "", true, nil
	}

	if !sess.Outstanding() {
		q, err := s.deps.Questions.DynamicQuestion(llm.WithSessionID(ctx, id),
			sess.Responses, sess.Skills, sess.Branch, sess.Questions)
		if err != nil {
			return "", false, s.classifyNextErr(id, err)
		}
		sess.Questions = append(sess.Questions, q)
		sess.UpdatedAt = s.now()
	}

	question = sess.Questions[sess.CurrentIndex]
	if s.deps.Announcer != nil {
		s.deps.Announcer.Announce(id, question)
	}
	return question, false, nil
}

func (s *Service) classifyNextErr(id string, err error) error {
	log := logger.WithSession(s.log, id)

	var ex *questions.ExhaustedError
	switch {
	case errors.As(err, &ex) && ex.OnlyCapabilityErrors():
		log.Warn("follow-up generation unavailable", zap.Error(err))
		return &ExternalServiceError{Op: "next question", Err: err}
	case errors.Is(err, questions.ErrExhausted):
		log.Warn("follow-up generation exhausted", zap.Error(err))
		return err
	default:
		return fmt.Errorf("next question: %w", err)
	}
}

// RecordInput is an answer to the outstanding question. A nil Audio is
// rejected; an empty one is recorded as NoSpeech.
type RecordInput struct {
	Audio    *speech.Audio
	Question string
}

// RecordResult is the transcript and score of a recorded answer.
type RecordResult struct {
	Transcript string `json:"response"`
	Score      int    `json:"score"`
}

// Record transcribes and scores an answer and advances the session.
func (s *Service) Record(ctx context.Context, id string, in RecordInput) (RecordResult, error) {
	if in.Audio == nil {
		return RecordResult{}, &ValidationError{Field: "audio", Message: "no audio provided"}
	}

	e, ok := s.store.acquire(id)
	if !ok {
		return RecordResult{}, ErrSessionNotFound
	}
	defer e.release()
	sess := e.sess

	if !sess.Outstanding() {
		return RecordResult{}, &ValidationError{Field: "question", Message: "no question is awaiting an answer"}
	}

	ctx = llm.WithSessionID(ctx, id)
	transcript := s.transcribe(ctx, id, *in.Audio)

	question := strings.TrimSpace(in.Question)
	if question == "" {
		question = UnknownQuestion
	}
	score := s.deps.Scorer.Score(ctx, transcript, question)

	sess.Responses = append(sess.Responses, transcript)
	sess.Scores = append(sess.Scores, score)
	sess.Records = append(sess.Records, results.NewRecord(question, transcript, score))
	sess.CurrentIndex++
	sess.UpdatedAt = s.now()

	logger.WithSession(s.log, id).Debug("response recorded",
		zap.Int("index", sess.CurrentIndex),
		zap.Int("score", score),
	)
	return RecordResult{Transcript: transcript, Score: score}, nil
}

func (s *Service) transcribe(ctx context.Context, id string, audio speech.Audio) string {
	if s.cfg.SpeechTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.SpeechTimeout)
		defer cancel()
	}

	text, err := s.deps.Recognizer.Transcribe(ctx, audio)
	if err != nil {
		logger.WithSession(s.log, id).Warn("transcription failed", zap.Error(err))
		return speech.NoSpeech
	}
	if text = strings.TrimSpace(text); text == "" {
		return speech.NoSpeech
	}
	return text
}

// EndInput finishes an interview. Email tags the stored result.
type EndInput struct {
	Email string
}

// End writes feedback for every answer, removes the session and returns the
// final summary. Storing the result is best effort.
func (s *Service) End(ctx context.Context, id string, in EndInput) (results.Summary, error) {
	e, ok := s.store.acquire(id)
	if !ok {
		return results.Summary{}, ErrSessionNotFound
	}
	defer e.release()
	log := logger.WithSession(s.log, id)

	records := s.synthesizeFeedback(llm.WithSessionID(ctx, id), e.sess.Records)
	e.sess.Records = records
	summary := results.Summarize(records)
	s.store.remove(id, e)

	log.Info("interview ended",
		zap.Int("answers", len(records)),
		zap.Int("total_score", summary.TotalScore),
		zap.Float64("percentage", summary.Percentage),
	)

	if s.deps.Results != nil {
		res := &store.InterviewResult{
			Email:         in.Email,
			SessionID:     id,
			TotalScore:    summary.TotalScore,
			MaxScore:      summary.MaxScore,
			Percentage:    summary.Percentage,
			QuestionCount: len(records),
		}
		if err := s.deps.Results.SaveResult(context.WithoutCancel(ctx), res); err != nil {
			log.Warn("failed to store interview result", zap.Error(err))
		}
	}
	return summary, nil
}

// synthesizeFeedback fills in feedback for each record with bounded
// parallelism. The input slice is not modified and order is kept.
func (s *Service) synthesizeFeedback(ctx context.Context, records []results.Record) []results.Record {
	out := make([]results.Record, len(records))
	copy(out, records)

	var g errgroup.Group
	g.SetLimit(s.cfg.FeedbackConcurrency)
	for i := range out {
		g.Go(func() error {
			fb := s.deps.Feedback.Synthesize(ctx, out[i].Question, out[i].Response)
			out[i].Feedback = fb.Feedback
			out[i].Suggestion = fb.Suggestion
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Results summarizes the answers recorded so far without changing the
// session.
func (s *Service) Results(_ context.Context, id string) (results.Summary, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return results.Summary{}, ErrSessionNotFound
	}
	return results.Summarize(sess.Records), nil
}

// Session returns a copy of the session with id.
func (s *Service) Session(id string) (Session, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}
