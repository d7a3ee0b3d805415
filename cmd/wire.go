package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vintervu/vintervu/internal/config"
	"github.com/vintervu/vintervu/internal/evaluation"
	"github.com/vintervu/vintervu/internal/feedback"
	"github.com/vintervu/vintervu/internal/interview"
	"github.com/vintervu/vintervu/internal/llm"
	"github.com/vintervu/vintervu/internal/questions"
	"github.com/vintervu/vintervu/internal/resume"
	"github.com/vintervu/vintervu/internal/speech"
	"github.com/vintervu/vintervu/internal/store"
)

// newProvider is swapped in tests.
var newProvider = llm.NewProvider

// components is everything a command needs to run interviews.
type components struct {
	store      *store.Store
	provider   llm.Provider
	interviews *interview.Service
	resumes    *resume.Extractor
	announcer  *speech.Announcer

	closers []func()
}

func (c *components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// buildComponents opens the store, connects the LLM provider (with the
// optional Redis cache) and assembles the interview service.
func buildComponents(ctx context.Context, cfg *config.Config, log *zap.Logger) (*components, error) {
	c := &components{}

	dbPath := cfg.Store.DBPath
	var err error
	if dbPath == "" {
		if dbPath, err = store.DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	} else if err := store.EnsureDir(dbPath); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	c.store = st
	c.closers = append(c.closers, func() { st.Close() })

	var cache llm.CacheClient
	if cfg.LLM.Cache.Addr != "" {
		rc, err := llm.NewRedisClient(ctx, cfg.LLM.Cache)
		if err != nil {
			log.Warn("llm cache disabled", zap.Error(err))
		} else {
			cache = rc
			c.closers = append(c.closers, func() { rc.Close() })
		}
	}

	provider, err := newProvider(ctx, cfg.LLM, st.EventRepo(), cache, log)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.provider = provider

	recognizer, synth, err := buildSpeech(cfg.Speech)
	if err != nil {
		c.Close()
		return nil, err
	}

	deps := interview.Deps{
		Questions: questions.New(provider, questions.Config{
			MaxTokens:         cfg.Interview.QuestionMaxTokens,
			Temperature:       cfg.Interview.Temperature,
			RetryInterval:     cfg.Interview.RetryInterval,
			MaxPriorQuestions: questions.DefaultConfig().MaxPriorQuestions,
		}, log.Named("questions")),
		Recognizer: recognizer,
		Scorer:     evaluation.New(provider, evaluation.DefaultConfig(), log.Named("evaluation")),
		Feedback:   feedback.New(provider, feedback.DefaultConfig(), log.Named("feedback")),
		Results:    st.ResultRepo(),
	}
	if synth != nil {
		c.announcer = speech.NewAnnouncer(synth, cfg.Speech.Timeout, log.Named("speech"))
		c.closers = append(c.closers, c.announcer.Close)
		deps.Announcer = c.announcer
	}

	c.interviews = interview.NewService(deps, interview.Config{
		FeedbackConcurrency: cfg.Interview.FeedbackConcurrency,
		SpeechTimeout:       cfg.Speech.Timeout,
	}, log.Named("interview"))
	c.resumes = resume.NewExtractor(provider, log.Named("resume"))
	return c, nil
}

// buildSpeech returns the recognizer and, for the openai provider, the
// synthesizer used for question announcements.
func buildSpeech(cfg config.SpeechConfig) (speech.Recognizer, speech.Synthesizer, error) {
	if cfg.Provider != "openai" {
		return speech.TextRecognizer{}, nil, nil
	}

	oc := speech.OpenAIConfig{
		APIKey:             cfg.APIKey,
		BaseURL:            cfg.BaseURL,
		TranscriptionModel: cfg.TranscriptionModel,
		SpeechModel:        cfg.SpeechModel,
		Voice:              cfg.Voice,
	}
	rec, err := speech.NewWhisperRecognizer(oc)
	if err != nil {
		return nil, nil, fmt.Errorf("speech recognizer: %w", err)
	}

	var sink speech.Sink
	if cfg.OutputDir != "" {
		sink = speech.DirSink(cfg.OutputDir)
	}
	synth, err := speech.NewOpenAISynthesizer(oc, sink)
	if err != nil {
		return nil, nil, fmt.Errorf("speech synthesizer: %w", err)
	}
	return rec, synth, nil
}
