// Package config loads vintervu settings from an optional YAML file,
// VINTERVU_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/vintervu/vintervu/internal/llm"
)

const envPrefix = "VINTERVU"

var validate = validator.New(validator.WithRequiredStructEnabled())

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	LLM       llm.Config      `mapstructure:"llm"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Store     StoreConfig     `mapstructure:"store"`
	Interview InterviewConfig `mapstructure:"interview"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"min=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=0"`
	CORSOrigin      string        `mapstructure:"cors_origin"`
}

// SpeechConfig selects the speech backend. "text" treats the recorded payload
// as an already transcribed answer and disables announcements.
type SpeechConfig struct {
	Provider           string        `mapstructure:"provider" validate:"oneof=text openai"`
	APIKey             string        `mapstructure:"api_key" validate:"required_if=Provider openai"`
	BaseURL            string        `mapstructure:"base_url"`
	TranscriptionModel string        `mapstructure:"transcription_model"`
	SpeechModel        string        `mapstructure:"speech_model"`
	Voice              string        `mapstructure:"voice"`
	Timeout            time.Duration `mapstructure:"timeout" validate:"min=0"`

	// OutputDir keeps synthesized question audio. Empty discards it.
	OutputDir string `mapstructure:"output_dir"`
}

type StoreConfig struct {
	// DBPath overrides the default database location. Empty uses VINTERVU_DB
	// or the XDG data directory.
	DBPath string `mapstructure:"db_path"`
}

type InterviewConfig struct {
	// RetryInterval is the pause between follow-up generation attempts.
	RetryInterval       time.Duration `mapstructure:"retry_interval" validate:"min=0"`
	FeedbackConcurrency int           `mapstructure:"feedback_concurrency" validate:"min=1,max=32"`
	QuestionMaxTokens   int           `mapstructure:"question_max_tokens" validate:"min=0"`
	Temperature         float64       `mapstructure:"temperature" validate:"min=0,max=2"`
}

type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":5000",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigin:      "*",
		},
		LLM: llm.DefaultConfig(),
		Speech: SpeechConfig{
			Provider:           "text",
			TranscriptionModel: "whisper-1",
			SpeechModel:        "tts-1",
			Voice:              "alloy",
			Timeout:            20 * time.Second,
		},
		Interview: InterviewConfig{
			FeedbackConcurrency: 4,
			QuestionMaxTokens:   512,
			Temperature:         0.7,
		},
	}
}

// Load reads configuration into v. file may be empty, in which case
// ./vintervu.yaml is used when present. When neither the file nor the
// environment names an LLM API key, llm.DiscoverConfig supplies one.
func Load(v *viper.Viper, file string) (*Config, error) {
	setDefaults(v, Default())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("vintervu")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if !cfg.LLM.HasAPIKey() {
		if discovered, ok := llm.DiscoverConfig(); ok {
			discovered.Retry = cfg.LLM.Retry
			discovered.RateLimit = cfg.LLM.RateLimit
			discovered.Cache = cfg.LLM.Cache
			discovered.Timeout = cfg.LLM.Timeout
			cfg.LLM = discovered
		}
	}

	if cfg.Speech.Provider == "openai" && cfg.Speech.APIKey == "" {
		cfg.Speech.APIKey = cfg.LLM.OpenAI.APIKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct constraints and the selected LLM provider.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// are absent from the config file.
func setDefaults(v *viper.Viper, d Config) {
	defaults := map[string]any{
		"server.addr":             d.Server.Addr,
		"server.read_timeout":     d.Server.ReadTimeout,
		"server.write_timeout":    d.Server.WriteTimeout,
		"server.shutdown_timeout": d.Server.ShutdownTimeout,
		"server.cors_origin":      d.Server.CORSOrigin,

		"llm.provider":                      d.LLM.Provider,
		"llm.anthropic.api_key":             "",
		"llm.anthropic.model":               d.LLM.Anthropic.Model,
		"llm.openai.api_key":                "",
		"llm.openai.model":                  d.LLM.OpenAI.Model,
		"llm.openai.base_url":               "",
		"llm.gemini.api_key":                "",
		"llm.gemini.model":                  d.LLM.Gemini.Model,
		"llm.openrouter.api_key":            "",
		"llm.openrouter.model":              d.LLM.OpenRouter.Model,
		"llm.openrouter.base_url":           "",
		"llm.retry.max_attempts":            d.LLM.Retry.MaxAttempts,
		"llm.retry.initial_wait":            d.LLM.Retry.InitialWait,
		"llm.retry.max_wait":                d.LLM.Retry.MaxWait,
		"llm.retry.multiplier":              d.LLM.Retry.Multiplier,
		"llm.ratelimit.requests_per_second": d.LLM.RateLimit.RequestsPerSecond,
		"llm.ratelimit.burst":               d.LLM.RateLimit.Burst,
		"llm.cache.addr":                    "",
		"llm.cache.password":                "",
		"llm.cache.db":                      0,
		"llm.cache.ttl":                     d.LLM.Cache.TTL,
		"llm.timeout":                       d.LLM.Timeout,

		"speech.provider":            d.Speech.Provider,
		"speech.api_key":             "",
		"speech.base_url":            "",
		"speech.transcription_model": d.Speech.TranscriptionModel,
		"speech.speech_model":        d.Speech.SpeechModel,
		"speech.voice":               d.Speech.Voice,
		"speech.timeout":             d.Speech.Timeout,
		"speech.output_dir":          "",

		"store.db_path": "",

		"interview.retry_interval":       d.Interview.RetryInterval,
		"interview.feedback_concurrency": d.Interview.FeedbackConcurrency,
		"interview.question_max_tokens":  d.Interview.QuestionMaxTokens,
		"interview.temperature":          d.Interview.Temperature,

		"log.json":  false,
		"log.debug": false,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}
