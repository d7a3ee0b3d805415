package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearKeys(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vintervu.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearKeys(t)
	path := writeConfig(t, `
server:
  addr: ":8080"
llm:
  provider: mock
interview:
  retry_interval: 250ms
  feedback_concurrency: 2
`)

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, 250*time.Millisecond, cfg.Interview.RetryInterval)
	assert.Equal(t, 2, cfg.Interview.FeedbackConcurrency)
	// Untouched keys keep their defaults.
	assert.Equal(t, "text", cfg.Speech.Provider)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearKeys(t)
	path := writeConfig(t, "llm:\n  provider: gemini\n")
	t.Setenv("VINTERVU_LLM_GEMINI_API_KEY", "env-key")
	t.Setenv("VINTERVU_SERVER_ADDR", ":9999")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.LLM.Gemini.APIKey)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestLoad_DiscoversProviderKey(t *testing.T) {
	clearKeys(t)
	t.Setenv("OPENAI_API_KEY", "sk-discovered")
	path := writeConfig(t, "llm:\n  timeout: 5s\n")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-discovered", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
}

func TestLoad_MissingKeyFails(t *testing.T) {
	clearKeys(t)
	path := writeConfig(t, "llm:\n  provider: anthropic\n")

	_, err := Load(viper.New(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VINTERVU_LLM_ANTHROPIC_API_KEY")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_SpeechReusesOpenAIKey(t *testing.T) {
	clearKeys(t)
	path := writeConfig(t, `
llm:
  provider: openai
  openai:
    api_key: sk-shared
speech:
  provider: openai
`)

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "sk-shared", cfg.Speech.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults with mock", func(c *Config) {}, true},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, false},
		{"unknown speech provider", func(c *Config) { c.Speech.Provider = "polly" }, false},
		{"openai speech without key", func(c *Config) { c.Speech.Provider = "openai" }, false},
		{"zero concurrency", func(c *Config) { c.Interview.FeedbackConcurrency = 0 }, false},
		{"temperature too high", func(c *Config) { c.Interview.Temperature = 3 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.LLM.Provider = "mock"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
