package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vintervu/vintervu/internal/logger"
	"github.com/vintervu/vintervu/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with the
// standard middleware:
//
//	caller → cache → retry → timeout → logging → rate limit → base
//
// eventRepo and cache may be nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, cache CacheClient, log *zap.Logger) (Provider, error) {
	log = logger.OrNop(log)

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	log.Info("llm provider ready",
		zap.String("provider", cfg.Provider),
		zap.String(logger.FieldModel, base.ModelID()),
	)

	p := WithRateLimit(base, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	p = WithLogging(p, cfg.Provider, eventRepo, log)
	p = WithTimeout(p, cfg.Timeout)
	p = WithRetry(p, cfg.Retry, log)
	p = WithCache(p, cache, cfg.Cache.TTL, log)

	return p, nil
}
