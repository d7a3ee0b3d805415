package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/vintervu/vintervu/internal/logger"
)

// RetryProvider retries transient failures with exponential backoff and
// ±20% jitter. A schema violation is retried once; the model rarely repeats
// the same malformed reply.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	log    *zap.Logger
}

// WithRetry wraps p with retry logic. MaxAttempts below 1 means one attempt.
func WithRetry(p Provider, cfg RetryConfig, log *zap.Logger) Provider {
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)
	return &RetryProvider{inner: p, config: cfg, log: logger.OrNop(log)}
}

type retryVerdict int

const (
	giveUp retryVerdict = iota
	retryTransient
	retryInvalid
)

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err            error
		resp           *Response
		retriedInvalid bool
	)
	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		if resp, err = r.inner.Generate(ctx, req); err == nil {
			return resp, nil
		}

		switch classifyRetry(ctx, err) {
		case giveUp:
			return nil, err
		case retryInvalid:
			if retriedInvalid {
				return nil, err
			}
			retriedInvalid = true
		}

		if attempt == r.config.MaxAttempts-1 {
			break
		}

		wait := r.delay(attempt, err)
		r.log.Debug("retrying llm request",
			zap.String(logger.FieldPurpose, PurposeFrom(ctx)),
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, err
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// classifyRetry decides whether err is worth another attempt.
func classifyRetry(ctx context.Context, err error) retryVerdict {
	if ctx.Err() != nil {
		return giveUp
	}

	var (
		timeout *ErrTimeout
		maxTok  *ErrMaxTokensExceeded
		invalid *ErrInvalidResponse
	)
	switch {
	case errors.As(err, &timeout):
		// Per-call deadline; the caller is still waiting.
		return retryTransient
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return giveUp
	case errors.As(err, &maxTok):
		return giveUp
	case errors.As(err, &invalid):
		return retryInvalid
	default:
		// Rate limits, outages and unknown transport errors.
		return retryTransient
	}
}

// delay is the pause before the attempt after attempt. A rate limit with
// RetryAfter overrides the backoff.
func (r *RetryProvider) delay(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	wait = math.Min(wait, float64(r.config.MaxWait))
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(wait, 0))
}
