package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vintervu/vintervu/internal/logger"
)

const (
	cacheKeyPrefix      = "vintervu:llm:"
	cacheConnectTimeout = 5 * time.Second
	defaultCachePool    = 10
)

// CacheClient is the subset of the Redis client used by the response cache.
type CacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// CacheProvider serves repeated deterministic requests from Redis.
// Requests with a non-zero temperature always go to the inner provider.
// Redis failures degrade to a cache bypass.
type CacheProvider struct {
	inner  Provider
	client CacheClient
	ttl    time.Duration
	log    *zap.Logger
}

type cachedResponse struct {
	Content    string `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
}

// WithCache wraps p with a Redis response cache. A nil client disables it.
func WithCache(p Provider, client CacheClient, ttl time.Duration, log *zap.Logger) Provider {
	if client == nil {
		return p
	}
	return &CacheProvider{inner: p, client: client, ttl: ttl, log: logger.OrNop(log)}
}

// NewRedisClient connects to Redis and verifies the connection. Callers
// treat an error as "run without a cache".
func NewRedisClient(ctx context.Context, cfg CacheConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: defaultCachePool,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cacheConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

func (c *CacheProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.Temperature != 0 {
		return c.inner.Generate(ctx, req)
	}

	key := c.key(req)
	fields := logger.LLMFields(PurposeFrom(ctx), c.inner.ModelID())

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var hit cachedResponse
		if jerr := json.Unmarshal(raw, &hit); jerr == nil {
			c.log.Debug("llm cache hit", fields...)
			return &Response{
				Content:    json.RawMessage(hit.Content),
				Model:      hit.Model,
				StopReason: hit.StopReason,
				Cached:     true,
			}, nil
		}
		c.log.Warn("llm cache entry unreadable", append(fields, zap.String("key", key))...)
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("llm cache read failed", append(fields, zap.Error(err))...)
	}

	resp, err := c.inner.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(cachedResponse{
		Content:    string(resp.Content),
		Model:      resp.Model,
		StopReason: resp.StopReason,
	})
	if err == nil {
		if serr := c.client.Set(ctx, key, payload, c.ttl).Err(); serr != nil {
			c.log.Warn("llm cache write failed", append(fields, zap.Error(serr))...)
		}
	}
	return resp, nil
}

func (c *CacheProvider) ModelID() string {
	return c.inner.ModelID()
}

func (c *CacheProvider) key(req Request) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\n%d\n", c.inner.ModelID(), req.MaxTokens)
	h.Write([]byte(serializeRequest(req)))
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
