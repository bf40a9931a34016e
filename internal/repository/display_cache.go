package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"friender-bender/internal/domain"
	"friender-bender/internal/metrics"
)

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedDisplayLookup guarda en redis los datos de presentación por usuario.
// Si redis falla se consulta directamente a next.
type CachedDisplayLookup struct {
	client redisKV
	next   DisplayMetadataLookup
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

func NewCachedDisplayLookup(client *redis.Client, next DisplayMetadataLookup, ttl time.Duration, logger *zap.Logger) *CachedDisplayLookup {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedDisplayLookup{
		client: client,
		next:   next,
		ttl:    ttl,
		prefix: "display:",
		logger: logger,
	}
}

func (c *CachedDisplayLookup) FindDisplayMetadata(ctx context.Context, userID string) (domain.DisplayMetadata, error) {
	key := c.prefix + strings.TrimSpace(userID)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var meta domain.DisplayMetadata
		if jsonErr := json.Unmarshal(raw, &meta); jsonErr == nil {
			metrics.DisplayCacheTotal.WithLabelValues("hit").Inc()
			return meta, nil
		}
		metrics.DisplayCacheTotal.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		metrics.DisplayCacheTotal.WithLabelValues("miss").Inc()
	default:
		metrics.DisplayCacheTotal.WithLabelValues("error").Inc()
		c.logger.Debug("display cache get failed", zap.String("user_id", userID), zap.Error(err))
	}

	meta, err := c.next.FindDisplayMetadata(ctx, userID)
	if err != nil {
		return domain.DisplayMetadata{}, err
	}

	if payload, err := json.Marshal(meta); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Debug("display cache set failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return meta, nil
}

// Invalidate descarta la entrada de un usuario tras editar su perfil.
func (c *CachedDisplayLookup) Invalidate(ctx context.Context, userID string) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, c.prefix+strings.TrimSpace(userID)).Err()
}
