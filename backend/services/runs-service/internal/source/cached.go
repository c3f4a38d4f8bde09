package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hotfire/backend/services/runs-service/internal/models"
)

// Cached keeps parsed rows in Redis. Entries are keyed by name, size and
// modification time so a rewritten file is never served stale. Redis failures
// fall through to the wrapped source.
type Cached struct {
	Source
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCached wraps src with a Redis cache.
func NewCached(src Source, client *redis.Client, ttl time.Duration, logger *zap.Logger) *Cached {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Cached{Source: src, client: client, ttl: ttl, logger: logger}
}

func (c *Cached) key(info models.RunInfo) string {
	return fmt.Sprintf("runs:records:%s:%d:%d", info.Name, info.Size, info.ModTime.UnixNano())
}

// Load returns cached rows when the file is unchanged, else reads and caches them.
func (c *Cached) Load(ctx context.Context, name string) ([]models.Record, error) {
	info, err := c.Source.Stat(ctx, name)
	if err != nil {
		return nil, err
	}
	key := c.key(info)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var records []models.Record
		if err := json.Unmarshal(data, &records); err == nil {
			return records, nil
		}
		c.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("record cache read failed", zap.String("run", info.Name), zap.Error(err))
	}

	records, err := c.Source.Load(ctx, info.Name)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(records); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("record cache write failed", zap.String("run", info.Name), zap.Error(err))
		}
	}
	return records, nil
}
