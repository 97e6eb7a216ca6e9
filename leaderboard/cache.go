package leaderboard

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const iconPrefix = "xdares:leaderboard:icon:"

// CachedIcons memoizes icon lookups in Redis for ttl. Redis failures are
// logged and fall through to the wrapped source.
type CachedIcons struct {
	next   IconSource
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedIcons(next IconSource, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedIcons {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedIcons{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CachedIcons) Icon(ctx context.Context, dareNumber int64) (string, error) {
	key := iconPrefix + strconv.FormatInt(dareNumber, 10)

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil && cached != "":
		return cached, nil
	case err != nil && !errors.Is(err, redis.Nil):
		c.logger.Warn("icon cache read failed", zap.String("key", key), zap.Error(err))
	}

	icon, err := c.next.Icon(ctx, dareNumber)
	if err != nil {
		return "", err
	}
	if err := c.rdb.Set(ctx, key, icon, c.ttl).Err(); err != nil {
		c.logger.Warn("icon cache write failed", zap.String("key", key), zap.Error(err))
	}
	return icon, nil
}

// NewRedis parses url (redis://host:port/db) into a client.
func NewRedis(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}
