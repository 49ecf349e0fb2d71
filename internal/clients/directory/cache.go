package directory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
)

// cachedClient memoizes directory lookups in Redis. Profiles change rarely,
// so a stale entry within the TTL is acceptable. Redis failures degrade to
// the inner client, never to a request failure.
type cachedClient struct {
	inner Client
	rdb   *redis.Client
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedClient(inner Client, rdb *redis.Client, ttl time.Duration, baseLog *logger.Logger) Client {
	return &cachedClient{
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
		log:   baseLog.With("client", "DirectoryCache"),
	}
}

func cacheKey(intranetID string) string { return "directory:profile:" + intranetID }

func (c *cachedClient) QueryProfile(ctx context.Context, intranetID string) (*Profile, error) {
	raw, err := c.rdb.Get(ctx, cacheKey(intranetID)).Bytes()
	if err == nil {
		var p Profile
		if err := json.Unmarshal(raw, &p); err == nil {
			return &p, nil
		}
		c.log.Warn("dropping undecodable cache entry", "intranetID", intranetID)
	} else if err != redis.Nil {
		c.log.Warn("redis get failed, falling through", "error", err)
	}

	p, err := c.inner.QueryProfile(ctx, intranetID)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(p); err == nil {
		if err := c.rdb.Set(ctx, cacheKey(intranetID), raw, c.ttl).Err(); err != nil {
			c.log.Warn("redis set failed", "error", err)
		}
	}
	return p, nil
}
