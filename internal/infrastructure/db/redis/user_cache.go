package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/simpleusers/users-service/internal/api/metrics"
	"github.com/simpleusers/users-service/internal/core/ports"
)

const (
	defaultCacheTTL = 5 * time.Minute
	// invalidationHold must outlast the slowest storage read, so a load that
	// started before a write cannot cache its result after the write.
	invalidationHold = 15 * time.Second
)

// setUnlessInvalidated stores KEYS[1] for ARGV[2] ms unless the
// invalidation marker KEYS[2] is present.
var setUnlessInvalidated = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return 1
`)

// UserCache keeps user projections in Redis.
// Key format: user:{<id>} with the marker user:{<id>}:invalidated. The
// braces keep both keys in one cluster slot.
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewUserCache wraps client. A non-positive ttl falls back to five minutes.
func NewUserCache(client *redis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &UserCache{client: client, ttl: ttl}
}

var _ ports.UserCache = (*UserCache)(nil)

// Get returns the cached projection, or (nil, nil) on a miss.
func (c *UserCache) Get(ctx context.Context, id int64) (*ports.UserView, error) {
	raw, err := c.client.Get(ctx, userKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("cache get: %w", err)
	}

	view, err := decodeUser(raw)
	if err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return view, nil
}

// Set stores the projection unless the user was invalidated within the
// last invalidationHold.
func (c *UserCache) Set(ctx context.Context, view *ports.UserView) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	keys := []string{userKey(view.ID), invalidatedKey(view.ID)}
	if err := setUnlessInvalidated.Run(ctx, c.client, keys, raw, c.ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the projection and blocks re-caching for
// invalidationHold.
func (c *UserCache) Invalidate(ctx context.Context, id int64) error {
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, invalidatedKey(id), "1", invalidationHold)
	pipe.Del(ctx, userKey(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func userKey(id int64) string {
	return "user:{" + strconv.FormatInt(id, 10) + "}"
}

func invalidatedKey(id int64) string {
	return userKey(id) + ":invalidated"
}

func decodeUser(raw []byte) (*ports.UserView, error) {
	var view ports.UserView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &view, nil
}
