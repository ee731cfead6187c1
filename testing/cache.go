package testing

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTestCacheUnavailable is returned when no Redis server is reachable for tests
var ErrTestCacheUnavailable = errors.New("test redis unavailable")

// TestCache is a Redis client whose keys all live under Prefix
type TestCache struct {
	Client *redis.Client
	Prefix string
}

// SetupTestCache connects to TEST_REDIS_URL and picks a key prefix unique to the run
func SetupTestCache() (*TestCache, error) {
	opt, err := redis.ParseURL(getEnv("TEST_REDIS_URL", "redis://localhost:6379/15"))
	if err != nil {
		return nil, fmt.Errorf("invalid TEST_REDIS_URL: %w", err)
	}

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("%w: %v", ErrTestCacheUnavailable, err)
	}

	return &TestCache{
		Client: rc,
		Prefix: fmt.Sprintf("pastane_test:%d_%d:", time.Now().Unix(), rand.Intn(10000)),
	}, nil
}

// Cleanup removes every key under the prefix and closes the client
func (c *TestCache) Cleanup() error {
	ctx := context.Background()
	iter := c.Client.Scan(ctx, 0, c.Prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.Client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return c.Client.Close()
}
