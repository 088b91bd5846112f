// Package lease provides the Redis lock that keeps replicas from sweeping the same tick.
package lease

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cristianortiz/auctionportal/internal/shared/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisLease takes a SET NX lock that simply expires; it is never released early.
type RedisLease struct {
	rdb   *redis.Client
	owner string
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewRedisLease(rdb *redis.Client) *RedisLease {
	host, _ := os.Hostname()
	return &RedisLease{rdb: rdb, owner: host + "/" + uuid.NewString()}
}

func (l *RedisLease) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, key, l.owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("lease: acquire %s: %w", key, err)
	}
	return ok, nil
}

// Ping checks the connection at startup.
func (l *RedisLease) Ping(ctx context.Context) error {
	return l.rdb.Ping(ctx).Err()
}
