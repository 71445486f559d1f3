// Package cache is a thin optional layer over redis. When no address is
// configured every call is a no-op, so handlers never have to care.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"civicworks/internal/logger"
)

var rdb *redis.Client

func Init(addr string) {
	if addr == "" {
		return
	}
	rdb = redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.L.Warn("redis unreachable, cache disabled")
		rdb = nil
	}
}

func Get(ctx context.Context, key string) ([]byte, bool) {
	if rdb == nil {
		return nil, false
	}
	val, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if rdb == nil {
		return
	}
	_ = rdb.Set(ctx, key, val, ttl).Err()
}

func Invalidate(ctx context.Context, keys ...string) {
	if rdb == nil || len(keys) == 0 {
		return
	}
	_ = rdb.Del(ctx, keys...).Err()
}
