package handlers

import (
	"testing"

	"stock-portfolio/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func miniredisCache(t *testing.T) *cache.RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewRedisCache(rdb, "")
}
