// Package cachetest provides a Redis-backed CacheService for tests.
package cachetest

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/casedesk/casedesk/internal/infrastructure/cache"
	"github.com/redis/go-redis/v9"
)

// NewRedis starts an in-process Redis server for the duration of the test
// and returns a RedisCache connected to it. The server is returned too, so
// tests can move its clock or inspect raw keys.
func NewRedis(t testing.TB) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisCacheFromClient(client), server
}
