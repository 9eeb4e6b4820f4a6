package services

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get and RPop when the key or field is absent.
var ErrCacheMiss = errors.New("cache miss")

// CacheService interface for caching operations
type CacheService interface {
	// Basic operations
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error

	// Atomic operations
	Increment(ctx context.Context, key string) (int64, error)

	// Hash operations for structured data
	HSet(ctx context.Context, key string, field string, value interface{}) error
	HMSet(ctx context.Context, key string, values map[string]interface{}) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	// List operations for queues
	LPush(ctx context.Context, key string, values ...interface{}) error
	RPop(ctx context.Context, key string) (string, error)

	// Set operations for unique collections
	SAdd(ctx context.Context, key string, members ...interface{}) error
	SRem(ctx context.Context, key string, members ...interface{}) error
	SMembers(ctx context.Context, key string) ([]string, error)

	// Health check
	Ping(ctx context.Context) error
	Close() error
}

// Cache key patterns for the application
const (
	// Query cache: one hash per query key, one index set per entity namespace
	QueryEntryKeyPattern      = "query:%s"       // query key string
	QueryGenerationKeyPattern = "query_gen:%s"   // entity name
	QueryIndexKeyPattern      = "query_index:%s" // entity name

	// Toast notifications waiting to be picked up by the portal
	NotificationQueueKeyPattern = "notifications:%s" // user id
)

// Common cache durations
const (
	CacheShortTerm  = 5 * time.Minute
	CacheMediumTerm = 30 * time.Minute
	CacheLongTerm   = 2 * time.Hour
	CacheDay        = 24 * time.Hour
	CacheWeek       = 7 * 24 * time.Hour

	// Notifications nobody picks up are dropped after a week
	NotificationRetention = CacheWeek
)
