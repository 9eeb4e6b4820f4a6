package cache

import (
	"fmt"
	"strings"

	"github.com/casedesk/casedesk/internal/domain/services"
)

// MemoryURL selects the in-process cache instead of Redis.
const MemoryURL = "memory"

// CreateCacheService builds a CacheService from a Redis URL. "memory" (or an
// empty URL) gives an in-process store, used by tests and single-node dev.
func CreateCacheService(url string) (services.CacheService, error) {
	url = strings.TrimSpace(url)
	if url == "" || url == MemoryURL {
		return NewMemoryCache(), nil
	}

	cache, err := NewRedisCache(url)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis cache: %w", err)
	}
	return cache, nil
}
