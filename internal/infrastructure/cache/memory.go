package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/casedesk/casedesk/internal/domain/services"
)

// MemoryCache is an in-process services.CacheService. Every instance is
// isolated, which lets tests run against a fresh cache each.
type MemoryCache struct {
	mu      sync.Mutex
	strings map[string]string
	hashes  map[string]map[string]string
	lists   map[string][]string
	sets    map[string]map[string]struct{}
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		strings: make(map[string]string),
		hashes:  make(map[string]map[string]string),
		lists:   make(map[string][]string),
		sets:    make(map[string]map[string]struct{}),
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.del(key)
	m.strings[key] = toString(value)
	m.setExpiry(key, expiration)
	return nil
}

func (m *MemoryCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictIfExpired(key)
	v, ok := m.strings[key]
	if !ok {
		return "", services.ErrCacheMiss
	}
	return v, nil
}

func (m *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		m.del(k)
	}
	return nil
}

func (m *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictIfExpired(key)
	return m.exists(key), nil
}

func (m *MemoryCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictIfExpired(key)
	if m.exists(key) {
		m.setExpiry(key, expiration)
	}
	return nil
}

func (m *MemoryCache) Increment(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictIfExpired(key)
	var n int64
	if v, ok := m.strings[key]; ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("value at %s is not an integer", key)
		}
		n = parsed
	}
	n++
	m.strings[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (m *MemoryCache) HSet(ctx context.Context, key string, field string, value interface{}) error {
	return m.HMSet(ctx, key, map[string]interface{}{field: value})
}

func (m *MemoryCache) HMSet(ctx context.Context, key string, values map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictIfExpired(key)
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string, len(values))
		m.hashes[key] = h
	}
	for f, v := range values {
		h[f] = toString(v)
	}
	return nil
}

func (m *MemoryCache) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictIfExpired(key)
	out := make(map[string]string, len(m.hashes[key]))
	for f, v := range m.hashes[key] {
		out[f] = v
	}
	return out, nil
}

func (m *MemoryCache) LPush(ctx context.Context, key string, values ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictIfExpired(key)
	for _, v := range values {
		m.lists[key] = append([]string{toString(v)}, m.lists[key]...)
	}
	return nil
}

func (m *MemoryCache) RPop(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictIfExpired(key)
	l := m.lists[key]
	if len(l) == 0 {
		return "", services.ErrCacheMiss
	}
	v := l[len(l)-1]
	if len(l) == 1 {
		delete(m.lists, key)
	} else {
		m.lists[key] = l[:len(l)-1]
	}
	return v, nil
}

func (m *MemoryCache) SAdd(ctx context.Context, key string, members ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictIfExpired(key)
	s, ok := m.sets[key]
	if !ok {
		s = make(map[string]struct{}, len(members))
		m.sets[key] = s
	}
	for _, v := range members {
		s[toString(v)] = struct{}{}
	}
	return nil
}

func (m *MemoryCache) SRem(ctx context.Context, key string, members ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.sets[key]
	for _, v := range members {
		delete(s, toString(v))
	}
	if len(s) == 0 {
		delete(m.sets, key)
	}
	return nil
}

func (m *MemoryCache) SMembers(ctx context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictIfExpired(key)
	out := make([]string, 0, len(m.sets[key]))
	for v := range m.sets[key] {
		out = append(out, v)
	}
	return out, nil
}

func (m *MemoryCache) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryCache) Close() error {
	return nil
}

func (m *MemoryCache) exists(key string) bool {
	if _, ok := m.strings[key]; ok {
		return true
	}
	if _, ok := m.hashes[key]; ok {
		return true
	}
	if _, ok := m.lists[key]; ok {
		return true
	}
	_, ok := m.sets[key]
	return ok
}

func (m *MemoryCache) del(key string) {
	delete(m.strings, key)
	delete(m.hashes, key)
	delete(m.lists, key)
	delete(m.sets, key)
	delete(m.expires, key)
}

func (m *MemoryCache) setExpiry(key string, expiration time.Duration) {
	if expiration > 0 {
		m.expires[key] = m.now().Add(expiration)
	} else {
		delete(m.expires, key)
	}
}

func (m *MemoryCache) evictIfExpired(key string) {
	if at, ok := m.expires[key]; ok && !m.now().Before(at) {
		m.del(key)
	}
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(v)
	}
}
