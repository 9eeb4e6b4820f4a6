package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/casedesk/casedesk/internal/domain/querykeys"
	"github.com/casedesk/casedesk/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// QueryStatus is the lifecycle state of one cached read.
type QueryStatus string

const (
	QueryIdle    QueryStatus = "idle"
	QueryLoading QueryStatus = "loading"
	QuerySuccess QueryStatus = "success"
	QueryError   QueryStatus = "error"
)

// QueryState is what a caller can observe about a key.
type QueryState struct {
	Status    QueryStatus `json:"status"`
	IsLoading bool        `json:"is_loading"`
	IsStale   bool        `json:"is_stale"`
	Error     string      `json:"error,omitempty"`
	UpdatedAt time.Time   `json:"updated_at,omitempty"`
}

type QueryEventType string

const (
	EventUpdated     QueryEventType = "updated"
	EventInvalidated QueryEventType = "invalidated"
	EventRemoved     QueryEventType = "removed"
)

type QueryEvent struct {
	Type QueryEventType
	Key  querykeys.Key
}

const (
	entryFieldData      = "data"
	entryFieldStale     = "stale"
	entryFieldUpdatedAt = "updated_at"
)

// QueryClient caches read results under query keys and keeps them in sync
// with mutations through prefix invalidation. Entries live in the
// CacheService so every replica sees the same freshness.
//
// Each entity namespace carries a generation counter bumped by every
// invalidation touching it. A fetch that observes a different generation
// before or right after writing its result leaves the entry stale.
type QueryClient struct {
	cache  CacheService
	ttl    time.Duration
	logger *logger.Logger

	group singleflight.Group

	mu      sync.Mutex
	local   map[string]*QueryState
	subs    map[int]subscription
	nextSub int
}

type subscription struct {
	prefix querykeys.Key
	fn     func(QueryEvent)
}

func NewQueryClient(cache CacheService, ttl time.Duration, log *logger.Logger) *QueryClient {
	if ttl <= 0 {
		ttl = CacheMediumTerm
	}
	return &QueryClient{
		cache:  cache,
		ttl:    ttl,
		logger: log,
		local:  make(map[string]*QueryState),
		subs:   make(map[int]subscription),
	}
}

// Fetch returns the cached value for key when it is fresh, otherwise runs
// fetcher once per key across concurrent callers and caches the result.
func Fetch[T any](ctx context.Context, qc *QueryClient, key querykeys.Key, fetcher func(context.Context) (T, error)) (T, error) {
	var zero T

	if data, ok := qc.fresh(ctx, key); ok {
		var out T
		if err := json.Unmarshal(data, &out); err == nil {
			return out, nil
		}
		qc.logger.Warn("Discarding undecodable cache entry", "key", key.String())
	}

	v, err, _ := qc.group.Do(key.String(), func() (interface{}, error) {
		return qc.load(ctx, key, func(ctx context.Context) (interface{}, error) {
			return fetcher(ctx)
		})
	})
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal(v.([]byte), &out); err != nil {
		return zero, fmt.Errorf("failed to decode %s: %w", key.String(), err)
	}
	return out, nil
}

func (qc *QueryClient) fresh(ctx context.Context, key querykeys.Key) ([]byte, bool) {
	entry, err := qc.cache.HGetAll(ctx, qc.entryKey(key))
	if err != nil {
		qc.logger.Warn("Query cache read failed", "key", key.String(), "error", err)
		return nil, false
	}
	data, ok := entry[entryFieldData]
	if !ok || entry[entryFieldStale] != "0" {
		return nil, false
	}
	return []byte(data), true
}

func (qc *QueryClient) load(ctx context.Context, key querykeys.Key, fetcher func(context.Context) (interface{}, error)) ([]byte, error) {
	startGen := qc.generation(ctx, key.Entity())
	qc.setLocal(key, func(s *QueryState) {
		s.Status = QueryLoading
		s.IsLoading = true
	})

	value, err := fetcher(ctx)
	if err != nil {
		qc.setLocal(key, func(s *QueryState) {
			s.Status = QueryError
			s.IsLoading = false
			s.Error = err.Error()
		})
		return nil, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", key.String(), err)
	}

	stale := qc.generation(ctx, key.Entity()) != startGen
	now := time.Now().UTC()
	qc.store(ctx, key, data, stale, now)
	if !stale && qc.generation(ctx, key.Entity()) != startGen {
		// An invalidation landed between the check and the write and may
		// have been overwritten. Anything bumping later finds the key in
		// the index, since store indexes it before this read.
		qc.markStale(ctx, key)
	}

	qc.setLocal(key, func(s *QueryState) {
		s.Status = QuerySuccess
		s.IsLoading = false
		s.Error = ""
		s.UpdatedAt = now
	})
	qc.notify(QueryEvent{Type: EventUpdated, Key: key})
	return data, nil
}

func (qc *QueryClient) store(ctx context.Context, key querykeys.Key, data []byte, stale bool, at time.Time) {
	entryKey := qc.entryKey(key)
	err := qc.cache.HMSet(ctx, entryKey, map[string]interface{}{
		entryFieldData:      data,
		entryFieldStale:     boolFlag(stale),
		entryFieldUpdatedAt: at.Format(time.RFC3339Nano),
	})
	if err == nil {
		err = qc.cache.Expire(ctx, entryKey, qc.ttl)
	}
	if err == nil {
		err = qc.cache.SAdd(ctx, qc.indexKey(key.Entity()), key.String())
	}
	if err != nil {
		qc.logger.Warn("Query cache write failed", "key", key.String(), "error", err)
	}
}

func (qc *QueryClient) markStale(ctx context.Context, key querykeys.Key) {
	if err := qc.cache.HSet(ctx, qc.entryKey(key), entryFieldStale, boolFlag(true)); err != nil {
		qc.logger.Warn("Failed to mark query stale", "key", key.String(), "error", err)
	}
}

// Invalidate marks every cached key under prefix stale. The next Fetch of
// any of them goes back to the store.
func (qc *QueryClient) Invalidate(ctx context.Context, prefix querykeys.Key) error {
	entity := prefix.Entity()
	if entity == "" {
		return errors.New("cannot invalidate an empty key")
	}

	if _, err := qc.cache.Increment(ctx, fmt.Sprintf(QueryGenerationKeyPattern, entity)); err != nil {
		return fmt.Errorf("failed to bump generation of %s: %w", entity, err)
	}

	members, err := qc.cache.SMembers(ctx, qc.indexKey(entity))
	if err != nil {
		return fmt.Errorf("failed to read query index of %s: %w", entity, err)
	}

	var invalidated []querykeys.Key
	for _, member := range members {
		key, err := querykeys.Parse(member)
		if err != nil || !key.HasPrefix(prefix) {
			continue
		}
		entryKey := qc.entryKey(key)
		exists, err := qc.cache.Exists(ctx, entryKey)
		if err != nil {
			return fmt.Errorf("failed to invalidate %s: %w", member, err)
		}
		if !exists {
			// expired entry, drop it from the index
			_ = qc.cache.SRem(ctx, qc.indexKey(entity), member)
			continue
		}
		if err := qc.cache.HSet(ctx, entryKey, entryFieldStale, boolFlag(true)); err != nil {
			return fmt.Errorf("failed to invalidate %s: %w", member, err)
		}
		invalidated = append(invalidated, key)
	}

	qc.logger.Debug("Invalidated queries", "prefix", prefix.String(), "count", len(invalidated))
	for _, key := range invalidated {
		qc.notify(QueryEvent{Type: EventInvalidated, Key: key})
	}
	return nil
}

// Remove evicts one entry entirely, used when its record was deleted.
func (qc *QueryClient) Remove(ctx context.Context, key querykeys.Key) error {
	if err := qc.cache.Delete(ctx, qc.entryKey(key)); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key.String(), err)
	}
	if err := qc.cache.SRem(ctx, qc.indexKey(key.Entity()), key.String()); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key.String(), err)
	}

	qc.mu.Lock()
	delete(qc.local, key.String())
	qc.mu.Unlock()

	qc.notify(QueryEvent{Type: EventRemoved, Key: key})
	return nil
}

// State reports the observable state of key.
func (qc *QueryClient) State(ctx context.Context, key querykeys.Key) QueryState {
	qc.mu.Lock()
	state := QueryState{Status: QueryIdle}
	if s, ok := qc.local[key.String()]; ok {
		state = *s
	}
	qc.mu.Unlock()

	entry, err := qc.cache.HGetAll(ctx, qc.entryKey(key))
	if err != nil || len(entry) == 0 {
		if state.Status == QuerySuccess {
			// evicted elsewhere
			state.Status = QueryIdle
		}
		return state
	}

	state.IsStale = entry[entryFieldStale] != "0"
	if at, err := time.Parse(time.RFC3339Nano, entry[entryFieldUpdatedAt]); err == nil {
		state.UpdatedAt = at
	}
	if state.Status == QueryIdle {
		state.Status = QuerySuccess
	}
	return state
}

// Subscribe calls fn for every event on a key under prefix. The returned
// func removes the subscription.
func (qc *QueryClient) Subscribe(prefix querykeys.Key, fn func(QueryEvent)) func() {
	qc.mu.Lock()
	id := qc.nextSub
	qc.nextSub++
	qc.subs[id] = subscription{prefix: prefix, fn: fn}
	qc.mu.Unlock()

	return func() {
		qc.mu.Lock()
		delete(qc.subs, id)
		qc.mu.Unlock()
	}
}

func (qc *QueryClient) notify(event QueryEvent) {
	qc.mu.Lock()
	var fns []func(QueryEvent)
	for _, sub := range qc.subs {
		if event.Key.HasPrefix(sub.prefix) {
			fns = append(fns, sub.fn)
		}
	}
	qc.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

func (qc *QueryClient) setLocal(key querykeys.Key, update func(*QueryState)) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	s, ok := qc.local[key.String()]
	if !ok {
		s = &QueryState{Status: QueryIdle}
		qc.local[key.String()] = s
	}
	update(s)
}

func (qc *QueryClient) generation(ctx context.Context, entity string) int64 {
	raw, err := qc.cache.Get(ctx, fmt.Sprintf(QueryGenerationKeyPattern, entity))
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			qc.logger.Warn("Failed to read query generation", "entity", entity, "error", err)
		}
		return 0
	}
	n, _ := strconv.ParseInt(raw, 10, 64)
	return n
}

func (qc *QueryClient) entryKey(key querykeys.Key) string {
	return fmt.Sprintf(QueryEntryKeyPattern, key.String())
}

func (qc *QueryClient) indexKey(entity string) string {
	return fmt.Sprintf(QueryIndexKeyPattern, entity)
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
