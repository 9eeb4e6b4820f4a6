package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/casedesk/casedesk/internal/domain/querykeys"
	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/casedesk/casedesk/internal/infrastructure/cache/cachetest"
	"github.com/casedesk/casedesk/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func counter(calls *int32, name string) func(context.Context) ([]item, error) {
	return func(context.Context) ([]item, error) {
		atomic.AddInt32(calls, 1)
		return []item{{Name: name}}, nil
	}
}

func TestFetch_CachesFreshResults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	key := querykeys.Cases.Lists(nil)

	var calls int32
	for i := 0; i < 3; i++ {
		got, err := services.Fetch(ctx, env.queries, key, counter(&calls, "a"))
		require.NoError(t, err)
		assert.Equal(t, []item{{Name: "a"}}, got)
	}
	assert.Equal(t, int32(1), calls)

	state := env.queries.State(ctx, key)
	assert.Equal(t, services.QuerySuccess, state.Status)
	assert.False(t, state.IsStale)
	assert.False(t, state.IsLoading)
	assert.False(t, state.UpdatedAt.IsZero())
}

func TestInvalidate_MarksDescendantsStale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	list := querykeys.Communications.Lists(testFilters{"case_id": "c1"})
	detail := querykeys.Communications.Detail("m1")
	other := querykeys.Cases.Lists(nil)

	var calls int32
	for _, key := range []querykeys.Key{list, detail, other} {
		_, err := services.Fetch(ctx, env.queries, key, counter(&calls, "x"))
		require.NoError(t, err)
	}

	require.NoError(t, env.queries.Invalidate(ctx, querykeys.Communications.Lists(nil)))

	assert.True(t, env.queries.State(ctx, list).IsStale)
	assert.False(t, env.queries.State(ctx, detail).IsStale)
	assert.False(t, env.queries.State(ctx, other).IsStale)

	got, err := services.Fetch(ctx, env.queries, list, counter(&calls, "refetched"))
	require.NoError(t, err)
	assert.Equal(t, "refetched", got[0].Name)
	assert.Equal(t, int32(4), calls)
	assert.False(t, env.queries.State(ctx, list).IsStale)
}

func TestFetch_SupersededResultIsStoredStale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	key := querykeys.Documents.Lists(nil)

	var calls int32
	_, err := services.Fetch(ctx, env.queries, key, func(ctx context.Context) ([]item, error) {
		atomic.AddInt32(&calls, 1)
		// a mutation lands while this read is in flight
		require.NoError(t, env.queries.Invalidate(ctx, querykeys.Documents.All()))
		return []item{{Name: "old"}}, nil
	})
	require.NoError(t, err)
	assert.True(t, env.queries.State(ctx, key).IsStale)

	got, err := services.Fetch(ctx, env.queries, key, counter(&calls, "new"))
	require.NoError(t, err)
	assert.Equal(t, "new", got[0].Name)
	assert.Equal(t, int32(2), calls)
}

// writeHookCache runs hook once, right before the first query entry is
// written.
type writeHookCache struct {
	services.CacheService
	once sync.Once
	hook func()
}

func (c *writeHookCache) HMSet(ctx context.Context, key string, values map[string]interface{}) error {
	if strings.HasPrefix(key, "query:") {
		c.once.Do(c.hook)
	}
	return c.CacheService.HMSet(ctx, key, values)
}

func TestFetch_InvalidationJustBeforeWriteLeavesEntryStale(t *testing.T) {
	ctx := context.Background()
	backing, _ := cachetest.NewRedis(t)
	hooked := &writeHookCache{CacheService: backing}
	qc := services.NewQueryClient(hooked, time.Minute, logger.NewForTesting())
	hooked.hook = func() {
		require.NoError(t, qc.Invalidate(ctx, querykeys.Cases.All()))
	}

	key := querykeys.Cases.Lists(nil)
	var calls int32
	got, err := services.Fetch(ctx, qc, key, counter(&calls, "old"))
	require.NoError(t, err)
	assert.Equal(t, "old", got[0].Name)
	assert.True(t, qc.State(ctx, key).IsStale)

	got, err = services.Fetch(ctx, qc, key, counter(&calls, "new"))
	require.NoError(t, err)
	assert.Equal(t, "new", got[0].Name)
	assert.Equal(t, int32(2), calls)
	assert.False(t, qc.State(ctx, key).IsStale)
}

func TestFetch_DeduplicatesConcurrentCalls(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	key := querykeys.Tasks.Lists(nil)

	release := make(chan struct{})
	var calls int32
	fetcher := func(context.Context) ([]item, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []item{{Name: "t"}}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := services.Fetch(ctx, env.queries, key, fetcher)
			assert.NoError(t, err)
		}()
	}

	require.Eventually(t, func() bool { return env.queries.State(ctx, key).IsLoading }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls)
}

func TestFetch_ErrorIsReportedAndNotCached(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	key := querykeys.Payments.Detail("p1")

	boom := errors.New("boom")
	_, err := services.Fetch(ctx, env.queries, key, func(context.Context) (*item, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	state := env.queries.State(ctx, key)
	assert.Equal(t, services.QueryError, state.Status)
	assert.Equal(t, "boom", state.Error)

	got, err := services.Fetch(ctx, env.queries, key, func(context.Context) (*item, error) {
		return &item{Name: "ok"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got.Name)
}

func TestFetch_NilResultIsCached(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	key := querykeys.Companies.Detail("missing")

	var calls int32
	for i := 0; i < 2; i++ {
		got, err := services.Fetch(ctx, env.queries, key, func(context.Context) (*item, error) {
			atomic.AddInt32(&calls, 1)
			return nil, nil
		})
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	assert.Equal(t, int32(1), calls)
}

func TestRemoveAndSubscribe(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	detail := querykeys.Cases.Detail("c1")

	var mu sync.Mutex
	var events []services.QueryEvent
	unsubscribe := env.queries.Subscribe(querykeys.Cases.All(), func(e services.QueryEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	})

	var calls int32
	_, err := services.Fetch(ctx, env.queries, detail, counter(&calls, "c"))
	require.NoError(t, err)
	require.NoError(t, env.queries.Invalidate(ctx, detail))
	require.NoError(t, env.queries.Remove(ctx, detail))

	assert.Equal(t, services.QueryIdle, env.queries.State(ctx, detail).Status)

	unsubscribe()
	_, err = services.Fetch(ctx, env.queries, detail, counter(&calls, "c"))
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 3)
	assert.Equal(t, services.EventUpdated, events[0].Type)
	assert.Equal(t, services.EventInvalidated, events[1].Type)
	assert.Equal(t, services.EventRemoved, events[2].Type)
	assert.True(t, events[2].Key.Equal(detail))
}

func TestInvalidate_EmptyKey(t *testing.T) {
	env := newTestEnv(t)
	assert.Error(t, env.queries.Invalidate(context.Background(), querykeys.Key{}))
}
