package services

import (
	"context"

	"github.com/casedesk/casedesk/internal/domain/querykeys"
	"github.com/casedesk/casedesk/pkg/logger"
)

// cacheEffects lists what a successful mutation does to the query cache.
type cacheEffects struct {
	invalidate []querykeys.Key
	remove     []querykeys.Key
}

func (e *cacheEffects) Invalidate(keys ...querykeys.Key) {
	e.invalidate = append(e.invalidate, keys...)
}

func (e *cacheEffects) Remove(keys ...querykeys.Key) {
	e.remove = append(e.remove, keys...)
}

// mutationOp names a mutation for notifications and logs.
type mutationOp struct {
	name    string // e.g. "update case"
	success string // toast title on success
	failure string // toast title on failure
}

// mutationRunner executes writes: store call, cache effects, then exactly
// one notification. Nothing is retried.
type mutationRunner struct {
	queries  *QueryClient
	notifier Notifier
	logger   *logger.Logger
}

func newMutationRunner(queries *QueryClient, notifier Notifier, log *logger.Logger) *mutationRunner {
	return &mutationRunner{queries: queries, notifier: notifier, logger: log}
}

func mutate[T any](
	ctx context.Context,
	r *mutationRunner,
	op mutationOp,
	call func(context.Context) (T, error),
	effects func(T, *cacheEffects),
) (T, error) {
	result, err := call(ctx)
	if err != nil {
		r.logger.Warn("Mutation failed", "op", op.name, "error", err)
		r.notifier.Failure(ctx, op.failure, err)
		return result, err
	}

	var fx cacheEffects
	if effects != nil {
		effects(result, &fx)
	}
	// cache errors never fail a write that already happened
	for _, key := range fx.remove {
		if err := r.queries.Remove(ctx, key); err != nil {
			r.logger.Warn("Failed to evict query", "op", op.name, "key", key.String(), "error", err)
		}
	}
	for _, key := range fx.invalidate {
		if err := r.queries.Invalidate(ctx, key); err != nil {
			r.logger.Warn("Failed to invalidate queries", "op", op.name, "key", key.String(), "error", err)
		}
	}

	r.notifier.Success(ctx, op.success, "")
	return result, nil
}

// deletion adapts a delete call to mutate.
func deletion(call func(context.Context) error) func(context.Context) (struct{}, error) {
	return func(ctx context.Context) (struct{}, error) {
		return struct{}{}, call(ctx)
	}
}
