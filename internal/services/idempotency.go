package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"shipping-system/internal/repositories"
	apperrors "shipping-system/pkg/errors"
)

const (
	idempotencyPending = "__pending__"
	// idempotencyCleanupTimeout bounds the release or store that follows fn.
	idempotencyCleanupTimeout = 5 * time.Second
)

// IdempotencyStore remembers the result of a keyed request so a retry returns
// the first answer instead of repeating the side effects.
// The in-flight marker expires after pendingTTL, so a request that dies
// between claim and completion blocks retries only briefly.
type IdempotencyStore struct {
	cache      repositories.CacheRepositoryInterface
	ttl        time.Duration
	pendingTTL time.Duration
	logger     *zap.Logger
}

func NewIdempotencyStore(cache repositories.CacheRepositoryInterface, ttl, pendingTTL time.Duration, logger *zap.Logger) *IdempotencyStore {
	if pendingTTL <= 0 || pendingTTL > ttl {
		pendingTTL = ttl
	}
	return &IdempotencyStore{cache: cache, ttl: ttl, pendingTTL: pendingTTL, logger: logger}
}

func idempotencyKey(scope, key string) string {
	return "idempotency:" + scope + ":" + key
}

// withIdempotency runs fn at most once per (scope, key). An empty key, a nil
// store or an unreachable cache runs fn unguarded.
func withIdempotency[T any](ctx context.Context, store *IdempotencyStore, scope, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if key == "" || store == nil || store.cache == nil {
		return fn(ctx)
	}
	cacheKey := idempotencyKey(scope, key)

	acquired, err := store.cache.SetNX(ctx, cacheKey, idempotencyPending, store.pendingTTL)
	if err != nil {
		store.logger.Warn("idempotency cache unavailable, running unguarded", zap.String("key", cacheKey), zap.Error(err))
		return fn(ctx)
	}

	if !acquired {
		cached, err := store.cache.Get(ctx, cacheKey)
		if err != nil && !errors.Is(err, repositories.ErrCacheMiss) {
			return zero, err
		}
		if errors.Is(err, repositories.ErrCacheMiss) || cached == idempotencyPending {
			return zero, apperrors.NewConflictError("Request with idempotency key %s is already in progress", key)
		}
		var result T
		if err := json.Unmarshal([]byte(cached), &result); err != nil {
			return zero, err
		}
		store.logger.Info("idempotent replay", zap.String("key", cacheKey))
		return result, nil
	}

	result, err := fn(ctx)

	// The caller may have gone away; the key still has to be settled.
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), idempotencyCleanupTimeout)
	defer cancel()

	if err != nil {
		if delErr := store.cache.Del(cleanupCtx, cacheKey); delErr != nil {
			store.logger.Warn("failed to release idempotency key", zap.String("key", cacheKey), zap.Error(delErr))
		}
		return zero, err
	}

	encoded, err := json.Marshal(result)
	if err == nil {
		err = store.cache.Set(cleanupCtx, cacheKey, encoded, store.ttl)
	}
	if err != nil {
		store.logger.Warn("failed to store idempotent result", zap.String("key", cacheKey), zap.Error(err))
	}
	return result, nil
}
