package xcache

import (
	"context"
)

// NewDiscard returns a new cache implementation which discards all operations.
// Get still consults the loader, so callers behave the same with or without caching.
func NewDiscard[T any]() Cache[T] {
	return discardCacheImpl[T]{}
}

type discardCacheImpl[T any] struct{}

func (s discardCacheImpl[T]) Get(ctx context.Context, key string, options ...Option[T]) (T, bool) {
	return MakeOptions(options...).Loader(ctx, key)
}

func (s discardCacheImpl[T]) Set(_ context.Context, _ string, _ T, _ ...Option[T]) {}

func (s discardCacheImpl[T]) Delete(_ context.Context, _ string) {}
