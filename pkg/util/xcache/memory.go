package xcache

import (
	"context"
	"math"
	"time"

	"github.com/maypok86/otter"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is the lifetime of entries in the memory cache.
const DefaultTTL = time.Hour

// NewMemory returns a new cache implementation based on memory.
func NewMemory[T any]() Cache[T] {
	return NewMemoryWithTTL[T](DefaultTTL)
}

// NewMemoryWithTTL returns a memory cache whose entries expire after ttl.
func NewMemoryWithTTL[T any](ttl time.Duration) Cache[T] {
	cache, err := otter.MustBuilder[string, T](math.MaxInt).
		WithTTL(ttl).
		Build()
	if err != nil {
		panic(err)
	}
	return &memoryCacheImpl[T]{
		cache: cache,
	}
}

type memoryCacheImpl[T any] struct {
	cache     otter.Cache[string, T]
	loadGroup singleflight.Group
}

type loadResult[T any] struct {
	value T
	ok    bool
}

// Get returns the value of the key. Concurrent misses on the same key share
// a single loader call.
func (s *memoryCacheImpl[T]) Get(ctx context.Context, key string, options ...Option[T]) (T, bool) {
	if v, ok := s.cache.Get(key); ok {
		return v, true
	}
	o := MakeOptions(options...)
	loaded, _, _ := s.loadGroup.Do(key, func() (interface{}, error) {
		if v, ok := s.cache.Get(key); ok {
			return loadResult[T]{value: v, ok: true}, nil
		}
		value, ok := o.Loader(ctx, key)
		if ok {
			s.cache.Set(key, value)
		}
		return loadResult[T]{value: value, ok: ok}, nil
	})
	result := loaded.(loadResult[T])
	return result.value, result.ok
}

// Set saves the value of the key.
func (s *memoryCacheImpl[T]) Set(_ context.Context, key string, value T, _ ...Option[T]) {
	s.cache.Set(key, value)
}

// Delete removes the value of the key.
func (s *memoryCacheImpl[T]) Delete(_ context.Context, key string) {
	s.cache.Delete(key)
}
