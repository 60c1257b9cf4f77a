package distribution

import (
	"context"
	"errors"
)

var _ Iterator[string] = IteratorFunc[string](nil)

// ErrIteratorDone indicates the iterator is complete.
var ErrIteratorDone = errors.New("iterator done")

// Iterator is the interface for list operation.
type Iterator[T any] interface {
	// Next called for next page. If no more items to iterate, returns error with [ErrIteratorDone].
	Next(ctx context.Context) ([]T, error)
}

// IteratorFunc is a function that implements [Iterator].
type IteratorFunc[T any] func(context.Context) ([]T, error)

// Next called for next page.
func (fn IteratorFunc[T]) Next(ctx context.Context) ([]T, error) {
	return fn(ctx)
}

// Collect drains it and returns every item in order.
func Collect[T any](ctx context.Context, it Iterator[T]) ([]T, error) {
	all := []T{}
	for {
		items, err := it.Next(ctx)
		if errors.Is(err, ErrIteratorDone) {
			return all, nil
		}
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
	}
}

// ListOption used as optional parameters in list function.
type ListOption func(*ListOptions)

// ListOptions is the options of the list operations.
type ListOptions struct {
	// PageSize is the "n" query parameter, zero leaves the registry default.
	PageSize int
	// Offset is the "last" query parameter the listing starts after.
	Offset string
}

// WithPageSize sets the page size option.
func WithPageSize(size int) ListOption {
	return func(o *ListOptions) {
		o.PageSize = size
	}
}

// WithOffset sets the offset option.
func WithOffset(offset string) ListOption {
	return func(o *ListOptions) {
		o.Offset = offset
	}
}

// MakeListOptions returns the list options with all optional parameters applied.
func MakeListOptions(opts ...ListOption) *ListOptions {
	var options ListOptions
	for _, opt := range opts {
		opt(&options)
	}
	return &options
}
