package xcontext

import (
	"context"
	"fmt"
	"strings"
)

type valueKey[T any] struct{}

// WithValue returns a copy of ctx carrying value, keyed by its type.
func WithValue[T any](ctx context.Context, value T) context.Context {
	return context.WithValue(ctx, valueKey[T]{}, value)
}

// GetValue returns the value of type T carried by ctx.
func GetValue[T any](ctx context.Context) (T, bool) {
	if ctx == nil {
		var zero T
		return zero, false
	}
	value, ok := ctx.Value(valueKey[T]{}).(T)
	return value, ok
}

// NonBlockingCheck checks context as non-blocking select and returns error if context is done.
func NonBlockingCheck(ctx context.Context, msgs ...string) error {
	select {
	case <-ctx.Done():
		if len(msgs) == 0 {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w", strings.Join(msgs, ": "), ctx.Err())
	default:
	}
	return nil
}
