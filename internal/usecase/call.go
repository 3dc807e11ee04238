package usecase

import (
	"context"
	"fmt"
	"time"
)

// callWithTimeout runs fn with a deadline and returns as soon as the deadline
// passes, even if fn ignores its context.
func callWithTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if d <= 0 {
		return fn(ctx)
	}
	cctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type outcome struct {
		val T
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		v, err := fn(cctx)
		ch <- outcome{val: v, err: err}
	}()

	select {
	case o := <-ch:
		return o.val, o.err
	case <-cctx.Done():
		var zero T
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		return zero, fmt.Errorf("%w after %s", ErrCallTimeout, d)
	}
}
