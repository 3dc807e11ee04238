package usecase

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCallWithTimeout(t *testing.T) {
	t.Run("returns value", func(t *testing.T) {
		v, err := callWithTimeout(context.Background(), time.Second, func(context.Context) (int, error) {
			return 42, nil
		})
		if err != nil || v != 42 {
			t.Fatalf("unexpected result %d, %v", v, err)
		}
	})

	t.Run("hung collaborator times out", func(t *testing.T) {
		block := make(chan struct{})
		defer close(block)

		start := time.Now()
		_, err := callWithTimeout(context.Background(), 20*time.Millisecond, func(context.Context) (int, error) {
			<-block
			return 0, nil
		})
		if !errors.Is(err, ErrCallTimeout) {
			t.Fatalf("expected ErrCallTimeout, got %v", err)
		}
		if time.Since(start) > time.Second {
			t.Fatalf("timeout took too long")
		}
	})

	t.Run("parent cancellation wins", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := callWithTimeout(ctx, time.Second, func(c context.Context) (int, error) {
			<-c.Done()
			return 0, c.Err()
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}
