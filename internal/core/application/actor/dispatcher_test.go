package actor_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tableside/internal/core/application/actor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_Do(t *testing.T) {
	t.Run("should run the closure and return its error", func(t *testing.T) {
		d := actor.NewDispatcher(nil)
		defer d.Shutdown()

		ran := false
		err := d.Do(t.Context(), "org/site/a", func(context.Context) error {
			ran = true
			return nil
		})

		require.NoError(t, err)
		assert.True(t, ran)
	})

	t.Run("should propagate the closure error", func(t *testing.T) {
		d := actor.NewDispatcher(nil)
		defer d.Shutdown()

		wantErr := errors.New("payment declined")
		err := d.Do(t.Context(), "org/site/a", func(context.Context) error {
			return wantErr
		})

		require.ErrorIs(t, err, wantErr)
	})

	t.Run("should serialize jobs for the same key", func(t *testing.T) {
		d := actor.NewDispatcher(nil)
		defer d.Shutdown()

		// Unsynchronized counter: safe only if jobs never overlap.
		counter := 0
		var inFlight atomic.Int32
		var wg sync.WaitGroup

		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := d.Do(t.Context(), "org/site/a", func(context.Context) error {
					assert.Equal(t, int32(1), inFlight.Add(1))
					counter++
					inFlight.Add(-1)
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, 50, counter)
	})

	t.Run("should run different keys concurrently", func(t *testing.T) {
		d := actor.NewDispatcher(nil)
		defer d.Shutdown()

		aEntered := make(chan struct{})
		release := make(chan struct{})

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Do(t.Context(), "org/site/a", func(context.Context) error {
				close(aEntered)
				<-release
				return nil
			})
		}()

		// Job for another order must complete while the first is blocked.
		<-aEntered
		done := make(chan struct{})
		go func() {
			_ = d.Do(t.Context(), "org/site/b", func(context.Context) error { return nil })
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("job for a different order was blocked")
		}

		close(release)
		wg.Wait()
	})

	t.Run("should preserve submission order per key", func(t *testing.T) {
		d := actor.NewDispatcher(nil)
		defer d.Shutdown()

		var got []int
		var wg sync.WaitGroup
		blocker := make(chan struct{})

		// First job blocks the mailbox so the rest queue up in order.
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Do(t.Context(), "org/site/a", func(context.Context) error {
				<-blocker
				got = append(got, 0)
				return nil
			})
		}()
		time.Sleep(50 * time.Millisecond)

		for i := 1; i <= 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = d.Do(t.Context(), "org/site/a", func(context.Context) error {
					got = append(got, i)
					return nil
				})
			}()
			time.Sleep(20 * time.Millisecond)
		}

		close(blocker)
		wg.Wait()

		assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, got)
	})

	t.Run("should fail a queued job when its context expires", func(t *testing.T) {
		d := actor.NewDispatcher(nil)
		defer d.Shutdown()

		entered := make(chan struct{})
		release := make(chan struct{})
		defer close(release)

		go func() {
			_ = d.Do(context.Background(), "org/site/a", func(context.Context) error {
				close(entered)
				<-release
				return nil
			})
		}()
		<-entered

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		ran := false
		err := d.Do(ctx, "org/site/a", func(context.Context) error {
			ran = true
			return nil
		})

		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.False(t, ran)
	})

	t.Run("should recover a panicking closure", func(t *testing.T) {
		d := actor.NewDispatcher(nil)
		defer d.Shutdown()

		err := d.Do(t.Context(), "org/site/a", func(context.Context) error {
			panic("boom")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panic")

		// The mailbox must still accept work.
		err = d.Do(t.Context(), "org/site/a", func(context.Context) error { return nil })
		require.NoError(t, err)
	})

	t.Run("should accept work again after a mailbox was reaped", func(t *testing.T) {
		d := actor.NewDispatcher(nil, actor.WithIdleTimeout(20*time.Millisecond))
		defer d.Shutdown()

		require.NoError(t, d.Do(t.Context(), "org/site/a", func(context.Context) error { return nil }))

		// Let the idle mailbox goroutine exit.
		time.Sleep(100 * time.Millisecond)

		require.NoError(t, d.Do(t.Context(), "org/site/a", func(context.Context) error { return nil }))
	})
}

func TestDispatcher_Shutdown(t *testing.T) {
	t.Run("should reject work after shutdown", func(t *testing.T) {
		d := actor.NewDispatcher(nil)
		d.Shutdown()

		err := d.Do(t.Context(), "org/site/a", func(context.Context) error { return nil })
		require.ErrorIs(t, err, actor.ErrDispatcherClosed)
	})

	t.Run("should wait for in-flight jobs", func(t *testing.T) {
		d := actor.NewDispatcher(nil)

		started := make(chan struct{})
		finished := atomic.Bool{}

		go func() {
			_ = d.Do(context.Background(), "org/site/a", func(context.Context) error {
				close(started)
				time.Sleep(100 * time.Millisecond)
				finished.Store(true)
				return nil
			})
		}()

		<-started
		d.Shutdown()

		assert.True(t, finished.Load(), "shutdown returned before the running job finished")
	})

	t.Run("should be idempotent", func(t *testing.T) {
		d := actor.NewDispatcher(nil)
		d.Shutdown()
		d.Shutdown()
	})
}
