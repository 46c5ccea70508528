package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
)

type trace struct {
	mu     sync.Mutex
	events []string
}

func (tr *trace) add(e string) {
	tr.mu.Lock()
	tr.events = append(tr.events, e)
	tr.mu.Unlock()
}

func (tr *trace) list() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]string(nil), tr.events...)
}

func TestRun_InterleavesAtYields(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		tr := &trace{}
		s := New()

		ping := Activity{Name: "ping", Run: func(ctx context.Context, task *Task) error {
			for i := 0; i < 3; i++ {
				tr.add("ping")
				if err := task.Yield(ctx, 100*time.Millisecond); err != nil {
					return err
				}
			}
			return nil
		}}
		pong := Activity{Name: "pong", Run: func(ctx context.Context, task *Task) error {
			for i := 0; i < 3; i++ {
				tr.add("pong")
				if err := task.Yield(ctx, 100*time.Millisecond); err != nil {
					return err
				}
			}
			return nil
		}}

		done := make(chan error, 1)
		go func() { done <- s.Run(ctx, ping, pong) }()

		require.NoError(t, <-done)
		cancel()

		events := tr.list()
		require.Len(t, events, 6)
		require.ElementsMatch(t, []string{"ping", "pong"}, events[:2])
	})
}

func TestRun_HoldStarvesOtherActivity(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var (
			mu      sync.Mutex
			ticks   []time.Duration
			started = time.Now()
		)

		s := New()

		blocker := Activity{Name: "blocker", Run: func(ctx context.Context, task *Task) error {
			if err := task.Yield(ctx, 50*time.Millisecond); err != nil {
				return err
			}
			// Holds control for a full second.
			time.Sleep(time.Second)
			return task.Yield(ctx, time.Hour)
		}}
		ticker := Activity{Name: "ticker", Run: func(ctx context.Context, task *Task) error {
			for {
				mu.Lock()
				ticks = append(ticks, time.Since(started))
				mu.Unlock()
				if err := task.Yield(ctx, 100*time.Millisecond); err != nil {
					return err
				}
			}
		}}

		go func() { _ = s.Run(ctx, blocker, ticker) }()

		time.Sleep(2 * time.Second)
		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()

		// No tick may land inside the hold window (50ms, 1050ms).
		for _, at := range ticks {
			inside := at > 50*time.Millisecond && at < 1050*time.Millisecond
			require.False(t, inside, "tick at %v ran while control was held", at)
		}
		require.NotEmpty(t, ticks)
	})
}

func TestRun_ErrorCancelsOthers(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		boom := errors.New("boom")
		s := New()

		failing := Activity{Name: "failing", Run: func(ctx context.Context, task *Task) error {
			if err := task.Yield(ctx, time.Second); err != nil {
				return err
			}
			return boom
		}}
		forever := Activity{Name: "forever", Run: func(ctx context.Context, task *Task) error {
			for {
				if err := task.Yield(ctx, 100*time.Millisecond); err != nil {
					return err
				}
			}
		}}

		err := s.Run(context.Background(), failing, forever)
		require.ErrorIs(t, err, boom)
		require.ErrorContains(t, err, "failing")
	})
}

func TestYield_ContextCancelled(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		s := New()

		waiting := Activity{Name: "waiting", Run: func(ctx context.Context, task *Task) error {
			return task.Yield(ctx, time.Hour)
		}}

		done := make(chan error, 1)
		go func() { done <- s.Run(ctx, waiting) }()

		time.Sleep(time.Second)
		cancel()

		require.NoError(t, <-done)
	})
}
