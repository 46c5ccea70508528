// Package scheduler runs long-lived activities cooperatively.
//
// Exactly one activity holds control (the baton) at a time. An activity gives control
// away only at an explicit Yield; any other wait, including time.Sleep, keeps the baton
// and starves every other activity until it returns.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Activity is one cooperative task. It starts holding control.
type Activity struct {
	Name string
	Run  func(ctx context.Context, t *Task) error
}

// Scheduler owns the baton shared by its activities.
type Scheduler struct {
	baton chan struct{}
}

// New creates a Scheduler with the baton free.
func New() *Scheduler {
	return &Scheduler{baton: make(chan struct{}, 1)}
}

// Task is an activity's handle on the baton.
type Task struct {
	s    *Scheduler
	name string
	held bool
}

// Name returns the activity name.
func (t *Task) Name() string {
	return t.name
}

func (t *Task) acquire(ctx context.Context) error {
	select {
	case t.s.baton <- struct{}{}:
		t.held = true
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Task) release() {
	if t.held {
		t.held = false
		<-t.s.baton
	}
}

// Yield gives control away for d and waits to get it back.
// It returns ctx.Err() without holding control if ctx ends first.
func (t *Task) Yield(ctx context.Context, d time.Duration) error {
	t.release()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}

	return t.acquire(ctx)
}

// Run starts every activity and blocks until all of them return.
// The first activity error cancels the others.
func (s *Scheduler) Run(ctx context.Context, activities ...Activity) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, a := range activities {
		g.Go(func() error {
			t := &Task{s: s, name: a.Name}
			if err := t.acquire(ctx); err != nil {
				return nil
			}
			defer t.release()

			log.Debug().Str("activity", a.Name).Msg("activity started")

			if err := a.Run(ctx, t); err != nil && ctx.Err() == nil {
				return fmt.Errorf("%s: %w", a.Name, err)
			}
			return nil
		})
	}

	return g.Wait()
}
