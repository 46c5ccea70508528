// Package service runs the network request loop.
//
// HTTP and MCP handlers submit parsed requests to the inbox and wait. The loop takes at
// most one request per poll tick, when it holds the scheduler baton, and runs the handler
// to completion before polling again. After each poll it gives the watchdog a chance to run.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/singingbell/pkg/controller"
	"github.com/urmzd/singingbell/pkg/scheduler"
	"github.com/urmzd/singingbell/pkg/watchdog"
)

// Defaults
const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultInboxSize    = 16

	// StallAfter is how long the loop may go without a tick before it is reported stalled.
	// The longest legitimate hold is a calibration sweep of a little over 11 s.
	StallAfter = 30 * time.Second
)

var (
	// ErrBusy indicates the inbox is full
	ErrBusy = errors.New("busy")

	// ErrUnavailable indicates the loop is not running
	ErrUnavailable = errors.New("unavailable")

	// ErrHandlerPanic indicates a handler panicked while serving the request
	ErrHandlerPanic = errors.New("handler panicked")
)

// Dispatcher serves one request.
type Dispatcher interface {
	Handle(ctx context.Context, req controller.Request) (controller.Reply, error)
}

type result struct {
	reply controller.Reply
	err   error
}

type envelope struct {
	ctx   context.Context
	req   controller.Request
	reply chan result
}

// Service is the network request loop.
type Service struct {
	dispatcher Dispatcher
	watchdog   *watchdog.Watchdog
	ready      func() error
	poll       time.Duration

	inbox    chan envelope
	started  chan struct{}
	done     chan struct{}
	lastTick atomic.Int64
}

// Option configures a Service.
type Option func(*Service)

// WithWatchdog runs w after every poll.
func WithWatchdog(w *watchdog.Watchdog) Option {
	return func(s *Service) {
		s.watchdog = w
	}
}

// WithReady runs fn once when the loop starts, before the first poll.
func WithReady(fn func() error) Option {
	return func(s *Service) {
		s.ready = fn
	}
}

// WithPollInterval sets the time the loop yields between polls.
func WithPollInterval(d time.Duration) Option {
	return func(s *Service) {
		s.poll = d
	}
}

// WithInboxSize sets how many requests may wait for the loop.
func WithInboxSize(n int) Option {
	return func(s *Service) {
		s.inbox = make(chan envelope, n)
	}
}

// New creates the loop. It serves nothing until run by the scheduler.
func New(d Dispatcher, opts ...Option) *Service {
	s := &Service{
		dispatcher: d,
		poll:       DefaultPollInterval,
		inbox:      make(chan envelope, DefaultInboxSize),
		started:    make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Activity returns the loop as a scheduler activity.
func (s *Service) Activity() scheduler.Activity {
	return scheduler.Activity{Name: "service", Run: s.Run}
}

// Submit queues req and waits for the loop to serve it.
// It fails fast with ErrBusy when the inbox is full and ErrUnavailable once the loop has stopped.
func (s *Service) Submit(ctx context.Context, req controller.Request) (controller.Reply, error) {
	select {
	case <-s.done:
		return controller.Reply{}, ErrUnavailable
	default:
	}

	env := envelope{ctx: ctx, req: req, reply: make(chan result, 1)}
	select {
	case s.inbox <- env:
	default:
		return controller.Reply{}, ErrBusy
	}

	select {
	case r := <-env.reply:
		return r.reply, r.err
	case <-ctx.Done():
		return controller.Reply{}, ctx.Err()
	case <-s.done:
		return controller.Reply{}, ErrUnavailable
	}
}

// Run is the loop body. It returns nil when ctx ends.
func (s *Service) Run(ctx context.Context, task *scheduler.Task) error {
	defer close(s.done)

	if s.ready != nil {
		if err := s.ready(); err != nil {
			log.Error().Err(err).Msg("Failed to move mallet to ready position")
		}
	}
	s.lastTick.Store(time.Now().UnixNano())
	close(s.started)

	for {
		if err := task.Yield(ctx, s.poll); err != nil {
			return nil
		}
		s.lastTick.Store(time.Now().UnixNano())

		s.pollOnce(ctx)
		s.watchdog.Check(ctx)
	}
}

// pollOnce serves at most one queued request.
func (s *Service) pollOnce(ctx context.Context) {
	for {
		select {
		case env := <-s.inbox:
			if env.ctx.Err() != nil {
				log.Debug().Str("kind", string(env.req.Kind)).Msg("discarding request from departed client")
				continue
			}
			reply, err := s.dispatch(ctx, env)
			env.reply <- result{reply: reply, err: err}
			return
		default:
			return
		}
	}
}

func (s *Service) dispatch(ctx context.Context, env envelope) (reply controller.Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("kind", string(env.req.Kind)).Msg("Request handler panicked")
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()

	reply, err = s.dispatcher.Handle(ctx, env.req)
	if err != nil && !errors.Is(err, controller.ErrRejected) {
		log.Error().Err(err).Str("kind", string(env.req.Kind)).Msg("Request failed")
	}
	return reply, err
}

// LastTick returns when the loop last polled, or the zero time if it never ran.
func (s *Service) LastTick() time.Time {
	n := s.lastTick.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// Alive reports whether the loop has polled recently.
func (s *Service) Alive() bool {
	select {
	case <-s.done:
		return false
	default:
	}
	last := s.LastTick()
	return !last.IsZero() && time.Since(last) < StallAfter
}

// Started is closed once the loop has positioned the mallet and begins polling.
func (s *Service) Started() <-chan struct{} {
	return s.started
}
