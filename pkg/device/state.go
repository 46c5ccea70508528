package device

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Recorder receives every committed transition.
type Recorder interface {
	Record(ctx context.Context, t Transition) error
}

// State is the single shared record describing what the mallet is doing.
//
// The request loop writes it when a command is accepted, and the chime loop writes it
// when a pattern finishes. Both run under the cooperative scheduler, so writes never
// interleave; the mutex keeps readers outside the scheduler from seeing a torn value.
// A status query may read the state in the middle of a long pattern and is expected
// to report chiming.
type State struct {
	mu       sync.RWMutex
	current  Snapshot
	recorder Recorder
}

// NewState creates the state with mode=None, action=None, status=idle.
func NewState() *State {
	return &State{
		current: Snapshot{
			Mode:   ModeNone,
			Action: ActionNone,
			Status: StatusIdle,
		},
	}
}

// SetRecorder attaches a transition recorder. Pass nil to detach.
func (s *State) SetRecorder(r Recorder) {
	s.mu.Lock()
	s.recorder = r
	s.mu.Unlock()
}

// Snapshot returns the latest committed values.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Commit replaces all three fields in one step and records the transition.
func (s *State) Commit(ctx context.Context, next Snapshot, source string) Snapshot {
	return s.Update(ctx, source, func(Snapshot) Snapshot { return next })
}

// Stop keeps the mode and resets action/status to stop/idle.
func (s *State) Stop(ctx context.Context, source string) Snapshot {
	return s.Update(ctx, source, func(cur Snapshot) Snapshot {
		return Snapshot{Mode: cur.Mode, Action: ActionStop, Status: StatusIdle}
	})
}

// Update derives the next state from the current one under a single lock
// and records the transition.
func (s *State) Update(ctx context.Context, source string, fn func(Snapshot) Snapshot) Snapshot {
	s.mu.Lock()
	next := fn(s.current)
	s.current = next
	recorder := s.recorder
	s.mu.Unlock()

	log.Debug().
		Str("mode", string(next.Mode)).
		Str("action", string(next.Action)).
		Str("status", string(next.Status)).
		Str("source", source).
		Msg("device state committed")

	if recorder != nil {
		t := Transition{Snapshot: next, Source: source, Timestamp: time.Now()}
		if err := recorder.Record(ctx, t); err != nil {
			log.Error().Err(err).Msg("Failed to record state transition")
		}
	}

	return next
}

// ParseMode accepts only the playable chime patterns.
func ParseMode(v string) (Mode, error) {
	m := Mode(v)
	if !m.Known() {
		return "", fmt.Errorf("%q: %w", v, ErrInvalidMode)
	}
	return m, nil
}

// ParseAction accepts start or stop.
func ParseAction(v string) (Action, error) {
	switch a := Action(v); a {
	case ActionStart, ActionStop:
		return a, nil
	default:
		return "", fmt.Errorf("%q: %w", v, ErrInvalidAction)
	}
}

// StatusFor returns the status implied by an accepted action.
func StatusFor(a Action) Status {
	if a == ActionStart {
		return StatusChiming
	}
	return StatusIdle
}
