package device

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryRecorder struct {
	transitions []Transition
	err         error
}

func (m *memoryRecorder) Record(_ context.Context, t Transition) error {
	m.transitions = append(m.transitions, t)
	return m.err
}

func TestNewState_Initial(t *testing.T) {
	t.Parallel()

	s := NewState()
	require.Equal(t, Snapshot{Mode: ModeNone, Action: ActionNone, Status: StatusIdle}, s.Snapshot())
}

func TestState_CommitRecords(t *testing.T) {
	t.Parallel()

	rec := &memoryRecorder{}
	s := NewState()
	s.SetRecorder(rec)

	next := Snapshot{Mode: ModeAlarm, Action: ActionStart, Status: StatusChiming}
	got := s.Commit(context.Background(), next, SourceAPI)

	require.Equal(t, next, got)
	require.Equal(t, next, s.Snapshot())
	require.Len(t, rec.transitions, 1)
	require.Equal(t, SourceAPI, rec.transitions[0].Source)
	require.Equal(t, next, rec.transitions[0].Snapshot)
}

func TestState_RecorderErrorDoesNotRollBack(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.SetRecorder(&memoryRecorder{err: errors.New("disk full")})

	next := Snapshot{Mode: ModeMeditate, Action: ActionStart, Status: StatusChiming}
	s.Commit(context.Background(), next, SourceAPI)
	require.Equal(t, next, s.Snapshot())
}

func TestState_StopKeepsMode(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.Commit(context.Background(), Snapshot{Mode: ModeDoorbell, Action: ActionStart, Status: StatusChiming}, SourceAPI)

	got := s.Stop(context.Background(), SourceChime)
	require.Equal(t, Snapshot{Mode: ModeDoorbell, Action: ActionStop, Status: StatusIdle}, got)
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for _, m := range []string{"alarm", "meditate", "doorbell"} {
		got, err := ParseMode(m)
		require.NoError(t, err)
		require.Equal(t, Mode(m), got)
	}

	for _, m := range []string{"", "None", "Alarm", "gong"} {
		_, err := ParseMode(m)
		require.ErrorIs(t, err, ErrInvalidMode, m)
	}
}

func TestParseAction(t *testing.T) {
	t.Parallel()

	a, err := ParseAction("start")
	require.NoError(t, err)
	require.Equal(t, ActionStart, a)
	require.Equal(t, StatusChiming, StatusFor(a))

	a, err = ParseAction("stop")
	require.NoError(t, err)
	require.Equal(t, StatusIdle, StatusFor(a))

	for _, v := range []string{"", "None", "pause", "START"} {
		_, err := ParseAction(v)
		require.ErrorIs(t, err, ErrInvalidAction, v)
	}
}

func TestSnapshot_Active(t *testing.T) {
	t.Parallel()

	s := Snapshot{Mode: ModeAlarm, Action: ActionStart}
	require.True(t, s.Active(ModeAlarm))
	require.False(t, s.Active(ModeMeditate))

	s.Action = ActionStop
	require.False(t, s.Active(ModeAlarm))
}
