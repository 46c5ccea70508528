package system

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResetter struct {
	calls int
	err   error
}

func (r *countingResetter) Reset(context.Context) error {
	r.calls++
	return r.err
}

func TestNewResetter(t *testing.T) {
	r, err := NewResetter(ModeExit)
	require.NoError(t, err)
	assert.IsType(t, ExitResetter{}, r)

	r, err = NewResetter("")
	require.NoError(t, err)
	assert.IsType(t, ExitResetter{}, r)

	r, err = NewResetter(ModeReboot)
	require.NoError(t, err)
	assert.IsType(t, RebootResetter{}, r)

	_, err = NewResetter("halt")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestExitResetter_DefaultsToNonZero(t *testing.T) {
	var got int
	r := ExitResetter{exit: func(code int) { got = code }}

	require.NoError(t, r.Reset(context.Background()))
	assert.Equal(t, 1, got)
}

func TestFatal_PausesThenResets(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := &countingResetter{}
		begin := time.Now()

		Fatal(context.Background(), r, errors.New("join failed"))

		assert.Equal(t, 1, r.calls)
		assert.Equal(t, FatalPause, time.Since(begin))
	})
}

func TestFatal_CancelledContextStillResets(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := &countingResetter{}
		Fatal(ctx, r, errors.New("listener failed"))
		assert.Equal(t, 1, r.calls)
	})
}
