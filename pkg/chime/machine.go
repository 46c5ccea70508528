// Package chime plays the timed mallet patterns selected through the device state.
package chime

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/singingbell/pkg/actuator"
	"github.com/urmzd/singingbell/pkg/device"
	"github.com/urmzd/singingbell/pkg/scheduler"
)

// Machine watches the device state and drives the mallet through the selected pattern.
//
// Sub-second motion holds keep control of the scheduler; the pauses between strikes
// and cycles yield it so requests can be serviced.
type Machine struct {
	mallet actuator.Actuator
	cal    actuator.Calibration
	state  *device.State
	timing Timing
}

// NewMachine creates a chime machine with the default timing.
func NewMachine(mallet actuator.Actuator, cal actuator.Calibration, state *device.State) *Machine {
	return &Machine{
		mallet: mallet,
		cal:    cal,
		state:  state,
		timing: DefaultTiming(),
	}
}

// WithTiming replaces the pattern delays.
func (m *Machine) WithTiming(t Timing) *Machine {
	m.timing = t
	return m
}

// Activity returns the machine as a scheduler activity.
func (m *Machine) Activity() scheduler.Activity {
	return scheduler.Activity{Name: "chime", Run: m.Run}
}

// Run polls the device state until ctx ends.
func (m *Machine) Run(ctx context.Context, t *scheduler.Task) error {
	for {
		if err := t.Yield(ctx, m.timing.Poll); err != nil {
			return err
		}
		if err := m.Step(ctx, t); err != nil {
			return err
		}
	}
}

// Step dispatches once on the current (mode, action).
func (m *Machine) Step(ctx context.Context, t *scheduler.Task) error {
	snap := m.state.Snapshot()
	if snap.Action != device.ActionStart {
		return nil
	}

	var err error
	switch snap.Mode {
	case device.ModeAlarm:
		err = m.alarm(ctx, t)
	case device.ModeMeditate:
		err = m.meditate(ctx, t)
	case device.ModeDoorbell:
		err = m.doorbell(ctx, t)
	default:
		log.Warn().Str("mode", string(snap.Mode)).Msg("No chime pattern for mode, stopping")
		m.state.Stop(ctx, device.SourceChime)
	}

	if err != nil && ctx.Err() == nil {
		// Motion failed: never leave the status claiming a pattern is playing.
		log.Error().Err(err).Str("mode", string(snap.Mode)).Msg("Chime pattern failed")
		m.state.Stop(ctx, device.SourceChime)
		return nil
	}
	return err
}

// alarm strikes up to AlarmRepeats times, then stops on its own so a lost
// stop command cannot leave the bell ringing forever.
func (m *Machine) alarm(ctx context.Context, t *scheduler.Task) error {
	log.Info().Int("repeats", m.timing.AlarmRepeats).Msg("Alarm started")

	for i := 0; i < m.timing.AlarmRepeats; i++ {
		if m.state.Snapshot().Action == device.ActionStop {
			log.Info().Int("repetition", i).Msg("Alarm stopped")
			break
		}
		if err := m.cycle(ctx, t, m.timing.AlarmPause); err != nil {
			return err
		}
	}

	m.state.Stop(ctx, device.SourceChime)
	return nil
}

// meditate strikes until the state no longer asks for it.
func (m *Machine) meditate(ctx context.Context, t *scheduler.Task) error {
	log.Info().Msg("Meditate started")

	for m.state.Snapshot().Active(device.ModeMeditate) {
		if err := m.cycle(ctx, t, m.timing.MeditatePause); err != nil {
			return err
		}
	}

	log.Info().Msg("Meditate stopped")
	return nil
}

// doorbell plays one double strike and stops, whatever the state says meanwhile.
func (m *Machine) doorbell(ctx context.Context, t *scheduler.Task) error {
	log.Info().Msg("Doorbell")

	if err := m.strike(); err != nil {
		return err
	}
	if err := t.Yield(ctx, m.timing.DoorbellGap); err != nil {
		return err
	}
	if err := m.mallet.SetAngle(m.cal.ChimeAngle); err != nil {
		return err
	}
	time.Sleep(m.timing.Contact)
	if err := m.mallet.SetAngle(m.cal.MidAngle); err != nil {
		return err
	}
	if err := m.toReady(); err != nil {
		return err
	}

	m.state.Stop(ctx, device.SourceChime)
	return t.Yield(ctx, m.timing.DoorbellCooldown)
}

// cycle is one strike followed by the return to rest and a pause.
func (m *Machine) cycle(ctx context.Context, t *scheduler.Task, pause time.Duration) error {
	if err := m.strike(); err != nil {
		return err
	}
	if err := t.Yield(ctx, m.timing.Settle); err != nil {
		return err
	}
	if err := m.toReady(); err != nil {
		return err
	}
	return t.Yield(ctx, pause)
}

// strike swings mid -> chime -> mid. The holds keep control.
func (m *Machine) strike() error {
	if err := m.mallet.SetAngle(m.cal.MidAngle); err != nil {
		return err
	}
	time.Sleep(m.timing.WindUp)
	if err := m.mallet.SetAngle(m.cal.ChimeAngle); err != nil {
		return err
	}
	time.Sleep(m.timing.Contact)
	return m.mallet.SetAngle(m.cal.MidAngle)
}

func (m *Machine) toReady() error {
	return actuator.Sweep(m.mallet, m.cal.MidAngle, m.cal.ReadyAngle, m.timing.Step)
}
