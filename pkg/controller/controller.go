// Package controller implements the device request handlers: status, calibration,
// chime commands and event history.
//
// Handlers run synchronously on the request loop. Calibration holds the mallet in
// place with blocking sleeps, so nothing else runs until it finishes.
package controller

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/singingbell/pkg/actuator"
	"github.com/urmzd/singingbell/pkg/device"
	"github.com/urmzd/singingbell/pkg/device/schema"
)

// History limits
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

// EventStore returns recorded state transitions.
type EventStore interface {
	Recent(ctx context.Context, limit int) ([]device.Event, error)
}

// Timing holds the calibration delays.
type Timing struct {
	Step time.Duration // Hold per degree while sweeping
	Hold time.Duration // Time the mallet stays exposed for manual alignment
}

// DefaultTiming returns the calibration delays of the shipped firmware.
func DefaultTiming() Timing {
	return Timing{
		Step: 50 * time.Millisecond,
		Hold: 10 * time.Second,
	}
}

// Controller handles requests against the shared device state and the mallet.
type Controller struct {
	mallet     actuator.Actuator
	cal        actuator.Calibration
	state      *device.State
	validator  *schema.Validator
	events     EventStore
	strictType bool
	timing     Timing
}

// Option configures a Controller.
type Option func(*Controller)

// WithEvents enables the history request.
func WithEvents(store EventStore) Option {
	return func(c *Controller) {
		c.events = store
	}
}

// WithStrictType selects the chime type guard. Strict rejects unknown patterns;
// permissive commits whatever type the client sent.
func WithStrictType(strict bool) Option {
	return func(c *Controller) {
		c.strictType = strict
	}
}

// WithTiming replaces the calibration delays.
func WithTiming(t Timing) Option {
	return func(c *Controller) {
		c.timing = t
	}
}

// New creates a controller. The chime type guard is strict unless overridden.
func New(mallet actuator.Actuator, cal actuator.Calibration, state *device.State, validator *schema.Validator, opts ...Option) *Controller {
	c := &Controller{
		mallet:     mallet,
		cal:        cal,
		state:      state,
		validator:  validator,
		strictType: true,
		timing:     DefaultTiming(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ready moves the mallet to its rest position.
func (c *Controller) Ready() error {
	return c.mallet.SetAngle(c.cal.ReadyAngle)
}

// Handle dispatches a request to its handler.
func (c *Controller) Handle(ctx context.Context, req Request) (Reply, error) {
	switch req.Kind {
	case KindStatus:
		return c.Status(), nil
	case KindCalibrate:
		return c.Calibrate(req.Params)
	case KindChime:
		return c.Chime(ctx, req.Params, req.Source)
	case KindHistory:
		return c.History(ctx, req.Params)
	default:
		return Reply{}, fmt.Errorf("%q: %w", req.Kind, ErrUnknownRequest)
	}
}

// Status returns the device state as is.
func (c *Controller) Status() Reply {
	return Reply{State: c.state.Snapshot()}
}

// Calibrate exposes the mallet for aligning the bowl.
//
// With an angle, the mallet jumps there, stays for the hold time and returns to ready.
// Without one, it sweeps from ready up to the calibration angle, stays, and sweeps back.
// The answer is always CalibrateReply; the device state is not touched.
func (c *Controller) Calibrate(params map[string][]string) (Reply, error) {
	raw := strings.TrimSpace(first(params, "angle"))

	if raw != "" {
		angle, err := c.parseAngle(raw)
		if err != nil {
			return Reply{}, err
		}

		if err := c.mallet.SetAngle(angle); err != nil {
			return Reply{}, fmt.Errorf("move to calibration angle: %w", err)
		}
		c.holdForAlignment(angle)
		if err := c.mallet.SetAngle(c.cal.ReadyAngle); err != nil {
			return Reply{}, fmt.Errorf("return to ready: %w", err)
		}
	} else {
		log.Info().Int("from", c.cal.ReadyAngle).Int("to", c.cal.CalibAngle).Msg("Beginning mallet calibration sequence")
		if err := actuator.Sweep(c.mallet, c.cal.ReadyAngle, c.cal.CalibAngle, c.timing.Step); err != nil {
			return Reply{}, fmt.Errorf("sweep to calibration angle: %w", err)
		}
		c.holdForAlignment(c.cal.CalibAngle)
		if err := actuator.Sweep(c.mallet, c.cal.CalibAngle, c.cal.ReadyAngle, c.timing.Step); err != nil {
			return Reply{}, fmt.Errorf("sweep to ready: %w", err)
		}
	}

	log.Info().Msg("Calibration sequence complete")
	return Reply{State: CalibrateReply}, nil
}

func (c *Controller) parseAngle(raw string) (int, error) {
	angle, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("angle %q: %w", raw, ErrRejected)
	}
	if err := c.validator.Validate(schema.Calibrate, map[string]any{"angle": float64(angle)}); err != nil {
		return 0, fmt.Errorf("angle %d: %w: %v", angle, ErrRejected, err)
	}
	return angle, nil
}

// holdForAlignment keeps the mallet still. It blocks the request loop on purpose.
func (c *Controller) holdForAlignment(angle int) {
	log.Info().
		Int("angle", angle).
		Dur("hold", c.timing.Hold).
		Msg("Mallet is in position, adjust the bowl now")
	time.Sleep(c.timing.Hold)
}

// Chime validates a type/action pair and commits it to the device state.
func (c *Controller) Chime(ctx context.Context, params map[string][]string, source string) (Reply, error) {
	payload := map[string]any{}
	for _, key := range []string{"type", "action"} {
		if vs, ok := params[key]; ok && len(vs) > 0 {
			payload[key] = vs[0]
		}
	}

	if err := c.validator.Validate(schema.ChimeSchema(c.strictType), payload); err != nil {
		return Reply{}, fmt.Errorf("chime %v: %w: %v", payload, ErrRejected, err)
	}

	action, err := device.ParseAction(first(params, "action"))
	if err != nil {
		return Reply{}, fmt.Errorf("%w: %v", ErrRejected, err)
	}

	mode := device.Mode(first(params, "type"))
	if c.strictType {
		if mode, err = device.ParseMode(string(mode)); err != nil {
			return Reply{}, fmt.Errorf("%w: %v", ErrRejected, err)
		}
	} else if mode == "" {
		mode = device.ModeNone
	}

	if source == "" {
		source = device.SourceAPI
	}

	next := c.state.Commit(ctx, device.Snapshot{
		Mode:   mode,
		Action: action,
		Status: device.StatusFor(action),
	}, source)

	log.Info().Str("type", string(mode)).Str("action", string(action)).Str("source", source).Msg("Chime command accepted")

	return Reply{State: next}, nil
}

// History returns the most recent transitions, newest first.
func (c *Controller) History(ctx context.Context, params map[string][]string) (Reply, error) {
	if c.events == nil {
		return Reply{}, ErrNoHistory
	}

	limit := DefaultHistoryLimit
	if raw := first(params, "limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Reply{}, fmt.Errorf("limit %q: %w", raw, ErrInvalidParameter)
		}
		limit = min(n, MaxHistoryLimit)
	}

	events, err := c.events.Recent(ctx, limit)
	if err != nil {
		return Reply{}, fmt.Errorf("load history: %w", err)
	}

	return Reply{State: c.state.Snapshot(), Events: events}, nil
}

func first(params map[string][]string, key string) string {
	if vs := params[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}
