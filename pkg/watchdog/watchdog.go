// Package watchdog resets the device when the gateway stops answering.
package watchdog

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/singingbell/pkg/netprobe"
	"github.com/urmzd/singingbell/pkg/system"
)

// Defaults
const (
	DefaultInterval = 120 * time.Second
	DefaultTimeout  = 3 * time.Second
)

// Watchdog probes the gateway once per interval. It does not run on its own;
// the request loop calls Check on every tick.
type Watchdog struct {
	pinger   netprobe.Pinger
	resetter system.Resetter
	gateway  string
	interval time.Duration
	timeout  time.Duration
	ref      time.Time
}

// Option configures a Watchdog.
type Option func(*Watchdog)

// WithInterval sets the time between probes.
func WithInterval(d time.Duration) Option {
	return func(w *Watchdog) {
		w.interval = d
	}
}

// WithTimeout sets the probe timeout.
func WithTimeout(d time.Duration) Option {
	return func(w *Watchdog) {
		w.timeout = d
	}
}

// New creates a watchdog whose reference time is now. An empty gateway disables it.
func New(pinger netprobe.Pinger, resetter system.Resetter, gateway string, opts ...Option) *Watchdog {
	w := &Watchdog{
		pinger:   pinger,
		resetter: resetter,
		gateway:  gateway,
		interval: DefaultInterval,
		timeout:  DefaultTimeout,
		ref:      time.Now(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Enabled reports whether a gateway is configured.
func (w *Watchdog) Enabled() bool {
	return w != nil && w.gateway != ""
}

// Check probes the gateway if the interval has elapsed and resets the device when the
// probe goes unanswered. Any other probe error is logged and the device keeps running.
// It blocks for up to the probe timeout. The reference time is refreshed either way.
// Returns true if a probe ran.
func (w *Watchdog) Check(ctx context.Context) bool {
	if !w.Enabled() || time.Since(w.ref) < w.interval {
		return false
	}
	w.ref = time.Now()

	err := w.pinger.Ping(ctx, w.gateway, w.timeout)
	if err == nil {
		log.Debug().Str("gateway", w.gateway).Msg("gateway reachable")
		return true
	}

	if ctx.Err() != nil {
		return true
	}

	if !errors.Is(err, netprobe.ErrTimeout) {
		log.Error().Err(err).Str("gateway", w.gateway).Msg("Gateway probe failed")
		return true
	}

	log.Error().Err(err).Str("gateway", w.gateway).Msg("Ping timeout, rebooting")
	system.Fatal(ctx, w.resetter, err)
	return true
}
