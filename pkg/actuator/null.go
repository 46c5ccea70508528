package actuator

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// NullActuator is used when no servo driver is available.
// It accepts every command and only logs it, so the HTTP surface stays usable.
type NullActuator struct {
	mu    sync.Mutex
	angle int
}

// NewNullActuator creates a new NullActuator.
func NewNullActuator() *NullActuator {
	return &NullActuator{angle: -1}
}

func (a *NullActuator) SetAngle(angle int) error {
	if err := CheckAngle(angle); err != nil {
		return err
	}
	a.mu.Lock()
	a.angle = angle
	a.mu.Unlock()

	log.Debug().Int("angle", angle).Msg("null actuator move")
	return nil
}

// Angle returns the last commanded angle, or -1 before the first command.
func (a *NullActuator) Angle() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.angle
}

func (a *NullActuator) IsConnected() bool {
	return false
}

func (a *NullActuator) Close() error {
	return nil
}
