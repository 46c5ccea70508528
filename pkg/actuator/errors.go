package actuator

import "errors"

var (
	// ErrAngleOutOfRange indicates an angle outside the servo travel
	ErrAngleOutOfRange = errors.New("angle out of range")

	// ErrNotConnected indicates the driver has been closed
	ErrNotConnected = errors.New("actuator not connected")
)
