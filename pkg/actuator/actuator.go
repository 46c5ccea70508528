package actuator

import "fmt"

// Servo travel limits in degrees.
const (
	MinAngle = 0
	MaxAngle = 180
)

// Actuator drives the mallet. It is write-only: there is no position feedback.
type Actuator interface {
	// SetAngle commands the mallet to the given angular position
	SetAngle(angle int) error

	// IsConnected returns true if commands reach real hardware
	IsConnected() bool

	// Close releases the underlying driver
	Close() error
}

// Calibration holds the mallet positions derived from a single calibration angle.
type Calibration struct {
	CalibAngle int // Position that exposes the mallet for aligning the bowl
	ReadyAngle int // Rest position
	MidAngle   int // Wind-up position between strikes
	ChimeAngle int // Strike position
}

// NewCalibration derives ready, mid and chime angles from calibAngle.
// All derived angles must fit the servo travel.
func NewCalibration(calibAngle int) (Calibration, error) {
	c := Calibration{
		CalibAngle: calibAngle,
		ReadyAngle: calibAngle - 10,
		MidAngle:   calibAngle - 5,
		ChimeAngle: calibAngle + 10,
	}

	if c.ReadyAngle < MinAngle || c.ChimeAngle > MaxAngle {
		return Calibration{}, fmt.Errorf("calibration angle %d: %w", calibAngle, ErrAngleOutOfRange)
	}

	return c, nil
}

// CheckAngle returns ErrAngleOutOfRange if angle is outside the servo travel.
func CheckAngle(angle int) error {
	if angle < MinAngle || angle > MaxAngle {
		return fmt.Errorf("angle %d: %w", angle, ErrAngleOutOfRange)
	}
	return nil
}
