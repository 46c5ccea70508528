package actuator

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// DefaultBaudRate is the line speed of the servo co-processor.
const DefaultBaudRate = 115200

// SerialServo drives a hobby servo through a PWM co-processor attached over a serial line.
// Each command is one ASCII line "A<angle>\n"; the co-processor converts it to a 50 Hz pulse.
type SerialServo struct {
	port io.WriteCloser
	mu   sync.Mutex

	closed bool
}

// OpenSerialServo opens the serial port at the given baud rate, 8N1.
func OpenSerialServo(portPath string, baudRate int) (*SerialServo, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portPath, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portPath, err)
	}

	log.Info().Str("port", portPath).Int("baud", baudRate).Msg("Servo serial port opened")

	return NewSerialServo(port), nil
}

// NewSerialServo wraps an already opened port.
func NewSerialServo(port io.WriteCloser) *SerialServo {
	return &SerialServo{port: port}
}

// SetAngle writes a position command to the co-processor.
func (s *SerialServo) SetAngle(angle int) error {
	if err := CheckAngle(angle); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrNotConnected
	}

	line := "A" + strconv.Itoa(angle) + "\n"
	if _, err := io.WriteString(s.port, line); err != nil {
		return fmt.Errorf("write servo command: %w", err)
	}
	return nil
}

// IsConnected returns true until the port is closed.
func (s *SerialServo) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Close closes the serial port.
func (s *SerialServo) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.port.Close()
}
