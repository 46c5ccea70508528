// Package actuatortest provides an in-memory actuator for tests.
package actuatortest

import (
	"sync"

	"github.com/urmzd/singingbell/pkg/actuator"
)

// Recorder is an actuator.Actuator that remembers every commanded angle.
type Recorder struct {
	mu     sync.Mutex
	angles []int
	err    error
}

var _ actuator.Actuator = (*Recorder)(nil)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailWith makes every following SetAngle return err.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

func (r *Recorder) SetAngle(angle int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.angles = append(r.angles, angle)
	return nil
}

// Angles returns a copy of all commanded angles in order.
func (r *Recorder) Angles() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.angles...)
}

// Last returns the last commanded angle, or -1 if none.
func (r *Recorder) Last() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.angles) == 0 {
		return -1
	}
	return r.angles[len(r.angles)-1]
}

// Count returns how many times angle was commanded.
func (r *Recorder) Count(angle int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.angles {
		if a == angle {
			n++
		}
	}
	return n
}

// Reset forgets all recorded angles.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.angles = nil
	r.mu.Unlock()
}

func (r *Recorder) IsConnected() bool {
	return true
}

func (r *Recorder) Close() error {
	return nil
}
