package actuator

import "time"

// Sweep moves the mallet one degree at a time from `from` to `to`, both inclusive,
// sleeping `step` after every position. The sleep does not yield: callers running
// under the cooperative scheduler keep control for the whole sweep.
func Sweep(a Actuator, from, to int, step time.Duration) error {
	inc := 1
	if to < from {
		inc = -1
	}
	for angle := from; ; angle += inc {
		if err := a.SetAngle(angle); err != nil {
			return err
		}
		time.Sleep(step)
		if angle == to {
			return nil
		}
	}
}
