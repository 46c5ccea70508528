package chime

import "time"

// Timing holds every delay used by the chime patterns.
type Timing struct {
	Poll time.Duration // Interval between state checks (yields)

	WindUp  time.Duration // Hold at mid before striking
	Contact time.Duration // Hold at chime before pulling back
	Step    time.Duration // Hold per degree while returning to ready

	Settle           time.Duration // Yield after a strike before returning to ready
	AlarmPause       time.Duration // Yield between alarm repetitions
	MeditatePause    time.Duration // Yield between meditate cycles
	DoorbellGap      time.Duration // Yield between the two doorbell strikes
	DoorbellCooldown time.Duration // Yield after a doorbell before polling again

	AlarmRepeats int // Safety cap on alarm repetitions
}

// DefaultTiming returns the delays of the shipped firmware.
func DefaultTiming() Timing {
	return Timing{
		Poll:             100 * time.Millisecond,
		WindUp:           30 * time.Millisecond,
		Contact:          20 * time.Millisecond,
		Step:             50 * time.Millisecond,
		Settle:           time.Second,
		AlarmPause:       7 * time.Second,
		MeditatePause:    15 * time.Second,
		DoorbellGap:      300 * time.Millisecond,
		DoorbellCooldown: 3 * time.Second,
		AlarmRepeats:     10,
	}
}
