package device

import "time"

// Mode selects which chime pattern the mallet plays.
type Mode string

// Action is the last commanded transition.
type Action string

// Status is the user-visible summary derived from mode and action.
type Status string

// Mode constants
const (
	ModeNone     Mode = "None"
	ModeAlarm    Mode = "alarm"
	ModeMeditate Mode = "meditate"
	ModeDoorbell Mode = "doorbell"
)

// Action constants
const (
	ActionNone  Action = "None"
	ActionStart Action = "start"
	ActionStop  Action = "stop"
)

// Status constants
const (
	StatusIdle    Status = "idle"
	StatusChiming Status = "chiming"
)

// Event sources
const (
	SourceAPI   = "api"
	SourceMCP   = "mcp"
	SourceChime = "chime"
)

// Modes lists the chime patterns the device knows how to play.
var Modes = []Mode{ModeAlarm, ModeMeditate, ModeDoorbell}

// Known returns true if m is one of the playable patterns.
func (m Mode) Known() bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

// Snapshot is a consistent copy of the device state.
type Snapshot struct {
	Mode   Mode   `json:"type"`
	Action Action `json:"action"`
	Status Status `json:"status"`
}

// Active returns true if the snapshot asks for mode m to be playing.
func (s Snapshot) Active(m Mode) bool {
	return s.Mode == m && s.Action == ActionStart
}

// Transition is a committed state change, handed to the Recorder.
type Transition struct {
	Snapshot
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// Event is a persisted transition.
type Event struct {
	ID int64 `json:"id"`
	Transition
}
