package controller

import (
	"net/url"

	"github.com/urmzd/singingbell/pkg/device"
)

// Kind names a request handler.
type Kind string

// Request kinds
const (
	KindStatus    Kind = "status"
	KindCalibrate Kind = "calibrate"
	KindChime     Kind = "chime"
	KindHistory   Kind = "history"
)

// Request is one parsed client request.
type Request struct {
	Kind   Kind
	Params url.Values
	Source string // device.SourceAPI or device.SourceMCP
}

// Reply is the result of a handled request.
type Reply struct {
	State  device.Snapshot
	Events []device.Event
}

// CalibrateReply is the fixed answer to every calibration request.
var CalibrateReply = device.Snapshot{
	Mode:   "calibrate",
	Action: device.ActionStop,
	Status: device.StatusIdle,
}
