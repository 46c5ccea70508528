// Package types holds the HTTP request and response bodies.
package types

import (
	"time"

	"github.com/urmzd/singingbell/pkg/device"
)

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	Actuator  string    `json:"actuator"`
	Loop      string    `json:"loop"`
	Timestamp time.Time `json:"timestamp"`
}

// StateResponse is returned from the status, chime and calibrate endpoints
type StateResponse struct {
	Type   string `json:"type" example:"alarm"`
	Action string `json:"action" example:"start"`
	Status string `json:"status" example:"chiming"`
}

// EventResponse is one recorded state transition
type EventResponse struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Action    string    `json:"action"`
	Status    string    `json:"status"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryResponse is returned from GET /api/history
type HistoryResponse struct {
	Events []EventResponse `json:"events"`
	Count  int             `json:"count"`
}

// NewStateResponse converts a device snapshot to its wire form.
func NewStateResponse(s device.Snapshot) StateResponse {
	return StateResponse{
		Type:   string(s.Mode),
		Action: string(s.Action),
		Status: string(s.Status),
	}
}

// NewHistoryResponse converts recorded events to their wire form.
func NewHistoryResponse(events []device.Event) HistoryResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, EventResponse{
			ID:        e.ID,
			Type:      string(e.Mode),
			Action:    string(e.Action),
			Status:    string(e.Status),
			Source:    e.Source,
			Timestamp: e.Timestamp,
		})
	}
	return HistoryResponse{Events: out, Count: len(out)}
}
