package mcp

import "github.com/urmzd/singingbell/pkg/device"

// StatusOutput is the output for the get_status, chime and calibrate tools
type StatusOutput struct {
	Type   string `json:"type" jsonschema:"description=Chime pattern (alarm/meditate/doorbell) or None"`
	Action string `json:"action" jsonschema:"description=Last action (start/stop) or None"`
	Status string `json:"status" jsonschema:"description=idle or chiming"`
}

// EventInfo is one recorded state change
type EventInfo struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Action    string `json:"action"`
	Status    string `json:"status"`
	Source    string `json:"source" jsonschema:"description=Who caused the change (api/mcp/chime)"`
	Timestamp string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// HistoryOutput is the output for the get_history tool
type HistoryOutput struct {
	Events []EventInfo `json:"events"`
	Count  int         `json:"count"`
}

// SnapshotToOutput converts a device snapshot to tool output
func SnapshotToOutput(s device.Snapshot) StatusOutput {
	return StatusOutput{
		Type:   string(s.Mode),
		Action: string(s.Action),
		Status: string(s.Status),
	}
}

// EventsToOutput converts recorded events to tool output
func EventsToOutput(events []device.Event) HistoryOutput {
	out := HistoryOutput{Events: make([]EventInfo, 0, len(events))}
	for _, e := range events {
		out.Events = append(out.Events, EventInfo{
			ID:        e.ID,
			Type:      string(e.Mode),
			Action:    string(e.Action),
			Status:    string(e.Status),
			Source:    e.Source,
			Timestamp: e.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		})
	}
	out.Count = len(out.Events)
	return out
}
