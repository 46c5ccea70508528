package schema

import "encoding/json"

// ChimeStrict only admits the three playable patterns and a start/stop action.
var ChimeStrict = json.RawMessage(`{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"type": {"type": "string", "enum": ["alarm", "meditate", "doorbell"]},
		"action": {"type": "string", "enum": ["start", "stop"]}
	},
	"required": ["type", "action"],
	"additionalProperties": false
}`)

// ChimePermissive checks the action only; any type string is accepted.
var ChimePermissive = json.RawMessage(`{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"type": {"type": "string"},
		"action": {"type": "string", "enum": ["start", "stop"]}
	},
	"required": ["action"],
	"additionalProperties": false
}`)

// Calibrate bounds the optional direct angle to the servo travel.
var Calibrate = json.RawMessage(`{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"angle": {"type": "integer", "minimum": 0, "maximum": 180}
	},
	"additionalProperties": false
}`)

// ChimeSchema returns the chime parameter schema for the configured type guard.
func ChimeSchema(strictType bool) json.RawMessage {
	if strictType {
		return ChimeStrict
	}
	return ChimePermissive
}
