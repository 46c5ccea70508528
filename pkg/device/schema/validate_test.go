package schema

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidate_StrictAcceptsKnownPatterns(t *testing.T) {
	v := NewValidator()

	for _, typ := range []string{"alarm", "meditate", "doorbell"} {
		for _, action := range []string{"start", "stop"} {
			err := v.Validate(ChimeStrict, map[string]any{"type": typ, "action": action})
			if err != nil {
				t.Errorf("expected %s/%s to be valid, got: %v", typ, action, err)
			}
		}
	}
}

func TestValidate_StrictRejectsUnknownType(t *testing.T) {
	v := NewValidator()

	err := v.Validate(ChimeStrict, map[string]any{"type": "gong", "action": "start"})
	if err == nil {
		t.Error("expected validation error for unknown type")
	}
}

func TestValidate_StrictRequiresType(t *testing.T) {
	v := NewValidator()

	err := v.Validate(ChimeStrict, map[string]any{"action": "start"})
	if err == nil {
		t.Error("expected validation error for missing type")
	}
}

func TestValidate_PermissiveAcceptsAnyType(t *testing.T) {
	v := NewValidator()

	err := v.Validate(ChimePermissive, map[string]any{"type": "gong", "action": "start"})
	if err != nil {
		t.Errorf("permissive schema should accept any type, got: %v", err)
	}

	err = v.Validate(ChimePermissive, map[string]any{"action": "stop"})
	if err != nil {
		t.Errorf("permissive schema should accept missing type, got: %v", err)
	}
}

func TestValidate_InvalidAction(t *testing.T) {
	v := NewValidator()

	for _, schema := range []json.RawMessage{ChimeStrict, ChimePermissive} {
		err := v.Validate(schema, map[string]any{"type": "alarm", "action": "pause"})
		if err == nil {
			t.Error("expected validation error for invalid action")
		}
		err = v.Validate(schema, map[string]any{"type": "alarm"})
		if err == nil {
			t.Error("expected validation error for missing action")
		}
	}
}

func TestValidate_UnknownProperty(t *testing.T) {
	v := NewValidator()

	err := v.Validate(ChimeStrict, map[string]any{
		"type":    "alarm",
		"action":  "start",
		"unknown": "value",
	})
	if err == nil {
		t.Error("expected validation error for unknown property")
	}
}

func TestValidate_CalibrateAngle(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(Calibrate, map[string]any{"angle": float64(90)}); err != nil {
		t.Errorf("expected angle 90 to be valid, got: %v", err)
	}
	if err := v.Validate(Calibrate, map[string]any{}); err != nil {
		t.Errorf("expected missing angle to be valid, got: %v", err)
	}
	if err := v.Validate(Calibrate, map[string]any{"angle": float64(181)}); err == nil {
		t.Error("expected validation error for angle above servo travel")
	}
	if err := v.Validate(Calibrate, map[string]any{"angle": float64(-1)}); err == nil {
		t.Error("expected validation error for negative angle")
	}
}

func TestValidate_WrapsErrInvalid(t *testing.T) {
	v := NewValidator()

	err := v.Validate(ChimeStrict, map[string]any{"type": "gong", "action": "start"})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got: %v", err)
	}
}

func TestValidate_BrokenSchema(t *testing.T) {
	v := NewValidator()

	err := v.Validate(json.RawMessage(`{"type": `), map[string]any{})
	if err == nil {
		t.Fatal("expected error for unparseable schema")
	}
	if errors.Is(err, ErrInvalid) {
		t.Error("schema errors must not look like parameter errors")
	}
}

func TestWarm(t *testing.T) {
	v := NewValidator()

	if err := v.Warm(ChimeStrict, ChimePermissive, Calibrate); err != nil {
		t.Fatal(err)
	}
	if len(v.cache) != 3 {
		t.Errorf("expected 3 cached schemas, got %d", len(v.cache))
	}
}

func TestValidate_CachesSchema(t *testing.T) {
	v := NewValidator()

	// First call compiles
	err := v.Validate(ChimeStrict, map[string]any{"type": "alarm", "action": "start"})
	if err != nil {
		t.Fatal(err)
	}

	// Second call should use cache
	err = v.Validate(ChimeStrict, map[string]any{"type": "doorbell", "action": "stop"})
	if err != nil {
		t.Fatal(err)
	}

	v.mu.RLock()
	cacheSize := len(v.cache)
	v.mu.RUnlock()
	if cacheSize != 1 {
		t.Errorf("expected 1 cached schema, got %d", cacheSize)
	}
}

func TestChimeSchema(t *testing.T) {
	if string(ChimeSchema(true)) != string(ChimeStrict) {
		t.Error("strict guard should select the strict schema")
	}
	if string(ChimeSchema(false)) != string(ChimePermissive) {
		t.Error("permissive guard should select the permissive schema")
	}
}
