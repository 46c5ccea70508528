// Package schema holds the JSON Schema documents that guard request parameters.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("parameters do not match schema")

// Validator checks request parameters against schema documents.
// Compiled schemas are cached by their raw text.
type Validator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewValidator creates a Validator with an empty cache.
func NewValidator() *Validator {
	return &Validator{
		cache: make(map[string]*jsonschema.Schema),
	}
}

// Warm compiles the given documents so the first request pays no compile cost.
func (v *Validator) Warm(docs ...json.RawMessage) error {
	for _, doc := range docs {
		if _, err := v.compile(doc); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks payload against schemaDoc. Numbers in payload must be float64,
// the same shape encoding/json produces.
func (v *Validator) Validate(schemaDoc json.RawMessage, payload map[string]any) error {
	compiled, err := v.compile(schemaDoc)
	if err != nil {
		return err
	}

	if err := compiled.Validate(toInstance(payload)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// toInstance converts the payload into the generic form the validator walks.
func toInstance(payload map[string]any) any {
	if payload == nil {
		return map[string]any{}
	}
	inst := make(map[string]any, len(payload))
	for k, val := range payload {
		inst[k] = val
	}
	return inst
}

func (v *Validator) compile(schemaDoc json.RawMessage) (*jsonschema.Schema, error) {
	key := string(schemaDoc)

	v.mu.RLock()
	s, ok := v.cache[key]
	v.mu.RUnlock()
	if ok {
		return s, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.cache[key]; ok {
		return s, nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaDoc))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("params.json", doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile("params.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	v.cache[key] = compiled
	return compiled, nil
}
