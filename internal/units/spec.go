// Package units implements the registry of unit specifications:
// conversion chaining between absolute units, relative-unit resolution,
// and common-format selection for mixed-unit arithmetic.
package units

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Unit spec types.
const (
	TypeAbsolute = "absolute"
	TypeRelative = "relative"
)

// ScriptRef carries an embedded TokenScript source string.
type ScriptRef struct {
	Type   string `json:"type"`
	Script string `json:"script"`
}

// Conversion declares a script mapping a magnitude from a source unit to
// a target unit. Scripts reference the incoming magnitude as {input}.
type Conversion struct {
	Source   string    `json:"source"`
	Target   string    `json:"target"`
	Lossless bool      `json:"lossless"`
	Script   ScriptRef `json:"script"`
}

// Spec is a parsed unit specification document. Relative units carry a
// to_absolute script referencing {relative_value} and {other_value}.
type Spec struct {
	Name        string       `json:"name"`
	Keyword     string       `json:"keyword"`
	Type        string       `json:"type"`
	Conversions []Conversion `json:"conversions"`
	ToAbsolute  *ScriptRef   `json:"to_absolute"`
}

// ParseSpec decodes and validates a unit specification document.
func ParseSpec(raw []byte) (*Spec, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("unit spec is not valid JSON")
	}
	var spec Spec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("decoding unit spec: %w", err)
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

func (s *Spec) validate() error {
	if s.Name == "" {
		return fmt.Errorf("unit spec has no name")
	}
	if s.Keyword == "" {
		return fmt.Errorf("unit spec %q has no keyword", s.Name)
	}
	if s.Type != TypeAbsolute && s.Type != TypeRelative {
		return fmt.Errorf("unit spec %q has type %q, want %q or %q",
			s.Name, s.Type, TypeAbsolute, TypeRelative)
	}
	if s.Type == TypeRelative && (s.ToAbsolute == nil || s.ToAbsolute.Script == "") {
		return fmt.Errorf("relative unit spec %q has no to_absolute script", s.Name)
	}
	for _, conv := range s.Conversions {
		if conv.Source == "" || conv.Target == "" {
			return fmt.Errorf("unit spec %q: conversion with empty endpoint", s.Name)
		}
		if conv.Script.Script == "" {
			return fmt.Errorf("unit spec %q: conversion %s -> %s has no script",
				s.Name, conv.Source, conv.Target)
		}
	}
	return nil
}
