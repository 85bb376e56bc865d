// Package colors implements the registry of user-pluggable color
// specifications. Specifications arrive as JSON documents whose embedded
// initializer and conversion scripts are TokenScript source, parsed once
// at registration and executed by child interpreters afterwards.
package colors

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// ScriptRef carries an embedded TokenScript source string and its
// declared MIME type. Additional fields in the document are ignored.
type ScriptRef struct {
	Type   string `json:"type"`
	Script string `json:"script"`
}

// Initializer declares a function-like keyword (e.g. "rgb") whose script
// constructs a color of the registering specification's type.
type Initializer struct {
	Keyword string    `json:"keyword"`
	Script  ScriptRef `json:"script"`
}

// Conversion declares a script mapping a color from a source spec to a
// target spec. "$self" in either endpoint stands for the registering URI.
type Conversion struct {
	Source   string    `json:"source"`
	Target   string    `json:"target"`
	Lossless bool      `json:"lossless"`
	Script   ScriptRef `json:"script"`
}

// Property is one schema attribute declaration.
type Property struct {
	Type string `json:"type"`
}

// Schema describes the attribute shape of a color specification.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required"`
}

// Spec is a parsed color specification document.
type Spec struct {
	Name         string        `json:"name"`
	Type         string        `json:"type"`
	Schema       Schema        `json:"schema"`
	Initializers []Initializer `json:"initializers"`
	Conversions  []Conversion  `json:"conversions"`
}

// ParseSpec decodes and validates a color specification document.
func ParseSpec(raw []byte) (*Spec, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("color spec is not valid JSON")
	}
	var spec Spec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("decoding color spec: %w", err)
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

func (s *Spec) validate() error {
	if s.Name == "" {
		return fmt.Errorf("color spec has no name")
	}
	if s.Type != "color" {
		return fmt.Errorf("color spec %q has type %q, want \"color\"", s.Name, s.Type)
	}
	if s.Schema.Properties == nil {
		return fmt.Errorf("color spec %q has no object schema", s.Name)
	}
	for prop, decl := range s.Schema.Properties {
		if decl.Type != "number" && decl.Type != "string" {
			return fmt.Errorf("color spec %q: property %q has type %q, want \"number\" or \"string\"",
				s.Name, prop, decl.Type)
		}
	}
	for _, init := range s.Initializers {
		if init.Keyword == "" {
			return fmt.Errorf("color spec %q: initializer with empty keyword", s.Name)
		}
		if init.Script.Script == "" {
			return fmt.Errorf("color spec %q: initializer %q has no script", s.Name, init.Keyword)
		}
	}
	for _, conv := range s.Conversions {
		if conv.Source == "" || conv.Target == "" {
			return fmt.Errorf("color spec %q: conversion with empty endpoint", s.Name)
		}
		if conv.Script.Script == "" {
			return fmt.Errorf("color spec %q: conversion %s -> %s has no script",
				s.Name, conv.Source, conv.Target)
		}
	}
	return nil
}
