package units

import (
	"math"
	"strings"

	"github.com/tokens-studio/go-tokenscript/internal/ast"
	"github.com/tokens-studio/go-tokenscript/internal/errors"
	"github.com/tokens-studio/go-tokenscript/internal/interp/runtime"
	"github.com/tokens-studio/go-tokenscript/internal/parser"
	"github.com/tokens-studio/go-tokenscript/internal/semver"
	"github.com/tokens-studio/go-tokenscript/pkg/token"
)

// Executor runs a compiled script against a fresh child interpreter.
type Executor interface {
	Execute(prog *ast.Program, refs map[string]runtime.Value) (runtime.Value, error)
}

type compiledConversion struct {
	lossless bool
	prog     *ast.Program
}

// Manager is the registry of unit specifications. Registration is
// write-once per process; the maps are read-only afterwards.
type Manager struct {
	specs       map[string]*Spec                          // URI -> spec
	keywords    map[string]string                         // upper-cased keyword -> URI
	names       map[string]string                         // lower-cased name -> URI
	conversions map[string]map[string]*compiledConversion // source URI -> target URI -> script
	toAbsolute  map[string]*ast.Program                   // URI -> compiled to_absolute script
}

// NewManager creates an empty unit manager.
func NewManager() *Manager {
	return &Manager{
		specs:       make(map[string]*Spec),
		keywords:    make(map[string]string),
		names:       make(map[string]string),
		conversions: make(map[string]map[string]*compiledConversion),
		toAbsolute:  make(map[string]*ast.Program),
	}
}

// Register parses, validates and stores a unit specification under uri,
// compiling every embedded script.
func (m *Manager) Register(uri string, raw []byte, unitPred func(string) bool) error {
	spec, err := ParseSpec(raw)
	if err != nil {
		return err
	}
	return m.RegisterSpec(uri, spec, unitPred)
}

// RegisterSpec stores an already-parsed specification under uri.
func (m *Manager) RegisterSpec(uri string, spec *Spec, unitPred func(string) bool) error {
	m.specs[uri] = spec
	m.keywords[strings.ToUpper(spec.Keyword)] = uri
	m.names[strings.ToLower(spec.Name)] = uri

	for _, conv := range spec.Conversions {
		source := conv.Source
		if source == "$self" {
			source = uri
		}
		target := conv.Target
		if target == "$self" {
			target = uri
		}
		prog, err := parser.Parse(conv.Script.Script, unitPred)
		if err != nil {
			return errors.New(errors.ParseError, token.Token{},
				"unit spec %q: conversion %s -> %s: %v", spec.Name, source, target, err)
		}
		if m.conversions[source] == nil {
			m.conversions[source] = make(map[string]*compiledConversion)
		}
		m.conversions[source][target] = &compiledConversion{lossless: conv.Lossless, prog: prog}
	}

	if spec.Type == TypeRelative {
		prog, err := parser.Parse(spec.ToAbsolute.Script, unitPred)
		if err != nil {
			return errors.New(errors.ParseError, token.Token{},
				"unit spec %q: to_absolute: %v", spec.Name, err)
		}
		m.toAbsolute[uri] = prog
	}
	return nil
}

// HasKeyword reports whether keyword names a registered unit. Keywords
// compare case-insensitively.
func (m *Manager) HasKeyword(keyword string) bool {
	_, ok := m.keywords[strings.ToUpper(keyword)]
	return ok
}

// SpecByKeyword returns the URI and spec registered under keyword.
func (m *Manager) SpecByKeyword(keyword string) (string, *Spec, bool) {
	uri, ok := m.keywords[strings.ToUpper(keyword)]
	if !ok {
		return "", nil, false
	}
	return uri, m.specs[uri], true
}

// SpecByName returns the URI and spec registered under the canonical
// name, compared case-insensitively.
func (m *Manager) SpecByName(name string) (string, *Spec, bool) {
	uri, ok := m.names[strings.ToLower(name)]
	if !ok {
		return "", nil, false
	}
	return uri, m.specs[uri], true
}

// IsRelative reports whether keyword names a registered relative unit.
func (m *Manager) IsRelative(keyword string) bool {
	_, spec, ok := m.SpecByKeyword(keyword)
	return ok && spec.Type == TypeRelative
}

// ResolveURI maps uri onto a registered URI using semver fallback
// resolution.
func (m *Manager) ResolveURI(uri string) (string, bool) {
	return semver.Resolve(uri,
		func(u string) bool { _, ok := m.specs[u]; return ok },
		func() []string {
			out := make([]string, 0, len(m.specs))
			for u := range m.specs {
				out = append(out, u)
			}
			return out
		})
}

type pathStep struct {
	from, to string
}

// findPath runs a breadth-first search over the conversion adjacency map
// with version-resolved endpoints.
func (m *Manager) findPath(source, target string) []pathStep {
	type queued struct {
		uri  string
		path []pathStep
	}
	visited := map[string]bool{source: true}
	queue := []queued{{uri: source}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for rawNext := range m.conversions[cur.uri] {
			next, ok := m.ResolveURI(rawNext)
			if !ok {
				next = rawNext
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			step := pathStep{from: cur.uri, to: rawNext}
			path := append(append([]pathStep{}, cur.path...), step)
			if next == target {
				return path
			}
			queue = append(queue, queued{uri: next, path: path})
		}
	}
	return nil
}

// convertMagnitude chains conversion scripts from sourceURI to targetURI
// over the BFS path, feeding each script the running magnitude as
// {input}.
func (m *Manager) convertMagnitude(mag *runtime.NumberValue, sourceURI, targetURI string, tok token.Token, exec Executor) (*runtime.NumberValue, error) {
	if sourceURI == targetURI {
		return mag, nil
	}
	path := m.findPath(sourceURI, targetURI)
	if path == nil {
		return nil, errors.New(errors.NoConversionPath, tok,
			"no conversion path from %s to %s", sourceURI, targetURI)
	}
	current := mag
	for _, step := range path {
		refs := map[string]runtime.Value{"input": current}
		result, err := exec.Execute(m.conversions[step.from][step.to].prog, refs)
		if err != nil {
			return nil, err
		}
		num, err := asNumber(result, tok)
		if err != nil {
			return nil, err
		}
		current = num
	}
	return current, nil
}

// ConvertTo converts a dimensioned value to the unit registered at
// targetURI.
func (m *Manager) ConvertTo(v *runtime.NumberWithUnitValue, targetURI string, tok token.Token, exec Executor) (*runtime.NumberWithUnitValue, error) {
	sourceURI, _, ok := m.SpecByKeyword(v.Unit)
	if !ok {
		return nil, errors.New(errors.MissingSpec, tok, "no unit registered for keyword %q", v.Unit)
	}
	target, ok := m.ResolveURI(targetURI)
	if !ok {
		return nil, errors.New(errors.MissingSpec, tok, "no unit spec registered at %q", targetURI)
	}
	mag, err := m.convertMagnitude(v.Number, sourceURI, target, tok, exec)
	if err != nil {
		return nil, err
	}
	return &runtime.NumberWithUnitValue{Number: mag, Unit: m.specs[target].Keyword}, nil
}

// resolveRelative runs a relative unit's to_absolute script with the
// relative magnitude and the companion base magnitude.
func (m *Manager) resolveRelative(uri string, relative, other *runtime.NumberValue, tok token.Token, exec Executor) (*runtime.NumberValue, error) {
	prog, ok := m.toAbsolute[uri]
	if !ok {
		return nil, errors.New(errors.MissingSpec, tok, "unit at %q has no to_absolute script", uri)
	}
	refs := map[string]runtime.Value{
		"relative_value": relative,
		"other_value":    other,
	}
	result, err := exec.Execute(prog, refs)
	if err != nil {
		return nil, err
	}
	return asNumber(result, tok)
}

// ConvertToCommonFormat reduces a sequence of Numbers and
// NumberWithUnits to a shared unit:
//
//  1. A single relative-unit input is resolved against the companion
//     base magnitude and replaced in place.
//  2. Otherwise every distinct input unit is tried as the common target;
//     only targets every conversion reaches survive.
//  3. Among the survivors the unit carrying the largest absolute
//     converted value wins, ties broken by insertion order.
//  4. No survivor means NoCommonUnit.
func (m *Manager) ConvertToCommonFormat(inputs []runtime.Value, tok token.Token, exec Executor) ([]runtime.Value, error) {
	relIdx := -1
	relCount := 0
	for i, in := range inputs {
		if nwu, ok := in.(*runtime.NumberWithUnitValue); ok && m.IsRelative(nwu.Unit) {
			relIdx = i
			relCount++
		}
	}

	if relCount == 1 {
		rel := inputs[relIdx].(*runtime.NumberWithUnitValue)
		uri, _, _ := m.SpecByKeyword(rel.Unit)

		companionMag := runtime.NewInt(0)
		companionUnit := ""
		for i, in := range inputs {
			if i == relIdx {
				continue
			}
			switch v := in.(type) {
			case *runtime.NumberWithUnitValue:
				companionMag = v.Number
				companionUnit = v.Unit
			case *runtime.NumberValue:
				companionMag = v
			default:
				continue
			}
			break
		}

		resolved, err := m.resolveRelative(uri, rel.Number, companionMag, tok, exec)
		if err != nil {
			return nil, err
		}

		out := make([]runtime.Value, len(inputs))
		copy(out, inputs)
		if companionUnit != "" {
			out[relIdx] = &runtime.NumberWithUnitValue{Number: resolved, Unit: companionUnit}
		} else {
			out[relIdx] = resolved
		}
		return out, nil
	}

	// Distinct units in insertion order.
	var unitOrder []string
	seen := map[string]bool{}
	for _, in := range inputs {
		if nwu, ok := in.(*runtime.NumberWithUnitValue); ok && !seen[nwu.Unit] {
			seen[nwu.Unit] = true
			unitOrder = append(unitOrder, nwu.Unit)
		}
	}
	if len(unitOrder) == 0 {
		return inputs, nil
	}

	type candidate struct {
		unit string
		seq  []runtime.Value
		peak float64
	}
	var candidates []candidate

	for _, target := range unitOrder {
		targetURI, _, _ := m.SpecByKeyword(target)
		seq := make([]runtime.Value, len(inputs))
		peak := 0.0
		ok := true
		for i, in := range inputs {
			switch v := in.(type) {
			case *runtime.NumberWithUnitValue:
				sourceURI, _, found := m.SpecByKeyword(v.Unit)
				if !found {
					ok = false
					break
				}
				mag, err := m.convertMagnitude(v.Number, sourceURI, targetURI, tok, exec)
				if err != nil {
					ok = false
					break
				}
				seq[i] = &runtime.NumberWithUnitValue{Number: mag, Unit: target}
				if a := math.Abs(mag.AsFloat()); a > peak {
					peak = a
				}
			case *runtime.NumberValue:
				seq[i] = v
				if a := math.Abs(v.AsFloat()); a > peak {
					peak = a
				}
			default:
				seq[i] = in
			}
		}
		if ok {
			candidates = append(candidates, candidate{unit: target, seq: seq, peak: peak})
		}
	}

	if len(candidates) == 0 {
		return nil, errors.New(errors.NoCommonUnit, tok,
			"no common unit among %s", strings.Join(unitOrder, ", "))
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.peak > best.peak {
			best = c
		}
	}
	return best.seq, nil
}

func asNumber(v runtime.Value, tok token.Token) (*runtime.NumberValue, error) {
	switch n := v.(type) {
	case *runtime.NumberValue:
		return n, nil
	case *runtime.NumberWithUnitValue:
		return n.Number, nil
	default:
		return nil, errors.New(errors.TypeMismatch, tok,
			"unit script produced %s, want Number", v.Type())
	}
}
