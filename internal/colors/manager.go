package colors

import (
	"strings"

	"github.com/tokens-studio/go-tokenscript/internal/ast"
	"github.com/tokens-studio/go-tokenscript/internal/errors"
	"github.com/tokens-studio/go-tokenscript/internal/interp/runtime"
	"github.com/tokens-studio/go-tokenscript/internal/parser"
	"github.com/tokens-studio/go-tokenscript/internal/semver"
	"github.com/tokens-studio/go-tokenscript/pkg/token"
)

// Executor runs a compiled script against a fresh child interpreter.
// The interpreter package provides the implementation; the indirection
// keeps this package free of a dependency on the evaluator.
type Executor interface {
	Execute(prog *ast.Program, refs map[string]runtime.Value) (runtime.Value, error)
}

type compiledInitializer struct {
	uri  string
	prog *ast.Program
}

type compiledConversion struct {
	lossless bool
	prog     *ast.Program
}

// Manager is the registry of color specifications. Registration is
// write-once per process; afterwards the maps are read-only and may be
// shared by reference with child interpreters.
type Manager struct {
	specs        map[string]*Spec                          // URI -> spec
	names        map[string]string                         // lower-cased name -> URI
	initializers map[string]compiledInitializer            // lower-cased keyword -> script
	conversions  map[string]map[string]*compiledConversion // source URI -> target URI -> script
}

// NewManager creates an empty color manager.
func NewManager() *Manager {
	return &Manager{
		specs:        make(map[string]*Spec),
		names:        make(map[string]string),
		initializers: make(map[string]compiledInitializer),
		conversions:  make(map[string]map[string]*compiledConversion),
	}
}

// Register parses, validates and stores a color specification under uri.
// All embedded scripts are parsed to ASTs here, once; unitPred is the
// unit-keyword predicate the script lexer needs and may be nil.
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
	m.names[strings.ToLower(spec.Name)] = uri

	for _, init := range spec.Initializers {
		prog, err := parser.Parse(init.Script.Script, unitPred)
		if err != nil {
			return errors.New(errors.ParseError, token.Token{},
				"color spec %q: initializer %q: %v", spec.Name, init.Keyword, err)
		}
		m.initializers[strings.ToLower(init.Keyword)] = compiledInitializer{uri: uri, prog: prog}
	}

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
				"color spec %q: conversion %s -> %s: %v", spec.Name, source, target, err)
		}
		if m.conversions[source] == nil {
			m.conversions[source] = make(map[string]*compiledConversion)
		}
		m.conversions[source][target] = &compiledConversion{lossless: conv.Lossless, prog: prog}
	}
	return nil
}

// ResolveURI maps uri onto a registered URI using semver fallback
// resolution.
func (m *Manager) ResolveURI(uri string) (string, bool) {
	return semver.Resolve(uri,
		func(u string) bool { _, ok := m.specs[u]; return ok },
		m.uris)
}

func (m *Manager) uris() []string {
	out := make([]string, 0, len(m.specs))
	for u := range m.specs {
		out = append(out, u)
	}
	return out
}

// Spec returns the specification registered under uri, after version
// resolution.
func (m *Manager) Spec(uri string) (*Spec, bool) {
	resolved, ok := m.ResolveURI(uri)
	if !ok {
		return nil, false
	}
	return m.specs[resolved], true
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

// HasInitializer reports whether keyword names a registered initializer.
func (m *Manager) HasInitializer(keyword string) bool {
	_, ok := m.initializers[strings.ToLower(keyword)]
	return ok
}

// Initialize runs the initializer registered under keyword with the call
// arguments exposed as the `{input}` reference, and requires a Color
// result carrying the spec's type.
func (m *Manager) Initialize(keyword string, args []runtime.Value, tok token.Token, exec Executor) (*runtime.ColorValue, error) {
	init, ok := m.initializers[strings.ToLower(keyword)]
	if !ok {
		return nil, errors.New(errors.MissingSpec, tok, "no color initializer %q", keyword)
	}
	spec := m.specs[init.uri]

	if req := len(spec.Schema.Required); req > 0 && len(args) < req {
		return nil, errors.New(errors.InvalidInitializerArity, tok,
			"%s expects %d arguments, got %d", keyword, req, len(args))
	}

	refs := map[string]runtime.Value{
		"input": &runtime.ListValue{Elements: args},
	}
	result, err := exec.Execute(init.prog, refs)
	if err != nil {
		return nil, err
	}
	color, ok := result.(*runtime.ColorValue)
	if !ok {
		return nil, errors.New(errors.TypeMismatch, tok,
			"initializer %q produced %s, want Color", keyword, result.Type())
	}
	if color.SubType != "" && !strings.EqualFold(color.SubType, spec.Name) {
		return nil, errors.New(errors.TypeMismatch, tok,
			"initializer %q produced Color.%s, want Color.%s", keyword, color.SubType, spec.Name)
	}
	color.SubType = spec.Name
	return color, nil
}

// ConvertToByType converts color to the spec registered under
// targetName, resolving the source spec from the color's subType.
func (m *Manager) ConvertToByType(color *runtime.ColorValue, targetName string, tok token.Token, exec Executor) (*runtime.ColorValue, error) {
	if color.SubType == "" {
		return nil, errors.New(errors.MissingSpec, tok, "color has no resolved type")
	}
	sourceURI, _, ok := m.SpecByName(color.SubType)
	if !ok {
		return nil, errors.New(errors.MissingSpec, tok, "no color spec named %q", color.SubType)
	}
	targetURI, _, ok := m.SpecByName(targetName)
	if !ok {
		return nil, errors.New(errors.MissingSpec, tok, "no color spec named %q", targetName)
	}
	return m.Convert(color, sourceURI, targetURI, tok, exec)
}

// Convert converts color from the spec at sourceURI to the spec at
// targetURI: identity when the endpoints resolve to the same spec, a
// direct edge when one exists, otherwise a BFS chain over the
// conversion graph.
func (m *Manager) Convert(color *runtime.ColorValue, sourceURI, targetURI string, tok token.Token, exec Executor) (*runtime.ColorValue, error) {
	source, ok := m.ResolveURI(sourceURI)
	if !ok {
		return nil, errors.New(errors.MissingSpec, tok, "no color spec registered at %q", sourceURI)
	}
	target, ok := m.ResolveURI(targetURI)
	if !ok {
		return nil, errors.New(errors.MissingSpec, tok, "no color spec registered at %q", targetURI)
	}

	if source == target {
		return color, nil
	}

	path := m.findPath(source, target)
	if path == nil {
		return nil, errors.New(errors.NoConversionPath, tok,
			"no conversion path from %s to %s", source, target)
	}

	current := color
	for _, step := range path {
		refs := map[string]runtime.Value{"input": current}
		result, err := exec.Execute(m.conversions[step.from][step.to].prog, refs)
		if err != nil {
			return nil, err
		}
		next, err := m.coerceConversionResult(result, step.to, tok)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// PathIsLossless reports whether every conversion on the BFS-chosen path
// between the resolved endpoints is marked lossless. The second return
// is false when no path exists.
func (m *Manager) PathIsLossless(sourceURI, targetURI string) (bool, bool) {
	source, ok := m.ResolveURI(sourceURI)
	if !ok {
		return false, false
	}
	target, ok := m.ResolveURI(targetURI)
	if !ok {
		return false, false
	}
	if source == target {
		return true, true
	}
	path := m.findPath(source, target)
	if path == nil {
		return false, false
	}
	for _, step := range path {
		if !m.conversions[step.from][step.to].lossless {
			return false, true
		}
	}
	return true, true
}

type pathStep struct {
	from, to string
}

// findPath runs a breadth-first search over the conversion adjacency map.
// Edge endpoints are version-resolved so an edge targeting ".../1/" can
// reach a spec registered at ".../1.0.0/".
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

// coerceConversionResult requires a Color result from a conversion
// script, wrapping a bare scalar back into the target spec's shape.
func (m *Manager) coerceConversionResult(result runtime.Value, targetURI string, tok token.Token) (*runtime.ColorValue, error) {
	spec, _ := m.Spec(targetURI)
	switch v := result.(type) {
	case *runtime.ColorValue:
		if spec != nil && (v.SubType == "" || strings.EqualFold(v.SubType, spec.Name)) {
			v.SubType = spec.Name
		}
		return v, nil
	case *runtime.StringValue:
		name := ""
		if spec != nil {
			name = spec.Name
		}
		return runtime.NewStringColor(name, v.Value), nil
	default:
		return nil, errors.New(errors.TypeMismatch, tok,
			"conversion produced %s, want Color", result.Type())
	}
}
