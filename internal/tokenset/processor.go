package tokenset

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/tokens-studio/go-tokenscript/internal/config"
	"github.com/tokens-studio/go-tokenscript/internal/errors"
	"github.com/tokens-studio/go-tokenscript/internal/interp"
)

// Processor resolves design-token documents against a configured
// runtime. The config's spec registries must be populated before use.
type Processor struct {
	cfg *config.Config
}

// NewProcessor creates a processor evaluating against cfg.
func NewProcessor(cfg *config.Config) *Processor {
	return &Processor{cfg: cfg}
}

// Result is the outcome of one Process call. Exactly one of Tokens and
// Themes is populated, depending on whether the document declares
// $themes.
type Result struct {
	Tokens map[string]string
	Themes map[string]map[string]string
	// Types maps resolved paths to their declared token types, feeding
	// the transform pass. Populated in flat mode.
	Types       map[string]string
	Diagnostics []Diagnostic
}

// Process resolves a DTCG-shaped JSON document.
func (p *Processor) Process(raw []byte) (*Result, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("token set is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	result := &Result{}

	themes := doc.Get("$themes")
	if themes.Exists() && themes.IsArray() {
		result.Themes = make(map[string]map[string]string)
		for _, theme := range parseThemes(themes) {
			leaves, notes := theme.flatten(doc)
			result.Diagnostics = append(result.Diagnostics, notes...)
			resolved, diags := p.resolveAll(leaves)
			result.Diagnostics = append(result.Diagnostics, diags...)
			result.Themes[theme.name] = resolved
		}
		return result, nil
	}

	leaves, notes := flattenDoc(doc)
	result.Diagnostics = append(result.Diagnostics, notes...)
	resolved, diags := p.resolveAll(leaves)
	result.Diagnostics = append(result.Diagnostics, diags...)
	result.Tokens = resolved
	result.Types = make(map[string]string, len(resolved))
	for path := range resolved {
		result.Types[path] = leaves[path].typ
	}
	return result, nil
}

var referencePattern = regexp.MustCompile(`\{([^{}]+)\}`)

// references lists the dotted paths a raw value depends on.
func references(value string) []string {
	matches := referencePattern.FindAllStringSubmatch(value, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

// looksLikeExpression reports whether a raw value needs evaluation:
// it holds a reference, an operator, or a call. Plain literals pass
// through untouched.
func looksLikeExpression(value string) bool {
	if strings.Contains(value, "{") {
		return true
	}
	if strings.ContainsAny(value, "+*/^()") {
		return true
	}
	// A hyphen only counts as an operator when spaced; token names and
	// font families carry bare hyphens.
	return strings.Contains(value, " - ")
}

// resolution states for the depth-first resolver.
const (
	stateUnresolved = iota
	stateResolving
	stateDone
	stateFailed
)

type resolver struct {
	p      *Processor
	leaves map[string]leaf
	state  map[string]int
	out    map[string]string
	diags  []Diagnostic
	stack  []string
}

// resolveAll evaluates every leaf in dependency order. Cycles and
// missing references fail only the leaves involved.
func (p *Processor) resolveAll(leaves map[string]leaf) (map[string]string, []Diagnostic) {
	r := &resolver{
		p:      p,
		leaves: leaves,
		state:  make(map[string]int, len(leaves)),
		out:    make(map[string]string, len(leaves)),
	}
	paths := make([]string, 0, len(leaves))
	for path := range leaves {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		r.resolve(path)
	}
	return r.out, r.diags
}

func (r *resolver) resolve(path string) bool {
	switch r.state[path] {
	case stateDone:
		return true
	case stateFailed:
		return false
	case stateResolving:
		r.failCycle(path)
		return false
	}

	lf, ok := r.leaves[path]
	if !ok {
		return false
	}

	r.state[path] = stateResolving
	r.stack = append(r.stack, path)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	value := lf.value
	for _, ref := range references(value) {
		if _, present := r.leaves[ref]; !present {
			r.state[path] = stateFailed
			r.diags = append(r.diags, Diagnostic{
				Kind:    errors.MissingTokenReference,
				Path:    path,
				Message: fmt.Sprintf("reference {%s} does not resolve in this set", ref),
			})
			return false
		}
		if !r.resolve(ref) {
			if r.state[path] != stateFailed {
				r.state[path] = stateFailed
			}
			return false
		}
		value = strings.ReplaceAll(value, "{"+ref+"}", r.out[ref])
	}

	if !looksLikeExpression(lf.value) {
		r.out[path] = value
		r.state[path] = stateDone
		return true
	}

	resolved, err := r.p.evalLeaf(value)
	if err != nil {
		r.state[path] = stateFailed
		diag := Diagnostic{Path: path, Message: err.Error()}
		if re, ok := err.(*errors.RuntimeError); ok {
			diag.Kind = re.Kind
		}
		r.diags = append(r.diags, diag)
		return false
	}
	r.out[path] = resolved
	r.state[path] = stateDone
	return true
}

// failCycle marks every leaf on the active resolution stack from the
// repeated path onward as failed and records one TokenCycle diagnostic.
func (r *resolver) failCycle(path string) {
	start := 0
	for i, p := range r.stack {
		if p == path {
			start = i
			break
		}
	}
	participants := append([]string{}, r.stack[start:]...)
	for _, p := range participants {
		r.state[p] = stateFailed
	}
	r.diags = append(r.diags, Diagnostic{
		Kind:         errors.TokenCycle,
		Path:         path,
		Message:      "token references form a cycle",
		Participants: participants,
	})
}

// evalLeaf wraps a substituted value as a program and interprets it.
func (p *Processor) evalLeaf(value string) (string, error) {
	source := "return " + value + ";"
	result, err := interp.Run(source, interp.Options{Config: p.cfg})
	if err != nil {
		return "", err
	}
	return result.String(), nil
}

// JSON renders the result as a nested document, rebuilding group
// structure from the dotted paths.
func (res *Result) JSON() ([]byte, error) {
	out := []byte("{}")
	var err error
	if res.Themes != nil {
		for theme, tokens := range res.Themes {
			for path, value := range tokens {
				out, err = sjson.SetBytes(out, escapeKey(theme)+"."+path, value)
				if err != nil {
					return nil, err
				}
			}
		}
		return out, nil
	}
	for path, value := range res.Tokens {
		out, err = sjson.SetBytes(out, path, value)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func escapeKey(k string) string {
	return strings.ReplaceAll(k, ".", `\.`)
}
