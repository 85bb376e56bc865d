package runtime

import "github.com/tokens-studio/go-tokenscript/pkg/token"

// Binding is one declared variable: its declared type, current value and
// the token of its declaration for error attribution.
type Binding struct {
	Base   string
	Sub    string
	Value  Value
	Origin token.Token
}

// Environment is the symbol table: lexically nested, ordered bindings.
// Lookups walk from the innermost scope outward. Declaring a name twice
// in the same scope is a redeclaration; shadowing across scopes is
// permitted.
type Environment struct {
	names []string
	store map[string]*Binding
	outer *Environment
}

// NewEnvironment creates a root-level environment with no outer scope.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]*Binding)}
}

// NewEnclosedEnvironment creates an environment nested inside outer.
// Used for block, loop and branch scopes.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: make(map[string]*Binding), outer: outer}
}

// Get resolves a name, searching the current scope first and then the
// enclosing scopes.
func (e *Environment) Get(name string) (*Binding, bool) {
	if b, ok := e.store[name]; ok {
		return b, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// GetLocal resolves a name in the current scope only.
func (e *Environment) GetLocal(name string) (*Binding, bool) {
	b, ok := e.store[name]
	return b, ok
}

// Declare creates a new binding in the current scope. It reports whether
// the name was free; a false return means the name is already declared in
// this same scope.
func (e *Environment) Declare(name, base, sub string, value Value, origin token.Token) bool {
	if _, ok := e.store[name]; ok {
		return false
	}
	e.names = append(e.names, name)
	e.store[name] = &Binding{Base: base, Sub: sub, Value: value, Origin: origin}
	return true
}

// Names returns the names declared in the current scope, in declaration
// order.
func (e *Environment) Names() []string {
	return e.names
}
