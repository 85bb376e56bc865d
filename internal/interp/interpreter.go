// Package interp implements the tree-walking evaluator for TokenScript.
package interp

import (
	"github.com/tokens-studio/go-tokenscript/internal/ast"
	"github.com/tokens-studio/go-tokenscript/internal/config"
	"github.com/tokens-studio/go-tokenscript/internal/errors"
	"github.com/tokens-studio/go-tokenscript/internal/interp/runtime"
)

// Options configure an Interpreter.
type Options struct {
	// Config supplies the language options and the color/unit managers.
	// A nil Config gets a fresh empty one.
	Config *config.Config
	// References is the external reference map consumed by {name} nodes.
	References map[string]runtime.Value
}

// Interpreter evaluates one program. Each Interpret call owns its root
// environment; values bound at the root scope persist until the caller
// drops the interpreter.
type Interpreter struct {
	program *ast.Program
	cfg     *config.Config
	refs    map[string]runtime.Value
	env     *runtime.Environment

	// iterations counts loop body executions across the whole interpret
	// call, bounding runaway loops.
	iterations int
}

// New creates an interpreter for the given program.
func New(program *ast.Program, opts Options) *Interpreter {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
	}
	return &Interpreter{
		program: program,
		cfg:     cfg,
		refs:    opts.References,
		env:     runtime.NewEnvironment(),
	}
}

// Interpret evaluates the program. The result is the value of the first
// return statement, otherwise the value of the last evaluated
// expression statement, otherwise nil.
func (i *Interpreter) Interpret() (runtime.Value, error) {
	var last runtime.Value = &runtime.NilValue{}

	for _, stmt := range i.program.Statements {
		val, err := i.evalStatement(stmt, i.env)
		if err != nil {
			return nil, err
		}
		if ret, ok := val.(*runtime.ReturnValue); ok {
			return ret.Inner, nil
		}
		if _, ok := stmt.(*ast.ExpressionStatement); ok && val != nil {
			last = val
		}
	}
	return last, nil
}

// Execute runs a compiled spec script in a fresh child interpreter whose
// config shares this interpreter's managers. It satisfies the Executor
// interfaces of the colors and units managers.
func (i *Interpreter) Execute(prog *ast.Program, refs map[string]runtime.Value) (runtime.Value, error) {
	child := New(prog, Options{
		Config:     i.cfg.ChildClone(),
		References: refs,
	})
	return child.Interpret()
}

// Run is a convenience helper: parse source with the config's unit
// predicate and interpret it.
func Run(source string, opts Options) (runtime.Value, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
		opts.Config = cfg
	}
	prog, err := parse(source, cfg)
	if err != nil {
		return nil, err
	}
	return New(prog, opts).Interpret()
}

// evalStatement dispatches one statement. Return statements yield a
// *runtime.ReturnValue which callers propagate upward unchanged.
func (i *Interpreter) evalStatement(stmt ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	switch s := stmt.(type) {
	case *ast.VariableDecl:
		return nil, i.evalVariableDecl(s, env)
	case *ast.AssignStatement:
		return nil, i.evalAssign(s, env)
	case *ast.IfStatement:
		return i.evalIf(s, env)
	case *ast.WhileStatement:
		return i.evalWhile(s, env)
	case *ast.ForInStatement:
		return i.evalForIn(s, env)
	case *ast.ReturnStatement:
		return i.evalReturn(s, env)
	case *ast.ExpressionStatement:
		return i.evalExpression(s.Expression, env)
	case *ast.BlockStatement:
		return i.evalBlock(s, runtime.NewEnclosedEnvironment(env))
	default:
		return nil, errors.New(errors.TypeMismatch, stmt.Tok(),
			"cannot evaluate statement %T", stmt)
	}
}

// evalBlock evaluates statements in an already-pushed scope and bubbles
// return values.
func (i *Interpreter) evalBlock(block *ast.BlockStatement, env *runtime.Environment) (runtime.Value, error) {
	for _, stmt := range block.Statements {
		val, err := i.evalStatement(stmt, env)
		if err != nil {
			return nil, err
		}
		if ret, ok := val.(*runtime.ReturnValue); ok {
			return ret, nil
		}
	}
	return nil, nil
}
