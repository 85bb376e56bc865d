package interp

import (
	"strings"

	"github.com/tokens-studio/go-tokenscript/internal/ast"
	"github.com/tokens-studio/go-tokenscript/internal/config"
	"github.com/tokens-studio/go-tokenscript/internal/errors"
	"github.com/tokens-studio/go-tokenscript/internal/interp/runtime"
	"github.com/tokens-studio/go-tokenscript/internal/lexer"
	"github.com/tokens-studio/go-tokenscript/internal/parser"
	"github.com/tokens-studio/go-tokenscript/pkg/token"
)

// tokenAt builds a bare position-only token for error attribution.
func tokenAt(line, column int) token.Token {
	return token.Token{Pos: token.Position{Line: line, Column: column}}
}

// parse lexes and parses source with the config's unit predicate,
// converting lexer and parser errors to kind-tagged runtime errors.
func parse(source string, cfg *config.Config) (*ast.Program, error) {
	l := lexer.New(source, lexer.WithUnitKeywords(cfg.UnitKeyword))
	p := parser.New(l)
	prog := p.ParseProgram()
	if errs := l.Errors(); len(errs) > 0 {
		first := errs[0]
		re := errors.New(errors.LexError, tokenAt(first.Pos.Line, first.Pos.Column), "%s", first.Message)
		return nil, re
	}
	if errs := p.Errors(); len(errs) > 0 {
		first := errs[0]
		return nil, errors.New(errors.ParseError, first.Token, "%s", first.Message)
	}
	return prog, nil
}

// evalVariableDecl declares a variable in the current scope, enforcing
// the single-declaration rule and the declared type.
func (i *Interpreter) evalVariableDecl(decl *ast.VariableDecl, env *runtime.Environment) error {
	var value runtime.Value
	if decl.Value != nil {
		v, err := i.evalExpression(decl.Value, env)
		if err != nil {
			return err
		}
		coerced, err := i.coerceDeclared(decl, v)
		if err != nil {
			return err
		}
		value = coerced
	} else {
		value = zeroValue(decl.Type)
	}

	if !env.Declare(decl.Name.Value, decl.Type.Base, decl.Type.Sub, value, decl.Token) {
		return errors.New(errors.Redeclaration, decl.Name.Token,
			"variable %q is already declared in this scope", decl.Name.Value)
	}
	return nil
}

// zeroValue is the default for a declaration without an initializer.
func zeroValue(t *ast.TypeAnnotation) runtime.Value {
	switch t.Base {
	case runtime.NumberType:
		return runtime.NewInt(0)
	case runtime.NumberWithUnitType:
		return &runtime.NumberWithUnitValue{Number: runtime.NewInt(0)}
	case runtime.StringType:
		return &runtime.StringValue{}
	case runtime.BooleanType:
		return &runtime.BooleanValue{}
	case runtime.ListType:
		return &runtime.ListValue{}
	case runtime.DictionaryType:
		return runtime.NewDictionary()
	case runtime.ColorType:
		return runtime.NewMapColor(t.Sub)
	default:
		return &runtime.NilValue{}
	}
}

// coerceDeclared checks an initializer or assignment value against the
// declared type, applying the Number <- NumberWithUnit magnitude
// coercion and stamping unresolved color sub-types.
func (i *Interpreter) coerceDeclared(decl *ast.VariableDecl, v runtime.Value) (runtime.Value, error) {
	return i.checkAssignable(decl.Type.Base, decl.Type.Sub, v, decl.Token)
}

func (i *Interpreter) checkAssignable(base, sub string, v runtime.Value, tok token.Token) (runtime.Value, error) {
	if _, ok := v.(*runtime.NilValue); ok {
		return v, nil
	}
	if v.Type() == base {
		if base == runtime.ColorType {
			if c, ok := v.(*runtime.ColorValue); ok {
				if c.SubType == "" {
					c.SubType = sub
				} else if sub != "" && !strings.EqualFold(c.SubType, sub) {
					return nil, errors.New(errors.TypeMismatch, tok,
						"cannot assign Color.%s to variable of type Color.%s", c.SubType, sub)
				}
			}
		}
		return v, nil
	}
	// A dimensioned number assigned to a Number variable keeps its
	// magnitude; the interpreter owns this coercion.
	if base == runtime.NumberType {
		if nwu, ok := v.(*runtime.NumberWithUnitValue); ok {
			return nwu.Number, nil
		}
	}
	return nil, errors.New(errors.TypeMismatch, tok,
		"cannot assign %s to variable of type %s", v.Type(), base)
}

// evalAssign handles `name = expr;` and `name.attr = expr;`.
func (i *Interpreter) evalAssign(stmt *ast.AssignStatement, env *runtime.Environment) error {
	binding, ok := env.Get(stmt.Name.Value)
	if !ok {
		return errors.New(errors.UndefinedVariable, stmt.Name.Token,
			"undefined variable %q", stmt.Name.Value)
	}

	value, err := i.evalExpression(stmt.Value, env)
	if err != nil {
		return err
	}

	if len(stmt.Chain) == 0 {
		coerced, err := i.checkAssignable(binding.Base, binding.Sub, value, stmt.Token)
		if err != nil {
			return err
		}
		binding.Value = coerced
		return nil
	}

	// Attribute assignment delegates to the owning value's attribute
	// contract; Color is the only type exposing one.
	color, ok := binding.Value.(*runtime.ColorValue)
	if !ok {
		return errors.New(errors.TypeMismatch, stmt.Name.Token,
			"%s does not support attribute assignment", binding.Value.Type())
	}
	_, err = i.cfg.Colors.SetAttribute(color, stmt.Chain, value, stmt.Token)
	return err
}

// evalIf evaluates if/elif/else branches in order.
func (i *Interpreter) evalIf(stmt *ast.IfStatement, env *runtime.Environment) (runtime.Value, error) {
	cond, err := i.evalCondition(stmt.Condition, env)
	if err != nil {
		return nil, err
	}
	if cond {
		return i.evalBlock(stmt.Consequence, runtime.NewEnclosedEnvironment(env))
	}
	for _, elif := range stmt.Elifs {
		cond, err := i.evalCondition(elif.Condition, env)
		if err != nil {
			return nil, err
		}
		if cond {
			return i.evalBlock(elif.Consequence, runtime.NewEnclosedEnvironment(env))
		}
	}
	if stmt.Alternative != nil {
		return i.evalBlock(stmt.Alternative, runtime.NewEnclosedEnvironment(env))
	}
	return nil, nil
}

func (i *Interpreter) evalCondition(expr ast.Expression, env *runtime.Environment) (bool, error) {
	v, err := i.evalExpression(expr, env)
	if err != nil {
		return false, err
	}
	b, ok := v.(*runtime.BooleanValue)
	if !ok {
		return false, errors.New(errors.TypeMismatch, expr.Tok(),
			"condition must be Boolean, got %s", v.Type())
	}
	return b.Value, nil
}

// evalWhile runs the loop under the shared iteration guard.
func (i *Interpreter) evalWhile(stmt *ast.WhileStatement, env *runtime.Environment) (runtime.Value, error) {
	for {
		cond, err := i.evalCondition(stmt.Condition, env)
		if err != nil {
			return nil, err
		}
		if !cond {
			return nil, nil
		}
		val, err := i.evalBlock(stmt.Body, runtime.NewEnclosedEnvironment(env))
		if err != nil {
			return nil, err
		}
		if ret, ok := val.(*runtime.ReturnValue); ok {
			return ret, nil
		}
		if err := i.countIteration(stmt); err != nil {
			return nil, err
		}
	}
}

// evalForIn iterates lists by element, dictionaries by value in
// insertion order and strings by character.
func (i *Interpreter) evalForIn(stmt *ast.ForInStatement, env *runtime.Environment) (runtime.Value, error) {
	iterable, err := i.evalExpression(stmt.Iterable, env)
	if err != nil {
		return nil, err
	}

	var items []runtime.Value
	switch it := iterable.(type) {
	case *runtime.ListValue:
		items = it.Elements
	case *runtime.DictionaryValue:
		items = it.Values()
	case *runtime.StringValue:
		for _, r := range it.Value {
			items = append(items, &runtime.StringValue{Value: string(r)})
		}
	default:
		return nil, errors.New(errors.TypeMismatch, stmt.Iterable.Tok(),
			"cannot iterate over %s", iterable.Type())
	}

	for _, item := range items {
		scope := runtime.NewEnclosedEnvironment(env)
		scope.Declare(stmt.Name.Value, item.Type(), "", item, stmt.Name.Token)
		val, err := i.evalBlock(stmt.Body, scope)
		if err != nil {
			return nil, err
		}
		if ret, ok := val.(*runtime.ReturnValue); ok {
			return ret, nil
		}
		if err := i.countIteration(stmt); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// countIteration enforces the per-call loop bound.
func (i *Interpreter) countIteration(stmt ast.Statement) error {
	i.iterations++
	if i.iterations > i.cfg.LanguageOptions.MaxIterations {
		return errors.New(errors.IterationLimitExceeded, stmt.Tok(),
			"loop exceeded %d iterations", i.cfg.LanguageOptions.MaxIterations)
	}
	return nil
}

// evalReturn wraps the return value so block evaluation unwinds.
func (i *Interpreter) evalReturn(stmt *ast.ReturnStatement, env *runtime.Environment) (runtime.Value, error) {
	if stmt.Value == nil {
		return &runtime.ReturnValue{Inner: &runtime.NilValue{}}, nil
	}
	v, err := i.evalExpression(stmt.Value, env)
	if err != nil {
		return nil, err
	}
	return &runtime.ReturnValue{Inner: v}, nil
}
