package interp

import (
	"strings"

	"github.com/tokens-studio/go-tokenscript/internal/ast"
	"github.com/tokens-studio/go-tokenscript/internal/errors"
	"github.com/tokens-studio/go-tokenscript/internal/interp/runtime"
)

// evalExpression dispatches one expression node.
func (i *Interpreter) evalExpression(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return runtime.NewInt(e.Value), nil
	case *ast.FloatLiteral:
		return runtime.NewFloat(e.Value), nil
	case *ast.NumberWithUnitLiteral:
		return i.evalNumberWithUnitLiteral(e)
	case *ast.StringLiteral:
		return &runtime.StringValue{Value: e.Value}, nil
	case *ast.BooleanLiteral:
		return &runtime.BooleanValue{Value: e.Value}, nil
	case *ast.NullLiteral:
		return &runtime.NilValue{}, nil
	case *ast.HexColorLiteral:
		return runtime.NewStringColor("Hex", e.Value), nil
	case *ast.Identifier:
		return i.evalIdentifier(e, env)
	case *ast.Reference:
		return i.evalReference(e)
	case *ast.GroupedExpression:
		return i.evalExpression(e.Expression, env)
	case *ast.UnaryExpression:
		return i.evalUnary(e, env)
	case *ast.BinaryExpression:
		return i.evalBinary(e, env)
	case *ast.ListLiteral:
		return i.evalListLiteral(e, env)
	case *ast.ImplicitList:
		return i.evalImplicitList(e, env)
	case *ast.AttributeAccess:
		return i.evalAttributeRead(e, env)
	case *ast.CallExpression:
		return i.evalCall(e, env)
	case *ast.IndexExpression:
		return i.evalIndex(e, env)
	default:
		return nil, errors.New(errors.TypeMismatch, expr.Tok(),
			"cannot evaluate expression %T", expr)
	}
}

func (i *Interpreter) evalNumberWithUnitLiteral(lit *ast.NumberWithUnitLiteral) (runtime.Value, error) {
	if !i.cfg.Units.HasKeyword(lit.Unit) {
		return nil, errors.New(errors.MissingSpec, lit.Token,
			"no unit registered for keyword %q", lit.Unit)
	}
	var n *runtime.NumberValue
	if lit.IsInt {
		n = runtime.NewInt(int64(lit.Value))
	} else {
		n = runtime.NewFloat(lit.Value)
	}
	return &runtime.NumberWithUnitValue{Number: n, Unit: lit.Unit}, nil
}

func (i *Interpreter) evalIdentifier(ident *ast.Identifier, env *runtime.Environment) (runtime.Value, error) {
	if binding, ok := env.Get(ident.Value); ok {
		return binding.Value, nil
	}
	return nil, errors.New(errors.UndefinedVariable, ident.Token,
		"undefined variable %q", ident.Value)
}

func (i *Interpreter) evalReference(ref *ast.Reference) (runtime.Value, error) {
	if i.refs != nil {
		if v, ok := i.refs[ref.Path]; ok {
			return v, nil
		}
	}
	return nil, errors.New(errors.UndefinedReference, ref.Token,
		"undefined reference {%s}", ref.Path)
}

func (i *Interpreter) evalUnary(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evalExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}

	switch expr.Operator {
	case "-":
		switch v := operand.(type) {
		case *runtime.NumberValue:
			if v.IsFloat {
				return runtime.NewFloat(-v.Float), nil
			}
			return runtime.NewInt(-v.Int), nil
		case *runtime.NumberWithUnitValue:
			neg := runtime.FromFloat(-v.Number.AsFloat())
			if !v.Number.IsFloat {
				neg = runtime.NewInt(-v.Number.Int)
			}
			return &runtime.NumberWithUnitValue{Number: neg, Unit: v.Unit}, nil
		}
		return nil, errors.New(errors.TypeMismatch, expr.Token,
			"cannot negate %s", operand.Type())
	case "!":
		if b, ok := operand.(*runtime.BooleanValue); ok {
			return &runtime.BooleanValue{Value: !b.Value}, nil
		}
		return nil, errors.New(errors.TypeMismatch, expr.Token,
			"cannot apply ! to %s", operand.Type())
	default:
		return nil, errors.New(errors.TypeMismatch, expr.Token,
			"unknown unary operator %q", expr.Operator)
	}
}

// evalBinary evaluates strictly left to right with short-circuiting
// logical operators.
func (i *Interpreter) evalBinary(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	if expr.Operator == "&&" || expr.Operator == "||" {
		return i.evalLogical(expr, env)
	}

	left, err := i.evalExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	return i.applyBinary(expr, left, right)
}

func (i *Interpreter) evalLogical(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evalExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	lb, ok := left.(*runtime.BooleanValue)
	if !ok {
		return nil, errors.New(errors.TypeMismatch, expr.Left.Tok(),
			"%s operand must be Boolean, got %s", expr.Operator, left.Type())
	}

	if expr.Operator == "&&" && !lb.Value {
		return &runtime.BooleanValue{Value: false}, nil
	}
	if expr.Operator == "||" && lb.Value {
		return &runtime.BooleanValue{Value: true}, nil
	}

	right, err := i.evalExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	rb, ok := right.(*runtime.BooleanValue)
	if !ok {
		return nil, errors.New(errors.TypeMismatch, expr.Right.Tok(),
			"%s operand must be Boolean, got %s", expr.Operator, right.Type())
	}
	return &runtime.BooleanValue{Value: rb.Value}, nil
}

func (i *Interpreter) evalListLiteral(lit *ast.ListLiteral, env *runtime.Environment) (runtime.Value, error) {
	elements := make([]runtime.Value, 0, len(lit.Elements))
	for _, el := range lit.Elements {
		v, err := i.evalExpression(el, env)
		if err != nil {
			return nil, err
		}
		elements = append(elements, v)
	}
	return &runtime.ListValue{Elements: elements}, nil
}

// evalImplicitList joins juxtaposed values into a space-separated
// compound string; adjacent strings concatenate with a single space.
func (i *Interpreter) evalImplicitList(lit *ast.ImplicitList, env *runtime.Environment) (runtime.Value, error) {
	parts := make([]string, 0, len(lit.Elements))
	for _, el := range lit.Elements {
		// Unbound bare words (e.g. the "solid" in `1px solid #000`)
		// contribute their spelling; everything else evaluates.
		if ident, ok := el.(*ast.Identifier); ok {
			if _, bound := env.Get(ident.Value); !bound {
				parts = append(parts, ident.Value)
				continue
			}
		}
		v, err := i.evalExpression(el, env)
		if err != nil {
			return nil, err
		}
		parts = append(parts, v.String())
	}
	return &runtime.StringValue{Value: strings.Join(parts, " ")}, nil
}

// evalAttributeRead handles non-call attribute access: color schema
// attributes, the conversion proxy, and length properties.
func (i *Interpreter) evalAttributeRead(expr *ast.AttributeAccess, env *runtime.Environment) (runtime.Value, error) {
	obj, err := i.evalExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}

	switch o := obj.(type) {
	case *runtime.ColorValue:
		if expr.Attribute == "to" {
			return &runtime.ConversionProxyValue{Color: o}, nil
		}
		return i.cfg.Colors.GetAttribute(o, expr.Attribute, expr.Token)
	case *runtime.NumberWithUnitValue:
		switch expr.Attribute {
		case "value":
			return o.Number, nil
		case "unit":
			return &runtime.StringValue{Value: o.Unit}, nil
		}
	case *runtime.ListValue:
		if expr.Attribute == "length" {
			return runtime.NewInt(int64(len(o.Elements))), nil
		}
	case *runtime.DictionaryValue:
		if expr.Attribute == "length" {
			return runtime.NewInt(int64(o.Len())), nil
		}
	case *runtime.StringValue:
		if expr.Attribute == "length" {
			return runtime.NewInt(int64(len([]rune(o.Value)))), nil
		}
	}
	return nil, errors.New(errors.InvalidAttributeType, expr.Token,
		"%s has no attribute %q", obj.Type(), expr.Attribute)
}

// evalCall evaluates calls: color initializer keywords, conversion proxy
// invocations and built-in methods.
func (i *Interpreter) evalCall(expr *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	switch callee := expr.Callee.(type) {
	case *ast.Identifier:
		// A free call is a color initializer keyword (e.g. rgb, hsl).
		if i.cfg.Colors.HasInitializer(callee.Value) {
			args, err := i.evalArguments(expr.Arguments, env)
			if err != nil {
				return nil, err
			}
			return i.cfg.Colors.Initialize(callee.Value, args, callee.Token, i)
		}
		return nil, errors.New(errors.MissingSpec, callee.Token,
			"unknown function %q", callee.Value)

	case *ast.AttributeAccess:
		obj, err := i.evalExpression(callee.Object, env)
		if err != nil {
			return nil, err
		}
		if proxy, ok := obj.(*runtime.ConversionProxyValue); ok {
			if len(expr.Arguments) != 0 {
				return nil, errors.New(errors.TypeMismatch, expr.Token,
					"conversion %q takes no arguments", callee.Attribute)
			}
			return i.cfg.Colors.ConvertToByType(proxy.Color, callee.Attribute, callee.Token, i)
		}
		args, err := i.evalArguments(expr.Arguments, env)
		if err != nil {
			return nil, err
		}
		return i.callMethod(obj, callee.Attribute, args, callee.Token)

	default:
		return nil, errors.New(errors.TypeMismatch, expr.Token,
			"%s is not callable", expr.Callee.String())
	}
}

func (i *Interpreter) evalArguments(args []ast.Expression, env *runtime.Environment) ([]runtime.Value, error) {
	out := make([]runtime.Value, 0, len(args))
	for _, arg := range args {
		v, err := i.evalExpression(arg, env)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// evalIndex handles xs[i] on lists (0-indexed, negative is an error) and
// d[key] on dictionaries.
func (i *Interpreter) evalIndex(expr *ast.IndexExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evalExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	index, err := i.evalExpression(expr.Index, env)
	if err != nil {
		return nil, err
	}

	switch container := left.(type) {
	case *runtime.ListValue:
		n, ok := index.(*runtime.NumberValue)
		if !ok || n.IsFloat {
			return nil, errors.New(errors.TypeMismatch, expr.Index.Tok(),
				"list index must be an integer, got %s", index.Type())
		}
		idx := n.Int
		if idx < 0 {
			return nil, errors.New(errors.TypeMismatch, expr.Index.Tok(),
				"negative list index %d", idx)
		}
		if idx >= int64(len(container.Elements)) {
			return nil, errors.New(errors.TypeMismatch, expr.Index.Tok(),
				"list index %d out of range (length %d)", idx, len(container.Elements))
		}
		return container.Elements[idx], nil
	case *runtime.DictionaryValue:
		key, ok := index.(*runtime.StringValue)
		if !ok {
			return nil, errors.New(errors.TypeMismatch, expr.Index.Tok(),
				"dictionary key must be a string, got %s", index.Type())
		}
		if v, ok := container.Get(key.Value); ok {
			return v, nil
		}
		return nil, errors.New(errors.TypeMismatch, expr.Index.Tok(),
			"dictionary has no key %q", key.Value)
	default:
		return nil, errors.New(errors.TypeMismatch, expr.Token,
			"%s is not indexable", left.Type())
	}
}
