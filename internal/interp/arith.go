package interp

import (
	"math"

	"github.com/tokens-studio/go-tokenscript/internal/ast"
	"github.com/tokens-studio/go-tokenscript/internal/errors"
	"github.com/tokens-studio/go-tokenscript/internal/interp/runtime"
	"github.com/tokens-studio/go-tokenscript/pkg/token"
)

// applyBinary applies a non-logical binary operator to two evaluated
// operands.
func (i *Interpreter) applyBinary(expr *ast.BinaryExpression, left, right runtime.Value) (runtime.Value, error) {
	op := expr.Operator

	if op == "==" || op == "!=" {
		// Dimensioned operands reduce to a common unit before comparing,
		// so 1rem == 16px holds under the default conversions.
		if lu, ok := left.(*runtime.NumberWithUnitValue); ok {
			if ru, ok := right.(*runtime.NumberWithUnitValue); ok && lu.Unit != ru.Unit {
				if reduced, err := i.cfg.Units.ConvertToCommonFormat(
					[]runtime.Value{lu, ru}, expr.Token, i); err == nil {
					left, right = reduced[0], reduced[1]
				}
			}
		}
		eq := valueEquals(left, right)
		if op == "!=" {
			eq = !eq
		}
		return &runtime.BooleanValue{Value: eq}, nil
	}

	// String concatenation: explicit + joins without a separator.
	if ls, ok := left.(*runtime.StringValue); ok {
		rs, ok := right.(*runtime.StringValue)
		if !ok {
			return nil, errors.New(errors.TypeMismatch, expr.Token,
				"cannot apply %s to String and %s", op, right.Type())
		}
		if op == "+" {
			return &runtime.StringValue{Value: ls.Value + rs.Value}, nil
		}
		return nil, errors.New(errors.TypeMismatch, expr.Token,
			"cannot apply %s to strings", op)
	}

	return i.applyNumeric(op, left, right, expr.Token)
}

// applyNumeric handles arithmetic and relational operators over Numbers
// and NumberWithUnits, pre-reducing mixed units to a common format.
func (i *Interpreter) applyNumeric(op string, left, right runtime.Value, tok token.Token) (runtime.Value, error) {
	ln, lok := left.(*runtime.NumberValue)
	rn, rok := right.(*runtime.NumberValue)
	lu, luok := left.(*runtime.NumberWithUnitValue)
	ru, ruok := right.(*runtime.NumberWithUnitValue)

	switch {
	case lok && rok:
		return numericOp(op, ln, rn, tok)

	case luok && ruok:
		if lu.Unit != ru.Unit {
			reduced, err := i.cfg.Units.ConvertToCommonFormat(
				[]runtime.Value{lu, ru}, tok, i)
			if err != nil {
				return nil, err
			}
			return i.applyNumeric(op, reduced[0], reduced[1], tok)
		}
		result, err := numericOp(op, lu.Number, ru.Number, tok)
		if err != nil {
			return nil, err
		}
		return withUnit(result, lu.Unit), nil

	case luok && rok:
		// Dimensionless operands adopt the unit on + and -; on the
		// remaining operators the unit stays with the dimensioned side.
		result, err := numericOp(op, lu.Number, rn, tok)
		if err != nil {
			return nil, err
		}
		return withUnit(result, lu.Unit), nil

	case lok && ruok:
		result, err := numericOp(op, ln, ru.Number, tok)
		if err != nil {
			return nil, err
		}
		return withUnit(result, ru.Unit), nil

	default:
		return nil, errors.New(errors.TypeMismatch, tok,
			"cannot apply %s to %s and %s", op, left.Type(), right.Type())
	}
}

// withUnit re-attaches a unit to an arithmetic result; relational
// results pass through unchanged.
func withUnit(v runtime.Value, unit string) runtime.Value {
	if n, ok := v.(*runtime.NumberValue); ok {
		return &runtime.NumberWithUnitValue{Number: n, Unit: unit}
	}
	return v
}

// numericOp applies op to two dimensionless numbers. Integer operands
// keep the integer tag while the result stays exact; division and power
// promote to float when the result is not a whole number.
func numericOp(op string, l, r *runtime.NumberValue, tok token.Token) (runtime.Value, error) {
	bothInt := !l.IsFloat && !r.IsFloat

	switch op {
	case "+":
		if bothInt {
			return runtime.NewInt(l.Int + r.Int), nil
		}
		return runtime.NewFloat(l.AsFloat() + r.AsFloat()), nil
	case "-":
		if bothInt {
			return runtime.NewInt(l.Int - r.Int), nil
		}
		return runtime.NewFloat(l.AsFloat() - r.AsFloat()), nil
	case "*":
		if bothInt {
			return runtime.NewInt(l.Int * r.Int), nil
		}
		return runtime.NewFloat(l.AsFloat() * r.AsFloat()), nil
	case "/":
		if r.AsFloat() == 0 {
			return nil, errors.New(errors.TypeMismatch, tok, "division by zero")
		}
		if bothInt && l.Int%r.Int == 0 {
			return runtime.NewInt(l.Int / r.Int), nil
		}
		return runtime.NewFloat(l.AsFloat() / r.AsFloat()), nil
	case "%":
		if r.AsFloat() == 0 {
			return nil, errors.New(errors.TypeMismatch, tok, "modulo by zero")
		}
		if bothInt {
			return runtime.NewInt(l.Int % r.Int), nil
		}
		return runtime.NewFloat(math.Mod(l.AsFloat(), r.AsFloat())), nil
	case "^":
		return runtime.FromFloat(math.Pow(l.AsFloat(), r.AsFloat())), nil
	case "<":
		return &runtime.BooleanValue{Value: l.AsFloat() < r.AsFloat()}, nil
	case "<=":
		return &runtime.BooleanValue{Value: l.AsFloat() <= r.AsFloat()}, nil
	case ">":
		return &runtime.BooleanValue{Value: l.AsFloat() > r.AsFloat()}, nil
	case ">=":
		return &runtime.BooleanValue{Value: l.AsFloat() >= r.AsFloat()}, nil
	default:
		return nil, errors.New(errors.TypeMismatch, tok, "unknown operator %q", op)
	}
}

// valueEquals implements == across the value model. Numbers compare
// numerically regardless of tag; containers compare element-wise;
// distinct types are unequal.
func valueEquals(l, r runtime.Value) bool {
	switch lv := l.(type) {
	case *runtime.NumberValue:
		if rv, ok := r.(*runtime.NumberValue); ok {
			return lv.AsFloat() == rv.AsFloat()
		}
	case *runtime.NumberWithUnitValue:
		if rv, ok := r.(*runtime.NumberWithUnitValue); ok {
			return lv.Unit == rv.Unit && lv.Number.AsFloat() == rv.Number.AsFloat()
		}
	case *runtime.StringValue:
		if rv, ok := r.(*runtime.StringValue); ok {
			return lv.Value == rv.Value
		}
	case *runtime.BooleanValue:
		if rv, ok := r.(*runtime.BooleanValue); ok {
			return lv.Value == rv.Value
		}
	case *runtime.NilValue:
		_, ok := r.(*runtime.NilValue)
		return ok
	case *runtime.ListValue:
		rv, ok := r.(*runtime.ListValue)
		if !ok || len(lv.Elements) != len(rv.Elements) {
			return false
		}
		for idx := range lv.Elements {
			if !valueEquals(lv.Elements[idx], rv.Elements[idx]) {
				return false
			}
		}
		return true
	case *runtime.DictionaryValue:
		rv, ok := r.(*runtime.DictionaryValue)
		if !ok || lv.Len() != rv.Len() {
			return false
		}
		for _, k := range lv.Keys() {
			lval, _ := lv.Get(k)
			rval, ok := rv.Get(k)
			if !ok || !valueEquals(lval, rval) {
				return false
			}
		}
		return true
	case *runtime.ColorValue:
		if rv, ok := r.(*runtime.ColorValue); ok {
			return lv.String() == rv.String()
		}
	}
	return false
}
