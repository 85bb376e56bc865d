package interp

import (
	"math"
	"strings"

	"github.com/tokens-studio/go-tokenscript/internal/errors"
	"github.com/tokens-studio/go-tokenscript/internal/interp/runtime"
	"github.com/tokens-studio/go-tokenscript/pkg/token"
)

// callMethod dispatches a built-in method by receiver type and name.
func (i *Interpreter) callMethod(recv runtime.Value, name string, args []runtime.Value, tok token.Token) (runtime.Value, error) {
	switch o := recv.(type) {
	case *runtime.StringValue:
		return i.callStringMethod(o, name, args, tok)
	case *runtime.ListValue:
		return i.callListMethod(o, name, args, tok)
	case *runtime.DictionaryValue:
		return i.callDictionaryMethod(o, name, args, tok)
	case *runtime.NumberValue:
		return i.callNumberMethod(o, name, args, tok)
	case *runtime.NumberWithUnitValue:
		if name == "toString" {
			return &runtime.StringValue{Value: o.String()}, nil
		}
	case *runtime.BooleanValue:
		if name == "toString" {
			return &runtime.StringValue{Value: o.String()}, nil
		}
	case *runtime.ColorValue:
		if name == "toString" {
			return &runtime.StringValue{Value: o.String()}, nil
		}
	}
	return nil, errors.New(errors.TypeMismatch, tok,
		"%s has no method %q", recv.Type(), name)
}

func (i *Interpreter) callStringMethod(s *runtime.StringValue, name string, args []runtime.Value, tok token.Token) (runtime.Value, error) {
	switch name {
	case "trim":
		if err := arity(name, args, 0, tok); err != nil {
			return nil, err
		}
		return &runtime.StringValue{Value: strings.TrimSpace(s.Value)}, nil
	case "upper":
		if err := arity(name, args, 0, tok); err != nil {
			return nil, err
		}
		return &runtime.StringValue{Value: strings.ToUpper(s.Value)}, nil
	case "lower":
		if err := arity(name, args, 0, tok); err != nil {
			return nil, err
		}
		return &runtime.StringValue{Value: strings.ToLower(s.Value)}, nil
	case "concat":
		if err := arity(name, args, 1, tok); err != nil {
			return nil, err
		}
		other, ok := args[0].(*runtime.StringValue)
		if !ok {
			return nil, errors.New(errors.TypeMismatch, tok,
				"concat takes a String, got %s", args[0].Type())
		}
		return &runtime.StringValue{Value: s.Value + other.Value}, nil
	case "split":
		// Without arguments split yields single characters.
		if len(args) == 0 {
			var chars []runtime.Value
			for _, r := range s.Value {
				chars = append(chars, &runtime.StringValue{Value: string(r)})
			}
			return &runtime.ListValue{Elements: chars}, nil
		}
		if err := arity(name, args, 1, tok); err != nil {
			return nil, err
		}
		sep, ok := args[0].(*runtime.StringValue)
		if !ok {
			return nil, errors.New(errors.TypeMismatch, tok,
				"split takes a String separator, got %s", args[0].Type())
		}
		parts := strings.Split(s.Value, sep.Value)
		out := make([]runtime.Value, len(parts))
		for idx, p := range parts {
			out[idx] = &runtime.StringValue{Value: p}
		}
		return &runtime.ListValue{Elements: out}, nil
	case "length":
		if err := arity(name, args, 0, tok); err != nil {
			return nil, err
		}
		return runtime.NewInt(int64(len([]rune(s.Value)))), nil
	case "toString":
		return s, nil
	}
	return nil, errors.New(errors.TypeMismatch, tok, "String has no method %q", name)
}

func (i *Interpreter) callListMethod(l *runtime.ListValue, name string, args []runtime.Value, tok token.Token) (runtime.Value, error) {
	switch name {
	case "get":
		if err := arity(name, args, 1, tok); err != nil {
			return nil, err
		}
		n, ok := args[0].(*runtime.NumberValue)
		if !ok || n.IsFloat {
			return nil, errors.New(errors.TypeMismatch, tok,
				"get takes an integer index, got %s", args[0].Type())
		}
		if n.Int < 0 {
			return nil, errors.New(errors.TypeMismatch, tok,
				"negative list index %d", n.Int)
		}
		if n.Int >= int64(len(l.Elements)) {
			return nil, errors.New(errors.TypeMismatch, tok,
				"list index %d out of range (length %d)", n.Int, len(l.Elements))
		}
		return l.Elements[n.Int], nil
	case "push":
		if err := arity(name, args, 1, tok); err != nil {
			return nil, err
		}
		l.Elements = append(l.Elements, args[0])
		return l, nil
	case "join":
		if err := arity(name, args, 1, tok); err != nil {
			return nil, err
		}
		sep, ok := args[0].(*runtime.StringValue)
		if !ok {
			return nil, errors.New(errors.TypeMismatch, tok,
				"join takes a String separator, got %s", args[0].Type())
		}
		parts := make([]string, len(l.Elements))
		for idx, el := range l.Elements {
			parts[idx] = el.String()
		}
		return &runtime.StringValue{Value: strings.Join(parts, sep.Value)}, nil
	case "length":
		if err := arity(name, args, 0, tok); err != nil {
			return nil, err
		}
		return runtime.NewInt(int64(len(l.Elements))), nil
	case "toString":
		return &runtime.StringValue{Value: l.String()}, nil
	}
	return nil, errors.New(errors.TypeMismatch, tok, "List has no method %q", name)
}

func (i *Interpreter) callDictionaryMethod(d *runtime.DictionaryValue, name string, args []runtime.Value, tok token.Token) (runtime.Value, error) {
	switch name {
	case "set":
		if err := arity(name, args, 2, tok); err != nil {
			return nil, err
		}
		key, ok := args[0].(*runtime.StringValue)
		if !ok {
			return nil, errors.New(errors.TypeMismatch, tok,
				"set takes a String key, got %s", args[0].Type())
		}
		d.Set(key.Value, args[1])
		return d, nil
	case "get":
		if err := arity(name, args, 1, tok); err != nil {
			return nil, err
		}
		key, ok := args[0].(*runtime.StringValue)
		if !ok {
			return nil, errors.New(errors.TypeMismatch, tok,
				"get takes a String key, got %s", args[0].Type())
		}
		if v, ok := d.Get(key.Value); ok {
			return v, nil
		}
		return nil, errors.New(errors.TypeMismatch, tok,
			"dictionary has no key %q", key.Value)
	case "values":
		if err := arity(name, args, 0, tok); err != nil {
			return nil, err
		}
		return &runtime.ListValue{Elements: d.Values()}, nil
	case "keys":
		if err := arity(name, args, 0, tok); err != nil {
			return nil, err
		}
		keys := d.Keys()
		out := make([]runtime.Value, len(keys))
		for idx, k := range keys {
			out[idx] = &runtime.StringValue{Value: k}
		}
		return &runtime.ListValue{Elements: out}, nil
	case "length":
		if err := arity(name, args, 0, tok); err != nil {
			return nil, err
		}
		return runtime.NewInt(int64(d.Len())), nil
	case "toString":
		return &runtime.StringValue{Value: d.String()}, nil
	}
	return nil, errors.New(errors.TypeMismatch, tok, "Dictionary has no method %q", name)
}

func (i *Interpreter) callNumberMethod(n *runtime.NumberValue, name string, args []runtime.Value, tok token.Token) (runtime.Value, error) {
	if err := arity(name, args, 0, tok); err != nil {
		return nil, err
	}
	switch name {
	case "toString":
		return &runtime.StringValue{Value: n.String()}, nil
	case "toHex":
		// Two lowercase hex digits, as used by color channel formatting.
		v := int64(math.Round(n.AsFloat()))
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		const digits = "0123456789abcdef"
		return &runtime.StringValue{Value: string([]byte{digits[v>>4], digits[v&0xf]})}, nil
	case "round":
		return runtime.FromFloat(math.Round(n.AsFloat())), nil
	case "floor":
		return runtime.FromFloat(math.Floor(n.AsFloat())), nil
	case "ceil":
		return runtime.FromFloat(math.Ceil(n.AsFloat())), nil
	case "abs":
		if !n.IsFloat {
			if n.Int < 0 {
				return runtime.NewInt(-n.Int), nil
			}
			return n, nil
		}
		return runtime.NewFloat(math.Abs(n.Float)), nil
	}
	return nil, errors.New(errors.TypeMismatch, tok, "Number has no method %q", name)
}

func arity(name string, args []runtime.Value, want int, tok token.Token) error {
	if len(args) != want {
		return errors.New(errors.TypeMismatch, tok,
			"%s takes %d argument(s), got %d", name, want, len(args))
	}
	return nil
}
