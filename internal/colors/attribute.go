package colors

import (
	"github.com/tokens-studio/go-tokenscript/internal/errors"
	"github.com/tokens-studio/go-tokenscript/internal/interp/runtime"
	"github.com/tokens-studio/go-tokenscript/pkg/token"
)

// GetAttribute reads a schema attribute from a color.
func (m *Manager) GetAttribute(color *runtime.ColorValue, name string, tok token.Token) (runtime.Value, error) {
	if color.SubType == "" {
		return nil, errors.New(errors.MissingSpec, tok, "color has no resolved type")
	}
	_, spec, ok := m.SpecByName(color.SubType)
	if !ok {
		return nil, errors.New(errors.MissingSpec, tok, "no color spec named %q", color.SubType)
	}
	if _, declared := spec.Schema.Properties[name]; !declared {
		return nil, errors.New(errors.InvalidAttributeType, tok,
			"color type %q has no attribute %q", spec.Name, name)
	}
	if color.IsString {
		return nil, errors.New(errors.StringValueAssignment, tok,
			"color %q holds a string value; attribute %q is not addressable", spec.Name, name)
	}
	if v, ok := color.GetAttr(name); ok {
		return v, nil
	}
	return &runtime.NilValue{}, nil
}

// SetAttribute writes a schema attribute on a color. Only single-step
// chains are allowed; the incoming value's type tag must match the
// declared schema type; the mutation updates the color's value map in
// place and returns the same color.
func (m *Manager) SetAttribute(color *runtime.ColorValue, chain []string, value runtime.Value, tok token.Token) (*runtime.ColorValue, error) {
	if len(chain) > 1 {
		return nil, errors.New(errors.AttributeChainTooLong, tok,
			"cannot assign through attribute chain of length %d", len(chain))
	}
	if len(chain) == 0 {
		return nil, errors.New(errors.InvalidAttributeType, tok, "no attribute named in assignment")
	}
	name := chain[0]

	if color.IsString {
		return nil, errors.New(errors.StringValueAssignment, tok,
			"cannot assign attribute %q on a string-valued color", name)
	}
	if color.SubType == "" {
		return nil, errors.New(errors.MissingSpec, tok, "color has no resolved type")
	}
	_, spec, ok := m.SpecByName(color.SubType)
	if !ok {
		return nil, errors.New(errors.MissingSpec, tok, "no color spec named %q", color.SubType)
	}
	if spec.Schema.Properties == nil {
		return nil, errors.New(errors.MissingSchema, tok, "color spec %q has no schema", spec.Name)
	}
	decl, declared := spec.Schema.Properties[name]
	if !declared {
		return nil, errors.New(errors.InvalidAttributeType, tok,
			"color type %q has no attribute %q", spec.Name, name)
	}

	switch decl.Type {
	case "number":
		if _, ok := value.(*runtime.NumberValue); !ok {
			return nil, errors.New(errors.InvalidAttributeType, tok,
				"attribute %q of %q takes a number, got %s", name, spec.Name, value.Type())
		}
	case "string":
		if _, ok := value.(*runtime.StringValue); !ok {
			return nil, errors.New(errors.InvalidAttributeType, tok,
				"attribute %q of %q takes a string, got %s", name, spec.Name, value.Type())
		}
	}

	color.SetAttr(name, value)
	return color, nil
}
