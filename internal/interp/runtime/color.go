package runtime

import "strings"

// ColorValue represents a color. SubType is either empty (unresolved) or
// the canonical name of a registered color specification, compared
// case-insensitively. The payload is either a string literal (e.g. a hex
// string) or an ordered mapping from attribute name to value.
type ColorValue struct {
	SubType  string
	Str      string
	IsString bool

	attrKeys []string
	attrs    map[string]Value
}

// NewStringColor creates a color with a string payload.
func NewStringColor(subType, value string) *ColorValue {
	return &ColorValue{SubType: subType, Str: value, IsString: true}
}

// NewMapColor creates a color with an empty attribute map payload.
func NewMapColor(subType string) *ColorValue {
	return &ColorValue{SubType: subType, attrs: make(map[string]Value)}
}

// Type returns "Color".
func (c *ColorValue) Type() string {
	return ColorType
}

// String renders the string payload directly, otherwise
// `SubType(attr: value, ...)` in attribute insertion order.
func (c *ColorValue) String() string {
	if c.IsString {
		return c.Str
	}
	parts := make([]string, len(c.attrKeys))
	for i, k := range c.attrKeys {
		parts[i] = k + ": " + c.attrs[k].String()
	}
	name := c.SubType
	if name == "" {
		name = "Color"
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// GetAttr returns the named attribute of a map-payload color.
func (c *ColorValue) GetAttr(name string) (Value, bool) {
	if c.attrs == nil {
		return nil, false
	}
	v, ok := c.attrs[name]
	return v, ok
}

// SetAttr stores an attribute, preserving first-set order. It is a no-op
// on string-payload colors; callers validate against the spec schema
// before mutating.
func (c *ColorValue) SetAttr(name string, value Value) {
	if c.IsString {
		return
	}
	if c.attrs == nil {
		c.attrs = make(map[string]Value)
	}
	if _, ok := c.attrs[name]; !ok {
		c.attrKeys = append(c.attrKeys, name)
	}
	c.attrs[name] = value
}

// AttrNames returns the attribute names in insertion order.
func (c *ColorValue) AttrNames() []string {
	return c.attrKeys
}

// ConversionProxyValue is the value of `color.to`. Calling an attribute
// on it converts the bound color to the named color type.
type ConversionProxyValue struct {
	Color *ColorValue
}

// Type returns "ConversionProxy".
func (p *ConversionProxyValue) Type() string {
	return ConversionProxyType
}

// String identifies the proxy and its bound color.
func (p *ConversionProxyValue) String() string {
	return "<conversion " + p.Color.String() + ">"
}
