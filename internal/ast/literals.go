package ast

import (
	"bytes"
	"strings"

	"github.com/tokens-studio/go-tokenscript/pkg/token"
)

// IntegerLiteral represents an integer literal value.
type IntegerLiteral struct {
	Token token.Token // The INT token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return il.Token.Literal }
func (il *IntegerLiteral) Tok() token.Token     { return il.Token }
func (il *IntegerLiteral) Pos() token.Position  { return il.Token.Pos }

// FloatLiteral represents a floating-point literal value.
type FloatLiteral struct {
	Token token.Token // The FLOAT token
	Value float64
}

func (fl *FloatLiteral) expressionNode()      {}
func (fl *FloatLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FloatLiteral) String() string       { return fl.Token.Literal }
func (fl *FloatLiteral) Tok() token.Token     { return fl.Token }
func (fl *FloatLiteral) Pos() token.Position  { return fl.Token.Pos }

// NumberWithUnitLiteral represents a dimensioned literal such as 16px.
type NumberWithUnitLiteral struct {
	Token token.Token // The NUMBER_UNIT token
	Value float64
	// IsInt is true when the magnitude was written without a decimal point.
	IsInt bool
	Unit  string
}

func (nl *NumberWithUnitLiteral) expressionNode()      {}
func (nl *NumberWithUnitLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NumberWithUnitLiteral) String() string       { return nl.Token.Literal + nl.Unit }
func (nl *NumberWithUnitLiteral) Tok() token.Token     { return nl.Token }
func (nl *NumberWithUnitLiteral) Pos() token.Position  { return nl.Token.Pos }

// StringLiteral represents a string literal value.
type StringLiteral struct {
	Token token.Token // The STRING token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return "\"" + sl.Value + "\"" }
func (sl *StringLiteral) Tok() token.Token     { return sl.Token }
func (sl *StringLiteral) Pos() token.Position  { return sl.Token.Pos }

// BooleanLiteral represents true or false.
type BooleanLiteral struct {
	Token token.Token // The TRUE or FALSE token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) String() string       { return bl.Token.Literal }
func (bl *BooleanLiteral) Tok() token.Token     { return bl.Token }
func (bl *BooleanLiteral) Pos() token.Position  { return bl.Token.Pos }

// NullLiteral represents the null literal.
type NullLiteral struct {
	Token token.Token // The NULL token
}

func (nl *NullLiteral) expressionNode()      {}
func (nl *NullLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NullLiteral) String() string       { return "null" }
func (nl *NullLiteral) Tok() token.Token     { return nl.Token }
func (nl *NullLiteral) Pos() token.Position  { return nl.Token.Pos }

// HexColorLiteral represents a hex color literal such as #ff0000.
type HexColorLiteral struct {
	Token token.Token // The HEX_COLOR token
	Value string      // including the leading '#'
}

func (hl *HexColorLiteral) expressionNode()      {}
func (hl *HexColorLiteral) TokenLiteral() string { return hl.Token.Literal }
func (hl *HexColorLiteral) String() string       { return hl.Value }
func (hl *HexColorLiteral) Tok() token.Token     { return hl.Token }
func (hl *HexColorLiteral) Pos() token.Position  { return hl.Token.Pos }

// ListLiteral represents a comma-separated list expression.
type ListLiteral struct {
	Token    token.Token // The first token of the list
	Elements []Expression
}

func (ll *ListLiteral) expressionNode()      {}
func (ll *ListLiteral) TokenLiteral() string { return ll.Token.Literal }
func (ll *ListLiteral) Tok() token.Token     { return ll.Token }
func (ll *ListLiteral) Pos() token.Position  { return ll.Token.Pos }
func (ll *ListLiteral) String() string {
	parts := make([]string, len(ll.Elements))
	for i, el := range ll.Elements {
		parts[i] = el.String()
	}
	return strings.Join(parts, ", ")
}

// ImplicitList represents adjacent juxtaposed values separated by
// whitespace, e.g. `1px solid #000`. Only valid at statement top level
// and inside return statements.
type ImplicitList struct {
	Token    token.Token // The first token of the first element
	Elements []Expression
}

func (il *ImplicitList) expressionNode()      {}
func (il *ImplicitList) TokenLiteral() string { return il.Token.Literal }
func (il *ImplicitList) Tok() token.Token     { return il.Token }
func (il *ImplicitList) Pos() token.Position  { return il.Token.Pos }
func (il *ImplicitList) String() string {
	var out bytes.Buffer
	for i, el := range il.Elements {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(el.String())
	}
	return out.String()
}
