package ast

import (
	"bytes"
	"strings"

	"github.com/tokens-studio/go-tokenscript/pkg/token"
)

// Identifier represents a variable name.
type Identifier struct {
	Token token.Token // The IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }
func (i *Identifier) Tok() token.Token     { return i.Token }
func (i *Identifier) Pos() token.Position  { return i.Token.Pos }

// Reference represents an external reference of the form {dotted.path},
// resolved against the interpreter's reference map.
type Reference struct {
	Token token.Token // The REFERENCE token
	Path  string
}

func (r *Reference) expressionNode()      {}
func (r *Reference) TokenLiteral() string { return r.Token.Literal }
func (r *Reference) String() string       { return "{" + r.Path + "}" }
func (r *Reference) Tok() token.Token     { return r.Token }
func (r *Reference) Pos() token.Position  { return r.Token.Pos }

// BinaryExpression represents a binary operation (e.g. a + b, x < y).
type BinaryExpression struct {
	Token    token.Token // The operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (be *BinaryExpression) expressionNode()      {}
func (be *BinaryExpression) TokenLiteral() string { return be.Token.Literal }
func (be *BinaryExpression) Tok() token.Token     { return be.Token }
func (be *BinaryExpression) Pos() token.Position  { return be.Token.Pos }
func (be *BinaryExpression) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(be.Left.String())
	out.WriteString(" " + be.Operator + " ")
	out.WriteString(be.Right.String())
	out.WriteString(")")
	return out.String()
}

// UnaryExpression represents a prefix operation (e.g. -x, !b).
type UnaryExpression struct {
	Token    token.Token // The operator token
	Operator string
	Right    Expression
}

func (ue *UnaryExpression) expressionNode()      {}
func (ue *UnaryExpression) TokenLiteral() string { return ue.Token.Literal }
func (ue *UnaryExpression) Tok() token.Token     { return ue.Token }
func (ue *UnaryExpression) Pos() token.Position  { return ue.Token.Pos }
func (ue *UnaryExpression) String() string {
	return "(" + ue.Operator + ue.Right.String() + ")"
}

// GroupedExpression represents an expression wrapped in parentheses.
// Binary and unary expressions already print their own parentheses, so
// String adds none around them and re-parsing the output reproduces it.
type GroupedExpression struct {
	Token      token.Token // The '(' token
	Expression Expression
}

func (ge *GroupedExpression) expressionNode()      {}
func (ge *GroupedExpression) TokenLiteral() string { return ge.Token.Literal }
func (ge *GroupedExpression) Tok() token.Token     { return ge.Token }
func (ge *GroupedExpression) Pos() token.Position  { return ge.Token.Pos }
func (ge *GroupedExpression) String() string {
	switch ge.Expression.(type) {
	case *BinaryExpression, *UnaryExpression:
		return ge.Expression.String()
	}
	return "(" + ge.Expression.String() + ")"
}

// AttributeAccess represents a postfix attribute read, e.g. c.r or c.to.
// Chained accesses nest: (c.to).hex.
type AttributeAccess struct {
	Token     token.Token // The '.' token
	Object    Expression
	Attribute string
}

func (aa *AttributeAccess) expressionNode()      {}
func (aa *AttributeAccess) TokenLiteral() string { return aa.Token.Literal }
func (aa *AttributeAccess) Tok() token.Token     { return aa.Token }
func (aa *AttributeAccess) Pos() token.Position  { return aa.Token.Pos }
func (aa *AttributeAccess) String() string {
	return aa.Object.String() + "." + aa.Attribute
}

// CallExpression represents a call, e.g. rgb(255, 0, 0) or s.trim().
type CallExpression struct {
	Token     token.Token // The '(' token
	Callee    Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) Tok() token.Token     { return ce.Token }
func (ce *CallExpression) Pos() token.Position  { return ce.Token.Pos }
func (ce *CallExpression) String() string {
	args := make([]string, len(ce.Arguments))
	for i, a := range ce.Arguments {
		args[i] = a.String()
	}
	return ce.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

// IndexExpression represents an index operation, e.g. xs[0].
type IndexExpression struct {
	Token token.Token // The '[' token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) Tok() token.Token     { return ie.Token }
func (ie *IndexExpression) Pos() token.Position  { return ie.Token.Pos }
func (ie *IndexExpression) String() string {
	return ie.Left.String() + "[" + ie.Index.String() + "]"
}
