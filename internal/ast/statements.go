package ast

import (
	"bytes"
	"strings"

	"github.com/tokens-studio/go-tokenscript/pkg/token"
)

// TypeAnnotation is the declared type of a variable, e.g. Number or
// Color.Rgb. Sub is empty when no sub-type was written.
type TypeAnnotation struct {
	Token token.Token // The base type token
	Base  string
	Sub   string
}

func (ta *TypeAnnotation) String() string {
	if ta.Sub != "" {
		return ta.Base + "." + ta.Sub
	}
	return ta.Base
}

// VariableDecl represents `variable name: Type.SubType = expr;`.
// Value is nil when the declaration carries no initializer.
type VariableDecl struct {
	Token token.Token // The 'variable' token
	Name  *Identifier
	Type  *TypeAnnotation
	Value Expression
}

func (vd *VariableDecl) statementNode()       {}
func (vd *VariableDecl) TokenLiteral() string { return vd.Token.Literal }
func (vd *VariableDecl) Tok() token.Token     { return vd.Token }
func (vd *VariableDecl) Pos() token.Position  { return vd.Token.Pos }
func (vd *VariableDecl) String() string {
	var out bytes.Buffer
	out.WriteString("variable ")
	out.WriteString(vd.Name.Value)
	out.WriteString(": ")
	out.WriteString(vd.Type.String())
	if vd.Value != nil {
		out.WriteString(" = ")
		out.WriteString(vd.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

// AssignStatement represents `name = expr;` or `name.attr = expr;`.
// Chain holds the attribute names following the identifier, in order.
type AssignStatement struct {
	Token token.Token // The identifier token
	Name  *Identifier
	Chain []string
	Value Expression
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AssignStatement) Tok() token.Token     { return as.Token }
func (as *AssignStatement) Pos() token.Position  { return as.Token.Pos }
func (as *AssignStatement) String() string {
	var out bytes.Buffer
	out.WriteString(as.Name.Value)
	for _, attr := range as.Chain {
		out.WriteString("." + attr)
	}
	out.WriteString(" = ")
	out.WriteString(as.Value.String())
	out.WriteString(";")
	return out.String()
}

// BlockStatement represents `[ statement* ]`.
type BlockStatement struct {
	Token      token.Token // The '[' token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) Tok() token.Token     { return bs.Token }
func (bs *BlockStatement) Pos() token.Position  { return bs.Token.Pos }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("[ ")
	for _, stmt := range bs.Statements {
		out.WriteString(stmt.String())
		out.WriteString(" ")
	}
	out.WriteString("]")
	return out.String()
}

// ElifBranch is one `elif (cond) [ ... ]` arm of an if statement.
type ElifBranch struct {
	Condition   Expression
	Consequence *BlockStatement
}

// IfStatement represents if/elif/else.
type IfStatement struct {
	Token       token.Token // The 'if' token
	Condition   Expression
	Consequence *BlockStatement
	Elifs       []ElifBranch
	Alternative *BlockStatement
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) Tok() token.Token     { return is.Token }
func (is *IfStatement) Pos() token.Position  { return is.Token.Pos }
func (is *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(is.Condition.String())
	out.WriteString(") ")
	out.WriteString(is.Consequence.String())
	for _, e := range is.Elifs {
		out.WriteString(" elif (")
		out.WriteString(e.Condition.String())
		out.WriteString(") ")
		out.WriteString(e.Consequence.String())
	}
	if is.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(is.Alternative.String())
	}
	return out.String()
}

// WhileStatement represents `while (cond) [ ... ]`.
type WhileStatement struct {
	Token     token.Token // The 'while' token
	Condition Expression
	Body      *BlockStatement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) Tok() token.Token     { return ws.Token }
func (ws *WhileStatement) Pos() token.Position  { return ws.Token.Pos }
func (ws *WhileStatement) String() string {
	return "while (" + ws.Condition.String() + ") " + ws.Body.String()
}

// ForInStatement represents `for (name in iterable) [ ... ]`.
type ForInStatement struct {
	Token    token.Token // The 'for' token
	Name     *Identifier
	Iterable Expression
	Body     *BlockStatement
}

func (fs *ForInStatement) statementNode()       {}
func (fs *ForInStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForInStatement) Tok() token.Token     { return fs.Token }
func (fs *ForInStatement) Pos() token.Position  { return fs.Token.Pos }
func (fs *ForInStatement) String() string {
	return "for (" + fs.Name.Value + " in " + fs.Iterable.String() + ") " + fs.Body.String()
}

// ReturnStatement represents `return expr?;`.
type ReturnStatement struct {
	Token token.Token // The 'return' token
	Value Expression  // nil for a bare return
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) Tok() token.Token     { return rs.Token }
func (rs *ReturnStatement) Pos() token.Position  { return rs.Token.Pos }
func (rs *ReturnStatement) String() string {
	if rs.Value == nil {
		return "return;"
	}
	return "return " + rs.Value.String() + ";"
}

// ExpressionStatement wraps an expression in statement position.
type ExpressionStatement struct {
	Token      token.Token // The first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) Tok() token.Token     { return es.Token }
func (es *ExpressionStatement) Pos() token.Position  { return es.Token.Pos }
func (es *ExpressionStatement) String() string {
	if es.Expression == nil {
		return ""
	}
	return strings.TrimSpace(es.Expression.String()) + ";"
}
