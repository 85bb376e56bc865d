// Package ast defines the Abstract Syntax Tree node types for TokenScript.
package ast

import (
	"bytes"

	"github.com/tokens-studio/go-tokenscript/pkg/token"
)

// Node is the base interface for all AST nodes.
// Every node retains its originating token for error attribution.
type Node interface {
	// TokenLiteral returns the literal value of the token this node is associated with.
	TokenLiteral() string

	// String returns a string representation of the node for debugging and testing.
	String() string

	// Tok returns the originating token of the node.
	Tok() token.Token

	// Pos returns the position of the node in the source code.
	Pos() token.Position
}

// Expression represents any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement represents a node that performs an action.
type Statement interface {
	Node
	statementNode()
}

// Program is the root node of the AST.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, stmt := range p.Statements {
		out.WriteString(stmt.String())
	}
	return out.String()
}

func (p *Program) Tok() token.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].Tok()
	}
	return token.Token{}
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}
