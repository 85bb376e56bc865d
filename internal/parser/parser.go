// Package parser implements the TokenScript parser using Pratt parsing.
//
// Expression parsing is driven by two registries of parse functions keyed
// by token type: prefixParseFns for tokens that can start an expression
// and infixParseFns for operators. Statement parsing is plain recursive
// descent over the grammar.
package parser

import (
	"fmt"

	"github.com/tokens-studio/go-tokenscript/internal/ast"
	"github.com/tokens-studio/go-tokenscript/internal/lexer"
	"github.com/tokens-studio/go-tokenscript/pkg/token"
)

// Precedence levels for operators (lowest to highest).
const (
	_ int = iota
	LOWEST
	LOGIC_OR    // ||
	LOGIC_AND   // &&
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	SUM         // + -
	PRODUCT     // * / %
	POWER       // ^ (right-associative)
	PREFIX      // -x !x
	CALL        // callee(args), xs[index], obj.attr
)

// precedences maps token types to their precedence levels.
var precedences = map[token.TokenType]int{
	token.OR:         LOGIC_OR,
	token.AND:        LOGIC_AND,
	token.EQ:         EQUALS,
	token.NOT_EQ:     EQUALS,
	token.LESS:       LESSGREATER,
	token.LESS_EQ:    LESSGREATER,
	token.GREATER:    LESSGREATER,
	token.GREATER_EQ: LESSGREATER,
	token.PLUS:       SUM,
	token.MINUS:      SUM,
	token.ASTERISK:   PRODUCT,
	token.SLASH:      PRODUCT,
	token.PERCENT:    PRODUCT,
	token.CARET:      POWER,
	token.LPAREN:     CALL,
	token.LBRACK:     CALL,
	token.DOT:        CALL,
}

// prefixParseFn parses expressions that start with the current token.
type prefixParseFn func() ast.Expression

// infixParseFn parses binary and postfix expressions given the left operand.
type infixParseFn func(ast.Expression) ast.Expression

// Error is a parse error attributed to the offending token.
// The parser never silently skips tokens; every deviation from the
// grammar is recorded here.
type Error struct {
	Message string
	Token   token.Token
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Token.Pos.Line > 0 {
		return fmt.Sprintf("%s at %d:%d", e.Message, e.Token.Pos.Line, e.Token.Pos.Column)
	}
	return e.Message
}

// Parser parses a TokenScript token stream into an AST.
type Parser struct {
	l         *lexer.Lexer
	curToken  token.Token
	peekToken token.Token
	errors    []*Error

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

// New creates a Parser reading from the given lexer.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:       p.parseIdentifier,
		token.INT:         p.parseIntegerLiteral,
		token.FLOAT:       p.parseFloatLiteral,
		token.NUMBER_UNIT: p.parseNumberWithUnitLiteral,
		token.STRING:      p.parseStringLiteral,
		token.TRUE:        p.parseBooleanLiteral,
		token.FALSE:       p.parseBooleanLiteral,
		token.NULL:        p.parseNullLiteral,
		token.HEX_COLOR:   p.parseHexColorLiteral,
		token.REFERENCE:   p.parseReference,
		token.MINUS:       p.parseUnaryExpression,
		token.BANG:        p.parseUnaryExpression,
		token.LPAREN:      p.parseGroupedExpression,
	}
	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.PLUS:       p.parseBinaryExpression,
		token.MINUS:      p.parseBinaryExpression,
		token.ASTERISK:   p.parseBinaryExpression,
		token.SLASH:      p.parseBinaryExpression,
		token.PERCENT:    p.parseBinaryExpression,
		token.CARET:      p.parseBinaryExpression,
		token.EQ:         p.parseBinaryExpression,
		token.NOT_EQ:     p.parseBinaryExpression,
		token.LESS:       p.parseBinaryExpression,
		token.LESS_EQ:    p.parseBinaryExpression,
		token.GREATER:    p.parseBinaryExpression,
		token.GREATER_EQ: p.parseBinaryExpression,
		token.AND:        p.parseBinaryExpression,
		token.OR:         p.parseBinaryExpression,
		token.LPAREN:     p.parseCallExpression,
		token.LBRACK:     p.parseIndexExpression,
		token.DOT:        p.parseAttributeAccess,
	}

	// Read two tokens so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()
	return p
}

// Parse is a convenience wrapper that lexes and parses source, returning
// the program or the first error encountered. unitPred may be nil.
func Parse(source string, unitPred func(string) bool) (*ast.Program, error) {
	var opts []lexer.Option
	if unitPred != nil {
		opts = append(opts, lexer.WithUnitKeywords(unitPred))
	}
	l := lexer.New(source, opts...)
	p := New(l)
	program := p.ParseProgram()
	if errs := l.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return program, nil
}

// Errors returns the list of parse errors.
func (p *Parser) Errors() []*Error {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek advances when the next token has the expected type and
// records an error otherwise.
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(p.peekToken, "expected %s, got %s", t, p.peekToken.Type)
	return false
}

// expectTerminator consumes the semicolon ending a statement. The
// semicolon may be omitted only immediately before end of input.
func (p *Parser) expectTerminator() bool {
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return true
	}
	if p.peekTokenIs(token.EOF) {
		return true
	}
	p.errorf(p.peekToken, "expected ;, got %s", p.peekToken.Type)
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) errorf(tok token.Token, format string, args ...interface{}) {
	p.errors = append(p.errors, &Error{
		Message: fmt.Sprintf(format, args...),
		Token:   tok,
	})
}

// ParseProgram parses the whole token stream into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.ILLEGAL) {
			p.errorf(p.curToken, "illegal token %q", p.curToken.Literal)
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}
	return program
}
