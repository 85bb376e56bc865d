package parser

import (
	"strconv"
	"strings"

	"github.com/tokens-studio/go-tokenscript/internal/ast"
	"github.com/tokens-studio/go-tokenscript/pkg/token"
)

// parseExpression is the Pratt parsing core: parse a prefix expression,
// then fold infix operators while their precedence exceeds the caller's.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf(p.curToken, "unexpected token %q", p.curToken.Literal)
		return nil
	}
	left := prefix()

	for left != nil && !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorf(p.curToken, "could not parse %q as integer", p.curToken.Literal)
		return nil
	}
	return &ast.IntegerLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf(p.curToken, "could not parse %q as float", p.curToken.Literal)
		return nil
	}
	return &ast.FloatLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseNumberWithUnitLiteral() ast.Expression {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf(p.curToken, "could not parse %q as number", p.curToken.Literal)
		return nil
	}
	return &ast.NumberWithUnitLiteral{
		Token: p.curToken,
		Value: value,
		IsInt: !strings.Contains(p.curToken.Literal, "."),
		Unit:  p.curToken.Unit,
	}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken}
}

func (p *Parser) parseHexColorLiteral() ast.Expression {
	return &ast.HexColorLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseReference() ast.Expression {
	return &ast.Reference{Token: p.curToken, Path: p.curToken.Literal}
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	expr := &ast.UnaryExpression{Token: p.curToken, Operator: p.curToken.Literal}
	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	if expr.Right == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	expr := &ast.BinaryExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Literal,
	}
	precedence := p.curPrecedence()
	// Power is right-associative.
	if p.curTokenIs(token.CARET) {
		precedence--
	}
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

// parseGroupedExpression parses a parenthesized expression. Juxtaposition
// is not allowed inside parentheses: anything but ')' after the inner
// expression is a parse error.
func (p *Parser) parseGroupedExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	inner := p.parseExpression(LOWEST)
	if inner == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return &ast.GroupedExpression{Token: tok, Expression: inner}
}

// parseAttributeAccess parses `expr.attr`, one level per invocation so
// chains nest left to right.
func (p *Parser) parseAttributeAccess(left ast.Expression) ast.Expression {
	tok := p.curToken // the '.' token
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	return &ast.AttributeAccess{Token: tok, Object: left, Attribute: p.curToken.Literal}
}

// parseCallExpression parses `callee(args)`.
func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	expr := &ast.CallExpression{Token: p.curToken, Callee: callee}
	expr.Arguments = p.parseCallArguments()
	return expr
}

func (p *Parser) parseCallArguments() []ast.Expression {
	args := []ast.Expression{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}

	p.nextToken()
	arg := p.parseExpression(LOWEST)
	if arg == nil {
		return nil
	}
	args = append(args, arg)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		args = append(args, arg)
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return args
}

// parseIndexExpression parses `left[index]`.
func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	expr := &ast.IndexExpression{Token: p.curToken, Left: left}
	p.nextToken()
	expr.Index = p.parseExpression(LOWEST)
	if expr.Index == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACK) {
		return nil
	}
	return expr
}
