package parser

import (
	"github.com/tokens-studio/go-tokenscript/internal/ast"
	"github.com/tokens-studio/go-tokenscript/pkg/token"
)

// parseStatement dispatches on the current token. Every parse function
// leaves curToken on the last token of its construct; ParseProgram and
// parseBlockStatement advance past it.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.VARIABLE:
		return p.parseVariableDecl()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForInStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.SEMICOLON:
		// Empty statement; tolerated after block-terminated statements.
		return nil
	default:
		return p.parseExpressionOrAssignStatement()
	}
}

// parseVariableDecl parses `variable name: Type.SubType (= expr)? ;`.
func (p *Parser) parseVariableDecl() ast.Statement {
	decl := &ast.VariableDecl{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.COLON) {
		return nil
	}

	p.nextToken()
	if !p.curToken.Type.IsTypeName() {
		p.errorf(p.curToken, "expected a type name, got %q", p.curToken.Literal)
		return nil
	}
	decl.Type = &ast.TypeAnnotation{Token: p.curToken, Base: p.curToken.Literal}

	if p.peekTokenIs(token.DOT) {
		p.nextToken()
		p.nextToken()
		if !p.curTokenIs(token.IDENT) && !p.curToken.Type.IsTypeName() {
			p.errorf(p.curToken, "expected a sub-type name, got %q", p.curToken.Literal)
			return nil
		}
		decl.Type.Sub = p.curToken.Literal
	}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		decl.Value = p.parseCommaList(value)
	}

	if !p.expectTerminator() {
		return nil
	}
	return decl
}

// parseExpressionOrAssignStatement parses either a reassignment
// (`name = expr;`, `name.attr = expr;`) or an expression statement.
// The two are distinguished after parsing the leading expression, which
// avoids unbounded lookahead over attribute chains.
func (p *Parser) parseExpressionOrAssignStatement() ast.Statement {
	startTok := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	if p.peekTokenIs(token.ASSIGN) {
		name, chain, ok := assignTarget(expr)
		if !ok {
			p.errorf(startTok, "invalid assignment target")
			return nil
		}
		p.nextToken() // on '='
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		value = p.parseCommaList(value)
		if !p.expectTerminator() {
			return nil
		}
		return &ast.AssignStatement{Token: startTok, Name: name, Chain: chain, Value: value}
	}

	expr = p.parseValuePosition(expr)
	if !p.expectTerminator() {
		return nil
	}
	return &ast.ExpressionStatement{Token: startTok, Expression: expr}
}

// assignTarget decomposes an expression into an identifier plus attribute
// chain, rejecting anything else as an assignment LHS.
func assignTarget(expr ast.Expression) (*ast.Identifier, []string, bool) {
	var chain []string
	for {
		switch e := expr.(type) {
		case *ast.Identifier:
			return e, chain, true
		case *ast.AttributeAccess:
			chain = append([]string{e.Attribute}, chain...)
			expr = e.Object
		default:
			return nil, nil, false
		}
	}
}

// parseCommaList turns `a, b, c` into a ListLiteral, starting from an
// already-parsed first element. Used at value positions.
func (p *Parser) parseCommaList(first ast.Expression) ast.Expression {
	if !p.peekTokenIs(token.COMMA) {
		return first
	}
	list := &ast.ListLiteral{Token: first.Tok(), Elements: []ast.Expression{first}}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken() // on ','
		p.nextToken()
		el := p.parseExpression(LOWEST)
		if el == nil {
			return nil
		}
		list.Elements = append(list.Elements, el)
	}
	return list
}

// parseValuePosition handles the two list forms allowed at statement-top
// and return positions: comma lists and implicit (whitespace) lists.
func (p *Parser) parseValuePosition(first ast.Expression) ast.Expression {
	if p.peekTokenIs(token.COMMA) {
		return p.parseCommaList(first)
	}
	if !p.startsExpression(p.peekToken.Type) {
		return first
	}
	impl := &ast.ImplicitList{Token: first.Tok(), Elements: []ast.Expression{first}}
	for p.startsExpression(p.peekToken.Type) {
		p.nextToken()
		el := p.parseExpression(LOWEST)
		if el == nil {
			return nil
		}
		impl.Elements = append(impl.Elements, el)
	}
	return impl
}

// startsExpression reports whether a token of type t can begin a new
// expression, i.e. whether a prefix parse function is registered for it.
func (p *Parser) startsExpression(t token.TokenType) bool {
	_, ok := p.prefixParseFns[t]
	return ok
}

// parseBlockStatement parses `[ statement* ]`.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.nextToken()
	for !p.curTokenIs(token.RBRACK) {
		if p.curTokenIs(token.EOF) {
			p.errorf(p.curToken, "unterminated block, expected ]")
			return block
		}
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

// parseIfStatement parses if/elif/else with parenthesized conditions and
// bracketed blocks.
func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}

	cond, block := p.parseCondAndBlock()
	if block == nil {
		return nil
	}
	stmt.Condition = cond
	stmt.Consequence = block

	for p.peekTokenIs(token.ELIF) {
		p.nextToken()
		cond, block := p.parseCondAndBlock()
		if block == nil {
			return nil
		}
		stmt.Elifs = append(stmt.Elifs, ast.ElifBranch{Condition: cond, Consequence: block})
	}

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek(token.LBRACK) {
			return nil
		}
		stmt.Alternative = p.parseBlockStatement()
	}
	return stmt
}

// parseCondAndBlock parses `( expr ) [ ... ]` after an if/elif/while token.
func (p *Parser) parseCondAndBlock() (ast.Expression, *ast.BlockStatement) {
	if !p.expectPeek(token.LPAREN) {
		return nil, nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil, nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil, nil
	}
	if !p.expectPeek(token.LBRACK) {
		return nil, nil
	}
	return cond, p.parseBlockStatement()
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}
	cond, block := p.parseCondAndBlock()
	if block == nil {
		return nil
	}
	stmt.Condition = cond
	stmt.Body = block
	return stmt
}

// parseForInStatement parses `for (name in iterable) [ ... ]`.
func (p *Parser) parseForInStatement() ast.Statement {
	stmt := &ast.ForInStatement{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.IN) {
		return nil
	}
	p.nextToken()
	stmt.Iterable = p.parseExpression(LOWEST)
	if stmt.Iterable == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACK) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

// parseReturnStatement parses `return expr?;`. The returned expression
// may be a comma or implicit list.
func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return stmt
	}

	p.nextToken()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	stmt.Value = p.parseValuePosition(value)
	if !p.expectTerminator() {
		return nil
	}
	return stmt
}
