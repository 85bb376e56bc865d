package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokens-studio/go-tokenscript/internal/ast"
	"github.com/tokens-studio/go-tokenscript/internal/lexer"
)

func unitPred(s string) bool {
	switch s {
	case "px", "rem", "%":
		return true
	}
	return false
}

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	prog, err := Parse(input, unitPred)
	require.NoError(t, err, "input: %s", input)
	return prog
}

func parseError(t *testing.T, input string) error {
	t.Helper()
	_, err := Parse(input, unitPred)
	require.Error(t, err, "input: %s", input)
	return err
}

func TestVariableDecl(t *testing.T) {
	prog := parseProgram(t, `variable x: Number = 5;`)
	require.Len(t, prog.Statements, 1)

	decl, ok := prog.Statements[0].(*ast.VariableDecl)
	require.True(t, ok, "expected VariableDecl, got %T", prog.Statements[0])
	assert.Equal(t, "x", decl.Name.Value)
	assert.Equal(t, "Number", decl.Type.Base)
	assert.Empty(t, decl.Type.Sub)
	require.NotNil(t, decl.Value)
}

func TestVariableDeclWithSubType(t *testing.T) {
	prog := parseProgram(t, `variable c: Color.Rgb;`)
	decl := prog.Statements[0].(*ast.VariableDecl)
	assert.Equal(t, "Color", decl.Type.Base)
	assert.Equal(t, "Rgb", decl.Type.Sub)
	assert.Nil(t, decl.Value)
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3;", "(1 + (2 * 3));"},
		{"(1 + 2) * 3;", "((1 + 2) * 3);"},
		{"1 < 2 == true;", "((1 < 2) == true);"},
		{"!a && b || c;", "(((!a) && b) || c);"},
		{"2 ^ 3 ^ 2;", "(2 ^ (3 ^ 2));"},
		{"-a * b;", "((-a) * b);"},
		{"a + b % c;", "(a + (b % c));"},
		{"a.b.c;", "a.b.c;"},
	}

	for _, tt := range tests {
		prog := parseProgram(t, tt.input)
		require.Len(t, prog.Statements, 1, tt.input)
		assert.Equal(t, tt.want, prog.Statements[0].String(), tt.input)
	}
}

func TestPowerIsRightAssociative(t *testing.T) {
	prog := parseProgram(t, "2 ^ 3 ^ 2;")
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	outer := stmt.Expression.(*ast.BinaryExpression)
	_, rightIsPower := outer.Right.(*ast.BinaryExpression)
	assert.True(t, rightIsPower, "expected right operand to be the nested power")
}

func TestAssignStatement(t *testing.T) {
	prog := parseProgram(t, "x = 1;")
	stmt, ok := prog.Statements[0].(*ast.AssignStatement)
	require.True(t, ok)
	assert.Equal(t, "x", stmt.Name.Value)
	assert.Empty(t, stmt.Chain)
}

func TestAttributeChainAssign(t *testing.T) {
	prog := parseProgram(t, "c.r = 255;")
	stmt := prog.Statements[0].(*ast.AssignStatement)
	assert.Equal(t, "c", stmt.Name.Value)
	assert.Equal(t, []string{"r"}, stmt.Chain)

	prog = parseProgram(t, "a.b.c = 1;")
	stmt = prog.Statements[0].(*ast.AssignStatement)
	assert.Equal(t, []string{"b", "c"}, stmt.Chain)
}

func TestInvalidAssignTarget(t *testing.T) {
	parseError(t, "1 + 2 = 3;")
}

func TestIfElifElse(t *testing.T) {
	input := `if (a < 1) [ x = 1; ] elif (a < 2) [ x = 2; ] elif (a < 3) [ x = 3; ] else [ x = 4; ]`
	prog := parseProgram(t, input)
	require.Len(t, prog.Statements, 1)

	stmt := prog.Statements[0].(*ast.IfStatement)
	assert.Len(t, stmt.Elifs, 2)
	require.NotNil(t, stmt.Alternative)
}

func TestWhileStatement(t *testing.T) {
	prog := parseProgram(t, `while (i < 3) [ i = i + 1; ]`)
	stmt := prog.Statements[0].(*ast.WhileStatement)
	assert.Equal(t, "(i < 3)", stmt.Condition.String())
	assert.Len(t, stmt.Body.Statements, 1)
}

func TestForInStatement(t *testing.T) {
	prog := parseProgram(t, `for (item in xs) [ total = total + item; ]`)
	stmt := prog.Statements[0].(*ast.ForInStatement)
	assert.Equal(t, "item", stmt.Name.Value)
	assert.Equal(t, "xs", stmt.Iterable.String())
}

func TestReturnStatement(t *testing.T) {
	prog := parseProgram(t, `return 1 + 2;`)
	stmt := prog.Statements[0].(*ast.ReturnStatement)
	assert.Equal(t, "(1 + 2)", stmt.Value.String())

	prog = parseProgram(t, `return;`)
	stmt = prog.Statements[0].(*ast.ReturnStatement)
	assert.Nil(t, stmt.Value)
}

func TestImplicitListAtStatementTop(t *testing.T) {
	prog := parseProgram(t, `1px solid #000;`)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	list, ok := stmt.Expression.(*ast.ImplicitList)
	require.True(t, ok, "expected ImplicitList, got %T", stmt.Expression)
	assert.Len(t, list.Elements, 3)
}

func TestImplicitListInReturn(t *testing.T) {
	prog := parseProgram(t, `return "a" "b" "c";`)
	stmt := prog.Statements[0].(*ast.ReturnStatement)
	list, ok := stmt.Value.(*ast.ImplicitList)
	require.True(t, ok)
	assert.Len(t, list.Elements, 3)
}

func TestCommaListProducesListLiteral(t *testing.T) {
	prog := parseProgram(t, `return 1, 2, 3;`)
	stmt := prog.Statements[0].(*ast.ReturnStatement)
	list, ok := stmt.Value.(*ast.ListLiteral)
	require.True(t, ok)
	assert.Len(t, list.Elements, 3)
}

func TestAdjacencyInsideParensIsError(t *testing.T) {
	parseError(t, `(1 2);`)
}

func TestMissingSemicolonIsError(t *testing.T) {
	parseError(t, "x = 1 y = 2;")
}

func TestSemicolonOptionalAtEOF(t *testing.T) {
	prog := parseProgram(t, `c.r`)
	require.Len(t, prog.Statements, 1)
}

func TestCallExpressions(t *testing.T) {
	prog := parseProgram(t, `rgb(255, 0, 0);`)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	call, ok := stmt.Expression.(*ast.CallExpression)
	require.True(t, ok)
	assert.Len(t, call.Arguments, 3)
	assert.Equal(t, "rgb", call.Callee.String())
}

func TestMethodCallChain(t *testing.T) {
	prog := parseProgram(t, `c.to.hex();`)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	call := stmt.Expression.(*ast.CallExpression)
	attr, ok := call.Callee.(*ast.AttributeAccess)
	require.True(t, ok)
	assert.Equal(t, "hex", attr.Attribute)
	inner, ok := attr.Object.(*ast.AttributeAccess)
	require.True(t, ok)
	assert.Equal(t, "to", inner.Attribute)
}

func TestIndexExpression(t *testing.T) {
	prog := parseProgram(t, `xs[0];`)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	idx, ok := stmt.Expression.(*ast.IndexExpression)
	require.True(t, ok)
	assert.Equal(t, "xs", idx.Left.String())
}

func TestHexColorAndReferenceLiterals(t *testing.T) {
	prog := parseProgram(t, `return {spacing.base} * 2;`)
	stmt := prog.Statements[0].(*ast.ReturnStatement)
	bin := stmt.Value.(*ast.BinaryExpression)
	ref, ok := bin.Left.(*ast.Reference)
	require.True(t, ok)
	assert.Equal(t, "spacing.base", ref.Path)

	prog = parseProgram(t, `#ff0000;`)
	hex, ok := prog.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.HexColorLiteral)
	require.True(t, ok)
	assert.Equal(t, "#ff0000", hex.Value)
}

func TestNumberWithUnitLiteral(t *testing.T) {
	prog := parseProgram(t, `return 1.5rem;`)
	stmt := prog.Statements[0].(*ast.ReturnStatement)
	lit, ok := stmt.Value.(*ast.NumberWithUnitLiteral)
	require.True(t, ok)
	assert.Equal(t, "rem", lit.Unit)
	assert.False(t, lit.IsInt)
	assert.InDelta(t, 1.5, lit.Value, 1e-9)
}

func TestParseErrorCarriesToken(t *testing.T) {
	l := lexer.New("variable : Number;", lexer.WithUnitKeywords(unitPred))
	p := New(l)
	p.ParseProgram()
	require.NotEmpty(t, p.Errors())
	assert.Equal(t, 1, p.Errors()[0].Token.Pos.Line)
}

func TestDeterministicParse(t *testing.T) {
	input := `variable x: Number = 1 + 2 * 3; return x;`
	a := parseProgram(t, input)
	b := parseProgram(t, input)
	assert.Equal(t, a.String(), b.String())
}

func TestReparseCanonicalForm(t *testing.T) {
	// Pretty-printing and re-parsing yields a structurally equal tree.
	input := `variable x: Number = 1 + 2; x = x * 3; return x;`
	first := parseProgram(t, input)
	second := parseProgram(t, first.String())
	assert.Equal(t, first.String(), second.String())
}
