package interp_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokens-studio/go-tokenscript/internal/config"
	"github.com/tokens-studio/go-tokenscript/internal/errors"
	"github.com/tokens-studio/go-tokenscript/internal/interp"
	"github.com/tokens-studio/go-tokenscript/internal/interp/runtime"
	"github.com/tokens-studio/go-tokenscript/internal/specs"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := specs.NewConfig()
	require.NoError(t, err)
	return cfg
}

func run(t *testing.T, source string) runtime.Value {
	t.Helper()
	result, err := interp.Run(source, interp.Options{Config: testConfig(t)})
	require.NoError(t, err, "source: %s", source)
	return result
}

func runErr(t *testing.T, source string) *errors.RuntimeError {
	t.Helper()
	_, err := interp.Run(source, interp.Options{Config: testConfig(t)})
	require.Error(t, err, "source: %s", source)
	re, ok := err.(*errors.RuntimeError)
	require.True(t, ok, "expected RuntimeError, got %T: %v", err, err)
	return re
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"return 1 + 2;", "3"},
		{"return 2 * 3 + 4;", "10"},
		{"return 2 + 3 * 4;", "14"},
		{"return (2 + 3) * 4;", "20"},
		{"return 10 - 3;", "7"},
		{"return 7 % 3;", "1"},
		{"return 2 ^ 10;", "1024"},
		{"return 2 ^ 0.5;", "1.4142135623730951"},
		{"return -5 + 2;", "-3"},
		{"return 1.5 + 1.5;", "3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, run(t, tt.source).String(), tt.source)
	}
}

func TestIntegerPreservation(t *testing.T) {
	// Exact integer division keeps the integer tag; otherwise promote.
	v := run(t, "return 10 / 2;")
	n, ok := v.(*runtime.NumberValue)
	require.True(t, ok)
	assert.False(t, n.IsFloat)
	assert.Equal(t, int64(5), n.Int)

	v = run(t, "return 10 / 4;")
	n = v.(*runtime.NumberValue)
	assert.True(t, n.IsFloat)
	assert.Equal(t, 2.5, n.Float)
}

func TestDivisionByZero(t *testing.T) {
	runErr(t, "return 1 / 0;")
}

func TestComparisonAndLogic(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"return 1 < 2;", "true"},
		{"return 2 <= 2;", "true"},
		{"return 3 > 4;", "false"},
		{"return 1 == 1.0;", "true"},
		{"return 1 != 2;", "true"},
		{"return true && false;", "false"},
		{"return true || false;", "true"},
		{"return !true;", "false"},
		{`return "a" == "a";`, "true"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, run(t, tt.source).String(), tt.source)
	}
}

func TestShortCircuit(t *testing.T) {
	// The right operand must not be evaluated when the result is decided.
	v := run(t, `
		variable i: Number = 0;
		variable ok: Boolean = false || true;
		ok = true || (1 / i) == 1;
		return ok;`)
	assert.Equal(t, "true", v.String())
}

func TestStringSemantics(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`return "foo" + "bar";`, "foobar"},
		{`return "a" "b";`, "a b"},
		{`return "  x  ".trim();`, "x"},
		{`return "abc".upper();`, "ABC"},
		{`return "ABC".lower();`, "abc"},
		{`return "a".concat("b");`, "ab"},
		{`return "a,b,c".split(",").length();`, "3"},
		{`return "abc".split().get(1);`, "b"},
		{`return "hello".length();`, "5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, run(t, tt.source).String(), tt.source)
	}
}

func TestImplicitListCompound(t *testing.T) {
	v := run(t, `return 1px solid #000;`)
	assert.Equal(t, "1px solid #000", v.String())
}

func TestListSemantics(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"return 1, 2, 3;", "[1, 2, 3]"},
		{`variable xs: List = 1, 2, 3; return xs.get(0);`, "1"},
		{`variable xs: List = 1, 2, 3; return xs[2];`, "3"},
		{`variable xs: List = 1, 2; xs.push(3); return xs.length();`, "3"},
		{`variable xs: List = 1, 2, 3; return xs.join("-");`, "1-2-3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, run(t, tt.source).String(), tt.source)
	}

	re := runErr(t, `variable xs: List = 1, 2; return xs.get(-1);`)
	assert.Equal(t, errors.TypeMismatch, re.Kind)
}

func TestDictionaryRamp(t *testing.T) {
	v := run(t, `
		variable d: Dictionary;
		variable i: Number = 0;
		while (i < 3) [ d.set(i.toString(), i * 10); i = i + 1; ]
		return d.values();`)
	assert.Equal(t, "[0, 10, 20]", v.String())
}

func TestDictionaryOrderAndLength(t *testing.T) {
	v := run(t, `
		variable d: Dictionary;
		d.set("b", 1);
		d.set("a", 2);
		d.set("b", 3);
		return d.keys();`)
	assert.Equal(t, "[b, a]", v.String())

	v = run(t, `
		variable d: Dictionary;
		d.set("x", 1);
		return d.length;`)
	assert.Equal(t, "1", v.String())
}

func TestIterationCap(t *testing.T) {
	cfg := testConfig(t)

	// The host keeps hold of the list the loop body pushes into, so the
	// number of body entries is observable after the error.
	hits := &runtime.ListValue{}
	_, err := interp.Run(`
		variable i: Number = 0;
		while (true) [ {hits}.push(1); i = i + 1; ]
		return i;`, interp.Options{
		Config:     cfg,
		References: map[string]runtime.Value{"hits": hits},
	})
	require.Error(t, err)
	re := err.(*errors.RuntimeError)
	assert.Equal(t, errors.IterationLimitExceeded, re.Kind)
	assert.Equal(t, config.DefaultMaxIterations+1, len(hits.Elements),
		"the body runs exactly MaxIterations+1 times before the cap fires")
}

func TestIterationCapIsConfigurable(t *testing.T) {
	cfg := testConfig(t)
	cfg.LanguageOptions.MaxIterations = 5

	hits := &runtime.ListValue{}
	_, err := interp.Run(`
		variable i: Number = 0;
		while (i < 100) [ {hits}.push(1); i = i + 1; ]
		return i;`, interp.Options{
		Config:     cfg,
		References: map[string]runtime.Value{"hits": hits},
	})
	require.Error(t, err)
	assert.Equal(t, 6, len(hits.Elements))

	// A loop that finishes under the cap completes normally.
	v, err := interp.Run(`
		variable i: Number = 0;
		while (i < 5) [ i = i + 1; ]
		return i;`, interp.Options{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, "5", v.String())
}

func TestForInLoop(t *testing.T) {
	v := run(t, `
		variable total: Number = 0;
		variable xs: List = 1, 2, 3;
		for (x in xs) [ total = total + x; ]
		return total;`)
	assert.Equal(t, "6", v.String())
}

func TestScopingAndShadowing(t *testing.T) {
	// Shadowing across scopes is permitted.
	v := run(t, `
		variable x: Number = 1;
		if (true) [ variable x: Number = 2; ]
		return x;`)
	assert.Equal(t, "1", v.String())

	// Redeclaration in the same scope is an error.
	re := runErr(t, `variable x: Number = 1; variable x: Number = 2;`)
	assert.Equal(t, errors.Redeclaration, re.Kind)
}

func TestUndefinedVariable(t *testing.T) {
	re := runErr(t, `return nothere;`)
	assert.Equal(t, errors.UndefinedVariable, re.Kind)
}

func TestTypeMismatchOnAssign(t *testing.T) {
	re := runErr(t, `variable x: Number = 1; x = "s";`)
	assert.Equal(t, errors.TypeMismatch, re.Kind)
}

func TestNumberAcceptsUnitMagnitude(t *testing.T) {
	v := run(t, `variable x: Number = 16px; return x;`)
	assert.Equal(t, "16", v.String())
}

func TestReferences(t *testing.T) {
	cfg := testConfig(t)
	refs := map[string]runtime.Value{
		"spacing.base": runtime.NewInt(8),
	}
	v, err := interp.Run(`return {spacing.base} * 2;`, interp.Options{Config: cfg, References: refs})
	require.NoError(t, err)
	assert.Equal(t, "16", v.String())

	_, err = interp.Run(`return {missing.path};`, interp.Options{Config: cfg})
	require.Error(t, err)
	re := err.(*errors.RuntimeError)
	assert.Equal(t, errors.UndefinedReference, re.Kind)
	assert.Equal(t, 1, re.Line())
}

func TestProgramResultRules(t *testing.T) {
	// Without a return the last expression statement wins.
	assert.Equal(t, "3", run(t, `1 + 1; 1 + 2;`).String())
	// Declarations only yield nil.
	assert.Equal(t, "null", run(t, `variable x: Number = 1;`).String())
	// Return short-circuits the rest of the program.
	assert.Equal(t, "1", run(t, `return 1; 2;`).String())
}

func TestUnitArithmetic(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"return 1px + 1px;", "2px"},
		{"return 1rem + 1px;", "17px"},
		{"return 1px + 1rem;", "17px"},
		{"return 2 * 3px;", "6px"},
		{"return 3px * 2;", "6px"},
		{"return 10px + 5;", "15px"},
		{"return 1rem + 1px + 10%;", "18.7px"},
		{"return 16px / 2;", "8px"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, run(t, tt.source).String(), tt.source)
	}
}

func TestUnitComparison(t *testing.T) {
	assert.Equal(t, "true", run(t, "return 1rem > 10px;").String())
	assert.Equal(t, "true", run(t, "return 1rem == 16px;").String())
}

func TestColorConstruction(t *testing.T) {
	v := run(t, `variable c: Color.Rgb = rgb(255, 0, 0); return c.r;`)
	assert.Equal(t, "255", v.String())
}

func TestColorAttributeWrite(t *testing.T) {
	v := run(t, `variable c: Color.Rgb = rgb(0, 0, 0); c.r = 128; return c.r;`)
	assert.Equal(t, "128", v.String())

	re := runErr(t, `variable c: Color.Rgb = rgb(0, 0, 0); c.r = "red";`)
	assert.Equal(t, errors.InvalidAttributeType, re.Kind)
}

func TestHexLiteralIsColor(t *testing.T) {
	v := run(t, `return #ff0000;`)
	c, ok := v.(*runtime.ColorValue)
	require.True(t, ok)
	assert.Equal(t, "Hex", c.SubType)
	assert.Equal(t, "#ff0000", c.String())
}

func TestColorConversion(t *testing.T) {
	v := run(t, `variable c: Color.Rgb = rgb(255, 255, 255); return c.to.hex();`)
	c, ok := v.(*runtime.ColorValue)
	require.True(t, ok)
	assert.Equal(t, "Hex", c.SubType)
	assert.Equal(t, "#ffffff", c.String())
}

func TestColorConversionChained(t *testing.T) {
	// HSL reaches Hex through RGB over the conversion graph.
	v := run(t, `variable c: Color.Hsl = hsl(0, 100, 50); return c.to.hex();`)
	c, ok := v.(*runtime.ColorValue)
	require.True(t, ok)
	assert.Equal(t, "#ff0000", c.String())
}

func TestInitializerArity(t *testing.T) {
	re := runErr(t, `return rgb(255);`)
	assert.Equal(t, errors.InvalidInitializerArity, re.Kind)
}

func TestUnknownFunction(t *testing.T) {
	re := runErr(t, `return nosuch(1);`)
	assert.Equal(t, errors.MissingSpec, re.Kind)
}

func TestPurity(t *testing.T) {
	// Expressions without references are pure functions of the source.
	a := run(t, "return 2 ^ 10 + 1rem + 1px;")
	b := run(t, "return 2 ^ 10 + 1rem + 1px;")
	assert.Equal(t, a.String(), b.String())
}

func TestIfElifElse(t *testing.T) {
	source := `
		variable x: Number = %d;
		variable out: String = "";
		if (x < 10) [ out = "small"; ]
		elif (x < 100) [ out = "medium"; ]
		else [ out = "large"; ]
		return out;`

	tests := []struct {
		n    int
		want string
	}{
		{5, "small"},
		{50, "medium"},
		{500, "large"},
	}
	for _, tt := range tests {
		src := fmt.Sprintf(source, tt.n)
		assert.Equal(t, tt.want, run(t, src).String())
	}
}
