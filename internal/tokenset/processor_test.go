package tokenset_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokens-studio/go-tokenscript/internal/errors"
	"github.com/tokens-studio/go-tokenscript/internal/specs"
	"github.com/tokens-studio/go-tokenscript/internal/tokenset"
)

func newProcessor(t *testing.T) *tokenset.Processor {
	t.Helper()
	cfg, err := specs.NewConfig()
	require.NoError(t, err)
	return tokenset.NewProcessor(cfg)
}

func TestFlatResolution(t *testing.T) {
	input := `{
		"spacing": {
			"base":   {"$value": "8",  "$type": "number"},
			"double": {"$value": "{spacing.base} * 2", "$type": "number"}
		}
	}`

	result, err := newProcessor(t).Process([]byte(input))
	require.NoError(t, err)
	require.Empty(t, result.Diagnostics)

	assert.Equal(t, map[string]string{
		"spacing.base":   "8",
		"spacing.double": "16",
	}, result.Tokens)
	assert.Equal(t, "number", result.Types["spacing.base"])
}

func TestLowercaseLeafFieldsAndPriority(t *testing.T) {
	input := `{
		"a": {"value": "1", "type": "number"},
		"b": {"$value": "2", "value": "999", "$type": "number"}
	}`
	result, err := newProcessor(t).Process([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, "1", result.Tokens["a"])
	assert.Equal(t, "2", result.Tokens["b"], "standard $value takes priority")
}

func TestLiteralLeavesPassThrough(t *testing.T) {
	input := `{
		"border": {"$value": "1px solid #000", "$type": "border"},
		"font":   {"$value": "Inter-Bold", "$type": "fontFamily"},
		"hex":    {"$value": "#ff0000", "$type": "color"}
	}`
	result, err := newProcessor(t).Process([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, "1px solid #000", result.Tokens["border"])
	assert.Equal(t, "Inter-Bold", result.Tokens["font"])
	assert.Equal(t, "#ff0000", result.Tokens["hex"])
}

func TestExpressionLeaves(t *testing.T) {
	input := `{
		"size":  {"$value": "1rem + 1px + 10%", "$type": "dimension"},
		"color": {"$value": "rgb(255, 0, 0)", "$type": "color"}
	}`
	result, err := newProcessor(t).Process([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, "18.7px", result.Tokens["size"])
	assert.Equal(t, "RGB(r: 255, g: 0, b: 0)", result.Tokens["color"])
}

func TestArrayValuesJoin(t *testing.T) {
	input := `{"stack": {"$value": ["Inter", "sans-serif"], "$type": "fontFamily"}}`
	result, err := newProcessor(t).Process([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, "Inter, sans-serif", result.Tokens["stack"])
}

func TestTransitiveReferences(t *testing.T) {
	input := `{
		"a": {"$value": "2", "$type": "number"},
		"b": {"$value": "{a} * 3", "$type": "number"},
		"c": {"$value": "{b} + {a}", "$type": "number"}
	}`
	result, err := newProcessor(t).Process([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, "2", result.Tokens["a"])
	assert.Equal(t, "6", result.Tokens["b"])
	assert.Equal(t, "8", result.Tokens["c"])
}

func TestCycleIsIsolated(t *testing.T) {
	input := `{
		"a": {"$value": "{b} + 1", "$type": "number"},
		"b": {"$value": "{a} + 1", "$type": "number"},
		"ok": {"$value": "42", "$type": "number"}
	}`
	result, err := newProcessor(t).Process([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, "42", result.Tokens["ok"])
	assert.NotContains(t, result.Tokens, "a")
	assert.NotContains(t, result.Tokens, "b")

	var cycle *tokenset.Diagnostic
	for i := range result.Diagnostics {
		if result.Diagnostics[i].Kind == errors.TokenCycle {
			cycle = &result.Diagnostics[i]
		}
	}
	require.NotNil(t, cycle, "expected a TokenCycle diagnostic")
	assert.NotEmpty(t, cycle.Participants)
}

func TestMissingReferenceIsFiltered(t *testing.T) {
	input := `{
		"bad": {"$value": "{ghost} * 2", "$type": "number"},
		"ok":  {"$value": "1", "$type": "number"}
	}`
	result, err := newProcessor(t).Process([]byte(input))
	require.NoError(t, err)

	assert.NotContains(t, result.Tokens, "bad")
	assert.Equal(t, "1", result.Tokens["ok"])

	found := false
	for _, d := range result.Diagnostics {
		if d.Kind == errors.MissingTokenReference && d.Path == "bad" {
			found = true
		}
	}
	assert.True(t, found, "expected a MissingTokenReference diagnostic")
}

func TestThemes(t *testing.T) {
	input := `{
		"core":  {"size": {"$value": "8", "$type": "number"}},
		"light": {"bg": {"$value": "#ffffff", "$type": "color"}},
		"dark":  {"bg": {"$value": "#000000", "$type": "color"}},
		"$themes": [
			{"name": "Light", "group": "mode",
			 "selectedTokenSets": {"core": "source", "light": "enabled", "dark": "disabled"}},
			{"name": "Dark", "group": "mode",
			 "selectedTokenSets": {"core": "source", "dark": "enabled"}}
		]
	}`
	result, err := newProcessor(t).Process([]byte(input))
	require.NoError(t, err)
	require.Nil(t, result.Tokens)

	light := result.Themes["Light"]
	require.NotNil(t, light)
	assert.Equal(t, "8", light["size"])
	assert.Equal(t, "#ffffff", light["bg"])

	dark := result.Themes["Dark"]
	require.NotNil(t, dark)
	assert.Equal(t, "#000000", dark["bg"])
}

func TestThemeOverlayOrder(t *testing.T) {
	input := `{
		"base":     {"x": {"$value": "1", "$type": "number"}},
		"override": {"x": {"$value": "2", "$type": "number"}},
		"$themes": [
			{"name": "T", "selectedTokenSets": {"base": "source", "override": "enabled"}}
		]
	}`
	result, err := newProcessor(t).Process([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, "2", result.Themes["T"]["x"], "enabled sets overlay source sets")
}

func TestResolutionIsIdempotent(t *testing.T) {
	input := `{
		"spacing": {
			"base":   {"$value": "8", "$type": "number"},
			"double": {"$value": "{spacing.base} * 2", "$type": "number"}
		}
	}`
	p := newProcessor(t)
	first, err := p.Process([]byte(input))
	require.NoError(t, err)

	// Feed the resolved output back through as a plain document.
	rebuilt := map[string]interface{}{
		"spacing": map[string]interface{}{
			"base":   map[string]interface{}{"$value": first.Tokens["spacing.base"], "$type": "number"},
			"double": map[string]interface{}{"$value": first.Tokens["spacing.double"], "$type": "number"},
		},
	}
	raw, err := json.Marshal(rebuilt)
	require.NoError(t, err)

	second, err := p.Process(raw)
	require.NoError(t, err)
	assert.Equal(t, first.Tokens, second.Tokens)
}

func TestSkippedNodesGetNotes(t *testing.T) {
	input := `{"weird": {"leafless": 5}}`
	result, err := newProcessor(t).Process([]byte(input))
	require.NoError(t, err)
	assert.Empty(t, result.Tokens)
	require.NotEmpty(t, result.Diagnostics)
}

func TestResultJSON(t *testing.T) {
	input := `{"spacing": {"base": {"$value": "8", "$type": "number"}}}`
	result, err := newProcessor(t).Process([]byte(input))
	require.NoError(t, err)

	out, err := result.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"spacing": {"base": "8"}}`, string(out))
}

func TestInvalidJSON(t *testing.T) {
	_, err := newProcessor(t).Process([]byte(`{nope`))
	require.Error(t, err)
}

func TestApplyTransforms(t *testing.T) {
	tokens := map[string]string{"a": "8", "b": "x"}
	types := map[string]string{"a": "number", "b": "string"}

	transforms := []tokenset.Transform{
		{
			Name:        "suffix-px",
			TargetTypes: []string{"number"},
			Transform: func(value string, meta tokenset.Metadata) (string, error) {
				return value + "px", nil
			},
		},
	}

	diags, err := tokenset.ApplyTransforms(tokens, types, transforms, false)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, "8px", tokens["a"])
	assert.Equal(t, "x", tokens["b"], "non-matching types are untouched")
}
