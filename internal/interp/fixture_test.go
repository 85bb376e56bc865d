package interp_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/tokens-studio/go-tokenscript/internal/interp"
	"github.com/tokens-studio/go-tokenscript/internal/specs"
)

// TestProgramSnapshots runs representative TokenScript programs end to
// end and snapshots their printed results, pinning the observable
// surface of the runtime against regressions.
func TestProgramSnapshots(t *testing.T) {
	fixtures := []struct {
		name   string
		source string
	}{
		{
			name:   "unit_arithmetic",
			source: `return 1rem + 1px + 10%;`,
		},
		{
			name:   "integer_promotion",
			source: `return 10 / 4, 10 / 2, 2 ^ 10, 2 ^ 0.5;`,
		},
		{
			name: "string_pipeline",
			source: `
				variable family: String = "  Inter  ";
				return family.trim().upper().concat("-BOLD");`,
		},
		{
			name:   "compound_value",
			source: `return 1px solid #000;`,
		},
		{
			name: "dictionary_ramp",
			source: `
				variable d: Dictionary;
				variable i: Number = 0;
				while (i < 5) [ d.set(i.toString(), i * 8); i = i + 1; ]
				return d.values();`,
		},
		{
			name: "color_roundtrip",
			source: `
				variable c: Color.Rgb = rgb(255, 128, 0);
				return c.to.hex();`,
		},
		{
			name: "hsl_to_hex",
			source: `
				variable c: Color.Hsl = hsl(240, 100, 50);
				return c.to.hex();`,
		},
		{
			name: "spacing_scale",
			source: `
				variable base: Number = 4;
				variable scale: List;
				variable i: Number = 1;
				while (i <= 6) [ scale.push((base * 2 ^ i).toString()); i = i + 1; ]
				return scale.join(" ");`,
		},
	}

	for _, fixture := range fixtures {
		t.Run(fixture.name, func(t *testing.T) {
			cfg, err := specs.NewConfig()
			require.NoError(t, err)

			result, err := interp.Run(fixture.source, interp.Options{Config: cfg})
			require.NoError(t, err)
			snaps.MatchSnapshot(t, result.String())
		})
	}
}
