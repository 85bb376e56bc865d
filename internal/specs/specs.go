// Package specs ships the default color and unit specifications compiled
// into the binary. They mirror the documents a host would normally fetch
// and register itself: RGB, HSL and Hex colors, and px, rem and percent
// units.
package specs

import (
	"embed"
	"fmt"

	"github.com/tokens-studio/go-tokenscript/internal/config"
)

//go:embed defaults/*.json
var defaultsFS embed.FS

// URIs the default specifications are registered under.
const (
	ColorRGBURI = "https://specs.tokens.studio/color/rgb/1.0.0/"
	ColorHSLURI = "https://specs.tokens.studio/color/hsl/1.0.0/"
	ColorHexURI = "https://specs.tokens.studio/color/hex/1.0.0/"

	UnitPxURI      = "https://specs.tokens.studio/unit/px/1.0.0/"
	UnitRemURI     = "https://specs.tokens.studio/unit/rem/1.0.0/"
	UnitPercentURI = "https://specs.tokens.studio/unit/percent/1.0.0/"
)

var unitFiles = []struct {
	uri  string
	file string
}{
	{UnitPxURI, "defaults/unit_px.json"},
	{UnitRemURI, "defaults/unit_rem.json"},
	{UnitPercentURI, "defaults/unit_percent.json"},
}

var colorFiles = []struct {
	uri  string
	file string
}{
	{ColorHexURI, "defaults/color_hex.json"},
	{ColorRGBURI, "defaults/color_rgb.json"},
	{ColorHSLURI, "defaults/color_hsl.json"},
}

// Register loads every default specification into cfg. Units register
// first so color scripts lex dimensioned literals correctly.
func Register(cfg *config.Config) error {
	for _, u := range unitFiles {
		raw, err := defaultsFS.ReadFile(u.file)
		if err != nil {
			return fmt.Errorf("reading embedded unit spec %s: %w", u.file, err)
		}
		if err := cfg.RegisterUnitSpec(u.uri, raw); err != nil {
			return fmt.Errorf("registering %s: %w", u.uri, err)
		}
	}
	for _, c := range colorFiles {
		raw, err := defaultsFS.ReadFile(c.file)
		if err != nil {
			return fmt.Errorf("reading embedded color spec %s: %w", c.file, err)
		}
		if err := cfg.RegisterColorSpec(c.uri, raw); err != nil {
			return fmt.Errorf("registering %s: %w", c.uri, err)
		}
	}
	return nil
}

// NewConfig returns a fresh config with every default spec registered.
func NewConfig() (*config.Config, error) {
	cfg := config.New()
	if err := Register(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
