// Package config holds the language options and owns the color and unit
// specification managers shared by interpreters.
package config

import (
	"fmt"

	"github.com/tokens-studio/go-tokenscript/internal/colors"
	"github.com/tokens-studio/go-tokenscript/internal/units"
)

// DefaultMaxIterations bounds loop body executions per interpret call.
const DefaultMaxIterations = 1000

// LanguageOptions are the tunable limits of the runtime.
type LanguageOptions struct {
	MaxIterations int
}

// Config is a plain container owned by the caller. Exactly one parent
// config exists per top-level interpret call; child interpreters spawned
// for initializer and conversion scripts receive a clone sharing the
// spec registries by reference.
type Config struct {
	LanguageOptions LanguageOptions
	Colors          *colors.Manager
	Units           *units.Manager

	nested bool
}

// New creates a config with default options and empty managers.
func New() *Config {
	return &Config{
		LanguageOptions: LanguageOptions{MaxIterations: DefaultMaxIterations},
		Colors:          colors.NewManager(),
		Units:           units.NewManager(),
	}
}

// ChildClone returns a config for a nested interpreter. It shares the
// managers by reference so registration effects are visible, but the
// clone refuses further registration, preventing a script from
// re-entering registration.
func (c *Config) ChildClone() *Config {
	return &Config{
		LanguageOptions: c.LanguageOptions,
		Colors:          c.Colors,
		Units:           c.Units,
		nested:          true,
	}
}

// IsNested reports whether this config belongs to a nested interpreter.
func (c *Config) IsNested() bool {
	return c.nested
}

// UnitKeyword is the lexer predicate deciding whether a numeric literal
// suffix is a registered unit keyword.
func (c *Config) UnitKeyword(s string) bool {
	return c.Units.HasKeyword(s)
}

// RegisterColorSpec registers a color specification document under uri.
func (c *Config) RegisterColorSpec(uri string, raw []byte) error {
	if c.nested {
		return fmt.Errorf("registration is not permitted on a nested config")
	}
	return c.Colors.Register(uri, raw, c.UnitKeyword)
}

// RegisterUnitSpec registers a unit specification document under uri.
func (c *Config) RegisterUnitSpec(uri string, raw []byte) error {
	if c.nested {
		return fmt.Errorf("registration is not permitted on a nested config")
	}
	return c.Units.Register(uri, raw, c.UnitKeyword)
}
