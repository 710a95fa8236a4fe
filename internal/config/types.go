// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lumenlang/lumen/pkg/platform"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// MaxCallDepthLimit is the largest accepted call depth bound.
	MaxCallDepthLimit = 256
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by validation failures.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not
	// recognized. It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// Config is the complete user configuration.
	Config struct {
		Target TargetConfig `mapstructure:"target"`
		Run    RunConfig    `mapstructure:"run"`
		UI     UIConfig     `mapstructure:"ui"`
	}

	// TargetConfig sets the default build target.
	TargetConfig struct {
		// DefaultFamily is the platform family used when no flag is given.
		// Empty means the host family.
		DefaultFamily string `mapstructure:"default_family"`

		// Features are feature names enabled on every build.
		Features []string `mapstructure:"features"`
	}

	// RunConfig tunes program execution.
	RunConfig struct {
		// MaxCallDepth bounds nested function calls.
		MaxCallDepth int `mapstructure:"max_call_depth"`
	}

	// UIConfig controls terminal output.
	UIConfig struct {
		ColorScheme ColorScheme `mapstructure:"color_scheme"`
		Verbose     bool        `mapstructure:"verbose"`
	}
)

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// Validate checks a ColorScheme value.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Target: TargetConfig{},
		Run:    RunConfig{MaxCallDepth: 64},
		UI:     UIConfig{ColorScheme: ColorSchemeAuto},
	}
}

// Validate checks constraints the CUE schema cannot express on the merged
// config, plus everything a schema-less source (env vars) may have set.
func (c *Config) Validate() error {
	if err := c.UI.ColorScheme.Validate(); err != nil {
		return fmt.Errorf("%w: ui.color_scheme: %w", ErrInvalidConfig, err)
	}
	if c.Run.MaxCallDepth < 1 || c.Run.MaxCallDepth > MaxCallDepthLimit {
		return fmt.Errorf("%w: run.max_call_depth %d out of range [1, %d]",
			ErrInvalidConfig, c.Run.MaxCallDepth, MaxCallDepthLimit)
	}
	if c.Target.DefaultFamily != "" {
		if _, err := platform.ParseFamily(c.Target.DefaultFamily); err != nil {
			return fmt.Errorf("%w: target.default_family: %w", ErrInvalidConfig, err)
		}
	}
	seen := make(map[string]bool, len(c.Target.Features))
	for _, f := range c.Target.Features {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("%w: target.features contains a blank feature name", ErrInvalidConfig)
		}
		if seen[f] {
			return fmt.Errorf("%w: target.features lists %q twice", ErrInvalidConfig, f)
		}
		seen[f] = true
	}
	return nil
}
