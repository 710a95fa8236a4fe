// SPDX-License-Identifier: MPL-2.0

package config_test

import (
	"errors"
	"testing"

	"github.com/lumenlang/lumen/internal/config"
)

func TestColorScheme_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		scheme  config.ColorScheme
		wantErr bool
	}{
		{name: "auto", scheme: config.ColorSchemeAuto, wantErr: false},
		{name: "dark", scheme: config.ColorSchemeDark, wantErr: false},
		{name: "light", scheme: config.ColorSchemeLight, wantErr: false},
		{name: "empty", scheme: "", wantErr: true},
		{name: "unknown", scheme: "sepia", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.scheme.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("ColorScheme(%q).Validate() error = %v, wantErr %v", tt.scheme, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, config.ErrInvalidColorScheme) {
				t.Errorf("ColorScheme(%q).Validate() error does not wrap ErrInvalidColorScheme", tt.scheme)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *config.Config {
		cfg := config.DefaultConfig()
		cfg.Target.Features = []string{"a", "b"}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*config.Config) {}, wantErr: false},
		{name: "explicit family", mutate: func(c *config.Config) { c.Target.DefaultFamily = "unix" }, wantErr: false},
		{name: "bad family", mutate: func(c *config.Config) { c.Target.DefaultFamily = "beos" }, wantErr: true},
		{name: "zero depth", mutate: func(c *config.Config) { c.Run.MaxCallDepth = 0 }, wantErr: true},
		{name: "huge depth", mutate: func(c *config.Config) { c.Run.MaxCallDepth = config.MaxCallDepthLimit + 1 }, wantErr: true},
		{name: "bad scheme", mutate: func(c *config.Config) { c.UI.ColorScheme = "x" }, wantErr: true},
		{name: "blank feature", mutate: func(c *config.Config) { c.Target.Features = []string{" "} }, wantErr: true},
		{name: "duplicate feature", mutate: func(c *config.Config) { c.Target.Features = []string{"a", "a"} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, config.ErrInvalidConfig) {
				t.Error("Validate() error does not wrap ErrInvalidConfig")
			}
		})
	}
}
