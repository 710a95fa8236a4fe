// SPDX-License-Identifier: MPL-2.0

// Package manifest reads lumen.toml, the package manifest that marks a
// directory as a Lumen package and points at its entry file.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/lumenlang/lumen/pkg/lumfile"
	"github.com/lumenlang/lumen/pkg/platform"
)

// FileName is the manifest file name within a package directory.
const FileName = "lumen.toml"

// DefaultEntry is the entry file used when the manifest does not name one.
const DefaultEntry = "src/main.lum"

type (
	// Manifest is a parsed lumen.toml.
	Manifest struct {
		Package  Package  `toml:"package"`
		Features Features `toml:"features"`
		Target   Target   `toml:"target"`

		// Dir is the package directory the manifest was loaded from.
		Dir string `toml:"-"`
	}

	// Package identifies the package and its entry file.
	Package struct {
		Name        string `toml:"name"`
		Description string `toml:"description,omitempty"`
		// Entry is the entry file relative to the package directory.
		Entry string `toml:"entry,omitempty"`
	}

	// Features declares the feature names a package understands and
	// which of them are on by default.
	Features struct {
		Available []string `toml:"available,omitempty"`
		Default   []string `toml:"default,omitempty"`
	}

	// Target holds build-target defaults for the package.
	Target struct {
		// Family pins a default platform family; empty means host.
		Family string `toml:"family,omitempty"`
	}
)

// ErrNotFound is returned by Find when no manifest exists in the start
// directory or any of its parents.
var ErrNotFound = errors.New("no " + FileName + " found")

// Find walks from start upward until it finds a directory containing a
// manifest, and returns that directory.
func Find(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, FileName)); err == nil && !info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w in %s or any parent directory", ErrNotFound, start)
		}
		dir = parent
	}
}

// Load reads and validates the manifest in a package directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest at %s: %w", path, err)
	}
	m, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	m.Dir = dir
	return m, nil
}

// Parse decodes manifest content. Unknown fields are rejected so typos
// surface instead of silently doing nothing.
func Parse(data []byte, path string) (*Manifest, error) {
	var m Manifest
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	if err := m.validate(path); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate(path string) error {
	if m.Package.Name == "" {
		return fmt.Errorf("manifest %s: package.name is required", path)
	}
	for _, r := range m.Package.Name {
		if r != '_' && r != '-' && !isAlnum(r) {
			return fmt.Errorf("manifest %s: package.name %q contains %q", path, m.Package.Name, r)
		}
	}
	if m.Package.Entry != "" && !strings.HasSuffix(m.Package.Entry, lumfile.Ext) {
		return fmt.Errorf("manifest %s: package.entry %q must end in %s", path, m.Package.Entry, lumfile.Ext)
	}
	if m.Target.Family != "" {
		if _, err := platform.ParseFamily(m.Target.Family); err != nil {
			return fmt.Errorf("manifest %s: target.family: %w", path, err)
		}
	}
	available := make(map[string]bool, len(m.Features.Available))
	for _, f := range m.Features.Available {
		available[f] = true
	}
	for _, f := range m.Features.Default {
		if !available[f] {
			return fmt.Errorf("manifest %s: default feature %q is not listed in features.available", path, f)
		}
	}
	return nil
}

// EntryPath is the absolute-or-relative path of the entry file, anchored
// at the package directory.
func (m *Manifest) EntryPath() string {
	entry := m.Package.Entry
	if entry == "" {
		entry = DefaultEntry
	}
	return filepath.Join(m.Dir, filepath.FromSlash(entry))
}

// DefaultTarget assembles the package's default build target: pinned
// family (or host) plus default features.
func (m *Manifest) DefaultTarget() platform.Target {
	family := platform.HostFamily()
	if m.Target.Family != "" {
		family = platform.Family(m.Target.Family)
	}
	return platform.NewTarget(family, m.Features.Default)
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
