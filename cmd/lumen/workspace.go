// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lumenlang/lumen/internal/discovery"
	"github.com/lumenlang/lumen/internal/issue"
	"github.com/lumenlang/lumen/pkg/lumfile"
	"github.com/lumenlang/lumen/pkg/manifest"
	"github.com/lumenlang/lumen/pkg/modtree"
	"github.com/lumenlang/lumen/pkg/platform"
)

// workspace bundles everything a subcommand needs: the manifest, the
// resolved build target, and the module tree built from the entry file.
type workspace struct {
	Manifest *manifest.Manifest
	Target   platform.Target
	Tree     *modtree.Tree
}

// loadWorkspace builds the module tree for arg, which may be empty (use
// the enclosing package of the working directory), a package directory,
// or a bare .lum file run without a manifest. The test flag additionally
// mounts #[cfg(test)] modules.
func loadWorkspace(arg string, test bool) (*workspace, error) {
	if strings.HasSuffix(arg, lumfile.Ext) {
		return loadBareFile(arg, test)
	}

	start := arg
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		start = cwd
	}

	pkgDir, err := manifest.Find(start)
	if err != nil {
		if errors.Is(err, manifest.ErrNotFound) {
			return nil, issue.NewErrorContext().
				WithOperation("locate package").
				WithResource(start).
				WithSuggestion("Run 'lumen init' to create a package here").
				WithSuggestion("Or run from inside an existing package directory").
				Wrap(err).
				BuildError()
		}
		return nil, err
	}

	m, err := manifest.Load(pkgDir)
	if err != nil {
		return nil, issue.WrapWithContext(err, "load manifest", pkgDir)
	}

	target, err := resolveTarget(m)
	if err != nil {
		return nil, err
	}
	if test {
		target = target.WithTest()
	}

	entry := m.EntryPath()
	if _, err := os.Stat(entry); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("open entry file").
			WithResource(entry).
			WithSuggestion("Check the 'entry' field under [package] in lumen.toml").
			WithSuggestion("The default entry is src/main.lum").
			Wrap(err).
			BuildError()
	}

	logger.Debug("building module tree", "entry", entry, "target", target.String())

	tree, err := discovery.Load(entry, target)
	if err != nil {
		return nil, err
	}

	return &workspace{Manifest: m, Target: target, Tree: tree}, nil
}

// loadBareFile runs a single .lum file without a manifest: the file is
// the entry module and the package is named after it.
func loadBareFile(path string, test bool) (*workspace, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, issue.WrapWithContext(err, "open entry file", path)
	}

	m := &manifest.Manifest{
		Package: manifest.Package{
			Name:  strings.TrimSuffix(filepath.Base(path), lumfile.Ext),
			Entry: filepath.Base(path),
		},
		Dir: filepath.Dir(path),
	}

	target, err := resolveTarget(m)
	if err != nil {
		return nil, err
	}
	if test {
		target = target.WithTest()
	}

	logger.Debug("building module tree", "entry", path, "target", target.String())

	tree, err := discovery.Load(path, target)
	if err != nil {
		return nil, err
	}

	return &workspace{Manifest: m, Target: target, Tree: tree}, nil
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// resolveTarget layers target inputs: the --target flag wins, then the
// manifest's pinned family, then the config default, then the host.
// Features accumulate from config, manifest defaults, and --feature flags.
func resolveTarget(m *manifest.Manifest) (platform.Target, error) {
	family := platform.HostFamily()
	if cfg != nil && cfg.Target.DefaultFamily != "" {
		family = platform.Family(cfg.Target.DefaultFamily)
	}
	if m.Target.Family != "" {
		family = platform.Family(m.Target.Family)
	}
	if targetFlag != "" {
		parsed, err := platform.ParseFamily(targetFlag)
		if err != nil {
			return platform.Target{}, fmt.Errorf("--target: %w", err)
		}
		family = parsed
	}

	var features []string
	if cfg != nil {
		features = append(features, cfg.Target.Features...)
	}
	features = append(features, m.Features.Default...)
	features = append(features, featureFlags...)

	return platform.NewTarget(family, features), nil
}
