// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/lumenlang/lumen/internal/config"
	"github.com/lumenlang/lumen/internal/testutil"
)

// Working directory changes keep these tests serial.

func TestInitThenLoadWorkspace(t *testing.T) {
	restore := testutil.MustChdir(t, t.TempDir())
	t.Cleanup(restore)

	origCfg, origTarget, origFeatures := cfg, targetFlag, featureFlags
	t.Cleanup(func() { cfg, targetFlag, featureFlags = origCfg, origTarget, origFeatures })
	cfg = config.DefaultConfig()
	targetFlag = ""
	featureFlags = nil

	if err := runInit(initCmd, []string{"scratch"}); err != nil {
		t.Fatalf("runInit() error: %v", err)
	}

	ws, err := loadWorkspace("", false)
	if err != nil {
		t.Fatalf("loadWorkspace() error: %v", err)
	}
	if ws.Manifest.Package.Name != "scratch" {
		t.Errorf("package name = %q, want %q", ws.Manifest.Package.Name, "scratch")
	}
	if diags := ws.Tree.Check(); len(diags) != 0 {
		t.Errorf("scaffolded package has %d resolution errors: %v", len(diags), diags)
	}
}

func TestInitRefusesOverwrite(t *testing.T) {
	restore := testutil.MustChdir(t, t.TempDir())
	t.Cleanup(restore)

	origForce := initForce
	t.Cleanup(func() { initForce = origForce })
	initForce = false

	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("runInit() error: %v", err)
	}
	err := runInit(initCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second runInit() error = %v, want already exists", err)
	}

	initForce = true
	if err := runInit(initCmd, nil); err != nil {
		t.Errorf("runInit() with --force error: %v", err)
	}
}

func TestLoadWorkspaceBareFile(t *testing.T) {
	origCfg := cfg
	t.Cleanup(func() { cfg = origCfg })
	cfg = config.DefaultConfig()

	dir := testutil.WriteTree(t, map[string]string{
		"solo.lum": "fn main() {\n    println(\"standalone\");\n}\n",
	})

	ws, err := loadWorkspace(filepath.Join(dir, "solo.lum"), false)
	if err != nil {
		t.Fatalf("loadWorkspace() error: %v", err)
	}
	if ws.Manifest.Package.Name != "solo" {
		t.Errorf("package name = %q, want %q", ws.Manifest.Package.Name, "solo")
	}
	if diags := ws.Tree.Check(); len(diags) != 0 {
		t.Errorf("bare file has %d resolution errors: %v", len(diags), diags)
	}
}

func TestLoadWorkspaceOutsidePackage(t *testing.T) {
	restore := testutil.MustChdir(t, t.TempDir())
	t.Cleanup(restore)

	origCfg := cfg
	t.Cleanup(func() { cfg = origCfg })
	cfg = config.DefaultConfig()

	_, err := loadWorkspace("", false)
	if err == nil || !strings.Contains(err.Error(), "lumen init") {
		t.Errorf("loadWorkspace() error = %v, want a hint to run lumen init", err)
	}
}
