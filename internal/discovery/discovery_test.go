// SPDX-License-Identifier: MPL-2.0

package discovery_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lumenlang/lumen/internal/discovery"
	"github.com/lumenlang/lumen/internal/testutil"
	"github.com/lumenlang/lumen/pkg/platform"
)

func TestLoadFlatMapping(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{
		"src/main.lum":  "mod config;\n",
		"src/config.lum": "pub const MODE: str = \"release\";\n",
	})

	tree, err := discovery.Load(filepath.Join(dir, "src", "main.lum"), platform.Host())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if tree.Root.Child("config") == nil {
		t.Fatal("Load() tree has no config module")
	}
}

func TestLoadDirMapping(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{
		"src/main.lum":           "mod net;\n",
		"src/net/mod.lum":        "pub mod tcp;\n",
		"src/net/tcp.lum":        "pub fn dial() {}\n",
	})

	tree, err := discovery.Load(filepath.Join(dir, "src", "main.lum"), platform.Host())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	net := tree.Root.Child("net")
	if net == nil {
		t.Fatal("Load() tree has no net module")
	}
	if net.Child("tcp") == nil {
		t.Fatal("net module has no tcp child; directory mapping did not anchor children under net/")
	}
}

func TestLoadAmbiguousMapping(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{
		"src/main.lum":       "mod config;\n",
		"src/config.lum":     "",
		"src/config/mod.lum": "",
	})

	_, err := discovery.Load(filepath.Join(dir, "src", "main.lum"), platform.Host())
	var ambiguous *discovery.AmbiguousModuleError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("Load() error = %v, want AmbiguousModuleError", err)
	}
	if ambiguous.Name != "config" {
		t.Errorf("AmbiguousModuleError.Name = %q, want %q", ambiguous.Name, "config")
	}
	for _, path := range []string{ambiguous.FlatPath, ambiguous.DirPath} {
		if !strings.Contains(err.Error(), path) {
			t.Errorf("error message %q does not name candidate %q", err, path)
		}
	}
}

func TestLoadMissingModule(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{
		"src/main.lum": "mod ghost;\n",
	})

	_, err := discovery.Load(filepath.Join(dir, "src", "main.lum"), platform.Host())
	var missing *discovery.MissingModuleError
	if !errors.As(err, &missing) {
		t.Fatalf("Load() error = %v, want MissingModuleError", err)
	}
	if len(missing.Probed) != 2 {
		t.Fatalf("MissingModuleError.Probed = %v, want the two candidate paths", missing.Probed)
	}
	wantFlat := filepath.Join(dir, "src", "ghost.lum")
	wantDir := filepath.Join(dir, "src", "ghost", "mod.lum")
	if missing.Probed[0] != wantFlat || missing.Probed[1] != wantDir {
		t.Errorf("Probed = %v, want [%s %s]", missing.Probed, wantFlat, wantDir)
	}
}

func TestLoadPathOverride(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{
		"src/main.lum":          "#[path = \"shims/posix.lum\"]\nmod platform;\n",
		"src/shims/posix.lum":   "pub const FAMILY: str = \"unix\";\nmod helper;\n",
		"src/shims/helper.lum":  "",
	})

	tree, err := discovery.Load(filepath.Join(dir, "src", "main.lum"), platform.Host())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	mod := tree.Root.Child("platform")
	if mod == nil {
		t.Fatal("Load() tree has no platform module")
	}
	// Children of an overridden module resolve next to the overriding
	// file, not under the declared module name.
	if mod.Child("helper") == nil {
		t.Fatal("platform module has no helper child")
	}
}

func TestLoadPathOverrideMissing(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteTree(t, map[string]string{
		"src/main.lum": "#[path = \"nope.lum\"]\nmod platform;\n",
	})

	_, err := discovery.Load(filepath.Join(dir, "src", "main.lum"), platform.Host())
	var missing *discovery.MissingModuleError
	if !errors.As(err, &missing) {
		t.Fatalf("Load() error = %v, want MissingModuleError", err)
	}
	if want := filepath.Join(dir, "src", "nope.lum"); len(missing.Probed) != 1 || missing.Probed[0] != want {
		t.Errorf("Probed = %v, want [%s]", missing.Probed, want)
	}
}

func TestLoadCfgSkipsDiscovery(t *testing.T) {
	t.Parallel()

	// The windows file deliberately does not exist; a unix build must
	// never probe for it.
	dir := testutil.WriteTree(t, map[string]string{
		"src/main.lum": "#[cfg(unix)]\nmod sys_unix;\n#[cfg(windows)]\nmod sys_windows;\n",
		"src/sys_unix.lum": "",
	})

	target := platform.NewTarget(platform.FamilyUnix, nil)
	tree, err := discovery.Load(filepath.Join(dir, "src", "main.lum"), target)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if tree.Root.Child("sys_unix") == nil {
		t.Error("unix build dropped sys_unix")
	}
	if tree.Root.Child("sys_windows") != nil {
		t.Error("unix build kept sys_windows")
	}
}
