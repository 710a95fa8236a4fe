// SPDX-License-Identifier: MPL-2.0

package modtree

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lumenlang/lumen/pkg/lumfile"
	"github.com/lumenlang/lumen/pkg/platform"
)

// mapLoader serves module files from an in-memory map keyed by
// slash-separated paths, mirroring the probing the filesystem loader
// does in internal/discovery.
type mapLoader map[string]string

func (l mapLoader) Load(fileDir, childDir string, decl *lumfile.ModDecl) (*lumfile.File, string, error) {
	if decl.PathOverride != "" {
		path := filepath.Join(fileDir, decl.PathOverride)
		content, ok := l[path]
		if !ok {
			return nil, "", errors.New("no file for path override " + path)
		}
		f, err := lumfile.ParseBytes([]byte(content), path)
		return f, filepath.Dir(path), err
	}
	path := filepath.Join(childDir, decl.Name+lumfile.Ext)
	content, ok := l[path]
	if !ok {
		path = filepath.Join(childDir, decl.Name, "mod"+lumfile.Ext)
		content, ok = l[path]
	}
	if !ok {
		return nil, "", errors.New("no file for module " + decl.Name)
	}
	f, err := lumfile.ParseBytes([]byte(content), path)
	return f, filepath.Join(childDir, decl.Name), err
}

func buildTree(t *testing.T, target platform.Target, files map[string]string) *Tree {
	t.Helper()
	tree, err := buildTreeErr(target, files)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	return tree
}

func buildTreeErr(target platform.Target, files map[string]string) (*Tree, error) {
	entry, err := lumfile.ParseBytes([]byte(files["src/main.lum"]), "src/main.lum")
	if err != nil {
		return nil, err
	}
	return Build(entry, target, mapLoader(files))
}

func resolveFrom(t *testing.T, tree *Tree, from *Module, src string) (*Symbol, error) {
	t.Helper()
	f, err := lumfile.ParseBytes([]byte("fn probe() { "+src+"(); }"), "probe.lum")
	if err != nil {
		t.Fatalf("bad probe path %q: %v", src, err)
	}
	call := f.Items[0].(*lumfile.FnDecl).Body[0].(*lumfile.CallStmt)
	return tree.Resolve(from, call.Target)
}

func TestBuild_TreeShape(t *testing.T) {
	t.Parallel()
	tree := buildTree(t, platform.Host(), map[string]string{
		"src/main.lum": `
mod a;
mod styles {
    pub mod nested;
}
fn main() {}
`,
		"src/a.lum":                "pub fn greet() {}",
		"src/styles/nested/mod.lum": "pub fn inner() {}",
	})

	if got := tree.Root.Path(); got != "crate" {
		t.Errorf("root path = %q", got)
	}
	a := tree.Root.Child("a")
	if a == nil || a.File != filepath.Join("src", "a.lum") {
		t.Fatalf("module a not built from src/a.lum: %#v", a)
	}
	nested := tree.Root.Child("styles").Child("nested")
	if nested == nil {
		t.Fatal("nested module missing")
	}
	if nested.Path() != "crate::styles::nested" {
		t.Errorf("nested path = %q", nested.Path())
	}
	if got := nested.File; got != filepath.Join("src", "styles", "nested", "mod.lum") {
		t.Errorf("nested file = %q", got)
	}
}

func TestBuild_DuplicateDeclarations(t *testing.T) {
	t.Parallel()
	_, err := buildTreeErr(platform.Host(), map[string]string{
		"src/main.lum": "fn f() {}\nconst f = \"x\";",
	})
	var dup *DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected *DuplicateError, got %v", err)
	}
	if dup.Name != "f" || dup.First.Line != 1 || dup.Second.Line != 2 {
		t.Errorf("unexpected duplicate details: %#v", dup)
	}
}

func TestBuild_CfgDisjointDuplicatesAreFine(t *testing.T) {
	t.Parallel()
	files := map[string]string{
		"src/main.lum": `
#[cfg(unix)]
#[path = "platform_unix.lum"]
mod platform;

#[cfg(windows)]
#[path = "platform_windows.lum"]
mod platform;
`,
		"src/platform_unix.lum": `pub const FAMILY = "unix";`,
		// the windows file is deliberately absent: a false cfg must keep
		// discovery from probing for it
	}
	tree := buildTree(t, platform.NewTarget(platform.FamilyUnix, nil), files)
	p := tree.Root.Child("platform")
	if p == nil {
		t.Fatal("platform module missing")
	}
	if p.File != filepath.Join("src", "platform_unix.lum") {
		t.Errorf("wrong platform file selected: %q", p.File)
	}

	// flipping the target flips the selected implementation file
	files["src/platform_windows.lum"] = `pub const FAMILY = "windows";`
	tree = buildTree(t, platform.NewTarget(platform.FamilyWindows, nil), files)
	if got := tree.Root.Child("platform").File; got != filepath.Join("src", "platform_windows.lum") {
		t.Errorf("wrong platform file for windows target: %q", got)
	}
}

func TestBuild_IncludeCycle(t *testing.T) {
	t.Parallel()
	_, err := buildTreeErr(platform.Host(), map[string]string{
		"src/main.lum": `
#[path = "main.lum"]
mod loop_;
`,
	})
	var cyc *IncludeCycleError
	if !errors.As(err, &cyc) {
		t.Fatalf("expected *IncludeCycleError, got %v", err)
	}
}

func TestResolve_ExportChain(t *testing.T) {
	t.Parallel()
	tree := buildTree(t, platform.Host(), map[string]string{
		"src/main.lum": `
mod outer;
fn main() {}
`,
		"src/outer.lum":       "pub mod inner;\nmod hidden;",
		"src/outer/inner.lum": "pub fn visible() {}\nfn invisible() {}",
		"src/outer/hidden.lum": "pub fn trapped() {}",
	})
	root := tree.Root

	if _, err := resolveFrom(t, tree, root, "outer::inner::visible"); err != nil {
		t.Errorf("exported chain should resolve: %v", err)
	}

	// private leaf
	_, err := resolveFrom(t, tree, root, "outer::inner::invisible")
	var priv *PrivacyError
	if !errors.As(err, &priv) {
		t.Fatalf("expected *PrivacyError, got %v", err)
	}
	if priv.Module.Path() != "crate::outer::inner" || priv.From != root {
		t.Errorf("privacy error blames the wrong module: %v", priv)
	}

	// exported leaf behind a private intermediate module: the chain rule
	// blocks at the intermediate, not the leaf
	_, err = resolveFrom(t, tree, root, "outer::hidden::trapped")
	if !errors.As(err, &priv) {
		t.Fatalf("expected *PrivacyError, got %v", err)
	}
	if priv.Name != "hidden" {
		t.Errorf("expected the intermediate module to block, got %q", priv.Name)
	}

	// not-found is a different error than privacy
	_, err = resolveFrom(t, tree, root, "outer::inner::nonexistent")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
}

func TestResolve_PrivateVisibleInsideSubtree(t *testing.T) {
	t.Parallel()
	tree := buildTree(t, platform.Host(), map[string]string{
		"src/main.lum": `
mod a;
fn top_secret() {}
`,
		"src/a.lum": "pub fn f() {}",
	})
	a := tree.Root.Child("a")

	// a descendant reaches the root's private item through crate::
	sym, err := resolveFrom(t, tree, a, "crate::top_secret")
	if err != nil {
		t.Fatalf("descendant should see ancestor privates: %v", err)
	}
	if sym.Kind != KindFn || sym.Module != tree.Root {
		t.Errorf("unexpected symbol: %#v", sym)
	}

	// and through super::
	if _, err := resolveFrom(t, tree, a, "super::top_secret"); err != nil {
		t.Errorf("super:: should reach the parent's privates: %v", err)
	}

	// but relative paths do not silently walk up: the item must be a
	// member of the current module
	if _, err := resolveFrom(t, tree, a, "top_secret"); err == nil {
		t.Error("relative path should not resolve in ancestor scopes")
	}
}

func TestResolve_SuperEscapesRoot(t *testing.T) {
	t.Parallel()
	tree := buildTree(t, platform.Host(), map[string]string{
		"src/main.lum": "fn f() {}",
	})
	_, err := resolveFrom(t, tree, tree.Root, "super::f")
	if err == nil || !strings.Contains(err.Error(), "escapes the crate root") {
		t.Errorf("expected escape error, got %v", err)
	}
}

func TestResolve_Reexports(t *testing.T) {
	t.Parallel()
	tree := buildTree(t, platform.Host(), map[string]string{
		"src/main.lum": `
mod exports;
mod impl_;
fn main() {}
`,
		"src/exports.lum": `
pub use crate::impl_::greet;
use crate::impl_::helper as private_alias;
`,
		"src/impl_.lum": "pub fn greet() {}\npub fn helper() {}",
	})
	root := tree.Root

	sym, err := resolveFrom(t, tree, root, "exports::greet")
	if err != nil {
		t.Fatalf("re-export should resolve: %v", err)
	}
	if sym.Kind != KindFn || sym.Module.Path() != "crate::impl_" {
		t.Errorf("re-export should land on the defining module, got %#v", sym)
	}

	// a plain use is a private binding: visible inside the importing
	// module, not to its consumers
	exports := root.Child("exports")
	if _, err := resolveFrom(t, tree, exports, "private_alias"); err != nil {
		t.Errorf("binding should resolve inside its own module: %v", err)
	}
	_, err = resolveFrom(t, tree, root, "exports::private_alias")
	var priv *PrivacyError
	if !errors.As(err, &priv) {
		t.Errorf("expected *PrivacyError for non-pub use, got %v", err)
	}
}

func TestResolve_ReexportCycle(t *testing.T) {
	t.Parallel()
	tree := buildTree(t, platform.Host(), map[string]string{
		"src/main.lum": `
mod a;
mod b;
fn main() {}
`,
		"src/a.lum": "pub use crate::b::thing;",
		"src/b.lum": "pub use crate::a::thing;",
	})
	_, err := resolveFrom(t, tree, tree.Root, "a::thing")
	var cyc *ReexportCycleError
	if !errors.As(err, &cyc) {
		t.Fatalf("expected *ReexportCycleError, got %v", err)
	}
	if len(cyc.Cycle) < 3 || cyc.Cycle[0] != cyc.Cycle[len(cyc.Cycle)-1] {
		t.Errorf("cycle path should close on itself: %v", cyc.Cycle)
	}
}

func TestResolve_GlobImports(t *testing.T) {
	t.Parallel()
	tree := buildTree(t, platform.Host(), map[string]string{
		"src/main.lum": `
mod prelude;
mod user;
fn main() {}
`,
		"src/prelude.lum": "pub fn ready() {}\nfn not_exported() {}",
		"src/user.lum": `
use crate::prelude::*;
fn go() { ready(); }
`,
	})
	user := tree.Root.Child("user")

	sym, err := resolveFrom(t, tree, user, "ready")
	if err != nil {
		t.Fatalf("glob import should bind exported names: %v", err)
	}
	if sym.Module.Path() != "crate::prelude" {
		t.Errorf("glob-resolved symbol has wrong home: %s", sym.Module.Path())
	}

	// unexported names never travel through a glob
	if _, err := resolveFrom(t, tree, user, "not_exported"); err == nil {
		t.Error("glob import must not leak private items")
	}
}

func TestResolve_GlobAmbiguity(t *testing.T) {
	t.Parallel()
	tree := buildTree(t, platform.Host(), map[string]string{
		"src/main.lum": `
mod a;
mod b;
mod user;
fn main() {}
`,
		"src/a.lum": "pub fn thing() {}",
		"src/b.lum": "pub fn thing() {}",
		"src/user.lum": `
use crate::a::*;
use crate::b::*;
`,
	})
	_, err := resolveFrom(t, tree, tree.Root.Child("user"), "thing")
	var amb *AmbiguousImportError
	if !errors.As(err, &amb) {
		t.Fatalf("expected *AmbiguousImportError, got %v", err)
	}
	if amb.Name != "thing" {
		t.Errorf("wrong ambiguous name: %q", amb.Name)
	}
}

func TestResolve_ExplicitBeatsGlob(t *testing.T) {
	t.Parallel()
	tree := buildTree(t, platform.Host(), map[string]string{
		"src/main.lum": `
mod a;
mod user;
fn main() {}
`,
		"src/a.lum": "pub fn thing() {}",
		"src/user.lum": `
use crate::a::*;
fn thing() {}
`,
	})
	sym, err := resolveFrom(t, tree, tree.Root.Child("user"), "thing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sym.Module.Path() != "crate::user" {
		t.Errorf("own declaration should shadow the glob, got %s", sym.Module.Path())
	}
}

func TestCheck_CollectsAllDiagnostics(t *testing.T) {
	t.Parallel()
	tree := buildTree(t, platform.Host(), map[string]string{
		"src/main.lum": `
mod a;
use crate::a::missing;
fn main() {
    a::also_missing();
    nonexistent();
}
`,
		"src/a.lum": "pub fn present() {}",
	})
	errs := tree.Check()
	if len(errs) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d: %v", len(errs), errs)
	}
}

func TestCheck_CleanTreeHasNoDiagnostics(t *testing.T) {
	t.Parallel()
	tree := buildTree(t, platform.Host(), map[string]string{
		"src/main.lum": `
mod a;
fn main() { a::greet(); }
`,
		"src/a.lum": `pub fn greet() { println("hi"); }`,
	})
	if errs := tree.Check(); len(errs) != 0 {
		t.Errorf("expected no diagnostics, got %v", errs)
	}
}

func TestExplain_NarratesPrivacy(t *testing.T) {
	t.Parallel()
	tree := buildTree(t, platform.Host(), map[string]string{
		"src/main.lum": `
mod a;
fn main() {}
`,
		"src/a.lum": "fn secret() {}",
	})
	f, _ := lumfile.ParseBytes([]byte("fn p() { a::secret(); }"), "probe.lum")
	path := f.Items[0].(*lumfile.FnDecl).Body[0].(*lumfile.CallStmt).Target

	steps, sym, err := tree.Explain(tree.Root, path)
	if sym != nil {
		t.Error("expected no symbol for a blocked path")
	}
	var priv *PrivacyError
	if !errors.As(err, &priv) {
		t.Fatalf("expected *PrivacyError, got %v", err)
	}
	joined := strings.Join(steps, "\n")
	if !strings.Contains(joined, "access denied") {
		t.Errorf("steps should explain the denial:\n%s", joined)
	}
}

func TestExportedNames(t *testing.T) {
	t.Parallel()
	tree := buildTree(t, platform.Host(), map[string]string{
		"src/main.lum": `
mod a;
fn main() {}
`,
		"src/a.lum": `
pub fn one() {}
fn two() {}
pub const THREE = "3";
pub use crate::a::one as re_one;
`,
	})
	got := tree.ExportedNames(tree.Root.Child("a"))
	want := []string{"one", "THREE", "re_one"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("exported[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
