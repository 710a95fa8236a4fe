// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lumenlang/lumen/pkg/lumfile"
	"github.com/lumenlang/lumen/pkg/modtree"
	"github.com/lumenlang/lumen/pkg/platform"
)

type (
	// AmbiguousModuleError is returned when both mapping styles supply a
	// file for one module declaration.
	AmbiguousModuleError struct {
		Name     string
		FlatPath string
		DirPath  string
		Pos      lumfile.Pos
	}

	// MissingModuleError is returned when no candidate file exists for a
	// module declaration.
	MissingModuleError struct {
		Name   string
		Probed []string
		Pos    lumfile.Pos
	}

	// Loader implements modtree.FileLoader over the real filesystem.
	Loader struct{}
)

func (e *AmbiguousModuleError) Error() string {
	return fmt.Sprintf(
		"%s: module `%s` has two candidate files:\n"+
			"  - %s\n"+
			"  - %s\n\n"+
			"Keep one of the two mapping styles and delete the other file.",
		e.Pos, e.Name, e.FlatPath, e.DirPath)
}

func (e *MissingModuleError) Error() string {
	msg := fmt.Sprintf("%s: no file found for module `%s`; probed:", e.Pos, e.Name)
	for _, p := range e.Probed {
		msg += "\n  - " + p
	}
	return msg
}

// NewLoader creates a filesystem Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load resolves a file-backed module declaration to a parsed file plus
// the directory its own children resolve under. Every parse is fresh:
// the same file mounted twice via #[path] must yield distinct syntax
// trees, because resolution state hangs off declaration identity.
func (l *Loader) Load(fileDir, childDir string, decl *lumfile.ModDecl) (*lumfile.File, string, error) {
	if decl.PathOverride != "" {
		path := filepath.Join(fileDir, filepath.FromSlash(decl.PathOverride))
		if !fileExists(path) {
			return nil, "", &MissingModuleError{Name: decl.Name, Probed: []string{path}, Pos: decl.Pos}
		}
		file, err := lumfile.Parse(path)
		if err != nil {
			return nil, "", err
		}
		return file, filepath.Dir(path), nil
	}

	flat := filepath.Join(childDir, decl.Name+lumfile.Ext)
	dir := filepath.Join(childDir, decl.Name, "mod"+lumfile.Ext)

	flatExists := fileExists(flat)
	dirExists := fileExists(dir)
	switch {
	case flatExists && dirExists:
		return nil, "", &AmbiguousModuleError{Name: decl.Name, FlatPath: flat, DirPath: dir, Pos: decl.Pos}
	case !flatExists && !dirExists:
		return nil, "", &MissingModuleError{Name: decl.Name, Probed: []string{flat, dir}, Pos: decl.Pos}
	}

	path := flat
	if dirExists {
		path = dir
	}
	file, err := lumfile.Parse(path)
	if err != nil {
		return nil, "", err
	}
	return file, filepath.Join(childDir, decl.Name), nil
}

// Load parses the entry file and builds the full module tree for the
// target, walking declarations recursively through a filesystem Loader.
func Load(entryPath string, target platform.Target) (*modtree.Tree, error) {
	abs, err := filepath.Abs(entryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve entry path %s: %w", entryPath, err)
	}
	entry, err := lumfile.Parse(abs)
	if err != nil {
		return nil, err
	}
	return modtree.Build(entry, target, NewLoader())
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
