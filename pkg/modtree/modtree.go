// SPDX-License-Identifier: MPL-2.0

package modtree

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lumenlang/lumen/pkg/lumfile"
	"github.com/lumenlang/lumen/pkg/platform"
)

// RootName is the name of the root module in rendered paths.
const RootName = "crate"

type (
	// Module is one node of the module tree.
	Module struct {
		// Name is the declared module name; the root uses RootName.
		Name string
		// Parent is nil for the root.
		Parent *Module
		// Public reports whether the declaration carried pub. The root is
		// trivially public.
		Public bool
		Doc    string
		// File is the source file the module's items come from. Inline
		// modules share their declaring file.
		File string
		// ChildDir is the directory file-backed children resolve under.
		ChildDir string
		// Pos is the declaration site ("" file, zero pos for the root).
		Pos lumfile.Pos

		children map[string]*Module
		fns      map[string]*lumfile.FnDecl
		consts   map[string]*lumfile.ConstDecl
		// uses holds every use declaration in order; named bindings are
		// additionally indexed by bound name.
		uses      []*lumfile.UseDecl
		useByName map[string]*lumfile.UseDecl

		// order lists declared member names (modules, fns, consts, named
		// uses) in declaration order for deterministic iteration.
		order   []string
		declPos map[string]lumfile.Pos
	}

	// Tree is a built module tree plus resolution state.
	Tree struct {
		Root   *Module
		Target platform.Target

		binds *binder
	}

	// FileLoader supplies parsed files for file-backed module
	// declarations. fileDir is the directory of the declaring file
	// (#[path] overrides resolve against it); childDir is the declaring
	// module's child directory that the usual mapping probes. The
	// returned childDir is where the new module's own children resolve.
	FileLoader interface {
		Load(fileDir, childDir string, decl *lumfile.ModDecl) (file *lumfile.File, newChildDir string, err error)
	}
)

func newModule(name string, parent *Module, public bool) *Module {
	return &Module{
		Name:      name,
		Parent:    parent,
		Public:    public,
		children:  make(map[string]*Module),
		fns:       make(map[string]*lumfile.FnDecl),
		consts:    make(map[string]*lumfile.ConstDecl),
		useByName: make(map[string]*lumfile.UseDecl),
		declPos:   make(map[string]lumfile.Pos),
	}
}

// Build assembles the tree for an entry file. Declarations whose cfg
// evaluates false against the target are dropped before any filesystem
// probing, which is what lets the unix/windows module pair coexist.
func Build(entry *lumfile.File, target platform.Target, loader FileLoader) (*Tree, error) {
	root := newModule(RootName, nil, true)
	root.File = entry.Path
	root.ChildDir = filepath.Dir(entry.Path)

	t := &Tree{Root: root, Target: target}
	if err := t.populate(root, entry.Items, loader); err != nil {
		return nil, err
	}
	t.binds = newBinder(t)
	return t, nil
}

func (t *Tree) populate(m *Module, items []lumfile.Item, loader FileLoader) error {
	for _, item := range items {
		switch d := item.(type) {
		case *lumfile.ModDecl:
			if !t.Target.Eval(d.Cfg) {
				continue
			}
			if err := m.declare(d.Name, d.Pos); err != nil {
				return err
			}
			child := newModule(d.Name, m, d.Public)
			child.Doc = d.Doc
			child.Pos = d.Pos
			if d.Inline != nil {
				child.File = m.File
				child.ChildDir = filepath.Join(m.ChildDir, d.Name)
				m.children[d.Name] = child
				if err := t.populate(child, d.Inline, loader); err != nil {
					return err
				}
				continue
			}
			file, childDir, err := loader.Load(filepath.Dir(m.File), m.ChildDir, d)
			if err != nil {
				return err
			}
			for anc := m; anc != nil; anc = anc.Parent {
				if anc.File == file.Path {
					return &IncludeCycleError{File: file.Path, Module: m, Pos: d.Pos}
				}
			}
			child.File = file.Path
			child.ChildDir = childDir
			m.children[d.Name] = child
			if err := t.populate(child, file.Items, loader); err != nil {
				return err
			}

		case *lumfile.FnDecl:
			if err := m.declare(d.Name, d.Pos); err != nil {
				return err
			}
			m.fns[d.Name] = d

		case *lumfile.ConstDecl:
			if err := m.declare(d.Name, d.Pos); err != nil {
				return err
			}
			m.consts[d.Name] = d

		case *lumfile.UseDecl:
			if d.Glob {
				m.uses = append(m.uses, d)
				continue
			}
			name := d.BoundName()
			if err := m.declare(name, d.Pos); err != nil {
				return err
			}
			m.uses = append(m.uses, d)
			m.useByName[name] = d

		default:
			return fmt.Errorf("%s: unsupported item %T", item.Position(), item)
		}
	}
	return nil
}

// declare claims a member name, rejecting post-cfg duplicates.
func (m *Module) declare(name string, pos lumfile.Pos) error {
	if first, taken := m.declPos[name]; taken {
		return &DuplicateError{Module: m, Name: name, First: first, Second: pos}
	}
	m.declPos[name] = pos
	m.order = append(m.order, name)
	return nil
}

// Path renders the module's qualified path, e.g. crate::inline.
func (m *Module) Path() string {
	if m.Parent == nil {
		return RootName
	}
	return m.Parent.Path() + "::" + m.Name
}

// Root walks up to the tree root.
func (m *Module) Root() *Module {
	for m.Parent != nil {
		m = m.Parent
	}
	return m
}

// Children returns child modules in declaration order.
func (m *Module) Children() []*Module {
	var out []*Module
	for _, name := range m.order {
		if c, ok := m.children[name]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Child returns the named child module, or nil.
func (m *Module) Child(name string) *Module { return m.children[name] }

// Functions returns the module's functions in declaration order.
func (m *Module) Functions() []*lumfile.FnDecl {
	var out []*lumfile.FnDecl
	for _, name := range m.order {
		if f, ok := m.fns[name]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Constants returns the module's constants in declaration order.
func (m *Module) Constants() []*lumfile.ConstDecl {
	var out []*lumfile.ConstDecl
	for _, name := range m.order {
		if c, ok := m.consts[name]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Uses returns every use declaration, globs included, in order.
func (m *Module) Uses() []*lumfile.UseDecl { return m.uses }

// isAncestorOrSelf reports whether anc is m or an ancestor of m. Privacy
// hangs off this: a private member of module D is visible exactly from D
// and D's descendants.
func isAncestorOrSelf(anc, m *Module) bool {
	for ; m != nil; m = m.Parent {
		if m == anc {
			return true
		}
	}
	return false
}

// Walk visits the module and its descendants depth-first in declaration
// order.
func (m *Module) Walk(visit func(*Module)) {
	visit(m)
	for _, c := range m.Children() {
		c.Walk(visit)
	}
}

// String implements fmt.Stringer for diagnostics.
func (m *Module) String() string { return m.Path() }

// modulePathString is a helper for binder keys and cycle reports.
func bindingKey(m *Module, name string) string {
	var b strings.Builder
	b.WriteString(m.Path())
	b.WriteString("::")
	b.WriteString(name)
	return b.String()
}
