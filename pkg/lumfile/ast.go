// SPDX-License-Identifier: MPL-2.0

package lumfile

import (
	"fmt"
	"strings"
)

type (
	// Pos is a position inside a source file, 1-based.
	Pos struct {
		File string
		Line int
		Col  int
	}

	// File is a parsed Lumen source file. Its items belong to the module
	// the file was loaded for; the file itself does not know its module
	// path (the same file can be mounted anywhere via #[path]).
	File struct {
		Path  string
		Items []Item
	}

	// Item is a top-level or module-level declaration.
	Item interface {
		// ItemName is the declared name ("" for use declarations without
		// an alias; callers needing the bound name use UseDecl.BoundName).
		ItemName() string
		// Exported reports whether the item carries the pub modifier.
		Exported() bool
		// Position is where the declaration starts.
		Position() Pos

		item()
	}

	// ModDecl declares a child module, either loaded from a file
	// (Inline == nil) or defined in place (Inline != nil, possibly empty).
	ModDecl struct {
		Name   string
		Public bool
		Doc    string
		Pos    Pos

		// Cfg gates the declaration on the build target; nil means
		// unconditional.
		Cfg CfgExpr
		// PathOverride, when non-empty, names the file to load relative to
		// the declaring file's directory, bypassing the usual mapping.
		PathOverride string

		// Inline holds the body of an inline module declaration.
		Inline []Item
	}

	// FnDecl declares a function. Lumen functions take no parameters and
	// return nothing; their bodies are statement sequences.
	FnDecl struct {
		Name   string
		Public bool
		Doc    string
		Pos    Pos
		Body   []Stmt
	}

	// ConstDecl declares a string constant.
	ConstDecl struct {
		Name   string
		Public bool
		Doc    string
		Pos    Pos
		Value  string
	}

	// UseDecl imports a path into the declaring module's scope. With
	// Public set the binding is re-exported to the module's consumers.
	UseDecl struct {
		Path   Path
		Alias  string
		Glob   bool
		Public bool
		Pos    Pos
	}

	// PathRoot selects where path resolution starts.
	PathRoot int

	// Path is a possibly-qualified reference like crate::inline::f or
	// super::super::platform::FAMILY.
	Path struct {
		Root PathRoot
		// Supers counts leading super:: segments (Root == RootSuper).
		Supers   int
		Segments []string
		Pos      Pos
	}

	// Stmt is a statement in a function body.
	Stmt interface {
		Position() Pos
		stmt()
	}

	// PrintlnStmt writes one line to standard output. Each {} placeholder
	// in Format consumes one path argument, resolved to a constant.
	PrintlnStmt struct {
		Format string
		Args   []Path
		Pos    Pos
	}

	// CallStmt invokes the function the path resolves to.
	CallStmt struct {
		Target Path
		Pos    Pos
	}
)

const (
	// RootRelative resolves the first segment among the current module's
	// own members and imports; bare names never walk up to ancestors.
	RootRelative PathRoot = iota
	// RootCrate resolves from the root module of the tree.
	RootCrate
	// RootSelf resolves from the current module.
	RootSelf
	// RootSuper resolves from an ancestor, Supers levels up.
	RootSuper
)

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

func (d *ModDecl) ItemName() string { return d.Name }
func (d *ModDecl) Exported() bool   { return d.Public }
func (d *ModDecl) Position() Pos    { return d.Pos }
func (d *ModDecl) item()            {}

func (d *FnDecl) ItemName() string { return d.Name }
func (d *FnDecl) Exported() bool   { return d.Public }
func (d *FnDecl) Position() Pos    { return d.Pos }
func (d *FnDecl) item()            {}

func (d *ConstDecl) ItemName() string { return d.Name }
func (d *ConstDecl) Exported() bool   { return d.Public }
func (d *ConstDecl) Position() Pos    { return d.Pos }
func (d *ConstDecl) item()            {}

func (d *UseDecl) ItemName() string { return d.BoundName() }
func (d *UseDecl) Exported() bool   { return d.Public }
func (d *UseDecl) Position() Pos    { return d.Pos }
func (d *UseDecl) item()            {}

// BoundName is the name the import binds in the declaring module: the
// alias if present, otherwise the last path segment. Glob imports bind no
// single name and return "".
func (d *UseDecl) BoundName() string {
	if d.Glob {
		return ""
	}
	if d.Alias != "" {
		return d.Alias
	}
	if n := len(d.Path.Segments); n > 0 {
		return d.Path.Segments[n-1]
	}
	return ""
}

func (s *PrintlnStmt) Position() Pos { return s.Pos }
func (s *PrintlnStmt) stmt()         {}

func (s *CallStmt) Position() Pos { return s.Pos }
func (s *CallStmt) stmt()         {}

// String renders the path in source form.
func (p Path) String() string {
	var b strings.Builder
	switch p.Root {
	case RootCrate:
		b.WriteString("crate")
	case RootSelf:
		b.WriteString("self")
	case RootSuper:
		for i := 0; i < p.Supers; i++ {
			if i > 0 {
				b.WriteString("::")
			}
			b.WriteString("super")
		}
	}
	for i, seg := range p.Segments {
		if i > 0 || p.Root != RootRelative {
			b.WriteString("::")
		}
		b.WriteString(seg)
	}
	return b.String()
}
