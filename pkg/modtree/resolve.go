// SPDX-License-Identifier: MPL-2.0

package modtree

import (
	"errors"
	"fmt"

	"github.com/lumenlang/lumen/internal/dag"
	"github.com/lumenlang/lumen/pkg/lumfile"
)

// SymbolKind discriminates what a resolved path refers to.
type SymbolKind int

const (
	// KindModule is a module.
	KindModule SymbolKind = iota
	// KindFn is a function.
	KindFn
	// KindConst is a string constant.
	KindConst
)

func (k SymbolKind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindFn:
		return "function"
	case KindConst:
		return "constant"
	default:
		return "item"
	}
}

// Symbol is a resolved item: the definition plus where it lives.
type Symbol struct {
	Kind SymbolKind
	Name string
	// Module is the defining module (the parent module for KindModule).
	Module *Module
	// Public is the visibility at the definition site.
	Public bool

	Mod   *Module
	Fn    *lumfile.FnDecl
	Const *lumfile.ConstDecl
}

// binder resolves use declarations with memoization, tracking in-flight
// bindings so re-export cycles surface as errors instead of recursion.
type binder struct {
	tree  *Tree
	state map[*lumfile.UseDecl]bindState
	cache map[*lumfile.UseDecl]*Symbol
	// graph mirrors the "resolves through" edges seen so far; on a cycle
	// it yields the concrete path for the error message.
	graph *dag.Graph
	stack []string
	// globBusy guards lazy glob expansion against mutual recursion.
	globBusy map[string]bool
}

type bindState int

const (
	bindUnresolved bindState = iota
	bindInProgress
	bindDone
)

func newBinder(t *Tree) *binder {
	return &binder{
		tree:     t,
		state:    make(map[*lumfile.UseDecl]bindState),
		cache:    make(map[*lumfile.UseDecl]*Symbol),
		graph:    dag.New(),
		globBusy: make(map[string]bool),
	}
}

// Resolve resolves a path as written in module `from`. The returned
// Symbol is the final target after following any re-export chain.
func (t *Tree) Resolve(from *Module, p lumfile.Path) (*Symbol, error) {
	cur, err := t.startModule(from, p)
	if err != nil {
		return nil, err
	}
	if len(p.Segments) == 0 {
		return moduleSymbol(cur), nil
	}

	for i, seg := range p.Segments {
		sym, public, err := t.lookupMember(cur, seg, p.Pos)
		if err != nil {
			return nil, err
		}
		// The chain-export rule: every step must either be exported or be
		// happening inside the defining module's own subtree.
		if !public && !isAncestorOrSelf(cur, from) {
			return nil, &PrivacyError{Module: cur, Name: seg, Kind: sym.Kind, From: from, Pos: p.Pos}
		}
		if i == len(p.Segments)-1 {
			return sym, nil
		}
		if sym.Kind != KindModule {
			return nil, &NotAModuleError{Name: seg, Kind: sym.Kind, Pos: p.Pos}
		}
		cur = sym.Mod
	}
	// unreachable: the loop returns on the last segment
	return nil, fmt.Errorf("%s: empty path", p.Pos)
}

// startModule picks the module the first segment resolves in.
func (t *Tree) startModule(from *Module, p lumfile.Path) (*Module, error) {
	switch p.Root {
	case lumfile.RootCrate:
		return t.Root, nil
	case lumfile.RootSuper:
		cur := from
		for i := 0; i < p.Supers; i++ {
			if cur.Parent == nil {
				return nil, fmt.Errorf("%s: path escapes the crate root (%d levels of super from %s)",
					p.Pos, p.Supers, from.Path())
			}
			cur = cur.Parent
		}
		return cur, nil
	default: // RootSelf and plain relative paths both start here
		return from, nil
	}
}

func moduleSymbol(m *Module) *Symbol {
	return &Symbol{Kind: KindModule, Name: m.Name, Module: m.Parent, Public: m.Public, Mod: m}
}

// lookupMember finds name among m's members: own declarations first, then
// explicit use bindings, then glob imports. The bool is the member's
// visibility as seen on m (for bindings, the visibility of the use).
func (t *Tree) lookupMember(m *Module, name string, pos lumfile.Pos) (*Symbol, bool, error) {
	if c, ok := m.children[name]; ok {
		return moduleSymbol(c), c.Public, nil
	}
	if f, ok := m.fns[name]; ok {
		return &Symbol{Kind: KindFn, Name: name, Module: m, Public: f.Public, Fn: f}, f.Public, nil
	}
	if c, ok := m.consts[name]; ok {
		return &Symbol{Kind: KindConst, Name: name, Module: m, Public: c.Public, Const: c}, c.Public, nil
	}
	if u, ok := m.useByName[name]; ok {
		sym, err := t.binds.resolve(m, u)
		if err != nil {
			return nil, false, err
		}
		return sym, u.Public, nil
	}
	return t.lookupGlob(m, name, pos)
}

// lookupGlob searches m's glob imports for an exported member called
// name. Two globs supplying distinct items under one name is ambiguous.
func (t *Tree) lookupGlob(m *Module, name string, pos lumfile.Pos) (*Symbol, bool, error) {
	key := bindingKey(m, name)
	if t.binds.globBusy[key] {
		return nil, false, &NotFoundError{Module: m, Name: name, Pos: pos}
	}
	t.binds.globBusy[key] = true
	defer delete(t.binds.globBusy, key)

	var (
		found     *Symbol
		foundPub  bool
		foundFrom lumfile.Path
	)
	for _, u := range m.uses {
		if !u.Glob {
			continue
		}
		target, err := t.Resolve(m, u.Path)
		if err != nil {
			return nil, false, err
		}
		if target.Kind != KindModule {
			return nil, false, &NotAModuleError{Name: u.Path.String(), Kind: target.Kind, Pos: u.Pos}
		}
		sym, public, err := t.lookupMember(target.Mod, name, pos)
		if err != nil {
			var nf *NotFoundError
			if errors.As(err, &nf) {
				continue
			}
			return nil, false, err
		}
		if !public {
			// globs only carry a module's exported surface
			continue
		}
		if found != nil && !sameSymbol(found, sym) {
			return nil, false, &AmbiguousImportError{Module: m, Name: name, First: foundFrom, Second: u.Path}
		}
		found, foundPub, foundFrom = sym, u.Public, u.Path
	}
	if found == nil {
		return nil, false, &NotFoundError{Module: m, Name: name, Pos: pos}
	}
	return found, foundPub, nil
}

func sameSymbol(a, b *Symbol) bool {
	return a.Mod == b.Mod && a.Fn == b.Fn && a.Const == b.Const
}

// resolve resolves one use declaration from its declaring module.
func (b *binder) resolve(m *Module, u *lumfile.UseDecl) (*Symbol, error) {
	key := bindingKey(m, u.BoundName())
	if len(b.stack) > 0 {
		b.graph.AddEdge(b.stack[len(b.stack)-1], key)
	}
	switch b.state[u] {
	case bindDone:
		return b.cache[u], nil
	case bindInProgress:
		return nil, &ReexportCycleError{Cycle: b.graph.FindCycle()}
	}

	b.state[u] = bindInProgress
	b.stack = append(b.stack, key)
	sym, err := b.tree.Resolve(m, u.Path)
	b.stack = b.stack[:len(b.stack)-1]
	if err != nil {
		// leave unresolved so later lookups re-report the same error
		b.state[u] = bindUnresolved
		return nil, err
	}
	b.state[u] = bindDone
	b.cache[u] = sym
	return sym, nil
}

// ExportedNames lists the exported surface of a module in a stable
// order: own public declarations first, then public re-exports.
func (t *Tree) ExportedNames(m *Module) []string {
	var names []string
	for _, name := range m.order {
		if c, ok := m.children[name]; ok && c.Public {
			names = append(names, name)
			continue
		}
		if f, ok := m.fns[name]; ok && f.Public {
			names = append(names, name)
			continue
		}
		if c, ok := m.consts[name]; ok && c.Public {
			names = append(names, name)
			continue
		}
		if u, ok := m.useByName[name]; ok && u.Public {
			names = append(names, name)
		}
	}
	return names
}
