// SPDX-License-Identifier: MPL-2.0

package modtree

import (
	"fmt"

	"github.com/lumenlang/lumen/pkg/lumfile"
)

// Check resolves every use declaration and every path in every function
// body, collecting diagnostics instead of stopping at the first. The
// returned slice is in tree walk order and free of duplicates (a broken
// binding referenced from several places reports once).
func (t *Tree) Check() []error {
	var errs []error
	seen := make(map[string]bool)
	add := func(err error) {
		if err == nil || seen[err.Error()] {
			return
		}
		seen[err.Error()] = true
		errs = append(errs, err)
	}

	t.Root.Walk(func(m *Module) {
		for _, u := range m.uses {
			if u.Glob {
				sym, err := t.Resolve(m, u.Path)
				if err != nil {
					add(err)
					continue
				}
				if sym.Kind != KindModule {
					add(&NotAModuleError{Name: u.Path.String(), Kind: sym.Kind, Pos: u.Pos})
				}
				continue
			}
			if _, err := t.binds.resolve(m, u); err != nil {
				add(err)
			}
		}

		for _, f := range m.Functions() {
			for _, stmt := range f.Body {
				switch s := stmt.(type) {
				case *lumfile.CallStmt:
					sym, err := t.Resolve(m, s.Target)
					if err != nil {
						add(err)
						continue
					}
					if sym.Kind != KindFn {
						add(fmt.Errorf("%s: cannot call %s `%s`", s.Pos, sym.Kind, s.Target))
					}
				case *lumfile.PrintlnStmt:
					for _, arg := range s.Args {
						sym, err := t.Resolve(m, arg)
						if err != nil {
							add(err)
							continue
						}
						if sym.Kind != KindConst {
							add(fmt.Errorf("%s: println argument `%s` is a %s, not a constant",
								s.Pos, arg, sym.Kind))
						}
					}
				}
			}
		}
	})
	return errs
}
