// SPDX-License-Identifier: MPL-2.0

package modtree

import (
	"fmt"

	"github.com/lumenlang/lumen/pkg/lumfile"
)

// Explain resolves a path the same way Resolve does while narrating each
// step. The steps are returned even when resolution fails, with the
// failing step last; err then carries the structured error.
func (t *Tree) Explain(from *Module, p lumfile.Path) (steps []string, sym *Symbol, err error) {
	cur, err := t.startModule(from, p)
	if err != nil {
		return []string{err.Error()}, nil, err
	}
	switch p.Root {
	case lumfile.RootCrate:
		steps = append(steps, fmt.Sprintf("start at the crate root `%s`", cur.Path()))
	case lumfile.RootSuper:
		steps = append(steps, fmt.Sprintf("start %d level(s) above `%s`, at `%s`", p.Supers, from.Path(), cur.Path()))
	case lumfile.RootSelf:
		steps = append(steps, fmt.Sprintf("start at the current module `%s`", cur.Path()))
	default:
		steps = append(steps, fmt.Sprintf("resolve relative to the current module `%s`", cur.Path()))
	}

	for i, seg := range p.Segments {
		member, public, lookupErr := t.lookupMember(cur, seg, p.Pos)
		if lookupErr != nil {
			steps = append(steps, fmt.Sprintf("`%s` has no member named `%s`", cur.Path(), seg))
			return steps, nil, lookupErr
		}

		vis := "private"
		if public {
			vis = "exported"
		}
		via := ""
		if _, own := cur.declPos[seg]; own {
			if _, isUse := cur.useByName[seg]; isUse {
				via = " (via a use declaration)"
			}
		} else {
			via = " (via a glob import)"
		}
		steps = append(steps, fmt.Sprintf("found %s `%s` in `%s`, %s%s", member.Kind, seg, cur.Path(), vis, via))

		if !public && !isAncestorOrSelf(cur, from) {
			steps = append(steps, fmt.Sprintf(
				"access denied: `%s` is private to `%s`, and `%s` is outside that module's subtree",
				seg, cur.Path(), from.Path()))
			return steps, nil, &PrivacyError{Module: cur, Name: seg, Kind: member.Kind, From: from, Pos: p.Pos}
		}
		if !public {
			steps = append(steps, fmt.Sprintf(
				"access allowed despite privacy: `%s` is inside the subtree of `%s`",
				from.Path(), cur.Path()))
		}

		if i == len(p.Segments)-1 {
			target := member.Module
			if member.Kind == KindModule {
				target = member.Mod
			}
			steps = append(steps, fmt.Sprintf("resolved to %s `%s` defined in `%s`",
				member.Kind, member.Name, target.Path()))
			return steps, member, nil
		}
		if member.Kind != KindModule {
			steps = append(steps, fmt.Sprintf("cannot descend into `%s`: it is a %s, not a module", seg, member.Kind))
			return steps, nil, &NotAModuleError{Name: seg, Kind: member.Kind, Pos: p.Pos}
		}
		cur = member.Mod
	}

	steps = append(steps, fmt.Sprintf("resolved to module `%s`", cur.Path()))
	return steps, moduleSymbol(cur), nil
}
