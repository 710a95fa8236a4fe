// SPDX-License-Identifier: MPL-2.0

package modtree

import (
	"fmt"
	"strings"

	"github.com/lumenlang/lumen/pkg/lumfile"
)

type (
	// NotFoundError reports a path segment with no matching item.
	NotFoundError struct {
		// Module is the module that was searched.
		Module *Module
		Name   string
		Pos    lumfile.Pos
	}

	// PrivacyError reports an item that exists but is not exported to the
	// requesting scope.
	PrivacyError struct {
		// Module is the module whose member blocked resolution.
		Module *Module
		Name   string
		Kind   SymbolKind
		// From is the scope the access was attempted from.
		From *Module
		Pos  lumfile.Pos
	}

	// NotAModuleError reports a path that traverses through a non-module
	// item.
	NotAModuleError struct {
		Name string
		Kind SymbolKind
		Pos  lumfile.Pos
	}

	// ReexportCycleError reports pub use chains that resolve through
	// themselves.
	ReexportCycleError struct {
		// Cycle lists the bindings forming the cycle, first repeated last.
		Cycle []string
	}

	// DuplicateError reports two surviving declarations of one name in a
	// single module. Declarations gated by mutually exclusive cfg
	// predicates never reach this error.
	DuplicateError struct {
		Module *Module
		Name   string
		First  lumfile.Pos
		Second lumfile.Pos
	}

	// AmbiguousImportError reports one name reached by two glob imports.
	AmbiguousImportError struct {
		Module *Module
		Name   string
		First  lumfile.Path
		Second lumfile.Path
	}

	// IncludeCycleError reports a #[path] override that mounts a file
	// already on the current ancestor chain.
	IncludeCycleError struct {
		File   string
		Module *Module
		Pos    lumfile.Pos
	}
)

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no item named `%s` in %s", e.Pos, e.Name, e.Module.Path())
}

func (e *PrivacyError) Error() string {
	return fmt.Sprintf("%s: %s `%s` in %s is private (not visible from %s)",
		e.Pos, e.Kind, e.Name, e.Module.Path(), e.From.Path())
}

func (e *NotAModuleError) Error() string {
	return fmt.Sprintf("%s: `%s` is a %s, not a module", e.Pos, e.Name, e.Kind)
}

func (e *ReexportCycleError) Error() string {
	return fmt.Sprintf("re-export cycle: %s", strings.Join(e.Cycle, " -> "))
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s: `%s` is declared twice in %s (first declaration at %s)",
		e.Second, e.Name, e.Module.Path(), e.First)
}

func (e *IncludeCycleError) Error() string {
	return fmt.Sprintf("%s: module file include cycle: %s is already loaded by an enclosing module of %s",
		e.Pos, e.File, e.Module.Path())
}

func (e *AmbiguousImportError) Error() string {
	return fmt.Sprintf("name `%s` in %s is ambiguous: imported by both `use %s::*` and `use %s::*`",
		e.Name, e.Module.Path(), e.First, e.Second)
}
