// SPDX-License-Identifier: MPL-2.0

// Package interp executes a resolved Lumen program. The language has no
// data flow, so "executing" means walking function bodies: println
// statements write to the configured output and path calls run the
// function the resolver finds. Everything interesting happened earlier,
// at resolution time; the interpreter exists to prove the resolved tree
// actually hangs together.
package interp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lumenlang/lumen/pkg/lumfile"
	"github.com/lumenlang/lumen/pkg/modtree"
)

// DefaultMaxDepth bounds the call stack. Lumen programs are module
// tours; anything deeper than this is runaway recursion.
const DefaultMaxDepth = 64

type (
	// Options configures an Interp.
	Options struct {
		// Out receives program output. Defaults to os.Stdout.
		Out io.Writer
		// MaxDepth overrides DefaultMaxDepth when positive.
		MaxDepth int
		// Logger receives debug traces of every call and lookup.
		// Defaults to a discarding logger.
		Logger *log.Logger
	}

	// Interp runs programs against one resolved tree.
	Interp struct {
		tree     *modtree.Tree
		out      io.Writer
		maxDepth int
		logger   *log.Logger
	}

	// NoMainError is returned when the root module has no main function.
	NoMainError struct {
		Root *modtree.Module
	}

	// DepthError is returned when the call stack exceeds the bound.
	DepthError struct {
		Limit int
		Fn    string
		Pos   lumfile.Pos
	}
)

func (e *NoMainError) Error() string {
	return fmt.Sprintf("no `main` function in the root module (%s)", e.Root.File)
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("%s: call depth exceeded %d while calling `%s`", e.Pos, e.Limit, e.Fn)
}

// New creates an interpreter for a resolved tree.
func New(tree *modtree.Tree, opts Options) *Interp {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Interp{
		tree:     tree,
		out:      opts.Out,
		maxDepth: opts.MaxDepth,
		logger:   opts.Logger,
	}
}

// Run resolves main in the root module and executes it. A successful
// run returns nil and leaves the process exit code at zero.
func (i *Interp) Run() error {
	root := i.tree.Root
	mainPath := lumfile.Path{Segments: []string{"main"}}
	sym, err := i.tree.Resolve(root, mainPath)
	if err != nil {
		// Only a plain miss means "no main": a main supplied through a
		// broken re-export chain keeps its real privacy or cycle error.
		var notFound *modtree.NotFoundError
		if errors.As(err, &notFound) {
			return &NoMainError{Root: root}
		}
		return err
	}
	if sym.Kind != modtree.KindFn {
		return fmt.Errorf("`main` in the root module is a %s, not a function", sym.Kind)
	}
	i.logger.Debug("running program", "entry", root.File, "target", i.tree.Target)
	return i.call(sym, 0)
}

func (i *Interp) call(sym *modtree.Symbol, depth int) error {
	if depth >= i.maxDepth {
		return &DepthError{Limit: i.maxDepth, Fn: sym.Name, Pos: sym.Fn.Pos}
	}
	i.logger.Debug("call", "fn", sym.Module.Path()+"::"+sym.Name, "depth", depth)

	// paths inside a body resolve from the defining module, never from
	// the caller's scope
	scope := sym.Module
	for _, stmt := range sym.Fn.Body {
		switch s := stmt.(type) {
		case *lumfile.PrintlnStmt:
			line, err := i.interpolate(scope, s)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(i.out, line); err != nil {
				return fmt.Errorf("failed to write program output: %w", err)
			}
		case *lumfile.CallStmt:
			target, err := i.tree.Resolve(scope, s.Target)
			if err != nil {
				return err
			}
			if target.Kind != modtree.KindFn {
				return fmt.Errorf("%s: cannot call %s `%s`", s.Pos, target.Kind, s.Target)
			}
			if err := i.call(target, depth+1); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%s: unsupported statement %T", stmt.Position(), stmt)
		}
	}
	return nil
}

// interpolate substitutes each {} placeholder with the value of the
// matching constant argument. The parser already guarantees the counts
// line up.
func (i *Interp) interpolate(scope *modtree.Module, s *lumfile.PrintlnStmt) (string, error) {
	parts := strings.Split(s.Format, "{}")
	var b strings.Builder
	b.WriteString(parts[0])
	for n, arg := range s.Args {
		sym, err := i.tree.Resolve(scope, arg)
		if err != nil {
			return "", err
		}
		if sym.Kind != modtree.KindConst {
			return "", fmt.Errorf("%s: println argument `%s` is a %s, not a constant", s.Pos, arg, sym.Kind)
		}
		i.logger.Debug("interpolate", "const", arg.String(), "value", sym.Const.Value)
		b.WriteString(sym.Const.Value)
		b.WriteString(parts[n+1])
	}
	return b.String(), nil
}
