// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/lumenlang/lumen/internal/config"
	"github.com/lumenlang/lumen/internal/discovery"
	"github.com/lumenlang/lumen/internal/interp"
	"github.com/lumenlang/lumen/internal/issue"
	"github.com/lumenlang/lumen/pkg/lumfile"
	"github.com/lumenlang/lumen/pkg/manifest"
	"github.com/lumenlang/lumen/pkg/modtree"
)

// issueFor maps a command failure to its catalog entry, or nil when the
// catalog has nothing to add. Wrapped errors are matched through their
// chain, so an ExitError around a resolution failure still finds its page.
func issueFor(err error) *issue.Issue {
	var (
		missing  *discovery.MissingModuleError
		ambig    *discovery.AmbiguousModuleError
		parse    *lumfile.ParseError
		privacy  *modtree.PrivacyError
		reexport *modtree.ReexportCycleError
		include  *modtree.IncludeCycleError
		noMain   *interp.NoMainError
	)
	switch {
	case errors.Is(err, manifest.ErrNotFound):
		return issue.Get(issue.ManifestNotFoundId)
	case errors.As(err, &missing):
		return issue.Get(issue.ModuleFileMissingId)
	case errors.As(err, &ambig):
		return issue.Get(issue.ModuleFileAmbiguousId)
	case errors.As(err, &parse):
		return issue.Get(issue.ParseErrorId)
	case errors.As(err, &privacy):
		return issue.Get(issue.PrivateSymbolId)
	case errors.As(err, &reexport):
		return issue.Get(issue.ReexportCycleId)
	case errors.As(err, &include):
		return issue.Get(issue.IncludeCycleId)
	case errors.As(err, &noMain):
		return issue.Get(issue.MainMissingId)
	case errors.Is(err, fs.ErrNotExist):
		// Manifest lookup failures matched above; a plain missing file at
		// this point is the entry (or a bare .lum argument).
		return issue.Get(issue.EntryNotFoundId)
	}
	return nil
}

// printIssue renders the catalog page matching err to stderr, below the
// terse error line the command already printed. No match, no output.
func printIssue(err error) {
	is := issueFor(err)
	if is == nil {
		return
	}
	out, renderErr := is.Render(glamourStyle())
	if renderErr != nil {
		return
	}
	fmt.Fprint(os.Stderr, out)
}

// glamourStyle picks the markdown style from the configured color scheme.
func glamourStyle() string {
	if cfg != nil && cfg.UI.ColorScheme != config.ColorSchemeAuto {
		return string(cfg.UI.ColorScheme)
	}
	return "auto"
}
