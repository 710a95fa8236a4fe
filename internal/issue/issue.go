// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ManifestNotFoundId Id = iota + 1
	EntryNotFoundId
	ModuleFileMissingId
	ModuleFileAmbiguousId
	ParseErrorId
	PrivateSymbolId
	ReexportCycleId
	IncludeCycleId
	ConfigLoadFailedId
	MainMissingId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No lumen.toml found!

We searched for a package manifest but couldn't find one.

## Search locations (in order of precedence):
1. The directory given on the command line
2. The current directory and its parents

## Things you can try:
- Create a package in the current directory:
~~~
$ lumen init
~~~

- Or run from inside an existing package:
~~~
$ cd /path/to/your/package
$ lumen run
~~~`,
	}

	entryNotFoundIssue = &Issue{
		id: EntryNotFoundId,
		mdMsg: `
# Entry file not found!

The manifest names an entry file that does not exist.

## Things you can try:
- Check the 'entry' field under [package] in lumen.toml
- The default entry is src/main.lum; create it if it is missing:
~~~
$ lumen init
~~~`,
	}

	moduleFileMissingIssue = &Issue{
		id: ModuleFileMissingId,
		mdMsg: `
# Module file missing!

A 'mod name;' declaration names a module, but no file backs it.

## Where we look:
For 'mod widget;' declared in a module whose children live in directory D:
1. D/widget.lum
2. D/widget/mod.lum

## Things you can try:
- Create one of the two candidate files
- If the file lives elsewhere, point the declaration at it:
~~~
#[path = "shims/widget.lum"]
mod widget;
~~~
- If the module is platform-specific, gate the declaration:
~~~
#[cfg(unix)]
mod widget;
~~~`,
	}

	moduleFileAmbiguousIssue = &Issue{
		id: ModuleFileAmbiguousId,
		mdMsg: `
# Ambiguous module mapping!

Both mapping styles supply a file for the same module, and there is no
rule to pick one.

## Example of the conflict:
~~~
src/widget.lum       <- style one
src/widget/mod.lum   <- style two
~~~

## Things you can try:
- Keep one of the two files and delete the other
- Prefer the directory style when the module has children of its own`,
	}

	parseErrorIssue = &Issue{
		id: ParseErrorId,
		mdMsg: `
# Syntax error!

A source file could not be parsed.

## Things you can try:
- Check the line and column in the error message
- Common causes: a missing ';' after a declaration, an unclosed '{',
  or an attribute without a declaration under it`,
	}

	privateSymbolIssue = &Issue{
		id: PrivateSymbolId,
		mdMsg: `
# Private symbol!

A path names a symbol that exists but is not visible from here.

## The rule:
A symbol is reachable when every step of its path is public, or when
the module that defines it is an ancestor of the module asking.

## Things you can try:
- Mark the symbol 'pub' where it is defined
- Mark intermediate modules 'pub' so the path can pass through them
- Re-export it from a visible module:
~~~
pub use crate::inner::helper;
~~~`,
	}

	reexportCycleIssue = &Issue{
		id: ReexportCycleId,
		mdMsg: `
# Re-export cycle detected!

A chain of 'pub use' declarations loops back on itself, so no
declaration can ever be reached.

## Example of a cycle:
~~~
// in module a
pub use crate::b::thing;

// in module b
pub use crate::a::thing;   // cycle: a -> b -> a
~~~

## Things you can try:
- Follow the chain printed in the error message
- Make one end of the chain a real declaration instead of a 'use'`,
	}

	includeCycleIssue = &Issue{
		id: IncludeCycleId,
		mdMsg: `
# Include cycle detected!

A file mounts itself, directly or through #[path] overrides.

## Things you can try:
- Check the #[path] attributes along the chain in the error message
- Mount the shared file once and reach it by path instead`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration error!

Your config file could not be loaded.

## Things you can try:
- Check that the file contains valid CUE syntax
- Verify values against the schema in the error message
- Remove the file to fall back to defaults`,
	}

	mainMissingIssue = &Issue{
		id: MainMissingId,
		mdMsg: `
# No main function!

The entry file has no 'fn main' to run.

## Things you can try:
- Define one in the entry file:
~~~
fn main() {
    println("Hello, world!");
}
~~~
- If main lives in a submodule, re-export it from the root:
~~~
pub use inner::main;
~~~`,
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():    manifestNotFoundIssue,
		entryNotFoundIssue.Id():       entryNotFoundIssue,
		moduleFileMissingIssue.Id():   moduleFileMissingIssue,
		moduleFileAmbiguousIssue.Id(): moduleFileAmbiguousIssue,
		parseErrorIssue.Id():          parseErrorIssue,
		privateSymbolIssue.Id():       privateSymbolIssue,
		reexportCycleIssue.Id():       reexportCycleIssue,
		includeCycleIssue.Id():        includeCycleIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		mainMissingIssue.Id():         mainMissingIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
