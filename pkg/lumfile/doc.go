// SPDX-License-Identifier: MPL-2.0

// Package lumfile defines the syntax tree for Lumen source files and a
// parser producing it.
//
// A .lum file is a flat sequence of items: module declarations (file-backed
// or inline), functions, string constants, and use declarations. Module
// declarations may carry attributes that gate them on a build target
// (#[cfg(...)]) or override the file they load (#[path = "..."]).
//
// The parser is a single-pass recursive descent over a rune cursor. It
// stops at the first syntax error and reports it with a position; semantic
// checks (duplicate modules, unresolved paths, privacy) belong to the
// discovery and modtree packages.
package lumfile
