// SPDX-License-Identifier: MPL-2.0

// Package modtree builds the module tree for a Lumen program and resolves
// paths through it.
//
// The tree roots at the entry file's module ("crate"). Building walks
// module declarations depth-first, asking a FileLoader for file-backed
// children, so the filesystem mapping policy (flat vs directory style,
// #[path] overrides, cfg gating) stays in the discovery package.
//
// Resolution implements the reachability rule the language is built
// around: a symbol is reachable from a scope if and only if every module
// on the path from that scope to the symbol's defining module exports the
// symbol and the intermediate modules — with the one relaxation that a
// module always sees the private items of itself and its ancestors.
// Re-exports (pub use) resolve transitively with cycle detection.
package modtree
