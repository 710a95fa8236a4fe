// SPDX-License-Identifier: MPL-2.0

// Package discovery maps module declarations to files on disk.
//
// It owns the filesystem side of tree loading: probing the two mapping
// styles (foo.lum vs foo/mod.lum), honoring #[path] overrides, and
// turning probe failures into errors that name every candidate path. The
// semantic side (tree shape, visibility, resolution) lives in
// pkg/modtree; discovery plugs into it as the FileLoader.
package discovery
