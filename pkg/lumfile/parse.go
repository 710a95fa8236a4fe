// SPDX-License-Identifier: MPL-2.0

package lumfile

import (
	"fmt"
	"os"
)

// Ext is the file extension for Lumen source files.
const Ext = ".lum"

// Parse reads and parses a Lumen source file from the given path.
func Parse(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file at %s: %w", path, err)
	}
	return ParseBytes(data, path)
}

// ParseBytes parses source content from bytes. The path is used only for
// positions in error messages.
func ParseBytes(data []byte, path string) (*File, error) {
	src := newSource(path, data)
	items, err := src.parseItems(false)
	if err != nil {
		return nil, err
	}
	return &File{Path: path, Items: items}, nil
}

// ParsePath parses a standalone path expression like "crate::a::b" or
// "super::helper", as accepted on the command line.
func ParsePath(text string) (Path, error) {
	src := newSource("<arg>", []byte(text))
	p, err := src.parsePath()
	if err != nil {
		return Path{}, err
	}
	src.skipGap()
	if src.err != nil {
		return Path{}, src.err
	}
	if src.more() {
		return Path{}, &ParseError{Pos: src.pos(), Msg: fmt.Sprintf("unexpected %q after path", string(src.peek()))}
	}
	return p, nil
}
