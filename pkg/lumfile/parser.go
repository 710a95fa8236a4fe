// SPDX-License-Identifier: MPL-2.0

package lumfile

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// ParseError is a syntax error with its source position.
type ParseError struct {
	Pos Pos
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// source is the parser state: a rune cursor over one file plus the
// pending doc-comment buffer.
type source struct {
	path       string
	text       []rune
	cursor     int
	lineStarts []int
	doc        []string
	// err records a lexical failure found while skipping a gap, where
	// no caller is positioned to return it.
	err error
}

func newSource(path string, data []byte) *source {
	text := []rune(string(data))
	starts := []int{0}
	for i, r := range text {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &source{path: path, text: text, lineStarts: starts}
}

func (s *source) pos() Pos { return s.posAt(s.cursor) }

func (s *source) posAt(offset int) Pos {
	line := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > offset
	})
	return Pos{File: s.path, Line: line, Col: offset - s.lineStarts[line-1] + 1}
}

func (s *source) errf(format string, args ...any) error {
	if s.err != nil {
		return s.err
	}
	return &ParseError{Pos: s.pos(), Msg: fmt.Sprintf(format, args...)}
}

func (s *source) more() bool { return s.cursor < len(s.text) }

func (s *source) peek() rune {
	if !s.more() {
		return 0
	}
	return s.text[s.cursor]
}

func (s *source) hasPrefix(seq string) bool {
	for i, r := range seq {
		if s.cursor+i >= len(s.text) || s.text[s.cursor+i] != r {
			return false
		}
	}
	return true
}

// eat consumes seq if it is next, with no gap skipping.
func (s *source) eat(seq string) bool {
	if !s.hasPrefix(seq) {
		return false
	}
	s.cursor += len([]rune(seq))
	return true
}

// skipGap advances over whitespace and comments. Doc comment lines (///)
// accumulate in the pending buffer; any other comment or a blank-free run
// leaves the buffer alone, so docs attach to the next declaration.
func (s *source) skipGap() {
	for s.more() {
		switch {
		case unicode.IsSpace(s.peek()):
			s.cursor++
		case s.hasPrefix("///"):
			s.cursor += 3
			start := s.cursor
			for s.more() && s.peek() != '\n' {
				s.cursor++
			}
			s.doc = append(s.doc, strings.TrimPrefix(string(s.text[start:s.cursor]), " "))
		case s.hasPrefix("//"):
			for s.more() && s.peek() != '\n' {
				s.cursor++
			}
		case s.hasPrefix("/*"):
			open := s.cursor
			s.cursor += 2
			for s.more() && !s.hasPrefix("*/") {
				s.cursor++
			}
			if !s.hasPrefix("*/") {
				if s.err == nil {
					s.err = &ParseError{Pos: s.posAt(open), Msg: "unterminated block comment"}
				}
				return
			}
			s.cursor += 2
		default:
			return
		}
	}
}

// takeDoc returns the accumulated doc comment and clears the buffer.
func (s *source) takeDoc() string {
	if len(s.doc) == 0 {
		return ""
	}
	doc := strings.Join(s.doc, "\n")
	s.doc = nil
	return doc
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// readWord consumes an identifier, or returns "" without moving.
func (s *source) readWord() string {
	if !s.more() || !isIdentStart(s.peek()) {
		return ""
	}
	start := s.cursor
	for s.more() && isIdentRune(s.peek()) {
		s.cursor++
	}
	return string(s.text[start:s.cursor])
}

// peekWord returns the identifier at the cursor without consuming it.
func (s *source) peekWord() string {
	save := s.cursor
	w := s.readWord()
	s.cursor = save
	return w
}

// eatWord consumes word only if it is a whole identifier at the cursor.
func (s *source) eatWord(word string) bool {
	save := s.cursor
	if s.readWord() == word {
		return true
	}
	s.cursor = save
	return false
}

func (s *source) expect(seq string) error {
	s.skipGap()
	if !s.eat(seq) {
		return s.errf("expected %q", seq)
	}
	return nil
}

// readString parses a double-quoted literal with \\, \", \n and \t
// escapes. {} placeholders pass through for later interpolation.
func (s *source) readString() (string, error) {
	s.skipGap()
	if !s.eat(`"`) {
		return "", s.errf("expected string literal")
	}
	var b strings.Builder
	for {
		if !s.more() || s.peek() == '\n' {
			return "", s.errf("unterminated string literal")
		}
		r := s.peek()
		s.cursor++
		switch r {
		case '"':
			return b.String(), nil
		case '\\':
			if !s.more() {
				return "", s.errf("unterminated string literal")
			}
			esc := s.peek()
			s.cursor++
			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case '"', '\\':
				b.WriteRune(esc)
			default:
				return "", s.errf("unknown escape sequence \\%c", esc)
			}
		default:
			b.WriteRune(r)
		}
	}
}

// parsePath reads crate::/self::/super:: prefixes and :: separated
// segments. The caller handles a trailing ::* (glob imports).
func (s *source) parsePath() (Path, error) {
	s.skipGap()
	p := Path{Pos: s.pos()}
	switch {
	case s.eatWord("crate"):
		p.Root = RootCrate
		if !s.eat("::") {
			return p, nil
		}
	case s.eatWord("self"):
		p.Root = RootSelf
		if !s.eat("::") {
			return p, nil
		}
	case s.eatWord("super"):
		p.Root = RootSuper
		p.Supers = 1
		for {
			if !s.eat("::") {
				return p, nil
			}
			if s.eatWord("super") {
				p.Supers++
				continue
			}
			break
		}
	}
	for {
		if s.hasPrefix("*") {
			// glob marker, left for the caller
			return p, nil
		}
		seg := s.readWord()
		if seg == "" {
			if len(p.Segments) == 0 && p.Root == RootRelative {
				return p, s.errf("expected path")
			}
			return p, s.errf("expected path segment after '::'")
		}
		p.Segments = append(p.Segments, seg)
		if !s.eat("::") {
			return p, nil
		}
	}
}

// parseCfgExpr parses the predicate inside #[cfg(...)].
func (s *source) parseCfgExpr() (CfgExpr, error) {
	s.skipGap()
	word := s.readWord()
	if word == "" {
		return nil, s.errf("expected cfg predicate")
	}
	switch word {
	case "not":
		if err := s.expect("("); err != nil {
			return nil, err
		}
		inner, err := s.parseCfgExpr()
		if err != nil {
			return nil, err
		}
		if err := s.expect(")"); err != nil {
			return nil, err
		}
		return &CfgNot{X: inner}, nil
	case "any", "all":
		if err := s.expect("("); err != nil {
			return nil, err
		}
		var exprs []CfgExpr
		for {
			inner, err := s.parseCfgExpr()
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, inner)
			s.skipGap()
			if s.eat(",") {
				continue
			}
			break
		}
		if err := s.expect(")"); err != nil {
			return nil, err
		}
		if word == "any" {
			return &CfgAny{Exprs: exprs}, nil
		}
		return &CfgAll{Exprs: exprs}, nil
	case "feature":
		if err := s.expect("="); err != nil {
			return nil, err
		}
		name, err := s.readString()
		if err != nil {
			return nil, err
		}
		return &CfgFeature{Name: name}, nil
	case CfgUnix, CfgWindows, CfgTest:
		return &CfgFlag{Name: word}, nil
	default:
		return nil, s.errf("unknown cfg predicate %q (expected unix, windows, test, feature, not, any, or all)", word)
	}
}

// attrs are the attributes collected ahead of a declaration.
type attrs struct {
	cfg          CfgExpr
	pathOverride string
}

func (s *source) parseAttrs() (attrs, error) {
	var a attrs
	for {
		s.skipGap()
		if !s.eat("#[") {
			return a, nil
		}
		s.skipGap()
		switch word := s.readWord(); word {
		case "cfg":
			if a.cfg != nil {
				return a, s.errf("duplicate cfg attribute")
			}
			if err := s.expect("("); err != nil {
				return a, err
			}
			expr, err := s.parseCfgExpr()
			if err != nil {
				return a, err
			}
			a.cfg = expr
			if err := s.expect(")"); err != nil {
				return a, err
			}
		case "path":
			if a.pathOverride != "" {
				return a, s.errf("duplicate path attribute")
			}
			if err := s.expect("="); err != nil {
				return a, err
			}
			file, err := s.readString()
			if err != nil {
				return a, err
			}
			if file == "" {
				return a, s.errf("path attribute must not be empty")
			}
			a.pathOverride = file
		default:
			return a, s.errf("unknown attribute %q (expected cfg or path)", word)
		}
		if err := s.expect("]"); err != nil {
			return a, err
		}
	}
}

// parseItems reads declarations until EOF (inline == false) or a closing
// brace (inline == true).
func (s *source) parseItems(inline bool) ([]Item, error) {
	var items []Item
	for {
		s.skipGap()
		if s.err != nil {
			return nil, s.err
		}
		if !s.more() {
			if inline {
				return nil, s.errf("expected '}' closing inline module")
			}
			return items, nil
		}
		if inline && s.peek() == '}' {
			return items, nil
		}

		a, err := s.parseAttrs()
		if err != nil {
			return nil, err
		}
		s.skipGap()
		itemPos := s.pos()
		doc := s.takeDoc()
		public := s.eatWord("pub")
		s.skipGap()

		keyword := s.readWord()
		if keyword != "mod" && (a.cfg != nil || a.pathOverride != "") {
			return nil, s.errf("attributes are only supported on module declarations")
		}
		switch keyword {
		case "mod":
			item, err := s.parseMod(itemPos, public, doc, a)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		case "fn":
			item, err := s.parseFn(itemPos, public, doc)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		case "const":
			item, err := s.parseConst(itemPos, public, doc)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		case "use":
			item, err := s.parseUse(itemPos, public)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		case "":
			return nil, s.errf("expected declaration, found %q", string(s.peek()))
		default:
			return nil, s.errf("expected mod, fn, const, or use, found %q", keyword)
		}
	}
}

func (s *source) parseMod(pos Pos, public bool, doc string, a attrs) (*ModDecl, error) {
	s.skipGap()
	name := s.readWord()
	if name == "" {
		return nil, s.errf("expected module name")
	}
	decl := &ModDecl{
		Name:         name,
		Public:       public,
		Doc:          doc,
		Pos:          pos,
		Cfg:          a.cfg,
		PathOverride: a.pathOverride,
	}
	s.skipGap()
	if s.eat(";") {
		return decl, nil
	}
	if !s.eat("{") {
		return nil, s.errf("expected ';' or '{' after module name")
	}
	if a.pathOverride != "" {
		return nil, s.errf("path attribute is not allowed on an inline module")
	}
	body, err := s.parseItems(true)
	if err != nil {
		return nil, err
	}
	if err := s.expect("}"); err != nil {
		return nil, err
	}
	if body == nil {
		body = []Item{}
	}
	decl.Inline = body
	return decl, nil
}

func (s *source) parseFn(pos Pos, public bool, doc string) (*FnDecl, error) {
	s.skipGap()
	name := s.readWord()
	if name == "" {
		return nil, s.errf("expected function name")
	}
	for _, seq := range []string{"(", ")", "{"} {
		if err := s.expect(seq); err != nil {
			return nil, err
		}
	}
	var body []Stmt
	for {
		s.skipGap()
		if s.eat("}") {
			return &FnDecl{Name: name, Public: public, Doc: doc, Pos: pos, Body: body}, nil
		}
		if !s.more() {
			return nil, s.errf("expected '}' closing function body")
		}
		stmt, err := s.parseStmt()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
}

func (s *source) parseStmt() (Stmt, error) {
	s.skipGap()
	pos := s.pos()
	if s.peekWord() == "println" {
		s.readWord()
		if err := s.expect("("); err != nil {
			return nil, err
		}
		format, err := s.readString()
		if err != nil {
			return nil, err
		}
		var args []Path
		for {
			s.skipGap()
			if !s.eat(",") {
				break
			}
			arg, err := s.parsePath()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		for _, seq := range []string{")", ";"} {
			if err := s.expect(seq); err != nil {
				return nil, err
			}
		}
		if n := strings.Count(format, "{}"); n != len(args) {
			return nil, &ParseError{Pos: pos, Msg: fmt.Sprintf(
				"println format has %d placeholder(s) but %d argument(s)", n, len(args))}
		}
		return &PrintlnStmt{Format: format, Args: args, Pos: pos}, nil
	}

	target, err := s.parsePath()
	if err != nil {
		return nil, err
	}
	for _, seq := range []string{"(", ")", ";"} {
		if err := s.expect(seq); err != nil {
			return nil, err
		}
	}
	return &CallStmt{Target: target, Pos: pos}, nil
}

func (s *source) parseConst(pos Pos, public bool, doc string) (*ConstDecl, error) {
	s.skipGap()
	name := s.readWord()
	if name == "" {
		return nil, s.errf("expected constant name")
	}
	s.skipGap()
	// Optional annotation; str is the only type there is.
	if s.eat(":") {
		s.skipGap()
		if typ := s.readWord(); typ != "str" {
			return nil, s.errf("unknown type %q, only str exists", typ)
		}
	}
	if err := s.expect("="); err != nil {
		return nil, err
	}
	value, err := s.readString()
	if err != nil {
		return nil, err
	}
	if err := s.expect(";"); err != nil {
		return nil, err
	}
	return &ConstDecl{Name: name, Public: public, Doc: doc, Pos: pos, Value: value}, nil
}

func (s *source) parseUse(pos Pos, public bool) (*UseDecl, error) {
	path, err := s.parsePath()
	if err != nil {
		return nil, err
	}
	decl := &UseDecl{Path: path, Public: public, Pos: pos}
	s.skipGap()
	if s.eat("*") {
		if len(path.Segments) == 0 {
			return nil, s.errf("glob import needs a module path before '::*'")
		}
		decl.Glob = true
	} else if s.eatWord("as") {
		s.skipGap()
		alias := s.readWord()
		if alias == "" {
			return nil, s.errf("expected alias after 'as'")
		}
		decl.Alias = alias
	}
	if decl.BoundName() == "" && !decl.Glob {
		return nil, s.errf("use declaration binds no name")
	}
	if err := s.expect(";"); err != nil {
		return nil, err
	}
	return decl, nil
}
