// © 2020 the Pea Authors under the MIT license. See AUTHORS for the list of authors.

package ast

import (
	"fmt"
	"io"
	"os"

	"github.com/eaburns/tsck/loc"
	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

var language = sitter.NewLanguage(typescript.LanguageTypescript())

// A Parser parses TypeScript source and declaration files.
//
// A Parser is not safe for concurrent use,
// but separate Parsers may be used concurrently.
type Parser struct {
	files []*File
	locs  *loc.Files
}

// NewParser returns a new parser.
func NewParser() *Parser {
	return &Parser{locs: new(loc.Files)}
}

// NewParserWithLocs returns a new parser.
// The parser appends file location information to the given loc.Files.
// If the loc.Files is nil, nothing is appended,
// and all ranges are relative to the start of their own file.
func NewParserWithLocs(locs *loc.Files) *Parser {
	return &Parser{locs: locs}
}

// Files returns the files parsed so far.
func (p *Parser) Files() []*File { return p.files }

// Locs returns the location table of the parsed files.
func (p *Parser) Locs() *loc.Files { return p.locs }

// Parse parses a *File from an io.Reader.
// The first argument is the file path or "" if unspecified.
func (p *Parser) Parse(path string, r io.Reader) (*File, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return p.ParseBytes(path, text)
}

// ParseFile parses the source in the file specified by a path.
func (p *Parser) ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.Parse(path, f)
}

// ParseBytes parses a *File from source text.
func (p *Parser) ParseBytes(path string, text []byte) (*File, error) {
	ts := sitter.NewParser()
	defer ts.Close()
	if err := ts.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tree := ts.Parse(text, nil)
	if tree == nil {
		return nil, fmt.Errorf("%s: parse failed", path)
	}
	defer tree.Close()

	var base int
	if p.locs != nil {
		base = p.locs.Add(path, text)
	}
	root := tree.RootNode()
	if root == nil || root.Kind() != "program" {
		return nil, fmt.Errorf("%s: unexpected root node", path)
	}
	if root.HasError() {
		return nil, syntaxError(path, text, root)
	}
	l := &lowerer{src: text, base: base}
	file := &File{Range: l.rng(root), Path: path, Stmts: l.stmts(root)}
	if l.err != nil {
		return nil, fmt.Errorf("%s: %w", path, l.err)
	}
	p.files = append(p.files, file)
	return file, nil
}

// ReadImports returns the module specifiers imported by a source file,
// in the order they appear.
func ReadImports(path string, r io.Reader) ([]string, error) {
	f, err := NewParserWithLocs(nil).Parse(path, r)
	if err != nil {
		return nil, err
	}
	var imports []string
	for _, s := range f.Stmts {
		switch s := s.(type) {
		case *ImportDecl:
			imports = append(imports, s.Path)
		}
	}
	return imports, nil
}

// A SyntaxError is a tree-sitter parse failure.
type SyntaxError struct {
	Path string
	Line int
	Col  int
	Msg  string
}

func (err *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d.%d: %s", err.Path, err.Line, err.Col, err.Msg)
}

func syntaxError(path string, text []byte, root *sitter.Node) *SyntaxError {
	bad := firstBadNode(root)
	if bad == nil {
		bad = root
	}
	pos := bad.StartPosition()
	err := &SyntaxError{Path: path, Line: int(pos.Row) + 1, Col: int(pos.Column) + 1}
	switch {
	case bad.IsMissing():
		err.Msg = fmt.Sprintf("syntax error: missing %s", bad.Kind())
	default:
		err.Msg = fmt.Sprintf("syntax error near %q", truncate(bad.Utf8Text(text), 20))
	}
	return err
}

// truncate returns s cut to at most n runes, marked with an ellipsis if cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func firstBadNode(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if bad := firstBadNode(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}
