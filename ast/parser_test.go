package ast

import (
	"errors"
	"strings"
	"testing"

	"github.com/eaburns/pretty"
	"github.com/eaburns/tsck/loc"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParseStmt(t *testing.T) {
	tests := []struct {
		src  string
		want Stmt
	}{
		{
			src: "for (const x of xs) {}",
			want: &ForOfStmt{
				Left: &VarDecl{
					Kind:  Const,
					Decls: []*Declarator{{Name: &Ident{Name: "x"}}},
				},
				Right: &Ident{Name: "xs"},
				Body:  &BlockStmt{},
			},
		},
		{
			src: "for (k in o) ;",
			want: &ForInStmt{
				Left:  &Ident{Name: "k"},
				Right: &Ident{Name: "o"},
				Body:  &EmptyStmt{},
			},
		},
		{
			src: "let x: number = 5",
			want: &VarDecl{
				Kind: Let,
				Decls: []*Declarator{{
					Name: &Ident{Name: "x"},
					Type: &KeywordType{Name: "number"},
					Init: &NumLit{Text: "5", Value: 5},
				}},
			},
		},
		{
			src: "declare const s: string",
			want: &VarDecl{
				Declare: true,
				Kind:    Const,
				Decls: []*Declarator{{
					Name: &Ident{Name: "s"},
					Type: &KeywordType{Name: "string"},
				}},
			},
		},
		{
			src: `import { a, b as c } from "m"`,
			want: &ImportDecl{
				Path: "m",
				Names: []*ImportSpec{
					{Name: "a", Local: &Ident{Name: "a"}},
					{Name: "b", Local: &Ident{Name: "c"}},
				},
			},
		},
		{
			src: `import * as m from "./m"`,
			want: &ImportDecl{
				Path:      "./m",
				Namespace: &Ident{Name: "m"},
			},
		},
		{
			src:  "x",
			want: &ExprStmt{X: &Ident{Name: "x"}},
		},
	}
	for _, test := range tests {
		p := NewParser()
		f, err := p.Parse("", strings.NewReader(test.src))
		if err != nil {
			t.Errorf("failed to parse [%s]: %s", test.src, err)
			continue
		}
		if len(f.Stmts) != 1 {
			t.Errorf("[%s] got %d statements, want 1:\n%s", test.src, len(f.Stmts), pretty.String(f.Stmts))
			continue
		}
		opts := []cmp.Option{cmpopts.IgnoreTypes(loc.Range{}), cmpopts.EquateEmpty()}
		if diff := cmp.Diff(test.want, f.Stmts[0], opts...); diff != "" {
			t.Errorf("[%s] (-want +got)\n%s", test.src, diff)
		}
	}
}

func TestParseSyntaxError(t *testing.T) {
	p := NewParser()
	_, err := p.Parse("bad.ts", strings.NewReader("let x = 5\nlet = ;"))
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("got %v, want a *SyntaxError", err)
	}
	if se.Path != "bad.ts" || se.Line != 2 {
		t.Errorf("got %s, want bad.ts line 2", se)
	}
	if len(p.Files()) != 0 {
		t.Errorf("got %d files, want 0", len(p.Files()))
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{s: "", n: 3, want: ""},
		{s: "abc", n: 3, want: "abc"},
		{s: "abcd", n: 3, want: "abc…"},
		{s: "ééé", n: 3, want: "ééé"},
		{s: "éééé", n: 3, want: "ééé…"},
		{s: "a世界b", n: 2, want: "a世…"},
	}
	for _, test := range tests {
		if got := truncate(test.s, test.n); got != test.want {
			t.Errorf("truncate(%q, %d)=%q, want %q", test.s, test.n, got, test.want)
		}
	}
}

func TestParseLocs(t *testing.T) {
	p := NewParser()
	a, err := p.Parse("a.ts", strings.NewReader("let x = 1\nlet y = 2"))
	if err != nil {
		t.Fatalf("failed to parse: %s", err)
	}
	b, err := p.Parse("b.ts", strings.NewReader("\n\nlet z = 3"))
	if err != nil {
		t.Fatalf("failed to parse: %s", err)
	}
	tests := []struct {
		stmt Stmt
		path string
		line int
	}{
		{a.Stmts[0], "a.ts", 1},
		{a.Stmts[1], "a.ts", 2},
		{b.Stmts[0], "b.ts", 3},
	}
	for _, test := range tests {
		l := p.Locs().Loc(test.stmt.GetRange())
		if l.Path != test.path || l.Line[0] != test.line {
			t.Errorf("got %s, want %s:%d", l, test.path, test.line)
		}
	}
}

func TestReadImports(t *testing.T) {
	src := `
		import a from "./a"
		import "./b"
		import * as c from "c"
		export const x = 1
	`
	got, err := ReadImports("x.ts", strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadImports failed: %s", err)
	}
	want := []string{"./a", "./b", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadImports: (-want +got)\n%s", diff)
	}
}
