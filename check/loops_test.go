package check

import (
	"regexp"
	"strings"
	"testing"

	"github.com/eaburns/tsck/ast"
	"github.com/eaburns/tsck/lib"
	"github.com/eaburns/tsck/types"
)

func TestForOf(t *testing.T) {
	tests := []errorTest{
		{
			name: "Array<T> binds element type",
			src: `
				declare const arr: Array<string>
				for (const x of arr) { const s: string = x }
			`,
			err: "",
		},
		{
			name: "Array<T> element type is not any",
			src: `
				declare const arr: Array<string>
				for (const x of arr) { const n: number = x }
			`,
			err: "type string is not assignable to type number",
		},
		{
			name: "T[] binds element type",
			src: `
				declare const arr: string[]
				for (const x of arr) { const n: number = x }
			`,
			err: "type string is not assignable to type number",
		},
		{
			name: "string binds string",
			src:  `for (const c of "abc") { const n: number = c }`,
			err:  "type string is not assignable to type number",
		},
		{
			name: "tuple binds union",
			src: `
				declare const t: [string, number]
				for (const x of t) { const s: string = x }
			`,
			err: "type string \\| number is not assignable to type string",
		},
		{
			name: "any",
			src: `
				declare const a: any
				for (const x of a) { x.foo() }
			`,
			err: "",
		},
		{
			name: "not iterable",
			src: `
				declare const n: number
				for (const x of n) {}
			`,
			err: "type number is not iterable",
		},
		{
			name: "existing variable",
			src: `
				declare const arr: string[]
				let x: string
				for (x of arr) {}
			`,
			err: "",
		},
		{
			name: "existing variable mismatch",
			src: `
				declare const arr: Array<string>
				let x: number
				for (x of arr) {}
			`,
			err: "is not assignable to type number\\[\\]",
		},
		{
			name: "constant target",
			src: `
				declare const arr: string[]
				const x = "a"
				for (x of arr) {}
			`,
			err: "cannot assign to x because it is a constant",
		},
		{
			name: "member target",
			src: `
				declare const arr: string[]
				declare const o: {s: string}
				for (o.s of arr) {}
			`,
			err: "",
		},
		{
			name: "destructuring",
			src: `
				declare const pairs: [string, number][]
				for (const [k, v] of pairs) { const s: string = k }
			`,
			err: "",
		},
		{
			name: "variable is scoped to loop",
			src: `
				declare const arr: string[]
				for (const x of arr) {}
				x
			`,
			err: "cannot find name x",
		},
		{
			name: "body shadows loop variable",
			src: `
				declare const arr: string[]
				for (const x of arr) { const x = 5; const n: number = x }
			`,
			err: "",
		},
		{
			name: "rhs undefined",
			src:  `for (const x of nothing) {}`,
			err:  "cannot find name nothing",
		},
		{
			name: "iterable interface",
			src: `
				declare const s: Set<string>
				for (const x of s) { const n: number = x }
			`,
			libs: lib.Upto(lib.ES2015),
			err:  "type string is not assignable to type number",
		},
		{
			name: "map entries",
			src: `
				declare const m: Map<string, number>
				for (const [k, v] of m) { const s: string = k; const n: number = v }
			`,
			libs: lib.Upto(lib.ES2015),
			err:  "",
		},
	}
	for _, test := range tests {
		t.Run(test.name, test.run)
	}
}

func TestForIn(t *testing.T) {
	tests := []errorTest{
		{
			name: "binds string",
			src: `
				declare const o: {a: number}
				for (const k in o) { const s: string = k }
			`,
			err: "",
		},
		{
			name: "key is not a number",
			src: `
				declare const o: {a: number}
				for (const k in o) { const n: number = k }
			`,
			err: "type string is not assignable to type number",
		},
		{
			name: "rhs not an object",
			src: `
				declare const n: number
				for (const k in n) {}
			`,
			err: "the right-hand side of a for-in statement must be of type any, an object type, or a type parameter, but here has type number",
		},
		{
			name: "lhs not a string",
			src: `
				declare const o: object
				let k: number
				for (k in o) {}
			`,
			err: "the left-hand side of a for-in statement must be of type string or any",
		},
		{
			name: "lhs any",
			src: `
				declare const o: object
				let k: any
				for (k in o) {}
			`,
			err: "",
		},
		{
			name: "array",
			src: `
				declare const a: number[]
				for (const i in a) {}
			`,
			err: "",
		},
		{
			name: "initializer",
			src: `
				declare const o: object
				for (var k = "" in o) {}
			`,
			err: "the variable declaration of a for-in statement cannot have an initializer",
		},
	}
	for _, test := range tests {
		t.Run(test.name, test.run)
	}
}

// A failing loop reports exactly one diagnostic,
// and the statements after it are still checked.
func TestForOfFailureContinues(t *testing.T) {
	t.Parallel()
	p := ast.NewParser()
	f, err := p.Parse("#test", strings.NewReader(`
		declare const arr: Array<string>
		let x: number
		for (x of arr) {}
		const after: number = "s"
	`))
	if err != nil {
		t.Fatalf("failed to parse source: %s", err)
	}
	a := New(Config{Locs: p.Locs()})
	a.Check(f)
	errs := a.Errors()
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}
	if !regexp.MustCompile("is not assignable to type number\\[\\]").MatchString(errs[0].Error()) {
		t.Errorf("got %v, want the for-of error first", errs[0])
	}
	if !regexp.MustCompile(`type "s" is not assignable to type number`).MatchString(errs[1].Error()) {
		t.Errorf("got %v, want the error of the following statement", errs[1])
	}
}

// The parser cannot produce a for-of declaration with a type annotation,
// so it is built directly.
func TestForOfAnnotatedDeclaration(t *testing.T) {
	t.Parallel()
	p := ast.NewParser()
	f, err := p.Parse("#test", strings.NewReader(`declare const arr: Array<string>`))
	if err != nil {
		t.Fatalf("failed to parse source: %s", err)
	}
	a := New(Config{Locs: p.Locs()})
	a.Check(f)

	loop := &ast.ForOfStmt{
		Left: &ast.VarDecl{
			Kind: ast.Const,
			Decls: []*ast.Declarator{{
				Name: &ast.Ident{Name: "x"},
				Type: &ast.KeywordType{Name: "number"},
			}},
		},
		Right: &ast.Ident{Name: "arr"},
		Body:  &ast.BlockStmt{},
	}
	typ, err := a.Validate(loop)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if typ != types.Error {
		t.Errorf("Validate()=%v, want %v", typ, types.Error)
	}
	errs := a.Errors()
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if !regexp.MustCompile("is not assignable to type number\\[\\]").MatchString(errs[0].Error()) {
		t.Errorf("got %v, want not assignable", errs[0])
	}

	// The loop variable does not leak into the enclosing scope.
	if _, err := a.Validate(&ast.Ident{Name: "x"}); err == nil {
		t.Errorf("x is visible after the loop")
	}
}

// A for-in statement whose declaration has no declarators
// does not check its right-hand side.
func TestForInNoDeclarators(t *testing.T) {
	t.Parallel()
	loop := func(decls ...*ast.Declarator) *ast.ForInStmt {
		return &ast.ForInStmt{
			Left:  &ast.VarDecl{Kind: ast.Var, Decls: decls},
			Right: &ast.Ident{Name: "undefinedVariable"},
			Body:  &ast.BlockStmt{},
		}
	}

	a := New(Config{})
	typ, err := a.Validate(loop())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if typ != types.Void {
		t.Errorf("Validate()=%v, want %v", typ, types.Void)
	}
	if errs := a.Errors(); len(errs) != 0 {
		t.Errorf("got errors %v, want none", errs)
	}

	a = New(Config{})
	if _, err := a.Validate(loop(&ast.Declarator{Name: &ast.Ident{Name: "k"}})); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	errs := a.Errors()
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "cannot find name undefinedVariable") {
		t.Errorf("got errors %v, want cannot find name undefinedVariable", errs)
	}
}
