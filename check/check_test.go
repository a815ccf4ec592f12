package check

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/eaburns/tsck/ast"
	"github.com/eaburns/tsck/lib"
	"github.com/eaburns/tsck/types"
	"go.uber.org/zap/zaptest"
)

type errorTest struct {
	name    string
	src     string
	libs    []lib.Lib
	imports [][2]string
	// err is a regexp matched against the reported diagnostics,
	// or "" if there should be none.
	err   string
	trace bool
}

func (test errorTest) run(t *testing.T) {
	t.Parallel()
	if strings.HasPrefix(test.name, "SKIP:") {
		t.Skip()
	}
	p := ast.NewParser()
	f, err := p.Parse("#test", strings.NewReader(test.src))
	if err != nil {
		t.Fatalf("failed to parse source: %s", err)
	}
	cfg := Config{
		Libs:   test.libs,
		Loader: testLoader(test.imports),
		Locs:   p.Locs(),
		Trace:  test.trace,
	}
	if test.trace {
		cfg.Logger = zaptest.NewLogger(t)
	}
	a := New(cfg)
	a.Check(f)
	errs := a.Errors()
	switch {
	case test.err == "" && len(errs) == 0:
		return
	case test.err == "" && len(errs) > 0:
		t.Errorf("unexpected error: %s", errs[0])
	case test.err != "" && len(errs) == 0:
		t.Errorf("got nil, expected matching %#v", test.err)
	case !regexp.MustCompile(test.err).MatchString(fmt.Sprintf("%v", errs)):
		t.Errorf("got %v, expected matching %#v", errs, test.err)
	}
}

// testLoader loads modules from source text, keyed by module specifier.
type testLoader [][2]string

func (l testLoader) Load(path string, _ *ast.ImportDecl) (*types.Module, error) {
	for _, imp := range l {
		if imp[0] != path {
			continue
		}
		p := ast.NewParser()
		f, err := p.Parse(path, strings.NewReader(imp[1]))
		if err != nil {
			return nil, err
		}
		a := New(Config{Loader: l, Locs: p.Locs()})
		m := a.Check(f)
		if err := a.Err(); err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, fmt.Errorf("module %s not found", path)
}

func TestVarDecl(t *testing.T) {
	tests := []errorTest{
		{
			name: "annotated",
			src:  `let x: number = 5; const s: string = "a"`,
			err:  "",
		},
		{
			name: "inferred",
			src:  `let x = 5; const y: number = x`,
			err:  "",
		},
		{
			name: "let widens",
			src:  `let x = 5; x = 6`,
			err:  "",
		},
		{
			name: "not assignable",
			src:  `let x: number = "hello"`,
			err:  `type "hello" is not assignable to type number`,
		},
		{
			name: "const without initializer",
			src:  `const x: number;`,
			err:  "const declarations must be initialized",
		},
		{
			name: "ambient initializer",
			src:  `declare const x: number = 5;`,
			err:  "initializers are not allowed in ambient contexts",
		},
		{
			name: "assign to const",
			src:  `const x = 5; x = 6`,
			err:  "cannot assign to x because it is a constant",
		},
		{
			name: "redeclared",
			src:  `let x = 5; let x = 6`,
			err:  "x redeclared",
		},
		{
			name: "var redeclared",
			src:  `var x = 5; var x = 6`,
			err:  "",
		},
		{
			name: "undefined name",
			src:  `const x = y`,
			err:  "cannot find name y",
		},
		{
			name: "array destructuring",
			src:  `declare const a: number[]; const [x, y] = a; const z: number = y`,
			err:  "",
		},
		{
			name: "object destructuring",
			src:  `declare const o: {a: number, b: string}; const {a, b} = o; const s: string = b`,
			err:  "",
		},
		{
			name: "object destructuring type mismatch",
			src:  `declare const o: {a: number, b: string}; const {a} = o; const s: string = a`,
			err:  "type number is not assignable to type string",
		},
	}
	for _, test := range tests {
		t.Run(test.name, test.run)
	}
}

func TestShadowBuiltin(t *testing.T) {
	tests := []errorTest{
		{
			name: "builtin var",
			src:  `const pi: number = Math.PI`,
			err:  "",
		},
		{
			name: "shadowed in block",
			src: `
				{
					const Math = "shadow"
					const s: string = Math
				}
				const pi: number = Math.PI
			`,
			err: "",
		},
		{
			name: "shadow is not visible outside block",
			src: `
				{
					const Math = "shadow"
				}
				const s: string = Math
			`,
			err: "is not assignable to type string",
		},
		{
			name: "builtin type shadowed",
			src: `
				interface Date { custom: number }
				declare const d: Date
				const n: number = d.custom
			`,
			err: "",
		},
		{
			name: "builtin function",
			src:  `const n: number = parseInt("5")`,
			err:  "",
		},
		{
			name: "builtin class",
			src:  `const d = new Date(); const n: number = d.getTime()`,
			err:  "",
		},
	}
	for _, test := range tests {
		t.Run(test.name, test.run)
	}
}

func TestFunction(t *testing.T) {
	tests := []errorTest{
		{
			name: "call",
			src: `
				function f(x: number): string { return "" }
				const s: string = f(5)
			`,
			err: "",
		},
		{
			name: "hoisted",
			src: `
				const s: string = f(5)
				function f(x: number): string { return "" }
			`,
			err: "",
		},
		{
			name: "bad argument",
			src: `
				function f(x: number): string { return "" }
				f("hello")
			`,
			err: `argument of type "hello" is not assignable to parameter of type number`,
		},
		{
			name: "too few arguments",
			src: `
				function f(x: number, y: number) {}
				f(1)
			`,
			err: "expected 2 arguments",
		},
		{
			name: "optional argument",
			src: `
				function f(x: number, y?: number) {}
				f(1)
			`,
			err: "",
		},
		{
			name: "inferred return",
			src: `
				function f() { return 5 }
				const s: string = f()
			`,
			err: "type number is not assignable to type string",
		},
		{
			name: "bad return",
			src:  `function f(): number { return "x" }`,
			err:  `type "x" is not assignable to type number`,
		},
		{
			name: "return outside function",
			src:  `return 5`,
			err:  "a return statement can only be used within a function body",
		},
		{
			name: "overloads",
			src: `
				function f(x: number): number;
				function f(x: string): string;
				function f(x: any): any { return x }
				const n: number = f(1)
				const s: string = f("a")
			`,
			err: "",
		},
		{
			name: "no overload matches",
			src: `
				function f(x: number): number;
				function f(x: string): string;
				function f(x: any): any { return x }
				f(true)
			`,
			err: "no overload matches this call",
		},
		{
			name: "explicit type arguments",
			src: `
				function id<T>(x: T): T { return x }
				const n: number = id<number>(5)
			`,
			err: "",
		},
		{
			name: "async",
			src: `
				async function f(): Promise<number> { return 5 }
				async function g() { const n: number = await f() }
			`,
			libs: lib.Upto(lib.ES2015),
			err:  "",
		},
		{
			name: "arrow",
			src: `
				const f = (x: number) => x + 1
				const n: number = f(1)
			`,
			err: "",
		},
		{
			name: "parameter scope",
			src: `
				function f(x: number) {}
				const y = x
			`,
			err: "cannot find name x",
		},
	}
	for _, test := range tests {
		t.Run(test.name, test.run)
	}
}

func TestInterface(t *testing.T) {
	tests := []errorTest{
		{
			name: "members",
			src: `
				interface P { x: number; y: number }
				const p: P = {x: 1, y: 2}
			`,
			err: "",
		},
		{
			name: "missing member",
			src: `
				interface P { x: number; y: number }
				const p: P = {x: 1}
			`,
			err: "is not assignable to type P",
		},
		{
			name: "merged",
			src: `
				interface P { x: number }
				interface P { y: number }
				declare const p: P
				const n: number = p.x + p.y
			`,
			err: "",
		},
		{
			name: "merged before use",
			src: `
				declare const p: P
				const n: number = p.y
				interface P { x: number }
				interface P { y: number }
			`,
			err: "",
		},
		{
			name: "merged type parameter mismatch",
			src: `
				interface P<T> { x: T }
				interface P { y: number }
			`,
			err: "must have identical type parameters",
		},
		{
			name: "extends",
			src: `
				interface A { a: number }
				interface B extends A { b: string }
				declare const b: B
				const n: number = b.a
			`,
			err: "",
		},
		{
			name: "no such property",
			src: `
				interface A { a: number }
				declare const a: A
				a.b
			`,
			err: "property b does not exist on type A",
		},
		{
			name: "generic",
			src: `
				interface Box<T> { v: T }
				declare const b: Box<string>
				const s: string = b.v
			`,
			err: "",
		},
		{
			name: "readonly",
			src: `
				interface A { readonly a: number }
				declare const a: A
				a.a = 5
			`,
			err: "cannot assign to a because it is a read-only property",
		},
		{
			name: "type alias",
			src: `
				type N = number | string
				const n: N = "a"
				const m: N = true
			`,
			err: "type true is not assignable to type N",
		},
	}
	for _, test := range tests {
		t.Run(test.name, test.run)
	}
}

func TestClass(t *testing.T) {
	tests := []errorTest{
		{
			name: "constructor and members",
			src: `
				class P {
					x: number
					constructor(x: number) { this.x = x }
					get(): number { return this.x }
				}
				const p = new P(5)
				const n: number = p.get()
			`,
			err: "",
		},
		{
			name: "bad constructor argument",
			src: `
				class P { constructor(x: number) {} }
				new P("x")
			`,
			err: `argument of type "x" is not assignable to parameter of type number`,
		},
		{
			name: "extends",
			src: `
				class A { a: number = 1 }
				class B extends A { b: string = "" }
				const n: number = new B().a
			`,
			err: "",
		},
		{
			name: "extends before declaration",
			src: `
				class B extends A { b: string = "" }
				class A { a: number = 1 }
				const n: number = new B().a
			`,
			err: "",
		},
		{
			name: "abstract",
			src: `
				abstract class A {}
				new A()
			`,
			err: "cannot create an instance of an abstract class",
		},
		{
			name: "implements",
			src: `
				interface I { f(): number }
				class C implements I { f(): number { return 1 } }
			`,
			err: "",
		},
		{
			name: "incorrectly implements",
			src: `
				interface I { f(): number }
				class C implements I { g(): number { return 1 } }
			`,
			err: "class C incorrectly implements interface I",
		},
		{
			name: "static",
			src: `
				class C { static n: number = 5 }
				const n: number = C.n
			`,
			err: "",
		},
	}
	for _, test := range tests {
		t.Run(test.name, test.run)
	}
}

func TestNamespace(t *testing.T) {
	tests := []errorTest{
		{
			name: "exported",
			src: `
				namespace N { export const x = 5 }
				const n: number = N.x
			`,
			err: "",
		},
		{
			name: "not exported",
			src: `
				namespace N { const x = 5 }
				N.x
			`,
			err: "namespace N has no exported member x",
		},
		{
			name: "merged",
			src: `
				namespace N { export const x = 5 }
				namespace N { export const y = x }
				const n: number = N.y
			`,
			err: "",
		},
		{
			name: "qualified type",
			src: `
				namespace N { export interface P { x: number } }
				declare const p: N.P
				const n: number = p.x
			`,
			err: "",
		},
		{
			name: "declare namespace exports everything",
			src: `
				declare namespace N { const x: number }
				const n: number = N.x
			`,
			err: "",
		},
	}
	for _, test := range tests {
		t.Run(test.name, test.run)
	}
}

func TestImport(t *testing.T) {
	tests := []errorTest{
		{
			name: "named",
			src: `
				import { x } from "a"
				const n: number = x
			`,
			imports: [][2]string{{"a", `export const x = 5`}},
			err:     "",
		},
		{
			name: "renamed",
			src: `
				import { x as y } from "a"
				const n: number = y
			`,
			imports: [][2]string{{"a", `export const x = 5`}},
			err:     "",
		},
		{
			name: "namespace",
			src: `
				import * as a from "a"
				const n: number = a.x
				declare const p: a.P
				const s: string = p.s
			`,
			imports: [][2]string{{"a", `
				export const x = 5
				export interface P { s: string }
			`}},
			err: "",
		},
		{
			name: "function",
			src: `
				import { f } from "a"
				const s: string = f()
			`,
			imports: [][2]string{{"a", `export function f(): string { return "" }`}},
			err:     "",
		},
		{
			name: "not exported",
			src:  `import { y } from "a"`,
			imports: [][2]string{{"a", `
				export const x = 5
				const y = 6
			`}},
			err: "module a has no exported member y",
		},
		{
			name: "no default",
			src:  `import d from "a"`,
			imports: [][2]string{{"a", `export const x = 5`}},
			err:     "module a has no default export",
		},
		{
			name: "not found",
			src:  `import { x } from "a"`,
			err:  "cannot import a",
		},
		{
			name: "transitive",
			src: `
				import { y } from "b"
				const n: number = y
			`,
			imports: [][2]string{
				{"a", `export const x = 5`},
				{"b", `import { x } from "a"; export const y = x`},
			},
			err: "",
		},
	}
	for _, test := range tests {
		t.Run(test.name, test.run)
	}
}

func TestExpr(t *testing.T) {
	tests := []errorTest{
		{
			name: "arithmetic",
			src:  `const n: number = 1 + 2 * 3`,
			err:  "",
		},
		{
			name: "string concatenation",
			src:  `const s: string = "a" + 1`,
			err:  "",
		},
		{
			name: "comparison",
			src:  `const b: boolean = 1 < 2`,
			err:  "",
		},
		{
			name: "conditional",
			src:  `const x: number | string = true ? 1 : "a"`,
			err:  "",
		},
		{
			name: "template",
			src:  "const s: string = `a${1}b`",
			err:  "",
		},
		{
			name: "array literal",
			src:  `const a: number[] = [1, 2, 3]`,
			err:  "",
		},
		{
			name: "array literal mismatch",
			src:  `const a: number[] = [1, "a"]`,
			err:  "is not assignable to type number\\[\\]",
		},
		{
			name: "index",
			src:  `declare const a: string[]; const s: string = a[0]`,
			err:  "",
		},
		{
			name: "tuple index",
			src:  `declare const t: [number, string]; const s: string = t[1]`,
			err:  "",
		},
		{
			name: "possibly undefined",
			src:  `declare const x: undefined; x.y`,
			err:  "object is possibly undefined",
		},
		{
			name: "call non-function",
			src:  `const x = 5; x()`,
			err:  "type 5 has no call signatures",
		},
		{
			name: "as",
			src:  `declare const x: any; const n: number = x as number`,
			err:  "",
		},
		{
			name: "regexp",
			src:  `const r = /a+/; const b: boolean = r.test("a")`,
			err:  "",
		},
	}
	for _, test := range tests {
		t.Run(test.name, test.run)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	a := New(Config{})
	tests := []struct {
		node ast.Node
		want types.Type
		err  string
	}{
		{node: &ast.NumLit{Text: "5", Value: 5}, want: types.Lit{Kind: types.Number, Value: "5"}},
		{node: &ast.StrLit{Value: "s"}, want: types.Lit{Kind: types.String, Value: "s"}},
		{node: &ast.Ident{Name: "undefined"}, want: types.Undefined},
		{node: &ast.Ident{Name: "nothing"}, err: "cannot find name nothing"},
		{node: &ast.KeywordType{Name: "number"}, want: types.Number},
		{node: &ast.EmptyStmt{}, want: types.Void},
		{node: &ast.ExprStmt{X: &ast.Ident{Name: "nothing"}}, want: types.Error},
	}
	for _, test := range tests {
		got, err := a.Validate(test.node)
		switch {
		case test.err != "" && err == nil:
			t.Errorf("Validate(%T)=%v, want error matching %q", test.node, got, test.err)
		case test.err != "" && !regexp.MustCompile(test.err).MatchString(err.Error()):
			t.Errorf("Validate(%T) error %v, want matching %q", test.node, err, test.err)
		case test.err == "" && err != nil:
			t.Errorf("Validate(%T) failed: %v", test.node, err)
		case test.err == "" && !types.Equal(got, test.want):
			t.Errorf("Validate(%T)=%v, want %v", test.node, got, test.want)
		}
	}
	// Only the statement's diagnostic is recorded.
	if errs := a.Errors(); len(errs) != 1 {
		t.Errorf("got %d errors, want 1: %v", len(errs), errs)
	}
}
