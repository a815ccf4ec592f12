package types

import (
	"testing"

	"github.com/eaburns/pretty"
)

func TestString(t *testing.T) {
	tp := &TypeParam{Name: "T"}
	tests := []struct {
		typ  Type
		want string
	}{
		{typ: Number, want: "number"},
		{typ: Lit{Kind: String, Value: "a\"b"}, want: `"a\"b"`},
		{typ: Lit{Kind: Number, Value: "42"}, want: "42"},
		{typ: Lit{Kind: BigInt, Value: "42"}, want: "42n"},
		{typ: &Array{Elem: String}, want: "string[]"},
		{typ: &Array{Elem: &Union{Types: []Type{String, Number}}}, want: "(string | number)[]"},
		{typ: &Tuple{Elems: []Type{String, Boolean}}, want: "[string, boolean]"},
		{typ: &Intersection{Types: []Type{&Ref{Name: "A"}, &Ref{Name: "B"}}}, want: "A & B"},
		{typ: &Ref{Name: "Map", Args: []Type{String, Number}}, want: "Map<string, number>"},
		{typ: &Static{Type: &Interface{Name: "Array"}}, want: "Array"},
		{typ: NewModule("Intl"), want: "typeof Intl"},
		{
			typ: &Function{
				TypeParams: []*TypeParam{tp},
				Params: []*Param{
					{Name: "x", Type: tp},
					{Name: "y", Type: Number, Optional: true},
					{Name: "rest", Type: &Array{Elem: Any}, Rest: true},
				},
				Ret: tp,
			},
			want: "<T>(x: T, y?: number, ...rest: any[]) => T",
		},
		{
			typ: &TypeLit{Members: []Member{
				&Prop{Name: "a", Type: Number, Readonly: true},
				&Method{Name: "b", Func: &Function{Ret: Void}, Optional: true},
				&CallSig{Func: &Function{Ret: String}},
				&ConstructSig{Func: &Function{Ret: Object}},
				&IndexSig{Key: String, Type: Any},
			}},
			want: "{ readonly a: number; b?(): void; (): string; new (): object; [key: string]: any }",
		},
		{typ: &TypeLit{}, want: "{}"},
	}
	for _, test := range tests {
		test := test
		t.Run(test.want, func(t *testing.T) {
			t.Parallel()
			if got := test.typ.String(); got != test.want {
				t.Errorf("got %q, want %q", got, test.want)
			}
		})
	}
}

func TestNewUnion(t *testing.T) {
	foo := &Interface{Name: "Foo"}
	tests := []struct {
		name string
		in   []Type
		want Type
	}{
		{name: "empty", in: nil, want: Never},
		{name: "single", in: []Type{Number}, want: Number},
		{name: "dedup", in: []Type{Number, Number, String}, want: &Union{Types: []Type{Number, String}}},
		{name: "drop never", in: []Type{Never, String}, want: String},
		{name: "any wins", in: []Type{String, Any, Number}, want: Any},
		{name: "error wins", in: []Type{Error, String}, want: Error},
		{
			name: "flatten",
			in:   []Type{&Union{Types: []Type{String, foo}}, Number, foo},
			want: &Union{Types: []Type{String, foo, Number}},
		},
		{
			name: "literal is kept apart from its keyword",
			in:   []Type{Lit{Kind: String, Value: "a"}, String},
			want: &Union{Types: []Type{Lit{Kind: String, Value: "a"}, String}},
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := NewUnion(test.in...); !Equal(got, test.want) {
				t.Errorf("got %s, want %s", pretty.String(got), pretty.String(test.want))
			}
		})
	}
}

func TestWiden(t *testing.T) {
	t.Parallel()
	got := Widen(&Union{Types: []Type{
		Lit{Kind: String, Value: "a"},
		Lit{Kind: String, Value: "b"},
		Lit{Kind: Number, Value: "1"},
	}})
	want := &Union{Types: []Type{String, Number}}
	if !Equal(got, want) {
		t.Errorf("got %s, want %s", got, want)
	}
	if got := Widen(&Array{Elem: Lit{Kind: Boolean, Value: "true"}}); !Equal(got, &Array{Elem: Boolean}) {
		t.Errorf("got %s, want boolean[]", got)
	}
}

func TestEqual(t *testing.T) {
	iface := &Interface{Name: "Foo"}
	t1 := &TypeParam{Name: "T"}
	t2 := &TypeParam{Name: "T"}
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{name: "keyword", a: Number, b: Number, want: true},
		{name: "different keywords", a: Number, b: String, want: false},
		{name: "arrays", a: &Array{Elem: Number}, b: &Array{Elem: Number}, want: true},
		{name: "union order", a: &Union{Types: []Type{Number, String}}, b: &Union{Types: []Type{String, Number}}, want: true},
		{name: "declaration identity", a: iface, b: &Interface{Name: "Foo"}, want: false},
		{name: "same declaration", a: iface, b: iface, want: true},
		{name: "static identity", a: &Static{Type: iface}, b: &Static{Type: iface}, want: true},
		{name: "static of different declarations", a: &Static{Type: iface}, b: &Static{Type: &Interface{Name: "Foo"}}, want: false},
		{name: "type params", a: t1, b: t2, want: false},
		{
			name: "generic functions up to renaming",
			a:    &Function{TypeParams: []*TypeParam{t1}, Params: []*Param{{Name: "x", Type: t1}}, Ret: t1},
			b:    &Function{TypeParams: []*TypeParam{t2}, Params: []*Param{{Name: "y", Type: t2}}, Ret: t2},
			want: true,
		},
		{
			name: "refs",
			a:    &Ref{Name: "Array", Args: []Type{Number}},
			b:    &Ref{Name: "Array", Args: []Type{Number}},
			want: true,
		},
		{
			name: "refs with different args",
			a:    &Ref{Name: "Array", Args: []Type{Number}},
			b:    &Ref{Name: "Array", Args: []Type{String}},
			want: false,
		},
		{
			name: "refs written in different namespaces",
			a:    &Ref{Name: "B", Namespace: "N"},
			b:    &Ref{Name: "B"},
			want: false,
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := Equal(test.a, test.b); got != test.want {
				t.Errorf("Equal(%s, %s)=%v, want %v", test.a, test.b, got, test.want)
			}
		})
	}
}

func TestInstantiate(t *testing.T) {
	t.Parallel()
	tp := &TypeParam{Name: "T"}
	box := &Interface{
		Name:       "Box",
		TypeParams: []*TypeParam{tp},
		Members: []Member{
			&Prop{Name: "value", Type: tp},
			&Method{Name: "all", Func: &Function{Ret: &Array{Elem: tp}}},
			&Prop{Name: "count", Type: Number},
		},
	}
	got, ok := Instantiate(box, []Type{String}).(*Interface)
	if !ok {
		t.Fatalf("got %T, want *Interface", got)
	}
	if len(got.TypeParams) != 0 {
		t.Errorf("instantiated interface has type parameters")
	}
	want := []string{"value: string", "all(): string[]", "count: number"}
	for i, m := range got.Members {
		if m.String() != want[i] {
			t.Errorf("member %d: got %s, want %s", i, m, want[i])
		}
	}
	if got.Members[2] != box.Members[2] {
		t.Errorf("unchanged member was copied")
	}
	if s := box.Members[0].String(); s != "value: T" {
		t.Errorf("declaration was modified: %s", s)
	}
}

func TestInstantiateDefault(t *testing.T) {
	t.Parallel()
	t1 := &TypeParam{Name: "T"}
	t2 := &TypeParam{Name: "U", Default: t1}
	alias := &Alias{Name: "Pair", TypeParams: []*TypeParam{t1, t2}, Type: &Tuple{Elems: []Type{t1, t2}}}
	if got := Instantiate(alias, []Type{Number}); got.String() != "[number, number]" {
		t.Errorf("got %s, want [number, number]", got)
	}
	if got := Instantiate(alias, nil); got.String() != "[any, any]" {
		t.Errorf("got %s, want [any, any]", got)
	}
}
