// Package types is the structural type model of the checker.
//
// Types are immutable once built and are shared by reference.
// Declarations (interfaces, classes, aliases, type parameters, and modules)
// have identity; all other types compare structurally with Equal.
package types

import "sort"

// A Type is a TypeScript type.
type Type interface {
	// String returns a human-readable, TypeScript-like
	// representation of the type.
	String() string
	typ()
}

// A Keyword is a predefined type.
type Keyword string

const (
	Any       Keyword = "any"
	Unknown   Keyword = "unknown"
	Never     Keyword = "never"
	Void      Keyword = "void"
	Undefined Keyword = "undefined"
	Null      Keyword = "null"
	Number    Keyword = "number"
	String    Keyword = "string"
	Boolean   Keyword = "boolean"
	BigInt    Keyword = "bigint"
	Symbol    Keyword = "symbol"
	Object    Keyword = "object"
	This      Keyword = "this"

	// Error is the type of an expression whose check failed.
	// It is assignable to and from every type,
	// so that one mistake is reported only once.
	Error Keyword = "error"
)

// Keywords maps each predefined type name
// that can be written in source to its Keyword.
var Keywords = map[string]Keyword{
	"any":       Any,
	"unknown":   Unknown,
	"never":     Never,
	"void":      Void,
	"undefined": Undefined,
	"null":      Null,
	"number":    Number,
	"string":    String,
	"boolean":   Boolean,
	"bigint":    BigInt,
	"symbol":    Symbol,
	"object":    Object,
}

// A Lit is a literal type.
// Kind is one of String, Number, Boolean, or BigInt.
// Value is the unquoted string value,
// the canonical number text, or true or false.
type Lit struct {
	Kind  Keyword
	Value string
}

// Static is a handle to a type owned by the builtin library cache.
// The cached type is shared process-wide and never copied.
type Static struct {
	Type Type
}

// An Array is T[].
type Array struct {
	Elem Type
}

// A Tuple is [T, U, ...].
type Tuple struct {
	Elems []Type
}

// A Union is T | U | ....
// Use NewUnion to build a normalized union.
type Union struct {
	Types []Type
}

// An Intersection is T & U & ....
type Intersection struct {
	Types []Type
}

// A Function is the type of a function.
type Function struct {
	TypeParams []*TypeParam
	Params     []*Param
	Ret        Type
}

// A Param is a function parameter.
type Param struct {
	Name     string
	Type     Type
	Optional bool
	Rest     bool
}

// A TypeParam is a declared type parameter.
// TypeParams have identity:
// two parameters with the same name are different types.
type TypeParam struct {
	Name       string
	Constraint Type // nil if unconstrained
	Default    Type // nil if none
}

// A TypeLit is an object type literal.
type TypeLit struct {
	Members []Member
}

// An Interface is a declared interface.
// Declarations of the same name in the same scope merge into one Interface.
type Interface struct {
	Name       string
	TypeParams []*TypeParam
	Extends    []Type
	Members    []Member
}

// A Class is the instance type of a declared class.
// Members include both instance and static members.
type Class struct {
	Name       string
	Abstract   bool
	TypeParams []*TypeParam
	Super      Type // nil if none
	Implements []Type
	Members    []Member
}

// An Alias is a declared type alias.
type Alias struct {
	Name       string
	TypeParams []*TypeParam
	Type       Type
}

// A Module is a namespace or module, holding its exports.
// Exports are split into the value and type namespaces.
type Module struct {
	Name  string
	Vars  map[string]Type
	Types map[string]Type
}

// NewModule returns a new, empty Module.
func NewModule(name string) *Module {
	return &Module{Name: name, Vars: make(map[string]Type), Types: make(map[string]Type)}
}

// VarNames returns the sorted names of the module's value exports.
func (m *Module) VarNames() []string { return sortedKeys(m.Vars) }

// TypeNames returns the sorted names of the module's type exports.
func (m *Module) TypeNames() []string { return sortedKeys(m.Types) }

func sortedKeys(m map[string]Type) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// A Ref is a reference to a named type, possibly with type arguments.
// Name may be qualified, A.B.
//
// Target is the referenced declaration if it was resolved when the Ref was built.
// A nil Target is resolved lazily through an Expander;
// this is the case for references between builtin declarations,
// which can only be resolved once all library files are merged.
type Ref struct {
	Name   string
	Args   []Type
	Target Type
	// Namespace is the path of the builtin namespace, A.B,
	// in which an unresolved reference was written.
	Namespace string
}

// A Member is a member of an object type.
type Member interface {
	// MemberName returns the name of the member,
	// or the empty string for signatures.
	MemberName() string
	String() string
	member()
}

// A Prop is a property.
type Prop struct {
	Name     string
	Type     Type
	Optional bool
	Readonly bool
	Static   bool
}

// A Method is a method.
type Method struct {
	Name     string
	Func     *Function
	Optional bool
	Static   bool
}

// A CallSig is a call signature.
type CallSig struct {
	Func *Function
}

// A ConstructSig is a construct signature.
type ConstructSig struct {
	Func *Function
}

// An IndexSig is an index signature, [key: Key]: Type.
type IndexSig struct {
	Key      Type
	Type     Type
	Readonly bool
	Static   bool
}

func (m *Prop) MemberName() string         { return m.Name }
func (m *Method) MemberName() string       { return m.Name }
func (m *CallSig) MemberName() string      { return "" }
func (m *ConstructSig) MemberName() string { return "" }
func (m *IndexSig) MemberName() string     { return "" }

func (*Prop) member()         {}
func (*Method) member()       {}
func (*CallSig) member()      {}
func (*ConstructSig) member() {}
func (*IndexSig) member()     {}

func (Keyword) typ()       {}
func (Lit) typ()           {}
func (*Static) typ()       {}
func (*Array) typ()        {}
func (*Tuple) typ()        {}
func (*Union) typ()        {}
func (*Intersection) typ() {}
func (*Function) typ()     {}
func (*TypeParam) typ()    {}
func (*TypeLit) typ()      {}
func (*Interface) typ()    {}
func (*Class) typ()        {}
func (*Alias) typ()        {}
func (*Module) typ()       {}
func (*Ref) typ()          {}

// IsKeyword returns whether t, after unwrapping Statics, is the keyword k.
func IsKeyword(t Type, k Keyword) bool {
	kw, ok := Unstatic(t).(Keyword)
	return ok && kw == k
}

// Unstatic returns the type referred to by a chain of Statics.
func Unstatic(t Type) Type {
	for {
		s, ok := t.(*Static)
		if !ok {
			return t
		}
		t = s.Type
	}
}

// NewUnion returns the normalized union of ts.
// Nested unions are flattened, duplicates and never are removed,
// and a union containing any or error is that type.
// A union of a single type is the type itself, and an empty union is never.
func NewUnion(ts ...Type) Type {
	var flat []Type
	var add func(Type) Type
	add = func(t Type) Type {
		switch u := Unstatic(t).(type) {
		case *Union:
			for _, m := range u.Types {
				if top := add(m); top != nil {
					return top
				}
			}
			return nil
		case Keyword:
			switch u {
			case Any, Error:
				return u
			case Never:
				return nil
			}
		}
		for _, f := range flat {
			if Equal(f, t) {
				return nil
			}
		}
		flat = append(flat, t)
		return nil
	}
	for _, t := range ts {
		if top := add(t); top != nil {
			return top
		}
	}
	switch len(flat) {
	case 0:
		return Never
	case 1:
		return flat[0]
	default:
		return &Union{Types: flat}
	}
}

// Widen returns t with literal types replaced by their keyword.
func Widen(t Type) Type {
	switch t := t.(type) {
	case Lit:
		return t.Kind
	case *Union:
		ws := make([]Type, len(t.Types))
		for i, m := range t.Types {
			ws[i] = Widen(m)
		}
		return NewUnion(ws...)
	case *Array:
		if w := Widen(t.Elem); w != t.Elem {
			return &Array{Elem: w}
		}
		return t
	default:
		return t
	}
}
