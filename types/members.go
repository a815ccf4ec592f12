package types

// An Expander resolves references that were not resolved when built.
type Expander interface {
	// Expand returns the declaration named by r, ignoring r.Args,
	// or nil if there is no such declaration.
	Expand(r *Ref) Type
}

// maxExpand bounds chains of references and inheritance.
// Beyond it, a type is treated as any.
const maxExpand = 64

// Expand returns t with Statics, References, and Aliases resolved,
// instantiating generic declarations with their arguments.
// An unresolvable reference expands to any.
// The Expander may be nil, in which case only resolved references expand.
func Expand(x Expander, t Type) Type {
	for i := 0; i < maxExpand; i++ {
		switch u := t.(type) {
		case *Static:
			t = u.Type
		case *Ref:
			decl := u.Target
			if decl == nil && x != nil {
				decl = x.Expand(u)
			}
			if decl == nil {
				return Any
			}
			t = Instantiate(Unstatic(decl), u.Args)
		case *Alias:
			t = Instantiate(u, nil)
		default:
			return t
		}
	}
	return Any
}

// Apparent returns the object type whose members are those of t.
// Primitives are boxed by their builtin interface: string by String, and so on.
// Arrays and tuples are Array<T>, and functions are Function.
func Apparent(x Expander, t Type) Type {
	t = Expand(x, t)
	var name string
	var args []Type
	switch u := t.(type) {
	case Keyword:
		switch u {
		case String:
			name = "String"
		case Number:
			name = "Number"
		case Boolean:
			name = "Boolean"
		case BigInt:
			name = "BigInt"
		case Symbol:
			name = "Symbol"
		case Object:
			name = "Object"
		default:
			return t
		}
	case Lit:
		return Apparent(x, u.Kind)
	case *Array:
		name, args = "Array", []Type{u.Elem}
	case *Tuple:
		name, args = "Array", []Type{NewUnion(u.Elems...)}
	case *Function:
		name = "Function"
	default:
		return t
	}
	if x == nil {
		return t
	}
	if a := Expand(x, &Ref{Name: name, Args: args}); a != Any {
		return a
	}
	return t
}

// Members returns the members of t, including inherited members.
// Instance types do not include static class members.
// Members declared later by a derived type hide inherited ones of the same name.
func Members(x Expander, t Type) []Member {
	return members(x, t, 0)
}

func members(x Expander, t Type, depth int) []Member {
	if depth > maxExpand {
		return nil
	}
	switch t := Apparent(x, t).(type) {
	case *TypeLit:
		return t.Members
	case *Interface:
		ms := t.Members
		for _, e := range t.Extends {
			ms = inherit(ms, members(x, e, depth+1))
		}
		return ms
	case *Class:
		var ms []Member
		for _, m := range t.Members {
			// The constructor is a member of the class value, not of instances.
			if _, ok := m.(*ConstructSig); !ok && !isStatic(m) {
				ms = append(ms, m)
			}
		}
		if t.Super != nil {
			ms = inherit(ms, members(x, t.Super, depth+1))
		}
		return ms
	case *Intersection:
		var ms []Member
		for _, u := range t.Types {
			ms = inherit(ms, members(x, u, depth+1))
		}
		return ms
	case *Module:
		var ms []Member
		for _, n := range t.VarNames() {
			ms = append(ms, &Prop{Name: n, Type: t.Vars[n], Readonly: true})
		}
		for _, n := range t.TypeNames() {
			if v := ModuleValue(t, n); v != nil && t.Vars[n] == nil {
				ms = append(ms, &Prop{Name: n, Type: v, Readonly: true})
			}
		}
		return ms
	case *TypeParam:
		if t.Constraint != nil {
			return members(x, t.Constraint, depth+1)
		}
		return nil
	default:
		return nil
	}
}

// ModuleValue returns the value exported by m with the given name, or nil.
// Functions and namespaces declared in builtin namespaces
// are recorded as types, but are also values.
func ModuleValue(m *Module, name string) Type {
	if v, ok := m.Vars[name]; ok {
		return v
	}
	switch t := m.Types[name].(type) {
	case *Function, *Module:
		return t
	}
	return nil
}

// inherit returns own followed by the members of inherited
// that are not hidden by a named member of own.
func inherit(own, inherited []Member) []Member {
	names := make(map[string]bool, len(own))
	for _, m := range own {
		if n := m.MemberName(); n != "" {
			names[n] = true
		}
	}
	ms := append([]Member{}, own...)
	for _, m := range inherited {
		if n := m.MemberName(); n == "" || !names[n] {
			ms = append(ms, m)
		}
	}
	return ms
}

func isStatic(m Member) bool {
	switch m := m.(type) {
	case *Prop:
		return m.Static
	case *Method:
		return m.Static
	case *IndexSig:
		return m.Static
	default:
		return false
	}
}

// Lookup returns the named member of t, or nil if there is none.
// Overloaded methods return the first declaration.
func Lookup(x Expander, t Type, name string) Member {
	for _, m := range Members(x, t) {
		if m.MemberName() == name {
			return m
		}
	}
	return nil
}

// MemberType returns the type of a property or method member.
func MemberType(m Member) Type {
	switch m := m.(type) {
	case *Prop:
		return m.Type
	case *Method:
		return m.Func
	case *IndexSig:
		return m.Type
	default:
		return Any
	}
}

// Signatures returns the call signatures of t,
// or the construct signatures if construct is true.
func Signatures(x Expander, t Type, construct bool) []*Function {
	if f, ok := Expand(x, t).(*Function); ok && !construct {
		return []*Function{f}
	}
	var fs []*Function
	for _, m := range Members(x, t) {
		switch m := m.(type) {
		case *CallSig:
			if !construct {
				fs = append(fs, m.Func)
			}
		case *ConstructSig:
			if construct {
				fs = append(fs, m.Func)
			}
		}
	}
	return fs
}

// StringIndex returns the type of the string index signature of t, or nil.
func StringIndex(x Expander, t Type) Type {
	return index(x, t, String)
}

// NumberIndex returns the type of the number index signature of t, or nil.
// A number index falls back to the string index.
func NumberIndex(x Expander, t Type) Type {
	if it := index(x, t, Number); it != nil {
		return it
	}
	return index(x, t, String)
}

func index(x Expander, t Type, key Keyword) Type {
	for _, m := range Members(x, t) {
		if ix, ok := m.(*IndexSig); ok && IsKeyword(ix.Key, key) {
			return ix.Type
		}
	}
	return nil
}

// ElemType returns the type of the elements produced by iterating t with for-of,
// or nil if t is not iterable.
func ElemType(x Expander, t Type) Type {
	switch u := Expand(x, t).(type) {
	case Keyword:
		switch u {
		case Any, Error:
			return u
		case String:
			return String
		}
		return nil
	case Lit:
		if u.Kind == String {
			return String
		}
		return nil
	case *Array:
		return u.Elem
	case *Tuple:
		return NewUnion(u.Elems...)
	case *Union:
		var es []Type
		for _, m := range u.Types {
			e := ElemType(x, m)
			if e == nil {
				return nil
			}
			es = append(es, e)
		}
		return NewUnion(es...)
	}
	if e := iteratorElem(x, t); e != nil {
		return e
	}
	return NumberIndex(x, t)
}

// iteratorElem returns T of an Iterable<T> by following
// [Symbol.iterator]() to the value of next().
func iteratorElem(x Expander, t Type) Type {
	m, ok := Lookup(x, t, "[Symbol.iterator]").(*Method)
	if !ok {
		return nil
	}
	next, ok := Lookup(x, m.Func.Ret, "next").(*Method)
	if !ok {
		return nil
	}
	value, ok := Lookup(x, next.Func.Ret, "value").(*Prop)
	if !ok {
		return nil
	}
	return value.Type
}
