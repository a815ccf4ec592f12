package types

// Subst returns t with type parameters replaced by their mapping in sub.
// Declarations are not copied;
// references to them substitute only in their type arguments.
// If nothing is substituted, t itself is returned.
func Subst(t Type, sub map[*TypeParam]Type) Type {
	if len(sub) == 0 || t == nil {
		return t
	}
	switch t := t.(type) {
	case *TypeParam:
		if s, ok := sub[t]; ok {
			return s
		}
		return t
	case *Array:
		if e := Subst(t.Elem, sub); e != t.Elem {
			return &Array{Elem: e}
		}
		return t
	case *Tuple:
		if es, ok := substTypes(t.Elems, sub); ok {
			return &Tuple{Elems: es}
		}
		return t
	case *Union:
		if ts, ok := substTypes(t.Types, sub); ok {
			return NewUnion(ts...)
		}
		return t
	case *Intersection:
		if ts, ok := substTypes(t.Types, sub); ok {
			return &Intersection{Types: ts}
		}
		return t
	case *Function:
		return SubstFunc(t, sub)
	case *TypeLit:
		if ms, ok := SubstMembers(t.Members, sub); ok {
			return &TypeLit{Members: ms}
		}
		return t
	case *Ref:
		if as, ok := substTypes(t.Args, sub); ok {
			return &Ref{Name: t.Name, Args: as, Target: t.Target, Namespace: t.Namespace}
		}
		return t
	default:
		return t
	}
}

func substTypes(ts []Type, sub map[*TypeParam]Type) ([]Type, bool) {
	var out []Type
	for i, t := range ts {
		s := Subst(t, sub)
		if s != t && out == nil {
			out = make([]Type, len(ts))
			copy(out, ts[:i])
		}
		if out != nil {
			out[i] = s
		}
	}
	return out, out != nil
}

// SubstFunc returns f with type parameters replaced by their mapping in sub.
func SubstFunc(f *Function, sub map[*TypeParam]Type) *Function {
	if len(sub) == 0 || f == nil {
		return f
	}
	changed := false
	ps := make([]*Param, len(f.Params))
	for i, p := range f.Params {
		ps[i] = p
		if t := Subst(p.Type, sub); t != p.Type {
			c := *p
			c.Type = t
			ps[i] = &c
			changed = true
		}
	}
	ret := Subst(f.Ret, sub)
	if !changed && ret == f.Ret {
		return f
	}
	return &Function{TypeParams: f.TypeParams, Params: ps, Ret: ret}
}

// SubstMembers returns ms with type parameters replaced by their mapping in sub,
// and whether any member changed.
func SubstMembers(ms []Member, sub map[*TypeParam]Type) ([]Member, bool) {
	if len(sub) == 0 {
		return ms, false
	}
	var out []Member
	for i, m := range ms {
		s := substMember(m, sub)
		if s != m && out == nil {
			out = make([]Member, len(ms))
			copy(out, ms[:i])
		}
		if out != nil {
			out[i] = s
		}
	}
	if out == nil {
		return ms, false
	}
	return out, true
}

func substMember(m Member, sub map[*TypeParam]Type) Member {
	switch m := m.(type) {
	case *Prop:
		if t := Subst(m.Type, sub); t != m.Type {
			c := *m
			c.Type = t
			return &c
		}
	case *Method:
		if f := SubstFunc(m.Func, sub); f != m.Func {
			c := *m
			c.Func = f
			return &c
		}
	case *CallSig:
		if f := SubstFunc(m.Func, sub); f != m.Func {
			return &CallSig{Func: f}
		}
	case *ConstructSig:
		if f := SubstFunc(m.Func, sub); f != m.Func {
			return &ConstructSig{Func: f}
		}
	case *IndexSig:
		if t := Subst(m.Type, sub); t != m.Type {
			c := *m
			c.Type = t
			return &c
		}
	}
	return m
}

// Bind returns the substitution binding params to args.
// Parameters without an argument are bound to their default,
// or to any if they have no default.
func Bind(params []*TypeParam, args []Type) map[*TypeParam]Type {
	if len(params) == 0 {
		return nil
	}
	sub := make(map[*TypeParam]Type, len(params))
	for i, p := range params {
		switch {
		case i < len(args):
			sub[p] = args[i]
		case p.Default != nil:
			sub[p] = Subst(p.Default, sub)
		default:
			sub[p] = Any
		}
	}
	return sub
}

// Instantiate returns the generic declaration decl applied to args.
// An instantiated Interface or Class is a copy without type parameters;
// an instantiated Alias is its aliased type.
// Other types are returned unchanged.
func Instantiate(decl Type, args []Type) Type {
	switch d := decl.(type) {
	case *Interface:
		sub := Bind(d.TypeParams, args)
		if sub == nil {
			return d
		}
		ms, _ := SubstMembers(d.Members, sub)
		ext, ok := substTypes(d.Extends, sub)
		if !ok {
			ext = d.Extends
		}
		return &Interface{Name: d.Name, Extends: ext, Members: ms}
	case *Class:
		sub := Bind(d.TypeParams, args)
		if sub == nil {
			return d
		}
		ms, _ := SubstMembers(d.Members, sub)
		return &Class{
			Name:       d.Name,
			Abstract:   d.Abstract,
			Super:      Subst(d.Super, sub),
			Implements: d.Implements,
			Members:    ms,
		}
	case *Alias:
		return Subst(d.Type, Bind(d.TypeParams, args))
	default:
		return decl
	}
}
