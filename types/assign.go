// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

// IsAssignable returns whether a value of type src
// may be assigned to a location of type dst.
//
// The relation is structural.
// References are expanded through x, which may be nil.
// Recursive types are handled by assuming a pair of types
// is assignable while it is being checked.
func IsAssignable(x Expander, dst, src Type) bool {
	a := &assigner{x: x, seen: make(map[[2]Type]bool)}
	return a.assignable(dst, src, 0)
}

type assigner struct {
	x    Expander
	seen map[[2]Type]bool
}

func (a *assigner) assignable(dst, src Type, depth int) bool {
	if depth > maxExpand {
		return true
	}
	dst, src = Unstatic(dst), Unstatic(src)
	if dst == nil || src == nil || Equal(dst, src) {
		return true
	}
	if kw, ok := dst.(Keyword); ok && (kw == Any || kw == Unknown || kw == Error || kw == This) {
		return true
	}
	if kw, ok := src.(Keyword); ok && (kw == Any || kw == Error || kw == Never || kw == This) {
		return true
	}

	key := [2]Type{dst, src}
	if r, ok := a.seen[key]; ok {
		return r
	}
	a.seen[key] = true
	r := a.check(dst, src, depth+1)
	a.seen[key] = r
	return r
}

func (a *assigner) check(dst, src Type, depth int) bool {
	dst, src = arrayRef(dst), arrayRef(src)
	// Unions and intersections on the source side distribute first,
	// so that string | number is not assignable to string.
	switch s := src.(type) {
	case *Union:
		for _, m := range s.Types {
			if !a.assignable(dst, m, depth) {
				return false
			}
		}
		return true
	case *Intersection:
		for _, m := range s.Types {
			if a.assignable(dst, m, depth) {
				return true
			}
		}
		// Otherwise the combined members are checked below.
	case *TypeParam:
		if s.Constraint != nil {
			return a.assignable(dst, s.Constraint, depth)
		}
		return false
	}

	switch d := dst.(type) {
	case *Union:
		for _, m := range d.Types {
			if a.assignable(m, src, depth) {
				return true
			}
		}
		return false
	case *Intersection:
		for _, m := range d.Types {
			if !a.assignable(m, src, depth) {
				return false
			}
		}
		return true
	}

	if d, ok := dst.(*Ref); ok {
		if s, ok := src.(*Ref); ok && sameDecl(a.x, d, s) {
			return a.sameDeclArgs(d, s, depth)
		}
	}
	if isRef(dst) || isRef(src) {
		return a.assignable(Expand(a.x, dst), Expand(a.x, src), depth)
	}

	switch d := dst.(type) {
	case Keyword:
		return a.keyword(d, src)
	case Lit:
		return false
	case *TypeParam:
		return false
	case *Array:
		return a.array(d, src, depth)
	case *Tuple:
		s, ok := src.(*Tuple)
		if !ok || len(s.Elems) != len(d.Elems) {
			return false
		}
		for i := range d.Elems {
			if !a.assignable(d.Elems[i], s.Elems[i], depth) {
				return false
			}
		}
		return true
	case *Function:
		for _, sf := range Signatures(a.x, src, false) {
			if a.function(d, sf, depth) {
				return true
			}
		}
		return false
	case *Module:
		return false
	default:
		return a.structural(dst, src, depth)
	}
}

// arrayRef returns a reference to the builtin Array or ReadonlyArray as an *Array.
func arrayRef(t Type) Type {
	r, ok := t.(*Ref)
	if !ok || len(r.Args) != 1 || (r.Name != "Array" && r.Name != "ReadonlyArray") {
		return t
	}
	if r.Target != nil {
		if _, ok := r.Target.(*Static); !ok {
			return t
		}
	}
	return &Array{Elem: r.Args[0]}
}

func isRef(t Type) bool {
	switch t.(type) {
	case *Ref, *Alias:
		return true
	}
	return false
}

// sameDecl returns whether two references name the same declaration.
func sameDecl(x Expander, d, s *Ref) bool {
	if d.Name != s.Name || len(d.Args) != len(s.Args) {
		return false
	}
	dt, st := d.Target, s.Target
	if dt == nil && x != nil {
		dt = x.Expand(d)
	}
	if st == nil && x != nil {
		st = x.Expand(s)
	}
	if _, ok := Unstatic(dt).(*Alias); ok {
		return false
	}
	return Unstatic(dt) == Unstatic(st)
}

// sameDeclArgs treats type arguments covariantly.
func (a *assigner) sameDeclArgs(d, s *Ref, depth int) bool {
	for i := range d.Args {
		if !a.assignable(d.Args[i], s.Args[i], depth) {
			return false
		}
	}
	return true
}

func (a *assigner) keyword(d Keyword, src Type) bool {
	switch s := src.(type) {
	case Keyword:
		switch d {
		case Void:
			return s == Undefined
		case Object:
			return !isPrimitive(s)
		}
		return false
	case Lit:
		return s.Kind == d
	case *Array, *Tuple, *Function, *TypeLit, *Interface, *Class, *Module, *Intersection:
		return d == Object
	default:
		return false
	}
}

func isPrimitive(k Keyword) bool {
	switch k {
	case Number, String, Boolean, BigInt, Symbol, Undefined, Null, Void:
		return true
	}
	return false
}

func (a *assigner) array(d *Array, src Type, depth int) bool {
	switch s := src.(type) {
	case *Array:
		return a.assignable(d.Elem, s.Elem, depth)
	case *Tuple:
		for _, e := range s.Elems {
			if !a.assignable(d.Elem, e, depth) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// function checks parameters bivariantly and the result covariantly.
// A source with fewer parameters is accepted,
// since the extra arguments are ignored.
func (a *assigner) function(d, s *Function, depth int) bool {
	if required(s) > len(d.Params) && !hasRest(d) {
		return false
	}
	for i, sp := range s.Params {
		var dp *Param
		switch {
		case i < len(d.Params):
			dp = d.Params[i]
		case hasRest(d):
			dp = d.Params[len(d.Params)-1]
		default:
			continue
		}
		dt, st := paramType(dp), paramType(sp)
		if !a.assignable(dt, st, depth) && !a.assignable(st, dt, depth) {
			return false
		}
	}
	if d.Ret == nil || IsKeyword(d.Ret, Void) {
		return true
	}
	return a.assignable(d.Ret, s.Ret, depth)
}

func required(f *Function) int {
	n := 0
	for _, p := range f.Params {
		if !p.Optional && !p.Rest {
			n++
		}
	}
	return n
}

func hasRest(f *Function) bool {
	return len(f.Params) > 0 && f.Params[len(f.Params)-1].Rest
}

// paramType returns the element type of rest parameters.
func paramType(p *Param) Type {
	if p.Type == nil {
		return Any
	}
	if p.Rest {
		if arr, ok := Unstatic(p.Type).(*Array); ok {
			return arr.Elem
		}
	}
	return p.Type
}

// structural checks that src has every member required by dst.
func (a *assigner) structural(dst, src Type, depth int) bool {
	if k, ok := Expand(a.x, src).(Keyword); ok {
		switch k {
		case Null, Undefined, Void, Unknown:
			return false
		}
	}
	srcMembers := Members(a.x, src)
	find := func(name string) Member {
		for _, m := range srcMembers {
			if m.MemberName() == name {
				return m
			}
		}
		return nil
	}
	for _, dm := range Members(a.x, dst) {
		switch dm := dm.(type) {
		case *Prop:
			sm := find(dm.Name)
			if sm == nil {
				if dm.Optional {
					continue
				}
				return false
			}
			if !a.assignable(dm.Type, MemberType(sm), depth) {
				return false
			}
		case *Method:
			sm := find(dm.Name)
			if sm == nil {
				if dm.Optional {
					continue
				}
				return false
			}
			if !a.assignable(dm.Func, MemberType(sm), depth) {
				return false
			}
		case *CallSig:
			if !a.hasSig(dm.Func, src, false, depth) {
				return false
			}
		case *ConstructSig:
			if !a.hasSig(dm.Func, src, true, depth) {
				return false
			}
		case *IndexSig:
			for _, sm := range srcMembers {
				switch sm := sm.(type) {
				case *Prop:
					if !a.assignable(dm.Type, sm.Type, depth) {
						return false
					}
				case *IndexSig:
					if !a.assignable(dm.Type, sm.Type, depth) {
						return false
					}
				}
			}
		}
	}
	return true
}

func (a *assigner) hasSig(d *Function, src Type, construct bool, depth int) bool {
	for _, sf := range Signatures(a.x, src, construct) {
		if a.function(d, sf, depth) {
			return true
		}
	}
	return false
}
