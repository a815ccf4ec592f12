package types

// Equal returns whether two types are identical.
//
// Statics are equal if they refer to the same cached type.
// Declarations are equal only to themselves.
// All other types are compared structurally.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch a := a.(type) {
	case *Static:
		b, ok := b.(*Static)
		return ok && a.Type == b.Type
	case Keyword, Lit:
		return a == b
	case *Array:
		b, ok := b.(*Array)
		return ok && Equal(a.Elem, b.Elem)
	case *Tuple:
		b, ok := b.(*Tuple)
		return ok && equalTypes(a.Elems, b.Elems)
	case *Union:
		b, ok := b.(*Union)
		return ok && sameSet(a.Types, b.Types)
	case *Intersection:
		b, ok := b.(*Intersection)
		return ok && sameSet(a.Types, b.Types)
	case *Function:
		b, ok := b.(*Function)
		return ok && equalFuncs(a, b)
	case *TypeLit:
		b, ok := b.(*TypeLit)
		return ok && equalMembers(a.Members, b.Members)
	case *Ref:
		b, ok := b.(*Ref)
		return ok && a.Name == b.Name && a.Namespace == b.Namespace &&
			Unstatic(a.Target) == Unstatic(b.Target) && equalTypes(a.Args, b.Args)
	case *TypeParam, *Interface, *Class, *Alias, *Module:
		return a == b
	default:
		panic("impossible")
	}
}

func equalTypes(as, bs []Type) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !Equal(as[i], bs[i]) {
			return false
		}
	}
	return true
}

// sameSet returns whether each type of as is in bs and vice versa.
func sameSet(as, bs []Type) bool {
	return subset(as, bs) && subset(bs, as)
}

func subset(as, bs []Type) bool {
next:
	for _, a := range as {
		for _, b := range bs {
			if Equal(a, b) {
				continue next
			}
		}
		return false
	}
	return true
}

func equalFuncs(a, b *Function) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil ||
		len(a.TypeParams) != len(b.TypeParams) ||
		len(a.Params) != len(b.Params) ||
		!Equal(a.Ret, b.Ret) {
		return false
	}
	// Type parameters are bound by the function,
	// so compare the bodies with b's parameters renamed to a's.
	var sub map[*TypeParam]Type
	if len(a.TypeParams) > 0 {
		sub = make(map[*TypeParam]Type, len(a.TypeParams))
		for i, tp := range b.TypeParams {
			sub[tp] = a.TypeParams[i]
		}
	}
	for i, pa := range a.Params {
		pb := b.Params[i]
		if pa.Optional != pb.Optional || pa.Rest != pb.Rest || !Equal(pa.Type, Subst(pb.Type, sub)) {
			return false
		}
	}
	return Equal(a.Ret, Subst(b.Ret, sub))
}

func equalMembers(as, bs []Member) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !equalMember(as[i], bs[i]) {
			return false
		}
	}
	return true
}

func equalMember(a, b Member) bool {
	switch a := a.(type) {
	case *Prop:
		b, ok := b.(*Prop)
		return ok && a.Name == b.Name && a.Optional == b.Optional &&
			a.Readonly == b.Readonly && a.Static == b.Static && Equal(a.Type, b.Type)
	case *Method:
		b, ok := b.(*Method)
		return ok && a.Name == b.Name && a.Optional == b.Optional &&
			a.Static == b.Static && equalFuncs(a.Func, b.Func)
	case *CallSig:
		b, ok := b.(*CallSig)
		return ok && equalFuncs(a.Func, b.Func)
	case *ConstructSig:
		b, ok := b.(*ConstructSig)
		return ok && equalFuncs(a.Func, b.Func)
	case *IndexSig:
		b, ok := b.(*IndexSig)
		return ok && a.Readonly == b.Readonly && a.Static == b.Static &&
			Equal(a.Key, b.Key) && Equal(a.Type, b.Type)
	default:
		panic("impossible")
	}
}
