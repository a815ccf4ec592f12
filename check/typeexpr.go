package check

import (
	"errors"
	"strings"

	"github.com/eaburns/tsck/ast"
	"github.com/eaburns/tsck/types"
)

// typeExpr returns the type denoted by type syntax.
func (a *Analyzer) typeExpr(n ast.Type) (_ types.Type, err error) {
	defer a.tr("typeExpr(%T)", n)(&err)
	switch n := n.(type) {
	case *ast.KeywordType:
		kw, ok := types.Keywords[n.Name]
		if !ok {
			return nil, a.err(n.Range, "unknown type %s", n.Name)
		}
		return kw, nil
	case *ast.TypeRef:
		return a.typeRef(n)
	case *ast.ArrayType:
		elem, err := a.typeExpr(n.Elem)
		if err != nil {
			return nil, err
		}
		return &types.Array{Elem: elem}, nil
	case *ast.TupleType:
		elems, err := a.typeExprs(n.Elems)
		if err != nil {
			return nil, err
		}
		return &types.Tuple{Elems: elems}, nil
	case *ast.UnionType:
		ts, err := a.typeExprs(n.Types)
		if err != nil {
			return nil, err
		}
		return types.NewUnion(ts...), nil
	case *ast.IntersectionType:
		ts, err := a.typeExprs(n.Types)
		if err != nil {
			return nil, err
		}
		return &types.Intersection{Types: ts}, nil
	case *ast.FuncType:
		f, err := a.funcType(n.Func)
		if err != nil {
			return nil, err
		}
		if n.Construct {
			return &types.TypeLit{Members: []types.Member{&types.ConstructSig{Func: f}}}, nil
		}
		return f, nil
	case *ast.TypeLit:
		var ms []types.Member
		for _, e := range n.Members {
			m, err := a.typeElem(e)
			if err != nil {
				return nil, err
			}
			ms = append(ms, m)
		}
		return &types.TypeLit{Members: ms}, nil
	case *ast.LitType:
		t, err := a.expr(n.Lit)
		if err != nil {
			return nil, err
		}
		if _, ok := t.(types.Lit); !ok {
			return nil, a.err(n.Range, "invalid literal type")
		}
		return t, nil
	case *ast.TypeQuery:
		return a.typeQuery(n)
	case *ast.ThisType:
		if c := a.scope.enclosingClass(); c != nil {
			return instanceType(c), nil
		}
		return types.This, nil
	case *ast.BadType:
		if a.builtin {
			return types.Any, nil
		}
		return nil, a.err(n.Range, "unsupported type syntax %s", n.Kind)
	default:
		panic("impossible type: " + strings.TrimPrefix(typeName(n), "*ast."))
	}
}

func (a *Analyzer) typeExprs(ns []ast.Type) ([]types.Type, error) {
	ts := make([]types.Type, 0, len(ns))
	for _, n := range ns {
		t, err := a.typeExpr(n)
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return ts, nil
}

// optType returns the type of optional type syntax,
// or def if it is absent.
func (a *Analyzer) optType(n ast.Type, def types.Type) (types.Type, error) {
	if n == nil {
		return def, nil
	}
	return a.typeExpr(n)
}

func (a *Analyzer) typeRef(n *ast.TypeRef) (types.Type, error) {
	args, err := a.typeExprs(n.Args)
	if err != nil {
		return nil, err
	}
	name := strings.Join(n.Name, ".")
	if a.builtin && len(n.Name) > 1 {
		return &types.Ref{Name: name, Args: args, Namespace: a.namespace()}, nil
	}

	decl, err := a.resolveType(n.Name[0])
	var nf *NotFoundError
	switch {
	case errors.As(err, &nf):
		return nil, a.err(n.Range, "cannot find name %s", n.Name[0])
	case err != nil:
		return nil, err
	}
	for _, sel := range n.Name[1:] {
		mod, ok := types.Unstatic(decl).(*types.Module)
		if !ok {
			return nil, a.err(n.Range, "%s is not a namespace", decl)
		}
		if decl, ok = mod.Types[sel]; !ok {
			return nil, a.err(n.Range, "namespace %s has no exported type %s", mod.Name, sel)
		}
	}

	switch d := types.Unstatic(decl).(type) {
	case *types.Ref:
		// An unresolved reference while merging builtins.
		return &types.Ref{Name: d.Name, Args: args, Namespace: d.Namespace}, nil
	case *types.TypeParam:
		if len(args) > 0 {
			return nil, a.err(n.Range, "type %s is not generic", name)
		}
		return d, nil
	case *types.Module:
		return nil, a.err(n.Range, "cannot use namespace %s as a type", name)
	case *types.Function:
		return nil, a.err(n.Range, "%s refers to a value, but is being used as a type", name)
	}
	if !a.builtin {
		if err := a.checkTypeArgs(n, name, decl, args); err != nil {
			return nil, err
		}
	}
	return &types.Ref{Name: name, Args: args, Target: decl}, nil
}

func (a *Analyzer) checkTypeArgs(n *ast.TypeRef, name string, decl types.Type, args []types.Type) error {
	var params []*types.TypeParam
	switch d := types.Unstatic(decl).(type) {
	case *types.Interface:
		params = d.TypeParams
	case *types.Class:
		params = d.TypeParams
	case *types.Alias:
		params = d.TypeParams
	}
	required := 0
	for _, p := range params {
		if p.Default == nil {
			required++
		}
	}
	switch {
	case len(params) == 0 && len(args) > 0:
		return a.err(n.Range, "type %s is not generic", name)
	case len(args) > len(params) || len(args) < required:
		return a.err(n.Range, "generic type %s requires %d type argument(s)", name, required)
	}
	for i, arg := range args {
		if c := params[i].Constraint; c != nil && !types.IsAssignable(a, c, arg) {
			return a.err(n.Args[i].GetRange(), "type %s does not satisfy the constraint %s", arg, c)
		}
	}
	return nil
}

func (a *Analyzer) typeQuery(n *ast.TypeQuery) (types.Type, error) {
	b, err := a.resolveVar(n.Name[0])
	if err != nil {
		return nil, a.err(n.Range, "cannot find name %s", n.Name[0])
	}
	t := b.typ
	for _, sel := range n.Name[1:] {
		m := types.Lookup(a, t, sel)
		if m == nil {
			return nil, a.err(n.Range, "property %s does not exist on type %s", sel, t)
		}
		t = types.MemberType(m)
	}
	return t, nil
}

// typeParams declares type parameters in the current scope.
// If existing is non-nil, the parameters were created when the declaration
// was hoisted, or by an earlier declaration merged with this one;
// the names are bound to them and any missing constraints are filled in.
func (a *Analyzer) typeParams(ns []*ast.TypeParam, existing []*types.TypeParam) ([]*types.TypeParam, error) {
	tps := existing
	switch {
	case tps == nil:
		tps = newTypeParams(ns)
	case len(ns) > 0 && len(ns) != len(tps):
		return nil, a.err(ns[0].Range, "all declarations must have identical type parameters")
	}
	for i, n := range ns {
		if err := a.declareType(n, n.Name, tps[i]); err != nil {
			return nil, err
		}
	}
	for i, n := range ns {
		var err error
		if tps[i].Constraint == nil {
			if tps[i].Constraint, err = a.optType(n.Constraint, nil); err != nil {
				return nil, err
			}
		}
		if tps[i].Default == nil {
			if tps[i].Default, err = a.optType(n.Default, nil); err != nil {
				return nil, err
			}
		}
	}
	return tps, nil
}

func newTypeParams(ns []*ast.TypeParam) []*types.TypeParam {
	if len(ns) == 0 {
		return nil
	}
	tps := make([]*types.TypeParam, len(ns))
	for i, n := range ns {
		tps[i] = &types.TypeParam{Name: n.Name}
	}
	return tps
}

// funcType returns the signature of a function.
// Unannotated parameters are any.
// An unannotated result is nil; it is inferred from the body, if any.
func (a *Analyzer) funcType(n *ast.Func) (*types.Function, error) {
	return withChild(a, Func, nil, func() (*types.Function, error) {
		tps, err := a.typeParams(n.TypeParams, nil)
		if err != nil {
			return nil, err
		}
		f := &types.Function{TypeParams: tps}
		for _, p := range n.Params {
			pt, err := a.optType(p.Type, nil)
			if err != nil {
				return nil, err
			}
			if pt == nil {
				pt = types.Any
				if p.Rest {
					pt = &types.Array{Elem: types.Any}
				}
			}
			f.Params = append(f.Params, &types.Param{
				Name:     paramName(p.Name),
				Type:     pt,
				Optional: p.Optional || p.Default != nil,
				Rest:     p.Rest,
			})
		}
		if f.Ret, err = a.optType(n.Ret, nil); err != nil {
			return nil, err
		}
		if f.Ret == nil && n.Body == nil && n.Expr == nil {
			f.Ret = types.Any
		}
		return f, nil
	})
}

func paramName(p ast.Pat) string {
	if id, ok := p.(*ast.Ident); ok {
		return id.Name
	}
	return "_"
}

// typeElem returns the member of an interface or type literal.
func (a *Analyzer) typeElem(n ast.TypeElem) (types.Member, error) {
	switch n := n.(type) {
	case *ast.PropSig:
		t, err := a.optType(n.Type, types.Any)
		if err != nil {
			return nil, err
		}
		return &types.Prop{Name: n.Name, Type: t, Optional: n.Optional, Readonly: n.Readonly}, nil
	case *ast.MethodSig:
		f, err := a.funcType(n.Func)
		if err != nil {
			return nil, err
		}
		return &types.Method{Name: n.Name, Func: f, Optional: n.Optional}, nil
	case *ast.CallSig:
		f, err := a.funcType(n.Func)
		if err != nil {
			return nil, err
		}
		return &types.CallSig{Func: f}, nil
	case *ast.ConstructSig:
		f, err := a.funcType(n.Func)
		if err != nil {
			return nil, err
		}
		return &types.ConstructSig{Func: f}, nil
	case *ast.IndexSig:
		return a.indexSig(n)
	default:
		panic("impossible type element: " + typeName(n))
	}
}

func (a *Analyzer) indexSig(n *ast.IndexSig) (*types.IndexSig, error) {
	var key types.Type = types.String
	if n.Key != nil {
		var err error
		if key, err = a.optType(n.Key.Type, types.String); err != nil {
			return nil, err
		}
	}
	if !types.IsKeyword(key, types.String) && !types.IsKeyword(key, types.Number) && !types.IsKeyword(key, types.Symbol) {
		return nil, a.err(n.Range, "an index signature parameter type must be string, number, or symbol")
	}
	t, err := a.optType(n.Type, types.Any)
	if err != nil {
		return nil, err
	}
	return &types.IndexSig{Key: key, Type: t, Readonly: n.Readonly, Static: n.Static}, nil
}
