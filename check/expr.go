package check

import (
	"errors"
	"strconv"
	"strings"

	"github.com/eaburns/tsck/ast"
	"github.com/eaburns/tsck/loc"
	"github.com/eaburns/tsck/types"
)

// expr returns the type of an expression.
func (a *Analyzer) expr(n ast.Expr) (types.Type, error) {
	return a.Validate(n)
}

func (a *Analyzer) exprs(ns []ast.Expr) ([]types.Type, error) {
	ts := make([]types.Type, 0, len(ns))
	for _, n := range ns {
		t, err := a.expr(n)
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return ts, nil
}

func (a *Analyzer) checkIdent(n *ast.Ident) (types.Type, error) {
	b, err := a.resolveVar(n.Name)
	var nf *NotFoundError
	switch {
	case errors.As(err, &nf) && n.Name == "undefined":
		return types.Undefined, nil
	case errors.As(err, &nf):
		return nil, a.err(n.Range, "cannot find name %s", n.Name)
	case err != nil:
		return nil, err
	}
	return b.typ, nil
}

func (a *Analyzer) checkNumLit(n *ast.NumLit) (types.Type, error) {
	if strings.HasSuffix(n.Text, "n") && !strings.HasPrefix(n.Text, "0x") {
		return types.Lit{Kind: types.BigInt, Value: strings.TrimSuffix(n.Text, "n")}, nil
	}
	return types.Lit{Kind: types.Number, Value: strconv.FormatFloat(n.Value, 'g', -1, 64)}, nil
}

func (a *Analyzer) checkRegexLit(n *ast.RegexLit) (types.Type, error) {
	if t, err := a.resolveType("RegExp"); err == nil {
		return &types.Ref{Name: "RegExp", Target: t}, nil
	}
	return types.Object, nil
}

func (a *Analyzer) checkTemplateLit(n *ast.TemplateLit) (types.Type, error) {
	if _, err := a.exprs(n.Exprs); err != nil {
		return nil, err
	}
	return types.String, nil
}

func (a *Analyzer) checkArrayLit(n *ast.ArrayLit) (types.Type, error) {
	var elems []types.Type
	for _, e := range n.Elems {
		if s, ok := e.(*ast.SpreadExpr); ok {
			t, err := a.expr(s.X)
			if err != nil {
				return nil, err
			}
			elem := types.ElemType(a, t)
			if elem == nil {
				return nil, a.err(s.Range, "type %s is not iterable", t)
			}
			elems = append(elems, elem)
			continue
		}
		t, err := a.expr(e)
		if err != nil {
			return nil, err
		}
		elems = append(elems, types.Widen(t))
	}
	if len(elems) == 0 {
		return &types.Array{Elem: types.Any}, nil
	}
	return &types.Array{Elem: types.NewUnion(elems...)}, nil
}

func (a *Analyzer) checkObjectLit(n *ast.ObjectLit) (types.Type, error) {
	var ms []types.Member
	index := make(map[string]int)
	add := func(m types.Member) {
		if i, ok := index[m.MemberName()]; ok {
			ms[i] = m
			return
		}
		index[m.MemberName()] = len(ms)
		ms = append(ms, m)
	}
	for _, p := range n.Props {
		t, err := a.expr(p.Value)
		if err != nil {
			return nil, err
		}
		if !p.Spread {
			add(&types.Prop{Name: p.Key, Type: types.Widen(t)})
			continue
		}
		for _, m := range types.Members(a, t) {
			switch m := m.(type) {
			case *types.Prop:
				add(&types.Prop{Name: m.Name, Type: m.Type, Optional: m.Optional})
			case *types.Method:
				add(&types.Prop{Name: m.Name, Type: m.Func, Optional: m.Optional})
			}
		}
	}
	return &types.TypeLit{Members: ms}, nil
}

func (a *Analyzer) checkMemberExpr(n *ast.MemberExpr) (types.Type, error) {
	x, err := a.expr(n.X)
	if err != nil {
		return nil, err
	}
	return a.member(n.Range, x, n.Name, n.Optional)
}

// member returns the type of the named member of a value of type x.
func (a *Analyzer) member(r loc.Range, x types.Type, name string, optional bool) (types.Type, error) {
	switch t := types.Expand(a, x).(type) {
	case types.Keyword:
		switch t {
		case types.Any, types.Error:
			return t, nil
		case types.Null, types.Undefined, types.Void:
			if optional {
				return types.Undefined, nil
			}
			return nil, a.err(r, "object is possibly %s", t)
		}
	case *types.Module:
		if v := types.ModuleValue(t, name); v != nil {
			return v, nil
		}
		return nil, a.err(r, "namespace %s has no exported member %s", t.Name, name)
	case *types.Union:
		var ts []types.Type
		for _, u := range t.Types {
			if optional && (types.IsKeyword(u, types.Null) || types.IsKeyword(u, types.Undefined)) {
				ts = append(ts, types.Undefined)
				continue
			}
			mt, err := a.member(r, u, name, optional)
			if err != nil {
				return nil, a.err(r, "property %s does not exist on type %s", name, x)
			}
			ts = append(ts, mt)
		}
		return types.NewUnion(ts...), nil
	}
	if m := types.Lookup(a, x, name); m != nil {
		return types.MemberType(m), nil
	}
	if it := types.StringIndex(a, x); it != nil {
		return it, nil
	}
	return nil, a.err(r, "property %s does not exist on type %s", name, x)
}

func (a *Analyzer) checkIndexExpr(n *ast.IndexExpr) (types.Type, error) {
	x, err := a.expr(n.X)
	if err != nil {
		return nil, err
	}
	i, err := a.expr(n.Index)
	if err != nil {
		return nil, err
	}
	switch t := types.Expand(a, x).(type) {
	case types.Keyword:
		if t == types.Any || t == types.Error {
			return t, nil
		}
	case *types.Tuple:
		if lit, ok := i.(types.Lit); ok && lit.Kind == types.Number {
			k, err := strconv.Atoi(lit.Value)
			if err != nil || k < 0 || k >= len(t.Elems) {
				return nil, a.err(n.Range, "tuple type %s has no element at index %s", x, lit.Value)
			}
			return t.Elems[k], nil
		}
	}
	if lit, ok := i.(types.Lit); ok && lit.Kind == types.String {
		return a.member(n.Range, x, lit.Value, false)
	}
	switch {
	case types.IsAssignable(a, types.Number, i):
		if it := types.NumberIndex(a, x); it != nil {
			return it, nil
		}
	case types.IsAssignable(a, types.String, i):
		if it := types.StringIndex(a, x); it != nil {
			return it, nil
		}
	default:
		return nil, a.err(n.Index.GetRange(), "type %s cannot be used as an index type", i)
	}
	return nil, a.err(n.Range, "type %s has no matching index signature for type %s", x, i)
}

func (a *Analyzer) checkCallExpr(n *ast.CallExpr) (types.Type, error) {
	fn, err := a.expr(n.Fn)
	if err != nil {
		return nil, err
	}
	return a.call(n.Range, fn, n.TypeArgs, n.Args, false)
}

func (a *Analyzer) checkNewExpr(n *ast.NewExpr) (types.Type, error) {
	fn, err := a.expr(n.Fn)
	if err != nil {
		return nil, err
	}
	if id, ok := n.Fn.(*ast.Ident); ok {
		t, _ := a.resolveType(id.Name)
		if c, ok := types.Unstatic(t).(*types.Class); ok && c.Abstract {
			return nil, a.err(n.Range, "cannot create an instance of an abstract class")
		}
	}
	return a.call(n.Range, fn, n.TypeArgs, n.Args, true)
}

// call returns the result of calling or constructing a value of type fn.
// The first signature that accepts the arguments is chosen.
// Generic signatures are instantiated with the explicit type arguments,
// or with the defaults of their type parameters.
func (a *Analyzer) call(r loc.Range, fn types.Type, typeArgNodes []ast.Type, argNodes []ast.Expr, construct bool) (types.Type, error) {
	typeArgs, err := a.typeExprs(typeArgNodes)
	if err != nil {
		return nil, err
	}
	args, err := a.exprs(argNodes)
	if err != nil {
		return nil, err
	}
	if kw, ok := types.Expand(a, fn).(types.Keyword); ok && (kw == types.Any || kw == types.Error) {
		return kw, nil
	}
	sigs := types.Signatures(a, fn, construct)
	if len(sigs) == 0 {
		if construct {
			return nil, a.err(r, "type %s has no construct signatures", fn)
		}
		return nil, a.err(r, "type %s has no call signatures", fn)
	}
	var first error
	for _, sig := range sigs {
		sig = types.SubstFunc(sig, types.Bind(sig.TypeParams, typeArgs))
		err := a.checkArgs(r, sig, args, argNodes)
		if err == nil {
			if sig.Ret == nil {
				return types.Any, nil
			}
			return sig.Ret, nil
		}
		if first == nil {
			first = err
		}
	}
	if len(sigs) > 1 {
		e := first.(*Error)
		note(e, "no overload matches this call")
	}
	return nil, first
}

func (a *Analyzer) checkArgs(r loc.Range, sig *types.Function, args []types.Type, argNodes []ast.Expr) error {
	lo, hi := 0, len(sig.Params)
	for _, p := range sig.Params {
		if !p.Optional && !p.Rest {
			lo++
		}
		if p.Rest {
			hi = -1
		}
	}
	switch {
	case len(args) < lo && hi < 0:
		return a.err(r, "expected at least %d arguments, but got %d", lo, len(args))
	case len(args) < lo || hi >= 0 && len(args) > hi:
		if lo == hi {
			return a.err(r, "expected %d arguments, but got %d", lo, len(args))
		}
		return a.err(r, "expected %d-%d arguments, but got %d", lo, hi, len(args))
	}
	for i, arg := range args {
		var pt types.Type
		switch p := sig.Params[min(i, len(sig.Params)-1)]; {
		case p.Rest:
			pt = types.Any
			if arr, ok := types.Unstatic(p.Type).(*types.Array); ok {
				pt = arr.Elem
			}
		default:
			pt = p.Type
		}
		if !types.IsAssignable(a, pt, arg) {
			return a.err(argNodes[i].GetRange(), "argument of type %s is not assignable to parameter of type %s", arg, pt)
		}
	}
	return nil
}

func (a *Analyzer) checkAssignExpr(n *ast.AssignExpr) (types.Type, error) {
	lhs, err := a.lvalue(n.Left)
	if err != nil {
		return nil, err
	}
	rhs, err := a.expr(n.Right)
	if err != nil {
		return nil, err
	}
	if n.Op == "=" {
		if !types.IsAssignable(a, lhs, rhs) {
			return nil, a.assignErr(n.Right.GetRange(), lhs, rhs)
		}
		return rhs, nil
	}
	op := strings.TrimSuffix(n.Op, "=")
	t, err := a.binaryOp(n.Range, op, lhs, rhs)
	if err != nil {
		return nil, err
	}
	if !types.IsAssignable(a, lhs, t) {
		return nil, a.assignErr(n.Range, lhs, t)
	}
	return t, nil
}

func (a *Analyzer) assignErr(r loc.Range, dst, src types.Type) *Error {
	return a.err(r, "type %s is not assignable to type %s", src, dst)
}

// lvalue returns the type of an assignment target.
func (a *Analyzer) lvalue(p ast.Pat) (types.Type, error) {
	switch p := p.(type) {
	case *ast.Ident:
		b, err := a.resolveVar(p.Name)
		if err != nil {
			return nil, a.err(p.Range, "cannot find name %s", p.Name)
		}
		if b.konst {
			return nil, a.err(p.Range, "cannot assign to %s because it is a constant", p.Name)
		}
		return b.typ, nil
	case *ast.ExprPat:
		switch x := p.X.(type) {
		case *ast.MemberExpr:
			obj, err := a.expr(x.X)
			if err != nil {
				return nil, err
			}
			if prop, ok := types.Lookup(a, obj, x.Name).(*types.Prop); ok && prop.Readonly {
				return nil, a.err(x.Range, "cannot assign to %s because it is a read-only property", x.Name)
			}
			return a.member(x.Range, obj, x.Name, false)
		case *ast.IndexExpr:
			return a.expr(x)
		}
		return nil, a.err(p.Range, "invalid assignment target")
	case *ast.AssignPat:
		t, err := a.lvalue(p.Left)
		if err != nil {
			return nil, err
		}
		d, err := a.expr(p.Default)
		if err != nil {
			return nil, err
		}
		if !types.IsAssignable(a, t, d) {
			return nil, a.assignErr(p.Default.GetRange(), t, d)
		}
		return t, nil
	case *ast.ArrayPat:
		for _, e := range p.Elems {
			if e == nil {
				continue
			}
			if _, err := a.lvalue(e); err != nil {
				return nil, err
			}
		}
		if p.Rest != nil {
			if _, err := a.lvalue(p.Rest); err != nil {
				return nil, err
			}
		}
		return types.Any, nil
	case *ast.ObjectPat:
		for _, prop := range p.Props {
			if _, err := a.lvalue(prop.Value); err != nil {
				return nil, err
			}
		}
		if p.Rest != nil {
			if _, err := a.lvalue(p.Rest); err != nil {
				return nil, err
			}
		}
		return types.Any, nil
	default:
		panic("impossible pattern: " + typeName(p))
	}
}

func (a *Analyzer) checkBinaryExpr(n *ast.BinaryExpr) (types.Type, error) {
	x, err := a.expr(n.X)
	if err != nil {
		return nil, err
	}
	y, err := a.expr(n.Y)
	if err != nil {
		return nil, err
	}
	return a.binaryOp(n.Range, n.Op, x, y)
}

func (a *Analyzer) binaryOp(r loc.Range, op string, x, y types.Type) (types.Type, error) {
	switch op {
	case ",":
		return y, nil
	case "&&", "||", "??":
		return types.NewUnion(x, y), nil
	case "==", "!=", "===", "!==", "<", ">", "<=", ">=", "instanceof", "in":
		return types.Boolean, nil
	case "+":
		switch {
		case isAny(x) || isAny(y):
			return types.Any, nil
		case a.isKind(x, types.String) || a.isKind(y, types.String):
			return types.String, nil
		case a.isKind(x, types.Number) && a.isKind(y, types.Number):
			return types.Number, nil
		case a.isKind(x, types.BigInt) && a.isKind(y, types.BigInt):
			return types.BigInt, nil
		}
	default:
		switch {
		case isAny(x) || isAny(y):
			return types.Number, nil
		case a.isKind(x, types.Number) && a.isKind(y, types.Number):
			return types.Number, nil
		case a.isKind(x, types.BigInt) && a.isKind(y, types.BigInt):
			return types.BigInt, nil
		}
	}
	return nil, a.err(r, "operator %s cannot be applied to types %s and %s", op, x, y)
}

func isAny(t types.Type) bool {
	return types.IsKeyword(t, types.Any) || types.IsKeyword(t, types.Error)
}

// isKind returns whether t is assignable to the primitive k.
func (a *Analyzer) isKind(t types.Type, k types.Keyword) bool {
	return !types.IsKeyword(t, types.Never) && types.IsAssignable(a, k, t)
}

func (a *Analyzer) checkUnaryExpr(n *ast.UnaryExpr) (types.Type, error) {
	x, err := a.expr(n.X)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "!", "delete":
		return types.Boolean, nil
	case "typeof":
		return types.String, nil
	case "void":
		return types.Undefined, nil
	case "-", "+", "~":
		switch {
		case isAny(x):
			return types.Number, nil
		case n.Op != "+" && a.isKind(x, types.BigInt):
			return types.BigInt, nil
		case n.Op == "+" || a.isKind(x, types.Number):
			return types.Number, nil
		}
	}
	return nil, a.err(n.Range, "operator %s cannot be applied to type %s", n.Op, x)
}

func (a *Analyzer) checkUpdateExpr(n *ast.UpdateExpr) (types.Type, error) {
	var p ast.Pat
	if id, ok := n.X.(*ast.Ident); ok {
		p = id
	} else {
		p = &ast.ExprPat{Range: n.X.GetRange(), X: n.X}
	}
	x, err := a.lvalue(p)
	if err != nil {
		return nil, err
	}
	if !isAny(x) && !a.isKind(x, types.Number) && !a.isKind(x, types.BigInt) {
		return nil, a.err(n.Range, "an arithmetic operand must be of type any, number, or bigint")
	}
	return types.Widen(x), nil
}

func (a *Analyzer) checkCondExpr(n *ast.CondExpr) (types.Type, error) {
	if _, err := a.expr(n.Cond); err != nil {
		return nil, err
	}
	t, err := a.expr(n.Then)
	if err != nil {
		return nil, err
	}
	e, err := a.expr(n.Else)
	if err != nil {
		return nil, err
	}
	return types.NewUnion(t, e), nil
}

func (a *Analyzer) checkFuncExpr(n *ast.FuncExpr) (types.Type, error) {
	sig, err := a.funcType(n.Func)
	if err != nil {
		return nil, err
	}
	if n.Name == nil {
		return a.checkFuncBody(n.Func, sig), nil
	}
	// A named function expression can refer to itself.
	return withChild(a, Block, nil, func() (types.Type, error) {
		if err := a.declareVar(n.Name, n.Name.Name, &binding{typ: sig, node: n, konst: true}); err != nil {
			return nil, err
		}
		return a.checkFuncBody(n.Func, sig), nil
	})
}

func (a *Analyzer) checkAsExpr(n *ast.AsExpr) (types.Type, error) {
	x, err := a.expr(n.X)
	if err != nil {
		return nil, err
	}
	if n.Type == nil {
		return x, nil
	}
	t, err := a.typeExpr(n.Type)
	if err != nil {
		return nil, err
	}
	if !types.IsAssignable(a, t, x) && !types.IsAssignable(a, x, t) {
		return nil, a.err(n.Range, "conversion of type %s to type %s may be a mistake", x, t)
	}
	return t, nil
}

func (a *Analyzer) checkThisExpr(n *ast.ThisExpr) (types.Type, error) {
	if c := a.scope.enclosingClass(); c != nil {
		return instanceType(c), nil
	}
	return types.Any, nil
}

func (a *Analyzer) checkAwaitExpr(n *ast.AwaitExpr) (types.Type, error) {
	x, err := a.expr(n.X)
	if err != nil {
		return nil, err
	}
	return a.awaited(x), nil
}

// awaited returns T of Promise<T> or PromiseLike<T>, or t itself.
func (a *Analyzer) awaited(t types.Type) types.Type {
	if r, ok := types.Unstatic(t).(*types.Ref); ok && len(r.Args) == 1 &&
		(r.Name == "Promise" || r.Name == "PromiseLike") {
		return r.Args[0]
	}
	return t
}

// promise returns Promise<t>, or t if there is no builtin Promise.
func (a *Analyzer) promise(t types.Type) types.Type {
	p, err := a.resolveType("Promise")
	if err != nil {
		return t
	}
	return &types.Ref{Name: "Promise", Args: []types.Type{t}, Target: p}
}
