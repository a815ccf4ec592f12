package check

import (
	"github.com/eaburns/tsck/ast"
	"github.com/eaburns/tsck/loc"
	"github.com/eaburns/tsck/types"
)

// A loopTarget is the checked left-hand side of a for-in or for-of statement.
type loopTarget struct {
	// typ is the type of the target,
	// or nil if it is a declaration without a type annotation,
	// whose type is determined by the right-hand side.
	typ  types.Type
	decl *ast.VarDecl
	r    loc.Range
}

// bindLoopTarget binds an unannotated declaration target to the type t.
func (a *Analyzer) bindLoopTarget(lhs *loopTarget, t types.Type) {
	if lhs == nil || lhs.typ != nil || lhs.decl == nil {
		return
	}
	for _, d := range lhs.decl.Decls {
		a.report(a.bindPat(d.Name, t, lhs.decl.Kind))
	}
	lhs.typ = t
}

func (a *Analyzer) checkForOfStmt(n *ast.ForOfStmt) error {
	return a.checkLoop("for-of", n.Left, n.Right, n.Body, func(lhs *loopTarget, rhs types.Type) error {
		return a.forOfCompat(n, lhs, rhs)
	})
}

func (a *Analyzer) checkForInStmt(n *ast.ForInStmt) error {
	return a.checkLoop("for-in", n.Left, n.Right, n.Body, func(lhs *loopTarget, rhs types.Type) error {
		return a.forInCompat(n, lhs, rhs)
	})
}

// checkLoop checks a for-in or for-of statement.
// The left-hand side is checked first, binding any declared variables
// in a Flow scope enclosing the whole statement.
// The right-hand side is checked in its own scope,
// unless the left-hand side declares no variables.
// If both sides are valid, compat checks that they are compatible.
// Finally, the body is checked in its own Flow scope.
func (a *Analyzer) checkLoop(what string, left ast.ForHead, right ast.Expr, body ast.Stmt, compat func(*loopTarget, types.Type) error) error {
	_, err := withChild(a, Flow, nil, func() (struct{}, error) {
		lhs, lhsErr := a.loopLHS(what, left)
		a.report(lhsErr)

		var rhs types.Type
		var rhsErr error
		if lhs == nil || lhs.decl == nil || len(lhs.decl.Decls) > 0 {
			rhs, rhsErr = withChild(a, Block, nil, func() (types.Type, error) {
				return a.expr(right)
			})
			a.report(rhsErr)
		} else {
			a.log("%s: no declarators; skipping the iterable", what)
		}

		var err error
		if lhsErr == nil && rhsErr == nil && rhs != nil {
			err = compat(lhs, rhs)
		}
		a.bindLoopTarget(lhs, types.Error)
		a.flowStmt(body)
		return struct{}{}, err
	})
	return err
}

// loopLHS checks the left-hand side of a for-in or for-of statement.
// Declarations are bound in the current scope,
// except that unannotated declarations are bound once the type is known.
func (a *Analyzer) loopLHS(what string, left ast.ForHead) (*loopTarget, error) {
	switch l := left.(type) {
	case *ast.VarDecl:
		lhs := &loopTarget{decl: l, r: l.Range}
		if len(l.Decls) == 0 {
			return lhs, nil
		}
		if len(l.Decls) > 1 {
			a.bindLoopTarget(lhs, types.Error)
			return lhs, a.err(l.Range, "only a single variable declaration is allowed in a %s statement", what)
		}
		d := l.Decls[0]
		if d.Init != nil {
			a.bindLoopTarget(lhs, types.Error)
			return lhs, a.err(d.Init.GetRange(), "the variable declaration of a %s statement cannot have an initializer", what)
		}
		if d.Type == nil {
			return lhs, nil
		}
		t, err := a.typeExpr(d.Type)
		if err != nil {
			a.bindLoopTarget(lhs, types.Error)
			return lhs, err
		}
		lhs.typ = t
		return lhs, a.bindPat(d.Name, t, l.Kind)
	case ast.Pat:
		t, err := a.lvalue(l)
		if err != nil {
			return nil, err
		}
		return &loopTarget{typ: t, r: l.GetRange()}, nil
	default:
		panic("impossible for head: " + typeName(left))
	}
}

// forOfCompat checks that the elements of rhs can be assigned to lhs.
// Unannotated declarations are bound to the element type.
// An array source must be assignable to an array of the target type;
// other iterables must produce elements assignable to the target.
func (a *Analyzer) forOfCompat(n *ast.ForOfStmt, lhs *loopTarget, rhs types.Type) error {
	elem := types.ElemType(a, rhs)
	if elem == nil {
		return a.err(n.Right.GetRange(), "type %s is not iterable", rhs)
	}
	if n.Await {
		elem = a.awaited(elem)
	}
	if lhs.typ == nil {
		a.bindLoopTarget(lhs, elem)
		return nil
	}
	if a.isArrayLike(rhs) && !n.Await {
		want := &types.Array{Elem: lhs.typ}
		if !types.IsAssignable(a, want, rhs) {
			return a.assignErr(n.Right.GetRange(), want, rhs)
		}
		return nil
	}
	if !types.IsAssignable(a, lhs.typ, elem) {
		return a.assignErr(lhs.r, lhs.typ, elem)
	}
	return nil
}

func (a *Analyzer) isArrayLike(t types.Type) bool {
	if r, ok := types.Unstatic(t).(*types.Ref); ok && (r.Name == "Array" || r.Name == "ReadonlyArray") {
		return true
	}
	switch types.Expand(a, t).(type) {
	case *types.Array, *types.Tuple:
		return true
	default:
		return false
	}
}

// forInCompat checks that the keys of rhs, strings, can be assigned to lhs,
// and that rhs is an object.
// Unannotated declarations are bound to string.
func (a *Analyzer) forInCompat(n *ast.ForInStmt, lhs *loopTarget, rhs types.Type) error {
	if !a.isObjectLike(rhs) {
		return a.err(n.Right.GetRange(), "the right-hand side of a for-in statement must be of type any, an object type, or a type parameter, but here has type %s", rhs)
	}
	if lhs.typ == nil {
		a.bindLoopTarget(lhs, types.String)
		return nil
	}
	if !types.IsAssignable(a, lhs.typ, types.String) {
		return a.err(lhs.r, "the left-hand side of a for-in statement must be of type string or any")
	}
	return nil
}

func (a *Analyzer) isObjectLike(t types.Type) bool {
	switch t := types.Expand(a, t).(type) {
	case types.Keyword:
		switch t {
		case types.Any, types.Unknown, types.Object, types.Error:
			return true
		}
		return false
	case types.Lit:
		return false
	case *types.Union:
		for _, u := range t.Types {
			if !a.isObjectLike(u) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
