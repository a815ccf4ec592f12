package check

import (
	"github.com/eaburns/tsck/ast"
	"github.com/eaburns/tsck/loc"
	"github.com/eaburns/tsck/types"
)

func (a *Analyzer) checkExprStmt(n *ast.ExprStmt) error {
	_, err := a.expr(n.X)
	return err
}

func (a *Analyzer) checkBlockStmt(n *ast.BlockStmt) error {
	_, err := withChild(a, Block, nil, func() (struct{}, error) {
		a.stmts(n.Stmts)
		return struct{}{}, nil
	})
	return err
}

// flowStmt validates a statement that is the body or branch
// of a control-flow construct in its own Flow scope.
func (a *Analyzer) flowStmt(n ast.Stmt) {
	withChild(a, Flow, nil, func() (struct{}, error) {
		a.stmts([]ast.Stmt{n})
		return struct{}{}, nil
	})
}

func (a *Analyzer) checkIfStmt(n *ast.IfStmt) error {
	_, err := a.expr(n.Cond)
	a.report(err)
	a.flowStmt(n.Then)
	if n.Else != nil {
		a.flowStmt(n.Else)
	}
	return nil
}

func (a *Analyzer) checkForStmt(n *ast.ForStmt) error {
	_, err := withChild(a, Flow, nil, func() (struct{}, error) {
		if n.Init != nil {
			a.stmts([]ast.Stmt{n.Init})
		}
		if n.Cond != nil {
			_, err := a.expr(n.Cond)
			a.report(err)
		}
		if n.Post != nil {
			_, err := a.expr(n.Post)
			a.report(err)
		}
		a.flowStmt(n.Body)
		return struct{}{}, nil
	})
	return err
}

func (a *Analyzer) checkWhileStmt(n *ast.WhileStmt) error {
	_, err := a.expr(n.Cond)
	a.report(err)
	a.flowStmt(n.Body)
	return nil
}

func (a *Analyzer) checkReturnStmt(n *ast.ReturnStmt) error {
	fun := a.scope.function()
	if fun == nil {
		return a.err(n.Range, "a return statement can only be used within a function body")
	}
	var t types.Type = types.Void
	if n.X != nil {
		var err error
		if t, err = a.expr(n.X); err != nil {
			fun.returns = append(fun.returns, types.Error)
			return err
		}
	}
	return a.returned(n.Range, fun, t)
}

// returned records a value of type t returned from the function fun,
// checking it against the declared result type.
// Async functions return the awaited type of their result.
func (a *Analyzer) returned(r loc.Range, fun *funcCtx, t types.Type) error {
	if fun.async {
		t = a.awaited(t)
	}
	fun.returns = append(fun.returns, types.Widen(t))
	if fun.ret == nil {
		return nil
	}
	want := fun.ret
	if fun.async {
		want = a.awaited(want)
	}
	if !types.IsAssignable(a, want, t) {
		return a.assignErr(r, want, t)
	}
	return nil
}

func (a *Analyzer) checkThrowStmt(n *ast.ThrowStmt) error {
	_, err := a.expr(n.X)
	return err
}
