// Package check does semantic analysis of TypeScript syntax trees.
//
// An Analyzer validates nodes in a tree of lexical scopes,
// resolving names against the scope chain and then
// against the merged declarations of the builtin libraries.
package check

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/eaburns/tsck/ast"
	"github.com/eaburns/tsck/loc"
	"github.com/eaburns/tsck/types"
	"go.uber.org/zap"
)

// An Analyzer validates syntax trees, accumulating diagnostics.
// An Analyzer is not safe for concurrent use.
type Analyzer struct {
	cfg   Config
	env   *Env
	scope *scope
	errs  []*Error

	// exports collects the exports of the module or namespace being checked.
	exports *types.Module
	// ambient is set inside declare namespace bodies,
	// where every declaration is exported.
	ambient bool
	// builtin is set while merging the builtin libraries.
	builtin bool

	// decls maps declaration nodes to the types built for them.
	decls map[ast.Node]types.Type
	// filled tracks hoisted declarations whose shape has been computed.
	filled map[ast.Node]bool

	sugar  *zap.SugaredLogger
	indent string
}

// New returns a new Analyzer for the given configuration.
// The builtin environment for cfg.Libs is merged on first use
// and shared by all Analyzers with the same libraries.
func New(cfg Config) *Analyzer {
	setConfigDefaults(&cfg)
	return newAnalyzer(cfg, EnvFor(cfg.Libs))
}

// newBuiltinAnalyzer returns an Analyzer used to validate builtin declarations.
// It has no environment; unresolved names become lazy references.
func newBuiltinAnalyzer(locs *loc.Files) *Analyzer {
	cfg := Config{Locs: locs, Logger: zap.L()}
	setConfigDefaults(&cfg)
	a := newAnalyzer(cfg, nil)
	a.builtin = true
	return a
}

func newAnalyzer(cfg Config, env *Env) *Analyzer {
	return &Analyzer{
		cfg:     cfg,
		env:     env,
		scope:   newScope(Module, nil),
		exports: types.NewModule(""),
		decls:   make(map[ast.Node]types.Type),
		filled:  make(map[ast.Node]bool),
		sugar:   cfg.Logger.Sugar(),
	}
}

// Expand implements types.Expander,
// resolving lazy references against the builtin environment.
func (a *Analyzer) Expand(r *types.Ref) types.Type {
	switch {
	case r.Target != nil:
		return r.Target
	case a.env == nil:
		return nil
	default:
		return a.env.Expand(r)
	}
}

// Check validates a file and returns its exports.
func (a *Analyzer) Check(file *ast.File) *types.Module {
	a.exports = types.NewModule(file.Path)
	a.log("check %s", file.Path)
	a.stmts(file.Stmts)
	return a.exports
}

// Validate validates a node and returns its type.
//
// Expressions and type syntax return an error if they are invalid.
// Statements never return an error; their diagnostics are recorded
// and available from Errors.
// The type of a statement is void, or error if it had diagnostics.
func (a *Analyzer) Validate(n ast.Node) (_ types.Type, err error) {
	defer a.tr("Validate(%T)", n)(&err)
	switch n := n.(type) {
	case *ast.File:
		return a.Check(n), nil

	case *ast.VarDecl, *ast.FuncDecl, *ast.InterfaceDecl, *ast.TypeAliasDecl,
		*ast.NamespaceDecl, *ast.ImportDecl, *ast.ExportDecl:
		return a.stmtType(a.stmts([]ast.Stmt{n.(ast.Stmt)})), nil
	case *ast.ClassDecl:
		return a.checkClassExpr(n)
	case *ast.ExprStmt:
		return a.stmtDone(a.checkExprStmt(n))
	case *ast.BlockStmt:
		return a.stmtDone(a.checkBlockStmt(n))
	case *ast.IfStmt:
		return a.stmtDone(a.checkIfStmt(n))
	case *ast.ForStmt:
		return a.stmtDone(a.checkForStmt(n))
	case *ast.ForInStmt:
		return a.stmtDone(a.checkForInStmt(n))
	case *ast.ForOfStmt:
		return a.stmtDone(a.checkForOfStmt(n))
	case *ast.WhileStmt:
		return a.stmtDone(a.checkWhileStmt(n))
	case *ast.ReturnStmt:
		return a.stmtDone(a.checkReturnStmt(n))
	case *ast.ThrowStmt:
		return a.stmtDone(a.checkThrowStmt(n))
	case *ast.BranchStmt, *ast.EmptyStmt:
		return types.Void, nil
	case *ast.BadStmt:
		return a.stmtDone(a.err(n.Range, "unsupported statement %s", n.Kind))

	case *ast.Ident:
		return a.checkIdent(n)
	case *ast.NumLit:
		return a.checkNumLit(n)
	case *ast.StrLit:
		return types.Lit{Kind: types.String, Value: n.Value}, nil
	case *ast.BoolLit:
		return types.Lit{Kind: types.Boolean, Value: strconv.FormatBool(n.Value)}, nil
	case *ast.NullLit:
		return types.Null, nil
	case *ast.RegexLit:
		return a.checkRegexLit(n)
	case *ast.TemplateLit:
		return a.checkTemplateLit(n)
	case *ast.ArrayLit:
		return a.checkArrayLit(n)
	case *ast.SpreadExpr:
		return nil, a.err(n.Range, "spread is not allowed here")
	case *ast.ObjectLit:
		return a.checkObjectLit(n)
	case *ast.MemberExpr:
		return a.checkMemberExpr(n)
	case *ast.IndexExpr:
		return a.checkIndexExpr(n)
	case *ast.CallExpr:
		return a.checkCallExpr(n)
	case *ast.NewExpr:
		return a.checkNewExpr(n)
	case *ast.AssignExpr:
		return a.checkAssignExpr(n)
	case *ast.BinaryExpr:
		return a.checkBinaryExpr(n)
	case *ast.UnaryExpr:
		return a.checkUnaryExpr(n)
	case *ast.UpdateExpr:
		return a.checkUpdateExpr(n)
	case *ast.CondExpr:
		return a.checkCondExpr(n)
	case *ast.FuncExpr:
		return a.checkFuncExpr(n)
	case *ast.AsExpr:
		return a.checkAsExpr(n)
	case *ast.ThisExpr:
		return a.checkThisExpr(n)
	case *ast.AwaitExpr:
		return a.checkAwaitExpr(n)
	case *ast.BadExpr:
		return nil, a.err(n.Range, "unsupported expression %s", n.Kind)

	case *ast.ArrayPat, *ast.ObjectPat, *ast.AssignPat, *ast.ExprPat:
		return a.lvalue(n.(ast.Pat))

	case ast.Type:
		return a.typeExpr(n)

	default:
		panic(fmt.Sprintf("impossible node type %T", n))
	}
}

// stmtDone records the diagnostic of a statement, if any,
// and returns the statement's type.
func (a *Analyzer) stmtDone(err error) (types.Type, error) {
	if err != nil {
		a.report(err)
		return types.Error, nil
	}
	return types.Void, nil
}

func (a *Analyzer) stmtType(ok bool) types.Type {
	if !ok {
		return types.Error
	}
	return types.Void
}

func (a *Analyzer) loc(n ast.Node) loc.Loc {
	if a.cfg.Locs == nil {
		return loc.Loc{}
	}
	return a.cfg.Locs.Loc(n.GetRange())
}

func typeName(v interface{}) string { return fmt.Sprintf("%T", v) }

func (a *Analyzer) tr(f string, vs ...interface{}) func(...interface{}) {
	if !a.cfg.Trace {
		return func(...interface{}) {}
	}
	a.log(f, vs...)
	olddent := a.indent
	a.indent += "---"
	return func(errs ...interface{}) {
		defer func() { a.indent = olddent }()
		if len(errs) == 0 {
			return
		}
		v := reflect.ValueOf(errs[0])
		if v.IsNil() {
			return
		}
		switch e := v.Elem(); e.Kind() {
		case reflect.Slice:
			if e.Len() == 0 {
				return
			}
		case reflect.Interface, reflect.Ptr:
			if e.IsNil() {
				return
			}
		}
		a.log("%v", v.Elem().Interface())
	}
}

func (a *Analyzer) log(f string, vs ...interface{}) {
	if !a.cfg.Trace {
		return
	}
	a.sugar.Debugf(a.indent+f, vs...)
}
