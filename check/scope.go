package check

import (
	"github.com/eaburns/tsck/ast"
	"github.com/eaburns/tsck/types"
)

// A ScopeKind is the kind of a lexical scope.
type ScopeKind int

const (
	// Module is the scope of a file or namespace body.
	Module ScopeKind = iota
	// Block is the scope of a braced block.
	Block
	// Flow is the scope of a loop or other control-flow construct.
	Flow
	// Func is the scope of a function's parameters and body.
	Func
	// Class is the scope of a class body.
	Class
)

func (k ScopeKind) String() string {
	switch k {
	case Module:
		return "module"
	case Block:
		return "block"
	case Flow:
		return "flow"
	case Func:
		return "function"
	case Class:
		return "class"
	default:
		panic("impossible")
	}
}

type scope struct {
	kind  ScopeKind
	up    *scope
	vars  map[string]*binding
	types map[string]*binding

	// fun is non-nil for Func scopes of functions with bodies.
	fun *funcCtx
	// class is non-nil for Class scopes.
	class *types.Class
	// ns is the path, A.B, of the builtin namespace
	// whose body this scope is.
	ns string
}

// A binding is a declared name.
type binding struct {
	typ   types.Type
	node  ast.Node // nil for implicit declarations
	konst bool
	// isVar is set for names declared with var,
	// which may be redeclared.
	isVar bool
	// overload is set for a function declared without a body.
	overload bool
}

type funcCtx struct {
	// ret is the declared result type, or nil if it is inferred.
	ret     types.Type
	returns []types.Type
	async   bool
}

func newScope(kind ScopeKind, up *scope) *scope {
	return &scope{kind: kind, up: up}
}

// withChild runs body with a new child scope of the current scope,
// restoring the current scope when body returns or panics.
// seed, if non-nil, is called on the child before body runs.
func withChild[T any](a *Analyzer, kind ScopeKind, seed func(*scope), body func() (T, error)) (T, error) {
	prev := a.scope
	a.scope = newScope(kind, prev)
	defer func() { a.scope = prev }()
	if seed != nil {
		seed(a.scope)
	}
	return body()
}

func (s *scope) lookupVar(name string) *binding {
	for ; s != nil; s = s.up {
		if b, ok := s.vars[name]; ok {
			return b
		}
	}
	return nil
}

func (s *scope) lookupType(name string) *binding {
	for ; s != nil; s = s.up {
		if b, ok := s.types[name]; ok {
			return b
		}
	}
	return nil
}

func (s *scope) function() *funcCtx {
	for ; s != nil; s = s.up {
		if s.fun != nil {
			return s.fun
		}
		// Functions without bodies do not stop the search,
		// but class bodies do.
		if s.kind == Class {
			return nil
		}
	}
	return nil
}

func (s *scope) enclosingClass() *types.Class {
	for ; s != nil; s = s.up {
		if s.class != nil {
			return s.class
		}
	}
	return nil
}

// declareVar binds a value name in the scope.
// Redeclaration in the same scope is an error,
// except for var declarations redeclaring a var.
func (a *Analyzer) declareVar(n ast.Node, name string, b *binding) error {
	s := a.scope
	if s.vars == nil {
		s.vars = make(map[string]*binding)
	}
	if prev, ok := s.vars[name]; ok && !redeclarable(prev, b) {
		err := a.err(n.GetRange(), "%s redeclared", name)
		if prev.node != nil {
			note(err, "previous declaration is at %s", a.loc(prev.node))
		}
		return err
	}
	a.log("declare %s %s: %s", s.kind, name, b.typ)
	s.vars[name] = b
	return nil
}

func redeclarable(prev, b *binding) bool {
	return prev.overload || b.overload || prev.isVar && b.isVar
}

// declareType binds a type name in the scope.
// Redeclaration in the same scope is an error;
// merging declarations look up the existing binding first.
func (a *Analyzer) declareType(n ast.Node, name string, typ types.Type) error {
	s := a.scope
	if s.types == nil {
		s.types = make(map[string]*binding)
	}
	if prev, ok := s.types[name]; ok {
		err := a.err(n.GetRange(), "type %s redeclared", name)
		if prev.node != nil {
			note(err, "previous declaration is at %s", a.loc(prev.node))
		}
		return err
	}
	a.log("declare %s type %s", s.kind, name)
	s.types[name] = &binding{typ: typ, node: n}
	return nil
}

// localType returns the type declared with name in the current scope, if any.
func (a *Analyzer) localType(name string) types.Type {
	if b, ok := a.scope.types[name]; ok {
		return b.typ
	}
	return nil
}

// localVar returns the value declared with name in the current scope, if any.
func (a *Analyzer) localVar(name string) *binding {
	return a.scope.vars[name]
}

// namespace returns the path of the innermost builtin namespace being merged,
// or the empty string at the top level.
func (a *Analyzer) namespace() string {
	for s := a.scope; s != nil; s = s.up {
		if s.ns != "" {
			return s.ns
		}
	}
	return ""
}

// resolveVar returns the type of the named value.
// The scope chain is searched first, from the current scope to the root;
// then the builtin variables; then the callable builtin types,
// since builtin functions and namespaces are stored as types.
// Builtin results are wrapped in a *types.Static.
func (a *Analyzer) resolveVar(name string) (*binding, error) {
	if b := a.scope.lookupVar(name); b != nil {
		return b, nil
	}
	if a.env != nil {
		if t, ok := a.env.Vars[name]; ok {
			return &binding{typ: &types.Static{Type: t}}, nil
		}
		switch t := a.env.Types[name].(type) {
		case *types.Function, *types.Module:
			return &binding{typ: &types.Static{Type: t}, konst: true}, nil
		case *types.Class:
			return &binding{typ: &types.Static{Type: a.env.classValues[name]}, konst: true}, nil
		}
	}
	return nil, &NotFoundError{What: "variable", Name: name}
}

// resolveType returns the named type declaration.
// The scope chain is searched first, then the builtin types.
// Builtin results are wrapped in a *types.Static.
//
// While merging builtin declarations, there is no builtin environment yet;
// names that are not in scope are returned as unresolved *types.Refs
// that remember the namespace they were written in.
func (a *Analyzer) resolveType(name string) (types.Type, error) {
	if b := a.scope.lookupType(name); b != nil {
		return b.typ, nil
	}
	if a.builtin {
		return &types.Ref{Name: name, Namespace: a.namespace()}, nil
	}
	if a.env != nil {
		if t, ok := a.env.Types[name]; ok {
			return &types.Static{Type: t}, nil
		}
	}
	return nil, &NotFoundError{What: "type", Name: name}
}
