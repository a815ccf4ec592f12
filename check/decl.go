package check

import (
	"github.com/eaburns/tsck/ast"
	"github.com/eaburns/tsck/types"
)

// stmts validates a list of statements in the current scope,
// reporting diagnostics, and returns whether there were none.
//
// Declarations are hoisted.
// First, the names of interfaces, aliases, classes, and namespaces
// are declared, and imports are bound.
// Second, the shapes of interfaces and aliases are computed,
// followed by classes, function signatures, and namespace bodies.
// Last, statements and function bodies are checked in order,
// and exports are collected.
func (a *Analyzer) stmts(ss []ast.Stmt) bool {
	n := len(a.errs)
	for _, s := range ss {
		a.report(a.declare(s))
	}
	for _, s := range ss {
		if isTypeDecl(s) {
			a.report(a.fill(s))
		}
	}
	for _, s := range ss {
		if !isTypeDecl(s) {
			a.report(a.fill(s))
		}
	}
	for _, s := range ss {
		a.body(s)
	}
	for _, s := range ss {
		a.report(a.export(s))
	}
	return len(a.errs) == n
}

// unexport returns the declaration of an export declaration, or s itself.
func unexport(s ast.Stmt) ast.Stmt {
	if e, ok := s.(*ast.ExportDecl); ok && e.Decl != nil {
		return e.Decl
	}
	return s
}

func isTypeDecl(s ast.Stmt) bool {
	switch unexport(s).(type) {
	case *ast.InterfaceDecl, *ast.TypeAliasDecl:
		return true
	default:
		return false
	}
}

func (a *Analyzer) declare(s ast.Stmt) error {
	switch s := unexport(s).(type) {
	case *ast.InterfaceDecl:
		return a.declareInterface(s)
	case *ast.TypeAliasDecl:
		alias := &types.Alias{Name: s.Name.Name, TypeParams: newTypeParams(s.TypeParams)}
		if err := a.declareType(s, s.Name.Name, alias); err != nil {
			return err
		}
		a.decls[s] = alias
	case *ast.ClassDecl:
		return a.declareClass(s)
	case *ast.NamespaceDecl:
		return a.declareNamespace(s)
	case *ast.ImportDecl:
		return a.checkImport(s)
	}
	return nil
}

func (a *Analyzer) fill(s ast.Stmt) error {
	switch s := unexport(s).(type) {
	case *ast.InterfaceDecl:
		if iface, ok := a.decls[s].(*types.Interface); ok {
			return a.fillInterface(s, iface)
		}
	case *ast.TypeAliasDecl:
		if alias, ok := a.decls[s].(*types.Alias); ok {
			return a.fillAlias(s, alias)
		}
	case *ast.ClassDecl:
		if c, ok := a.decls[s].(*types.Class); ok {
			return a.fillClass(s, c)
		}
	case *ast.FuncDecl:
		return a.declareFunc(s)
	case *ast.NamespaceDecl:
		if m, ok := a.decls[s].(*types.Module); ok {
			return a.checkNamespace(s, m)
		}
	}
	return nil
}

func (a *Analyzer) body(s ast.Stmt) {
	switch s := unexport(s).(type) {
	case *ast.InterfaceDecl, *ast.TypeAliasDecl, *ast.NamespaceDecl, *ast.ImportDecl:
		return
	case *ast.FuncDecl:
		if sig, ok := a.decls[s].(*types.Function); ok && s.Func.Body != nil {
			a.checkFuncBody(s.Func, sig)
		}
	case *ast.ClassDecl:
		if c, ok := a.decls[s].(*types.Class); ok {
			a.report(a.checkClassBody(s, c))
		}
	case *ast.VarDecl:
		a.checkVarDecl(s)
	case *ast.ExportDecl:
		if s.Default == nil {
			return
		}
		t, err := a.expr(s.Default)
		if err != nil {
			a.report(err)
			t = types.Error
		}
		a.decls[s] = t
	default:
		a.Validate(s)
	}
}

func (a *Analyzer) export(s ast.Stmt) error {
	e, ok := s.(*ast.ExportDecl)
	switch {
	case ok && e.Decl != nil:
		a.exportDecl(e.Decl)
	case ok && e.Default != nil:
		a.exports.Vars["default"] = a.decls[e]
	case ok:
		for _, id := range e.Names {
			if !a.exportName(id.Name) {
				return a.err(id.Range, "cannot find name %s", id.Name)
			}
		}
	case a.ambient:
		a.exportDecl(s)
	}
	return nil
}

func (a *Analyzer) exportDecl(s ast.Stmt) {
	for _, name := range declNames(s) {
		a.exportName(name)
	}
}

// exportName exports the value and type declared with name in the current scope.
// It returns false if there is neither.
func (a *Analyzer) exportName(name string) bool {
	var found bool
	if b := a.localVar(name); b != nil {
		a.exports.Vars[name] = b.typ
		found = true
	}
	if t := a.localType(name); t != nil {
		a.exports.Types[name] = t
		found = true
	}
	return found
}

// declNames returns the names declared by a declaration statement.
func declNames(s ast.Stmt) []string {
	switch s := s.(type) {
	case *ast.VarDecl:
		var names []string
		for _, d := range s.Decls {
			names = patNames(d.Name, names)
		}
		return names
	case *ast.FuncDecl:
		return []string{s.Name.Name}
	case *ast.ClassDecl:
		if s.Name == nil {
			return nil
		}
		return []string{s.Name.Name}
	case *ast.InterfaceDecl:
		return []string{s.Name.Name}
	case *ast.TypeAliasDecl:
		return []string{s.Name.Name}
	case *ast.NamespaceDecl:
		return []string{s.Name.Name}
	default:
		return nil
	}
}

func patNames(p ast.Pat, names []string) []string {
	switch p := p.(type) {
	case *ast.Ident:
		names = append(names, p.Name)
	case *ast.AssignPat:
		names = patNames(p.Left, names)
	case *ast.ArrayPat:
		for _, e := range p.Elems {
			if e != nil {
				names = patNames(e, names)
			}
		}
		if p.Rest != nil {
			names = patNames(p.Rest, names)
		}
	case *ast.ObjectPat:
		for _, prop := range p.Props {
			names = patNames(prop.Value, names)
		}
		if p.Rest != nil {
			names = patNames(p.Rest, names)
		}
	}
	return names
}

func (a *Analyzer) checkVarDecl(n *ast.VarDecl) {
	for _, d := range n.Decls {
		a.report(a.declarator(n, d))
	}
}

// declarator binds the names of a variable declarator.
// The names are bound even if there is an error,
// to the error type if the declarator's type is unknown.
func (a *Analyzer) declarator(n *ast.VarDecl, d *ast.Declarator) error {
	ambient := n.Declare || a.ambient
	declared, err := a.optType(d.Type, nil)
	if err != nil {
		a.bindPat(d.Name, types.Error, n.Kind)
		return err
	}
	var init types.Type
	if d.Init != nil {
		if ambient {
			err = a.err(d.Init.GetRange(), "initializers are not allowed in ambient contexts")
		} else if init, err = a.expr(d.Init); err != nil {
			if declared == nil {
				declared = types.Error
			}
			a.bindPat(d.Name, declared, n.Kind)
			return err
		}
	}
	t := declared
	switch {
	case declared != nil && init != nil && !types.IsAssignable(a, declared, init):
		err = a.assignErr(d.Init.GetRange(), declared, init)
	case declared == nil && init != nil && n.Kind == ast.Const:
		t = init
	case declared == nil && init != nil:
		t = types.Widen(init)
	case declared == nil:
		t = types.Any
	}
	if n.Kind == ast.Const && d.Init == nil && !ambient {
		err = a.err(d.Range, "const declarations must be initialized")
	}
	if berr := a.bindPat(d.Name, t, n.Kind); berr != nil {
		return berr
	}
	return err
}

// bindPat declares the names of a binding pattern matched against a value of type t.
// Names are declared even if there is an error.
func (a *Analyzer) bindPat(p ast.Pat, t types.Type, kind ast.VarKind) error {
	switch p := p.(type) {
	case *ast.Ident:
		return a.declareVar(p, p.Name, &binding{
			typ:   t,
			node:  p,
			konst: kind == ast.Const,
			isVar: kind == ast.Var,
		})
	case *ast.AssignPat:
		d, err := a.expr(p.Default)
		if err == nil && !types.IsAssignable(a, t, d) {
			err = a.assignErr(p.Default.GetRange(), t, d)
		}
		return firstErr(err, a.bindPat(p.Left, t, kind))
	case *ast.ArrayPat:
		var err error
		for i, e := range p.Elems {
			if e == nil {
				continue
			}
			et, eerr := a.patElem(p, t, i)
			err = firstErr(err, eerr, a.bindPat(e, et, kind))
		}
		if p.Rest != nil {
			et := types.ElemType(a, t)
			if et == nil {
				et = types.Error
			}
			err = firstErr(err, a.bindPat(p.Rest, &types.Array{Elem: et}, kind))
		}
		return err
	case *ast.ObjectPat:
		var err error
		bound := make(map[string]bool)
		for _, prop := range p.Props {
			pt, perr := a.member(prop.Range, t, prop.Key, false)
			if perr != nil {
				pt = types.Error
			}
			bound[prop.Key] = true
			err = firstErr(err, perr, a.bindPat(prop.Value, pt, kind))
		}
		if p.Rest != nil {
			var rest []types.Member
			for _, m := range types.Members(a, t) {
				if prop, ok := m.(*types.Prop); ok && !bound[prop.Name] {
					rest = append(rest, prop)
				}
			}
			err = firstErr(err, a.bindPat(p.Rest, &types.TypeLit{Members: rest}, kind))
		}
		return err
	case *ast.ExprPat:
		return a.err(p.Range, "invalid binding pattern")
	default:
		panic("impossible pattern: " + typeName(p))
	}
}

// patElem returns the type of element i of an array pattern matched against t.
func (a *Analyzer) patElem(p *ast.ArrayPat, t types.Type, i int) (types.Type, error) {
	if tup, ok := types.Expand(a, t).(*types.Tuple); ok {
		if i >= len(tup.Elems) {
			return types.Error, a.err(p.Range, "tuple type %s of length %d has no element at index %d", t, len(tup.Elems), i)
		}
		return tup.Elems[i], nil
	}
	if et := types.ElemType(a, t); et != nil {
		return et, nil
	}
	return types.Error, a.err(p.Range, "type %s is not an array type", t)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) declareInterface(n *ast.InterfaceDecl) error {
	name := n.Name.Name
	if prev, ok := a.localType(name).(*types.Interface); ok {
		if len(n.TypeParams) != len(prev.TypeParams) {
			return a.err(n.Name.Range, "all declarations of %s must have identical type parameters", name)
		}
		a.decls[n] = prev
		return nil
	}
	iface := &types.Interface{Name: name, TypeParams: newTypeParams(n.TypeParams)}
	if err := a.declareType(n, name, iface); err != nil {
		return err
	}
	a.decls[n] = iface
	return nil
}

// fillInterface adds the members and heritage of an interface declaration
// to iface, which may have members from earlier merged declarations.
func (a *Analyzer) fillInterface(n *ast.InterfaceDecl, iface *types.Interface) error {
	_, err := withChild(a, Block, nil, func() (struct{}, error) {
		tps, err := a.typeParams(n.TypeParams, iface.TypeParams)
		if err != nil {
			return struct{}{}, err
		}
		iface.TypeParams = tps
		exts, err := a.typeExprs(n.Extends)
		if err != nil {
			return struct{}{}, err
		}
		iface.Extends = append(iface.Extends, exts...)
		for _, e := range n.Body {
			m, err := a.typeElem(e)
			if err != nil {
				return struct{}{}, err
			}
			iface.Members = append(iface.Members, m)
		}
		return struct{}{}, nil
	})
	return err
}

func (a *Analyzer) fillAlias(n *ast.TypeAliasDecl, alias *types.Alias) error {
	_, err := withChild(a, Block, nil, func() (struct{}, error) {
		tps, err := a.typeParams(n.TypeParams, alias.TypeParams)
		if err != nil {
			return struct{}{}, err
		}
		alias.TypeParams = tps
		if alias.Type, err = a.typeExpr(n.Type); err != nil {
			alias.Type = types.Error
		}
		return struct{}{}, err
	})
	return err
}

func (a *Analyzer) declareNamespace(n *ast.NamespaceDecl) error {
	name := n.Name.Name
	if m, ok := a.localType(name).(*types.Module); ok {
		a.decls[n] = m
		return nil
	}
	m := types.NewModule(name)
	if err := a.declareType(n, name, m); err != nil {
		return err
	}
	if err := a.declareVar(n, name, &binding{typ: m, node: n, konst: true}); err != nil {
		return err
	}
	a.decls[n] = m
	return nil
}

// checkNamespace checks a namespace body, adding its exports to m.
// Earlier exports of m are in scope in the body.
func (a *Analyzer) checkNamespace(n *ast.NamespaceDecl, m *types.Module) error {
	prevExports, prevAmbient := a.exports, a.ambient
	a.exports, a.ambient = m, a.ambient || n.Declare
	defer func() { a.exports, a.ambient = prevExports, prevAmbient }()

	seed := func(s *scope) {
		s.vars = make(map[string]*binding, len(m.Vars))
		for name, t := range m.Vars {
			s.vars[name] = &binding{typ: t, konst: true}
		}
		s.types = make(map[string]*binding, len(m.Types))
		for name, t := range m.Types {
			s.types[name] = &binding{typ: t}
		}
	}
	_, err := withChild(a, Module, seed, func() (struct{}, error) {
		a.stmts(n.Body)
		return struct{}{}, nil
	})
	return err
}

func (a *Analyzer) declareFunc(n *ast.FuncDecl) error {
	name := n.Name.Name
	sig, err := a.funcType(n.Func)
	if err != nil {
		a.declareVar(n.Name, name, &binding{typ: types.Error, node: n, konst: true})
		return err
	}
	a.decls[n] = sig
	b := &binding{typ: sig, node: n, konst: true, overload: n.Func.Body == nil}
	if prev := a.localVar(name); prev != nil && prev.overload {
		// The implementation signature is not callable.
		b.typ = prev.typ
		if n.Func.Body == nil {
			b.typ = overloads(prev.typ, sig)
		}
	}
	return a.declareVar(n.Name, name, b)
}

// overloads returns prev with sig added as a call signature.
func overloads(prev types.Type, sig *types.Function) types.Type {
	var ms []types.Member
	switch p := prev.(type) {
	case *types.Function:
		ms = append(ms, &types.CallSig{Func: p})
	case *types.TypeLit:
		ms = append(ms, p.Members...)
	}
	return &types.TypeLit{Members: append(ms, &types.CallSig{Func: sig})}
}

// checkFuncBody checks the body of a function with the signature sig.
// If the signature has no result type, it is set to the inferred type.
func (a *Analyzer) checkFuncBody(n *ast.Func, sig *types.Function) *types.Function {
	fun := &funcCtx{ret: sig.Ret, async: n.Async}
	withChild(a, Func, func(s *scope) { s.fun = fun }, func() (struct{}, error) {
		for i, tp := range n.TypeParams {
			a.report(a.declareType(tp, tp.Name, sig.TypeParams[i]))
		}
		for i, p := range n.Params {
			pt := sig.Params[i].Type
			if p.Default != nil {
				d, err := a.expr(p.Default)
				switch {
				case err != nil:
					a.report(err)
				case p.Type == nil:
					pt = types.Widen(d)
					sig.Params[i].Type = pt
				case !types.IsAssignable(a, pt, d):
					a.report(a.assignErr(p.Default.GetRange(), pt, d))
				}
			}
			a.report(a.bindPat(p.Name, pt, ast.Let))
		}
		switch {
		case n.Body != nil:
			a.stmts(n.Body.Stmts)
		case n.Expr != nil:
			t, err := a.expr(n.Expr)
			if err != nil {
				a.report(err)
				t = types.Error
			}
			a.report(a.returned(n.Expr.GetRange(), fun, t))
		}
		return struct{}{}, nil
	})
	if sig.Ret == nil {
		ret := types.Type(types.Void)
		if len(fun.returns) > 0 {
			ret = types.NewUnion(fun.returns...)
		}
		if fun.async {
			ret = a.promise(ret)
		}
		sig.Ret = ret
	}
	return sig
}

func (a *Analyzer) declareClass(n *ast.ClassDecl) error {
	c := &types.Class{Abstract: n.Abstract, TypeParams: newTypeParams(n.TypeParams)}
	if n.Name == nil {
		a.decls[n] = c
		return nil
	}
	c.Name = n.Name.Name
	if err := a.declareType(n, c.Name, c); err != nil {
		return err
	}
	// The value is set once the members are known.
	if err := a.declareVar(n.Name, c.Name, &binding{typ: types.Any, node: n, konst: true}); err != nil {
		return err
	}
	a.decls[n] = c
	return nil
}

// checkClassExpr checks a class declaration and returns the class value.
func (a *Analyzer) checkClassExpr(n *ast.ClassDecl) (types.Type, error) {
	a.stmts([]ast.Stmt{n})
	c, ok := a.decls[n].(*types.Class)
	if !ok {
		return types.Error, nil
	}
	return classValue(c), nil
}

func (a *Analyzer) fillClass(n *ast.ClassDecl, c *types.Class) error {
	_, err := withChild(a, Class, func(s *scope) { s.class = c }, func() (struct{}, error) {
		tps, err := a.typeParams(n.TypeParams, c.TypeParams)
		if err != nil {
			return struct{}{}, err
		}
		c.TypeParams = tps
		if n.Super != nil {
			if c.Super, err = a.superType(n, c); err != nil {
				return struct{}{}, err
			}
		}
		if c.Implements, err = a.typeExprs(n.Implements); err != nil {
			return struct{}{}, err
		}
		a.classMembers(n, c)
		return struct{}{}, nil
	})
	if n.Name != nil {
		if b := a.localVar(n.Name.Name); b != nil && b.node == n {
			b.typ = classValue(c)
		}
	}
	return err
}

// superType returns the instance type of a class's base class.
func (a *Analyzer) superType(n *ast.ClassDecl, c *types.Class) (types.Type, error) {
	args, err := a.typeExprs(n.SuperArgs)
	if err != nil {
		return nil, err
	}
	if id, ok := n.Super.(*ast.Ident); ok {
		t, _ := a.resolveType(id.Name)
		if sc, ok := types.Unstatic(t).(*types.Class); ok {
			if sc == c {
				return nil, a.err(id.Range, "class %s is referenced in its own base expression", c.Name)
			}
			return &types.Ref{Name: id.Name, Args: args, Target: t}, nil
		}
	}
	st, err := a.expr(n.Super)
	if err != nil {
		return nil, err
	}
	sigs := types.Signatures(a, st, true)
	if len(sigs) == 0 {
		return nil, a.err(n.Super.GetRange(), "type %s is not a constructor function type", st)
	}
	sig := types.SubstFunc(sigs[0], types.Bind(sigs[0].TypeParams, args))
	return sig.Ret, nil
}

// classMembers computes the members of a class from their declarations.
// Methods with a body following overload signatures
// contribute only their overloads.
func (a *Analyzer) classMembers(n *ast.ClassDecl, c *types.Class) {
	accessors := make(map[string]*types.Prop)
	overloaded := make(map[string]bool)
	for _, m := range n.Body {
		switch m := m.(type) {
		case *ast.ClassProp:
			t, err := a.optType(m.Type, types.Any)
			if err != nil {
				a.report(err)
				t = types.Error
			}
			p := &types.Prop{Name: m.Name, Type: t, Optional: m.Optional, Readonly: m.Readonly, Static: m.Static}
			a.decls[m] = p
			c.Members = append(c.Members, p)
		case *ast.ClassMethod:
			sig, err := a.funcType(m.Func)
			if err != nil {
				a.report(err)
				continue
			}
			a.decls[m] = sig
			key := m.Name
			if m.Static {
				key = "static " + key
			}
			switch m.Kind {
			case ast.Constructor:
				sig.Ret = instanceType(c)
				if m.Func.Body != nil && overloaded[key] {
					continue
				}
				if m.Func.Body == nil {
					overloaded[key] = true
				}
				c.Members = append(c.Members, &types.ConstructSig{Func: sig})
			case ast.Getter, ast.Setter:
				t := types.Type(types.Any)
				switch {
				case m.Kind == ast.Getter && sig.Ret != nil:
					t = sig.Ret
				case m.Kind == ast.Setter && len(sig.Params) > 0:
					t = sig.Params[0].Type
				}
				if p, ok := accessors[key]; ok {
					p.Readonly = false
					if m.Kind == ast.Getter {
						p.Type = t
					}
					continue
				}
				p := &types.Prop{Name: m.Name, Type: t, Readonly: m.Kind == ast.Getter, Static: m.Static}
				accessors[key] = p
				c.Members = append(c.Members, p)
			default:
				if m.Func.Body != nil && overloaded[key] {
					continue
				}
				if m.Func.Body == nil && !m.Abstract {
					overloaded[key] = true
				}
				c.Members = append(c.Members, &types.Method{Name: m.Name, Func: sig, Optional: m.Optional, Static: m.Static})
			}
		case *ast.IndexSig:
			ix, err := a.indexSig(m)
			if err != nil {
				a.report(err)
				continue
			}
			c.Members = append(c.Members, ix)
		default:
			panic("impossible class member: " + typeName(m))
		}
	}
}

// checkClassBody checks property initializers and method bodies,
// and that the class implements its interfaces.
func (a *Analyzer) checkClassBody(n *ast.ClassDecl, c *types.Class) error {
	_, err := withChild(a, Class, func(s *scope) { s.class = c }, func() (struct{}, error) {
		if _, err := a.typeParams(n.TypeParams, c.TypeParams); err != nil {
			return struct{}{}, err
		}
		for _, m := range n.Body {
			switch m := m.(type) {
			case *ast.ClassProp:
				p, ok := a.decls[m].(*types.Prop)
				if !ok || m.Init == nil {
					continue
				}
				t, err := a.expr(m.Init)
				switch {
				case err != nil:
					a.report(err)
				case m.Type == nil:
					p.Type = types.Widen(t)
				case !types.IsAssignable(a, p.Type, t):
					a.report(a.assignErr(m.Init.GetRange(), p.Type, t))
				}
			case *ast.ClassMethod:
				sig, ok := a.decls[m].(*types.Function)
				if !ok || m.Func.Body == nil {
					continue
				}
				if m.Kind == ast.Constructor {
					ctor := *sig
					ctor.Ret = types.Void
					sig = &ctor
				}
				a.checkFuncBody(m.Func, sig)
			}
		}
		inst := instanceType(c)
		for i, impl := range c.Implements {
			if !types.IsAssignable(a, impl, inst) {
				a.report(a.err(n.Implements[i].GetRange(), "class %s incorrectly implements interface %s", c.Name, impl))
			}
		}
		return struct{}{}, nil
	})
	if n.Name != nil {
		if b := a.localVar(n.Name.Name); b != nil && b.node == n {
			b.typ = classValue(c)
		}
	}
	return err
}

// maxHeritage bounds the depth of base class chains,
// which may be cyclic in erroneous code.
const maxHeritage = 64

// instanceType returns the type of instances of c
// within its own declaration.
func instanceType(c *types.Class) types.Type {
	var args []types.Type
	for _, tp := range c.TypeParams {
		args = append(args, tp)
	}
	return &types.Ref{Name: c.Name, Args: args, Target: c}
}

// classValue returns the type of the value of a class:
// its constructors and static members.
// A class without a constructor has the constructors of its base class,
// or a constructor with no parameters.
func classValue(c *types.Class) types.Type {
	var ms []types.Member
	ctors := constructors(c, 0)
	for _, ctor := range ctors {
		f := *ctor
		f.TypeParams = c.TypeParams
		f.Ret = instanceType(c)
		ms = append(ms, &types.ConstructSig{Func: &f})
	}
	for _, m := range c.Members {
		switch m := m.(type) {
		case *types.Prop:
			if m.Static {
				p := *m
				p.Static = false
				ms = append(ms, &p)
			}
		case *types.Method:
			if m.Static {
				meth := *m
				meth.Static = false
				ms = append(ms, &meth)
			}
		case *types.IndexSig:
			if m.Static {
				ix := *m
				ix.Static = false
				ms = append(ms, &ix)
			}
		}
	}
	return &types.TypeLit{Members: ms}
}

func constructors(c *types.Class, depth int) []*types.Function {
	var fs []*types.Function
	for _, m := range c.Members {
		if ctor, ok := m.(*types.ConstructSig); ok {
			fs = append(fs, ctor.Func)
		}
	}
	if len(fs) > 0 {
		return fs
	}
	if r, ok := c.Super.(*types.Ref); ok {
		if sc, ok := types.Unstatic(r.Target).(*types.Class); ok && depth < maxHeritage {
			sub := types.Bind(sc.TypeParams, r.Args)
			for _, f := range constructors(sc, depth+1) {
				fs = append(fs, types.SubstFunc(f, sub))
			}
			return fs
		}
	}
	return []*types.Function{{}}
}
