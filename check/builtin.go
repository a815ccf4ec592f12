// Copyright © 2020 The Pea Authors under an MIT-style license.

package check

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eaburns/tsck/ast"
	"github.com/eaburns/tsck/lib"
	"github.com/eaburns/tsck/loc"
	"github.com/eaburns/tsck/types"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// An Env is the merged declarations of a set of builtin libraries.
// An Env is shared by all analyzers using the same libraries,
// and it must not be modified.
type Env struct {
	Libs []lib.Lib
	// Vars are the builtin variables.
	Vars map[string]types.Type
	// Types are the builtin types, functions, classes, and namespaces.
	Types map[string]types.Type

	// classValues are the values of the top-level builtin classes,
	// computed once so that lookups share them.
	classValues map[string]types.Type
}

// Expand implements types.Expander.
// It returns the builtin type declaration with the reference's name.
// A reference written in a namespace is looked up in that namespace,
// then in each enclosing namespace, then at the top level.
// Since namespaces merge across library files,
// this happens only once all files are merged.
func (env *Env) Expand(r *types.Ref) types.Type {
	ns := r.Namespace
	for {
		name := r.Name
		if ns != "" {
			name = ns + "." + r.Name
		}
		if t := env.lookup(name); t != nil {
			return t
		}
		if ns == "" {
			return nil
		}
		if i := strings.LastIndexByte(ns, '.'); i >= 0 {
			ns = ns[:i]
		} else {
			ns = ""
		}
	}
}

// lookup returns the type declaration with a possibly qualified name, A.B.
func (env *Env) lookup(name string) types.Type {
	names := strings.Split(name, ".")
	t, ok := env.Types[names[0]]
	if !ok {
		return nil
	}
	for _, name := range names[1:] {
		m, ok := t.(*types.Module)
		if !ok {
			return nil
		}
		if t, ok = m.Types[name]; !ok {
			return nil
		}
	}
	return t
}

// envCache caches merged environments by library set.
//
// Reads of a cached environment do not lock.
// The first request for a library set merges it;
// concurrent requests for the same set wait for that merge,
// and if it panics, they all panic.
type envCache struct {
	m      sync.Map // lib.Key → *Env
	g      singleflight.Group
	load   func([]lib.Lib) *Env
	merges atomic.Int64
}

var builtins = &envCache{load: loadEnv}

// EnvFor returns the merged environment of the builtin libraries.
// The result is computed once per distinct, ordered, library list
// for the life of the process.
// EnvFor panics if libs is empty or if the libraries are invalid.
func EnvFor(libs []lib.Lib) *Env {
	return builtins.get(libs)
}

func (c *envCache) get(libs []lib.Lib) *Env {
	if len(libs) == 0 {
		panic("no builtin libraries")
	}
	key := lib.Key(libs)
	if env, ok := c.m.Load(key); ok {
		return env.(*Env)
	}
	env, _, _ := c.g.Do(key, func() (interface{}, error) {
		if env, ok := c.m.Load(key); ok {
			return env, nil
		}
		env := c.load(libs)
		c.merges.Add(1)
		c.m.Store(key, env)
		return env, nil
	})
	return env.(*Env)
}

// GetVar returns the type of a builtin variable.
// If there is no such variable, the error is a *NotFoundError.
func GetVar(libs []lib.Lib, name string) (types.Type, error) {
	if t, ok := EnvFor(libs).Vars[name]; ok {
		return &types.Static{Type: t}, nil
	}
	return nil, &NotFoundError{What: "variable", Name: name}
}

// GetType returns a builtin type declaration.
// If there is no such type, the error is a *NotFoundError.
func GetType(libs []lib.Lib, name string) (types.Type, error) {
	if t, ok := EnvFor(libs).Types[name]; ok {
		return &types.Static{Type: t}, nil
	}
	return nil, &NotFoundError{What: "type", Name: name}
}

func loadEnv(libs []lib.Lib) *Env {
	start := time.Now()
	p := ast.NewParser()
	var files []*ast.File
	for _, l := range libs {
		path, text := l.Source()
		f, err := p.ParseBytes(path, text)
		if err != nil {
			panic(fmt.Sprintf("builtin library %s: %v", l, err))
		}
		files = append(files, f)
	}
	env := merge(files, p.Locs())
	env.Libs = append([]lib.Lib{}, libs...)
	zap.L().Debug("merged builtin libraries",
		zap.String("libs", lib.Key(libs)),
		zap.Int("vars", len(env.Vars)),
		zap.Int("types", len(env.Types)),
		zap.Duration("duration", time.Since(start)))
	return env
}

type merger struct {
	a *Analyzer
}

// merge merges the declarations of builtin library files, in order.
//
// Interfaces with the same name are merged by accumulating their members,
// and namespaces with the same name are merged by accumulating their exports.
// Any other redeclaration is invalid.
// Builtin libraries are trusted, so invalid declarations panic.
func merge(files []*ast.File, locs *loc.Files) *Env {
	m := &merger{a: newBuiltinAnalyzer(locs)}
	env := &Env{Vars: make(map[string]types.Type), Types: make(map[string]types.Type)}
	for _, f := range files {
		m.stmts(f.Stmts, env.Vars, env.Types, "")
	}
	if err := m.a.Err(); err != nil {
		panic(fmt.Sprintf("invalid builtin declarations:\n%v", err))
	}
	env.classValues = make(map[string]types.Type)
	for name, t := range env.Types {
		if c, ok := t.(*types.Class); ok {
			env.classValues[name] = classValue(c)
		}
	}
	return env
}

func (m *merger) fatal(n ast.Node, f string, vs ...interface{}) {
	panic(fmt.Sprintf("%s: %s", m.a.loc(n), fmt.Sprintf(f, vs...)))
}

func (m *merger) check(err error) {
	if err != nil {
		panic(err.Error())
	}
}

func (m *merger) stmts(ss []ast.Stmt, vars, typs map[string]types.Type, path string) {
	for _, s := range ss {
		switch s := unexport(s).(type) {
		case *ast.VarDecl:
			for _, d := range s.Decls {
				id, ok := d.Name.(*ast.Ident)
				switch {
				case !ok:
					m.fatal(d, "builtin variable must be an identifier")
				case d.Type == nil:
					m.fatal(d, "builtin variable %s has no type annotation", id.Name)
				case vars[id.Name] != nil:
					m.fatal(d, "duplicate builtin variable %s", id.Name)
				}
				t, err := m.a.typeExpr(d.Type)
				m.check(err)
				vars[id.Name] = t
			}
		case *ast.FuncDecl:
			m.dup(s, typs, s.Name.Name)
			sig, err := m.a.funcType(s.Func)
			m.check(err)
			typs[s.Name.Name] = sig
		case *ast.ClassDecl:
			if s.Super != nil || len(s.Implements) > 0 {
				m.fatal(s, "builtin class %s must not extend or implement", s.Name.Name)
			}
			m.dup(s, typs, s.Name.Name)
			c := &types.Class{Name: s.Name.Name, Abstract: s.Abstract, TypeParams: newTypeParams(s.TypeParams)}
			m.check(m.a.fillClass(s, c))
			typs[s.Name.Name] = c
		case *ast.NamespaceDecl:
			m.namespace(s, typs, path)
		case *ast.TypeAliasDecl:
			m.dup(s, typs, s.Name.Name)
			alias := &types.Alias{Name: s.Name.Name, TypeParams: newTypeParams(s.TypeParams)}
			m.check(m.a.fillAlias(s, alias))
			typs[s.Name.Name] = alias
		case *ast.InterfaceDecl:
			name := s.Name.Name
			var iface *types.Interface
			switch prev := typs[name].(type) {
			case nil:
				iface = &types.Interface{Name: name, TypeParams: newTypeParams(s.TypeParams)}
			case *types.Interface:
				iface = prev
			default:
				m.fatal(s, "cannot merge interface %s with %s", name, prev)
			}
			m.check(m.a.fillInterface(s, iface))
			typs[name] = iface
		case *ast.EmptyStmt:
		default:
			m.fatal(s, "unsupported builtin declaration %s", strings.TrimPrefix(typeName(s), "*ast."))
		}
	}
}

func (m *merger) dup(n ast.Node, typs map[string]types.Type, name string) {
	if _, ok := typs[name]; ok {
		m.fatal(n, "duplicate builtin declaration %s", name)
	}
}

// namespace merges a namespace declaration into a new or existing module.
// References written in the namespace are resolved lazily by Env.Expand.
func (m *merger) namespace(n *ast.NamespaceDecl, typs map[string]types.Type, path string) {
	name := n.Name.Name
	var mod *types.Module
	switch prev := typs[name].(type) {
	case nil:
		mod = types.NewModule(name)
		typs[name] = mod
	case *types.Module:
		mod = prev
	default:
		m.fatal(n, "cannot merge namespace %s with %s", name, prev)
	}
	if path != "" {
		name = path + "." + name
	}
	withChild(m.a, Module, func(s *scope) { s.ns = name }, func() (struct{}, error) {
		m.stmts(n.Body, mod.Vars, mod.Types, name)
		return struct{}{}, nil
	})
}
