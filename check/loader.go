package check

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/eaburns/tsck/ast"
	"github.com/eaburns/tsck/loc"
	"github.com/eaburns/tsck/mod"
	"github.com/eaburns/tsck/types"
)

// A Loader loads the modules named by import declarations.
type Loader interface {
	// Load returns the exports of the module with the given specifier,
	// imported by the given declaration.
	Load(path string, imp *ast.ImportDecl) (*types.Module, error)
}

// SourceLoader loads modules from their TypeScript source.
// Each module is checked once, and the result is cached.
type SourceLoader struct {
	// Root is the directory of non-relative module specifiers.
	Root string
	// Config is the configuration of the analyzers of loaded modules.
	// Its Locs must be the location table of the importing files,
	// which is used to find the directory of relative specifiers.
	// If Locs is nil, relative specifiers are relative to Root.
	Config Config

	// paths is the stack of files being loaded.
	paths   []string
	modules map[string]*types.Module
	errs    map[string]error
}

// NewSourceLoader returns a new SourceLoader.
// The loader is set as cfg.Loader for the analyzers of imported modules.
func NewSourceLoader(root string, cfg Config) *SourceLoader {
	if cfg.Locs == nil {
		cfg.Locs = new(loc.Files)
	}
	return &SourceLoader{
		Root:    root,
		Config:  cfg,
		modules: make(map[string]*types.Module),
		errs:    make(map[string]error),
	}
}

// Load implements the Loader interface.
func (l *SourceLoader) Load(importPath string, imp *ast.ImportDecl) (*types.Module, error) {
	dir := l.Root
	if l.Config.Locs != nil && imp != nil {
		if p := l.Config.Locs.Loc(imp.Range).Path; p != "" {
			dir = filepath.Dir(p)
		}
	}
	path, err := mod.Resolve(l.Root, dir, importPath)
	if err != nil {
		return nil, err
	}
	return l.LoadFile(path)
}

// LoadFile returns the exports of the module in the source file at path.
func (l *SourceLoader) LoadFile(path string) (*types.Module, error) {
	if l.modules == nil {
		l.modules = make(map[string]*types.Module)
		l.errs = make(map[string]error)
	}
	l.paths = append(l.paths, path)
	defer func() { l.paths = l.paths[:len(l.paths)-1] }()
	for _, p := range l.paths[:len(l.paths)-1] {
		if p == path {
			return nil, fmt.Errorf("import cycle: %s", strings.Join(l.paths, " -> "))
		}
	}
	if m, ok := l.modules[path]; ok {
		return m, l.errs[path]
	}
	m, err := l.check(path)
	l.modules[path] = m // add nil on error too
	l.errs[path] = err
	return m, err
}

func (l *SourceLoader) check(path string) (*types.Module, error) {
	p := ast.NewParserWithLocs(l.Config.Locs)
	f, err := p.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("error parsing import %s: %w", path, err)
	}
	cfg := l.Config
	cfg.Loader = l
	cfg.Trace = false // don't trace imports
	a := New(cfg)
	m := a.Check(f)
	if err := a.Err(); err != nil {
		return nil, fmt.Errorf("error checking import %s:\n%w", path, err)
	}
	return m, nil
}

// checkImport binds the names imported by an import declaration.
func (a *Analyzer) checkImport(n *ast.ImportDecl) error {
	if a.cfg.Loader == nil {
		return a.err(n.Range, "cannot import %s: no module loader", n.Path)
	}
	m, err := a.cfg.Loader.Load(n.Path, n)
	if err != nil {
		return a.err(n.Range, "cannot import %s: %v", n.Path, err)
	}
	if n.Default != nil {
		v, ok := m.Vars["default"]
		if !ok {
			err = firstErr(err, a.err(n.Default.Range, "module %s has no default export", n.Path))
			v = types.Error
		}
		err = firstErr(err, a.declareVar(n.Default, n.Default.Name, &binding{typ: v, node: n.Default, konst: true}))
	}
	if n.Namespace != nil {
		name := n.Namespace.Name
		err = firstErr(err,
			a.declareVar(n.Namespace, name, &binding{typ: m, node: n.Namespace, konst: true}),
			a.declareType(n.Namespace, name, m))
	}
	for _, s := range n.Names {
		local := s.Local.Name
		var found bool
		if v := types.ModuleValue(m, s.Name); v != nil {
			err = firstErr(err, a.declareVar(s.Local, local, &binding{typ: v, node: s.Local, konst: true}))
			found = true
		}
		if t, ok := m.Types[s.Name]; ok {
			err = firstErr(err, a.declareType(s.Local, local, t))
			found = true
		}
		if !found {
			err = firstErr(err, a.err(s.Range, "module %s has no exported member %s", n.Path, s.Name))
			a.declareVar(s.Local, local, &binding{typ: types.Error, node: s.Local, konst: true})
		}
	}
	return err
}
