// Package mod finds TypeScript module source files
// and the modules they import.
package mod

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/eaburns/tsck/ast"
)

// A Mod contains information about the source of a module
// or of a project directory of modules.
type Mod struct {
	// ModPath is the module path as it would appear in an import declaration.
	ModPath string
	// ModName is the base name of ModPath.
	ModName string
	// SrcPath is the path to the source file or directory of the module.
	SrcPath string
	// SrcDir is the directory containing the module source.
	// It is SrcPath if SrcPath is a directory.
	SrcDir string
	// SrcFiles contains the source file paths in alphabetical order.
	SrcFiles []string

	// Deps are the module dependencies
	// in alphabetical order on SrcPath.
	//
	// Deps is nil until after a call to LoadDeps.
	Deps []*Mod
}

// Load returns a *Mod for the module modPath, loaded from srcPath.
// srcPath may be either a .ts source file or a directory of .ts source files.
func Load(srcPath, modPath string) (*Mod, error) {
	return newMod(srcPath, modPath)
}

func newMod(srcPath, modPath string) (*Mod, error) {
	srcPath, err := realPath(srcPath)
	if err != nil {
		return nil, err
	}
	srcFiles, srcDir, err := srcFiles(srcPath)
	if err != nil {
		return nil, err
	}
	return &Mod{
		ModPath:  modPath,
		ModName:  strings.TrimSuffix(filepath.Base(modPath), filepath.Ext(modPath)),
		SrcPath:  srcPath,
		SrcDir:   srcDir,
		SrcFiles: srcFiles,
	}, nil
}

func realPath(dir string) (string, error) {
	switch dir {
	case string([]rune{filepath.Separator}):
		return dir, nil
	case ".", "":
		return os.Getwd()
	default:
		base := filepath.Base(dir)
		dir, err := realPath(filepath.Dir(dir))
		if err != nil {
			return "", err
		}
		switch base {
		case ".":
			return dir, nil
		case "..":
			return filepath.Dir(dir), nil
		default:
			return filepath.Join(dir, base), nil
		}
	}
}

// IsSource returns whether the path names a TypeScript source
// or declaration file.
func IsSource(path string) bool {
	return strings.HasSuffix(path, ".ts")
}

func srcFiles(srcPath string) ([]string, string, error) {
	srcFile, err := os.Open(srcPath)
	if err != nil {
		return nil, "", err
	}
	defer srcFile.Close()
	stat, err := srcFile.Stat()
	if err != nil {
		return nil, "", err
	}
	if !stat.IsDir() {
		return []string{srcPath}, filepath.Dir(srcPath), nil
	}
	finfos, err := srcFile.Readdir(-1)
	if err != nil {
		return nil, "", err
	}
	var paths []string
	for _, finfo := range finfos {
		if finfo.IsDir() || !IsSource(finfo.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(srcPath, finfo.Name()))
	}
	sort.Strings(paths)
	return paths, srcPath, nil
}

// Resolve returns the path of the source file of a module specifier
// imported from a file in the directory dir.
// Relative specifiers, beginning with ./ or ../, are relative to dir;
// others are relative to root.
//
// The specifier may name a source file directly, with a .ts or .js extension,
// or it may omit the extension.
// A specifier naming a directory resolves to its index file.
func Resolve(root, dir, importPath string) (string, error) {
	base := filepath.Join(root, filepath.FromSlash(importPath))
	if strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../") {
		base = filepath.Join(dir, filepath.FromSlash(importPath))
	}
	var candidates []string
	switch {
	case IsSource(base):
		candidates = append(candidates, base)
	case strings.HasSuffix(base, ".js"):
		candidates = append(candidates, strings.TrimSuffix(base, ".js")+".ts")
	}
	candidates = append(candidates,
		base+".ts",
		base+".d.ts",
		filepath.Join(base, "index.ts"),
		filepath.Join(base, "index.d.ts"))
	for _, c := range candidates {
		if stat, err := os.Stat(c); err == nil && !stat.IsDir() {
			return realPath(c)
		}
	}
	return "", fmt.Errorf("cannot resolve module %s from %s", importPath, dir)
}

// LoadDeps loads the modules's dependencies, setting the Deps field.
// Dependencies are loaded transitively, so all modules in Deps
// also have their Deps loaded.
// Non-relative specifiers are resolved relative to root.
func (m *Mod) LoadDeps(root string) error {
	seen := make(map[string]*Mod)
	seen[m.SrcPath] = m
	for _, f := range m.SrcFiles {
		if _, ok := seen[f]; !ok {
			seen[f] = m
		}
	}
	return loadDeps(root, m, seen)
}

// LoadFiles returns a *Mod for each source file, with its Deps loaded.
// A file imported by another is loaded only once,
// so the Mods of the files are shared with the Deps of their importers.
func LoadFiles(root string, paths []string) ([]*Mod, error) {
	seen := make(map[string]*Mod)
	var mods []*Mod
	for _, path := range paths {
		m, err := newMod(path, modPath(root, path))
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[m.SrcPath]; ok {
			mods = append(mods, prev)
			continue
		}
		seen[m.SrcPath] = m
		mods = append(mods, m)
	}
	for _, m := range mods {
		if m.Deps != nil {
			continue
		}
		if err := loadDeps(root, m, seen); err != nil {
			return nil, err
		}
	}
	return mods, nil
}

func modPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return "./" + filepath.ToSlash(rel)
}

func loadDeps(modRootDir string, root *Mod, seen map[string]*Mod) error {
	var addDeps func(*Mod) error
	addDeps = func(m *Mod) error {
		depFiles, err := deps(modRootDir, m.SrcFiles)
		if err != nil {
			return err
		}
		m.Deps = []*Mod{}
		for _, dep := range depFiles {
			if d, ok := seen[dep.path]; ok {
				if d != m {
					m.Deps = append(m.Deps, d)
				}
				continue
			}
			d, err := newMod(dep.path, dep.importPath)
			if err != nil {
				return err
			}
			m.Deps = append(m.Deps, d)
			seen[dep.path] = d
			if err := addDeps(d); err != nil {
				return err
			}
		}
		return nil
	}
	return addDeps(root)
}

type dep struct {
	importPath string
	path       string
}

func deps(root string, srcFiles []string) ([]dep, error) {
	var deps []dep
	for _, file := range srcFiles {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		importPaths, err := ast.ReadImports(file, bufio.NewReader(f))
		f.Close()
		if err != nil {
			return nil, err
		}
		for _, importPath := range importPaths {
			path, err := Resolve(root, filepath.Dir(file), importPath)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			deps = append(deps, dep{importPath: importPath, path: path})
		}
	}

	sort.Slice(deps, func(i, j int) bool { return deps[i].path < deps[j].path })

	var i int
	for _, d := range deps {
		if i == 0 || d.path != deps[i-1].path {
			deps[i] = d
			i++
		}
	}
	return deps[:i], nil
}

// TopologicalDeps returns roots and their dependencies
// in topologically sorted order, with dependencies
// before their dependants.
func TopologicalDeps(roots []*Mod) []*Mod {
	var sorted []*Mod
	seen := make(map[*Mod]bool)
	var add func(*Mod)
	add = func(m *Mod) {
		if seen[m] {
			return
		}
		seen[m] = true
		for _, d := range m.Deps {
			add(d)
		}
		sorted = append(sorted, m)
	}
	for _, m := range roots {
		add(m)
	}
	return sorted
}
