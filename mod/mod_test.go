// Copyright © 2020 The Pea Authors under an MIT-style license.

package mod

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEmptyModule(t *testing.T) {
	root, err := newFS(nil)
	if err != nil {
		t.Fatalf("newFS failed: %v", err)
	}
	defer rmDirRecur(root)

	m, err := Load(root, "foo")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(m.SrcFiles) > 0 {
		t.Errorf("len(m.SrcFiles)=%d, want 0", len(m.SrcFiles))
	}
}

func TestSourceFileModule(t *testing.T) {
	root, err := newFS([]file{
		{path: "foo.ts", body: ""},
	})
	if err != nil {
		t.Fatalf("newFS failed: %v", err)
	}
	defer rmDirRecur(root)

	m, err := Load(filepath.Join(root, "foo.ts"), "./foo")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []string{
		filepath.Join(root, "foo.ts"),
	}
	if diff := cmp.Diff(want, m.SrcFiles); diff != "" {
		t.Errorf("m.SrcFiles: (-want +got)\n%s", diff)
	}
	if m.ModName != "foo" {
		t.Errorf("m.ModName=%q, want foo", m.ModName)
	}
}

func TestSourceFileNotFound(t *testing.T) {
	root, err := newFS([]file{
		{path: "foo.ts", body: ""},
	})
	if err != nil {
		t.Fatalf("newFS failed: %v", err)
	}
	defer rmDirRecur(root)

	if _, err = Load(filepath.Join(root, "nothing.ts"), "foo"); err == nil {
		t.Fatalf("Load() succeeded, wanted an error")
	}
}

func TestSourceDirModule(t *testing.T) {
	root, err := newFS([]file{
		{path: "foo.ts", body: ""},
		{path: "bar.ts", body: ""},
		{path: "baz.d.ts", body: ""},
		{path: "zzz.js", body: ""},
		{path: "qux.go", body: ""},
		{path: "sub/sub.ts", body: ""},
	})
	if err != nil {
		t.Fatalf("newFS failed: %v", err)
	}
	defer rmDirRecur(root)

	m, err := Load(root, "foo")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []string{
		filepath.Join(root, "bar.ts"),
		filepath.Join(root, "baz.d.ts"),
		filepath.Join(root, "foo.ts"),
	}
	if diff := cmp.Diff(want, m.SrcFiles); diff != "" {
		t.Errorf("m.SrcFiles: (-want +got)\n%s", diff)
	}
}

func TestResolve(t *testing.T) {
	root, err := newFS([]file{
		{path: "a.ts", body: ""},
		{path: "b.d.ts", body: ""},
		{path: "c/index.ts", body: ""},
		{path: "d.ts", body: ""},
		{path: "lib/e.ts", body: ""},
		{path: "lib/f/index.d.ts", body: ""},
	})
	if err != nil {
		t.Fatalf("newFS failed: %v", err)
	}
	defer rmDirRecur(root)

	tests := []struct {
		dir        string
		importPath string
		want       string // relative to root; "" means an error
	}{
		{dir: root, importPath: "./a", want: "a.ts"},
		{dir: root, importPath: "./a.ts", want: "a.ts"},
		{dir: root, importPath: "./a.js", want: "a.ts"},
		{dir: root, importPath: "./b", want: "b.d.ts"},
		{dir: root, importPath: "./c", want: "c/index.ts"},
		{dir: filepath.Join(root, "lib"), importPath: "../d", want: "d.ts"},
		{dir: filepath.Join(root, "lib"), importPath: "./e", want: "lib/e.ts"},
		{dir: filepath.Join(root, "lib"), importPath: "./f", want: "lib/f/index.d.ts"},
		{dir: filepath.Join(root, "lib"), importPath: "a", want: "a.ts"},
		{dir: root, importPath: "lib/e", want: "lib/e.ts"},
		{dir: root, importPath: "./nothing", want: ""},
		{dir: filepath.Join(root, "lib"), importPath: "./a", want: ""},
	}
	for _, test := range tests {
		got, err := Resolve(root, test.dir, test.importPath)
		switch {
		case test.want == "" && err == nil:
			t.Errorf("Resolve(%q, %q)=%q, want error", test.dir, test.importPath, got)
		case test.want != "" && err != nil:
			t.Errorf("Resolve(%q, %q) failed: %v", test.dir, test.importPath, err)
		case test.want != "" && got != filepath.Join(root, test.want):
			t.Errorf("Resolve(%q, %q)=%q, want %q", test.dir, test.importPath, got, filepath.Join(root, test.want))
		}
	}
}

func TestMalformedImport(t *testing.T) {
	root, err := newFS([]file{
		{path: "foo/foo.ts", body: `import "../bar/bar"`},
		{path: "bar/bar.ts", body: `import malformed not quoted`},
		{path: "baz/baz.ts", body: ``},
	})
	if err != nil {
		t.Fatalf("newFS failed: %v", err)
	}
	defer rmDirRecur(root)

	m, err := Load(filepath.Join(root, "foo"), "foo")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := m.LoadDeps(root); err == nil {
		t.Fatalf("LoadDeps succeeded, wanted an error")
	}
}

func TestMissingDep(t *testing.T) {
	root, err := newFS([]file{
		{path: "foo/foo.ts", body: `import "./bar"`},
	})
	if err != nil {
		t.Fatalf("newFS failed: %v", err)
	}
	defer rmDirRecur(root)

	m, err := Load(filepath.Join(root, "foo"), "foo")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := m.LoadDeps(root); err == nil {
		t.Fatalf("LoadDeps succeeded, wanted an error")
	}
}

func TestLoadDeps(t *testing.T) {
	root, err := newFS([]file{
		{path: "foo/foo.ts", body: `import { x } from "bar"`},
		{path: "bar.ts", body: `import * as baz from "./baz/baz"; export const x = 1`},
		{path: "baz/baz.ts", body: ``},
	})
	if err != nil {
		t.Fatalf("newFS failed: %v", err)
	}
	defer rmDirRecur(root)

	foo, err := Load(filepath.Join(root, "foo"), "foo")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := foo.LoadDeps(root); err != nil {
		t.Fatalf("LoadDeps failed: %v", err)
	}
	if len(foo.Deps) != 1 {
		t.Fatalf("len(foo.Deps)=%d, want 1", len(foo.Deps))
	}

	bar := foo.Deps[0]
	if bar.ModPath != "bar" {
		t.Errorf("bar.ModPath=%v, want bar", bar.ModPath)
	}
	if len(bar.Deps) != 1 {
		t.Fatalf("len(bar.Deps)=%d, want 1", len(bar.Deps))
	}

	baz := bar.Deps[0]
	if baz.ModPath != "./baz/baz" {
		t.Errorf("baz.ModPath=%v, want ./baz/baz", baz.ModPath)
	}
	if len(baz.Deps) != 0 {
		t.Errorf("len(baz.Deps)=%d, want 0", len(baz.Deps))
	}
}

func TestTopologicalDeps(t *testing.T) {
	root, err := newFS([]file{
		{
			path: "foo.ts",
			body: `
				import "./bar"
				import "./baz"
			`,
		},
		{path: "bar.ts", body: `import "./baz"`},
		{path: "baz.ts", body: ``},
	})
	if err != nil {
		t.Fatalf("newFS failed: %v", err)
	}
	defer rmDirRecur(root)

	foo, err := Load(filepath.Join(root, "foo.ts"), "./foo")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := foo.LoadDeps(root); err != nil {
		t.Fatalf("LoadDeps failed: %v", err)
	}

	var got []string
	for _, m := range TopologicalDeps([]*Mod{foo}) {
		got = append(got, m.ModPath)
	}
	want := []string{"./baz", "./bar", "./foo"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TopologicalDeps: (-want +got)\n%s", diff)
	}
}

func TestLoadFilesShared(t *testing.T) {
	root, err := newFS([]file{
		{path: "a.ts", body: `import "./b"`},
		{path: "b.ts", body: `import "./a"`},
		{path: "c.ts", body: ``},
	})
	if err != nil {
		t.Fatalf("newFS failed: %v", err)
	}
	defer rmDirRecur(root)

	mods, err := LoadFiles(root, []string{
		filepath.Join(root, "a.ts"),
		filepath.Join(root, "b.ts"),
		filepath.Join(root, "c.ts"),
	})
	if err != nil {
		t.Fatalf("LoadFiles failed: %v", err)
	}
	if len(mods) != 3 {
		t.Fatalf("len(mods)=%d, want 3", len(mods))
	}
	a, b := mods[0], mods[1]
	if len(a.Deps) != 1 || a.Deps[0] != b {
		t.Errorf("a.Deps=%v, want [b]", a.Deps)
	}
	if len(b.Deps) != 1 || b.Deps[0] != a {
		t.Errorf("b.Deps=%v, want [a]", b.Deps)
	}

	var got []string
	for _, m := range TopologicalDeps(mods) {
		got = append(got, m.ModPath)
	}
	want := []string{"./b.ts", "./a.ts", "./c.ts"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TopologicalDeps: (-want +got)\n%s", diff)
	}
}

type file struct {
	path string
	body string
}

// newFS creates the files in a root temporary directory.
// It returns the root directory or an error.
func newFS(files []file) (root string, err error) {
	if root, err = os.MkdirTemp("", "tsck_mod_test"); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			rmDirRecur(root)
		}
	}()
	for _, file := range files {
		if err := os.MkdirAll(filepath.Join(root, filepath.Dir(file.path)), os.ModePerm); err != nil {
			return "", err
		}
		f, err := os.Create(filepath.Join(root, file.path))
		if err != nil {
			return "", err
		}
		if _, err := io.WriteString(f, file.body); err != nil {
			return "", err
		}
		if err := f.Close(); err != nil {
			return "", err
		}
	}
	return root, nil
}

func rmDirRecur(root string) error {
	return os.RemoveAll(root)
}
