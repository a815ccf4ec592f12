// The tscheck command checks TypeScript source files and the modules they import.
//
// A project may be described by a YAML file:
//
//	libs: [es5, es2015]
//	root: src
//	files: [src/main.ts]
//	trace: false
//
// Flags override the project file,
// and file arguments replace its files.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/eaburns/tsck/ast"
	"github.com/eaburns/tsck/check"
	"github.com/eaburns/tsck/lib"
	"github.com/eaburns/tsck/mod"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	project = flag.String("config", "", "YAML project file")
	libs    = flag.String("libs", "", "comma-separated builtin libraries (default es5)")
	modRoot = flag.String("root", "", "root directory for non-relative imports (default .)")
	trace   = flag.Bool("trace", false, "enable analyzer tracing")
	verbose = flag.Bool("v", false, "enable verbose output")
)

// A Project is the contents of a project file.
type Project struct {
	Libs  []lib.Lib `yaml:"libs"`
	Root  string    `yaml:"root"`
	Files []string  `yaml:"files"`
	Trace bool      `yaml:"trace"`
}

func main() {
	flag.Usage = usage
	flag.Parse()

	proj, err := loadProject(*project)
	if err != nil {
		die("failed to load project", err)
	}
	if err := applyFlags(&proj, flag.Args()); err != nil {
		die("", err)
	}
	if len(proj.Files) == 0 {
		usage()
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *verbose || proj.Trace {
		if logger, err = zap.NewDevelopment(); err != nil {
			die("failed to create logger", err)
		}
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := checkProject(proj, logger); err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintln(flag.CommandLine.Output(), e)
		}
		os.Exit(1)
	}
}

func loadProject(path string) (Project, error) {
	var proj Project
	if path == "" {
		return proj, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return proj, err
	}
	if err := yaml.Unmarshal(data, &proj); err != nil {
		return proj, fmt.Errorf("%s: %w", path, err)
	}
	return proj, nil
}

func applyFlags(proj *Project, args []string) error {
	if *libs != "" {
		ls, err := lib.ParseList(*libs)
		if err != nil {
			return err
		}
		proj.Libs = ls
	}
	if *modRoot != "" {
		proj.Root = *modRoot
	}
	if proj.Root == "" {
		proj.Root = "."
	}
	if *trace {
		proj.Trace = true
	}
	if len(args) > 0 {
		proj.Files = args
	}
	return nil
}

// checkProject checks every source file of the project
// and of its dependencies, dependencies first.
func checkProject(proj Project, logger *zap.Logger) error {
	mods, err := mod.LoadFiles(proj.Root, proj.Files)
	if err != nil {
		return err
	}
	loader := check.NewSourceLoader(proj.Root, check.Config{
		Libs:   proj.Libs,
		Logger: logger,
	})
	var errs error
	for _, m := range mod.TopologicalDeps(mods) {
		logger.Debug("checking module", zap.String("module", m.ModPath), zap.Strings("files", m.SrcFiles))
		for _, path := range m.SrcFiles {
			errs = multierr.Append(errs, checkFile(loader, proj, path))
		}
	}
	return errs
}

func checkFile(loader *check.SourceLoader, proj Project, path string) error {
	if !proj.Trace {
		_, err := loader.LoadFile(path)
		return err
	}
	// Imports are loaded without tracing,
	// but the named files are traced.
	cfg := loader.Config
	cfg.Loader = loader
	cfg.Trace = true
	f, err := ast.NewParserWithLocs(cfg.Locs).ParseFile(path)
	if err != nil {
		return err
	}
	a := check.New(cfg)
	a.Check(f)
	return a.Err()
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
	fmt.Fprintf(out, "%s [flags] <source files or directories>\n", os.Args[0])
	flag.PrintDefaults()
}

func die(s string, err error) {
	if s == "" {
		fmt.Fprintln(flag.CommandLine.Output(), err)
	} else {
		fmt.Fprintf(flag.CommandLine.Output(), "%s: %s\n", s, err)
	}
	os.Exit(1)
}
