// The tslist command lists the merged declarations of the builtin libraries.
//
// With name arguments, only the named declarations are listed.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/eaburns/pretty"
	"github.com/eaburns/tsck/check"
	"github.com/eaburns/tsck/lib"
	"github.com/eaburns/tsck/types"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	libs    = flag.String("libs", "", "comma-separated builtin libraries (default es5)")
	asYAML  = flag.Bool("yaml", false, "write the listing as YAML")
	dump    = flag.Bool("dump", false, "pretty-print the full declarations")
	verbose = flag.Bool("v", false, "enable verbose output")
)

// A Listing describes a builtin environment.
type Listing struct {
	Libs  []lib.Lib         `yaml:"libs"`
	Vars  map[string]string `yaml:"vars"`
	Types map[string]string `yaml:"types"`
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			die(err)
		}
		defer logger.Sync()
		zap.ReplaceGlobals(logger)
	}

	ls := lib.Default()
	if *libs != "" {
		var err error
		if ls, err = lib.ParseList(*libs); err != nil {
			die(err)
		}
	}
	env := check.EnvFor(ls)
	names := make(map[string]bool)
	for _, n := range flag.Args() {
		names[n] = true
	}
	listing := Listing{
		Libs:  env.Libs,
		Vars:  describe(env.Vars, names),
		Types: describe(env.Types, names),
	}

	switch {
	case *asYAML:
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(listing); err != nil {
			die(err)
		}
		if err := enc.Close(); err != nil {
			die(err)
		}
	case *dump:
		pretty.Indent = "    "
		for _, n := range sortedKeys(listing.Vars) {
			fmt.Printf("var %s\n", n)
			pretty.Print(env.Vars[n])
			fmt.Println("")
		}
		for _, n := range sortedKeys(listing.Types) {
			fmt.Printf("type %s\n", n)
			pretty.Print(env.Types[n])
			fmt.Println("")
		}
	default:
		for _, n := range sortedKeys(listing.Vars) {
			fmt.Printf("var %s: %s\n", n, listing.Vars[n])
		}
		for _, n := range sortedKeys(listing.Types) {
			fmt.Printf("%s\n", listing.Types[n])
		}
	}
}

func describe(decls map[string]types.Type, names map[string]bool) map[string]string {
	d := make(map[string]string)
	for n, t := range decls {
		if len(names) > 0 && !names[n] {
			continue
		}
		switch t.(type) {
		case *types.Function:
			d[n] = "function " + n + ": " + t.String()
		case *types.Interface, *types.Class, *types.Alias, *types.Module:
			d[n] = kind(t) + " " + n
		default:
			d[n] = t.String()
		}
	}
	return d
}

func kind(t types.Type) string {
	switch t.(type) {
	case *types.Interface:
		return "interface"
	case *types.Class:
		return "class"
	case *types.Alias:
		return "type"
	case *types.Module:
		return "namespace"
	case *types.Function:
		return "function"
	default:
		return ""
	}
}

func sortedKeys(m map[string]string) []string {
	var ks []string
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
	fmt.Fprintf(out, "%s [flags] [names]\n", os.Args[0])
	flag.PrintDefaults()
}

func die(err error) {
	fmt.Fprintln(flag.CommandLine.Output(), err)
	os.Exit(1)
}
