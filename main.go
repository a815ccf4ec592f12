// Command tsck parses TypeScript source files, or standard input,
// and pretty-prints their syntax trees.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/eaburns/pretty"
	"github.com/eaburns/tsck/ast"
)

func main() {
	pretty.Indent = "    "

	p := ast.NewParser()

	if len(os.Args) == 1 {
		if _, err := p.Parse("<stdin>", os.Stdin); err != nil {
			die(err)
		}
	} else {
		for _, file := range os.Args[1:] {
			if _, err := p.ParseFile(file); err != nil {
				die(err)
			}
		}
	}

	for _, f := range p.Files() {
		for _, s := range f.Stmts {
			fmt.Println(p.Locs().Loc(s.GetRange()))
			pretty.Print(s)
			fmt.Println("")
		}
	}
	fmt.Println("")
}

func die(err error) {
	var se *ast.SyntaxError
	if errors.As(err, &se) {
		fmt.Printf("%s:%d.%d\n", se.Path, se.Line, se.Col)
	}
	fmt.Println(err)
	os.Exit(1)
}
