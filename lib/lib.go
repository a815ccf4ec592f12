// © 2020 the Pea Authors under the MIT license. See AUTHORS for the list of authors.

// Package lib enumerates the builtin declaration libraries.
//
// Each library variant is a TypeScript declaration file
// shipped with the checker and embedded in the binary.
// The set of variants is closed.
package lib

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// A Lib is a builtin library variant.
type Lib int

// The library variants, in the order in which they layer on each other.
const (
	ES5 Lib = iota
	ES2015
	ES2016
	ES2017
	ES2018
	ES2019
	ES2020
	nLibs
)

//go:embed dts/*.d.ts
var dts embed.FS

var names = [...]string{
	ES5:    "es5",
	ES2015: "es2015",
	ES2016: "es2016",
	ES2017: "es2017",
	ES2018: "es2018",
	ES2019: "es2019",
	ES2020: "es2020",
}

func (l Lib) String() string {
	if l < 0 || l >= nLibs {
		return fmt.Sprintf("Lib(%d)", int(l))
	}
	return names[l]
}

// All returns every library variant in layering order.
func All() []Lib {
	libs := make([]Lib, nLibs)
	for i := range libs {
		libs[i] = Lib(i)
	}
	return libs
}

// Default returns the library set used when none is configured.
func Default() []Lib { return []Lib{ES5} }

// Upto returns l and every variant it builds on, in layering order.
// For example, Upto(ES2016) is [ES5, ES2015, ES2016].
func Upto(l Lib) []Lib {
	if l < 0 || l >= nLibs {
		panic("bad Lib " + l.String())
	}
	return All()[:l+1]
}

// Parse returns the Lib with the given name.
// Names are case insensitive and may carry a "lib." prefix,
// as in "lib.es2015" or "ES2015".
func Parse(name string) (Lib, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimSuffix(strings.TrimPrefix(n, "lib."), ".d.ts")
	if n == "es6" {
		n = "es2015"
	}
	for i, s := range names {
		if s == n {
			return Lib(i), nil
		}
	}
	return 0, fmt.Errorf("unknown library %q", name)
}

// ParseList parses a comma-separated list of library names.
func ParseList(s string) ([]Lib, error) {
	var libs []Lib
	for _, f := range strings.Split(s, ",") {
		if strings.TrimSpace(f) == "" {
			continue
		}
		l, err := Parse(f)
		if err != nil {
			return nil, err
		}
		libs = append(libs, l)
	}
	return libs, nil
}

// UnmarshalYAML implements yaml.Unmarshaler,
// decoding a Lib from its name.
func (l *Lib) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	v, err := Parse(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*l = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (l Lib) MarshalYAML() (interface{}, error) { return l.String(), nil }

// Source returns the path and text of the declaration file of the library.
func (l Lib) Source() (string, []byte) {
	if l < 0 || l >= nLibs {
		panic("bad Lib " + l.String())
	}
	path := "lib." + names[l] + ".d.ts"
	text, err := dts.ReadFile("dts/" + names[l] + ".d.ts")
	if err != nil {
		panic("missing builtin library " + path + ": " + err.Error())
	}
	return path, text
}

// Key returns a string uniquely identifying an ordered list of libraries.
func Key(libs []Lib) string {
	var s strings.Builder
	for i, l := range libs {
		if i > 0 {
			s.WriteByte(',')
		}
		s.WriteString(l.String())
	}
	return s.String()
}
