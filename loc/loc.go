// Copyright © 2020 The Pea Authors under an MIT-style license.

// Package loc has routines for tracking source locations.
package loc

import (
	"fmt"
	"sort"
)

// A Range is a start and end byte offset.
// Offsets are relative to the Files table in which the source was added,
// so ranges from different files in the same table never overlap.
type Range [2]int

// None is the Range of nodes that have no source,
// for example nodes synthesized by the checker.
var None = Range{-1, -1}

// GetRange returns itself.
// This is useful so than Range can be embedded in a struct
// and that struct can implement interface{GetRange() Range}.
func (r Range) GetRange() Range { return r }

// Join returns the smallest Range containing both r and o.
func (r Range) Join(o Range) Range {
	switch {
	case r == None:
		return o
	case o == None:
		return r
	}
	if o[0] < r[0] {
		r[0] = o[0]
	}
	if o[1] > r[1] {
		r[1] = o[1]
	}
	return r
}

// A Loc describes a file location.
type Loc struct {
	Path string
	Line [2]int
	Col  [2]int
}

func (l Loc) String() string {
	switch {
	case l.Path == "" && l.Line[0] == 0:
		return "<unknown>"
	case l.Line[0] == l.Line[1] && l.Col[0] == l.Col[1]:
		return fmt.Sprintf("%s:%d.%d", l.Path, l.Line[0], l.Col[0])
	default:
		return fmt.Sprintf("%s:%d.%d-%d.%d", l.Path, l.Line[0], l.Col[0], l.Line[1], l.Col[1])
	}
}

// Less returns whether l sorts before o: by path, then line, then column.
func (l Loc) Less(o Loc) bool {
	switch {
	case l.Path != o.Path:
		return l.Path < o.Path
	case l.Line[0] != o.Line[0]:
		return l.Line[0] < o.Line[0]
	default:
		return l.Col[0] < o.Col[0]
	}
}

// Files tracks locations within a set of files.
type Files []File

// A File is a single file in a Files.
type File struct {
	Path  string
	Offs  int
	Len   int
	Lines []int // offsets of newlines
}

// Len returns the total length of all files.
func (fs Files) Len() int {
	if len(fs) == 0 {
		return 0
	}
	last := fs[len(fs)-1]
	return last.Offs + last.Len
}

// Add adds a new file to the set given its path and text.
// It returns the base offset of the file;
// byte i of text has offset base+i in the table.
func (fs *Files) Add(path string, text []byte) int {
	var lines []int
	base := fs.Len()
	for i, b := range text {
		if b == '\n' {
			lines = append(lines, base+i)
		}
	}
	*fs = append(*fs, File{
		Path:  path,
		Offs:  base,
		Len:   len(text),
		Lines: lines,
	})
	return base
}

// Loc returns the Loc of a Range.
// The zero Loc is returned if the Range is not in the table.
func (fs Files) Loc(r Range) Loc {
	if len(fs) == 0 || r[0] < 0 || r[1] > fs.Len() || r[1] < r[0] {
		return Loc{}
	}
	f := fs.file(r[0])
	var l Loc
	l.Path = f.Path
	l.Line[0], l.Col[0] = f.lineCol(r[0])
	l.Line[1], l.Col[1] = f.lineCol(r[1])
	return l
}

func (fs Files) file(p int) *File {
	i := sort.Search(len(fs), func(i int) bool { return fs[i].Offs > p })
	if i == 0 {
		panic("impossible")
	}
	return &fs[i-1]
}

// lineCol returns the 1-based line and column of offset p.
func (f *File) lineCol(p int) (int, int) {
	i := sort.Search(len(f.Lines), func(i int) bool { return f.Lines[i] >= p })
	start := f.Offs
	if i > 0 {
		start = f.Lines[i-1] + 1
	}
	return i + 1, p - start + 1
}
