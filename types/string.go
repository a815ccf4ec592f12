// © 2020 the Pea Authors under the MIT license. See AUTHORS for the list of authors.

package types

import (
	"strconv"
	"strings"
)

func (t Keyword) String() string { return string(t) }

func (t Lit) String() string {
	if t.Kind == String {
		return strconv.Quote(t.Value)
	}
	if t.Kind == BigInt {
		return t.Value + "n"
	}
	return t.Value
}

func (t *Static) String() string { return t.Type.String() }

func (t *Array) String() string {
	switch t.Elem.(type) {
	case *Union, *Intersection, *Function:
		return "(" + t.Elem.String() + ")[]"
	}
	return t.Elem.String() + "[]"
}

func (t *Tuple) String() string {
	var s strings.Builder
	s.WriteRune('[')
	for i, e := range t.Elems {
		if i > 0 {
			s.WriteString(", ")
		}
		s.WriteString(e.String())
	}
	s.WriteRune(']')
	return s.String()
}

func (t *Union) String() string { return join(t.Types, " | ") }

func (t *Intersection) String() string { return join(t.Types, " & ") }

func join(ts []Type, sep string) string {
	var s strings.Builder
	for i, t := range ts {
		if i > 0 {
			s.WriteString(sep)
		}
		if _, ok := t.(*Function); ok {
			s.WriteString("(" + t.String() + ")")
			continue
		}
		s.WriteString(t.String())
	}
	return s.String()
}

func (t *Function) String() string {
	var s strings.Builder
	buildSig(&s, t)
	s.WriteString(" => ")
	s.WriteString(retString(t.Ret))
	return s.String()
}

func retString(t Type) string {
	if t == nil {
		return "any"
	}
	return t.String()
}

// buildSig writes the type parameters and parameters of f.
func buildSig(s *strings.Builder, f *Function) {
	if len(f.TypeParams) > 0 {
		s.WriteRune('<')
		for i, tp := range f.TypeParams {
			if i > 0 {
				s.WriteString(", ")
			}
			s.WriteString(tp.Name)
			if tp.Constraint != nil {
				s.WriteString(" extends ")
				s.WriteString(tp.Constraint.String())
			}
		}
		s.WriteRune('>')
	}
	s.WriteRune('(')
	for i, p := range f.Params {
		if i > 0 {
			s.WriteString(", ")
		}
		if p.Rest {
			s.WriteString("...")
		}
		s.WriteString(p.Name)
		if p.Optional {
			s.WriteRune('?')
		}
		s.WriteString(": ")
		s.WriteString(retString(p.Type))
	}
	s.WriteRune(')')
}

func (t *TypeParam) String() string { return t.Name }

func (t *TypeLit) String() string {
	if len(t.Members) == 0 {
		return "{}"
	}
	var s strings.Builder
	s.WriteString("{ ")
	for i, m := range t.Members {
		if i > 0 {
			s.WriteString("; ")
		}
		s.WriteString(m.String())
	}
	s.WriteString(" }")
	return s.String()
}

func (t *Interface) String() string { return t.Name }

func (t *Class) String() string { return t.Name }

func (t *Alias) String() string { return t.Name }

func (t *Module) String() string { return "typeof " + t.Name }

func (t *Ref) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	return t.Name + "<" + join(t.Args, ", ") + ">"
}

func (m *Prop) String() string {
	var s strings.Builder
	if m.Static {
		s.WriteString("static ")
	}
	if m.Readonly {
		s.WriteString("readonly ")
	}
	s.WriteString(m.Name)
	if m.Optional {
		s.WriteRune('?')
	}
	s.WriteString(": ")
	s.WriteString(retString(m.Type))
	return s.String()
}

func (m *Method) String() string {
	var s strings.Builder
	if m.Static {
		s.WriteString("static ")
	}
	s.WriteString(m.Name)
	if m.Optional {
		s.WriteRune('?')
	}
	buildSig(&s, m.Func)
	s.WriteString(": ")
	s.WriteString(retString(m.Func.Ret))
	return s.String()
}

func (m *CallSig) String() string {
	var s strings.Builder
	buildSig(&s, m.Func)
	s.WriteString(": ")
	s.WriteString(retString(m.Func.Ret))
	return s.String()
}

func (m *ConstructSig) String() string {
	var s strings.Builder
	s.WriteString("new ")
	buildSig(&s, m.Func)
	s.WriteString(": ")
	s.WriteString(retString(m.Func.Ret))
	return s.String()
}

func (m *IndexSig) String() string {
	var s strings.Builder
	if m.Static {
		s.WriteString("static ")
	}
	if m.Readonly {
		s.WriteString("readonly ")
	}
	s.WriteString("[key: ")
	s.WriteString(retString(m.Key))
	s.WriteString("]: ")
	s.WriteString(retString(m.Type))
	return s.String()
}
