// Copyright © 2020 The Pea Authors under an MIT-style license.

package ast

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/eaburns/tsck/loc"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// lowerer converts a tree-sitter concrete syntax tree into the AST.
// Constructs the checker does not support become Bad nodes;
// malformed trees set err.
type lowerer struct {
	src  []byte
	base int
	err  error
}

func (l *lowerer) fail(n *sitter.Node, f string, vs ...interface{}) {
	if l.err != nil {
		return
	}
	pos := n.StartPosition()
	l.err = fmt.Errorf("%d.%d: %s", pos.Row+1, pos.Column+1, fmt.Sprintf(f, vs...))
}

func (l *lowerer) rng(n *sitter.Node) loc.Range {
	return loc.Range{l.base + int(n.StartByte()), l.base + int(n.EndByte())}
}

func (l *lowerer) text(n *sitter.Node) string { return n.Utf8Text(l.src) }

// named returns the named, non-comment children of n.
func named(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	var kids []*sitter.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if k := n.NamedChild(i); k != nil && k.Kind() != "comment" {
			kids = append(kids, k)
		}
	}
	return kids
}

func first(n *sitter.Node) *sitter.Node {
	if kids := named(n); len(kids) > 0 {
		return kids[0]
	}
	return nil
}

// hasToken returns whether n has an anonymous child token tok.
func hasToken(n *sitter.Node, tok string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		if k := n.Child(i); k != nil && !k.IsNamed() && k.Kind() == tok {
			return true
		}
	}
	return false
}

func (l *lowerer) stmts(n *sitter.Node) []Stmt {
	var stmts []Stmt
	for _, k := range named(n) {
		if s := l.stmt(k); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func (l *lowerer) stmt(n *sitter.Node) Stmt {
	switch n.Kind() {
	case "expression_statement":
		x := first(n)
		if x == nil {
			return &EmptyStmt{Range: l.rng(n)}
		}
		if x.Kind() == "internal_module" {
			return l.namespace(x)
		}
		return &ExprStmt{Range: l.rng(n), X: l.expr(x)}
	case "variable_declaration", "lexical_declaration":
		return l.varDecl(n)
	case "function_declaration", "generator_function_declaration", "function_signature":
		return l.funcDecl(n)
	case "class_declaration", "abstract_class_declaration":
		return l.classDecl(n)
	case "interface_declaration":
		return l.interfaceDecl(n)
	case "type_alias_declaration":
		return l.typeAlias(n)
	case "internal_module", "module":
		return l.namespace(n)
	case "ambient_declaration":
		return l.ambient(n)
	case "statement_block":
		return l.block(n)
	case "if_statement":
		s := &IfStmt{
			Range: l.rng(n),
			Cond:  l.expr(n.ChildByFieldName("condition")),
			Then:  l.stmt(n.ChildByFieldName("consequence")),
		}
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			if body := first(alt); body != nil {
				s.Else = l.stmt(body)
			}
		}
		return s
	case "for_in_statement":
		return l.forIn(n)
	case "for_statement":
		return l.forStmt(n)
	case "while_statement":
		return &WhileStmt{
			Range: l.rng(n),
			Cond:  l.expr(n.ChildByFieldName("condition")),
			Body:  l.stmt(n.ChildByFieldName("body")),
		}
	case "do_statement":
		return &WhileStmt{
			Range: l.rng(n),
			Do:    true,
			Cond:  l.expr(n.ChildByFieldName("condition")),
			Body:  l.stmt(n.ChildByFieldName("body")),
		}
	case "return_statement":
		s := &ReturnStmt{Range: l.rng(n)}
		if x := first(n); x != nil {
			s.X = l.expr(x)
		}
		return s
	case "throw_statement":
		return &ThrowStmt{Range: l.rng(n), X: l.expr(first(n))}
	case "break_statement", "continue_statement":
		s := &BranchStmt{Range: l.rng(n), Tok: strings.TrimSuffix(n.Kind(), "_statement")}
		if label := n.ChildByFieldName("label"); label != nil {
			s.Label = l.text(label)
		}
		return s
	case "labeled_statement":
		return l.stmt(n.ChildByFieldName("body"))
	case "empty_statement":
		return &EmptyStmt{Range: l.rng(n)}
	case "import_statement":
		return l.importDecl(n)
	case "export_statement":
		return l.exportDecl(n)
	case "comment", "hash_bang_line":
		return nil
	default:
		return &BadStmt{Range: l.rng(n), Kind: n.Kind()}
	}
}

func (l *lowerer) ambient(n *sitter.Node) Stmt {
	inner := first(n)
	if inner == nil || inner.Kind() == "statement_block" {
		return &BadStmt{Range: l.rng(n), Kind: "declare global"}
	}
	s := l.stmt(inner)
	switch s := s.(type) {
	case *VarDecl:
		s.Declare = true
	case *FuncDecl:
		s.Declare = true
	case *ClassDecl:
		s.Declare = true
	case *InterfaceDecl:
		s.Declare = true
	case *TypeAliasDecl:
		s.Declare = true
	case *NamespaceDecl:
		for ns := s; ns != nil; ns = innerNamespace(ns) {
			ns.Declare = true
		}
	}
	return s
}

func innerNamespace(ns *NamespaceDecl) *NamespaceDecl {
	if len(ns.Body) != 1 || ns.Body[0].GetRange() != ns.Range {
		return nil
	}
	inner, _ := ns.Body[0].(*NamespaceDecl)
	return inner
}

func (l *lowerer) varDecl(n *sitter.Node) *VarDecl {
	d := &VarDecl{Range: l.rng(n), Kind: Var}
	if n.Kind() == "lexical_declaration" {
		d.Kind = varKind(l.text(n.ChildByFieldName("kind")))
	}
	for _, k := range named(n) {
		if k.Kind() != "variable_declarator" {
			continue
		}
		decl := &Declarator{
			Range: l.rng(k),
			Name:  l.pat(k.ChildByFieldName("name")),
			Type:  l.typeAnn(k.ChildByFieldName("type")),
		}
		if v := k.ChildByFieldName("value"); v != nil {
			decl.Init = l.expr(v)
		}
		d.Decls = append(d.Decls, decl)
	}
	return d
}

func varKind(s string) VarKind {
	switch s {
	case "let":
		return Let
	case "const":
		return Const
	default:
		return Var
	}
}

func (l *lowerer) funcDecl(n *sitter.Node) *FuncDecl {
	d := &FuncDecl{
		Range: l.rng(n),
		Name:  l.ident(n.ChildByFieldName("name")),
		Func:  l.sig(n),
	}
	if body := n.ChildByFieldName("body"); body != nil {
		d.Func.Body = l.block(body)
	}
	return d
}

// sig returns the Func of a node carrying the
// type_parameters, parameters, and return_type fields.
func (l *lowerer) sig(n *sitter.Node) *Func {
	f := &Func{
		Range:      l.rng(n),
		TypeParams: l.typeParams(n.ChildByFieldName("type_parameters")),
		Params:     l.params(n.ChildByFieldName("parameters")),
		Async:      hasToken(n, "async"),
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		f.Ret = l.retType(ret)
	}
	return f
}

func (l *lowerer) retType(n *sitter.Node) Type {
	switch n.Kind() {
	case "asserts_annotation", "type_predicate_annotation", "type_predicate":
		return &KeywordType{Range: l.rng(n), Name: "boolean"}
	default:
		return l.typeAnn(n)
	}
}

func (l *lowerer) params(n *sitter.Node) []*Param {
	var ps []*Param
	for _, k := range named(n) {
		switch k.Kind() {
		case "required_parameter", "optional_parameter":
			pat := k.ChildByFieldName("pattern")
			if pat == nil {
				l.fail(k, "parameter has no pattern")
				continue
			}
			if pat.Kind() == "this" {
				continue
			}
			p := &Param{
				Range:    l.rng(k),
				Type:     l.typeAnn(k.ChildByFieldName("type")),
				Optional: k.Kind() == "optional_parameter",
			}
			if pat.Kind() == "rest_pattern" {
				p.Rest = true
				pat = first(pat)
			}
			p.Name = l.pat(pat)
			if v := k.ChildByFieldName("value"); v != nil {
				p.Default = l.expr(v)
			}
			ps = append(ps, p)
		case "identifier":
			// The single parameter of an arrow function, x => x.
			ps = append(ps, &Param{Range: l.rng(k), Name: l.ident(k)})
		}
	}
	return ps
}

func (l *lowerer) typeParams(n *sitter.Node) []*TypeParam {
	var tps []*TypeParam
	for _, k := range named(n) {
		if k.Kind() != "type_parameter" {
			continue
		}
		tp := &TypeParam{Range: l.rng(k), Name: l.text(k.ChildByFieldName("name"))}
		if c := k.ChildByFieldName("constraint"); c != nil {
			tp.Constraint = l.typ(first(c))
		}
		if v := k.ChildByFieldName("value"); v != nil {
			tp.Default = l.typ(first(v))
		}
		tps = append(tps, tp)
	}
	return tps
}

func (l *lowerer) classDecl(n *sitter.Node) *ClassDecl {
	d := &ClassDecl{
		Range:      l.rng(n),
		Abstract:   n.Kind() == "abstract_class_declaration",
		TypeParams: l.typeParams(n.ChildByFieldName("type_parameters")),
	}
	if name := n.ChildByFieldName("name"); name != nil {
		d.Name = l.ident(name)
	}
	for _, k := range named(n) {
		if k.Kind() != "class_heritage" {
			continue
		}
		for _, h := range named(k) {
			switch h.Kind() {
			case "extends_clause":
				if v := h.ChildByFieldName("value"); v != nil {
					d.Super = l.expr(v)
				} else if v := first(h); v != nil {
					d.Super = l.expr(v)
				}
				if args := h.ChildByFieldName("type_arguments"); args != nil {
					d.SuperArgs = l.types(args)
				}
			case "implements_clause":
				d.Implements = append(d.Implements, l.types(h)...)
			}
		}
	}
	for _, m := range named(n.ChildByFieldName("body")) {
		if member := l.classMember(m); member != nil {
			d.Body = append(d.Body, member)
		}
	}
	return d
}

func (l *lowerer) classMember(n *sitter.Node) ClassMember {
	switch n.Kind() {
	case "method_definition", "method_signature", "abstract_method_signature":
		m := &ClassMethod{
			Range:    l.rng(n),
			Name:     l.propName(n.ChildByFieldName("name")),
			Static:   hasToken(n, "static"),
			Abstract: n.Kind() == "abstract_method_signature" || hasToken(n, "abstract"),
			Optional: hasToken(n, "?"),
			Func:     l.sig(n),
		}
		switch {
		case m.Name == "constructor":
			m.Kind = Constructor
		case hasToken(n, "get"):
			m.Kind = Getter
		case hasToken(n, "set"):
			m.Kind = Setter
		}
		if body := n.ChildByFieldName("body"); body != nil {
			m.Func.Body = l.block(body)
		}
		return m
	case "public_field_definition", "field_definition":
		p := &ClassProp{
			Range:    l.rng(n),
			Name:     l.propName(n.ChildByFieldName("name")),
			Type:     l.typeAnn(n.ChildByFieldName("type")),
			Static:   hasToken(n, "static"),
			Optional: hasToken(n, "?"),
			Readonly: hasToken(n, "readonly"),
			Abstract: hasToken(n, "abstract"),
		}
		if p.Name == "" {
			p.Name = l.propName(n.ChildByFieldName("property"))
		}
		if v := n.ChildByFieldName("value"); v != nil {
			p.Init = l.expr(v)
		}
		return p
	case "index_signature":
		sig := l.indexSig(n)
		sig.Static = hasToken(n, "static")
		return sig
	default:
		return nil
	}
}

func (l *lowerer) propName(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind() {
	case "string":
		return unquote(l.text(n))
	default:
		return l.text(n)
	}
}

func (l *lowerer) interfaceDecl(n *sitter.Node) *InterfaceDecl {
	d := &InterfaceDecl{
		Range:      l.rng(n),
		Name:       l.ident(n.ChildByFieldName("name")),
		TypeParams: l.typeParams(n.ChildByFieldName("type_parameters")),
		Body:       l.typeElems(n.ChildByFieldName("body")),
	}
	for _, k := range named(n) {
		if k.Kind() == "extends_type_clause" || k.Kind() == "extends_clause" {
			d.Extends = append(d.Extends, l.types(k)...)
		}
	}
	return d
}

func (l *lowerer) typeElems(n *sitter.Node) []TypeElem {
	var elems []TypeElem
	for _, k := range named(n) {
		switch k.Kind() {
		case "property_signature":
			elems = append(elems, &PropSig{
				Range:    l.rng(k),
				Name:     l.propName(k.ChildByFieldName("name")),
				Type:     l.typeAnn(k.ChildByFieldName("type")),
				Optional: hasToken(k, "?"),
				Readonly: hasToken(k, "readonly"),
			})
		case "method_signature":
			elems = append(elems, &MethodSig{
				Range:    l.rng(k),
				Name:     l.propName(k.ChildByFieldName("name")),
				Optional: hasToken(k, "?"),
				Func:     l.sig(k),
			})
		case "call_signature":
			elems = append(elems, &CallSig{Range: l.rng(k), Func: l.sig(k)})
		case "construct_signature":
			f := &Func{
				Range:      l.rng(k),
				TypeParams: l.typeParams(k.ChildByFieldName("type_parameters")),
				Params:     l.params(k.ChildByFieldName("parameters")),
				Ret:        l.typeAnn(k.ChildByFieldName("type")),
			}
			elems = append(elems, &ConstructSig{Range: l.rng(k), Func: f})
		case "index_signature":
			elems = append(elems, l.indexSig(k))
		}
	}
	return elems
}

func (l *lowerer) indexSig(n *sitter.Node) *IndexSig {
	sig := &IndexSig{
		Range:    l.rng(n),
		Type:     l.typeAnn(n.ChildByFieldName("type")),
		Readonly: hasToken(n, "readonly"),
	}
	name := n.ChildByFieldName("name")
	if name == nil {
		l.fail(n, "unsupported index signature")
		return sig
	}
	sig.Key = &Param{
		Range: l.rng(name),
		Name:  l.ident(name),
		Type:  l.typ(n.ChildByFieldName("index_type")),
	}
	return sig
}

func (l *lowerer) typeAlias(n *sitter.Node) *TypeAliasDecl {
	return &TypeAliasDecl{
		Range:      l.rng(n),
		Name:       l.ident(n.ChildByFieldName("name")),
		TypeParams: l.typeParams(n.ChildByFieldName("type_parameters")),
		Type:       l.typ(n.ChildByFieldName("value")),
	}
}

func (l *lowerer) namespace(n *sitter.Node) *NamespaceDecl {
	name := n.ChildByFieldName("name")
	if name == nil {
		l.fail(n, "namespace has no name")
		return &NamespaceDecl{Range: l.rng(n), Name: &Ident{Range: l.rng(n)}}
	}
	var body []Stmt
	if b := n.ChildByFieldName("body"); b != nil {
		body = l.stmts(b)
	}
	var names []string
	switch name.Kind() {
	case "string":
		names = []string{unquote(l.text(name))}
	default:
		names = strings.Split(strings.ReplaceAll(l.text(name), " ", ""), ".")
	}
	ns := &NamespaceDecl{Range: l.rng(n), Name: &Ident{Range: l.rng(name), Name: names[len(names)-1]}, Body: body}
	for i := len(names) - 2; i >= 0; i-- {
		ns = &NamespaceDecl{Range: l.rng(n), Name: &Ident{Range: l.rng(name), Name: names[i]}, Body: []Stmt{ns}}
	}
	return ns
}

func (l *lowerer) block(n *sitter.Node) *BlockStmt {
	return &BlockStmt{Range: l.rng(n), Stmts: l.stmts(n)}
}

func (l *lowerer) forIn(n *sitter.Node) Stmt {
	var head ForHead
	left := n.ChildByFieldName("left")
	if kind := n.ChildByFieldName("kind"); kind != nil {
		d := &VarDecl{Range: l.rng(kind).Join(l.rng(left)), Kind: varKind(l.text(kind))}
		decl := &Declarator{Range: l.rng(left), Name: l.pat(left)}
		if v := n.ChildByFieldName("value"); v != nil {
			decl.Init = l.expr(v)
		}
		d.Decls = []*Declarator{decl}
		head = d
	} else {
		head = l.pat(left).(ForHead)
	}
	right := l.expr(n.ChildByFieldName("right"))
	body := l.stmt(n.ChildByFieldName("body"))
	op := n.ChildByFieldName("operator")
	if op != nil && l.text(op) == "of" {
		return &ForOfStmt{Range: l.rng(n), Await: hasToken(n, "await"), Left: head, Right: right, Body: body}
	}
	return &ForInStmt{Range: l.rng(n), Left: head, Right: right, Body: body}
}

func (l *lowerer) forStmt(n *sitter.Node) *ForStmt {
	s := &ForStmt{Range: l.rng(n), Body: l.stmt(n.ChildByFieldName("body"))}
	if init := n.ChildByFieldName("initializer"); init != nil {
		switch init.Kind() {
		case "lexical_declaration", "variable_declaration", "expression_statement":
			s.Init = l.stmt(init)
		case "empty_statement":
		default:
			s.Init = &ExprStmt{Range: l.rng(init), X: l.expr(init)}
		}
	}
	if cond := n.ChildByFieldName("condition"); cond != nil {
		switch cond.Kind() {
		case "expression_statement":
			s.Cond = l.expr(first(cond))
		case "empty_statement":
		default:
			s.Cond = l.expr(cond)
		}
	}
	if post := n.ChildByFieldName("increment"); post != nil {
		s.Post = l.expr(post)
	}
	return s
}

func (l *lowerer) importDecl(n *sitter.Node) Stmt {
	src := n.ChildByFieldName("source")
	if src == nil {
		return &BadStmt{Range: l.rng(n), Kind: "import"}
	}
	d := &ImportDecl{Range: l.rng(n), Path: unquote(l.text(src))}
	for _, k := range named(n) {
		if k.Kind() != "import_clause" {
			continue
		}
		for _, c := range named(k) {
			switch c.Kind() {
			case "identifier":
				d.Default = l.ident(c)
			case "namespace_import":
				d.Namespace = l.ident(first(c))
			case "named_imports":
				for _, spec := range named(c) {
					if spec.Kind() != "import_specifier" {
						continue
					}
					name := spec.ChildByFieldName("name")
					is := &ImportSpec{Range: l.rng(spec), Name: l.text(name), Local: l.ident(name)}
					if alias := spec.ChildByFieldName("alias"); alias != nil {
						is.Local = l.ident(alias)
					}
					d.Names = append(d.Names, is)
				}
			}
		}
	}
	return d
}

func (l *lowerer) exportDecl(n *sitter.Node) Stmt {
	d := &ExportDecl{Range: l.rng(n)}
	switch {
	case n.ChildByFieldName("declaration") != nil:
		d.Decl = l.stmt(n.ChildByFieldName("declaration"))
	case n.ChildByFieldName("value") != nil:
		d.Default = l.expr(n.ChildByFieldName("value"))
	default:
		for _, k := range named(n) {
			if k.Kind() != "export_clause" {
				continue
			}
			for _, spec := range named(k) {
				if name := spec.ChildByFieldName("name"); name != nil {
					d.Names = append(d.Names, l.ident(name))
				}
			}
		}
		if d.Names == nil {
			return &BadStmt{Range: l.rng(n), Kind: "export"}
		}
	}
	return d
}

func (l *lowerer) ident(n *sitter.Node) *Ident {
	if n == nil {
		return nil
	}
	return &Ident{Range: l.rng(n), Name: l.text(n)}
}

func (l *lowerer) exprs(n *sitter.Node) []Expr {
	var xs []Expr
	for _, k := range named(n) {
		xs = append(xs, l.expr(k))
	}
	return xs
}

func (l *lowerer) expr(n *sitter.Node) Expr {
	if n == nil {
		return &BadExpr{Range: loc.None, Kind: "missing"}
	}
	switch n.Kind() {
	case "identifier", "undefined", "shorthand_property_identifier", "property_identifier":
		return l.ident(n)
	case "this":
		return &ThisExpr{Range: l.rng(n)}
	case "number":
		return l.number(n)
	case "string":
		return &StrLit{Range: l.rng(n), Value: unquote(l.text(n))}
	case "template_string":
		t := &TemplateLit{Range: l.rng(n)}
		for _, k := range named(n) {
			if k.Kind() == "template_substitution" {
				t.Exprs = append(t.Exprs, l.expr(first(k)))
			}
		}
		return t
	case "regex":
		return &RegexLit{Range: l.rng(n), Pattern: l.text(n.ChildByFieldName("pattern"))}
	case "true", "false":
		return &BoolLit{Range: l.rng(n), Value: n.Kind() == "true"}
	case "null":
		return &NullLit{Range: l.rng(n)}
	case "array":
		return &ArrayLit{Range: l.rng(n), Elems: l.exprs(n)}
	case "spread_element":
		return &SpreadExpr{Range: l.rng(n), X: l.expr(first(n))}
	case "object":
		return l.object(n)
	case "member_expression":
		return &MemberExpr{
			Range:    l.rng(n),
			X:        l.expr(n.ChildByFieldName("object")),
			Name:     l.text(n.ChildByFieldName("property")),
			Optional: n.ChildByFieldName("optional_chain") != nil || hasToken(n, "?."),
		}
	case "subscript_expression":
		return &IndexExpr{
			Range: l.rng(n),
			X:     l.expr(n.ChildByFieldName("object")),
			Index: l.expr(n.ChildByFieldName("index")),
		}
	case "call_expression":
		return &CallExpr{
			Range:    l.rng(n),
			Fn:       l.expr(n.ChildByFieldName("function")),
			TypeArgs: l.types(n.ChildByFieldName("type_arguments")),
			Args:     l.args(n.ChildByFieldName("arguments")),
		}
	case "new_expression":
		return &NewExpr{
			Range:    l.rng(n),
			Fn:       l.expr(n.ChildByFieldName("constructor")),
			TypeArgs: l.types(n.ChildByFieldName("type_arguments")),
			Args:     l.args(n.ChildByFieldName("arguments")),
		}
	case "assignment_expression":
		return &AssignExpr{
			Range: l.rng(n),
			Op:    "=",
			Left:  l.pat(n.ChildByFieldName("left")),
			Right: l.expr(n.ChildByFieldName("right")),
		}
	case "augmented_assignment_expression":
		return &AssignExpr{
			Range: l.rng(n),
			Op:    l.text(n.ChildByFieldName("operator")),
			Left:  l.pat(n.ChildByFieldName("left")),
			Right: l.expr(n.ChildByFieldName("right")),
		}
	case "binary_expression":
		return &BinaryExpr{
			Range: l.rng(n),
			Op:    l.text(n.ChildByFieldName("operator")),
			X:     l.expr(n.ChildByFieldName("left")),
			Y:     l.expr(n.ChildByFieldName("right")),
		}
	case "sequence_expression":
		kids := named(n)
		if len(kids) == 0 {
			return &BadExpr{Range: l.rng(n), Kind: n.Kind()}
		}
		x := l.expr(kids[0])
		for _, k := range kids[1:] {
			x = &BinaryExpr{Range: l.rng(n), Op: ",", X: x, Y: l.expr(k)}
		}
		return x
	case "unary_expression":
		return &UnaryExpr{
			Range: l.rng(n),
			Op:    l.text(n.ChildByFieldName("operator")),
			X:     l.expr(n.ChildByFieldName("argument")),
		}
	case "update_expression":
		op := n.ChildByFieldName("operator")
		arg := n.ChildByFieldName("argument")
		return &UpdateExpr{
			Range:  l.rng(n),
			Op:     l.text(op),
			Prefix: op != nil && arg != nil && op.StartByte() < arg.StartByte(),
			X:      l.expr(arg),
		}
	case "parenthesized_expression", "non_null_expression":
		return l.expr(first(n))
	case "ternary_expression":
		return &CondExpr{
			Range: l.rng(n),
			Cond:  l.expr(n.ChildByFieldName("condition")),
			Then:  l.expr(n.ChildByFieldName("consequence")),
			Else:  l.expr(n.ChildByFieldName("alternative")),
		}
	case "arrow_function":
		f := l.sig(n)
		if p := n.ChildByFieldName("parameter"); p != nil {
			f.Params = []*Param{{Range: l.rng(p), Name: l.ident(p)}}
		}
		if body := n.ChildByFieldName("body"); body != nil {
			if body.Kind() == "statement_block" {
				f.Body = l.block(body)
			} else {
				f.Expr = l.expr(body)
			}
		}
		return &FuncExpr{Range: l.rng(n), Arrow: true, Func: f}
	case "function_expression", "function", "generator_function":
		f := l.sig(n)
		if body := n.ChildByFieldName("body"); body != nil {
			f.Body = l.block(body)
		}
		return &FuncExpr{Range: l.rng(n), Name: l.ident(n.ChildByFieldName("name")), Func: f}
	case "class":
		return l.classDecl(n)
	case "as_expression", "satisfies_expression":
		kids := named(n)
		a := &AsExpr{Range: l.rng(n), X: l.expr(first(n))}
		if len(kids) > 1 && n.Kind() == "as_expression" {
			a.Type = l.typ(kids[1])
		}
		if n.Kind() == "satisfies_expression" {
			return a.X
		}
		return a
	case "type_assertion":
		kids := named(n)
		if len(kids) != 2 {
			return &BadExpr{Range: l.rng(n), Kind: n.Kind()}
		}
		var t Type
		if args := l.types(kids[0]); len(args) == 1 {
			t = args[0]
		}
		return &AsExpr{Range: l.rng(n), X: l.expr(kids[1]), Type: t}
	case "await_expression":
		return &AwaitExpr{Range: l.rng(n), X: l.expr(first(n))}
	default:
		return &BadExpr{Range: l.rng(n), Kind: n.Kind()}
	}
}

func (l *lowerer) args(n *sitter.Node) []Expr {
	if n == nil || n.Kind() != "arguments" {
		return nil
	}
	return l.exprs(n)
}

func (l *lowerer) number(n *sitter.Node) Expr {
	text := l.text(n)
	s := strings.ReplaceAll(text, "_", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		i, ierr := strconv.ParseInt(strings.TrimSuffix(s, "n"), 0, 64)
		if ierr != nil && !errors.Is(ierr, strconv.ErrRange) {
			l.fail(n, "bad number literal %s", text)
		}
		v = float64(i)
	}
	return &NumLit{Range: l.rng(n), Text: text, Value: v}
}

func (l *lowerer) object(n *sitter.Node) *ObjectLit {
	o := &ObjectLit{Range: l.rng(n)}
	for _, k := range named(n) {
		switch k.Kind() {
		case "pair":
			o.Props = append(o.Props, &Prop{
				Range: l.rng(k),
				Key:   l.propName(k.ChildByFieldName("key")),
				Value: l.expr(k.ChildByFieldName("value")),
			})
		case "shorthand_property_identifier":
			o.Props = append(o.Props, &Prop{Range: l.rng(k), Key: l.text(k), Value: l.ident(k)})
		case "method_definition":
			f := l.sig(k)
			if body := k.ChildByFieldName("body"); body != nil {
				f.Body = l.block(body)
			}
			o.Props = append(o.Props, &Prop{
				Range: l.rng(k),
				Key:   l.propName(k.ChildByFieldName("name")),
				Value: &FuncExpr{Range: l.rng(k), Func: f},
			})
		case "spread_element":
			o.Props = append(o.Props, &Prop{Range: l.rng(k), Spread: true, Value: l.expr(first(k))})
		}
	}
	return o
}

func (l *lowerer) pat(n *sitter.Node) Pat {
	if n == nil {
		return &ExprPat{Range: loc.None, X: &BadExpr{Range: loc.None, Kind: "missing"}}
	}
	switch n.Kind() {
	case "identifier", "undefined", "shorthand_property_identifier_pattern":
		return l.ident(n)
	case "array_pattern":
		p := &ArrayPat{Range: l.rng(n)}
		for _, k := range named(n) {
			if k.Kind() == "rest_pattern" {
				p.Rest = l.pat(first(k))
				continue
			}
			p.Elems = append(p.Elems, l.pat(k))
		}
		return p
	case "object_pattern":
		p := &ObjectPat{Range: l.rng(n)}
		for _, k := range named(n) {
			switch k.Kind() {
			case "shorthand_property_identifier_pattern":
				p.Props = append(p.Props, &PatProp{Range: l.rng(k), Key: l.text(k), Value: l.ident(k)})
			case "pair_pattern":
				p.Props = append(p.Props, &PatProp{
					Range: l.rng(k),
					Key:   l.propName(k.ChildByFieldName("key")),
					Value: l.pat(k.ChildByFieldName("value")),
				})
			case "object_assignment_pattern":
				left := k.ChildByFieldName("left")
				p.Props = append(p.Props, &PatProp{
					Range: l.rng(k),
					Key:   l.text(left),
					Value: &AssignPat{Range: l.rng(k), Left: l.pat(left), Default: l.expr(k.ChildByFieldName("right"))},
				})
			case "rest_pattern":
				p.Rest = l.pat(first(k))
			}
		}
		return p
	case "assignment_pattern":
		return &AssignPat{
			Range:   l.rng(n),
			Left:    l.pat(n.ChildByFieldName("left")),
			Default: l.expr(n.ChildByFieldName("right")),
		}
	case "parenthesized_expression":
		return l.pat(first(n))
	default:
		return &ExprPat{Range: l.rng(n), X: l.expr(n)}
	}
}

func (l *lowerer) typeAnn(n *sitter.Node) Type {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "type_annotation", "omitting_type_annotation", "adding_type_annotation", "opting_type_annotation":
		return l.typ(first(n))
	default:
		return l.typ(n)
	}
}

func (l *lowerer) types(n *sitter.Node) []Type {
	var ts []Type
	for _, k := range named(n) {
		ts = append(ts, l.typ(k))
	}
	return ts
}

func (l *lowerer) typ(n *sitter.Node) Type {
	if n == nil {
		return &BadType{Range: loc.None, Kind: "missing"}
	}
	switch n.Kind() {
	case "predefined_type":
		name := l.text(n)
		if name == "unique symbol" {
			name = "symbol"
		}
		return &KeywordType{Range: l.rng(n), Name: name}
	case "null", "undefined":
		return &KeywordType{Range: l.rng(n), Name: n.Kind()}
	case "type_identifier", "nested_type_identifier", "identifier":
		return &TypeRef{Range: l.rng(n), Name: qualified(l.text(n))}
	case "generic_type":
		return &TypeRef{
			Range: l.rng(n),
			Name:  qualified(l.text(n.ChildByFieldName("name"))),
			Args:  l.types(n.ChildByFieldName("type_arguments")),
		}
	case "array_type":
		return &ArrayType{Range: l.rng(n), Elem: l.typ(first(n))}
	case "tuple_type":
		t := &TupleType{Range: l.rng(n)}
		for _, k := range named(n) {
			switch k.Kind() {
			case "optional_type", "rest_type":
				t.Elems = append(t.Elems, l.typ(first(k)))
			case "tuple_parameter", "optional_tuple_parameter", "rest_tuple_parameter":
				t.Elems = append(t.Elems, l.typeAnn(k.ChildByFieldName("type")))
			default:
				t.Elems = append(t.Elems, l.typ(k))
			}
		}
		return t
	case "union_type":
		return &UnionType{Range: l.rng(n), Types: l.flatten(n, "union_type")}
	case "intersection_type":
		return &IntersectionType{Range: l.rng(n), Types: l.flatten(n, "intersection_type")}
	case "function_type":
		f := &Func{
			Range:      l.rng(n),
			TypeParams: l.typeParams(n.ChildByFieldName("type_parameters")),
			Params:     l.params(n.ChildByFieldName("parameters")),
		}
		if ret := n.ChildByFieldName("return_type"); ret != nil {
			f.Ret = l.retType(ret)
		}
		return &FuncType{Range: l.rng(n), Func: f}
	case "constructor_type":
		f := &Func{
			Range:      l.rng(n),
			TypeParams: l.typeParams(n.ChildByFieldName("type_parameters")),
			Params:     l.params(n.ChildByFieldName("parameters")),
			Ret:        l.typeAnn(n.ChildByFieldName("type")),
		}
		return &FuncType{Range: l.rng(n), Construct: true, Func: f}
	case "object_type":
		return &TypeLit{Range: l.rng(n), Members: l.typeElems(n)}
	case "parenthesized_type", "readonly_type":
		return l.typ(first(n))
	case "literal_type":
		lit := first(n)
		if lit == nil {
			return &BadType{Range: l.rng(n), Kind: n.Kind()}
		}
		switch lit.Kind() {
		case "null", "undefined":
			return &KeywordType{Range: l.rng(n), Name: lit.Kind()}
		}
		return &LitType{Range: l.rng(n), Lit: l.expr(lit)}
	case "type_query":
		return &TypeQuery{Range: l.rng(n), Name: qualified(l.text(first(n)))}
	case "this_type":
		return &ThisType{Range: l.rng(n)}
	case "template_literal_type":
		return &KeywordType{Range: l.rng(n), Name: "string"}
	default:
		return &BadType{Range: l.rng(n), Kind: n.Kind()}
	}
}

func (l *lowerer) flatten(n *sitter.Node, kind string) []Type {
	var ts []Type
	for _, k := range named(n) {
		if k.Kind() == kind {
			ts = append(ts, l.flatten(k, kind)...)
			continue
		}
		ts = append(ts, l.typ(k))
	}
	return ts
}

func qualified(s string) []string {
	return strings.Split(strings.ReplaceAll(s, " ", ""), ".")
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'' || s[0] == '`') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	if !strings.Contains(s, `\`) {
		return s
	}
	if u, err := strconv.Unquote(`"` + strings.ReplaceAll(s, `"`, `\"`) + `"`); err == nil {
		return u
	}
	return s
}
