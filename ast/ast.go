// Package ast is the syntax tree of TypeScript source and declaration files
// consumed by the checker.
package ast

import "github.com/eaburns/tsck/loc"

// A Node is a node of the AST with location information.
type Node interface {
	GetRange() loc.Range
}

// A Stmt is a statement or declaration.
type Stmt interface {
	Node
	stmt()
}

// An Expr is an expression.
type Expr interface {
	Node
	expr()
}

// A Type is type syntax.
type Type interface {
	Node
	typ()
}

// A Pat is a binding or assignment target.
type Pat interface {
	Node
	pat()
}

// A ForHead is the left-hand side of a for-in or for-of statement.
// It is either a *VarDecl or a Pat.
type ForHead interface {
	Node
	forHead()
}

// A TypeElem is a member of an interface or object type literal.
type TypeElem interface {
	Node
	typeElem()
}

// A ClassMember is a member of a class body.
type ClassMember interface {
	Node
	classMember()
}

// File is a single source code file.
type File struct {
	loc.Range
	Path  string
	Stmts []Stmt
}

// VarKind is the kind of a variable declaration.
type VarKind int

const (
	Var VarKind = iota
	Let
	Const
)

func (k VarKind) String() string {
	switch k {
	case Var:
		return "var"
	case Let:
		return "let"
	case Const:
		return "const"
	default:
		panic("impossible")
	}
}

// A VarDecl is a var, let, or const declaration.
type VarDecl struct {
	loc.Range
	Declare bool
	Kind    VarKind
	Decls   []*Declarator
}

// A Declarator is a single binding of a VarDecl.
type Declarator struct {
	loc.Range
	Name Pat
	Type Type // nil if not annotated
	Init Expr // nil if not initialized
}

// A Func is the signature, and possibly the body, of a function.
// It is shared by declarations, expressions, methods, and signatures.
type Func struct {
	loc.Range
	TypeParams []*TypeParam
	Params     []*Param
	Ret        Type       // nil if not annotated
	Body       *BlockStmt // nil for signatures and expression-bodied arrows
	Expr       Expr       // the body of an expression-bodied arrow function
	Async      bool
}

// A Param is a function parameter.
type Param struct {
	loc.Range
	Name     Pat
	Type     Type // nil if not annotated
	Default  Expr
	Optional bool
	Rest     bool
}

// A TypeParam is a type parameter declaration.
type TypeParam struct {
	loc.Range
	Name       string
	Constraint Type
	Default    Type
}

// A FuncDecl is a function declaration or an ambient function signature.
type FuncDecl struct {
	loc.Range
	Declare bool
	Name    *Ident
	Func    *Func
}

// A ClassDecl is a class declaration.
type ClassDecl struct {
	loc.Range
	Declare    bool
	Abstract   bool
	Name       *Ident // nil for anonymous class expressions
	TypeParams []*TypeParam
	Super      Expr
	SuperArgs  []Type
	Implements []Type
	Body       []ClassMember
}

// A ClassProp is a class field.
type ClassProp struct {
	loc.Range
	Name     string
	Type     Type
	Init     Expr
	Static   bool
	Optional bool
	Readonly bool
	Abstract bool
}

// MethodKind is the kind of a class method.
type MethodKind int

const (
	Method MethodKind = iota
	Getter
	Setter
	Constructor
)

// A ClassMethod is a class method, accessor, or constructor.
// The Func has no Body for overload and abstract signatures.
type ClassMethod struct {
	loc.Range
	Name     string
	Kind     MethodKind
	Static   bool
	Abstract bool
	Optional bool
	Func     *Func
}

// An InterfaceDecl is an interface declaration.
type InterfaceDecl struct {
	loc.Range
	Declare    bool
	Name       *Ident
	TypeParams []*TypeParam
	Extends    []Type
	Body       []TypeElem
}

// A PropSig is a property signature.
type PropSig struct {
	loc.Range
	Name     string
	Type     Type
	Optional bool
	Readonly bool
}

// A MethodSig is a method signature.
type MethodSig struct {
	loc.Range
	Name     string
	Optional bool
	Func     *Func
}

// A CallSig is a call signature.
type CallSig struct {
	loc.Range
	Func *Func
}

// A ConstructSig is a construct signature.
type ConstructSig struct {
	loc.Range
	Func *Func
}

// An IndexSig is an index signature.
// It is used in both type literals and class bodies.
type IndexSig struct {
	loc.Range
	Key      *Param
	Type     Type
	Readonly bool
	Static   bool
}

// A TypeAliasDecl is a type alias declaration.
type TypeAliasDecl struct {
	loc.Range
	Declare    bool
	Name       *Ident
	TypeParams []*TypeParam
	Type       Type
}

// A NamespaceDecl is a namespace or ambient module declaration.
// A dotted declaration, namespace A.B {}, is nested NamespaceDecls.
type NamespaceDecl struct {
	loc.Range
	Declare bool
	Name    *Ident
	Body    []Stmt
}

// An ExprStmt is an expression statement.
type ExprStmt struct {
	loc.Range
	X Expr
}

// A BlockStmt is a braced block of statements.
type BlockStmt struct {
	loc.Range
	Stmts []Stmt
}

// An IfStmt is an if statement.
type IfStmt struct {
	loc.Range
	Cond Expr
	Then Stmt
	Else Stmt // nil if there is no else clause
}

// A ForStmt is a C-style for statement.
type ForStmt struct {
	loc.Range
	Init Stmt // *VarDecl, *ExprStmt, or nil
	Cond Expr
	Post Expr
	Body Stmt
}

// A ForInStmt is a for-in statement.
type ForInStmt struct {
	loc.Range
	Left  ForHead
	Right Expr
	Body  Stmt
}

// A ForOfStmt is a for-of statement.
type ForOfStmt struct {
	loc.Range
	Await bool
	Left  ForHead
	Right Expr
	Body  Stmt
}

// A WhileStmt is a while or do-while statement.
type WhileStmt struct {
	loc.Range
	Do   bool
	Cond Expr
	Body Stmt
}

// A ReturnStmt is a return statement.
type ReturnStmt struct {
	loc.Range
	X Expr // nil for a bare return
}

// A ThrowStmt is a throw statement.
type ThrowStmt struct {
	loc.Range
	X Expr
}

// A BranchStmt is a break or continue statement.
type BranchStmt struct {
	loc.Range
	Tok   string
	Label string
}

// An EmptyStmt is a lone semicolon.
type EmptyStmt struct {
	loc.Range
}

// An ImportDecl is an import declaration.
type ImportDecl struct {
	loc.Range
	Path      string
	Default   *Ident
	Namespace *Ident
	Names     []*ImportSpec
}

// An ImportSpec is a single named import.
type ImportSpec struct {
	loc.Range
	Name  string
	Local *Ident
}

// An ExportDecl is an export declaration.
// Exactly one of Decl, Default, or Names is set.
type ExportDecl struct {
	loc.Range
	Decl    Stmt
	Default Expr
	Names   []*Ident
}

// A BadStmt is a statement that is not supported by the checker.
type BadStmt struct {
	loc.Range
	Kind string
}

// An Ident is an identifier.
// It is both an expression and a binding pattern.
type Ident struct {
	loc.Range
	Name string
}

// A NumLit is a number literal.
type NumLit struct {
	loc.Range
	Text  string
	Value float64
}

// A StrLit is a string literal.
type StrLit struct {
	loc.Range
	Value string
}

// A BoolLit is true or false.
type BoolLit struct {
	loc.Range
	Value bool
}

// A NullLit is null.
type NullLit struct {
	loc.Range
}

// A RegexLit is a regular expression literal.
type RegexLit struct {
	loc.Range
	Pattern string
}

// A TemplateLit is a template string.
type TemplateLit struct {
	loc.Range
	Exprs []Expr
}

// An ArrayLit is an array literal.
type ArrayLit struct {
	loc.Range
	Elems []Expr
}

// A SpreadExpr is a spread element, ...x.
type SpreadExpr struct {
	loc.Range
	X Expr
}

// An ObjectLit is an object literal.
type ObjectLit struct {
	loc.Range
	Props []*Prop
}

// A Prop is a property of an object literal.
// Key is empty for a spread property.
type Prop struct {
	loc.Range
	Key    string
	Value  Expr
	Spread bool
}

// A MemberExpr is a property access, x.name.
type MemberExpr struct {
	loc.Range
	X        Expr
	Name     string
	Optional bool
}

// An IndexExpr is an element access, x[i].
type IndexExpr struct {
	loc.Range
	X     Expr
	Index Expr
}

// A CallExpr is a function call.
type CallExpr struct {
	loc.Range
	Fn       Expr
	TypeArgs []Type
	Args     []Expr
}

// A NewExpr is a new expression.
type NewExpr struct {
	loc.Range
	Fn       Expr
	TypeArgs []Type
	Args     []Expr
}

// An AssignExpr is an assignment, possibly compound.
type AssignExpr struct {
	loc.Range
	Op    string // "=", "+=", ...
	Left  Pat
	Right Expr
}

// A BinaryExpr is a binary operation.
type BinaryExpr struct {
	loc.Range
	Op string
	X  Expr
	Y  Expr
}

// A UnaryExpr is a unary operation.
type UnaryExpr struct {
	loc.Range
	Op string
	X  Expr
}

// An UpdateExpr is an increment or decrement.
type UpdateExpr struct {
	loc.Range
	Op     string
	Prefix bool
	X      Expr
}

// A CondExpr is a ternary conditional.
type CondExpr struct {
	loc.Range
	Cond Expr
	Then Expr
	Else Expr
}

// A FuncExpr is a function expression or an arrow function.
type FuncExpr struct {
	loc.Range
	Name  *Ident // nil if anonymous
	Arrow bool
	Func  *Func
}

// An AsExpr is a type assertion, x as T.
type AsExpr struct {
	loc.Range
	X    Expr
	Type Type // nil for "as const"
}

// A ThisExpr is this.
type ThisExpr struct {
	loc.Range
}

// An AwaitExpr is an await expression.
type AwaitExpr struct {
	loc.Range
	X Expr
}

// A BadExpr is an expression that is not supported by the checker.
type BadExpr struct {
	loc.Range
	Kind string
}

// An ArrayPat is an array destructuring pattern.
type ArrayPat struct {
	loc.Range
	Elems []Pat // nil elements are holes
	Rest  Pat
}

// An ObjectPat is an object destructuring pattern.
type ObjectPat struct {
	loc.Range
	Props []*PatProp
	Rest  Pat
}

// A PatProp is a property of an object pattern.
type PatProp struct {
	loc.Range
	Key   string
	Value Pat
}

// An AssignPat is a pattern with a default value.
type AssignPat struct {
	loc.Range
	Left    Pat
	Default Expr
}

// An ExprPat is an expression used as an assignment target,
// such as a member expression.
type ExprPat struct {
	loc.Range
	X Expr
}

// A KeywordType is a predefined type: any, number, void, null, etc.
type KeywordType struct {
	loc.Range
	Name string
}

// A TypeRef is a possibly qualified and possibly generic type name.
type TypeRef struct {
	loc.Range
	Name []string
	Args []Type
}

// An ArrayType is T[].
type ArrayType struct {
	loc.Range
	Elem Type
}

// A TupleType is [T, U].
type TupleType struct {
	loc.Range
	Elems []Type
}

// A UnionType is T | U.
type UnionType struct {
	loc.Range
	Types []Type
}

// An IntersectionType is T & U.
type IntersectionType struct {
	loc.Range
	Types []Type
}

// A FuncType is a function or constructor type.
type FuncType struct {
	loc.Range
	Construct bool
	Func      *Func
}

// A TypeLit is an object type literal.
type TypeLit struct {
	loc.Range
	Members []TypeElem
}

// A LitType is a literal type: a string, number, or boolean literal.
type LitType struct {
	loc.Range
	Lit Expr
}

// A TypeQuery is typeof x.
type TypeQuery struct {
	loc.Range
	Name []string
}

// A ThisType is the this type.
type ThisType struct {
	loc.Range
}

// A BadType is type syntax that is not supported by the checker.
type BadType struct {
	loc.Range
	Kind string
}

func (*VarDecl) stmt()       {}
func (*FuncDecl) stmt()      {}
func (*ClassDecl) stmt()     {}
func (*InterfaceDecl) stmt() {}
func (*TypeAliasDecl) stmt() {}
func (*NamespaceDecl) stmt() {}
func (*ExprStmt) stmt()      {}
func (*BlockStmt) stmt()     {}
func (*IfStmt) stmt()        {}
func (*ForStmt) stmt()       {}
func (*ForInStmt) stmt()     {}
func (*ForOfStmt) stmt()     {}
func (*WhileStmt) stmt()     {}
func (*ReturnStmt) stmt()    {}
func (*ThrowStmt) stmt()     {}
func (*BranchStmt) stmt()    {}
func (*EmptyStmt) stmt()     {}
func (*ImportDecl) stmt()    {}
func (*ExportDecl) stmt()    {}
func (*BadStmt) stmt()       {}

func (*Ident) expr()       {}
func (*NumLit) expr()      {}
func (*StrLit) expr()      {}
func (*BoolLit) expr()     {}
func (*NullLit) expr()     {}
func (*RegexLit) expr()    {}
func (*TemplateLit) expr() {}
func (*ArrayLit) expr()    {}
func (*SpreadExpr) expr()  {}
func (*ObjectLit) expr()   {}
func (*MemberExpr) expr()  {}
func (*IndexExpr) expr()   {}
func (*CallExpr) expr()    {}
func (*NewExpr) expr()     {}
func (*AssignExpr) expr()  {}
func (*BinaryExpr) expr()  {}
func (*UnaryExpr) expr()   {}
func (*UpdateExpr) expr()  {}
func (*CondExpr) expr()    {}
func (*FuncExpr) expr()    {}
func (*ClassDecl) expr()   {}
func (*AsExpr) expr()      {}
func (*ThisExpr) expr()    {}
func (*AwaitExpr) expr()   {}
func (*BadExpr) expr()     {}

func (*Ident) pat()     {}
func (*ArrayPat) pat()  {}
func (*ObjectPat) pat() {}
func (*AssignPat) pat() {}
func (*ExprPat) pat()   {}

func (*VarDecl) forHead()   {}
func (*Ident) forHead()     {}
func (*ArrayPat) forHead()  {}
func (*ObjectPat) forHead() {}
func (*AssignPat) forHead() {}
func (*ExprPat) forHead()   {}

func (*PropSig) typeElem()      {}
func (*MethodSig) typeElem()    {}
func (*CallSig) typeElem()      {}
func (*ConstructSig) typeElem() {}
func (*IndexSig) typeElem()     {}

func (*ClassProp) classMember()   {}
func (*ClassMethod) classMember() {}
func (*IndexSig) classMember()    {}

func (*KeywordType) typ()      {}
func (*TypeRef) typ()          {}
func (*ArrayType) typ()        {}
func (*TupleType) typ()        {}
func (*UnionType) typ()        {}
func (*IntersectionType) typ() {}
func (*FuncType) typ()         {}
func (*TypeLit) typ()          {}
func (*LitType) typ()          {}
func (*TypeQuery) typ()        {}
func (*ThisType) typ()         {}
func (*BadType) typ()          {}
