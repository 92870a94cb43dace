package ast

// Decl is a top-level declaration: a function, a reification, or a
// nominal enum-like type (spec.md §3.4). ColloML has no `module { }`
// wrapper in source text; module identity comes from the source-map key
// the host supplies to Check (SPEC_FULL.md, "module-naming" design note).
type Decl interface {
	Node
	isDecl()
}

// Param is one `name: Type` function parameter.
type Param struct {
	Name string
	Type TypeExpr
}

// FunctionDecl is `let [pub] name(p1: T1, ...) -> R = expr;`.
type FunctionDecl struct {
	NodeBase
	Pub    bool
	Name   string
	Params []Param
	Return TypeExpr
	Body   Expr
}

func (*FunctionDecl) isDecl() {}

// ReifyDecl is `reify f as $V;` (List=false) or `reify f as $[V];`
// (List=true).
type ReifyDecl struct {
	NodeBase
	FuncName string
	VarName  string
	List     bool
}

func (*ReifyDecl) isDecl() {}

// EnumDecl is `enum Name;`. The parser accepts it, but the checker and
// evaluator ignore it: the declared name does not become a type, and a
// type annotation naming it resolves only if the host schema declares
// an object of that name.
type EnumDecl struct {
	NodeBase
	Name string
}

func (*EnumDecl) isDecl() {}

// Module is one parsed source unit: the flat sequence of declarations
// found in a single named source string passed to Check.
type Module struct {
	Name  string
	Decls []Decl
}
