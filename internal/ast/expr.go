package ast

// Expr is implemented by every expression node. ColloML has no
// statements beyond declarations: control flow (`if`, `let ... { }`,
// `match`) and iteration (`sum`, `forall`, `fold`, `rfold`, comprehensions)
// are all expressions, per spec.md §4.1.
type Expr interface {
	Node
	isExpr()
}

// IntLit is a decimal integer literal.
type IntLit struct {
	NodeBase
	Value int64
}

func (*IntLit) isExpr() {}

// BoolLit is `true` or `false`.
type BoolLit struct {
	NodeBase
	Value bool
}

func (*BoolLit) isExpr() {}

// StringLit is a `"..."` or tilde-delimited `~"..."~` string literal.
type StringLit struct {
	NodeBase
	Value  string
	Tilde  bool // true if written with the tilde-delimited form
}

func (*StringLit) isExpr() {}

// Ident is a bare identifier reference: a let-binding, a function
// parameter, or (in `match` guards) a refined pattern binding.
type Ident struct {
	NodeBase
	Name string
}

func (*Ident) isExpr() {}

// ListLit is `[e1, e2, ...]`. Evaluation deduplicates and sorts the
// elements into canonical order (spec.md §3.2, §4.4.1).
type ListLit struct {
	NodeBase
	Elems []Expr
}

func (*ListLit) isExpr() {}

// EmptyTypedList is `[<T>]`, an empty list literal annotated with its
// element type.
type EmptyTypedList struct {
	NodeBase
	Elem TypeExpr
}

func (*EmptyTypedList) isExpr() {}

// ListRange is `[a..b]`, a half-open integer range.
type ListRange struct {
	NodeBase
	Lo, Hi Expr
}

func (*ListRange) isExpr() {}

// TupleLit is `(e1, e2, ...)` with at least two elements.
type TupleLit struct {
	NodeBase
	Elems []Expr
}

func (*TupleLit) isExpr() {}

// FieldAccessExpr is `e.field`, requiring `e` to evaluate to an Object.
type FieldAccessExpr struct {
	NodeBase
	Target Expr
	Field  string
}

func (*FieldAccessExpr) isExpr() {}

// CallExpr is `name(args)`, a call to a top-level function. The parser
// leaves Module empty and neither the checker nor the evaluator reads
// it: the callee resolves in the calling module only.
type CallExpr struct {
	NodeBase
	Module string
	Name   string
	Args   []Expr
}

func (*CallExpr) isExpr() {}

// VarCallExpr is `$name(args)`, a reference to a host base variable or to
// a scalar-reified script variable.
type VarCallExpr struct {
	NodeBase
	Name string
	Args []Expr
}

func (*VarCallExpr) isExpr() {}

// ListVarCallExpr is `$[name](args)`, a reference to a list-reified
// script variable.
type ListVarCallExpr struct {
	NodeBase
	Name string
	Args []Expr
}

func (*ListVarCallExpr) isExpr() {}

// CardinalityExpr is `|e|`, the set cardinality of a list value.
type CardinalityExpr struct {
	NodeBase
	Value Expr
}

func (*CardinalityExpr) isExpr() {}

// IndexExpr is `xs[i]!` (Checked, errors out of bounds) or `xs[i]?`
// (returns `?T`, `None` out of bounds).
type IndexExpr struct {
	NodeBase
	Target  Expr
	Index   Expr
	Checked bool
}

func (*IndexExpr) isExpr() {}

// AsExpr is `e as T`, a static widening coercion.
type AsExpr struct {
	NodeBase
	Value Expr
	Type  TypeExpr
}

func (*AsExpr) isExpr() {}

// IntoExpr is `e into T`, a value-level conversion restricted to the
// enumerated table in SPEC_FULL.md.
type IntoExpr struct {
	NodeBase
	Value Expr
	Type  TypeExpr
}

func (*IntoExpr) isExpr() {}

// CastExpr is `e cast? T` (Checked=false, result `?T`) or `e cast! T`
// (Checked=true, result `T`, runtime failure if it does not fit).
type CastExpr struct {
	NodeBase
	Value   Expr
	Type    TypeExpr
	Checked bool
}

func (*CastExpr) isExpr() {}

// TypeConvertExpr is `T(e)`, shorthand for the canonical conversion of
// `e` into `T` (spec.md §4.2.1).
type TypeConvertExpr struct {
	NodeBase
	Type  TypeExpr
	Value Expr
}

func (*TypeConvertExpr) isExpr() {}

// UnaryExpr is `-e` or `not e`.
type UnaryExpr struct {
	NodeBase
	Op    string
	Value Expr
}

func (*UnaryExpr) isExpr() {}

// BinaryExpr covers every infix operator in spec.md §4.1's precedence
// table: arithmetic, collection, comparison, constraint, logical, and
// `??`.
type BinaryExpr struct {
	NodeBase
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryExpr) isExpr() {}

// IfExpr is `if c { t } else { e }`.
type IfExpr struct {
	NodeBase
	Cond Expr
	Then Expr
	Else Expr
}

func (*IfExpr) isExpr() {}

// LetExpr is `let x = v { body }`.
type LetExpr struct {
	NodeBase
	Name  string
	Value Expr
	Body  Expr
}

func (*LetExpr) isExpr() {}

// MatchArm is one `pattern [where cond] { body }` arm of a `match`.
type MatchArm struct {
	Pattern Pattern
	Body    Expr
}

// MatchExpr is `match e { arm1 arm2 ... }`; arms are tried in declaration
// order and the first matching, guard-satisfying arm wins (spec.md
// §4.2.1, §4.4.1).
type MatchExpr struct {
	NodeBase
	Scrutinee Expr
	Arms      []MatchArm
}

func (*MatchExpr) isExpr() {}

// SumExpr is `sum x in xs [where p] { body }`.
type SumExpr struct {
	NodeBase
	Var   string
	Iter  Expr
	Where Expr // may be nil
	Body  Expr
}

func (*SumExpr) isExpr() {}

// ForallExpr is `forall x in xs [where p] { body }`.
type ForallExpr struct {
	NodeBase
	Var   string
	Iter  Expr
	Where Expr
	Body  Expr
}

func (*ForallExpr) isExpr() {}

// FoldExpr is `fold x in xs with acc = init [where p] { body }` (Right
// false) or `rfold ...` (Right true, right-to-left). The `where` clause
// may reference both `x` and the current `acc` (spec.md §4.5).
type FoldExpr struct {
	NodeBase
	Var     string
	Iter    Expr
	AccName string
	Init    Expr
	Where   Expr
	Body    Expr
	Right   bool
}

func (*FoldExpr) isExpr() {}

// ForClause is one `for x in xs` clause of a comprehension.
type ForClause struct {
	Var  string
	Iter Expr
}

// Comprehension is `[body for x in xs [for y in ys ...] [where p]]`.
type Comprehension struct {
	NodeBase
	Body    Expr
	Clauses []ForClause
	Where   Expr
}

func (*Comprehension) isExpr() {}
