package ast

import "strings"

// TypeExpr is the surface syntax for a type annotation: a simple type
// name, a list type `[T]`, a tuple type `(T1, T2, ...)`, a maybe type
// `?T`, or an explicit union `T1 | T2 | ...`. See spec.md §3.1 and
// SPEC_FULL.md's `into`-conversion design note for how these desugar.
type TypeExpr interface {
	Node
	isTypeExpr()
	String() string
}

// SimpleTypeExpr names one of the built-in simple types (Int, Bool,
// String, LinExpr, Constraint, None) or a host-declared object type.
type SimpleTypeExpr struct {
	NodeBase
	Name string
}

func (*SimpleTypeExpr) isTypeExpr()         {}
func (t *SimpleTypeExpr) String() string    { return t.Name }

// ListTypeExpr is `[T]`.
type ListTypeExpr struct {
	NodeBase
	Elem TypeExpr
}

func (*ListTypeExpr) isTypeExpr()      {}
func (t *ListTypeExpr) String() string { return "[" + t.Elem.String() + "]" }

// TupleTypeExpr is `(T1, T2, ...)` with at least two elements.
type TupleTypeExpr struct {
	NodeBase
	Elems []TypeExpr
}

func (*TupleTypeExpr) isTypeExpr() {}
func (t *TupleTypeExpr) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// MaybeTypeExpr is `?T`, sugar for `T | None`.
type MaybeTypeExpr struct {
	NodeBase
	Inner TypeExpr
}

func (*MaybeTypeExpr) isTypeExpr()      {}
func (t *MaybeTypeExpr) String() string { return "?" + t.Inner.String() }

// UnionTypeExpr is an explicit `T1 | T2 | ...` union.
type UnionTypeExpr struct {
	NodeBase
	Variants []TypeExpr
}

func (*UnionTypeExpr) isTypeExpr() {}
func (t *UnionTypeExpr) String() string {
	parts := make([]string, len(t.Variants))
	for i, v := range t.Variants {
		parts[i] = v.String()
	}
	return strings.Join(parts, " | ")
}
