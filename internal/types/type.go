// Package types implements ColloML's static type system: simple types,
// union types (nonempty sets of simple-type variants), subtyping with
// the value-preserving coercions of spec.md §3.1, join (for `if`/`match`/
// quantifier result types), and the `into`-conversion table. Grounded on
// kanso-lang-kanso/internal/types/registry.go's type-registry shape,
// restructured from nominal single types to sets of variants; see
// DESIGN.md.
package types

import (
	"sort"
	"strings"
)

// Kind is a simple-type tag (spec.md §3.1: "A simple type is one of...").
type Kind int

const (
	KInt Kind = iota
	KBool
	KString
	KLinExpr
	KConstraint
	KNone
	KList
	KTuple
	KObject
)

func (k Kind) String() string {
	switch k {
	case KInt:
		return "Int"
	case KBool:
		return "Bool"
	case KString:
		return "String"
	case KLinExpr:
		return "LinExpr"
	case KConstraint:
		return "Constraint"
	case KNone:
		return "None"
	case KList:
		return "List"
	case KTuple:
		return "Tuple"
	case KObject:
		return "Object"
	}
	return "?"
}

// Variant is one member of a union type.
type Variant struct {
	Kind   Kind
	Elem   *Type   // for KList
	Elems  []*Type // for KTuple
	Object string  // for KObject
}

func (v Variant) key() string {
	switch v.Kind {
	case KList:
		return "List<" + v.Elem.key() + ">"
	case KTuple:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.key()
		}
		return "Tuple<" + strings.Join(parts, ",") + ">"
	case KObject:
		return "Object(" + v.Object + ")"
	default:
		return v.Kind.String()
	}
}

func (v Variant) String() string {
	switch v.Kind {
	case KList:
		return "[" + v.Elem.String() + "]"
	case KTuple:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KObject:
		return v.Object
	default:
		return v.Kind.String()
	}
}

// Type is a nonempty set of Variants, i.e. a union type (spec.md §3.1: "A
// type is a nonempty set of simple types"). The canonical form keeps
// Variants sorted by their structural key so that two Types built from
// the same logical set compare/format identically regardless of
// construction order.
type Type struct {
	Variants []Variant
}

func (t *Type) key() string {
	keys := make([]string, len(t.Variants))
	for i, v := range t.Variants {
		keys[i] = v.key()
	}
	return strings.Join(keys, "|")
}

func (t *Type) String() string {
	parts := make([]string, len(t.Variants))
	for i, v := range t.Variants {
		parts[i] = v.String()
	}
	return strings.Join(parts, " | ")
}

// Equal reports whether two types denote the same set of variants.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.key() == other.key()
}

// HasNone reports whether t admits the None variant, i.e. is a maybe
// type (spec.md GLOSSARY: "Maybe type").
func (t *Type) HasNone() bool {
	for _, v := range t.Variants {
		if v.Kind == KNone {
			return true
		}
	}
	return false
}

func canonicalize(variants []Variant) *Type {
	seen := map[string]Variant{}
	for _, v := range variants {
		seen[v.key()] = v
	}
	out := make([]Variant, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key() < out[j].key() })
	return &Type{Variants: out}
}

// --- constructors ---

func simple(k Kind) *Type { return &Type{Variants: []Variant{{Kind: k}}} }

func Int() *Type        { return simple(KInt) }
func Bool() *Type       { return simple(KBool) }
func Str() *Type        { return simple(KString) }
func LinExpr() *Type    { return simple(KLinExpr) }
func Constraint() *Type { return simple(KConstraint) }
func None() *Type       { return simple(KNone) }

func ListOf(elem *Type) *Type { return &Type{Variants: []Variant{{Kind: KList, Elem: elem}}} }

func TupleOf(elems ...*Type) *Type {
	return &Type{Variants: []Variant{{Kind: KTuple, Elems: elems}}}
}

func ObjectOf(name string) *Type { return &Type{Variants: []Variant{{Kind: KObject, Object: name}}} }

// Maybe is the `?T` sugar: `T ∪ {None}`.
func Maybe(t *Type) *Type { return Union(t, None()) }

// Union builds the set-union of every variant across the given types,
// without the "drop redundant subtypes" simplification Join performs —
// used when a union type is written explicitly in source (`T1 | T2`).
func Union(types ...*Type) *Type {
	var all []Variant
	for _, t := range types {
		all = append(all, t.Variants...)
	}
	return canonicalize(all)
}
