// Package value implements ColloML's dynamic value representation: the
// tagged union of runtime values the evaluator produces and consumes
// (spec.md §3.2), with the set-semantic list invariant (deduplicated,
// canonically sorted) and the total order over values spec.md §9
// requires. Grounded on kanso-lang-kanso/internal/ir/types.go's
// tagged-struct value shape, adapted from a typed SSA value to a
// dynamically-tagged interpreter value; see DESIGN.md.
package value

import (
	"fmt"
	"sort"
	"strings"

	"colloml/internal/ilp"
)

// Kind tags which variant of Value is populated.
type Kind int

const (
	KInt Kind = iota
	KBool
	KString
	KNone
	KList
	KTuple
	KLinExpr
	KConstraintSet
	KObject
)

// Object is the host's opaque handle type (spec.md §6.2: "the host
// supplies objects as opaque handles; ColloML never inspects their
// internals, only compares and orders them via host-supplied hooks").
type Object interface {
	// TypeName is the Object(name) this handle belongs to.
	TypeName() string
	// Equal reports host-defined equality against another handle of
	// the same TypeName.
	Equal(other Object) bool
	// Less gives the host-defined total order required for
	// deduplicating/sorting lists of objects.
	Less(other Object) bool
	String() string
}

// Value is a single dynamic ColloML value. Exactly one field group is
// populated, selected by Kind.
type Value struct {
	Kind Kind

	I int64  // KInt
	B bool   // KBool
	S string // KString

	Elems   []Value // KList, KTuple
	ElemTag string  // KList: canonical element-type tag, carried for empty lists

	Lin   *ilp.LinExpr      // KLinExpr
	Cset  *ilp.ConstraintSet // KConstraintSet
	Obj   Object             // KObject
}

func Int(i int64) Value    { return Value{Kind: KInt, I: i} }
func Bool(b bool) Value    { return Value{Kind: KBool, B: b} }
func Str(s string) Value   { return Value{Kind: KString, S: s} }
func None() Value          { return Value{Kind: KNone} }
func Lin(e *ilp.LinExpr) Value { return Value{Kind: KLinExpr, Lin: e} }
func Cset(cs *ilp.ConstraintSet) Value { return Value{Kind: KConstraintSet, Cset: cs} }
func Obj(o Object) Value   { return Value{Kind: KObject, Obj: o} }

func Tuple(elems ...Value) Value { return Value{Kind: KTuple, Elems: elems} }

// List builds a list value, applying the set-semantic invariant
// (spec.md §3.2: "lists are deduplicated and held in canonical sorted
// order") — duplicates by Equal are dropped and the remainder sorted by
// Less.
func List(elemTag string, elems []Value) Value {
	out := make([]Value, 0, len(elems))
	for _, e := range elems {
		dup := false
		for _, o := range out {
			if e.Equal(o) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return Value{Kind: KList, ElemTag: elemTag, Elems: out}
}

// Equal reports value equality (spec.md §3.2/§9).
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KInt:
		return v.I == other.I
	case KBool:
		return v.B == other.B
	case KString:
		return v.S == other.S
	case KNone:
		return true
	case KList, KTuple:
		if len(v.Elems) != len(other.Elems) {
			return false
		}
		for i := range v.Elems {
			if !v.Elems[i].Equal(other.Elems[i]) {
				return false
			}
		}
		return true
	case KLinExpr:
		return v.Lin.Equal(other.Lin)
	case KConstraintSet:
		return sameConstraints(v.Cset, other.Cset)
	case KObject:
		return v.Obj.Equal(other.Obj)
	}
	return false
}

func sameConstraints(a, b *ilp.ConstraintSet) bool {
	as, bs := a.Sorted(), b.Sorted()
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !as[i].Equal(bs[i]) {
			return false
		}
	}
	return true
}

// Less gives Value the total order spec.md §9 asks for, used to sort
// list elements. Values of different kinds order by Kind; Objects
// order by the host's Less alone, with no further tie break.
func (v Value) Less(other Value) bool {
	if v.Kind != other.Kind {
		return v.Kind < other.Kind
	}
	switch v.Kind {
	case KInt:
		return v.I < other.I
	case KBool:
		return !v.B && other.B
	case KString:
		return v.S < other.S
	case KNone:
		return false
	case KList, KTuple:
		for i := 0; i < len(v.Elems) && i < len(other.Elems); i++ {
			if !v.Elems[i].Equal(other.Elems[i]) {
				return v.Elems[i].Less(other.Elems[i])
			}
		}
		return len(v.Elems) < len(other.Elems)
	case KLinExpr:
		return v.Lin.Compare(other.Lin) < 0
	case KConstraintSet:
		return v.Cset.Compare(other.Cset) < 0
	case KObject:
		return v.Obj.Less(other.Obj)
	}
	return false
}

func (v Value) String() string {
	switch v.Kind {
	case KInt:
		return fmt.Sprintf("%d", v.I)
	case KBool:
		return fmt.Sprintf("%t", v.B)
	case KString:
		return v.S
	case KNone:
		return "None"
	case KList:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KTuple:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KLinExpr:
		return v.Lin.String()
	case KConstraintSet:
		parts := make([]string, 0, v.Cset.Len())
		for _, c := range v.Cset.Sorted() {
			parts = append(parts, c.String())
		}
		return "{" + strings.Join(parts, "; ") + "}"
	case KObject:
		return v.Obj.String()
	}
	return "?"
}

// CanonicalKey produces a canonical string encoding of v, used as the
// argument-tuple key that gives base and script variables their
// identity (spec.md §3.3/§4.6: "deterministic identity is essential so
// reifications compose").
func CanonicalKey(vs ...Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.canonicalKey()
	}
	return strings.Join(parts, ",")
}

func (v Value) canonicalKey() string {
	switch v.Kind {
	case KInt:
		return fmt.Sprintf("i:%d", v.I)
	case KBool:
		return fmt.Sprintf("b:%t", v.B)
	case KString:
		return fmt.Sprintf("s:%q", v.S)
	case KNone:
		return "n"
	case KList:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.canonicalKey()
		}
		return "L[" + strings.Join(parts, ",") + "]"
	case KTuple:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.canonicalKey()
		}
		return "T(" + strings.Join(parts, ",") + ")"
	case KObject:
		return "o:" + v.Obj.TypeName() + ":" + v.Obj.String()
	default:
		// LinExpr/ConstraintSet arguments cannot occur: only simple,
		// list, tuple, and object values are legal reification
		// arguments (spec.md §4.6); the checker enforces this.
		return v.String()
	}
}
