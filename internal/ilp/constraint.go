package ilp

import (
	"colloml/internal/ast"
	"sort"
)

// Symbol is a normalized constraint relation. ColloML surface syntax has
// three comparison forms (`===`, `<==`, `>==`); `>==` is rewritten to
// `<==` by negating its operands (spec.md §4.3: "`a >== b` normalizes to
// `b <== a`"), so only two symbols ever appear in normalized form.
type Symbol int

const (
	EQ Symbol = iota
	LEQ
)

func (s Symbol) String() string {
	if s == EQ {
		return "==="
	}
	return "<=="
}

// Constraint is a normalized linear constraint: `Expr <sym> 0`, where
// Expr is `lhs - rhs` in already-reduced form (spec.md §4.3: "a
// constraint is stored as (normalized lhs-rhs expression, relation)").
type Constraint struct {
	Expr *LinExpr
	Sym  Symbol
}

// Eq builds the normalized form of `lhs === rhs`.
func Eq(lhs, rhs *LinExpr) Constraint { return Constraint{Expr: lhs.Sub(rhs), Sym: EQ} }

// Leq builds the normalized form of `lhs <== rhs`.
func Leq(lhs, rhs *LinExpr) Constraint { return Constraint{Expr: lhs.Sub(rhs), Sym: LEQ} }

// Geq builds the normalized form of `lhs >== rhs`, by rewriting to
// `rhs <== lhs`.
func Geq(lhs, rhs *LinExpr) Constraint { return Leq(rhs, lhs) }

func (c Constraint) key() string { return c.Sym.String() + "|" + c.Expr.String() }

// Equal reports whether two constraints are the same normalized
// constraint, ignoring origin.
func (c Constraint) Equal(other Constraint) bool {
	return c.Sym == other.Sym && c.Expr.Equal(other.Expr)
}

func (c Constraint) String() string { return c.Expr.String() + " " + c.Sym.String() + " 0" }

// Compare gives Constraint the canonical order spec.md §9 asks for:
// by relation symbol first, then by the normalized expression's own
// canonical order.
func (c Constraint) Compare(other Constraint) int {
	if c.Sym != other.Sym {
		if c.Sym < other.Sym {
			return -1
		}
		return 1
	}
	return c.Expr.Compare(other.Expr)
}

// Origin records where a constraint came from, for diagnostics and for
// the origin multiset a ConstraintSet preserves across deduplication
// (spec.md §4.3: "origins are preserved as an auxiliary multiset;
// identical constraints discovered at different call sites deduplicate
// to one ILP row but keep every contributing origin for diagnostics").
type Origin struct {
	Span        ast.Span
	Description string
}

// ConstraintSet is a deduplicating, insertion-ordered collection of
// constraints, each tagged with the multiset of origins that produced
// it.
type ConstraintSet struct {
	order   []string
	items   map[string]Constraint
	origins map[string][]Origin
}

// NewConstraintSet returns an empty set.
func NewConstraintSet() *ConstraintSet {
	return &ConstraintSet{items: map[string]Constraint{}, origins: map[string][]Origin{}}
}

// Add inserts c, attributing it to origin o. If an equal constraint is
// already present, o is appended to its origin multiset and no new row
// is created.
func (s *ConstraintSet) Add(c Constraint, o Origin) {
	k := c.key()
	if _, ok := s.items[k]; !ok {
		s.items[k] = c
		s.order = append(s.order, k)
	}
	s.origins[k] = append(s.origins[k], o)
}

// Union adds every constraint (with its origins) from other into s.
func (s *ConstraintSet) Union(other *ConstraintSet) {
	for _, k := range other.order {
		c := other.items[k]
		for _, o := range other.origins[k] {
			s.Add(c, o)
		}
	}
}

// List returns the deduplicated constraints in insertion order.
func (s *ConstraintSet) List() []Constraint {
	out := make([]Constraint, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.items[k])
	}
	return out
}

// Sorted returns the deduplicated constraints in their canonical total
// order (spec.md §9), independent of insertion order — used wherever
// output must be deterministic regardless of evaluation order (e.g. the
// `colloml eval` and REPL constraint listings).
func (s *ConstraintSet) Sorted() []Constraint {
	out := s.List()
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

// Len reports the number of distinct constraints.
func (s *ConstraintSet) Len() int { return len(s.order) }

// Compare gives ConstraintSet the canonical total order spec.md §9
// asks for: by length first, then elementwise over each set's Sorted()
// canonical form. Two
// distinct sets of equal cardinality are never equal under this order,
// which matters wherever Constraint-valued list elements get their
// sort position — and with it their reification script-variable index
// — from Value.Less.
func (s *ConstraintSet) Compare(other *ConstraintSet) int {
	as, bs := s.Sorted(), other.Sorted()
	if len(as) != len(bs) {
		if len(as) < len(bs) {
			return -1
		}
		return 1
	}
	for i := range as {
		if c := as[i].Compare(bs[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Origins returns the origin multiset recorded for c, or nil if c is
// not a member of s.
func (s *ConstraintSet) Origins(c Constraint) []Origin {
	return s.origins[c.key()]
}
