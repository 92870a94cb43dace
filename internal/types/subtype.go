package types

// IsSubtype reports whether every value of type a is also a value of
// type b, after the coercions of spec.md §3.1: `Int ≤ LinExpr`, `Bool ≤
// Constraint`, `List<A> ≤ List<B>` iff `A ≤ B` (tuples componentwise),
// and `None ≤ T` for any T that itself admits None.
func IsSubtype(a, b *Type) bool {
	bHasNone := b.HasNone()
	for _, va := range a.Variants {
		if va.Kind == KNone {
			if !bHasNone {
				return false
			}
			continue
		}
		if !existsCompatibleVariant(va, b) {
			return false
		}
	}
	return true
}

func existsCompatibleVariant(va Variant, b *Type) bool {
	for _, vb := range b.Variants {
		if variantSubtype(va, vb) {
			return true
		}
	}
	return false
}

// variantSubtype checks a single non-None variant against a single
// target variant.
func variantSubtype(a, b Variant) bool {
	if a.Kind == b.Kind {
		switch a.Kind {
		case KList:
			return IsSubtype(a.Elem, b.Elem)
		case KTuple:
			if len(a.Elems) != len(b.Elems) {
				return false
			}
			for i := range a.Elems {
				if !IsSubtype(a.Elems[i], b.Elems[i]) {
					return false
				}
			}
			return true
		case KObject:
			return a.Object == b.Object
		default:
			return true
		}
	}
	switch {
	case a.Kind == KInt && b.Kind == KLinExpr:
		return true
	case a.Kind == KBool && b.Kind == KConstraint:
		return true
	default:
		return false
	}
}

// Join computes the least type that is a supertype of both a and b,
// collapsing any variant that is a strict, coercible subtype of another
// variant already present (e.g. Join(Int, LinExpr) = LinExpr, not
// Int|LinExpr) — used for `if`/`match` arm results, `sum`/`forall`
// quantifier results, and collection-operator result types (spec.md
// §4.2.1).
func Join(a, b *Type) *Type {
	merged := canonicalize(append(append([]Variant{}, a.Variants...), b.Variants...))
	return simplify(merged)
}

func simplify(t *Type) *Type {
	keep := make([]Variant, 0, len(t.Variants))
	for i, v := range t.Variants {
		if v.Kind == KNone {
			keep = append(keep, v)
			continue
		}
		dominated := false
		for j, w := range t.Variants {
			if i == j || w.Kind == KNone {
				continue
			}
			if v.key() != w.key() && variantSubtype(v, w) {
				dominated = true
				break
			}
		}
		if !dominated {
			keep = append(keep, v)
		}
	}
	return canonicalize(keep)
}
