package types

// CoercionKind names an inserted, value-preserving widening the checker
// attaches to an elaborated expression node (spec.md §4.2.3: "explicit
// coercion nodes inserted wherever an input was widened").
type CoercionKind int

const (
	NoCoercion CoercionKind = iota
	CoerceIntToLinExpr
	CoerceBoolToConstraint
	CoerceWiden // type-level only: A ≤ B via union subset, no value change
)

// CanConvertInto reports whether `e into T` is legal for a value
// currently typed `from`, per the enumerated table in SPEC_FULL.md's
// "the `into` keyword's legal conversions" design note (spec.md §9 open
// question, resolved explicitly rather than inferred).
func CanConvertInto(from, to *Type) bool {
	if len(from.Variants) == 1 && len(to.Variants) == 1 {
		fv, tv := from.Variants[0], to.Variants[0]
		switch {
		case fv.Kind == KInt && tv.Kind == KLinExpr:
			return true
		case fv.Kind == KBool && tv.Kind == KConstraint:
			return true
		case fv.Kind == KList && tv.Kind == KList:
			// empty list literal carries no element values to check;
			// the checker only calls this after confirming the source
			// list is the empty-literal form.
			return true
		}
	}
	// T into ?T: widen into the maybe form.
	if !from.HasNone() && to.HasNone() {
		bare := canonicalize(nonNoneVariants(to))
		if from.Equal(bare) {
			return true
		}
	}
	return false
}

func nonNoneVariants(t *Type) []Variant {
	out := make([]Variant, 0, len(t.Variants))
	for _, v := range t.Variants {
		if v.Kind != KNone {
			out = append(out, v)
		}
	}
	return out
}
