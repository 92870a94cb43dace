package value

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"colloml/internal/ilp"
)

// linExprComparer and constraintSetComparer let go-cmp deep-compare the
// ilp package's unexported-field types by delegating to their own
// canonical equality, rather than traversing private struct internals.
var linExprComparer = cmp.Comparer(func(a, b *ilp.LinExpr) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(b)
})

var constraintSetComparer = cmp.Comparer(func(a, b *ilp.ConstraintSet) bool {
	if a == nil || b == nil {
		return a == b
	}
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
})

func TestListDedupesAndSorts(t *testing.T) {
	l := List("Int", []Value{Int(3), Int(1), Int(3), Int(2)})

	assert.Len(t, l.Elems, 3)
	assert.Equal(t, []Value{Int(1), Int(2), Int(3)}, l.Elems)
}

func TestValueEqualAcrossKinds(t *testing.T) {
	assert.True(t, Int(5).Equal(Int(5)))
	assert.False(t, Int(5).Equal(Int(6)))
	assert.False(t, Int(5).Equal(Str("5")))
	assert.True(t, None().Equal(None()))
}

func TestTupleEqualityIsElementwise(t *testing.T) {
	a := Tuple(Int(1), Bool(true))
	b := Tuple(Int(1), Bool(true))
	c := Tuple(Int(1), Bool(false))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestCanonicalKeyDistinguishesShape(t *testing.T) {
	k1 := CanonicalKey(Int(1), Str("a"))
	k2 := CanonicalKey(Int(1), Str("b"))
	k3 := CanonicalKey(Str("1"), Str("a"))

	assert.NotEqual(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Equal(t, k1, CanonicalKey(Int(1), Str("a")))
}

func TestLinExprValueString(t *testing.T) {
	v := Lin(ilp.Constant(42))
	assert.Equal(t, "42", v.String())
}

func TestValueLessGivesTotalOrderAcrossKinds(t *testing.T) {
	assert.True(t, Int(1).Less(Bool(true)))
	assert.False(t, Bool(true).Less(Int(1)))
}

// TestValueDeepEqualityViaComparerMatchesEqual cross-checks Value.Equal
// against an independent go-cmp deep comparison for values carrying
// LinExpr and ConstraintSet payloads, confirming the two notions of
// equality never diverge.
func TestValueDeepEqualityViaComparerMatchesEqual(t *testing.T) {
	a := Tuple(Int(1), Lin(ilp.Constant(3)))
	b := Tuple(Int(1), Lin(ilp.Constant(1).Add(ilp.Constant(2))))

	diff := cmp.Diff(a, b, linExprComparer, constraintSetComparer)
	assert.Empty(t, diff, "structurally equivalent LinExprs should compare equal via go-cmp")
	assert.True(t, a.Equal(b))

	csA := ilp.NewConstraintSet()
	csA.Add(ilp.Eq(ilp.FromVar(ilp.NewBaseVar("x", "", "")), ilp.Constant(0)), ilp.Origin{})
	csB := ilp.NewConstraintSet()
	csB.Add(ilp.Eq(ilp.FromVar(ilp.NewBaseVar("x", "", "")), ilp.Constant(0)), ilp.Origin{})

	diff = cmp.Diff(Cset(csA), Cset(csB), linExprComparer, constraintSetComparer)
	assert.Empty(t, diff, "equal constraint sets should compare equal via go-cmp")
}

// TestListStaysSortedAndDedupedUnderRandomConstruction is a
// property-style check (spec §8's "Randomly generated list values
// retain the sortedness-and-uniqueness invariant"): every list built
// via List, regardless of how scrambled or duplicated the input slice
// is, comes out deduplicated and ascending.
func TestListStaysSortedAndDedupedUnderRandomConstruction(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(20)
		raw := make([]Value, n)
		for i := range raw {
			raw[i] = Int(int64(rng.Intn(10)))
		}
		l := List("Int", raw)

		for i := 1; i < len(l.Elems); i++ {
			assert.True(t, l.Elems[i-1].Less(l.Elems[i]), "elements must be strictly ascending")
		}
		seen := map[int64]bool{}
		for _, e := range l.Elems {
			assert.False(t, seen[e.I], "duplicate element %d survived List()", e.I)
			seen[e.I] = true
		}
	}
}
