package ilp

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

func TestLinExprAddAndScale(t *testing.T) {
	x := NewBaseVar("x", "", "")
	y := NewBaseVar("y", "", "")

	e := FromVar(x).Add(Constant(3)).Add(FromVar(y).Scale(big.NewRat(2, 1)))

	assert.False(t, e.IsConstant())
	assert.Equal(t, big.NewRat(1, 1), e.Coefficient(x))
	assert.Equal(t, big.NewRat(2, 1), e.Coefficient(y))
	assert.Equal(t, "x + 2*y + 3", e.String())
}

func TestLinExprDropsZeroCoefficients(t *testing.T) {
	x := NewBaseVar("x", "", "")
	e := FromVar(x).Sub(FromVar(x))

	assert.True(t, e.IsConstant())
	assert.Equal(t, big.NewRat(0, 1), e.ConstantValue())
}

func TestMulRejectsTwoNonConstants(t *testing.T) {
	x := NewBaseVar("x", "", "")
	y := NewBaseVar("y", "", "")

	_, ok := Mul(FromVar(x), FromVar(y))
	assert.False(t, ok)

	result, ok := Mul(FromVar(x), Constant(5))
	assert.True(t, ok)
	assert.Equal(t, big.NewRat(5, 1), result.Coefficient(x))
}

func TestLinExprCompareIsTotalOrder(t *testing.T) {
	a := Constant(1)
	b := Constant(2)
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(Constant(1)))
}

func TestVarOrdering(t *testing.T) {
	base := NewBaseVar("a", "", "")
	script := NewScriptVar("m", "a", -1, "", "")

	assert.True(t, base.Less(script), "base variables sort before script variables")
	assert.False(t, script.Less(base))
}

func TestConstraintNormalizesGeqToLeq(t *testing.T) {
	x := FromVar(NewBaseVar("x", "", ""))
	y := FromVar(NewBaseVar("y", "", ""))

	c := Geq(x, y)
	assert.Equal(t, LEQ, c.Sym)
	assert.True(t, c.Equal(Leq(y, x)))
}

func TestConstraintSetDeduplicatesButKeepsOrigins(t *testing.T) {
	x := FromVar(NewBaseVar("x", "", ""))
	c := Eq(x, Constant(0))

	set := NewConstraintSet()
	set.Add(c, Origin{Description: "first"})
	set.Add(c, Origin{Description: "second"})

	assert.Equal(t, 1, set.Len())
	assert.Len(t, set.Origins(c), 2)
}

func TestConstraintSetUnion(t *testing.T) {
	a := NewConstraintSet()
	b := NewConstraintSet()

	ca := Eq(FromVar(NewBaseVar("x", "", "")), Constant(0))
	cb := Eq(FromVar(NewBaseVar("y", "", "")), Constant(1))
	a.Add(ca, Origin{Description: "a"})
	b.Add(cb, Origin{Description: "b"})

	a.Union(b)
	assert.Equal(t, 2, a.Len())
}

// TestVarIdentityIgnoresDisplayRepr deep-compares two Vars built with
// the same identity fields (Base, Module, Name, FromList, ArgKey) but
// different display strings (argRepr), confirming identity is exactly
// the tuple spec.md §9 names and never the cosmetic rendering.
func TestVarIdentityIgnoresDisplayRepr(t *testing.T) {
	a := NewBaseVar("x", "i:1", "1")
	b := NewBaseVar("x", "i:1", "two")

	if diff := cmp.Diff(a, b, cmpopts.IgnoreUnexported(Var{})); diff != "" {
		t.Errorf("variable identity must ignore argRepr (-a +b):\n%s", diff)
	}
	assert.NotEqual(t, a.String(), b.String(), "argRepr should still affect display")
}

// linExprComparer lets go-cmp deep-compare *LinExpr values (whose
// coeffs/k fields are unexported) by delegating to the canonical
// Equal method instead of panicking on unexported struct fields.
var linExprComparer = cmp.Comparer(func(a, b *LinExpr) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(b)
})

func TestLinExprDeepEqualityViaComparer(t *testing.T) {
	x := NewBaseVar("x", "", "")

	a := FromVar(x).Add(Constant(3))
	b := Constant(3).Add(FromVar(x))

	if diff := cmp.Diff(a, b, linExprComparer); diff != "" {
		t.Errorf("commutative construction should be equal (-a +b):\n%s", diff)
	}
}

func TestConstraintSetSortedIsOrderIndependent(t *testing.T) {
	x := FromVar(NewBaseVar("x", "", ""))
	y := FromVar(NewBaseVar("y", "", ""))

	s1 := NewConstraintSet()
	s1.Add(Eq(y, Constant(0)), Origin{})
	s1.Add(Eq(x, Constant(0)), Origin{})

	s2 := NewConstraintSet()
	s2.Add(Eq(x, Constant(0)), Origin{})
	s2.Add(Eq(y, Constant(0)), Origin{})

	assert.Equal(t, s1.Sorted(), s2.Sorted())
}
