package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtypeIntToLinExpr(t *testing.T) {
	assert.True(t, IsSubtype(Int(), LinExpr()))
	assert.False(t, IsSubtype(LinExpr(), Int()))
}

func TestSubtypeBoolToConstraint(t *testing.T) {
	assert.True(t, IsSubtype(Bool(), Constraint()))
	assert.False(t, IsSubtype(Constraint(), Bool()))
}

func TestSubtypeListIsCovariant(t *testing.T) {
	assert.True(t, IsSubtype(ListOf(Int()), ListOf(LinExpr())))
	assert.False(t, IsSubtype(ListOf(LinExpr()), ListOf(Int())))
}

func TestSubtypeTupleIsComponentwise(t *testing.T) {
	a := TupleOf(Int(), Bool())
	b := TupleOf(LinExpr(), Constraint())
	assert.True(t, IsSubtype(a, b))
	assert.False(t, IsSubtype(b, a))
}

func TestSubtypeNoneOnlyIntoMaybe(t *testing.T) {
	assert.True(t, IsSubtype(None(), Maybe(Int())))
	assert.False(t, IsSubtype(None(), Int()))
}

func TestSubtypeObjectRequiresSameName(t *testing.T) {
	assert.True(t, IsSubtype(ObjectOf("Student"), ObjectOf("Student")))
	assert.False(t, IsSubtype(ObjectOf("Student"), ObjectOf("Slot")))
}

func TestJoinCollapsesDominatedVariant(t *testing.T) {
	joined := Join(Int(), LinExpr())
	assert.Equal(t, LinExpr().String(), joined.String())
}

func TestJoinKeepsIncomparableVariants(t *testing.T) {
	joined := Join(Int(), Str())
	assert.Equal(t, 2, len(joined.Variants))
}

func TestJoinIsOrderIndependent(t *testing.T) {
	a := Join(Int(), LinExpr())
	b := Join(LinExpr(), Int())
	assert.True(t, a.Equal(b))
}

func TestUnionCanonicalizesRegardlessOfOrder(t *testing.T) {
	a := Union(Int(), Bool())
	b := Union(Bool(), Int())
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.String(), b.String())
}

func TestCanConvertIntoTable(t *testing.T) {
	assert.True(t, CanConvertInto(Int(), LinExpr()))
	assert.True(t, CanConvertInto(Bool(), Constraint()))
	assert.True(t, CanConvertInto(Str(), Maybe(Str())))
	assert.False(t, CanConvertInto(Str(), Int()))
}

func TestMaybeHasNone(t *testing.T) {
	assert.True(t, Maybe(Int()).HasNone())
	assert.False(t, Int().HasNone())
}
