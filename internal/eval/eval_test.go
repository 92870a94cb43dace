package eval_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colloml/internal/driver"
	"colloml/internal/eval"
	"colloml/internal/hostenv"
	"colloml/internal/types"
	"colloml/internal/value"
)

func mustCheck(t *testing.T, src string, schema *hostenv.Schema) *driver.Program {
	t.Helper()
	if schema == nil {
		schema = hostenv.NewSchema()
	}
	prog, diags := driver.CheckModule(src, schema, eval.DefaultOptions())
	require.Empty(t, diags)
	require.NotNil(t, prog)
	return prog
}

func TestEvalArithmeticOverflowIsReported(t *testing.T) {
	prog := mustCheck(t, `pub let f(x: Int) -> Int = x * x;`, nil)
	_, err := prog.QuickEval(context.Background(), "main", "f", []value.Value{value.Int(1 << 62)})
	require.Error(t, err)
}

func TestEvalDivAndModFloorTowardNegativeInfinity(t *testing.T) {
	prog := mustCheck(t, `
pub let d(a: Int, b: Int) -> Int = a // b;
pub let m(a: Int, b: Int) -> Int = a % b;
`, nil)
	d, err := prog.QuickEval(context.Background(), "main", "d", []value.Value{value.Int(-7), value.Int(2)})
	require.NoError(t, err)
	assert.Equal(t, int64(-4), d.I)

	m, err := prog.QuickEval(context.Background(), "main", "m", []value.Value{value.Int(-7), value.Int(2)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.I)
}

func TestEvalDivByZeroIsError(t *testing.T) {
	prog := mustCheck(t, `pub let f(a: Int, b: Int) -> Int = a // b;`, nil)
	_, err := prog.QuickEval(context.Background(), "main", "f", []value.Value{value.Int(1), value.Int(0)})
	require.Error(t, err)
}

func TestEvalSumPromotesToLinExpr(t *testing.T) {
	prog := mustCheck(t, `pub let total(xs: [Int]) -> LinExpr = sum x in xs { x into LinExpr };`, nil)
	v, err := prog.QuickEval(context.Background(), "main", "total", []value.Value{value.List("Int", []value.Value{value.Int(1), value.Int(2), value.Int(3)})})
	require.NoError(t, err)
	assert.Equal(t, value.KLinExpr, v.Kind)
	assert.Equal(t, "6", v.String())
}

func TestEvalForallAggregatesConstraints(t *testing.T) {
	prog := mustCheck(t, `pub let allZero(xs: [Int]) -> Constraint = forall x in xs { x === 0 };`, nil)
	v, cs, err := prog.Eval(context.Background(), nil, "main", "allZero", []value.Value{value.List("Int", []value.Value{value.Int(0), value.Int(0)})})
	require.NoError(t, err)
	assert.Equal(t, value.KConstraintSet, v.Kind)
	require.NotNil(t, cs)
	assert.Equal(t, 0, cs.Len())
}

func TestEvalMatchNarrowsByRuntimeShape(t *testing.T) {
	prog := mustCheck(t, `
pub let classify(x: Int | Bool) -> String = match x {
  n as Int { "int" }
  b as Bool { "bool" }
};
`, nil)
	v, err := prog.QuickEval(context.Background(), "main", "classify", []value.Value{value.Bool(true)})
	require.NoError(t, err)
	assert.Equal(t, "bool", v.S)
}

func TestEvalFoldRightAccumulatesInReverse(t *testing.T) {
	prog := mustCheck(t, `pub let concat(xs: [Int]) -> [Int] = rfold x in xs with acc = [<Int>] { [x] + acc };`, nil)
	v, err := prog.QuickEval(context.Background(), "main", "concat", []value.Value{value.List("Int", []value.Value{value.Int(1), value.Int(2), value.Int(3)})})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, intElems(v))
}

func intElems(v value.Value) []int64 {
	out := make([]int64, len(v.Elems))
	for i, e := range v.Elems {
		out[i] = e.I
	}
	return out
}

func TestEvalReificationCachesOnArgumentTuple(t *testing.T) {
	schema := hostenv.NewSchema()
	prog := mustCheck(t, `
let fits(s: Int) -> Constraint = s <== 10;
reify fits as $cap;
pub let twice(s: Int) -> LinExpr = $cap(s) + $cap(s);
`, schema)
	v, cs, err := prog.Eval(context.Background(), nil, "main", "twice", []value.Value{value.Int(3)})
	require.NoError(t, err)
	assert.Equal(t, value.KLinExpr, v.Kind)
	require.NotNil(t, cs)
	assert.Equal(t, 1, cs.Len())
}

func TestEvalListReificationProducesOnePerIndex(t *testing.T) {
	prog := mustCheck(t, `
let perSlot(i: Int) -> [Constraint] = [x === i for x in [0, 1]];
reify perSlot as $[slot];
pub let all(i: Int) -> [LinExpr] = $[slot](i);
`, nil)
	v, cs, err := prog.Eval(context.Background(), nil, "main", "all", []value.Value{value.Int(5)})
	require.NoError(t, err)
	assert.Len(t, v.Elems, 2)
	require.NotNil(t, cs)
	assert.Equal(t, 2, cs.Len())
}

func TestEvalUndeclaredDollarNameBecomesBaseVar(t *testing.T) {
	schema := hostenv.NewSchema()
	schema.DeclareBaseVar("assign", types.Int())
	prog := mustCheck(t, `pub let f(x: Int) -> LinExpr = $assign(x);`, schema)
	v, err := prog.QuickEval(context.Background(), "main", "f", []value.Value{value.Int(7)})
	require.NoError(t, err)
	assert.Equal(t, value.KLinExpr, v.Kind)
}

func TestEvalCastOptionalReturnsNoneOnMismatch(t *testing.T) {
	prog := mustCheck(t, `pub let f(x: Int | Bool) -> ?Int = x cast? Int;`, nil)
	v, err := prog.QuickEval(context.Background(), "main", "f", []value.Value{value.Bool(true)})
	require.NoError(t, err)
	assert.Equal(t, value.KNone, v.Kind)
}

func TestEvalCastCheckedFailsLoudly(t *testing.T) {
	prog := mustCheck(t, `pub let f(x: Int | Bool) -> Int = x cast! Int;`, nil)
	_, err := prog.QuickEval(context.Background(), "main", "f", []value.Value{value.Bool(true)})
	require.Error(t, err)
}

func TestEvalComprehensionCrossProductOverMultipleClauses(t *testing.T) {
	prog := mustCheck(t, `pub let pairs(xs: [Int], ys: [Int]) -> [Int] = [x + y for x in xs for y in ys];`, nil)
	v, err := prog.QuickEval(context.Background(), "main", "pairs", []value.Value{
		value.List("Int", []value.Value{value.Int(1), value.Int(2)}),
		value.List("Int", []value.Value{value.Int(10), value.Int(20)}),
	})
	require.NoError(t, err)
	assert.Len(t, v.Elems, 4)
}

// TestEvalSumEqualsPairwiseReduction is a property-style check (spec
// §8: "the returned LinExpr equals the pairwise `+` reduction ... in
// canonical order"): sum over a random list of distinct ints must
// match folding `+` left to right over the same (canonically sorted)
// list.
func TestEvalSumEqualsPairwiseReduction(t *testing.T) {
	prog := mustCheck(t, `pub let total(xs: [Int]) -> Int = sum x in xs { x };`, nil)
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		n := rng.Intn(10)
		seen := map[int64]bool{}
		var elems []value.Value
		for len(elems) < n {
			v := int64(rng.Intn(50))
			if seen[v] {
				continue
			}
			seen[v] = true
			elems = append(elems, value.Int(v))
		}
		xs := value.List("Int", elems)

		v, err := prog.QuickEval(context.Background(), "main", "total", []value.Value{xs})
		require.NoError(t, err)

		var want int64
		for _, e := range xs.Elems {
			want += e.I
		}
		assert.Equal(t, want, v.I)
	}
}

// TestEvalMatchIsInvariantUnderDisjointArmPermutation is a property-
// style check (spec §8: "for every match arm ordering that is a
// permutation of a disjoint cover, the result is permutation-
// invariant"). classifyA and classifyB below cover the same disjoint
// Int/Bool split with their arms in opposite order.
func TestEvalMatchIsInvariantUnderDisjointArmPermutation(t *testing.T) {
	progA := mustCheck(t, `
pub let classify(x: Int | Bool) -> String = match x {
  n as Int { "int" }
  b as Bool { "bool" }
};
`, nil)
	progB := mustCheck(t, `
pub let classify(x: Int | Bool) -> String = match x {
  b as Bool { "bool" }
  n as Int { "int" }
};
`, nil)

	for _, arg := range []value.Value{value.Int(3), value.Bool(false)} {
		va, err := progA.QuickEval(context.Background(), "main", "classify", []value.Value{arg})
		require.NoError(t, err)
		vb, err := progB.QuickEval(context.Background(), "main", "classify", []value.Value{arg})
		require.NoError(t, err)
		assert.Equal(t, va.S, vb.S)
	}
}

func TestEvalRecursionDepthLimitIsEnforced(t *testing.T) {
	prog, diags := driver.CheckModule(`pub let loop(x: Int) -> Int = loop(x);`, hostenv.NewSchema(), eval.Options{MaxDepth: 4})
	require.Empty(t, diags)
	require.NotNil(t, prog)
	_, err := prog.QuickEval(context.Background(), "main", "loop", []value.Value{value.Int(0)})
	require.Error(t, err)
}
