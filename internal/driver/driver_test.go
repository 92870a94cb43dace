package driver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colloml/internal/diag"
	"colloml/internal/driver"
	"colloml/internal/eval"
	"colloml/internal/hostenv"
	"colloml/internal/types"
	"colloml/internal/value"
)

type fakeStudent struct{ id int64 }

func (s fakeStudent) TypeName() string       { return "Student" }
func (s fakeStudent) Equal(o value.Object) bool { return o.(fakeStudent).id == s.id }
func (s fakeStudent) Less(o value.Object) bool  { return s.id < o.(fakeStudent).id }
func (s fakeStudent) String() string         { return "Student#" }

func TestDriverCheckModuleReportsParseErrors(t *testing.T) {
	_, diags := driver.CheckModule(`pub let f(x: Int -> Int = x;`, hostenv.NewSchema(), eval.DefaultOptions())
	require.NotEmpty(t, diags)
}

func TestDriverCheckModuleReportsCheckErrors(t *testing.T) {
	_, diags := driver.CheckModule(`pub let f() -> Int = "x";`, hostenv.NewSchema(), eval.DefaultOptions())
	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if d.Code == diag.CTypeMismatch {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDriverIntrospectListsOnlyPubFunctionsSortedByModuleAndName(t *testing.T) {
	prog, diags := driver.CheckModule(`
let helper() -> Int = 1;
pub let zeta() -> Int = 1;
pub let alpha() -> Int = 1;
`, hostenv.NewSchema(), eval.DefaultOptions())
	require.Empty(t, diags)

	syms := prog.Introspect()
	require.Len(t, syms, 2)
	assert.Equal(t, "alpha", syms[0].Name)
	assert.Equal(t, "zeta", syms[1].Name)
}

func TestDriverEvalWithFieldAccessAgainstStaticEnv(t *testing.T) {
	schema := hostenv.NewSchema()
	schema.DeclareObject("Student", map[string]*types.Type{"id": types.Int()})

	prog, diags := driver.CheckModule(`pub let getID(s: Student) -> Int = s.id;`, schema, eval.DefaultOptions())
	require.Empty(t, diags)

	env := hostenv.NewStaticEnv()
	env.AddField("Student", "id", func(o value.Object) (value.Value, error) {
		return value.Int(o.(fakeStudent).id), nil
	})

	v, _, err := prog.Eval(context.Background(), env, "main", "getID", []value.Value{value.Obj(fakeStudent{id: 7})})
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.I)
}

func TestDriverScenarios(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		fn     string
		args   []value.Value
		assert func(t *testing.T, v value.Value)
	}{
		{
			name: "sum over a half-open range",
			src:  `pub let f() -> Int = sum x in [1 .. 6] { x };`,
			fn:   "f",
			assert: func(t *testing.T, v value.Value) {
				assert.Equal(t, int64(15), v.I)
			},
		},
		{
			name: "comprehension filters and squares",
			src:  `pub let f(n: Int) -> [Int] = [x * x for x in [1 .. 7] where x % 2 == 0];`,
			fn:   "f",
			args: []value.Value{value.Int(0)},
			assert: func(t *testing.T, v value.Value) {
				assert.Equal(t, []int64{4, 16, 36}, intElemsOf(v))
			},
		},
		{
			name: "fold divides left to right over the canonically sorted list",
			src:  `pub let f() -> Int = fold x in [48, 2] with acc = 2 { x // acc };`,
			fn:   "f",
			assert: func(t *testing.T, v value.Value) {
				// [48, 2] sorts to [2, 48]: (2 // 2) = 1, then 48 // 1 = 48.
				assert.Equal(t, int64(48), v.I)
			},
		},
		{
			name: "rfold divides right to left over the canonically sorted list",
			src:  `pub let f() -> Int = rfold x in [48, 2] with acc = 2 { x // acc };`,
			fn:   "f",
			assert: func(t *testing.T, v value.Value) {
				// [48, 2] sorts to [2, 48]: (48 // 2) = 24, then 2 // 24 = 0.
				assert.Equal(t, int64(0), v.I)
			},
		},
		{
			name: "forall over empty list is vacuously true",
			src:  `pub let f(xs: [Int]) -> Bool = forall x in xs { x > 0 };`,
			fn:   "f",
			args: []value.Value{value.List("Int", nil)},
			assert: func(t *testing.T, v value.Value) {
				assert.True(t, v.B)
			},
		},
		{
			name: "forall fails on first non-matching element",
			src:  `pub let f(xs: [Int]) -> Bool = forall x in xs { x > 0 };`,
			fn:   "f",
			args: []value.Value{value.List("Int", []value.Value{value.Int(1), value.Int(-2), value.Int(3)})},
			assert: func(t *testing.T, v value.Value) {
				assert.False(t, v.B)
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			prog, diags := driver.CheckModule(c.src, hostenv.NewSchema(), eval.DefaultOptions())
			require.Empty(t, diags)

			v, err := prog.QuickEval(context.Background(), "main", c.fn, c.args)
			require.NoError(t, err)
			c.assert(t, v)
		})
	}
}

func TestDriverScenarioMatchWithGuardedArms(t *testing.T) {
	prog, diags := driver.CheckModule(`
pub let f(x: Int | Bool) -> Int = match x {
  i as Int where i > 0 { i }
  b as Bool { 0 }
  j as Int { -j }
};
`, hostenv.NewSchema(), eval.DefaultOptions())
	require.Empty(t, diags)

	for _, tc := range []struct {
		arg  value.Value
		want int64
	}{
		{value.Int(5), 5},
		{value.Int(-3), 3},
		{value.Bool(true), 0},
	} {
		v, err := prog.QuickEval(context.Background(), "main", "f", []value.Value{tc.arg})
		require.NoError(t, err)
		assert.Equal(t, tc.want, v.I)
	}
}

func TestDriverScenarioReificationInsideSum(t *testing.T) {
	schema := hostenv.NewSchema()
	schema.DeclareBaseVar("V", types.Int())

	prog, diags := driver.CheckModule(`
let c(x: Int) -> Constraint = $V(x) === 1;
reify c as $M;
pub let f(xs: [Int]) -> LinExpr = sum x in xs { $M(x) };
`, schema, eval.DefaultOptions())
	require.Empty(t, diags)

	v, cs, err := prog.Eval(context.Background(), nil, "main", "f", []value.Value{
		value.List("Int", []value.Value{value.Int(1), value.Int(2), value.Int(3)}),
	})
	require.NoError(t, err)
	assert.Equal(t, value.KLinExpr, v.Kind)
	require.NotNil(t, cs)
	assert.Equal(t, 3, cs.Len())
}

func intElemsOf(v value.Value) []int64 {
	out := make([]int64, len(v.Elems))
	for i, e := range v.Elems {
		out[i] = e.I
	}
	return out
}

func TestDriverEvalAcrossMultipleModules(t *testing.T) {
	modules := map[string]string{
		"a": `pub let helper(x: Int) -> Int = x + 1;`,
		"b": `pub let useA(x: Int) -> Int = x;`,
	}
	prog, diags := driver.Check(modules, hostenv.NewSchema(), eval.DefaultOptions())
	require.Empty(t, diags)

	v, err := prog.QuickEval(context.Background(), "a", "helper", []value.Value{value.Int(41)})
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.I)
}
