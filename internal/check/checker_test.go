package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colloml/internal/ast"
	"colloml/internal/diag"
	"colloml/internal/hostenv"
	"colloml/internal/parser"
	"colloml/internal/types"
)

func parseOne(t *testing.T, src string) map[string]*ast.Module {
	t.Helper()
	mod, errs := parser.ParseModule("main", src)
	require.Empty(t, errs)
	return map[string]*ast.Module{"main": mod}
}

func TestCheckSimpleArithmeticPromotesToLinExpr(t *testing.T) {
	mods := parseOne(t, `pub let cost(x: Int) -> LinExpr = x + x into LinExpr;`)
	prog, diags := Check(mods, hostenv.NewSchema())
	require.Empty(t, diags)
	require.NotNil(t, prog)
	assert.True(t, prog.Funcs["main"]["cost"].Return.Equal(types.LinExpr()))
}

func TestCheckBaseVarArityMismatch(t *testing.T) {
	schema := hostenv.NewSchema()
	schema.DeclareBaseVar("assign", types.Int(), types.Int())

	mods := parseOne(t, `pub let f() -> LinExpr = $assign(1);`)
	_, diags := Check(mods, schema)
	assertHasCode(t, diags, diag.CArityMismatch)
}

func TestCheckUndefinedBaseVarReportsError(t *testing.T) {
	mods := parseOne(t, `pub let f() -> LinExpr = $ghost(1);`)
	_, diags := Check(mods, hostenv.NewSchema())
	assertHasCode(t, diags, diag.CUndefinedVariable)
}

func TestCheckReifyRequiresConstraintReturn(t *testing.T) {
	mods := parseOne(t, `
let notAConstraint(x: Int) -> Int = x;
reify notAConstraint as $v;
`)
	_, diags := Check(mods, hostenv.NewSchema())
	assertHasCode(t, diags, diag.CReifyReturnType)
}

func TestCheckReifyShadowingBaseVarIsError(t *testing.T) {
	schema := hostenv.NewSchema()
	schema.DeclareBaseVar("taken", types.Int())

	mods := parseOne(t, `
let c(x: Int) -> Constraint = x <== 0;
reify c as $taken;
`)
	_, diags := Check(mods, schema)
	assertHasCode(t, diags, diag.CBadReifyShadow)
}

func TestCheckMatchExhaustiveOverUnion(t *testing.T) {
	mods := parseOne(t, `
pub let classify(x: Int | Bool) -> String = match x {
  n as Int { "int" }
  b as Bool { "bool" }
};
`)
	_, diags := Check(mods, hostenv.NewSchema())
	assert.Empty(t, diags)
}

func TestCheckMatchNonExhaustiveIsError(t *testing.T) {
	mods := parseOne(t, `
pub let classify(x: Int | Bool) -> String = match x {
  n as Int { "int" }
};
`)
	_, diags := Check(mods, hostenv.NewSchema())
	assertHasCode(t, diags, diag.CMatchNotExhaustive)
}

func TestCheckSumOverIntListIsInt(t *testing.T) {
	mods := parseOne(t, `pub let total(xs: [Int]) -> Int = sum x in xs { x };`)
	prog, diags := Check(mods, hostenv.NewSchema())
	require.Empty(t, diags)
	assert.True(t, prog.Funcs["main"]["total"].Return.Equal(types.Int()))
}

func TestCheckForallRequiresBoolOrConstraintBody(t *testing.T) {
	mods := parseOne(t, `pub let bad(xs: [Int]) -> Constraint = forall x in xs { x };`)
	_, diags := Check(mods, hostenv.NewSchema())
	assertHasCode(t, diags, diag.CTypeMismatch)
}

func TestCheckOrRejectsMixedBoolAndConstraint(t *testing.T) {
	mods := parseOne(t, `pub let f(x: Bool) -> Constraint = x or (1 <== 0);`)
	_, diags := Check(mods, hostenv.NewSchema())
	assertHasCode(t, diags, diag.CBadOperands)
}

func TestCheckAndPromotesBoolToConstraint(t *testing.T) {
	mods := parseOne(t, `pub let f(x: Bool) -> Constraint = x and (1 <== 0);`)
	_, diags := Check(mods, hostenv.NewSchema())
	assert.Empty(t, diags)
}

func TestCheckIntoTableRejectsIllegalConversion(t *testing.T) {
	mods := parseOne(t, `pub let f() -> Int = "x" into Int;`)
	_, diags := Check(mods, hostenv.NewSchema())
	assertHasCode(t, diags, diag.CBadConversion)
}

func assertHasCode(t *testing.T, diags []diag.Diagnostic, code string) {
	t.Helper()
	for _, d := range diags {
		if d.Code == code {
			return
		}
	}
	t.Fatalf("expected a diagnostic with code %s, got %v", code, diags)
}
