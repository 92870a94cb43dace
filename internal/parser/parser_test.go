package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"colloml/internal/ast"
)

func TestParseSimpleFunction(t *testing.T) {
	src := `pub let double(x: Int) -> LinExpr = x into LinExpr + x into LinExpr;`
	mod, errs := ParseModule("test", src)
	assert.Empty(t, errs)
	assert.Len(t, mod.Decls, 1)

	fn, ok := mod.Decls[0].(*ast.FunctionDecl)
	assert.True(t, ok)
	assert.True(t, fn.Pub)
	assert.Equal(t, "double", fn.Name)
	assert.Len(t, fn.Params, 1)
}

func TestParseReifyDecl(t *testing.T) {
	src := `
let fits(s: Int) -> Constraint = s <== 10;
reify fits as $cap;
`
	mod, errs := ParseModule("test", src)
	assert.Empty(t, errs)
	assert.Len(t, mod.Decls, 2)

	rd, ok := mod.Decls[1].(*ast.ReifyDecl)
	assert.True(t, ok)
	assert.Equal(t, "fits", rd.FuncName)
	assert.Equal(t, "cap", rd.VarName)
	assert.False(t, rd.List)
}

func TestParseListReifyDecl(t *testing.T) {
	src := `
let per_slot(i: Int) -> [Constraint] = [x === 0 for x in [0 .. i]];
reify per_slot as $[slot];
`
	mod, errs := ParseModule("test", src)
	assert.Empty(t, errs)

	rd := mod.Decls[1].(*ast.ReifyDecl)
	assert.True(t, rd.List)
	assert.Equal(t, "slot", rd.VarName)
}

func TestParseMatchExpr(t *testing.T) {
	src := `
let classify(x: Int | Bool) -> String = match x {
  n as Int where n > 0 { "positive" }
  n as Int { "nonpositive" }
  b as Bool { "bool" }
};
`
	mod, errs := ParseModule("test", src)
	assert.Empty(t, errs)

	fn := mod.Decls[0].(*ast.FunctionDecl)
	m, ok := fn.Body.(*ast.MatchExpr)
	assert.True(t, ok)
	assert.Len(t, m.Arms, 3)

	first, ok := m.Arms[0].Pattern.(*ast.TypedPattern)
	assert.True(t, ok)
	assert.NotNil(t, first.Where)
}

func TestParseSumAndForall(t *testing.T) {
	src := `
let total(xs: [Int]) -> LinExpr = sum x in xs { x into LinExpr };
let all_ok(xs: [Int]) -> Constraint = forall x in xs where x > 0 { x > 0 };
`
	mod, errs := ParseModule("test", src)
	assert.Empty(t, errs)
	assert.Len(t, mod.Decls, 2)

	sum := mod.Decls[0].(*ast.FunctionDecl).Body.(*ast.SumExpr)
	assert.Equal(t, "x", sum.Var)

	forall := mod.Decls[1].(*ast.FunctionDecl).Body.(*ast.ForallExpr)
	assert.NotNil(t, forall.Where)
}

func TestParseFoldAccumulatesOverAList(t *testing.T) {
	src := `let total(xs: [Int]) -> Int = fold x in xs with acc = 0 { acc + x };`
	mod, errs := ParseModule("test", src)
	assert.Empty(t, errs)

	fold := mod.Decls[0].(*ast.FunctionDecl).Body.(*ast.FoldExpr)
	assert.Equal(t, "acc", fold.AccName)
	assert.False(t, fold.Right)
}

func TestParseComprehension(t *testing.T) {
	src := `let squares(xs: [Int]) -> [Int] = [x * x for x in xs where x > 0];`
	mod, errs := ParseModule("test", src)
	assert.Empty(t, errs)

	comp := mod.Decls[0].(*ast.FunctionDecl).Body.(*ast.Comprehension)
	assert.Len(t, comp.Clauses, 1)
	assert.NotNil(t, comp.Where)
}

func TestParseErrorsRecoverAtNextDecl(t *testing.T) {
	src := `
let broken(x: Int -> Int = x;
let ok(x: Int) -> Int = x;
`
	mod, errs := ParseModule("test", src)
	assert.NotEmpty(t, errs)
	var names []string
	for _, d := range mod.Decls {
		if fn, ok := d.(*ast.FunctionDecl); ok {
			names = append(names, fn.Name)
		}
	}
	assert.Contains(t, names, "ok")
}

func TestParseVarCallAndListVarCall(t *testing.T) {
	src := `
let uses(x: Int) -> LinExpr = $assign(x, 1) + $[cover](x)[0]!;
`
	mod, errs := ParseModule("test", src)
	assert.Empty(t, errs)

	bin := mod.Decls[0].(*ast.FunctionDecl).Body.(*ast.BinaryExpr)
	_, ok := bin.Left.(*ast.VarCallExpr)
	assert.True(t, ok)
}
