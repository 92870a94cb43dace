package check

import (
	"colloml/internal/ast"
	"colloml/internal/diag"
	"colloml/internal/types"
)

func (c *Checker) inferIf(n *ast.IfExpr, scope *SymbolTable) *types.Type {
	cond := c.inferExpr(n.Cond, scope)
	c.requireExactType(n.Cond, cond, types.Bool(), "`if` condition")
	then := c.inferExpr(n.Then, scope)
	els := c.inferExpr(n.Else, scope)
	return types.Join(then, els)
}

func (c *Checker) inferLet(n *ast.LetExpr, scope *SymbolTable) *types.Type {
	vt := c.inferExpr(n.Value, scope)
	inner := NewSymbolTable(scope)
	inner.Define(n.Name, SymLet, vt)
	return c.inferExpr(n.Body, inner)
}

// inferBinary type-checks a binary operator, resolving the overload
// (arithmetic vs. collection for the overloaded `+`/`-` spellings;
// Bool vs. Constraint for `and`/`or`) per spec.md §4.2.1.
func (c *Checker) inferBinary(n *ast.BinaryExpr, scope *SymbolTable) *types.Type {
	lt := c.inferExpr(n.Left, scope)
	rt := c.inferExpr(n.Right, scope)

	switch n.Op {
	case "+", "-":
		if isListType(lt) || isListType(rt) {
			return c.inferCollectionOp(n, lt, rt)
		}
		return c.inferArithOp(n, lt, rt, true)
	case "*":
		return c.inferArithOp(n, lt, rt, false)
	case "//", "%":
		c.requireExactType(n.Left, lt, types.Int(), "`"+n.Op+"`")
		c.requireExactType(n.Right, rt, types.Int(), "`"+n.Op+"`")
		return types.Int()
	case "union", "inter", "\\":
		return c.inferCollectionOp(n, lt, rt)
	case "==", "!=":
		return types.Bool()
	case "<", "<=", ">", ">=":
		c.requireExactType(n.Left, lt, types.Int(), "comparison")
		c.requireExactType(n.Right, rt, types.Int(), "comparison")
		return types.Bool()
	case "in":
		elem := listElemType(rt)
		if elem == nil {
			c.errorf(n.NodeSpan(), diag.CTypeMismatch, "`in`: %s is not a list type", rt)
			return types.Bool()
		}
		c.requireSubtype(n.Left, lt, elem, "`in` left operand")
		return types.Bool()
	case "===", "<==", ">==":
		if !isLinExprish(lt) || !isLinExprish(rt) {
			c.errorf(n.NodeSpan(), diag.CBadOperands, "constraint operator %q requires Int|LinExpr operands, got %s and %s", n.Op, lt, rt)
		}
		return types.Constraint()
	case "and":
		return c.inferLogicalOp(n, lt, rt, true)
	case "or":
		return c.inferLogicalOp(n, lt, rt, false)
	case "??":
		if !lt.HasNone() {
			c.errorf(n.NodeSpan(), diag.CTypeMismatch, "`??` left operand %s is not a maybe type", lt)
		}
		bare := stripNone(lt)
		joined := types.Join(bare, rt)
		if !rt.HasNone() {
			joined = stripNone(joined)
		}
		return joined
	}
	c.errorf(n.NodeSpan(), diag.CBadOperands, "unknown operator %q", n.Op)
	return types.None()
}

func (c *Checker) inferArithOp(n *ast.BinaryExpr, lt, rt *types.Type, allowBothLinExpr bool) *types.Type {
	if !isNumeric(lt) || !isNumeric(rt) {
		c.errorf(n.NodeSpan(), diag.CBadOperands, "arithmetic %q requires Int|LinExpr operands, got %s and %s", n.Op, lt, rt)
		return types.Int()
	}
	linLeft, linRight := isExactly(lt, types.KLinExpr), isExactly(rt, types.KLinExpr)
	if !allowBothLinExpr && linLeft && linRight {
		c.errorf(n.NodeSpan(), diag.CBadOperands, "`*` between two LinExpr values is illegal")
		return types.LinExpr()
	}
	if linLeft || linRight {
		if isExactly(lt, types.KInt) {
			c.setCoercion(n.Left, types.CoerceIntToLinExpr)
		}
		if isExactly(rt, types.KInt) {
			c.setCoercion(n.Right, types.CoerceIntToLinExpr)
		}
		return types.LinExpr()
	}
	return types.Int()
}

func (c *Checker) inferCollectionOp(n *ast.BinaryExpr, lt, rt *types.Type) *types.Type {
	le, re := listElemType(lt), listElemType(rt)
	if le == nil || re == nil {
		c.errorf(n.NodeSpan(), diag.CBadOperands, "collection operator %q requires two lists, got %s and %s", n.Op, lt, rt)
		return lt
	}
	return types.ListOf(types.Join(le, re))
}

// inferLogicalOp resolves `and`/`or`'s Bool×Bool or Constraint×Constraint
// overload. `or` is restricted to the Bool overload: a Constraint is a
// conjunction of linear inequalities, and a disjunction of two
// Constraint values has no general linear-constraint encoding without
// a host-supplied big-M, which is out of this core's scope (see
// DESIGN.md's Open Question decisions).
func (c *Checker) inferLogicalOp(n *ast.BinaryExpr, lt, rt *types.Type, allowConstraint bool) *types.Type {
	if isExactly(lt, types.KBool) && isExactly(rt, types.KBool) {
		return types.Bool()
	}
	if allowConstraint && isBoolish(lt) && isBoolish(rt) {
		if isExactly(lt, types.KBool) {
			c.setCoercion(n.Left, types.CoerceBoolToConstraint)
		}
		if isExactly(rt, types.KBool) {
			c.setCoercion(n.Right, types.CoerceBoolToConstraint)
		}
		return types.Constraint()
	}
	c.errorf(n.NodeSpan(), diag.CBadOperands, "%q cannot mix Bool and Constraint operands (%s, %s)", n.Op, lt, rt)
	return types.Bool()
}

func stripNone(t *types.Type) *types.Type {
	keep := make([]types.Variant, 0, len(t.Variants))
	for _, v := range t.Variants {
		if v.Kind != types.KNone {
			keep = append(keep, v)
		}
	}
	if len(keep) == 0 {
		return types.None()
	}
	return types.Union(variantTypes(keep)...)
}

func variantTypes(vs []types.Variant) []*types.Type {
	out := make([]*types.Type, len(vs))
	for i, v := range vs {
		out[i] = &types.Type{Variants: []types.Variant{v}}
	}
	return out
}
