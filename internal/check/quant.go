package check

import (
	"colloml/internal/ast"
	"colloml/internal/diag"
	"colloml/internal/types"
)

func (c *Checker) inferSum(n *ast.SumExpr, scope *SymbolTable) *types.Type {
	elem := c.iterElemType(n.Iter, scope)
	inner := NewSymbolTable(scope)
	inner.Define(n.Var, SymQuantifierVar, elem)
	c.checkOptionalWhere(n.Where, inner)
	body := c.inferExpr(n.Body, inner)
	if !isNumeric(body) {
		c.errorf(n.Body.NodeSpan(), diag.CTypeMismatch, "`sum` body must be Int or LinExpr, found %s", body)
		return types.Int()
	}
	return body
}

func (c *Checker) inferForall(n *ast.ForallExpr, scope *SymbolTable) *types.Type {
	elem := c.iterElemType(n.Iter, scope)
	inner := NewSymbolTable(scope)
	inner.Define(n.Var, SymQuantifierVar, elem)
	c.checkOptionalWhere(n.Where, inner)
	body := c.inferExpr(n.Body, inner)
	if !isBoolish(body) {
		c.errorf(n.Body.NodeSpan(), diag.CTypeMismatch, "`forall` body must be Bool or Constraint, found %s", body)
		return types.Bool()
	}
	return body
}

func (c *Checker) inferFold(n *ast.FoldExpr, scope *SymbolTable) *types.Type {
	elem := c.iterElemType(n.Iter, scope)
	accType := c.inferExpr(n.Init, scope)
	inner := NewSymbolTable(scope)
	inner.Define(n.Var, SymQuantifierVar, elem)
	inner.Define(n.AccName, SymFoldAcc, accType)
	c.checkOptionalWhere(n.Where, inner)
	body := c.inferExpr(n.Body, inner)
	if !types.IsSubtype(body, accType) {
		kind := "fold"
		if n.Right {
			kind = "rfold"
		}
		c.errorf(n.Body.NodeSpan(), diag.CTypeMismatch, "`%s` body type %s is not a subtype of accumulator type %s", kind, body, accType)
	}
	return accType
}

func (c *Checker) inferComprehension(n *ast.Comprehension, scope *SymbolTable) *types.Type {
	inner := scope
	for _, clause := range n.Clauses {
		elem := c.iterElemType(clause.Iter, inner)
		next := NewSymbolTable(inner)
		next.Define(clause.Var, SymQuantifierVar, elem)
		inner = next
	}
	c.checkOptionalWhere(n.Where, inner)
	body := c.inferExpr(n.Body, inner)
	return types.ListOf(body)
}

func (c *Checker) iterElemType(iter ast.Expr, scope *SymbolTable) *types.Type {
	it := c.inferExpr(iter, scope)
	elem := listElemType(it)
	if elem == nil {
		c.errorf(iter.NodeSpan(), diag.CTypeMismatch, "expected a list to iterate over, found %s", it)
		return types.None()
	}
	return elem
}

func (c *Checker) checkOptionalWhere(where ast.Expr, scope *SymbolTable) {
	if where == nil {
		return
	}
	wt := c.inferExpr(where, scope)
	c.requireExactType(where, wt, types.Bool(), "`where` clause")
}
