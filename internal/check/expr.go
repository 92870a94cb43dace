package check

import (
	"colloml/internal/ast"
	"colloml/internal/diag"
	"colloml/internal/hostenv"
	"colloml/internal/types"
)

// inferExpr type-checks expr in scope, records its result type (and any
// inserted coercion) on the node, and returns the result type. On a
// fatal mismatch it reports a diagnostic and returns a best-effort type
// so that checking of the remainder of the program can continue
// (spec.md §7: "the checker aggregates and returns all diagnostics").
func (c *Checker) inferExpr(e ast.Expr, scope *SymbolTable) *types.Type {
	var t *types.Type
	switch n := e.(type) {
	case *ast.IntLit:
		t = types.Int()
	case *ast.BoolLit:
		t = types.Bool()
	case *ast.StringLit:
		t = types.Str()
	case *ast.Ident:
		t = c.inferIdent(n, scope)
	case *ast.ListLit:
		t = c.inferListLit(n, scope)
	case *ast.EmptyTypedList:
		t = types.ListOf(c.resolveTypeExpr(n.Elem))
	case *ast.ListRange:
		t = c.inferListRange(n, scope)
	case *ast.TupleLit:
		t = c.inferTupleLit(n, scope)
	case *ast.FieldAccessExpr:
		t = c.inferFieldAccess(n, scope)
	case *ast.CallExpr:
		t = c.inferCall(n, scope)
	case *ast.VarCallExpr:
		t = c.inferVarCall(n, scope)
	case *ast.ListVarCallExpr:
		t = c.inferListVarCall(n, scope)
	case *ast.CardinalityExpr:
		t = c.inferCardinality(n, scope)
	case *ast.IndexExpr:
		t = c.inferIndex(n, scope)
	case *ast.AsExpr:
		t = c.inferAs(n, scope)
	case *ast.IntoExpr:
		t = c.inferInto(n, scope)
	case *ast.CastExpr:
		t = c.inferCast(n, scope)
	case *ast.TypeConvertExpr:
		t = c.inferTypeConvert(n, scope)
	case *ast.UnaryExpr:
		t = c.inferUnary(n, scope)
	case *ast.BinaryExpr:
		t = c.inferBinary(n, scope)
	case *ast.IfExpr:
		t = c.inferIf(n, scope)
	case *ast.LetExpr:
		t = c.inferLet(n, scope)
	case *ast.MatchExpr:
		t = c.inferMatch(n, scope)
	case *ast.SumExpr:
		t = c.inferSum(n, scope)
	case *ast.ForallExpr:
		t = c.inferForall(n, scope)
	case *ast.FoldExpr:
		t = c.inferFold(n, scope)
	case *ast.Comprehension:
		t = c.inferComprehension(n, scope)
	default:
		t = types.None()
	}
	if t == nil {
		t = types.None()
	}
	c.setType(e, t)
	return t
}

func (c *Checker) inferIdent(n *ast.Ident, scope *SymbolTable) *types.Type {
	if sym := scope.Lookup(n.Name); sym != nil {
		return sym.Type
	}
	c.errorf(n.NodeSpan(), diag.CUndefinedVariable, "undefined name %q", n.Name)
	return types.None()
}

func (c *Checker) inferListLit(n *ast.ListLit, scope *SymbolTable) *types.Type {
	if len(n.Elems) == 0 {
		c.errorf(n.NodeSpan(), diag.CTypeMismatch, "cannot infer element type of empty list literal; use [<T>]")
		return types.ListOf(types.None())
	}
	elem := c.inferExpr(n.Elems[0], scope)
	for _, e := range n.Elems[1:] {
		elem = types.Join(elem, c.inferExpr(e, scope))
	}
	return types.ListOf(elem)
}

func (c *Checker) inferListRange(n *ast.ListRange, scope *SymbolTable) *types.Type {
	c.requireExact(n.Lo, scope, types.Int(), "list range bound")
	c.requireExact(n.Hi, scope, types.Int(), "list range bound")
	return types.ListOf(types.Int())
}

func (c *Checker) inferTupleLit(n *ast.TupleLit, scope *SymbolTable) *types.Type {
	elems := make([]*types.Type, len(n.Elems))
	for i, e := range n.Elems {
		elems[i] = c.inferExpr(e, scope)
	}
	return types.TupleOf(elems...)
}

func (c *Checker) inferFieldAccess(n *ast.FieldAccessExpr, scope *SymbolTable) *types.Type {
	target := c.inferExpr(n.Target, scope)
	if len(target.Variants) != 1 || target.Variants[0].Kind != types.KObject {
		c.errorf(n.NodeSpan(), diag.CTypeMismatch, "field access on non-object type %s", target)
		return types.None()
	}
	objName := target.Variants[0].Object
	schema, ok := c.schema.LookupObject(objName)
	if !ok {
		c.errorf(n.NodeSpan(), diag.CUndefinedObject, "undefined object type %q", objName)
		return types.None()
	}
	ft, ok := schema.Fields[n.Field]
	if !ok {
		c.errorf(n.NodeSpan(), diag.CFieldNotFound, "object %q has no field %q", objName, n.Field)
		return types.None()
	}
	return ft
}

var simpleTypeNames = map[string]bool{
	"Int": true, "Bool": true, "String": true, "LinExpr": true, "Constraint": true, "None": true,
}

func (c *Checker) inferCall(n *ast.CallExpr, scope *SymbolTable) *types.Type {
	if simpleTypeNames[n.Name] || c.isObjectTypeName(n.Name) {
		return c.inferConversionCall(n, scope)
	}
	sig, ok := c.funcs[c.curModule][n.Name]
	if !ok {
		c.errorf(n.NodeSpan(), diag.CUndefinedFunction, "undefined function %q", n.Name)
		for _, a := range n.Args {
			c.inferExpr(a, scope)
		}
		return types.None()
	}
	if len(n.Args) != len(sig.Params) {
		c.errorf(n.NodeSpan(), diag.CArityMismatch, "%q expects %d argument(s), got %d", n.Name, len(sig.Params), len(n.Args))
	}
	for i, a := range n.Args {
		at := c.inferExpr(a, scope)
		if i < len(sig.Params) {
			c.requireSubtype(a, at, sig.Params[i].Type, "argument "+sig.Params[i].Name)
		}
	}
	return sig.Return
}

func (c *Checker) isObjectTypeName(name string) bool {
	_, ok := c.schema.LookupObject(name)
	return ok
}

func (c *Checker) inferConversionCall(n *ast.CallExpr, scope *SymbolTable) *types.Type {
	if len(n.Args) != 1 {
		c.errorf(n.NodeSpan(), diag.CArityMismatch, "constructor-style conversion %s(...) takes exactly 1 argument", n.Name)
		for _, a := range n.Args {
			c.inferExpr(a, scope)
		}
		return types.None()
	}
	at := c.inferExpr(n.Args[0], scope)
	target := c.typeNameToType(n.Name)
	if !types.CanConvertInto(at, target) {
		c.errorf(n.NodeSpan(), diag.CBadConversion, "%s cannot be converted into %s", at, target)
	} else {
		c.recordConversionCoercion(n, at, target)
	}
	return target
}

func (c *Checker) typeNameToType(name string) *types.Type {
	switch name {
	case "Int":
		return types.Int()
	case "Bool":
		return types.Bool()
	case "String":
		return types.Str()
	case "LinExpr":
		return types.LinExpr()
	case "Constraint":
		return types.Constraint()
	case "None":
		return types.None()
	default:
		return types.ObjectOf(name)
	}
}

func (c *Checker) recordConversionCoercion(n ast.Node, from, to *types.Type) {
	if len(from.Variants) == 1 && len(to.Variants) == 1 {
		switch {
		case from.Variants[0].Kind == types.KInt && to.Variants[0].Kind == types.KLinExpr:
			c.setCoercion(n, types.CoerceIntToLinExpr)
		case from.Variants[0].Kind == types.KBool && to.Variants[0].Kind == types.KConstraint:
			c.setCoercion(n, types.CoerceBoolToConstraint)
		}
	}
}

func (c *Checker) inferTypeConvert(n *ast.TypeConvertExpr, scope *SymbolTable) *types.Type {
	at := c.inferExpr(n.Value, scope)
	target := c.resolveTypeExpr(n.Type)
	if !types.CanConvertInto(at, target) {
		c.errorf(n.NodeSpan(), diag.CBadConversion, "%s cannot be converted into %s", at, target)
	} else {
		c.recordConversionCoercion(n, at, target)
	}
	return target
}

func (c *Checker) inferVarCall(n *ast.VarCallExpr, scope *SymbolTable) *types.Type {
	if info, ok := c.reifies[c.curModule][n.Name]; ok {
		if info.List {
			c.errorf(n.NodeSpan(), diag.CUndefinedVariable, "%q is a list reification; use $[%s](...)", n.Name, n.Name)
		}
		c.checkReifyArgs(n.NodeSpan(), info, n.Args, scope)
		return types.LinExpr()
	}
	if base, ok := c.schema.LookupBaseVar(n.Name); ok {
		c.checkBaseVarArgs(n.NodeSpan(), base, n.Args, scope)
		return types.LinExpr()
	}
	c.errorf(n.NodeSpan(), diag.CUndefinedVariable, "undefined base variable or reification $%s", n.Name)
	for _, a := range n.Args {
		c.inferExpr(a, scope)
	}
	return types.LinExpr()
}

func (c *Checker) checkBaseVarArgs(span ast.Span, base hostenv.BaseVarSchema, args []ast.Expr, scope *SymbolTable) {
	if len(args) != len(base.Params) {
		c.errorf(span, diag.CArityMismatch, "$%s expects %d argument(s), got %d", base.Name, len(base.Params), len(args))
	}
	for i, a := range args {
		at := c.inferExpr(a, scope)
		if i < len(base.Params) {
			c.requireSubtype(a, at, base.Params[i], "base variable argument")
		}
	}
}

func (c *Checker) inferListVarCall(n *ast.ListVarCallExpr, scope *SymbolTable) *types.Type {
	info, ok := c.reifies[c.curModule][n.Name]
	if !ok || !info.List {
		c.errorf(n.NodeSpan(), diag.CUndefinedVariable, "undefined list reification $[%s]", n.Name)
		for _, a := range n.Args {
			c.inferExpr(a, scope)
		}
		return types.ListOf(types.LinExpr())
	}
	c.checkReifyArgs(n.NodeSpan(), info, n.Args, scope)
	return types.ListOf(types.LinExpr())
}

func (c *Checker) checkReifyArgs(span ast.Span, info *ReifyInfo, args []ast.Expr, scope *SymbolTable) {
	if len(args) != len(info.Params) {
		c.errorf(span, diag.CArityMismatch, "$%s expects %d argument(s), got %d", info.VarName, len(info.Params), len(args))
	}
	for i, a := range args {
		at := c.inferExpr(a, scope)
		if i < len(info.Params) {
			c.requireSubtype(a, at, info.Params[i].Type, "reification argument "+info.Params[i].Name)
		}
	}
}

func (c *Checker) inferCardinality(n *ast.CardinalityExpr, scope *SymbolTable) *types.Type {
	vt := c.inferExpr(n.Value, scope)
	if !isListType(vt) {
		c.errorf(n.NodeSpan(), diag.CTypeMismatch, "|e|: %s is not a list type", vt)
	}
	return types.Int()
}

func (c *Checker) inferIndex(n *ast.IndexExpr, scope *SymbolTable) *types.Type {
	target := c.inferExpr(n.Target, scope)
	idx := c.inferExpr(n.Index, scope)
	c.requireExactType(n.Index, idx, types.Int(), "list index")
	elem := listElemType(target)
	if elem == nil {
		c.errorf(n.NodeSpan(), diag.CTypeMismatch, "indexing on non-list type %s", target)
		return types.None()
	}
	if n.Checked {
		return elem
	}
	return types.Maybe(elem)
}

func (c *Checker) inferAs(n *ast.AsExpr, scope *SymbolTable) *types.Type {
	vt := c.inferExpr(n.Value, scope)
	target := c.resolveTypeExpr(n.Type)
	c.requireSubtype(n.Value, vt, target, "`as` coercion")
	return target
}

func (c *Checker) inferInto(n *ast.IntoExpr, scope *SymbolTable) *types.Type {
	vt := c.inferExpr(n.Value, scope)
	target := c.resolveTypeExpr(n.Type)
	if !types.CanConvertInto(vt, target) {
		c.errorf(n.NodeSpan(), diag.CBadConversion, "%s cannot be converted `into` %s", vt, target)
	} else {
		c.recordConversionCoercion(n, vt, target)
	}
	return target
}

func (c *Checker) inferCast(n *ast.CastExpr, scope *SymbolTable) *types.Type {
	vt := c.inferExpr(n.Value, scope)
	target := c.resolveTypeExpr(n.Type)
	if !types.IsSubtype(target, vt) {
		c.errorf(n.NodeSpan(), diag.CTypeMismatch, "cast target %s is not narrower than %s", target, vt)
	}
	if n.Checked {
		return target
	}
	return types.Maybe(target)
}

func (c *Checker) inferUnary(n *ast.UnaryExpr, scope *SymbolTable) *types.Type {
	vt := c.inferExpr(n.Value, scope)
	switch n.Op {
	case "-":
		if !isNumeric(vt) {
			c.errorf(n.NodeSpan(), diag.CBadOperands, "unary `-` requires Int or LinExpr, got %s", vt)
			return types.Int()
		}
		return vt
	case "not":
		c.requireExactType(n.Value, vt, types.Bool(), "`not`")
		return types.Bool()
	}
	return types.None()
}

func isListType(t *types.Type) bool {
	return len(t.Variants) == 1 && t.Variants[0].Kind == types.KList
}

func listElemType(t *types.Type) *types.Type {
	if !isListType(t) {
		return nil
	}
	return t.Variants[0].Elem
}

func isExactly(t *types.Type, k types.Kind) bool {
	return len(t.Variants) == 1 && t.Variants[0].Kind == k
}

func isNumeric(t *types.Type) bool {
	return isExactly(t, types.KInt) || isExactly(t, types.KLinExpr)
}

func isLinExprish(t *types.Type) bool {
	return isExactly(t, types.KInt) || isExactly(t, types.KLinExpr)
}

func isBoolish(t *types.Type) bool {
	return isExactly(t, types.KBool) || isExactly(t, types.KConstraint)
}

// requireSubtype reports an error unless have ≤ want, and records a
// widening coercion on n when one applies.
func (c *Checker) requireSubtype(n ast.Node, have, want *types.Type, ctx string) {
	if !types.IsSubtype(have, want) {
		c.errorf(n.NodeSpan(), diag.CNotSubtype, "%s: expected %s, found %s", ctx, want, have)
		return
	}
	c.recordConversionCoercion(n, have, want)
}

// requireExact reports an error unless expr's type is exactly want.
func (c *Checker) requireExact(e ast.Expr, scope *SymbolTable, want *types.Type, ctx string) *types.Type {
	at := c.inferExpr(e, scope)
	c.requireExactType(e, at, want, ctx)
	return at
}

func (c *Checker) requireExactType(n ast.Node, have, want *types.Type, ctx string) {
	if !have.Equal(want) {
		c.errorf(n.NodeSpan(), diag.CTypeMismatch, "%s: expected %s, found %s", ctx, want, have)
	}
}
