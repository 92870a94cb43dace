package eval

import (
	"colloml/internal/ast"
	"colloml/internal/diag"
	"colloml/internal/ilp"
	"colloml/internal/types"
	"colloml/internal/value"
)

func (it *Interpreter) evalUnary(ec *execCtx, n *ast.UnaryExpr, sc *scope) (value.Value, error) {
	v, err := it.evalExpr(ec, n.Value, sc)
	if err != nil {
		return value.Value{}, err
	}
	switch n.Op {
	case "-":
		if v.Kind == value.KLinExpr {
			return value.Lin(v.Lin.Neg()), nil
		}
		neg, overflow := subOverflow(0, v.I)
		if overflow {
			return value.Value{}, overflowErr(n.NodeSpan(), "unary `-`")
		}
		return value.Int(neg), nil
	case "not":
		return value.Bool(!v.B), nil
	}
	return value.Value{}, errf(n.NodeSpan(), diag.EInternal, "unhandled unary operator %q", n.Op)
}

func (it *Interpreter) evalIf(ec *execCtx, n *ast.IfExpr, sc *scope) (value.Value, error) {
	cond, err := it.evalExpr(ec, n.Cond, sc)
	if err != nil {
		return value.Value{}, err
	}
	if cond.B {
		return it.evalExpr(ec, n.Then, sc)
	}
	return it.evalExpr(ec, n.Else, sc)
}

func (it *Interpreter) evalLet(ec *execCtx, n *ast.LetExpr, sc *scope) (value.Value, error) {
	v, err := it.evalExpr(ec, n.Value, sc)
	if err != nil {
		return value.Value{}, err
	}
	inner := newScope(sc)
	inner.define(n.Name, it.coerce(v, it.prog.CoercionOf(n.Value), n.Value.NodeSpan()))
	return it.evalExpr(ec, n.Body, inner)
}

func (it *Interpreter) evalBinary(ec *execCtx, n *ast.BinaryExpr, sc *scope) (value.Value, error) {
	lv, err := it.evalExpr(ec, n.Left, sc)
	if err != nil {
		return value.Value{}, err
	}
	rv, err := it.evalExpr(ec, n.Right, sc)
	if err != nil {
		return value.Value{}, err
	}
	lv = it.coerce(lv, it.prog.CoercionOf(n.Left), n.Left.NodeSpan())
	rv = it.coerce(rv, it.prog.CoercionOf(n.Right), n.Right.NodeSpan())

	switch n.Op {
	case "+":
		if lv.Kind == value.KList || rv.Kind == value.KList {
			return evalConcat(lv, rv), nil
		}
		return it.evalAdd(n, lv, rv)
	case "-":
		if lv.Kind == value.KList || rv.Kind == value.KList {
			return evalDiff(lv, rv), nil
		}
		return it.evalSub(n, lv, rv)
	case "*":
		return it.evalMul(n, lv, rv)
	case "//":
		if rv.I == 0 {
			return value.Value{}, divByZeroErr(n.NodeSpan())
		}
		return value.Int(floorDiv(lv.I, rv.I)), nil
	case "%":
		if rv.I == 0 {
			return value.Value{}, divByZeroErr(n.NodeSpan())
		}
		return value.Int(floorMod(lv.I, rv.I)), nil
	case "union":
		return evalUnion(lv, rv), nil
	case "inter":
		return evalInter(lv, rv), nil
	case "\\":
		return evalDiff(lv, rv), nil
	case "==":
		return value.Bool(lv.Equal(rv)), nil
	case "!=":
		return value.Bool(!lv.Equal(rv)), nil
	case "<":
		return value.Bool(lv.I < rv.I), nil
	case "<=":
		return value.Bool(lv.I <= rv.I), nil
	case ">":
		return value.Bool(lv.I > rv.I), nil
	case ">=":
		return value.Bool(lv.I >= rv.I), nil
	case "in":
		for _, e := range rv.Elems {
			if e.Equal(lv) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case "===":
		return value.Cset(singleton(ilp.Eq(asLin(lv), asLin(rv)), n)), nil
	case "<==":
		return value.Cset(singleton(ilp.Leq(asLin(lv), asLin(rv)), n)), nil
	case ">==":
		return value.Cset(singleton(ilp.Geq(asLin(lv), asLin(rv)), n)), nil
	case "and":
		return it.evalAnd(n, lv, rv), nil
	case "or":
		return value.Bool(lv.B || rv.B), nil
	case "??":
		if lv.Kind == value.KNone {
			return rv, nil
		}
		return lv, nil
	}
	return value.Value{}, errf(n.NodeSpan(), diag.EInternal, "unhandled binary operator %q", n.Op)
}

func asLin(v value.Value) *ilp.LinExpr {
	if v.Kind == value.KLinExpr {
		return v.Lin
	}
	return ilp.Constant(v.I)
}

func singleton(c ilp.Constraint, n *ast.BinaryExpr) *ilp.ConstraintSet {
	cs := ilp.NewConstraintSet()
	cs.Add(c, ilp.Origin{Span: n.NodeSpan(), Description: "constraint operator `" + n.Op + "`"})
	return cs
}

func (it *Interpreter) evalAdd(n *ast.BinaryExpr, lv, rv value.Value) (value.Value, error) {
	if lv.Kind == value.KLinExpr || rv.Kind == value.KLinExpr {
		return value.Lin(asLin(lv).Add(asLin(rv))), nil
	}
	s, overflow := addOverflow(lv.I, rv.I)
	if overflow {
		return value.Value{}, overflowErr(n.NodeSpan(), "`+`")
	}
	return value.Int(s), nil
}

func (it *Interpreter) evalSub(n *ast.BinaryExpr, lv, rv value.Value) (value.Value, error) {
	if lv.Kind == value.KLinExpr || rv.Kind == value.KLinExpr {
		return value.Lin(asLin(lv).Sub(asLin(rv))), nil
	}
	s, overflow := subOverflow(lv.I, rv.I)
	if overflow {
		return value.Value{}, overflowErr(n.NodeSpan(), "`-`")
	}
	return value.Int(s), nil
}

func (it *Interpreter) evalMul(n *ast.BinaryExpr, lv, rv value.Value) (value.Value, error) {
	if lv.Kind == value.KLinExpr || rv.Kind == value.KLinExpr {
		result, ok := ilp.Mul(asLin(lv), asLin(rv))
		if !ok {
			return value.Value{}, nonlinearMulErr(n.NodeSpan())
		}
		return value.Lin(result), nil
	}
	p, overflow := mulOverflow(lv.I, rv.I)
	if overflow {
		return value.Value{}, overflowErr(n.NodeSpan(), "`*`")
	}
	return value.Int(p), nil
}

func (it *Interpreter) evalAnd(n *ast.BinaryExpr, lv, rv value.Value) value.Value {
	if lv.Kind == value.KBool && rv.Kind == value.KBool {
		return value.Bool(lv.B && rv.B)
	}
	cs := ilp.NewConstraintSet()
	cs.Union(lv.Cset)
	cs.Union(rv.Cset)
	return value.Cset(cs)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}

func evalUnion(lv, rv value.Value) value.Value {
	return value.List(lv.ElemTag, append(append([]value.Value{}, lv.Elems...), rv.Elems...))
}

func evalInter(lv, rv value.Value) value.Value {
	var out []value.Value
	for _, e := range lv.Elems {
		for _, r := range rv.Elems {
			if e.Equal(r) {
				out = append(out, e)
				break
			}
		}
	}
	return value.List(lv.ElemTag, out)
}

func evalDiff(lv, rv value.Value) value.Value {
	var out []value.Value
	for _, e := range lv.Elems {
		found := false
		for _, r := range rv.Elems {
			if e.Equal(r) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, e)
		}
	}
	return value.List(lv.ElemTag, out)
}

func evalConcat(lv, rv value.Value) value.Value {
	tag := lv.ElemTag
	if tag == "" {
		tag = rv.ElemTag
	}
	return value.List(tag, append(append([]value.Value{}, lv.Elems...), rv.Elems...))
}

func (it *Interpreter) evalMatch(ec *execCtx, n *ast.MatchExpr, sc *scope) (value.Value, error) {
	scrutinee, err := it.evalExpr(ec, n.Scrutinee, sc)
	if err != nil {
		return value.Value{}, err
	}
	for i := range n.Arms {
		arm := &n.Arms[i]
		var armType *types.Type
		switch pat := arm.Pattern.(type) {
		case *ast.TypedPattern:
			armType = it.prog.TypeOf(pat)
			if !runtimeMatches(scrutinee, armType) {
				continue
			}
		case *ast.ListCatchAllPattern:
			if scrutinee.Kind != value.KList {
				continue
			}
		case *ast.CatchAllPattern:
			// matches unconditionally
		}
		armScope := newScope(sc)
		armScope.define(arm.Pattern.BindingName(), scrutinee)
		if guard := arm.Pattern.Guard(); guard != nil {
			gv, err := it.evalExpr(ec, guard, armScope)
			if err != nil {
				return value.Value{}, err
			}
			if !gv.B {
				continue
			}
		}
		return it.evalExpr(ec, arm.Body, armScope)
	}
	return value.Value{}, noMatchErr(n.NodeSpan())
}

func (it *Interpreter) evalSum(ec *execCtx, n *ast.SumExpr, sc *scope) (value.Value, error) {
	iter, err := it.evalExpr(ec, n.Iter, sc)
	if err != nil {
		return value.Value{}, err
	}
	resultIsLin := isExactlyLinExprType(it.prog.TypeOf(n))
	accLin := ilp.Zero()
	var accInt int64
	for _, elem := range iter.Elems {
		inner := newScope(sc)
		inner.define(n.Var, elem)
		if n.Where != nil {
			wv, err := it.evalExpr(ec, n.Where, inner)
			if err != nil {
				return value.Value{}, err
			}
			if !wv.B {
				continue
			}
		}
		bv, err := it.evalExpr(ec, n.Body, inner)
		if err != nil {
			return value.Value{}, err
		}
		if resultIsLin {
			accLin = accLin.Add(asLin(bv))
			continue
		}
		s, overflow := addOverflow(accInt, bv.I)
		if overflow {
			return value.Value{}, overflowErr(n.NodeSpan(), "`sum`")
		}
		accInt = s
	}
	if resultIsLin {
		return value.Lin(accLin), nil
	}
	return value.Int(accInt), nil
}

func isExactlyLinExprType(t *types.Type) bool {
	return t != nil && len(t.Variants) == 1 && t.Variants[0].Kind == types.KLinExpr
}

func isExactlyConstraintType(t *types.Type) bool {
	return t != nil && len(t.Variants) == 1 && t.Variants[0].Kind == types.KConstraint
}

func (it *Interpreter) evalForall(ec *execCtx, n *ast.ForallExpr, sc *scope) (value.Value, error) {
	iter, err := it.evalExpr(ec, n.Iter, sc)
	if err != nil {
		return value.Value{}, err
	}
	resultIsConstraint := isExactlyConstraintType(it.prog.TypeOf(n))
	cs := ilp.NewConstraintSet()
	for _, elem := range iter.Elems {
		inner := newScope(sc)
		inner.define(n.Var, elem)
		if n.Where != nil {
			wv, err := it.evalExpr(ec, n.Where, inner)
			if err != nil {
				return value.Value{}, err
			}
			if !wv.B {
				continue
			}
		}
		bv, err := it.evalExpr(ec, n.Body, inner)
		if err != nil {
			return value.Value{}, err
		}
		if resultIsConstraint {
			cs.Union(bv.Cset)
			continue
		}
		if !bv.B {
			return value.Bool(false), nil
		}
	}
	if resultIsConstraint {
		return value.Cset(cs), nil
	}
	return value.Bool(true), nil
}

func (it *Interpreter) evalFold(ec *execCtx, n *ast.FoldExpr, sc *scope) (value.Value, error) {
	iter, err := it.evalExpr(ec, n.Iter, sc)
	if err != nil {
		return value.Value{}, err
	}
	acc, err := it.evalExpr(ec, n.Init, sc)
	if err != nil {
		return value.Value{}, err
	}
	elems := iter.Elems
	indices := make([]int, len(elems))
	for i := range indices {
		if n.Right {
			indices[i] = len(elems) - 1 - i
		} else {
			indices[i] = i
		}
	}
	for _, idx := range indices {
		inner := newScope(sc)
		inner.define(n.Var, elems[idx])
		inner.define(n.AccName, acc)
		if n.Where != nil {
			wv, err := it.evalExpr(ec, n.Where, inner)
			if err != nil {
				return value.Value{}, err
			}
			if !wv.B {
				continue
			}
		}
		acc, err = it.evalExpr(ec, n.Body, inner)
		if err != nil {
			return value.Value{}, err
		}
	}
	return acc, nil
}

func (it *Interpreter) evalComprehension(ec *execCtx, n *ast.Comprehension, sc *scope) (value.Value, error) {
	var elemTag string
	if t := it.prog.TypeOf(n); t != nil && isListType(t) {
		elemTag = t.Variants[0].Elem.String()
	}
	var out []value.Value
	var walk func(i int, cur *scope) error
	walk = func(i int, cur *scope) error {
		if i == len(n.Clauses) {
			if n.Where != nil {
				wv, err := it.evalExpr(ec, n.Where, cur)
				if err != nil {
					return err
				}
				if !wv.B {
					return nil
				}
			}
			bv, err := it.evalExpr(ec, n.Body, cur)
			if err != nil {
				return err
			}
			out = append(out, bv)
			return nil
		}
		clause := n.Clauses[i]
		iter, err := it.evalExpr(ec, clause.Iter, cur)
		if err != nil {
			return err
		}
		for _, elem := range iter.Elems {
			inner := newScope(cur)
			inner.define(clause.Var, elem)
			if err := walk(i+1, inner); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(0, sc); err != nil {
		return value.Value{}, err
	}
	return value.List(elemTag, out), nil
}
