package eval

import (
	"colloml/internal/ast"
	"colloml/internal/diag"
	"colloml/internal/ilp"
	"colloml/internal/types"
	"colloml/internal/value"
)

var simpleTypeNames = map[string]bool{
	"Int": true, "Bool": true, "String": true, "LinExpr": true, "Constraint": true, "None": true,
}

func (it *Interpreter) isTypeConversionName(name string) bool {
	if simpleTypeNames[name] {
		return true
	}
	if it.prog.Schema == nil {
		return false
	}
	_, ok := it.prog.Schema.LookupObject(name)
	return ok
}

func (it *Interpreter) evalCall(ec *execCtx, n *ast.CallExpr, sc *scope) (value.Value, error) {
	if it.isTypeConversionName(n.Name) {
		v, err := it.evalExpr(ec, n.Args[0], sc)
		if err != nil {
			return value.Value{}, err
		}
		return it.coerce(v, it.prog.CoercionOf(n), n.NodeSpan()), nil
	}

	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := it.evalExpr(ec, a, sc)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = it.coerce(v, it.prog.CoercionOf(a), a.NodeSpan())
	}
	return it.evalCallNamed(ec, ec.curModule, n.Name, args, n.NodeSpan())
}

func (it *Interpreter) evalVarCall(ec *execCtx, n *ast.VarCallExpr, sc *scope) (value.Value, error) {
	args, err := it.evalArgs(ec, n.Args, sc)
	if err != nil {
		return value.Value{}, err
	}
	argKey := value.CanonicalKey(args...)

	info, isReify := it.prog.Reifies[ec.curModule][n.Name]
	if !isReify {
		return value.Lin(ilp.FromVar(ilp.NewBaseVar(n.Name, argKey, argKey))), nil
	}

	if v, ok := ec.cache.LookupScalar(ec.curModule, n.Name, argKey); ok {
		return value.Lin(ilp.FromVar(v)), nil
	}
	bodyVal, err := it.evalCallNamed(ec, ec.curModule, info.FuncName, args, n.NodeSpan())
	if err != nil {
		return value.Value{}, err
	}
	fresh := ilp.NewScriptVar(ec.curModule, n.Name, -1, argKey, "")
	ec.cache.StoreScalar(ec.curModule, n.Name, argKey, fresh)
	for _, c := range bodyVal.Cset.List() {
		ec.cs.Add(c, ilp.Origin{Span: n.NodeSpan(), Description: "reify " + info.FuncName + " as $" + n.Name})
	}
	return value.Lin(ilp.FromVar(fresh)), nil
}

func (it *Interpreter) evalListVarCall(ec *execCtx, n *ast.ListVarCallExpr, sc *scope) (value.Value, error) {
	info := it.prog.Reifies[ec.curModule][n.Name]
	args, err := it.evalArgs(ec, n.Args, sc)
	if err != nil {
		return value.Value{}, err
	}
	argKey := value.CanonicalKey(args...)
	if vs, ok := ec.cache.LookupList(ec.curModule, n.Name, argKey); ok {
		elems := make([]value.Value, len(vs))
		for i, v := range vs {
			elems[i] = value.Lin(ilp.FromVar(v))
		}
		return value.List("LinExpr", elems), nil
	}
	bodyVal, err := it.evalCallNamed(ec, ec.curModule, info.FuncName, args, n.NodeSpan())
	if err != nil {
		return value.Value{}, err
	}
	constraints := bodyVal.Elems
	fresh := make([]ilp.Var, len(constraints))
	elems := make([]value.Value, len(constraints))
	for i := range constraints {
		fresh[i] = ilp.NewScriptVar(ec.curModule, n.Name, i, argKey, "")
		elems[i] = value.Lin(ilp.FromVar(fresh[i]))
		c := constraints[i].Cset.List()
		for _, cc := range c {
			ec.cs.Add(cc, ilp.Origin{Span: n.NodeSpan(), Description: "reify " + info.FuncName + " as $[" + n.Name + "]"})
		}
	}
	ec.cache.StoreList(ec.curModule, n.Name, argKey, fresh)
	return value.List("LinExpr", elems), nil
}

func (it *Interpreter) evalArgs(ec *execCtx, exprs []ast.Expr, sc *scope) ([]value.Value, error) {
	out := make([]value.Value, len(exprs))
	for i, a := range exprs {
		v, err := it.evalExpr(ec, a, sc)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (it *Interpreter) evalCallNamed(ec *execCtx, module, fn string, args []value.Value, span ast.Span) (value.Value, error) {
	sig, ok := it.prog.Funcs[module][fn]
	if !ok {
		return value.Value{}, errf(span, diag.EInternal, "undefined function %s", fn)
	}
	if err := ec.enter(span); err != nil {
		return value.Value{}, err
	}
	defer ec.leave()
	callScope := newScope(nil)
	for i, p := range sig.Params {
		if i < len(args) {
			callScope.define(p.Name, it.coerce(args[i], types.NoCoercion, span))
		}
	}
	return it.evalExpr(ec, sig.Decl.Body, callScope)
}

func (it *Interpreter) evalIndex(ec *execCtx, n *ast.IndexExpr, sc *scope) (value.Value, error) {
	target, err := it.evalExpr(ec, n.Target, sc)
	if err != nil {
		return value.Value{}, err
	}
	idx, err := it.evalExpr(ec, n.Index, sc)
	if err != nil {
		return value.Value{}, err
	}
	i := idx.I
	if i < 0 || i >= int64(len(target.Elems)) {
		if n.Checked {
			return value.Value{}, indexOOBErr(n.NodeSpan(), int(i), len(target.Elems))
		}
		return value.None(), nil
	}
	return target.Elems[i], nil
}

func (it *Interpreter) evalInto(ec *execCtx, n *ast.IntoExpr, sc *scope) (value.Value, error) {
	v, err := it.evalExpr(ec, n.Value, sc)
	if err != nil {
		return value.Value{}, err
	}
	target := it.prog.TypeOf(n)
	if isListType(target) && v.Kind == value.KList && len(v.Elems) == 0 {
		return value.List(target.Variants[0].Elem.String(), nil), nil
	}
	return it.coerce(v, it.prog.CoercionOf(n), n.NodeSpan()), nil
}

func (it *Interpreter) evalCast(ec *execCtx, n *ast.CastExpr, sc *scope) (value.Value, error) {
	v, err := it.evalExpr(ec, n.Value, sc)
	if err != nil {
		return value.Value{}, err
	}
	target := it.prog.TypeOf(n)
	if !n.Checked {
		target = demaybe(target)
	}
	if runtimeMatches(v, target) {
		return v, nil
	}
	if n.Checked {
		return value.Value{}, castFailedErr(n.NodeSpan(), target.String())
	}
	return value.None(), nil
}

func demaybe(t *types.Type) *types.Type {
	keep := make([]types.Variant, 0, len(t.Variants))
	for _, v := range t.Variants {
		if v.Kind != types.KNone {
			keep = append(keep, v)
		}
	}
	return &types.Type{Variants: keep}
}

// runtimeMatches reports whether v's runtime shape satisfies the
// (possibly union) type t — the dynamic analogue of IsSubtype used for
// `cast?`/`cast!` and `match` arm dispatch.
func runtimeMatches(v value.Value, t *types.Type) bool {
	for _, variant := range t.Variants {
		if runtimeMatchesVariant(v, variant) {
			return true
		}
	}
	return false
}

func runtimeMatchesVariant(v value.Value, variant types.Variant) bool {
	switch variant.Kind {
	case types.KInt:
		return v.Kind == value.KInt
	case types.KBool:
		return v.Kind == value.KBool
	case types.KString:
		return v.Kind == value.KString
	case types.KLinExpr:
		return v.Kind == value.KLinExpr
	case types.KConstraint:
		return v.Kind == value.KConstraintSet
	case types.KNone:
		return v.Kind == value.KNone
	case types.KList:
		if v.Kind != value.KList {
			return false
		}
		for _, e := range v.Elems {
			if !runtimeMatches(e, variant.Elem) {
				return false
			}
		}
		return true
	case types.KTuple:
		if v.Kind != value.KTuple || len(v.Elems) != len(variant.Elems) {
			return false
		}
		for i, e := range v.Elems {
			if !runtimeMatches(e, variant.Elems[i]) {
				return false
			}
		}
		return true
	case types.KObject:
		return v.Kind == value.KObject && v.Obj.TypeName() == variant.Object
	}
	return false
}
