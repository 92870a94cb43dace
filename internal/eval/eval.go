// Package eval implements ColloML's structural-recursion evaluator: it
// reduces a checked function body to a dynamic value plus the
// constraint set accumulated from reifications triggered along the
// way (spec.md §4.4-§4.6). Grounded on kanso-lang-kanso's general
// dispatch/scope-chain style (internal/semantic/analyzer.go's
// switch-on-node-type traversal), adapted from static analysis to
// value-producing reduction; see DESIGN.md.
package eval

import (
	"context"
	"math"

	"colloml/internal/ast"
	"colloml/internal/check"
	"colloml/internal/diag"
	"colloml/internal/hostenv"
	"colloml/internal/ilp"
	"colloml/internal/reify"
	"colloml/internal/types"
	"colloml/internal/value"
)

// Options tunes evaluation resource limits.
type Options struct {
	// MaxDepth bounds function-call recursion (spec.md §4.4.2, default
	// 256).
	MaxDepth int
}

// DefaultOptions returns the spec-mandated defaults.
func DefaultOptions() Options { return Options{MaxDepth: 256} }

// Interpreter evaluates functions from one CheckedProgram. It carries
// no mutable state itself; each Eval/QuickEval call builds a fresh
// per-call execution context, so one Interpreter may safely back
// concurrent evaluations of the same CheckedProgram (spec.md §5).
type Interpreter struct {
	prog *check.CheckedProgram
	opts Options
}

// New builds an Interpreter over a successfully checked program.
func New(prog *check.CheckedProgram, opts Options) *Interpreter {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultOptions().MaxDepth
	}
	return &Interpreter{prog: prog, opts: opts}
}

// execCtx is the per-Eval-call mutable state: recursion depth, the
// reification cache, the accumulated constraint set, and the borrowed
// host environment.
type execCtx struct {
	ctx       context.Context
	env       hostenv.Env
	cache     *reify.Cache
	cs        *ilp.ConstraintSet
	depth     int
	max       int
	curModule string
}

// Eval runs a `pub` (or non-`pub`) function to completion against a
// host object environment, returning its value plus the union of
// constraints emitted by reifications triggered during the run
// (spec.md §4.6: "Constraint collection model"). On error, the
// returned constraint set is always nil — partial reification effects
// are discarded (spec.md §7).
func (it *Interpreter) Eval(ctx context.Context, env hostenv.Env, module, fn string, args []value.Value) (value.Value, *ilp.ConstraintSet, error) {
	sig, ok := it.prog.Funcs[module][fn]
	if !ok {
		return value.Value{}, nil, &Error{Code: diag.EInternal, Message: "undefined function " + module + "::" + fn}
	}
	ec := &execCtx{ctx: ctx, env: env, cache: reify.New(), cs: ilp.NewConstraintSet(), max: it.opts.MaxDepth, curModule: module}
	sc := newScope(nil)
	for i, p := range sig.Params {
		if i < len(args) {
			sc.define(p.Name, args[i])
		}
	}
	v, err := it.evalExpr(ec, sig.Decl.Body, sc)
	if err != nil {
		return value.Value{}, nil, err
	}
	return v, ec.cs, nil
}

// QuickEval runs a function with no object environment, discarding any
// emitted constraints (spec.md §6.1: "convenience when no object
// environment is needed").
func (it *Interpreter) QuickEval(ctx context.Context, module, fn string, args []value.Value) (value.Value, error) {
	v, _, err := it.Eval(ctx, nil, module, fn, args)
	return v, err
}

func (ec *execCtx) checkBudget(span ast.Span) error {
	if ec.ctx != nil {
		select {
		case <-ec.ctx.Done():
			return errf(span, diag.ECanceled, "evaluation canceled")
		default:
		}
	}
	return nil
}

func (ec *execCtx) enter(span ast.Span) error {
	ec.depth++
	if ec.depth > ec.max {
		return stackOverflowErr(span, ec.max)
	}
	return ec.checkBudget(span)
}

func (ec *execCtx) leave() { ec.depth-- }

func (it *Interpreter) coerce(v value.Value, k types.CoercionKind, span ast.Span) value.Value {
	switch k {
	case types.CoerceIntToLinExpr:
		return value.Lin(ilp.Constant(v.I))
	case types.CoerceBoolToConstraint:
		if v.B {
			return value.Cset(ilp.NewConstraintSet())
		}
		cs := ilp.NewConstraintSet()
		cs.Add(ilp.Eq(ilp.Constant(1), ilp.Constant(0)), ilp.Origin{Span: span, Description: "literal `false` coerced to Constraint"})
		return value.Cset(cs)
	default:
		return v
	}
}

func (it *Interpreter) evalExpr(ec *execCtx, e ast.Expr, sc *scope) (value.Value, error) {
	switch n := e.(type) {
	case *ast.IntLit:
		return value.Int(n.Value), nil
	case *ast.BoolLit:
		return value.Bool(n.Value), nil
	case *ast.StringLit:
		return value.Str(n.Value), nil
	case *ast.Ident:
		v, _ := sc.lookup(n.Name)
		return v, nil
	case *ast.ListLit:
		return it.evalListLit(ec, n, sc)
	case *ast.EmptyTypedList:
		return value.List(n.Elem.String(), nil), nil
	case *ast.ListRange:
		return it.evalListRange(ec, n, sc)
	case *ast.TupleLit:
		return it.evalTupleLit(ec, n, sc)
	case *ast.FieldAccessExpr:
		return it.evalFieldAccess(ec, n, sc)
	case *ast.CallExpr:
		return it.evalCall(ec, n, sc)
	case *ast.VarCallExpr:
		return it.evalVarCall(ec, n, sc)
	case *ast.ListVarCallExpr:
		return it.evalListVarCall(ec, n, sc)
	case *ast.CardinalityExpr:
		v, err := it.evalExpr(ec, n.Value, sc)
		if err != nil {
			return value.Value{}, err
		}
		return value.Int(int64(len(v.Elems))), nil
	case *ast.IndexExpr:
		return it.evalIndex(ec, n, sc)
	case *ast.AsExpr:
		v, err := it.evalExpr(ec, n.Value, sc)
		if err != nil {
			return value.Value{}, err
		}
		return it.coerce(v, it.prog.CoercionOf(n), n.NodeSpan()), nil
	case *ast.IntoExpr:
		return it.evalInto(ec, n, sc)
	case *ast.CastExpr:
		return it.evalCast(ec, n, sc)
	case *ast.TypeConvertExpr:
		v, err := it.evalExpr(ec, n.Value, sc)
		if err != nil {
			return value.Value{}, err
		}
		return it.coerce(v, it.prog.CoercionOf(n), n.NodeSpan()), nil
	case *ast.UnaryExpr:
		return it.evalUnary(ec, n, sc)
	case *ast.BinaryExpr:
		return it.evalBinary(ec, n, sc)
	case *ast.IfExpr:
		return it.evalIf(ec, n, sc)
	case *ast.LetExpr:
		return it.evalLet(ec, n, sc)
	case *ast.MatchExpr:
		return it.evalMatch(ec, n, sc)
	case *ast.SumExpr:
		return it.evalSum(ec, n, sc)
	case *ast.ForallExpr:
		return it.evalForall(ec, n, sc)
	case *ast.FoldExpr:
		return it.evalFold(ec, n, sc)
	case *ast.Comprehension:
		return it.evalComprehension(ec, n, sc)
	}
	return value.Value{}, errf(e.NodeSpan(), diag.EInternal, "unhandled expression node")
}

func (it *Interpreter) evalListLit(ec *execCtx, n *ast.ListLit, sc *scope) (value.Value, error) {
	elems := make([]value.Value, len(n.Elems))
	for i, e := range n.Elems {
		v, err := it.evalExpr(ec, e, sc)
		if err != nil {
			return value.Value{}, err
		}
		elems[i] = it.coerce(v, it.prog.CoercionOf(e), e.NodeSpan())
	}
	tag := ""
	if t := it.prog.TypeOf(n); t != nil && isListType(t) {
		tag = t.Variants[0].Elem.String()
	}
	return value.List(tag, elems), nil
}

func (it *Interpreter) evalListRange(ec *execCtx, n *ast.ListRange, sc *scope) (value.Value, error) {
	lo, err := it.evalExpr(ec, n.Lo, sc)
	if err != nil {
		return value.Value{}, err
	}
	hi, err := it.evalExpr(ec, n.Hi, sc)
	if err != nil {
		return value.Value{}, err
	}
	var elems []value.Value
	for i := lo.I; i < hi.I; i++ {
		elems = append(elems, value.Int(i))
	}
	return value.List("Int", elems), nil
}

func (it *Interpreter) evalTupleLit(ec *execCtx, n *ast.TupleLit, sc *scope) (value.Value, error) {
	elems := make([]value.Value, len(n.Elems))
	for i, e := range n.Elems {
		v, err := it.evalExpr(ec, e, sc)
		if err != nil {
			return value.Value{}, err
		}
		elems[i] = it.coerce(v, it.prog.CoercionOf(e), e.NodeSpan())
	}
	return value.Tuple(elems...), nil
}

func (it *Interpreter) evalFieldAccess(ec *execCtx, n *ast.FieldAccessExpr, sc *scope) (value.Value, error) {
	tv, err := it.evalExpr(ec, n.Target, sc)
	if err != nil {
		return value.Value{}, err
	}
	if ec.env == nil {
		return value.Value{}, errf(n.NodeSpan(), diag.EMissingEnv, "field access requires a host object environment")
	}
	return ec.env.FieldAccess(tv.Obj, n.Field)
}

func isListType(t *types.Type) bool {
	return len(t.Variants) == 1 && t.Variants[0].Kind == types.KList
}

// addOverflow, subOverflow and mulOverflow report int64 wraparound for
// +, - and *.
func addOverflow(a, b int64) (int64, bool) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, true
	}
	return s, false
}

func subOverflow(a, b int64) (int64, bool) {
	s := a - b
	if (b < 0 && s < a) || (b > 0 && s > a) {
		return 0, true
	}
	return s, false
}

func mulOverflow(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	p := a * b
	if p/b != a {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, true
	}
	return p, false
}
