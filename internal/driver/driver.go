// Package driver wires the parser, checker, and evaluator into the
// single embedding surface spec.md §6.1 describes: Check, Eval,
// QuickEval, and Introspect. It is the one entry point the CLI, REPL,
// and LSP server all call through, grounded on kanso-lang-kanso's
// cmd/kanso-cli/main.go parse→report→succeed orchestration pulled out
// of main() into a reusable package; see DESIGN.md.
package driver

import (
	"context"
	"sort"

	"colloml/internal/ast"
	"colloml/internal/check"
	"colloml/internal/diag"
	"colloml/internal/eval"
	"colloml/internal/hostenv"
	"colloml/internal/ilp"
	"colloml/internal/parser"
	"colloml/internal/types"
	"colloml/internal/value"
)

// Program pairs a checked program with the interpreter built to
// evaluate it.
type Program struct {
	Checked *check.CheckedProgram
	interp  *eval.Interpreter
}

// Check parses every named source, type-checks the result against
// schema, and returns a ready-to-evaluate Program. A single-source
// convenience is provided by CheckModule below (spec.md §9's
// "single-source Check is sugar for a module named main").
func Check(modules map[string]string, schema *hostenv.Schema, opts eval.Options) (*Program, []diag.Diagnostic) {
	asts := make(map[string]*ast.Module, len(modules))
	var diags []diag.Diagnostic

	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		mod, perrs := parser.ParseModule(name, modules[name])
		asts[name] = mod
		for _, pe := range perrs {
			diags = append(diags, diag.Diagnostic{Level: diag.Error, Code: diag.PUnexpectedToken, Message: pe.Message, Span: pe.Span})
		}
	}
	if len(diags) > 0 {
		return nil, diags
	}

	checked, cdiags := check.Check(asts, schema)
	diags = append(diags, cdiags...)
	if checked == nil {
		return nil, diags
	}
	return &Program{Checked: checked, interp: eval.New(checked, opts)}, diags
}

// CheckModule is Check's single-source convenience: source is checked
// as a module named "main".
func CheckModule(source string, schema *hostenv.Schema, opts eval.Options) (*Program, []diag.Diagnostic) {
	return Check(map[string]string{"main": source}, schema, opts)
}

// Eval runs a function against a host object environment, returning its
// value plus the constraint set accumulated from any reifications
// triggered along the way.
func (p *Program) Eval(ctx context.Context, env hostenv.Env, module, fn string, args []value.Value) (value.Value, *ilp.ConstraintSet, error) {
	return p.interp.Eval(ctx, env, module, fn, args)
}

// QuickEval runs a function with no object environment, discarding any
// emitted constraints.
func (p *Program) QuickEval(ctx context.Context, module, fn string, args []value.Value) (value.Value, error) {
	return p.interp.QuickEval(ctx, module, fn, args)
}

// Symbol describes one pub function for introspection purposes.
type Symbol struct {
	Module string
	Name   string
	Params []check.Param
	Return *types.Type
}

// Introspect lists every `pub` function across all checked modules,
// sorted by module then name for deterministic output (spec.md §6.1.4).
func (p *Program) Introspect() []Symbol {
	var out []Symbol
	modules := make([]string, 0, len(p.Checked.Funcs))
	for m := range p.Checked.Funcs {
		modules = append(modules, m)
	}
	sort.Strings(modules)
	for _, m := range modules {
		names := make([]string, 0, len(p.Checked.Funcs[m]))
		for n := range p.Checked.Funcs[m] {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			sig := p.Checked.Funcs[m][n]
			if !sig.Pub {
				continue
			}
			out = append(out, Symbol{Module: m, Name: n, Params: sig.Params, Return: sig.Return})
		}
	}
	return out
}
