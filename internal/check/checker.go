package check

import (
	"fmt"
	"sort"

	"colloml/internal/ast"
	"colloml/internal/diag"
	"colloml/internal/hostenv"
	"colloml/internal/types"
)

// Param is a checked function parameter.
type Param struct {
	Name string
	Type *types.Type
}

// FuncSig is the checked signature of a `let` declaration.
type FuncSig struct {
	Module string
	Name   string
	Pub    bool
	Params []Param
	Return *types.Type
	Decl   *ast.FunctionDecl
}

// ReifyInfo is the checked signature of a `reify` declaration: the
// fresh script variable `$V`/`$[V]` inherits the underlying function's
// parameter list (spec.md §4.2.2).
type ReifyInfo struct {
	Module   string
	VarName  string
	FuncName string
	List     bool
	Params   []Param
}

// CheckedProgram is the immutable result of a successful Check: the
// parsed modules plus every side-table the evaluator needs, keyed by
// ast.NodeID rather than a mutable pointer embedded in each node, so
// the same CheckedProgram can be evaluated concurrently from multiple
// goroutines (spec.md §5).
type CheckedProgram struct {
	Modules map[string]*ast.Module
	Funcs   map[string]map[string]*FuncSig
	Reifies map[string]map[string]*ReifyInfo
	Schema  *hostenv.Schema

	NodeTypes     map[ast.NodeID]*types.Type
	NodeCoercions map[ast.NodeID]types.CoercionKind
}

// TypeOf returns the checked type of an expression node, or nil if n
// was never annotated (should not happen for a node reachable from a
// successfully checked function body).
func (p *CheckedProgram) TypeOf(n ast.Node) *types.Type { return p.NodeTypes[n.NodeID()] }

// CoercionOf returns the coercion, if any, the checker inserted at n.
func (p *CheckedProgram) CoercionOf(n ast.Node) types.CoercionKind {
	return p.NodeCoercions[n.NodeID()]
}

// Checker holds the mutable state of one Check run.
type Checker struct {
	modules map[string]*ast.Module
	schema  *hostenv.Schema

	funcs   map[string]map[string]*FuncSig
	reifies map[string]map[string]*ReifyInfo

	nodeTypes     map[ast.NodeID]*types.Type
	nodeCoercions map[ast.NodeID]types.CoercionKind

	diags []diag.Diagnostic

	curModule string
}

// Check type-checks a set of modules against a host schema, returning
// a CheckedProgram on success. On failure (any check error reported)
// the CheckedProgram is nil and every diagnostic found is returned
// (spec.md §7: "Multiple are reported per module; a program with any
// check error cannot be evaluated").
func Check(modules map[string]*ast.Module, schema *hostenv.Schema) (*CheckedProgram, []diag.Diagnostic) {
	c := &Checker{
		modules:       modules,
		schema:        schema,
		funcs:         map[string]map[string]*FuncSig{},
		reifies:       map[string]map[string]*ReifyInfo{},
		nodeTypes:     map[ast.NodeID]*types.Type{},
		nodeCoercions: map[ast.NodeID]types.CoercionKind{},
	}

	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		c.curModule = name
		c.registerDecls(modules[name])
	}
	for _, name := range names {
		c.curModule = name
		c.checkReifyDecls(modules[name])
	}

	hadErr := false
	for _, d := range c.diags {
		if d.Level == diag.Error {
			hadErr = true
			break
		}
	}
	if !hadErr {
		for _, name := range names {
			c.curModule = name
			c.checkFunctionBodies(modules[name])
		}
	}

	for _, d := range c.diags {
		if d.Level == diag.Error {
			return nil, c.diags
		}
	}
	return &CheckedProgram{
		Modules:       modules,
		Funcs:         c.funcs,
		Reifies:       c.reifies,
		Schema:        schema,
		NodeTypes:     c.nodeTypes,
		NodeCoercions: c.nodeCoercions,
	}, c.diags
}

func (c *Checker) errorf(span ast.Span, code, format string, args ...interface{}) {
	c.diags = append(c.diags, diag.Diagnostic{
		Level: diag.Error, Code: code, Message: fmt.Sprintf(format, args...), Span: span,
	})
}

func (c *Checker) setType(n ast.Node, t *types.Type) { c.nodeTypes[n.NodeID()] = t }

func (c *Checker) setCoercion(n ast.Node, k types.CoercionKind) { c.nodeCoercions[n.NodeID()] = k }

// resolveTypeExpr turns a parsed type annotation into a checked Type,
// validating that any object name it mentions is declared in the host
// schema.
func (c *Checker) resolveTypeExpr(te ast.TypeExpr) *types.Type {
	switch t := te.(type) {
	case *ast.SimpleTypeExpr:
		switch t.Name {
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
			if _, ok := c.schema.LookupObject(t.Name); !ok {
				c.errorf(t.NodeSpan(), diag.CUndefinedObject, "undefined object type %q", t.Name)
			}
			return types.ObjectOf(t.Name)
		}
	case *ast.ListTypeExpr:
		return types.ListOf(c.resolveTypeExpr(t.Elem))
	case *ast.TupleTypeExpr:
		elems := make([]*types.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = c.resolveTypeExpr(e)
		}
		return types.TupleOf(elems...)
	case *ast.MaybeTypeExpr:
		return types.Maybe(c.resolveTypeExpr(t.Inner))
	case *ast.UnionTypeExpr:
		parts := make([]*types.Type, len(t.Variants))
		for i, v := range t.Variants {
			parts[i] = c.resolveTypeExpr(v)
		}
		return types.Union(parts...)
	}
	return types.None()
}

func (c *Checker) registerDecls(mod *ast.Module) {
	if c.funcs[c.curModule] == nil {
		c.funcs[c.curModule] = map[string]*FuncSig{}
	}
	for _, d := range mod.Decls {
		fn, ok := d.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		if _, dup := c.funcs[c.curModule][fn.Name]; dup {
			c.errorf(fn.NodeSpan(), diag.CDuplicateDecl, "function %q declared more than once in module %q", fn.Name, c.curModule)
			continue
		}
		params := make([]Param, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = Param{Name: p.Name, Type: c.resolveTypeExpr(p.Type)}
		}
		c.funcs[c.curModule][fn.Name] = &FuncSig{
			Module: c.curModule, Name: fn.Name, Pub: fn.Pub,
			Params: params, Return: c.resolveTypeExpr(fn.Return), Decl: fn,
		}
	}
}

func (c *Checker) checkReifyDecls(mod *ast.Module) {
	if c.reifies[c.curModule] == nil {
		c.reifies[c.curModule] = map[string]*ReifyInfo{}
	}
	for _, d := range mod.Decls {
		rd, ok := d.(*ast.ReifyDecl)
		if !ok {
			continue
		}
		fn, ok := c.funcs[c.curModule][rd.FuncName]
		if !ok {
			c.errorf(rd.NodeSpan(), diag.CUndefinedFunction, "reify: undefined function %q", rd.FuncName)
			continue
		}
		if rd.List {
			if fn.Return.Variants[0].Kind != types.KList || len(fn.Return.Variants) != 1 ||
				fn.Return.Variants[0].Elem.Variants[0].Kind != types.KConstraint {
				c.errorf(rd.NodeSpan(), diag.CReifyReturnType, "reify %s as $[%s]: %s must return List<Constraint>", rd.FuncName, rd.VarName, rd.FuncName)
				continue
			}
		} else {
			if len(fn.Return.Variants) != 1 || fn.Return.Variants[0].Kind != types.KConstraint {
				c.errorf(rd.NodeSpan(), diag.CReifyReturnType, "reify %s as $%s: %s must return Constraint", rd.FuncName, rd.VarName, rd.FuncName)
				continue
			}
		}
		if _, clash := c.schema.LookupBaseVar(rd.VarName); clash {
			c.errorf(rd.NodeSpan(), diag.CBadReifyShadow, "reified variable $%s shadows an existing base variable", rd.VarName)
			continue
		}
		c.reifies[c.curModule][rd.VarName] = &ReifyInfo{
			Module: c.curModule, VarName: rd.VarName, FuncName: rd.FuncName, List: rd.List, Params: fn.Params,
		}
	}
}

func (c *Checker) checkFunctionBodies(mod *ast.Module) {
	for _, d := range mod.Decls {
		fn, ok := d.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		sig := c.funcs[c.curModule][fn.Name]
		scope := NewSymbolTable(nil)
		for _, p := range sig.Params {
			scope.Define(p.Name, SymParam, p.Type)
		}
		bodyType := c.inferExpr(fn.Body, scope)
		if bodyType != nil && !types.IsSubtype(bodyType, sig.Return) {
			c.errorf(fn.Body.NodeSpan(), diag.CTypeMismatch,
				"function %q: body has type %s, declared return type is %s", fn.Name, bodyType, sig.Return)
		}
	}
}
