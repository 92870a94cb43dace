// Package ilp implements the exact-rational linear-expression and
// constraint algebra that backs ColloML's two host-facing simple types,
// LinExpr and Constraint (spec.md §3.3/§4.3). Grounded on
// kanso-lang-kanso/internal/ir/types.go's normalized-term shape and
// internal/ir/builder.go's builder-style constructors, adapted from IR
// opcodes to linear-expression terms over big.Rat coefficients; see
// DESIGN.md.
package ilp

import "fmt"

// Var identifies an ILP decision variable. A base variable is one the
// host environment names directly (spec.md §3.3: "Base variable:
// (name, arg-values)"); a script variable is one a `reify` declaration
// materializes for a given call-site argument tuple (spec.md §4.6:
// "Script variable: (module, name, [list-index], arg-values)").
//
// Var is a plain comparable struct so it can be used as a map key
// directly: two Vars are equal iff every field compares equal, which is
// exactly the identity rule spec.md §9 states ("Two variables are equal
// iff their (kind, name, arg-values) tuples are equal"). ArgKey must be
// produced by the caller as a canonical encoding of the argument-value
// tuple (internal/value does this); ilp never inspects dynamic values
// itself, which keeps this package free of a dependency on the value
// representation it helps build.
type Var struct {
	Base     bool
	Module   string
	Name     string
	FromList int // index into a list-reification's materialized vars; -1 for a scalar var
	ArgKey   string
	argRepr  string
}

// NewBaseVar builds the identity of a host base variable.
func NewBaseVar(name, argKey, argRepr string) Var {
	return Var{Base: true, Name: name, FromList: -1, ArgKey: argKey, argRepr: argRepr}
}

// NewScriptVar builds the identity of a reified script variable.
// fromList is -1 for a scalar `reify f as $V`, or the element index for
// a list reification `reify f as $[V]`.
func NewScriptVar(module, name string, fromList int, argKey, argRepr string) Var {
	return Var{Module: module, Name: name, FromList: fromList, ArgKey: argKey, argRepr: argRepr}
}

func (v Var) String() string {
	if v.Base {
		if v.argRepr == "" {
			return v.Name
		}
		return fmt.Sprintf("%s(%s)", v.Name, v.argRepr)
	}
	name := v.Name
	if v.Module != "" {
		name = v.Module + "::" + v.Name
	}
	if v.FromList >= 0 {
		name = fmt.Sprintf("%s[%d]", name, v.FromList)
	}
	if v.argRepr == "" {
		return "$" + name
	}
	return fmt.Sprintf("$%s(%s)", name, v.argRepr)
}

// Less gives Var a total order (spec.md §9: "ordering over variables is
// by kind, then module, then name, then list index, then arg-key") so
// that LinExpr and Constraint can normalize to a canonical, comparable
// form regardless of construction order.
func (v Var) Less(other Var) bool {
	if v.Base != other.Base {
		return v.Base // base variables sort before script variables
	}
	if v.Module != other.Module {
		return v.Module < other.Module
	}
	if v.Name != other.Name {
		return v.Name < other.Name
	}
	if v.FromList != other.FromList {
		return v.FromList < other.FromList
	}
	return v.ArgKey < other.ArgKey
}
