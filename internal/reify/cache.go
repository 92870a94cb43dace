// Package reify implements ColloML's reification cache: the per-
// evaluation-context memoization table mapping a reified call's
// (module, script name, argument tuple) to the fresh script variable
// introduced for it, or for a `$[V]` call to the whole list of per-index
// variables, held in a separate table (spec.md §4.6). Grounded on
// kanso-lang-kanso/internal/semantic/context.go's registry-of-
// resolved-symbols shape, repurposed from a compile-time symbol
// registry to a runtime memoization table; see DESIGN.md.
package reify

import "colloml/internal/ilp"

type key struct {
	Module, VarName, ArgKey string
}

// Cache is scoped to exactly one evaluation context and must never be
// shared between concurrent evaluations of the same CheckedProgram
// (spec.md §5: "their reification caches are per-evaluation-context and
// never shared").
type Cache struct {
	scalar map[key]ilp.Var
	list   map[key][]ilp.Var
}

// New returns an empty reification cache.
func New() *Cache {
	return &Cache{scalar: map[key]ilp.Var{}, list: map[key][]ilp.Var{}}
}

// LookupScalar returns the cached variable for a `$V(args)` call, if
// already materialized.
func (c *Cache) LookupScalar(module, varName, argKey string) (ilp.Var, bool) {
	v, ok := c.scalar[key{module, varName, argKey}]
	return v, ok
}

// StoreScalar registers the fresh variable materialized for a `$V(args)`
// call, on first evaluation of that argument tuple.
func (c *Cache) StoreScalar(module, varName, argKey string, v ilp.Var) {
	c.scalar[key{module, varName, argKey}] = v
}

// LookupList returns the cached per-index variables for a `$[V](args)`
// call, if already materialized.
func (c *Cache) LookupList(module, varName, argKey string) ([]ilp.Var, bool) {
	v, ok := c.list[key{module, varName, argKey}]
	return v, ok
}

// StoreList registers the fresh per-index variables materialized for a
// `$[V](args)` call.
func (c *Cache) StoreList(module, varName, argKey string, vs []ilp.Var) {
	c.list[key{module, varName, argKey}] = vs
}
