// Package hostenv implements the host-supplied side of ColloML's
// embedding contract (spec.md §6.2): compile-time schemas for base
// variables and object types, and the runtime Env a host implements to
// expose live objects to the evaluator. Grounded on
// kanso-lang-kanso/internal/stdlib/modules.go's module/type/function
// definition tables, adapted from a fixed standard library to an
// open, host-declared schema; see DESIGN.md.
package hostenv

import "colloml/internal/types"

// BaseVarSchema is the parameter-type list a host declares for one base
// variable name (spec.md §6.1: "base_var_schema: map<name, [type]>").
type BaseVarSchema struct {
	Name   string
	Params []*types.Type
}

// ObjectSchema is the field table a host declares for one Object(name)
// type (spec.md §6.1: "object_schema: map<name, map<field, type>>").
type ObjectSchema struct {
	Name   string
	Fields map[string]*types.Type
}

// Schema bundles everything the checker needs from the host to check a
// set of modules: the compile-time half of the embedding contract.
// Schema is pure data — constructing one does not require a live Env.
type Schema struct {
	BaseVars map[string]BaseVarSchema
	Objects  map[string]ObjectSchema
}

// NewSchema returns an empty schema, ready for population via Declare*.
func NewSchema() *Schema {
	return &Schema{BaseVars: map[string]BaseVarSchema{}, Objects: map[string]ObjectSchema{}}
}

// DeclareBaseVar registers a base variable's parameter-type signature.
func (s *Schema) DeclareBaseVar(name string, params ...*types.Type) {
	s.BaseVars[name] = BaseVarSchema{Name: name, Params: params}
}

// DeclareObject registers an object type's field table.
func (s *Schema) DeclareObject(name string, fields map[string]*types.Type) {
	s.Objects[name] = ObjectSchema{Name: name, Fields: fields}
}

// LookupBaseVar reports a base variable's declared signature, if any.
func (s *Schema) LookupBaseVar(name string) (BaseVarSchema, bool) {
	v, ok := s.BaseVars[name]
	return v, ok
}

// LookupObject reports an object type's declared field table, if any.
func (s *Schema) LookupObject(name string) (ObjectSchema, bool) {
	v, ok := s.Objects[name]
	return v, ok
}
