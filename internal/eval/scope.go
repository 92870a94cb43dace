package eval

import "colloml/internal/value"

// scope is a chained runtime binding environment (let-bindings,
// function parameters, quantifier/fold/match variables). Grounded on
// kanso-lang-kanso's analyzer scope-chaining pattern, repurposed from
// compile-time symbols to runtime values; see DESIGN.md.
type scope struct {
	vars   map[string]value.Value
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: map[string]value.Value{}, parent: parent}
}

func (s *scope) define(name string, v value.Value) {
	s.vars[name] = v
}

func (s *scope) lookup(name string) (value.Value, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars[name]; ok {
			return v, true
		}
	}
	return value.Value{}, false
}
