package ast

// Pattern is a `match` arm pattern: `id as T [where cond]`, `id as []`
// (list catch-all with a narrowing annotation), or a bare `id` catch-all.
// See spec.md §4.1 "Patterns" and §4.2.1's exhaustiveness rule.
type Pattern interface {
	Node
	isPattern()
	BindingName() string
	Guard() Expr
}

// TypedPattern is `id as T [where cond]`. It narrows the scrutinee to T
// within the arm; Guard, if non-nil, may reference both the narrowed
// binding and (via the checker's wider-type rule) the original scrutinee.
type TypedPattern struct {
	NodeBase
	Name  string
	Type  TypeExpr
	Where Expr // may be nil
}

func (*TypedPattern) isPattern()            {}
func (p *TypedPattern) BindingName() string { return p.Name }
func (p *TypedPattern) Guard() Expr         { return p.Where }

// ListCatchAllPattern is `id as []`: matches any list value, binding the
// whole list without narrowing its element type.
type ListCatchAllPattern struct {
	NodeBase
	Name  string
	Where Expr
}

func (*ListCatchAllPattern) isPattern()            {}
func (p *ListCatchAllPattern) BindingName() string { return p.Name }
func (p *ListCatchAllPattern) Guard() Expr         { return p.Where }

// CatchAllPattern is a bare `id`: matches unconditionally (subject to its
// optional `where`), binding the scrutinee at its original type.
type CatchAllPattern struct {
	NodeBase
	Name  string
	Where Expr
}

func (*CatchAllPattern) isPattern()            {}
func (p *CatchAllPattern) BindingName() string { return p.Name }
func (p *CatchAllPattern) Guard() Expr         { return p.Where }
