// Package ast defines the ColloML syntax tree: declarations, expressions,
// patterns, and type syntax, each carrying a source span and a stable
// NodeID that the checker uses to key its side tables.
package ast

import "fmt"

// Position is a single point in a source file.
type Position struct {
	Module string // module name the source was registered under
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Module, p.Line, p.Column)
}

// Span is a half-open source range used for diagnostics.
type Span struct {
	Start Position
	End   Position
}

func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s:%d:%d-%d", s.Start.Module, s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", s.Start.Module, s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// NodeID uniquely identifies a node within a single parse. The checker
// keys its per-node annotations (resolved type, chosen overload, inserted
// coercions) off this ID rather than mutating the node itself, so a
// CheckedProgram can be shared read-only across concurrent evaluations.
type NodeID uint32

// NodeBase is embedded by every concrete node type to supply identity and
// span without repeating boilerplate accessors.
type NodeBase struct {
	ID   NodeID
	Span Span
}

func (n NodeBase) NodeID() NodeID { return n.ID }

func (n NodeBase) NodeSpan() Span { return n.Span }

// Node is implemented by every AST node.
type Node interface {
	NodeID() NodeID
	NodeSpan() Span
}
