package parser

import "colloml/internal/ast"

// ParseError is a syntactic diagnostic, spanned for caret rendering.
// The parser accumulates these and keeps going (panic-mode recovery at
// the next declaration or statement boundary) so a single pass can
// surface everything it can, per spec.md §4.1/§6.4.
type ParseError struct {
	Span    ast.Span
	Message string
}

func (e ParseError) Error() string { return e.Message }
