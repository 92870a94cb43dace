package eval

import (
	"fmt"

	"colloml/internal/ast"
	"colloml/internal/diag"
)

// Error is the evaluator's failure type (spec.md §4.4.2/§7: "Eval
// errors"). Evaluation stops at the first Error; Interpreter.Eval then
// returns a nil constraint set, so constraints from reifications
// completed before the failure are discarded.
type Error struct {
	Code    string
	Message string
	Span    ast.Span
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func errf(span ast.Span, code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Span: span}
}

func overflowErr(span ast.Span, op string) *Error {
	return errf(span, diag.EOverflow, "integer overflow in %s", op)
}

func divByZeroErr(span ast.Span) *Error {
	return errf(span, diag.EDivByZero, "division or modulo by zero")
}

func indexOOBErr(span ast.Span, i, n int) *Error {
	return errf(span, diag.EIndexOOB, "index %d out of range for list of length %d", i, n)
}

func castFailedErr(span ast.Span, target string) *Error {
	return errf(span, diag.ECastFailed, "value does not narrow to %s", target)
}

func stackOverflowErr(span ast.Span, max int) *Error {
	return errf(span, diag.EStackOverflow, "recursion depth exceeded (max %d)", max)
}

func nonlinearMulErr(span ast.Span) *Error {
	return errf(span, diag.ENonlinearMul, "multiplying two non-constant linear expressions")
}

func noMatchErr(span ast.Span) *Error {
	return errf(span, diag.CMatchNotExhaustive, "no match arm applies (unreachable in a well-typed program)")
}
