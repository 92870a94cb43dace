package diag_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"colloml/internal/ast"
	"colloml/internal/diag"
)

func TestReporterFormatRendersCaretAndNotes(t *testing.T) {
	source := "let f(x: Int) -> Int = x + \"y\";\n"
	r := diag.NewReporter("main", source)

	d := diag.Diagnostic{
		Level:   diag.Error,
		Code:    diag.CTypeMismatch,
		Message: "cannot add Int and String",
		Span: ast.Span{
			Start: ast.Position{Line: 1, Column: 25},
			End:   ast.Position{Line: 1, Column: 28},
		},
		Notes: []string{"`+` requires both operands to be numeric or collections"},
		Help:  "convert one side with `into`",
	}

	snaps.MatchSnapshot(t, "type_mismatch", r.Format(d))
}

func TestReporterFormatAllConcatenatesInOrder(t *testing.T) {
	source := "let f() -> Int = 1;\n"
	r := diag.NewReporter("main", source)

	ds := []diag.Diagnostic{
		{Level: diag.Warning, Code: diag.CUndefinedVariable, Message: "first", Span: ast.Span{Start: ast.Position{Line: 1, Column: 1}}},
		{Level: diag.Note, Code: diag.CUndefinedVariable, Message: "second", Span: ast.Span{Start: ast.Position{Line: 1, Column: 1}}},
	}
	snaps.MatchSnapshot(t, "format_all_order", r.FormatAll(ds))
}
