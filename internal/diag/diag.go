// Package diag implements ColloML's diagnostic reporting: structured
// errors/warnings with source spans, rendered as colored caret output.
// Grounded on kanso-lang-kanso/internal/errors/reporter.go's
// Rust-style formatting and codes.go's code-range convention, adapted
// from a single Position+Length per error to the ast.Span the checker
// and parser already carry; see DESIGN.md.
package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"colloml/internal/ast"
)

// Level is a diagnostic severity.
type Level string

const (
	Error   Level = "error"
	Warning Level = "warning"
	Note    Level = "note"
)

// Diagnostic is one reported problem.
type Diagnostic struct {
	Level   Level
	Code    string
	Message string
	Span    ast.Span
	Notes   []string
	Help    string
}

func (d Diagnostic) String() string { return fmt.Sprintf("%s[%s]: %s", d.Level, d.Code, d.Message) }

// Reporter renders Diagnostics against a known source, one module at a
// time.
type Reporter struct {
	module string
	lines  []string
}

// NewReporter builds a Reporter for the given module name and source
// text.
func NewReporter(module, source string) *Reporter {
	return &Reporter{module: module, lines: strings.Split(source, "\n")}
}

// Format renders d as multi-line, colored caret output.
func (r *Reporter) Format(d Diagnostic) string {
	var out strings.Builder

	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	levelColor := levelColorFunc(d.Level)

	out.WriteString(fmt.Sprintf("%s[%s]: %s\n", levelColor(string(d.Level)), d.Code, d.Message))

	line := d.Span.Start.Line
	col := d.Span.Start.Column
	width := lineNumberWidth(line)
	indent := strings.Repeat(" ", width)

	out.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n", indent, dim("-->"), r.module, line, col))
	out.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))

	if line > 1 && line-1 <= len(r.lines) {
		out.WriteString(fmt.Sprintf("%s %s %s\n", dim(pad(line-1, width)), dim("│"), r.lines[line-2]))
	}
	if line >= 1 && line <= len(r.lines) {
		out.WriteString(fmt.Sprintf("%s %s %s\n", bold(pad(line, width)), dim("│"), r.lines[line-1]))
		out.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("│"), marker(col, spanLen(d.Span), d.Level)))
	}
	if line < len(r.lines) {
		out.WriteString(fmt.Sprintf("%s %s %s\n", dim(pad(line+1, width)), dim("│"), r.lines[line]))
	}

	for _, n := range d.Notes {
		out.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("│"), color.New(color.FgBlue).Sprint("note:"), n))
	}
	if d.Help != "" {
		out.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("│"), color.New(color.FgGreen).Sprint("help:"), d.Help))
	}
	out.WriteString("\n")
	return out.String()
}

// FormatAll renders a batch of diagnostics in order.
func (r *Reporter) FormatAll(ds []Diagnostic) string {
	var out strings.Builder
	for _, d := range ds {
		out.WriteString(r.Format(d))
	}
	return out.String()
}

func spanLen(s ast.Span) int {
	if s.Start.Line != s.End.Line {
		return 1
	}
	n := s.End.Column - s.Start.Column
	if n <= 0 {
		return 1
	}
	return n
}

func levelColorFunc(l Level) func(a ...interface{}) string {
	switch l {
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

func marker(col, length int, level Level) string {
	if length <= 0 {
		length = 1
	}
	spaces := strings.Repeat(" ", max(0, col-1))
	c := color.New(color.FgRed, color.Bold)
	if level == Warning {
		c = color.New(color.FgYellow, color.Bold)
	}
	return spaces + c.Sprint(strings.Repeat("^", length))
}

func lineNumberWidth(line int) int {
	w := len(fmt.Sprintf("%d", line))
	if w < 1 {
		w = 1
	}
	return w
}

func pad(n, width int) string { return fmt.Sprintf("%*d", width, n) }

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
