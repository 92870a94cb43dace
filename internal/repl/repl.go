// Package repl implements a read-eval-print loop over an already
// checked ColloML program: each line names a pub function and its
// arguments, and the loop prints the result of calling it. Grounded on
// kanso-lang-kanso/repl/repl.go's bufio.Scanner loop shape, adapted
// from "parse one line as a program" to "call one function on an
// already-checked program" since ColloML functions live inside module
// declarations a single REPL line cannot express; see DESIGN.md.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"colloml/internal/driver"
	"colloml/internal/hostenv"
	"colloml/internal/value"
)

const prompt = "colloml> "

// Start runs the loop, reading lines from in and writing results and
// diagnostics to out, against prog checked under module.
func Start(in io.Reader, out io.Writer, prog *driver.Program, module string) {
	scanner := bufio.NewScanner(in)
	env := hostenv.NewStaticEnv()

	fmt.Fprintln(out, "colloml repl — type a pub function name and its arguments, or :quit")
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == ":quit" || line == ":q" {
			return
		}
		if line == ":symbols" {
			for _, sym := range prog.Introspect() {
				fmt.Fprintf(out, "  %s.%s\n", sym.Module, sym.Name)
			}
			continue
		}

		fields := strings.Fields(line)
		fn := fields[0]
		args := make([]value.Value, len(fields)-1)
		for i, raw := range fields[1:] {
			args[i] = parseLiteral(raw)
		}

		result, cs, err := prog.Eval(context.Background(), env, module, fn, args)
		if err != nil {
			fmt.Fprintf(out, "error: %s\n", err)
			continue
		}
		fmt.Fprintln(out, result.String())
		if cs != nil && cs.Len() > 0 {
			for _, c := range cs.Sorted() {
				fmt.Fprintf(out, "  %s\n", c.String())
			}
		}
	}
}

func parseLiteral(raw string) value.Value {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return value.Int(i)
	}
	if raw == "true" {
		return value.Bool(true)
	}
	if raw == "false" {
		return value.Bool(false)
	}
	return value.Str(raw)
}
