package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"colloml/internal/check"
)

var introspectCmd = &cobra.Command{
	Use:   "introspect <file>",
	Short: "List every pub function's signature as a table",
	Args:  cobra.ExactArgs(1),
	RunE:  runIntrospect,
}

func init() {
	rootCmd.AddCommand(introspectCmd)
}

func runIntrospect(_ *cobra.Command, args []string) error {
	prog, err := checkFile(args[0])
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "MODULE\tFUNCTION\tPARAMS\tRETURN")
	for _, sym := range prog.Introspect() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", sym.Module, sym.Name, formatParams(sym.Params), sym.Return.String())
	}
	return w.Flush()
}

func formatParams(params []check.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + ": " + p.Type.String()
	}
	return strings.Join(parts, ", ")
}
