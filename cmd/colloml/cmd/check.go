package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Type-check a ColloML module and report diagnostics",
	Long: `Parse and type-check a ColloML source file against an optional
host schema, printing any diagnostics.

Examples:
  colloml check assign.cml
  colloml check --schema host.yaml assign.cml`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	prog, err := checkFile(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s: ok (%d pub function(s))\n", args[0], len(prog.Introspect()))
	return nil
}
