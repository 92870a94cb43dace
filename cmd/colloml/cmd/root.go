package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var schemaPath string

var rootCmd = &cobra.Command{
	Use:   "colloml",
	Short: "ColloML language tools",
	Long: `colloml checks, evaluates, and introspects ColloML programs.

ColloML is a small DSL for describing integer linear programs: pure
functions over Int/Bool/String/LinExpr/Constraint/List/Tuple/Object
values, with reification turning constraint-producing functions into
fresh ILP decision variables.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&schemaPath, "schema", "", "host schema YAML file (base variables and object field tables)")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
