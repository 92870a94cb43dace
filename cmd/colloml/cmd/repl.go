package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"colloml/internal/repl"
)

var replModule string

var replCmd = &cobra.Command{
	Use:   "repl <file>",
	Short: "Check a file, then call its pub functions interactively",
	Args:  cobra.ExactArgs(1),
	RunE:  runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().StringVar(&replModule, "module", "main", "module to call functions in")
}

func runRepl(_ *cobra.Command, args []string) error {
	prog, err := checkFile(args[0])
	if err != nil {
		return err
	}
	repl.Start(os.Stdin, os.Stdout, prog, replModule)
	return nil
}
