package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"colloml/internal/hostenv"
	"colloml/internal/value"
)

var evalCmd = &cobra.Command{
	Use:   "eval <file> <module> <function> [arg...]",
	Short: "Evaluate a pub function and print its result",
	Long: `Type-check file, then call module.function with the given
arguments (each parsed as an Int, Bool, or String literal) and print
the resulting value plus any constraints accumulated from reification.

Examples:
  colloml eval assign.cml main total_cost
  colloml eval --schema host.yaml assign.cml main fits 3 true`,
	Args: cobra.MinimumNArgs(3),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
}

func runEval(_ *cobra.Command, args []string) error {
	prog, err := checkFile(args[0])
	if err != nil {
		return err
	}
	module, fn := args[1], args[2]
	callArgs := make([]value.Value, len(args)-3)
	for i, raw := range args[3:] {
		callArgs[i] = parseLiteral(raw)
	}

	result, cs, err := prog.Eval(context.Background(), hostenv.NewStaticEnv(), module, fn, callArgs)
	if err != nil {
		return err
	}
	fmt.Println(result.String())
	if cs != nil && cs.Len() > 0 {
		fmt.Println("constraints:")
		for _, c := range cs.Sorted() {
			fmt.Printf("  %s\n", c.String())
		}
	}
	return nil
}

// parseLiteral parses one CLI argument as the simplest value it could
// be: an Int if it scans as int64, a Bool if it is exactly "true" or
// "false", else a String.
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
