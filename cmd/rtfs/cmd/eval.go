package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var evalExpr string

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate an inline RTFS expression",
	Long: `Eval parses and evaluates a single expression passed with -e,
without reading a file, for quick one-off checks.

Examples:
  rtfs eval -e "(+ 1 2)"
  rtfs eval -e "(let [x 10] (* x x))"`,
	Args: cobra.NoArgs,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "the expression to evaluate")
	_ = evalCmd.MarkFlagRequired("eval")
	rootCmd.AddCommand(evalCmd)
}

func runEval(_ *cobra.Command, _ []string) error {
	parser, err := requireParser()
	if err != nil {
		return err
	}

	registry, err := newRegistry()
	if err != nil {
		return err
	}

	prog, err := parseSource(parser, []byte(evalExpr), "<eval>")
	if err != nil {
		return fmt.Errorf("parsing expression: %w", err)
	}

	irProg, err := convertAndOptimize(prog, registry, cfg.OptimizeLevel())
	if err != nil {
		return fmt.Errorf("compiling expression: %w", err)
	}

	eval := newEvaluator(registry)
	result, err := eval.EvalProgram(irProg)
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}
