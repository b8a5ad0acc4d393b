package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rtfs-lang/rtfs/internal/rtfsast"
	"github.com/rtfs-lang/rtfs/internal/rtfsvalue"
)

var runCmd = &cobra.Command{
	Use:   "run <file.rtfs>",
	Short: "Run an RTFS script or module file",
	Long: `Run reads, parses, converts, optimizes, and evaluates an .rtfs
file. A file containing a (module ...) top-level form is run through
the same pipeline internal/rtfsmodule uses to load a dependency; a
plain script runs its top-level forms in order against a fresh global
environment.`,
	Args: cobra.ExactArgs(1),
	RunE: runFile,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runFile(_ *cobra.Command, args []string) error {
	path := args[0]
	parser, err := requireParser()
	if err != nil {
		return err
	}

	registry, err := newRegistry()
	if err != nil {
		return err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	prog, err := parseSource(parser, src, path)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	// A file whose only form is a (module ...) definition goes through
	// the same compile-and-register path internal/rtfsmodule uses for
	// a dependency (irexec.EvalProgram deliberately skips ModuleNode/
	// ImportNode, since those are always pre-resolved by the loader
	// before a script evaluator ever sees a Program) — printing its
	// exports is the closest "run" analogue to executing a module.
	if _, ok := soleModuleName(prog); ok {
		mod, err := registry.LoadFile(path)
		if err != nil {
			return fmt.Errorf("loading module %s: %w", path, err)
		}
		printModuleExports(mod.Name, mod.Exports)
		return nil
	}

	irProg, err := convertAndOptimize(prog, registry, cfg.OptimizeLevel())
	if err != nil {
		return fmt.Errorf("compiling %s: %w", path, err)
	}

	eval := newEvaluator(registry)
	result, err := eval.EvalProgram(irProg)
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}

// soleModuleName reports the module name when prog's only top-level
// form is a ModuleDefinition.
func soleModuleName(prog *rtfsast.Program) (string, bool) {
	if len(prog.Forms) != 1 {
		return "", false
	}
	mod, ok := prog.Forms[0].(*rtfsast.ModuleDefinition)
	if !ok {
		return "", false
	}
	return mod.Name, true
}

func printModuleExports(name string, exports map[string]rtfsvalue.Value) {
	names := make([]string, 0, len(exports))
	for n := range exports {
		names = append(names, n)
	}
	sort.Strings(names)
	fmt.Printf("module %s exports: %s\n", name, strings.Join(names, ", "))
}

// printResult mirrors the teacher's REPL result display: skip a
// trailing nil result rather than printing a noisy line for every
// script whose last form is a side-effecting tool call.
func printResult(v rtfsvalue.Value) {
	if v == nil || v == rtfsvalue.Nil {
		return
	}
	fmt.Println(v.String())
}
