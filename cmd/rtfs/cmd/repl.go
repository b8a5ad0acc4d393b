package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/rtfs-lang/rtfs/internal/irexec"
	"github.com/rtfs-lang/rtfs/internal/rtfsmodule"
)

var (
	replGreen = color.New(color.FgGreen).SprintFunc()
	replRed   = color.New(color.FgRed).SprintFunc()
	replCyan  = color.New(color.FgCyan).SprintFunc()
	replBold  = color.New(color.Bold).SprintFunc()
	replDim   = color.New(color.Faint).SprintFunc()
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive RTFS REPL",
	Long: `Repl is a thin interactive front-end over the same
parse/convert/optimize/evaluate pipeline "run" and "eval" use,
read-eval-print over liner-backed line editing (§3's ambient
interactive-line-editing concern), explicitly out of the core language
scope but the natural exerciser of the public evaluator API.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(*cobra.Command, []string) error {
	parser, err := requireParser()
	if err != nil {
		return err
	}

	registry, err := newRegistry()
	if err != nil {
		return err
	}
	eval := newEvaluator(registry)

	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyFile := filepath.Join(os.TempDir(), ".rtfs_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("%s %s\n", replBold("RTFS"), replBold(Version))
	fmt.Println(replDim("Type :help for help, :quit to exit"))
	fmt.Println()

	for {
		input, err := line.Prompt("rtfs> ")
		if err == io.EOF {
			fmt.Println(replGreen("Goodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", replRed("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, ":") {
			if handled := handleReplCommand(input); handled {
				continue
			}
			break
		}

		line.AppendHistory(input)
		evalREPLLine(parser, registry, eval, input)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
	return nil
}

// evalREPLLine mirrors run/eval's pipeline, printing a result line in
// the teacher's "result : type = value" form instead of returning an
// error up the cobra chain, since one bad line shouldn't end the
// session.
func evalREPLLine(parser rtfsmodule.Parser, registry *rtfsmodule.Registry, eval *irexec.Evaluator, input string) {
	prog, err := parseSource(parser, []byte(input), "<repl>")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", replRed("Parse error"), err)
		return
	}
	irProg, err := convertAndOptimize(prog, registry, cfg.OptimizeLevel())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", replRed("Compile error"), err)
		return
	}
	result, err := eval.EvalProgram(irProg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", replRed("Runtime error"), err)
		return
	}
	if result == nil {
		return
	}
	fmt.Printf("%s %s\n", replCyan("=>"), result.String())
}

// handleReplCommand returns false when the REPL should exit.
func handleReplCommand(cmd string) bool {
	switch strings.Fields(cmd)[0] {
	case ":help", ":h":
		fmt.Println("REPL commands:")
		fmt.Println("  :help, :h     Show this help")
		fmt.Println("  :quit, :q     Exit the REPL")
		return true
	case ":quit", ":q":
		fmt.Println(replGreen("Goodbye!"))
		return false
	default:
		fmt.Printf("Unknown command: %s (try :help)\n", cmd)
		return true
	}
}
