package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rtfs-lang/rtfs/internal/rtfsmodule"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List modules resolvable on the configured search path",
	Long: `Modules walks every directory in module_paths (rtfs.yml,
overridable with RTFS_PATH/RTFS_STDLIB) for .rtfs files and prints the
dotted module name each resolves to, per §4.8's file-to-name
convention. Unlike run/eval/repl, this command needs no S-expression
parser: it is pure filesystem discovery.`,
	Args: cobra.NoArgs,
	RunE: runModules,
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}

func runModules(*cobra.Command, []string) error {
	names, err := rtfsmodule.Discover(cfg.ModulePaths)
	if err != nil {
		return fmt.Errorf("discovering modules: %w", err)
	}
	if len(names) == 0 {
		fmt.Println(color.New(color.Faint).Sprint("no modules found on the search path"))
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
