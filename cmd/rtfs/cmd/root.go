// Package cmd holds the cobra command tree for the rtfs CLI, grounded
// on CWBudde-go-dws's cmd/dwscript/cmd layout (a rootCmd built in
// root.go, each subcommand registered from its own init via
// rootCmd.AddCommand).
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtfs-lang/rtfs/internal/config"
)

// Version, Commit, and BuildTime are populated from main via ldflags,
// the same indirection the teacher's cmd/ailang/main.go uses.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var configPath string
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "rtfs",
	Short: "RTFS interpreter and module tool",
	Long: `rtfs is the command-line front end for RTFS, a homoiconic,
Lisp-family, S-expression language.

  rtfs run <file.rtfs>     Run a script or module file
  rtfs eval -e '(+ 1 2)'   Evaluate an inline expression
  rtfs repl                Start the interactive REPL
  rtfs modules             List modules resolvable on the search path`,
	Version:           Version,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() error {
	rootCmd.Version = Version
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("rtfs version {{.Version}}\nCommit: %s\nBuilt:  %s\n", Commit, BuildTime))
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "rtfs.yml", "path to an optional rtfs.yml config file")
}

func loadConfig(*cobra.Command, []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = loaded
	return nil
}
