// Command rtfs is the CLI entry point (§6.4 of the spec, §2 of the
// expanded spec): run/eval/repl/modules subcommands over the
// convert -> optimize -> irexec pipeline, built on cobra the way
// CWBudde-go-dws's cmd/dwscript is.
package main

import (
	"fmt"
	"os"

	"github.com/rtfs-lang/rtfs/cmd/rtfs/cmd"
)

// Version info, set by ldflags during release builds, matching the
// teacher's cmd/ailang/main.go Version/Commit/BuildTime convention.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	cmd.Version = Version
	cmd.Commit = Commit
	cmd.BuildTime = BuildTime
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
