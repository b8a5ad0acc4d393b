package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(*cobra.Command, []string) {
		bold := color.New(color.Bold).SprintFunc()
		fmt.Printf("%s %s\n", bold("rtfs"), bold(Version))
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if BuildTime != "unknown" {
			fmt.Printf("Built:  %s\n", BuildTime)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
