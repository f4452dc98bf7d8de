package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X github.com/taskmaster/todo/cmd/todo/commands.Version=..."
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "development"
)

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print todo version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "todo %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Build Date: %s\n", BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "Git Commit: %s\n", GitCommit)
		},
	}
}
