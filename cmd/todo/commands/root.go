package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand assembles the todo command tree
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:           "todo",
		Short:         "A local single-user task list",
		Long:          `todo keeps your tasks on this machine, sorts them by deadline and flags what is overdue or due soon.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "Config file (yaml, json or toml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Debug logging on stderr")

	rootCmd.AddCommand(
		NewServeCommand(opts),
		NewAddCommand(opts),
		NewListCommand(opts),
		NewToggleCommand(opts),
		NewEditCommand(opts),
		NewDeleteCommand(opts),
		NewExportCommand(opts),
		NewSyncCommand(opts),
		NewMigrateCommand(opts),
		NewManualCommand(),
		NewVersionCommand(),
	)

	return rootCmd
}
