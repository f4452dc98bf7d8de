package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskmaster/todo/internal/infrastructure/database"
)

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand(opts *Options) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage the slot table schema of the sqlite and postgres backends (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, opts, "up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, opts, "down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(opts)
			if err != nil {
				return err
			}
			defer db.Close()

			status, err := db.MigrationVersion()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Current migration version: %d\n", status.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Dirty: %t\n", status.Dirty)
			return nil
		},
	})

	return migrateCmd
}

func openDatabase(opts *Options) (*database.DB, error) {
	cfg, appLogger, err := loadConfig(opts, true)
	if err != nil {
		return nil, err
	}
	defer appLogger.Close()

	db, err := database.NewConnection(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func runMigration(cmd *cobra.Command, opts *Options, direction string) error {
	db, err := openDatabase(opts)
	if err != nil {
		return err
	}
	defer db.Close()

	var changed bool
	switch direction {
	case "up":
		changed, err = db.MigrateUp()
	case "down":
		changed, err = db.MigrateDown()
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if !changed {
		fmt.Fprintln(cmd.OutOrStdout(), "No migrations to run")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Migration %s completed successfully\n", direction)
	}
	return nil
}
