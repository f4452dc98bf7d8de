package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskmaster/todo/internal/application/services"
)

// NewSyncCommand creates the sync command. The sync is cosmetic; no data leaves the machine.
func NewSyncCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run the simulated sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, appLogger, err := loadConfig(opts, true)
			if err != nil {
				return err
			}
			defer appLogger.Close()

			svc := services.NewSyncService(cfg.Sync.SyncingDuration, cfg.Sync.SyncedDuration, appLogger)
			defer svc.Stop()

			return watchSync(cmd, svc)
		},
	}
}

func watchSync(cmd *cobra.Command, svc *services.SyncService) error {
	events := svc.Watch()
	if !svc.Start() {
		return fmt.Errorf("a sync is already running")
	}

	for {
		select {
		case state, ok := <-events:
			if !ok {
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), syncLabel(state))
			if state == services.SyncIdle {
				return nil
			}
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}
	}
}

func syncLabel(state services.SyncState) string {
	switch state {
	case services.SyncSyncing:
		return "Syncing..."
	case services.SyncSynced:
		return "Synced"
	default:
		return "Sync"
	}
}
