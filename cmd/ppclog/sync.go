package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize with the ppcpilot service",
	Long: `Sync pulls server-side changes since the last sync, merges them into
the local database, and pushes any locally created or modified
records. With --watch it keeps syncing on the configured interval
until interrupted.`,
	Example: `  ppclog sync
  ppclog sync --watch`,
	RunE: runSyncCmd,
}

var syncWatch bool

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVarP(&syncWatch, "watch", "w", false,
		"Keep syncing on the configured interval")
}

func runSyncCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	restored, err := app.Auth.TryRestoreSession(ctx)
	if err != nil {
		return err
	}
	if !restored {
		printError("Not signed in. Run: ppclog login")
		return errNotSignedIn
	}

	if syncWatch {
		return watchSync()
	}

	if err := app.Sync.Run(ctx); err != nil {
		printError("Sync failed: %v", err)
		return err
	}

	reportLastEvent()
	return nil
}

// watchSync leaves the scheduler (started by session restore) running
// and reports each completed cycle until interrupted.
func watchSync() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	printInfo("Watching for changes, Ctrl-C to stop")
	for {
		select {
		case event := <-app.Sync.Events():
			if event.Completed {
				printSuccess("Synced: %d pulled, %d pushed", event.Pulled, event.Pushed)
			} else {
				printWarning("Sync failed: %v", event.Err)
			}
		case <-sigChan:
			printInfo("Stopping")
			return nil
		}
	}
}

func reportLastEvent() {
	select {
	case event := <-app.Sync.Events():
		if jsonOutput {
			printJSON(map[string]interface{}{
				"completed": event.Completed,
				"pulled":    event.Pulled,
				"pushed":    event.Pushed,
			})
		} else {
			printSuccess("Synced: %d pulled, %d pushed", event.Pulled, event.Pushed)
		}
	default:
		// The cycle was skipped (nothing ran), which is not an error.
		printInfo("Nothing to sync")
	}
}
