package cmd

import (
	"context"
	"time"

	"github.com/eventplus/evp/internal/output"
	evsync "github.com/eventplus/evp/internal/sync"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Short:   "Drain queued mirror writes",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		auth, err := requireAuth()
		if err != nil {
			output.Error("%v", err)
			return err
		}

		database, err := openDB()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		result, err := evsync.Drain(ctx, database, newMirrorClient(auth), evsync.DefaultDrainLimit)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if result.Attempted == 0 {
			output.Info("Nothing to sync.")
			return nil
		}
		output.Success("Synced %d of %d queued write(s)", result.Completed, result.Attempted)
		if result.Failed > 0 {
			output.Warn("%d write(s) failed and will be retried (%d still queued)",
				result.Failed, result.Remaining)
		} else if result.Remaining > 0 {
			output.Info("%d write(s) still queued.", result.Remaining)
		}
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the mirror queue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		pending, err := database.CountPendingIntents()
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if pending == 0 {
			output.Success("Mirror is up to date.")
			return nil
		}
		output.Info("%d write(s) queued for the mirror.", pending)

		lastErr, err := database.LastIntentError()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if lastErr != "" {
			output.Warn("Last failure: %s", lastErr)
		}
		return nil
	},
}

var syncPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop confirmed queue entries older than a week",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		pruned, err := database.PruneDoneIntents(time.Now().AddDate(0, 0, -7))
		if err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Pruned %d confirmed entry(s)", pruned)
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncStatusCmd, syncPruneCmd)
	rootCmd.AddCommand(syncCmd)
}
