package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mreyes/legisync/internal/logging"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one incremental bill sync",
	Long: `Sync fetches the bill updates from the trailing lookback window
(default 24h), deduplicates them, and upserts each changed bill. An empty
window or an unreachable update feed is a successful no-op; this is meant to
run frequently from a scheduler.

Examples:
  # Sync everything that changed in the last day
  legisync sync`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := buildApp()
		if err != nil {
			appLog := logging.Logger()
			appLog.Fatal().Err(err).Msg("failed to start")
		}
		defer a.db.Close()

		ctx, cancel := signalContext()
		defer cancel()

		printReport(a.svc.SyncBills(ctx))
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
