package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mreyes/legisync/internal/logging"
)

var (
	resyncSession int
	resyncBatch   int
	resyncOffset  int
)

var resyncCmd = &cobra.Command{
	Use:   "resync",
	Short: "Re-run child syncers over stored bills",
	Long: `Resync pages bills already in the store for one session, re-fetches
each from upstream and rebuilds only sponsors, history and votes, leaving
bill metadata untouched. Useful after person-matching improvements. The
report's nextOffset says where to resume.

Examples:
  legisync resync --session 2025 --batch 50
  legisync resync --session 2025 --batch 50 --offset 150`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := buildApp()
		if err != nil {
			appLog := logging.Logger()
			appLog.Fatal().Err(err).Msg("failed to start")
		}
		defer a.db.Close()

		ctx, cancel := signalContext()
		defer cancel()

		printReport(a.svc.BatchResync(ctx, resyncSession, resyncBatch, resyncOffset))
	},
}

func init() {
	rootCmd.AddCommand(resyncCmd)

	resyncCmd.Flags().IntVarP(&resyncSession, "session", "s", 0, "session year")
	resyncCmd.Flags().IntVarP(&resyncBatch, "batch", "b", 50, "bills per invocation")
	resyncCmd.Flags().IntVarP(&resyncOffset, "offset", "o", 0, "offset to resume from")
	_ = resyncCmd.MarkFlagRequired("session")
}
