package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mreyes/legisync/internal/logging"
)

var backfillSession int

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Backfill a full legislative session",
	Long: `Backfill pages the upstream bill listing for one session and upserts
every bill, bounded by the configured per-run bill count and time budget.
Rerun the command to continue; already-synced bills are reprocessed
idempotently.

Examples:
  # Backfill the 2025-2026 session
  legisync backfill --session 2025`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := buildApp()
		if err != nil {
			appLog := logging.Logger()
			appLog.Fatal().Err(err).Msg("failed to start")
		}
		defer a.db.Close()

		ctx, cancel := signalContext()
		defer cancel()

		printReport(a.svc.Backfill(ctx, backfillSession))
	},
}

func init() {
	rootCmd.AddCommand(backfillCmd)

	backfillCmd.Flags().IntVarP(&backfillSession, "session", "s", 0, "session year (odd-numbered)")
	_ = backfillCmd.MarkFlagRequired("session")
}
