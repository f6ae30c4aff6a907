package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mreyes/legisync/internal/logging"
)

var (
	billNumber  string
	billSession int
	billResync  bool
)

var billCmd = &cobra.Command{
	Use:   "bill",
	Short: "Add or resync one bill",
	Long: `Bill fetches a single bill by number and session and upserts it with
its sponsors, history and votes. With --resync the bill must already exist
in the store.

Examples:
  legisync bill --number S256 --session 2025
  legisync bill --number A1000B --session 2023 --resync`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := buildApp()
		if err != nil {
			appLog := logging.Logger()
			appLog.Fatal().Err(err).Msg("failed to start")
		}
		defer a.db.Close()

		ctx, cancel := signalContext()
		defer cancel()

		if billResync {
			printReport(a.svc.ResyncBill(ctx, billNumber, billSession))
			return
		}
		printReport(a.svc.AddBill(ctx, billNumber, billSession))
	},
}

func init() {
	rootCmd.AddCommand(billCmd)

	billCmd.Flags().StringVarP(&billNumber, "number", "n", "", "bill print number (e.g. S256)")
	billCmd.Flags().IntVarP(&billSession, "session", "s", 0, "session year")
	billCmd.Flags().BoolVar(&billResync, "resync", false, "require the bill to already exist")
	_ = billCmd.MarkFlagRequired("number")
	_ = billCmd.MarkFlagRequired("session")
}
