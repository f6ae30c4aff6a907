package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mreyes/legisync/internal/logging"
	"github.com/mreyes/legisync/internal/openleg"
)

var diagnoseSession int

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Probe the upstream API without writing anything",
	Long: `Diagnose runs independent read-only probes against the upstream API:
reachability, two direct bill lookups, the listing endpoint, the update
window, search, and a prior-session lookup. One probe failing never blocks
the rest.

Examples:
  legisync diagnose --session 2025`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := buildApp()
		if err != nil {
			appLog := logging.Logger()
			appLog.Fatal().Err(err).Msg("failed to start")
		}
		defer a.db.Close()

		ctx, cancel := signalContext()
		defer cancel()

		report := openleg.Diagnose(ctx, a.client, diagnoseSession)

		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			appLog := logging.Logger()
			appLog.Fatal().Err(err).Msg("failed to encode report")
		}
		fmt.Println(string(out))

		if !report.Healthy {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)

	diagnoseCmd.Flags().IntVarP(&diagnoseSession, "session", "s", 0, "session year to probe")
	_ = diagnoseCmd.MarkFlagRequired("session")
}
