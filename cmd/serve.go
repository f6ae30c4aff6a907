package cmd

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/cobra"

	"github.com/mreyes/legisync/internal/handlers"
	"github.com/mreyes/legisync/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sync HTTP server",
	Long: `Start the HTTP server exposing the dispatch-by-action sync endpoint,
the persisted run history, and a health check. Intended for schedulers and
admin tooling; every response is a JSON report.`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := buildApp()
		if err != nil {
			appLog := logging.Logger()
			appLog.Fatal().Err(err).Msg("failed to start")
		}
		defer a.db.Close()

		app := fiber.New(fiber.Config{
			AppName: "legisync",
		})

		app.Use(logger.New())

		app.Post("/api/sync", handlers.SyncHandler(a.svc, a.client))
		app.Get("/api/runs", handlers.RunsHandler(a.runStore))
		app.Get("/healthz", handlers.HealthHandler(a.db))

		addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
		appLog := logging.Logger()
		appLog.Info().Str("addr", addr).Msg("starting server")
		if err := app.Listen(addr); err != nil {
			appLog := logging.Logger()
			appLog.Fatal().Err(err).Msg("server failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
