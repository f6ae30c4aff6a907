package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mreyes/legisync/internal/config"
	"github.com/mreyes/legisync/internal/logging"
	"github.com/mreyes/legisync/internal/openleg"
	"github.com/mreyes/legisync/internal/store"
	syncpkg "github.com/mreyes/legisync/internal/sync"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "legisync",
	Short: "Legislative bill synchronization pipeline",
	Long: `legisync pulls bills from the upstream legislative API and reconciles
them against the local store: bill rows are upserted by a derived stable id,
sponsors, history and votes are rebuilt per bill, and external members are
resolved to local person records by a matching cascade.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: config.yaml)")
}

// app bundles everything a command needs.
type app struct {
	cfg      *config.Config
	db       *sql.DB
	client   *openleg.Client
	svc      *syncpkg.Service
	runStore *store.RunStore
}

// buildApp loads config, initializes logging and wires the service stack.
func buildApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	db, err := store.NewDB(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	client := openleg.NewClient(cfg.API)
	runStore := store.NewRunStore(db)

	stores := syncpkg.Stores{
		Bills:    store.NewBillStore(db),
		People:   store.NewPersonStore(db),
		Sponsors: store.NewSponsorStore(db),
		History:  store.NewHistoryStore(db),
		Votes:    store.NewVoteStore(db),
	}

	return &app{
		cfg:      cfg,
		db:       db,
		client:   client,
		svc:      syncpkg.NewService(client, stores, cfg.Sync, runStore),
		runStore: runStore,
	}, nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLog := logging.Logger()
		appLog.Info().Msg("received interrupt signal, shutting down")
		cancel()
	}()

	return ctx, cancel
}

// printReport writes the run report to stdout and exits non-zero when any
// bill errored.
func printReport(report *syncpkg.Report) {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		appLog := logging.Logger()
		appLog.Fatal().Err(err).Msg("failed to encode report")
	}
	fmt.Println(string(out))

	if report.Errored > 0 {
		os.Exit(1)
	}
}
