package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/taskd/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API until SIGINT or SIGTERM",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var serveMigrate bool

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply pending migrations before serving (both storage drivers)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := app.NewDefaultLogger()
	cfg, err := app.ReadConfig(logger)
	if err != nil {
		return err
	}
	logger, err = app.NewApplicationLogger(logger, cfg.Env)
	if err != nil {
		return err
	}

	store, err := app.OpenStore(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
		logger.Info().Msg("closed store")
	}()

	if serveMigrate {
		if err = app.Migrate(ctx, logger, store); err != nil {
			return err
		}
	}

	router, err := app.NewRouter(logger, cfg, store)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to build router")
		return err
	}
	return app.ListenAndServeHTTP(ctx, logger, cfg.HTTP, router)
}

