package main

import (
	"github.com/spf13/cobra"

	"github.com/adanyl0v/taskd/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations and exit",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	logger := app.NewDefaultLogger()
	cfg, err := app.ReadConfig(logger)
	if err != nil {
		return err
	}
	logger, err = app.NewApplicationLogger(logger, cfg.Env)
	if err != nil {
		return err
	}

	store, err := app.OpenStore(cmd.Context(), logger, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	return app.Migrate(cmd.Context(), logger, store)
}
