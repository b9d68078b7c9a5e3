// Command studylog runs the study tracking API server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studylog/studylog/internal/logging"
	"github.com/studylog/studylog/internal/server"
	"github.com/studylog/studylog/internal/server/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "studylog",
		Short:        "Study time tracking API",
		SilenceUsage: true,
		RunE:         runServe,
	}
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE:  runMigrate,
	})

	return rootCmd
}

// setup loads the configuration and builds the App.
func setup(cmd *cobra.Command) (*server.App, logging.Logger, error) {
	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init logger: %w", err)
	}

	app, err := server.NewApp(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return app, logger, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, _, err := setup(cmd)
	if err != nil {
		return err
	}
	return app.Run(cmd.Context())
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	app, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	if err := app.Migrate(ctx); err != nil {
		return err
	}
	logger.Info(ctx, "Migrations applied")
	return nil
}
