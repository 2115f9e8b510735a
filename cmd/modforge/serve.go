package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/modforge/modforge"
	"github.com/modforge/modforge/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ModForge server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		app, err := modforge.NewBuilder().WithConfig(cfg).Build()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return app.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
