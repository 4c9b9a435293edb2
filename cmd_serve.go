package main

import (
	"github.com/gmllt/organizeu/internal/server"
	"github.com/gmllt/organizeu/internal/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard JSON API (and static front end, if configured)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeStore, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()
		return server.New(app, cfg.Server, logger).Run(cmd.Context())
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive terminal dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeStore, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()
		return tui.Run(cmd.Context(), app, logger)
	},
}
