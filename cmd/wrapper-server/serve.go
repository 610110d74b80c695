package main

import (
	"github.com/spf13/cobra"

	"github.com/invoix/wrapper-server/pkg/app"
	"github.com/invoix/wrapper-server/pkg/cspl/server"
)

func serveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the transaction building HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(server.NewApp(), app.WithConfigPath(configPath))
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "configuration file path")
	return cmd
}
