package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/pindora-shield/internal/fetch"
	"github.com/jonathan/pindora-shield/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port      int
		staticDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the report API server",
		Long: `Start an HTTP server that exposes the report endpoints, forwards /api
calls to the compute backend and optionally serves the built frontend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			if staticDir != "" {
				a.cfg.StaticDir = staticDir
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			fetcher := fetch.NewClient(a.cfg.ReportEndpoint(), a.cfg.FetchOptions())
			srv, err := server.New(a.cfg, fetcher, a.log)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			return srv.Start(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on; overrides PORT")
	cmd.Flags().StringVar(&staticDir, "static", "", "Directory of the built frontend to serve")
	return cmd
}
