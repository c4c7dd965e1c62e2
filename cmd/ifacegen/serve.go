package main

import (
	"github.com/spf13/cobra"

	"github.com/toyz/ifacegen/internal/cli"
	"github.com/toyz/ifacegen/internal/server"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve generation passes over HTTP",
		Long: "Starts an HTTP server with POST /v1/generate, which takes a manifest body and\n" +
			"returns the generated files, and GET /healthz.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			generator, err := cli.NewGenerator(cli.OptionsFromConfig(a.cfg.Generation), a.logger, nil)
			if err != nil {
				return err
			}

			a.diagnostics.Info("Listening on %s", a.cfg.Server.Address)
			if err := server.New(a.cfg.Server, generator, a.logger).ListenAndServe(cmd.Context()); err != nil {
				return err
			}
			a.diagnostics.Info("Server stopped")
			return nil
		},
	}

	cmd.Flags().String("addr", "", "listen address (overrides server.address)")
	a.bindFlag(cmd, "server.address", "addr")
	return cmd
}
