// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-tools/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tools over HTTP",
	Long: `Serve exposes the tools to a chat backend:

  GET  /tools          tool definitions with JSON Schema parameters
  POST /tools/{name}   invoke a tool; the body is its argument object
  GET  /calls          recorded calls (tool, status, limit query filters)
  GET  /calls/{id}     one recorded call
  GET  /metrics        Prometheus metrics
  GET  /healthz        liveness

Tool failures are returned with status 200 and an error envelope so they
can be passed back to the model.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		a, err := newApp(reg, os.Stderr)
		if err != nil {
			return err
		}
		defer a.close()

		opts := server.Options{
			Registry:    a.registry,
			Gatherer:    reg,
			CORSOrigins: a.cfg.Server.CORSOrigins,
			Log:         os.Stderr,
		}
		if a.store != nil {
			opts.History = a.store
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.New(opts).ListenAndServe(ctx, a.cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().StringSlice("cors-origin", nil, "browser origin allowed to call the server (repeatable)")

	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("server.cors_origins", serveCmd.Flags().Lookup("cors-origin"))

	rootCmd.AddCommand(serveCmd)
}
