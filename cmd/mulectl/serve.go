package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arya-s-cmd/financial-forensic-engine/internal/api"
	"github.com/arya-s-cmd/financial-forensic-engine/internal/store"
	"github.com/arya-s-cmd/financial-forensic-engine/internal/telemetry"
)

var (
	serveAddr        string
	serveDBPath      string
	serveMetricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and progress-stream server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "mulegraph-runs.db", "path to the run-history database")
	serveCmd.Flags().StringVar(&serveMetricsAddr, "metrics-addr", ":9090", "address to expose Prometheus metrics on")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := telemetry.Logger("api", false)

	db, err := store.Open(serveDBPath)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer db.Close()

	metrics, registry := telemetry.NewMetrics()
	if err := metrics.StartServer(serveMetricsAddr, registry); err != nil {
		return fmt.Errorf("start metrics server: %w", err)
	}
	log.Info().Str("addr", serveMetricsAddr).Msg("metrics server listening")

	tracer, shutdownTracer, err := telemetry.NewTracer("mulectl")
	if err != nil {
		return fmt.Errorf("start tracer: %w", err)
	}
	defer func() { _ = shutdownTracer(cmd.Context()) }()

	hub := api.NewHub(log)
	go hub.Run()

	srv := &api.Server{Store: db, Hub: hub, Log: log, Metrics: metrics, Tracer: tracer}
	router := api.NewRouter(srv)

	log.Info().Str("addr", serveAddr).Msg("listening")
	return router.Run(serveAddr)
}
