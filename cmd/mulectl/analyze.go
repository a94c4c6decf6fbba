package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arya-s-cmd/financial-forensic-engine"
	"github.com/arya-s-cmd/financial-forensic-engine/internal/ingest"
	"github.com/arya-s-cmd/financial-forensic-engine/internal/store"
	"github.com/arya-s-cmd/financial-forensic-engine/internal/telemetry"
)

var (
	analyzeInput  string
	analyzeDBPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the fraud-ring pipeline over a CSV transaction file",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "", "path to a CSV transaction file (required)")
	analyzeCmd.Flags().StringVar(&analyzeDBPath, "db", "mulegraph-runs.db", "path to the run-history database")
	analyzeCmd.MarkFlagRequired("input")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := telemetry.Logger("analyze", false)

	f, err := os.Open(analyzeInput)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	txns, err := ingest.FromCSV(f)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	log.Info().Int("transactions", len(txns)).Msg("parsed input")

	result, err := mulegraph.Run(txns)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	log.Info().
		Str("run_id", result.RunID).
		Int("fraud_rings", result.Report.Summary.FraudRingsDetected).
		Int("suspicious_accounts", result.Report.Summary.SuspiciousAccountsFlagged).
		Msg("run complete")

	db, err := store.Open(analyzeDBPath)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer db.Close()

	if err := db.SaveRun(store.RunRecord{
		RunID:       result.RunID,
		CompletedAt: time.Now().UTC(),
		Report:      result.Report,
		Graph:       mulegraph.ExportGraph(mulegraph.BuildGraph(txns)),
	}); err != nil {
		log.Warn().Err(err).Msg("failed to persist run")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result.Report)
}
