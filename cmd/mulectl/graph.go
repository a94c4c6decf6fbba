package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arya-s-cmd/financial-forensic-engine"
	"github.com/arya-s-cmd/financial-forensic-engine/internal/ingest"
)

var graphInput string

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the node/edge structure of a transaction file without running detectors",
	RunE:  runGraph,
}

func init() {
	graphCmd.Flags().StringVarP(&graphInput, "input", "i", "", "path to a CSV transaction file (required)")
	graphCmd.MarkFlagRequired("input")
}

func runGraph(cmd *cobra.Command, args []string) error {
	f, err := os.Open(graphInput)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	txns, err := ingest.FromCSV(f)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	g := mulegraph.BuildGraph(txns)
	export := mulegraph.ExportGraph(g)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(export)
}
