package mulegraph

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunResult bundles a completed analysis run's report with the run
// identifier assigned at entry.
type RunResult struct {
	RunID  string
	Report Report
}

// Run is the pipeline's single entry point: validate, build the graph, run
// the three detectors, merge rings, score accounts, assemble the report.
// Detectors are independent of each other (the graph they walk is
// immutable once built) and are invoked sequentially here; nothing downstream
// depends on wall-clock scheduling of the three calls.
func Run(txns []Transaction) (RunResult, error) {
	start := time.Now()
	runID := uuid.New().String()

	if err := ValidateTransactions(txns); err != nil {
		return RunResult{}, fmt.Errorf("mulegraph: run: %w", err)
	}

	g := BuildGraph(txns)

	cycleRings, cycleEvidence := DetectCycles(g)
	smurfRings, smurfEvidence := DetectSmurfing(g)
	shellRings, shellEvidence := DetectShellChains(g)

	var allRings []RingCandidate
	allRings = append(allRings, cycleRings...)
	allRings = append(allRings, smurfRings...)
	allRings = append(allRings, shellRings...)

	evidence := NewEvidenceMap()
	evidence.Union(cycleEvidence)
	evidence.Union(smurfEvidence)
	evidence.Union(shellEvidence)

	merged := MergeRings(allRings)
	states := ScoreAccounts(g, merged, evidence)

	elapsed := time.Since(start).Seconds()
	report := AssembleReport(g, merged, states, runID, start.UTC(), elapsed)

	return RunResult{
		RunID:  runID,
		Report: report,
	}, nil
}
