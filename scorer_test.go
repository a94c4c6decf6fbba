package mulegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreAccounts_EveryNodeInitialized(t *testing.T) {
	txns := []Transaction{{Sender: "A", Receiver: "B", Amount: 1, Timestamp: 1}}
	g := BuildGraph(txns)
	states := ScoreAccounts(g, nil, NewEvidenceMap())
	require.Len(t, states, 2)
	assert.Equal(t, 0.0, states["A"].Score)
	assert.Empty(t, states["A"].Tags)
	assert.Nil(t, states["A"].RingID)
}

func TestScoreAccounts_CycleMembersScoredNearRingRisk(t *testing.T) {
	txns := []Transaction{
		{Sender: "A", Receiver: "B", Amount: 10, Timestamp: 1},
		{Sender: "B", Receiver: "C", Amount: 10, Timestamp: 2},
		{Sender: "C", Receiver: "A", Amount: 10, Timestamp: 3},
	}
	g := BuildGraph(txns)
	rings, evidence := DetectCycles(g)
	states := ScoreAccounts(g, rings, evidence)

	for _, acc := range []string{"A", "B", "C"} {
		assert.InDelta(t, rings[0].RiskScore-3.1, states[acc].Score, 0.4)
	}
}

func TestScoreAccounts_IsolatedNodeStaysZero(t *testing.T) {
	txns := []Transaction{
		{Sender: "A", Receiver: "B", Amount: 10, Timestamp: 1},
		{Sender: "C", Receiver: "D", Amount: 10, Timestamp: 2},
	}
	g := BuildGraph(txns)
	states := ScoreAccounts(g, nil, NewEvidenceMap())
	assert.Equal(t, 0.0, states["A"].Score)
	assert.Equal(t, 0.0, states["D"].Score)
}

func TestFNVJitter_DeterministicAndBounded(t *testing.T) {
	j1 := fnvJitter("ACC1", "cycle")
	j2 := fnvJitter("ACC1", "cycle")
	assert.Equal(t, j1, j2)
	assert.GreaterOrEqual(t, j1, -0.4)
	assert.LessOrEqual(t, j1, 0.4)
}

func TestRingSignature_OrderIndependentOfMemberOrder(t *testing.T) {
	r1 := RingCandidate{Pattern: PatternCycle, Members: []string{"B", "A", "C"}}
	r2 := RingCandidate{Pattern: PatternCycle, Members: []string{"C", "B", "A"}}
	assert.Equal(t, ringSignature(r1), ringSignature(r2))
}
