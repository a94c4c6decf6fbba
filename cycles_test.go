package mulegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCycles_PureThreeCycle(t *testing.T) {
	txns := []Transaction{
		{Sender: "A", Receiver: "B", Amount: 100, Timestamp: 1000},
		{Sender: "B", Receiver: "C", Amount: 100, Timestamp: 2000},
		{Sender: "C", Receiver: "A", Amount: 100, Timestamp: 3000},
	}
	g := BuildGraph(txns)
	rings, evidence := DetectCycles(g)

	require.Len(t, rings, 1)
	ring := rings[0]
	assert.Equal(t, PatternCycle, ring.Pattern)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, ring.Members)
	assert.InDelta(t, 89.3+10, ring.RiskScore, 0.01) // span 2000s <= 1h

	for _, acc := range []string{"A", "B", "C"} {
		assert.Contains(t, evidence[acc], TagCycleLength3)
		assert.Contains(t, evidence[acc], TagCycle)
	}
}

func TestDetectCycles_EmptyGraphYieldsNoRings(t *testing.T) {
	g := BuildGraph(nil)
	rings, evidence := DetectCycles(g)
	assert.Empty(t, rings)
	assert.Empty(t, evidence)
}

func TestDetectCycles_NoBackEdgeNoCycle(t *testing.T) {
	txns := []Transaction{
		{Sender: "A", Receiver: "B", Amount: 10, Timestamp: 1},
		{Sender: "B", Receiver: "C", Amount: 10, Timestamp: 2},
	}
	g := BuildGraph(txns)
	rings, _ := DetectCycles(g)
	assert.Empty(t, rings)
}

func TestDetectCycles_DedupesRotations(t *testing.T) {
	// Two entry points into the same physical triangle must not double-count.
	txns := []Transaction{
		{Sender: "A", Receiver: "B", Amount: 10, Timestamp: 1},
		{Sender: "B", Receiver: "C", Amount: 10, Timestamp: 2},
		{Sender: "C", Receiver: "A", Amount: 10, Timestamp: 3},
	}
	g := BuildGraph(txns)
	rings, _ := DetectCycles(g)
	assert.Len(t, rings, 1)
}

func TestDetectCycles_LengthOutOfRangeSkipped(t *testing.T) {
	// A 6-hop cycle exceeds the max length of 5 and must not be reported.
	nodes := []string{"A", "B", "C", "D", "E", "F"}
	var txns []Transaction
	for i, n := range nodes {
		next := nodes[(i+1)%len(nodes)]
		txns = append(txns, Transaction{Sender: n, Receiver: next, Amount: 10, Timestamp: int64(i)})
	}
	g := BuildGraph(txns)
	rings, _ := DetectCycles(g)
	assert.Empty(t, rings)
}
