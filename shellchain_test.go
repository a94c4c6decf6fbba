package mulegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectShellChains_FourNodeChain(t *testing.T) {
	txns := []Transaction{
		{Sender: "S", Receiver: "I1", Amount: 1000, Timestamp: 0},
		{Sender: "I1", Receiver: "I2", Amount: 1000, Timestamp: 100},
		{Sender: "I2", Receiver: "C", Amount: 1000, Timestamp: 200},
	}
	g := BuildGraph(txns)
	rings, evidence := DetectShellChains(g)

	require.Len(t, rings, 1)
	ring := rings[0]
	assert.Equal(t, PatternLayeredShell, ring.Pattern)
	assert.Equal(t, []string{"S", "I1", "I2", "C"}, ring.Members)

	assert.Contains(t, evidence["S"], TagSourceFunds)
	assert.Contains(t, evidence["I1"], TagLowActivityShell)
	assert.Contains(t, evidence["I2"], TagPreCashout)
	assert.Contains(t, evidence["C"], TagCashOut)
	for _, acc := range []string{"S", "I1", "I2", "C"} {
		assert.Contains(t, evidence[acc], TagLayeredShellChain)
	}
}

func TestDetectShellChains_TooFewHopsRejected(t *testing.T) {
	txns := []Transaction{
		{Sender: "S", Receiver: "I1", Amount: 1000, Timestamp: 0},
		{Sender: "I1", Receiver: "C", Amount: 1000, Timestamp: 100},
	}
	g := BuildGraph(txns)
	rings, _ := DetectShellChains(g)
	assert.Empty(t, rings)
}

func TestDetectShellChains_HighActivityIntermediateRejected(t *testing.T) {
	txns := []Transaction{
		{Sender: "S", Receiver: "I1", Amount: 1000, Timestamp: 0},
		{Sender: "I1", Receiver: "I2", Amount: 1000, Timestamp: 100},
		{Sender: "I2", Receiver: "C", Amount: 1000, Timestamp: 200},
		// I1 picks up extra counterparties, pushing its degree above the
		// low-activity ceiling.
		{Sender: "I1", Receiver: "X1", Amount: 50, Timestamp: 300},
		{Sender: "I1", Receiver: "X2", Amount: 50, Timestamp: 400},
	}
	g := BuildGraph(txns)
	rings, _ := DetectShellChains(g)
	assert.Empty(t, rings)
}

func TestDetectShellChains_AmountRatioExceededRejected(t *testing.T) {
	txns := []Transaction{
		{Sender: "S", Receiver: "I1", Amount: 1000, Timestamp: 0},
		{Sender: "I1", Receiver: "I2", Amount: 1000, Timestamp: 100},
		{Sender: "I2", Receiver: "C", Amount: 5000, Timestamp: 200}, // ratio 5x
	}
	g := BuildGraph(txns)
	rings, _ := DetectShellChains(g)
	assert.Empty(t, rings)
}
