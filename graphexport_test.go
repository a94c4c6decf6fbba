package mulegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportGraph_AggregatesEdgesDeterministically(t *testing.T) {
	txns := []Transaction{
		{Sender: "A", Receiver: "B", Amount: 10.005, Timestamp: 1},
		{Sender: "A", Receiver: "B", Amount: 5.0, Timestamp: 2},
		{Sender: "B", Receiver: "A", Amount: 1.0, Timestamp: 3},
	}
	g := BuildGraph(txns)
	export := ExportGraph(g)

	require.Equal(t, []GraphNode{{ID: "A"}, {ID: "B"}}, export.Nodes)
	require.Len(t, export.Edges, 2)
	assert.Equal(t, "A__B", export.Edges[0].ID)
	assert.Equal(t, 2, export.Edges[0].TxCount)
	assert.InDelta(t, 15.0, export.Edges[0].TotalAmount, 0.01)
	assert.Equal(t, "B__A", export.Edges[1].ID)
}
