package mulegraph

import (
	"math"
	"sort"
)

// GraphNode is one account in the export projection.
type GraphNode struct {
	ID string `json:"id"`
}

// GraphEdge is one aggregated directed pair in the export projection.
type GraphEdge struct {
	ID          string  `json:"id"`
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	TxCount     int     `json:"tx_count"`
	TotalAmount float64 `json:"total_amount"`
}

// GraphExport is the pure structural projection of a built graph: nodes and
// aggregated edges, independent of any detector.
type GraphExport struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// ExportGraph projects g into its node/edge view. Edge order is
// deterministic: ascending by source, then target.
func ExportGraph(g *Graph) GraphExport {
	type pair struct{ from, to string }
	keys := make([]pair, 0, len(g.EdgeTx))
	for ek := range g.EdgeTx {
		keys = append(keys, pair{ek.From, ek.To})
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].from != keys[j].from {
			return keys[i].from < keys[j].from
		}
		return keys[i].to < keys[j].to
	})

	edges := make([]GraphEdge, 0, len(keys))
	for _, k := range keys {
		txs := g.EdgeTx[edgeKey{From: k.from, To: k.to}]
		var total float64
		for _, t := range txs {
			total += t.Amount
		}
		edges = append(edges, GraphEdge{
			ID:          k.from + "__" + k.to,
			Source:      k.from,
			Target:      k.to,
			TxCount:     len(txs),
			TotalAmount: math.Round(total*100) / 100,
		})
	}

	nodes := make([]GraphNode, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = GraphNode{ID: n}
	}

	return GraphExport{Nodes: nodes, Edges: edges}
}
