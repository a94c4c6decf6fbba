package mulegraph

import (
	"math"
	"strings"
)

const (
	shellMinDegree      = 2
	shellMaxDegree      = 3
	shellMinEdges       = 3
	shellMaxEdges       = 6
	shellMaxPathsPerStart = 25
	shellBackwardSlack  = 3600
	shellMaxGap         = 24 * 3600
	shellAmountRatioMax = 1.35
)

// DetectShellChains finds 3-6 hop chains through low-activity pass-through
// nodes with tight temporal/amount propagation.
func DetectShellChains(g *Graph) ([]RingCandidate, EvidenceMap) {
	lowActivity := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		d := g.Degree[n]
		if d >= shellMinDegree && d <= shellMaxDegree {
			lowActivity[n] = true
		}
	}

	seenSig := make(map[string]struct{})
	var candidates []RingCandidate
	evidence := NewEvidenceMap()

	for _, start := range g.Nodes {
		successCount := 0
		path := make([]string, 0, shellMaxEdges+1)
		path = append(path, start)
		visited := map[string]bool{start: true}
		walkShellChains(g, lowActivity, path, visited, &successCount, seenSig, &candidates, evidence)
	}

	return candidates, evidence
}

func walkShellChains(g *Graph, lowActivity map[string]bool, path []string, visited map[string]bool, successCount *int, seenSig map[string]struct{}, out *[]RingCandidate, evidence EvidenceMap) {
	if *successCount >= shellMaxPathsPerStart {
		return
	}
	edgeDepth := len(path) - 1
	if edgeDepth >= shellMaxEdges {
		return
	}
	current := path[len(path)-1]

	for _, next := range g.OutAdj[current] {
		if visited[next] {
			continue
		}

		path = append(path, next)
		newEdgeDepth := edgeDepth + 1

		if newEdgeDepth >= shellMinEdges && newEdgeDepth <= shellMaxEdges && *successCount < shellMaxPathsPerStart {
			if cand, ok := acceptShellChain(g, lowActivity, path, evidence); ok {
				sig := strings.Join(path, "|")
				if _, dup := seenSig[sig]; !dup {
					seenSig[sig] = struct{}{}
					*out = append(*out, cand)
					*successCount++
				}
			}
		}

		canContinue := true
		if newEdgeDepth >= 2 {
			canContinue = lowActivity[next]
		}

		if canContinue && newEdgeDepth < shellMaxEdges && *successCount < shellMaxPathsPerStart {
			visited[next] = true
			walkShellChains(g, lowActivity, path, visited, successCount, seenSig, out, evidence)
			visited[next] = false
		}

		path = path[:len(path)-1]
	}
}

// acceptShellChain runs the full acceptance test on a candidate path and, if
// it passes, records evidence tags and returns the ring candidate.
func acceptShellChain(g *Graph, lowActivity map[string]bool, path []string, evidence EvidenceMap) (RingCandidate, bool) {
	l := len(path) - 1 // edge count

	for i := 1; i <= l-1; i++ {
		node := path[i]
		if !lowActivity[node] {
			return RingCandidate{}, false
		}
		if g.InDegree(node) != 1 || g.OutDegree(node) != 1 {
			return RingCandidate{}, false
		}
	}

	edgeFirstT := make([]int64, l)
	edgeMedianAmt := make([]float64, l)
	var minFirst, maxLast int64
	for i := 0; i < l; i++ {
		u, v := path[i], path[i+1]
		txs := g.EdgeTx[edgeKey{From: u, To: v}]
		if len(txs) == 0 {
			return RingCandidate{}, false
		}
		edgeFirstT[i] = txs[0].Timestamp
		lastT := txs[len(txs)-1].Timestamp
		if i == 0 {
			minFirst, maxLast = edgeFirstT[i], lastT
		} else {
			if edgeFirstT[i] < minFirst {
				minFirst = edgeFirstT[i]
			}
			if lastT > maxLast {
				maxLast = lastT
			}
		}
		amounts := make([]float64, len(txs))
		for k, t := range txs {
			amounts[k] = t.Amount
		}
		edgeMedianAmt[i] = median(amounts)
	}

	for i := 1; i < l; i++ {
		if edgeFirstT[i]+shellBackwardSlack < edgeFirstT[i-1] {
			return RingCandidate{}, false
		}
		diff := edgeFirstT[i] - edgeFirstT[i-1]
		if diff < 0 {
			diff = -diff
		}
		if diff > shellMaxGap {
			return RingCandidate{}, false
		}
		a, b := edgeMedianAmt[i], edgeMedianAmt[i-1]
		if a > 0 && b > 0 {
			larger, smaller := a, b
			if smaller > larger {
				larger, smaller = smaller, larger
			}
			if larger/smaller > shellAmountRatioMax {
				return RingCandidate{}, false
			}
		}
	}

	span := maxLast - minFirst
	if span < 0 {
		span = -span
	}

	risk := 78 + 3.5*float64(l-3)
	switch {
	case span <= 2*3600:
		risk += 10
	case span <= 12*3600:
		risk += 6
	case span <= 48*3600:
		risk += 3
	}
	risk = clampScore(risk)

	members := make([]string, len(path))
	copy(members, path)

	evidence.Add(path[0], TagLayeredShellChain)
	evidence.Add(path[0], TagSourceFunds)
	for i := 1; i <= l-2; i++ {
		evidence.Add(path[i], TagLayeredShellChain)
		evidence.Add(path[i], TagLowActivityShell)
	}
	evidence.Add(path[l-1], TagLayeredShellChain)
	evidence.Add(path[l-1], TagPreCashout)
	evidence.Add(path[l], TagLayeredShellChain)
	evidence.Add(path[l], TagCashOut)

	return RingCandidate{
		Pattern:   PatternLayeredShell,
		Members:   members,
		RiskScore: math.Round(risk*10) / 10,
	}, true
}
