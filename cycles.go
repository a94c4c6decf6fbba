package mulegraph

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	cycleMinLen = 3
	cycleMaxLen = 5
)

var cycleBaseRisk = map[int]float64{
	3: 89.3,
	4: 87.7,
	5: 85.0,
}

// DetectCycles enumerates directed simple cycles of length 3-5.
// Canonical-start pruning (every visited node's rank >= rank(start)) makes
// each cycle reachable through exactly its lexicographically smallest
// member, and dedup by canonical rotation catches any residual duplicates.
func DetectCycles(g *Graph) ([]RingCandidate, EvidenceMap) {
	rank := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		rank[n] = i
	}

	seenCanon := make(map[string]struct{})
	var candidates []RingCandidate
	evidence := NewEvidenceMap()

	for _, start := range g.Nodes {
		path := make([]string, 0, cycleMaxLen)
		path = append(path, start)
		visited := map[string]bool{start: true}
		walkCycles(g, rank, start, path, visited, seenCanon, &candidates, evidence)
	}

	return candidates, evidence
}

func walkCycles(g *Graph, rank map[string]int, start string, path []string, visited map[string]bool, seenCanon map[string]struct{}, out *[]RingCandidate, evidence EvidenceMap) {
	current := path[len(path)-1]
	depth := len(path)

	for _, next := range g.OutAdj[current] {
		if next == start {
			if depth >= cycleMinLen && depth <= cycleMaxLen {
				canon := canonicalCycleKey(path)
				if _, ok := seenCanon[canon]; !ok {
					seenCanon[canon] = struct{}{}
					*out = append(*out, buildCycleCandidate(g, path, evidence))
				}
			}
			continue
		}
		if rank[next] < rank[start] {
			continue
		}
		if visited[next] {
			continue
		}
		if depth+1 > cycleMaxLen {
			continue
		}
		visited[next] = true
		path = append(path, next)
		walkCycles(g, rank, start, path, visited, seenCanon, out, evidence)
		path = path[:len(path)-1]
		visited[next] = false
	}
}

// canonicalCycleKey is the lexicographically smallest rotation of the cycle's
// node sequence, joined by "|", used purely for dedup.
func canonicalCycleKey(path []string) string {
	best := rotationAt(path, 0)
	for i := 1; i < len(path); i++ {
		candidate := rotationAt(path, i)
		if candidate < best {
			best = candidate
		}
	}
	return best
}

func rotationAt(path []string, start int) string {
	n := len(path)
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = path[(start+i)%n]
	}
	return strings.Join(parts, "|")
}

func buildCycleCandidate(g *Graph, path []string, evidence EvidenceMap) RingCandidate {
	length := len(path)

	members := make([]string, length)
	copy(members, path)

	var minFirst, maxLast int64
	first := true
	for i := 0; i < length; i++ {
		u := path[i]
		v := path[(i+1)%length]
		txs := g.EdgeTx[edgeKey{From: u, To: v}]
		if len(txs) == 0 {
			continue // no transactions recorded for this edge; contributes no span
		}
		edgeFirst := txs[0].Timestamp
		edgeLast := txs[len(txs)-1].Timestamp
		if first {
			minFirst, maxLast = edgeFirst, edgeLast
			first = false
			continue
		}
		if edgeFirst < minFirst {
			minFirst = edgeFirst
		}
		if edgeLast > maxLast {
			maxLast = edgeLast
		}
	}

	span := maxLast - minFirst
	if span < 0 {
		span = -span
	}

	risk := cycleBaseRisk[length]
	switch {
	case span <= 3600:
		risk += 10
	case span <= 6*3600:
		risk += 6
	case span <= 24*3600:
		risk += 3
	}
	risk = clampScore(risk)

	lengthTag := fmt.Sprintf("cycle_length_%s", strconv.Itoa(length))
	for _, m := range members {
		evidence.Add(m, lengthTag)
		evidence.Add(m, TagCycle)
	}

	return RingCandidate{
		Pattern:   PatternCycle,
		Members:   members,
		RiskScore: math.Round(risk*10) / 10,
	}
}
