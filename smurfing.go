package mulegraph

import (
	"math"
	"sort"
)

const (
	smurfingWindow    = 72 * 3600
	smurfingMinUnique = 10
	smurfingAmountTol = 0.08
	smurfingStrongIn  = 0.50
	smurfingStrongOut = 0.45
)

// counterpartyWindow is the best (tightest, maximal-unique) window found over
// one side (in or out) of a hub's transaction list.
type counterpartyWindow struct {
	counterparties map[string]struct{}
	amounts        []float64
	minT, maxT     int64
	ok             bool
}

// DetectSmurfing identifies fan-in/fan-out hubs within a 72h window.
func DetectSmurfing(g *Graph) ([]RingCandidate, EvidenceMap) {
	var candidates []RingCandidate
	evidence := NewEvidenceMap()

	for _, h := range g.Nodes {
		inTx := g.InTx[h]
		outTx := g.OutTx[h]
		if len(inTx) < smurfingMinUnique || len(outTx) < smurfingMinUnique {
			continue
		}

		inWin := bestCounterpartyWindow(inTx, func(t Transaction) string { return t.Sender })
		if !inWin.ok {
			continue
		}
		outWin := bestCounterpartyWindow(outTx, func(t Transaction) string { return t.Receiver })
		if !outWin.ok {
			continue
		}

		minT := inWin.minT
		if outWin.minT < minT {
			minT = outWin.minT
		}
		maxT := inWin.maxT
		if outWin.maxT > maxT {
			maxT = outWin.maxT
		}
		if maxT-minT > smurfingWindow {
			continue
		}

		inCons := amountConsistency(inWin.amounts)
		outCons := amountConsistency(outWin.amounts)
		if inCons < smurfingStrongIn && outCons < smurfingStrongOut {
			continue
		}

		senders := sortedSetKeys(inWin.counterparties)
		receivers := sortedSetKeys(outWin.counterparties)
		receiverSet := outWin.counterparties

		cashout := findCashout(g, h, receiverSet, minT, maxT)

		members := make([]string, 0, 2+len(senders)+len(receivers))
		members = append(members, h)
		members = append(members, senders...)
		members = append(members, receivers...)
		if cashout != "" {
			members = append(members, cashout)
		}
		members = dedupeMembersPreserveFirst(members)

		maxCons := inCons
		if outCons > maxCons {
			maxCons = outCons
		}
		risk := 70 + 1.2*float64(len(senders)) + 1.2*float64(len(receivers)) + 6*maxCons
		if cashout != "" {
			risk += 4
		}
		risk = clampScore(risk)

		evidence.Add(h, TagSmurfingFanIn)
		evidence.Add(h, TagSmurfingFanOut)
		evidence.Add(h, TagTemporal72h)
		for _, s := range senders {
			evidence.Add(s, TagSmurfingFanIn)
			evidence.Add(s, TagTemporal72h)
		}
		for _, r := range receivers {
			evidence.Add(r, TagSmurfingFanOut)
			evidence.Add(r, TagTemporal72h)
		}
		if cashout != "" {
			evidence.Add(cashout, TagSmurfingFanOut)
			evidence.Add(cashout, TagTemporal72h)
			evidence.Add(cashout, TagCashOut)
		}

		candidates = append(candidates, RingCandidate{
			Pattern:   PatternSmurfing,
			Members:   members,
			RiskScore: math.Round(risk*10) / 10,
		})
	}

	return candidates, evidence
}

// bestCounterpartyWindow finds the minimum-span contiguous window of txs
// (already time-ascending) that covers every distinct counterparty the node
// transacts with, then reports it if that distinct count meets the minimum.
// This is the classic "smallest window containing all distinct values" scan:
// no window can have more unique counterparties than the full list, so the
// maximizing windows are exactly those covering all of them, and among those
// we want the tightest one.
func bestCounterpartyWindow(txs []Transaction, counterpartyOf func(Transaction) string) counterpartyWindow {
	n := len(txs)
	if n == 0 {
		return counterpartyWindow{}
	}

	totalDistinct := make(map[string]struct{}, n)
	for _, t := range txs {
		totalDistinct[counterpartyOf(t)] = struct{}{}
	}
	if len(totalDistinct) < smurfingMinUnique {
		return counterpartyWindow{}
	}
	target := len(totalDistinct)

	freq := make(map[string]int, target)
	distinctInWindow := 0
	lo := 0
	bestLo, bestHi := -1, -1
	var bestSpan int64 = math.MaxInt64

	for hi := 0; hi < n; hi++ {
		cp := counterpartyOf(txs[hi])
		if freq[cp] == 0 {
			distinctInWindow++
		}
		freq[cp]++

		for distinctInWindow == target {
			span := txs[hi].Timestamp - txs[lo].Timestamp
			if span < bestSpan {
				bestSpan = span
				bestLo, bestHi = lo, hi
			}
			cpLo := counterpartyOf(txs[lo])
			freq[cpLo]--
			if freq[cpLo] == 0 {
				distinctInWindow--
			}
			lo++
		}
	}

	if bestLo == -1 {
		return counterpartyWindow{}
	}

	window := txs[bestLo : bestHi+1]
	counterparties := make(map[string]struct{}, target)
	amounts := make([]float64, 0, len(window))
	for _, t := range window {
		counterparties[counterpartyOf(t)] = struct{}{}
		amounts = append(amounts, t.Amount)
	}

	return counterpartyWindow{
		counterparties: counterparties,
		amounts:        amounts,
		minT:           txs[bestLo].Timestamp,
		maxT:           txs[bestHi].Timestamp,
		ok:             true,
	}
}

// amountConsistency is the fraction of amounts within AMOUNT_TOL*median of
// the median; undefined (0) for fewer than 6 amounts.
func amountConsistency(amounts []float64) float64 {
	if len(amounts) < 6 {
		return 0
	}
	m := median(amounts)
	tol := smurfingAmountTol * m
	count := 0
	for _, a := range amounts {
		d := a - m
		if d < 0 {
			d = -d
		}
		if d <= tol {
			count++
		}
	}
	return float64(count) / float64(len(amounts))
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// findCashout scans all nodes for a sink-like account receiving from at
// least smurfingMinUnique of the hub's receivers within [minT,maxT], picking
// the one with the most such senders (ties broken lexicographically, via
// iteration order, by keeping the first-seen maximum).
func findCashout(g *Graph, hub string, hubReceivers map[string]struct{}, minT, maxT int64) string {
	best := ""
	bestCount := 0

	for _, c := range g.Nodes {
		if c == hub {
			continue
		}
		if len(g.OutTx[c]) > 2 {
			continue
		}

		senders := make(map[string]struct{})
		for _, t := range g.InTx[c] {
			if t.Timestamp < minT || t.Timestamp > maxT {
				continue
			}
			if _, ok := hubReceivers[t.Sender]; !ok {
				continue
			}
			senders[t.Sender] = struct{}{}
		}

		if len(senders) < smurfingMinUnique {
			continue
		}
		if len(senders) > bestCount {
			bestCount = len(senders)
			best = c
		}
	}

	return best
}

func sortedSetKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
