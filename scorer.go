package mulegraph

import (
	"math"
	"sort"
	"strings"
)

const (
	fnvOffsetBasis32 = 2166136261
	fnvPrime32       = 16777619
)

// AccountScoreState is the per-account mutable state the scorer owns. Every
// graph node starts here with score 0 and an empty tag set. RingID is never
// set by the scorer — the assembler owns final ring id assignment, so this
// field stays nil throughout scoring.
type AccountScoreState struct {
	Account string
	Score   float64
	Tags    map[string]struct{}
	RingID  *string
}

// ScoreAccounts initializes state for every graph node, then assigns
// role-aware suspicion scores from each account's best ring. evidence
// is the union of every detector's per-account evidence map, already merged
// by the caller before scoring.
func ScoreAccounts(g *Graph, rings []RingCandidate, evidence EvidenceMap) map[string]*AccountScoreState {
	states := make(map[string]*AccountScoreState, len(g.Nodes))
	for _, n := range g.Nodes {
		states[n] = &AccountScoreState{Account: n, Tags: make(map[string]struct{})}
	}

	membership := make(map[string][]int, len(g.Nodes))
	for i, r := range rings {
		for _, m := range r.Members {
			membership[m] = append(membership[m], i)
		}
	}

	for _, n := range g.Nodes {
		state := states[n]

		if tags, ok := evidence[n]; ok {
			for tag := range tags {
				state.Tags[tag] = struct{}{}
			}
		}

		idxs := membership[n]
		if len(idxs) == 0 {
			continue
		}

		bestIdx := idxs[0]
		for _, idx := range idxs[1:] {
			if betterRingForScoring(rings[idx], rings[bestIdx]) {
				bestIdx = idx
			}
		}
		ring := rings[bestIdx]

		j := fnvJitter(n, string(ring.Pattern))
		state.Score = clampScore(round1(roleScore(ring, n, state.Tags, j)))
	}

	return states
}

// betterRingForScoring reports whether candidate should replace current as
// the account's best ring: higher risk wins, ties broken by the
// lexicographically smaller ring signature (the only deterministic identity
// available before the assembler assigns RING_NNN ids).
func betterRingForScoring(candidate, current RingCandidate) bool {
	if candidate.RiskScore != current.RiskScore {
		return candidate.RiskScore > current.RiskScore
	}
	return ringSignature(candidate) < ringSignature(current)
}

// ringSignature is <pattern>|<sorted-unique-members-joined-by-comma>.
func ringSignature(r RingCandidate) string {
	members := dedupeMembersPreserveFirst(r.Members)
	sorted := make([]string, len(members))
	copy(sorted, members)
	sort.Strings(sorted)
	return string(r.Pattern) + "|" + strings.Join(sorted, ",")
}

func roleScore(ring RingCandidate, account string, tags map[string]struct{}, j float64) float64 {
	risk := ring.RiskScore
	has := func(tag string) bool {
		_, ok := tags[tag]
		return ok
	}

	switch ring.Pattern {
	case PatternCycle:
		return risk - 3.1 + j

	case PatternSmurfing:
		hub := ""
		if len(ring.Members) > 0 {
			hub = ring.Members[0]
		}
		switch {
		case account == hub:
			return risk + 2.8
		case has(TagCashOut):
			return risk + 1.7
		case has(TagSmurfingFanOut):
			return risk - 5.9 + j
		case has(TagSmurfingFanIn):
			return risk - 16.4 + j
		default:
			return risk - 10 + j
		}

	case PatternLayeredShell:
		switch {
		case has(TagCashOut):
			return risk + 2.2
		case has(TagLowActivityShell):
			return risk + 0.4 + j
		case has(TagPreCashout):
			return risk - 1.7 + j
		case has(TagSourceFunds):
			return risk - 5.4 + j
		default:
			return risk - 1.0 + j
		}
	}

	return risk
}

// fnv1a32 hashes s with the standard 32-bit FNV-1a constants.
func fnv1a32(s string) uint32 {
	h := uint32(fnvOffsetBasis32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime32
	}
	return h
}

// fnvJitter maps FNV-1a-32(account|pattern) into [-0.4, +0.4].
func fnvJitter(account, pattern string) float64 {
	h := fnv1a32(account + "|" + pattern)
	frac := float64(h) / 4294967296.0 // 2^32
	return (frac - 0.5) * 0.8
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
