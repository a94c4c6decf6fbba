package mulegraph

import (
	"fmt"
	"sort"
	"time"
)

// Summary carries the pipeline's run-level counters.
type Summary struct {
	TotalAccountsAnalyzed     int     `json:"total_accounts_analyzed"`
	SuspiciousAccountsFlagged int     `json:"suspicious_accounts_flagged"`
	FraudRingsDetected        int     `json:"fraud_rings_detected"`
	ProcessingTimeSeconds     float64 `json:"processing_time_seconds"`
}

// FraudRing is the output document's stable ring record.
type FraudRing struct {
	RingID         string   `json:"ring_id"`
	PatternType    string   `json:"pattern_type"`
	MemberAccounts []string `json:"member_accounts"`
	RiskScore      float64  `json:"risk_score"`
}

// SuspiciousAccount is the output document's per-account record.
type SuspiciousAccount struct {
	AccountID        string   `json:"account_id"`
	SuspicionScore   float64  `json:"suspicion_score"`
	DetectedPatterns []string `json:"detected_patterns"`
	RingID           *string  `json:"ring_id"`
}

// Report is the canonical output document.
type Report struct {
	RunID              string              `json:"run_id"`
	StartedAt          time.Time           `json:"started_at"`
	EngineVersion      string              `json:"engine_version"`
	Summary            Summary             `json:"summary"`
	FraudRings         []FraudRing         `json:"fraud_rings"`
	SuspiciousAccounts []SuspiciousAccount `json:"suspicious_accounts"`
}

const suspicionScoreCutoff = 60.0

// EngineVersion identifies the detection engine build that produced a report.
const EngineVersion = "0.1.0"

// AssembleReport deduplicates rings by (pattern, member-set), assigns stable
// RING_NNN identifiers, filters accounts by score threshold, and produces
// the final document. runID and startedAt are carried through unchanged from
// the pipeline entry as run metadata; elapsedSeconds is the wall-clock time
// measured by the caller from pipeline entry.
func AssembleReport(g *Graph, rings []RingCandidate, states map[string]*AccountScoreState, runID string, startedAt time.Time, elapsedSeconds float64) Report {
	canonical := canonicalizeRings(rings)

	sort.Slice(canonical, func(i, j int) bool {
		pi, pj := patternPriority(canonical[i].Pattern), patternPriority(canonical[j].Pattern)
		if pi != pj {
			return pi < pj
		}
		return ringSignature(canonical[i]) < ringSignature(canonical[j])
	})

	fraudRings := make([]FraudRing, len(canonical))
	// memberRings tracks, per account, every (ringID, riskScore) pair so the
	// final best-ring-per-member pass (below) can run after IDs exist.
	type ringRef struct {
		id   string
		risk float64
	}
	memberRings := make(map[string][]ringRef, len(g.Nodes))

	for i, ring := range canonical {
		id := fmt.Sprintf("RING_%03d", i+1)
		members := emitMembers(ring)

		fraudRings[i] = FraudRing{
			RingID:         id,
			PatternType:    string(ring.Pattern),
			MemberAccounts: members,
			RiskScore:      ring.RiskScore,
		}

		for _, m := range members {
			memberRings[m] = append(memberRings[m], ringRef{id: id, risk: ring.RiskScore})
		}
	}

	var suspicious []SuspiciousAccount
	for _, n := range g.Nodes {
		state := states[n]
		if state == nil || len(state.Tags) == 0 || state.Score < suspicionScoreCutoff {
			continue
		}

		var ringID *string
		if refs := memberRings[n]; len(refs) > 0 {
			best := refs[0]
			for _, r := range refs[1:] {
				if r.risk > best.risk || (r.risk == best.risk && r.id < best.id) {
					best = r
				}
			}
			id := best.id
			ringID = &id
		}

		tags := make([]string, 0, len(state.Tags))
		for t := range state.Tags {
			tags = append(tags, t)
		}

		suspicious = append(suspicious, SuspiciousAccount{
			AccountID:        n,
			SuspicionScore:   state.Score,
			DetectedPatterns: sortTags(tags),
			RingID:           ringID,
		})
	}

	sort.Slice(suspicious, func(i, j int) bool {
		if suspicious[i].SuspicionScore != suspicious[j].SuspicionScore {
			return suspicious[i].SuspicionScore > suspicious[j].SuspicionScore
		}
		return suspicious[i].AccountID < suspicious[j].AccountID
	})

	return Report{
		RunID:         runID,
		StartedAt:     startedAt,
		EngineVersion: EngineVersion,
		Summary: Summary{
			TotalAccountsAnalyzed:     len(g.Nodes),
			SuspiciousAccountsFlagged: len(suspicious),
			FraudRingsDetected:        len(fraudRings),
			ProcessingTimeSeconds:     round3(elapsedSeconds),
		},
		FraudRings:         fraudRings,
		SuspiciousAccounts: suspicious,
	}
}

// canonicalizeRings keeps the highest-risk ring per (pattern, member-set)
// signature.
func canonicalizeRings(rings []RingCandidate) []RingCandidate {
	bestBySig := make(map[string]RingCandidate)
	var sigOrder []string
	for _, r := range rings {
		sig := ringSignature(r)
		if existing, ok := bestBySig[sig]; !ok {
			bestBySig[sig] = r
			sigOrder = append(sigOrder, sig)
		} else if r.RiskScore > existing.RiskScore {
			bestBySig[sig] = r
		}
	}

	out := make([]RingCandidate, 0, len(sigOrder))
	for _, sig := range sigOrder {
		out = append(out, bestBySig[sig])
	}
	return out
}

// emitMembers applies the pattern-specific member ordering rule at output
// time: cycles are re-sorted ascending (rotationally symmetric, no
// meaningful head); smurfing and layered_shell preserve detector order with
// duplicates removed by first occurrence.
func emitMembers(ring RingCandidate) []string {
	members := dedupeMembersPreserveFirst(ring.Members)
	if ring.Pattern != PatternCycle {
		return members
	}
	sorted := make([]string, len(members))
	copy(sorted, members)
	sort.Strings(sorted)
	return sorted
}

func round3(v float64) float64 {
	return float64(int64(v*1000+0.5)) / 1000
}
