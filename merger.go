package mulegraph

// mergeJaccardThreshold is the similarity cutoff at or above which two
// same-pattern rings are treated as the same ring.
const mergeJaccardThreshold = 0.6

// MergeRings collapses near-duplicate rings of the same pattern by member
// overlap. Processes rings in input order; each ring is merged into
// at most one representative, chosen as the first unconsumed ring of its
// equivalence class.
func MergeRings(rings []RingCandidate) []RingCandidate {
	consumed := make([]bool, len(rings))
	memberSets := make([]map[string]struct{}, len(rings))
	for i, r := range rings {
		memberSets[i] = toSet(r.Members)
	}

	var result []RingCandidate
	for i := range rings {
		if consumed[i] {
			continue
		}
		consumed[i] = true
		rep := rings[i]

		for j := i + 1; j < len(rings); j++ {
			if consumed[j] {
				continue
			}
			if rings[j].Pattern != rep.Pattern {
				continue
			}
			if jaccard(memberSets[i], memberSets[j]) >= mergeJaccardThreshold {
				consumed[j] = true
				if rings[j].RiskScore > rep.RiskScore {
					rep.RiskScore = rings[j].RiskScore
					rep.Members = rings[j].Members
				}
			}
		}

		result = append(result, rep)
	}

	return result
}

func toSet(members []string) map[string]struct{} {
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for m := range a {
		if _, ok := b[m]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
