package mulegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeRings_OverlappingSamePatternMerged(t *testing.T) {
	rings := []RingCandidate{
		{Pattern: PatternSmurfing, Members: []string{"A", "B", "C", "D"}, RiskScore: 70},
		{Pattern: PatternSmurfing, Members: []string{"A", "B", "C", "E"}, RiskScore: 80},
	}
	merged := MergeRings(rings)
	require.Len(t, merged, 1)
	assert.Equal(t, 80.0, merged[0].RiskScore)
	assert.Equal(t, []string{"A", "B", "C", "E"}, merged[0].Members)
}

func TestMergeRings_DifferentPatternsNeverMerged(t *testing.T) {
	rings := []RingCandidate{
		{Pattern: PatternCycle, Members: []string{"A", "B", "C"}, RiskScore: 90},
		{Pattern: PatternSmurfing, Members: []string{"A", "B", "C"}, RiskScore: 90},
	}
	merged := MergeRings(rings)
	assert.Len(t, merged, 2)
}

func TestMergeRings_BelowThresholdKeptSeparate(t *testing.T) {
	rings := []RingCandidate{
		{Pattern: PatternCycle, Members: []string{"A", "B", "C", "D", "E"}, RiskScore: 70},
		{Pattern: PatternCycle, Members: []string{"D", "E", "F", "G", "H"}, RiskScore: 75},
	}
	merged := MergeRings(rings)
	assert.Len(t, merged, 2)
}

func TestJaccard(t *testing.T) {
	a := toSet([]string{"A", "B", "C"})
	b := toSet([]string{"B", "C", "D"})
	assert.InDelta(t, 0.5, jaccard(a, b), 1e-9)
}
