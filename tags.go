package mulegraph

import "sort"

// Evidence tag vocabulary. Tags outside this list are "unknown" and sort
// after all of these, then alphabetically.
const (
	TagCycleLength3     = "cycle_length_3"
	TagCycleLength4     = "cycle_length_4"
	TagCycleLength5     = "cycle_length_5"
	TagCycle            = "cycle"
	TagSmurfingFanIn    = "smurfing_fan_in"
	TagSmurfingFanOut   = "smurfing_fan_out"
	TagTemporal72h      = "temporal_72h"
	TagLayeredShellChain = "layered_shell_chain"
	TagSourceFunds      = "source_funds"
	TagLowActivityShell = "low_activity_shell"
	TagPreCashout       = "pre_cashout"
	TagCashOut          = "cash_out"
)

// tagRank gives the fixed rank order used to sort an account's emitted
// detected_patterns. Lower rank sorts first.
var tagRank = map[string]int{
	TagCycleLength3:      0,
	TagCycleLength4:      1,
	TagCycleLength5:      2,
	TagCycle:             3,
	TagSmurfingFanIn:     4,
	TagSmurfingFanOut:    5,
	TagTemporal72h:       6,
	TagLayeredShellChain: 7,
	TagSourceFunds:       8,
	TagLowActivityShell:  9,
	TagPreCashout:        10,
	TagCashOut:           11,
}

const unknownTagRank = 1 << 30

// rankOf returns a tag's sort rank; unknown tags all share a rank beyond the
// known vocabulary so they sort after it (and alphabetically among themselves
// via the secondary sort key in the caller).
func rankOf(tag string) int {
	if r, ok := tagRank[tag]; ok {
		return r
	}
	return unknownTagRank
}

// sortTags orders tags by the fixed rank table, then alphabetically.
func sortTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	sort.Slice(out, func(i, j int) bool {
		ra, rb := rankOf(out[i]), rankOf(out[j])
		if ra != rb {
			return ra < rb
		}
		return out[i] < out[j]
	})
	return out
}
