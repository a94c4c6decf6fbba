package mulegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortTags_FixedRankOrder(t *testing.T) {
	in := []string{TagCashOut, TagCycleLength3, TagCycle, TagLowActivityShell}
	out := sortTags(in)
	assert.Equal(t, []string{TagCycleLength3, TagCycle, TagLowActivityShell, TagCashOut}, out)
}

func TestSortTags_UnknownTagsSortLastAlphabetically(t *testing.T) {
	in := []string{"zzz_unknown", TagCashOut, "aaa_unknown"}
	out := sortTags(in)
	assert.Equal(t, []string{TagCashOut, "aaa_unknown", "zzz_unknown"}, out)
}
