package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRegex = `
#CALLSIGN
r"southwest"
r"delta \d+"

#INTNUMBER
r"\d+"

#PLACE
r"atlanta"
`

const samplePrepositions = `
# comment
to
via
after
`

const sampleFilter = `
CALLSIGN
-INTNUMBER
PLACE
`

const sampleComplex = `
#CALLSIGN
(S/NP)/NP {\x.\y._CLEARED_(cat1,x,y)}
-S/NP {\x._IGNORED_(cat1,x)}
`

func TestLoad_HappyPath(t *testing.T) {
	l := NewLoader()
	table, err := l.Load(sampleRegex, samplePrepositions, sampleFilter, sampleComplex)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"CALLSIGN", "INTNUMBER", "PLACE"}, table.Categories())
	assert.Equal(t, 2, len(table.Patterns["CALLSIGN"]))
	assert.Equal(t, []string{"to", "via", "after"}, table.Prepositions)
	assert.True(t, table.Filter["CALLSIGN"])
	assert.True(t, table.Filter["PLACE"])
	assert.False(t, table.Filter["INTNUMBER"])

	// default + override caps
	assert.Equal(t, 9, table.Cap("INTNUMBER"))
	assert.Equal(t, DefaultCap, table.Cap("CALLSIGN"))

	require.Len(t, table.ComplexRules["CALLSIGN"], 1)
	assert.Equal(t, "(S/NP)/NP", table.ComplexRules["CALLSIGN"][0].SynCat)
}

func TestLoad_DuplicatePatternDifferentCategoryIsResourceError(t *testing.T) {
	regex := `
#CALLSIGN
r"atlanta"

#PLACE
r"atlanta"
`
	l := NewLoader()
	_, err := l.Load(regex, "", "", "")
	require.Error(t, err)
	var rerr *ResourceError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "regex", rerr.Resource)
}

func TestLoad_UnknownFilterCategoryIsResourceError(t *testing.T) {
	l := NewLoader()
	_, err := l.Load(sampleRegex, "", "GHOST\n", "")
	require.Error(t, err)
	var rerr *ResourceError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "filter", rerr.Resource)
}

func TestLoad_UnbalancedComplexRuleIsResourceError(t *testing.T) {
	l := NewLoader()
	_, err := l.Load(sampleRegex, "", "", "#CALLSIGN\nS/NP {\\x._CLEARED_(cat1,x)\n")
	require.Error(t, err)
	var rerr *ResourceError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "complex", rerr.Resource)
}

func TestComplexity(t *testing.T) {
	assert.Equal(t, 1, complexity("atlanta"))
	assert.Equal(t, 2, complexity(`delta \d+`))
	// stripped non-capturing group leaves no extra backslash fragment
	assert.Equal(t, 1, complexity(`(?:atlanta)`))
}

func TestSortedEntries_DescendingComplexityStableTieBreak(t *testing.T) {
	l := NewLoader()
	table, err := l.Load(sampleRegex, "", "", "")
	require.NoError(t, err)

	entries := table.SortedEntries()
	for i := 1; i < len(entries); i++ {
		assert.GreaterOrEqual(t, entries[i-1].Complexity, entries[i].Complexity)
	}
}
