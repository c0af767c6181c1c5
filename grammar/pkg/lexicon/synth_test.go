package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atcparse-grammar/pkg/resources"
)

const regexText = `
#CALLSIGN
r"southwest"

#PLACE
r"atlanta"
`

const complexText = `
#CALLSIGN
(S\NP)/NP {\x.\y._CLEARED_(cat1,y,x)}
`

func buildTable(t *testing.T, filterText string) *resources.Table {
	t.Helper()
	l := resources.NewLoader()
	table, err := l.Load(regexText, "to\nvia\n", filterText, complexText)
	require.NoError(t, err)
	return table
}

func TestSynthesise_SimpleAndComplexAndPreposition(t *testing.T) {
	table := buildTable(t, "")
	syn := NewSynthesiser()

	out, err := syn.Synthesise(table, false)
	require.NoError(t, err)

	entries := out.Lexicon.Entries("callsign1")
	require.NotEmpty(t, entries)

	var sawSimple, sawComplex bool
	for _, e := range entries {
		if e.Category.IsAtomic() && e.Category.Atom == "CALLSIGN" {
			sawSimple = true
			assert.Equal(t, "_CALLSIGN_(callsign1)", e.Sem.String())
		}
		if !e.Category.IsAtomic() {
			sawComplex = true
		}
	}
	assert.True(t, sawSimple)
	assert.True(t, sawComplex)

	prepEntries := out.Lexicon.Entries("to")
	assert.NotEmpty(t, prepEntries)
}

func TestSynthesise_FilteredDropsComplexRulesOutsideFilter(t *testing.T) {
	table := buildTable(t, "PLACE\n") // filter excludes CALLSIGN
	syn := NewSynthesiser()

	out, err := syn.Synthesise(table, true)
	require.NoError(t, err)

	for _, e := range out.Lexicon.Entries("callsign1") {
		assert.True(t, e.Category.IsAtomic(), "filtered lexicon should drop the complex CALLSIGN rule")
	}
}

func TestSynthesise_UnknownSlots(t *testing.T) {
	table := buildTable(t, "")
	syn := NewSynthesiser()

	out, err := syn.Synthesise(table, false)
	require.NoError(t, err)

	entries := out.Lexicon.Entries("X1")
	require.Len(t, entries, 1)
	assert.Equal(t, "CONTEXT", entries[0].Category.Atom)
	assert.Equal(t, "X1", entries[0].Sem.String())
}
