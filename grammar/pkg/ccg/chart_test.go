package ccg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCat(t *testing.T, s string) Category {
	t.Helper()
	c, err := ParseCategory(s)
	require.NoError(t, err)
	return c
}

func mustTerm(t *testing.T, s string) Term {
	t.Helper()
	term, err := ParseTerm(s)
	require.NoError(t, err)
	return term
}

func TestParser_ApplicationChain(t *testing.T) {
	entries := []Entry{
		{Word: "callsign1", Category: mustCat(t, "NP"), Sem: mustTerm(t, "_CALLSIGN_(callsign1)")},
		{Word: "place1", Category: mustCat(t, "NP"), Sem: mustTerm(t, "_PLACE_(place1)")},
		{Word: "cleared1", Category: mustCat(t, `(S\NP)/NP`), Sem: mustTerm(t, `\x.\y._CLEARED_(cleared1,y,x)`)},
	}
	parser := NewParser(NewLexicon(entries))

	term, ok := parser.Parse([]string{"callsign1", "cleared1", "place1"})
	require.True(t, ok)
	assert.Equal(t, "_CLEARED_(cleared1,_CALLSIGN_(callsign1),_PLACE_(place1))", term.String())
}

func TestParser_NoParseReturnsFalse(t *testing.T) {
	entries := []Entry{
		{Word: "callsign1", Category: mustCat(t, "NP"), Sem: mustTerm(t, "_CALLSIGN_(callsign1)")},
	}
	parser := NewParser(NewLexicon(entries))

	_, ok := parser.Parse([]string{"callsign1", "unknown_token"})
	assert.False(t, ok)
}

func TestParser_ForwardComposition(t *testing.T) {
	// "cleared1" (S/NP) composes with "to" (NP/NP) into S/NP, checked
	// directly below. Parse returns the first S reading by split point,
	// which is "cleared1" applied to the NP "to p1"; the composed S/NP
	// applied to "p1" yields the same logical form.
	entries := []Entry{
		{Word: "p1", Category: mustCat(t, "NP"), Sem: mustTerm(t, "_PLACE_(p1)")},
		{Word: "cleared1", Category: mustCat(t, "S/NP"), Sem: mustTerm(t, `\x._CLEARED_(cleared1,x)`)},
		{Word: "to", Category: mustCat(t, "NP/NP"), Sem: mustTerm(t, `\x._to_(x)`)},
	}
	parser := NewParser(NewLexicon(entries))

	composed, ok := forwardComposition(
		Reading{Category: entries[1].Category, Sem: entries[1].Sem},
		Reading{Category: entries[2].Category, Sem: entries[2].Sem},
	)
	require.True(t, ok)
	assert.Equal(t, "S/NP", composed.Category.String())

	term, ok := parser.Parse([]string{"cleared1", "to", "p1"})
	require.True(t, ok)
	assert.Equal(t, "_CLEARED_(cleared1,_to_(_PLACE_(p1)))", term.String())
}
