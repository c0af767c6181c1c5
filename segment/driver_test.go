package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atcparse-grammar/pkg/abstract"
	"atcparse-grammar/pkg/ccg"
)

func mustCat(t *testing.T, s string) ccg.Category {
	t.Helper()
	c, err := ccg.ParseCategory(s)
	require.NoError(t, err)
	return c
}

func mustTerm(t *testing.T, s string) ccg.Term {
	t.Helper()
	term, err := ccg.ParseTerm(s)
	require.NoError(t, err)
	return term
}

func newParser(t *testing.T) *ccg.Parser {
	entries := []ccg.Entry{
		{Word: "callsign1", Category: mustCat(t, "NP"), Sem: mustTerm(t, "_CALLSIGN_(callsign1)")},
		{Word: "place1", Category: mustCat(t, "NP"), Sem: mustTerm(t, "_PLACE_(place1)")},
		{Word: "cleared1", Category: mustCat(t, `(S\NP)/NP`), Sem: mustTerm(t, `\x.\y._CLEARED_(cleared1,y,x)`)},
	}
	return ccg.NewParser(ccg.NewLexicon(entries))
}

func TestDriver_WholeStreamParse(t *testing.T) {
	d := NewDriver(newParser(t))
	repl := &abstract.Replacements{
		Placeholders: map[string]string{
			"callsign1": "Southwest 578",
			"place1":    "Atlanta",
		},
		Unknown: map[string]string{},
	}

	lf := d.Drive([]string{"callsign1", "cleared1", "place1"}, repl)
	assert.Equal(t, "_CLEARED_(cleared1,_CALLSIGN_(*Southwest 578*),_PLACE_(*Atlanta*))", lf)
}

func TestDriver_SegmentingFallback(t *testing.T) {
	d := NewDriver(newParser(t))
	repl := &abstract.Replacements{
		Placeholders: map[string]string{
			"callsign1": "Southwest 578",
			"place1":    "Atlanta",
		},
		Unknown: map[string]string{},
	}

	// "callsign1 place1" does not parse as a whole (no rule combines two
	// bare NPs), but each half parses as its own NP-rooted... except Parse
	// only accepts S-rooted readings, so a bare NP never succeeds; both
	// halves fail and the whole stream is discarded.
	lf := d.Drive([]string{"callsign1", "place1"}, repl)
	assert.Empty(t, lf)
}

func TestDriver_DiscardsUnparseableRemainder(t *testing.T) {
	d := NewDriver(newParser(t))
	repl := &abstract.Replacements{Placeholders: map[string]string{}, Unknown: map[string]string{}}

	lf := d.Drive([]string{"unknown_token"}, repl)
	assert.Empty(t, lf)
}

func TestUnwrapContextRoot(t *testing.T) {
	assert.Equal(t, "_CALLSIGN_(callsign1)", unwrapContextRoot("_context_(_CALLSIGN_(callsign1))"))
	assert.Equal(t, "_CLEARED_(x,y)", unwrapContextRoot("_CLEARED_(x,y)"))
}

func TestSubstitute_WrapsSurfaceButNotEmbeddedTerm(t *testing.T) {
	repl := &abstract.Replacements{
		Placeholders: map[string]string{
			"callsign1": "Southwest 578",
			"cleared2":  "_CLEARED_(cleared1,callsign1)",
		},
		Unknown: map[string]string{"X1": "the runway"},
	}
	out := substitute("_THEN_(cleared2,X1)", repl)
	assert.Equal(t, `_THEN_(_CLEARED_(cleared1,callsign1),*the runway*)`, out)
}
