package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atcparse-grammar/pkg/resources"
)

func buildTable(t *testing.T) *resources.Table {
	t.Helper()
	l := resources.NewLoader()
	table, err := l.Load("#CALLSIGN\nr\"southwest\"\n\n#AIRCRAFT\nr\"boeing\"\n", "to\nvia\n", "", "")
	require.NoError(t, err)
	return table
}

func TestAllocator_CapCeiling(t *testing.T) {
	table := buildTable(t)
	table.Caps["CALLSIGN"] = 2
	reg := NewRegistry(table)
	alloc := reg.NewAllocator()

	p1, ok := alloc.Next("CALLSIGN")
	require.True(t, ok)
	assert.Equal(t, "callsign1", p1)

	p2, ok := alloc.Next("CALLSIGN")
	require.True(t, ok)
	assert.Equal(t, "callsign2", p2)

	_, ok = alloc.Next("CALLSIGN")
	assert.False(t, ok)
	assert.Equal(t, 1, alloc.Overflows()["CALLSIGN"])
	assert.Equal(t, []string{"callsign1", "callsign2"}, alloc.Used("CALLSIGN"))
}

func TestRegistry_CategoryOfAndLexWords(t *testing.T) {
	table := buildTable(t)
	reg := NewRegistry(table)

	cat, ok := reg.CategoryOf("callsign1")
	require.True(t, ok)
	assert.Equal(t, "CALLSIGN", cat)

	assert.True(t, reg.IsLexWord("to"))
	assert.True(t, reg.IsLexWord("no"))
	assert.True(t, reg.IsLexWord("and"))
	assert.False(t, reg.IsLexWord("southwest"))
}
