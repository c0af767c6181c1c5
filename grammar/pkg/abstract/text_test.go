package abstract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atcparse-grammar/pkg/placeholder"
	"atcparse-grammar/pkg/resources"
)

const testRegexText = `
#CALLSIGN
r"southwest \d+"

#PLACE
r"atlanta"
`

func buildTestTable(t *testing.T) *resources.Table {
	t.Helper()
	l := resources.NewLoader()
	table, err := l.Load(testRegexText, "to\n", "", "")
	require.NoError(t, err)
	return table
}

func TestTextAbstractor_ReplacesKnownSpans(t *testing.T) {
	table := buildTestTable(t)
	reg := placeholder.NewRegistry(table)
	abs, err := NewTextAbstractor(table)
	require.NoError(t, err)

	stream, repl := abs.Abstract("southwest 123 to atlanta", reg, reg.NewAllocator())

	assert.Contains(t, stream, "callsign1")
	assert.Contains(t, stream, "place1")
	assert.Contains(t, stream, "to")
	assert.Equal(t, "southwest 123", repl.Placeholders["callsign1"])
	assert.Equal(t, "atlanta", repl.Placeholders["place1"])
}

func TestTextAbstractor_AssignsUnknownSlots(t *testing.T) {
	table := buildTestTable(t)
	reg := placeholder.NewRegistry(table)
	abs, err := NewTextAbstractor(table)
	require.NoError(t, err)

	stream, repl := abs.Abstract("southwest 123 to the runway please", reg, reg.NewAllocator())

	assert.Contains(t, stream, "X1")
	assert.Equal(t, "the runway please", repl.Unknown["X1"])
}

func TestTextAbstractor_CapacityOverflowLeavesLaterSpanUnreplaced(t *testing.T) {
	table := buildTestTable(t)
	reg := placeholder.NewRegistry(table)
	abs, err := NewTextAbstractor(table)
	require.NoError(t, err)

	alloc := reg.NewAllocator()
	for i := 0; i < table.Cap("PLACE"); i++ {
		_, ok := alloc.Next("PLACE")
		require.True(t, ok)
	}

	stream, repl := abs.Abstract("southwest 1 to atlanta", reg, alloc)
	assert.NotContains(t, stream, "place1")
	assert.Empty(t, repl.Placeholders["place1"])
	assert.Equal(t, map[string]int{"PLACE": 1}, alloc.Overflows())
}

func TestStripStrayXTokens(t *testing.T) {
	assert.Equal(t, "callsign1 X to X", stripStrayXTokens("callsign1 x12 to x3"))
}
