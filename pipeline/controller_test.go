package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atcparse-grammar/pkg/resources"
)

const pipelineRegex = `
#CALLSIGN
r"southwest \d+"

#PLACE
r"atlanta"

#CLEARED
r"cleared"
`

const pipelineComplex = `
#CLEARED
(S\CALLSIGN)/PLACE {\x.\y._CLEARED_(cat1,y,x)}
`

func buildPipelineTable(t *testing.T) *resources.Table {
	t.Helper()
	l := resources.NewLoader()
	table, err := l.Load(pipelineRegex, "to\n", "", pipelineComplex)
	require.NoError(t, err)
	return table
}

func TestController_ParsesSimpleUtterance(t *testing.T) {
	table := buildPipelineTable(t)
	ctrl, err := NewController(table, DefaultSteps)
	require.NoError(t, err)

	lf := ctrl.Parse("southwest 578 cleared to atlanta")
	assert.Contains(t, lf, "_CLEARED_(")
	assert.Contains(t, lf, "*southwest 578*")
	assert.Contains(t, lf, "*atlanta*")
}

func TestController_ParseDebugRecordsSteps(t *testing.T) {
	table := buildPipelineTable(t)
	ctrl, err := NewController(table, DefaultSteps)
	require.NoError(t, err)

	lf, traces := ctrl.ParseDebug("southwest 578 cleared to atlanta")
	require.NotEmpty(t, traces)
	assert.Equal(t, lf, traces[len(traces)-1].LF)
	assert.Equal(t, 0, traces[0].Stage)
}

func TestController_NoParseYieldsEmptyLF(t *testing.T) {
	table := buildPipelineTable(t)
	ctrl, err := NewController(table, DefaultSteps)
	require.NoError(t, err)

	lf := ctrl.Parse("completely unrelated words with nothing recognisable")
	assert.Empty(t, lf)
}
