package cleanup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean_CollapsesLeafOnlySelfWrap(t *testing.T) {
	got := Clean("_CLEARED_(_CLEARED_(cleared1,callsign1,place1))")
	assert.Equal(t, "_CLEARED_(cleared1,callsign1,place1)", got)
}

func TestClean_CollapsesSandwich(t *testing.T) {
	got := Clean("_context_(_THEN_(_context_(*route1*)))")
	assert.Equal(t, "_THEN_(_context_(*route1*))", got)
}

func TestClean_CollapsesSelfWrapWithNestedArgs(t *testing.T) {
	got := Clean("_context_(_context_(_CALLSIGN_(callsign1)))")
	assert.Equal(t, "_context_(_CALLSIGN_(callsign1))", got)
}

func TestClean_ReplacesStopAndStripsStrayNewlineStar(t *testing.T) {
	got := Clean("STOP_(_CALLSIGN_(callsign1))\n*")
	assert.Equal(t, "_(_CALLSIGN_(callsign1))", got)
}

func TestClean_LeavesUnrelatedTermsAlone(t *testing.T) {
	got := Clean("_CALLSIGN_(callsign1); _PLACE_(place1)")
	assert.Equal(t, "_CALLSIGN_(callsign1); _PLACE_(place1)", got)
}
