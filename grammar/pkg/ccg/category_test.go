package ccg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory_AtomicAndSlash(t *testing.T) {
	c, err := ParseCategory("S")
	require.NoError(t, err)
	assert.True(t, c.IsAtomic())
	assert.Equal(t, "S", c.String())

	c, err = ParseCategory("(S/S)/NP")
	require.NoError(t, err)
	assert.False(t, c.IsAtomic())
	assert.Equal(t, "(S/S)/NP", c.String())

	flat, err := ParseCategory("S/S/NP")
	require.NoError(t, err)
	assert.True(t, c.Equal(flat))
}

func TestParseCategory_BackwardSlash(t *testing.T) {
	c, err := ParseCategory(`S\NP`)
	require.NoError(t, err)
	assert.Equal(t, Back, c.Dir)
	assert.Equal(t, "S", c.Result.Atom)
	assert.Equal(t, "NP", c.Arg.Atom)
}
