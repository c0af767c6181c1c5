package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atcparse/container"
)

const testRegex = `
#CALLSIGN
r"southwest \d+"
`

func TestPipelineFactory_Build(t *testing.T) {
	f := &PipelineFactory{RegexText: testRegex}
	ctrl, err := f.Build()
	require.NoError(t, err)
	assert.NotNil(t, ctrl)
}

func TestRegisterSingleton_ResolvesSameInstance(t *testing.T) {
	c := container.NewDIContainer()
	f := &PipelineFactory{RegexText: testRegex}
	require.NoError(t, RegisterSingleton(c, "controller", f))

	a, err := c.Resolve("controller")
	require.NoError(t, err)
	b, err := c.Resolve("controller")
	require.NoError(t, err)
	assert.Same(t, a, b)
}
