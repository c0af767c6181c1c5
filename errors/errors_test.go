package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewResourceError_IsFatal(t *testing.T) {
	h := NewDefaultHandler()
	fatal, pe := h.Handle(NewResourceError("bad regex table"))
	assert.True(t, fatal)
	assert.Equal(t, KindResource, pe.Kind)
}

func TestNewCapacityError_IsNotFatal(t *testing.T) {
	h := NewDefaultHandler()
	fatal, pe := h.Handle(NewCapacityError("CALLSIGN", "pool exhausted"))
	assert.False(t, fatal)
	assert.Equal(t, "CALLSIGN", pe.Category)
}

func TestCollector_BucketsByKind(t *testing.T) {
	c := NewCollector()
	c.Add(NewCapacityError("PLACE", "overflow"))
	c.Add(NewNoParseError("blah blah"))
	assert.Len(t, c.Overflows, 1)
	assert.Len(t, c.NoParses, 1)
}
