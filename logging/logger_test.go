package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarning)
	l.Info("should not appear")
	l.Warn("should appear")
	assert.NotContains(t, buf.String(), "should not appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestLogger_WithStageAndCategoryAnnotatesEntry(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelDebug).WithStage(1).WithCategory("CALLSIGN")
	l.Debug("parsing")
	line := buf.String()
	assert.True(t, strings.Contains(line, "stage=1"))
	assert.True(t, strings.Contains(line, "category=CALLSIGN"))
}
