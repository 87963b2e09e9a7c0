package progress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterRendersIncrements(t *testing.T) {
	var out bytes.Buffer
	c := NewCounter(3, &out)

	c.Increment()
	c.Increment()
	c.Stop()

	rendered := out.String()
	assert.Contains(t, rendered, "[1/3]")
	assert.Contains(t, rendered, "[2/3]")
	assert.Contains(t, rendered, "Processed 2 files")
	assert.True(t, strings.HasSuffix(rendered, "\n"))
}

func TestCounterStopIsIdempotent(t *testing.T) {
	var out bytes.Buffer
	c := NewCounter(1, &out)

	c.Increment()
	c.Stop()
	after := out.Len()
	c.Stop()
	assert.Equal(t, after, out.Len())

	// Increments after Stop are discarded.
	c.Increment()
	assert.Equal(t, after, out.Len())
}

func TestNoopDiscardsSignals(t *testing.T) {
	var obs Observer = Noop{}
	obs.Increment()
	obs.Stop()
}

func TestForTerminalDisabled(t *testing.T) {
	// Progress disabled always yields the no-op observer, regardless of
	// whether stderr is a terminal.
	obs := ForTerminal(10, false)
	assert.IsType(t, Noop{}, obs)
}
