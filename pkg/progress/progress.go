// Package progress provides the progress-signalling capability handed to
// the document assembler: one Increment per attempted file and a single
// Stop after the run.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// Observer receives progress signals from the assembler. Implementations
// must tolerate Stop being called exactly once after the final Increment.
type Observer interface {
	Increment()
	Stop()
}

// Noop discards all signals; it is the observer used when progress is
// disabled or the output is not a terminal.
type Noop struct{}

func (Noop) Increment() {}
func (Noop) Stop()      {}

// Counter renders a single-line `[current/total]` tracker, redrawn in place
// with a carriage return, and prints a summary line on Stop.
type Counter struct {
	total     int
	current   int
	startTime time.Time
	writer    io.Writer
	stopped   bool
	mu        sync.Mutex
}

// NewCounter returns a counter for total files writing to w.
func NewCounter(total int, w io.Writer) *Counter {
	return &Counter{
		total:     total,
		startTime: time.Now(),
		writer:    w,
	}
}

func (c *Counter) Increment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.current++
	fmt.Fprintf(c.writer, "\rProcessing files [%d/%d]  ", c.current, c.total)
}

func (c *Counter) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	elapsed := time.Since(c.startTime)
	fmt.Fprintf(c.writer, "\rProcessed %d files in %s          \n",
		c.current, elapsed.Round(time.Millisecond))
}

// ForTerminal returns a live counter on stderr when progress is enabled and
// stderr is a terminal, and a Noop otherwise.
func ForTerminal(total int, enabled bool) Observer {
	if !enabled || !term.IsTerminal(int(os.Stderr.Fd())) {
		return Noop{}
	}
	return NewCounter(total, os.Stderr)
}
