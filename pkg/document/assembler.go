// Package document renders a resolved file set into the serialized output
// document: preamble, numbered table of contents, one section per file, and
// a terminal marker.
package document

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"repocat/pkg/progress"
)

// EndMarker terminates every document.
const EndMarker = "--END--"

// Assembler writes the output document for one invocation. It owns the sink
// for the duration of a Write call; files are processed strictly
// sequentially in resolved order.
type Assembler struct {
	root         string
	maxFileBytes int64
	preamble     string
	observer     progress.Observer
	logger       *zap.Logger
}

// NewAssembler returns an assembler rooted at root. preamble must be
// newline-terminated. A nil observer disables progress signalling; a nil
// logger disables logging.
func NewAssembler(root string, maxFileBytes int64, preamble string, observer progress.Observer, logger *zap.Logger) *Assembler {
	if observer == nil {
		observer = progress.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{
		root:         root,
		maxFileBytes: maxFileBytes,
		preamble:     preamble,
		observer:     observer,
		logger:       logger,
	}
}

// Write renders the document for files (root-relative, slash-separated, in
// resolved order) into w. Table-of-contents numbering is fixed over the
// full set before any file is read; a file that fails to stat or open emits
// no section at all, leaving a gap in the section labels rather than
// renumbering. Sink errors are fatal; per-file read errors warn and skip.
func (a *Assembler) Write(w io.Writer, files []string) error {
	writer := bufio.NewWriter(w)

	if _, err := writer.WriteString(a.preamble); err != nil {
		return fmt.Errorf("failed to write preamble: %w", err)
	}

	if _, err := writer.WriteString("Table of Contents:\n"); err != nil {
		return fmt.Errorf("failed to write table of contents: %w", err)
	}
	for i, rel := range files {
		if _, err := fmt.Fprintf(writer, "%d. %s\n", i+1, rel); err != nil {
			return fmt.Errorf("failed to write table of contents: %w", err)
		}
	}
	if err := writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write table of contents: %w", err)
	}

	defer a.observer.Stop()
	for i, rel := range files {
		if err := a.writeSection(writer, i+1, rel); err != nil {
			return err
		}
		a.observer.Increment()
	}

	if _, err := writer.WriteString(EndMarker + "\n"); err != nil {
		return fmt.Errorf("failed to write end marker: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

// writeSection emits one file's section. Failures before any section bytes
// reach the sink (stat, open) skip the entry with a warning and a nil
// return; only sink write errors propagate.
func (a *Assembler) writeSection(writer *bufio.Writer, index int, rel string) error {
	path := filepath.Join(a.root, filepath.FromSlash(rel))

	info, err := os.Stat(path)
	if err != nil {
		a.warnSkip(rel, err)
		return nil
	}

	if IsBinary(path) {
		if _, err := fmt.Fprintf(writer, "----[%d]\n%s\n[BINARY FILE] Size: %d bytes, Modified: %s\n",
			index, rel, info.Size(), info.ModTime().UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("failed to write section for %s: %w", rel, err)
		}
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		a.warnSkip(rel, err)
		return nil
	}
	defer file.Close()

	if _, err := fmt.Fprintf(writer, "----[%d]\n%s\n", index, rel); err != nil {
		return fmt.Errorf("failed to write section for %s: %w", rel, err)
	}

	_, _, copyErr := CopyBounded(writer, file, a.maxFileBytes)
	if copyErr != nil {
		// Bytes may already be in the sink; close the section so the
		// document stays well-formed and keep going.
		a.logger.Warn("Read failed mid-stream; section truncated",
			zap.String("file", rel), zap.Error(copyErr))
	}
	if err := writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write section for %s: %w", rel, err)
	}
	return nil
}

func (a *Assembler) warnSkip(rel string, err error) {
	a.logger.Warn("Skipping unreadable file",
		zap.String("file", rel), zap.Error(err))
}

// WriteFile creates path and writes the document into it. The sink is
// created only after resolution has succeeded, so a fatal error earlier in
// the run never leaves a partial output file behind. Close errors are
// joined with any write error.
func (a *Assembler) WriteFile(path string, files []string) (err error) {
	out, createErr := os.Create(path)
	if createErr != nil {
		return fmt.Errorf("failed to create output file: %w", createErr)
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()
	return a.Write(out, files)
}
