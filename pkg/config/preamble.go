package config

import (
	"fmt"
	"os"
	"strings"
)

// DefaultPreamble is the built-in preamble text used when no preamble file
// is configured.
const DefaultPreamble = "This document is a serialized snapshot of a repository's files,\n" +
	"prepared for language-model ingestion. A numbered table of contents\n" +
	"lists every included file; each numbered section that follows holds\n" +
	"that file's content, or size and modification metadata for binary\n" +
	"files. The document ends at the --END-- marker.\n"

// LoadPreamble returns the preamble text for path, or the built-in text
// when path is empty. A configured file that cannot be read is a fatal
// error. The result is always newline-terminated.
func LoadPreamble(path string) (string, error) {
	if path == "" {
		return DefaultPreamble, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read preamble file %s: %w", path, err)
	}
	text := string(data)
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text, nil
}
