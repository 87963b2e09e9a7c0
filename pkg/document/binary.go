package document

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// sniffLen is how many leading bytes are inspected for the null-byte check.
const sniffLen = 512

// IsBinary reports whether path should be rendered as a metadata-only
// binary section. A `.bin` extension is binary without reading; otherwise
// the first sniffLen bytes are scanned for a null byte. Open or read
// failures classify as non-binary so a broken file can never abort the run;
// the assembler surfaces the real error when it tries to stream the file.
func IsBinary(path string) bool {
	if strings.ToLower(filepath.Ext(path)) == ".bin" {
		return true
	}

	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	buffer := make([]byte, sniffLen)
	n, err := file.Read(buffer)
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	return bytes.IndexByte(buffer[:n], 0) >= 0
}
