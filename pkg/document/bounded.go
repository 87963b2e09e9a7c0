package document

import "io"

// chunkSize is the read-buffer size for bounded copies.
const chunkSize = 8192

// TruncationMarker is emitted on its own line immediately after a truncated
// prefix.
const TruncationMarker = "[TRUNCATED]"

// CopyBounded copies src to dst byte-for-byte up to ceiling bytes. When a
// chunk would cross the ceiling, only the prefix that fits exactly is
// written, the truncation marker line follows, and the source is abandoned
// without further reads. The decision is made on raw byte counts, so a
// multi-byte encoded character may be split at the boundary.
//
// written counts content bytes only, never the marker. A source that fits
// within the ceiling produces no marker. Read and write errors both
// surface; the caller treats them as a failure of the whole copy.
func CopyBounded(dst io.Writer, src io.Reader, ceiling int64) (written int64, truncated bool, err error) {
	buf := make([]byte, chunkSize)
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if written+int64(n) > ceiling {
				chunk = chunk[:ceiling-written]
				truncated = true
			}
			wn, writeErr := dst.Write(chunk)
			written += int64(wn)
			if writeErr != nil {
				return written, truncated, writeErr
			}
			if truncated {
				if _, writeErr = io.WriteString(dst, "\n"+TruncationMarker+"\n"); writeErr != nil {
					return written, truncated, writeErr
				}
				return written, true, nil
			}
		}
		if readErr == io.EOF {
			return written, false, nil
		}
		if readErr != nil {
			return written, truncated, readErr
		}
	}
}
