package document

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBinary(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, content []byte) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, content, 0644))
		return path
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{
			name: "bin extension without reading content",
			path: write("data.bin", []byte("just text")),
			want: true,
		},
		{
			name: "bin extension case-insensitive",
			path: write("DATA.BIN", []byte("just text")),
			want: true,
		},
		{
			name: "null byte in prefix",
			path: write("blob.dat", []byte{0x89, 'P', 'N', 'G', 0x00, 0x01}),
			want: true,
		},
		{
			name: "printable ascii under 512 bytes",
			path: write("hello.txt", []byte("hello, world\n")),
			want: false,
		},
		{
			name: "empty file",
			path: write("empty.txt", nil),
			want: false,
		},
		{
			name: "null byte beyond the sniffed prefix",
			path: write("late.dat", append(bytes.Repeat([]byte{'a'}, sniffLen), 0x00)),
			want: false,
		},
		{
			name: "unreadable file treated as text",
			path: filepath.Join(dir, "missing.txt"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBinary(tt.path))
		})
	}
}
