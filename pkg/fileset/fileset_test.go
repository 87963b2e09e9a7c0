package fileset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repocat/pkg/ignore"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestResolveRoundTrip(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "a")
	writeFile(t, root, "sub/b.txt", "b")
	writeFile(t, root, ".hidden", "h")

	got, err := Resolve(root, ignore.Spec{}, nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "sub/b.txt", ".hidden"}, got)
}

func TestResolveExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.txt", "k")
	writeFile(t, root, "skip.txt", "s")

	got, err := Resolve(root, ignore.Spec{Exclude: []string{"skip.txt"}}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.txt"}, got)
}

func TestResolveReincludeWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "foo.ts", "f")
	writeFile(t, root, "bar.ts", "b")

	spec := ignore.Spec{
		Exclude:   []string{"foo.ts"},
		Reinclude: []string{"bar.ts"},
	}
	got, err := Resolve(root, spec, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, got, "bar.ts")
	assert.NotContains(t, got, "foo.ts")
}

func TestResolveReincludeResurrectsFromBroadExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.ts", "a")
	writeFile(t, root, "b.ts", "b")
	writeFile(t, root, "c.txt", "c")

	spec := ignore.Spec{
		Exclude:   []string{"*.ts"},
		Reinclude: []string{"b.ts"},
	}
	got, err := Resolve(root, spec, nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c.txt", "b.ts"}, got)
}

func TestResolveReservedStripped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".repocatignore", "*.log")
	writeFile(t, root, "repocat.txt", "old output")
	writeFile(t, root, "a.txt", "a")

	reserved := []string{".repocatignore", "repocat.txt"}
	got, err := Resolve(root, ignore.Spec{}, reserved, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, got)
}

func TestResolveReincludeCannotResurrectReserved(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".repocatignore", "x")
	writeFile(t, root, "a.txt", "a")

	spec := ignore.Spec{Reinclude: []string{"**/*"}}
	got, err := Resolve(root, spec, []string{".repocatignore"}, nil)
	require.NoError(t, err)
	assert.NotContains(t, got, ".repocatignore")
	assert.Contains(t, got, "a.txt")
}

func TestResolveInfraDirsPruned(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".git/config", "ref")
	writeFile(t, root, "node_modules/pkg/index.js", "js")
	writeFile(t, root, ".svn/entries", "e")
	writeFile(t, root, ".hg/hgrc", "h")
	writeFile(t, root, "src/main.go", "m")

	got, err := Resolve(root, ignore.Spec{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main.go"}, got)
}

func TestResolveMalformedPatternSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.txt", "k")
	writeFile(t, root, "skip.txt", "s")

	spec := ignore.Spec{Exclude: []string{"[unterminated", "skip.txt"}}
	got, err := Resolve(root, spec, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.txt"}, got)
}

func TestResolveDeduplicates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "a")

	// A re-include matching a file that was never excluded must not
	// produce a duplicate entry.
	spec := ignore.Spec{Reinclude: []string{"a.txt"}}
	got, err := Resolve(root, spec, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, got)
}

func TestResolveIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "a")
	writeFile(t, root, "b/c.txt", "c")
	writeFile(t, root, "b/d.log", "d")

	spec := ignore.Spec{Exclude: []string{"*.log"}, Reinclude: []string{"d.log"}}
	first, err := Resolve(root, spec, nil, nil)
	require.NoError(t, err)
	second, err := Resolve(root, spec, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveNeverEmitsDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "x/y/z.txt", "z")

	got, err := Resolve(root, ignore.Spec{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"x/y/z.txt"}, got)
}
