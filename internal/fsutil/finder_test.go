package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	mustWrite := func(rel string) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	mustWrite("b.hcl")
	mustWrite("a.hcl")
	mustWrite("notes.txt")
	mustWrite("sub/deep/c.hcl")
	mustWrite(".hidden/skipped.hcl")
	mustWrite("sub/.skipped.hcl")

	files, err := FindFilesByExtension(root, ".hcl")
	require.NoError(t, err)

	want := []string{
		filepath.Join(root, "a.hcl"),
		filepath.Join(root, "b.hcl"),
		filepath.Join(root, "sub", "deep", "c.hcl"),
	}
	assert.Equal(t, want, files, "sorted, hidden entries skipped")
}

func TestFindFilesByExtensionMissingRoot(t *testing.T) {
	_, err := FindFilesByExtension(filepath.Join(t.TempDir(), "dne"), ".hcl")
	assert.Error(t, err)
}

func TestFindFilesByExtensionEmptyExtensionPanics(t *testing.T) {
	assert.Panics(t, func() { FindFilesByExtension(t.TempDir(), "") })
}
