package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.tf"))
	touch(t, filepath.Join(root, "a.TF"))
	touch(t, filepath.Join(root, "notes.md"))
	touch(t, filepath.Join(root, "nested", "c.tf"))
	touch(t, filepath.Join(root, "nested", "d.hcl"))
	touch(t, filepath.Join(root, ".terraform", "modules", "e.tf"))

	files, err := FindFilesByExtension(root, ".tf")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.TF"),
		filepath.Join(root, "b.tf"),
		filepath.Join(root, "nested", "c.tf"),
	}, files)

	files, err = FindFilesByExtension(root, ".tf", ".hcl")
	require.NoError(t, err)
	assert.Len(t, files, 4)
}

func TestFindFilesByExtension_MissingRoot(t *testing.T) {
	_, err := FindFilesByExtension(filepath.Join(t.TempDir(), "missing"), ".tf")
	assert.Error(t, err)
}

func TestFindFilesByExtension_PanicsWithoutExtension(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByExtension(t.TempDir()) })
	assert.Panics(t, func() { _, _ = FindFilesByExtension(t.TempDir(), "") })
}
