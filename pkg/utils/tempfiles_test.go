package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTempFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	path, f, err := CreateTempFile(dir, "edit", ".sh")
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "edit_"))
	assert.True(t, strings.HasSuffix(path, ".sh"))
	assert.True(t, TempFileExists(path))

	other, f2, err := CreateTempFile(dir, "edit", ".sh")
	require.NoError(t, err)
	defer f2.Close()
	assert.NotEqual(t, path, other)
}

func TestWriteTempFile(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteTempFile(dir, "edit", ".txt", "echo hi\n")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "echo hi\n", string(data))

	require.NoError(t, RemoveTempFile(path))
	assert.False(t, TempFileExists(path))
	assert.NoError(t, RemoveTempFile(path))
}

func TestRemoveAllTempFiles(t *testing.T) {
	dir := t.TempDir()

	for i := 0; i < 3; i++ {
		_, err := WriteTempFile(dir, "edit", ".sh", "x")
		require.NoError(t, err)
	}
	keep, err := WriteTempFile(dir, "other", ".sh", "x")
	require.NoError(t, err)

	require.NoError(t, RemoveAllTempFiles(dir, "edit", ".sh", 0))

	matches, err := filepath.Glob(filepath.Join(dir, "edit_*.sh"))
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.True(t, TempFileExists(keep))

	assert.NoError(t, RemoveAllTempFiles(filepath.Join(dir, "missing"), "edit", ".sh", 0))
}

func TestRemoveAllTempFilesKeepsRecent(t *testing.T) {
	dir := t.TempDir()

	stale, err := WriteTempFile(dir, "edit", ".txt", "old")
	require.NoError(t, err)
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	fresh, err := WriteTempFile(dir, "edit", ".txt", "new")
	require.NoError(t, err)

	require.NoError(t, RemoveAllTempFiles(dir, "edit", ".txt", time.Hour))
	assert.False(t, TempFileExists(stale))
	assert.True(t, TempFileExists(fresh))
}
