package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSFileSourceReadsRelativeKeys(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "menus"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "menus", "upload.txt"), []byte("Cola - 3.00"), 0o644))

	src := NewFSFileSource(dir)

	b, err := src.GetFile(context.Background(), "menus/upload.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("Cola - 3.00"), b)
}

func TestFSFileSourceRejectsTraversal(t *testing.T) {
	src := NewFSFileSource(t.TempDir())

	for _, key := range []string{
		"../secrets.txt",
		"menus/../../etc/passwd",
		"/etc/passwd",
	} {
		_, err := src.GetFile(context.Background(), key)
		assert.Error(t, err, key)
	}
}

func TestFSFileSourceMissingFile(t *testing.T) {
	src := NewFSFileSource(t.TempDir())

	_, err := src.GetFile(context.Background(), "menus/missing.txt")
	assert.Error(t, err)
}
