package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FSFileSource serves uploaded files from a base directory; keys are paths
// relative to it.
type FSFileSource struct {
	BaseDir string
}

func NewFSFileSource(baseDir string) *FSFileSource {
	return &FSFileSource{BaseDir: baseDir}
}

func (s *FSFileSource) GetFile(_ context.Context, key string) ([]byte, error) {
	clean := filepath.Clean(key)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid file key %q", key)
	}
	b, err := os.ReadFile(filepath.Join(s.BaseDir, clean))
	if err != nil {
		return nil, fmt.Errorf("read file %q: %w", key, err)
	}
	return b, nil
}
