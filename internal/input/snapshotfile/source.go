package snapshotfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Source re-reads a snapshot file on every fetch.
type Source struct {
	path string
}

// NewSource creates a file snapshot source.
func NewSource(path string) (*Source, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot file path is empty")
	}
	return &Source{path: path}, nil
}

// Fetch returns the file contents. A missing file means nothing new yet.
func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}
	return raw, nil
}

// Close is a no-op.
func (s *Source) Close() error {
	return nil
}
