// Package local persists backup documents as files in a directory.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Archive writes backup documents into a local directory.
type Archive struct {
	dir string
	log zerolog.Logger
}

// New creates the backup directory if needed and returns an archive over it.
func New(dir string, log zerolog.Logger) (*Archive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local.New: create %s: %w", dir, err)
	}
	return &Archive{dir: dir, log: log}, nil
}

// Store writes one document under the given file name and returns its path.
func (a *Archive) Store(_ context.Context, name string, data []byte) (string, error) {
	path := filepath.Join(a.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("local.Archive.Store: write %s: %w", path, err)
	}

	a.log.Debug().Str("path", path).Int("bytes", len(data)).Msg("archive written")
	return path, nil
}
