package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local stores payloads as flat files under a base directory. Keys are
// generated upstream and contain no path separators, so a key can never
// escape the directory.
type Local struct {
	dir string
}

// NewLocal creates the base directory if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) path(key string) string {
	return filepath.Join(l.dir, filepath.Base(key))
}

// Save writes the payload to disk.
func (l *Local) Save(_ context.Context, key string, payload io.Reader, _ int64, _ string) error {
	f, err := os.OpenFile(l.path(key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return fmt.Errorf("create blob %s: %w", key, err)
	}
	if _, err := io.Copy(f, payload); err != nil {
		f.Close()
		os.Remove(l.path(key))
		return fmt.Errorf("write blob %s: %w", key, err)
	}
	return f.Close()
}

// Open returns a reader for the stored payload.
func (l *Local) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(l.path(key))
	if err != nil {
		return nil, fmt.Errorf("open blob %s: %w", key, err)
	}
	return f, nil
}
