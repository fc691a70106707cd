// Package storage abstracts the blob store holding attachment payloads.
// Files are always written under a generated, collision-resistant storage
// key; the user-supplied filename never reaches the store.
package storage

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/spec-kit/whistleblow-portal/internal/config"
)

// Storage persists and retrieves attachment payloads by opaque key.
type Storage interface {
	// Save writes the payload under key.
	Save(ctx context.Context, key string, payload io.Reader, size int64, contentType string) error
	// Open returns a stream for the payload, or an error if absent.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// New selects a backend from configuration.
func New(cfg config.StorageConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Driver {
	case "minio":
		return NewMinio(cfg, logger)
	case "local", "":
		return NewLocal(cfg.LocalDir)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
