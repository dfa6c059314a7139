package storage

import (
	"context"
	"fmt"
	"log/slog"

	cfg "github.com/templui/campus-collector/internal/config"
)

// Storage defines the interface for photo storage operations
type Storage interface {
	// Save writes the full buffer as collection/name and returns the stored path.
	// It fails rather than overwrite an existing file.
	Save(ctx context.Context, collection, name string, data []byte) (string, error)

	// URL returns the URL for accessing a stored path
	URL(path string) string
}

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// New creates the storage backend selected by STORAGE_DRIVER
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case DriverLocal, "":
		slog.Info("initializing local storage", "root", c.UploadDir)
		return NewLocalStorage(c.UploadDir, c.UploadURLPrefix), nil

	case DriverS3:
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})

	default:
		return nil, fmt.Errorf("unknown storage driver: %s (supported: local, s3)", c.StorageDriver)
	}
}
