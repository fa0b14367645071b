package backup

import (
	"context"
	"time"
)

// BlobInfo describes one stored backup blob.
type BlobInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStore is the cloud blob storage the backup engine reads and writes.
type ObjectStore interface {
	// Upload stores a blob under key, replacing any existing one.
	Upload(ctx context.Context, key string, data []byte) error

	// Download returns the blob stored under key.
	Download(ctx context.Context, key string) ([]byte, error)

	// List returns metadata for blobs whose key starts with prefix,
	// newest first.
	List(ctx context.Context, prefix string) ([]BlobInfo, error)

	// Delete removes one blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, key string) error
}
