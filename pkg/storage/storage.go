// Package storage defines the object store abstraction used for raw and
// curated trip data.
//
// Implementations exist for AWS S3, Azure Blob Storage, Google Cloud
// Storage and the local filesystem (see internal/storage).
package storage

import "context"

// ObjectStore reads and writes whole objects addressed by key.
type ObjectStore interface {
	// Get reads the full body of the object at key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put writes body to the object at key with the given content type,
	// replacing any existing object.
	Put(ctx context.Context, key string, body []byte, contentType string) error

	// Close releases client resources.
	Close() error
}
