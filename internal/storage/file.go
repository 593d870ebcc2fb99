package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	apperrors "github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/errors"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/storage"
)

// Ensure implementation satisfies interface at compile time.
var _ storage.ObjectStore = (*FileStore)(nil)

// FileConfig contains local filesystem configuration.
type FileConfig struct {
	BasePath string
}

// FileStore implements storage.ObjectStore on the local filesystem,
// used for development and tests. Keys map to paths under BasePath.
type FileStore struct {
	basePath string
	logger   *zap.Logger
	metrics  MetricsCollector
}

// NewFileStore creates a new filesystem object store.
func NewFileStore(cfg FileConfig, logger *zap.Logger, metrics MetricsCollector) (*FileStore, error) {
	if err := os.MkdirAll(cfg.BasePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}

	logger.Info("filesystem store created", zap.String("base_path", cfg.BasePath))

	return &FileStore{
		basePath: cfg.BasePath,
		logger:   logger,
		metrics:  metrics,
	}, nil
}

// Get reads the object at key.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	body, err := os.ReadFile(filepath.Join(s.basePath, filepath.FromSlash(key)))
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncStorageErrors("file", "get")
		}
		return nil, &apperrors.StorageError{Operation: "get", Key: key, Err: err}
	}
	return body, nil
}

// Put writes the object at key, creating parent directories as needed.
// The content type is recorded by real object stores only; the
// filesystem ignores it.
func (s *FileStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	path := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		if s.metrics != nil {
			s.metrics.IncStorageErrors("file", "mkdir")
		}
		return &apperrors.StorageError{Operation: "mkdir", Key: key, Err: err}
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		if s.metrics != nil {
			s.metrics.IncObjectsWritten("file", "error")
			s.metrics.IncStorageErrors("file", "write")
		}
		return &apperrors.StorageError{Operation: "put", Key: key, Err: err}
	}

	if s.metrics != nil {
		s.metrics.IncObjectsWritten("file", "success")
		s.metrics.ObserveObjectSize("file", float64(len(body)))
	}

	s.logger.Debug("wrote object to filesystem",
		zap.String("key", key),
		zap.Int("size", len(body)),
	)
	return nil
}

// Close closes the filesystem store.
func (s *FileStore) Close() error {
	return nil
}
