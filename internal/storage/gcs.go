package storage

import (
	"context"
	"fmt"
	"io"

	gcstorage "cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	apperrors "github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/errors"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/storage"
)

// Ensure implementation satisfies interface at compile time.
var _ storage.ObjectStore = (*GCSStore)(nil)

// GCSConfig contains Google Cloud Storage configuration.
type GCSConfig struct {
	Bucket               string
	ProjectID            string
	CredentialsFile      string
	CredentialsJSON      string
	Endpoint             string
	UseDefaultCredential bool
}

// GCSStore implements storage.ObjectStore for Google Cloud Storage with
// service account file, JSON or default credential authentication.
type GCSStore struct {
	client  *gcstorage.Client
	bucket  string
	logger  *zap.Logger
	metrics MetricsCollector
}

// NewGCSStore creates a new Google Cloud Storage object store.
func NewGCSStore(cfg GCSConfig, logger *zap.Logger, metrics MetricsCollector) (*GCSStore, error) {
	ctx := context.Background()

	var clientOpts []option.ClientOption
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint))
	}

	if cfg.UseDefaultCredential {
		logger.Info("using default GCP credentials")
	} else if cfg.CredentialsJSON != "" {
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
		logger.Info("using GCP credentials from JSON string")
	} else if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
		logger.Info("using GCP credentials from file", zap.String("file", cfg.CredentialsFile))
	} else {
		logger.Info("no explicit credentials provided, using default GCP credentials")
	}

	client, err := gcstorage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	logger.Info("GCS store created", zap.String("bucket", cfg.Bucket))

	return &GCSStore{
		client:  client,
		bucket:  cfg.Bucket,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Get reads the full body of the object at key.
func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, error) {
	reader, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncStorageErrors("gcs", "get")
		}
		return nil, &apperrors.StorageError{Operation: "get", Key: key, Err: err}
	}
	defer reader.Close()

	body, err := io.ReadAll(reader)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncStorageErrors("gcs", "read")
		}
		return nil, &apperrors.StorageError{Operation: "read", Key: key, Err: err}
	}
	return body, nil
}

// Put writes body to the object at key.
func (s *GCSStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	writer := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := writer.Write(body); err != nil {
		writer.Close()
		if s.metrics != nil {
			s.metrics.IncObjectsWritten("gcs", "error")
			s.metrics.IncStorageErrors("gcs", "write")
		}
		return &apperrors.StorageError{Operation: "put", Key: key, Err: err}
	}
	if err := writer.Close(); err != nil {
		if s.metrics != nil {
			s.metrics.IncObjectsWritten("gcs", "error")
			s.metrics.IncStorageErrors("gcs", "close")
		}
		return &apperrors.StorageError{Operation: "put", Key: key, Err: err}
	}

	if s.metrics != nil {
		s.metrics.IncObjectsWritten("gcs", "success")
		s.metrics.ObserveObjectSize("gcs", float64(len(body)))
	}

	s.logger.Debug("wrote object to GCS",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("size", len(body)),
	)
	return nil
}

// Close closes the GCS store.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
