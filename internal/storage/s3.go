// Package storage implements object store backends for raw and curated
// trip data.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	apperrors "github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/errors"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/storage"
)

// Ensure implementation satisfies interface at compile time.
var _ storage.ObjectStore = (*S3Store)(nil)

// MetricsCollector defines metrics operations for storage backends.
type MetricsCollector interface {
	IncObjectsWritten(backend string, status string)
	ObserveObjectSize(backend string, size float64)
	IncStorageErrors(backend string, operation string)
}

// S3Config contains AWS S3 configuration.
type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	UsePathStyle bool
	SSEEnabled   bool
	SSEKMSKeyID  string
}

// S3Store implements storage.ObjectStore for AWS S3. Uploads go through
// the multipart-capable manager uploader with optional server-side
// encryption.
type S3Store struct {
	client      *s3.Client
	uploader    *manager.Uploader
	bucket      string
	sseEnabled  bool
	sseKMSKeyID string
	logger      *zap.Logger
	metrics     MetricsCollector
}

// NewS3Store creates a new S3 object store.
func NewS3Store(cfg S3Config, logger *zap.Logger, metrics MetricsCollector) (*S3Store, error) {
	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 10 * 1024 * 1024
		u.Concurrency = 5
	})

	logger.Info("S3 store created",
		zap.String("bucket", cfg.Bucket),
		zap.String("region", cfg.Region),
		zap.Bool("sse_enabled", cfg.SSEEnabled),
	)

	return &S3Store{
		client:      client,
		uploader:    uploader,
		bucket:      cfg.Bucket,
		sseEnabled:  cfg.SSEEnabled,
		sseKMSKeyID: cfg.SSEKMSKeyID,
		logger:      logger,
		metrics:     metrics,
	}, nil
}

// Get reads the full body of the object at key.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncStorageErrors("s3", "get")
		}
		return nil, &apperrors.StorageError{Operation: "get", Key: key, Err: err}
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncStorageErrors("s3", "read")
		}
		return nil, &apperrors.StorageError{Operation: "read", Key: key, Err: err}
	}
	return body, nil
}

// Put writes body to the object at key.
func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	}

	if s.sseEnabled {
		if s.sseKMSKeyID != "" {
			input.ServerSideEncryption = types.ServerSideEncryptionAwsKms
			input.SSEKMSKeyId = aws.String(s.sseKMSKeyID)
		} else {
			input.ServerSideEncryption = types.ServerSideEncryptionAes256
		}
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		if s.metrics != nil {
			s.metrics.IncObjectsWritten("s3", "error")
			s.metrics.IncStorageErrors("s3", "upload")
		}
		return &apperrors.StorageError{Operation: "put", Key: key, Err: err}
	}

	if s.metrics != nil {
		s.metrics.IncObjectsWritten("s3", "success")
		s.metrics.ObserveObjectSize("s3", float64(len(body)))
	}

	s.logger.Debug("wrote object to S3",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("size", len(body)),
	)
	return nil
}

// Close closes the S3 store.
func (s *S3Store) Close() error {
	return nil
}
