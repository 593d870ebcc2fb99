package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"go.uber.org/zap"

	apperrors "github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/errors"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/storage"
)

// Ensure implementation satisfies interface at compile time.
var _ storage.ObjectStore = (*AzureStore)(nil)

// AzureConfig contains Azure Blob Storage configuration.
type AzureConfig struct {
	AccountName   string
	AccountKey    string
	ContainerName string
	Endpoint      string
}

// AzureStore implements storage.ObjectStore for Azure Blob Storage
// using access key authentication.
type AzureStore struct {
	client    *azblob.Client
	container string
	logger    *zap.Logger
	metrics   MetricsCollector
}

// NewAzureStore creates a new Azure Blob object store.
func NewAzureStore(cfg AzureConfig, logger *zap.Logger, metrics MetricsCollector) (*AzureStore, error) {
	var connectionString string
	if cfg.Endpoint != "" {
		connectionString = fmt.Sprintf("DefaultEndpointsProtocol=https;AccountName=%s;AccountKey=%s;BlobEndpoint=%s",
			cfg.AccountName, cfg.AccountKey, cfg.Endpoint)
	} else {
		connectionString = fmt.Sprintf("DefaultEndpointsProtocol=https;AccountName=%s;AccountKey=%s;EndpointSuffix=core.windows.net",
			cfg.AccountName, cfg.AccountKey)
	}

	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure client: %w", err)
	}

	logger.Info("Azure store created",
		zap.String("container", cfg.ContainerName),
		zap.String("account", cfg.AccountName),
	)

	return &AzureStore{
		client:    client,
		container: cfg.ContainerName,
		logger:    logger,
		metrics:   metrics,
	}, nil
}

// Get reads the full body of the blob at key.
func (s *AzureStore) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, key, nil)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncStorageErrors("azure", "get")
		}
		return nil, &apperrors.StorageError{Operation: "get", Key: key, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncStorageErrors("azure", "read")
		}
		return nil, &apperrors.StorageError{Operation: "read", Key: key, Err: err}
	}
	return body, nil
}

// Put writes body to the blob at key.
func (s *AzureStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	opts := &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	if _, err := s.client.UploadBuffer(ctx, s.container, key, body, opts); err != nil {
		if s.metrics != nil {
			s.metrics.IncObjectsWritten("azure", "error")
			s.metrics.IncStorageErrors("azure", "upload")
		}
		return &apperrors.StorageError{Operation: "put", Key: key, Err: err}
	}

	if s.metrics != nil {
		s.metrics.IncObjectsWritten("azure", "success")
		s.metrics.ObserveObjectSize("azure", float64(len(body)))
	}

	s.logger.Debug("wrote blob to Azure",
		zap.String("container", s.container),
		zap.String("key", key),
		zap.Int("size", len(body)),
	)
	return nil
}

// Close closes the Azure store.
func (s *AzureStore) Close() error {
	return nil
}
