package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/catalog"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/config"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/config/dto"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/encoder"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/observability"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/partition"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/processor"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/server"
	istorage "github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/storage"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/validator"
	pkgcatalog "github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/catalog"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/event"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	// Priority: CLI flag > CONFIG_PATH env var > default path
	var cfgPath string
	if *configPath != "" {
		cfgPath = *configPath
	} else if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		cfgPath = envPath
	} else {
		cfgPath = "config/application.yaml"
	}

	loader := config.NewLoader()
	cfg, err := loader.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := observability.NewLogger(observability.LoggingConfig{
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
		Output: cfg.Observability.Logging.Output,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting trip processor",
		zap.String("version", cfg.Application.Version),
		zap.String("environment", cfg.Application.Environment),
	)

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	store, err := newObjectStore(cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck

	format := event.FormatParquet
	if cfg.Pipeline.Format == "avro" {
		format = event.FormatAvro
	}

	factory := encoder.NewFactory(format, cfg.Pipeline.Compression)
	enc, err := factory.CreateEncoder()
	if err != nil {
		return fmt.Errorf("failed to create encoder: %w", err)
	}

	deriver := partition.NewDeriver(
		cfg.Pipeline.RawPrefix,
		cfg.Pipeline.CuratedPrefix,
		cfg.Pipeline.RawExtension,
		enc.FileExtension(),
	)

	var registrar pkgcatalog.Registrar
	if cfg.Catalog.Enabled {
		athena, err := catalog.NewAthenaRegistrar(catalog.Config{
			Region:         cfg.Catalog.Region,
			Database:       cfg.Catalog.Database,
			Table:          cfg.Catalog.Table,
			OutputLocation: cfg.Catalog.OutputLocation,
			Workgroup:      cfg.Catalog.Workgroup,
		}, logger, metrics)
		if err != nil {
			return fmt.Errorf("failed to create catalog registrar: %w", err)
		}
		registrar = athena
	}

	proc := processor.NewProcessor(
		processor.Config{CuratedLocationRoot: cfg.Catalog.LocationRoot},
		store,
		validator.NewTripEventValidator(),
		enc,
		deriver,
		registrar,
		logger,
		metrics,
	)

	invokeHandler := server.ProcessorInvokeHandler(proc, logger)

	httpServer := server.NewServer(
		cfg.Server.Port,
		cfg.Observability.Health.Port,
		cfg.Observability.Metrics.Port,
		invokeHandler,
		server.StaticChecker{},
		registry,
		logger,
	)

	if err := httpServer.Start(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	logger.Info("application started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("initiating graceful shutdown")

	shutdownTimeout := time.Duration(cfg.Shutdown.GracePeriodSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}

	logger.Info("application stopped successfully")
	return nil
}

// newObjectStore creates the configured object store backend.
func newObjectStore(cfg *dto.ApplicationConfig, logger *zap.Logger, metrics *observability.Metrics) (storage.ObjectStore, error) {
	switch cfg.Storage.Backend {
	case "file":
		return istorage.NewFileStore(istorage.FileConfig{
			BasePath: cfg.Storage.File.BasePath,
		}, logger, metrics)
	case "s3":
		return istorage.NewS3Store(istorage.S3Config{
			Bucket:       cfg.Storage.S3.Bucket,
			Region:       cfg.Storage.S3.Region,
			Endpoint:     cfg.Storage.S3.Endpoint,
			UsePathStyle: cfg.Storage.S3.UsePathStyle,
			SSEEnabled:   cfg.Storage.S3.SSEEnabled,
			SSEKMSKeyID:  cfg.Storage.S3.SSEKMSKeyID,
		}, logger, metrics)
	case "azure":
		return istorage.NewAzureStore(istorage.AzureConfig{
			AccountName:   cfg.Storage.Azure.AccountName,
			AccountKey:    os.Getenv("AZURE_STORAGE_ACCOUNT_KEY"),
			ContainerName: cfg.Storage.Azure.Container,
			Endpoint:      cfg.Storage.Azure.Endpoint,
		}, logger, metrics)
	case "gcs":
		return istorage.NewGCSStore(istorage.GCSConfig{
			Bucket:               cfg.Storage.GCS.Bucket,
			ProjectID:            cfg.Storage.GCS.ProjectID,
			CredentialsFile:      cfg.Storage.GCS.CredentialsFile,
			CredentialsJSON:      os.Getenv("GCP_CREDENTIALS_JSON"),
			Endpoint:             cfg.Storage.GCS.Endpoint,
			UseDefaultCredential: cfg.Storage.GCS.UseDefaultCredential,
		}, logger, metrics)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s (supported: file, s3, azure, gcs)", cfg.Storage.Backend)
	}
}
