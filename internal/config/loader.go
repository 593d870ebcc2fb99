// Package config handles configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/config/dto"
)

// Loader handles configuration loading and validation.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// Load loads configuration from file and environment variables.
func (l *Loader) Load(path string) (*dto.ApplicationConfig, error) {
	l.setDefaults()

	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Expand ${VAR} references in config values.
	for _, key := range l.v.AllKeys() {
		value := l.v.GetString(key)
		if strings.Contains(value, "${") {
			l.v.Set(key, os.ExpandEnv(value))
		}
	}

	var config dto.ApplicationConfig
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.Validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func (l *Loader) setDefaults() {
	// Application defaults
	l.v.SetDefault("application.name", "rideshare-streaming")
	l.v.SetDefault("application.version", "1.0.0")
	l.v.SetDefault("application.environment", "development")

	// Storage defaults
	l.v.SetDefault("storage.backend", "file")
	l.v.SetDefault("storage.s3.use_path_style", false)
	l.v.SetDefault("storage.s3.sse_enabled", true)

	// Pipeline defaults
	l.v.SetDefault("pipeline.raw_prefix", "raw/")
	l.v.SetDefault("pipeline.curated_prefix", "curated/")
	l.v.SetDefault("pipeline.raw_extension", ".json")
	l.v.SetDefault("pipeline.format", "parquet")
	l.v.SetDefault("pipeline.compression", "snappy")

	// Generator defaults
	l.v.SetDefault("generator.trips_per_invocation", 5)
	l.v.SetDefault("generator.driver_pool_size", 100)
	l.v.SetDefault("generator.min_duration_minutes", 5)
	l.v.SetDefault("generator.max_duration_minutes", 45)
	l.v.SetDefault("generator.min_fare_cents", 500)
	l.v.SetDefault("generator.max_fare_cents", 5000)

	// Catalog defaults
	l.v.SetDefault("catalog.enabled", false)

	// Server defaults
	l.v.SetDefault("server.port", 8081)

	// Observability defaults
	l.v.SetDefault("observability.logging.level", "info")
	l.v.SetDefault("observability.logging.format", "json")
	l.v.SetDefault("observability.logging.output", "stdout")
	l.v.SetDefault("observability.metrics.enabled", true)
	l.v.SetDefault("observability.metrics.port", 9090)
	l.v.SetDefault("observability.metrics.path", "/metrics")
	l.v.SetDefault("observability.health.port", 8080)
	l.v.SetDefault("observability.health.liveness_path", "/health/live")
	l.v.SetDefault("observability.health.readiness_path", "/health/ready")

	// Shutdown defaults
	l.v.SetDefault("shutdown.grace_period_seconds", 30)
}

// Validate validates the configuration.
func (l *Loader) Validate(config *dto.ApplicationConfig) error {
	// Storage validation
	switch config.Storage.Backend {
	case "s3":
		if config.Storage.S3.Bucket == "" {
			return errors.New("storage.s3.bucket is required for S3 backend")
		}
		if config.Storage.S3.Region == "" {
			return errors.New("storage.s3.region is required for S3 backend")
		}
	case "azure":
		if config.Storage.Azure.AccountName == "" {
			return errors.New("storage.azure.account_name is required for Azure backend")
		}
		if config.Storage.Azure.Container == "" {
			return errors.New("storage.azure.container is required for Azure backend")
		}
	case "gcs":
		if config.Storage.GCS.Bucket == "" {
			return errors.New("storage.gcs.bucket is required for GCS backend")
		}
	case "file":
		if config.Storage.File.BasePath == "" {
			return errors.New("storage.file.base_path is required for file backend")
		}
	default:
		return fmt.Errorf("unsupported storage backend: %s", config.Storage.Backend)
	}

	// Format validation
	if config.Pipeline.Format != "parquet" && config.Pipeline.Format != "avro" {
		return fmt.Errorf("unsupported curated format: %s", config.Pipeline.Format)
	}

	// Generator validation
	if config.Generator.TripsPerInvocation < 1 {
		return errors.New("generator.trips_per_invocation must be at least 1")
	}
	if config.Generator.MinDurationMinutes < 1 ||
		config.Generator.MaxDurationMinutes < config.Generator.MinDurationMinutes {
		return errors.New("generator duration bounds are invalid")
	}
	if config.Generator.MinFareCents < 1 ||
		config.Generator.MaxFareCents < config.Generator.MinFareCents {
		return errors.New("generator fare bounds are invalid")
	}

	// Catalog validation
	if config.Catalog.Enabled {
		if config.Catalog.Database == "" || config.Catalog.Table == "" {
			return errors.New("catalog.database and catalog.table are required when catalog is enabled")
		}
		if config.Catalog.OutputLocation == "" {
			return errors.New("catalog.output_location is required when catalog is enabled")
		}
		if config.Catalog.LocationRoot == "" {
			return errors.New("catalog.location_root is required when catalog is enabled")
		}
	}

	// Port validation
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.Observability.Metrics.Port < 1 || config.Observability.Metrics.Port > 65535 {
		return fmt.Errorf("invalid metrics port: %d", config.Observability.Metrics.Port)
	}
	if config.Observability.Health.Port < 1 || config.Observability.Health.Port > 65535 {
		return fmt.Errorf("invalid health port: %d", config.Observability.Health.Port)
	}

	return nil
}
