// Package dto defines the configuration structures for the pipeline
// services.
package dto

// ApplicationConfig is the root configuration structure.
type ApplicationConfig struct {
	Application   ApplicationInfo     `mapstructure:"application"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Pipeline      PipelineConfig      `mapstructure:"pipeline"`
	Generator     GeneratorConfig     `mapstructure:"generator"`
	Catalog       CatalogConfig       `mapstructure:"catalog"`
	Server        ServerConfig        `mapstructure:"server"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Shutdown      ShutdownConfig      `mapstructure:"shutdown"`
}

// ApplicationInfo contains application metadata.
type ApplicationInfo struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// StorageConfig contains object store configuration.
type StorageConfig struct {
	Backend string            `mapstructure:"backend"`
	S3      S3StorageConfig   `mapstructure:"s3"`
	Azure   AzureConfig       `mapstructure:"azure"`
	GCS     GCSStorageConfig  `mapstructure:"gcs"`
	File    FileStorageConfig `mapstructure:"file"`
}

// S3StorageConfig contains AWS S3 configuration.
type S3StorageConfig struct {
	Bucket       string `mapstructure:"bucket"`
	Region       string `mapstructure:"region"`
	Endpoint     string `mapstructure:"endpoint"`
	UsePathStyle bool   `mapstructure:"use_path_style"`
	SSEEnabled   bool   `mapstructure:"sse_enabled"`
	SSEKMSKeyID  string `mapstructure:"sse_kms_key_id"`
}

// AzureConfig contains Azure Blob Storage configuration.
type AzureConfig struct {
	AccountName string `mapstructure:"account_name"`
	AccountKey  string `mapstructure:"account_key"`
	Container   string `mapstructure:"container"`
	Endpoint    string `mapstructure:"endpoint"`
}

// GCSStorageConfig contains Google Cloud Storage configuration.
type GCSStorageConfig struct {
	Bucket               string `mapstructure:"bucket"`
	ProjectID            string `mapstructure:"project_id"`
	CredentialsFile      string `mapstructure:"credentials_file"`
	CredentialsJSON      string `mapstructure:"credentials_json"`
	Endpoint             string `mapstructure:"endpoint"`
	UseDefaultCredential bool   `mapstructure:"use_default_credential"`
}

// FileStorageConfig contains local filesystem configuration.
type FileStorageConfig struct {
	BasePath string `mapstructure:"base_path"`
}

// PipelineConfig contains raw/curated area layout and curated format.
type PipelineConfig struct {
	RawPrefix     string `mapstructure:"raw_prefix"`
	CuratedPrefix string `mapstructure:"curated_prefix"`
	RawExtension  string `mapstructure:"raw_extension"`
	Format        string `mapstructure:"format"`
	Compression   string `mapstructure:"compression"`
}

// GeneratorConfig bounds the synthetic trip workload.
type GeneratorConfig struct {
	TripsPerInvocation int `mapstructure:"trips_per_invocation"`
	DriverPoolSize     int `mapstructure:"driver_pool_size"`
	MinDurationMinutes int `mapstructure:"min_duration_minutes"`
	MaxDurationMinutes int `mapstructure:"max_duration_minutes"`
	MinFareCents       int `mapstructure:"min_fare_cents"`
	MaxFareCents       int `mapstructure:"max_fare_cents"`
}

// CatalogConfig contains query catalog registration configuration.
type CatalogConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Region         string `mapstructure:"region"`
	Database       string `mapstructure:"database"`
	Table          string `mapstructure:"table"`
	OutputLocation string `mapstructure:"output_location"`
	Workgroup      string `mapstructure:"workgroup"`
	LocationRoot   string `mapstructure:"location_root"`
}

// ServerConfig contains the invoke endpoint configuration.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// ObservabilityConfig contains logging, metrics and health configuration.
type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Health  HealthConfig  `mapstructure:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// HealthConfig contains health probe configuration.
type HealthConfig struct {
	Port          int    `mapstructure:"port"`
	LivenessPath  string `mapstructure:"liveness_path"`
	ReadinessPath string `mapstructure:"readiness_path"`
}

// ShutdownConfig contains graceful shutdown configuration.
type ShutdownConfig struct {
	GracePeriodSeconds int `mapstructure:"grace_period_seconds"`
}
