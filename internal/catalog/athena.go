// Package catalog implements query catalog partition registration via
// Amazon Athena.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"go.uber.org/zap"

	apperrors "github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/errors"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/catalog"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/event"
)

// Ensure implementation satisfies interface at compile time.
var _ catalog.Registrar = (*AthenaRegistrar)(nil)

// queryClient is the subset of the Athena API the registrar uses.
type queryClient interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
}

// Config contains Athena catalog configuration.
type Config struct {
	Region         string
	Database       string
	Table          string
	OutputLocation string
	Workgroup      string
	PollInterval   time.Duration
}

// MetricsCollector defines metrics operations for the registrar.
type MetricsCollector interface {
	IncPartitionsRegistered(status string)
}

// AthenaRegistrar registers curated partitions with the Glue catalog by
// executing ALTER TABLE ADD IF NOT EXISTS statements through Athena.
// Registration is idempotent: re-adding an existing partition is a
// no-op, so concurrent duplicate registrations are safe.
type AthenaRegistrar struct {
	client       queryClient
	database     string
	table        string
	output       string
	workgroup    string
	pollInterval time.Duration
	logger       *zap.Logger
	metrics      MetricsCollector
}

// NewAthenaRegistrar creates a new Athena partition registrar.
func NewAthenaRegistrar(cfg Config, logger *zap.Logger, metrics MetricsCollector) (*AthenaRegistrar, error) {
	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}

	logger.Info("Athena registrar created",
		zap.String("database", cfg.Database),
		zap.String("table", cfg.Table),
		zap.String("output_location", cfg.OutputLocation),
	)

	return &AthenaRegistrar{
		client:       athena.NewFromConfig(awsCfg),
		database:     cfg.Database,
		table:        cfg.Table,
		output:       cfg.OutputLocation,
		workgroup:    cfg.Workgroup,
		pollInterval: pollInterval,
		logger:       logger,
		metrics:      metrics,
	}, nil
}

// RegisterPartition adds the (year, month, day) partition at location to
// the catalog table and waits for the DDL statement to complete.
func (r *AthenaRegistrar) RegisterPartition(ctx context.Context, p event.Partition, location string) error {
	statement := addPartitionStatement(r.table, p, location)

	input := &athena.StartQueryExecutionInput{
		QueryString: aws.String(statement),
		QueryExecutionContext: &types.QueryExecutionContext{
			Database: aws.String(r.database),
		},
		ResultConfiguration: &types.ResultConfiguration{
			OutputLocation: aws.String(r.output),
		},
	}
	if r.workgroup != "" {
		input.WorkGroup = aws.String(r.workgroup)
	}

	out, err := r.client.StartQueryExecution(ctx, input)
	if err != nil {
		if r.metrics != nil {
			r.metrics.IncPartitionsRegistered("error")
		}
		return &apperrors.CatalogError{Partition: p.String(), Err: err}
	}

	if err := r.waitForCompletion(ctx, aws.ToString(out.QueryExecutionId)); err != nil {
		if r.metrics != nil {
			r.metrics.IncPartitionsRegistered("error")
		}
		return &apperrors.CatalogError{Partition: p.String(), Err: err}
	}

	if r.metrics != nil {
		r.metrics.IncPartitionsRegistered("success")
	}

	r.logger.Info("registered partition",
		zap.String("partition", p.String()),
		zap.String("location", location),
	)
	return nil
}

func (r *AthenaRegistrar) waitForCompletion(ctx context.Context, queryExecutionID string) error {
	for {
		out, err := r.client.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
			QueryExecutionId: aws.String(queryExecutionID),
		})
		if err != nil {
			return err
		}

		switch out.QueryExecution.Status.State {
		case types.QueryExecutionStateSucceeded:
			return nil
		case types.QueryExecutionStateFailed, types.QueryExecutionStateCancelled:
			reason := ""
			if out.QueryExecution.Status.StateChangeReason != nil {
				reason = *out.QueryExecution.Status.StateChangeReason
			}
			return fmt.Errorf("query execution %s: %s", out.QueryExecution.Status.State, reason)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.pollInterval):
		}
	}
}

// addPartitionStatement builds the DDL adding a partition if absent.
func addPartitionStatement(table string, p event.Partition, location string) string {
	return fmt.Sprintf(
		"ALTER TABLE %s ADD IF NOT EXISTS PARTITION (year=%d, month=%d, day=%d) LOCATION '%s'",
		table, p.Year, p.Month, p.Day, location,
	)
}
