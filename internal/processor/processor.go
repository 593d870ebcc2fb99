// Package processor implements the raw-to-curated trip event pipeline:
// read a raw JSON object, validate it, encode it in the curated format,
// write it to the curated area and register its partition with the
// query catalog.
package processor

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/errors"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/partition"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/catalog"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/encoder"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/event"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/storage"
)

const curatedContentType = "application/octet-stream"

// Notification is the object-store event that triggers processing. The
// shape follows S3 event notifications; the object key arrives
// URL-encoded.
type Notification struct {
	Records []NotificationRecord `json:"Records"`
}

// NotificationRecord carries one newly written raw object.
type NotificationRecord struct {
	S3 struct {
		Bucket struct {
			Name string `json:"name"`
		} `json:"bucket"`
		Object struct {
			Key string `json:"key"`
		} `json:"object"`
	} `json:"s3"`
}

// MetricsCollector defines the metrics operations the processor records.
type MetricsCollector interface {
	IncEventsProcessed(status string)
	IncValidationFailures(check string)
	ObserveProcessingDuration(seconds float64)
}

// Processor validates and converts raw trip events to the curated
// format. Each invocation processes exactly one record; invocations
// share no state.
type Processor struct {
	store        storage.ObjectStore
	validator    event.Validator
	encoder      encoder.Encoder
	deriver      *partition.Deriver
	registrar    catalog.Registrar // nil when catalog registration is disabled
	locationRoot string
	logger       *zap.Logger
	metrics      MetricsCollector
}

// Config contains processor wiring that is not a collaborator.
type Config struct {
	// CuratedLocationRoot is the fully qualified curated area root the
	// catalog location clause is built from, e.g. "s3://trips/curated/".
	CuratedLocationRoot string
}

// NewProcessor creates a new trip event processor. registrar may be nil
// to disable catalog registration.
func NewProcessor(
	cfg Config,
	store storage.ObjectStore,
	validator event.Validator,
	enc encoder.Encoder,
	deriver *partition.Deriver,
	registrar catalog.Registrar,
	logger *zap.Logger,
	metrics MetricsCollector,
) *Processor {
	return &Processor{
		store:        store,
		validator:    validator,
		encoder:      enc,
		deriver:      deriver,
		registrar:    registrar,
		locationRoot: cfg.CuratedLocationRoot,
		logger:       logger,
		metrics:      metrics,
	}
}

// Process runs the pipeline for one raw object key and returns the
// curated key it wrote. Validation and collaborator errors propagate
// unhandled; the invoke boundary maps them to the external result.
func (p *Processor) Process(ctx context.Context, rawKey string) (string, error) {
	startTime := time.Now()

	body, err := p.store.Get(ctx, rawKey)
	if err != nil {
		p.observe("error", startTime)
		return "", err
	}
	if len(body) == 0 {
		p.observe("error", startTime)
		return "", fmt.Errorf("raw event %s: %w", rawKey, apperrors.ErrEmptyBody)
	}

	var record map[string]any
	if err := json.Unmarshal(body, &record); err != nil {
		p.observe("error", startTime)
		return "", fmt.Errorf("failed to decode raw event %s: %w", rawKey, err)
	}

	validated, err := p.validator.Validate(record)
	if err != nil {
		if p.metrics != nil && apperrors.IsValidationError(err) {
			p.metrics.IncValidationFailures(checkLabel(err))
		}
		p.observe("validation_error", startTime)
		return "", err
	}

	var encoded bytes.Buffer
	if err := p.encoder.Encode(&encoded, []event.TripEvent{*validated}); err != nil {
		p.observe("error", startTime)
		return "", err
	}

	curatedKey, part, err := p.deriver.DeriveCuratedKey(rawKey)
	if err != nil {
		p.observe("error", startTime)
		return "", err
	}

	if err := p.store.Put(ctx, curatedKey, encoded.Bytes(), curatedContentType); err != nil {
		p.observe("error", startTime)
		return "", err
	}

	if p.registrar != nil {
		location := p.locationRoot + part.String() + "/"
		if err := p.registrar.RegisterPartition(ctx, part, location); err != nil {
			p.observe("error", startTime)
			return "", err
		}
	}

	p.observe("success", startTime)
	p.logger.Info("processed raw event",
		zap.String("raw_key", rawKey),
		zap.String("curated_key", curatedKey),
		zap.String("trip_id", validated.TripID),
		zap.String("event_type", validated.EventType),
	)

	return curatedKey, nil
}

// HandleNotification processes the first record of an object-store
// notification, URL-decoding its key.
func (p *Processor) HandleNotification(ctx context.Context, n Notification) (string, string, error) {
	if len(n.Records) == 0 {
		return "", "", fmt.Errorf("notification carries no records")
	}

	rawKey, err := url.QueryUnescape(n.Records[0].S3.Object.Key)
	if err != nil {
		return "", "", fmt.Errorf("failed to decode object key: %w", err)
	}

	curatedKey, err := p.Process(ctx, rawKey)
	return rawKey, curatedKey, err
}

func (p *Processor) observe(status string, startTime time.Time) {
	if p.metrics == nil {
		return
	}
	p.metrics.IncEventsProcessed(status)
	p.metrics.ObserveProcessingDuration(time.Since(startTime).Seconds())
}

// checkLabel names the validation check an error came from, for the
// validation failure counter.
func checkLabel(err error) string {
	switch {
	case asAny[*apperrors.MissingFieldError](err):
		return "missing_field"
	case asAny[*apperrors.TypeMismatchError](err):
		return "type_mismatch"
	case asAny[*apperrors.InvalidEnumError](err):
		return "invalid_enum"
	case asAny[*apperrors.InvalidFormatError](err):
		return "invalid_format"
	case asAny[*apperrors.BusinessRuleError](err):
		return "business_rule"
	default:
		return "unknown"
	}
}

func asAny[T error](err error) bool {
	var target T
	return stderrors.As(err, &target)
}
