package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/errors"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/partition"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/event"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/storage"
)

const rawContentType = "application/json"

// MetricsCollector defines the metrics operations the batch driver
// records.
type MetricsCollector interface {
	IncEventsGenerated(eventType string)
	IncEventsPersisted(eventType string, status string)
}

// Batch persists generated trip pairs to the raw area of the object
// store. A failure persisting one event aborts the batch; there is no
// partial-success tracking and no rollback of already-persisted events.
type Batch struct {
	generator *Generator
	store     storage.ObjectStore
	deriver   *partition.Deriver
	logger    *zap.Logger
	metrics   MetricsCollector
}

// NewBatch creates a new batch driver.
func NewBatch(
	generator *Generator,
	store storage.ObjectStore,
	deriver *partition.Deriver,
	logger *zap.Logger,
	metrics MetricsCollector,
) *Batch {
	return &Batch{
		generator: generator,
		store:     store,
		deriver:   deriver,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run generates numTrips trip pairs (2*numTrips events) and persists
// each event independently. It returns a human-readable summary on
// success.
func (b *Batch) Run(ctx context.Context, numTrips int) (string, error) {
	for i := 0; i < numTrips; i++ {
		start, end := b.generator.GenerateTripPair()

		if err := b.persist(ctx, &start); err != nil {
			return "", err
		}
		if err := b.persist(ctx, &end); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%d events generated", numTrips), nil
}

func (b *Batch) persist(ctx context.Context, e *event.TripEvent) error {
	if b.metrics != nil {
		b.metrics.IncEventsGenerated(e.EventType)
	}

	key, err := b.deriver.RawKey(e)
	if err != nil {
		return err
	}

	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.store.Put(ctx, key, body, rawContentType); err != nil {
		if b.metrics != nil {
			b.metrics.IncEventsPersisted(e.EventType, "error")
		}
		return &errors.StorageError{Operation: "put", Key: key, Err: err}
	}

	if b.metrics != nil {
		b.metrics.IncEventsPersisted(e.EventType, "success")
	}

	b.logger.Info("uploaded raw event",
		zap.String("trip_id", e.TripID),
		zap.String("event_type", e.EventType),
		zap.String("key", key),
	)

	return nil
}
