// Package catalog defines the query catalog abstraction for partition
// registration.
package catalog

import (
	"context"

	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/event"
)

// Registrar registers curated partitions with a query catalog so the
// query service can prune scans by (year, month, day).
type Registrar interface {
	// RegisterPartition adds the partition at location to the catalog
	// table if it is not already present. Repeated registration for the
	// same partition is a no-op.
	RegisterPartition(ctx context.Context, p event.Partition, location string) error
}
