// Package encoder defines the interface for encoding trip events to
// curated file formats.
package encoder

import (
	"io"

	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/event"
)

// Encoder encodes validated trip events into a storage file format.
type Encoder interface {
	// Encode writes events to w in the encoder's format.
	Encode(w io.Writer, events []event.TripEvent) error

	// Format returns the file format this encoder produces.
	Format() event.FileFormat

	// FileExtension returns the file extension (e.g. ".parquet", ".avro").
	FileExtension() string
}
