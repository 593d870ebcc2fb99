package encoder

import (
	"fmt"
	"io"

	"github.com/linkedin/goavro/v2"

	apperrors "github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/errors"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/encoder"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/event"
)

// Ensure implementation satisfies interface at compile time.
var _ encoder.Encoder = (*AvroEncoder)(nil)

// AvroEncoder implements encoder.Encoder for Apache Avro OCF (Object
// Container File) output, readable by Spark and other Avro consumers.
type AvroEncoder struct {
	codec       *goavro.Codec
	compression string
}

// NewAvroEncoder creates a new Avro encoder with the specified
// compression ("snappy", "deflate"/"gzip" or "none").
func NewAvroEncoder(compression string) (*AvroEncoder, error) {
	codec, err := goavro.NewCodec(avroSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to create avro codec: %w", err)
	}
	return &AvroEncoder{codec: codec, compression: compression}, nil
}

// avroSchema returns the Avro schema for curated trip events.
func avroSchema() string {
	return `{
		"type": "record",
		"name": "TripEvent",
		"namespace": "com.rideshare.streaming",
		"fields": [
			{"name": "event_type", "type": "string"},
			{"name": "trip_id", "type": "string"},
			{"name": "driver_id", "type": "string"},
			{"name": "city", "type": "string"},
			{"name": "timestamp", "type": "string"},
			{"name": "fare_amount", "type": "double"},
			{"name": "currency_code", "type": "string"},
			{"name": "currency_symbol", "type": "string"}
		]
	}`
}

func ocfCompression(compression string) string {
	switch compression {
	case "snappy", "SNAPPY":
		return goavro.CompressionSnappyLabel
	case "deflate", "DEFLATE", "gzip", "GZIP":
		return goavro.CompressionDeflateLabel
	default:
		return goavro.CompressionNullLabel
	}
}

// Encode writes events to w as an Avro OCF dataset.
func (e *AvroEncoder) Encode(w io.Writer, events []event.TripEvent) error {
	if len(events) == 0 {
		return apperrors.ErrNoRecords
	}

	ocfWriter, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               w,
		Codec:           e.codec,
		CompressionName: ocfCompression(e.compression),
	})
	if err != nil {
		return fmt.Errorf("failed to create OCF writer: %w", err)
	}

	rows := make([]interface{}, len(events))
	for i, ev := range events {
		rows[i] = map[string]interface{}{
			"event_type":      ev.EventType,
			"trip_id":         ev.TripID,
			"driver_id":       ev.DriverID,
			"city":            ev.City,
			"timestamp":       ev.Timestamp,
			"fare_amount":     ev.FareAmount,
			"currency_code":   ev.CurrencyCode,
			"currency_symbol": ev.CurrencySymbol,
		}
	}

	if err := ocfWriter.Append(rows); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}

// Format returns the Avro file format.
func (e *AvroEncoder) Format() event.FileFormat {
	return event.FormatAvro
}

// FileExtension returns ".avro".
func (e *AvroEncoder) FileExtension() string {
	return ".avro"
}
