// Package event defines the core trip event types shared by the
// generator and processor services.
package event

import "fmt"

// Event types for the trip lifecycle. Every trip produces exactly one
// of each, sharing a trip_id.
const (
	TypeTripStart = "trip_start"
	TypeTripEnd   = "trip_end"
)

// TripEvent is the wire record persisted to the raw area and, after
// validation and encoding, to the curated area. The JSON form is flat:
// exactly these eight fields, no nesting.
type TripEvent struct {
	EventType      string  `json:"event_type"`
	TripID         string  `json:"trip_id"`
	DriverID       string  `json:"driver_id"`
	City           string  `json:"city"`
	Timestamp      string  `json:"timestamp"`
	FareAmount     float64 `json:"fare_amount"`
	CurrencyCode   string  `json:"currency_code"`
	CurrencySymbol string  `json:"currency_symbol"`
}

// Currency is the display pair associated with a city.
type Currency struct {
	Code   string
	Symbol string
}

// CityCurrencies maps each supported city to its currency pair. The pair
// on a record must match this table at generation time; downstream
// consumers do not re-derive it.
var CityCurrencies = map[string]Currency{
	"London":   {Code: "GBP", Symbol: "£"},
	"New York": {Code: "USD", Symbol: "$"},
	"Tokyo":    {Code: "JPY", Symbol: "¥"},
	"Paris":    {Code: "EUR", Symbol: "€"},
	"Berlin":   {Code: "EUR", Symbol: "€"},
}

// Cities returns the supported city names in a stable order.
func Cities() []string {
	return []string{"London", "New York", "Tokyo", "Paris", "Berlin"}
}

// Partition identifies the (year, month, day) grouping a curated object
// belongs to.
type Partition struct {
	Year  int
	Month int
	Day   int
}

// String returns the Hive-style path form of the partition.
func (p Partition) String() string {
	return fmt.Sprintf("year=%d/month=%02d/day=%02d", p.Year, p.Month, p.Day)
}

// FileFormat represents the curated storage file format.
type FileFormat string

const (
	FormatParquet FileFormat = "parquet"
	FormatAvro    FileFormat = "avro"
)

// Validator validates an untyped raw record into a TripEvent.
type Validator interface {
	// Validate checks the record against the trip event schema and
	// business rules. On success the returned event carries the record's
	// values unchanged.
	Validate(record map[string]any) (*TripEvent, error)
}
