// Package validator implements trip event validation.
package validator

import (
	"encoding/json"
	"regexp"
	"time"

	"github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/errors"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/event"
)

// fieldKind is the closed set of primitive kinds a trip event field may
// have on the wire.
type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
)

func (k fieldKind) String() string {
	if k == kindNumber {
		return "number"
	}
	return "string"
}

// fieldSpec binds a field name to its expected kind. Order matters:
// presence and type checks run in this order, first failure wins.
type fieldSpec struct {
	name string
	kind fieldKind
}

var requiredFields = []fieldSpec{
	{"event_type", kindString},
	{"trip_id", kindString},
	{"driver_id", kindString},
	{"city", kindString},
	{"timestamp", kindString},
	{"fare_amount", kindNumber},
	{"currency_code", kindString},
	{"currency_symbol", kindString},
}

var (
	tripIDPattern   = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

// timestampLayouts are the accepted ISO-8601 shapes: full date-time with
// offset, offset-less date-time (with optional fractional seconds), and
// date-only.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// TripEventValidator validates untyped raw records against the trip
// event schema and business rules. It holds no state; each record is
// validated independently and trip_start is never compared against its
// trip_end.
type TripEventValidator struct{}

// Ensure implementation satisfies interface at compile time.
var _ event.Validator = (*TripEventValidator)(nil)

// NewTripEventValidator creates a new trip event validator.
func NewTripEventValidator() *TripEventValidator {
	return &TripEventValidator{}
}

// Validate runs the six checks in order, fail-fast:
//
//  1. presence and primitive kind of every required field
//  2. event_type is trip_start or trip_end
//  3. trip_id is a canonical lowercase UUID
//  4. timestamp parses as ISO-8601
//  5. currency_code is exactly three uppercase ASCII letters
//  6. fare_amount is 0 for trip_start, > 0 for trip_end
//
// On success the returned TripEvent carries the record's values
// unchanged. Validate has no side effects.
func (v *TripEventValidator) Validate(record map[string]any) (*event.TripEvent, error) {
	for _, spec := range requiredFields {
		value, ok := record[spec.name]
		if !ok {
			return nil, &errors.MissingFieldError{Field: spec.name}
		}
		if actual := kindOf(value); actual != spec.kind.String() {
			return nil, &errors.TypeMismatchError{
				Field:    spec.name,
				Expected: spec.kind.String(),
				Actual:   actual,
			}
		}
	}

	eventType := record["event_type"].(string)
	if eventType != event.TypeTripStart && eventType != event.TypeTripEnd {
		return nil, &errors.InvalidEnumError{
			Field:   "event_type",
			Value:   eventType,
			Allowed: []string{event.TypeTripStart, event.TypeTripEnd},
		}
	}

	tripID := record["trip_id"].(string)
	if !tripIDPattern.MatchString(tripID) {
		return nil, &errors.InvalidFormatError{
			Field:  "trip_id",
			Reason: "must be a canonical lowercase UUID",
		}
	}

	timestamp := record["timestamp"].(string)
	if !parseableTimestamp(timestamp) {
		return nil, &errors.InvalidFormatError{
			Field:  "timestamp",
			Reason: "must be an ISO 8601 date-time",
		}
	}

	currencyCode := record["currency_code"].(string)
	if !currencyPattern.MatchString(currencyCode) {
		return nil, &errors.InvalidFormatError{
			Field:  "currency_code",
			Reason: "must be 3 uppercase letters",
		}
	}

	fare := numberValue(record["fare_amount"])
	if (eventType == event.TypeTripStart && fare != 0) ||
		(eventType == event.TypeTripEnd && fare <= 0) {
		return nil, &errors.BusinessRuleError{
			EventType:  eventType,
			FareAmount: fare,
		}
	}

	return &event.TripEvent{
		EventType:      eventType,
		TripID:         tripID,
		DriverID:       record["driver_id"].(string),
		City:           record["city"].(string),
		Timestamp:      timestamp,
		FareAmount:     fare,
		CurrencyCode:   currencyCode,
		CurrencySymbol: record["currency_symbol"].(string),
	}, nil
}

// kindOf maps a decoded JSON value to its primitive kind name. Integers
// and floats both report "number"; bool, null and composites report
// their own names so type mismatch messages stay specific.
func kindOf(value any) string {
	switch value.(type) {
	case string:
		return "string"
	case float64, int, int64, json.Number:
		return "number"
	case bool:
		return "bool"
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return "unknown"
	}
}

// numberValue converts an accepted numeric value to float64. Callers
// must have verified kindOf(value) == "number" first.
func numberValue(value any) float64 {
	switch n := value.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}

func parseableTimestamp(s string) bool {
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
