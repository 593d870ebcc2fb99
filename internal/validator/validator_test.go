package validator

import (
	stderrors "errors"
	"testing"

	"github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/errors"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/event"
)

func validRecord() map[string]any {
	return map[string]any{
		"event_type":      "trip_end",
		"trip_id":         "6f1c3f9a-52cf-4a9c-8f7d-2c9a1d3b4e5f",
		"driver_id":       "d42",
		"city":            "Tokyo",
		"timestamp":       "2024-03-07T10:30:00Z",
		"fare_amount":     23.75,
		"currency_code":   "JPY",
		"currency_symbol": "¥",
	}
}

func TestNewTripEventValidator(t *testing.T) {
	v := NewTripEventValidator()
	if v == nil {
		t.Fatal("expected non-nil validator")
	}
}

func TestValidateSuccess(t *testing.T) {
	v := NewTripEventValidator()

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{
			name:   "valid trip_end",
			mutate: func(r map[string]any) {},
		},
		{
			name: "valid trip_start with zero fare",
			mutate: func(r map[string]any) {
				r["event_type"] = "trip_start"
				r["fare_amount"] = 0.0
			},
		},
		{
			name: "integer fare amount",
			mutate: func(r map[string]any) {
				r["fare_amount"] = 12
			},
		},
		{
			name: "timestamp without offset",
			mutate: func(r map[string]any) {
				r["timestamp"] = "2024-03-07T10:30:00.123456"
			},
		},
		{
			name: "date-only timestamp",
			mutate: func(r map[string]any) {
				r["timestamp"] = "2024-03-07"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validRecord()
			tt.mutate(record)

			e, err := v.Validate(record)
			if err != nil {
				t.Fatalf("Validate() error = %v, want nil", err)
			}
			if e.TripID != record["trip_id"] {
				t.Errorf("TripID = %v, want %v", e.TripID, record["trip_id"])
			}
		})
	}
}

func TestValidateReturnsRecordUnchanged(t *testing.T) {
	v := NewTripEventValidator()

	e, err := v.Validate(validRecord())
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	want := event.TripEvent{
		EventType:      "trip_end",
		TripID:         "6f1c3f9a-52cf-4a9c-8f7d-2c9a1d3b4e5f",
		DriverID:       "d42",
		City:           "Tokyo",
		Timestamp:      "2024-03-07T10:30:00Z",
		FareAmount:     23.75,
		CurrencyCode:   "JPY",
		CurrencySymbol: "¥",
	}
	if *e != want {
		t.Errorf("Validate() = %+v, want %+v", *e, want)
	}
}

func TestValidateIdempotent(t *testing.T) {
	v := NewTripEventValidator()
	record := validRecord()

	first, err := v.Validate(record)
	if err != nil {
		t.Fatalf("first Validate() error = %v", err)
	}
	second, err := v.Validate(record)
	if err != nil {
		t.Fatalf("second Validate() error = %v", err)
	}
	if *first != *second {
		t.Errorf("repeated validation differs: %+v vs %+v", *first, *second)
	}
}

func TestValidateMissingField(t *testing.T) {
	v := NewTripEventValidator()

	for _, field := range []string{
		"event_type", "trip_id", "driver_id", "city",
		"timestamp", "fare_amount", "currency_code", "currency_symbol",
	} {
		t.Run(field, func(t *testing.T) {
			record := validRecord()
			delete(record, field)

			_, err := v.Validate(record)
			var missing *errors.MissingFieldError
			if !stderrors.As(err, &missing) {
				t.Fatalf("Validate() error = %v, want MissingFieldError", err)
			}
			if missing.Field != field {
				t.Errorf("Field = %v, want %v", missing.Field, field)
			}
		})
	}
}

func TestValidateTypeMismatch(t *testing.T) {
	v := NewTripEventValidator()

	tests := []struct {
		name     string
		field    string
		value    any
		expected string
		actual   string
	}{
		{
			name:     "fare_amount as string",
			field:    "fare_amount",
			value:    "23.75",
			expected: "number",
			actual:   "string",
		},
		{
			name:     "fare_amount as bool",
			field:    "fare_amount",
			value:    true,
			expected: "number",
			actual:   "bool",
		},
		{
			name:     "city as number",
			field:    "city",
			value:    3.0,
			expected: "string",
			actual:   "number",
		},
		{
			name:     "timestamp as null",
			field:    "timestamp",
			value:    nil,
			expected: "string",
			actual:   "null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validRecord()
			record[tt.field] = tt.value

			_, err := v.Validate(record)
			var mismatch *errors.TypeMismatchError
			if !stderrors.As(err, &mismatch) {
				t.Fatalf("Validate() error = %v, want TypeMismatchError", err)
			}
			if mismatch.Field != tt.field {
				t.Errorf("Field = %v, want %v", mismatch.Field, tt.field)
			}
			if mismatch.Expected != tt.expected || mismatch.Actual != tt.actual {
				t.Errorf("Expected/Actual = %v/%v, want %v/%v",
					mismatch.Expected, mismatch.Actual, tt.expected, tt.actual)
			}
		})
	}
}

func TestValidateInvalidEnum(t *testing.T) {
	v := NewTripEventValidator()
	record := validRecord()
	record["event_type"] = "trip_cancelled"

	_, err := v.Validate(record)
	var enum *errors.InvalidEnumError
	if !stderrors.As(err, &enum) {
		t.Fatalf("Validate() error = %v, want InvalidEnumError", err)
	}
	if enum.Field != "event_type" {
		t.Errorf("Field = %v, want event_type", enum.Field)
	}
}

func TestValidateInvalidFormat(t *testing.T) {
	v := NewTripEventValidator()

	tests := []struct {
		name  string
		field string
		value string
	}{
		{
			name:  "uppercase hex trip_id rejected",
			field: "trip_id",
			value: "ABCD1234-52cf-4a9c-8f7d-2c9a1d3b4e5f",
		},
		{
			name:  "trip_id without hyphens",
			field: "trip_id",
			value: "6f1c3f9a52cf4a9c8f7d2c9a1d3b4e5f",
		},
		{
			name:  "unparseable timestamp",
			field: "timestamp",
			value: "07/03/2024 10:30",
		},
		{
			name:  "lowercase currency code",
			field: "currency_code",
			value: "jpy",
		},
		{
			name:  "four letter currency code",
			field: "currency_code",
			value: "JPYX",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validRecord()
			record[tt.field] = tt.value

			_, err := v.Validate(record)
			var format *errors.InvalidFormatError
			if !stderrors.As(err, &format) {
				t.Fatalf("Validate() error = %v, want InvalidFormatError", err)
			}
			if format.Field != tt.field {
				t.Errorf("Field = %v, want %v", format.Field, tt.field)
			}
		})
	}
}

func TestValidateBusinessRule(t *testing.T) {
	v := NewTripEventValidator()

	tests := []struct {
		name      string
		eventType string
		fare      float64
		wantErr   bool
	}{
		{name: "trip_end with zero fare rejected", eventType: "trip_end", fare: 0, wantErr: true},
		{name: "trip_end with negative fare rejected", eventType: "trip_end", fare: -5, wantErr: true},
		{name: "trip_start with zero fare accepted", eventType: "trip_start", fare: 0, wantErr: false},
		{name: "trip_start with nonzero fare rejected", eventType: "trip_start", fare: 0.01, wantErr: true},
		{name: "trip_end with positive fare accepted", eventType: "trip_end", fare: 5.25, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validRecord()
			record["event_type"] = tt.eventType
			record["fare_amount"] = tt.fare

			_, err := v.Validate(record)
			if tt.wantErr {
				var rule *errors.BusinessRuleError
				if !stderrors.As(err, &rule) {
					t.Fatalf("Validate() error = %v, want BusinessRuleError", err)
				}
				if rule.EventType != tt.eventType {
					t.Errorf("EventType = %v, want %v", rule.EventType, tt.eventType)
				}
			} else if err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
		})
	}
}

// Presence and type checks run before structural checks, so a record
// that is both missing a field and carrying a bad trip_id reports the
// missing field first.
func TestValidateFailFastOrder(t *testing.T) {
	v := NewTripEventValidator()
	record := validRecord()
	record["trip_id"] = "not-a-uuid"
	delete(record, "currency_symbol")

	_, err := v.Validate(record)
	var missing *errors.MissingFieldError
	if !stderrors.As(err, &missing) {
		t.Fatalf("Validate() error = %v, want MissingFieldError", err)
	}
	if missing.Field != "currency_symbol" {
		t.Errorf("Field = %v, want currency_symbol", missing.Field)
	}
}
