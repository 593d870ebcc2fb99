// Package errors defines application-specific error types and sentinel errors.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	ErrEmptyBody = errors.New("object body is empty")
	ErrNoRecords = errors.New("no records to encode")
)

// MissingFieldError indicates a required field is absent from a raw record.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// TypeMismatchError indicates a field is present but of the wrong
// primitive kind.
type TypeMismatchError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %q must be %s, got %s", e.Field, e.Expected, e.Actual)
}

// InvalidEnumError indicates a field value is outside its closed set of
// allowed variants.
type InvalidEnumError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("field %q has invalid value %q, allowed: %v", e.Field, e.Value, e.Allowed)
}

// InvalidFormatError indicates a string field does not match its
// required textual format.
type InvalidFormatError struct {
	Field  string
	Reason string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("field %q has invalid format: %s", e.Field, e.Reason)
}

// BusinessRuleError indicates the fare amount is inconsistent with the
// event type.
type BusinessRuleError struct {
	EventType  string
	FareAmount float64
}

func (e *BusinessRuleError) Error() string {
	if e.EventType == "trip_start" {
		return fmt.Sprintf("trip_start fare_amount must be 0, got %v", e.FareAmount)
	}
	return fmt.Sprintf("trip_end fare_amount must be > 0, got %v", e.FareAmount)
}

// MalformedPathError indicates a raw object key does not carry the
// expected year/month/day partition segments.
type MalformedPathError struct {
	Key string
}

func (e *MalformedPathError) Error() string {
	return fmt.Sprintf("malformed raw key %q: no year=/month=/day= partition segments", e.Key)
}

// StorageError represents an object store operation failure.
type StorageError struct {
	Operation string
	Key       string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: operation=%s key=%s: %v", e.Operation, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// CatalogError represents a partition registration failure.
type CatalogError struct {
	Partition string
	Err       error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog error: partition=%s: %v", e.Partition, e.Err)
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is one of the record validation
// error kinds, as opposed to a collaborator failure. The invoke boundary
// does not distinguish the two in its status code; this exists for
// callers and tests that do.
func IsValidationError(err error) bool {
	var missing *MissingFieldError
	var mismatch *TypeMismatchError
	var enum *InvalidEnumError
	var format *InvalidFormatError
	var rule *BusinessRuleError
	return errors.As(err, &missing) ||
		errors.As(err, &mismatch) ||
		errors.As(err, &enum) ||
		errors.As(err, &format) ||
		errors.As(err, &rule)
}
