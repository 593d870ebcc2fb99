// Package partition implements partition path derivation between the
// raw and curated areas of the object store.
package partition

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/errors"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/event"
)

// keyPattern captures (prefix, year, month, day, suffix) from a raw
// object key. One supported path shape only.
var keyPattern = regexp.MustCompile(`^(.*?)year=(\d+)/month=(\d{2})/day=(\d{2})/(.+)$`)

// Deriver rewrites raw object keys into curated keys and extracts the
// partition tuple for catalog registration.
//
// Rewriting is string substitution, not structural reconstruction:
// unanticipated extra path segments pass through verbatim, so future
// sub-partitions do not break the deriver.
type Deriver struct {
	rawPrefix     string
	curatedPrefix string
	rawExtension  string
	curatedExt    string
}

// NewDeriver creates a deriver that substitutes rawPrefix with
// curatedPrefix and rawExtension with curatedExtension.
func NewDeriver(rawPrefix, curatedPrefix, rawExtension, curatedExtension string) *Deriver {
	return &Deriver{
		rawPrefix:     rawPrefix,
		curatedPrefix: curatedPrefix,
		rawExtension:  rawExtension,
		curatedExt:    curatedExtension,
	}
}

// DeriveCuratedKey returns the curated key for a raw key together with
// its (year, month, day) partition. The partition integers are parsed
// but not calendar-checked; month=13 is the catalog's concern.
func (d *Deriver) DeriveCuratedKey(rawKey string) (string, event.Partition, error) {
	m := keyPattern.FindStringSubmatch(rawKey)
	if m == nil {
		return "", event.Partition{}, &errors.MalformedPathError{Key: rawKey}
	}

	year, err := strconv.Atoi(m[2])
	if err != nil {
		return "", event.Partition{}, &errors.MalformedPathError{Key: rawKey}
	}
	month, err := strconv.Atoi(m[3])
	if err != nil {
		return "", event.Partition{}, &errors.MalformedPathError{Key: rawKey}
	}
	day, err := strconv.Atoi(m[4])
	if err != nil {
		return "", event.Partition{}, &errors.MalformedPathError{Key: rawKey}
	}

	curated := strings.Replace(rawKey, d.rawPrefix, d.curatedPrefix, 1)
	if strings.HasSuffix(curated, d.rawExtension) {
		curated = strings.TrimSuffix(curated, d.rawExtension) + d.curatedExt
	}

	return curated, event.Partition{Year: year, Month: month, Day: day}, nil
}

// RawKey builds the raw object key for a trip event from its timestamp:
// <rawPrefix>year=Y/month=MM/day=DD/<trip_id>_<event_type><rawExtension>.
func (d *Deriver) RawKey(e *event.TripEvent) (string, error) {
	t, err := parseEventTime(e.Timestamp)
	if err != nil {
		return "", &errors.InvalidFormatError{
			Field:  "timestamp",
			Reason: "must be an ISO 8601 date-time",
		}
	}

	return fmt.Sprintf("%syear=%d/month=%02d/day=%02d/%s_%s%s",
		d.rawPrefix, t.Year(), int(t.Month()), t.Day(),
		e.TripID, e.EventType, d.rawExtension,
	), nil
}

func parseEventTime(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
