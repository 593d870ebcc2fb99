package partition

import (
	stderrors "errors"
	"testing"

	"github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/errors"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/event"
)

func newTestDeriver() *Deriver {
	return NewDeriver("raw/", "curated/", ".json", ".parquet")
}

func TestDeriveCuratedKey(t *testing.T) {
	d := newTestDeriver()

	tests := []struct {
		name          string
		rawKey        string
		wantKey       string
		wantPartition event.Partition
	}{
		{
			name:          "standard raw key",
			rawKey:        "raw/year=2024/month=03/day=07/abc123_trip_start.json",
			wantKey:       "curated/year=2024/month=03/day=07/abc123_trip_start.parquet",
			wantPartition: event.Partition{Year: 2024, Month: 3, Day: 7},
		},
		{
			name:          "two digit month and day",
			rawKey:        "raw/year=2025/month=12/day=31/6f1c3f9a_trip_end.json",
			wantKey:       "curated/year=2025/month=12/day=31/6f1c3f9a_trip_end.parquet",
			wantPartition: event.Partition{Year: 2025, Month: 12, Day: 31},
		},
		{
			name:          "extra sub-partition segments pass through",
			rawKey:        "raw/year=2024/month=03/day=07/city=tokyo/abc_trip_end.json",
			wantKey:       "curated/year=2024/month=03/day=07/city=tokyo/abc_trip_end.parquet",
			wantPartition: event.Partition{Year: 2024, Month: 3, Day: 7},
		},
		{
			name:          "month 13 accepted, calendar validity is the catalog's concern",
			rawKey:        "raw/year=2024/month=13/day=40/abc_trip_end.json",
			wantKey:       "curated/year=2024/month=13/day=40/abc_trip_end.parquet",
			wantPartition: event.Partition{Year: 2024, Month: 13, Day: 40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotKey, gotPartition, err := d.DeriveCuratedKey(tt.rawKey)
			if err != nil {
				t.Fatalf("DeriveCuratedKey() error = %v", err)
			}
			if gotKey != tt.wantKey {
				t.Errorf("curated key = %v, want %v", gotKey, tt.wantKey)
			}
			if gotPartition != tt.wantPartition {
				t.Errorf("partition = %+v, want %+v", gotPartition, tt.wantPartition)
			}
		})
	}
}

func TestDeriveCuratedKeyMalformed(t *testing.T) {
	d := newTestDeriver()

	tests := []struct {
		name   string
		rawKey string
	}{
		{name: "no partition segments", rawKey: "raw/abc123_trip_start.json"},
		{name: "missing day segment", rawKey: "raw/year=2024/month=03/abc123_trip_start.json"},
		{name: "single digit month", rawKey: "raw/year=2024/month=3/day=07/abc.json"},
		{name: "empty key", rawKey: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := d.DeriveCuratedKey(tt.rawKey)
			var malformed *errors.MalformedPathError
			if !stderrors.As(err, &malformed) {
				t.Fatalf("DeriveCuratedKey() error = %v, want MalformedPathError", err)
			}
		})
	}
}

func TestDeriveCuratedKeyIdempotent(t *testing.T) {
	d := newTestDeriver()
	rawKey := "raw/year=2024/month=03/day=07/abc123_trip_start.json"

	key1, p1, err := d.DeriveCuratedKey(rawKey)
	if err != nil {
		t.Fatalf("first DeriveCuratedKey() error = %v", err)
	}
	key2, p2, err := d.DeriveCuratedKey(rawKey)
	if err != nil {
		t.Fatalf("second DeriveCuratedKey() error = %v", err)
	}
	if key1 != key2 || p1 != p2 {
		t.Errorf("repeated derivation differs: (%v, %+v) vs (%v, %+v)", key1, p1, key2, p2)
	}
}

func TestDeriveCuratedKeyAvroExtension(t *testing.T) {
	d := NewDeriver("raw/", "curated/", ".json", ".avro")

	gotKey, _, err := d.DeriveCuratedKey("raw/year=2024/month=03/day=07/abc_trip_end.json")
	if err != nil {
		t.Fatalf("DeriveCuratedKey() error = %v", err)
	}
	want := "curated/year=2024/month=03/day=07/abc_trip_end.avro"
	if gotKey != want {
		t.Errorf("curated key = %v, want %v", gotKey, want)
	}
}

func TestRawKey(t *testing.T) {
	d := newTestDeriver()

	tests := []struct {
		name  string
		event event.TripEvent
		want  string
	}{
		{
			name: "trip start",
			event: event.TripEvent{
				EventType: event.TypeTripStart,
				TripID:    "6f1c3f9a-52cf-4a9c-8f7d-2c9a1d3b4e5f",
				Timestamp: "2024-03-07T10:30:00Z",
			},
			want: "raw/year=2024/month=03/day=07/6f1c3f9a-52cf-4a9c-8f7d-2c9a1d3b4e5f_trip_start.json",
		},
		{
			name: "trip end on single digit day",
			event: event.TripEvent{
				EventType: event.TypeTripEnd,
				TripID:    "6f1c3f9a-52cf-4a9c-8f7d-2c9a1d3b4e5f",
				Timestamp: "2024-11-02T23:59:59Z",
			},
			want: "raw/year=2024/month=11/day=02/6f1c3f9a-52cf-4a9c-8f7d-2c9a1d3b4e5f_trip_end.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.RawKey(&tt.event)
			if err != nil {
				t.Fatalf("RawKey() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("RawKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRawKeyBadTimestamp(t *testing.T) {
	d := newTestDeriver()
	e := event.TripEvent{
		EventType: event.TypeTripStart,
		TripID:    "6f1c3f9a-52cf-4a9c-8f7d-2c9a1d3b4e5f",
		Timestamp: "not-a-time",
	}

	if _, err := d.RawKey(&e); err == nil {
		t.Fatal("RawKey() error = nil, want error")
	}
}

// A raw key built by RawKey must round-trip through DeriveCuratedKey.
func TestRawKeyDerivesBack(t *testing.T) {
	d := newTestDeriver()
	e := event.TripEvent{
		EventType: event.TypeTripEnd,
		TripID:    "6f1c3f9a-52cf-4a9c-8f7d-2c9a1d3b4e5f",
		Timestamp: "2024-03-07T10:30:00Z",
	}

	rawKey, err := d.RawKey(&e)
	if err != nil {
		t.Fatalf("RawKey() error = %v", err)
	}

	curated, p, err := d.DeriveCuratedKey(rawKey)
	if err != nil {
		t.Fatalf("DeriveCuratedKey() error = %v", err)
	}
	if p != (event.Partition{Year: 2024, Month: 3, Day: 7}) {
		t.Errorf("partition = %+v", p)
	}
	want := "curated/year=2024/month=03/day=07/6f1c3f9a-52cf-4a9c-8f7d-2c9a1d3b4e5f_trip_end.parquet"
	if curated != want {
		t.Errorf("curated key = %v, want %v", curated, want)
	}
}
