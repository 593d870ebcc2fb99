package generator

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/partition"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/validator"
	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/event"
)

func newTestGenerator() *Generator {
	return NewGenerator(DefaultConfig(), zap.NewNop())
}

func TestGenerateTripPairSharedFields(t *testing.T) {
	g := newTestGenerator()

	for i := 0; i < 20; i++ {
		start, end := g.GenerateTripPair()

		if start.EventType != event.TypeTripStart {
			t.Errorf("start.EventType = %v", start.EventType)
		}
		if end.EventType != event.TypeTripEnd {
			t.Errorf("end.EventType = %v", end.EventType)
		}
		if start.TripID != end.TripID {
			t.Errorf("trip IDs differ: %v vs %v", start.TripID, end.TripID)
		}
		if start.DriverID != end.DriverID {
			t.Errorf("driver IDs differ: %v vs %v", start.DriverID, end.DriverID)
		}
		if start.City != end.City {
			t.Errorf("cities differ: %v vs %v", start.City, end.City)
		}
		if start.CurrencyCode != end.CurrencyCode || start.CurrencySymbol != end.CurrencySymbol {
			t.Errorf("currency pair differs between events")
		}

		currency, ok := event.CityCurrencies[start.City]
		if !ok {
			t.Fatalf("unsupported city %q", start.City)
		}
		if start.CurrencyCode != currency.Code || start.CurrencySymbol != currency.Symbol {
			t.Errorf("currency pair %v/%v does not match city %q",
				start.CurrencyCode, start.CurrencySymbol, start.City)
		}
	}
}

func TestGenerateTripPairDurationAndFare(t *testing.T) {
	g := newTestGenerator()

	for i := 0; i < 50; i++ {
		start, end := g.GenerateTripPair()

		startTime, err := time.Parse(time.RFC3339, start.Timestamp)
		if err != nil {
			t.Fatalf("start timestamp %q: %v", start.Timestamp, err)
		}
		endTime, err := time.Parse(time.RFC3339, end.Timestamp)
		if err != nil {
			t.Fatalf("end timestamp %q: %v", end.Timestamp, err)
		}

		duration := endTime.Sub(startTime)
		if duration < 5*time.Minute || duration > 45*time.Minute {
			t.Errorf("trip duration = %v, want [5m, 45m]", duration)
		}
		if !endTime.After(startTime) {
			t.Errorf("end timestamp %v not after start %v", endTime, startTime)
		}

		if start.FareAmount != 0 {
			t.Errorf("start fare = %v, want 0", start.FareAmount)
		}
		if end.FareAmount < 5 || end.FareAmount > 50 {
			t.Errorf("end fare = %v, want [5, 50]", end.FareAmount)
		}
		// At most two decimal digits.
		cents := end.FareAmount * 100
		if math.Abs(cents-math.Round(cents)) > 1e-9 {
			t.Errorf("end fare = %v has more than two decimal digits", end.FareAmount)
		}
	}
}

// Generated events must pass the same validation the processor applies.
func TestGeneratedEventsValidate(t *testing.T) {
	g := newTestGenerator()
	v := validator.NewTripEventValidator()

	for i := 0; i < 20; i++ {
		start, end := g.GenerateTripPair()

		for _, e := range []event.TripEvent{start, end} {
			data, err := json.Marshal(e)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			var record map[string]any
			if err := json.Unmarshal(data, &record); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if _, err := v.Validate(record); err != nil {
				t.Errorf("generated %s failed validation: %v", e.EventType, err)
			}
		}
	}
}

func TestGenerateTripPairDriverPool(t *testing.T) {
	g := NewGenerator(Config{
		DriverPoolSize:     1,
		MinDurationMinutes: 5,
		MaxDurationMinutes: 45,
		MinFareCents:       500,
		MaxFareCents:       5000,
	}, zap.NewNop())

	start, _ := g.GenerateTripPair()
	if start.DriverID != "d1" {
		t.Errorf("DriverID = %v, want d1 with pool size 1", start.DriverID)
	}
}

// memStore is an in-memory object store for batch tests.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failOn  string
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.objects[key]
	if !ok {
		return nil, context.DeadlineExceeded
	}
	return body, nil
}

func (s *memStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn != "" && strings.Contains(key, s.failOn) {
		return context.DeadlineExceeded
	}
	s.objects[key] = body
	return nil
}

func (s *memStore) Close() error { return nil }

func TestBatchRun(t *testing.T) {
	store := newMemStore()
	deriver := partition.NewDeriver("raw/", "curated/", ".json", ".parquet")
	batch := NewBatch(newTestGenerator(), store, deriver, zap.NewNop(), nil)

	summary, err := batch.Run(context.Background(), 3)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary != "3 events generated" {
		t.Errorf("summary = %q", summary)
	}

	if len(store.objects) != 6 {
		t.Fatalf("persisted %d objects, want 6", len(store.objects))
	}
	for key, body := range store.objects {
		if !strings.HasPrefix(key, "raw/year=") {
			t.Errorf("key %q does not start with raw/year=", key)
		}
		if !strings.HasSuffix(key, ".json") {
			t.Errorf("key %q does not end with .json", key)
		}
		var e event.TripEvent
		if err := json.Unmarshal(body, &e); err != nil {
			t.Errorf("object %q is not valid JSON: %v", key, err)
		}
	}
}

func TestBatchRunPersistFailure(t *testing.T) {
	store := newMemStore()
	store.failOn = "trip_end"
	deriver := partition.NewDeriver("raw/", "curated/", ".json", ".parquet")
	batch := NewBatch(newTestGenerator(), store, deriver, zap.NewNop(), nil)

	if _, err := batch.Run(context.Background(), 2); err == nil {
		t.Fatal("Run() error = nil, want error on persistence failure")
	}

	// The trip_start of the failing pair stays persisted; no rollback.
	if len(store.objects) != 1 {
		t.Errorf("persisted %d objects, want 1", len(store.objects))
	}
}
