// Package generator produces synthetic trip events.
package generator

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"
	"go.uber.org/zap"

	"github.com/ltjbukem-breaks/aws-rideshare-streaming/pkg/event"
)

// Config bounds the randomness of generated trips.
type Config struct {
	DriverPoolSize     int
	MinDurationMinutes int
	MaxDurationMinutes int
	MinFareCents       int
	MaxFareCents       int
}

// DefaultConfig matches the simulated workload: drivers d1..d100, trips
// of 5-45 minutes, fares of 5.00-50.00.
func DefaultConfig() Config {
	return Config{
		DriverPoolSize:     100,
		MinDurationMinutes: 5,
		MaxDurationMinutes: 45,
		MinFareCents:       500,
		MaxFareCents:       5000,
	}
}

// Generator generates paired synthetic trip events conforming to the
// trip schema.
type Generator struct {
	config Config
	faker  faker.Faker
	logger *zap.Logger
	now    func() time.Time
}

// NewGenerator creates a new trip event generator.
func NewGenerator(config Config, logger *zap.Logger) *Generator {
	return &Generator{
		config: config,
		faker:  faker.New(),
		logger: logger,
		now:    time.Now,
	}
}

// GenerateTripPair generates a trip_start and trip_end event describing
// one trip. Both events share trip_id, driver_id, city and the currency
// pair; the end timestamp follows the start by the trip duration.
func (g *Generator) GenerateTripPair() (event.TripEvent, event.TripEvent) {
	tripID := uuid.New().String()
	driverID := fmt.Sprintf("d%d", g.faker.IntBetween(1, g.config.DriverPoolSize))

	cities := event.Cities()
	city := cities[g.faker.IntBetween(0, len(cities)-1)]
	currency := event.CityCurrencies[city]

	startTime := g.now().UTC()
	duration := g.faker.IntBetween(g.config.MinDurationMinutes, g.config.MaxDurationMinutes)
	endTime := startTime.Add(time.Duration(duration) * time.Minute)

	// Fares are drawn in integer cents so the amount never carries more
	// than two decimal digits.
	fare := float64(g.faker.IntBetween(g.config.MinFareCents, g.config.MaxFareCents)) / 100

	start := event.TripEvent{
		EventType:      event.TypeTripStart,
		TripID:         tripID,
		DriverID:       driverID,
		City:           city,
		Timestamp:      startTime.Format(time.RFC3339),
		FareAmount:     0.0,
		CurrencyCode:   currency.Code,
		CurrencySymbol: currency.Symbol,
	}

	end := event.TripEvent{
		EventType:      event.TypeTripEnd,
		TripID:         tripID,
		DriverID:       driverID,
		City:           city,
		Timestamp:      endTime.Format(time.RFC3339),
		FareAmount:     fare,
		CurrencyCode:   currency.Code,
		CurrencySymbol: currency.Symbol,
	}

	g.logger.Debug("generated trip pair",
		zap.String("trip_id", tripID),
		zap.String("city", city),
		zap.Int("duration_minutes", duration),
		zap.Float64("fare_amount", fare),
	)

	return start, end
}
