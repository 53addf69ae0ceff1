// Package entity holds the thin producer/consumer types that register
// curves against cities. Entities own only their private curve and a
// city reference; all aggregate mutation goes through the Market, so
// two entities never touch shared state directly.
package entity

import (
	"github.com/google/uuid"

	"market_go/internal/curve"
	"market_go/internal/geography"
)

// Producer contributes a supply curve to one city.
type Producer struct {
	ID       uuid.UUID
	City     geography.CityID
	Supply   curve.Supply
	Behavior Behavior
}

// NewProducer creates a producer with a fresh id. Behavior may be nil
// for an entity that never reacts to prices.
func NewProducer(city geography.CityID, supply curve.Supply, behavior Behavior) *Producer {
	return &Producer{
		ID:       uuid.New(),
		City:     city,
		Supply:   supply,
		Behavior: behavior,
	}
}

// Consumer contributes a demand curve to one city.
type Consumer struct {
	ID       uuid.UUID
	City     geography.CityID
	Demand   curve.Demand
	Behavior Behavior
}

// NewConsumer creates a consumer with a fresh id.
func NewConsumer(city geography.CityID, demand curve.Demand, behavior Behavior) *Consumer {
	return &Consumer{
		ID:       uuid.New(),
		City:     city,
		Demand:   demand,
		Behavior: behavior,
	}
}
