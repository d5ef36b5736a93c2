package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType представляет тип события
type EventType string

const (
	EventTypeQuoteCreated EventType = "quote.created"
)

// Event представляет событие, публикуемое в Kafka
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// QuoteCreatedData — полезная нагрузка события quote.created
type QuoteCreatedData struct {
	QuoteID    uuid.UUID `json:"quote_id"`
	Warehouse  string    `json:"warehouse"`
	ZoneName   string    `json:"zone_name"`
	Locality   string    `json:"locality"`
	FinalCost  float64   `json:"final_cost"`
	DistanceKm float64   `json:"distance_km"`
}
