package handlers

import (
	"context"
	"time"

	"quoting-system/internal/models"

	"github.com/google/uuid"
)

// ----- Quotes -----

type QuoteService interface {
	CreateQuote(ctx context.Context, req *models.CreateQuoteRequest) (*models.QuoteResult, error)
	GetQuote(ctx context.Context, quoteID uuid.UUID) (*models.Quote, error)
	GetQuotes(ctx context.Context, limit, offset int) ([]*models.Quote, error)
	GetDocument(ctx context.Context, quoteID uuid.UUID) ([]byte, error)
	WhatsAppLink(ctx context.Context, quoteID uuid.UUID) (string, error)
}

type DistanceResolver interface {
	Resolve(ctx context.Context, originLat, originLon, destLat, destLon float64) (float64, error)
}

type EventProducer interface {
	PublishQuoteCreated(quote *models.Quote) error
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
}

// ----- Health -----

type DBHealth interface {
	Health() error
}

type RedisHealth interface {
	Health(ctx context.Context) error
}
