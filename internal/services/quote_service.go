package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"quoting-system/internal/apperror"
	"quoting-system/internal/database"
	"quoting-system/internal/logger"
	"quoting-system/internal/models"
	"quoting-system/internal/refdata"

	"github.com/google/uuid"
)

// QuoteService собирает котировку: проверяет форму, получает расстояние,
// считает стоимость, формирует документ и сохраняет результат.
type QuoteService struct {
	db        *database.DB
	log       *logger.Logger
	ref       *refdata.Store
	pricing   *PricingService
	distance  *DistanceService
	documents *DocumentService
	storage   *StorageService
}

// NewQuoteService создает сервис котировок.
func NewQuoteService(db *database.DB, log *logger.Logger, ref *refdata.Store, pricing *PricingService, distance *DistanceService, documents *DocumentService, storage *StorageService) *QuoteService {
	return &QuoteService{
		db:        db,
		log:       log,
		ref:       ref,
		pricing:   pricing,
		distance:  distance,
		documents: documents,
		storage:   storage,
	}
}

// CreateQuote выполняет полный цикл: валидация → расстояние → стоимость →
// документ → сохранение → загрузка документа → ссылка WhatsApp.
// Любая ошибка внешнего вызова терминальна, повторы не выполняются.
func (s *QuoteService) CreateQuote(ctx context.Context, req *models.CreateQuoteRequest) (*models.QuoteResult, error) {
	warehouse, ok := s.ref.WarehouseByName(req.Warehouse)
	if !ok {
		return nil, apperror.Validation("unknown warehouse", nil)
	}

	locality, ok := s.ref.LocalityFor(req.ZoneID, req.Locality)
	if !ok {
		return nil, apperror.Validation("locality not found in selected zone", nil)
	}

	// Диапазон количества проверяется до расчёта стоимости
	if err := s.validateQuantity(req.CargoClass, req.Quantity); err != nil {
		return nil, err
	}

	distanceKm, err := s.distance.Resolve(ctx, warehouse.Latitude, warehouse.Longitude, locality.Latitude, locality.Longitude)
	if err != nil {
		return nil, err
	}

	breakdown, ok := s.pricing.ComputeFinalCost(req.ZoneID, req.CargoClass, req.Locality, distanceKm, req.TaxIncluded, req.Quantity, req.DeclaredValue)
	if !ok {
		return nil, apperror.Validation("quote form is incomplete", nil)
	}

	// Числовой код тарифа обязателен для структурированной записи;
	// его отсутствие — ошибка конфигурации, запись не создаётся.
	tariffCode, err := s.resolveTariffCode(req.ZoneID, req.CargoClass)
	if err != nil {
		return nil, err
	}

	quote := &models.Quote{
		ID:                 uuid.New(),
		Warehouse:          warehouse.Name,
		ZoneID:             req.ZoneID,
		ZoneName:           locality.ZoneName,
		Locality:           locality.Locality,
		CargoClass:         req.CargoClass,
		TariffCode:         tariffCode,
		Quantity:           req.Quantity,
		DistanceKm:         distanceKm,
		DeclaredValue:      req.DeclaredValue,
		TaxIncluded:        req.TaxIncluded,
		InsuranceRequested: req.InsuranceRequested,
		InsuranceCost:      breakdown.InsuranceCost,
		FinalCost:          breakdown.FinalCost,
		CreatedAt:          time.Now(),
	}

	document, err := s.documents.Render(quote)
	if err != nil {
		return nil, fmt.Errorf("failed to render quote document: %w", err)
	}

	// Две независимые записи; откат первой при ошибке второй не выполняется
	if err := s.insertQuote(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to persist quote: %w", err)
	}
	if err := s.insertDocument(ctx, quote.ID, document); err != nil {
		return nil, fmt.Errorf("failed to persist quote document: %w", err)
	}

	var documentURL string
	if s.storage != nil && s.storage.Enabled() {
		documentURL, err = s.storage.Upload(ctx, quote.ID.String()+".html", document)
		if err != nil {
			return nil, err
		}
	}

	s.log.WithFields(map[string]interface{}{
		"quote_id":    quote.ID,
		"warehouse":   quote.Warehouse,
		"locality":    quote.Locality,
		"distance_km": quote.DistanceKm,
		"final_cost":  quote.FinalCost,
	}).Info("Quote created successfully")

	return &models.QuoteResult{
		Quote:       quote,
		DocumentURL: documentURL,
		WhatsAppURL: BuildWhatsAppLink(quote, warehouse.WhatsApp),
	}, nil
}

// validateQuantity проверяет количество по диапазону типа груза.
func (s *QuoteService) validateQuantity(cargoClass string, quantity int) error {
	r := s.ref.RangeFor(cargoClass)
	if quantity < r.Min {
		return apperror.Validation(fmt.Sprintf("quantity must be at least %d for %s", r.Min, cargoClass), nil)
	}
	if r.Max != nil && quantity > *r.Max {
		return apperror.Validation(fmt.Sprintf("quantity must be at most %d for %s", *r.Max, cargoClass), nil)
	}
	return nil
}

// resolveTariffCode возвращает числовой код тарифа для записи.
func (s *QuoteService) resolveTariffCode(zoneID int, cargoClass string) (float64, error) {
	tariff, found := s.ref.TariffFor(zoneID, cargoClass)
	if !found {
		return 0, apperror.Config("no tariff configured for zone and cargo class", nil)
	}
	code, err := strconv.ParseFloat(tariff.Code, 64)
	if err != nil {
		return 0, apperror.Config("tariff code is not numeric", err)
	}
	return code, nil
}

const quoteColumns = `id, deposito, zona, localidad, tipo_carga, peso, distancia, costo_final, seguro_carga, incluir_iva, desea_facturar, cantidad, valor_mercaderia, created_at`

func (s *QuoteService) insertQuote(ctx context.Context, q *models.Quote) error {
	query := `
		INSERT INTO cotizaciones (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.ExecContext(ctx, query, q.ID, q.Warehouse, q.ZoneName, q.Locality,
		q.CargoClass, q.TariffCode, q.DistanceKm, q.FinalCost, q.InsuranceCost,
		q.TaxIncluded, q.InsuranceRequested, q.Quantity, q.DeclaredValue, q.CreatedAt)
	return err
}

func (s *QuoteService) insertDocument(ctx context.Context, id uuid.UUID, document []byte) error {
	query := `INSERT INTO cotizaciones_html (id, html_cotizacion) VALUES ($1, $2)`
	_, err := s.db.ExecContext(ctx, query, id, document)
	return err
}

// GetQuote получает котировку по ID
func (s *QuoteService) GetQuote(ctx context.Context, quoteID uuid.UUID) (*models.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM cotizaciones WHERE id = $1`

	quote, err := scanQuote(s.db.QueryRowContext(ctx, query, quoteID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("quote not found", err)
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return quote, nil
}

// GetQuotes возвращает котировки с пагинацией, новые первыми
func (s *QuoteService) GetQuotes(ctx context.Context, limit, offset int) ([]*models.Quote, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + quoteColumns + ` FROM cotizaciones ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	var quotes []*models.Quote
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, quote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quotes: %w", err)
	}

	return quotes, nil
}

// GetDocument возвращает HTML документ котировки
func (s *QuoteService) GetDocument(ctx context.Context, quoteID uuid.UUID) ([]byte, error) {
	var document []byte
	query := `SELECT html_cotizacion FROM cotizaciones_html WHERE id = $1`
	if err := s.db.QueryRowContext(ctx, query, quoteID).Scan(&document); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("quote document not found", err)
		}
		return nil, fmt.Errorf("failed to get quote document: %w", err)
	}
	return document, nil
}

// WhatsAppLink строит ссылку для существующей котировки.
func (s *QuoteService) WhatsAppLink(ctx context.Context, quoteID uuid.UUID) (string, error) {
	quote, err := s.GetQuote(ctx, quoteID)
	if err != nil {
		return "", err
	}

	warehouse, ok := s.ref.WarehouseByName(quote.Warehouse)
	if !ok {
		return "", apperror.Config("warehouse of the quote is no longer configured", nil)
	}

	return BuildWhatsAppLink(quote, warehouse.WhatsApp), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQuote(row rowScanner) (*models.Quote, error) {
	quote := &models.Quote{}
	err := row.Scan(&quote.ID, &quote.Warehouse, &quote.ZoneName, &quote.Locality,
		&quote.CargoClass, &quote.TariffCode, &quote.DistanceKm, &quote.FinalCost,
		&quote.InsuranceCost, &quote.TaxIncluded, &quote.InsuranceRequested,
		&quote.Quantity, &quote.DeclaredValue, &quote.CreatedAt)
	if err != nil {
		return nil, err
	}
	return quote, nil
}
