package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"quoting-system/internal/logger"
	"quoting-system/internal/models"
	"quoting-system/internal/redis"
)

// QuoteHandler представляет обработчик котировок
type QuoteHandler struct {
	quoteService QuoteService
	producer     EventProducer
	redisClient  RedisClient
	log          *logger.Logger
}

// NewQuoteHandler создает новый обработчик котировок
func NewQuoteHandler(quoteService QuoteService, producer EventProducer, redisClient RedisClient, log *logger.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		producer:     producer,
		redisClient:  redisClient,
		log:          log,
	}
}

// CreateQuote создает новую котировку
func (h *QuoteHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.CreateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Валидация запроса
	if err := validateCreateQuoteRequest(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// Создание котировки
	result, err := h.quoteService.CreateQuote(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to create quote")
		return
	}

	// Публикация события в Kafka
	if err := h.producer.PublishQuoteCreated(result.Quote); err != nil {
		h.log.WithError(err).Error("Failed to publish quote created event")
		// Не возвращаем ошибку клиенту, так как котировка уже создана
	}

	// Кеширование котировки в Redis
	cacheKey := redis.GenerateKey(redis.KeyPrefixQuote, result.Quote.ID.String())
	if err := h.redisClient.Set(r.Context(), cacheKey, result.Quote, defaultCacheTTL); err != nil {
		h.log.WithError(err).Error("Failed to cache quote")
		// Не возвращаем ошибку клиенту
	}

	writeJSONResponse(w, http.StatusCreated, result)
}

// GetQuote получает котировку по ID
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	quoteID, err := extractUUIDFromPath(r.URL.Path, "/api/quotes/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid quote ID")
		return
	}

	// Попытка получить из кеша
	cacheKey := redis.GenerateKey(redis.KeyPrefixQuote, quoteID.String())
	var cached models.Quote
	if err := h.redisClient.Get(r.Context(), cacheKey, &cached); err == nil {
		h.log.WithField("quote_id", quoteID).Debug("Quote retrieved from cache")
		writeJSONResponse(w, http.StatusOK, &cached)
		return
	}

	// Получение из базы данных
	quote, err := h.quoteService.GetQuote(r.Context(), quoteID)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to get quote")
		return
	}

	// Кеширование котировки
	if err := h.redisClient.Set(r.Context(), cacheKey, quote, defaultCacheTTL); err != nil {
		h.log.WithError(err).Error("Failed to cache quote")
	}

	writeJSONResponse(w, http.StatusOK, quote)
}

// GetQuotes получает список котировок с пагинацией
func (h *QuoteHandler) GetQuotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	query := r.URL.Query()

	limit := 50 // По умолчанию
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	offset := 0
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	quotes, err := h.quoteService.GetQuotes(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to get quotes")
		return
	}

	writeJSONResponse(w, http.StatusOK, quotes)
}

// GetDocument отдает HTML документ котировки
func (h *QuoteHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	quoteID, err := extractUUIDFromPath(r.URL.Path, "/api/quotes/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid quote ID")
		return
	}

	document, err := h.quoteService.GetDocument(r.Context(), quoteID)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to get quote document")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(document); err != nil {
		h.log.WithError(err).Error("Failed to write quote document")
	}
}

// GetWhatsAppLink возвращает ссылку WhatsApp для котировки
func (h *QuoteHandler) GetWhatsAppLink(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	quoteID, err := extractUUIDFromPath(r.URL.Path, "/api/quotes/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid quote ID")
		return
	}

	link, err := h.quoteService.WhatsAppLink(r.Context(), quoteID)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to build whatsapp link")
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"url": link})
}

// validateCreateQuoteRequest валидирует запрос на создание котировки
func validateCreateQuoteRequest(req *models.CreateQuoteRequest) error {
	if req.Warehouse == "" {
		return fmt.Errorf("warehouse is required")
	}
	if req.ZoneID <= 0 {
		return fmt.Errorf("zone_id must be positive")
	}
	if req.Locality == "" {
		return fmt.Errorf("locality is required")
	}
	if req.CargoClass == "" {
		return fmt.Errorf("cargo_class is required")
	}
	if req.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	if req.DeclaredValue < 0 {
		return fmt.Errorf("declared_value cannot be negative")
	}
	return nil
}
