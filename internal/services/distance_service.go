package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"quoting-system/internal/apperror"
	"quoting-system/internal/config"
	"quoting-system/internal/logger"
	"quoting-system/internal/redis"
)

// DistanceService возвращает дорожное расстояние между двумя точками,
// сначала проверяя кеш, затем обращаясь к OpenRouteService.
// Записи кеша бессрочные: физические расстояния не меняются.
type DistanceService struct {
	redis  *redis.Client
	log    *logger.Logger
	client *http.Client
	cfg    *config.RoutingConfig
}

// NewDistanceService создает сервис расчёта расстояний.
func NewDistanceService(redisClient *redis.Client, log *logger.Logger, cfg *config.RoutingConfig) *DistanceService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DistanceService{
		redis:  redisClient,
		log:    log,
		client: &http.Client{Timeout: timeout},
		cfg:    cfg,
	}
}

// CacheKey строит ключ кеша из четырёх координат в фиксированном порядке.
// Формат чисел должен быть стабильным между запусками, иначе кеш не сработает.
func CacheKey(originLat, originLon, destLat, destLon float64) string {
	return fmt.Sprintf("%s,%s,%s,%s",
		formatCoord(originLat), formatCoord(originLon),
		formatCoord(destLat), formatCoord(destLon))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Resolve возвращает расстояние в километрах, округлённое до 2 знаков.
// Ошибка кеша трактуется как промах; ошибка внешнего сервиса — терминальна
// для запроса, без повторов.
func (s *DistanceService) Resolve(ctx context.Context, originLat, originLon, destLat, destLon float64) (float64, error) {
	key := redis.GenerateKey(redis.KeyPrefixDistance, CacheKey(originLat, originLon, destLat, destLon))

	var cached float64
	if err := s.redis.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	distanceKm, err := s.routeDistance(ctx, originLat, originLon, destLat, destLon)
	if err != nil {
		return 0, err
	}

	distanceKm = math.Round(distanceKm*100) / 100

	// Пишем в кеш без TTL (best effort)
	if err := s.redis.Set(ctx, key, distanceKm, 0); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("Failed to cache distance")
	}

	return distanceKm, nil
}

// routeDistance вызывает OpenRouteService Directions API.
// Сервис принимает координаты в порядке (долгота, широта).
func (s *DistanceService) routeDistance(ctx context.Context, originLat, originLon, destLat, destLon float64) (float64, error) {
	params := url.Values{}
	params.Set("start", fmt.Sprintf("%s,%s", formatCoord(originLon), formatCoord(originLat)))
	params.Set("end", fmt.Sprintf("%s,%s", formatCoord(destLon), formatCoord(destLat)))

	profile := s.cfg.Profile
	if profile == "" {
		profile = "driving-car"
	}

	reqURL := fmt.Sprintf("%s/v2/directions/%s?%s", s.cfg.BaseURL, profile, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/geo+json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, apperror.Unavailable("distance service is unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, apperror.Unavailable(
			fmt.Sprintf("distance service returned status %d", resp.StatusCode),
			fmt.Errorf("routing api status %d: %s", resp.StatusCode, string(body)))
	}

	var data directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, apperror.Unavailable("distance service returned malformed response", err)
	}

	meters, ok := data.FirstSegmentDistance()
	if !ok {
		return 0, apperror.Unavailable("distance service returned no route", nil)
	}

	return meters / 1000, nil
}

// Структуры для парсинга ответа OpenRouteService
type directionsResponse struct {
	Features []struct {
		Properties struct {
			Segments []struct {
				Distance float64 `json:"distance"`
			} `json:"segments"`
		} `json:"properties"`
	} `json:"features"`
}

func (r *directionsResponse) FirstSegmentDistance() (float64, bool) {
	if len(r.Features) == 0 || len(r.Features[0].Properties.Segments) == 0 {
		return 0, false
	}
	return r.Features[0].Properties.Segments[0].Distance, true
}
