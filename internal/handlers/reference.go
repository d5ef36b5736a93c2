package handlers

import (
	"net/http"
	"strconv"

	"quoting-system/internal/logger"
	"quoting-system/internal/refdata"
)

// ReferenceHandler отдает справочные данные для формы котировки
type ReferenceHandler struct {
	ref      *refdata.Store
	distance DistanceResolver
	log      *logger.Logger
}

// NewReferenceHandler создает новый обработчик справочников
func NewReferenceHandler(ref *refdata.Store, distance DistanceResolver, log *logger.Logger) *ReferenceHandler {
	return &ReferenceHandler{
		ref:      ref,
		distance: distance,
		log:      log,
	}
}

// Warehouses возвращает список складов отправления
func (h *ReferenceHandler) Warehouses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSONResponse(w, http.StatusOK, h.ref.Warehouses())
}

// Zones возвращает список зон назначения
func (h *ReferenceHandler) Zones(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSONResponse(w, http.StatusOK, h.ref.Zones())
}

// Localities возвращает населённые пункты зоны
func (h *ReferenceHandler) Localities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	zoneID, err := extractZoneIDFromPath(r.URL.Path, "/api/reference/zones/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid zone ID")
		return
	}

	localities := h.ref.LocalitiesInZone(zoneID)
	if len(localities) == 0 {
		writeErrorResponse(w, http.StatusNotFound, "Zone not found")
		return
	}

	writeJSONResponse(w, http.StatusOK, localities)
}

// Tariffs возвращает тарифы зоны
func (h *ReferenceHandler) Tariffs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	zoneID, err := extractZoneIDFromPath(r.URL.Path, "/api/reference/zones/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid zone ID")
		return
	}

	tariffs := h.ref.TariffsInZone(zoneID)
	if len(tariffs) == 0 {
		writeErrorResponse(w, http.StatusNotFound, "Zone not found")
		return
	}

	writeJSONResponse(w, http.StatusOK, tariffs)
}

// CargoClasses возвращает типы груза с диапазонами количества
func (h *ReferenceHandler) CargoClasses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSONResponse(w, http.StatusOK, h.ref.CargoClasses())
}

// Distance считает расстояние от склада до населённого пункта без создания котировки
func (h *ReferenceHandler) Distance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	query := r.URL.Query()

	warehouse, ok := h.ref.WarehouseByName(query.Get("warehouse"))
	if !ok {
		writeErrorResponse(w, http.StatusBadRequest, "Unknown warehouse")
		return
	}

	zoneID, err := strconv.Atoi(query.Get("zone_id"))
	if err != nil || zoneID <= 0 {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid zone_id")
		return
	}

	locality, ok := h.ref.LocalityFor(zoneID, query.Get("locality"))
	if !ok {
		writeErrorResponse(w, http.StatusBadRequest, "Locality not found in zone")
		return
	}

	distanceKm, err := h.distance.Resolve(r.Context(), warehouse.Latitude, warehouse.Longitude, locality.Latitude, locality.Longitude)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to resolve distance")
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"warehouse":   warehouse.Name,
		"zone_id":     zoneID,
		"locality":    locality.Locality,
		"distance_km": distanceKm,
	})
}
