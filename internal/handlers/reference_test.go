package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"quoting-system/internal/apperror"
	"quoting-system/internal/models"
	"quoting-system/internal/refdata"
)

func newTestRefStore(t *testing.T) *refdata.Store {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"Tarifas_Base.json": `[
			{"ID_Zona": 1, "Descripcion": "METROS CUBICOS", "Tarifa_Base": 1000, "Codigo": "300"}
		]`,
		"Zonas_Localidades.json": `[
			{"ID_Zona": 1, "Nombre_Zona": "Valle de Jujuy", "Localidad": "Perico", "Recargo_Localidad": 800, "Latitud": -24.38, "Longitud": -65.11}
		]`,
		"Parametros.json": `[
			{"Margen_Ganancia": 0.2}
		]`,
		"Depositos.json": `{"Lista_de_Depositos": [
			{"Nombre": "Casa Central", "Latitud": -24.23, "Longitud": -64.86, "WhatsApp_Administracion_Casa_Central": "5493884000000"}
		]}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	store, err := refdata.Load(dir)
	if err != nil {
		t.Fatalf("failed to load reference data: %v", err)
	}
	return store
}

type stubDistanceResolver struct {
	km  float64
	err error
}

func (s *stubDistanceResolver) Resolve(ctx context.Context, originLat, originLon, destLat, destLon float64) (float64, error) {
	return s.km, s.err
}

func TestReferenceHandler_Warehouses(t *testing.T) {
	handler := NewReferenceHandler(newTestRefStore(t), &stubDistanceResolver{}, newTestLogger())

	r := httptest.NewRequest(http.MethodGet, "/api/reference/warehouses", nil)
	w := httptest.NewRecorder()
	handler.Warehouses(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var warehouses []models.Warehouse
	if err := json.NewDecoder(w.Body).Decode(&warehouses); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(warehouses) != 1 || warehouses[0].Name != "Casa Central" {
		t.Fatalf("unexpected warehouses: %+v", warehouses)
	}
}

func TestReferenceHandler_Zones(t *testing.T) {
	handler := NewReferenceHandler(newTestRefStore(t), &stubDistanceResolver{}, newTestLogger())

	r := httptest.NewRequest(http.MethodGet, "/api/reference/zones", nil)
	w := httptest.NewRecorder()
	handler.Zones(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var zones []models.Zone
	if err := json.NewDecoder(w.Body).Decode(&zones); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(zones) != 1 || zones[0].ID != 1 || zones[0].Name != "Valle de Jujuy" {
		t.Fatalf("unexpected zones: %+v", zones)
	}
}

func TestReferenceHandler_Localities(t *testing.T) {
	handler := NewReferenceHandler(newTestRefStore(t), &stubDistanceResolver{}, newTestLogger())

	r := httptest.NewRequest(http.MethodGet, "/api/reference/zones/1/localities", nil)
	w := httptest.NewRecorder()
	handler.Localities(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var localities []models.LocalityEntry
	if err := json.NewDecoder(w.Body).Decode(&localities); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(localities) != 1 || localities[0].Locality != "Perico" {
		t.Fatalf("unexpected localities: %+v", localities)
	}
}

func TestReferenceHandler_Localities_UnknownZone(t *testing.T) {
	handler := NewReferenceHandler(newTestRefStore(t), &stubDistanceResolver{}, newTestLogger())

	r := httptest.NewRequest(http.MethodGet, "/api/reference/zones/9/localities", nil)
	w := httptest.NewRecorder()
	handler.Localities(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestReferenceHandler_Tariffs(t *testing.T) {
	handler := NewReferenceHandler(newTestRefStore(t), &stubDistanceResolver{}, newTestLogger())

	r := httptest.NewRequest(http.MethodGet, "/api/reference/zones/1/tariffs", nil)
	w := httptest.NewRecorder()
	handler.Tariffs(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var tariffs []models.TariffEntry
	if err := json.NewDecoder(w.Body).Decode(&tariffs); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(tariffs) != 1 || tariffs[0].BaseRate != 1000 {
		t.Fatalf("unexpected tariffs: %+v", tariffs)
	}
}

func TestReferenceHandler_CargoClasses(t *testing.T) {
	handler := NewReferenceHandler(newTestRefStore(t), &stubDistanceResolver{}, newTestLogger())

	r := httptest.NewRequest(http.MethodGet, "/api/reference/cargo-classes", nil)
	w := httptest.NewRecorder()
	handler.CargoClasses(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var classes map[string]models.CargoRange
	if err := json.NewDecoder(w.Body).Decode(&classes); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if r, ok := classes["BULTO MINIMO (MAXIMO 20 KG)"]; !ok || r.Min != 1 || r.Max == nil || *r.Max != 20 {
		t.Fatalf("unexpected cargo classes: %+v", classes)
	}
}

func TestReferenceHandler_Distance(t *testing.T) {
	handler := NewReferenceHandler(newTestRefStore(t), &stubDistanceResolver{km: 15.75}, newTestLogger())

	r := httptest.NewRequest(http.MethodGet, "/api/distance?warehouse=Casa+Central&zone_id=1&locality=Perico", nil)
	w := httptest.NewRecorder()
	handler.Distance(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["distance_km"] != 15.75 {
		t.Fatalf("unexpected distance: %v", resp["distance_km"])
	}
}

func TestReferenceHandler_Distance_UnknownWarehouse(t *testing.T) {
	handler := NewReferenceHandler(newTestRefStore(t), &stubDistanceResolver{}, newTestLogger())

	r := httptest.NewRequest(http.MethodGet, "/api/distance?warehouse=Nope&zone_id=1&locality=Perico", nil)
	w := httptest.NewRecorder()
	handler.Distance(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestReferenceHandler_Distance_ResolverUnavailable(t *testing.T) {
	resolver := &stubDistanceResolver{err: apperror.Unavailable("distance service is unavailable", nil)}
	handler := NewReferenceHandler(newTestRefStore(t), resolver, newTestLogger())

	r := httptest.NewRequest(http.MethodGet, "/api/distance?warehouse=Casa+Central&zone_id=1&locality=Perico", nil)
	w := httptest.NewRecorder()
	handler.Distance(w, r)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}
