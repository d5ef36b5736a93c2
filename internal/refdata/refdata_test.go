package refdata

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, dir, tariffsFile, `[
		{"ID_Zona": 1, "Descripcion": "BULTO MINIMO (MAXIMO 20 KG)", "Tarifa_Base": 500, "Codigo": "20"},
		{"ID_Zona": 1, "Descripcion": "DE 21 KG A 100 KG", "Tarifa_Base": 1000, "Codigo": "100"},
		{"ID_Zona": 2, "Descripcion": "DE 21 KG A 100 KG", "Tarifa_Base": 1500, "Codigo": "bad"}
	]`)
	writeFile(t, dir, localitiesFile, `[
		{"ID_Zona": 1, "Nombre_Zona": "Valle", "Localidad": "Perico ", "Recargo_Localidad": 800, "Latitud": -24.38, "Longitud": -65.11},
		{"ID_Zona": 2, "Nombre_Zona": "Ramal", "Localidad": "Calilegua", "Recargo_Localidad": 1600, "Latitud": -23.77, "Longitud": -64.76}
	]`)
	writeFile(t, dir, parametersFile, `[
		{"Consumo_Combustible_Litros_Km": 0.35, "Precio_Combustible": 1050, "Costo_Km": 420, "Margen_Ganancia": 0.2}
	]`)
	writeFile(t, dir, warehousesFile, `{"Lista_de_Depositos": [
		{"Nombre": "Casa Central", "Latitud": -24.23, "Longitud": -64.86, "WhatsApp_Administracion_Casa_Central": "549388000"}
	]}`)

	store, err := Load(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return store
}

func TestLoad_MissingFileFails(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected error for missing reference files")
	}
}

func TestLoad_MalformedFileFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, tariffsFile, `{not json`)
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestTariffFor(t *testing.T) {
	store := newTestStore(t)

	tariff, ok := store.TariffFor(1, "DE 21 KG A 100 KG")
	if !ok {
		t.Fatalf("expected tariff for zone 1")
	}
	if tariff.BaseRate != 1000 {
		t.Fatalf("unexpected base rate: %.2f", tariff.BaseRate)
	}

	if _, ok := store.TariffFor(3, "DE 21 KG A 100 KG"); ok {
		t.Fatalf("expected no tariff for unknown zone")
	}
}

func TestSurchargeFor_TrimsAndDefaults(t *testing.T) {
	store := newTestStore(t)

	// имя в файле хранится с хвостовым пробелом
	if got := store.SurchargeFor("Perico"); got != 800 {
		t.Fatalf("expected trimmed match, got %.2f", got)
	}
	// неизвестный пункт даёт 0 без ошибки
	if got := store.SurchargeFor("Atlantida"); got != 0 {
		t.Fatalf("expected 0 for unknown locality, got %.2f", got)
	}
}

func TestLocalityForAndZones(t *testing.T) {
	store := newTestStore(t)

	loc, ok := store.LocalityFor(2, " Calilegua ")
	if !ok {
		t.Fatalf("expected locality match")
	}
	if loc.ZoneName != "Ramal" {
		t.Fatalf("unexpected zone name: %s", loc.ZoneName)
	}

	zones := store.Zones()
	if len(zones) != 2 || zones[0].ID != 1 || zones[1].ID != 2 {
		t.Fatalf("unexpected zones: %+v", zones)
	}

	if name, ok := store.ZoneName(1); !ok || name != "Valle" {
		t.Fatalf("unexpected zone name lookup: %s %v", name, ok)
	}
}

func TestRangeFor(t *testing.T) {
	store := newTestStore(t)

	r := store.RangeFor("de 21 kg a 100 kg")
	if r.Min != 21 || r.Max == nil || *r.Max != 100 {
		t.Fatalf("unexpected range: %+v", r)
	}

	open := store.RangeFor("DE 3001 KG EN ADELANTE")
	if open.Min != 3001 || open.Max != nil {
		t.Fatalf("expected open-ended range, got %+v", open)
	}

	unknown := store.RangeFor("CONTENEDOR")
	if unknown.Min != 1 || unknown.Max != nil {
		t.Fatalf("expected default range for unknown class, got %+v", unknown)
	}
}

func TestWarehousesAndParams(t *testing.T) {
	store := newTestStore(t)

	if _, ok := store.WarehouseByName("Casa Central"); !ok {
		t.Fatalf("expected warehouse by name")
	}
	if _, ok := store.WarehouseByName("Nada"); ok {
		t.Fatalf("expected miss for unknown warehouse")
	}
	if store.Params().ProfitMargin != 0.2 {
		t.Fatalf("unexpected margin: %.2f", store.Params().ProfitMargin)
	}
}
