package services

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"quoting-system/internal/refdata"
)

// newTestRefData собирает справочник с тарифами зоны 1 и зоны 2.
func newTestRefData(t *testing.T) *refdata.Store {
	t.Helper()
	dir := t.TempDir()

	writeRefFile(t, dir, "Tarifas_Base.json", `[
		{"ID_Zona": 1, "Descripcion": "BULTO MINIMO (MAXIMO 20 KG)", "Tarifa_Base": 500, "Codigo": "20"},
		{"ID_Zona": 1, "Descripcion": "DE 21 KG A 100 KG", "Tarifa_Base": 1000, "Codigo": "100"},
		{"ID_Zona": 1, "Descripcion": "METROS CUBICOS", "Tarifa_Base": 1000, "Codigo": "300"},
		{"ID_Zona": 1, "Descripcion": "METROS CUBICOS MUDANZA", "Tarifa_Base": 1500, "Codigo": "abc"},
		{"ID_Zona": 2, "Descripcion": "DE 21 KG A 100 KG", "Tarifa_Base": 1800, "Codigo": "100"}
	]`)
	writeRefFile(t, dir, "Zonas_Localidades.json", `[
		{"ID_Zona": 1, "Nombre_Zona": "Valle de Jujuy", "Localidad": "Perico", "Recargo_Localidad": 800, "Latitud": -24.38, "Longitud": -65.11},
		{"ID_Zona": 1, "Nombre_Zona": "Valle de Jujuy", "Localidad": "El Carmen", "Recargo_Localidad": 0, "Latitud": -24.39, "Longitud": -65.26},
		{"ID_Zona": 2, "Nombre_Zona": "Ramal Jujeno", "Localidad": "Calilegua", "Recargo_Localidad": 1600, "Latitud": -23.77, "Longitud": -64.76}
	]`)
	writeRefFile(t, dir, "Parametros.json", `[
		{"Consumo_Combustible_Litros_Km": 0.35, "Precio_Combustible": 1050, "Costo_Km": 420, "Margen_Ganancia": 0.2}
	]`)
	writeRefFile(t, dir, "Depositos.json", `{"Lista_de_Depositos": [
		{"Nombre": "Casa Central", "Latitud": -24.23, "Longitud": -64.86, "WhatsApp_Administracion_Casa_Central": "5493884000000"}
	]}`)

	store, err := refdata.Load(dir)
	if err != nil {
		t.Fatalf("failed to load reference data: %v", err)
	}
	return store
}

func writeRefFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeFinalCost_MultipliesQuantity(t *testing.T) {
	svc := NewPricingService(newTestRefData(t))

	// 1000 * 1.2 * 3 = 3600
	breakdown, ok := svc.ComputeFinalCost(1, "METROS CUBICOS", "Perico", 42.5, false, 3, 0)
	if !ok {
		t.Fatalf("expected complete form")
	}
	if !almostEqual(breakdown.FinalCost, 3600) {
		t.Fatalf("expected final cost 3600, got %.4f", breakdown.FinalCost)
	}
	if breakdown.InsuranceCost != 0 {
		t.Fatalf("expected no insurance cost, got %.4f", breakdown.InsuranceCost)
	}
}

func TestComputeFinalCost_WithVAT(t *testing.T) {
	svc := NewPricingService(newTestRefData(t))

	// 3600 * 1.21 = 4356
	breakdown, ok := svc.ComputeFinalCost(1, "METROS CUBICOS", "Perico", 42.5, true, 3, 0)
	if !ok {
		t.Fatalf("expected complete form")
	}
	if !almostEqual(breakdown.FinalCost, 4356) {
		t.Fatalf("expected final cost 4356, got %.4f", breakdown.FinalCost)
	}
}

func TestComputeFinalCost_MinimumPackageFlatRate(t *testing.T) {
	svc := NewPricingService(newTestRefData(t))

	// 500 * 1.2 + 10000 * 0.008 = 680, количество не влияет
	breakdown, ok := svc.ComputeFinalCost(1, "BULTO MINIMO (MAXIMO 20 KG)", "Perico", 42.5, false, 5, 10000)
	if !ok {
		t.Fatalf("expected complete form")
	}
	if !almostEqual(breakdown.FinalCost, 680) {
		t.Fatalf("expected final cost 680, got %.4f", breakdown.FinalCost)
	}
	if !almostEqual(breakdown.InsuranceCost, 80) {
		t.Fatalf("expected insurance cost 80, got %.4f", breakdown.InsuranceCost)
	}
}

func TestComputeFinalCost_SurchargeRecordedNotCharged(t *testing.T) {
	svc := NewPricingService(newTestRefData(t))

	withSurcharge, ok := svc.ComputeFinalCost(1, "METROS CUBICOS", "Perico", 42.5, false, 3, 0)
	if !ok {
		t.Fatalf("expected complete form")
	}
	withoutSurcharge, ok := svc.ComputeFinalCost(1, "METROS CUBICOS", "El Carmen", 42.5, false, 3, 0)
	if !ok {
		t.Fatalf("expected complete form")
	}

	if withSurcharge.Surcharge != 800 || withoutSurcharge.Surcharge != 0 {
		t.Fatalf("unexpected surcharges: %.2f, %.2f", withSurcharge.Surcharge, withoutSurcharge.Surcharge)
	}
	if !almostEqual(withSurcharge.FinalCost, withoutSurcharge.FinalCost) {
		t.Fatalf("surcharge must not affect final cost: %.4f vs %.4f",
			withSurcharge.FinalCost, withoutSurcharge.FinalCost)
	}
}

func TestComputeFinalCost_UnknownLocality(t *testing.T) {
	svc := NewPricingService(newTestRefData(t))

	// Неизвестный пункт даёт надбавку 0, расчёт продолжается
	breakdown, ok := svc.ComputeFinalCost(1, "METROS CUBICOS", "Nowhere", 42.5, false, 3, 0)
	if !ok {
		t.Fatalf("expected complete form")
	}
	if breakdown.Surcharge != 0 {
		t.Fatalf("expected surcharge 0 for unknown locality, got %.2f", breakdown.Surcharge)
	}
	if !almostEqual(breakdown.FinalCost, 3600) {
		t.Fatalf("expected final cost 3600, got %.4f", breakdown.FinalCost)
	}
}

func TestComputeFinalCost_IncompleteForm(t *testing.T) {
	svc := NewPricingService(newTestRefData(t))

	cases := []struct {
		name       string
		zoneID     int
		cargoClass string
		locality   string
		distanceKm float64
	}{
		{"empty cargo class", 1, "", "Perico", 42.5},
		{"empty locality", 1, "METROS CUBICOS", "", 42.5},
		{"zero distance", 1, "METROS CUBICOS", "Perico", 0},
		{"negative distance", 1, "METROS CUBICOS", "Perico", -1},
		{"no tariff for zone", 2, "METROS CUBICOS", "Calilegua", 42.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := svc.ComputeFinalCost(tc.zoneID, tc.cargoClass, tc.locality, tc.distanceKm, false, 3, 0); ok {
				t.Fatalf("expected incomplete form")
			}
		})
	}
}

func TestComputeFinalCost_InsuranceIndependentOfQuantity(t *testing.T) {
	svc := NewPricingService(newTestRefData(t))

	one, _ := svc.ComputeFinalCost(1, "METROS CUBICOS", "Perico", 42.5, false, 1, 5000)
	three, _ := svc.ComputeFinalCost(1, "METROS CUBICOS", "Perico", 42.5, false, 3, 5000)

	if !almostEqual(one.InsuranceCost, three.InsuranceCost) {
		t.Fatalf("insurance must not scale with quantity: %.4f vs %.4f", one.InsuranceCost, three.InsuranceCost)
	}
	if !almostEqual(one.InsuranceCost, 40) {
		t.Fatalf("expected insurance 40, got %.4f", one.InsuranceCost)
	}
}
