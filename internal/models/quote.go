package models

import (
	"time"

	"github.com/google/uuid"
)

// Quote представляет выпущенную котировку перевозки.
// После создания запись неизменна: система её не обновляет и не удаляет.
type Quote struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	Warehouse          string    `json:"warehouse" db:"deposito"`
	ZoneID             int       `json:"zone_id" db:"-"`
	ZoneName           string    `json:"zone_name" db:"zona"`
	Locality           string    `json:"locality" db:"localidad"`
	CargoClass         string    `json:"cargo_class" db:"-"`
	TariffCode         float64   `json:"tariff_code" db:"peso"`
	Quantity           int       `json:"quantity" db:"cantidad"`
	DistanceKm         float64   `json:"distance_km" db:"distancia"`
	DeclaredValue      float64   `json:"declared_value" db:"valor_mercaderia"`
	TaxIncluded        bool      `json:"tax_included" db:"incluir_iva"`
	InsuranceRequested bool      `json:"insurance_requested" db:"desea_facturar"`
	InsuranceCost      float64   `json:"insurance_cost" db:"seguro_carga"`
	FinalCost          float64   `json:"final_cost" db:"costo_final"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// CreateQuoteRequest представляет данные формы котировки
type CreateQuoteRequest struct {
	Warehouse          string  `json:"warehouse"`
	ZoneID             int     `json:"zone_id"`
	Locality           string  `json:"locality"`
	CargoClass         string  `json:"cargo_class"`
	Quantity           int     `json:"quantity"`
	TaxIncluded        bool    `json:"tax_included"`
	InsuranceRequested bool    `json:"insurance_requested"`
	DeclaredValue      float64 `json:"declared_value,omitempty"`
}

// QuoteResult агрегирует котировку и артефакты доставки клиенту
type QuoteResult struct {
	Quote       *Quote `json:"quote"`
	DocumentURL string `json:"document_url,omitempty"`
	WhatsAppURL string `json:"whatsapp_url"`
}
