package models

// Справочные структуры повторяют формат исходных JSON файлов
// (Tarifas_Base.json, Zonas_Localidades.json, Parametros.json, Depositos.json).
// Данные неизменны после загрузки при старте процесса.

// TariffEntry — базовый тариф для пары (зона, тип груза).
type TariffEntry struct {
	ZoneID      int     `json:"ID_Zona"`
	Description string  `json:"Descripcion"`
	BaseRate    float64 `json:"Tarifa_Base"`
	Code        string  `json:"Codigo"`
}

// LocalityEntry — населённый пункт внутри зоны с надбавкой и координатами.
type LocalityEntry struct {
	ZoneID    int     `json:"ID_Zona"`
	ZoneName  string  `json:"Nombre_Zona"`
	Locality  string  `json:"Localidad"`
	Surcharge float64 `json:"Recargo_Localidad"`
	Latitude  float64 `json:"Latitud"`
	Longitude float64 `json:"Longitud"`
}

// PricingParameters — глобальные параметры тарификации (синглтон).
type PricingParameters struct {
	FuelConsumptionPerKm float64 `json:"Consumo_Combustible_Litros_Km"`
	FuelPrice            float64 `json:"Precio_Combustible"`
	CostPerKm            float64 `json:"Costo_Km"`
	ProfitMargin         float64 `json:"Margen_Ganancia"`
}

// Warehouse — склад отправления
type Warehouse struct {
	Name      string  `json:"Nombre"`
	Latitude  float64 `json:"Latitud"`
	Longitude float64 `json:"Longitud"`
	WhatsApp  string  `json:"WhatsApp_Administracion_Casa_Central"`
}

// CargoRange — допустимый диапазон количества для типа груза.
// Max == nil означает отсутствие верхней границы.
type CargoRange struct {
	Min int  `json:"min"`
	Max *int `json:"max,omitempty"`
}

// Zone — зона назначения для справочного API
type Zone struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
