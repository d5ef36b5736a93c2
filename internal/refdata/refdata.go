package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"quoting-system/internal/models"
)

// Имена справочных файлов сохранены от исходной системы.
const (
	tariffsFile    = "Tarifas_Base.json"
	localitiesFile = "Zonas_Localidades.json"
	parametersFile = "Parametros.json"
	warehousesFile = "Depositos.json"
)

// MinimumPackageClass — тип груза с фиксированной ставкой: количество
// не умножается на тариф.
const MinimumPackageClass = "BULTO MINIMO (MAXIMO 20 KG)"

// cargoRanges задаёт допустимые количества по типу груза.
// Ключи нормализованы (trim + upper) при обращении через RangeFor.
var cargoRanges = map[string]models.CargoRange{
	"BULTO MINIMO (MAXIMO 20 KG)": {Min: 1, Max: intPtr(20)},
	"DE 21 KG A 100 KG":           {Min: 21, Max: intPtr(100)},
	"DE 101 KG A 300 KG":          {Min: 101, Max: intPtr(300)},
	"DE 301 KG A 500 KG":          {Min: 301, Max: intPtr(500)},
	"DE 501 KG A 1000 KG":         {Min: 501, Max: intPtr(1000)},
	"DE 1001 KG A 1500 KG":        {Min: 1001, Max: intPtr(1500)},
	"DE 1501 KG A 2000 KG":        {Min: 1501, Max: intPtr(2000)},
	"DE 2001 KG A 2500 KG":        {Min: 2001, Max: intPtr(2500)},
	"DE 2501 KG A 3000 KG":        {Min: 2501, Max: intPtr(3000)},
	"DE 3001 KG EN ADELANTE":      {Min: 3001, Max: nil},
	"METROS CUBICOS":              {Min: 1, Max: intPtr(20)},
	"METROS CUBICOS MUDANZA":      {Min: 1, Max: intPtr(20)},
}

func intPtr(v int) *int { return &v }

// Store хранит неизменяемые справочные таблицы, загруженные при старте.
type Store struct {
	tariffs    []models.TariffEntry
	localities []models.LocalityEntry
	params     models.PricingParameters
	warehouses []models.Warehouse
}

// Load читает четыре справочных файла из каталога dir.
// Отсутствующий или некорректный файл — фатальная ошибка старта.
func Load(dir string) (*Store, error) {
	s := &Store{}

	if err := readJSON(filepath.Join(dir, tariffsFile), &s.tariffs); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, localitiesFile), &s.localities); err != nil {
		return nil, err
	}

	var params []models.PricingParameters
	if err := readJSON(filepath.Join(dir, parametersFile), &params); err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return nil, fmt.Errorf("refdata: %s is empty", parametersFile)
	}
	s.params = params[0]

	var deps struct {
		Warehouses []models.Warehouse `json:"Lista_de_Depositos"`
	}
	if err := readJSON(filepath.Join(dir, warehousesFile), &deps); err != nil {
		return nil, err
	}
	if len(deps.Warehouses) == 0 {
		return nil, fmt.Errorf("refdata: %s has no warehouses", warehousesFile)
	}
	s.warehouses = deps.Warehouses

	return s, nil
}

func readJSON(path string, dest interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("refdata: read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("refdata: parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// TariffFor ищет тариф по паре (зона, тип груза).
func (s *Store) TariffFor(zoneID int, cargoClass string) (*models.TariffEntry, bool) {
	for i := range s.tariffs {
		if s.tariffs[i].ZoneID == zoneID && s.tariffs[i].Description == cargoClass {
			return &s.tariffs[i], true
		}
	}
	return nil, false
}

// SurchargeFor возвращает надбавку населённого пункта.
// Неизвестный пункт даёт 0 — это не ошибка.
func (s *Store) SurchargeFor(locality string) float64 {
	name := strings.TrimSpace(locality)
	for i := range s.localities {
		if strings.TrimSpace(s.localities[i].Locality) == name {
			return s.localities[i].Surcharge
		}
	}
	return 0
}

// LocalityFor ищет населённый пункт в зоне по имени (с обрезкой пробелов).
func (s *Store) LocalityFor(zoneID int, name string) (*models.LocalityEntry, bool) {
	trimmed := strings.TrimSpace(name)
	for i := range s.localities {
		if s.localities[i].ZoneID == zoneID && strings.TrimSpace(s.localities[i].Locality) == trimmed {
			return &s.localities[i], true
		}
	}
	return nil, false
}

// ZoneName возвращает название зоны по её идентификатору.
func (s *Store) ZoneName(zoneID int) (string, bool) {
	for i := range s.localities {
		if s.localities[i].ZoneID == zoneID {
			return s.localities[i].ZoneName, true
		}
	}
	return "", false
}

// Zones возвращает отсортированный список уникальных зон.
func (s *Store) Zones() []models.Zone {
	seen := make(map[int]string)
	for i := range s.localities {
		if _, ok := seen[s.localities[i].ZoneID]; !ok {
			seen[s.localities[i].ZoneID] = s.localities[i].ZoneName
		}
	}

	zones := make([]models.Zone, 0, len(seen))
	for id, name := range seen {
		zones = append(zones, models.Zone{ID: id, Name: name})
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].ID < zones[j].ID })
	return zones
}

// LocalitiesInZone возвращает населённые пункты зоны.
func (s *Store) LocalitiesInZone(zoneID int) []models.LocalityEntry {
	var out []models.LocalityEntry
	for i := range s.localities {
		if s.localities[i].ZoneID == zoneID {
			out = append(out, s.localities[i])
		}
	}
	return out
}

// TariffsInZone возвращает тарифы зоны.
func (s *Store) TariffsInZone(zoneID int) []models.TariffEntry {
	var out []models.TariffEntry
	for i := range s.tariffs {
		if s.tariffs[i].ZoneID == zoneID {
			out = append(out, s.tariffs[i])
		}
	}
	return out
}

// Warehouses возвращает список складов.
func (s *Store) Warehouses() []models.Warehouse {
	return s.warehouses
}

// WarehouseByName ищет склад по названию.
func (s *Store) WarehouseByName(name string) (*models.Warehouse, bool) {
	for i := range s.warehouses {
		if s.warehouses[i].Name == name {
			return &s.warehouses[i], true
		}
	}
	return nil, false
}

// Params возвращает глобальные параметры тарификации.
func (s *Store) Params() models.PricingParameters {
	return s.params
}

// RangeFor возвращает диапазон количества для типа груза.
// Неизвестный тип получает диапазон от 1 без верхней границы.
func (s *Store) RangeFor(cargoClass string) models.CargoRange {
	key := strings.ToUpper(strings.TrimSpace(cargoClass))
	if r, ok := cargoRanges[key]; ok {
		return r
	}
	return models.CargoRange{Min: 1}
}

// CargoClasses возвращает известные типы груза с их диапазонами.
func (s *Store) CargoClasses() map[string]models.CargoRange {
	out := make(map[string]models.CargoRange, len(cargoRanges))
	for k, v := range cargoRanges {
		out[k] = v
	}
	return out
}
