package services

import (
	"quoting-system/internal/refdata"
)

// Ставки НДС и страхования груза зафиксированы в коде,
// в таблице параметров их нет.
const (
	vatMultiplier = 1.21
	insuranceRate = 0.008
)

// CostBreakdown — результат расчёта стоимости.
// Surcharge ищется по населённому пункту и сохраняется справочно:
// в действующей формуле надбавка, расход топлива и стоимость километра
// в итоговую цену не входят.
type CostBreakdown struct {
	BaseRate      float64
	Surcharge     float64
	InsuranceCost float64
	FinalCost     float64
}

// PricingService рассчитывает итоговую стоимость котировки по тарифной таблице.
type PricingService struct {
	ref *refdata.Store
}

// NewPricingService создаёт сервис расчёта стоимости.
func NewPricingService(ref *refdata.Store) *PricingService {
	return &PricingService{ref: ref}
}

// ComputeFinalCost считает стоимость для заполненной формы.
// Возвращает ok=false, если тип груза, расстояние или населённый пункт
// не заданы либо тариф не найден — это незаполненная форма, не ошибка.
// Границы количества проверяет вызывающая сторона.
func (s *PricingService) ComputeFinalCost(zoneID int, cargoClass, locality string, distanceKm float64, taxIncluded bool, quantity int, declaredValue float64) (*CostBreakdown, bool) {
	if cargoClass == "" || locality == "" || distanceKm <= 0 {
		return nil, false
	}

	tariff, found := s.ref.TariffFor(zoneID, cargoClass)
	if !found {
		return nil, false
	}

	surcharge := s.ref.SurchargeFor(locality)
	margin := s.ref.Params().ProfitMargin

	cost := tariff.BaseRate * (1 + margin)

	if taxIncluded {
		cost *= vatMultiplier
	}

	// Тип "BULTO MINIMO" оплачивается фиксированно, количество не учитывается
	if cargoClass != refdata.MinimumPackageClass {
		cost *= float64(quantity)
	}

	var insurance float64
	if declaredValue > 0 {
		insurance = declaredValue * insuranceRate
	}
	cost += insurance

	return &CostBreakdown{
		BaseRate:      tariff.BaseRate,
		Surcharge:     surcharge,
		InsuranceCost: insurance,
		FinalCost:     cost,
	}, true
}
