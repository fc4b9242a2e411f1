package models

// Plan представляет тарифный план клуба. Справочные данные,
// заполняются администратором и после создания не изменяются.
type Plan struct {
	ID           int     // Идентификатор плана
	Name         string  // Название плана
	Price        float64 // Стоимость плана
	DurationDays int     // Длительность абонемента в днях (>= 1)
}

// DummyPlan используется для приёма данных нового плана из JSON-запроса.
type DummyPlan struct {
	Name         string  `json:"name" validate:"required"`                // Название плана
	Price        float64 `json:"price" validate:"required,gt=0"`          // Стоимость (>0)
	DurationDays int     `json:"duration_days" validate:"required,gte=1"` // Длительность в днях (>=1)
}
