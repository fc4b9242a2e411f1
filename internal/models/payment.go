package models

import "time"

// Статусы платежа. Платёж создаётся участником со статусом pending,
// переводится администратором в approved или rejected и никогда не удаляется.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusApproved = "approved"
	PaymentStatusRejected = "rejected"
)

// Payment представляет платёж участника за тарифный план.
// PlanID может быть nil, если план был удалён из справочника —
// такой платёж при вычислении статуса абонемента трактуется как
// «план неизвестен» и не даёт расчётной даты окончания.
type Payment struct {
	ID               int       // Идентификатор платежа
	MemberID         int       // Идентификатор участника
	PlanID           *int      // Тарифный план (nil — план неизвестен)
	Amount           float64   // Сумма платежа
	PaidAt           time.Time // Дата и время платежа
	Status           string    // pending, approved или rejected
	ReceiptReference string    // Ссылка на квитанцию об оплате
	CreatedAt        time.Time // Дата создания записи
}

// DummyCheckout используется для приёма данных оплаты из JSON-запроса.
type DummyCheckout struct {
	PlanID           int     `json:"plan_id" validate:"required,gte=1"` // Оплачиваемый план
	Amount           float64 `json:"amount" validate:"required,gt=0"`   // Сумма платежа (>0)
	ReceiptReference string  `json:"receipt_reference,omitempty"`       // Квитанция (опционально)
}
