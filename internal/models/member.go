// Package models содержит доменные структуры приложения: участники клуба,
// тарифные планы, платежи и отметки посещений, а также вспомогательные
// типы для приёма данных из внешних источников (например, JSON-запросов).
package models

import "time"

// Роли пользователей системы.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Member представляет зарегистрированного участника клуба.
// Поля SelectedPlanID, MembershipStartDate и MembershipEndDate могут быть nil —
// это означает, что участник ещё не выбрал план или не имеет оплаченного абонемента.
// MembershipEndDate — кешированная колонка: источником истины является
// последний подтверждённый платёж, колонка обновляется write-back'ом.
type Member struct {
	ID                  int        // Идентификатор участника
	UID                 string     // Уникальный UUID участника
	Username            string     // Имя пользователя (уникальное)
	Email               string     // Электронная почта
	PasswordHash        string     // Хэш пароля
	Role                string     // Роль: member или admin
	SelectedPlanID      *int       // Выбранный тарифный план (nil — не выбран)
	MembershipStartDate *time.Time // Дата начала абонемента
	MembershipEndDate   *time.Time // Кешированная дата окончания абонемента
	CreatedAt           time.Time  // Дата регистрации
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`       // Электронная почта
	Username string `json:"username" validate:"required,alphanum"` // Имя пользователя
	Password string `json:"password" validate:"required,min=8"`    // Пароль (мин. 8 символов)
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Username string `json:"username" validate:"required,alphanum"` // Имя пользователя
	Password string `json:"password" validate:"required"`          // Пароль
}
