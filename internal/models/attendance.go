package models

import "time"

// Attendance представляет отметку посещения зала участником.
type Attendance struct {
	ID          int       `json:"id"`
	MemberID    int       `json:"member_id"`
	CheckedInAt time.Time `json:"checked_in_at"`
	Token       string    `json:"token"`
}

// DummyCheckIn используется для приёма QR-токена отметки из JSON-запроса.
type DummyCheckIn struct {
	Token string `json:"token" validate:"required"` // Подписанный токен из QR-кода
}
