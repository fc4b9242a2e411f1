package models

import "time"

// ExpiringMembership содержит данные участника с истекающим абонементом,
// передаваемые через очередь уведомлений от планировщика к отправителю писем.
type ExpiringMembership struct {
	Email    string    `json:"email"`
	Username string    `json:"username"`
	PlanName string    `json:"plan_name"`
	EndDate  time.Time `json:"end_date"`
}
