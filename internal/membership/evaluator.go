// Package membership реализует каноническое правило определения статуса абонемента.
//
// Evaluate — чистая функция без ввода-вывода: все данные (участник, план,
// история платежей) передаются вызывающей стороной. Единственным источником
// истины считается последний подтверждённый платёж; кешированная колонка
// membership_end_date используется только как запасной вариант, когда
// расчётная дата недоступна. Все потребители статуса (профиль участника,
// панель администратора, отметка посещений) обязаны использовать эту функцию
// и не выводить статус самостоятельно.
package membership

import (
	"errors"
	"time"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// State описывает вычисленный статус абонемента участника.
type State string

// Возможные статусы абонемента.
const (
	// StateActive — абонемент действует, доступ в зал разрешён.
	StateActive State = "active"
	// StatePendingApproval — последний платёж ожидает подтверждения администратором.
	StatePendingApproval State = "pending_approval"
	// StateExpired — абонемент истёк либо последний платёж отклонён.
	StateExpired State = "expired"
	// StateNoMembership — у участника нет ни одного платежа.
	StateNoMembership State = "no_membership"
)

// ErrDataIntegrity возвращается при некорректных датах в данных участника
// или платежа (нулевая дата платежа, дата окончания раньше даты начала).
var ErrDataIntegrity = errors.New("membership data integrity violation")

// Evaluation содержит результат вычисления статуса и данные, обосновывающие решение.
type Evaluation struct {
	State            State           // Итоговый статус
	EffectiveEndDate *time.Time      // Дата окончания, по которой принято решение (nil — нет)
	CalculatedEnd    *time.Time      // Дата, рассчитанная по последнему подтверждённому платежу
	LatestApproved   *models.Payment // Последний подтверждённый платёж (nil — нет)
}

// Evaluate вычисляет статус абонемента участника на дату today.
//
// Правило:
//  1. Находится последний подтверждённый платёж (по наибольшей дате платежа,
//     при равенстве — по наибольшему ID).
//  2. Если платёж найден и длительность плана известна, расчётная дата
//     окончания = дата платежа + длительность плана в днях.
//  3. Эффективная дата окончания: расчётная, иначе кешированная
//     membership_end_date, иначе отсутствует.
//  4. Без эффективной даты: нет платежей — StateNoMembership; последний платёж
//     (любого статуса) ожидает подтверждения — StatePendingApproval;
//     иначе — StateExpired.
//  5. С эффективной датой: StateActive, если дата окончания не раньше today
//     (включительно — абонемент, истекающий сегодня, ещё действует),
//     иначе StateExpired.
//
// Платёж с неизвестным планом не считается ошибкой: расчётная дата просто
// недоступна и используется кешированная. Некорректные даты возвращают
// ErrDataIntegrity.
func Evaluate(member models.Member, plan *models.Plan, payments []models.Payment, today time.Time) (Evaluation, error) {
	if err := checkIntegrity(member, payments); err != nil {
		return Evaluation{}, err
	}

	latestApproved := latestPayment(payments, models.PaymentStatusApproved)
	latest := latestPayment(payments, "")

	var calculatedEnd *time.Time
	if latestApproved != nil && planKnown(plan) {
		end := dateOnly(latestApproved.PaidAt).AddDate(0, 0, plan.DurationDays)
		calculatedEnd = &end
	}

	effectiveEnd := calculatedEnd
	if effectiveEnd == nil && member.MembershipEndDate != nil {
		stored := dateOnly(*member.MembershipEndDate)
		effectiveEnd = &stored
	}

	eval := Evaluation{
		EffectiveEndDate: effectiveEnd,
		CalculatedEnd:    calculatedEnd,
		LatestApproved:   latestApproved,
	}

	if effectiveEnd == nil {
		switch {
		case len(payments) == 0:
			eval.State = StateNoMembership
		case latest.Status == models.PaymentStatusPending:
			eval.State = StatePendingApproval
		default:
			eval.State = StateExpired
		}
		return eval, nil
	}

	if effectiveEnd.Before(dateOnly(today)) {
		eval.State = StateExpired
	} else {
		eval.State = StateActive
	}
	return eval, nil
}

// checkIntegrity проверяет даты участника и платежей.
func checkIntegrity(member models.Member, payments []models.Payment) error {
	for _, p := range payments {
		if p.PaidAt.IsZero() {
			return ErrDataIntegrity
		}
	}
	if member.MembershipStartDate != nil && member.MembershipEndDate != nil &&
		member.MembershipEndDate.Before(*member.MembershipStartDate) {
		return ErrDataIntegrity
	}
	return nil
}

// latestPayment возвращает платёж с наибольшей датой платежа среди платежей
// с указанным статусом (пустой статус — любой). Равные даты разрешаются
// по наибольшему ID: это единственный стабильный порядок вставки.
func latestPayment(payments []models.Payment, status string) *models.Payment {
	var latest *models.Payment
	for i := range payments {
		p := &payments[i]
		if status != "" && p.Status != status {
			continue
		}
		if latest == nil || p.PaidAt.After(latest.PaidAt) ||
			(p.PaidAt.Equal(latest.PaidAt) && p.ID > latest.ID) {
			latest = p
		}
	}
	if latest == nil {
		return nil
	}
	cp := *latest
	return &cp
}

func planKnown(plan *models.Plan) bool {
	return plan != nil && plan.DurationDays >= 1
}

// dateOnly приводит момент времени к началу суток в UTC: статус абонемента
// определяется с точностью до дня.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
