// Package member содержит бизнес-логику вычисления статуса абонемента
// для одного участника: выборку данных, вызов канонического правила,
// write-back кешированной даты окончания и представление профиля.
package member

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/membership"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Repository определяет методы хранилища, необходимые для вычисления статуса.
type Repository interface {
	// GetMemberByUID возвращает участника по UID.
	GetMemberByUID(ctx context.Context, memberUID string) (*models.Member, error)
	// ReadPlan возвращает тарифный план по ID.
	ReadPlan(ctx context.Context, id int) (*models.Plan, error)
	// ListPaymentsByMember возвращает все платежи участника.
	ListPaymentsByMember(ctx context.Context, memberID int) ([]models.Payment, error)
	// UpdateMembershipEndDate обновляет кешированную дату окончания абонемента.
	UpdateMembershipEndDate(ctx context.Context, memberID int, endDate time.Time) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Profile представляет данные профиля участника для отображения.
// Статус берётся только из результата вычисления: профиль не выводит
// его самостоятельно.
type Profile struct {
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	PlanName         string     `json:"plan_name,omitempty"`
	State            string     `json:"state"`
	DisplayStatus    string     `json:"display_status"`
	EffectiveEndDate *time.Time `json:"effective_end_date,omitempty"`
}

// Service реализует вычисление статуса абонемента и представление профиля.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Evaluate вычисляет статус абонемента участника и выполняет write-back
// расчётной даты окончания в кешированную колонку, если та разошлась
// с расчётом. Ошибка write-back не влияет на результат: колонка — кеш,
// а не источник истины.
func (s *Service) Evaluate(ctx context.Context, member *models.Member) (membership.Evaluation, error) {
	const op = "services.member.Evaluate"

	payments, err := s.repo.ListPaymentsByMember(ctx, member.ID)
	if err != nil {
		return membership.Evaluation{}, fmt.Errorf("%s: %w", op, err)
	}

	plan := s.planForMember(ctx, member)

	eval, err := membership.Evaluate(*member, plan, payments, s.now())
	if err != nil {
		return membership.Evaluation{}, fmt.Errorf("%s: %w", op, err)
	}

	if eval.CalculatedEnd != nil && !sameDate(member.MembershipEndDate, eval.CalculatedEnd) {
		if err := s.repo.UpdateMembershipEndDate(ctx, member.ID, *eval.CalculatedEnd); err != nil {
			s.log.Warn("failed to write back membership end date",
				slog.Int("member_id", member.ID), sl.Err(err))
		} else {
			s.log.Info("membership end date refreshed",
				slog.Int("member_id", member.ID),
				slog.Time("end_date", *eval.CalculatedEnd))
		}
	}

	return eval, nil
}

// GetProfile возвращает профиль участника по UID, используя кеш.
func (s *Service) GetProfile(ctx context.Context, memberUID string) (*Profile, error) {
	const op = "services.member.GetProfile"

	cacheKey := fmt.Sprintf("member:%s:profile", memberUID)
	var cached *Profile
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read profile from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	member, err := s.repo.GetMemberByUID(ctx, memberUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	eval, err := s.Evaluate(ctx, member)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	profile := &Profile{
		Username:         member.Username,
		Email:            member.Email,
		State:            string(eval.State),
		DisplayStatus:    DisplayStatus(eval.State),
		EffectiveEndDate: eval.EffectiveEndDate,
	}
	if plan := s.planForMember(ctx, member); plan != nil {
		profile.PlanName = plan.Name
	}

	if err := s.cache.Set(cacheKey, profile, 5*time.Minute); err != nil {
		s.log.Warn("failed to cache profile", slog.String("key", cacheKey), sl.Err(err))
	}
	return profile, nil
}

// InvalidateProfile сбрасывает кеш профиля участника. Вызывается после
// подтверждения или отклонения платежа.
func (s *Service) InvalidateProfile(memberUID string) {
	cacheKey := fmt.Sprintf("member:%s:profile", memberUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate profile cache", slog.String("key", cacheKey), sl.Err(err))
	}
}

// DisplayStatus переводит вычисленный статус в строку для профиля участника.
func DisplayStatus(state membership.State) string {
	switch state {
	case membership.StateActive:
		return "Active Membership"
	case membership.StatePendingApproval:
		return "Payment Pending - awaiting admin approval"
	case membership.StateExpired:
		return "Membership Expired - renew your plan"
	default:
		return "No Active Membership - choose a plan"
	}
}

// planForMember возвращает выбранный план участника. Неизвестный план
// не считается ошибкой: вычисление статуса отработает по кешированной дате.
func (s *Service) planForMember(ctx context.Context, member *models.Member) *models.Plan {
	if member.SelectedPlanID == nil {
		return nil
	}
	plan, err := s.repo.ReadPlan(ctx, *member.SelectedPlanID)
	if err != nil {
		s.log.Warn("plan unknown, falling back to stored end date",
			slog.Int("member_id", member.ID),
			slog.Int("plan_id", *member.SelectedPlanID), sl.Err(err))
		return nil
	}
	return plan
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
