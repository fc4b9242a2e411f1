// Package report содержит бизнес-логику административной панели:
// агрегированные счётчики по статусам участников и выгрузку отчёта в Excel.
package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/gym-membership/internal/lib/excel"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/membership"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// размер страницы при обходе всех участников.
const memberBatchSize = 500

// Repository определяет методы хранилища для построения отчётов.
type Repository interface {
	// ListMembersByRole возвращает участников с указанной ролью.
	ListMembersByRole(ctx context.Context, role string, limit, offset int) ([]*models.Member, error)
	// ListPaymentsByMember возвращает все платежи участника.
	ListPaymentsByMember(ctx context.Context, memberID int) ([]models.Payment, error)
	// ReadPlan возвращает тарифный план по ID.
	ReadPlan(ctx context.Context, id int) (*models.Plan, error)
	// PaymentTotals возвращает общее число платежей и сумму подтверждённых.
	PaymentTotals(ctx context.Context) (int, float64, error)
}

// Evaluator вычисляет актуальный статус абонемента участника.
type Evaluator interface {
	Evaluate(ctx context.Context, member *models.Member) (membership.Evaluation, error)
}

// Dashboard содержит агрегированные показатели для административной панели.
type Dashboard struct {
	TotalMembers    int     `json:"total_members"`
	Active          int     `json:"active"`
	Expired         int     `json:"expired"`
	PendingApproval int     `json:"pending_approval"`
	NoMembership    int     `json:"no_membership"`
	TotalPayments   int     `json:"total_payments"`
	ApprovedRevenue float64 `json:"approved_revenue"`
}

// MemberSummary описывает одну строку списка участников для администратора.
type MemberSummary struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	PlanName string `json:"plan_name,omitempty"`
	State    string `json:"state"`
}

// Service реализует бизнес-логику отчётов.
type Service struct {
	repo      Repository
	evaluator Evaluator
	log       *slog.Logger

	// pendingAsActive включает политику, по которой участник с платежом
	// на рассмотрении учитывается в счётчике активных.
	pendingAsActive bool
}

// New создает новый экземпляр Service.
func New(repo Repository, evaluator Evaluator, log *slog.Logger, pendingAsActive bool) *Service {
	return &Service{
		repo:            repo,
		evaluator:       evaluator,
		log:             log,
		pendingAsActive: pendingAsActive,
	}
}

// BuildDashboard обходит всех участников, вычисляет статус каждого и
// возвращает агрегированные счётчики. Ошибка вычисления по одному участнику
// не прерывает построение: такой участник учитывается как expired.
func (s *Service) BuildDashboard(ctx context.Context) (*Dashboard, error) {
	const op = "services.report.BuildDashboard"

	dashboard := &Dashboard{}
	err := s.forEachMember(ctx, func(member models.Member) {
		dashboard.TotalMembers++
		switch s.stateOf(ctx, &member) {
		case membership.StateActive:
			dashboard.Active++
		case membership.StatePendingApproval:
			dashboard.PendingApproval++
		case membership.StateNoMembership:
			dashboard.NoMembership++
		default:
			dashboard.Expired++
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	totalPayments, revenue, err := s.repo.PaymentTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	dashboard.TotalPayments = totalPayments
	dashboard.ApprovedRevenue = revenue
	return dashboard, nil
}

// ListMembers возвращает страницу участников с вычисленным статусом каждого.
func (s *Service) ListMembers(ctx context.Context, limit, offset int) ([]MemberSummary, error) {
	const op = "services.report.ListMembers"

	members, err := s.repo.ListMembersByRole(ctx, models.RoleMember, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]MemberSummary, 0, len(members))
	for _, member := range members {
		result = append(result, MemberSummary{
			ID:       member.ID,
			Username: member.Username,
			Email:    member.Email,
			PlanName: s.planName(ctx, member),
			State:    string(s.stateOf(ctx, member)),
		})
	}
	return result, nil
}

// ExportMembers формирует Excel-отчёт по всем участникам.
func (s *Service) ExportMembers(ctx context.Context) ([]byte, error) {
	const op = "services.report.ExportMembers"

	var rows []excel.MemberRow
	err := s.forEachMember(ctx, func(member models.Member) {
		eval, evalErr := s.evaluator.Evaluate(ctx, &member)
		state := eval.State
		if evalErr != nil {
			s.log.Warn("failed to evaluate member for export",
				slog.Int("member_id", member.ID), sl.Err(evalErr))
			state = membership.StateExpired
		}
		rows = append(rows, excel.MemberRow{
			Username:  member.Username,
			Email:     member.Email,
			PlanName:  s.planName(ctx, &member),
			State:     string(state),
			EndDate:   eval.EffectiveEndDate,
			TotalPaid: s.totalPaid(ctx, member.ID),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, err := excel.MemberReport(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

// forEachMember обходит всех участников постранично.
func (s *Service) forEachMember(ctx context.Context, fn func(models.Member)) error {
	for offset := 0; ; offset += memberBatchSize {
		members, err := s.repo.ListMembersByRole(ctx, models.RoleMember, memberBatchSize, offset)
		if err != nil {
			return err
		}
		for _, member := range members {
			fn(*member)
		}
		if len(members) < memberBatchSize {
			return nil
		}
	}
}

// stateOf вычисляет статус участника с учётом политики pendingAsActive.
// Ошибка вычисления понижает участника до expired, но не прерывает обход.
func (s *Service) stateOf(ctx context.Context, member *models.Member) membership.State {
	eval, err := s.evaluator.Evaluate(ctx, member)
	if err != nil {
		s.log.Warn("failed to evaluate member, counting as expired",
			slog.Int("member_id", member.ID), sl.Err(err))
		return membership.StateExpired
	}
	if s.pendingAsActive && eval.State == membership.StatePendingApproval {
		return membership.StateActive
	}
	return eval.State
}

func (s *Service) planName(ctx context.Context, member *models.Member) string {
	if member.SelectedPlanID == nil {
		return ""
	}
	plan, err := s.repo.ReadPlan(ctx, *member.SelectedPlanID)
	if err != nil {
		return ""
	}
	return plan.Name
}

func (s *Service) totalPaid(ctx context.Context, memberID int) float64 {
	payments, err := s.repo.ListPaymentsByMember(ctx, memberID)
	if err != nil {
		s.log.Warn("failed to list payments for export",
			slog.Int("member_id", memberID), sl.Err(err))
		return 0
	}
	var total float64
	for _, payment := range payments {
		if payment.Status == models.PaymentStatusApproved {
			total += payment.Amount
		}
	}
	return total
}
