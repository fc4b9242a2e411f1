// Package payment содержит бизнес-логику платежей: создание заявки на оплату
// и административное подтверждение или отклонение.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// ErrPaymentWithoutPlan возвращается при попытке подтвердить платёж,
// не привязанный к существующему тарифному плану.
var ErrPaymentWithoutPlan = errors.New("payment has no known plan")

// Repository определяет методы хранилища для работы с платежами.
type Repository interface {
	// CreatePayment добавляет новый платёж и возвращает его ID.
	CreatePayment(ctx context.Context, payment models.Payment) (int, error)
	// ReadPayment возвращает платёж по ID.
	ReadPayment(ctx context.Context, id int) (*models.Payment, error)
	// ReadPlan возвращает тарифный план по ID.
	ReadPlan(ctx context.Context, id int) (*models.Plan, error)
	// GetMemberByUID возвращает участника по UID.
	GetMemberByUID(ctx context.Context, memberUID string) (*models.Member, error)
	// GetMemberByID возвращает участника по ID.
	GetMemberByID(ctx context.Context, id int) (*models.Member, error)
	// ApprovePayment подтверждает платёж и синхронизирует карточку участника.
	ApprovePayment(ctx context.Context, paymentID int, endDate time.Time) error
	// RejectPayment отклоняет платёж.
	RejectPayment(ctx context.Context, paymentID int) error
	// ListPaymentsByMember возвращает все платежи участника.
	ListPaymentsByMember(ctx context.Context, memberID int) ([]models.Payment, error)
	// ListAllPayments возвращает все платежи с пагинацией.
	ListAllPayments(ctx context.Context, limit, offset int) ([]models.Payment, error)
}

// Service реализует бизнес-логику платежей.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Checkout создаёт заявку на оплату плана со статусом pending.
func (s *Service) Checkout(ctx context.Context, memberUID string, req models.DummyCheckout) (int, error) {
	const op = "services.payment.Checkout"

	member, err := s.repo.GetMemberByUID(ctx, memberUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	plan, err := s.repo.ReadPlan(ctx, req.PlanID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	receipt := req.ReceiptReference
	if receipt == "" {
		receipt = uuid.New().String()
	}
	payment := models.Payment{
		MemberID:         member.ID,
		PlanID:           &plan.ID,
		Amount:           req.Amount,
		PaidAt:           s.now(),
		Status:           models.PaymentStatusPending,
		ReceiptReference: receipt,
	}

	id, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created pending payment",
		slog.Int("payment_id", id), slog.Int("member_id", member.ID))
	return id, nil
}

// Approve подтверждает платёж. Дата окончания абонемента рассчитывается
// по дате платежа и длительности плана; хранилище в одной транзакции
// переводит платёж в approved и синхронизирует selected_plan_id,
// membership_start_date и membership_end_date участника. Возвращает UID
// участника для сброса кеша профиля.
func (s *Service) Approve(ctx context.Context, paymentID int) (string, error) {
	const op = "services.payment.Approve"

	payment, err := s.repo.ReadPayment(ctx, paymentID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if payment.PlanID == nil {
		return "", fmt.Errorf("%s: %w", op, ErrPaymentWithoutPlan)
	}
	plan, err := s.repo.ReadPlan(ctx, *payment.PlanID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrPaymentWithoutPlan)
	}

	endDate := dateOnly(payment.PaidAt).AddDate(0, 0, plan.DurationDays)
	if err := s.repo.ApprovePayment(ctx, paymentID, endDate); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	member, err := s.repo.GetMemberByID(ctx, payment.MemberID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("payment approved",
		slog.Int("payment_id", paymentID),
		slog.Int("member_id", member.ID),
		slog.Time("end_date", endDate))
	return member.UID, nil
}

// Reject отклоняет платёж. Возвращает UID участника для сброса кеша профиля.
func (s *Service) Reject(ctx context.Context, paymentID int) (string, error) {
	const op = "services.payment.Reject"

	payment, err := s.repo.ReadPayment(ctx, paymentID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.RejectPayment(ctx, paymentID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	member, err := s.repo.GetMemberByID(ctx, payment.MemberID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("payment rejected",
		slog.Int("payment_id", paymentID), slog.Int("member_id", member.ID))
	return member.UID, nil
}

// List возвращает платежи в зависимости от роли: администратор видит все,
// участник — только свои.
func (s *Service) List(ctx context.Context, memberUID, role string, limit, offset int) ([]models.Payment, error) {
	const op = "services.payment.List"

	if role == models.RoleAdmin {
		payments, err := s.repo.ListAllPayments(ctx, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return payments, nil
	}
	member, err := s.repo.GetMemberByUID(ctx, memberUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	payments, err := s.repo.ListPaymentsByMember(ctx, member.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payments, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
