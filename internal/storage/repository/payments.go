package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// ErrPaymentNotPending возвращается при попытке подтвердить или отклонить
// платёж, который уже был рассмотрен администратором.
var ErrPaymentNotPending = errors.New("payment is not pending")

// CreatePayment вставляет новый платёж со статусом pending и возвращает его ID.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (int, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (member_id, plan_id, amount, paid_at, status, receipt_reference)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		payment.MemberID, payment.PlanID, payment.Amount, payment.PaidAt,
		payment.Status, payment.ReceiptReference).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadPayment возвращает платёж по его ID.
func (s *Storage) ReadPayment(ctx context.Context, id int) (*models.Payment, error) {
	const op = "storage.ReadPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, member_id, plan_id, amount, paid_at, status, receipt_reference, created_at
			  FROM payments WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	p, err := scanPayment(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListPaymentsByMember возвращает все платежи участника. Порядок не
// гарантируется: вычисление статуса сортирует платежи самостоятельно.
func (s *Storage) ListPaymentsByMember(ctx context.Context, memberID int) ([]models.Payment, error) {
	const op = "storage.ListPaymentsByMember"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, member_id, plan_id, amount, paid_at, status, receipt_reference, created_at
			  FROM payments
			  WHERE member_id = $1`
	rows, err := s.DB.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllPayments возвращает список всех платежей с пагинацией.
func (s *Storage) ListAllPayments(ctx context.Context, limit, offset int) ([]models.Payment, error) {
	const op = "storage.ListAllPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, member_id, plan_id, amount, paid_at, status, receipt_reference, created_at
			  FROM payments
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ApprovePayment переводит платёж из pending в approved и в той же транзакции
// синхронизирует карточку участника: selected_plan_id, membership_start_date
// и membership_end_date. Инвариант «план подтверждённого платежа совпадает
// с планом участника» обеспечивается именно здесь, на записи.
func (s *Storage) ApprovePayment(ctx context.Context, paymentID int, endDate time.Time) error {
	const op = "storage.ApprovePayment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var memberID int
	var planID sql.NullInt64
	var paidAt time.Time
	query := `UPDATE payments
			  SET status = $1
			  WHERE id = $2 AND status = $3
			  RETURNING member_id, plan_id, paid_at`
	err = tx.QueryRowContext(ctx, query,
		models.PaymentStatusApproved, paymentID, models.PaymentStatusPending).
		Scan(&memberID, &planID, &paidAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrPaymentNotPending)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query = `UPDATE members
			 SET selected_plan_id = $1,
			     membership_start_date = $2,
			     membership_end_date = $3
			 WHERE id = $4`
	if _, err = tx.ExecContext(ctx, query, planID, paidAt, endDate, memberID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RejectPayment переводит платёж из pending в rejected. Карточка участника
// не изменяется.
func (s *Storage) RejectPayment(ctx context.Context, paymentID int) error {
	const op = "storage.RejectPayment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments
			  SET status = $1
			  WHERE id = $2 AND status = $3`
	result, err := s.DB.ExecContext(ctx, query,
		models.PaymentStatusRejected, paymentID, models.PaymentStatusPending)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrPaymentNotPending)
	}
	return nil
}

// PaymentTotals возвращает общее количество платежей и сумму подтверждённой выручки.
func (s *Storage) PaymentTotals(ctx context.Context) (int, float64, error) {
	const op = "storage.PaymentTotals"
	select {
	case <-ctx.Done():
		return 0, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*),
			      COALESCE(SUM(amount) FILTER (WHERE status = $1), 0)
			  FROM payments`
	var total int
	var revenue float64
	if err := s.DB.QueryRowContext(ctx, query, models.PaymentStatusApproved).
		Scan(&total, &revenue); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, revenue, nil
}

func scanPayment(row scanner) (*models.Payment, error) {
	var p models.Payment
	var planID sql.NullInt64
	if err := row.Scan(&p.ID, &p.MemberID, &planID, &p.Amount, &p.PaidAt,
		&p.Status, &p.ReceiptReference, &p.CreatedAt); err != nil {
		return nil, err
	}
	if planID.Valid {
		id := int(planID.Int64)
		p.PlanID = &id
	}
	return &p, nil
}
