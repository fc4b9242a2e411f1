package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// CreateAttendance сохраняет отметку посещения и возвращает её ID.
func (s *Storage) CreateAttendance(ctx context.Context, record models.Attendance) (int, error) {
	const op = "storage.CreateAttendance"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO attendance (member_id, checked_in_at, token)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		record.MemberID, record.CheckedInAt, record.Token).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListAttendanceByMember возвращает отметки посещений участника с пагинацией.
func (s *Storage) ListAttendanceByMember(ctx context.Context, memberID, limit, offset int) ([]*models.Attendance, error) {
	const op = "storage.ListAttendanceByMember"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, member_id, checked_in_at, token
			  FROM attendance
			  WHERE member_id = $1
			  ORDER BY checked_in_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, memberID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Attendance
	for rows.Next() {
		var item models.Attendance
		if err := rows.Scan(&item.ID, &item.MemberID, &item.CheckedInAt, &item.Token); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountAttendanceSince возвращает количество посещений с указанной даты.
// Используется панелью администратора для сводки за период.
func (s *Storage) CountAttendanceSince(ctx context.Context, since time.Time) (int, error) {
	const op = "storage.CountAttendanceSince"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM attendance WHERE checked_in_at >= $1`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
