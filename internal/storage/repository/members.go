package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

const memberColumns = `id, uid, username, email, password_hash, role,
			      selected_plan_id, membership_start_date, membership_end_date, created_at`

// RegisterMember сохраняет нового участника в базу данных и возвращает его UID.
func (s *Storage) RegisterMember(ctx context.Context, member models.Member) (string, error) {
	const op = "storage.RegisterMember"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO members (email, username, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		member.Email, member.Username, member.PasswordHash, member.Role).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetMemberByUsername возвращает участника по его username.
func (s *Storage) GetMemberByUsername(ctx context.Context, username string) (*models.Member, error) {
	const op = "storage.GetMemberByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + memberColumns + `
			  FROM members
			  WHERE username = $1`
	row := s.DB.QueryRowContext(ctx, query, username)
	return scanMember(row)
}

// GetMemberByUID возвращает участника по его UID.
func (s *Storage) GetMemberByUID(ctx context.Context, memberUID string) (*models.Member, error) {
	const op = "storage.GetMemberByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + memberColumns + `
			  FROM members
			  WHERE uid = $1`
	row := s.DB.QueryRowContext(ctx, query, memberUID)
	return scanMember(row)
}

// GetMemberByID возвращает участника по его числовому идентификатору.
func (s *Storage) GetMemberByID(ctx context.Context, id int) (*models.Member, error) {
	const op = "storage.GetMemberByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + memberColumns + `
			  FROM members
			  WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)
	return scanMember(row)
}

// ListMembersByRole возвращает список участников с указанной ролью с пагинацией.
func (s *Storage) ListMembersByRole(ctx context.Context, role string, limit, offset int) ([]*models.Member, error) {
	const op = "storage.ListMembersByRole"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + memberColumns + `
			  FROM members
			  WHERE role = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, role, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateMembershipEndDate обновляет кешированную дату окончания абонемента.
// Единственный разрешённый путь записи этой колонки: write-back после
// вычисления статуса либо подтверждение платежа.
func (s *Storage) UpdateMembershipEndDate(ctx context.Context, memberID int, endDate time.Time) error {
	const op = "storage.UpdateMembershipEndDate"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE members
			  SET membership_end_date = $1
			  WHERE id = $2`
	_, err := s.DB.ExecContext(ctx, query, endDate, memberID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// scanner объединяет *sql.Row и *sql.Rows для единообразного сканирования.
type scanner interface {
	Scan(dest ...any) error
}

func scanMember(row scanner) (*models.Member, error) {
	m := &models.Member{}
	var selectedPlanID sql.NullInt64
	var startDate, endDate sql.NullTime
	if err := row.Scan(&m.ID, &m.UID, &m.Username, &m.Email, &m.PasswordHash,
		&m.Role, &selectedPlanID, &startDate, &endDate, &m.CreatedAt); err != nil {
		return nil, err
	}
	if selectedPlanID.Valid {
		id := int(selectedPlanID.Int64)
		m.SelectedPlanID = &id
	}
	if startDate.Valid {
		m.MembershipStartDate = &startDate.Time
	}
	if endDate.Valid {
		m.MembershipEndDate = &endDate.Time
	}
	return m, nil
}
