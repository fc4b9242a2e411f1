package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// FindMembershipsExpiringTomorrow находит участников, чей абонемент
// заканчивается завтра. Планировщик публикует их в очередь уведомлений.
// Запрос опирается на кешированную колонку membership_end_date:
// write-back при каждом вычислении статуса поддерживает её актуальной.
func (s *Storage) FindMembershipsExpiringTomorrow(ctx context.Context) ([]*models.ExpiringMembership, error) {
	const op = "storage.FindMembershipsExpiringTomorrow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT m.email, m.username, COALESCE(p.name, ''), m.membership_end_date
			  FROM members m
			  LEFT JOIN plans p ON p.id = m.selected_plan_id
			  WHERE m.role = $1
			    AND m.membership_end_date::DATE = CURRENT_DATE + 1;`
	rows, err := s.DB.QueryContext(ctx, query, models.RoleMember)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ExpiringMembership
	for rows.Next() {
		var item models.ExpiringMembership
		if err = rows.Scan(&item.Email, &item.Username, &item.PlanName, &item.EndDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
