// Package attendance содержит бизнес-логику отметки посещений: выпуск
// QR-кода для входа и его проверку на стойке регистрации.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/gym-membership/internal/lib/qr"
	"github.com/magabrotheeeer/gym-membership/internal/membership"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

var (
	// ErrInvalidCode возвращается при недействительном или просроченном QR-коде.
	ErrInvalidCode = errors.New("invalid or expired check-in code")
	// ErrNotActive возвращается при попытке входа без активного абонемента.
	ErrNotActive = errors.New("membership is not active")
)

// Repository определяет методы хранилища для учёта посещений.
type Repository interface {
	// GetMemberByUID возвращает участника по UID.
	GetMemberByUID(ctx context.Context, memberUID string) (*models.Member, error)
	// CreateAttendance сохраняет отметку посещения и возвращает её ID.
	CreateAttendance(ctx context.Context, record models.Attendance) (int, error)
	// ListAttendanceByMember возвращает отметки посещений участника.
	ListAttendanceByMember(ctx context.Context, memberID, limit, offset int) ([]*models.Attendance, error)
	// CountAttendanceSince возвращает количество посещений с указанной даты.
	CountAttendanceSince(ctx context.Context, since time.Time) (int, error)
}

// Evaluator вычисляет актуальный статус абонемента участника.
type Evaluator interface {
	Evaluate(ctx context.Context, member *models.Member) (membership.Evaluation, error)
}

// Service реализует бизнес-логику посещений.
type Service struct {
	repo      Repository
	evaluator Evaluator
	log       *slog.Logger
	secretKey string
	tokenTTL  time.Duration
	now       func() time.Time
}

// New создает новый экземпляр Service.
func New(repo Repository, evaluator Evaluator, log *slog.Logger,
	secretKey string, tokenTTL time.Duration) *Service {
	return &Service{
		repo:      repo,
		evaluator: evaluator,
		log:       log,
		secretKey: secretKey,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// IssueCode выпускает короткоживущий подписанный токен входа и возвращает
// его в виде PNG-изображения QR-кода.
func (s *Service) IssueCode(ctx context.Context, memberUID string) ([]byte, error) {
	const op = "services.attendance.IssueCode"

	member, err := s.repo.GetMemberByUID(ctx, memberUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.signToken(member.UID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	png, err := qr.EncodePNG(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return png, nil
}

// CheckIn проверяет токен из QR-кода и регистрирует посещение. Вход
// разрешён только участнику с активным абонементом.
func (s *Service) CheckIn(ctx context.Context, token string) (*models.Attendance, error) {
	const op = "services.attendance.CheckIn"

	memberUID, err := s.parseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCode)
	}
	member, err := s.repo.GetMemberByUID(ctx, memberUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	eval, err := s.evaluator.Evaluate(ctx, member)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if eval.State != membership.StateActive {
		s.log.Info("check-in denied",
			slog.String("member_uid", memberUID),
			slog.String("state", string(eval.State)))
		return nil, fmt.Errorf("%s: %w", op, ErrNotActive)
	}

	record := models.Attendance{
		MemberID:    member.ID,
		CheckedInAt: s.now(),
		Token:       token,
	}
	id, err := s.repo.CreateAttendance(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	record.ID = id
	s.log.Info("member checked in",
		slog.Int("attendance_id", id), slog.Int("member_id", member.ID))
	return &record, nil
}

// ListVisits возвращает историю посещений участника.
func (s *Service) ListVisits(ctx context.Context, memberUID string, limit, offset int) ([]*models.Attendance, error) {
	const op = "services.attendance.ListVisits"

	member, err := s.repo.GetMemberByUID(ctx, memberUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	visits, err := s.repo.ListAttendanceByMember(ctx, member.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return visits, nil
}

// VisitsSince возвращает количество посещений зала с указанной даты.
func (s *Service) VisitsSince(ctx context.Context, since time.Time) (int, error) {
	const op = "services.attendance.VisitsSince"

	count, err := s.repo.CountAttendanceSince(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

func (s *Service) signToken(memberUID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   memberUID,
		IssuedAt:  jwt.NewNumericDate(s.now()),
		ExpiresAt: jwt.NewNumericDate(s.now().Add(s.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.secretKey))
}

func (s *Service) parseToken(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(s.secretKey), nil
		})
	if err != nil || !token.Valid {
		return "", ErrInvalidCode
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidCode
	}
	return claims.Subject, nil
}
