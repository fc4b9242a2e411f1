// Package auth содержит бизнес-логику регистрации, входа и проверки JWT.
package auth

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/gym-membership/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-membership/internal/lib/password"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// MemberRepository описывает контракт для работы с участниками в базе данных.
type MemberRepository interface {
	// RegisterMember сохраняет нового участника и возвращает его UID.
	RegisterMember(ctx context.Context, member models.Member) (string, error)

	// GetMemberByUsername возвращает участника по имени или ошибку, если не найден.
	GetMemberByUsername(ctx context.Context, username string) (*models.Member, error)
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	members  MemberRepository
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(members MemberRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		members:  members,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового участника с хэшированием пароля и ролью member.
// Роль admin назначается только напрямую в базе данных.
func (s *Service) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	member := models.Member{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hashed,
		Role:         models.RoleMember,
	}
	return s.members.RegisterMember(ctx, member)
}

// Login проверяет пароль участника и генерирует JWT.
func (s *Service) Login(ctx context.Context, req models.DummyLogin) (token, role string, err error) {
	member, err := s.members.GetMemberByUsername(ctx, req.Username)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(member.PasswordHash, req.Password); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(member.Username, member.Role, member.UID)
	if err != nil {
		return "", "", err
	}
	return token, member.Role, nil
}

// ValidateToken проверяет JWT и возвращает claims, если токен корректен.
func (s *Service) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}
