// Package scheduler содержит планировщик, который периодически находит
// абонементы с истекающим сроком и публикует их в очередь уведомлений.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
	"github.com/magabrotheeeer/gym-membership/internal/rabbitmq"
)

// MemberRepository определяет методы хранилища для поиска истекающих абонементов.
type MemberRepository interface {
	FindMembershipsExpiringTomorrow(ctx context.Context) ([]*models.ExpiringMembership, error)
}

// Service периодически публикует истекающие абонементы в очередь уведомлений.
type Service struct {
	repo MemberRepository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo MemberRepository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// FindExpiringMemberships запускает периодический поиск абонементов,
// истекающих завтра. Первый проход выполняется сразу, далее раз в сутки.
func (s *Service) FindExpiringMemberships(ctx context.Context, channel *amqp.Channel) {
	s.runFindExpiringMemberships(ctx, channel)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runFindExpiringMemberships(ctx, channel)
		}
	}
}

func (s *Service) runFindExpiringMemberships(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting search for memberships expiring tomorrow")
	expiring, err := s.repo.FindMembershipsExpiringTomorrow(ctx)
	if err != nil {
		s.log.Error("failed to find expiring memberships", sl.Err(err))
		return
	}
	if len(expiring) == 0 {
		s.log.Info("no expiring memberships found")
		return
	}
	s.log.Info("found expiring memberships", "count", len(expiring))
	for _, item := range expiring {
		err = rabbitmq.PublishExpiringMembership(channel, item)
		if err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}
