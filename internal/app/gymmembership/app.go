// Package gymmembership собирает HTTP-приложение клуба: хранилище, кеш,
// сервисы и маршруты.
package gymmembership

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/gym-membership/internal/cache"
	"github.com/magabrotheeeer/gym-membership/internal/config"
	"github.com/magabrotheeeer/gym-membership/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-membership/internal/migrations"
	attendanceservice "github.com/magabrotheeeer/gym-membership/internal/services/attendance"
	authservice "github.com/magabrotheeeer/gym-membership/internal/services/auth"
	memberservice "github.com/magabrotheeeer/gym-membership/internal/services/member"
	paymentservice "github.com/magabrotheeeer/gym-membership/internal/services/payment"
	reportservice "github.com/magabrotheeeer/gym-membership/internal/services/report"
	"github.com/magabrotheeeer/gym-membership/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и ресурсы приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New инициализирует хранилище, миграции, кеш, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.New(db, jwtMaker)
	memberService := memberservice.New(db, cacheRedis, logger)
	paymentService := paymentservice.New(db, logger)
	reportService := reportservice.New(db, memberService, logger, cfg.PendingCountsAsActive)
	attendanceService := attendanceservice.New(db, memberService, logger,
		cfg.CheckInSecretKey, cfg.CheckInTokenTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:       authService,
		Member:     memberService,
		Payment:    paymentService,
		Report:     reportService,
		Attendance: attendanceService,
		Storage:    db,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
