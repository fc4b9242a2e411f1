package gymmembership

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/admin/dashboard"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/admin/exportreport"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/admin/memberlist"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/checkin/checkinmark"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/checkin/checkinqr"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/health"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/member/profile"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/payment/paymentapprove"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/payment/paymentcheckout"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/payment/paymentlist"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/payment/paymentreject"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/plan/plancreate"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/plan/planlist"
	"github.com/magabrotheeeer/gym-membership/internal/http/middlewarectx"
	attendanceservice "github.com/magabrotheeeer/gym-membership/internal/services/attendance"
	authservice "github.com/magabrotheeeer/gym-membership/internal/services/auth"
	memberservice "github.com/magabrotheeeer/gym-membership/internal/services/member"
	paymentservice "github.com/magabrotheeeer/gym-membership/internal/services/payment"
	reportservice "github.com/magabrotheeeer/gym-membership/internal/services/report"
	"github.com/magabrotheeeer/gym-membership/internal/storage/repository"
)

// Services объединяет сервисы приложения для регистрации маршрутов.
type Services struct {
	Auth       *authservice.Service
	Member     *memberservice.Service
	Payment    *paymentservice.Service
	Report     *reportservice.Service
	Attendance *attendanceservice.Service
	Storage    *repository.Storage
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, svc.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, svc.Auth).ServeHTTP)
		r.Get("/health", health.New(logger, svc.Storage).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svc.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/profile", profile.New(logger, svc.Member).ServeHTTP)
			r.Get("/plans", planlist.New(logger, svc.Storage).ServeHTTP)
			r.Post("/payments", paymentcheckout.New(logger, svc.Payment).ServeHTTP)
			r.Get("/payments/list", paymentlist.New(logger, svc.Payment).ServeHTTP)
			r.Get("/checkin/qr", checkinqr.New(logger, svc.Attendance).ServeHTTP)
			r.Post("/checkin", checkinmark.New(logger, svc.Attendance).ServeHTTP)

			// Группа только для администратора
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Post("/plans", plancreate.New(logger, svc.Storage).ServeHTTP)
				r.Post("/payments/{id}/approve", paymentapprove.New(logger, svc.Payment, svc.Member).ServeHTTP)
				r.Post("/payments/{id}/reject", paymentreject.New(logger, svc.Payment, svc.Member).ServeHTTP)
				r.Get("/admin/dashboard", dashboard.New(logger, svc.Report).ServeHTTP)
				r.Get("/admin/members", memberlist.New(logger, svc.Report).ServeHTTP)
				r.Get("/admin/report/export", exportreport.New(logger, svc.Report).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
