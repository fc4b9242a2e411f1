// Package dashboard возвращает агрегированные показатели клуба администратору.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/services/report"
)

// Service определяет интерфейс сервиса отчётов.
type Service interface {
	BuildDashboard(ctx context.Context) (*report.Dashboard, error)
}

// Handler обрабатывает запросы административной панели.
type Handler struct {
	log           *slog.Logger
	reportService Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, reportService Service) *Handler {
	return &Handler{
		log:           log,
		reportService: reportService,
	}
}

// ServeHTTP godoc
// @Summary Панель администратора
// @Description Возвращает счётчики участников по статусам и сводку по платежам
// @Tags Admin
// @Produce  json
// @Success 200 {object} response.Response "Агрегированные показатели"
// @Failure 403 {object} response.ErrorResponse "Доступ только для администратора"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/dashboard [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.dashboard"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	dashboard, err := h.reportService.BuildDashboard(r.Context())
	if err != nil {
		log.Error("failed to build dashboard", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to build dashboard"))
		return
	}

	log.Info("dashboard built", slog.Int("total_members", dashboard.TotalMembers))
	render.JSON(w, r, response.StatusOKWithData(dashboard))
}
