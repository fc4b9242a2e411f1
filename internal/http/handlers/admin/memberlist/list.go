// Package memberlist возвращает администратору список участников
// с вычисленным статусом каждого.
package memberlist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/services/report"
)

// Service определяет интерфейс сервиса отчётов.
type Service interface {
	ListMembers(ctx context.Context, limit, offset int) ([]report.MemberSummary, error)
}

// Handler обрабатывает запросы на список участников.
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
// @Summary Список участников
// @Description Возвращает страницу участников со статусами абонементов
// @Tags Admin
// @Produce  json
// @Param limit query int false "Максимум записей" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} response.Response "Список участников"
// @Failure 403 {object} response.ErrorResponse "Доступ только для администратора"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/members [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.memberlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := 20
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}

	members, err := h.reportService.ListMembers(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list members", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list members"))
		return
	}

	log.Info("members listed", slog.Int("count", len(members)))
	render.JSON(w, r, response.StatusOKWithData(members))
}
