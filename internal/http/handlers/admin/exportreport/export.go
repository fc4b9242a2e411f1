// Package exportreport выгружает отчёт по участникам в формате Excel.
package exportreport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
)

// Service определяет интерфейс сервиса отчётов.
type Service interface {
	ExportMembers(ctx context.Context) ([]byte, error)
}

// Handler обрабатывает запросы на выгрузку отчёта.
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
// @Summary Выгрузить отчёт
// @Description Формирует xlsx-файл со списком участников и их статусами
// @Tags Admin
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} byte "Файл отчёта"
// @Failure 403 {object} response.ErrorResponse "Доступ только для администратора"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/report/export [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.export"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	data, err := h.reportService.ExportMembers(r.Context())
	if err != nil {
		log.Error("failed to export members report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to export report"))
		return
	}

	log.Info("members report exported", slog.Int("size", len(data)))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="members.xlsx"`)
	if _, err := w.Write(data); err != nil {
		log.Error("failed to write response", sl.Err(err))
	}
}
