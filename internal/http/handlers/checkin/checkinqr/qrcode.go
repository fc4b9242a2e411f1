// Package checkinqr выдаёт участнику QR-код для входа в зал.
package checkinqr

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
)

// Service определяет интерфейс сервиса посещений.
type Service interface {
	IssueCode(ctx context.Context, memberUID string) ([]byte, error)
}

// Handler обрабатывает запросы на выпуск QR-кода.
type Handler struct {
	log               *slog.Logger
	attendanceService Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, attendanceService Service) *Handler {
	return &Handler{
		log:               log,
		attendanceService: attendanceService,
	}
}

// ServeHTTP godoc
// @Summary QR-код для входа
// @Description Возвращает PNG-изображение QR-кода с короткоживущим токеном входа
// @Tags CheckIn
// @Produce  png
// @Success 200 {file} byte "PNG с QR-кодом"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /checkin/qr [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkin.qrcode"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	memberUID, ok := r.Context().Value(middlewarectx.MemberUID).(string)
	if !ok || memberUID == "" {
		log.Error("member UID not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	png, err := h.attendanceService.IssueCode(r.Context(), memberUID)
	if err != nil {
		log.Error("failed to issue check-in code", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to issue check-in code"))
		return
	}

	log.Info("check-in code issued", slog.String("member_uid", memberUID))
	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(png); err != nil {
		log.Error("failed to write response", sl.Err(err))
	}
}
