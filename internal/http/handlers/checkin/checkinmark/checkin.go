// Package checkinmark обрабатывает отметку посещения по QR-токену
// на стойке регистрации.
package checkinmark

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
	"github.com/magabrotheeeer/gym-membership/internal/services/attendance"
)

// Service определяет интерфейс сервиса посещений.
type Service interface {
	CheckIn(ctx context.Context, token string) (*models.Attendance, error)
}

// Handler обрабатывает запросы на отметку посещения.
type Handler struct {
	log               *slog.Logger
	attendanceService Service
	validate          *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, attendanceService Service) *Handler {
	return &Handler{
		log:               log,
		attendanceService: attendanceService,
		validate:          validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отметить посещение
// @Description Проверяет QR-токен и регистрирует вход участника в зал
// @Tags CheckIn
// @Accept  json
// @Produce  json
// @Param request body models.DummyCheckIn true "Токен из QR-кода"
// @Success 200 {object} response.Response "Посещение зарегистрировано"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Недействительный токен"
// @Failure 403 {object} response.ErrorResponse "Абонемент не активен"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /checkin [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkin.mark"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCheckIn
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	record, err := h.attendanceService.CheckIn(r.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrInvalidCode):
			log.Error("invalid check-in code")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid or expired check-in code"))
		case errors.Is(err, attendance.ErrNotActive):
			log.Error("membership is not active")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("membership is not active"))
		default:
			log.Error("failed to check in", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to check in"))
		}
		return
	}

	log.Info("member checked in", slog.Int("attendance_id", record.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"attendance_id": record.ID,
		"member_id":     record.MemberID,
		"checked_in_at": record.CheckedInAt,
	}))
}
