// Package paymentreject обрабатывает отклонение платежа администратором.
package paymentreject

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/storage/repository"
)

// Service определяет интерфейс сервиса платежей.
type Service interface {
	Reject(ctx context.Context, paymentID int) (string, error)
}

// ProfileInvalidator сбрасывает кешированный профиль участника.
type ProfileInvalidator interface {
	InvalidateProfile(memberUID string)
}

// Handler обрабатывает запросы на отклонение платежа.
type Handler struct {
	log            *slog.Logger
	paymentService Service
	profiles       ProfileInvalidator
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, paymentService Service, profiles ProfileInvalidator) *Handler {
	return &Handler{
		log:            log,
		paymentService: paymentService,
		profiles:       profiles,
	}
}

// ServeHTTP godoc
// @Summary Отклонить платёж
// @Description Переводит платёж из pending в rejected
// @Tags Payments
// @Produce  json
// @Param id path int true "ID платежа"
// @Success 200 {object} response.Response "Платёж отклонён"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 409 {object} response.ErrorResponse "Платёж уже обработан"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payments/{id}/reject [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.reject"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	paymentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid payment id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid payment id"))
		return
	}

	memberUID, err := h.paymentService.Reject(r.Context(), paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotPending) {
			log.Error("payment already decided", slog.Int("payment_id", paymentID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("payment is not pending"))
			return
		}
		log.Error("failed to reject payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to reject payment"))
		return
	}

	h.profiles.InvalidateProfile(memberUID)

	log.Info("payment rejected", slog.Int("payment_id", paymentID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payment_id": paymentID,
		"status":     "rejected",
	}))
}
