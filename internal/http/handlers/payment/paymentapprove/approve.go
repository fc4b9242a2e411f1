// Package paymentapprove обрабатывает подтверждение платежа администратором.
package paymentapprove

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
	"github.com/magabrotheeeer/gym-membership/internal/services/payment"
	"github.com/magabrotheeeer/gym-membership/internal/storage/repository"
)

// Service определяет интерфейс сервиса платежей.
type Service interface {
	Approve(ctx context.Context, paymentID int) (string, error)
}

// ProfileInvalidator сбрасывает кешированный профиль участника.
type ProfileInvalidator interface {
	InvalidateProfile(memberUID string)
}

// Handler обрабатывает запросы на подтверждение платежа.
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
// @Summary Подтвердить платёж
// @Description Переводит платёж в approved и синхронизирует карточку участника
// @Tags Payments
// @Produce  json
// @Param id path int true "ID платежа"
// @Success 200 {object} response.Response "Платёж подтверждён"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 409 {object} response.ErrorResponse "Платёж уже обработан"
// @Failure 422 {object} response.ErrorResponse "Платёж без тарифного плана"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payments/{id}/approve [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.approve"

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

	memberUID, err := h.paymentService.Approve(r.Context(), paymentID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPaymentNotPending):
			log.Error("payment already decided", slog.Int("payment_id", paymentID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("payment is not pending"))
		case errors.Is(err, payment.ErrPaymentWithoutPlan):
			log.Error("payment has no known plan", slog.Int("payment_id", paymentID))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("payment has no known plan"))
		default:
			log.Error("failed to approve payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to approve payment"))
		}
		return
	}

	h.profiles.InvalidateProfile(memberUID)

	log.Info("payment approved", slog.Int("payment_id", paymentID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payment_id": paymentID,
		"status":     "approved",
	}))
}
